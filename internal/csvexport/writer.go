package csvexport

import (
	"encoding/csv"
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"
	"time"

	"invoiceinsight/internal/domain"
)

// UTF-8 BOM bytes for Excel compatibility on Windows.
var BOM = []byte{0xEF, 0xBB, 0xBF}

// Columns defines the export header row. Invoice header values repeat on every
// line item row so each row stands alone in a spreadsheet.
var Columns = []string{
	"Session ID",
	"Vendor",
	"Invoice Number",
	"Invoice Date",
	"Line",
	"Description",
	"Quantity",
	"Unit Price",
	"Line Total",
	"Subtotal",
	"Tax",
	"Total",
}

// Writer wraps csv.Writer for exporting a session's invoice as CSV.
type Writer struct {
	csv *csv.Writer
}

// NewWriter creates a Writer that writes CSV to w.
func NewWriter(w io.Writer) *Writer {
	return &Writer{csv: csv.NewWriter(w)}
}

// WriteHeader writes the header row.
func (w *Writer) WriteHeader() error {
	return w.csv.Write(Columns)
}

// WriteRecord writes one row per line item of rec.
func (w *Writer) WriteRecord(sessionID string, rec *domain.InvoiceRecord) error {
	return w.csv.WriteAll(Rows(sessionID, rec))
}

// Flush flushes the underlying csv.Writer buffer.
func (w *Writer) Flush() {
	w.csv.Flush()
}

// Error returns any error from the underlying csv.Writer.
func (w *Writer) Error() error {
	return w.csv.Error()
}

// Rows converts rec into export rows. A record without line items still
// produces one row carrying its header fields.
func Rows(sessionID string, rec *domain.InvoiceRecord) [][]string {
	header := func() []string {
		row := make([]string, len(Columns))
		row[0] = sessionID
		row[1] = formatText(rec.Vendor)
		row[2] = formatText(rec.InvoiceNumber)
		row[3] = formatText(rec.Date)
		row[9] = formatMoney(rec.Subtotal)
		row[10] = formatMoney(rec.Tax)
		row[11] = formatMoney(rec.Total)
		return row
	}

	if len(rec.LineItems) == 0 {
		return [][]string{header()}
	}

	rows := make([][]string, 0, len(rec.LineItems))
	for i, item := range rec.LineItems {
		row := header()
		row[4] = strconv.Itoa(i + 1)
		row[5] = formatText(item.Description)
		row[6] = strconv.FormatFloat(item.Qty, 'f', -1, 64)
		row[7] = formatAmount(item.Price)
		row[8] = formatAmount(item.Qty * item.Price)
		rows = append(rows, row)
	}
	return rows
}

func formatText(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func formatMoney(v *float64) string {
	if v == nil {
		return ""
	}
	return formatAmount(*v)
}

func formatAmount(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}

// nonAlphanumeric matches characters that are not alphanumeric, hyphen, or underscore.
var nonAlphanumeric = regexp.MustCompile(`[^a-zA-Z0-9_-]+`)

// multiUnderscore matches consecutive underscores.
var multiUnderscore = regexp.MustCompile(`_{2,}`)

// SanitizeFilename cleans a name for use in Content-Disposition.
// Replaces non-alphanumeric chars (except - _) with _, collapses consecutive
// underscores, and truncates to 100 chars.
func SanitizeFilename(name string) string {
	s := nonAlphanumeric.ReplaceAllString(name, "_")
	s = multiUnderscore.ReplaceAllString(s, "_")
	s = strings.Trim(s, "_")
	if len(s) > 100 {
		s = s[:100]
	}
	if s == "" {
		s = "invoice"
	}
	return s
}

// BuildFilename returns a sanitized filename for Content-Disposition header.
// Format: invoice_{sanitized_session_id}_{YYYY-MM-DD}.{ext}
func BuildFilename(sessionID, ext string) string {
	date := time.Now().Format("2006-01-02")
	return fmt.Sprintf("invoice_%s_%s.%s", SanitizeFilename(sessionID), date, ext)
}
