package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"invoiceinsight/internal/csvexport"
	"invoiceinsight/internal/domain"
	"invoiceinsight/internal/port"
)

const xlsxSheet = "Invoice"

// ExportResult is a rendered download.
type ExportResult struct {
	Filename    string
	ContentType string
	Data        []byte
}

// ExportService defines the invoice download contract.
type ExportService interface {
	Export(ctx context.Context, sessionID string, format domain.ExportFormat) (*ExportResult, error)
}

type exportService struct {
	sessions port.SessionStore
	logger   *zap.Logger
}

// NewExportService creates a new ExportService implementation.
func NewExportService(sessions port.SessionStore, logger *zap.Logger) ExportService {
	return &exportService{sessions: sessions, logger: logger}
}

// Export renders the session's current invoice. An empty format means CSV.
func (s *exportService) Export(ctx context.Context, sessionID string, format domain.ExportFormat) (*ExportResult, error) {
	if format == "" {
		format = domain.ExportFormatCSV
	}
	if format != domain.ExportFormatCSV && format != domain.ExportFormatXLSX {
		return nil, domain.ErrUnsupportedExportFormat
	}

	state, err := s.sessions.Load(ctx, sessionID)
	if err != nil {
		if errors.Is(err, domain.ErrSessionNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("loading session: %w", err)
	}
	if state.Extractions == nil {
		return nil, domain.ErrNoInvoiceData
	}

	start := time.Now()
	var result *ExportResult
	switch format {
	case domain.ExportFormatXLSX:
		result, err = renderXLSX(sessionID, state.Extractions)
	default:
		result, err = renderCSV(sessionID, state.Extractions)
	}
	if err != nil {
		return nil, err
	}

	s.logger.Info("service.Export: rendered",
		zap.String("session_id", sessionID),
		zap.String("format", string(format)),
		zap.Int("bytes", len(result.Data)),
		zap.Duration("elapsed", time.Since(start)),
	)
	return result, nil
}

func renderCSV(sessionID string, rec *domain.InvoiceRecord) (*ExportResult, error) {
	var buf bytes.Buffer
	buf.Write(csvexport.BOM)

	w := csvexport.NewWriter(&buf)
	if err := w.WriteHeader(); err != nil {
		return nil, fmt.Errorf("csv write: %w", err)
	}
	if err := w.WriteRecord(sessionID, rec); err != nil {
		return nil, fmt.Errorf("csv write: %w", err)
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("csv write: %w", err)
	}

	return &ExportResult{
		Filename:    csvexport.BuildFilename(sessionID, "csv"),
		ContentType: "text/csv; charset=utf-8",
		Data:        buf.Bytes(),
	}, nil
}

func renderXLSX(sessionID string, rec *domain.InvoiceRecord) (*ExportResult, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", xlsxSheet); err != nil {
		return nil, fmt.Errorf("xlsx sheet: %w", err)
	}

	for i, h := range csvexport.Columns {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(xlsxSheet, cell, h)
	}
	for r, row := range csvexport.Rows(sessionID, rec) {
		for c, v := range row {
			cell, _ := excelize.CoordinatesToCellName(c+1, r+2)
			_ = f.SetCellValue(xlsxSheet, cell, v)
		}
	}

	// Widen the text columns
	_ = f.SetColWidth(xlsxSheet, "A", "A", 18) // session
	_ = f.SetColWidth(xlsxSheet, "B", "B", 28) // vendor
	_ = f.SetColWidth(xlsxSheet, "C", "D", 16) // number, date
	_ = f.SetColWidth(xlsxSheet, "F", "F", 40) // description

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("xlsx write: %w", err)
	}
	return &ExportResult{
		Filename:    csvexport.BuildFilename(sessionID, "xlsx"),
		ContentType: "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
		Data:        buf.Bytes(),
	}, nil
}
