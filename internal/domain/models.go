package domain

import (
	"encoding/json"
	"fmt"
)

// DefaultSessionID is used when a caller does not name a session.
const DefaultSessionID = "default"

// RawDocument is an uploaded document held in memory for the duration of one request.
type RawDocument struct {
	Name  string
	Kind  DocumentKind
	Bytes []byte
}

// RawRecord is the untyped, pre-validation answer of the field extraction stage.
type RawRecord map[string]any

// Keys of the give-up record produced when a model answer cannot be parsed.
const (
	RawKeyText      = "raw_text"
	RawKeyLLMOutput = "llm_output"
	RawKeyError     = "error"
)

// Canonical InvoiceRecord keys.
const (
	KeyVendor        = "vendor"
	KeyDate          = "date"
	KeyInvoiceNumber = "invoice_number"
	KeyLineItems     = "line_items"
	KeySubtotal      = "subtotal"
	KeyTax           = "tax"
	KeyTotal         = "total"
)

// CanonicalKeys lists every key of the canonical invoice schema.
var CanonicalKeys = []string{KeyVendor, KeyDate, KeyInvoiceNumber, KeyLineItems, KeySubtotal, KeyTax, KeyTotal}

// LineItem is a single normalized invoice line.
type LineItem struct {
	Description *string `json:"description"`
	Qty         float64 `json:"qty"`
	Price       float64 `json:"price"`
}

// InvoiceRecord is the canonical, normalized invoice.
// Keys outside the canonical set are kept in Extra and serialized alongside the canonical ones.
type InvoiceRecord struct {
	Vendor        *string
	Date          *string
	InvoiceNumber *string
	LineItems     []LineItem
	Subtotal      *float64
	Tax           *float64
	Total         *float64
	Extra         map[string]any
}

// MarshalJSON always emits every canonical key; line_items is never null.
func (r InvoiceRecord) MarshalJSON() ([]byte, error) {
	out := make(map[string]any, len(r.Extra)+len(CanonicalKeys))
	for k, v := range r.Extra {
		out[k] = v
	}
	items := r.LineItems
	if items == nil {
		items = []LineItem{}
	}
	out[KeyVendor] = r.Vendor
	out[KeyDate] = r.Date
	out[KeyInvoiceNumber] = r.InvoiceNumber
	out[KeyLineItems] = items
	out[KeySubtotal] = r.Subtotal
	out[KeyTax] = r.Tax
	out[KeyTotal] = r.Total
	return json.Marshal(out)
}

// UnmarshalJSON reads a record previously written by MarshalJSON.
func (r *InvoiceRecord) UnmarshalJSON(data []byte) error {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return err
	}

	var rec InvoiceRecord
	targets := map[string]any{
		KeyVendor:        &rec.Vendor,
		KeyDate:          &rec.Date,
		KeyInvoiceNumber: &rec.InvoiceNumber,
		KeyLineItems:     &rec.LineItems,
		KeySubtotal:      &rec.Subtotal,
		KeyTax:           &rec.Tax,
		KeyTotal:         &rec.Total,
	}
	for key, raw := range fields {
		if target, ok := targets[key]; ok {
			if err := json.Unmarshal(raw, target); err != nil {
				return fmt.Errorf("decoding %s: %w", key, err)
			}
			continue
		}
		var v any
		if err := json.Unmarshal(raw, &v); err != nil {
			return fmt.Errorf("decoding %s: %w", key, err)
		}
		if rec.Extra == nil {
			rec.Extra = make(map[string]any)
		}
		rec.Extra[key] = v
	}
	if rec.LineItems == nil {
		rec.LineItems = []LineItem{}
	}
	*r = rec
	return nil
}

// AsRawRecord returns the record in the shape the model would have produced it.
func (r *InvoiceRecord) AsRawRecord() (RawRecord, error) {
	data, err := json.Marshal(r)
	if err != nil {
		return nil, err
	}
	var raw RawRecord
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, err
	}
	return raw, nil
}

// Turn is one entry of a session's conversation transcript.
type Turn struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// SessionState is everything persisted for one session id.
type SessionState struct {
	Extractions *InvoiceRecord `json:"extractions,omitempty"`
	History     []Turn         `json:"history"`
}

// Finding is the outcome of one consistency check against an InvoiceRecord.
type Finding struct {
	RuleKey   string          `json:"rule_key"`
	RuleName  string          `json:"rule_name"`
	FieldPath string          `json:"field_path"`
	Severity  FindingSeverity `json:"severity"`
	Passed    bool            `json:"passed"`
	Message   string          `json:"message"`
}
