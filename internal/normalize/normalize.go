// Package normalize coerces the model's untyped answer into the canonical
// InvoiceRecord. Normalization never fails: fields that cannot be coerced
// become null and line items that cannot be coerced are dropped.
package normalize

import (
	"errors"
	"strconv"

	"invoiceinsight/internal/domain"
)

// Normalize returns the canonical record for raw. Keys outside the canonical
// set are carried over unchanged.
func Normalize(raw domain.RawRecord) *domain.InvoiceRecord {
	rec := &domain.InvoiceRecord{
		Vendor:        text(raw[domain.KeyVendor]),
		Date:          text(raw[domain.KeyDate]),
		InvoiceNumber: text(raw[domain.KeyInvoiceNumber]),
		LineItems:     lineItems(raw[domain.KeyLineItems]),
		Subtotal:      amount(raw[domain.KeySubtotal]),
		Tax:           amount(raw[domain.KeyTax]),
		Total:         amount(raw[domain.KeyTotal]),
	}

	for k, v := range raw {
		if isCanonical(k) {
			continue
		}
		if rec.Extra == nil {
			rec.Extra = make(map[string]any)
		}
		rec.Extra[k] = v
	}
	return rec
}

func isCanonical(key string) bool {
	for _, k := range domain.CanonicalKeys {
		if k == key {
			return true
		}
	}
	return false
}

// amount is the header amount policy: null on anything that does not coerce.
func amount(v any) *float64 {
	if v == nil {
		return nil
	}
	f, err := parseAmount(v)
	if err != nil {
		return nil
	}
	return &f
}

func text(v any) *string {
	switch t := v.(type) {
	case string:
		return &t
	case float64, float32, int, int64:
		f, err := parseAmount(t)
		if err != nil {
			return nil
		}
		s := strconv.FormatFloat(f, 'f', -1, 64)
		return &s
	default:
		return nil
	}
}

func lineItems(v any) []domain.LineItem {
	items := []domain.LineItem{}
	list, ok := v.([]any)
	if !ok {
		return items
	}
	for _, raw := range list {
		obj, ok := raw.(map[string]any)
		if !ok {
			continue
		}
		item, ok := lineItem(obj)
		if !ok {
			continue
		}
		items = append(items, item)
	}
	return items
}

func lineItem(obj map[string]any) (domain.LineItem, bool) {
	qty, err := quantity(obj["qty"])
	if err != nil {
		return domain.LineItem{}, false
	}
	price, err := quantity(obj["price"])
	if err != nil {
		return domain.LineItem{}, false
	}
	return domain.LineItem{
		Description: text(obj["description"]),
		Qty:         qty,
		Price:       price,
	}, true
}

// quantity is the line item policy: missing, null or empty means zero, any
// other coercion failure is an error.
func quantity(v any) (float64, error) {
	if v == nil {
		return 0, nil
	}
	f, err := parseAmount(v)
	if errors.Is(err, errEmpty) {
		return 0, nil
	}
	return f, err
}
