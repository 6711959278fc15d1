package invoice

import (
	"context"
	"fmt"

	"invoiceinsight/internal/domain"
)

// requiredFieldValidator checks that a header field was extracted.
type requiredFieldValidator struct {
	ruleKey   string
	ruleName  string
	fieldPath string
	severity  domain.FindingSeverity
	present   func(*domain.InvoiceRecord) (string, bool)
}

func (v *requiredFieldValidator) RuleKey() string                  { return v.ruleKey }
func (v *requiredFieldValidator) RuleName() string                 { return v.ruleName }
func (v *requiredFieldValidator) Severity() domain.FindingSeverity { return v.severity }

func (v *requiredFieldValidator) Validate(_ context.Context, rec *domain.InvoiceRecord) []ValidationResult {
	val, ok := v.present(rec)
	return []ValidationResult{{
		Passed:        ok,
		FieldPath:     v.fieldPath,
		ExpectedValue: "non-empty value",
		ActualValue:   val,
		Message:       fieldMessage(ok, v.ruleName, v.fieldPath),
	}}
}

func fieldMessage(passed bool, ruleName, fieldPath string) string {
	if passed {
		return fmt.Sprintf("%s: %s is present", ruleName, fieldPath)
	}
	return fmt.Sprintf("%s: %s is missing or empty", ruleName, fieldPath)
}

func stringPresent(s *string) (string, bool) {
	if s == nil {
		return "", false
	}
	return *s, *s != ""
}

func amountPresent(f *float64) (string, bool) {
	if f == nil {
		return "", false
	}
	return fmtf(*f), true
}

// RequiredFieldValidators returns all required field validators.
func RequiredFieldValidators() []*requiredFieldValidator {
	return []*requiredFieldValidator{
		{
			ruleKey: "req.vendor", ruleName: "Required: Vendor",
			fieldPath: domain.KeyVendor, severity: domain.SeverityWarning,
			present: func(r *domain.InvoiceRecord) (string, bool) { return stringPresent(r.Vendor) },
		},
		{
			ruleKey: "req.invoice_number", ruleName: "Required: Invoice Number",
			fieldPath: domain.KeyInvoiceNumber, severity: domain.SeverityWarning,
			present: func(r *domain.InvoiceRecord) (string, bool) { return stringPresent(r.InvoiceNumber) },
		},
		{
			ruleKey: "req.date", ruleName: "Required: Invoice Date",
			fieldPath: domain.KeyDate, severity: domain.SeverityWarning,
			present: func(r *domain.InvoiceRecord) (string, bool) { return stringPresent(r.Date) },
		},
		{
			ruleKey: "req.total", ruleName: "Required: Total",
			fieldPath: domain.KeyTotal, severity: domain.SeverityError,
			present: func(r *domain.InvoiceRecord) (string, bool) { return amountPresent(r.Total) },
		},
	}
}
