package invoice

import (
	"context"
	"fmt"
	"time"

	"invoiceinsight/internal/domain"
)

const isoDateLayout = "2006-01-02"

// formatValidator checks a field against a format rule.
type formatValidator struct {
	ruleKey  string
	ruleName string
	severity domain.FindingSeverity
	validate func(*domain.InvoiceRecord) []ValidationResult
}

func (v *formatValidator) RuleKey() string                  { return v.ruleKey }
func (v *formatValidator) RuleName() string                 { return v.ruleName }
func (v *formatValidator) Severity() domain.FindingSeverity { return v.severity }

func (v *formatValidator) Validate(_ context.Context, rec *domain.InvoiceRecord) []ValidationResult {
	return v.validate(rec)
}

// isoDateCheck passes empty values; a missing date is the required rule's concern.
func isoDateCheck(fieldPath, value, ruleName string) ValidationResult {
	if value == "" {
		return ValidationResult{
			Passed: true, FieldPath: fieldPath,
			ExpectedValue: isoDateLayout, ActualValue: value,
			Message: fmt.Sprintf("%s: field is empty, skipping date check", ruleName),
		}
	}
	_, err := time.Parse(isoDateLayout, value)
	passed := err == nil
	msg := fmt.Sprintf("%s: %s is an ISO-8601 date", ruleName, fieldPath)
	if !passed {
		msg = fmt.Sprintf("%s: %s is not an ISO-8601 (YYYY-MM-DD) date", ruleName, fieldPath)
	}
	return ValidationResult{
		Passed: passed, FieldPath: fieldPath,
		ExpectedValue: isoDateLayout, ActualValue: value, Message: msg,
	}
}

// FormatValidators returns all format validators.
func FormatValidators() []*formatValidator {
	return []*formatValidator{
		{
			ruleKey: "format.date_iso8601", ruleName: "Format: Invoice Date",
			severity: domain.SeverityWarning,
			validate: func(r *domain.InvoiceRecord) []ValidationResult {
				val, _ := stringPresent(r.Date)
				return []ValidationResult{isoDateCheck(domain.KeyDate, val, "Format: Invoice Date")}
			},
		},
	}
}
