package invoice

import (
	"context"
	"fmt"
	"math"

	"invoiceinsight/internal/domain"
)

const mathTolerance = 1.00

// mathValidator checks arithmetic relationships between fields. A relationship
// with a null operand is not checked.
type mathValidator struct {
	ruleKey  string
	ruleName string
	severity domain.FindingSeverity
	validate func(*domain.InvoiceRecord) []ValidationResult
}

func (v *mathValidator) RuleKey() string                  { return v.ruleKey }
func (v *mathValidator) RuleName() string                 { return v.ruleName }
func (v *mathValidator) Severity() domain.FindingSeverity { return v.severity }

func (v *mathValidator) Validate(_ context.Context, rec *domain.InvoiceRecord) []ValidationResult {
	return v.validate(rec)
}

func approxEqual(a, b float64) bool {
	return math.Abs(a-b) <= mathTolerance
}

func mathResult(passed bool, fieldPath, expected, actual, ruleName string) ValidationResult {
	msg := fmt.Sprintf("%s: %s calculation matches", ruleName, fieldPath)
	if !passed {
		msg = fmt.Sprintf("%s: %s calculation mismatch (expected %s, got %s)", ruleName, fieldPath, expected, actual)
	}
	return ValidationResult{
		Passed: passed, FieldPath: fieldPath,
		ExpectedValue: expected, ActualValue: actual, Message: msg,
	}
}

func fmtf(v float64) string {
	return fmt.Sprintf("%.2f", v)
}

// MathValidators returns all mathematical validators.
func MathValidators() []*mathValidator {
	return []*mathValidator{
		{
			ruleKey: "math.subtotal", ruleName: "Math: Subtotal",
			severity: domain.SeverityWarning,
			validate: func(r *domain.InvoiceRecord) []ValidationResult {
				if r.Subtotal == nil || len(r.LineItems) == 0 {
					return nil
				}
				var sum float64
				for _, item := range r.LineItems {
					sum += item.Qty * item.Price
				}
				passed := approxEqual(*r.Subtotal, sum)
				return []ValidationResult{mathResult(passed, domain.KeySubtotal, fmtf(sum), fmtf(*r.Subtotal), "Math: Subtotal")}
			},
		},
		{
			ruleKey: "math.total", ruleName: "Math: Total",
			severity: domain.SeverityWarning,
			validate: func(r *domain.InvoiceRecord) []ValidationResult {
				if r.Subtotal == nil || r.Total == nil {
					return nil
				}
				expected := *r.Subtotal
				if r.Tax != nil {
					expected += *r.Tax
				}
				passed := approxEqual(*r.Total, expected)
				return []ValidationResult{mathResult(passed, domain.KeyTotal, fmtf(expected), fmtf(*r.Total), "Math: Total")}
			},
		},
	}
}
