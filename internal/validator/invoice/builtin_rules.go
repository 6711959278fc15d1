package invoice

import (
	"context"

	"invoiceinsight/internal/domain"
)

// BuiltinValidator wraps a validator function and its metadata for the registry.
type BuiltinValidator struct {
	key  string
	name string
	sev  domain.FindingSeverity
	fn   func(context.Context, *domain.InvoiceRecord) []ValidationResult
}

func (b *BuiltinValidator) Validate(ctx context.Context, rec *domain.InvoiceRecord) []ValidationResult {
	return b.fn(ctx, rec)
}
func (b *BuiltinValidator) RuleKey() string                  { return b.key }
func (b *BuiltinValidator) RuleName() string                 { return b.name }
func (b *BuiltinValidator) Severity() domain.FindingSeverity { return b.sev }

// AllBuiltinValidators returns all built-in invoice consistency rules.
func AllBuiltinValidators() []*BuiltinValidator {
	reqVals := RequiredFieldValidators()
	fmtVals := FormatValidators()
	mathVals := MathValidators()
	all := make([]*BuiltinValidator, 0, len(reqVals)+len(fmtVals)+len(mathVals))

	for _, v := range reqVals {
		all = append(all, &BuiltinValidator{key: v.RuleKey(), name: v.RuleName(), sev: v.Severity(), fn: v.Validate})
	}
	for _, v := range fmtVals {
		all = append(all, &BuiltinValidator{key: v.RuleKey(), name: v.RuleName(), sev: v.Severity(), fn: v.Validate})
	}
	for _, v := range mathVals {
		all = append(all, &BuiltinValidator{key: v.RuleKey(), name: v.RuleName(), sev: v.Severity(), fn: v.Validate})
	}
	return all
}
