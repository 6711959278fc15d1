package validator

import (
	"context"

	"invoiceinsight/internal/domain"
	"invoiceinsight/internal/validator/invoice"
)

// Validator is the interface for a single built-in consistency rule.
type Validator interface {
	Validate(ctx context.Context, rec *domain.InvoiceRecord) []invoice.ValidationResult
	RuleKey() string
	RuleName() string
	Severity() domain.FindingSeverity
}
