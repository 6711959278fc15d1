package validator

import (
	"context"

	"go.uber.org/zap"

	"invoiceinsight/internal/domain"
	"invoiceinsight/internal/validator/invoice"
)

// Engine runs every registered rule against a normalized record. Findings are
// advisory: they never modify the record and never fail the pipeline.
type Engine struct {
	registry *Registry
	logger   *zap.Logger
}

// NewEngine creates a new consistency check engine.
func NewEngine(registry *Registry, logger *zap.Logger) *Engine {
	return &Engine{registry: registry, logger: logger}
}

// Run returns one finding per rule result, in rule key order.
func (e *Engine) Run(ctx context.Context, rec *domain.InvoiceRecord) []domain.Finding {
	var findings []domain.Finding
	failed := 0
	for _, v := range e.registry.All() {
		for _, r := range v.Validate(ctx, rec) {
			findings = append(findings, domain.Finding{
				RuleKey:   v.RuleKey(),
				RuleName:  v.RuleName(),
				FieldPath: r.FieldPath,
				Severity:  v.Severity(),
				Passed:    r.Passed,
				Message:   r.Message,
			})
			if !r.Passed {
				failed++
			}
		}
	}

	e.logger.Debug("validator.Engine: record checked",
		zap.Int("results", len(findings)),
		zap.Int("failed", failed),
	)
	return findings
}

// Failed returns only the findings that did not pass.
func Failed(findings []domain.Finding) []domain.Finding {
	out := make([]domain.Finding, 0, len(findings))
	for _, f := range findings {
		if !f.Passed {
			out = append(out, f)
		}
	}
	return out
}

func builtins() []Validator {
	all := invoice.AllBuiltinValidators()
	out := make([]Validator, 0, len(all))
	for _, v := range all {
		out = append(out, v)
	}
	return out
}
