package fields

import (
	"context"
	"fmt"

	"github.com/santhosh-tekuri/jsonschema/v5"
	"go.uber.org/zap"

	"invoiceinsight/internal/domain"
	"invoiceinsight/internal/llm"
	"invoiceinsight/internal/port"
)

// Stage asks the model for the invoice fields of a document's text and parses the
// answer through a chain of parse strategies. It makes exactly one model call per document.
type Stage struct {
	gen    port.Generator
	chain  Chain
	schema *jsonschema.Schema
	logger *zap.Logger
}

// NewStage builds the strategy chain for gen: structured parsing comes first only
// when gen guarantees JSON object answers.
func NewStage(gen port.Generator, logger *zap.Logger) (*Stage, error) {
	schema, err := compileSchema()
	if err != nil {
		return nil, err
	}

	var chain Chain
	if c, ok := gen.(port.JSONObjectCapable); ok && c.SupportsJSONObject() {
		chain = append(chain, StructuredStrategy{})
	}
	chain = append(chain, BraceScanStrategy{})

	return &Stage{gen: gen, chain: chain, schema: schema, logger: logger}, nil
}

// Extract returns the model's record for text. An unparseable answer yields the
// give-up record, not an error; only a failed model call is returned as an error.
func (s *Stage) Extract(ctx context.Context, text string) (domain.RawRecord, error) {
	output, err := s.gen.Generate(ctx, BuildPrompt(text), port.GenerateOptions{
		MaxTokens:  maxTokens,
		JSONObject: true,
	})
	if err != nil {
		return nil, fmt.Errorf("generating invoice fields: %w", err)
	}

	rec, strategy, err := s.chain.Parse(output)
	if err != nil {
		s.logger.Warn("fields.Extract: model output did not parse",
			zap.Error(err),
			zap.String("output", llm.Truncate(output, 500)),
		)
		return GiveUp(text, output, err), nil
	}

	if err := checkShape(s.schema, rec); err != nil {
		s.logger.Warn("fields.Extract: unexpected record shape", zap.Error(err))
	}
	s.logger.Debug("fields.Extract: parsed", zap.String("strategy", strategy), zap.Int("keys", len(rec)))
	return rec, nil
}
