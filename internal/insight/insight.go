// Package insight asks the model for a short narrative about a normalized invoice.
package insight

import (
	"context"
	"encoding/json"
	"fmt"

	"go.uber.org/zap"

	"invoiceinsight/internal/domain"
	"invoiceinsight/internal/port"
)

const maxTokens = 400

// Stage produces the insight text for a record. The answer is returned as-is.
type Stage struct {
	gen    port.Generator
	logger *zap.Logger
}

// NewStage creates an insight stage backed by gen.
func NewStage(gen port.Generator, logger *zap.Logger) *Stage {
	return &Stage{gen: gen, logger: logger}
}

// BuildPrompt serializes rec into the insight request.
func BuildPrompt(rec *domain.InvoiceRecord) (string, error) {
	data, err := json.Marshal(rec)
	if err != nil {
		return "", fmt.Errorf("encoding invoice record: %w", err)
	}
	return fmt.Sprintf("Given this invoice data: %s\n"+
		"Provide a short summary (2-3 sentences) and list top 3 expense categories and suggestions.\n"+
		"Format the categories and the suggestions as bullet points.", data), nil
}

// Summarize makes one model call and returns its raw text.
func (s *Stage) Summarize(ctx context.Context, rec *domain.InvoiceRecord) (string, error) {
	prompt, err := BuildPrompt(rec)
	if err != nil {
		return "", err
	}
	text, err := s.gen.Generate(ctx, prompt, port.GenerateOptions{MaxTokens: maxTokens})
	if err != nil {
		return "", fmt.Errorf("generating insight: %w", err)
	}
	s.logger.Debug("insight.Summarize: done", zap.Int("chars", len(text)))
	return text, nil
}
