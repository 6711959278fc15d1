// Package conversation builds and issues one chat turn grounded in a session's invoice.
package conversation

import (
	"context"
	"encoding/json"
	"fmt"

	"invoiceinsight/internal/domain"
	"invoiceinsight/internal/port"
)

const maxTokens = 300

// SystemPrompt fixes the assistant's persona and scope.
const SystemPrompt = "You are InvoiceInsight, an assistant for invoice analysis. " +
	"When a CURRENT INVOICE DATA section is present, use it to answer questions about the invoice. " +
	"You may also answer general knowledge and current affairs questions; say so when an answer is not based on the invoice."

const (
	contextHeader = "CURRENT INVOICE DATA:\n"
	queryHeader   = "USER QUERY: "
)

// BuildPrompt prepends the serialized invoice, when there is one, to the user's query.
func BuildPrompt(rec *domain.InvoiceRecord, prompt string) (string, error) {
	if rec == nil {
		return queryHeader + prompt, nil
	}
	data, err := json.MarshalIndent(rec, "", "  ")
	if err != nil {
		return "", fmt.Errorf("encoding invoice record: %w", err)
	}
	return contextHeader + string(data) + "\n\n" + queryHeader + prompt, nil
}

// Stage answers one chat turn with a single model call.
type Stage struct {
	gen port.Generator
}

// NewStage creates a conversation stage backed by gen.
func NewStage(gen port.Generator) *Stage {
	return &Stage{gen: gen}
}

// Reply answers prompt in the context of rec, which may be nil.
func (s *Stage) Reply(ctx context.Context, rec *domain.InvoiceRecord, prompt string) (string, error) {
	full, err := BuildPrompt(rec, prompt)
	if err != nil {
		return "", err
	}
	reply, err := s.gen.Generate(ctx, full, port.GenerateOptions{System: SystemPrompt, MaxTokens: maxTokens})
	if err != nil {
		return "", fmt.Errorf("generating reply: %w", err)
	}
	return reply, nil
}
