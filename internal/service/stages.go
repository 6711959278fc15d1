package service

import (
	"context"
	"errors"

	"invoiceinsight/internal/domain"
	"invoiceinsight/internal/port"
)

// FieldExtractor turns document text into the model's raw record.
type FieldExtractor interface {
	Extract(ctx context.Context, text string) (domain.RawRecord, error)
}

// Checker runs consistency checks against a normalized record.
type Checker interface {
	Run(ctx context.Context, rec *domain.InvoiceRecord) []domain.Finding
}

// Summarizer produces the narrative insight for a normalized record.
type Summarizer interface {
	Summarize(ctx context.Context, rec *domain.InvoiceRecord) (string, error)
}

// Replier answers one chat turn given the session's invoice, which may be nil.
type Replier interface {
	Reply(ctx context.Context, rec *domain.InvoiceRecord, prompt string) (string, error)
}

// loadOrNew returns the stored state for id, or a fresh state when none exists.
func loadOrNew(ctx context.Context, sessions port.SessionStore, id string) (*domain.SessionState, error) {
	state, err := sessions.Load(ctx, id)
	if err == nil {
		return state, nil
	}
	if errors.Is(err, domain.ErrSessionNotFound) {
		return &domain.SessionState{}, nil
	}
	return nil, err
}

func sessionIDOrDefault(id string) string {
	if id == "" {
		return domain.DefaultSessionID
	}
	return id
}
