package port

import (
	"context"

	"invoiceinsight/internal/domain"
)

// SessionStore is a key-value store of session state keyed by session id.
// Load returns domain.ErrSessionNotFound for an id that was never saved.
// Save replaces the whole prior state. A Load followed by a Save is not atomic.
type SessionStore interface {
	Load(ctx context.Context, sessionID string) (*domain.SessionState, error)
	Save(ctx context.Context, sessionID string, state *domain.SessionState) error
	Ping(ctx context.Context) error
}
