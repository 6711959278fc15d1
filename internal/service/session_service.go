package service

import (
	"context"
	"errors"
	"fmt"

	"invoiceinsight/internal/domain"
	"invoiceinsight/internal/port"
)

// SessionService defines read access to stored sessions.
type SessionService interface {
	Get(ctx context.Context, sessionID string) (*domain.SessionState, error)
}

type sessionService struct {
	sessions port.SessionStore
}

// NewSessionService creates a new SessionService implementation.
func NewSessionService(sessions port.SessionStore) SessionService {
	return &sessionService{sessions: sessions}
}

func (s *sessionService) Get(ctx context.Context, sessionID string) (*domain.SessionState, error) {
	state, err := s.sessions.Load(ctx, sessionID)
	if err != nil {
		if errors.Is(err, domain.ErrSessionNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("loading session: %w", err)
	}
	if state.History == nil {
		state.History = []domain.Turn{}
	}
	return state, nil
}
