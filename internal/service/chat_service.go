package service

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"invoiceinsight/internal/domain"
	"invoiceinsight/internal/port"
)

// ChatService defines the session-scoped conversation contract.
type ChatService interface {
	Reply(ctx context.Context, prompt, sessionID string) (string, error)
}

type chatService struct {
	replier  Replier
	sessions port.SessionStore
	logger   *zap.Logger
}

// NewChatService creates a new ChatService implementation.
func NewChatService(replier Replier, sessions port.SessionStore, logger *zap.Logger) ChatService {
	return &chatService{replier: replier, sessions: sessions, logger: logger}
}

// Reply answers prompt with the session's invoice as context and appends the
// user and agent turns to the history. Concurrent turns on the same session
// are last-writer-wins.
func (s *chatService) Reply(ctx context.Context, prompt, sessionID string) (string, error) {
	if strings.TrimSpace(prompt) == "" {
		return "", domain.ErrEmptyPrompt
	}
	sessionID = sessionIDOrDefault(sessionID)
	work := context.WithoutCancel(ctx)
	log := s.logger.With(zap.String("session_id", sessionID))

	state, err := loadOrNew(work, s.sessions, sessionID)
	if err != nil {
		log.Error("service.Reply: stage failed", zap.String("stage", string(domain.StageSessionLoad)), zap.Error(err))
		return "", domain.NewStageError(domain.StageSessionLoad, err)
	}

	reply, err := s.replier.Reply(work, state.Extractions, prompt)
	if err != nil {
		log.Error("service.Reply: stage failed", zap.String("stage", string(domain.StageConversation)), zap.Error(err))
		return "", domain.NewStageError(domain.StageConversation, err)
	}

	state.History = append(state.History,
		domain.Turn{Role: domain.RoleUser, Content: prompt},
		domain.Turn{Role: domain.RoleAgent, Content: reply},
	)
	if err := s.sessions.Save(work, sessionID, state); err != nil {
		log.Error("service.Reply: stage failed", zap.String("stage", string(domain.StageSessionSave)), zap.Error(err))
		return "", domain.NewStageError(domain.StageSessionSave, err)
	}

	log.Info("service.Reply: turn stored",
		zap.Bool("invoice_context", state.Extractions != nil),
		zap.Int("turns", len(state.History)),
	)
	return reply, nil
}
