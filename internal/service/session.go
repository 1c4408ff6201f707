package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/john-thuo1/sentiment/internal/domain"
)

func (s *Service) CreateSession(ctx context.Context) (*domain.Session, error) {
	session := &domain.Session{
		SessionID: "sess_" + uuid.NewString(),
		CreatedAt: s.now(),
	}
	if err := s.store.CreateSession(ctx, session); err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}
	slog.Info("session created", "session_id", session.SessionID)
	return session, nil
}

func (s *Service) GetSession(ctx context.Context, sessionID string) (*domain.Session, error) {
	return s.loadSession(ctx, sessionID)
}
