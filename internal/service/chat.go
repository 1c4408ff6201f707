package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/john-thuo1/sentiment/internal/domain"
)

// Recommend generates the business recommendation for the session dataset.
// It runs once per session; later calls return the stored recommendation with created=false.
func (s *Service) Recommend(ctx context.Context, sessionID string) (*domain.Message, bool, error) {
	unlock := s.lockSession(sessionID)
	defer unlock()

	session, err := s.loadSession(ctx, sessionID)
	if err != nil {
		return nil, false, err
	}

	if session.RecommendationDone {
		messages, err := s.store.GetMessages(ctx, sessionID, 0)
		if err != nil {
			return nil, false, fmt.Errorf("failed to get messages: %w", err)
		}
		for i := range messages {
			if messages[i].Role == domain.RoleAssistant {
				return &messages[i], false, nil
			}
		}
	}

	ds, err := s.loadDataset(ctx, sessionID, true)
	if err != nil {
		return nil, false, err
	}

	content, err := s.generator.InitialRecommendation(ctx, ds)
	if err != nil {
		slog.Error("recommendation failed", "session_id", sessionID, "error", err)
		return nil, false, err
	}

	msg, err := s.appendMessage(ctx, sessionID, domain.RoleAssistant, content)
	if err != nil {
		return nil, false, err
	}

	session.RecommendationDone = true
	if err := s.store.UpdateSession(ctx, session); err != nil {
		return nil, false, fmt.Errorf("failed to update session: %w", err)
	}

	slog.Info("recommendation generated", "session_id", sessionID, "records", len(ds.Records))
	return msg, true, nil
}

// FollowUp appends a question, resubmits the whole transcript and appends the reply.
func (s *Service) FollowUp(ctx context.Context, sessionID, question string) (*domain.Message, error) {
	question = strings.TrimSpace(question)
	if question == "" {
		return nil, domain.ErrEmptyQuestion
	}

	unlock := s.lockSession(sessionID)
	defer unlock()

	session, err := s.loadSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if !session.RecommendationDone {
		return nil, domain.ErrNoRecommendation
	}

	if _, err := s.appendMessage(ctx, sessionID, domain.RoleUser, question); err != nil {
		return nil, err
	}

	transcript, err := s.store.GetMessages(ctx, sessionID, 0)
	if err != nil {
		return nil, fmt.Errorf("failed to get messages: %w", err)
	}

	reply, err := s.generator.FollowUp(ctx, transcript)
	if err != nil {
		slog.Error("follow-up failed", "session_id", sessionID, "error", err)
		return nil, err
	}

	return s.appendMessage(ctx, sessionID, domain.RoleAssistant, reply)
}

// Transcript returns the session messages in order.
func (s *Service) Transcript(ctx context.Context, sessionID string, limit int) ([]domain.Message, error) {
	if _, err := s.loadSession(ctx, sessionID); err != nil {
		return nil, err
	}
	messages, err := s.store.GetMessages(ctx, sessionID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get messages: %w", err)
	}
	return messages, nil
}

func (s *Service) appendMessage(ctx context.Context, sessionID string, role domain.Role, content string) (*domain.Message, error) {
	msg := &domain.Message{
		MessageID: "msg_" + uuid.NewString(),
		SessionID: sessionID,
		Role:      role,
		Content:   content,
		CreatedAt: s.now(),
	}
	if err := s.store.CreateMessage(ctx, msg); err != nil {
		return nil, fmt.Errorf("failed to save message: %w", err)
	}
	s.notify(sessionID, *msg)
	return msg, nil
}
