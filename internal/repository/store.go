// Package repository defines the session storage interface and its SQLite implementation.
package repository

import (
	"context"

	"github.com/john-thuo1/sentiment/internal/domain"
)

// Store defines the interface for session state.
type Store interface {
	// Session operations
	CreateSession(ctx context.Context, session *domain.Session) error
	GetSession(ctx context.Context, sessionID string) (*domain.Session, error)
	UpdateSession(ctx context.Context, session *domain.Session) error

	// Dataset operations
	SaveDataset(ctx context.Context, sessionID string, ds *domain.Dataset) error
	GetDataset(ctx context.Context, sessionID string) (*domain.Dataset, error)

	// Message operations
	CreateMessage(ctx context.Context, message *domain.Message) error
	GetMessages(ctx context.Context, sessionID string, limit int) ([]domain.Message, error)

	// Lifecycle
	Close() error
}

var _ Store = (*SQLiteStore)(nil)
