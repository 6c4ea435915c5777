// Package store defines the storage interface and implementations.
package store

import (
	"context"
	"errors"

	"github.com/Jaaziel-Polanco/bot-claro/internal/domain"
)

// ErrIntentNotFound is returned when an intent id is not in the catalog.
var ErrIntentNotFound = errors.New("intent not found")

// Store defines the interface for data persistence.
type Store interface {
	// Intent catalog operations. The catalog is externally curated: the
	// core reads snapshots and only writes through ReplaceIntents when a
	// catalog file is imported.
	ListIntents(ctx context.Context) ([]domain.Intent, error)
	GetIntent(ctx context.Context, intentID string) (*domain.Intent, error)
	ReplaceIntents(ctx context.Context, intents []domain.Intent) error
	CountIntents(ctx context.Context) (int, error)

	// Session operations
	CreateSession(ctx context.Context, session *domain.Session) error
	GetSession(ctx context.Context, sessionID string) (*domain.Session, error)
	GetOrCreateSession(ctx context.Context, sessionID, userID string) (*domain.Session, error)

	// Message operations
	CreateMessage(ctx context.Context, message *domain.Message) error
	GetMessages(ctx context.Context, sessionID string, limit int) ([]domain.Message, error)
	UpdateMessageContent(ctx context.Context, messageID, content string) error

	// Lifecycle
	Close() error
}
