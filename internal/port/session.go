package port

import (
	"context"

	"supportbot/internal/domain"
)

// SessionStore keeps the explicit conversation log of a chat session.
type SessionStore interface {
	Append(ctx context.Context, sessionID string, turn domain.Turn) error

	// History returns at most limit most recent turns, oldest first.
	// A limit of 0 returns the whole log.
	History(ctx context.Context, sessionID string, limit int) ([]domain.Turn, error)

	Close() error
}
