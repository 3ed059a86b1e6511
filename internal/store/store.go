package store

import (
	"context"
	"time"
)

// SessionEvent is one persisted room lifecycle record.
// Only membership changes are stored, never signaling, code or chat content.
type SessionEvent struct {
	ID        int64
	Room      string
	Kind      string
	HandleID  string
	Identity  string
	CreatedAt time.Time
}

// SessionStore persists session lifecycle records.
type SessionStore interface {
	AppendSessionEvent(ctx context.Context, ev *SessionEvent) error
	ListSessionEvents(ctx context.Context, room string, limit int) ([]SessionEvent, error)
	Close() error
}
