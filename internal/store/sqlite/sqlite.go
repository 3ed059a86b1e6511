package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"

	"github.com/intervue/session-server/internal/store"
)

const schema = `
CREATE TABLE IF NOT EXISTS session_events (
	id         INTEGER PRIMARY KEY AUTOINCREMENT,
	room       TEXT NOT NULL,
	kind       TEXT NOT NULL,
	handle_id  TEXT NOT NULL DEFAULT '',
	identity   TEXT NOT NULL DEFAULT '',
	created_at DATETIME NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_session_events_room ON session_events(room, created_at DESC);
`

// SQLiteStore implements store.SessionStore for SQLite.
type SQLiteStore struct {
	db *sql.DB
}

// New opens the database at dbPath and applies the schema.
func New(dbPath string) (*SQLiteStore, error) {
	return NewWithSetup(dbPath, Migrate)
}

// NewWithSetup creates a new SQLite store and runs a setup function.
// Useful for tests to apply schema without migrations.
func NewWithSetup(dbPath string, setup func(*sql.DB) error) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	// SQLite works best with a single connection; it also keeps :memory: databases shared.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if setup != nil {
		if err := setup(db); err != nil {
			db.Close()
			return nil, fmt.Errorf("setup: %w", err)
		}
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping sqlite: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

// Migrate creates the tables the store needs.
func Migrate(db *sql.DB) error {
	_, err := db.Exec(schema)
	return err
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// AppendSessionEvent inserts ev and fills in its ID.
func (s *SQLiteStore) AppendSessionEvent(ctx context.Context, ev *store.SessionEvent) error {
	query := `
		INSERT INTO session_events (room, kind, handle_id, identity, created_at)
		VALUES (?, ?, ?, ?, ?)
	`
	result, err := s.db.ExecContext(ctx, query, ev.Room, ev.Kind, ev.HandleID, ev.Identity, ev.CreatedAt.UTC())
	if err != nil {
		return fmt.Errorf("insert session event: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("get last insert id: %w", err)
	}
	ev.ID = id
	return nil
}

// ListSessionEvents returns up to limit events for room, newest first.
func (s *SQLiteStore) ListSessionEvents(ctx context.Context, room string, limit int) ([]store.SessionEvent, error) {
	query := `
		SELECT id, room, kind, handle_id, identity, created_at
		FROM session_events
		WHERE room = ?
		ORDER BY created_at DESC, id DESC
		LIMIT ?
	`
	rows, err := s.db.QueryContext(ctx, query, room, limit)
	if err != nil {
		return nil, fmt.Errorf("query session events: %w", err)
	}
	defer rows.Close()

	events := make([]store.SessionEvent, 0, limit)
	for rows.Next() {
		var ev store.SessionEvent
		if err := rows.Scan(&ev.ID, &ev.Room, &ev.Kind, &ev.HandleID, &ev.Identity, &ev.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan session event: %w", err)
		}
		events = append(events, ev)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate session events: %w", err)
	}

	return events, nil
}
