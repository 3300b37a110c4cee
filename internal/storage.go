package internal

import (
	"context"
	"database/sql"
	"errors"
)

// SQLiteStore reads chat sessions from a local SQLite copy of the store
type SQLiteStore struct {
	db    *sql.DB
	table string
}

// NewSQLiteStore creates a SQLiteStore over an open database
func NewSQLiteStore(db *sql.DB, table string) *SQLiteStore {
	if table == "" {
		table = DefaultTable
	}
	return &SQLiteStore{db: db, table: table}
}

// OpenSQLiteStore opens path read-only and returns a store over it
func OpenSQLiteStore(path, table string) (*SQLiteStore, error) {
	db, err := OpenDatabase(path)
	if err != nil {
		return nil, &StoreError{Op: "open", Err: err}
	}
	return NewSQLiteStore(db, table), nil
}

// Close closes the underlying database
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// ListSessions loads all sessions that carry a transcript
func (s *SQLiteStore) ListSessions(ctx context.Context) ([]SessionSummary, error) {
	rows, err := QuerySessionRows(ctx, s.db, s.table)
	if err != nil {
		return nil, &StoreError{Op: "list", Err: err}
	}

	sessions := make([]SessionSummary, 0, len(rows))
	for _, row := range rows {
		payload := AbsentPayload()
		if row.Conversations.Valid {
			payload = ParsePayload([]byte(row.Conversations.String))
		}
		sessions = append(sessions, SessionSummary{
			ID:            SessionID(row.ID),
			CreatedAt:     row.CreatedAt,
			Title:         row.Title.String,
			Topic:         row.Topic.String,
			SourceIP:      row.IP.String,
			HasTranscript: !payload.IsAbsent(),
			MessageCount:  CountMessages(payload),
		})
	}

	return sessions, nil
}

// GetSessionPayload loads the transcript of one session
func (s *SQLiteStore) GetSessionPayload(ctx context.Context, id SessionID) (RawPayload, error) {
	value, err := QueryConversations(ctx, s.db, s.table, id.String())
	if errors.Is(err, sql.ErrNoRows) {
		return AbsentPayload(), &StoreError{Op: "get", ID: id, NotFound: true, Err: err}
	}
	if err != nil {
		return AbsentPayload(), &StoreError{Op: "get", ID: id, Err: err}
	}
	if !value.Valid {
		return AbsentPayload(), nil
	}
	return ParsePayload([]byte(value.String)), nil
}
