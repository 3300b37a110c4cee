package testutil

import (
	"database/sql"
	"testing"

	_ "modernc.org/sqlite"
)

// SessionFixture is one chat_sessions row. A nil Conversations stores SQL NULL.
type SessionFixture struct {
	ID            int
	CreatedAt     string
	Title         string
	Topic         string
	IP            string
	Conversations *string
}

// Str returns a pointer to s, for SessionFixture.Conversations
func Str(s string) *string {
	return &s
}

// CreateInMemoryDB creates an in-memory SQLite database with an empty chat_sessions table
func CreateInMemoryDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("Failed to create in-memory database: %v", err)
	}
	// every pooled connection would get its own empty :memory: database
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })

	createTableSQL := `
	CREATE TABLE IF NOT EXISTS chat_sessions (
		id INTEGER PRIMARY KEY,
		session_id TEXT,
		topic TEXT,
		conversation_title TEXT,
		ip TEXT,
		created_at TEXT,
		conversations TEXT
	)`
	if _, err := db.Exec(createTableSQL); err != nil {
		t.Fatalf("Failed to create chat_sessions table: %v", err)
	}

	return db
}

// CreateTestDB creates an in-memory database holding DefaultSessions
func CreateTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db := CreateInMemoryDB(t)
	for _, s := range DefaultSessions() {
		InsertSession(t, db, s)
	}
	return db
}

// InsertSession inserts one row into chat_sessions
func InsertSession(t *testing.T, db *sql.DB, s SessionFixture) {
	t.Helper()
	insertSQL := `INSERT INTO chat_sessions (id, topic, conversation_title, ip, created_at, conversations)
		VALUES (?, ?, ?, ?, ?, ?)`
	var conversations interface{}
	if s.Conversations != nil {
		conversations = *s.Conversations
	}
	if _, err := db.Exec(insertSQL, s.ID, nullable(s.Topic), nullable(s.Title), nullable(s.IP), s.CreatedAt, conversations); err != nil {
		t.Fatalf("Failed to insert session %d: %v", s.ID, err)
	}
}

func nullable(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}
