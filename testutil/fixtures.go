package testutil

import (
	"database/sql"
	"os"
	"path/filepath"
	"testing"

	_ "modernc.org/sqlite"
)

// ExcludedIP is one of the fixed excluded source IPs
const ExcludedIP = "2.138.132.39"

// DefaultSessions is five rows: one from an excluded IP, one without a
// transcript, and three visible ones in mixed payload shapes.
func DefaultSessions() []SessionFixture {
	return []SessionFixture{
		{
			ID:            1,
			CreatedAt:     "2024-05-01T09:00:00Z",
			Title:         "Apartment search",
			Topic:         "rentals",
			IP:            "10.0.0.1",
			Conversations: Str(`[{"sender":"user","text":"Hi","timestamp":"2024-05-01T09:00:00Z"},{"sender":"luci","text":"Hello! How can I help?"},{"sender":"bot","text":"SUCCESS"}]`),
		},
		{
			ID:            2,
			CreatedAt:     "2024-05-03T18:30:00Z",
			Title:         "Excluded tester",
			IP:            ExcludedIP,
			Conversations: Str(`[{"sender":"user","text":"internal test"}]`),
		},
		{
			ID:        3,
			CreatedAt: "2024-05-04T12:00:00Z",
			Title:     "No transcript",
			IP:        "10.0.0.3",
		},
		{
			ID:            4,
			CreatedAt:     "2024-05-05T08:15:00Z",
			Title:         "Single message",
			Topic:         "Pricing",
			IP:            "10.0.0.4",
			Conversations: Str(`{"type":"user","content":"How much is it?"}`),
		},
		{
			ID:            5,
			CreatedAt:     "2024-05-02 20:45:00",
			Topic:         "Visit booking",
			IP:            "10.0.0.5",
			Conversations: Str(`"[{\"sender\":\"user\",\"message\":\"Can I visit tomorrow?\"},{\"sender\":\"assistant\",\"message\":\"Sure\"}]"`),
		},
	}
}

// CreateSQLiteFixture writes DefaultSessions into a database file at dbPath
func CreateSQLiteFixture(t *testing.T, dbPath string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		t.Fatalf("Failed to create fixture directory: %v", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		t.Fatalf("Failed to open database: %v", err)
	}
	defer func() { _ = db.Close() }()

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
		t.Fatalf("Failed to create table: %v", err)
	}

	for _, s := range DefaultSessions() {
		InsertSession(t, db, s)
	}
}
