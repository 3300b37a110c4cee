package internal

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"testing"

	"github.com/iksnae/session-dashboard/testutil"
)

func TestOpenDatabase(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "sessions.db")
	testutil.CreateSQLiteFixture(t, dbPath)

	db, err := OpenDatabase(dbPath)
	if err != nil {
		t.Fatalf("OpenDatabase() error = %v", err)
	}
	defer db.Close()

	if _, err := db.Exec("DELETE FROM chat_sessions"); err == nil {
		t.Error("OpenDatabase() should open read-only")
	}
}

func TestOpenDatabase_Missing(t *testing.T) {
	if _, err := OpenDatabase(filepath.Join(t.TempDir(), "missing.db")); err == nil {
		t.Error("OpenDatabase() expected error for missing file")
	}
}

func TestQuerySessionRows(t *testing.T) {
	db := testutil.CreateTestDB(t)

	rows, err := QuerySessionRows(context.Background(), db, DefaultTable)
	if err != nil {
		t.Fatalf("QuerySessionRows() error = %v", err)
	}

	// row 3 has no conversations
	if len(rows) != 4 {
		t.Fatalf("QuerySessionRows() returned %d rows, want 4", len(rows))
	}
	if rows[0].ID != "4" {
		t.Errorf("first row ID = %q, want newest (4)", rows[0].ID)
	}
	for _, row := range rows {
		if !row.Conversations.Valid {
			t.Errorf("row %s has NULL conversations", row.ID)
		}
	}
}

func TestQuerySessionRows_InvalidTable(t *testing.T) {
	db := testutil.CreateInMemoryDB(t)
	if _, err := QuerySessionRows(context.Background(), db, "chat_sessions; DROP TABLE x"); err == nil {
		t.Error("QuerySessionRows() expected error for invalid table name")
	}
}

func TestQueryConversations(t *testing.T) {
	db := testutil.CreateTestDB(t)

	value, err := QueryConversations(context.Background(), db, DefaultTable, "4")
	if err != nil {
		t.Fatalf("QueryConversations() error = %v", err)
	}
	if !value.Valid || value.String == "" {
		t.Errorf("QueryConversations() = %+v, want transcript", value)
	}

	value, err = QueryConversations(context.Background(), db, DefaultTable, "3")
	if err != nil {
		t.Fatalf("QueryConversations() error = %v", err)
	}
	if value.Valid {
		t.Errorf("QueryConversations() = %+v, want NULL", value)
	}

	if _, err := QueryConversations(context.Background(), db, DefaultTable, "999"); !errors.Is(err, sql.ErrNoRows) {
		t.Errorf("QueryConversations() error = %v, want sql.ErrNoRows", err)
	}
}
