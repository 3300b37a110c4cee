package internal

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/iksnae/session-dashboard/testutil"
)

func TestNewSQLiteStore(t *testing.T) {
	db := testutil.CreateInMemoryDB(t)

	store := NewSQLiteStore(db, "")
	if store == nil {
		t.Fatal("NewSQLiteStore() returned nil")
	}
	if store.db != db {
		t.Error("NewSQLiteStore() did not set database correctly")
	}
	if store.table != DefaultTable {
		t.Errorf("NewSQLiteStore() table = %q, want %q", store.table, DefaultTable)
	}
}

func TestSQLiteStore_ListSessions(t *testing.T) {
	store := NewSQLiteStore(testutil.CreateTestDB(t), DefaultTable)

	sessions, err := store.ListSessions(context.Background())
	if err != nil {
		t.Fatalf("ListSessions() error = %v", err)
	}
	if len(sessions) != 4 {
		t.Fatalf("ListSessions() returned %d sessions, want 4", len(sessions))
	}

	byID := make(map[SessionID]SessionSummary)
	for _, s := range sessions {
		if !s.HasTranscript {
			t.Errorf("session %s HasTranscript = false", s.ID)
		}
		byID[s.ID] = s
	}

	first := byID["1"]
	if first.Title != "Apartment search" || first.Topic != "rentals" || first.SourceIP != "10.0.0.1" {
		t.Errorf("session 1 = %+v", first)
	}
	// SUCCESS is not counted
	if first.MessageCount != 2 {
		t.Errorf("session 1 MessageCount = %d, want 2", first.MessageCount)
	}
	if byID["4"].MessageCount != 1 {
		t.Errorf("session 4 MessageCount = %d, want 1", byID["4"].MessageCount)
	}
	if byID["5"].MessageCount != 2 {
		t.Errorf("session 5 MessageCount = %d, want 2 (double-encoded transcript)", byID["5"].MessageCount)
	}
	if byID["5"].Title != "" {
		t.Errorf("session 5 Title = %q, want empty for NULL", byID["5"].Title)
	}
}

func TestSQLiteStore_ListThenVisible(t *testing.T) {
	store := NewSQLiteStore(testutil.CreateTestDB(t), DefaultTable)

	sessions, err := store.ListSessions(context.Background())
	if err != nil {
		t.Fatalf("ListSessions() error = %v", err)
	}
	visible := Exclusions().Visible(sessions)
	SortNewestFirst(visible)
	if !equalIDs(ids(visible), []string{"4", "5", "1"}) {
		t.Errorf("visible sessions = %v, want [4 5 1]", ids(visible))
	}
}

func TestSQLiteStore_GetSessionPayload(t *testing.T) {
	store := NewSQLiteStore(testutil.CreateTestDB(t), DefaultTable)
	ctx := context.Background()

	tests := []struct {
		name         string
		id           SessionID
		wantKind     PayloadKind
		wantMessages int
		wantNotFound bool
	}{
		{name: "many records", id: "1", wantKind: PayloadMany, wantMessages: 2},
		{name: "single record", id: "4", wantKind: PayloadSingle, wantMessages: 1},
		{name: "json text", id: "5", wantKind: PayloadJSON, wantMessages: 2},
		{name: "null transcript", id: "3", wantKind: PayloadAbsent},
		{name: "unknown id", id: "999", wantNotFound: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			payload, err := store.GetSessionPayload(ctx, tt.id)
			if tt.wantNotFound {
				if !errors.Is(err, ErrSessionNotFound) {
					t.Fatalf("GetSessionPayload() error = %v, want ErrSessionNotFound", err)
				}
				var storeErr *StoreError
				if !errors.As(err, &storeErr) || storeErr.ID != tt.id {
					t.Errorf("GetSessionPayload() error = %#v, want *StoreError for %s", err, tt.id)
				}
				return
			}
			if err != nil {
				t.Fatalf("GetSessionPayload() error = %v", err)
			}
			if payload.Kind != tt.wantKind {
				t.Errorf("Kind = %v, want %v", payload.Kind, tt.wantKind)
			}
			if got := len(Normalize(payload)); got != tt.wantMessages {
				t.Errorf("Normalize() returned %d messages, want %d", got, tt.wantMessages)
			}
		})
	}
}

func TestSQLiteStore_ClosedDatabase(t *testing.T) {
	db := testutil.CreateInMemoryDB(t)
	store := NewSQLiteStore(db, DefaultTable)
	_ = db.Close()

	_, err := store.ListSessions(context.Background())
	var storeErr *StoreError
	if !errors.As(err, &storeErr) || storeErr.Op != "list" {
		t.Errorf("ListSessions() error = %v, want *StoreError{Op: list}", err)
	}
}

func TestOpenSQLiteStore(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "sessions.db")
	testutil.CreateSQLiteFixture(t, dbPath)

	store, err := OpenSQLiteStore(dbPath, "")
	if err != nil {
		t.Fatalf("OpenSQLiteStore() error = %v", err)
	}
	defer store.Close()

	sessions, err := store.ListSessions(context.Background())
	if err != nil {
		t.Fatalf("ListSessions() error = %v", err)
	}
	if len(sessions) != 4 {
		t.Errorf("ListSessions() returned %d sessions, want 4", len(sessions))
	}
}
