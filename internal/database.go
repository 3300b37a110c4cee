package internal

import (
	"context"
	"database/sql"
	"fmt"
	"regexp"

	_ "modernc.org/sqlite"
)

// DefaultTable is the table holding chat sessions
const DefaultTable = "chat_sessions"

var tableNamePattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// OpenDatabase opens a SQLite database in read-only mode
func OpenDatabase(path string) (*sql.DB, error) {
	// without the file: prefix the driver drops the query and opens read-write
	db, err := sql.Open("sqlite", "file:"+path+"?mode=ro")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Test connection
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("database ping failed: %w", err)
	}

	return db, nil
}

// SessionRow is one chat_sessions row as read from SQLite
type SessionRow struct {
	ID            string
	CreatedAt     string
	Title         sql.NullString
	Topic         sql.NullString
	IP            sql.NullString
	Conversations sql.NullString
}

// QuerySessionRows reads every row that has a transcript, newest first
func QuerySessionRows(ctx context.Context, db *sql.DB, table string) ([]SessionRow, error) {
	if !tableNamePattern.MatchString(table) {
		return nil, fmt.Errorf("invalid table name: %q", table)
	}
	query := fmt.Sprintf(`SELECT CAST(id AS TEXT), COALESCE(created_at, ''), conversation_title, topic, ip, conversations
		FROM %s WHERE conversations IS NOT NULL ORDER BY created_at DESC`, table)
	rows, err := db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query failed: %w", err)
	}
	defer rows.Close()

	var out []SessionRow
	for rows.Next() {
		var row SessionRow
		if err := rows.Scan(&row.ID, &row.CreatedAt, &row.Title, &row.Topic, &row.IP, &row.Conversations); err != nil {
			return nil, fmt.Errorf("scan failed: %w", err)
		}
		out = append(out, row)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration error: %w", err)
	}

	return out, nil
}

// QueryConversations reads the conversations column of one row.
// sql.ErrNoRows is returned unwrapped when the id does not exist.
func QueryConversations(ctx context.Context, db *sql.DB, table, id string) (sql.NullString, error) {
	var value sql.NullString
	if !tableNamePattern.MatchString(table) {
		return value, fmt.Errorf("invalid table name: %q", table)
	}
	query := fmt.Sprintf("SELECT conversations FROM %s WHERE CAST(id AS TEXT) = ?", table)
	err := db.QueryRowContext(ctx, query, id).Scan(&value)
	return value, err
}
