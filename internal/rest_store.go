package internal

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const (
	restPathPrefix   = "/rest/v1/"
	pgrstObjectMedia = "application/vnd.pgrst.object+json"
	maxErrorBody     = 4 << 10
)

// RESTStore reads chat sessions from a Supabase/PostgREST endpoint
type RESTStore struct {
	baseURL string
	apiKey  string
	table   string
	client  *http.Client
}

// RESTOption customizes a RESTStore
type RESTOption func(*RESTStore)

// WithHTTPClient replaces the default HTTP client
func WithHTTPClient(c *http.Client) RESTOption {
	return func(s *RESTStore) {
		s.client = c
	}
}

// WithTable sets the table name (default chat_sessions)
func WithTable(table string) RESTOption {
	return func(s *RESTStore) {
		if table != "" {
			s.table = table
		}
	}
}

// WithTimeout sets the HTTP client timeout
func WithTimeout(d time.Duration) RESTOption {
	return func(s *RESTStore) {
		s.client = &http.Client{Timeout: d}
	}
}

// NewRESTStore creates a store for the project at baseURL authenticated by apiKey
func NewRESTStore(baseURL, apiKey string, opts ...RESTOption) *RESTStore {
	s := &RESTStore{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		table:   DefaultTable,
		client:  &http.Client{Timeout: 30 * time.Second},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// restRow mirrors the chat_sessions columns the dashboard reads
type restRow struct {
	ID                SessionID       `json:"id"`
	CreatedAt         string          `json:"created_at"`
	ConversationTitle *string         `json:"conversation_title"`
	Topic             *string         `json:"topic"`
	IP                *string         `json:"ip"`
	Conversations     json.RawMessage `json:"conversations"`
}

// ListSessions fetches all rows with a non-null transcript, newest first
func (s *RESTStore) ListSessions(ctx context.Context) ([]SessionSummary, error) {
	q := url.Values{}
	q.Set("select", "*")
	q.Set("conversations", "not.is.null")
	q.Set("order", "created_at.desc")

	var rows []restRow
	if err := s.get(ctx, q, "application/json", &rows); err != nil {
		return nil, &StoreError{Op: "list", Err: err}
	}

	sessions := make([]SessionSummary, 0, len(rows))
	for _, row := range rows {
		payload := ParsePayload(row.Conversations)
		sessions = append(sessions, SessionSummary{
			ID:            row.ID,
			CreatedAt:     row.CreatedAt,
			Title:         deref(row.ConversationTitle),
			Topic:         deref(row.Topic),
			SourceIP:      deref(row.IP),
			HasTranscript: !payload.IsAbsent(),
			MessageCount:  CountMessages(payload),
		})
	}
	LogDebug("Fetched %d row(s) from %s", len(sessions), s.table)
	return sessions, nil
}

// GetSessionPayload fetches the conversations column of a single row
func (s *RESTStore) GetSessionPayload(ctx context.Context, id SessionID) (RawPayload, error) {
	q := url.Values{}
	q.Set("select", "conversations")
	q.Set("id", "eq."+id.String())

	var row struct {
		Conversations json.RawMessage `json:"conversations"`
	}
	err := s.get(ctx, q, pgrstObjectMedia, &row)
	var statusErr *httpStatusError
	if errors.As(err, &statusErr) && statusErr.Code == http.StatusNotAcceptable {
		// PostgREST answers 406 when a single-object request matches no rows
		return AbsentPayload(), &StoreError{Op: "get", ID: id, NotFound: true, Err: err}
	}
	if err != nil {
		return AbsentPayload(), &StoreError{Op: "get", ID: id, Err: err}
	}
	return ParsePayload(row.Conversations), nil
}

type httpStatusError struct {
	Code int
	Body string
}

func (e *httpStatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("unexpected status %d", e.Code)
	}
	return fmt.Sprintf("unexpected status %d: %s", e.Code, e.Body)
}

func (s *RESTStore) get(ctx context.Context, q url.Values, accept string, out any) error {
	endpoint := s.baseURL + restPathPrefix + url.PathEscape(s.table) + "?" + q.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("apikey", s.apiKey)
	req.Header.Set("Authorization", "Bearer "+s.apiKey)
	req.Header.Set("Accept", accept)

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return &httpStatusError{Code: resp.StatusCode, Body: strings.TrimSpace(string(body))}
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
