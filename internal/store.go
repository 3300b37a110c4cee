package internal

import (
	"context"
	"time"

	"github.com/iksnae/session-dashboard/internal/metrics"
)

// SessionStore provides read access to stored chat sessions
type SessionStore interface {
	// ListSessions returns all session summaries. Failures are *StoreError.
	ListSessions(ctx context.Context) ([]SessionSummary, error)
	// GetSessionPayload returns the raw transcript of one session. Unknown ids
	// fail with a *StoreError matching ErrSessionNotFound.
	GetSessionPayload(ctx context.Context, id SessionID) (RawPayload, error)
}

// InstrumentedStore records request counts and latencies for a SessionStore
type InstrumentedStore struct {
	next    SessionStore
	metrics *metrics.Metrics
	backend string
}

// NewInstrumentedStore wraps next. A nil metrics value disables recording.
func NewInstrumentedStore(next SessionStore, m *metrics.Metrics, backend string) *InstrumentedStore {
	return &InstrumentedStore{next: next, metrics: m, backend: backend}
}

// ListSessions delegates and records the "list" operation
func (s *InstrumentedStore) ListSessions(ctx context.Context) ([]SessionSummary, error) {
	start := time.Now()
	sessions, err := s.next.ListSessions(ctx)
	s.record("list", err, time.Since(start))
	if err == nil {
		LogDebug("Listed %d session(s) from %s store in %s", len(sessions), s.backend, time.Since(start))
	}
	return sessions, err
}

// GetSessionPayload delegates and records the "get" operation
func (s *InstrumentedStore) GetSessionPayload(ctx context.Context, id SessionID) (RawPayload, error) {
	start := time.Now()
	payload, err := s.next.GetSessionPayload(ctx, id)
	s.record("get", err, time.Since(start))
	return payload, err
}

func (s *InstrumentedStore) record(op string, err error, d time.Duration) {
	if s.metrics == nil {
		return
	}
	status := "success"
	if err != nil {
		status = "error"
	}
	s.metrics.RecordStoreRequest(s.backend, op, status, d)
}

// OpenStore validates cfg and builds the configured backend, instrumented when
// m is non-nil. The returned close function is never nil.
func OpenStore(cfg *Config, m *metrics.Metrics) (SessionStore, func() error, error) {
	noop := func() error { return nil }
	if err := cfg.Validate(); err != nil {
		return nil, noop, err
	}

	var store SessionStore
	closeFn := noop
	switch cfg.Store.Backend {
	case BackendSQLite:
		sqliteStore, err := OpenSQLiteStore(cfg.Store.Path, cfg.Store.Table)
		if err != nil {
			return nil, noop, err
		}
		store = sqliteStore
		closeFn = sqliteStore.Close
	default:
		opts := []RESTOption{WithTable(cfg.Store.Table)}
		if cfg.Store.Timeout > 0 {
			opts = append(opts, WithTimeout(cfg.Store.Timeout))
		}
		store = NewRESTStore(cfg.Store.URL, cfg.Store.Key, opts...)
	}

	LogInfo("Using %s session store", cfg.Store.Backend)
	if m != nil {
		store = NewInstrumentedStore(store, m, cfg.Store.Backend)
	}
	return store, closeFn, nil
}
