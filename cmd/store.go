package cmd

import (
	"context"
	"fmt"

	"github.com/iksnae/session-dashboard/internal"
	"github.com/iksnae/session-dashboard/internal/metrics"
)

// loadConfig reads configuration and applies the global flag overrides
func loadConfig() (*internal.Config, error) {
	v := internal.NewViper()
	if dbPath != "" {
		v.Set("store.path", dbPath)
		v.Set("store.backend", internal.BackendSQLite)
	}
	if backend != "" {
		v.Set("store.backend", backend)
	}
	return internal.LoadConfig(v, configFile)
}

// openStore loads configuration and opens the configured session store
func openStore(m *metrics.Metrics) (internal.SessionStore, func() error, *internal.Config, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, func() error { return nil }, nil, err
	}
	store, closeFn, err := internal.OpenStore(cfg, m)
	if err != nil {
		return nil, closeFn, cfg, err
	}
	return store, closeFn, cfg, nil
}

// commandContext bounds one CLI run by the store timeout
func commandContext(cfg *internal.Config) (context.Context, context.CancelFunc) {
	timeout := internal.DefaultStoreTimeout
	if cfg != nil && cfg.Store.Timeout > 0 {
		timeout = cfg.Store.Timeout
	}
	return context.WithTimeout(context.Background(), timeout)
}

// loadVisibleSessions lists the store and applies exclusions and newest-first order
func loadVisibleSessions(ctx context.Context, store internal.SessionStore) ([]internal.SessionSummary, error) {
	var sessions []internal.SessionSummary
	err := internal.ShowProgress(ctx, "Loading sessions...", func() error {
		var err error
		sessions, err = store.ListSessions(ctx)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to load sessions: %w", err)
	}

	visible := internal.Exclusions().Visible(sessions)
	internal.SortNewestFirst(visible)
	internal.LogDebug("Sessions total: %d, after exclusions: %d", len(sessions), len(visible))
	return visible, nil
}
