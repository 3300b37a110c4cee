package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"

	"github.com/iksnae/session-dashboard/internal"
	"github.com/iksnae/session-dashboard/internal/metrics"
	"github.com/iksnae/session-dashboard/internal/web"
)

var (
	serveAddr string
)

const shutdownTimeout = 10 * time.Second

// serveCmd represents the serve command
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the web dashboard",
	Long: `Start the HTTP dashboard. Sessions are loaded once at startup and on
every reload. A missing or invalid store configuration is shown in the
dashboard instead of stopping the server.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		return runServe(ctx)
	},
}

func runServe(ctx context.Context) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	internal.SetLogFormat(cfg.Log.Format)

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.NewMetrics(reg)

	var controller *internal.ViewController
	opts := []web.Option{web.WithMetrics(m, reg), web.WithLoadTimeout(cfg.Store.Timeout)}

	store, closeStore, err := internal.OpenStore(cfg, m)
	defer func() { _ = closeStore() }()
	var cfgErr *internal.ConfigError
	switch {
	case errors.As(err, &cfgErr):
		internal.LogWarn("Store is not configured: %v", err)
		controller = internal.NewUnconfiguredViewController(err, internal.WithMetrics(m))
	case err != nil:
		return err
	default:
		controller = internal.NewViewController(store, internal.WithMetrics(m))
		opts = append(opts, web.WithStore(store))
	}

	srv, err := web.NewServer(controller, opts...)
	if err != nil {
		return fmt.Errorf("failed to build server: %w", err)
	}

	addr := cfg.Server.Addr
	if serveAddr != "" {
		addr = serveAddr
	}
	httpServer := &http.Server{
		Addr:              addr,
		Handler:           srv.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      cfg.Store.Timeout + 30*time.Second,
		IdleTimeout:       2 * time.Minute,
	}

	if cfgErr == nil {
		go func() {
			loadCtx, cancel := context.WithTimeout(ctx, cfg.Store.Timeout)
			defer cancel()
			if err := controller.LoadAllSessions(loadCtx); err != nil {
				internal.LogWarn("Initial load failed: %v", err)
			}
		}()
	}

	errCh := make(chan error, 1)
	go func() {
		internal.LogInfo("Dashboard listening on %s", addr)
		errCh <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	internal.LogInfo("Shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown failed: %w", err)
	}
	return nil
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "Listen address (default from config, :8080)")
}
