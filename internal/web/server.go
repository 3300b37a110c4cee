package web

import (
	"context"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"html/template"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/iksnae/session-dashboard/internal"
	"github.com/iksnae/session-dashboard/internal/export"
	"github.com/iksnae/session-dashboard/internal/metrics"
)

//go:embed templates/*.html
var templateFS embed.FS

// DefaultLoadTimeout bounds store calls made on behalf of a request
const DefaultLoadTimeout = 30 * time.Second

// Server serves the dashboard over one shared ViewController
type Server struct {
	controller  *internal.ViewController
	store       internal.SessionStore
	metrics     *metrics.Metrics
	gatherer    prometheus.Gatherer
	loadTimeout time.Duration
	tmpl        *template.Template
	router      *mux.Router
}

// Option customizes a Server
type Option func(*Server)

// WithStore enables transcript downloads from store
func WithStore(store internal.SessionStore) Option {
	return func(s *Server) {
		s.store = store
	}
}

// WithMetrics records HTTP metrics into m and serves g on /metrics
func WithMetrics(m *metrics.Metrics, g prometheus.Gatherer) Option {
	return func(s *Server) {
		s.metrics = m
		s.gatherer = g
	}
}

// WithLoadTimeout overrides DefaultLoadTimeout
func WithLoadTimeout(d time.Duration) Option {
	return func(s *Server) {
		if d > 0 {
			s.loadTimeout = d
		}
	}
}

// NewServer builds the router and parses the embedded templates
func NewServer(controller *internal.ViewController, opts ...Option) (*Server, error) {
	s := &Server{
		controller:  controller,
		loadTimeout: DefaultLoadTimeout,
	}
	for _, opt := range opts {
		opt(s)
	}

	tmpl, err := template.New("dashboard").Funcs(templateFuncs).ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, err
	}
	s.tmpl = tmpl
	s.routes()
	return s, nil
}

// Handler returns the root HTTP handler
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) routes() {
	// ids may contain "/"; templates path-escape them and handlers unescape
	r := mux.NewRouter().UseEncodedPath()
	r.Use(requestIDMiddleware, s.observe)

	r.HandleFunc("/", s.handleDashboard).Methods(http.MethodGet)
	r.HandleFunc("/reload", s.handleReload).Methods(http.MethodPost)
	r.HandleFunc("/sessions/{id}/select", s.handleSelect).Methods(http.MethodPost)
	r.HandleFunc("/sessions/{id}/export", s.handleExport).Methods(http.MethodGet)
	r.HandleFunc("/filter", s.handleFilter).Methods(http.MethodGet)
	r.HandleFunc("/filter/clear", s.handleClearFilter).Methods(http.MethodPost)
	r.HandleFunc("/ui/sidebar", s.handleToggleSidebar).Methods(http.MethodPost)
	r.HandleFunc("/ui/filters", s.handleToggleFilters).Methods(http.MethodPost)
	r.HandleFunc("/api/state", s.handleState).Methods(http.MethodGet)
	r.HandleFunc("/healthz", s.handleHealth).Methods(http.MethodGet)

	if s.gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{})).Methods(http.MethodGet)
	}

	s.router = r
}

// loadContext detaches store calls from the client connection so an aborted
// request does not leave the shared state in an error
func (s *Server) loadContext(r *http.Request) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.WithoutCancel(r.Context()), s.loadTimeout)
}

func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	state := s.controller.Snapshot()
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := s.tmpl.ExecuteTemplate(w, "dashboard.html", state); err != nil {
		internal.LogError("[%s] Failed to render dashboard: %v", RequestID(r.Context()), err)
	}
}

func (s *Server) handleReload(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := s.loadContext(r)
	defer cancel()
	if err := s.controller.LoadAllSessions(ctx); err != nil {
		internal.LogWarn("[%s] Reload finished with error: %v", RequestID(r.Context()), err)
	}
	s.respond(w, r)
}

func (s *Server) handleSelect(w http.ResponseWriter, r *http.Request) {
	id, err := sessionIDVar(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	ctx, cancel := s.loadContext(r)
	defer cancel()
	if err := s.controller.SelectSession(ctx, id); err != nil {
		internal.LogWarn("[%s] Select %s finished with error: %v", RequestID(r.Context()), id, err)
	}
	s.respond(w, r)
}

func (s *Server) handleFilter(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	from, err := internal.ParseDay(q.Get("from"), time.UTC)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	to, err := internal.ParseDay(q.Get("to"), time.UTC)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	s.controller.ApplyFilters(internal.FilterCriteria{
		Text:     strings.TrimSpace(q.Get("q")),
		DateFrom: from,
		DateTo:   to,
	})
	s.respond(w, r)
}

func (s *Server) handleClearFilter(w http.ResponseWriter, r *http.Request) {
	s.controller.ClearFilters()
	s.respond(w, r)
}

func (s *Server) handleToggleSidebar(w http.ResponseWriter, r *http.Request) {
	s.controller.ToggleSidebar()
	s.respond(w, r)
}

func (s *Server) handleToggleFilters(w http.ResponseWriter, r *http.Request) {
	s.controller.ToggleFilters()
	s.respond(w, r)
}

func (s *Server) handleState(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.controller.Snapshot())
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	state := s.controller.Snapshot()
	if state.ConfigError != "" {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{
			"status": "unconfigured",
			"error":  state.ConfigError,
		})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{
		"status":     "ok",
		"list_state": state.ListState,
	})
}

func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	if s.store == nil {
		writeError(w, http.StatusServiceUnavailable, errors.New("no session store configured"))
		return
	}

	format := r.URL.Query().Get("format")
	if format == "" {
		format = "json"
	}
	exporter, err := export.NewExporter(format)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	id, err := sessionIDVar(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	ctx, cancel := s.loadContext(r)
	defer cancel()
	transcript, err := internal.LoadTranscript(ctx, s.store, id)
	if err != nil {
		status := http.StatusBadGateway
		if errors.Is(err, internal.ErrSessionNotFound) {
			status = http.StatusNotFound
		}
		writeError(w, status, err)
		return
	}

	w.Header().Set("Content-Type", exporter.ContentType())
	w.Header().Set("Content-Disposition", `attachment; filename="`+export.Filename(id, exporter)+`"`)
	if err := exporter.Export(transcript, w); err != nil {
		internal.LogError("[%s] Export of %s failed: %v", RequestID(r.Context()), id, err)
	}
}

// sessionIDVar decodes the path-escaped {id} route variable
func sessionIDVar(r *http.Request) (internal.SessionID, error) {
	id, err := url.PathUnescape(mux.Vars(r)["id"])
	if err != nil {
		return "", fmt.Errorf("invalid session id: %w", err)
	}
	return internal.SessionID(id), nil
}

// respond answers a state-changing request with the new state as JSON, or
// redirects browsers back to the dashboard
func (s *Server) respond(w http.ResponseWriter, r *http.Request) {
	if wantsJSON(r) {
		writeJSON(w, http.StatusOK, s.controller.Snapshot())
		return
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func wantsJSON(r *http.Request) bool {
	return r.URL.Query().Get("format") == "json" ||
		strings.Contains(r.Header.Get("Accept"), "application/json")
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		internal.LogError("Failed to encode response: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, map[string]string{"error": err.Error()})
}
