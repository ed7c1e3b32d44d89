// Package server serves the dashboard over local HTTP.
//
// Each browser tab owns one engine.Session, identified by the
// launchdash_session cookie on the page and by the {id} path segment on the
// JSON API. A control change is one synchronous request: the event is
// coerced by the controls, applied to the session, and only the affected
// chart slots come back.
package server

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"html/template"
	"log/slog"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/roach88/launchdash/internal/control"
	"github.com/roach88/launchdash/internal/engine"
	"github.com/roach88/launchdash/internal/render"
)

//go:embed dashboard.html
var dashboardFS embed.FS

// SessionCookie names the cookie carrying the page's session ID.
const SessionCookie = "launchdash_session"

const (
	defaultSweepInterval = time.Minute
	shutdownTimeout      = 5 * time.Second
)

// Config contains configuration options for the server.
type Config struct {
	Address       string
	Registry      *engine.Registry
	Selector      control.SiteSelector
	Slider        control.RangeSlider
	Title         string
	ChartSize     render.Size
	SweepInterval time.Duration
}

// Server handles the dashboard page and its JSON API.
type Server struct {
	address       string
	registry      *engine.Registry
	selector      control.SiteSelector
	slider        control.RangeSlider
	title         string
	size          render.Size
	sweepInterval time.Duration

	page   *template.Template
	server *http.Server
}

// New creates a server with the provided configuration.
func New(cfg Config) (*Server, error) {
	if cfg.Registry == nil {
		return nil, errors.New("server: registry is required")
	}
	page, err := template.ParseFS(dashboardFS, "dashboard.html")
	if err != nil {
		return nil, fmt.Errorf("server: parse page template: %w", err)
	}

	s := &Server{
		address:       cfg.Address,
		registry:      cfg.Registry,
		selector:      cfg.Selector,
		slider:        cfg.Slider,
		title:         cfg.Title,
		size:          cfg.ChartSize,
		sweepInterval: cfg.SweepInterval,
		page:          page,
	}
	if s.sweepInterval <= 0 {
		s.sweepInterval = defaultSweepInterval
	}
	s.server = &http.Server{
		Addr:              s.address,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s, nil
}

// Handler returns the routed handler, for tests and embedding.
func (s *Server) Handler() http.Handler {
	return logRequests(s.setupRoutes())
}

// Start listens on the configured address and serves until ctx is done.
func (s *Server) Start(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.address)
	if err != nil {
		return fmt.Errorf("server: listen on %s: %w", s.address, err)
	}
	return s.Serve(ctx, ln)
}

// Serve accepts connections on ln until ctx is done, then shuts down
// gracefully. Idle sessions are swept while serving.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	errCh := make(chan error, 1)
	go func() {
		slog.Info("http server listening", "addr", ln.Addr().String())
		if err := s.server.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	sweepCtx, stopSweep := context.WithCancel(ctx)
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		s.sweep(sweepCtx)
	}()
	defer func() {
		stopSweep()
		wg.Wait()
	}()

	select {
	case err, ok := <-errCh:
		if ok {
			return fmt.Errorf("server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	slog.Info("shutting down http server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := s.server.Shutdown(shutdownCtx); err != nil {
		slog.Warn("http server shutdown error", "error", err)
		if err := s.server.Close(); err != nil {
			slog.Warn("http server force close error", "error", err)
		}
	}
	<-errCh
	slog.Info("http server stopped")
	return nil
}

func (s *Server) sweep(ctx context.Context) {
	ticker := time.NewTicker(s.sweepInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.registry.Sweep()
		}
	}
}

// setupRoutes configures the HTTP routes and handlers.
func (s *Server) setupRoutes() *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", s.handleHealth)
	mux.HandleFunc("GET /{$}", s.handleDashboard)
	mux.HandleFunc("GET /api/controls", s.handleControls)
	mux.HandleFunc("POST /api/sessions", s.handleCreateSession)
	mux.HandleFunc("GET /api/sessions/{id}", s.handleGetSession)
	mux.HandleFunc("DELETE /api/sessions/{id}", s.handleDropSession)
	mux.HandleFunc("POST /api/sessions/{id}/site", s.handleSite)
	mux.HandleFunc("POST /api/sessions/{id}/payload", s.handlePayload)
	mux.HandleFunc("GET /api/sessions/{id}/charts/{file}", s.handleChartSVG)

	return mux
}

func logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		slog.Debug("http request", "method", r.Method, "path", r.URL.Path, "duration", time.Since(start))
	})
}
