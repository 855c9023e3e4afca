// Package server exposes the conversion pipeline over a small JSON
// HTTP API so the tool can back a web front end or be driven by other
// programs.
package server

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/dgnsrekt/ttspipe/tts"
	"github.com/dgnsrekt/ttspipe/tts/engines/azure"
)

// Server handles HTTP API requests. Credentials arrive at runtime via
// the initialize endpoint; conversions read an immutable snapshot of
// the configuration taken at initialization time.
type Server struct {
	logger *log.Logger
	server *http.Server

	mu  sync.RWMutex
	cfg *tts.Config

	// newEngine builds the synthesis engine for a conversion. Tests
	// swap this out to avoid the network.
	newEngine func(cfg tts.Config) (tts.Engine, error)
}

// New creates an API server listening on addr.
func New(addr string, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.Default()
	}

	s := &Server{
		logger:    logger,
		newEngine: defaultEngine,
	}

	s.server = &http.Server{
		Addr:         addr,
		Handler:      s.routes(),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 5 * time.Minute,
		IdleTimeout:  60 * time.Second,
	}

	return s
}

func defaultEngine(cfg tts.Config) (tts.Engine, error) {
	return azure.New(cfg.Endpoint, cfg.APIKey,
		azure.WithModel(cfg.Model),
		azure.WithResponseFormat(cfg.ResponseFormat),
		azure.WithTimeout(cfg.RequestTimeout),
	)
}

func (s *Server) routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /healthz", s.handleHealthz)
	mux.HandleFunc("POST /api/initialize", s.handleInitialize)
	mux.HandleFunc("POST /api/convert", s.handleConvert)
	return s.withLogging(mux)
}

// Handler returns the server's HTTP handler. Exposed for tests.
func (s *Server) Handler() http.Handler {
	return s.server.Handler
}

// Start begins listening for HTTP requests. It blocks until the server
// is shut down.
func (s *Server) Start() error {
	s.logger.Info("starting HTTP server", "addr", s.server.Addr)
	if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("http server error: %w", err)
	}
	return nil
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down HTTP server")
	return s.server.Shutdown(ctx)
}

// config returns the current configuration snapshot, or nil if the
// server has not been initialized.
func (s *Server) config() *tts.Config {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cfg
}

func (s *Server) setConfig(cfg tts.Config) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cfg = &cfg
}
