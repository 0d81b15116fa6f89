// Package web wires the HTTP server: router, middleware stack and
// route table.
package web

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/fdumary/HawkEye/internal/access"
	"github.com/fdumary/HawkEye/internal/audit"
	"github.com/fdumary/HawkEye/internal/config"
	"github.com/fdumary/HawkEye/internal/credential"
	"github.com/fdumary/HawkEye/internal/identity"
	"github.com/fdumary/HawkEye/internal/web/middleware"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
)

// Server represents the web server
type Server struct {
	config         *config.Config
	router         *chi.Mux
	httpServer     *http.Server
	identities     *identity.Store
	verifier       *credential.Verifier
	ledger         *audit.Ledger
	engine         *access.Engine
	sessionManager *middleware.SessionManager
}

// NewServer creates a new web server
func NewServer(
	cfg *config.Config,
	identities *identity.Store,
	verifier *credential.Verifier,
	ledger *audit.Ledger,
	sessionRepo middleware.SessionRepository,
) *Server {
	r := chi.NewRouter()

	sessionManager := middleware.NewSessionManager(cfg.Session.Secret, cfg.Session.TTL, sessionRepo)

	s := &Server{
		config:         cfg,
		router:         r,
		identities:     identities,
		verifier:       verifier,
		ledger:         ledger,
		engine:         access.NewEngine(identities, ledger),
		sessionManager: sessionManager,
	}

	// Set up middleware stack
	r.Use(chiMiddleware.RequestID)
	r.Use(chiMiddleware.RealIP)
	r.Use(chiMiddleware.Logger)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Timeout(time.Minute))
	r.Use(middleware.CORS())

	s.setupRoutes()

	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      r,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: time.Minute,
		IdleTimeout:  60 * time.Second,
	}

	return s
}

// Start starts the HTTP server
func (s *Server) Start() error {
	log.Printf("Starting web server on %s", s.httpServer.Addr)
	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("failed to start server: %w", err)
	}
	return nil
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	log.Println("Shutting down web server...")

	// Stop the session sweep goroutine
	if s.sessionManager != nil {
		s.sessionManager.Stop()
	}

	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("shutting down server: %w", err)
	}
	return nil
}

// Router returns the chi router for testing
func (s *Server) Router() *chi.Mux {
	return s.router
}
