package web

import (
	"github.com/fdumary/HawkEye/internal/identity"
	"github.com/fdumary/HawkEye/internal/web/handlers"
	"github.com/fdumary/HawkEye/internal/web/middleware"
	"github.com/go-chi/chi/v5"
)

func (s *Server) setupRoutes() {
	authHandler := handlers.NewAuthHandler(s.verifier, s.identities, s.ledger, s.sessionManager)
	credentialsHandler := handlers.NewCredentialsHandler(s.verifier, s.identities)
	accessHandler := handlers.NewAccessHandler(s.engine)
	profileHandler := handlers.NewProfileHandler(s.identities)
	auditHandler := handlers.NewAuditHandler(s.ledger)

	// Health check (no auth required)
	s.router.Get("/api/health", handlers.HealthCheck)

	s.router.Route("/api", func(r chi.Router) {
		// Anonymous routes
		r.Post("/authenticate", authHandler.Authenticate)
		r.Post("/logout", authHandler.Logout)
		r.Get("/check-session", authHandler.CheckSession)

		// Everything else requires a live session for a roster identity
		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireAuth(s.sessionManager, s.identities))

			r.Post("/register-face", credentialsHandler.RegisterFace)
			r.Post("/request-access", accessHandler.RequestAccess)
			r.Get("/profile", profileHandler.Profile)

			// TOP_SECRET only
			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireClearance(identity.ClearanceTopSecret))

				r.Get("/access-log", auditHandler.AccessLog)
				r.Get("/all-personnel", profileHandler.AllPersonnel)
			})
		})
	})
}
