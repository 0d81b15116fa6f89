package web

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/fdumary/HawkEye/internal/audit"
	"github.com/fdumary/HawkEye/internal/config"
	"github.com/fdumary/HawkEye/internal/credential"
	"github.com/fdumary/HawkEye/internal/database/mock"
	"github.com/fdumary/HawkEye/internal/identity"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()

	identities, err := identity.LoadStore("")
	if err != nil {
		t.Fatalf("failed to load embedded roster: %v", err)
	}
	cmp, err := credential.NewComparator(credential.ComparatorExact)
	if err != nil {
		t.Fatalf("failed to create comparator: %v", err)
	}
	verifier := credential.NewVerifier(mock.NewCredentialStore(), cmp, 1.0, time.Second)
	ledger := audit.NewLedger()

	cfg := &config.Config{}
	cfg.Server.Host = "127.0.0.1"
	cfg.Server.Port = 0
	cfg.Session.Secret = "test-secret"
	cfg.Session.TTL = time.Hour

	srv := NewServer(cfg, identities, verifier, ledger, nil)
	t.Cleanup(func() { srv.sessionManager.Stop() })
	return srv
}

func bearerRequest(t *testing.T, srv *Server, method, path, identityID string) *http.Request {
	t.Helper()
	req := httptest.NewRequest(method, path, nil)
	if identityID != "" {
		session, err := srv.sessionManager.Issue(req.Context(), identityID)
		if err != nil {
			t.Fatalf("failed to issue session: %v", err)
		}
		req.Header.Set("Authorization", "Bearer "+session.ID)
	}
	return req
}

func TestHealthRoute(t *testing.T) {
	srv := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/api/health", nil)
	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", rec.Code)
	}
}

func TestRouteAuthorization(t *testing.T) {
	srv := newTestServer(t)

	tests := []struct {
		name       string
		method     string
		path       string
		identityID string
		wantStatus int
	}{
		{"profile without session", http.MethodGet, "/api/profile", "", http.StatusUnauthorized},
		{"profile with session", http.MethodGet, "/api/profile", "soldier1", http.StatusOK},
		{"access log without session", http.MethodGet, "/api/access-log", "", http.StatusUnauthorized},
		{"access log below top secret", http.MethodGet, "/api/access-log", "soldier1", http.StatusForbidden},
		{"access log confidential", http.MethodGet, "/api/access-log", "soldier3", http.StatusForbidden},
		{"access log top secret", http.MethodGet, "/api/access-log", "soldier2", http.StatusOK},
		{"personnel below top secret", http.MethodGet, "/api/all-personnel", "soldier1", http.StatusForbidden},
		{"personnel top secret", http.MethodGet, "/api/all-personnel", "soldier2", http.StatusOK},
		{"register face without session", http.MethodPost, "/api/register-face", "", http.StatusUnauthorized},
		{"check session anonymous", http.MethodGet, "/api/check-session", "", http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := bearerRequest(t, srv, tt.method, tt.path, tt.identityID)
			rec := httptest.NewRecorder()
			srv.Router().ServeHTTP(rec, req)

			if rec.Code != tt.wantStatus {
				t.Errorf("expected %d, got %d\nBody: %s", tt.wantStatus, rec.Code, rec.Body.String())
			}
		})
	}
}
