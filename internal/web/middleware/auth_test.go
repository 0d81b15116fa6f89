package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/fdumary/HawkEye/internal/identity"
)

func rosterStore(t *testing.T) *identity.Store {
	t.Helper()
	store, err := identity.LoadStore("")
	if err != nil {
		t.Fatalf("loading roster: %v", err)
	}
	return store
}

func okHandler() (http.Handler, *bool) {
	called := new(bool)
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		*called = true
		w.WriteHeader(http.StatusOK)
	}), called
}

func TestRequireAuth_NoSession(t *testing.T) {
	sm := newTestManager(t, time.Hour, nil)
	next, called := okHandler()
	handler := RequireAuth(sm, rosterStore(t))(next)

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/profile", nil))

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("expected 401, got %d", rec.Code)
	}
	if *called {
		t.Error("handler must not run without a session")
	}
}

func TestRequireAuth_InjectsIdentity(t *testing.T) {
	sm := newTestManager(t, time.Hour, nil)
	store := rosterStore(t)
	session, _ := sm.Issue(context.Background(), "soldier1")

	var gotIdentity *identity.Identity
	handler := RequireAuth(sm, store)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotIdentity = IdentityFromContext(r.Context())
		if SessionFromContext(r.Context()) == nil {
			t.Error("session missing from context")
		}
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/profile", nil)
	req.Header.Set("Authorization", "Bearer "+session.ID)
	handler.ServeHTTP(httptest.NewRecorder(), req)

	if gotIdentity == nil || gotIdentity.ID != "soldier1" {
		t.Errorf("expected soldier1 in context, got %+v", gotIdentity)
	}
}

func TestRequireAuth_IdentityOffRoster(t *testing.T) {
	sm := newTestManager(t, time.Hour, nil)
	session, _ := sm.Issue(context.Background(), "discharged")

	next, called := okHandler()
	handler := RequireAuth(sm, rosterStore(t))(next)

	req := httptest.NewRequest(http.MethodGet, "/api/profile", nil)
	req.Header.Set("Authorization", "Bearer "+session.ID)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	// Valid token, unknown identity: fail closed.
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("expected 401, got %d", rec.Code)
	}
	if *called {
		t.Error("handler must not run for an identity off the roster")
	}
}

func TestRequireClearance(t *testing.T) {
	store := rosterStore(t)

	tests := []struct {
		identityID string
		required   identity.Clearance
		wantStatus int
	}{
		{"soldier2", identity.ClearanceTopSecret, http.StatusOK},
		{"soldier1", identity.ClearanceTopSecret, http.StatusForbidden},
		{"soldier3", identity.ClearanceSecret, http.StatusForbidden},
		{"soldier1", identity.ClearanceConfidential, http.StatusOK},
	}

	for _, tc := range tests {
		t.Run(tc.identityID+"/"+tc.required.String(), func(t *testing.T) {
			rec, err := store.Get(tc.identityID)
			if err != nil {
				t.Fatalf("Get failed: %v", err)
			}

			next, _ := okHandler()
			handler := RequireClearance(tc.required)(next)

			req := httptest.NewRequest(http.MethodGet, "/api/access-log", nil)
			req = req.WithContext(WithTestIdentity(req.Context(), &Session{IdentityID: rec.ID}, rec))
			recorder := httptest.NewRecorder()
			handler.ServeHTTP(recorder, req)

			if recorder.Code != tc.wantStatus {
				t.Errorf("expected %d, got %d", tc.wantStatus, recorder.Code)
			}
		})
	}
}

func TestRequireClearance_NoIdentityFailsClosed(t *testing.T) {
	next, called := okHandler()
	handler := RequireClearance(identity.ClearanceConfidential)(next)

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/access-log", nil))

	if rec.Code != http.StatusForbidden {
		t.Errorf("expected 403, got %d", rec.Code)
	}
	if *called {
		t.Error("handler must not run without an identity")
	}
}
