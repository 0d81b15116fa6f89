package middleware

import (
	"context"
	"net/http"

	"github.com/fdumary/HawkEye/internal/identity"
)

type contextKey string

const (
	sessionContextKey  contextKey = "session"
	identityContextKey contextKey = "identity"
)

// SessionFromRequest resolves the request's token to a live session,
// or nil. Absent, expired and revoked tokens all come back nil.
func (sm *SessionManager) SessionFromRequest(r *http.Request) *Session {
	return sm.lookup(r.Context(), sm.TokenFromRequest(r))
}

// RequireAuth validates the session and injects both the session and
// the resolved identity into the request context before the handler
// runs. Requests failing any step get a 401; a valid session whose
// identity has left the roster fails closed the same way.
func RequireAuth(sm *SessionManager, identities *identity.Store) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			session := sm.SessionFromRequest(r)
			if session == nil {
				http.Error(w, `{"error": "unauthorized"}`, http.StatusUnauthorized)
				return
			}
			rec, err := identities.Get(session.IdentityID)
			if err != nil {
				http.Error(w, `{"error": "unauthorized"}`, http.StatusUnauthorized)
				return
			}

			ctx := context.WithValue(r.Context(), sessionContextKey, session)
			ctx = context.WithValue(ctx, identityContextKey, rec)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireClearance rejects authenticated callers below the required
// clearance level. Must be mounted inside RequireAuth.
func RequireClearance(required identity.Clearance) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			rec := IdentityFromContext(r.Context())
			if rec == nil || !rec.Clearance.AtLeast(required) {
				http.Error(w, `{"error": "access denied"}`, http.StatusForbidden)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// SessionFromContext retrieves the session injected by RequireAuth.
func SessionFromContext(ctx context.Context) *Session {
	session, _ := ctx.Value(sessionContextKey).(*Session)
	return session
}

// IdentityFromContext retrieves the identity injected by RequireAuth.
func IdentityFromContext(ctx context.Context) *identity.Identity {
	rec, _ := ctx.Value(identityContextKey).(*identity.Identity)
	return rec
}

// WithTestIdentity injects a session and identity into ctx. Test
// helper; production requests go through RequireAuth.
func WithTestIdentity(ctx context.Context, session *Session, rec *identity.Identity) context.Context {
	ctx = context.WithValue(ctx, sessionContextKey, session)
	return context.WithValue(ctx, identityContextKey, rec)
}
