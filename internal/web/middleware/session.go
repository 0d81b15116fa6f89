package middleware

import (
	"context"
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"
)

const sessionCookieName = "hawkeye_session"

// Session binds a bearer token to an authenticated identity for a
// bounded time. Lifecycle: issued active, then expired or revoked;
// both end states are terminal and look identical to callers.
type Session struct {
	ID         string
	IdentityID string
	CreatedAt  time.Time
	ExpiresAt  time.Time

	revoked bool
}

// StoredSession is the persisted form of a session.
type StoredSession struct {
	ID         string
	IdentityID string
	CreatedAt  time.Time
	ExpiresAt  time.Time
}

// SessionRepository persists sessions across restarts. A nil repository
// keeps sessions in memory only.
type SessionRepository interface {
	Save(ctx context.Context, s StoredSession) error
	Get(ctx context.Context, sessionID string) (*StoredSession, error)
	Delete(ctx context.Context, sessionID string) error
	DeleteExpired(ctx context.Context) (int64, error)
}

// SessionManager issues, validates and revokes session tokens.
// Mutation of the session table is serialized; expiry is evaluated
// lazily on lookup with a periodic background sweep.
type SessionManager struct {
	secret   []byte
	ttl      time.Duration
	repo     SessionRepository
	sessions map[string]*Session
	mu       sync.RWMutex

	stopOnce sync.Once
	stop     chan struct{}
}

// NewSessionManager creates a session manager. The secret signs the
// session cookie; an empty secret gets a random one (sessions then die
// with the process, which is fine for development).
func NewSessionManager(secret string, ttl time.Duration, repo SessionRepository) *SessionManager {
	key := []byte(secret)
	if len(key) == 0 {
		key = make([]byte, 32)
		_, _ = rand.Read(key)
	}
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	sm := &SessionManager{
		secret:   key,
		ttl:      ttl,
		repo:     repo,
		sessions: make(map[string]*Session),
		stop:     make(chan struct{}),
	}
	go sm.sweep(10 * time.Minute)
	return sm
}

// Issue creates a new active session for identityID. An identity may
// hold any number of concurrent sessions.
func (sm *SessionManager) Issue(ctx context.Context, identityID string) (*Session, error) {
	idBytes := make([]byte, 32)
	if _, err := rand.Read(idBytes); err != nil {
		return nil, fmt.Errorf("generating session id: %w", err)
	}

	now := time.Now()
	session := &Session{
		ID:         base64.URLEncoding.EncodeToString(idBytes),
		IdentityID: identityID,
		CreatedAt:  now,
		ExpiresAt:  now.Add(sm.ttl),
	}

	// Persist before publishing so an aborted request never leaves a
	// half-created session visible.
	if sm.repo != nil {
		stored := StoredSession{
			ID:         session.ID,
			IdentityID: session.IdentityID,
			CreatedAt:  session.CreatedAt,
			ExpiresAt:  session.ExpiresAt,
		}
		if err := sm.repo.Save(ctx, stored); err != nil {
			return nil, fmt.Errorf("persisting session: %w", err)
		}
	}

	sm.mu.Lock()
	sm.sessions[session.ID] = session
	sm.mu.Unlock()

	return session, nil
}

// Validate resolves a token to its identity id. Unknown, expired and
// revoked tokens are indistinguishable: all return ok=false.
func (sm *SessionManager) Validate(ctx context.Context, token string) (string, bool) {
	session := sm.lookup(ctx, token)
	if session == nil {
		return "", false
	}
	return session.IdentityID, true
}

// Revoke terminates a session. Revoking an unknown or already revoked
// token is a no-op.
func (sm *SessionManager) Revoke(ctx context.Context, token string) {
	sm.mu.Lock()
	if session, ok := sm.sessions[token]; ok {
		session.revoked = true
	} else {
		// Tombstone so a persisted copy cannot revive the token.
		sm.sessions[token] = &Session{ID: token, revoked: true, ExpiresAt: time.Now().Add(sm.ttl)}
	}
	sm.mu.Unlock()

	if sm.repo != nil {
		_ = sm.repo.Delete(ctx, token)
	}
}

// Stop terminates the background sweep goroutine.
func (sm *SessionManager) Stop() {
	sm.stopOnce.Do(func() { close(sm.stop) })
}

// lookup returns a copy of the live session for token, or nil. Expired
// and revoked entries are treated as absent. The copy is taken while
// the lock is held so Revoke on the shared entry cannot race the read.
func (sm *SessionManager) lookup(ctx context.Context, token string) *Session {
	if token == "" {
		return nil
	}

	sm.mu.RLock()
	if session, ok := sm.sessions[token]; ok {
		live := liveCopy(session)
		sm.mu.RUnlock()
		return live
	}
	sm.mu.RUnlock()

	// Fall back to the repository after a restart.
	if sm.repo == nil {
		return nil
	}
	stored, err := sm.repo.Get(ctx, token)
	if err != nil || stored == nil {
		return nil
	}
	if time.Now().After(stored.ExpiresAt) {
		return nil
	}
	session := &Session{
		ID:         stored.ID,
		IdentityID: stored.IdentityID,
		CreatedAt:  stored.CreatedAt,
		ExpiresAt:  stored.ExpiresAt,
	}
	sm.mu.Lock()
	// Re-check: the token may have been revoked while we read the repo.
	if existing, ok := sm.sessions[token]; ok {
		session = existing
	} else {
		sm.sessions[token] = session
	}
	live := liveCopy(session)
	sm.mu.Unlock()
	return live
}

// liveCopy snapshots a session for use outside the lock, or returns
// nil when it is revoked or expired. Callers must hold sm.mu.
func liveCopy(session *Session) *Session {
	if session.revoked || time.Now().After(session.ExpiresAt) {
		return nil
	}
	copied := *session
	return &copied
}

// sweep drops expired sessions periodically. Correctness does not
// depend on it; lookup already rejects expired tokens.
func (sm *SessionManager) sweep(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-sm.stop:
			return
		case <-ticker.C:
			now := time.Now()
			sm.mu.Lock()
			for id, session := range sm.sessions {
				if now.After(session.ExpiresAt) {
					delete(sm.sessions, id)
				}
			}
			sm.mu.Unlock()
			if sm.repo != nil {
				ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
				_, _ = sm.repo.DeleteExpired(ctx)
				cancel()
			}
		}
	}
}

// SetSessionCookie writes the signed session cookie.
func (sm *SessionManager) SetSessionCookie(w http.ResponseWriter, session *Session) {
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    session.ID + "." + sm.sign(session.ID),
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   int(time.Until(session.ExpiresAt).Seconds()),
	})
}

// ClearSessionCookie removes the session cookie.
func (sm *SessionManager) ClearSessionCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		MaxAge:   -1,
	})
}

// TokenFromRequest extracts the session token from the signed cookie
// or, failing that, a bearer Authorization header. Returns "" when the
// request carries no valid token.
func (sm *SessionManager) TokenFromRequest(r *http.Request) string {
	if cookie, err := r.Cookie(sessionCookieName); err == nil {
		parts := strings.SplitN(cookie.Value, ".", 2)
		if len(parts) == 2 && sm.verify(parts[0], parts[1]) {
			return parts[0]
		}
	}
	if auth := r.Header.Get("Authorization"); strings.HasPrefix(auth, "Bearer ") {
		return strings.TrimPrefix(auth, "Bearer ")
	}
	return ""
}

func (sm *SessionManager) sign(data string) string {
	h := hmac.New(sha256.New, sm.secret)
	h.Write([]byte(data))
	return base64.URLEncoding.EncodeToString(h.Sum(nil))
}

func (sm *SessionManager) verify(data, signature string) bool {
	return hmac.Equal([]byte(signature), []byte(sm.sign(data)))
}
