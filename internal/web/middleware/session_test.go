package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"
)

// repoStub is an in-memory SessionRepository for tests.
type repoStub struct {
	mu       sync.Mutex
	sessions map[string]StoredSession
	saveErr  error
}

func newRepoStub() *repoStub {
	return &repoStub{sessions: make(map[string]StoredSession)}
}

func (r *repoStub) Save(_ context.Context, s StoredSession) error {
	if r.saveErr != nil {
		return r.saveErr
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sessions[s.ID] = s
	return nil
}

func (r *repoStub) Get(_ context.Context, id string) (*StoredSession, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.sessions[id]
	if !ok {
		return nil, nil
	}
	return &s, nil
}

func (r *repoStub) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.sessions, id)
	return nil
}

func (r *repoStub) DeleteExpired(_ context.Context) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	now := time.Now()
	for id, s := range r.sessions {
		if now.After(s.ExpiresAt) {
			delete(r.sessions, id)
			n++
		}
	}
	return n, nil
}

func newTestManager(t *testing.T, ttl time.Duration, repo SessionRepository) *SessionManager {
	t.Helper()
	sm := NewSessionManager("test-secret", ttl, repo)
	t.Cleanup(sm.Stop)
	return sm
}

func TestIssueAndValidate(t *testing.T) {
	sm := newTestManager(t, time.Hour, nil)
	ctx := context.Background()

	session, err := sm.Issue(ctx, "soldier1")
	if err != nil {
		t.Fatalf("Issue failed: %v", err)
	}
	if session.ID == "" {
		t.Fatal("expected non-empty token")
	}

	id, ok := sm.Validate(ctx, session.ID)
	if !ok || id != "soldier1" {
		t.Errorf("Validate = (%q, %v); want (soldier1, true)", id, ok)
	}
}

func TestValidate_InvalidTokensIndistinguishable(t *testing.T) {
	sm := newTestManager(t, 10*time.Millisecond, nil)
	ctx := context.Background()

	expired, err := sm.Issue(ctx, "soldier1")
	if err != nil {
		t.Fatalf("Issue failed: %v", err)
	}
	revoked, err := sm.Issue(ctx, "soldier1")
	if err != nil {
		t.Fatalf("Issue failed: %v", err)
	}
	sm.Revoke(ctx, revoked.ID)
	time.Sleep(20 * time.Millisecond)

	// Never issued, expired, and revoked must all return the same
	// zero result.
	for name, token := range map[string]string{
		"never issued": "no-such-token",
		"expired":      expired.ID,
		"revoked":      revoked.ID,
		"empty":        "",
	} {
		id, ok := sm.Validate(ctx, token)
		if ok || id != "" {
			t.Errorf("%s token: Validate = (%q, %v); want (\"\", false)", name, id, ok)
		}
	}
}

func TestRevoke_Idempotent(t *testing.T) {
	sm := newTestManager(t, time.Hour, nil)
	ctx := context.Background()

	session, err := sm.Issue(ctx, "soldier2")
	if err != nil {
		t.Fatalf("Issue failed: %v", err)
	}

	sm.Revoke(ctx, session.ID)
	sm.Revoke(ctx, session.ID) // second revoke is a no-op
	sm.Revoke(ctx, "unknown-token")

	if _, ok := sm.Validate(ctx, session.ID); ok {
		t.Error("revoked token must not validate")
	}
}

func TestValidateConcurrentWithRevoke(t *testing.T) {
	sm := newTestManager(t, time.Hour, nil)
	ctx := context.Background()

	session, err := sm.Issue(ctx, "soldier1")
	if err != nil {
		t.Fatalf("Issue failed: %v", err)
	}

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		for i := 0; i < 1000; i++ {
			sm.Validate(ctx, session.ID)
		}
	}()
	go func() {
		defer wg.Done()
		sm.Revoke(ctx, session.ID)
	}()
	wg.Wait()

	if _, ok := sm.Validate(ctx, session.ID); ok {
		t.Error("token validated after Revoke returned")
	}
}

func TestValidateConcurrentWithRevoke_RepositoryFallback(t *testing.T) {
	repo := newRepoStub()
	ctx := context.Background()

	first := newTestManager(t, time.Hour, repo)
	session, err := first.Issue(ctx, "soldier2")
	if err != nil {
		t.Fatalf("Issue failed: %v", err)
	}
	first.Stop()

	// A fresh manager resolves the token through the repository while
	// a concurrent Revoke races the re-check.
	second := newTestManager(t, time.Hour, repo)
	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		for i := 0; i < 1000; i++ {
			second.Validate(ctx, session.ID)
		}
	}()
	go func() {
		defer wg.Done()
		second.Revoke(ctx, session.ID)
	}()
	wg.Wait()

	if _, ok := second.Validate(ctx, session.ID); ok {
		t.Error("token validated after Revoke returned")
	}
}

func TestMultipleConcurrentSessionsPerIdentity(t *testing.T) {
	sm := newTestManager(t, time.Hour, nil)
	ctx := context.Background()

	s1, _ := sm.Issue(ctx, "soldier1")
	s2, _ := sm.Issue(ctx, "soldier1")

	if s1.ID == s2.ID {
		t.Fatal("two issues must produce distinct tokens")
	}

	sm.Revoke(ctx, s1.ID)
	if _, ok := sm.Validate(ctx, s2.ID); !ok {
		t.Error("revoking one session must not affect the identity's other sessions")
	}
}

func TestSessionPersistenceAcrossManagers(t *testing.T) {
	repo := newRepoStub()
	ctx := context.Background()

	first := newTestManager(t, time.Hour, repo)
	session, err := first.Issue(ctx, "soldier3")
	if err != nil {
		t.Fatalf("Issue failed: %v", err)
	}
	first.Stop()

	// A fresh manager (restarted process) resolves the token from the
	// repository.
	second := newTestManager(t, time.Hour, repo)
	id, ok := second.Validate(ctx, session.ID)
	if !ok || id != "soldier3" {
		t.Errorf("Validate after restart = (%q, %v); want (soldier3, true)", id, ok)
	}
}

func TestRevokedTokenNotRevivedFromRepository(t *testing.T) {
	repo := newRepoStub()
	sm := newTestManager(t, time.Hour, repo)
	ctx := context.Background()

	session, _ := sm.Issue(ctx, "soldier1")
	sm.Revoke(ctx, session.ID)

	if _, ok := sm.Validate(ctx, session.ID); ok {
		t.Error("revoked token validated via repository fallback")
	}
}

func TestIssue_RepositoryFailure(t *testing.T) {
	repo := newRepoStub()
	repo.saveErr = context.DeadlineExceeded
	sm := newTestManager(t, time.Hour, repo)

	if _, err := sm.Issue(context.Background(), "soldier1"); err == nil {
		t.Error("expected error when persistence fails")
	}
}

func TestCookieRoundTrip(t *testing.T) {
	sm := newTestManager(t, time.Hour, nil)
	ctx := context.Background()

	session, _ := sm.Issue(ctx, "soldier1")

	rec := httptest.NewRecorder()
	sm.SetSessionCookie(rec, session)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	for _, c := range rec.Result().Cookies() {
		req.AddCookie(c)
	}

	if got := sm.TokenFromRequest(req); got != session.ID {
		t.Errorf("TokenFromRequest = %q; want %q", got, session.ID)
	}
}

func TestTamperedCookieRejected(t *testing.T) {
	sm := newTestManager(t, time.Hour, nil)
	session, _ := sm.Issue(context.Background(), "soldier1")

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{
		Name:  "hawkeye_session",
		Value: session.ID + ".forged-signature",
	})

	if got := sm.TokenFromRequest(req); got != "" {
		t.Errorf("tampered cookie yielded token %q", got)
	}
}

func TestBearerTokenFallback(t *testing.T) {
	sm := newTestManager(t, time.Hour, nil)
	session, _ := sm.Issue(context.Background(), "soldier2")

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+session.ID)

	if got := sm.TokenFromRequest(req); got != session.ID {
		t.Errorf("TokenFromRequest = %q; want bearer token", got)
	}
}
