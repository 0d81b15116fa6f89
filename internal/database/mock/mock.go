// Package mock provides in-memory implementations of the storage
// interfaces, used by tests and by the "memory" database driver.
package mock

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/fdumary/HawkEye/internal/audit"
	"github.com/fdumary/HawkEye/internal/credential"
	"github.com/fdumary/HawkEye/internal/web/middleware"
)

// CredentialStore is a mock implementation of credential.Store.
type CredentialStore struct {
	mu      sync.RWMutex
	records map[string]credential.Record

	// Error injection
	SaveError error
	GetError  error
	ListError error
}

// NewCredentialStore creates a new mock credential store.
func NewCredentialStore() *CredentialStore {
	return &CredentialStore{records: make(map[string]credential.Record)}
}

// Save stores a credential record, replacing any previous one.
func (m *CredentialStore) Save(ctx context.Context, rec credential.Record) error {
	if m.SaveError != nil {
		return m.SaveError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.records[rec.IdentityID] = rec
	return nil
}

// Get retrieves a record by identity id, nil if not found.
func (m *CredentialStore) Get(ctx context.Context, identityID string) (*credential.Record, error) {
	if m.GetError != nil {
		return nil, m.GetError
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	rec, ok := m.records[identityID]
	if !ok {
		return nil, nil
	}
	return &rec, nil
}

// List returns all stored records sorted by identity id.
func (m *CredentialStore) List(ctx context.Context) ([]credential.Record, error) {
	if m.ListError != nil {
		return nil, m.ListError
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]credential.Record, 0, len(m.records))
	for _, rec := range m.records {
		out = append(out, rec)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].IdentityID < out[j].IdentityID })
	return out, nil
}

// Len returns the number of stored records.
func (m *CredentialStore) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.records)
}

// SessionRepository is a mock implementation of middleware.SessionRepository.
type SessionRepository struct {
	mu       sync.RWMutex
	sessions map[string]middleware.StoredSession

	// Error injection
	SaveError   error
	GetError    error
	DeleteError error
}

// NewSessionRepository creates a new mock session repository.
func NewSessionRepository() *SessionRepository {
	return &SessionRepository{sessions: make(map[string]middleware.StoredSession)}
}

// Save stores a session.
func (m *SessionRepository) Save(ctx context.Context, s middleware.StoredSession) error {
	if m.SaveError != nil {
		return m.SaveError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[s.ID] = s
	return nil
}

// Get retrieves a session by id, nil if not found.
func (m *SessionRepository) Get(ctx context.Context, sessionID string) (*middleware.StoredSession, error) {
	if m.GetError != nil {
		return nil, m.GetError
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.sessions[sessionID]
	if !ok {
		return nil, nil
	}
	return &s, nil
}

// Delete removes a session. Deleting an unknown id is not an error.
func (m *SessionRepository) Delete(ctx context.Context, sessionID string) error {
	if m.DeleteError != nil {
		return m.DeleteError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, sessionID)
	return nil
}

// DeleteExpired removes sessions past their expiry.
func (m *SessionRepository) DeleteExpired(ctx context.Context) (int64, error) {
	if m.DeleteError != nil {
		return 0, m.DeleteError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	now := time.Now()
	var n int64
	for id, s := range m.sessions {
		if now.After(s.ExpiresAt) {
			delete(m.sessions, id)
			n++
		}
	}
	return n, nil
}

// Len returns the number of stored sessions.
func (m *SessionRepository) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}

// AuditRecorder is a mock implementation of audit.Recorder.
type AuditRecorder struct {
	mu     sync.RWMutex
	events []audit.Event

	// Error injection
	RecordError error
	RecentError error
}

// NewAuditRecorder creates a new mock audit recorder.
func NewAuditRecorder() *AuditRecorder {
	return &AuditRecorder{}
}

// Record appends an event.
func (m *AuditRecorder) Record(ctx context.Context, event audit.Event) error {
	if m.RecordError != nil {
		return m.RecordError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = append(m.events, event)
	return nil
}

// Recent returns the newest n persisted events, oldest first.
func (m *AuditRecorder) Recent(ctx context.Context, n int) ([]audit.Event, error) {
	if m.RecentError != nil {
		return nil, m.RecentError
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	start := len(m.events) - n
	if start < 0 {
		start = 0
	}
	out := make([]audit.Event, len(m.events)-start)
	copy(out, m.events[start:])
	return out, nil
}

// Len returns the number of persisted events.
func (m *AuditRecorder) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.events)
}
