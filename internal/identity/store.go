package identity

import (
	"errors"
	"fmt"
	"sort"
)

// ErrNotFound is returned when an identity id is not in the store.
var ErrNotFound = errors.New("identity not found")

// Store is a read-only lookup over the loaded roster. It performs no
// mutation after construction and is safe for concurrent use.
type Store struct {
	byID  map[string]*Identity
	order []string
}

// NewStore builds a store from a roster. Duplicate ids are rejected.
func NewStore(roster []Identity) (*Store, error) {
	s := &Store{byID: make(map[string]*Identity, len(roster))}
	for i := range roster {
		rec := roster[i]
		if rec.ID == "" {
			return nil, errors.New("roster entry with empty id")
		}
		if _, dup := s.byID[rec.ID]; dup {
			return nil, fmt.Errorf("duplicate roster id %q", rec.ID)
		}
		s.byID[rec.ID] = &rec
		s.order = append(s.order, rec.ID)
	}
	sort.Strings(s.order)
	return s, nil
}

// Get returns the identity for id, or ErrNotFound.
func (s *Store) Get(id string) (*Identity, error) {
	rec, ok := s.byID[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return rec, nil
}

// List returns all identities ordered by id.
func (s *Store) List() []*Identity {
	out := make([]*Identity, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.byID[id])
	}
	return out
}

// HasArea reports whether the identity exists and holds a grant for area.
// Unknown identities fail closed.
func (s *Store) HasArea(id, area string) bool {
	rec, ok := s.byID[id]
	if !ok {
		return false
	}
	return rec.HasArea(area)
}

// Len returns the roster size.
func (s *Store) Len() int {
	return len(s.byID)
}
