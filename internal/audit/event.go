// Package audit provides the append-only access-event ledger. The
// ledger is an unprivileged record keeper; clearance gating of reads
// belongs to the callers.
package audit

import (
	"time"

	"github.com/google/uuid"
)

// Outcome classifies an access event.
type Outcome string

const (
	OutcomeSuccess Outcome = "SUCCESS"
	OutcomeDenied  Outcome = "DENIED"
	OutcomeLogout  Outcome = "LOGOUT"
)

// Event is a single immutable entry in the access log. Seq is assigned
// by the ledger at append time and defines the authoritative order.
type Event struct {
	ID         string    `json:"id"`
	Seq        uint64    `json:"-"`
	IdentityID string    `json:"soldier_id"`
	Name       string    `json:"name"`
	Timestamp  time.Time `json:"timestamp"`
	Outcome    Outcome   `json:"status"`
	Area       string    `json:"area"`
	Reason     string    `json:"reason,omitempty"`
}

// NewEvent builds a fully populated event ready to append.
func NewEvent(identityID, name string, outcome Outcome, area, reason string) Event {
	return Event{
		ID:         uuid.NewString(),
		IdentityID: identityID,
		Name:       name,
		Timestamp:  time.Now().UTC(),
		Outcome:    outcome,
		Area:       area,
		Reason:     reason,
	}
}
