// Package access evaluates area admission requests against the
// personnel roster and records every decision in the audit ledger.
package access

import (
	"context"
	"errors"
	"fmt"

	"github.com/fdumary/HawkEye/internal/audit"
	"github.com/fdumary/HawkEye/internal/identity"
)

// ReasonInsufficientClearance is the denial reason for an area the
// identity holds no grant for.
const ReasonInsufficientClearance = "insufficient clearance"

// ErrAreaRequired is returned when no area was specified.
var ErrAreaRequired = errors.New("area not specified")

// Decision is the outcome of a single access request.
type Decision struct {
	Granted   bool
	Clearance identity.Clearance
	Area      string
	Reason    string
}

// Engine decides grant/deny for area requests. It holds no mutable
// state of its own; the only side effect of a decision is the audit
// append.
type Engine struct {
	identities *identity.Store
	ledger     *audit.Ledger
}

// NewEngine creates an access decision engine.
func NewEngine(identities *identity.Store, ledger *audit.Ledger) *Engine {
	return &Engine{identities: identities, ledger: ledger}
}

// RequestAccess grants iff the identity holds an explicit grant for
// area. Every decided request appends exactly one audit event. An
// unknown identity fails closed with identity.ErrNotFound and no event,
// since events must reference personnel on the roster.
func (e *Engine) RequestAccess(ctx context.Context, identityID, area string) (Decision, error) {
	if area == "" {
		return Decision{}, ErrAreaRequired
	}

	rec, err := e.identities.Get(identityID)
	if err != nil {
		return Decision{}, fmt.Errorf("resolving identity: %w", err)
	}

	decision := Decision{Area: area, Clearance: rec.Clearance}
	if rec.HasArea(area) {
		decision.Granted = true
		e.ledger.Append(ctx, audit.NewEvent(rec.ID, rec.Name, audit.OutcomeSuccess, area, ""))
	} else {
		decision.Reason = ReasonInsufficientClearance
		e.ledger.Append(ctx, audit.NewEvent(rec.ID, rec.Name, audit.OutcomeDenied, area, decision.Reason))
	}
	return decision, nil
}
