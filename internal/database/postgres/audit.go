package postgres

import (
	"context"
	"fmt"

	"github.com/fdumary/HawkEye/internal/audit"
)

// AuditRecorder provides PostgreSQL-backed audit event persistence
type AuditRecorder struct {
	pool *Pool
}

// NewAuditRecorder creates a new PostgreSQL audit recorder
func NewAuditRecorder(pool *Pool) *AuditRecorder {
	return &AuditRecorder{pool: pool}
}

// Record persists a single audit event
func (r *AuditRecorder) Record(ctx context.Context, event audit.Event) error {
	query := `
		INSERT INTO audit_events (id, identity_id, name, occurred_at, status, area, reason)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	_, err := r.pool.Exec(ctx, query,
		event.ID, event.IdentityID, event.Name, event.Timestamp, string(event.Outcome), event.Area, event.Reason)
	if err != nil {
		return fmt.Errorf("record audit event: %w", err)
	}
	return nil
}

// Recent returns the newest n persisted events, oldest first
func (r *AuditRecorder) Recent(ctx context.Context, n int) ([]audit.Event, error) {
	query := `
		SELECT id, identity_id, name, occurred_at, status, area, reason
		FROM (
			SELECT id, identity_id, name, occurred_at, status, area, reason, seq
			FROM audit_events
			ORDER BY seq DESC
			LIMIT $1
		) newest
		ORDER BY seq ASC
	`

	rows, err := r.pool.Query(ctx, query, n)
	if err != nil {
		return nil, fmt.Errorf("query recent audit events: %w", err)
	}
	defer rows.Close()

	var events []audit.Event
	for rows.Next() {
		var e audit.Event
		var status string
		if err := rows.Scan(&e.ID, &e.IdentityID, &e.Name, &e.Timestamp, &status, &e.Area, &e.Reason); err != nil {
			return nil, fmt.Errorf("scan audit event: %w", err)
		}
		e.Outcome = audit.Outcome(status)
		events = append(events, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate audit events: %w", err)
	}
	return events, nil
}
