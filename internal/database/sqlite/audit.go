package sqlite

import (
	"context"
	"fmt"
	"time"

	"github.com/fdumary/HawkEye/internal/audit"
)

// AuditRecorder provides SQLite-backed audit event persistence
type AuditRecorder struct {
	db *DB
}

// NewAuditRecorder creates a new SQLite audit recorder
func NewAuditRecorder(db *DB) *AuditRecorder {
	return &AuditRecorder{db: db}
}

// Record persists a single audit event
func (r *AuditRecorder) Record(ctx context.Context, event audit.Event) error {
	query := `
		INSERT INTO audit_events (id, identity_id, name, occurred_at, status, area, reason)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`

	_, err := r.db.db.ExecContext(ctx, query,
		event.ID, event.IdentityID, event.Name, event.Timestamp.UnixNano(),
		string(event.Outcome), event.Area, event.Reason)
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
			LIMIT ?
		)
		ORDER BY seq ASC
	`

	rows, err := r.db.db.QueryContext(ctx, query, n)
	if err != nil {
		return nil, fmt.Errorf("query recent audit events: %w", err)
	}
	defer rows.Close()

	var events []audit.Event
	for rows.Next() {
		var e audit.Event
		var occurredAt int64
		var status string
		if err := rows.Scan(&e.ID, &e.IdentityID, &e.Name, &occurredAt, &status, &e.Area, &e.Reason); err != nil {
			return nil, fmt.Errorf("scan audit event: %w", err)
		}
		e.Timestamp = time.Unix(0, occurredAt).UTC()
		e.Outcome = audit.Outcome(status)
		events = append(events, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate audit events: %w", err)
	}
	return events, nil
}
