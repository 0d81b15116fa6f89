package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/fdumary/HawkEye/internal/credential"
)

// CredentialStore provides SQLite-backed credential template storage
type CredentialStore struct {
	db *DB
}

// NewCredentialStore creates a new SQLite credential store
func NewCredentialStore(db *DB) *CredentialStore {
	return &CredentialStore{db: db}
}

// Save upserts a credential record. The upsert keeps enrollment atomic
// per identity under concurrent writers.
func (r *CredentialStore) Save(ctx context.Context, rec credential.Record) error {
	query := `
		INSERT INTO credentials (identity_id, comparator, template, updated_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT (identity_id) DO UPDATE SET
			comparator = excluded.comparator,
			template = excluded.template,
			updated_at = excluded.updated_at
	`

	_, err := r.db.db.ExecContext(ctx, query,
		rec.IdentityID, rec.Comparator, rec.Template, rec.UpdatedAt.UnixNano())
	if err != nil {
		return fmt.Errorf("save credential: %w", err)
	}
	return nil
}

// Get retrieves a credential record by identity id, returns nil if not found
func (r *CredentialStore) Get(ctx context.Context, identityID string) (*credential.Record, error) {
	query := `
		SELECT identity_id, comparator, template, updated_at
		FROM credentials
		WHERE identity_id = ?
	`

	var rec credential.Record
	var updatedAt int64
	err := r.db.db.QueryRowContext(ctx, query, identityID).Scan(
		&rec.IdentityID,
		&rec.Comparator,
		&rec.Template,
		&updatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get credential: %w", err)
	}

	rec.UpdatedAt = time.Unix(0, updatedAt).UTC()
	return &rec, nil
}

// List returns all credential records ordered by identity id
func (r *CredentialStore) List(ctx context.Context) ([]credential.Record, error) {
	query := `
		SELECT identity_id, comparator, template, updated_at
		FROM credentials
		ORDER BY identity_id
	`

	rows, err := r.db.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list credentials: %w", err)
	}
	defer rows.Close()

	var records []credential.Record
	for rows.Next() {
		var rec credential.Record
		var updatedAt int64
		if err := rows.Scan(&rec.IdentityID, &rec.Comparator, &rec.Template, &updatedAt); err != nil {
			return nil, fmt.Errorf("scan credential: %w", err)
		}
		rec.UpdatedAt = time.Unix(0, updatedAt).UTC()
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate credentials: %w", err)
	}
	return records, nil
}
