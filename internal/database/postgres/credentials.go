package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/fdumary/HawkEye/internal/credential"
)

// CredentialStore provides PostgreSQL-backed credential template storage
type CredentialStore struct {
	pool *Pool
}

// NewCredentialStore creates a new PostgreSQL credential store
func NewCredentialStore(pool *Pool) *CredentialStore {
	return &CredentialStore{pool: pool}
}

// Save upserts a credential record. The upsert keeps enrollment atomic
// per identity under concurrent writers.
func (r *CredentialStore) Save(ctx context.Context, rec credential.Record) error {
	query := `
		INSERT INTO credentials (identity_id, comparator, template, updated_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (identity_id) DO UPDATE SET
			comparator = EXCLUDED.comparator,
			template = EXCLUDED.template,
			updated_at = EXCLUDED.updated_at
	`

	_, err := r.pool.Exec(ctx, query, rec.IdentityID, rec.Comparator, rec.Template, rec.UpdatedAt)
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
		WHERE identity_id = $1
	`

	var rec credential.Record
	err := r.pool.QueryRow(ctx, query, identityID).Scan(
		&rec.IdentityID,
		&rec.Comparator,
		&rec.Template,
		&rec.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get credential: %w", err)
	}

	return &rec, nil
}

// List returns all credential records ordered by identity id
func (r *CredentialStore) List(ctx context.Context) ([]credential.Record, error) {
	query := `
		SELECT identity_id, comparator, template, updated_at
		FROM credentials
		ORDER BY identity_id
	`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list credentials: %w", err)
	}
	defer rows.Close()

	var records []credential.Record
	for rows.Next() {
		var rec credential.Record
		if err := rows.Scan(&rec.IdentityID, &rec.Comparator, &rec.Template, &rec.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan credential: %w", err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate credentials: %w", err)
	}
	return records, nil
}
