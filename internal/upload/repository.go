// Package upload implements the upload admission pipeline and the
// download access ledger.
package upload

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Repository persists upload metadata. It is an auxiliary index, not the
// source of truth for object existence: the object store owns the bytes,
// this table owns the bookkeeping row keyed by identifier.
type Repository struct {
	db *pgxpool.Pool
}

// NewRepository creates a new Repository with the given connection pool.
func NewRepository(db *pgxpool.Pool) *Repository {
	return &Repository{db: db}
}

// Record inserts the provenance row for a newly stored object.
// created_on and last_accessed default to NOW() in the schema.
func (r *Repository) Record(ctx context.Context, identifier, apiKeyUsed string) error {
	_, err := r.db.Exec(ctx,
		`INSERT INTO uploads (identifier, api_key_used) VALUES ($1, $2)`,
		identifier, apiKeyUsed,
	)
	if err != nil {
		return fmt.Errorf("record upload %q: %w", identifier, err)
	}
	return nil
}

// RecordAccess bumps the access counter and timestamp for an identifier.
// Updating a row that was never recorded matches zero rows and is a no-op.
func (r *Repository) RecordAccess(ctx context.Context, identifier string) error {
	_, err := r.db.Exec(ctx,
		`UPDATE uploads
		 SET last_accessed = NOW(),
		     times_accessed = times_accessed + 1
		 WHERE identifier = $1`,
		identifier,
	)
	if err != nil {
		return fmt.Errorf("record access %q: %w", identifier, err)
	}
	return nil
}
