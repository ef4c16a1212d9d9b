// Package credential gates uploads on api_key tokens.
//
// Tokens are issued and revoked by an out-of-band administrative process;
// this package only ever reads the credential table.
package credential

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ErrNotFound is returned when no credential matches the api_key.
var ErrNotFound = errors.New("credential not found")

// Repository handles credential database lookups.
type Repository struct {
	db *pgxpool.Pool
}

// NewRepository creates a new Repository with the given connection pool.
func NewRepository(db *pgxpool.Pool) *Repository {
	return &Repository{db: db}
}

// IsActive reports whether the credential exists and is active.
func (r *Repository) IsActive(ctx context.Context, apiKey string) (bool, error) {
	var active bool
	err := r.db.QueryRow(ctx,
		`SELECT active FROM credentials WHERE api_key = $1`,
		apiKey,
	).Scan(&active)
	if errors.Is(err, pgx.ErrNoRows) {
		return false, ErrNotFound
	}
	if err != nil {
		return false, fmt.Errorf("lookup credential: %w", err)
	}
	return active, nil
}
