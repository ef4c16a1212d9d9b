package credential

import (
	"context"
	"errors"
	"log"
)

// Lookup is the store query the gate runs against.
type Lookup interface {
	IsActive(ctx context.Context, apiKey string) (bool, error)
}

// Service is the authentication gate: exact-match token lookup, binary
// allow/deny. Fail-closed: a missing row, an inactive credential, and any
// lookup failure all deny.
type Service struct {
	repo Lookup
}

// NewService creates a new credential Service.
func NewService(repo Lookup) *Service {
	return &Service{repo: repo}
}

// Authenticate reports whether token names an active credential.
// An empty token short-circuits before any store lookup.
func (s *Service) Authenticate(ctx context.Context, token string) bool {
	if token == "" {
		log.Println("credential: no token supplied")
		return false
	}

	active, err := s.repo.IsActive(ctx, token)
	if err != nil {
		if !errors.Is(err, ErrNotFound) {
			// Lookup failures must never resolve to an implicit allow.
			log.Printf("credential: lookup failed, denying: %v", err)
		}
		return false
	}
	return active
}
