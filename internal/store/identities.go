package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/whenworksapp/whenworks-server/internal/domain"
)

// CreateIdentity mints and persists a new anonymous identity.
func (s *Store) CreateIdentity(ctx context.Context) (*domain.Identity, error) {
	now := time.Now()
	identity := &domain.Identity{
		ID:        uuid.NewString(),
		CreatedAt: now,
		LastSeen:  now,
	}

	if err := s.Identities.Create(ctx, identity.ID, identity); err != nil {
		return nil, fmt.Errorf("failed to create identity: %w", err)
	}

	if s.logger != nil {
		s.logger.Info("Identity created", "id", identity.ID)
	}

	return identity, nil
}

// GetIdentity retrieves an identity by id.
// Returns ErrNotFound if the identity does not exist.
func (s *Store) GetIdentity(ctx context.Context, id string) (*domain.Identity, error) {
	return s.Identities.Get(ctx, id)
}

// TouchIdentity records that an identity was seen just now. A missing
// identity is tolerated so stale tokens don't break reads.
func (s *Store) TouchIdentity(ctx context.Context, id string) error {
	identity, err := s.Identities.Get(ctx, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil
		}
		return err
	}

	identity.LastSeen = time.Now()
	return s.Identities.Update(ctx, id, identity)
}
