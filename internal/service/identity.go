package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/whenworksapp/whenworks-server/internal/auth"
	"github.com/whenworksapp/whenworks-server/internal/domain"
	domainerrors "github.com/whenworksapp/whenworks-server/internal/errors"
	"github.com/whenworksapp/whenworks-server/internal/store"
)

// IdentityService mints and verifies anonymous client identities. Identities
// exist for rate limiting and connection bookkeeping; they carry no
// authorization beyond holding a room link.
type IdentityService struct {
	store        *store.Store
	tokenService *auth.TokenService
	logger       *slog.Logger
}

// NewIdentityService creates a new identity service.
func NewIdentityService(store *store.Store, tokenService *auth.TokenService, logger *slog.Logger) *IdentityService {
	return &IdentityService{
		store:        store,
		tokenService: tokenService,
		logger:       logger,
	}
}

// IdentityResult pairs a freshly minted identity with its token.
type IdentityResult struct {
	Identity *domain.Identity
	Token    string
}

// CreateAnonymous mints a new anonymous identity and issues its token.
func (s *IdentityService) CreateAnonymous(ctx context.Context) (*IdentityResult, error) {
	identity, err := s.store.CreateIdentity(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to create identity: %w", err)
	}

	token, err := s.tokenService.GenerateIdentityToken(identity)
	if err != nil {
		return nil, fmt.Errorf("failed to issue identity token: %w", err)
	}

	return &IdentityResult{Identity: identity, Token: token}, nil
}

// TokenDuration reports how long issued identity tokens remain valid.
func (s *IdentityService) TokenDuration() time.Duration {
	return s.tokenService.IdentityTokenDuration()
}

// Verify checks an identity token and returns the identity id it names.
// Verification also records the identity as seen.
func (s *IdentityService) Verify(ctx context.Context, token string) (string, error) {
	claims, err := s.tokenService.VerifyIdentityToken(token)
	if err != nil {
		return "", domainerrors.Unauthorized("invalid identity token").WithCause(err)
	}

	if err := s.store.TouchIdentity(ctx, claims.IdentityID); err != nil {
		// Bookkeeping only; a failed touch never blocks the request.
		if s.logger != nil {
			s.logger.Warn("failed to touch identity", "identity_id", claims.IdentityID, "error", err)
		}
	}

	return claims.IdentityID, nil
}
