package api

import (
	"context"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"
)

func (s *Server) registerAuthRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID:   "createAnonymousIdentity",
		Method:        http.MethodPost,
		Path:          "/api/v1/auth/anonymous",
		Summary:       "Create anonymous identity",
		Description:   "Mints a new anonymous identity and returns its bearer token. Identities exist for rate limiting, not authorization: anyone with a room link can edit the room.",
		Tags:          []string{"Auth"},
		DefaultStatus: http.StatusCreated,
	}, s.handleCreateAnonymousIdentity)
}

// === DTOs ===

// AnonymousIdentityResponse contains the minted identity and its token.
type AnonymousIdentityResponse struct {
	IdentityID string    `json:"identity_id" doc:"Opaque identity id"`
	Token      string    `json:"token" doc:"Bearer token for subsequent requests"`
	ExpiresAt  time.Time `json:"expires_at" doc:"Token expiry time"`
}

// AnonymousIdentityOutput wraps the identity response for Huma.
type AnonymousIdentityOutput struct {
	Body AnonymousIdentityResponse
}

func (s *Server) handleCreateAnonymousIdentity(ctx context.Context, _ *struct{}) (*AnonymousIdentityOutput, error) {
	result, err := s.identities.CreateAnonymous(ctx)
	if err != nil {
		s.logger.Error("Failed to create anonymous identity", "error", err)
		return nil, huma.Error500InternalServerError("Failed to create identity")
	}

	return &AnonymousIdentityOutput{
		Body: AnonymousIdentityResponse{
			IdentityID: result.Identity.ID,
			Token:      result.Token,
			ExpiresAt:  time.Now().Add(s.identities.TokenDuration()),
		},
	}, nil
}
