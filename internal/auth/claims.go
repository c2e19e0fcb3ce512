package auth

import (
	"time"
)

// IdentityClaims represents the claims stored in a PASETO identity token.
// These are encrypted in v4.local tokens, so they're not readable without the key.
type IdentityClaims struct {
	IdentityID string `json:"identity_id"`

	// Standard PASETO claims
	Issuer     string    `json:"iss"`
	Subject    string    `json:"sub"`
	Audience   string    `json:"aud"`
	Expiration time.Time `json:"exp"`
	NotBefore  time.Time `json:"nbf"`
	IssuedAt   time.Time `json:"iat"`
	TokenID    string    `json:"jti"`
}
