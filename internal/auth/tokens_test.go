package auth

import (
	"encoding/hex"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/whenworksapp/whenworks-server/internal/domain"
)

func testKeyHex(t *testing.T) string {
	t.Helper()
	key := make([]byte, keyBytesSize)
	for i := range key {
		key[i] = byte(i)
	}
	return hex.EncodeToString(key)
}

func TestNewTokenService_RejectsBadKey(t *testing.T) {
	_, err := NewTokenService("too-short", time.Hour)
	assert.Error(t, err)

	_, err = NewTokenService("zz"+testKeyHex(t)[2:], time.Hour)
	assert.Error(t, err)
}

func TestIdentityToken_RoundTrip(t *testing.T) {
	svc, err := NewTokenService(testKeyHex(t), time.Hour)
	require.NoError(t, err)

	identity := &domain.Identity{ID: "ident-123", CreatedAt: time.Now()}

	token, err := svc.GenerateIdentityToken(identity)
	require.NoError(t, err)
	assert.NotEmpty(t, token)

	claims, err := svc.VerifyIdentityToken(token)
	require.NoError(t, err)
	assert.Equal(t, "ident-123", claims.IdentityID)
	assert.Equal(t, "ident-123", claims.Subject)
	assert.Equal(t, tokenIssuer, claims.Issuer)
}

func TestVerifyIdentityToken_Expired(t *testing.T) {
	svc, err := NewTokenService(testKeyHex(t), -time.Minute)
	require.NoError(t, err)

	token, err := svc.GenerateIdentityToken(&domain.Identity{ID: "ident-123"})
	require.NoError(t, err)

	_, err = svc.VerifyIdentityToken(token)
	assert.Error(t, err)
}

func TestVerifyIdentityToken_WrongKey(t *testing.T) {
	svc1, err := NewTokenService(testKeyHex(t), time.Hour)
	require.NoError(t, err)

	otherKey := make([]byte, keyBytesSize)
	for i := range otherKey {
		otherKey[i] = byte(255 - i)
	}
	svc2, err := NewTokenService(hex.EncodeToString(otherKey), time.Hour)
	require.NoError(t, err)

	token, err := svc1.GenerateIdentityToken(&domain.Identity{ID: "ident-123"})
	require.NoError(t, err)

	_, err = svc2.VerifyIdentityToken(token)
	assert.Error(t, err)
}
