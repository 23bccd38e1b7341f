package auth

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/storefront/backend/internal/infrastructure/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestJWTService() *JWTService {
	return NewJWTService(config.JWTConfig{
		Secret:                 "access-secret-that-is-long-enough-123",
		RefreshSecret:          "refresh-secret-that-is-long-enough-456",
		Issuer:                 "storefront",
		AccessTokenExpiration:  15 * time.Minute,
		RefreshTokenExpiration: 7 * 24 * time.Hour,
		VerifyTokenExpiration:  24 * time.Hour,
		MaxRefreshCount:        2,
	})
}

func TestJWTService_TokenPairRoundTrip(t *testing.T) {
	svc := newTestJWTService()
	sub := Subject{UserID: uuid.New(), Email: "jane@example.com"}

	pair, err := svc.GenerateTokenPair(sub)
	require.NoError(t, err)
	assert.Equal(t, "Bearer", pair.TokenType)

	claims, err := svc.ValidateAccessToken(pair.AccessToken)
	require.NoError(t, err)
	id, err := claims.UserUUID()
	require.NoError(t, err)
	assert.Equal(t, sub.UserID, id)
	assert.Equal(t, sub.Email, claims.Email)
	assert.InDelta(t, (15 * time.Minute).Seconds(), claims.RemainingTTL().Seconds(), 5)

	_, err = svc.ValidateAccessToken(pair.RefreshToken)
	assert.ErrorIs(t, err, ErrInvalidToken, "refresh token is signed with a different secret")

	_, err = svc.ValidateRefreshToken(pair.RefreshToken)
	assert.NoError(t, err)
}

func TestJWTService_VerifyTokenIsNotAnAccessToken(t *testing.T) {
	svc := newTestJWTService()
	token, err := svc.GenerateVerifyToken(Subject{UserID: uuid.New(), Email: "a@b.co"})
	require.NoError(t, err)

	_, err = svc.ValidateAccessToken(token)
	assert.ErrorIs(t, err, ErrInvalidTokenType)

	claims, err := svc.ValidateVerifyToken(token)
	require.NoError(t, err)
	assert.Equal(t, TokenTypeVerify, claims.TokenType)
}

func TestJWTService_Expired(t *testing.T) {
	svc := newTestJWTService()
	svc.now = func() time.Time { return time.Now().Add(-time.Hour) }
	pair, err := svc.GenerateTokenPair(Subject{UserID: uuid.New()})
	require.NoError(t, err)

	svc.now = time.Now
	_, err = svc.ValidateAccessToken(pair.AccessToken)
	assert.ErrorIs(t, err, ErrExpiredToken)
}

func TestJWTService_RefreshLimit(t *testing.T) {
	svc := newTestJWTService()
	pair, err := svc.GenerateTokenPair(Subject{UserID: uuid.New(), Email: "x@y.z"})
	require.NoError(t, err)

	for i := 0; i < 2; i++ {
		var old *Claims
		pair, old, err = svc.RefreshTokenPair(pair.RefreshToken)
		require.NoError(t, err)
		assert.Equal(t, i, old.RefreshCount)
	}

	_, _, err = svc.RefreshTokenPair(pair.RefreshToken)
	assert.ErrorIs(t, err, ErrMaxRefreshExceeded)
}

func TestJWTService_RejectsGarbage(t *testing.T) {
	_, err := newTestJWTService().ValidateAccessToken("not.a.jwt")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestMemoryTokenBlacklist(t *testing.T) {
	ctx := context.Background()
	bl := NewMemoryTokenBlacklist(time.Minute)

	require.NoError(t, bl.Revoke(ctx, "jti-1", time.Hour))
	require.NoError(t, bl.Revoke(ctx, "jti-expired", 0))
	require.NoError(t, bl.Revoke(ctx, "jti-short", time.Millisecond))
	time.Sleep(5 * time.Millisecond)

	revoked, err := bl.IsRevoked(ctx, "jti-1")
	require.NoError(t, err)
	assert.True(t, revoked)

	for _, jti := range []string{"jti-expired", "jti-short", "unknown"} {
		revoked, err = bl.IsRevoked(ctx, jti)
		require.NoError(t, err)
		assert.False(t, revoked, jti)
	}
}
