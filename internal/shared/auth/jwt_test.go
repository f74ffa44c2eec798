package auth

import (
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSignAndVerify(t *testing.T) {
	tokens, err := NewTokens("test-secret", time.Hour, "dev")
	require.NoError(t, err)

	raw, issued, err := tokens.Sign(Identity{UID: "u-1", Email: "jane@example.com", Name: "Jane Doe"})
	require.NoError(t, err)
	assert.NotEmpty(t, issued.ID)

	claims, err := tokens.Verify(raw)
	require.NoError(t, err)
	assert.Equal(t, "u-1", claims.Subject)
	assert.Equal(t, "jane@example.com", claims.Email)
	assert.Equal(t, "Jane Doe", claims.Name)
}

func TestVerifyRejectsExpired(t *testing.T) {
	now := time.Date(2026, time.January, 1, 0, 0, 0, 0, time.UTC)
	tokens, err := NewTokens("test-secret", time.Hour, "dev")
	require.NoError(t, err)
	tokens.WithClock(func() time.Time { return now })

	raw, _, err := tokens.Sign(Identity{UID: "u-1"})
	require.NoError(t, err)

	now = now.Add(2 * time.Hour)
	_, err = tokens.Verify(raw)
	assert.True(t, errors.Is(err, ErrInvalidToken))
}

func TestVerifyRejectsOtherSecret(t *testing.T) {
	a, err := NewTokens("secret-a", time.Hour, "dev")
	require.NoError(t, err)
	b, err := NewTokens("secret-b", time.Hour, "dev")
	require.NoError(t, err)

	raw, _, err := a.Sign(Identity{UID: "u-1"})
	require.NoError(t, err)
	_, err = b.Verify(raw)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerifyRejectsNoneAlgorithm(t *testing.T) {
	tokens, err := NewTokens("test-secret", time.Hour, "dev")
	require.NoError(t, err)

	unsigned := jwt.NewWithClaims(jwt.SigningMethodNone, Claims{
		RegisteredClaims: jwt.RegisteredClaims{Subject: "u-1"},
	})
	raw, err := unsigned.SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = tokens.Verify(raw)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestRevokedTokenIsDenied(t *testing.T) {
	tokens, err := NewTokens("test-secret", time.Hour, "dev")
	require.NoError(t, err)

	raw, _, err := tokens.Sign(Identity{UID: "u-1"})
	require.NoError(t, err)
	claims, err := tokens.Verify(raw)
	require.NoError(t, err)

	tokens.Revoke(claims)
	_, err = tokens.Verify(raw)
	assert.ErrorIs(t, err, ErrRevokedToken)

	other, _, err := tokens.Sign(Identity{UID: "u-1"})
	require.NoError(t, err)
	_, err = tokens.Verify(other)
	assert.NoError(t, err)
}

func TestRevocationsExpire(t *testing.T) {
	now := time.Date(2026, time.January, 1, 0, 0, 0, 0, time.UTC)
	r := NewRevocations()
	r.now = func() time.Time { return now }

	r.Add("jti-1", now.Add(time.Minute))
	assert.True(t, r.Contains("jti-1"))

	now = now.Add(2 * time.Minute)
	assert.False(t, r.Contains("jti-1"))
}

func TestProductionRequiresSecret(t *testing.T) {
	_, err := NewTokens("", time.Hour, "production")
	assert.ErrorIs(t, err, ErrMissingSecret)

	tokens, err := NewTokens("", time.Hour, "dev")
	require.NoError(t, err)
	assert.Equal(t, []byte(devSecret), tokens.secret)
}

func TestStateIsSingleUse(t *testing.T) {
	tokens, err := NewTokens("test-secret", time.Hour, "dev")
	require.NoError(t, err)

	state, err := tokens.SignState(5 * time.Minute)
	require.NoError(t, err)
	require.NoError(t, tokens.ConsumeState(state))
	assert.ErrorIs(t, tokens.ConsumeState(state), ErrRevokedToken)

	_, err = tokens.Verify(state)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestStateExpires(t *testing.T) {
	now := time.Date(2026, time.January, 1, 0, 0, 0, 0, time.UTC)
	tokens, err := NewTokens("test-secret", time.Hour, "dev")
	require.NoError(t, err)
	tokens.WithClock(func() time.Time { return now })

	state, err := tokens.SignState(time.Minute)
	require.NoError(t, err)
	now = now.Add(2 * time.Minute)
	assert.ErrorIs(t, tokens.ConsumeState(state), ErrInvalidToken)

	session, _, err := tokens.Sign(Identity{UID: "u-1"})
	require.NoError(t, err)
	assert.ErrorIs(t, tokens.ConsumeState(session), ErrInvalidToken)
}
