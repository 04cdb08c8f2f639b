package session

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bifshteksex/crdt-engine/internal/config"
)

func newVerifier(t *testing.T) *Verifier {
	t.Helper()
	v, err := NewVerifier(&config.SessionConfig{Secret: "test-secret", ClockSkew: "5s"})
	require.NoError(t, err)
	return v
}

func signToken(t *testing.T, secret string, claims Claims) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(secret))
	require.NoError(t, err)
	return signed
}

func TestVerifyActorAcceptsValidToken(t *testing.T) {
	v := newVerifier(t)
	token := signToken(t, "test-secret", Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "actor-1",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	})

	actorID, err := v.VerifyActor(token)
	require.NoError(t, err)
	assert.EqualValues(t, "actor-1", actorID)
}

func TestVerifyActorRejectsWrongSecret(t *testing.T) {
	v := newVerifier(t)
	token := signToken(t, "wrong-secret", Claims{
		RegisteredClaims: jwt.RegisteredClaims{Subject: "actor-1"},
	})

	_, err := v.VerifyActor(token)
	assert.Error(t, err)
}

func TestVerifyActorRejectsExpiredToken(t *testing.T) {
	v := newVerifier(t)
	token := signToken(t, "test-secret", Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "actor-1",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Hour)),
		},
	})

	_, err := v.VerifyActor(token)
	assert.Error(t, err)
}

func TestVerifyActorRejectsMissingSubject(t *testing.T) {
	v := newVerifier(t)
	token := signToken(t, "test-secret", Claims{})

	_, err := v.VerifyActor(token)
	assert.Error(t, err)
}

func TestVerifyActorRejectsMalformedToken(t *testing.T) {
	v := newVerifier(t)

	_, err := v.VerifyActor("not-a-jwt")
	assert.Error(t, err)
}
