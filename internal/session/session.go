// Package session verifies the actor identity bound to a sync
// connection, adapted from the board server's jwt_service.go. A
// verified token's subject becomes an actor.ID (§4.C, §4.R). The
// gateway uses verification only to admit a connection or request; it
// does not retarget any Document's actor with the result (§9's
// pre-attach ticket rewrite question).
package session

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/bifshteksex/crdt-engine/internal/actor"
	"github.com/bifshteksex/crdt-engine/internal/config"
)

// Claims is the JWT payload a gateway expects: the subject is the
// actor identifier to bind the connection to.
type Claims struct {
	jwt.RegisteredClaims
}

// Verifier validates connection tokens against a shared HMAC secret.
type Verifier struct {
	secret    []byte
	clockSkew time.Duration
}

// NewVerifier builds a Verifier from session config.
func NewVerifier(cfg *config.SessionConfig) (*Verifier, error) {
	skew, err := cfg.GetClockSkew()
	if err != nil {
		return nil, fmt.Errorf("invalid clock skew: %w", err)
	}
	return &Verifier{secret: []byte(cfg.Secret), clockSkew: skew}, nil
}

// VerifyActor parses tokenString and returns the actor.ID named by its
// subject claim, or an error if the token is malformed, unsigned with
// the expected method, expired, or missing a subject.
func (v *Verifier) VerifyActor(tokenString string) (actor.ID, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return v.secret, nil
	}, jwt.WithLeeway(v.clockSkew))
	if err != nil {
		return "", fmt.Errorf("failed to parse actor token: %w", err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return "", fmt.Errorf("invalid actor token")
	}
	if claims.Subject == "" {
		return "", fmt.Errorf("actor token missing subject")
	}

	return actor.ID(claims.Subject), nil
}
