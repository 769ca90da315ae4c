// Package token implements the bearer token codec with HMAC-signed JWTs.
package token

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/jobpilot/jobpilot-api/internal/core/domain"
	"github.com/jobpilot/jobpilot-api/internal/core/ports"
)

const (
	// SessionTTL is the lifetime of a token issued at login or registration.
	SessionTTL = 30 * 24 * time.Hour
	// ImpersonationTTL is the lifetime of a token an admin mints for another user.
	ImpersonationTTL = time.Hour
)

var _ ports.TokenCodec = (*JWT)(nil)

// claims is the wire form of a session claim set.
type claims struct {
	jwt.RegisteredClaims
	IsAdmin        bool       `json:"adm"`
	ImpersonatorID *uuid.UUID `json:"imp,omitempty"`
}

// JWT signs and verifies HS256 tokens with a shared secret.
type JWT struct {
	secret []byte
	now    func() time.Time
}

// Option customises a JWT codec.
type Option func(*JWT)

// WithClock overrides the time source used both for issuing and validating.
func WithClock(now func() time.Time) Option {
	return func(j *JWT) { j.now = now }
}

func NewJWT(secret string, opts ...Option) *JWT {
	j := &JWT{secret: []byte(secret), now: time.Now}
	for _, opt := range opts {
		opt(j)
	}
	return j
}

// Sign issues a session token for userID.
func (j *JWT) Sign(userID uuid.UUID, isAdmin bool) (string, error) {
	tok, _, err := j.sign(userID, isAdmin, nil, SessionTTL)
	return tok, err
}

// SignImpersonation issues a short-lived token for userID carrying the
// impersonating admin's id.
func (j *JWT) SignImpersonation(userID uuid.UUID, isAdmin bool, impersonatorID uuid.UUID) (string, time.Time, error) {
	return j.sign(userID, isAdmin, &impersonatorID, ImpersonationTTL)
}

func (j *JWT) sign(userID uuid.UUID, isAdmin bool, impersonator *uuid.UUID, ttl time.Duration) (string, time.Time, error) {
	now := j.now()
	exp := now.Add(ttl)
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(exp),
		},
		IsAdmin:        isAdmin,
		ImpersonatorID: impersonator,
	})

	signed, err := t.SignedString(j.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign token: %w", err)
	}
	return signed, exp, nil
}

// Verify checks signature and expiry and decodes the claim set. Every
// failure collapses to domain.ErrInvalidToken.
func (j *JWT) Verify(tokenString string) (domain.Claims, error) {
	c := &claims{}
	tkn, err := jwt.ParseWithClaims(tokenString, c, func(t *jwt.Token) (interface{}, error) {
		if t.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, jwt.ErrTokenSignatureInvalid
		}
		return j.secret, nil
	}, jwt.WithTimeFunc(j.now), jwt.WithExpirationRequired())
	if err != nil || !tkn.Valid {
		return domain.Claims{}, domain.ErrInvalidToken
	}

	userID, err := uuid.Parse(c.Subject)
	if err != nil {
		return domain.Claims{}, domain.ErrInvalidToken
	}

	return domain.Claims{
		UserID:         userID,
		IsAdmin:        c.IsAdmin,
		ImpersonatorID: c.ImpersonatorID,
		ExpiresAt:      c.ExpiresAt.Time,
	}, nil
}
