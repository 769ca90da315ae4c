package ports

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/jobpilot/jobpilot-api/internal/core/domain"
)

// TokenCodec signs and verifies bearer tokens.
type TokenCodec interface {
	Sign(userID uuid.UUID, isAdmin bool) (string, error)
	// SignImpersonation issues a short-lived token for userID on behalf of impersonatorID.
	SignImpersonation(userID uuid.UUID, isAdmin bool, impersonatorID uuid.UUID) (string, time.Time, error)
	// Verify returns domain.ErrInvalidToken for any malformed, tampered or expired token.
	Verify(token string) (domain.Claims, error)
}

// PasswordHasher hashes and checks passwords with a slow, salted function.
type PasswordHasher interface {
	Hash(plaintext string) (string, error)
	Verify(plaintext, digest string) bool
}

// OAuthProvider drives an authorization-code login with an external provider.
type OAuthProvider interface {
	AuthCodeURL(state string) string
	Exchange(ctx context.Context, code string) (*domain.FederatedIdentity, error)
}

// OAuthStateStore keeps single-use anti-forgery state values.
type OAuthStateStore interface {
	Save(ctx context.Context, state string) error
	// Consume reports whether state existed and deletes it.
	Consume(ctx context.Context, state string) (bool, error)
}
