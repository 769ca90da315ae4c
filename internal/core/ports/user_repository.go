package ports

import (
	"context"

	"github.com/google/uuid"

	"github.com/jobpilot/jobpilot-api/internal/core/domain"
)

// UserRepository defines persistence for user accounts.
type UserRepository interface {
	// Create inserts a new user. Returns domain.ErrEmailTaken when the email
	// is already registered.
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	FindByID(ctx context.Context, id uuid.UUID) (*domain.User, error)
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	FindByGoogleID(ctx context.Context, googleID string) (*domain.User, error)
	// LinkGoogleID sets the Google subject of an unlinked account. Returns
	// domain.ErrGoogleAccountLinked when the account or the subject is
	// already linked elsewhere.
	LinkGoogleID(ctx context.Context, id uuid.UUID, googleID string) (*domain.User, error)
	UpdateName(ctx context.Context, id uuid.UUID, firstName, lastName string) (*domain.User, error)
	SetAdmin(ctx context.Context, id uuid.UUID, isAdmin bool) (*domain.User, error)
	// List returns every user with its job count, newest first. Not scoped: admin only.
	List(ctx context.Context) ([]domain.UserSummary, error)
	// Delete removes the user and all dependent rows in a single transaction.
	Delete(ctx context.Context, id uuid.UUID) error
}
