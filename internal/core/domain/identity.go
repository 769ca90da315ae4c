package domain

import (
	"time"

	"github.com/google/uuid"
)

// Claims is the decoded payload of a bearer token. IsAdmin is a snapshot
// taken at issue time and must not be used for authorization decisions.
type Claims struct {
	UserID         uuid.UUID
	IsAdmin        bool
	ImpersonatorID *uuid.UUID
	ExpiresAt      time.Time
}

// Identity is the authenticated principal attached to a request. It is
// rebuilt from the stored user row on every request.
type Identity struct {
	ID             uuid.UUID
	Name           string
	Email          string
	IsAdmin        bool
	ImpersonatorID *uuid.UUID
}

// IdentityOf builds the request identity from the current user row.
func IdentityOf(u *User, c Claims) Identity {
	return Identity{
		ID:             u.ID,
		Name:           u.Name(),
		Email:          u.Email,
		IsAdmin:        u.IsAdmin,
		ImpersonatorID: c.ImpersonatorID,
	}
}
