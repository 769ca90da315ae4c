package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// User models an account. PasswordHash is nil for accounts that only ever
// signed in through Google.
type User struct {
	ID           uuid.UUID
	Email        string
	PasswordHash *string
	FirstName    string
	LastName     string
	IsAdmin      bool
	GoogleID     *string
	CreatedAt    time.Time
}

// Name is the display name shown in the UI.
func (u *User) Name() string {
	return strings.TrimSpace(u.FirstName + " " + u.LastName)
}

// NormalizeEmail lower-cases and trims an address so lookups are case-insensitive.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// PublicUser is the user representation returned to clients. It never
// carries credential material.
type PublicUser struct {
	ID        uuid.UUID `json:"id"`
	Email     string    `json:"email"`
	FirstName string    `json:"first_name"`
	LastName  string    `json:"last_name"`
	Name      string    `json:"name"`
	IsAdmin   bool      `json:"is_admin"`
	CreatedAt time.Time `json:"created_at"`
}

func (u *User) Public() PublicUser {
	return PublicUser{
		ID:        u.ID,
		Email:     u.Email,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Name:      u.Name(),
		IsAdmin:   u.IsAdmin,
		CreatedAt: u.CreatedAt,
	}
}

// UserSummary is the admin listing row.
type UserSummary struct {
	PublicUser
	JobCount    int  `json:"job_count"`
	HasPassword bool `json:"has_password"`
	HasGoogle   bool `json:"has_google"`
}

// FederatedIdentity is what an external identity provider tells us about a
// user after a successful authorization-code exchange.
type FederatedIdentity struct {
	Provider      string
	Subject       string
	Email         string
	EmailVerified bool
	FirstName     string
	LastName      string
}
