package domain

import "errors"

// Error kinds. Every error surfaced to a client wraps exactly one of these;
// anything else is treated as an internal failure.
var (
	ErrValidation      = errors.New("validation failed")
	ErrUnauthenticated = errors.New("authentication required")
	ErrInvalidToken    = errors.New("invalid token")
	ErrForbidden       = errors.New("access forbidden")
	ErrNotFound        = errors.New("not found")
	ErrConflict        = errors.New("conflict")
	ErrUnavailable     = errors.New("service temporarily unavailable")
)

// Error is a client-facing error: Msg is safe to render, Kind drives the
// HTTP status.
type Error struct {
	Kind error
	Msg  string
}

func (e *Error) Error() string { return e.Msg }

func (e *Error) Unwrap() error { return e.Kind }

// NewValidationError builds a 400-class error with the given message.
func NewValidationError(msg string) error {
	return &Error{Kind: ErrValidation, Msg: msg}
}

var (
	ErrEmailTaken          = &Error{Kind: ErrConflict, Msg: "email already registered"}
	ErrGoogleAccountLinked = &Error{Kind: ErrConflict, Msg: "google account conflicts with an existing link"}
	ErrInvalidCredentials  = &Error{Kind: ErrUnauthenticated, Msg: "invalid email or password"}
	ErrMissingToken        = &Error{Kind: ErrUnauthenticated, Msg: "missing authorization header"}
	ErrMalformedHeader     = &Error{Kind: ErrUnauthenticated, Msg: "invalid authorization header"}
	ErrUserGone            = &Error{Kind: ErrUnauthenticated, Msg: "user no longer exists"}
	ErrAdminRequired       = &Error{Kind: ErrForbidden, Msg: "admin privileges required"}
	ErrUserNotFound        = &Error{Kind: ErrNotFound, Msg: "user not found"}
	ErrJobNotFound         = &Error{Kind: ErrNotFound, Msg: "job application not found"}
	ErrExperienceNotFound  = &Error{Kind: ErrNotFound, Msg: "experience not found"}
	ErrSkillNotFound       = &Error{Kind: ErrNotFound, Msg: "skill not found"}
	ErrInvalidOAuthState   = &Error{Kind: ErrValidation, Msg: "invalid or expired oauth state"}
	ErrFederatedLogin      = &Error{Kind: ErrUnauthenticated, Msg: "federated sign-in failed"}
	ErrSelfDemotion        = &Error{Kind: ErrValidation, Msg: "cannot revoke your own admin privileges"}
	ErrSelfDeletion        = &Error{Kind: ErrValidation, Msg: "cannot delete your own account from the admin panel"}
)
