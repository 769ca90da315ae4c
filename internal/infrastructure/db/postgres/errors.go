package postgres

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/jobpilot/jobpilot-api/internal/core/domain"
)

const uniqueViolation = "23505"

// Unique constraints on users, named in the migration.
const (
	usersEmailKey    = "users_email_key"
	usersGoogleIDKey = "users_google_id_key"
)

// uniqueConstraint returns the constraint a unique violation tripped.
func uniqueConstraint(err error) (string, bool) {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		return pgErr.ConstraintName, true
	}
	return "", false
}

// userConflict maps a unique violation on users to its domain error.
func userConflict(op, constraint string) error {
	switch constraint {
	case usersEmailKey:
		return domain.ErrEmailTaken
	case usersGoogleIDKey:
		return domain.ErrGoogleAccountLinked
	default:
		return fmt.Errorf("%s: %w", op, domain.ErrConflict)
	}
}

// isUnavailable reports whether err means the database could not be
// reached, as opposed to the statement itself failing.
func isUnavailable(err error) bool {
	var connErr *pgconn.ConnectError
	switch {
	case errors.As(err, &connErr):
		return true
	case pgconn.Timeout(err):
		return true
	case errors.Is(err, driver.ErrBadConn), errors.Is(err, sql.ErrConnDone):
		return true
	case errors.Is(err, context.DeadlineExceeded):
		return true
	}
	return false
}

// dbError wraps a driver error with the operation name. Connectivity
// failures additionally wrap domain.ErrUnavailable.
func dbError(op string, err error) error {
	if isUnavailable(err) {
		return fmt.Errorf("%s: %w: %w", op, domain.ErrUnavailable, err)
	}
	return fmt.Errorf("%s: %w", op, err)
}
