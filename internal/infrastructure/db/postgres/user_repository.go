package postgres

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"

	"github.com/jobpilot/jobpilot-api/internal/core/domain"
	"github.com/jobpilot/jobpilot-api/internal/core/ports"
)

const userColumns = `id, email, password_hash, first_name, last_name, is_admin, google_id, created_at`

type UserRepository struct {
	db *sql.DB
}

var _ ports.UserRepository = (*UserRepository)(nil)

func NewUserRepository(db *sql.DB) *UserRepository {
	return &UserRepository{db: db}
}

func scanUser(row scanner) (*domain.User, error) {
	u := &domain.User{}
	if err := row.Scan(&u.ID, &u.Email, &u.PasswordHash, &u.FirstName, &u.LastName, &u.IsAdmin, &u.GoogleID, &u.CreatedAt); err != nil {
		return nil, err
	}
	return u, nil
}

func (r *UserRepository) Create(ctx context.Context, user *domain.User) (*domain.User, error) {
	query := `INSERT INTO users (` + userColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING ` + userColumns

	created, err := scanUser(r.db.QueryRowContext(ctx, query,
		user.ID, user.Email, user.PasswordHash, user.FirstName, user.LastName, user.IsAdmin, user.GoogleID, user.CreatedAt))
	if err != nil {
		if constraint, ok := uniqueConstraint(err); ok {
			return nil, userConflict("insert user", constraint)
		}
		return nil, dbError("insert user", err)
	}
	return created, nil
}

func (r *UserRepository) findOne(ctx context.Context, op, where string, arg any) (*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE ` + where
	u, err := scanUser(r.db.QueryRowContext(ctx, query, arg))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrUserNotFound
		}
		return nil, dbError(op, err)
	}
	return u, nil
}

func (r *UserRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	return r.findOne(ctx, "find user", "id = $1", id)
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.findOne(ctx, "find user by email", "email = $1", email)
}

func (r *UserRepository) FindByGoogleID(ctx context.Context, googleID string) (*domain.User, error) {
	return r.findOne(ctx, "find user by google id", "google_id = $1", googleID)
}

func (r *UserRepository) updateOne(ctx context.Context, op, set string, id uuid.UUID, args ...any) (*domain.User, error) {
	query := `UPDATE users SET ` + set + ` WHERE id = $1 RETURNING ` + userColumns
	u, err := scanUser(r.db.QueryRowContext(ctx, query, append([]any{id}, args...)...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrUserNotFound
		}
		return nil, dbError(op, err)
	}
	return u, nil
}

// LinkGoogleID attaches a Google subject to an account that has none, or
// already has the same one. A different existing link, or a subject owned by
// another account, is a conflict.
func (r *UserRepository) LinkGoogleID(ctx context.Context, id uuid.UUID, googleID string) (*domain.User, error) {
	query := `UPDATE users SET google_id = $2
		WHERE id = $1 AND (google_id IS NULL OR google_id = $2)
		RETURNING ` + userColumns
	u, err := scanUser(r.db.QueryRowContext(ctx, query, id, googleID))
	if err == nil {
		return u, nil
	}
	if constraint, ok := uniqueConstraint(err); ok {
		return nil, userConflict("link google id", constraint)
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, dbError("link google id", err)
	}

	if _, err := r.FindByID(ctx, id); err != nil {
		return nil, err
	}
	return nil, domain.ErrGoogleAccountLinked
}

func (r *UserRepository) UpdateName(ctx context.Context, id uuid.UUID, firstName, lastName string) (*domain.User, error) {
	return r.updateOne(ctx, "update user name", "first_name = $2, last_name = $3", id, firstName, lastName)
}

func (r *UserRepository) SetAdmin(ctx context.Context, id uuid.UUID, isAdmin bool) (*domain.User, error) {
	return r.updateOne(ctx, "set admin", "is_admin = $2", id, isAdmin)
}

func (r *UserRepository) List(ctx context.Context) ([]domain.UserSummary, error) {
	query := `SELECT u.id, u.email, u.password_hash, u.first_name, u.last_name, u.is_admin, u.google_id, u.created_at,
			COUNT(j.id) AS job_count
		FROM users u
		LEFT JOIN job_applications j ON j.user_id = u.id
		GROUP BY u.id
		ORDER BY u.created_at DESC`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, dbError("list users", err)
	}
	defer rows.Close()

	out := []domain.UserSummary{}
	for rows.Next() {
		var (
			u     domain.User
			count int
		)
		if err := rows.Scan(&u.ID, &u.Email, &u.PasswordHash, &u.FirstName, &u.LastName, &u.IsAdmin, &u.GoogleID, &u.CreatedAt, &count); err != nil {
			return nil, dbError("scan user", err)
		}
		out = append(out, domain.UserSummary{
			PublicUser:  u.Public(),
			JobCount:    count,
			HasPassword: u.PasswordHash != nil,
			HasGoogle:   u.GoogleID != nil,
		})
	}
	if err := rows.Err(); err != nil {
		return nil, dbError("list users", err)
	}
	return out, nil
}

// Delete removes the user's dependent rows and then the user itself in one
// transaction. Nothing is removed when the user does not exist.
func (r *UserRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return WithTx(ctx, r.db, func(ctx context.Context, tx DBTX) error {
		for _, stmt := range []string{
			`DELETE FROM skills WHERE user_id = $1`,
			`DELETE FROM experiences WHERE user_id = $1`,
			`DELETE FROM profiles WHERE user_id = $1`,
			`DELETE FROM job_applications WHERE user_id = $1`,
		} {
			if _, err := tx.ExecContext(ctx, stmt, id); err != nil {
				return dbError("delete user data", err)
			}
		}

		res, err := tx.ExecContext(ctx, `DELETE FROM users WHERE id = $1`, id)
		if err != nil {
			return dbError("delete user", err)
		}
		n, err := res.RowsAffected()
		if err != nil {
			return dbError("delete user", err)
		}
		if n == 0 {
			return domain.ErrUserNotFound
		}
		return nil
	})
}
