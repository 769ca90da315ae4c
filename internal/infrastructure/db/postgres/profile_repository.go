package postgres

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"

	"github.com/jobpilot/jobpilot-api/internal/core/domain"
	"github.com/jobpilot/jobpilot-api/internal/core/ports"
)

const (
	profileColumns    = `user_id, headline, summary, phone, location, website, linkedin, github, updated_at`
	experienceColumns = `id, user_id, title, company, start_date, end_date, description`
	skillColumns      = `id, user_id, name, level`
)

type ProfileRepository struct {
	db DBTX
}

var _ ports.ProfileRepository = (*ProfileRepository)(nil)

func NewProfileRepository(db DBTX) *ProfileRepository {
	return &ProfileRepository{db: db}
}

func scanProfile(row scanner) (*domain.Profile, error) {
	p := &domain.Profile{}
	if err := row.Scan(&p.UserID, &p.Headline, &p.Summary, &p.Phone, &p.Location, &p.Website, &p.LinkedIn, &p.GitHub, &p.UpdatedAt); err != nil {
		return nil, err
	}
	return p, nil
}

func (r *ProfileRepository) Get(ctx context.Context, userID uuid.UUID) (*domain.Profile, error) {
	p, err := scanProfile(r.db.QueryRowContext(ctx, `SELECT `+profileColumns+` FROM profiles WHERE user_id = $1`, userID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return &domain.Profile{UserID: userID}, nil
		}
		return nil, dbError("get profile", err)
	}
	return p, nil
}

func (r *ProfileRepository) Upsert(ctx context.Context, p *domain.Profile) (*domain.Profile, error) {
	query := `INSERT INTO profiles (` + profileColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (user_id) DO UPDATE SET
			headline = EXCLUDED.headline,
			summary = EXCLUDED.summary,
			phone = EXCLUDED.phone,
			location = EXCLUDED.location,
			website = EXCLUDED.website,
			linkedin = EXCLUDED.linkedin,
			github = EXCLUDED.github,
			updated_at = EXCLUDED.updated_at
		RETURNING ` + profileColumns

	out, err := scanProfile(r.db.QueryRowContext(ctx, query,
		p.UserID, p.Headline, p.Summary, p.Phone, p.Location, p.Website, p.LinkedIn, p.GitHub, p.UpdatedAt))
	if err != nil {
		return nil, dbError("upsert profile", err)
	}
	return out, nil
}

func scanExperience(row scanner) (*domain.Experience, error) {
	e := &domain.Experience{}
	if err := row.Scan(&e.ID, &e.UserID, &e.Title, &e.Company, &e.StartDate, &e.EndDate, &e.Description); err != nil {
		return nil, err
	}
	return e, nil
}

func (r *ProfileRepository) ListExperiences(ctx context.Context, userID uuid.UUID) ([]domain.Experience, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+experienceColumns+` FROM experiences WHERE user_id = $1 ORDER BY start_date DESC`, userID)
	if err != nil {
		return nil, dbError("list experiences", err)
	}
	defer rows.Close()

	out := []domain.Experience{}
	for rows.Next() {
		e, err := scanExperience(rows)
		if err != nil {
			return nil, dbError("scan experience", err)
		}
		out = append(out, *e)
	}
	if err := rows.Err(); err != nil {
		return nil, dbError("list experiences", err)
	}
	return out, nil
}

func (r *ProfileRepository) CreateExperience(ctx context.Context, e *domain.Experience) (*domain.Experience, error) {
	query := `INSERT INTO experiences (` + experienceColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING ` + experienceColumns

	out, err := scanExperience(r.db.QueryRowContext(ctx, query,
		e.ID, e.UserID, e.Title, e.Company, e.StartDate, e.EndDate, e.Description))
	if err != nil {
		return nil, dbError("insert experience", err)
	}
	return out, nil
}

func (r *ProfileRepository) UpdateExperience(ctx context.Context, e *domain.Experience) (*domain.Experience, error) {
	query := `UPDATE experiences
		SET title = $3, company = $4, start_date = $5, end_date = $6, description = $7
		WHERE id = $1 AND user_id = $2
		RETURNING ` + experienceColumns

	out, err := scanExperience(r.db.QueryRowContext(ctx, query,
		e.ID, e.UserID, e.Title, e.Company, e.StartDate, e.EndDate, e.Description))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrExperienceNotFound
		}
		return nil, dbError("update experience", err)
	}
	return out, nil
}

func (r *ProfileRepository) DeleteExperience(ctx context.Context, userID, id uuid.UUID) error {
	return r.deleteOwned(ctx, `DELETE FROM experiences WHERE id = $1 AND user_id = $2`, userID, id, domain.ErrExperienceNotFound)
}

func (r *ProfileRepository) ListSkills(ctx context.Context, userID uuid.UUID) ([]domain.Skill, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+skillColumns+` FROM skills WHERE user_id = $1 ORDER BY name`, userID)
	if err != nil {
		return nil, dbError("list skills", err)
	}
	defer rows.Close()

	out := []domain.Skill{}
	for rows.Next() {
		var s domain.Skill
		if err := rows.Scan(&s.ID, &s.UserID, &s.Name, &s.Level); err != nil {
			return nil, dbError("scan skill", err)
		}
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, dbError("list skills", err)
	}
	return out, nil
}

func (r *ProfileRepository) CreateSkill(ctx context.Context, s *domain.Skill) (*domain.Skill, error) {
	query := `INSERT INTO skills (` + skillColumns + `) VALUES ($1, $2, $3, $4) RETURNING ` + skillColumns

	out := &domain.Skill{}
	err := r.db.QueryRowContext(ctx, query, s.ID, s.UserID, s.Name, s.Level).
		Scan(&out.ID, &out.UserID, &out.Name, &out.Level)
	if err != nil {
		return nil, dbError("insert skill", err)
	}
	return out, nil
}

func (r *ProfileRepository) DeleteSkill(ctx context.Context, userID, id uuid.UUID) error {
	return r.deleteOwned(ctx, `DELETE FROM skills WHERE id = $1 AND user_id = $2`, userID, id, domain.ErrSkillNotFound)
}

func (r *ProfileRepository) deleteOwned(ctx context.Context, query string, userID, id uuid.UUID, notFound error) error {
	res, err := r.db.ExecContext(ctx, query, id, userID)
	if err != nil {
		return dbError("delete", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return dbError("delete", err)
	}
	if n == 0 {
		return notFound
	}
	return nil
}
