package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/jobpilot/jobpilot-api/internal/core/domain"
	"github.com/jobpilot/jobpilot-api/internal/core/ports"
)

const jobColumns = `id, user_id, company, position, status, location, url, salary, description, notes, interview_at, created_at, updated_at`

// JobRepository stores job applications. Every statement filters on both
// the row id and the owner.
type JobRepository struct {
	db DBTX
}

var _ ports.JobRepository = (*JobRepository)(nil)

func NewJobRepository(db DBTX) *JobRepository {
	return &JobRepository{db: db}
}

func scanJob(row scanner) (*domain.JobApplication, error) {
	j := &domain.JobApplication{}
	err := row.Scan(&j.ID, &j.UserID, &j.Company, &j.Position, &j.Status, &j.Location, &j.URL,
		&j.Salary, &j.Description, &j.Notes, &j.InterviewAt, &j.CreatedAt, &j.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return j, nil
}

func (r *JobRepository) one(row *sql.Row, op string) (*domain.JobApplication, error) {
	j, err := scanJob(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrJobNotFound
		}
		return nil, dbError(op, err)
	}
	return j, nil
}

func (r *JobRepository) Create(ctx context.Context, job *domain.JobApplication) (*domain.JobApplication, error) {
	query := `INSERT INTO job_applications (` + jobColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		RETURNING ` + jobColumns

	return r.one(r.db.QueryRowContext(ctx, query,
		job.ID, job.UserID, job.Company, job.Position, job.Status, job.Location, job.URL,
		job.Salary, job.Description, job.Notes, job.InterviewAt, job.CreatedAt, job.UpdatedAt), "insert job")
}

func (r *JobRepository) FindByID(ctx context.Context, userID, id uuid.UUID) (*domain.JobApplication, error) {
	query := `SELECT ` + jobColumns + ` FROM job_applications WHERE id = $1 AND user_id = $2`
	return r.one(r.db.QueryRowContext(ctx, query, id, userID), "find job")
}

func (r *JobRepository) List(ctx context.Context, f ports.JobFilter) ([]domain.JobApplication, error) {
	query := `SELECT ` + jobColumns + ` FROM job_applications WHERE user_id = $1`
	args := []any{f.UserID}
	if f.Status != "" {
		query += ` AND status = $2`
		args = append(args, f.Status)
	}
	query += ` ORDER BY created_at DESC`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, dbError("list jobs", err)
	}
	defer rows.Close()

	out := []domain.JobApplication{}
	for rows.Next() {
		j, err := scanJob(rows)
		if err != nil {
			return nil, dbError("scan job", err)
		}
		out = append(out, *j)
	}
	if err := rows.Err(); err != nil {
		return nil, dbError("list jobs", err)
	}
	return out, nil
}

func (r *JobRepository) Update(ctx context.Context, job *domain.JobApplication) (*domain.JobApplication, error) {
	query := `UPDATE job_applications
		SET company = $3, position = $4, status = $5, location = $6, url = $7, salary = $8,
			description = $9, notes = $10, interview_at = $11, updated_at = $12
		WHERE id = $1 AND user_id = $2
		RETURNING ` + jobColumns

	return r.one(r.db.QueryRowContext(ctx, query,
		job.ID, job.UserID, job.Company, job.Position, job.Status, job.Location, job.URL,
		job.Salary, job.Description, job.Notes, job.InterviewAt, job.UpdatedAt), "update job")
}

func (r *JobRepository) UpdateStatus(ctx context.Context, userID, id uuid.UUID, status domain.JobStatus) (*domain.JobApplication, error) {
	query := `UPDATE job_applications SET status = $3, updated_at = NOW()
		WHERE id = $1 AND user_id = $2
		RETURNING ` + jobColumns
	return r.one(r.db.QueryRowContext(ctx, query, id, userID, status), "update job status")
}

func (r *JobRepository) Delete(ctx context.Context, userID, id uuid.UUID) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM job_applications WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return dbError("delete job", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return dbError("delete job", err)
	}
	if n == 0 {
		return domain.ErrJobNotFound
	}
	return nil
}

func (r *JobRepository) CountByStatus(ctx context.Context, userID uuid.UUID, since time.Time) (map[domain.JobStatus]int, int, error) {
	query := `SELECT status, COUNT(*), COUNT(*) FILTER (WHERE interview_at > $2)
		FROM job_applications
		WHERE user_id = $1
		GROUP BY status`

	rows, err := r.db.QueryContext(ctx, query, userID, since)
	if err != nil {
		return nil, 0, dbError("count jobs", err)
	}
	defer rows.Close()

	counts := make(map[domain.JobStatus]int)
	upcoming := 0
	for rows.Next() {
		var (
			status   domain.JobStatus
			n, ahead int
		)
		if err := rows.Scan(&status, &n, &ahead); err != nil {
			return nil, 0, dbError("scan job count", err)
		}
		counts[status] = n
		upcoming += ahead
	}
	if err := rows.Err(); err != nil {
		return nil, 0, dbError("count jobs", err)
	}
	return counts, upcoming, nil
}
