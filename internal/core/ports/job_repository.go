package ports

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/jobpilot/jobpilot-api/internal/core/domain"
)

// JobFilter narrows a job listing. UserID is mandatory: every query is
// scoped to the owner.
type JobFilter struct {
	UserID uuid.UUID
	Status domain.JobStatus // optional
}

// JobRepository persists job applications. Every method takes the owner id
// and returns domain.ErrJobNotFound when no row matches both id and owner.
type JobRepository interface {
	Create(ctx context.Context, job *domain.JobApplication) (*domain.JobApplication, error)
	FindByID(ctx context.Context, userID, id uuid.UUID) (*domain.JobApplication, error)
	List(ctx context.Context, filter JobFilter) ([]domain.JobApplication, error)
	Update(ctx context.Context, job *domain.JobApplication) (*domain.JobApplication, error)
	UpdateStatus(ctx context.Context, userID, id uuid.UUID, status domain.JobStatus) (*domain.JobApplication, error)
	Delete(ctx context.Context, userID, id uuid.UUID) error
	// CountByStatus returns per-status counts and the number of interviews
	// scheduled after since.
	CountByStatus(ctx context.Context, userID uuid.UUID, since time.Time) (map[domain.JobStatus]int, int, error)
}
