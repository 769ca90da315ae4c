package service

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/jobpilot/jobpilot-api/internal/core/domain"
	"github.com/jobpilot/jobpilot-api/internal/core/ports"
	"github.com/jobpilot/jobpilot-api/internal/pkg/metrics"
)

// JobService implements owner-scoped job application use cases. The owner
// is always taken from the authenticated identity, never from input.
type JobService struct {
	repo ports.JobRepository
	log  zerolog.Logger
	now  func() time.Time
}

var _ ports.JobService = (*JobService)(nil)

func NewJobService(repo ports.JobRepository, log zerolog.Logger) *JobService {
	return &JobService{repo: repo, log: log, now: time.Now}
}

func (s *JobService) List(ctx context.Context, id domain.Identity, status domain.JobStatus) ([]domain.JobApplication, error) {
	if status != "" && !status.Valid() {
		return nil, invalidStatus()
	}
	return s.repo.List(ctx, ports.JobFilter{UserID: id.ID, Status: status})
}

func (s *JobService) Get(ctx context.Context, id domain.Identity, jobID uuid.UUID) (*domain.JobApplication, error) {
	return s.repo.FindByID(ctx, id.ID, jobID)
}

// Create stores a new application for the caller. Status defaults to wishlist.
func (s *JobService) Create(ctx context.Context, id domain.Identity, in ports.JobInput) (*domain.JobApplication, error) {
	job, err := s.build(in)
	if err != nil {
		return nil, err
	}
	now := s.now().UTC()
	job.ID = uuid.New()
	job.UserID = id.ID
	job.CreatedAt = now
	job.UpdatedAt = now

	created, err := s.repo.Create(ctx, job)
	if err != nil {
		return nil, err
	}

	metrics.JobsCreatedTotal.WithLabelValues(string(created.Status)).Inc()
	s.log.Info().Str("user_id", id.ID.String()).Str("job_id", created.ID.String()).Msg("job created")
	return created, nil
}

func (s *JobService) Update(ctx context.Context, id domain.Identity, jobID uuid.UUID, in ports.JobInput) (*domain.JobApplication, error) {
	job, err := s.build(in)
	if err != nil {
		return nil, err
	}
	job.ID = jobID
	job.UserID = id.ID
	job.UpdatedAt = s.now().UTC()
	return s.repo.Update(ctx, job)
}

func (s *JobService) UpdateStatus(ctx context.Context, id domain.Identity, jobID uuid.UUID, status domain.JobStatus) (*domain.JobApplication, error) {
	if !status.Valid() {
		return nil, invalidStatus()
	}
	job, err := s.repo.UpdateStatus(ctx, id.ID, jobID, status)
	if err != nil {
		return nil, err
	}
	metrics.JobStatusChangesTotal.WithLabelValues(string(status)).Inc()
	return job, nil
}

func (s *JobService) Delete(ctx context.Context, id domain.Identity, jobID uuid.UUID) error {
	return s.repo.Delete(ctx, id.ID, jobID)
}

// Stats summarises the caller's pipeline. Every status is present in
// ByStatus, zero when empty.
func (s *JobService) Stats(ctx context.Context, id domain.Identity) (*domain.JobStats, error) {
	counts, upcoming, err := s.repo.CountByStatus(ctx, id.ID, s.now().UTC())
	if err != nil {
		return nil, err
	}

	stats := &domain.JobStats{
		ByStatus:           make(map[domain.JobStatus]int, len(domain.JobStatuses)),
		UpcomingInterviews: upcoming,
	}
	for _, st := range domain.JobStatuses {
		stats.ByStatus[st] = counts[st]
		stats.Total += counts[st]
	}
	return stats, nil
}

func (s *JobService) build(in ports.JobInput) (*domain.JobApplication, error) {
	company := strings.TrimSpace(in.Company)
	position := strings.TrimSpace(in.Position)
	if company == "" || position == "" {
		return nil, domain.NewValidationError("company and position are required")
	}

	status := in.Status
	if status == "" {
		status = domain.StatusWishlist
	}
	if !status.Valid() {
		return nil, invalidStatus()
	}

	var interviewAt *time.Time
	if in.InterviewAt != nil {
		t := in.InterviewAt.UTC()
		interviewAt = &t
	}

	return &domain.JobApplication{
		Company:     company,
		Position:    position,
		Status:      status,
		Location:    strings.TrimSpace(in.Location),
		URL:         strings.TrimSpace(in.URL),
		Salary:      strings.TrimSpace(in.Salary),
		Description: in.Description,
		Notes:       in.Notes,
		InterviewAt: interviewAt,
	}, nil
}

func invalidStatus() error {
	names := make([]string, len(domain.JobStatuses))
	for i, st := range domain.JobStatuses {
		names[i] = string(st)
	}
	return domain.NewValidationError("status must be one of: " + strings.Join(names, ", "))
}
