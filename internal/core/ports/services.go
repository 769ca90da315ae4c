package ports

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/jobpilot/jobpilot-api/internal/core/domain"
)

// RegisterInput carries self-service signup data.
type RegisterInput struct {
	FirstName string
	LastName  string
	Email     string
	Password  string
}

// AuthResult is a freshly issued session.
type AuthResult struct {
	Token string
	User  *domain.User
}

// AuthService handles registration, login and identity resolution.
type AuthService interface {
	Register(ctx context.Context, in RegisterInput) (*AuthResult, error)
	Login(ctx context.Context, email, password string) (*AuthResult, error)
	LoginFederated(ctx context.Context, fi *domain.FederatedIdentity) (*AuthResult, error)
	// Authenticate verifies a bearer token and reloads the user it names.
	Authenticate(ctx context.Context, token string) (domain.Identity, error)
	Me(ctx context.Context, id domain.Identity) (*domain.User, error)
	DeleteAccount(ctx context.Context, id domain.Identity) error
}

// JobInput is the writable part of a job application.
type JobInput struct {
	Company     string
	Position    string
	Status      domain.JobStatus
	Location    string
	URL         string
	Salary      string
	Description string
	Notes       string
	InterviewAt *time.Time
}

// JobService exposes owner-scoped job operations.
type JobService interface {
	List(ctx context.Context, id domain.Identity, status domain.JobStatus) ([]domain.JobApplication, error)
	Get(ctx context.Context, id domain.Identity, jobID uuid.UUID) (*domain.JobApplication, error)
	Create(ctx context.Context, id domain.Identity, in JobInput) (*domain.JobApplication, error)
	Update(ctx context.Context, id domain.Identity, jobID uuid.UUID, in JobInput) (*domain.JobApplication, error)
	UpdateStatus(ctx context.Context, id domain.Identity, jobID uuid.UUID, status domain.JobStatus) (*domain.JobApplication, error)
	Delete(ctx context.Context, id domain.Identity, jobID uuid.UUID) error
	Stats(ctx context.Context, id domain.Identity) (*domain.JobStats, error)
}

// ProfileInput is the writable part of the profile, including the user's name.
type ProfileInput struct {
	FirstName string
	LastName  string
	Headline  string
	Summary   string
	Phone     string
	Location  string
	Website   string
	LinkedIn  string
	GitHub    string
}

// ExperienceInput is the writable part of an experience entry.
type ExperienceInput struct {
	Title       string
	Company     string
	StartDate   time.Time
	EndDate     *time.Time
	Description string
}

// ProfileService exposes owner-scoped profile operations.
type ProfileService interface {
	Get(ctx context.Context, id domain.Identity) (*domain.FullProfile, error)
	Update(ctx context.Context, id domain.Identity, in ProfileInput) (*domain.FullProfile, error)
	AddExperience(ctx context.Context, id domain.Identity, in ExperienceInput) (*domain.Experience, error)
	UpdateExperience(ctx context.Context, id domain.Identity, expID uuid.UUID, in ExperienceInput) (*domain.Experience, error)
	DeleteExperience(ctx context.Context, id domain.Identity, expID uuid.UUID) error
	AddSkill(ctx context.Context, id domain.Identity, name, level string) (*domain.Skill, error)
	DeleteSkill(ctx context.Context, id domain.Identity, skillID uuid.UUID) error
}

// ImpersonationResult is a token minted by an admin for another user.
type ImpersonationResult struct {
	Token     string
	ExpiresAt time.Time
	User      *domain.User
}

// AdminService exposes the global, role-gated operations. Callers must have
// passed the admin gate; the service still re-checks the flag.
type AdminService interface {
	ListUsers(ctx context.Context, admin domain.Identity) ([]domain.UserSummary, error)
	SetAdmin(ctx context.Context, admin domain.Identity, targetID uuid.UUID, isAdmin bool) (*domain.User, error)
	DeleteUser(ctx context.Context, admin domain.Identity, targetID uuid.UUID) error
	Impersonate(ctx context.Context, admin domain.Identity, targetID uuid.UUID) (*ImpersonationResult, error)
	ListLogs(ctx context.Context, admin domain.Identity, filter LogFilter) ([]domain.LogEntry, error)
}
