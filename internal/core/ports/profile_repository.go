package ports

import (
	"context"

	"github.com/google/uuid"

	"github.com/jobpilot/jobpilot-api/internal/core/domain"
)

// ProfileRepository persists the CV header and its sub-entities, all scoped
// by owner.
type ProfileRepository interface {
	// Get returns the stored profile or a zero profile when none exists yet.
	Get(ctx context.Context, userID uuid.UUID) (*domain.Profile, error)
	Upsert(ctx context.Context, p *domain.Profile) (*domain.Profile, error)

	ListExperiences(ctx context.Context, userID uuid.UUID) ([]domain.Experience, error)
	CreateExperience(ctx context.Context, e *domain.Experience) (*domain.Experience, error)
	UpdateExperience(ctx context.Context, e *domain.Experience) (*domain.Experience, error)
	DeleteExperience(ctx context.Context, userID, id uuid.UUID) error

	ListSkills(ctx context.Context, userID uuid.UUID) ([]domain.Skill, error)
	CreateSkill(ctx context.Context, s *domain.Skill) (*domain.Skill, error)
	DeleteSkill(ctx context.Context, userID, id uuid.UUID) error
}
