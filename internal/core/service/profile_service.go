package service

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/jobpilot/jobpilot-api/internal/core/domain"
	"github.com/jobpilot/jobpilot-api/internal/core/ports"
)

// ProfileService implements the caller's CV: header, experiences and skills.
type ProfileService struct {
	users    ports.UserRepository
	profiles ports.ProfileRepository
	log      zerolog.Logger
	now      func() time.Time
}

var _ ports.ProfileService = (*ProfileService)(nil)

func NewProfileService(users ports.UserRepository, profiles ports.ProfileRepository, log zerolog.Logger) *ProfileService {
	return &ProfileService{users: users, profiles: profiles, log: log, now: time.Now}
}

func (s *ProfileService) Get(ctx context.Context, id domain.Identity) (*domain.FullProfile, error) {
	user, err := s.users.FindByID(ctx, id.ID)
	if err != nil {
		return nil, err
	}
	return s.assemble(ctx, user)
}

// Update changes the user's name and upserts the profile header.
func (s *ProfileService) Update(ctx context.Context, id domain.Identity, in ports.ProfileInput) (*domain.FullProfile, error) {
	firstName := strings.TrimSpace(in.FirstName)
	lastName := strings.TrimSpace(in.LastName)
	if firstName == "" || lastName == "" {
		return nil, domain.NewValidationError("first_name and last_name are required")
	}

	user, err := s.users.UpdateName(ctx, id.ID, firstName, lastName)
	if err != nil {
		return nil, err
	}

	now := s.now().UTC()
	if _, err := s.profiles.Upsert(ctx, &domain.Profile{
		UserID:    id.ID,
		Headline:  strings.TrimSpace(in.Headline),
		Summary:   in.Summary,
		Phone:     strings.TrimSpace(in.Phone),
		Location:  strings.TrimSpace(in.Location),
		Website:   strings.TrimSpace(in.Website),
		LinkedIn:  strings.TrimSpace(in.LinkedIn),
		GitHub:    strings.TrimSpace(in.GitHub),
		UpdatedAt: &now,
	}); err != nil {
		return nil, err
	}

	s.log.Info().Str("user_id", id.ID.String()).Msg("profile updated")
	return s.assemble(ctx, user)
}

func (s *ProfileService) assemble(ctx context.Context, user *domain.User) (*domain.FullProfile, error) {
	profile, err := s.profiles.Get(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	experiences, err := s.profiles.ListExperiences(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	skills, err := s.profiles.ListSkills(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	if experiences == nil {
		experiences = []domain.Experience{}
	}
	if skills == nil {
		skills = []domain.Skill{}
	}
	return &domain.FullProfile{
		User:        user.Public(),
		Profile:     *profile,
		Experiences: experiences,
		Skills:      skills,
	}, nil
}

func (s *ProfileService) AddExperience(ctx context.Context, id domain.Identity, in ports.ExperienceInput) (*domain.Experience, error) {
	exp, err := buildExperience(in)
	if err != nil {
		return nil, err
	}
	exp.ID = uuid.New()
	exp.UserID = id.ID
	return s.profiles.CreateExperience(ctx, exp)
}

func (s *ProfileService) UpdateExperience(ctx context.Context, id domain.Identity, expID uuid.UUID, in ports.ExperienceInput) (*domain.Experience, error) {
	exp, err := buildExperience(in)
	if err != nil {
		return nil, err
	}
	exp.ID = expID
	exp.UserID = id.ID
	return s.profiles.UpdateExperience(ctx, exp)
}

func (s *ProfileService) DeleteExperience(ctx context.Context, id domain.Identity, expID uuid.UUID) error {
	return s.profiles.DeleteExperience(ctx, id.ID, expID)
}

func (s *ProfileService) AddSkill(ctx context.Context, id domain.Identity, name, level string) (*domain.Skill, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, domain.NewValidationError("name is required")
	}
	switch level {
	case "":
		level = domain.SkillIntermediate
	case domain.SkillBeginner, domain.SkillIntermediate, domain.SkillAdvanced, domain.SkillExpert:
	default:
		return nil, domain.NewValidationError("level must be one of: beginner, intermediate, advanced, expert")
	}
	return s.profiles.CreateSkill(ctx, &domain.Skill{
		ID:     uuid.New(),
		UserID: id.ID,
		Name:   name,
		Level:  level,
	})
}

func (s *ProfileService) DeleteSkill(ctx context.Context, id domain.Identity, skillID uuid.UUID) error {
	return s.profiles.DeleteSkill(ctx, id.ID, skillID)
}

func buildExperience(in ports.ExperienceInput) (*domain.Experience, error) {
	title := strings.TrimSpace(in.Title)
	company := strings.TrimSpace(in.Company)
	if title == "" || company == "" || in.StartDate.IsZero() {
		return nil, domain.NewValidationError("title, company and start_date are required")
	}
	if in.EndDate != nil && in.EndDate.Before(in.StartDate) {
		return nil, domain.NewValidationError("end_date must not be before start_date")
	}
	return &domain.Experience{
		Title:       title,
		Company:     company,
		StartDate:   in.StartDate.UTC(),
		EndDate:     in.EndDate,
		Description: in.Description,
	}, nil
}
