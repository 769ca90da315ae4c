package domain

import (
	"time"

	"github.com/google/uuid"
)

// Profile holds the CV header of a user. A user without a stored profile
// gets a zero-valued one.
type Profile struct {
	UserID    uuid.UUID  `json:"-"`
	Headline  string     `json:"headline"`
	Summary   string     `json:"summary"`
	Phone     string     `json:"phone"`
	Location  string     `json:"location"`
	Website   string     `json:"website"`
	LinkedIn  string     `json:"linkedin"`
	GitHub    string     `json:"github"`
	UpdatedAt *time.Time `json:"updated_at"`
}

// Experience is a single position on the CV.
type Experience struct {
	ID          uuid.UUID  `json:"id"`
	UserID      uuid.UUID  `json:"-"`
	Title       string     `json:"title"`
	Company     string     `json:"company"`
	StartDate   time.Time  `json:"start_date"`
	EndDate     *time.Time `json:"end_date"`
	Description string     `json:"description"`
}

const (
	SkillBeginner     = "beginner"
	SkillIntermediate = "intermediate"
	SkillAdvanced     = "advanced"
	SkillExpert       = "expert"
)

// Skill is a named competence with a self-assessed level.
type Skill struct {
	ID     uuid.UUID `json:"id"`
	UserID uuid.UUID `json:"-"`
	Name   string    `json:"name"`
	Level  string    `json:"level"`
}

// FullProfile is everything GET /profile returns.
type FullProfile struct {
	User        PublicUser   `json:"user"`
	Profile     Profile      `json:"profile"`
	Experiences []Experience `json:"experiences"`
	Skills      []Skill      `json:"skills"`
}
