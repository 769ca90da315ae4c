package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/jobpilot/jobpilot-api/internal/core/domain"
	"github.com/jobpilot/jobpilot-api/internal/core/ports"
)

const dateLayout = "2006-01-02"

type ProfileHandler struct {
	profiles ports.ProfileService
}

func NewProfileHandler(profiles ports.ProfileService) *ProfileHandler {
	return &ProfileHandler{profiles: profiles}
}

type profileRequest struct {
	FirstName string `json:"first_name" validate:"required,max=100"`
	LastName  string `json:"last_name" validate:"required,max=100"`
	Headline  string `json:"headline" validate:"max=200"`
	Summary   string `json:"summary" validate:"max=5000"`
	Phone     string `json:"phone" validate:"max=50"`
	Location  string `json:"location" validate:"max=200"`
	Website   string `json:"website" validate:"omitempty,url"`
	LinkedIn  string `json:"linkedin" validate:"omitempty,url"`
	GitHub    string `json:"github" validate:"max=200"`
}

type experienceRequest struct {
	Title       string  `json:"title" validate:"required,max=200"`
	Company     string  `json:"company" validate:"required,max=200"`
	StartDate   string  `json:"start_date" validate:"required,datetime=2006-01-02"`
	EndDate     *string `json:"end_date" validate:"omitempty,datetime=2006-01-02"`
	Description string  `json:"description"`
}

func (r experienceRequest) input() (ports.ExperienceInput, error) {
	start, err := time.Parse(dateLayout, r.StartDate)
	if err != nil {
		return ports.ExperienceInput{}, domain.NewValidationError("start_date must be a date in the form 2006-01-02")
	}
	in := ports.ExperienceInput{
		Title:       r.Title,
		Company:     r.Company,
		StartDate:   start,
		Description: r.Description,
	}
	if r.EndDate != nil && *r.EndDate != "" {
		end, err := time.Parse(dateLayout, *r.EndDate)
		if err != nil {
			return ports.ExperienceInput{}, domain.NewValidationError("end_date must be a date in the form 2006-01-02")
		}
		in.EndDate = &end
	}
	return in, nil
}

type skillRequest struct {
	Name  string `json:"name" validate:"required,max=100"`
	Level string `json:"level" validate:"omitempty,oneof=beginner intermediate advanced expert"`
}

// Get returns the caller's full profile.
//
// @Summary      Get profile
// @Tags         profile
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  domain.FullProfile
// @Router       /profile [get]
func (h *ProfileHandler) Get(c echo.Context) error {
	id, err := currentIdentity(c)
	if err != nil {
		return err
	}
	full, err := h.profiles.Get(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, full)
}

// Update stores the profile header and the caller's name.
//
// @Summary      Update profile
// @Tags         profile
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      profileRequest  true  "Profile"
// @Success      200   {object}  domain.FullProfile
// @Failure      400   {object}  errorBody
// @Router       /profile [put]
func (h *ProfileHandler) Update(c echo.Context) error {
	id, err := currentIdentity(c)
	if err != nil {
		return err
	}
	var req profileRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	full, err := h.profiles.Update(c.Request().Context(), id, ports.ProfileInput{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Headline:  req.Headline,
		Summary:   req.Summary,
		Phone:     req.Phone,
		Location:  req.Location,
		Website:   req.Website,
		LinkedIn:  req.LinkedIn,
		GitHub:    req.GitHub,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, full)
}

// AddExperience
//
// @Summary      Add experience
// @Tags         profile
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      experienceRequest  true  "Experience"
// @Success      201   {object}  domain.Experience
// @Failure      400   {object}  errorBody
// @Router       /profile/experiences [post]
func (h *ProfileHandler) AddExperience(c echo.Context) error {
	id, err := currentIdentity(c)
	if err != nil {
		return err
	}
	var req experienceRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	in, err := req.input()
	if err != nil {
		return err
	}
	exp, err := h.profiles.AddExperience(c.Request().Context(), id, in)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, exp)
}

// UpdateExperience
//
// @Summary      Update experience
// @Tags         profile
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string             true  "Experience id"
// @Param        body  body      experienceRequest  true  "Experience"
// @Success      200   {object}  domain.Experience
// @Failure      400   {object}  errorBody
// @Failure      404   {object}  errorBody
// @Router       /profile/experiences/{id} [put]
func (h *ProfileHandler) UpdateExperience(c echo.Context) error {
	id, err := currentIdentity(c)
	if err != nil {
		return err
	}
	expID, err := idParam(c, "id", domain.ErrExperienceNotFound)
	if err != nil {
		return err
	}
	var req experienceRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	in, err := req.input()
	if err != nil {
		return err
	}
	exp, err := h.profiles.UpdateExperience(c.Request().Context(), id, expID, in)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, exp)
}

// DeleteExperience
//
// @Summary      Delete experience
// @Tags         profile
// @Security     BearerAuth
// @Param        id  path  string  true  "Experience id"
// @Success      204
// @Failure      404  {object}  errorBody
// @Router       /profile/experiences/{id} [delete]
func (h *ProfileHandler) DeleteExperience(c echo.Context) error {
	id, err := currentIdentity(c)
	if err != nil {
		return err
	}
	expID, err := idParam(c, "id", domain.ErrExperienceNotFound)
	if err != nil {
		return err
	}
	if err := h.profiles.DeleteExperience(c.Request().Context(), id, expID); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// AddSkill
//
// @Summary      Add skill
// @Tags         profile
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      skillRequest  true  "Skill"
// @Success      201   {object}  domain.Skill
// @Failure      400   {object}  errorBody
// @Router       /profile/skills [post]
func (h *ProfileHandler) AddSkill(c echo.Context) error {
	id, err := currentIdentity(c)
	if err != nil {
		return err
	}
	var req skillRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	skill, err := h.profiles.AddSkill(c.Request().Context(), id, req.Name, req.Level)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, skill)
}

// DeleteSkill
//
// @Summary      Delete skill
// @Tags         profile
// @Security     BearerAuth
// @Param        id  path  string  true  "Skill id"
// @Success      204
// @Failure      404  {object}  errorBody
// @Router       /profile/skills/{id} [delete]
func (h *ProfileHandler) DeleteSkill(c echo.Context) error {
	id, err := currentIdentity(c)
	if err != nil {
		return err
	}
	skillID, err := idParam(c, "id", domain.ErrSkillNotFound)
	if err != nil {
		return err
	}
	if err := h.profiles.DeleteSkill(c.Request().Context(), id, skillID); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}
