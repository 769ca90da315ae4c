package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/jobpilot/jobpilot-api/internal/core/domain"
	"github.com/jobpilot/jobpilot-api/internal/core/ports"
)

type JobHandler struct {
	jobs ports.JobService
}

func NewJobHandler(jobs ports.JobService) *JobHandler {
	return &JobHandler{jobs: jobs}
}

type jobRequest struct {
	Company     string     `json:"company" validate:"required,max=200"`
	Position    string     `json:"position" validate:"required,max=200"`
	Status      string     `json:"status" validate:"omitempty,oneof=wishlist applied interview offer rejected"`
	Location    string     `json:"location" validate:"max=200"`
	URL         string     `json:"url" validate:"omitempty,url,max=2048"`
	Salary      string     `json:"salary" validate:"max=100"`
	Description string     `json:"description"`
	Notes       string     `json:"notes"`
	InterviewAt *time.Time `json:"interview_at"`
}

func (r jobRequest) input() ports.JobInput {
	return ports.JobInput{
		Company:     r.Company,
		Position:    r.Position,
		Status:      domain.JobStatus(r.Status),
		Location:    r.Location,
		URL:         r.URL,
		Salary:      r.Salary,
		Description: r.Description,
		Notes:       r.Notes,
		InterviewAt: r.InterviewAt,
	}
}

type statusRequest struct {
	Status string `json:"status" validate:"required"`
}

// List returns the caller's applications, newest first.
//
// @Summary      List job applications
// @Tags         jobs
// @Produce      json
// @Security     BearerAuth
// @Param        status  query     string  false  "Filter by status"  Enums(wishlist, applied, interview, offer, rejected)
// @Success      200     {array}   domain.JobApplication
// @Failure      400     {object}  errorBody
// @Failure      401     {object}  errorBody
// @Router       /jobs [get]
func (h *JobHandler) List(c echo.Context) error {
	id, err := currentIdentity(c)
	if err != nil {
		return err
	}
	jobs, err := h.jobs.List(c.Request().Context(), id, domain.JobStatus(c.QueryParam("status")))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, jobs)
}

// Stats returns pipeline counters for the dashboard.
//
// @Summary      Job pipeline statistics
// @Tags         jobs
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  domain.JobStats
// @Router       /jobs/stats [get]
func (h *JobHandler) Stats(c echo.Context) error {
	id, err := currentIdentity(c)
	if err != nil {
		return err
	}
	stats, err := h.jobs.Stats(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, stats)
}

// Get returns one of the caller's applications.
//
// @Summary      Get a job application
// @Tags         jobs
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Job id"
// @Success      200  {object}  domain.JobApplication
// @Failure      404  {object}  errorBody
// @Router       /jobs/{id} [get]
func (h *JobHandler) Get(c echo.Context) error {
	id, err := currentIdentity(c)
	if err != nil {
		return err
	}
	jobID, err := idParam(c, "id", domain.ErrJobNotFound)
	if err != nil {
		return err
	}
	job, err := h.jobs.Get(c.Request().Context(), id, jobID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, job)
}

// Create stores a new application for the caller.
//
// @Summary      Create a job application
// @Tags         jobs
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      jobRequest  true  "Application"
// @Success      201   {object}  domain.JobApplication
// @Failure      400   {object}  errorBody
// @Router       /jobs [post]
func (h *JobHandler) Create(c echo.Context) error {
	id, err := currentIdentity(c)
	if err != nil {
		return err
	}
	var req jobRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	job, err := h.jobs.Create(c.Request().Context(), id, req.input())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, job)
}

// Update replaces every writable field of an application.
//
// @Summary      Update a job application
// @Tags         jobs
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string      true  "Job id"
// @Param        body  body      jobRequest  true  "Application"
// @Success      200   {object}  domain.JobApplication
// @Failure      400   {object}  errorBody
// @Failure      404   {object}  errorBody
// @Router       /jobs/{id} [put]
func (h *JobHandler) Update(c echo.Context) error {
	id, err := currentIdentity(c)
	if err != nil {
		return err
	}
	jobID, err := idParam(c, "id", domain.ErrJobNotFound)
	if err != nil {
		return err
	}
	var req jobRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	job, err := h.jobs.Update(c.Request().Context(), id, jobID, req.input())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, job)
}

// UpdateStatus moves an application to another pipeline column.
//
// @Summary      Change job status
// @Tags         jobs
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string         true  "Job id"
// @Param        body  body      statusRequest  true  "New status"
// @Success      200   {object}  domain.JobApplication
// @Failure      400   {object}  errorBody
// @Failure      404   {object}  errorBody
// @Router       /jobs/{id}/status [patch]
func (h *JobHandler) UpdateStatus(c echo.Context) error {
	id, err := currentIdentity(c)
	if err != nil {
		return err
	}
	jobID, err := idParam(c, "id", domain.ErrJobNotFound)
	if err != nil {
		return err
	}
	var req statusRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	job, err := h.jobs.UpdateStatus(c.Request().Context(), id, jobID, domain.JobStatus(req.Status))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, job)
}

// Delete removes one of the caller's applications.
//
// @Summary      Delete a job application
// @Tags         jobs
// @Security     BearerAuth
// @Param        id  path  string  true  "Job id"
// @Success      204
// @Failure      404  {object}  errorBody
// @Router       /jobs/{id} [delete]
func (h *JobHandler) Delete(c echo.Context) error {
	id, err := currentIdentity(c)
	if err != nil {
		return err
	}
	jobID, err := idParam(c, "id", domain.ErrJobNotFound)
	if err != nil {
		return err
	}
	if err := h.jobs.Delete(c.Request().Context(), id, jobID); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}
