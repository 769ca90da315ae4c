package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/jobpilot/jobpilot-api/internal/core/domain"
	"github.com/jobpilot/jobpilot-api/internal/core/ports"
)

// AdminHandler serves the role-gated endpoints. Routes are mounted behind
// Auth and RequireAdmin.
type AdminHandler struct {
	admin ports.AdminService
}

func NewAdminHandler(admin ports.AdminService) *AdminHandler {
	return &AdminHandler{admin: admin}
}

type setAdminRequest struct {
	IsAdmin *bool `json:"is_admin" validate:"required"`
}

type impersonationResponse struct {
	Token          string            `json:"token"`
	ExpiresAt      time.Time         `json:"expires_at"`
	User           domain.PublicUser `json:"user"`
	ImpersonatorID uuid.UUID         `json:"impersonator_id"`
}

// ListUsers
//
// @Summary      List all users
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}   domain.UserSummary
// @Failure      403  {object}  errorBody
// @Router       /admin/users [get]
func (h *AdminHandler) ListUsers(c echo.Context) error {
	admin, err := currentIdentity(c)
	if err != nil {
		return err
	}
	users, err := h.admin.ListUsers(c.Request().Context(), admin)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, users)
}

// SetAdmin promotes or demotes a user.
//
// @Summary      Change admin flag
// @Tags         admin
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string           true  "User id"
// @Param        body  body      setAdminRequest  true  "Flag"
// @Success      200   {object}  domain.PublicUser
// @Failure      400   {object}  errorBody
// @Failure      404   {object}  errorBody
// @Router       /admin/users/{id}/admin [patch]
func (h *AdminHandler) SetAdmin(c echo.Context) error {
	admin, err := currentIdentity(c)
	if err != nil {
		return err
	}
	targetID, err := idParam(c, "id", domain.ErrUserNotFound)
	if err != nil {
		return err
	}
	var req setAdminRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	user, err := h.admin.SetAdmin(c.Request().Context(), admin, targetID, *req.IsAdmin)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, user.Public())
}

// DeleteUser
//
// @Summary      Delete a user and their data
// @Tags         admin
// @Security     BearerAuth
// @Param        id  path  string  true  "User id"
// @Success      204
// @Failure      400  {object}  errorBody
// @Failure      404  {object}  errorBody
// @Router       /admin/users/{id} [delete]
func (h *AdminHandler) DeleteUser(c echo.Context) error {
	admin, err := currentIdentity(c)
	if err != nil {
		return err
	}
	targetID, err := idParam(c, "id", domain.ErrUserNotFound)
	if err != nil {
		return err
	}
	if err := h.admin.DeleteUser(c.Request().Context(), admin, targetID); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// Impersonate issues a short-lived token for another user.
//
// @Summary      Impersonate a user
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "User id"
// @Success      200  {object}  impersonationResponse
// @Failure      404  {object}  errorBody
// @Router       /admin/users/{id}/impersonate [post]
func (h *AdminHandler) Impersonate(c echo.Context) error {
	admin, err := currentIdentity(c)
	if err != nil {
		return err
	}
	targetID, err := idParam(c, "id", domain.ErrUserNotFound)
	if err != nil {
		return err
	}
	res, err := h.admin.Impersonate(c.Request().Context(), admin, targetID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, impersonationResponse{
		Token:          res.Token,
		ExpiresAt:      res.ExpiresAt,
		User:           res.User.Public(),
		ImpersonatorID: admin.ID,
	})
}

// ListLogs
//
// @Summary      Recent system log entries
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Param        level   query     string  false  "Level"  Enums(info, warn, error)
// @Param        source  query     string  false  "Source tag"
// @Param        limit   query     int     false  "Max entries (default 100, max 500)"
// @Success      200     {array}   domain.LogEntry
// @Failure      400     {object}  errorBody
// @Router       /admin/logs [get]
func (h *AdminHandler) ListLogs(c echo.Context) error {
	admin, err := currentIdentity(c)
	if err != nil {
		return err
	}

	filter := ports.LogFilter{Level: c.QueryParam("level"), Source: c.QueryParam("source")}
	if raw := c.QueryParam("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			return domain.NewValidationError("limit must be a non-negative integer")
		}
		filter.Limit = n
	}
	switch filter.Level {
	case "", domain.LogLevelInfo, domain.LogLevelWarn, domain.LogLevelError:
	default:
		return domain.NewValidationError("level must be one of: info, warn, error")
	}

	entries, err := h.admin.ListLogs(c.Request().Context(), admin, filter)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, entries)
}
