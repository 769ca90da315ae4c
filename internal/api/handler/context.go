package handler

import (
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/jobpilot/jobpilot-api/internal/api/middleware"
	"github.com/jobpilot/jobpilot-api/internal/core/domain"
)

// errorBody documents the error envelope rendered by the API error handler.
type errorBody struct {
	Error string `json:"error" example:"job application not found"`
}

// currentIdentity returns the identity attached by the Auth middleware.
// Its absence means the route was mounted without authentication.
func currentIdentity(c echo.Context) (domain.Identity, error) {
	id, ok := middleware.IdentityFrom(c)
	if !ok {
		return domain.Identity{}, domain.ErrMissingToken
	}
	return id, nil
}

// bindAndValidate decodes the request body into req and runs the struct
// validator on it.
func bindAndValidate(c echo.Context, req any) error {
	if err := c.Bind(req); err != nil {
		return domain.NewValidationError("invalid payload")
	}
	return c.Validate(req)
}

// idParam parses a UUID path parameter. A malformed id is reported as the
// resource's not-found error, the same as an id owned by someone else.
func idParam(c echo.Context, name string, notFound error) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		return uuid.Nil, notFound
	}
	return id, nil
}
