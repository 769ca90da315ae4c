package middleware

import (
	"github.com/labstack/echo/v4"

	"github.com/jobpilot/jobpilot-api/internal/core/domain"
)

// RequireAdmin lets the request through only when the authenticated user is
// currently an admin. It must run after Auth.
func RequireAdmin() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			id, ok := IdentityFrom(c)
			if !ok {
				return domain.ErrMissingToken
			}
			if !id.IsAdmin {
				return domain.ErrAdminRequired
			}
			return next(c)
		}
	}
}
