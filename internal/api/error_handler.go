package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/jobpilot/jobpilot-api/internal/api/middleware"
	"github.com/jobpilot/jobpilot-api/internal/core/domain"
	"github.com/jobpilot/jobpilot-api/internal/core/ports"
)

// errorResponse is the canonical error envelope for all API errors.
type errorResponse struct {
	Error string `json:"error"`
}

var kindStatus = []struct {
	kind error
	code int
}{
	{domain.ErrValidation, http.StatusBadRequest},
	{domain.ErrUnauthenticated, http.StatusUnauthorized},
	{domain.ErrInvalidToken, http.StatusForbidden},
	{domain.ErrForbidden, http.StatusForbidden},
	{domain.ErrNotFound, http.StatusNotFound},
	{domain.ErrConflict, http.StatusConflict},
	{domain.ErrUnavailable, http.StatusServiceUnavailable},
}

// NewHTTPErrorHandler returns an echo.HTTPErrorHandler that:
//   - Maps domain error kinds to their HTTP status codes.
//   - Logs and records server-side failures without leaking details to the client.
//   - Renders a consistent JSON envelope: {"error": "<message>"}.
//
// recorder may be nil.
func NewHTTPErrorHandler(log zerolog.Logger, recorder ports.EventRecorder) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		code, msg := resolveError(err)
		if code >= http.StatusInternalServerError {
			report(log, recorder, c, code, err)
		}

		if c.Request().Method == http.MethodHead {
			_ = c.NoContent(code)
			return
		}
		_ = c.JSON(code, errorResponse{Error: msg})
	}
}

func resolveError(err error) (int, string) {
	// Echo's own errors (router 404/405, rate limiter, timeouts).
	var he *echo.HTTPError
	if errors.As(err, &he) {
		return he.Code, fmt.Sprintf("%v", he.Message)
	}

	for _, ks := range kindStatus {
		if !errors.Is(err, ks.kind) {
			continue
		}
		var de *domain.Error
		if errors.As(err, &de) {
			return ks.code, de.Msg
		}
		return ks.code, ks.kind.Error()
	}

	return http.StatusInternalServerError, "internal server error"
}

func report(log zerolog.Logger, recorder ports.EventRecorder, c echo.Context, code int, err error) {
	req := c.Request()
	requestID := c.Response().Header().Get(echo.HeaderXRequestID)

	ev := log.Error().
		Err(err).
		Int("status", code).
		Str("method", req.Method).
		Str("path", c.Path()).
		Str("request_id", requestID)

	entry := domain.LogEntry{
		Level:   domain.LogLevelError,
		Source:  "http",
		Message: fmt.Sprintf("%s %s failed", req.Method, c.Path()),
		Details: map[string]any{
			"method":     req.Method,
			"path":       req.URL.Path,
			"status":     code,
			"error":      err.Error(),
			"request_id": requestID,
		},
	}
	if id, ok := middleware.IdentityFrom(c); ok {
		actor := id.ID
		entry.ActorID = &actor
		ev = ev.Str("user_id", actor.String())
	}
	ev.Msg("request failed")

	if recorder != nil {
		recorder.Record(entry)
	}
}
