package api

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/jobpilot/jobpilot-api/internal/core/domain"
)

type memRecorder struct {
	mu      sync.Mutex
	entries []domain.LogEntry
}

func (r *memRecorder) Record(e domain.LogEntry) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = append(r.entries, e)
}

func (r *memRecorder) all() []domain.LogEntry {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]domain.LogEntry(nil), r.entries...)
}

func TestResolveError(t *testing.T) {
	cases := []struct {
		name string
		err  error
		code int
		msg  string
	}{
		{"validation", domain.NewValidationError("company is required"), http.StatusBadRequest, "company is required"},
		{"missing token", domain.ErrMissingToken, http.StatusUnauthorized, "missing authorization header"},
		{"invalid token", domain.ErrInvalidToken, http.StatusForbidden, "invalid token"},
		{"admin required", domain.ErrAdminRequired, http.StatusForbidden, "admin privileges required"},
		{"wrapped not found", fmt.Errorf("get job: %w", domain.ErrJobNotFound), http.StatusNotFound, "job application not found"},
		{"conflict", domain.ErrEmailTaken, http.StatusConflict, "email already registered"},
		{"unavailable", fmt.Errorf("find user: %w: %w", domain.ErrUnavailable, errors.New("dial tcp: refused")), http.StatusServiceUnavailable, "service temporarily unavailable"},
		{"echo error", echo.NewHTTPError(http.StatusTooManyRequests, "slow down"), http.StatusTooManyRequests, "slow down"},
		{"unknown", errors.New("pq: relation does not exist"), http.StatusInternalServerError, "internal server error"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			code, msg := resolveError(tc.err)
			if code != tc.code || msg != tc.msg {
				t.Fatalf("expected %d %q, got %d %q", tc.code, tc.msg, code, msg)
			}
		})
	}
}

func TestHTTPErrorHandler_RecordsServerFailures(t *testing.T) {
	rec := &memRecorder{}
	h := NewHTTPErrorHandler(zerolog.Nop(), rec)
	e := echo.New()

	actor := uuid.New()
	req := httptest.NewRequest(http.MethodGet, "/jobs/stats", nil)
	w := httptest.NewRecorder()
	c := e.NewContext(req, w)
	c.SetPath("/jobs/stats")
	c.Set("identity", domain.Identity{ID: actor})
	c.Response().Header().Set(echo.HeaderXRequestID, "req-1")

	h(errors.New("boom"), c)

	if w.Code != http.StatusInternalServerError || w.Body.String() != "{\"error\":\"internal server error\"}\n" {
		t.Fatalf("unexpected response %d %q", w.Code, w.Body.String())
	}
	entries := rec.all()
	if len(entries) != 1 {
		t.Fatalf("expected one recorded entry, got %d", len(entries))
	}
	got := entries[0]
	if got.Level != domain.LogLevelError || got.Source != "http" || got.ActorID == nil || *got.ActorID != actor {
		t.Fatalf("unexpected entry %+v", got)
	}
	if got.Details["error"] != "boom" || got.Details["request_id"] != "req-1" || got.Details["status"] != http.StatusInternalServerError {
		t.Fatalf("unexpected details %+v", got.Details)
	}
}

func TestHTTPErrorHandler_ClientErrorsNotRecorded(t *testing.T) {
	rec := &memRecorder{}
	h := NewHTTPErrorHandler(zerolog.Nop(), rec)
	e := echo.New()

	w := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/jobs/1", nil), w)
	h(domain.ErrJobNotFound, c)

	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", w.Code)
	}
	if n := len(rec.all()); n != 0 {
		t.Fatalf("client errors must not be recorded, got %d entries", n)
	}
}

func TestHTTPErrorHandler_NilRecorder(t *testing.T) {
	h := NewHTTPErrorHandler(zerolog.Nop(), nil)
	e := echo.New()
	w := httptest.NewRecorder()
	h(errors.New("boom"), e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), w))
	if w.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", w.Code)
	}
}
