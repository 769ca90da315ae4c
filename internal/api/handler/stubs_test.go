package handler

import (
	"context"
	"errors"
	"io"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/jobpilot/jobpilot-api/internal/core/domain"
	"github.com/jobpilot/jobpilot-api/internal/core/ports"
)

// request builds an echo context the way the router would after Auth ran.
// A nil identity leaves the context unauthenticated.
func request(t *testing.T, method, target, body string, id *domain.Identity, params ...string) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()
	e := echo.New()
	e.Validator = NewValidator()

	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, r)
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if id != nil {
		c.Set("identity", *id)
	}
	if len(params)%2 != 0 {
		t.Fatalf("params must be name/value pairs")
	}
	var names, values []string
	for i := 0; i < len(params); i += 2 {
		names = append(names, params[i])
		values = append(values, params[i+1])
	}
	c.SetParamNames(names...)
	c.SetParamValues(values...)
	return c, rec
}

func user(email string) domain.Identity {
	return domain.Identity{ID: uuid.New(), Email: email, Name: "Test User"}
}

func assertKind(t *testing.T, err, want error) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected error wrapping %v, got nil", want)
	}
	if !errors.Is(err, want) {
		t.Fatalf("expected error wrapping %v, got %v", want, err)
	}
}

type stubAuthService struct {
	ports.AuthService
	registerFn  func(ctx context.Context, in ports.RegisterInput) (*ports.AuthResult, error)
	loginFn     func(ctx context.Context, email, password string) (*ports.AuthResult, error)
	federatedFn func(ctx context.Context, fi *domain.FederatedIdentity) (*ports.AuthResult, error)
	meFn        func(ctx context.Context, id domain.Identity) (*domain.User, error)
	deleted     []uuid.UUID
}

func (s *stubAuthService) Register(ctx context.Context, in ports.RegisterInput) (*ports.AuthResult, error) {
	return s.registerFn(ctx, in)
}

func (s *stubAuthService) Login(ctx context.Context, email, password string) (*ports.AuthResult, error) {
	return s.loginFn(ctx, email, password)
}

func (s *stubAuthService) LoginFederated(ctx context.Context, fi *domain.FederatedIdentity) (*ports.AuthResult, error) {
	return s.federatedFn(ctx, fi)
}

func (s *stubAuthService) Me(ctx context.Context, id domain.Identity) (*domain.User, error) {
	return s.meFn(ctx, id)
}

func (s *stubAuthService) DeleteAccount(_ context.Context, id domain.Identity) error {
	s.deleted = append(s.deleted, id.ID)
	return nil
}

type stubJobService struct {
	ports.JobService
	listFn   func(ctx context.Context, id domain.Identity, status domain.JobStatus) ([]domain.JobApplication, error)
	getFn    func(ctx context.Context, id domain.Identity, jobID uuid.UUID) (*domain.JobApplication, error)
	createFn func(ctx context.Context, id domain.Identity, in ports.JobInput) (*domain.JobApplication, error)
	updateFn func(ctx context.Context, id domain.Identity, jobID uuid.UUID, in ports.JobInput) (*domain.JobApplication, error)
	statusFn func(ctx context.Context, id domain.Identity, jobID uuid.UUID, status domain.JobStatus) (*domain.JobApplication, error)
	deleteFn func(ctx context.Context, id domain.Identity, jobID uuid.UUID) error
	statsFn  func(ctx context.Context, id domain.Identity) (*domain.JobStats, error)
}

func (s *stubJobService) List(ctx context.Context, id domain.Identity, status domain.JobStatus) ([]domain.JobApplication, error) {
	return s.listFn(ctx, id, status)
}

func (s *stubJobService) Get(ctx context.Context, id domain.Identity, jobID uuid.UUID) (*domain.JobApplication, error) {
	return s.getFn(ctx, id, jobID)
}

func (s *stubJobService) Create(ctx context.Context, id domain.Identity, in ports.JobInput) (*domain.JobApplication, error) {
	return s.createFn(ctx, id, in)
}

func (s *stubJobService) Update(ctx context.Context, id domain.Identity, jobID uuid.UUID, in ports.JobInput) (*domain.JobApplication, error) {
	return s.updateFn(ctx, id, jobID, in)
}

func (s *stubJobService) UpdateStatus(ctx context.Context, id domain.Identity, jobID uuid.UUID, status domain.JobStatus) (*domain.JobApplication, error) {
	return s.statusFn(ctx, id, jobID, status)
}

func (s *stubJobService) Delete(ctx context.Context, id domain.Identity, jobID uuid.UUID) error {
	return s.deleteFn(ctx, id, jobID)
}

func (s *stubJobService) Stats(ctx context.Context, id domain.Identity) (*domain.JobStats, error) {
	return s.statsFn(ctx, id)
}

type stubProfileService struct {
	ports.ProfileService
	updateFn   func(ctx context.Context, id domain.Identity, in ports.ProfileInput) (*domain.FullProfile, error)
	addExpFn   func(ctx context.Context, id domain.Identity, in ports.ExperienceInput) (*domain.Experience, error)
	addSkillFn func(ctx context.Context, id domain.Identity, name, level string) (*domain.Skill, error)
	delSkillFn func(ctx context.Context, id domain.Identity, skillID uuid.UUID) error
}

func (s *stubProfileService) Update(ctx context.Context, id domain.Identity, in ports.ProfileInput) (*domain.FullProfile, error) {
	return s.updateFn(ctx, id, in)
}

func (s *stubProfileService) AddExperience(ctx context.Context, id domain.Identity, in ports.ExperienceInput) (*domain.Experience, error) {
	return s.addExpFn(ctx, id, in)
}

func (s *stubProfileService) AddSkill(ctx context.Context, id domain.Identity, name, level string) (*domain.Skill, error) {
	return s.addSkillFn(ctx, id, name, level)
}

func (s *stubProfileService) DeleteSkill(ctx context.Context, id domain.Identity, skillID uuid.UUID) error {
	return s.delSkillFn(ctx, id, skillID)
}

type stubAdminService struct {
	ports.AdminService
	setAdminFn    func(ctx context.Context, admin domain.Identity, targetID uuid.UUID, isAdmin bool) (*domain.User, error)
	impersonateFn func(ctx context.Context, admin domain.Identity, targetID uuid.UUID) (*ports.ImpersonationResult, error)
	listLogsFn    func(ctx context.Context, admin domain.Identity, filter ports.LogFilter) ([]domain.LogEntry, error)
}

func (s *stubAdminService) SetAdmin(ctx context.Context, admin domain.Identity, targetID uuid.UUID, isAdmin bool) (*domain.User, error) {
	return s.setAdminFn(ctx, admin, targetID, isAdmin)
}

func (s *stubAdminService) Impersonate(ctx context.Context, admin domain.Identity, targetID uuid.UUID) (*ports.ImpersonationResult, error) {
	return s.impersonateFn(ctx, admin, targetID)
}

func (s *stubAdminService) ListLogs(ctx context.Context, admin domain.Identity, filter ports.LogFilter) ([]domain.LogEntry, error) {
	return s.listLogsFn(ctx, admin, filter)
}
