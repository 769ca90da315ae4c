package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/jobpilot/jobpilot-api/internal/core/domain"
	"github.com/jobpilot/jobpilot-api/internal/core/ports"
	"github.com/jobpilot/jobpilot-api/internal/pkg/metrics"
)

const (
	defaultLogLimit = 100
	maxLogLimit     = 500
)

// AdminService implements the global, role-gated use cases. Its queries
// are intentionally not scoped to the caller.
type AdminService struct {
	users  ports.UserRepository
	logs   ports.LogRepository
	tokens ports.TokenCodec
	log    zerolog.Logger
	now    func() time.Time
}

var _ ports.AdminService = (*AdminService)(nil)

func NewAdminService(users ports.UserRepository, logs ports.LogRepository, tokens ports.TokenCodec, log zerolog.Logger) *AdminService {
	return &AdminService{users: users, logs: logs, tokens: tokens, log: log, now: time.Now}
}

func (s *AdminService) ListUsers(ctx context.Context, admin domain.Identity) ([]domain.UserSummary, error) {
	if !admin.IsAdmin {
		return nil, domain.ErrAdminRequired
	}
	return s.users.List(ctx)
}

func (s *AdminService) SetAdmin(ctx context.Context, admin domain.Identity, targetID uuid.UUID, isAdmin bool) (*domain.User, error) {
	if !admin.IsAdmin {
		return nil, domain.ErrAdminRequired
	}
	if targetID == admin.ID && !isAdmin {
		return nil, domain.ErrSelfDemotion
	}

	user, err := s.users.SetAdmin(ctx, targetID, isAdmin)
	if err != nil {
		return nil, err
	}

	if err := s.audit(ctx, admin, "admin.set_admin", "admin flag changed", map[string]any{
		"target_id": targetID.String(),
		"is_admin":  isAdmin,
	}); err != nil {
		s.log.Warn().Err(err).Str("target_id", targetID.String()).Msg("failed to audit admin change")
	}
	return user, nil
}

// DeleteUser removes another user and everything they own.
func (s *AdminService) DeleteUser(ctx context.Context, admin domain.Identity, targetID uuid.UUID) error {
	if !admin.IsAdmin {
		return domain.ErrAdminRequired
	}
	if targetID == admin.ID {
		return domain.ErrSelfDeletion
	}

	if err := s.users.Delete(ctx, targetID); err != nil {
		return err
	}

	if err := s.audit(ctx, admin, "admin.delete_user", "user deleted", map[string]any{
		"target_id": targetID.String(),
	}); err != nil {
		s.log.Warn().Err(err).Str("target_id", targetID.String()).Msg("failed to audit user deletion")
	}
	return nil
}

// Impersonate mints a short-lived token for targetID. The audit entry is
// written before the token is released; no entry, no token.
func (s *AdminService) Impersonate(ctx context.Context, admin domain.Identity, targetID uuid.UUID) (*ports.ImpersonationResult, error) {
	if !admin.IsAdmin {
		return nil, domain.ErrAdminRequired
	}

	target, err := s.users.FindByID(ctx, targetID)
	if err != nil {
		return nil, err
	}

	token, expiresAt, err := s.tokens.SignImpersonation(target.ID, target.IsAdmin, admin.ID)
	if err != nil {
		return nil, err
	}

	if err := s.audit(ctx, admin, "admin.impersonate", "user impersonated", map[string]any{
		"admin_id":     admin.ID.String(),
		"admin_email":  admin.Email,
		"target_id":    target.ID.String(),
		"target_email": target.Email,
		"expires_at":   expiresAt.UTC().Format(time.RFC3339),
	}); err != nil {
		return nil, fmt.Errorf("impersonate: audit: %w", err)
	}

	metrics.ImpersonationsTotal.Inc()
	s.log.Info().
		Str("admin_id", admin.ID.String()).
		Str("target_id", target.ID.String()).
		Time("expires_at", expiresAt).
		Msg("user impersonated")

	return &ports.ImpersonationResult{Token: token, ExpiresAt: expiresAt, User: target}, nil
}

func (s *AdminService) ListLogs(ctx context.Context, admin domain.Identity, filter ports.LogFilter) ([]domain.LogEntry, error) {
	if !admin.IsAdmin {
		return nil, domain.ErrAdminRequired
	}
	if filter.Limit <= 0 {
		filter.Limit = defaultLogLimit
	}
	if filter.Limit > maxLogLimit {
		filter.Limit = maxLogLimit
	}
	return s.logs.List(ctx, filter)
}

func (s *AdminService) audit(ctx context.Context, admin domain.Identity, source, msg string, details map[string]any) error {
	actor := admin.ID
	return s.logs.Insert(ctx, &domain.LogEntry{
		Level:     domain.LogLevelInfo,
		Source:    source,
		Message:   msg,
		Details:   details,
		ActorID:   &actor,
		CreatedAt: s.now().UTC(),
	})
}
