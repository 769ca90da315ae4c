package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/jobpilot/jobpilot-api/internal/core/domain"
	"github.com/jobpilot/jobpilot-api/internal/core/ports"
	"github.com/jobpilot/jobpilot-api/internal/pkg/metrics"
)

// AuthService implements registration, login and per-request identity
// resolution.
type AuthService struct {
	users  ports.UserRepository
	hasher ports.PasswordHasher
	tokens ports.TokenCodec
	log    zerolog.Logger
	now    func() time.Time
}

var _ ports.AuthService = (*AuthService)(nil)

func NewAuthService(users ports.UserRepository, hasher ports.PasswordHasher, tokens ports.TokenCodec, log zerolog.Logger) *AuthService {
	return &AuthService{users: users, hasher: hasher, tokens: tokens, log: log, now: time.Now}
}

func (s *AuthService) Register(ctx context.Context, in ports.RegisterInput) (*ports.AuthResult, error) {
	email := domain.NormalizeEmail(in.Email)
	firstName := strings.TrimSpace(in.FirstName)
	lastName := strings.TrimSpace(in.LastName)
	if email == "" || in.Password == "" || firstName == "" || lastName == "" {
		return nil, domain.NewValidationError("first_name, last_name, email and password are required")
	}

	if _, err := s.users.FindByEmail(ctx, email); err == nil {
		return nil, domain.ErrEmailTaken
	} else if !errors.Is(err, domain.ErrUserNotFound) {
		return nil, fmt.Errorf("register: %w", err)
	}

	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		return nil, err
	}

	user, err := s.users.Create(ctx, &domain.User{
		ID:           uuid.New(),
		Email:        email,
		PasswordHash: &hash,
		FirstName:    firstName,
		LastName:     lastName,
		CreatedAt:    s.now().UTC(),
	})
	if err != nil {
		return nil, err
	}

	token, err := s.tokens.Sign(user.ID, user.IsAdmin)
	if err != nil {
		return nil, err
	}

	metrics.UsersRegisteredTotal.WithLabelValues("password").Inc()
	s.log.Info().Str("user_id", user.ID.String()).Msg("user registered")
	return &ports.AuthResult{Token: token, User: user}, nil
}

// Login verifies a password. Unknown email, an account without a password
// and a wrong password all produce the same error.
func (s *AuthService) Login(ctx context.Context, email, password string) (*ports.AuthResult, error) {
	email = domain.NormalizeEmail(email)
	if email == "" || password == "" {
		return nil, domain.ErrInvalidCredentials
	}

	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			metrics.AuthFailuresTotal.WithLabelValues("invalid_credentials").Inc()
			return nil, domain.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("login: %w", err)
	}

	if user.PasswordHash == nil || !s.hasher.Verify(password, *user.PasswordHash) {
		metrics.AuthFailuresTotal.WithLabelValues("invalid_credentials").Inc()
		return nil, domain.ErrInvalidCredentials
	}

	token, err := s.tokens.Sign(user.ID, user.IsAdmin)
	if err != nil {
		return nil, err
	}
	return &ports.AuthResult{Token: token, User: user}, nil
}

// LoginFederated resolves a provider identity to a local user: by provider
// subject first, then by verified email (linking the account), otherwise a
// new password-less user is created.
func (s *AuthService) LoginFederated(ctx context.Context, fi *domain.FederatedIdentity) (*ports.AuthResult, error) {
	if fi == nil || fi.Subject == "" {
		return nil, domain.ErrInvalidCredentials
	}

	user, err := s.users.FindByGoogleID(ctx, fi.Subject)
	switch {
	case err == nil:
	case errors.Is(err, domain.ErrUserNotFound):
		user, err = s.linkOrCreate(ctx, fi)
		if err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("federated login: %w", err)
	}

	token, err := s.tokens.Sign(user.ID, user.IsAdmin)
	if err != nil {
		return nil, err
	}
	return &ports.AuthResult{Token: token, User: user}, nil
}

func (s *AuthService) linkOrCreate(ctx context.Context, fi *domain.FederatedIdentity) (*domain.User, error) {
	email := domain.NormalizeEmail(fi.Email)
	if email == "" || !fi.EmailVerified {
		return nil, domain.ErrInvalidCredentials
	}

	existing, err := s.users.FindByEmail(ctx, email)
	if err == nil {
		linked, err := s.users.LinkGoogleID(ctx, existing.ID, fi.Subject)
		if err != nil {
			return nil, err
		}
		s.log.Info().Str("user_id", linked.ID.String()).Str("provider", fi.Provider).Msg("federated identity linked")
		return linked, nil
	}
	if !errors.Is(err, domain.ErrUserNotFound) {
		return nil, fmt.Errorf("federated login: %w", err)
	}

	subject := fi.Subject
	created, err := s.users.Create(ctx, &domain.User{
		ID:        uuid.New(),
		Email:     email,
		FirstName: fi.FirstName,
		LastName:  fi.LastName,
		GoogleID:  &subject,
		CreatedAt: s.now().UTC(),
	})
	if err != nil {
		return nil, err
	}

	metrics.UsersRegisteredTotal.WithLabelValues(fi.Provider).Inc()
	s.log.Info().Str("user_id", created.ID.String()).Str("provider", fi.Provider).Msg("user registered")
	return created, nil
}

// Authenticate decodes the token and reloads the user it names. The claim's
// admin flag is ignored; the stored row is authoritative.
func (s *AuthService) Authenticate(ctx context.Context, token string) (domain.Identity, error) {
	claims, err := s.tokens.Verify(token)
	if err != nil {
		metrics.AuthFailuresTotal.WithLabelValues("invalid_token").Inc()
		return domain.Identity{}, domain.ErrInvalidToken
	}

	user, err := s.users.FindByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			metrics.AuthFailuresTotal.WithLabelValues("user_gone").Inc()
			return domain.Identity{}, domain.ErrUserGone
		}
		return domain.Identity{}, fmt.Errorf("authenticate: %w", err)
	}

	if claims.ImpersonatorID != nil {
		if err := s.checkImpersonator(ctx, *claims.ImpersonatorID); err != nil {
			return domain.Identity{}, err
		}
	}

	return domain.IdentityOf(user, claims), nil
}

// checkImpersonator requires the admin who minted an impersonation token to
// still exist and still be an admin.
func (s *AuthService) checkImpersonator(ctx context.Context, id uuid.UUID) error {
	admin, err := s.users.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			metrics.AuthFailuresTotal.WithLabelValues("impersonator_revoked").Inc()
			return domain.ErrInvalidToken
		}
		return fmt.Errorf("authenticate impersonator: %w", err)
	}
	if !admin.IsAdmin {
		metrics.AuthFailuresTotal.WithLabelValues("impersonator_revoked").Inc()
		return domain.ErrInvalidToken
	}
	return nil
}

func (s *AuthService) Me(ctx context.Context, id domain.Identity) (*domain.User, error) {
	user, err := s.users.FindByID(ctx, id.ID)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, domain.ErrUserGone
		}
		return nil, err
	}
	return user, nil
}

func (s *AuthService) DeleteAccount(ctx context.Context, id domain.Identity) error {
	if err := s.users.Delete(ctx, id.ID); err != nil {
		return err
	}
	s.log.Info().Str("user_id", id.ID.String()).Msg("account deleted")
	return nil
}
