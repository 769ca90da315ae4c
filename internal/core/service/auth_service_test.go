package service

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/jobpilot/jobpilot-api/internal/core/domain"
	"github.com/jobpilot/jobpilot-api/internal/core/ports"
	"github.com/jobpilot/jobpilot-api/internal/infrastructure/password"
	"github.com/jobpilot/jobpilot-api/internal/infrastructure/token"
)

const testSecret = "test-secret"

func newTestAuthService(repo *stubUserRepo) (*AuthService, *token.JWT) {
	codec := token.NewJWT(testSecret)
	return NewAuthService(repo, password.NewBcrypt(bcrypt.MinCost), codec, zerolog.Nop()), codec
}

func register(t *testing.T, svc *AuthService, email, pass string) *ports.AuthResult {
	t.Helper()
	res, err := svc.Register(context.Background(), ports.RegisterInput{
		FirstName: "Test",
		LastName:  "User",
		Email:     email,
		Password:  pass,
	})
	if err != nil {
		t.Fatalf("register %s: %v", email, err)
	}
	return res
}

func TestAuthService_Register_Success(t *testing.T) {
	repo := newStubUserRepo()
	svc, codec := newTestAuthService(repo)

	res := register(t, svc, "  Alice@Example.com ", "pw12345")
	if res.Token == "" {
		t.Fatalf("expected token, got empty")
	}
	if res.User.Email != "alice@example.com" {
		t.Fatalf("expected normalized email, got %q", res.User.Email)
	}
	if res.User.IsAdmin {
		t.Fatalf("new users must not be admin")
	}
	if res.User.PasswordHash == nil || *res.User.PasswordHash == "pw12345" {
		t.Fatalf("expected password to be hashed")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(*res.User.PasswordHash), []byte("pw12345")); err != nil {
		t.Fatalf("stored hash does not match password: %v", err)
	}

	claims, err := codec.Verify(res.Token)
	if err != nil {
		t.Fatalf("token invalid: %v", err)
	}
	if claims.UserID != res.User.ID {
		t.Fatalf("token subject %s, want %s", claims.UserID, res.User.ID)
	}
}

func TestAuthService_Register_Validation(t *testing.T) {
	svc, _ := newTestAuthService(newStubUserRepo())

	cases := []ports.RegisterInput{
		{FirstName: "A", LastName: "B", Email: "", Password: "pw"},
		{FirstName: "A", LastName: "B", Email: "a@b.c", Password: ""},
		{FirstName: " ", LastName: "B", Email: "a@b.c", Password: "pw"},
		{FirstName: "A", LastName: "", Email: "a@b.c", Password: "pw"},
	}
	for _, in := range cases {
		if _, err := svc.Register(context.Background(), in); !errors.Is(err, domain.ErrValidation) {
			t.Fatalf("input %+v: expected validation error, got %v", in, err)
		}
	}
}

func TestAuthService_Register_Duplicate(t *testing.T) {
	repo := newStubUserRepo()
	svc, _ := newTestAuthService(repo)

	register(t, svc, "bob@example.com", "pass")
	_, err := svc.Register(context.Background(), ports.RegisterInput{
		FirstName: "Bob", LastName: "Again", Email: "BOB@example.com", Password: "pass2",
	})
	if !errors.Is(err, domain.ErrEmailTaken) {
		t.Fatalf("expected ErrEmailTaken, got %v", err)
	}
	if len(repo.users) != 1 {
		t.Fatalf("expected 1 stored user, got %d", len(repo.users))
	}
}

func TestAuthService_Login_Success(t *testing.T) {
	repo := newStubUserRepo()
	svc, codec := newTestAuthService(repo)
	reg := register(t, svc, "carol@example.com", "s3cret")

	res, err := svc.Login(context.Background(), "Carol@Example.com", "s3cret")
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}
	if res.User.ID != reg.User.ID {
		t.Fatalf("unexpected user: %+v", res.User)
	}
	if _, err := codec.Verify(res.Token); err != nil {
		t.Fatalf("token invalid: %v", err)
	}
}

func TestAuthService_Login_FailuresAreIndistinguishable(t *testing.T) {
	repo := newStubUserRepo()
	svc, _ := newTestAuthService(repo)
	register(t, svc, "dave@example.com", "goodpass")

	googleOnly := "g-123"
	ssoID := uuid.New()
	repo.users[ssoID] = &domain.User{ID: ssoID, Email: "sso@example.com", GoogleID: &googleOnly}

	cases := map[string][2]string{
		"wrong password":   {"dave@example.com", "badpass"},
		"unknown email":    {"ghost@example.com", "pass"},
		"no password set":  {"sso@example.com", "anything"},
		"empty credential": {"", ""},
	}
	for name, c := range cases {
		_, err := svc.Login(context.Background(), c[0], c[1])
		if err != domain.ErrInvalidCredentials {
			t.Fatalf("%s: expected ErrInvalidCredentials, got %v", name, err)
		}
	}
}

func TestAuthService_Login_StoreFailure(t *testing.T) {
	repo := newStubUserRepo()
	repo.err = domain.ErrUnavailable
	svc, _ := newTestAuthService(repo)

	_, err := svc.Login(context.Background(), "x@example.com", "pw")
	if !errors.Is(err, domain.ErrUnavailable) {
		t.Fatalf("expected ErrUnavailable, got %v", err)
	}
}

func TestAuthService_Authenticate_ReloadsUser(t *testing.T) {
	repo := newStubUserRepo()
	svc, _ := newTestAuthService(repo)
	reg := register(t, svc, "erin@example.com", "pw")

	id, err := svc.Authenticate(context.Background(), reg.Token)
	if err != nil {
		t.Fatalf("authenticate: %v", err)
	}
	if id.ID != reg.User.ID || id.IsAdmin {
		t.Fatalf("unexpected identity: %+v", id)
	}
	if id.Name != "Test User" || id.Email != "erin@example.com" {
		t.Fatalf("identity not populated from row: %+v", id)
	}

	// Promotion takes effect on the next request with the same token.
	if _, err := repo.SetAdmin(context.Background(), reg.User.ID, true); err != nil {
		t.Fatalf("set admin: %v", err)
	}
	id, err = svc.Authenticate(context.Background(), reg.Token)
	if err != nil {
		t.Fatalf("authenticate after promotion: %v", err)
	}
	if !id.IsAdmin {
		t.Fatalf("expected admin after promotion")
	}
}

func TestAuthService_Authenticate_IgnoresAdminClaim(t *testing.T) {
	repo := newStubUserRepo()
	svc, codec := newTestAuthService(repo)
	reg := register(t, svc, "frank@example.com", "pw")

	forged, err := codec.Sign(reg.User.ID, true)
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	id, err := svc.Authenticate(context.Background(), forged)
	if err != nil {
		t.Fatalf("authenticate: %v", err)
	}
	if id.IsAdmin {
		t.Fatalf("admin claim must not grant admin")
	}
}

func TestAuthService_Authenticate_Errors(t *testing.T) {
	repo := newStubUserRepo()
	svc, codec := newTestAuthService(repo)

	if _, err := svc.Authenticate(context.Background(), "garbage"); !errors.Is(err, domain.ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}

	other := token.NewJWT("other-secret")
	foreign, _ := other.Sign(uuid.New(), false)
	if _, err := svc.Authenticate(context.Background(), foreign); !errors.Is(err, domain.ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken for foreign signature, got %v", err)
	}

	orphan, _ := codec.Sign(uuid.New(), false)
	if _, err := svc.Authenticate(context.Background(), orphan); err != domain.ErrUserGone {
		t.Fatalf("expected ErrUserGone, got %v", err)
	}

	repo.err = domain.ErrUnavailable
	if _, err := svc.Authenticate(context.Background(), orphan); !errors.Is(err, domain.ErrUnavailable) {
		t.Fatalf("expected ErrUnavailable, got %v", err)
	}
}

func TestAuthService_Authenticate_CarriesImpersonator(t *testing.T) {
	repo := newStubUserRepo()
	svc, codec := newTestAuthService(repo)
	target := register(t, svc, "target@example.com", "pw")
	admin := register(t, svc, "admin@example.com", "pw")
	adminID := admin.User.ID
	if _, err := repo.SetAdmin(context.Background(), adminID, true); err != nil {
		t.Fatalf("promote: %v", err)
	}

	tok, _, err := codec.SignImpersonation(target.User.ID, false, adminID)
	if err != nil {
		t.Fatalf("sign impersonation: %v", err)
	}
	id, err := svc.Authenticate(context.Background(), tok)
	if err != nil {
		t.Fatalf("authenticate: %v", err)
	}
	if id.ID != target.User.ID {
		t.Fatalf("expected target identity, got %s", id.ID)
	}
	if id.ImpersonatorID == nil || *id.ImpersonatorID != adminID {
		t.Fatalf("expected impersonator %s, got %v", adminID, id.ImpersonatorID)
	}
}

func TestAuthService_Authenticate_RevokedImpersonator(t *testing.T) {
	ctx := context.Background()
	repo := newStubUserRepo()
	svc, codec := newTestAuthService(repo)
	target := register(t, svc, "target@example.com", "pw")
	admin := register(t, svc, "admin@example.com", "pw")
	if _, err := repo.SetAdmin(ctx, admin.User.ID, true); err != nil {
		t.Fatalf("promote: %v", err)
	}

	tok, _, err := codec.SignImpersonation(target.User.ID, false, admin.User.ID)
	if err != nil {
		t.Fatalf("sign impersonation: %v", err)
	}
	if _, err := svc.Authenticate(ctx, tok); err != nil {
		t.Fatalf("authenticate while issuer is admin: %v", err)
	}

	if _, err := repo.SetAdmin(ctx, admin.User.ID, false); err != nil {
		t.Fatalf("demote: %v", err)
	}
	if _, err := svc.Authenticate(ctx, tok); !errors.Is(err, domain.ErrInvalidToken) {
		t.Fatalf("demoted issuer: expected invalid token, got %v", err)
	}

	if _, err := repo.SetAdmin(ctx, admin.User.ID, true); err != nil {
		t.Fatalf("re-promote: %v", err)
	}
	if err := repo.Delete(ctx, admin.User.ID); err != nil {
		t.Fatalf("delete issuer: %v", err)
	}
	if _, err := svc.Authenticate(ctx, tok); !errors.Is(err, domain.ErrInvalidToken) {
		t.Fatalf("deleted issuer: expected invalid token, got %v", err)
	}

	// The target's own session is unaffected.
	if _, err := svc.Authenticate(ctx, target.Token); err != nil {
		t.Fatalf("target session: %v", err)
	}
}

func TestAuthService_Authenticate_UnknownImpersonator(t *testing.T) {
	repo := newStubUserRepo()
	svc, codec := newTestAuthService(repo)
	target := register(t, svc, "target@example.com", "pw")

	tok, _, err := codec.SignImpersonation(target.User.ID, false, uuid.New())
	if err != nil {
		t.Fatalf("sign impersonation: %v", err)
	}
	if _, err := svc.Authenticate(context.Background(), tok); !errors.Is(err, domain.ErrInvalidToken) {
		t.Fatalf("unknown issuer: expected invalid token, got %v", err)
	}
}

func TestAuthService_LoginFederated(t *testing.T) {
	repo := newStubUserRepo()
	svc, _ := newTestAuthService(repo)
	existing := register(t, svc, "gina@example.com", "pw")

	// Verified email of an existing account links it.
	res, err := svc.LoginFederated(context.Background(), &domain.FederatedIdentity{
		Provider: "google", Subject: "sub-1", Email: "Gina@example.com", EmailVerified: true,
	})
	if err != nil {
		t.Fatalf("federated link: %v", err)
	}
	if res.User.ID != existing.User.ID {
		t.Fatalf("expected existing account to be linked")
	}
	if res.User.GoogleID == nil || *res.User.GoogleID != "sub-1" {
		t.Fatalf("google id not linked: %+v", res.User)
	}

	// Known subject resolves directly, regardless of email.
	res, err = svc.LoginFederated(context.Background(), &domain.FederatedIdentity{
		Provider: "google", Subject: "sub-1", Email: "changed@example.com",
	})
	if err != nil || res.User.ID != existing.User.ID {
		t.Fatalf("expected lookup by subject, got %v / %+v", err, res)
	}

	// Unknown subject and email creates a password-less user.
	res, err = svc.LoginFederated(context.Background(), &domain.FederatedIdentity{
		Provider: "google", Subject: "sub-2", Email: "new@example.com", EmailVerified: true,
		FirstName: "New", LastName: "Person",
	})
	if err != nil {
		t.Fatalf("federated create: %v", err)
	}
	if res.User.PasswordHash != nil || res.User.Email != "new@example.com" {
		t.Fatalf("unexpected created user: %+v", res.User)
	}
	if _, err := svc.Login(context.Background(), "new@example.com", "pw"); err != domain.ErrInvalidCredentials {
		t.Fatalf("password login must fail for federated-only user, got %v", err)
	}

	// Unverified email is refused.
	if _, err := svc.LoginFederated(context.Background(), &domain.FederatedIdentity{
		Provider: "google", Subject: "sub-3", Email: "gina@example.com",
	}); err != domain.ErrInvalidCredentials {
		t.Fatalf("expected ErrInvalidCredentials for unverified email, got %v", err)
	}
}

func TestAuthService_LoginFederated_KeepsExistingLink(t *testing.T) {
	repo := newStubUserRepo()
	svc, _ := newTestAuthService(repo)
	register(t, svc, "ivy@example.com", "pw")

	if _, err := svc.LoginFederated(context.Background(), &domain.FederatedIdentity{
		Provider: "google", Subject: "sub-a", Email: "ivy@example.com", EmailVerified: true,
	}); err != nil {
		t.Fatalf("first link: %v", err)
	}

	_, err := svc.LoginFederated(context.Background(), &domain.FederatedIdentity{
		Provider: "google", Subject: "sub-b", Email: "ivy@example.com", EmailVerified: true,
	})
	if !errors.Is(err, domain.ErrGoogleAccountLinked) {
		t.Fatalf("expected ErrGoogleAccountLinked, got %v", err)
	}

	res, err := svc.LoginFederated(context.Background(), &domain.FederatedIdentity{Provider: "google", Subject: "sub-a"})
	if err != nil || res.User.GoogleID == nil || *res.User.GoogleID != "sub-a" {
		t.Fatalf("original link must survive, got %v / %+v", err, res)
	}
}

func TestAuthService_DeleteAccount(t *testing.T) {
	repo := newStubUserRepo()
	repo.jobs = newStubJobRepo()
	svc, _ := newTestAuthService(repo)
	reg := register(t, svc, "hank@example.com", "pw")
	id := domain.IdentityOf(reg.User, domain.Claims{})

	jobs := NewJobService(repo.jobs, zerolog.Nop())
	if _, err := jobs.Create(context.Background(), id, ports.JobInput{Company: "Acme", Position: "Dev"}); err != nil {
		t.Fatalf("create job: %v", err)
	}

	if err := svc.DeleteAccount(context.Background(), id); err != nil {
		t.Fatalf("delete account: %v", err)
	}
	if repo.jobs.countFor(reg.User.ID) != 0 {
		t.Fatalf("expected owned jobs to be removed")
	}
	if _, err := svc.Authenticate(context.Background(), reg.Token); err != domain.ErrUserGone {
		t.Fatalf("expected ErrUserGone after deletion, got %v", err)
	}
	if _, err := svc.Me(context.Background(), id); err != domain.ErrUserGone {
		t.Fatalf("expected ErrUserGone from Me, got %v", err)
	}
}
