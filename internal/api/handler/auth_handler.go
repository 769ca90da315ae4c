package handler

import (
	"crypto/subtle"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/jobpilot/jobpilot-api/internal/core/domain"
	"github.com/jobpilot/jobpilot-api/internal/core/ports"
)

const (
	oauthStateCookie = "oauth_state"
	oauthStateTTL    = 10 * time.Minute
)

type AuthHandler struct {
	authService ports.AuthService
	log         zerolog.Logger
}

func NewAuthHandler(authService ports.AuthService, log zerolog.Logger) *AuthHandler {
	return &AuthHandler{authService: authService, log: log}
}

type registerRequest struct {
	FirstName string `json:"first_name" validate:"required,max=100"`
	LastName  string `json:"last_name" validate:"required,max=100"`
	Email     string `json:"email" validate:"required,email,max=254"`
	Password  string `json:"password" validate:"required,min=8,max=72"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type authResponse struct {
	Token string            `json:"token"`
	User  domain.PublicUser `json:"user"`
}

type meResponse struct {
	domain.PublicUser
	ImpersonatorID *uuid.UUID `json:"impersonator_id,omitempty"`
}

// Register creates a new user account.
//
// @Summary      Register a new user
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      registerRequest  true  "User registration details"
// @Success      201   {object}  authResponse
// @Failure      400   {object}  errorBody
// @Failure      409   {object}  errorBody
// @Router       /auth/register [post]
func (h *AuthHandler) Register(c echo.Context) error {
	var req registerRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	res, err := h.authService.Register(c.Request().Context(), ports.RegisterInput{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
		Password:  req.Password,
	})
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, authResponse{Token: res.Token, User: res.User.Public()})
}

// Login authenticates a user and returns a bearer token.
//
// @Summary      Login
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      loginRequest  true  "Login credentials"
// @Success      200   {object}  authResponse
// @Failure      401   {object}  errorBody
// @Failure      429   {object}  errorBody
// @Router       /auth/login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return domain.NewValidationError("invalid payload")
	}

	res, err := h.authService.Login(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, authResponse{Token: res.Token, User: res.User.Public()})
}

// Me returns the authenticated user.
//
// @Summary      Current user
// @Tags         auth
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  meResponse
// @Failure      401  {object}  errorBody
// @Router       /auth/me [get]
func (h *AuthHandler) Me(c echo.Context) error {
	id, err := currentIdentity(c)
	if err != nil {
		return err
	}

	user, err := h.authService.Me(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, meResponse{PublicUser: user.Public(), ImpersonatorID: id.ImpersonatorID})
}

// DeleteMe removes the caller's account and everything they own.
//
// @Summary      Delete own account
// @Tags         auth
// @Security     BearerAuth
// @Success      204
// @Failure      401  {object}  errorBody
// @Router       /auth/me [delete]
func (h *AuthHandler) DeleteMe(c echo.Context) error {
	id, err := currentIdentity(c)
	if err != nil {
		return err
	}
	if id.ImpersonatorID != nil {
		return &domain.Error{Kind: domain.ErrForbidden, Msg: "cannot delete an account while impersonating"}
	}
	if err := h.authService.DeleteAccount(c.Request().Context(), id); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// OAuthHandler drives the Google sign-in redirect flow.
type OAuthHandler struct {
	authService ports.AuthService
	provider    ports.OAuthProvider
	states      ports.OAuthStateStore
	frontendURL string
	log         zerolog.Logger
}

func NewOAuthHandler(authService ports.AuthService, provider ports.OAuthProvider, states ports.OAuthStateStore, frontendURL string, log zerolog.Logger) *OAuthHandler {
	return &OAuthHandler{
		authService: authService,
		provider:    provider,
		states:      states,
		frontendURL: strings.TrimRight(frontendURL, "/"),
		log:         log,
	}
}

// Start redirects to the provider's consent screen.
//
// @Summary      Start Google sign-in
// @Tags         auth
// @Success      302
// @Router       /auth/google [get]
func (h *OAuthHandler) Start(c echo.Context) error {
	state := uuid.NewString()
	if err := h.states.Save(c.Request().Context(), state); err != nil {
		return err
	}
	c.SetCookie(h.stateCookie(c, state, int(oauthStateTTL/time.Second)))
	return c.Redirect(http.StatusFound, h.provider.AuthCodeURL(state))
}

// stateCookie binds the state to the browser that started the flow.
// A negative maxAge clears it.
func (h *OAuthHandler) stateCookie(c echo.Context, value string, maxAge int) *http.Cookie {
	return &http.Cookie{
		Name:     oauthStateCookie,
		Value:    value,
		Path:     "/auth/google",
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   c.Scheme() == "https",
		SameSite: http.SameSiteLaxMode,
	}
}

// Callback completes sign-in and hands the token to the frontend in the URL
// fragment.
//
// @Summary      Google sign-in callback
// @Tags         auth
// @Param        state  query  string  true  "Anti-forgery state"
// @Param        code   query  string  true  "Authorization code"
// @Success      302
// @Failure      400  {object}  errorBody
// @Failure      401  {object}  errorBody
// @Router       /auth/google/callback [get]
func (h *OAuthHandler) Callback(c echo.Context) error {
	ctx := c.Request().Context()
	state := c.QueryParam("state")

	cookie, err := c.Cookie(oauthStateCookie)
	c.SetCookie(h.stateCookie(c, "", -1))
	if err != nil || state == "" || subtle.ConstantTimeCompare([]byte(cookie.Value), []byte(state)) != 1 {
		return domain.ErrInvalidOAuthState
	}

	ok, err := h.states.Consume(ctx, state)
	if err != nil {
		return err
	}
	if !ok {
		return domain.ErrInvalidOAuthState
	}

	if reason := c.QueryParam("error"); reason != "" {
		h.log.Warn().Str("reason", reason).Msg("federated sign-in declined")
		return domain.ErrFederatedLogin
	}

	fi, err := h.provider.Exchange(ctx, c.QueryParam("code"))
	if err != nil {
		h.log.Warn().Err(err).Msg("federated code exchange failed")
		return domain.ErrFederatedLogin
	}

	res, err := h.authService.LoginFederated(ctx, fi)
	if err != nil {
		return err
	}

	target := fmt.Sprintf("%s/auth/callback#token=%s", h.frontendURL, url.QueryEscape(res.Token))
	return c.Redirect(http.StatusFound, target)
}
