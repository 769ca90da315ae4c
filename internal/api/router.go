package api

import (
	"net/http"
	"time"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"
	"golang.org/x/time/rate"

	"github.com/jobpilot/jobpilot-api/internal/api/handler"
	"github.com/jobpilot/jobpilot-api/internal/api/middleware"
	"github.com/jobpilot/jobpilot-api/internal/core/ports"
)

// Deps carries everything NewRouter wires into the HTTP layer.
type Deps struct {
	Log zerolog.Logger

	Auth    ports.AuthService
	Jobs    ports.JobService
	Profile ports.ProfileService
	Admin   ports.AdminService

	// OAuth and OAuthStates are nil when Google sign-in is disabled.
	OAuth       ports.OAuthProvider
	OAuthStates ports.OAuthStateStore

	Recorder     ports.EventRecorder
	HealthChecks map[string]handler.HealthCheck

	FrontendURL     string
	RequestTimeout  time.Duration
	LoginRatePerMin int

	// Registry defaults to the global Prometheus registry.
	Registry *prometheus.Registry
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(d Deps) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(d.Log, d.Recorder)

	var (
		registerer prometheus.Registerer = prometheus.DefaultRegisterer
		gatherer   prometheus.Gatherer   = prometheus.DefaultGatherer
	)
	if d.Registry != nil {
		registerer, gatherer = d.Registry, d.Registry
	}

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(middleware.RequestLogger(d.Log))
	e.Use(echomiddleware.CORSWithConfig(echomiddleware.CORSConfig{
		AllowOrigins: []string{d.FrontendURL},
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete},
		AllowHeaders: []string{echo.HeaderAuthorization, echo.HeaderContentType},
	}))
	e.Use(echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
		Namespace:  "jobpilot",
		Subsystem:  "http",
		Registerer: registerer,
		Skipper: func(c echo.Context) bool {
			return c.Path() == "/metrics"
		},
	}))
	if d.RequestTimeout > 0 {
		e.Use(echomiddleware.ContextTimeoutWithConfig(echomiddleware.ContextTimeoutConfig{
			Timeout: d.RequestTimeout,
		}))
	}

	auth := middleware.Auth(d.Auth)

	// --- Auth routes ---
	authHandler := handler.NewAuthHandler(d.Auth, d.Log)
	g := e.Group("/auth")
	g.POST("/register", authHandler.Register)
	g.POST("/login", authHandler.Login, loginLimiter(d.LoginRatePerMin))
	g.GET("/me", authHandler.Me, auth)
	g.DELETE("/me", authHandler.DeleteMe, auth)

	if d.OAuth != nil && d.OAuthStates != nil {
		oauthHandler := handler.NewOAuthHandler(d.Auth, d.OAuth, d.OAuthStates, d.FrontendURL, d.Log)
		g.GET("/google", oauthHandler.Start)
		g.GET("/google/callback", oauthHandler.Callback)
	}

	// --- Job applications ---
	jobHandler := handler.NewJobHandler(d.Jobs)
	jobs := e.Group("/jobs", auth)
	jobs.GET("", jobHandler.List)
	jobs.POST("", jobHandler.Create)
	jobs.GET("/stats", jobHandler.Stats)
	jobs.GET("/:id", jobHandler.Get)
	jobs.PUT("/:id", jobHandler.Update)
	jobs.PATCH("/:id/status", jobHandler.UpdateStatus)
	jobs.DELETE("/:id", jobHandler.Delete)

	// --- Profile ---
	profileHandler := handler.NewProfileHandler(d.Profile)
	profile := e.Group("/profile", auth)
	profile.GET("", profileHandler.Get)
	profile.PUT("", profileHandler.Update)
	profile.POST("/experiences", profileHandler.AddExperience)
	profile.PUT("/experiences/:id", profileHandler.UpdateExperience)
	profile.DELETE("/experiences/:id", profileHandler.DeleteExperience)
	profile.POST("/skills", profileHandler.AddSkill)
	profile.DELETE("/skills/:id", profileHandler.DeleteSkill)

	// --- Admin (role gated) ---
	adminHandler := handler.NewAdminHandler(d.Admin)
	admin := e.Group("/admin", auth, middleware.RequireAdmin())
	admin.GET("/users", adminHandler.ListUsers)
	admin.PATCH("/users/:id/admin", adminHandler.SetAdmin)
	admin.DELETE("/users/:id", adminHandler.DeleteUser)
	admin.POST("/users/:id/impersonate", adminHandler.Impersonate)
	admin.GET("/logs", adminHandler.ListLogs)

	// --- Health probes and tooling (no auth required) ---
	healthHandler := handler.NewHealthHandler(d.HealthChecks)
	e.GET("/health", healthHandler.Liveness)
	e.GET("/health/ready", healthHandler.Readiness)
	e.GET("/metrics", echoprometheus.NewHandlerWithConfig(echoprometheus.HandlerConfig{Gatherer: gatherer}))
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	return e
}

// loginLimiter throttles login attempts per client IP.
func loginLimiter(perMin int) echo.MiddlewareFunc {
	if perMin <= 0 {
		perMin = 10
	}
	store := echomiddleware.NewRateLimiterMemoryStoreWithConfig(echomiddleware.RateLimiterMemoryStoreConfig{
		Rate:      rate.Limit(float64(perMin) / 60),
		Burst:     perMin,
		ExpiresIn: 3 * time.Minute,
	})
	return echomiddleware.RateLimiterWithConfig(echomiddleware.RateLimiterConfig{
		Store: store,
		IdentifierExtractor: func(c echo.Context) (string, error) {
			return c.RealIP(), nil
		},
		DenyHandler: func(c echo.Context, identifier string, err error) error {
			return echo.NewHTTPError(http.StatusTooManyRequests, "too many login attempts, try again later")
		},
	})
}
