// Command api serves the JobPilot HTTP API.
//
// @title                       JobPilot API
// @version                     1.0
// @description                 Job application tracker backend.
// @BasePath                    /
// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	_ "github.com/jobpilot/jobpilot-api/docs"
	"github.com/jobpilot/jobpilot-api/internal/api"
	"github.com/jobpilot/jobpilot-api/internal/api/handler"
	"github.com/jobpilot/jobpilot-api/internal/core/service"
	"github.com/jobpilot/jobpilot-api/internal/infrastructure/config"
	"github.com/jobpilot/jobpilot-api/internal/infrastructure/db/postgres"
	redisstore "github.com/jobpilot/jobpilot-api/internal/infrastructure/db/redis"
	"github.com/jobpilot/jobpilot-api/internal/infrastructure/oauth"
	"github.com/jobpilot/jobpilot-api/internal/infrastructure/password"
	"github.com/jobpilot/jobpilot-api/internal/infrastructure/queue"
	"github.com/jobpilot/jobpilot-api/internal/infrastructure/token"
	"github.com/jobpilot/jobpilot-api/pkg/logger"
)

const shutdownTimeout = 10 * time.Second

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "jobpilot: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	cfg, err := config.Load(ctx)
	if err != nil {
		return err
	}

	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  cfg.IsDevelopment(),
		Service: "jobpilot-api",
		Env:     cfg.Env,
	})

	db, err := postgres.Connect(ctx, postgres.Config{URL: cfg.Database.URL, MaxOpenConns: cfg.Database.MaxOpenConns})
	if err != nil {
		return err
	}
	defer db.Close()

	if cfg.Database.Migrate {
		if err := postgres.Migrate(ctx, db); err != nil {
			return err
		}
		log.Info().Msg("database migrated")
	}

	users := postgres.NewUserRepository(db)
	jobs := postgres.NewJobRepository(db)
	profiles := postgres.NewProfileRepository(db)
	logs := postgres.NewLogRepository(db)

	tokens := token.NewJWT(cfg.JWTSecret)
	hasher := password.NewBcrypt(cfg.Auth.BcryptCost)

	dispatcher := queue.NewDispatcher(cfg.Audit.Workers, cfg.Audit.Buffer, logs, log)
	dispatcher.Start()

	deps := api.Deps{
		Log:             log,
		Auth:            service.NewAuthService(users, hasher, tokens, log),
		Jobs:            service.NewJobService(jobs, log),
		Profile:         service.NewProfileService(users, profiles, log),
		Admin:           service.NewAdminService(users, logs, tokens, log),
		Recorder:        dispatcher,
		FrontendURL:     cfg.FrontendURL,
		RequestTimeout:  cfg.RequestTimeout,
		LoginRatePerMin: cfg.Auth.LoginRatePerMin,
		HealthChecks: map[string]handler.HealthCheck{
			"postgres": db.PingContext,
		},
	}
	closeGoogle, err := wireGoogle(ctx, cfg, &deps)
	if err != nil {
		return err
	}
	defer closeGoogle()
	if deps.OAuth != nil {
		log.Info().Msg("google sign-in enabled")
	}

	e := api.NewRouter(deps)

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("port", cfg.Port).Msg("http server listening")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case <-ctx.Done():
		log.Info().Msg("received interruption signal, shutting down")
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("http server: %w", err)
		}
	}

	return shutdown(e, dispatcher, log)
}

func shutdown(srv *echo.Echo, recorder *queue.Dispatcher, log zerolog.Logger) error {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	var errs []error
	if err := srv.Shutdown(ctx); err != nil {
		errs = append(errs, fmt.Errorf("http shutdown: %w", err))
	}
	if err := recorder.Close(ctx); err != nil {
		errs = append(errs, fmt.Errorf("system log drain: %w", err))
	}
	if len(errs) > 0 {
		return errors.Join(errs...)
	}
	log.Info().Msg("shutdown complete")
	return nil
}

// wireGoogle enables Google sign-in when configured. Redis backs OAuth state
// only, so it is dialled and health-checked in that case alone.
func wireGoogle(ctx context.Context, cfg *config.Config, deps *api.Deps) (func() error, error) {
	if !cfg.Google.Enabled() {
		return func() error { return nil }, nil
	}

	rdb, err := redisstore.Connect(ctx, redisstore.Config{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err != nil {
		return nil, err
	}

	deps.HealthChecks["redis"] = func(ctx context.Context) error { return rdb.Ping(ctx).Err() }
	deps.OAuth = oauth.NewGoogle(oauth.GoogleConfig{
		ClientID:     cfg.Google.ClientID,
		ClientSecret: cfg.Google.ClientSecret,
		RedirectURL:  cfg.Google.RedirectURL,
	})
	deps.OAuthStates = redisstore.NewStateStore(rdb)
	return rdb.Close, nil
}
