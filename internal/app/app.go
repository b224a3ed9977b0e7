package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/codemasterhq/codemaster/internal/ai"
	httpapi "github.com/codemasterhq/codemaster/internal/http"
	"github.com/codemasterhq/codemaster/internal/judge"
	"github.com/codemasterhq/codemaster/internal/media"
	"github.com/codemasterhq/codemaster/internal/revocation"
	"github.com/codemasterhq/codemaster/internal/service"
	"github.com/codemasterhq/codemaster/internal/store"
	mongodriver "github.com/codemasterhq/codemaster/internal/store/drivers/mongo"
	"github.com/codemasterhq/codemaster/pkg/jwtx"
	"github.com/codemasterhq/codemaster/pkg/slogx"
)

// BuildVersion should be set at build time via ldflags.
const BuildVersion = "v0.1.0"

// Application encapsulates the platform backend with all its dependencies.
type Application struct {
	cfg    Config
	logger *slog.Logger

	db       store.Store
	registry revocation.Registry

	tokenService      *service.TokenService
	userService       *service.UserService
	problemService    *service.ProblemService
	submissionService *service.SubmissionService
	doubtService      *service.DoubtService
	videoService      *service.VideoService

	server *http.Server
	router *httpapi.Router
}

// New creates an Application with all dependencies initialized.
func New(cfg Config) (*Application, error) {
	app := &Application{
		cfg: cfg,
		logger: slogx.New(slogx.Config{
			Service: "codemaster",
			Version: BuildVersion,
			Env:     cfg.Env,
			Level:   cfg.LogLevel,
			Format:  cfg.LogFormat,
		}),
	}

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	db, err := mongodriver.NewStore(ctx, cfg.MongoURI, cfg.MongoDB)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}
	app.db = db

	registry, err := revocation.NewRedisRegistry(cfg.RedisURL, app.logger)
	if err != nil {
		_ = db.Close(context.Background())
		return nil, fmt.Errorf("failed to initialize revocation registry: %w", err)
	}
	app.registry = registry

	if err := app.initServices(ctx); err != nil {
		_ = db.Close(context.Background())
		_ = registry.Close()
		return nil, err
	}
	app.initHTTP()

	return app, nil
}

// Run starts the application and blocks until shutdown is requested.
func (app *Application) Run() error {
	app.logger.Info("codemaster starting", "port", app.cfg.Port, "version", BuildVersion)

	serverErrors := make(chan error, 1)
	go func() {
		serverErrors <- app.server.ListenAndServe()
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		if err != nil && err != http.ErrServerClosed {
			return fmt.Errorf("server failed: %w", err)
		}
	case sig := <-shutdown:
		app.logger.Info("shutdown signal received", "signal", sig)

		if err := app.Shutdown(); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
	}

	return nil
}

// Shutdown gracefully shuts down the application.
func (app *Application) Shutdown() error {
	app.logger.Info("shutting down codemaster...")

	ctx, cancel := context.WithTimeout(context.Background(), app.cfg.ShutdownGracePeriod)
	defer cancel()

	if err := app.server.Shutdown(ctx); err != nil {
		app.logger.Error("graceful server shutdown failed", "error", err)
		if err := app.server.Close(); err != nil {
			app.logger.Error("error closing server", "error", err)
		}
	}

	if err := app.registry.Close(); err != nil {
		app.logger.Error("error closing revocation registry", "error", err)
	}

	if err := app.db.Close(ctx); err != nil {
		app.logger.Error("error closing database", "error", err)
		return err
	}

	app.logger.Info("codemaster stopped")
	return nil
}

// initServices initializes all business logic services.
func (app *Application) initServices(ctx context.Context) error {
	signer, err := jwtx.NewSignerHS256([]byte(app.cfg.JWTSecret))
	if err != nil {
		return fmt.Errorf("failed to initialize token signer: %w", err)
	}

	app.tokenService = service.NewTokenService(signer, app.cfg.Issuer, app.cfg.SessionTTL)
	app.userService = service.NewUserService(app.db, app.registry, app.tokenService)

	runner := judge.NewClient(app.cfg.JudgeURL, app.cfg.JudgeKey)
	app.problemService = service.NewProblemService(app.db, runner)
	app.submissionService = service.NewSubmissionService(app.db, runner)

	if app.cfg.AIURL != "" {
		model := ai.NewClient(app.cfg.AIURL, app.cfg.AIKey, app.cfg.AIModel)
		app.doubtService = service.NewDoubtService(app.db, model)
	} else {
		app.logger.Warn("AI_URL not set, doubt assistant disabled")
	}

	if app.cfg.MediaAccessKey != "" {
		mediaStore, err := media.NewS3Store(ctx, media.Config{
			Region:        app.cfg.MediaRegion,
			Endpoint:      app.cfg.MediaEndpoint,
			Bucket:        app.cfg.MediaBucket,
			AccessKey:     app.cfg.MediaAccessKey,
			SecretKey:     app.cfg.MediaSecretKey,
			PublicBaseURL: app.cfg.MediaPublicURL,
		})
		if err != nil {
			return fmt.Errorf("failed to initialize media store: %w", err)
		}
		app.videoService = service.NewVideoService(app.db, mediaStore)
	} else {
		app.logger.Warn("MEDIA_ACCESS_KEY not set, editorial uploads disabled")
	}

	return nil
}

// initHTTP initializes the HTTP router and server.
func (app *Application) initHTTP() {
	verifier := jwtx.NewVerifierHS256([]byte(app.cfg.JWTSecret), app.cfg.Issuer)

	router := httpapi.NewRouter(httpapi.RouterConfig{
		Verifier:       verifier,
		Registry:       app.registry,
		Store:          app.db,
		BuildVersion:   BuildVersion,
		AllowedOrigins: app.cfg.AllowedOrigins,
		CookieMaxAge:   int(app.cfg.SessionTTL.Seconds()),
		SecureCookies:  app.cfg.SecureCookies,
		Logger:         app.logger,
	})

	router.UserService = app.userService
	router.ProblemService = app.problemService
	router.SubmissionService = app.submissionService
	router.DoubtService = app.doubtService
	router.VideoService = app.videoService
	router.ApplyRoutes()

	app.router = router

	app.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", app.cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 3 * time.Second,
	}
}
