// Package server wires configuration, storage, the completion provider and
// the HTTP API together and runs them until the process is signalled.
package server

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/sarkie/sarkie-backend/internal/filex"
	"github.com/sarkie/sarkie-backend/internal/logging"
	"github.com/sarkie/sarkie-backend/internal/server/completion"
	"github.com/sarkie/sarkie-backend/internal/server/config"
	"github.com/sarkie/sarkie-backend/internal/server/httpapi"
	"github.com/sarkie/sarkie-backend/internal/server/mailer"
	"github.com/sarkie/sarkie-backend/internal/server/metrics"
	"github.com/sarkie/sarkie-backend/internal/server/repositories/repomanager"
	"github.com/sarkie/sarkie-backend/internal/server/services"
)

var (
	openDB               = repomanager.Open
	newRepositoryManager = repomanager.NewPostgresRepositoryManager
	newMailer            = mailer.New
	ginMode              = gin.ReleaseMode
)

type App struct {
	config *config.Config
	logger logging.Logger
	db     *sql.DB
	http   *httpapi.HTTPServer
}

func NewApp(ctx context.Context, cfg *config.Config) (*App, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config error: %w", err)
	}

	logger := logging.New(cfg.LogLevel, cfg.LogFormat)

	if cfg.StaticDir != "" {
		if err := filex.CheckStaticDir(cfg.StaticDir); err != nil {
			return nil, fmt.Errorf("static dir error: %w", err)
		}
	}
	gin.SetMode(ginMode)

	db, err := openDB(ctx, cfg.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	rm := newRepositoryManager()
	if err := rm.RunMigrations(ctx, db); err != nil {
		db.Close()
		return nil, err
	}

	sender, err := newMailer(ctx, cfg, logger.With("module", "mailer"))
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("mailer init error: %w", err)
	}

	m := metrics.New()

	provider := completion.NewRetryingProvider(
		completion.NewOpenAIProvider(completion.OpenAIConfig{
			APIKey:  cfg.OpenAIAPIKey,
			BaseURL: cfg.OpenAIBaseURL,
			Model:   cfg.OpenAIModel,
		}),
		completion.RetryPolicy{
			MaxAttempts:    cfg.CompletionMaxAttempts,
			AttemptTimeout: cfg.CompletionTimeout,
			InitialBackoff: cfg.CompletionInitialBackoff,
		},
		m,
		logger.With("module", "completion"),
	)

	svcLogger := logger.With("module", "services")
	svc := httpapi.Services{
		Auth:          services.NewAuthService(db, rm, sender, cfg, svcLogger),
		Supplements:   services.NewSupplementService(db, rm, svcLogger),
		Conversations: services.NewConversationService(db, rm, cfg, svcLogger),
		Memories:      services.NewMemoryService(db, rm, svcLogger),
		Chat:          services.NewChatService(db, rm, provider, cfg, svcLogger),
	}

	return &App{
		config: cfg,
		logger: logger,
		db:     db,
		http:   httpapi.NewHTTPServer(cfg, logger, svc, m),
	}, nil
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	// Channel to catch OS signals.
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

func (app *App) startHTTPServer(ctx context.Context, cancelFunc context.CancelFunc) {
	if err := app.http.Run(ctx); err != nil {
		app.logger.Error(ctx, "HTTP server failed", "error", err)
		cancelFunc()
	}
}

// Run blocks until ctx is cancelled, a termination signal arrives or the
// HTTP server fails.
func (app *App) Run(ctx context.Context) {

	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...")

	app.initSignalHandler(cancelFunc)

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		app.startHTTPServer(ctx, cancelFunc)
	}()

	wg.Wait()

	if err := app.db.Close(); err != nil {
		app.logger.Error(ctx, "db close error", "error", err)
	}
	app.logger.Info(ctx, "App stopped")
}
