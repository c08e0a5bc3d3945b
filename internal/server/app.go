// Package server initializes and runs the main application server:
// configuration, logging, the encryption key, the SQLite database with
// schema migrations, services, and the HTTP API with graceful shutdown.
package server

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/avetrov/securenote/internal/keystore"
	"github.com/avetrov/securenote/internal/logging"
	"github.com/avetrov/securenote/internal/server/config"
	"github.com/avetrov/securenote/internal/server/httpapi"
	"github.com/avetrov/securenote/internal/server/migrations"
	"github.com/avetrov/securenote/internal/server/ratelimit"
	sessionsrepo "github.com/avetrov/securenote/internal/server/repositories/sessions"
	userdatarepo "github.com/avetrov/securenote/internal/server/repositories/userdata"
	usersrepo "github.com/avetrov/securenote/internal/server/repositories/users"
	"github.com/avetrov/securenote/internal/server/services"
	"github.com/pressly/goose/v3"

	_ "modernc.org/sqlite"
)

type App struct {
	config      *config.Config
	logger      logging.Logger
	db          *sql.DB
	authService *services.AuthService
	dataService *services.DataService
}

// DSN builds the SQLite connection string for the given database file.
// Foreign keys are enforced per connection and a busy timeout covers
// concurrent writers.
func DSN(path string) string {
	return fmt.Sprintf("file:%s?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)", path)
}

// RunMigrations applies the embedded goose migrations.
func RunMigrations(ctx context.Context, db *sql.DB) error {
	goose.SetBaseFS(migrations.Migrations)

	if err := goose.SetDialect("sqlite3"); err != nil {
		return fmt.Errorf("failed to set goose dialect: %w", err)
	}

	return goose.UpContext(ctx, db, ".")
}

func NewApp(ctx context.Context, cfg *config.Config) (*App, error) {

	slogger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	logger := logging.NewSlogLogger(slogger)

	key, err := keystore.LoadOrCreate(cfg.SecretKeyFile)
	if err != nil {
		return nil, fmt.Errorf("key init error: %w", err)
	}

	db, err := sql.Open("sqlite", DSN(cfg.DatabasePath))
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	if err := RunMigrations(ctx, db); err != nil {
		db.Close()
		return nil, fmt.Errorf("db migration error: %w", err)
	}

	limiter := ratelimit.New(cfg.MaxLoginAttempts, cfg.LoginAttemptWindow)

	as := services.NewAuthService(usersrepo.NewSQLiteRepository(db), sessionsrepo.NewSQLiteRepository(db), limiter, cfg)
	ds := services.NewDataService(userdatarepo.NewSQLiteRepository(db), key, cfg)

	return &App{config: cfg, logger: logger, db: db, authService: as, dataService: ds}, nil
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

	s := httpapi.NewServer(app.config.EndpointAddr, app.logger, app.authService, app.dataService)

	if err := s.Run(ctx); err != nil {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	}
}

func (app *App) Run(ctx context.Context) {

	ctx, cancelFunc := context.WithCancel(ctx)

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
		app.logger.Error(ctx, err.Error())
	}
}
