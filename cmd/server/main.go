package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/joho/godotenv"
	"gorm.io/gorm"

	"barkeep/internal/config"
	"barkeep/internal/db"
	"barkeep/internal/db/mock"
	"barkeep/internal/handlers"
	applog "barkeep/internal/log"
	"barkeep/internal/server"
)

// serverLifecycle is the part of the HTTP server main cares about.
type serverLifecycle interface {
	Start() error
	Stop() error
}

// Seams for the run loop so startup failure paths stay testable.
var (
	loadConfigFunc      = config.Load
	setLogLevelFunc     = applog.SetLevel
	newMockDatabaseFunc = mock.New
	configureDatabase   = db.Configure
	newServerFunc       = func(cfg server.Config) (serverLifecycle, error) {
		return server.New(cfg)
	}
	subscribeShutdownSig = func() (<-chan os.Signal, func()) {
		ch := make(chan os.Signal, 1)
		signal.Notify(ch, syscall.SIGTERM, syscall.SIGINT)
		return ch, func() { signal.Stop(ch) }
	}
)

func main() {
	ctx := context.Background()
	if err := godotenv.Load(); err != nil {
		applog.Debug(ctx, "no .env file loaded", "error", err)
	}
	os.Exit(run(ctx))
}

func run(ctx context.Context) int {
	cfg, err := loadConfigFunc()
	if err != nil {
		applog.Error(ctx, "failed to load configuration", "error", err)
		return 1
	}

	if err := setLogLevelFunc(cfg.Logging.Level); err != nil {
		applog.Error(ctx, "invalid log level", "level", cfg.Logging.Level, "error", err)
		return 1
	}

	var database *gorm.DB
	if cfg.Database.UseMock {
		applog.Info(ctx, "using in-memory mock database")
		database, err = newMockDatabaseFunc(ctx)
	} else {
		database, err = configureDatabase(cfg.Database)
	}
	if err != nil {
		applog.Error(ctx, "failed to configure database", "error", err)
		return 1
	}

	if email := strings.TrimSpace(os.Getenv("ADMIN_EMAIL")); email != "" {
		err := handlers.EnsureBartender(ctx, database,
			email,
			os.Getenv("ADMIN_NAME"),
			os.Getenv("ADMIN_PASSWORD"),
		)
		if err != nil {
			applog.Error(ctx, "failed to provision bartender account", "error", err)
			return 1
		}
	}

	srv, err := newServerFunc(server.Config{
		Addr:           cfg.Server.Addr,
		Database:       database,
		AllowedOrigins: cfg.CORS.AllowedOrigins,
		CatalogSource:  cfg.Catalog.Source,
		UploadsDir:     cfg.Uploads.Dir,
		UploadMaxBytes: cfg.Uploads.MaxBytes,
		Session: server.SessionConfig{
			Lifetime:     cfg.Auth.Session.Lifetime,
			CookieName:   cfg.Auth.Session.CookieName,
			CookieDomain: cfg.Auth.Session.CookieDomain,
			CookieSecure: cfg.Auth.Session.CookieSecure,
		},
	})
	if err != nil {
		applog.Error(ctx, "failed to build server", "error", err)
		return 1
	}

	startErr := make(chan error, 1)
	go func() {
		applog.Info(ctx, "starting http server", "addr", cfg.Server.Addr)
		startErr <- srv.Start()
	}()

	shutdown, cancel := subscribeShutdownSig()
	defer cancel()

	select {
	case sig := <-shutdown:
		applog.Info(ctx, "shutdown signal received", "signal", sig.String())
		if err := srv.Stop(); err != nil {
			applog.Error(ctx, "graceful shutdown failed", "error", err)
			return 1
		}
	case err := <-startErr:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			applog.Error(ctx, "server encountered an error", "error", err)
			return 1
		}
	}

	applog.Info(ctx, "http server stopped")
	return 0
}
