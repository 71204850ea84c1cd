// Package server initializes and runs the application: configuration,
// structured logging, database and migrations, the cipher suite, the
// service layer and the HTTP API with graceful shutdown.
package server

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/dpavlenko/regvault/internal/cryptox"
	"github.com/dpavlenko/regvault/internal/logging"
	"github.com/dpavlenko/regvault/internal/server/config"
	"github.com/dpavlenko/regvault/internal/server/httpapi"
	"github.com/dpavlenko/regvault/internal/server/repositories/repomanager"
	"github.com/dpavlenko/regvault/internal/server/services"
)

const shutdownTimeout = 10 * time.Second

type App struct {
	config *config.Config
	logger logging.Logger
	db     *sql.DB
	router http.Handler
}

func NewApp(cfg *config.Config) (*App, error) {

	slogger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	logger := logging.NewSlogLogger(slogger)

	// Bad key material must stop the process before it serves traffic.
	cipher, err := cryptox.NewAEADCipher(cfg.SymmetricMasterKey)
	if err != nil {
		return nil, fmt.Errorf("symmetric master key: %w", err)
	}

	deterministic, err := cryptox.NewDeterministicCipher(cfg.DeterministicEncryptionKey, cfg.DeterministicIVKey)
	if err != nil {
		return nil, fmt.Errorf("deterministic keys: %w", err)
	}

	db, err := sql.Open("pgx", cfg.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	rm := repomanager.NewPostgresRepositoryManager()
	if err := rm.RunMigrations(context.Background(), db); err != nil {
		return nil, fmt.Errorf("migration error: %w", err)
	}

	keyPairService := services.NewKeyPairService(db, rm, cipher, cfg, logger)
	userService := services.NewUserService(db, rm, cipher, cfg)
	companyService := services.NewCompanyService(db, rm, deterministic)
	documentService := services.NewDocumentService(db, rm, cipher, cfg)

	handler := httpapi.NewHandler(keyPairService, userService, companyService, documentService, logger)
	router := httpapi.NewRouter(handler, []byte(cfg.SecretKey))

	return &App{config: cfg, logger: logger, db: db, router: router}, nil
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

// Run serves the HTTP API until ctx is cancelled or a termination signal
// arrives, then drains in-flight requests within shutdownTimeout.
func (app *App) Run(ctx context.Context) error {

	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.initSignalHandler(cancelFunc)

	srv := &http.Server{
		Addr:    app.config.EndpointAddr,
		Handler: app.router,
	}

	errCh := make(chan error, 1)
	go func() {
		app.logger.Info(ctx, "starting http server", "addr", app.config.EndpointAddr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	app.logger.Info(ctx, "shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown error: %w", err)
	}

	if err := app.db.Close(); err != nil {
		return fmt.Errorf("db close error: %w", err)
	}

	return nil
}
