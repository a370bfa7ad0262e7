// Package server initializes and runs the application server. It opens the
// database, applies migrations, wires the services behind the HTTP API, and
// handles graceful shutdown.
package server

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/martinsb/pantrylist/internal/logging"
	"github.com/martinsb/pantrylist/internal/server/auth"
	"github.com/martinsb/pantrylist/internal/server/config"
	"github.com/martinsb/pantrylist/internal/server/httpapi"
	"github.com/martinsb/pantrylist/internal/server/identity"
	"github.com/martinsb/pantrylist/internal/server/repositories/repomanager"
	"github.com/martinsb/pantrylist/internal/server/services"
)

const shutdownTimeout = 10 * time.Second

type App struct {
	config *config.Config
	logger logging.Logger
	db     *sql.DB
	api    *httpapi.Server
}

func NewApp(ctx context.Context, cfg *config.Config) (*App, error) {

	logger := logging.NewSlogLogger(slog.New(slog.NewJSONHandler(os.Stdout, nil)))

	db, err := sql.Open("pgx", cfg.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db open error: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("db ping error: %w", err)
	}

	rm := repomanager.NewPostgresRepositoryManager()
	if err := rm.RunMigrations(ctx, db); err != nil {
		return nil, fmt.Errorf("migration error: %w", err)
	}

	codec := auth.NewTokenCodec(cfg.SigningSecret, cfg.Issuer, cfg.Audience,
		cfg.AccessTokenValidityDuration, nil)
	ident := identity.NewService(rm.Users(db), cfg.BcryptCost, nil)

	sessions := services.NewSessionService(db, rm, ident, codec, cfg, nil, logger)
	households := services.NewHouseholdService(db, rm, ident, logger)
	lists := services.NewShoppingListService(db, rm, ident, nil, logger)
	tags := services.NewStoreTagService(db, rm, ident, nil, logger)

	api := httpapi.NewServer(sessions, households, lists, tags, codec, logger)

	return &App{config: cfg, logger: logger, db: db, api: api}, nil
}

// Run serves the HTTP API until the context is cancelled or a termination
// signal arrives, then shuts down gracefully.
func (app *App) Run(ctx context.Context) error {

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)
	defer stop()

	srv := &http.Server{
		Addr:    app.config.EndpointAddrHTTP,
		Handler: app.api.Handler(),
	}

	errCh := make(chan error, 1)
	go func() {
		app.logger.Info(ctx, "starting http server", "addr", app.config.EndpointAddrHTTP)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
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
	return app.db.Close()
}
