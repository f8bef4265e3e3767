// Package server initializes and runs the account server: it opens the
// database, runs migrations, wires services and routes, and handles
// graceful shutdown.
package server

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	nethttp "net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/parleychat/authcore/internal/logging"
	"github.com/parleychat/authcore/internal/server/config"
	"github.com/parleychat/authcore/internal/server/events"
	"github.com/parleychat/authcore/internal/server/http"
	"github.com/parleychat/authcore/internal/server/http/handler"
	"github.com/parleychat/authcore/internal/server/http/middleware"
	"github.com/parleychat/authcore/internal/server/repositories/repomanager"
	"github.com/parleychat/authcore/internal/server/services"
	"github.com/parleychat/authcore/internal/snowflake"
)

const shutdownTimeout = 10 * time.Second

type App struct {
	config *config.Config
	logger logging.Logger
	db     *sql.DB
	server *nethttp.Server
}

func NewApp(cfg *config.Config) (*App, error) {

	logger := logging.NewSlogLogger(slog.New(slog.NewJSONHandler(os.Stdout, nil)))

	db, err := sql.Open("pgx", cfg.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	rm := repomanager.NewPostgresRepositoryManager()
	if err := rm.RunMigrations(context.Background(), db); err != nil {
		return nil, fmt.Errorf("migration error: %w", err)
	}

	// Worker id 0; deployments running several instances should derive it
	// from the environment so forged ids never collide.
	forger := snowflake.NewForger(0)
	dispatcher := events.NewLogDispatcher(logger)

	accounts := services.NewAccountService(db, rm, cfg, forger, dispatcher)
	gateway := services.NewGatewayService(db, rm, cfg)
	notes := services.NewNoteService(db, rm)
	assets := services.NewAssetService(cfg)

	router := http.NewRouter(
		handler.NewAccountHandler(accounts, assets),
		handler.NewGatewayHandler(accounts, gateway),
		handler.NewNoteHandler(notes),
		middleware.NewAuth(accounts),
	)

	srv := &nethttp.Server{
		Addr:    cfg.EndpointAddrHTTP,
		Handler: router,
	}

	return &App{config: cfg, logger: logger, db: db, server: srv}, nil
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

func (app *App) Run(ctx context.Context) {

	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "starting server", "addr", app.config.EndpointAddrHTTP)

	app.initSignalHandler(cancelFunc)

	errCh := make(chan error, 1)
	go func() {
		errCh <- app.server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, nethttp.ErrServerClosed) {
			app.logger.Error(ctx, "server error", "error", err.Error())
		}
	case <-ctx.Done():
		app.logger.Info(ctx, "shutting down")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		if err := app.server.Shutdown(shutdownCtx); err != nil {
			app.logger.Error(ctx, "shutdown error", "error", err.Error())
		}
	}

	if err := app.db.Close(); err != nil {
		app.logger.Error(ctx, "db close error", "error", err.Error())
	}
}
