// Package server initializes and runs the authentication server.
// It configures the registry backend, validates the group parameters,
// handles graceful shutdown, and starts the HTTP endpoint.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/dmitrijs2005/zkpauth/internal/logging"
	"github.com/dmitrijs2005/zkpauth/internal/server/auth"
	"github.com/dmitrijs2005/zkpauth/internal/server/config"
	"github.com/dmitrijs2005/zkpauth/internal/server/httpapi"
	"github.com/dmitrijs2005/zkpauth/internal/server/registry"
	"github.com/dmitrijs2005/zkpauth/internal/zkp"
)

type App struct {
	config  *config.Config
	logger  logging.Logger
	store   registry.Store
	service *auth.Service
}

func NewApp(ctx context.Context, c *config.Config) (*App, error) {

	slogger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	logger := logging.NewSlogLogger(slogger)

	params := zkp.DefaultParams()
	if c.GroupParamsFile != "" {
		var err error
		params, err = zkp.ParamsFromFile(c.GroupParamsFile)
		if err != nil {
			return nil, fmt.Errorf("loading group parameters: %w", err)
		}
	}

	// An invalid group is fatal: the server must not start over parameters
	// it cannot prove anything about.
	engine, err := zkp.New(params)
	if err != nil {
		return nil, fmt.Errorf("initializing proof engine: %w", err)
	}

	var store registry.Store
	if c.DatabaseDSN != "" {
		store, err = registry.NewPostgresStore(ctx, c.DatabaseDSN)
		if err != nil {
			return nil, fmt.Errorf("db init error: %w", err)
		}
	} else {
		store = registry.NewMemoryStore()
	}

	service := auth.NewService(store, engine, auth.Config{
		SecretKey:            []byte(c.SecretKey),
		SessionTokenValidity: c.SessionTokenValidity,
		MinChallengeInterval: c.MinChallengeInterval,
		MaxUsernameLength:    c.MaxUsernameLength,
	})

	return &App{config: c, logger: logger, store: store, service: service}, nil
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

	handler := httpapi.NewHandler(app.service, app.logger)
	srv := &http.Server{
		Addr:    app.config.EndpointAddrHTTP,
		Handler: handler.Mux(),
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			app.logger.Error(shutdownCtx, "http server shutdown", "error", err)
		}
	}()

	app.logger.Info(ctx, "starting http server", "addr", app.config.EndpointAddrHTTP)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	}
}

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

	if err := app.store.Close(); err != nil {
		app.logger.Error(ctx, "closing registry", "error", err)
	}
}
