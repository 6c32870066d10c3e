// Package server wires the configuration, the collaborator client and the
// web handlers together and runs the HTTP server until a shutdown signal.
package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dmitrijs2005/recipebox/internal/backend"
	"github.com/dmitrijs2005/recipebox/internal/backend/connect"
	"github.com/dmitrijs2005/recipebox/internal/common"
	"github.com/dmitrijs2005/recipebox/internal/logging"
	"github.com/dmitrijs2005/recipebox/internal/recipes"
	"github.com/dmitrijs2005/recipebox/internal/server/config"
	"github.com/dmitrijs2005/recipebox/internal/session"
	"github.com/dmitrijs2005/recipebox/internal/web"
)

const shutdownTimeout = 15 * time.Second

type App struct {
	config  *config.Config
	logger  logging.Logger
	client  *backend.Client
	handler http.Handler
}

// NewApp connects to the collaborator and builds the router. A
// configuration failure is not returned: the app then serves the
// configuration banner on every route. Other startup failures are.
func NewApp(ctx context.Context, cfg *config.Config, cfgErr error, logger logging.Logger) (*App, error) {
	app := &App{config: cfg, logger: logger}

	if cfgErr == nil {
		app.client, cfgErr = connect.Open(ctx, cfg.BackendSettings(), logger)
	}
	if cfgErr != nil {
		if !errors.Is(cfgErr, common.ErrConfiguration) {
			cfgErr = fmt.Errorf("%w: %w", common.ErrConfiguration, cfgErr)
		}
		logger.Error(ctx, "configuration error", "error", cfgErr)
		h, err := web.NewConfigErrorHandler(cfgErr, logger)
		if err != nil {
			return nil, err
		}
		app.handler = h
		return app, nil
	}

	guard := session.NewGuard(app.client.Auth, logger)
	rs := recipes.NewService(app.client.Recipes, logger)
	srv, err := web.NewServer(app.client.Auth, guard, rs, logger, web.Options{
		CookieSecure: cfg.CookieSecure,
		SaveRedirect: cfg.SaveRedirect,
	})
	if err != nil {
		_ = app.client.Close()
		return nil, err
	}
	app.handler = srv.Routes()
	return app, nil
}

func (app *App) Handler() http.Handler { return app.handler }

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

// Run serves until ctx is cancelled or a signal arrives, then drains
// in-flight requests and closes the collaborator client.
func (app *App) Run(ctx context.Context) error {
	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.initSignalHandler(cancelFunc)

	ln, err := net.Listen("tcp", app.config.HTTPAddr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", app.config.HTTPAddr, err)
	}
	return app.serve(ctx, ln)
}

func (app *App) serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:      app.handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		app.logger.Info(ctx, "listening", "addr", ln.Addr().String())
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	var serveErr error
	select {
	case <-ctx.Done():
	case serveErr = <-errCh:
	}

	app.logger.Info(context.Background(), "shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		app.logger.Error(shutdownCtx, "http server shutdown", "error", err)
	}

	if app.client != nil {
		if err := app.client.Close(); err != nil {
			app.logger.Error(shutdownCtx, "backend close", "error", err)
		}
	}
	return serveErr
}
