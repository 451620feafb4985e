// Package server provides the application object: a chi router with explicit
// middleware and route registration plus start/stop hooks run around the
// HTTP listener's lifetime.
package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// Hook is a lifecycle callback. Start hooks run before the listener accepts
// its first request, stop hooks after the last request has drained.
type Hook func(ctx context.Context) error

// Info describes the application.
type Info struct {
	Title       string
	Description string
	Version     string
}

// App is the web application object.
type App struct {
	Info

	router chi.Router
	log    *zap.Logger

	startHooks []Hook
	stopHooks  []Hook

	shutdownTimeout time.Duration
}

// Option configures an App.
type Option func(*App)

// WithShutdownTimeout bounds how long Run waits for in-flight requests.
func WithShutdownTimeout(d time.Duration) Option {
	return func(a *App) { a.shutdownTimeout = d }
}

func New(info Info, log *zap.Logger, opts ...Option) *App {
	a := &App{
		Info:            info,
		router:          chi.NewRouter(),
		log:             log,
		shutdownTimeout: 30 * time.Second,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Use appends middleware to the chain. All middleware must be registered
// before the first route.
func (a *App) Use(mw ...func(http.Handler) http.Handler) {
	a.router.Use(mw...)
}

// Handle registers handler for method and path.
func (a *App) Handle(method, path string, handler http.HandlerFunc) {
	a.router.Method(method, path, handler)
}

// Group registers a sub-router under prefix with its own middleware.
func (a *App) Group(prefix string, fn func(r chi.Router)) {
	a.router.Route(prefix, fn)
}

// NotFound sets the handler for unmatched paths.
func (a *App) NotFound(h http.HandlerFunc) { a.router.NotFound(h) }

// MethodNotAllowed sets the handler for a matched path with the wrong method.
func (a *App) MethodNotAllowed(h http.HandlerFunc) { a.router.MethodNotAllowed(h) }

// OnStart registers a start hook. Hooks run in registration order.
func (a *App) OnStart(h Hook) { a.startHooks = append(a.startHooks, h) }

// OnStop registers a stop hook. Hooks run in registration order.
func (a *App) OnStop(h Hook) { a.stopHooks = append(a.stopHooks, h) }

// Handler returns the composed router.
func (a *App) Handler() http.Handler { return a.router }

// Start runs the start hooks, stopping at the first error.
func (a *App) Start(ctx context.Context) error {
	for _, h := range a.startHooks {
		if err := h(ctx); err != nil {
			return fmt.Errorf("start hook: %w", err)
		}
	}
	return nil
}

// Stop runs every stop hook and joins their errors.
func (a *App) Stop(ctx context.Context) error {
	var errs []error
	for _, h := range a.stopHooks {
		if err := h(ctx); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Run listens on addr and serves until ctx is cancelled.
func (a *App) Run(ctx context.Context, addr string) error {
	lis, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", addr, err)
	}
	return a.Serve(ctx, lis)
}

// Serve is Run on an existing listener. The listener is closed on return.
func (a *App) Serve(ctx context.Context, lis net.Listener) error {
	if err := a.Start(ctx); err != nil {
		lis.Close()
		return err
	}

	srv := &http.Server{
		Handler:      a.router,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		a.log.Info("HTTP server starting", zap.String("addr", lis.Addr().String()))
		errCh <- srv.Serve(lis)
	}()

	var serveErr error
	select {
	case <-ctx.Done():
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			serveErr = fmt.Errorf("serve: %w", err)
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		a.log.Warn("HTTP server shutdown", zap.Error(err))
	}

	if err := a.Stop(shutdownCtx); err != nil {
		a.log.Error("stop hooks failed", zap.Error(err))
		if serveErr == nil {
			serveErr = err
		}
	}
	a.log.Info("HTTP server stopped")
	return serveErr
}
