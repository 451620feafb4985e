package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/lzjever/microsvc/internal/api"
	"github.com/lzjever/microsvc/internal/auth"
	"github.com/lzjever/microsvc/internal/config"
	"github.com/lzjever/microsvc/internal/grpcserver"
	"github.com/lzjever/microsvc/internal/observability"
	"github.com/lzjever/microsvc/internal/server"
	"github.com/lzjever/microsvc/internal/store"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP service (default command)",
	Args:  cobra.NoArgs,
	RunE:  runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	settings, err := config.Load(envFile)
	if err != nil {
		return err
	}

	log, err := observability.NewLogger(settings.LogLevel(), settings.LogFile)
	if err != nil {
		return fmt.Errorf("logger: %w", err)
	}
	defer log.Sync()

	// Replace global logger
	zap.ReplaceGlobals(log)

	reg := prometheus.DefaultRegisterer
	observability.RegisterAll(reg)
	observability.BuildInfo.WithLabelValues(settings.AppName, api.Version).Set(1)

	ctx, cancel := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	st, err := openStores(ctx, settings)
	if err != nil {
		return err
	}
	// Stop hooks never run when the listener fails to bind.
	defer st.Close()
	checker := store.NewChecker(store.PostgresDependency(st.pool), store.RedisDependency(st.rdb))

	issuer, err := auth.NewIssuer(settings.SecretKey, settings.Algorithm, settings.AccessTokenTTL())
	if err != nil {
		return fmt.Errorf("token issuer: %w", err)
	}

	app := api.NewApp(settings, log)
	api.NewAPI(settings, checker, issuer, log).Register(app)
	app.OnStop(func(context.Context) error { return st.Close() })

	err = run(ctx, settings, app, log)
	if err != nil {
		log.Error("service exited with error", zap.Error(err))
	}
	return err
}

// run serves app plus the optional metrics and gRPC listeners until ctx is
// cancelled or one of them fails.
func run(ctx context.Context, settings config.Settings, app *server.App, log *zap.Logger) error {
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return app.Run(gctx, settings.HTTPAddr) })
	if settings.MetricsAddr != "" {
		g.Go(func() error { return serveMetrics(gctx, settings.MetricsAddr, settings.ShutdownTimeout, log) })
	}
	if settings.GRPCAddr != "" {
		g.Go(func() error { return grpcserver.New(settings.AppName, log).Run(gctx, settings.GRPCAddr) })
	}
	return g.Wait()
}

// stores holds the backing-store clients. Close is safe to call more than
// once.
type stores struct {
	pool  *pgxpool.Pool
	rdb   *redis.Client
	close func() error
}

func openStores(ctx context.Context, settings config.Settings) (*stores, error) {
	pool, err := store.NewPool(ctx, settings.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("postgres: %w", err)
	}
	rdb, err := store.NewRedis(settings.RedisURL)
	if err != nil {
		pool.Close()
		return nil, fmt.Errorf("redis: %w", err)
	}
	st := &stores{pool: pool, rdb: rdb}
	st.close = sync.OnceValue(func() error {
		pool.Close()
		if err := rdb.Close(); err != nil {
			return fmt.Errorf("close redis: %w", err)
		}
		return nil
	})
	return st, nil
}

func (s *stores) Close() error { return s.close() }

func serveMetrics(ctx context.Context, addr string, timeout time.Duration, log *zap.Logger) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("metrics server starting", zap.String("addr", addr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("metrics server: %w", err)
	}
}
