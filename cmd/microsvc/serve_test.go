package main

import (
	"context"
	"net"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/lzjever/microsvc/internal/api"
	"github.com/lzjever/microsvc/internal/config"
)

func serveSettings(addr string) config.Settings {
	return config.Settings{
		AppName:         "orders",
		APIV1Prefix:     "/api/v1",
		SecretKey:       "s3cret",
		Algorithm:       "HS256",
		DatabaseURL:     "postgres://app:pw@127.0.0.1:1/app",
		RedisURL:        "redis://127.0.0.1:1/0",
		HTTPAddr:        addr,
		ShutdownTimeout: time.Second,
	}
}

func TestRun_PortInUseStillClosesStores(t *testing.T) {
	busy, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer busy.Close()

	ctx := context.Background()
	settings := serveSettings(busy.Addr().String())
	st, err := openStores(ctx, settings)
	require.NoError(t, err)

	stopped := false
	app := api.NewApp(settings, zap.NewNop())
	app.OnStop(func(context.Context) error {
		stopped = true
		return st.Close()
	})

	err = run(ctx, settings, app, zap.NewNop())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "listen")
	assert.False(t, stopped, "stop hooks ran without a listener")

	// runServe defers this for exactly the case above.
	require.NoError(t, st.Close())

	pingCtx, cancel := context.WithTimeout(ctx, time.Second)
	defer cancel()
	assert.ErrorIs(t, st.rdb.Ping(pingCtx).Err(), redis.ErrClosed)
	assert.Error(t, st.pool.Ping(pingCtx))
}

func TestStores_CloseIsIdempotent(t *testing.T) {
	st, err := openStores(context.Background(), serveSettings("127.0.0.1:0"))
	require.NoError(t, err)

	require.NoError(t, st.Close())
	require.NoError(t, st.Close())
}

func TestOpenStores_BadURL(t *testing.T) {
	settings := serveSettings("127.0.0.1:0")
	settings.RedisURL = "http://not-redis"

	_, err := openStores(context.Background(), settings)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "redis")
}
