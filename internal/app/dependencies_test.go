package app

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/canteen-order/internal/config"
	"github.com/noah-isme/canteen-order/internal/menu"
)

func testConfig(t *testing.T, redisURL string) *config.Config {
	t.Helper()
	cfg, err := config.LoadForTests(map[string]string{
		"BACKEND_URL": "http://127.0.0.1:9",
		"REDIS_URL":   redisURL,
	})
	require.NoError(t, err)
	return cfg
}

func TestNewWithoutRedis(t *testing.T) {
	deps, err := New(context.Background(), testConfig(t, ""), zerolog.Nop(), prometheus.NewRegistry())
	require.NoError(t, err)
	t.Cleanup(func() { _ = deps.Close() })

	require.Nil(t, deps.Redis)
	require.Nil(t, deps.MenuCache())
	require.NotNil(t, deps.MenuClient())
	require.NotNil(t, deps.OrderClient())
	require.Equal(t, 1, deps.Backend.WithMaxAttempts(1).MaxAttempts)
	require.Equal(t, 3, deps.Backend.MaxAttempts)

	l, err := deps.CheckoutLimiter()
	require.NoError(t, err)
	require.EqualValues(t, 10, l.Rate.Limit)
}

func TestNewWithRedis(t *testing.T) {
	mr := miniredis.RunT(t)
	deps, err := New(context.Background(), testConfig(t, "redis://"+mr.Addr()), zerolog.Nop(), prometheus.NewRegistry())
	require.NoError(t, err)
	t.Cleanup(func() { _ = deps.Close() })

	require.NotNil(t, deps.Redis)
	require.NotNil(t, deps.MenuCache())
	_, err = deps.CheckoutLimiter()
	require.NoError(t, err)
}

func TestNewRedisRejectsBadURL(t *testing.T) {
	_, err := NewRedis(context.Background(), "not-a-url", false, zerolog.Nop())
	require.Error(t, err)
}

func TestMenuClientCreatesWithoutRetry(t *testing.T) {
	var posts, gets atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost {
			posts.Add(1)
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		gets.Add(1)
		_, _ = w.Write([]byte("[]"))
	}))
	t.Cleanup(srv.Close)

	cfg, err := config.LoadForTests(map[string]string{
		"BACKEND_URL":          srv.URL,
		"BACKEND_MAX_ATTEMPTS": "3",
		"REDIS_URL":            "",
	})
	require.NoError(t, err)
	deps, err := New(context.Background(), cfg, zerolog.Nop(), prometheus.NewRegistry())
	require.NoError(t, err)

	created, err := deps.MenuClient().Seed(context.Background(), menu.DefaultSeed()[:1])
	require.Error(t, err)
	require.Zero(t, created)
	require.EqualValues(t, 1, posts.Load())
}
