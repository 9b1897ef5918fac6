package health_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/canteen-order/internal/health"
)

type stubChecker struct {
	backendErr error
	redisErr   error
}

func (s stubChecker) PingBackend(context.Context, time.Duration) error { return s.backendErr }
func (s stubChecker) PingRedis(context.Context, time.Duration) error   { return s.redisErr }

func ready(t *testing.T, h health.Handler) (int, map[string]string) {
	t.Helper()
	rr := httptest.NewRecorder()
	h.Ready(rr, httptest.NewRequest(http.MethodGet, "/health/ready", nil))
	var status map[string]string
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &status))
	return rr.Code, status
}

func TestLive(t *testing.T) {
	rr := httptest.NewRecorder()
	health.Handler{}.Live(rr, httptest.NewRequest(http.MethodGet, "/health/live", nil))
	require.Equal(t, http.StatusOK, rr.Code)
	require.Equal(t, "ok", rr.Body.String())
}

func TestReady(t *testing.T) {
	cases := []struct {
		name    string
		checker stubChecker
		code    int
		backend string
		redis   string
	}{
		{"all ok", stubChecker{}, http.StatusOK, "ok", "ok"},
		{"redis disabled", stubChecker{redisErr: health.ErrDisabled}, http.StatusOK, "ok", "disabled"},
		{"backend down", stubChecker{backendErr: errors.New("backend down")}, http.StatusServiceUnavailable, "backend down", "ok"},
		{"redis down", stubChecker{redisErr: errors.New("redis down")}, http.StatusServiceUnavailable, "ok", "redis down"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			code, status := ready(t, health.Handler{Checker: tc.checker})
			require.Equal(t, tc.code, code)
			require.Equal(t, tc.backend, status["backend"])
			require.Equal(t, tc.redis, status["redis"])
		})
	}
}

func TestProbe(t *testing.T) {
	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/menu", r.URL.Path)
		_, _ = w.Write([]byte("[]"))
	}))
	defer backend.Close()
	mr, err := miniredis.Run()
	require.NoError(t, err)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer rdb.Close()

	probe := health.Probe{BackendURL: backend.URL + "/", Redis: rdb}
	ctx := context.Background()
	require.NoError(t, probe.PingBackend(ctx, time.Second))
	require.NoError(t, probe.PingRedis(ctx, time.Second))
	require.ErrorIs(t, health.Probe{}.PingRedis(ctx, time.Second), health.ErrDisabled)

	mr.Close()
	require.Error(t, probe.PingRedis(ctx, 200*time.Millisecond))
}
