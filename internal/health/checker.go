package health

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

// ErrDisabled marks an optional dependency that is not configured.
var ErrDisabled = errors.New("disabled")

// Probe checks the order backend and, when configured, Redis.
type Probe struct {
	BackendURL string
	HTTP       *http.Client
	Redis      *redis.Client
}

// PingBackend issues GET {backend}/api/menu and accepts any non-5xx answer.
func (p Probe) PingBackend(ctx context.Context, timeout time.Duration) error {
	client := p.HTTP
	if client == nil {
		client = http.DefaultClient
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, strings.TrimRight(p.BackendURL, "/")+"/api/menu", nil)
	if err != nil {
		return err
	}
	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	_ = resp.Body.Close()
	if resp.StatusCode >= http.StatusInternalServerError {
		return fmt.Errorf("backend status %d", resp.StatusCode)
	}
	return nil
}

// PingRedis pings Redis or returns ErrDisabled.
func (p Probe) PingRedis(ctx context.Context, timeout time.Duration) error {
	if p.Redis == nil {
		return ErrDisabled
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	return p.Redis.Ping(ctx).Err()
}
