package app

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/extra/redisotel/v9"
	redis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	limiter "github.com/ulule/limiter/v3"

	"github.com/noah-isme/canteen-order/internal/config"
	"github.com/noah-isme/canteen-order/internal/menu"
	"github.com/noah-isme/canteen-order/internal/order"
	"github.com/noah-isme/canteen-order/internal/ratelimit"
	"github.com/noah-isme/canteen-order/internal/resilience"
)

// Dependencies holds the long-lived clients shared by the entrypoints.
type Dependencies struct {
	Config   *config.Config
	Logger   zerolog.Logger
	Redis    *redis.Client
	Registry prometheus.Registerer
	Breaker  *resilience.Breaker
	Backend  resilience.HTTPClient
}

// New connects optional Redis and builds the breaker-protected backend client.
func New(ctx context.Context, cfg *config.Config, logger zerolog.Logger, reg prometheus.Registerer) (*Dependencies, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	if err := resilience.RegisterMetrics(reg); err != nil {
		return nil, fmt.Errorf("register backend metrics: %w", err)
	}

	rdb, err := NewRedis(ctx, cfg.RedisURL, cfg.MetricsEnabled, logger)
	if err != nil {
		return nil, err
	}

	breaker := resilience.NewBreaker(resilience.BreakerConfig{
		Target:       "backend",
		MinRequests:  cfg.BreakerMinRequests,
		FailureRatio: cfg.BreakerFailureRatio,
		OpenFor:      cfg.BreakerOpenFor,
		Logger:       logger,
	})
	backend := resilience.NewHTTPClient(resilience.ClientConfig{
		Timeout:     cfg.BackendTimeout,
		MaxAttempts: cfg.BackendMaxAttempts,
		Breaker:     breaker,
	})

	return &Dependencies{
		Config:   cfg,
		Logger:   logger,
		Redis:    rdb,
		Registry: reg,
		Breaker:  breaker,
		Backend:  backend,
	}, nil
}

// NewRedis connects to url with tracing and optional metrics instrumentation.
// It returns a nil client when url is empty.
func NewRedis(ctx context.Context, url string, metrics bool, logger zerolog.Logger) (*redis.Client, error) {
	if strings.TrimSpace(url) == "" {
		return nil, nil
	}
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	client := redis.NewClient(opts)
	if err := redisotel.InstrumentTracing(client); err != nil {
		logger.Error().Err(err).Msg("instrument redis tracing")
	}
	if metrics {
		if err := redisotel.InstrumentMetrics(client); err != nil {
			logger.Error().Err(err).Msg("instrument redis metrics")
		}
	}
	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return client, nil
}

// MenuClient returns the menu client. Reads retry, item creation is sent once,
// and the listing cache is used when Redis is set.
func (d *Dependencies) MenuClient() *menu.Client {
	opts := []menu.Option{
		menu.WithLogger(d.Logger.With().Str("component", "menu").Logger()),
		menu.WithWriteDoer(d.Backend.WithMaxAttempts(1)),
	}
	if cache := d.MenuCache(); cache != nil {
		opts = append(opts, menu.WithCache(cache))
	}
	return menu.NewClient(d.Config.BackendURL, d.Backend, opts...)
}

// MenuCache returns the Redis listing cache, or nil without Redis.
func (d *Dependencies) MenuCache() *menu.Cache {
	if d.Redis == nil {
		return nil
	}
	return menu.NewCache(d.Redis, d.Config.MenuCacheTTL)
}

// OrderClient returns the order sink. Orders are sent exactly once per attempt.
func (d *Dependencies) OrderClient() *order.Client {
	return order.NewClient(d.Config.BackendURL, d.Backend.WithMaxAttempts(1))
}

// CheckoutLimiter builds the checkout rate limiter, shared through Redis when available.
func (d *Dependencies) CheckoutLimiter() (*limiter.Limiter, error) {
	store, err := ratelimit.NewStore(d.Redis, ratelimit.DefaultPrefix+":checkout")
	if err != nil {
		return nil, err
	}
	return ratelimit.New(store, d.Config.CheckoutRateLimit)
}

// Close releases the Redis connection.
func (d *Dependencies) Close() error {
	if d == nil || d.Redis == nil {
		return nil
	}
	if err := d.Redis.Close(); err != nil && !errors.Is(err, redis.ErrClosed) {
		return err
	}
	return nil
}
