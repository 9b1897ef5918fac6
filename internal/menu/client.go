package menu

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/rs/zerolog"

	"github.com/noah-isme/canteen-order/internal/common"
	"github.com/noah-isme/canteen-order/internal/obs"
	"github.com/noah-isme/canteen-order/internal/resilience"
)

// ErrMenuLoad reports that the menu could not be fetched or seeded.
var ErrMenuLoad = errors.New("menu: unable to load menu")

// Doer performs a backend request.
type Doer interface {
	Do(ctx context.Context, req *http.Request) (*http.Response, error)
}

var _ Doer = resilience.HTTPClient{}

// Client talks to the backend menu endpoints.
type Client struct {
	baseURL string
	http    Doer
	writer  Doer
	cache   *Cache
	seed    func() []Item
	logger  zerolog.Logger
}

// Option customises a Client.
type Option func(*Client)

// WithCache enables the Redis listing cache.
func WithCache(cache *Cache) Option {
	return func(c *Client) { c.cache = cache }
}

// WithWriteDoer sends item creation through doer instead of the read doer.
// Creation is not idempotent, so doer should not retry.
func WithWriteDoer(doer Doer) Option {
	return func(c *Client) { c.writer = doer }
}

// WithLogger sets the logger.
func WithLogger(logger zerolog.Logger) Option {
	return func(c *Client) { c.logger = logger }
}

// WithSeed replaces the first-run seed list.
func WithSeed(seed func() []Item) Option {
	return func(c *Client) { c.seed = seed }
}

// NewClient builds a menu client for the backend at baseURL.
func NewClient(baseURL string, doer Doer, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    doer,
		seed:    DefaultSeed,
		logger:  zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.writer == nil {
		c.writer = doer
	}
	return c
}

// List fetches the menu from the backend, bypassing the cache.
func (c *Client) List(ctx context.Context) ([]Item, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api/menu", nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	resp, err := c.http.Do(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("list menu: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("list menu: unexpected status %d", resp.StatusCode)
	}
	var items []Item
	if err := json.NewDecoder(resp.Body).Decode(&items); err != nil {
		return nil, fmt.Errorf("decode menu: %w", err)
	}
	if items == nil {
		items = []Item{}
	}
	return items, nil
}

// Create posts a new menu item. The id is assigned by the backend.
func (c *Client) Create(ctx context.Context, item Item) error {
	item.ID = common.FlexibleID{}
	body, err := json.Marshal(item)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/menu", bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := c.writer.Do(ctx, req)
	if err != nil {
		return fmt.Errorf("create menu item %q: %w", item.Name, err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("create menu item %q: unexpected status %d", item.Name, resp.StatusCode)
	}
	return nil
}

// Seed posts every item in order and returns how many were accepted.
// A failing item does not stop the remaining ones.
func (c *Client) Seed(ctx context.Context, items []Item) (int, error) {
	created := 0
	var errs []error
	for _, it := range items {
		if err := ctx.Err(); err != nil {
			errs = append(errs, err)
			break
		}
		if err := c.Create(ctx, it); err != nil {
			errs = append(errs, err)
			continue
		}
		created++
	}
	return created, errors.Join(errs...)
}

// Load returns the menu, preferring the cache. An empty backend menu is seeded
// once and fetched again. Every failure is wrapped in ErrMenuLoad.
func (c *Client) Load(ctx context.Context) ([]Item, error) {
	if items, ok, err := c.cache.Get(ctx); err != nil {
		c.logger.Warn().Err(err).Msg("menu cache read failed")
	} else if ok {
		obs.CountMenuLoad("cache", "hit")
		return items, nil
	}
	items, err := c.loadOrSeed(ctx)
	if err != nil {
		return nil, err
	}
	if err := c.cache.Set(ctx, items); err != nil {
		c.logger.Warn().Err(err).Msg("menu cache write failed")
	}
	return items, nil
}

// Reload drops the cached listing and loads the menu from the backend.
func (c *Client) Reload(ctx context.Context) ([]Item, error) {
	if err := c.cache.Invalidate(ctx); err != nil {
		c.logger.Warn().Err(err).Msg("menu cache invalidate failed")
	}
	return c.Load(ctx)
}

func (c *Client) loadOrSeed(ctx context.Context) ([]Item, error) {
	items, err := c.List(ctx)
	if err != nil {
		obs.CountMenuLoad("backend", "error")
		c.logger.Error().Err(err).Msg("menu_load_failed")
		return nil, fmt.Errorf("%w: %v", ErrMenuLoad, err)
	}
	if len(items) > 0 {
		obs.CountMenuLoad("backend", "ok")
		return items, nil
	}

	created, seedErr := c.Seed(ctx, c.seed())
	evt := c.logger.Info().Int("created", created)
	if seedErr != nil {
		evt = c.logger.Warn().Int("created", created).Err(seedErr)
	}
	evt.Msg("menu_seeded")

	items, err = c.List(ctx)
	if err != nil {
		obs.CountMenuLoad("seed", "error")
		c.logger.Error().Err(err).Msg("menu_load_failed")
		return nil, fmt.Errorf("%w: %v", ErrMenuLoad, err)
	}
	obs.CountMenuLoad("seed", "ok")
	return items, nil
}
