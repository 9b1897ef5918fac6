package menu_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/canteen-order/internal/menu"
	"github.com/noah-isme/canteen-order/internal/resilience"
)

type fakeBackend struct {
	mu       sync.Mutex
	items    []map[string]any
	lists    int
	creates    int
	failList   bool
	failCreate bool
}

func (b *fakeBackend) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	b.mu.Lock()
	defer b.mu.Unlock()
	switch r.Method {
	case http.MethodGet:
		b.lists++
		if b.failList {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(b.items)
	case http.MethodPost:
		b.creates++
		if b.failCreate {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		var body map[string]any
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		if _, ok := body["id"]; ok {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		body["id"] = len(b.items) + 1
		b.items = append(b.items, body)
		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(body)
	}
}

func newClient(t *testing.T, backend *fakeBackend, opts ...menu.Option) *menu.Client {
	t.Helper()
	srv := httptest.NewServer(backend)
	t.Cleanup(srv.Close)
	cl := resilience.NewHTTPClient(resilience.ClientConfig{MaxAttempts: 1, Timeout: time.Second})
	return menu.NewClient(srv.URL+"/", cl, opts...)
}

func TestLoadSeedsEmptyMenu(t *testing.T) {
	backend := &fakeBackend{}
	client := newClient(t, backend)

	items, err := client.Load(context.Background())
	require.NoError(t, err)
	require.Len(t, items, len(menu.DefaultSeed()))
	require.Equal(t, 17, backend.creates)
	require.Equal(t, 2, backend.lists)
	require.Equal(t, "1", items[0].ID.String())
	require.Equal(t, "Tea", items[0].Name)
	require.Equal(t, []string{"All", "Beverages", "Cold Drinks", "Chips", "Fast Food"}, menu.Categories(items))
}

func TestLoadDoesNotSeedExistingMenu(t *testing.T) {
	backend := &fakeBackend{items: []map[string]any{
		{"id": "a1", "name": "Samosa", "category": "Snacks", "price": 15, "is_available": true},
	}}
	client := newClient(t, backend)

	items, err := client.Load(context.Background())
	require.NoError(t, err)
	require.Len(t, items, 1)
	require.Equal(t, "a1", items[0].ID.String())
	require.Equal(t, 0, backend.creates)
	require.Equal(t, menu.DefaultImageURL, items[0].Image())
}

func TestLoadFailureWrapsErrMenuLoad(t *testing.T) {
	backend := &fakeBackend{failList: true}
	client := newClient(t, backend)

	_, err := client.Load(context.Background())
	require.ErrorIs(t, err, menu.ErrMenuLoad)
}

func TestLoadUsesRedisCache(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	backend := &fakeBackend{items: []map[string]any{
		{"id": 7, "name": "Tea", "category": "Beverages", "price": 10, "is_available": true},
	}}
	client := newClient(t, backend, menu.WithCache(menu.NewCache(rdb, time.Minute)))
	ctx := context.Background()

	_, err := client.Load(ctx)
	require.NoError(t, err)
	require.True(t, mr.Exists(menu.CacheKey))

	items, err := client.Load(ctx)
	require.NoError(t, err)
	require.Equal(t, "7", items[0].ID.String())
	require.Equal(t, 1, backend.lists)

	_, err = client.Reload(ctx)
	require.NoError(t, err)
	require.Equal(t, 2, backend.lists)
}

func TestSeedContinuesAfterFailure(t *testing.T) {
	var posts int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		posts++
		if posts == 2 {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		w.WriteHeader(http.StatusCreated)
	}))
	t.Cleanup(srv.Close)
	client := menu.NewClient(srv.URL, resilience.NewHTTPClient(resilience.ClientConfig{MaxAttempts: 1}))

	seed := make([]menu.Item, 3)
	for i := range seed {
		seed[i] = menu.Item{Name: "item " + strconv.Itoa(i), Category: "X", Price: 1, IsAvailable: true}
	}
	created, err := client.Seed(context.Background(), seed)
	require.Error(t, err)
	require.Equal(t, 2, created)
	require.Equal(t, 3, posts)
}

func TestSeedSendsEachItemOnceThroughWriteDoer(t *testing.T) {
	backend := &fakeBackend{failCreate: true}
	srv := httptest.NewServer(backend)
	t.Cleanup(srv.Close)
	reads := resilience.HTTPClient{Client: srv.Client(), MaxAttempts: 3, BaseBackoff: time.Millisecond}
	client := menu.NewClient(srv.URL, reads,
		menu.WithWriteDoer(reads.WithMaxAttempts(1)),
		menu.WithSeed(func() []menu.Item { return menu.DefaultSeed()[:1] }),
	)

	items, err := client.Load(context.Background())
	require.NoError(t, err)
	require.Empty(t, items)
	require.Equal(t, 1, backend.creates)
}
