package cache

import (
	"context"
	"net/http"
	"net/url"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeTransport struct {
	mu     sync.Mutex
	calls  []string
	status int
}

func (f *fakeTransport) PerformRequest(ctx context.Context, method, rawUrl string, params url.Values) (*Response, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, method+" "+CacheKey(rawUrl, params))
	status := f.status
	if status == 0 {
		status = http.StatusOK
	}
	return &Response{Status: status, Body: []byte(method + " " + rawUrl)}, nil
}

func (f *fakeTransport) Calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.calls...)
}

type memoryStore struct {
	mu      sync.Mutex
	entries map[string]*Response
}

func newMemoryStore() *memoryStore {
	return &memoryStore{entries: make(map[string]*Response)}
}

func (m *memoryStore) Get(ctx context.Context, key string) (*Response, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	res, ok := m.entries[key]
	return res, ok, nil
}

func (m *memoryStore) Set(ctx context.Context, key string, res *Response) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries[key] = res
	return nil
}

func (m *memoryStore) Delete(ctx context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.entries, key)
	return nil
}

func TestCacheKey(t *testing.T) {
	a := url.Values{}
	a.Set("x", "1")
	a.Set("b", "2")
	b := url.Values{}
	b.Set("b", "2")
	b.Set("x", "1")

	assert.Equal(t, "/api/items?b=2&x=1", CacheKey("/api/items", a))
	assert.Equal(t, CacheKey("/api/items", a), CacheKey("/api/items", b))
	assert.Equal(t, "/api/items?v=1&b=2&x=1", CacheKey("/api/items?v=1", a))
	assert.Equal(t, "/api/items", CacheKey("/api/items", nil))
}

func TestSyncCachesReads(t *testing.T) {
	transport := &fakeTransport{}
	s := NewCachedSync(transport)
	ctx := context.Background()
	params := url.Values{"x": {"1"}}

	first, err := s.Sync(ctx, http.MethodGet, "/api/items", params)
	require.NoError(t, err)
	second, err := s.Sync(ctx, http.MethodGet, "/api/items", url.Values{"x": {"1"}})
	require.NoError(t, err)

	assert.Same(t, first, second)
	assert.Equal(t, []string{"GET /api/items?x=1"}, transport.Calls())
}

func TestSyncWritesBypassCache(t *testing.T) {
	transport := &fakeTransport{}
	s := NewCachedSync(transport)
	ctx := context.Background()

	_, err := s.Sync(ctx, http.MethodGet, "/api/items/1", nil)
	require.NoError(t, err)
	_, err = s.Sync(ctx, http.MethodPut, "/api/items/1", url.Values{"name": {"x"}})
	require.NoError(t, err)
	_, err = s.Sync(ctx, http.MethodPut, "/api/items/1", url.Values{"name": {"x"}})
	require.NoError(t, err)

	res, err := s.Sync(ctx, http.MethodGet, "/api/items/1", nil)
	require.NoError(t, err)
	assert.Equal(t, "GET /api/items/1", string(res.Body))
	assert.Equal(t, []string{
		"GET /api/items/1",
		"PUT /api/items/1?name=x",
		"PUT /api/items/1?name=x",
	}, transport.Calls())
	assert.Equal(t, 1, s.Len())
}

func TestSyncErrorStatusIsNotCached(t *testing.T) {
	transport := &fakeTransport{status: http.StatusBadGateway}
	s := NewCachedSync(transport)
	ctx := context.Background()

	_, err := s.Sync(ctx, http.MethodGet, "/api/items", nil)
	assert.ErrorIs(t, err, ErrStatus)
	assert.Equal(t, 0, s.Len())

	_, err = s.Sync(ctx, http.MethodGet, "/api/items", nil)
	assert.ErrorIs(t, err, ErrStatus)
	assert.Len(t, transport.Calls(), 2)
}

func TestSyncSeedAndInvalidate(t *testing.T) {
	transport := &fakeTransport{}
	s := NewCachedSync(transport, WithCapacity(5), WithName("seeded"))
	ctx := context.Background()

	s.Seed("/api/page", nil, &Response{Status: http.StatusOK, Body: []byte("embedded")})
	res, err := s.Sync(ctx, http.MethodGet, "/api/page", nil)
	require.NoError(t, err)
	assert.Equal(t, "embedded", string(res.Body))
	assert.Empty(t, transport.Calls())

	removed, err := s.Invalidate(ctx, "/api/page", nil)
	require.NoError(t, err)
	assert.True(t, removed)

	res, err = s.Sync(ctx, http.MethodGet, "/api/page", nil)
	require.NoError(t, err)
	assert.Equal(t, "GET /api/page", string(res.Body))
	assert.Len(t, transport.Calls(), 1)
}

func TestSyncUsesStore(t *testing.T) {
	transport := &fakeTransport{}
	store := newMemoryStore()
	ctx := context.Background()

	store.entries["/api/cached"] = &Response{Status: http.StatusOK, Body: []byte("from store")}
	s := NewCachedSync(transport, WithStore(store))

	res, err := s.Sync(ctx, http.MethodGet, "/api/cached", nil)
	require.NoError(t, err)
	assert.Equal(t, "from store", string(res.Body))
	assert.Empty(t, transport.Calls())

	_, err = s.Sync(ctx, http.MethodGet, "/api/fresh", nil)
	require.NoError(t, err)
	_, found, _ := store.Get(ctx, "/api/fresh")
	assert.True(t, found)

	_, err = s.Invalidate(ctx, "/api/fresh", nil)
	require.NoError(t, err)
	_, found, _ = store.Get(ctx, "/api/fresh")
	assert.False(t, found)
}
