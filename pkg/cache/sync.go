package cache

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"

	log "github.com/sirupsen/logrus"
)

var ErrStatus = errors.New("unexpected response status")

type Response struct {
	Status int         `json:"status"`
	Header http.Header `json:"header,omitempty"`
	Body   []byte      `json:"body"`
}

type Transport interface {
	PerformRequest(ctx context.Context, method, rawUrl string, params url.Values) (*Response, error)
}

// ResponseStore is a second tier consulted before the transport on a miss.
type ResponseStore interface {
	Get(ctx context.Context, key string) (*Response, bool, error)
	Set(ctx context.Context, key string, res *Response) error
	Delete(ctx context.Context, key string) error
}

type syncOptions struct {
	name     string
	capacity int
	policy   EvictionPolicy[string]
	store    ResponseStore
}

type SyncOption func(*syncOptions)

func WithName(name string) SyncOption {
	return func(o *syncOptions) { o.name = name }
}

func WithCapacity(capacity int) SyncOption {
	return func(o *syncOptions) { o.capacity = capacity }
}

func WithPolicy(policy EvictionPolicy[string]) SyncOption {
	return func(o *syncOptions) { o.policy = policy }
}

func WithStore(store ResponseStore) SyncOption {
	return func(o *syncOptions) { o.store = store }
}

// CachedSync decorates a Transport. GET requests go through a
// KeyedFutureCache, every other method goes straight to the transport and
// leaves cached reads untouched.
type CachedSync struct {
	transport Transport
	cache     *KeyedFutureCache[string, *Response]
	store     ResponseStore
}

func NewCachedSync(transport Transport, opts ...SyncOption) *CachedSync {
	o := syncOptions{name: "responses", capacity: DefaultCapacity}
	for _, opt := range opts {
		opt(&o)
	}
	return &CachedSync{
		transport: transport,
		cache:     NewKeyedFutureCache[string, *Response](o.name, o.capacity, o.policy),
		store:     o.store,
	}
}

func (s *CachedSync) Sync(ctx context.Context, method, rawUrl string, params url.Values) (*Response, error) {
	if method != http.MethodGet {
		log.WithFields(log.Fields{"method": method, "url": rawUrl}).Debug("Bypassing cache")
		return s.perform(ctx, method, rawUrl, params)
	}
	return s.Fetch(ctx, rawUrl, params).Wait(ctx)
}

func (s *CachedSync) Fetch(ctx context.Context, rawUrl string, params url.Values) *Future[*Response] {
	key := CacheKey(rawUrl, params)
	return s.cache.GetOrFetch(ctx, key, func(ctx context.Context) (*Response, error) {
		return s.load(ctx, key, rawUrl, params)
	})
}

func (s *CachedSync) load(ctx context.Context, key, rawUrl string, params url.Values) (*Response, error) {
	if s.store != nil {
		res, found, err := s.store.Get(ctx, key)
		if err != nil {
			log.WithError(err).WithField("key", key).Warn("Response store lookup failed")
		} else if found {
			return res, nil
		}
	}
	res, err := s.perform(ctx, http.MethodGet, rawUrl, params)
	if err != nil {
		return nil, err
	}
	if s.store != nil {
		if err := s.store.Set(ctx, key, res); err != nil {
			log.WithError(err).WithField("key", key).Warn("Response store write failed")
		}
	}
	return res, nil
}

func (s *CachedSync) perform(ctx context.Context, method, rawUrl string, params url.Values) (*Response, error) {
	res, err := s.transport.PerformRequest(ctx, method, rawUrl, params)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", method, rawUrl, err)
	}
	if res.Status >= http.StatusBadRequest {
		return res, fmt.Errorf("%s %s: %w: %d", method, rawUrl, ErrStatus, res.Status)
	}
	return res, nil
}

// Seed makes the next GET for rawUrl and params a cache hit.
func (s *CachedSync) Seed(rawUrl string, params url.Values, res *Response) {
	s.cache.Seed(CacheKey(rawUrl, params), res)
}

// Invalidate drops the cached read for rawUrl and params from both tiers.
func (s *CachedSync) Invalidate(ctx context.Context, rawUrl string, params url.Values) (bool, error) {
	return s.InvalidateKey(ctx, CacheKey(rawUrl, params))
}

func (s *CachedSync) InvalidateKey(ctx context.Context, key string) (bool, error) {
	removed := s.cache.Invalidate(key)
	if s.store != nil {
		if err := s.store.Delete(ctx, key); err != nil {
			return removed, fmt.Errorf("invalidate %s: %w", key, err)
		}
	}
	return removed, nil
}

func (s *CachedSync) Len() int {
	return s.cache.Len()
}
