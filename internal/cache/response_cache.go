package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/singleflight"
)

// Store is the key-value backend of the response cache.
type Store interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value string, ttl time.Duration) error
}

// Policy is a per-route caching rule: entries younger than Fresh are served as
// is, entries younger than Fresh+Stale are served and revalidated.
type Policy struct {
	Fresh time.Duration
	Stale time.Duration
}

// Cache policies for the gateway reference data.
var (
	CatalogPolicy  = Policy{Fresh: 300 * time.Second, Stale: 600 * time.Second}
	SettingsPolicy = Policy{Fresh: 60 * time.Second, Stale: 120 * time.Second}
)

// Header renders p as a Cache-Control value.
func (p Policy) Header() string {
	return fmt.Sprintf("public, s-maxage=%d, stale-while-revalidate=%d", int(p.Fresh.Seconds()), int(p.Stale.Seconds()))
}

// Entry is a cached gateway response.
type Entry struct {
	Status      int       `json:"status"`
	ContentType string    `json:"contentType"`
	Body        []byte    `json:"body"`
	StoredAt    time.Time `json:"storedAt"`
}

// OK reports whether the entry holds a 2xx response.
func (e *Entry) OK() bool {
	return e.Status >= 200 && e.Status < 300
}

// Result tells how a lookup was answered.
type Result string

const (
	ResultHit    Result = "HIT"
	ResultStale  Result = "STALE"
	ResultMiss   Result = "MISS"
	ResultBypass Result = "BYPASS"
)

// Fetcher loads a response from the gateway.
type Fetcher func(ctx context.Context) (*Entry, error)

// ResponseCache serves gateway responses from a Store. A nil *ResponseCache
// passes every lookup straight to the fetcher.
type ResponseCache struct {
	store             Store
	group             singleflight.Group
	revalidateTimeout time.Duration
	now               func() time.Time
}

// NewResponseCache creates a ResponseCache over store.
func NewResponseCache(store Store, revalidateTimeout time.Duration) *ResponseCache {
	return &ResponseCache{
		store:             store,
		revalidateTimeout: revalidateTimeout,
		now:               time.Now,
	}
}

func (c *ResponseCache) key(key string) string {
	return "storefront:resp:" + key
}

// Fetch returns the cached response for key or loads it with fetch. Only 2xx
// responses are stored. Store failures degrade to a pass-through.
func (c *ResponseCache) Fetch(ctx context.Context, key string, policy Policy, fetch Fetcher) (*Entry, Result, error) {
	if c == nil || c.store == nil {
		e, err := fetch(ctx)
		return e, ResultBypass, err
	}

	if e, ok := c.lookup(ctx, key); ok {
		age := c.now().Sub(e.StoredAt)
		switch {
		case age < policy.Fresh:
			return e, ResultHit, nil
		case age < policy.Fresh+policy.Stale:
			c.revalidate(key, policy, fetch)
			return e, ResultStale, nil
		}
	}

	v, err, _ := c.group.Do(key, func() (any, error) {
		return c.load(ctx, key, policy, fetch)
	})
	if err != nil {
		return nil, ResultMiss, err
	}
	return v.(*Entry), ResultMiss, nil
}

func (c *ResponseCache) lookup(ctx context.Context, key string) (*Entry, bool) {
	raw, err := c.store.Get(ctx, c.key(key))
	if err != nil {
		if !errors.Is(err, ErrMiss) {
			log.Warn().Err(err).Str("key", key).Msg("Response cache read failed")
		}
		return nil, false
	}
	var e Entry
	if err := json.Unmarshal([]byte(raw), &e); err != nil {
		log.Warn().Err(err).Str("key", key).Msg("Discarding corrupt cache entry")
		return nil, false
	}
	return &e, true
}

func (c *ResponseCache) load(ctx context.Context, key string, policy Policy, fetch Fetcher) (*Entry, error) {
	e, err := fetch(ctx)
	if err != nil {
		return nil, err
	}
	if e.OK() {
		c.put(ctx, key, policy, e)
	}
	return e, nil
}

func (c *ResponseCache) put(ctx context.Context, key string, policy Policy, e *Entry) {
	e.StoredAt = c.now()
	data, err := json.Marshal(e)
	if err != nil {
		log.Warn().Err(err).Str("key", key).Msg("Failed to encode cache entry")
		return
	}
	if err := c.store.Set(ctx, c.key(key), string(data), policy.Fresh+policy.Stale); err != nil {
		log.Warn().Err(err).Str("key", key).Msg("Response cache write failed")
	}
}

// revalidate refreshes key in the background; concurrent callers share one
// fetch.
func (c *ResponseCache) revalidate(key string, policy Policy, fetch Fetcher) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), c.revalidateTimeout)
		defer cancel()
		_, err, _ := c.group.Do(key, func() (any, error) {
			return c.load(ctx, key, policy, fetch)
		})
		if err != nil {
			log.Warn().Err(err).Str("key", key).Msg("Background revalidation failed")
		}
	}()
}
