package cache

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"golang.org/x/sync/singleflight"
)

// FetchFunc loads a fresh payload on a miss.
type FetchFunc func(ctx context.Context) ([]byte, error)

type Result int

const (
	Miss Result = iota
	Hit
	Shared // joined a fetch another caller had already started
)

func (r Result) String() string {
	switch r {
	case Hit:
		return "hit"
	case Shared:
		return "shared"
	default:
		return "miss"
	}
}

// DefaultFetchTimeout bounds a shared fetch once it no longer follows any
// single caller's context.
const DefaultFetchTimeout = 30 * time.Second

type Cache struct {
	store        Store
	ttl          time.Duration
	fetchTimeout time.Duration
	group        singleflight.Group
	now          func() time.Time
	log          zerolog.Logger
}

// New wraps store. A ttl of zero keeps entries until their tag is bumped.
func New(store Store, ttl time.Duration, logger zerolog.Logger) *Cache {
	return &Cache{
		store:        store,
		ttl:          ttl,
		fetchTimeout: DefaultFetchTimeout,
		now:          time.Now,
		log:          logger.With().Str("component", "cache").Logger(),
	}
}

// Fetch returns the payload stored under key when it belongs to the tag's
// current generation, and loads it through fetch otherwise. Concurrent
// misses for the same key and generation share a single fetch. The shared
// fetch is detached from the callers' cancellation and bounded by the fetch
// timeout; each caller stops waiting when its own context is done.
func (c *Cache) Fetch(ctx context.Context, key, tag string, fetch FetchFunc) ([]byte, Result, error) {
	gen, err := c.store.Generation(ctx, tag)
	if err != nil {
		// Without a generation nothing stored can be trusted; go to the source.
		c.log.Warn().Err(err).Str("tag", tag).Msg("reading tag generation failed")
		payload, err := fetch(ctx)
		return payload, Miss, err
	}

	e, ok, err := c.store.Get(ctx, key)
	if err != nil {
		c.log.Warn().Err(err).Str("key", key).Msg("cache read failed")
	} else if ok && e.Generation == gen && !e.Expired(c.now()) {
		return e.Payload, Hit, nil
	}

	ch := c.group.DoChan(key+"@"+gen, func() (interface{}, error) {
		fctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), c.fetchTimeout)
		defer cancel()

		payload, err := fetch(fctx)
		if err != nil {
			return nil, err
		}
		now := c.now()
		entry := &Entry{
			Tag:        tag,
			Generation: gen,
			Payload:    payload,
			StoredAt:   now,
		}
		if c.ttl > 0 {
			entry.ExpiresAt = now.Add(c.ttl)
		}
		if err := c.store.Set(fctx, key, entry); err != nil {
			c.log.Warn().Err(err).Str("key", key).Msg("cache write failed")
		}
		return payload, nil
	})

	select {
	case <-ctx.Done():
		return nil, Miss, ctx.Err()
	case r := <-ch:
		if r.Err != nil {
			return nil, Miss, r.Err
		}
		res := Miss
		if r.Shared {
			res = Shared
		}
		return r.Val.([]byte), res, nil
	}
}

// Evict drops the entry stored under key, leaving its tag untouched.
func (c *Cache) Evict(ctx context.Context, key string) error {
	if err := c.store.Delete(ctx, key); err != nil {
		return errors.Wrapf(err, "evict %s", key)
	}
	return nil
}

// Invalidate retires every entry stored under tag.
func (c *Cache) Invalidate(ctx context.Context, tag string) error {
	gen, err := c.store.Bump(ctx, tag)
	if err != nil {
		return errors.Wrapf(err, "invalidate %s", tag)
	}
	c.log.Debug().Str("tag", tag).Str("generation", gen).Msg("tag invalidated")
	return nil
}

func (c *Cache) Close() error {
	return c.store.Close()
}
