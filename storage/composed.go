package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
)

// Composed layers a volatile cache tier over a durable tier.
//
// Reads consult the cache first and populate it on a durable hit, so hot keys
// stay cache-fast. Writes land in the durable tier before the cache; a crash
// between the two steps can only leave the cache behind the durable truth,
// never ahead of it.
type Composed struct {
	cache   Storage
	durable Storage

	hits   prometheus.Counter
	misses prometheus.Counter
}

func NewComposed(cache, durable Storage) *Composed {
	return &Composed{cache: cache, durable: durable}
}

// InstrumentCache attaches hit/miss counters for the cache tier. Both must be
// non-nil; callers own registration.
func (c *Composed) InstrumentCache(hits, misses prometheus.Counter) {
	c.hits = hits
	c.misses = misses
}

func (c *Composed) Get(ctx context.Context, key string) ([]byte, error) {
	value, err := c.cache.Get(ctx, key)
	if err == nil {
		if c.hits != nil {
			c.hits.Inc()
		}
		return value, nil
	}
	if !errors.Is(err, ErrNotFound) {
		return nil, fmt.Errorf("cache tier get: %w", err)
	}
	if c.misses != nil {
		c.misses.Inc()
	}
	value, err = c.durable.Get(ctx, key)
	if err != nil {
		return nil, err
	}
	if err := c.cache.Put(ctx, key, value); err != nil {
		return nil, fmt.Errorf("cache tier populate: %w", err)
	}
	return value, nil
}

func (c *Composed) Put(ctx context.Context, key string, value []byte) error {
	if err := c.durable.Put(ctx, key, value); err != nil {
		return err
	}
	return c.cache.Put(ctx, key, value)
}

func (c *Composed) Clear(ctx context.Context) error {
	if err := c.durable.Clear(ctx); err != nil {
		return err
	}
	return c.cache.Clear(ctx)
}

func (c *Composed) Close() error {
	cacheErr := c.cache.Close()
	durableErr := c.durable.Close()
	if durableErr != nil {
		return durableErr
	}
	return cacheErr
}
