package cache

import (
	"context"
	"errors"
	"sync/atomic"

	"github.com/goliatone/go-contentlayer/internal/logging"
	"github.com/goliatone/go-contentlayer/pkg/interfaces"
)

// ErrAdminUnsupported is returned when the wrapped cache has no maintenance API.
var ErrAdminUnsupported = errors.New("cache: store does not support maintenance operations")

// Stats is a snapshot of cache traffic.
type Stats struct {
	Hits   int64 `json:"hits"`
	Misses int64 `json:"misses"`
	Sets   int64 `json:"sets"`
	Errors int64 `json:"errors"`
}

// Instrumented counts hits, misses and writes on an underlying cache.
type Instrumented struct {
	inner  interfaces.ImageCache
	logger interfaces.Logger

	hits   atomic.Int64
	misses atomic.Int64
	sets   atomic.Int64
	errs   atomic.Int64
}

var _ interfaces.ImageCacheAdmin = (*Instrumented)(nil)

// NewInstrumented wraps inner.
func NewInstrumented(inner interfaces.ImageCache, logger interfaces.Logger) *Instrumented {
	if logger == nil {
		logger = logging.NoOp()
	}
	return &Instrumented{inner: inner, logger: logger}
}

func (c *Instrumented) Get(ctx context.Context, key string) (interfaces.ImageResolution, bool, error) {
	value, ok, err := c.inner.Get(ctx, key)
	switch {
	case err != nil:
		c.errs.Add(1)
		logging.WithImageReference(c.logger, key).Error("image cache read failed", "error", err)
	case ok:
		c.hits.Add(1)
	default:
		c.misses.Add(1)
	}
	return value, ok, err
}

func (c *Instrumented) Set(ctx context.Context, key string, value interfaces.ImageResolution) error {
	if err := c.inner.Set(ctx, key, value); err != nil {
		c.errs.Add(1)
		logging.WithImageReference(c.logger, key).Error("image cache write failed", "error", err)
		return err
	}
	c.sets.Add(1)
	return nil
}

func (c *Instrumented) Delete(ctx context.Context, key string) error {
	admin, ok := c.inner.(interfaces.ImageCacheAdmin)
	if !ok {
		return ErrAdminUnsupported
	}
	return admin.Delete(ctx, key)
}

func (c *Instrumented) Clear(ctx context.Context) error {
	admin, ok := c.inner.(interfaces.ImageCacheAdmin)
	if !ok {
		return ErrAdminUnsupported
	}
	return admin.Clear(ctx)
}

func (c *Instrumented) Keys(ctx context.Context) ([]string, error) {
	admin, ok := c.inner.(interfaces.ImageCacheAdmin)
	if !ok {
		return nil, ErrAdminUnsupported
	}
	return admin.Keys(ctx)
}

// Stats returns the counters observed so far.
func (c *Instrumented) Stats() Stats {
	return Stats{
		Hits:   c.hits.Load(),
		Misses: c.misses.Load(),
		Sets:   c.sets.Load(),
		Errors: c.errs.Load(),
	}
}
