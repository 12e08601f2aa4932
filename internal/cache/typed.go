package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/singleflight"
)

// Typed stores JSON-encoded values of type V and coalesces concurrent loads
// for the same key into one call.
type Typed[V any] struct {
	backend Backend
	group   singleflight.Group
	logger  *slog.Logger
}

// NewTyped wraps backend. A nil logger discards backend warnings.
func NewTyped[V any](backend Backend, logger *slog.Logger) *Typed[V] {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Typed[V]{backend: backend, logger: logger}
}

// Get returns the cached value for key, if any.
func (t *Typed[V]) Get(ctx context.Context, key string) (V, bool) {
	var zero V
	if t.backend == nil {
		return zero, false
	}
	raw, ok, err := t.backend.Get(ctx, key)
	if err != nil {
		t.logger.Warn("cache read failed", slog.String("key", key), slog.Any("error", err))
		return zero, false
	}
	if !ok {
		return zero, false
	}
	var value V
	if err := json.Unmarshal(raw, &value); err != nil {
		t.logger.Warn("cache entry corrupt", slog.String("key", key), slog.Any("error", err))
		_ = t.backend.Delete(ctx, key)
		return zero, false
	}
	return value, true
}

// Put stores value under key for ttl.
func (t *Typed[V]) Put(ctx context.Context, key string, value V, ttl time.Duration) {
	if t.backend == nil {
		return
	}
	raw, err := json.Marshal(value)
	if err != nil {
		t.logger.Warn("cache encode failed", slog.String("key", key), slog.Any("error", err))
		return
	}
	if err := t.backend.Set(ctx, key, raw, ttl); err != nil {
		t.logger.Warn("cache write failed", slog.String("key", key), slog.Any("error", err))
	}
}

// GetOrLoad returns the cached value for key or calls load, caching its
// result for ttl. Errors from load are returned and never cached.
func (t *Typed[V]) GetOrLoad(ctx context.Context, key string, ttl time.Duration, load func(context.Context) (V, error)) (V, error) {
	if value, ok := t.Get(ctx, key); ok {
		return value, nil
	}
	result, err, _ := t.group.Do(key, func() (any, error) {
		if value, ok := t.Get(ctx, key); ok {
			return value, nil
		}
		value, err := load(ctx)
		if err != nil {
			return value, err
		}
		t.Put(ctx, key, value, ttl)
		return value, nil
	})
	if err != nil {
		var zero V
		return zero, err
	}
	value, ok := result.(V)
	if !ok {
		var zero V
		return zero, fmt.Errorf("cache: unexpected value type %T", result)
	}
	return value, nil
}

// Invalidate drops key from the backend.
func (t *Typed[V]) Invalidate(ctx context.Context, key string) {
	if t.backend == nil {
		return
	}
	if err := t.backend.Delete(ctx, key); err != nil {
		t.logger.Warn("cache delete failed", slog.String("key", key), slog.Any("error", err))
	}
}
