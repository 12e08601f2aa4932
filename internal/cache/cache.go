// Package cache provides time-bounded reuse of API responses.
//
// A Backend stores opaque bytes with a TTL. Memory keeps entries in process
// and is the default; Redis shares entries across citadel sessions. Typed
// layers JSON encoding and request coalescing on top of either backend:
//
//	pages := cache.NewTyped[rickmorty.Page](backend, logger)
//	page, err := pages.GetOrLoad(ctx, key, 5*time.Minute, func(ctx context.Context) (rickmorty.Page, error) {
//		return client.FetchCharacters(ctx, params)
//	})
//
// The cache is best-effort: a failing backend never fails a load.
package cache

import (
	"context"
	"time"
)

// Backend stores opaque values with an expiry.
type Backend interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Close() error
}
