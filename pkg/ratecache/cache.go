// Package ratecache stores the last successful live exchange-rate fetch so it
// can be served when the rate source is unreachable.
package ratecache

import (
	"context"
	"time"
)

// Cache is a string key/value store with per-entry expiry.
type Cache interface {
	Get(ctx context.Context, key string) (string, bool)
	Set(ctx context.Context, key, value string, ttl time.Duration) error
}
