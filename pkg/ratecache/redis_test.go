package ratecache

import (
	"context"
	"testing"
	"time"
)

func TestRedisCacheUnreachableReadsAsMiss(t *testing.T) {
	cache := NewRedisCache("127.0.0.1:1", "", 0)
	defer func() { _ = cache.Close() }()

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	if err := cache.Ping(ctx); err == nil {
		t.Fatalf("Expected Ping to fail against a closed port")
	}
	if _, ok := cache.Get(ctx, "rates"); ok {
		t.Errorf("Expected a miss from an unreachable server")
	}
	if err := cache.Set(ctx, "rates", "{}", time.Minute); err == nil {
		t.Errorf("Expected Set to fail against an unreachable server")
	}
}
