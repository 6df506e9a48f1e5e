package calculator

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/iwvelando/dream-calc/internal/config"
	"github.com/iwvelando/dream-calc/pkg/constants"
	"github.com/iwvelando/dream-calc/pkg/exchange"
	"go.uber.org/zap"
)

func TestNewRateResolverMemoryCache(t *testing.T) {
	var down atomic.Bool
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if down.Load() {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"result":"success","time_last_update_utc":"Wed, 14 Oct 2026 00:02:31 +0000",
			"rates":{"USD":0.0007,"JPY":0.105,"EUR":0.0006,"CNY":0.005}}`))
	}))
	defer srv.Close()

	conf := config.Default().Exchange
	conf.Endpoint = srv.URL
	conf.Timeout = time.Second
	conf.Cache.Backend = constants.CacheBackendMemory

	resolver, closeCache, err := NewRateResolver(context.Background(), zap.NewNop(), conf)
	if err != nil {
		t.Fatalf("NewRateResolver() error = %v", err)
	}
	defer func() { _ = closeCache() }()

	if set := resolver.Resolve(context.Background()); set.Source != exchange.SourceLive {
		t.Fatalf("Expected live rates, got %q", set.Source)
	}

	down.Store(true)
	if set := resolver.Resolve(context.Background()); set.Source != exchange.SourceCache {
		t.Errorf("Expected cached rates after the source failed, got %q", set.Source)
	}
}

func TestNewRateResolverWithoutCache(t *testing.T) {
	conf := config.Default().Exchange
	conf.Endpoint = "http://127.0.0.1:0/unreachable"
	conf.Timeout = 100 * time.Millisecond

	resolver, closeCache, err := NewRateResolver(context.Background(), nil, conf)
	if err != nil {
		t.Fatalf("NewRateResolver() error = %v", err)
	}
	if err := closeCache(); err != nil {
		t.Errorf("close error = %v", err)
	}

	if set := resolver.Resolve(context.Background()); set.Source != exchange.SourceFallback {
		t.Errorf("Expected fallback rates, got %q", set.Source)
	}
}

func TestNewRateResolverUnknownBackend(t *testing.T) {
	conf := config.Default().Exchange
	conf.Cache.Backend = "memcached"

	if _, closeCache, err := NewRateResolver(context.Background(), nil, conf); err == nil {
		t.Errorf("Expected error for unknown cache backend")
	} else if closeCache == nil {
		t.Errorf("Expected a non-nil close function")
	}
}
