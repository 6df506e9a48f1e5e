package calculator

import (
	"context"
	"fmt"
	"time"

	"github.com/iwvelando/dream-calc/internal/config"
	"github.com/iwvelando/dream-calc/pkg/constants"
	"github.com/iwvelando/dream-calc/pkg/exchange"
	"github.com/iwvelando/dream-calc/pkg/ratecache"
	"go.uber.org/zap"
)

// redisPingTimeout bounds the startup connectivity check.
const redisPingTimeout = 2 * time.Second

// NewRateResolver builds the exchange resolver described by the exchange
// settings, including its cache backend. The returned close function releases
// the cache connection and is never nil.
func NewRateResolver(ctx context.Context, logger *zap.Logger, conf config.ExchangeConfig) (*exchange.Resolver, func() error, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	closer := func() error { return nil }

	var cache ratecache.Cache
	switch conf.Cache.Backend {
	case "", constants.CacheBackendNone:
	case constants.CacheBackendMemory:
		cache = ratecache.NewMemoryCache()
	case constants.CacheBackendRedis:
		redisCache := ratecache.NewRedisCache(conf.Cache.RedisAddr, conf.Cache.RedisPassword, conf.Cache.RedisDB)
		pingCtx, cancel := context.WithTimeout(ctx, redisPingTimeout)
		defer cancel()
		if err := redisCache.Ping(pingCtx); err != nil {
			logger.Warn("redis rate cache unreachable, rates will not be cached until it recovers",
				zap.String("op", "calculator.NewRateResolver"),
				zap.String("addr", conf.Cache.RedisAddr),
				zap.Error(err),
			)
		}
		cache = redisCache
		closer = redisCache.Close
	default:
		return nil, closer, fmt.Errorf("unknown cache backend %q", conf.Cache.Backend)
	}

	resolver := exchange.NewResolver(logger, exchange.Options{
		Endpoint: conf.Endpoint,
		Timeout:  conf.Timeout,
		Fallback: conf.Fallback,
		Cache:    cache,
		CacheTTL: conf.Cache.TTL,
	})
	return resolver, closer, nil
}
