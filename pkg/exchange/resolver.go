package exchange

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/iwvelando/dream-calc/pkg/constants"
	"github.com/iwvelando/dream-calc/pkg/datetime"
	"github.com/iwvelando/dream-calc/pkg/ratecache"
	"github.com/iwvelando/dream-calc/pkg/validation"
	"go.uber.org/zap"
)

// maxResponseBytes caps how much of the rate response is read.
const maxResponseBytes = 1 << 20

// Options configures a Resolver. Zero values select the defaults.
type Options struct {
	Endpoint   string
	Timeout    time.Duration
	Fallback   []CurrencyRate
	Cache      ratecache.Cache
	CacheKey   string
	CacheTTL   time.Duration
	HTTPClient *http.Client
}

// Resolver fetches live KRW rates and degrades to cached or fixed rates when
// the source is unavailable.
type Resolver struct {
	endpoint string
	timeout  time.Duration
	fallback []CurrencyRate
	cache    ratecache.Cache
	cacheKey string
	cacheTTL time.Duration
	client   *http.Client
	logger   *zap.Logger
}

// apiResponse is the subset of the rate source payload that is used.
type apiResponse struct {
	Result            string             `json:"result"`
	Rates             map[string]float64 `json:"rates"`
	TimeLastUpdateUTC string             `json:"time_last_update_utc"`
}

// NewResolver creates a Resolver.
func NewResolver(logger *zap.Logger, opts Options) *Resolver {
	if logger == nil {
		logger = zap.NewNop()
	}

	r := &Resolver{
		endpoint: opts.Endpoint,
		timeout:  opts.Timeout,
		fallback: opts.Fallback,
		cache:    opts.Cache,
		cacheKey: opts.CacheKey,
		cacheTTL: opts.CacheTTL,
		client:   opts.HTTPClient,
		logger:   logger,
	}
	if r.endpoint == "" {
		r.endpoint = constants.DefaultRateEndpoint
	}
	if r.timeout <= 0 {
		r.timeout = constants.DefaultRateTimeoutSeconds * time.Second
	}
	if len(r.fallback) == 0 {
		r.fallback = DefaultFallback()
	}
	if r.cacheKey == "" {
		r.cacheKey = constants.RateCacheKey
	}
	if r.cacheTTL <= 0 {
		r.cacheTTL = constants.DefaultRateCacheTTLSeconds * time.Second
	}
	if r.client == nil {
		r.client = &http.Client{}
	}
	return r
}

// Resolve returns the current rate set. It never fails: a failed live fetch
// is served from the cache when possible and otherwise from the fallback
// table.
func (r *Resolver) Resolve(ctx context.Context) RateSet {
	set, err := r.fetch(ctx)
	if err == nil {
		r.store(ctx, set)
		return set
	}

	r.logger.Warn("live exchange rates unavailable",
		zap.String("op", "exchange.Resolve"),
		zap.String("endpoint", r.endpoint),
		zap.Error(err),
	)

	if cached, ok := r.load(ctx); ok {
		r.logger.Info("serving cached exchange rates",
			zap.String("op", "exchange.Resolve"),
			zap.String("lastUpdated", datetime.FormatDate(cached.LastUpdated)),
		)
		return cached
	}

	return r.Fallback()
}

// Fallback returns a copy of the fixed rate table.
func (r *Resolver) Fallback() RateSet {
	rates := make([]CurrencyRate, len(r.fallback))
	copy(rates, r.fallback)
	return RateSet{Rates: rates, Source: SourceFallback}
}

func (r *Resolver) fetch(ctx context.Context) (RateSet, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, r.endpoint, nil)
	if err != nil {
		return RateSet{}, fmt.Errorf("%w: build request: %v", validation.ErrRateFetch, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := r.client.Do(req)
	if err != nil {
		return RateSet{}, fmt.Errorf("%w: %v", validation.ErrRateFetch, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return RateSet{}, fmt.Errorf("%w: unexpected status %d", validation.ErrRateFetch, resp.StatusCode)
	}

	var payload apiResponse
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxResponseBytes)).Decode(&payload); err != nil {
		return RateSet{}, fmt.Errorf("%w: decode response: %v", validation.ErrRateFetch, err)
	}
	if payload.Result == "error" {
		return RateSet{}, fmt.Errorf("%w: source reported an error", validation.ErrRateFetch)
	}

	rates, err := fromQuotes(payload.Rates)
	if err != nil {
		return RateSet{}, fmt.Errorf("%w: %v", validation.ErrRateFetch, err)
	}

	set := RateSet{Rates: rates, Source: SourceLive}
	if updated, err := datetime.ParseRateTimestamp(payload.TimeLastUpdateUTC); err == nil {
		set.LastUpdated = &updated
	} else {
		r.logger.Debug("rate timestamp not parsed",
			zap.String("op", "exchange.fetch"),
			zap.String("value", payload.TimeLastUpdateUTC),
			zap.Error(err),
		)
	}
	return set, nil
}

func (r *Resolver) store(ctx context.Context, set RateSet) {
	if r.cache == nil {
		return
	}
	encoded, err := json.Marshal(set)
	if err != nil {
		r.logger.Warn("failed to encode exchange rates for cache",
			zap.String("op", "exchange.store"), zap.Error(err))
		return
	}
	if err := r.cache.Set(ctx, r.cacheKey, string(encoded), r.cacheTTL); err != nil {
		r.logger.Warn("failed to cache exchange rates",
			zap.String("op", "exchange.store"), zap.Error(err))
	}
}

func (r *Resolver) load(ctx context.Context) (RateSet, bool) {
	if r.cache == nil {
		return RateSet{}, false
	}
	raw, ok := r.cache.Get(ctx, r.cacheKey)
	if !ok {
		return RateSet{}, false
	}

	var set RateSet
	if err := json.Unmarshal([]byte(raw), &set); err != nil {
		r.logger.Warn("discarding unreadable cached exchange rates",
			zap.String("op", "exchange.load"), zap.Error(err))
		return RateSet{}, false
	}
	if err := ValidateTable(set.Rates); err != nil {
		r.logger.Warn("discarding invalid cached exchange rates",
			zap.String("op", "exchange.load"), zap.Error(err))
		return RateSet{}, false
	}
	set.Source = SourceCache
	return set, true
}
