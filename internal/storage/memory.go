package storage

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
)

type (
	ratesCache struct {
		base        string
		rates       map[string]float64
		loadedAt    time.Time
		attemptedAt time.Time
	}
	catalogCache struct {
		categories  []CatalogCategory
		loaded      bool
		loadedAt    time.Time
		attemptedAt time.Time
	}
)

// RatesFetcher loads a fresh rates envelope from wherever the caller keeps it.
type RatesFetcher func(ctx context.Context) (*RatesEnvelope, error)

// CatalogFetcher loads a fresh pricing catalog.
type CatalogFetcher func(ctx context.Context) (*CatalogBackup, error)

// MemoryCache owns the exchange rate table and the pricing catalog of one process.
type MemoryCache struct {
	mu             sync.RWMutex
	rates          ratesCache
	catalog        catalogCache
	failureBackoff time.Duration
	group          singleflight.Group
	now            func() time.Time
}

// MemoryOption configures a MemoryCache
type MemoryOption func(*MemoryCache)

// WithFailureBackoff sets how long a failed load blocks the next attempt
func WithFailureBackoff(d time.Duration) MemoryOption {
	return func(mc *MemoryCache) {
		mc.failureBackoff = d
	}
}

// WithClock replaces time.Now, mostly for tests
func WithClock(now func() time.Time) MemoryOption {
	return func(mc *MemoryCache) {
		mc.now = now
	}
}

// NewMemoryCache creates a new in-memory cache instance
func NewMemoryCache(options ...MemoryOption) *MemoryCache {
	cache := &MemoryCache{
		rates:          ratesCache{base: BaseCurrency, rates: make(map[string]float64)},
		failureBackoff: defaultFailureBackoff,
		now:            time.Now,
	}
	for _, option := range options {
		option(cache)
	}
	return cache
}

func (mc *MemoryCache) DumpRates(envelope *RatesEnvelope) error {
	if envelope == nil || envelope.Result != ratesResultSuccess || len(envelope.Rates) == 0 {
		return fmt.Errorf("invalid rates envelope")
	}

	rates := make(map[string]float64, len(envelope.Rates))
	for code, rate := range envelope.Rates {
		rates[strings.ToUpper(code)] = rate
	}
	base := strings.ToUpper(envelope.BaseCode)
	if base == "" {
		base = BaseCurrency
	}
	loadedAt := envelope.FetchedAt.UTC()
	if envelope.FetchedAt.IsZero() {
		loadedAt = mc.now().UTC()
	}

	mc.mu.Lock()
	defer mc.mu.Unlock()

	mc.rates.base = base
	mc.rates.rates = rates
	mc.rates.loadedAt = loadedAt

	return nil
}

func (mc *MemoryCache) DumpCatalog(backup *CatalogBackup) error {
	if backup == nil {
		return fmt.Errorf("catalog backup is nil")
	}
	loadedAt := backup.FetchedAt.UTC()
	if backup.FetchedAt.IsZero() {
		loadedAt = mc.now().UTC()
	}

	mc.mu.Lock()
	defer mc.mu.Unlock()

	mc.catalog.categories = backup.Categories
	mc.catalog.loaded = true
	mc.catalog.loadedAt = loadedAt

	return nil
}

// ClearRates drops the live table so that lookups fall back to static rates.
func (mc *MemoryCache) ClearRates() {
	mc.mu.Lock()
	mc.rates.rates = make(map[string]float64)
	mc.rates.loadedAt = time.Time{}
	mc.mu.Unlock()
}

// Rates returns a copy of the live table.
func (mc *MemoryCache) Rates() RateTable {
	mc.mu.RLock()
	defer mc.mu.RUnlock()

	rates := make(map[string]float64, len(mc.rates.rates))
	for code, rate := range mc.rates.rates {
		rates[code] = rate
	}
	return RateTable{
		Base:      mc.rates.base,
		Rates:     rates,
		FetchedAt: mc.rates.loadedAt,
	}
}

func (mc *MemoryCache) GetRate(code string) (float64, bool) {
	mc.mu.RLock()
	defer mc.mu.RUnlock()

	rate, ok := mc.rates.rates[strings.ToUpper(code)]
	if !ok || rate <= 0 {
		return 0, false
	}
	return rate, true
}

// Catalog returns the cached catalog and whether one was ever loaded.
func (mc *MemoryCache) Catalog() ([]CatalogCategory, bool) {
	mc.mu.RLock()
	defer mc.mu.RUnlock()
	return mc.catalog.categories, mc.catalog.loaded
}

func (mc *MemoryCache) Status() CacheStatus {
	mc.mu.RLock()
	defer mc.mu.RUnlock()
	return CacheStatus{
		RatesLoadedAt:      mc.rates.loadedAt,
		RatesAttemptedAt:   mc.rates.attemptedAt,
		RatesCount:         len(mc.rates.rates),
		CatalogLoadedAt:    mc.catalog.loadedAt,
		CatalogAttemptedAt: mc.catalog.attemptedAt,
		CatalogCategories:  len(mc.catalog.categories),
	}
}

// GetOrRefreshRates returns the live table, loading it through fetch first when
// it is older than ttl. A failed load clears the table and is not retried until
// the failure backoff has passed. Concurrent callers share one fetch.
//
// The fetch keeps ctx's values but not its cancellation, so a caller that
// gives up only stops waiting; the shared load carries on for everyone else.
func (mc *MemoryCache) GetOrRefreshRates(ctx context.Context, ttl time.Duration, fetch RatesFetcher) (RateTable, error) {
	if !mc.ratesDue(ttl) {
		return mc.Rates(), nil
	}

	fetchCtx := context.WithoutCancel(ctx)
	ch := mc.group.DoChan("rates", func() (any, error) {
		if !mc.ratesDue(ttl) {
			return nil, nil
		}
		envelope, err := fetch(fetchCtx)
		// stamped once the fetch is back, so callers arriving mid-flight join it
		// rather than reading the attempt as a recent failure
		mc.mu.Lock()
		mc.rates.attemptedAt = mc.now().UTC()
		mc.mu.Unlock()
		if err == nil {
			err = mc.DumpRates(envelope)
		}
		if err != nil {
			mc.ClearRates()
			return nil, err
		}
		return nil, nil
	})

	select {
	case res := <-ch:
		return mc.Rates(), res.Err
	case <-ctx.Done():
		return mc.Rates(), ctx.Err()
	}
}

// GetOrRefreshCatalog works like GetOrRefreshRates, except that a ttl of zero
// keeps a loaded catalog forever and a failed load keeps the previous catalog.
func (mc *MemoryCache) GetOrRefreshCatalog(ctx context.Context, ttl time.Duration, fetch CatalogFetcher) ([]CatalogCategory, error) {
	if !mc.catalogDue(ttl) {
		categories, _ := mc.Catalog()
		return categories, nil
	}

	fetchCtx := context.WithoutCancel(ctx)
	ch := mc.group.DoChan("catalog", func() (any, error) {
		if !mc.catalogDue(ttl) {
			return nil, nil
		}
		backup, err := fetch(fetchCtx)
		mc.mu.Lock()
		mc.catalog.attemptedAt = mc.now().UTC()
		mc.mu.Unlock()
		if err != nil {
			return nil, err
		}
		return nil, mc.DumpCatalog(backup)
	})

	var err error
	select {
	case res := <-ch:
		err = res.Err
	case <-ctx.Done():
		err = ctx.Err()
	}
	categories, _ := mc.Catalog()
	return categories, err
}

func (mc *MemoryCache) ratesDue(ttl time.Duration) bool {
	mc.mu.RLock()
	defer mc.mu.RUnlock()
	return isDue(mc.now(), mc.rates.loadedAt, mc.rates.attemptedAt, ttl, mc.failureBackoff)
}

func (mc *MemoryCache) catalogDue(ttl time.Duration) bool {
	mc.mu.RLock()
	defer mc.mu.RUnlock()
	return isDue(mc.now(), mc.catalog.loadedAt, mc.catalog.attemptedAt, ttl, mc.failureBackoff)
}

// isDue reports whether a table loaded at loadedAt needs loading again.
// A ttl <= 0 means a loaded table never expires.
func isDue(now, loadedAt, attemptedAt time.Time, ttl, backoff time.Duration) bool {
	if !loadedAt.IsZero() && (ttl <= 0 || now.Sub(loadedAt) < ttl) {
		return false
	}
	if !attemptedAt.IsZero() && attemptedAt.After(loadedAt) && now.Sub(attemptedAt) < backoff {
		return false
	}
	return true
}
