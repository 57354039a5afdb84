package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math/rand"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/kalongo/booking-pricing/internal/storage"
)

func parseBasicAuthPair(auth string) (username, password string, ok bool) {
	if auth == "" {
		return "", "", false
	}
	parts := strings.SplitN(auth, ":", 2)
	if len(parts) != 2 {
		return "", "", false
	}
	return parts[0], parts[1], true
}

// PricingService keeps the pricing catalog and exchange rates warm and
// answers cost quotes from them.
type PricingService struct {
	backup      storage.Cache
	memCache    *storage.MemoryCache
	opts        *ServiceOptions
	httpClient  *http.Client
	ctx         context.Context
	cancel      context.CancelFunc
	wg          sync.WaitGroup
	mu          sync.RWMutex
	initialized bool
}

// ServiceOptions provides configuration for the pricing service
type ServiceOptions struct {
	RedisAddr              string        `json:"redisAddr"`
	CatalogBaseUrl         string        `json:"catalogBaseUrl"`
	CatalogBasicAuth       string        `json:"catalogBasicAuth"`
	RatesUrl               string        `json:"ratesUrl"`
	RatesTTL               time.Duration `json:"ratesTTL"`
	CatalogTTL             time.Duration `json:"catalogTTL"`
	RatesRefreshInterval   time.Duration `json:"ratesRefreshInterval"`
	CatalogRefreshInterval time.Duration `json:"catalogRefreshInterval"`
	RequestTimeout         time.Duration `json:"requestTimeout"`
	InitialLoadTimeout     time.Duration `json:"initialLoadTimeout"`
	FailureBackoff         time.Duration `json:"failureBackoff"`
	EnableLogging          bool          `json:"enableLogging"`
	HTTPClient             *http.Client  `json:"-"`
}

// DefaultServiceOptions returns sensible default options
func DefaultServiceOptions() *ServiceOptions {
	return &ServiceOptions{
		RatesUrl:           DefaultRatesUrl,
		RatesTTL:           time.Hour,
		RequestTimeout:     15 * time.Second,
		InitialLoadTimeout: 30 * time.Second,
		FailureBackoff:     5 * time.Minute,
		EnableLogging:      true,
	}
}

// NewPricingService creates a new self-managing pricing service
func NewPricingService(options ...ServiceOption) (*PricingService, error) {
	opts := DefaultServiceOptions()

	// Apply options
	for _, option := range options {
		option(opts)
	}

	ctx, cancel := context.WithCancel(context.Background())

	var backup storage.Cache = storage.NopCache{}
	if opts.RedisAddr != "" {
		redisCache, err := storage.NewRedisCache(opts.RedisAddr, storage.WithContext(ctx))
		if err != nil {
			cancel()
			return nil, fmt.Errorf("failed to create Redis cache: %w", err)
		}
		backup = redisCache
	}

	httpClient := opts.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{}
	}

	memCache := storage.NewMemoryCache(storage.WithFailureBackoff(opts.FailureBackoff))

	service := &PricingService{
		backup:     backup,
		memCache:   memCache,
		opts:       opts,
		httpClient: httpClient,
		ctx:        ctx,
		cancel:     cancel,
	}

	return service, nil
}

// ServiceOption is a function that configures service options
type ServiceOption func(*ServiceOptions)

// WithCatalogBaseUrl sets the site API that serves /pricing
func WithCatalogBaseUrl(url, auth string) ServiceOption {
	return func(opts *ServiceOptions) {
		opts.CatalogBaseUrl = url
		opts.CatalogBasicAuth = auth
	}
}

// WithRatesUrl sets the exchange rate endpoint (rates quoted per 1 TZS)
func WithRatesUrl(url string) ServiceOption {
	return func(opts *ServiceOptions) {
		opts.RatesUrl = url
	}
}

// WithRedisConfig sets Redis configuration
func WithRedisConfig(addr string) ServiceOption {
	return func(opts *ServiceOptions) {
		opts.RedisAddr = addr
	}
}

func WithRatesTTL(ttl time.Duration) ServiceOption {
	return func(opts *ServiceOptions) {
		opts.RatesTTL = ttl
	}
}

// WithCatalogTTL sets how long a loaded catalog is used; zero keeps it until restart.
func WithCatalogTTL(ttl time.Duration) ServiceOption {
	return func(opts *ServiceOptions) {
		opts.CatalogTTL = ttl
	}
}

func WithRatesRefreshInterval(interval time.Duration) ServiceOption {
	return func(opts *ServiceOptions) {
		opts.RatesRefreshInterval = interval
	}
}

func WithCatalogRefreshInterval(interval time.Duration) ServiceOption {
	return func(opts *ServiceOptions) {
		opts.CatalogRefreshInterval = interval
	}
}

func WithRequestTimeout(timeout time.Duration) ServiceOption {
	return func(opts *ServiceOptions) {
		opts.RequestTimeout = timeout
	}
}

func WithFailureBackoff(backoff time.Duration) ServiceOption {
	return func(opts *ServiceOptions) {
		opts.FailureBackoff = backoff
	}
}

func WithHTTPClient(client *http.Client) ServiceOption {
	return func(opts *ServiceOptions) {
		opts.HTTPClient = client
	}
}

// WithLogging enables/disables logging
func WithLogging(enabled bool) ServiceOption {
	return func(opts *ServiceOptions) {
		opts.EnableLogging = enabled
	}
}

// Initialize loads the catalog and rates and starts the refresh schedulers.
// Load failures are logged, not returned: quotes fall back to static tables.
func (ps *PricingService) Initialize() error {
	ps.mu.Lock()
	defer ps.mu.Unlock()

	if ps.initialized {
		return nil
	}

	ps.log("🚀 Initializing Pricing Service...")

	ctx, cancel := context.WithTimeout(ps.ctx, ps.opts.InitialLoadTimeout)
	defer cancel()

	if _, err := ps.memCache.GetOrRefreshCatalog(ctx, ps.opts.CatalogTTL, ps.loadCatalog); err != nil {
		ps.log("⚠️ Warning: pricing catalog unavailable, using built-in prices: %v", err)
	}
	if _, err := ps.memCache.GetOrRefreshRates(ctx, ps.opts.RatesTTL, ps.loadRates); err != nil {
		ps.log("⚠️ Warning: exchange rates unavailable, using fallback rates: %v", err)
	}

	ps.startSchedulers()

	ps.initialized = true
	ps.log("✅ Pricing Service initialized successfully")
	return nil
}

// startSchedulers starts background goroutines to keep data fresh
func (ps *PricingService) startSchedulers() {
	ratesInterval := ps.opts.RatesRefreshInterval
	if ratesInterval == 0 {
		ratesInterval = ps.opts.RatesTTL
	}
	if ratesInterval > 0 {
		ps.wg.Add(1)
		go ps.refreshScheduler("Rates", ratesInterval, func(ctx context.Context) error {
			_, err := ps.memCache.GetOrRefreshRates(ctx, ps.opts.RatesTTL, ps.loadRates)
			return err
		})
	}

	if ps.opts.CatalogRefreshInterval > 0 {
		ps.wg.Add(1)
		go ps.refreshScheduler("Catalog", ps.opts.CatalogRefreshInterval, func(ctx context.Context) error {
			_, err := ps.memCache.GetOrRefreshCatalog(ctx, ps.opts.CatalogTTL, ps.loadCatalog)
			return err
		})
	}
}

func (ps *PricingService) refreshScheduler(name string, interval time.Duration, refresh func(ctx context.Context) error) {
	defer ps.wg.Done()

	// Add jitter (±10% of interval) so instances do not refresh in lockstep
	jitteredInterval := addJitter(interval, 0.1)
	ticker := time.NewTicker(jitteredInterval)
	defer ticker.Stop()

	ps.log("🔄 %s refresh scheduler started (base interval: %v, jittered: %v)", name, interval, jitteredInterval)

	for {
		select {
		case <-ps.ctx.Done():
			ps.log("🛑 %s refresh scheduler stopped", name)
			return
		case <-ticker.C:
			if err := refresh(ps.ctx); err != nil {
				ps.log("❌ %s refresh failed: %v", name, err)
			}
		}
	}
}

// Quote computes the cost summary for req. It never fails: missing catalog or
// rates fall back to the built-in tables.
func (ps *PricingService) Quote(ctx context.Context, req QuoteReq) CostBreakdown {
	room := ParseRoomType(req.RoomType)
	if room == RoomNone {
		return BuildQuote(req, nil, storage.RateTable{})
	}

	catalog := ps.catalog(ctx)
	var rates storage.RateTable
	if NormalizeCurrency(req.Currency) != storage.BaseCurrency {
		rates = ps.rates(ctx)
	}
	return BuildQuote(req, catalog, rates)
}

// Rates lists the rate that a quote would use for every supported currency.
func (ps *PricingService) Rates(ctx context.Context) RatesView {
	table := ps.rates(ctx)
	view := RatesView{
		Base:      storage.BaseCurrency,
		FetchedAt: table.FetchedAt,
		Live:      !table.IsEmpty(),
	}
	for _, code := range SupportedCurrencies {
		info := LookupCurrency(code)
		conv := ConvertFromBase(1, code, table)
		q := RateQuote{
			Code:   code,
			Name:   info.Name,
			Symbol: info.Symbol,
			Rate:   conv.Rate,
			Source: conv.Source,
		}
		if conv.Rate > 0 {
			q.TZSPerUnit = 1 / conv.Rate
		}
		view.Currencies = append(view.Currencies, q)
	}
	return view
}

// RoomPrices returns the occupancy table a quote for room would use.
func (ps *PricingService) RoomPrices(ctx context.Context, room RoomType) RoomPrices {
	prices, source := resolveOccupancyPrices(ps.catalog(ctx), room)
	return RoomPrices{RoomType: room, Prices: prices, Source: source}
}

func (ps *PricingService) Status() storage.CacheStatus {
	return ps.memCache.Status()
}

// Stop gracefully shuts down the service
func (ps *PricingService) Stop() {
	ps.log("🛑 Stopping Pricing Service...")

	ps.cancel()  // Signal all goroutines to stop
	ps.wg.Wait() // Wait for all goroutines to finish

	if err := ps.backup.Close(); err != nil {
		ps.log("⚠️ Failed to close backup cache: %v", err)
	}

	ps.log("✅ Pricing Service stopped")
}

func (ps *PricingService) catalog(ctx context.Context) []storage.CatalogCategory {
	categories, err := ps.memCache.GetOrRefreshCatalog(ctx, ps.opts.CatalogTTL, ps.loadCatalog)
	if err != nil {
		ps.log("⚠️ Pricing catalog refresh failed, using built-in prices: %v", err)
	}
	return categories
}

func (ps *PricingService) rates(ctx context.Context) storage.RateTable {
	table, err := ps.memCache.GetOrRefreshRates(ctx, ps.opts.RatesTTL, ps.loadRates)
	if err != nil {
		ps.log("⚠️ Exchange rates refresh failed, using fallback rates: %v", err)
	}
	return table
}

func (ps *PricingService) log(format string, args ...interface{}) {
	if ps.opts.EnableLogging {
		// Use fmt.Printf to write to stdout (INFO level in GCP) instead of stderr (ERROR level)
		fmt.Printf("[PricingService] "+format+"\n", args...)
	}
}

// loadRates prefers a backup written by another instance within the TTL and
// otherwise asks the rate provider, storing what it gets as the new backup.
// The provider is rate limited, so instances sharing Redis take a lock first
// and the losers wait for the winner's backup.
func (ps *PricingService) loadRates(ctx context.Context) (*storage.RatesEnvelope, error) {
	ctx, cancel := ps.serviceContext(ctx)
	defer cancel()

	if envelope := ps.freshRatesBackup(); envelope != nil {
		ps.log("✅ Loaded rates backup from Redis (fetched at %s)", envelope.FetchedAt.Format(time.RFC3339))
		return envelope, nil
	}

	token, locked, err := ps.backup.AcquireLock(ratesLockName, refreshLockTTL)
	switch {
	case err != nil:
		ps.log("⚠️ Warning: %v", err)
	case !locked:
		ps.log("⏳ Another instance is refreshing rates, waiting for its backup...")
		if envelope := ps.waitForRatesBackup(ctx); envelope != nil {
			return envelope, nil
		}
	default:
		defer func() {
			if err := ps.backup.ReleaseLock(ratesLockName, token); err != nil {
				ps.log("⚠️ Warning: %v", err)
			}
		}()
	}

	ps.log("🔄 Refreshing exchange rates...")
	envelope, err := ps.fetchRates(ctx)
	if err != nil {
		return nil, err
	}
	envelope.FetchedAt = time.Now().UTC()

	if err := ps.backup.SetRatesBackup(envelope); err != nil {
		ps.log("Warning: failed to store rates backup in Redis: %v", err)
	}
	ps.log("✅ Exchange rates refreshed (%d currencies)", len(envelope.Rates))
	return envelope, nil
}

func (ps *PricingService) freshRatesBackup() *storage.RatesEnvelope {
	envelope, err := ps.backup.GetRatesBackup()
	if err != nil {
		ps.log("⚠️ Warning: Failed to load rates backup from Redis: %v", err)
		return nil
	}
	if envelope == nil || !isFresh(envelope.FetchedAt, ps.opts.RatesTTL) {
		return nil
	}
	return envelope
}

func (ps *PricingService) waitForRatesBackup(ctx context.Context) *storage.RatesEnvelope {
	ctx, cancel := context.WithTimeout(ctx, backupWaitTimeout)
	defer cancel()

	ticker := time.NewTicker(backupPollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			if envelope := ps.freshRatesBackup(); envelope != nil {
				return envelope
			}
		}
	}
}

func (ps *PricingService) loadCatalog(ctx context.Context) (*storage.CatalogBackup, error) {
	ctx, cancel := ps.serviceContext(ctx)
	defer cancel()

	backup, err := ps.backup.GetCatalogBackup()
	if err != nil {
		ps.log("⚠️ Warning: Failed to load catalog backup from Redis: %v", err)
	} else if backup != nil && isFresh(backup.FetchedAt, ps.opts.CatalogTTL) {
		ps.log("✅ Loaded pricing catalog backup from Redis (%d categories)", len(backup.Categories))
		return backup, nil
	}

	ps.log("🔄 Refreshing pricing catalog...")
	categories, err := ps.fetchCatalog(ctx)
	if err != nil {
		if backup != nil {
			ps.log("⚠️ Catalog fetch failed, using backup from %s: %v", backup.FetchedAt.Format(time.RFC3339), err)
			return backup, nil
		}
		return nil, err
	}
	backup = &storage.CatalogBackup{
		Categories: categories,
		FetchedAt:  time.Now().UTC(),
	}

	if err := ps.backup.SetCatalogBackup(backup); err != nil {
		ps.log("Warning: failed to store catalog backup in Redis: %v", err)
	}
	ps.log("✅ Pricing catalog refreshed (%d categories)", len(categories))
	return backup, nil
}

// fetchRates fetches rates from the exchange rate provider
func (ps *PricingService) fetchRates(ctx context.Context) (*storage.RatesEnvelope, error) {
	if ps.opts.RatesUrl == "" {
		return nil, errors.New("rates url is not configured")
	}
	var env storage.RatesEnvelope
	if err := ps.getJSON(ctx, ps.opts.RatesUrl, "", &env); err != nil {
		return nil, fmt.Errorf("rates: %w", err)
	}
	if env.Result != "success" || len(env.Rates) == 0 {
		return nil, fmt.Errorf("rates: provider returned result %q with %d rates", env.Result, len(env.Rates))
	}
	return &env, nil
}

// fetchCatalog fetches the pricing categories from the site API
func (ps *PricingService) fetchCatalog(ctx context.Context) ([]storage.CatalogCategory, error) {
	if ps.opts.CatalogBaseUrl == "" {
		return nil, errors.New("catalog url is not configured")
	}
	url := strings.TrimSuffix(ps.opts.CatalogBaseUrl, "/") + "/pricing"
	var categories []storage.CatalogCategory
	if err := ps.getJSON(ctx, url, ps.opts.CatalogBasicAuth, &categories); err != nil {
		return nil, fmt.Errorf("catalog: %w", err)
	}
	return categories, nil
}

func (ps *PricingService) getJSON(ctx context.Context, url, auth string, dest any) error {
	if ps.opts.RequestTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, ps.opts.RequestTimeout)
		defer cancel()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	if user, pass, ok := parseBasicAuthPair(auth); ok {
		req.SetBasicAuth(user, pass)
	}

	resp, err := ps.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return fmt.Errorf("http %d: %s", resp.StatusCode, strings.TrimSpace(string(b)))
	}
	return json.NewDecoder(resp.Body).Decode(dest)
}

// serviceContext ends ctx when the service stops. Loads run detached from the
// caller that triggered them, so this is what bounds them besides RequestTimeout.
func (ps *PricingService) serviceContext(ctx context.Context) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(ctx)
	stop := context.AfterFunc(ps.ctx, cancel)
	return ctx, func() {
		stop()
		cancel()
	}
}

// isFresh reports whether a backup fetched at fetchedAt is still inside ttl.
// Without a ttl a backup is never fresh, only a last resort.
func isFresh(fetchedAt time.Time, ttl time.Duration) bool {
	if fetchedAt.IsZero() || ttl <= 0 {
		return false
	}
	return time.Since(fetchedAt) < ttl
}

// addJitter adds random jitter so that several instances do not refresh together
// jitterPercent should be between 0.0-1.0 (e.g., 0.1 = ±10%)
func addJitter(duration time.Duration, jitterPercent float64) time.Duration {
	if jitterPercent <= 0 {
		return duration
	}

	// Calculate jitter range
	jitterRange := float64(duration) * jitterPercent

	// Generate random jitter: ±jitterPercent of original duration
	jitter := (rand.Float64() - 0.5) * 2 * jitterRange

	// Apply jitter, ensure positive result
	result := time.Duration(float64(duration) + jitter)
	if result <= 0 {
		result = duration / 2 // Fallback to half duration if negative
	}

	return result
}
