package pricing

import (
	"context"

	"github.com/kalongo/booking-pricing/internal/service"
	"github.com/kalongo/booking-pricing/internal/storage"
)

// Client provides a clean public API for the pricing service
type Client struct {
	service *service.PricingService
}

// NewClient creates a new pricing service client
func NewClient(options ...ServiceOption) (*Client, error) {
	svc, err := service.NewPricingService(options...)
	if err != nil {
		return nil, err
	}

	return &Client{
		service: svc,
	}, nil
}

// Initialize loads the catalog and rates and starts the refresh schedulers
func (c *Client) Initialize() error {
	return c.service.Initialize()
}

// Quote computes the cost summary for one booking form state
func (c *Client) Quote(ctx context.Context, req QuoteReq) CostBreakdown {
	return c.service.Quote(ctx, req)
}

// Rates lists the exchange rate used for every supported currency
func (c *Client) Rates(ctx context.Context) RatesView {
	return c.service.Rates(ctx)
}

// RoomPrices returns the nightly occupancy prices for one room type
func (c *Client) RoomPrices(ctx context.Context, room string) RoomPrices {
	return c.service.RoomPrices(ctx, service.ParseRoomType(room))
}

func (c *Client) Status() CacheStatus {
	return c.service.Status()
}

// Stop gracefully shuts down the service
func (c *Client) Stop() error {
	c.service.Stop()
	return nil
}

// Service options (re-exported for convenience)
type ServiceOption = service.ServiceOption

// Re-export service options for clean API
var (
	WithCatalogBaseUrl         = service.WithCatalogBaseUrl
	WithRatesUrl               = service.WithRatesUrl
	WithRedisConfig            = service.WithRedisConfig
	WithRatesTTL               = service.WithRatesTTL
	WithCatalogTTL             = service.WithCatalogTTL
	WithRatesRefreshInterval   = service.WithRatesRefreshInterval
	WithCatalogRefreshInterval = service.WithCatalogRefreshInterval
	WithRequestTimeout         = service.WithRequestTimeout
	WithFailureBackoff         = service.WithFailureBackoff
	WithHTTPClient             = service.WithHTTPClient
	WithLogging                = service.WithLogging
)

// Pure calculation helpers, usable without a running client
var (
	BuildQuote         = service.BuildQuote
	CalculateNights    = service.CalculateNights
	SelectNightlyPrice = service.SelectNightlyPrice
	ConvertFromBase    = service.ConvertFromBase
	FormatAmount       = service.FormatAmount
)

// Re-export common types for convenience
type (
	QuoteReq        = service.QuoteReq
	CostBreakdown   = service.CostBreakdown
	RatesView       = service.RatesView
	RateQuote       = service.RateQuote
	RoomPrices      = service.RoomPrices
	RoomType        = service.RoomType
	OccupancyPrices = service.OccupancyPrices
	RatesEnvelope   = storage.RatesEnvelope
	RateTable       = storage.RateTable
	CatalogCategory = storage.CatalogCategory
	CacheStatus     = storage.CacheStatus
)
