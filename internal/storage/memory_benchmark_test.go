package storage

import (
	"context"
	"testing"
	"time"
)

func benchRatesEnvelope() *RatesEnvelope {
	return &RatesEnvelope{
		Result:   "success",
		BaseCode: "TZS",
		Rates: map[string]float64{
			"TZS": 1,
			"USD": 0.000379,
			"EUR": 0.000351,
			"GBP": 0.0003,
			"KES": 0.05,
			"ZAR": 0.0069,
		},
		FetchedAt: time.Now().UTC(),
	}
}

func BenchmarkMemoryCache_GetRate(b *testing.B) {
	cache := NewMemoryCache()
	cache.DumpRates(benchRatesEnvelope())

	b.ResetTimer()
	b.RunParallel(func(pb *testing.PB) {
		for pb.Next() {
			_, _ = cache.GetRate("USD")
		}
	})
}

func BenchmarkMemoryCache_Rates(b *testing.B) {
	cache := NewMemoryCache()
	cache.DumpRates(benchRatesEnvelope())

	b.ResetTimer()
	b.RunParallel(func(pb *testing.PB) {
		for pb.Next() {
			_ = cache.Rates()
		}
	})
}

func BenchmarkMemoryCache_GetOrRefreshRatesFresh(b *testing.B) {
	cache := NewMemoryCache()
	cache.DumpRates(benchRatesEnvelope())
	fetch := func(ctx context.Context) (*RatesEnvelope, error) {
		return benchRatesEnvelope(), nil
	}
	ctx := context.Background()

	b.ResetTimer()
	b.RunParallel(func(pb *testing.PB) {
		for pb.Next() {
			_, _ = cache.GetOrRefreshRates(ctx, time.Hour, fetch)
		}
	})
}

func BenchmarkMemoryCache_ConcurrentRatesAndCatalog(b *testing.B) {
	cache := NewMemoryCache()
	cache.DumpRates(benchRatesEnvelope())
	cache.DumpCatalog(&CatalogBackup{
		Categories: []CatalogCategory{
			{
				Name:         "Accommodation",
				CategoryType: "accommodation",
				Items: []CatalogItem{
					{Name: "A-Cabin", PriceLabel: "Couple", PriceValue: "TZS 180,000"},
				},
			},
		},
	})

	b.ResetTimer()
	b.RunParallel(func(pb *testing.PB) {
		i := 0
		for pb.Next() {
			if i%2 == 0 {
				_, _ = cache.GetRate("EUR")
			} else {
				_, _ = cache.Catalog()
			}
			i++
		}
	})
}
