package service

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/kalongo/booking-pricing/internal/storage"
)

func TestConvertFromBase_Fallback(t *testing.T) {
	tests := []struct {
		currency string
		expected string
	}{
		{currency: "TZS", expected: "TZS 1,000,000"},
		{currency: "", expected: "TZS 1,000,000"},
		{currency: "USD", expected: "$378.79"},
		{currency: "usd", expected: "$378.79"},
		{currency: "EUR", expected: "€350.88"},
		{currency: "GBP", expected: "£300.30"},
		{currency: "KES", expected: "KSh 50,000"},
		{currency: "ZAR", expected: "R 6,896.55"},
		{currency: "XYZ", expected: "XYZ 378.79"},
	}

	for _, tt := range tests {
		t.Run(tt.currency, func(t *testing.T) {
			conv := ConvertFromBase(1000000, tt.currency, storage.RateTable{})
			assert.Equal(t, tt.expected, FormatAmount(conv.Amount, tt.currency))
		})
	}
}

func TestConvertFromBase_Sources(t *testing.T) {
	live := storage.RateTable{Base: "TZS", Rates: map[string]float64{"USD": 0.0004, "EUR": 0}}

	conv := ConvertFromBase(1000, "TZS", live)
	assert.Equal(t, RateSourceIdentity, conv.Source)
	assert.True(t, conv.Amount.Equal(decimal.NewFromInt(1000)))

	conv = ConvertFromBase(1000000, "USD", live)
	assert.Equal(t, RateSourceLive, conv.Source)
	assert.Equal(t, 0.0004, conv.Rate)
	assert.True(t, conv.Amount.Equal(decimal.NewFromInt(400)))

	// zero live rate is not usable
	conv = ConvertFromBase(2850, "EUR", live)
	assert.Equal(t, RateSourceFallback, conv.Source)
	assert.True(t, conv.Amount.Equal(decimal.NewFromInt(1)))

	conv = ConvertFromBase(2640, "GBP", live)
	assert.Equal(t, RateSourceFallback, conv.Source)
	assert.InDelta(t, 1.0/3330, conv.Rate, 1e-12)
}

func TestConvertFromBase_IgnoresForeignBase(t *testing.T) {
	usdBased := storage.RateTable{Base: "USD", Rates: map[string]float64{"USD": 1, "EUR": 0.9}}

	conv := ConvertFromBase(2640, "USD", usdBased)
	assert.Equal(t, RateSourceFallback, conv.Source)
	assert.True(t, conv.Amount.Equal(decimal.NewFromInt(1)))
}

func TestFormatAmount(t *testing.T) {
	assert.Equal(t, "TZS 0", FormatBase(0))
	assert.Equal(t, "TZS 950", FormatBase(950))
	assert.Equal(t, "TZS 1,234,567", FormatBase(1234567))
	assert.Equal(t, "$0.50", FormatAmount(decimal.RequireFromString("0.499"), "USD"))
	assert.Equal(t, "$1,000.00", FormatAmount(decimal.NewFromInt(1000), "USD"))
	assert.Equal(t, "KSh 13", FormatAmount(decimal.RequireFromString("12.5"), "KES"))
}

func TestLookupCurrency(t *testing.T) {
	usd := LookupCurrency(" usd ")
	assert.Equal(t, "USD", usd.Code)
	assert.Equal(t, "$", usd.Symbol)
	assert.Equal(t, 2, usd.Decimals)

	unknown := LookupCurrency("chf")
	assert.Equal(t, "CHF", unknown.Code)
	assert.Equal(t, "CHF", unknown.Symbol)
	assert.Equal(t, 2, unknown.Decimals)

	for _, code := range SupportedCurrencies {
		_, ok := currencyInfo[code]
		assert.True(t, ok, "missing display info for %s", code)
		_, ok = fallbackRates[code]
		assert.True(t, ok, "missing fallback rate for %s", code)
	}
}
