package service

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kalongo/booking-pricing/internal/storage"
)

const testCatalogJSON = `[
  {
    "id": 1,
    "name": "Activities",
    "category_type": "activities",
    "items": [
      {"id": 10, "name": "Cottage", "price_label": "Single", "price_value": "TZS 1"}
    ]
  },
  {
    "id": 2,
    "name": "Accommodation (BB)",
    "category_type": "accommodation",
    "items": [
      {"id": 20, "name": "A Cabin", "price_label": "Single occupancy", "price_value": "TZS 160,000"},
      {"id": 21, "name": "A Cabin", "price_label": "Couple", "price_value": 200000},
      {"id": 22, "name": "A Cabin", "price_label": "Couple (promo)", "price_value": "TZS 1,000"},
      {"id": 23, "name": "Family", "price_label": "Couple", "price_value": "TZS 260,000"},
      {"id": 24, "name": "Family", "price_label": "5 occupants", "price_value": "TZS 600,000"},
      {"id": 25, "name": "Kikota", "price_label": "Per night", "price_value": "TZS 420,000"},
      {"id": 26, "name": "Tents", "price_label": "Single", "price_value": "TZS 55,000"},
      {"id": 27, "name": "Tents", "price_label": "Double", "price_value": "TZS 85,000"},
      {"id": 28, "name": "Cottages", "price_label": "Single", "price_value": ""}
    ]
  }
]`

func testCatalog(t *testing.T) []storage.CatalogCategory {
	t.Helper()
	var categories []storage.CatalogCategory
	require.NoError(t, json.Unmarshal([]byte(testCatalogJSON), &categories))
	return categories
}

func TestParseRoomType(t *testing.T) {
	tests := map[string]RoomType{
		"A-Cabin":       RoomACabin,
		"A Cabin":       RoomACabin,
		"cabin":         RoomACabin,
		"Cottage":       RoomCottage,
		"Cottages":      RoomCottage,
		"Family":        RoomFamilyHouse,
		"Family House":  RoomFamilyHouse,
		"KIKOTA":        RoomKikota,
		" Tents ":       RoomTent,
		"Tent":          RoomTent,
		"None":          RoomNone,
		"":              RoomNone,
		"Presidential":  RoomNone,
		"family villas": RoomNone,
	}

	for input, expected := range tests {
		assert.Equal(t, expected, ParseRoomType(input), "input %q", input)
	}
}

func TestResolveOccupancyPrices(t *testing.T) {
	catalog := testCatalog(t)

	tests := []struct {
		name           string
		room           RoomType
		expectedPrices OccupancyPrices
		expectedSource string
	}{
		{
			name:           "A-Cabin - first row per bucket wins",
			room:           RoomACabin,
			expectedPrices: OccupancyPrices{OccupancySingle: 160000, OccupancyCouple: 200000},
			expectedSource: PriceSourceCatalog,
		},
		{
			name:           "Family House from alias",
			room:           RoomFamilyHouse,
			expectedPrices: OccupancyPrices{OccupancyCouple: 260000, OccupancyFive: 600000},
			expectedSource: PriceSourceCatalog,
		},
		{
			name:           "Kikota - any label is per person",
			room:           RoomKikota,
			expectedPrices: OccupancyPrices{OccupancyPerPerson: 420000},
			expectedSource: PriceSourceCatalog,
		},
		{
			name:           "Tent",
			room:           RoomTent,
			expectedPrices: OccupancyPrices{OccupancySingle: 55000, OccupancyDouble: 85000},
			expectedSource: PriceSourceCatalog,
		},
		{
			name:           "Cottage - empty price is kept as zero",
			room:           RoomCottage,
			expectedPrices: OccupancyPrices{OccupancySingle: 0},
			expectedSource: PriceSourceCatalog,
		},
		{
			name:           "None",
			room:           RoomNone,
			expectedPrices: OccupancyPrices{},
			expectedSource: PriceSourceFallback,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			prices, source := resolveOccupancyPrices(catalog, tt.room)
			assert.Equal(t, tt.expectedPrices, prices)
			assert.Equal(t, tt.expectedSource, source)
		})
	}
}

func TestResolveOccupancyPrices_Fallback(t *testing.T) {
	t.Run("no catalog", func(t *testing.T) {
		prices, source := resolveOccupancyPrices(nil, RoomACabin)
		assert.Equal(t, PriceSourceFallback, source)
		assert.Equal(t, DefaultCouplePrice, prices[OccupancyCouple])
	})

	t.Run("no accommodation category", func(t *testing.T) {
		catalog := testCatalog(t)[:1]
		_, source := resolveOccupancyPrices(catalog, RoomCottage)
		assert.Equal(t, PriceSourceFallback, source)
	})

	t.Run("room not listed", func(t *testing.T) {
		catalog := testCatalog(t)
		catalog[1].Items = catalog[1].Items[:2]
		prices, source := resolveOccupancyPrices(catalog, RoomTent)
		assert.Equal(t, PriceSourceFallback, source)
		assert.Equal(t, DefaultTentDoublePrice, prices[OccupancyDouble])
	})

	t.Run("fallback table is a copy", func(t *testing.T) {
		prices := ResolveOccupancyPrices(nil, RoomTent)
		prices[OccupancySingle] = 1
		assert.Equal(t, DefaultTentSinglePrice, fallbackOccupancyPrices[RoomTent][OccupancySingle])
	})
}

func TestQuoteWithCatalog(t *testing.T) {
	catalog := testCatalog(t)

	q := BuildQuote(QuoteReq{RoomType: "Cottage", CheckIn: "2024-06-01", CheckOut: "2024-06-02", Adults: 1}, catalog, storage.RateTable{})
	assert.Equal(t, DefaultSinglePrice, q.PricePerNightBase, "zero catalog price uses the built-in one")

	q = BuildQuote(QuoteReq{RoomType: "Family House", CheckIn: "2024-06-01", CheckOut: "2024-06-02", Adults: 7}, catalog, storage.RateTable{})
	assert.Equal(t, int64(860000), q.PricePerNightBase)
}

func TestOccupancyFromLabel(t *testing.T) {
	tests := []struct {
		room     RoomType
		label    string
		expected Occupancy
	}{
		{RoomACabin, "Single occupancy", OccupancySingle},
		{RoomACabin, "COUPLE", OccupancyCouple},
		{RoomFamilyHouse, "5 occupants", OccupancyFive},
		{RoomFamilyHouse, "Up to five occupants", OccupancyFive},
		{RoomTent, "Double", OccupancyDouble},
		{RoomTent, "", OccupancyPerPerson},
		{RoomKikota, "Single", OccupancyPerPerson},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, occupancyFromLabel(tt.room, tt.label), "%s %q", tt.room, tt.label)
	}
}

func TestParsePriceValue(t *testing.T) {
	assert.Equal(t, int64(180000), parsePriceValue("TZS 180,000"))
	assert.Equal(t, int64(55000), parsePriceValue("55000"))
	assert.Equal(t, int64(0), parsePriceValue("on request"))
	assert.Equal(t, int64(0), parsePriceValue(""))
	assert.Equal(t, int64(0), parsePriceValue("99999999999999999999999"))
}
