package service

import (
	"time"

	"github.com/kalongo/booking-pricing/internal/storage"
)

// RoomType selects the pricing rule applied to a stay.
type RoomType string

const (
	RoomACabin      RoomType = "A-Cabin"
	RoomCottage     RoomType = "Cottage"
	RoomFamilyHouse RoomType = "Family House"
	RoomKikota      RoomType = "Kikota"
	RoomTent        RoomType = "Tent"
	RoomNone        RoomType = "None"
)

// Occupancy is a price bucket inside one room type.
type Occupancy string

const (
	OccupancySingle    Occupancy = "single"
	OccupancyCouple    Occupancy = "couple"
	OccupancyFive      Occupancy = "five"
	OccupancyDouble    Occupancy = "double"
	OccupancyPerPerson Occupancy = "per_person"
)

// Nightly prices in TZS used when the catalog has no usable value.
const (
	DefaultSinglePrice          int64 = 150000
	DefaultCouplePrice          int64 = 180000
	DefaultFamilyTwoPrice       int64 = 250000
	DefaultFamilyFivePrice      int64 = 550000
	DefaultKikotaPerPersonPrice int64 = 400000
	DefaultTentSinglePrice      int64 = 50000
	DefaultTentDoublePrice      int64 = 80000
)

const (
	Placeholder = "—"

	RateSourceIdentity = "identity"
	RateSourceLive     = "live"
	RateSourceFallback = "fallback"

	PriceSourceCatalog  = "catalog"
	PriceSourceFallback = "fallback"

	familyGroupSize = 5

	accommodationCategory = "accommodation"

	// defaultFallbackRate is used for a currency missing from both tables.
	defaultFallbackRate int64 = 2640

	DefaultRatesUrl = "https://open.er-api.com/v6/latest/" + storage.BaseCurrency

	ratesLockName      = "rates"
	refreshLockTTL     = 30 * time.Second
	backupWaitTimeout  = 3 * time.Second
	backupPollInterval = 100 * time.Millisecond
)

// CurrencyInfo describes how amounts in one currency are displayed.
type CurrencyInfo struct {
	Code             string `json:"code"`
	Symbol           string `json:"symbol"`
	Name             string `json:"name"`
	Decimals         int    `json:"decimals"`
	SpaceAfterSymbol bool   `json:"-"`
}

// SupportedCurrencies is the display order used by the rates listing.
var SupportedCurrencies = []string{"TZS", "USD", "EUR", "GBP", "KES", "ZAR"}

var currencyInfo = map[string]CurrencyInfo{
	"TZS": {Code: "TZS", Symbol: "TZS", Name: "Tanzanian Shilling", Decimals: 0, SpaceAfterSymbol: true},
	"USD": {Code: "USD", Symbol: "$", Name: "US Dollar", Decimals: 2},
	"EUR": {Code: "EUR", Symbol: "€", Name: "Euro", Decimals: 2},
	"GBP": {Code: "GBP", Symbol: "£", Name: "British Pound", Decimals: 2},
	"KES": {Code: "KES", Symbol: "KSh", Name: "Kenyan Shilling", Decimals: 0, SpaceAfterSymbol: true},
	"ZAR": {Code: "ZAR", Symbol: "R", Name: "South African Rand", Decimals: 2, SpaceAfterSymbol: true},
}

// fallbackRates are approximate TZS per 1 unit of the currency.
// Note the orientation is the inverse of the live table.
var fallbackRates = map[string]int64{
	"TZS": 1,
	"USD": 2640,
	"EUR": 2850,
	"GBP": 3330,
	"KES": 20,
	"ZAR": 145,
}

var fallbackOccupancyPrices = map[RoomType]OccupancyPrices{
	RoomACabin: {
		OccupancySingle: DefaultSinglePrice,
		OccupancyCouple: DefaultCouplePrice,
	},
	RoomCottage: {
		OccupancySingle: DefaultSinglePrice,
		OccupancyCouple: DefaultCouplePrice,
	},
	RoomFamilyHouse: {
		OccupancyCouple: DefaultFamilyTwoPrice,
		OccupancyFive:   DefaultFamilyFivePrice,
	},
	RoomKikota: {
		OccupancyPerPerson: DefaultKikotaPerPersonPrice,
	},
	RoomTent: {
		OccupancySingle: DefaultTentSinglePrice,
		OccupancyDouble: DefaultTentDoublePrice,
	},
}

// roomAliases maps lower-cased catalog and form names onto room types.
var roomAliases = map[string]RoomType{
	"a-cabin":      RoomACabin,
	"a cabin":      RoomACabin,
	"acabin":       RoomACabin,
	"cabin":        RoomACabin,
	"cottage":      RoomCottage,
	"cottages":     RoomCottage,
	"family":       RoomFamilyHouse,
	"family house": RoomFamilyHouse,
	"kikota":       RoomKikota,
	"tent":         RoomTent,
	"tents":        RoomTent,
	"none":         RoomNone,
}
