package service

import (
	"time"

	"github.com/shopspring/decimal"
)

// CostBreakdown is what the booking page shows for a QuoteReq.
// PricePerNight and Total are display strings; the *Base fields are TZS.
type CostBreakdown struct {
	RoomType          string          `json:"roomType"`
	OccupancyLabel    string          `json:"occupancyLabel"`
	TotalGuests       int             `json:"totalGuests"`
	Nights            int             `json:"nights"`
	PricePerNight     string          `json:"pricePerNight"`
	Total             string          `json:"total"`
	Currency          string          `json:"currency"`
	PricePerNightBase int64           `json:"pricePerNightBase"`
	TotalBase         int64           `json:"totalBase"`
	PricePerNightConv decimal.Decimal `json:"pricePerNightConverted"`
	TotalConv         decimal.Decimal `json:"totalConverted"`
	Rate              float64         `json:"rate"`
	RateSource        string          `json:"rateSource,omitempty"`
}

// Conversion is a TZS amount expressed in another currency.
type Conversion struct {
	Currency string
	Amount   decimal.Decimal
	Rate     float64 // target units per 1 TZS
	Source   string
}

type RateQuote struct {
	Code       string  `json:"code"`
	Name       string  `json:"name"`
	Symbol     string  `json:"symbol"`
	Rate       float64 `json:"rate"`
	TZSPerUnit float64 `json:"tzsPerUnit"`
	Source     string  `json:"source"`
}

// RatesView lists the rate used for each supported currency.
type RatesView struct {
	Base       string      `json:"base"`
	FetchedAt  time.Time   `json:"fetchedAt"`
	Live       bool        `json:"live"`
	Currencies []RateQuote `json:"currencies"`
}

// RoomPrices is the occupancy table for one room and where it came from.
type RoomPrices struct {
	RoomType RoomType        `json:"roomType"`
	Prices   OccupancyPrices `json:"prices"`
	Source   string          `json:"source"`
}
