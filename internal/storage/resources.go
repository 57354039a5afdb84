package storage

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/spf13/cast"
)

// RatesEnvelope is the body returned by the exchange rate provider.
// Rates are "target units per 1 base unit".
type RatesEnvelope struct {
	Result             string             `json:"result"`
	BaseCode           string             `json:"base_code"`
	TimeLastUpdateUnix int64              `json:"time_last_update_unix"`
	Rates              map[string]float64 `json:"rates"`

	// FetchedAt is stamped locally when the envelope was downloaded.
	FetchedAt time.Time `json:"fetched_at,omitempty"`
}

type CatalogCategory struct {
	Id           int           `json:"id"`
	Name         string        `json:"name"`
	Description  string        `json:"description"`
	CategoryType string        `json:"category_type"`
	Order        int           `json:"order"`
	Items        []CatalogItem `json:"items"`
}

type CatalogItem struct {
	Id          int        `json:"id"`
	Name        string     `json:"name"`
	PriceLabel  string     `json:"price_label"`
	PriceValue  FlexString `json:"price_value"`
	Description string     `json:"description"`
	Featured    bool       `json:"featured"`
	Order       int        `json:"order"`
}

// FlexString accepts any JSON scalar and keeps its text form.
// The pricing admin stores "TZS 180,000" but older rows carry bare numbers.
type FlexString string

// UnmarshalJSON implements custom unmarshaling for FlexString
func (fs *FlexString) UnmarshalJSON(data []byte) error {
	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	s, err := cast.ToStringE(raw)
	if err != nil {
		return fmt.Errorf("failed to read price value %s: %w", string(data), err)
	}
	*fs = FlexString(s)
	return nil
}

func (fs FlexString) String() string {
	return string(fs)
}
