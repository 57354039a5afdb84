package storage

import (
	"strings"
	"time"
)

// RateTable is a point-in-time copy of the live exchange rates.
// The zero value holds no rates, which makes every lookup miss.
type RateTable struct {
	Base      string             `json:"base"`
	Rates     map[string]float64 `json:"rates"`
	FetchedAt time.Time          `json:"fetchedAt"`
}

// GetRate returns the live rate for code when it is present and positive.
func (t RateTable) GetRate(code string) (float64, bool) {
	if t.Rates == nil {
		return 0, false
	}
	rate, ok := t.Rates[strings.ToUpper(code)]
	if !ok || rate <= 0 {
		return 0, false
	}
	return rate, true
}

func (t RateTable) IsEmpty() bool {
	return len(t.Rates) == 0
}

// CatalogBackup is the pricing catalog as stored in the shared backup.
type CatalogBackup struct {
	Categories []CatalogCategory `json:"categories"`
	FetchedAt  time.Time         `json:"fetched_at"`
}

// CacheStatus reports what the memory cache currently holds.
type CacheStatus struct {
	RatesLoadedAt      time.Time `json:"ratesLoadedAt"`
	RatesAttemptedAt   time.Time `json:"ratesAttemptedAt"`
	RatesCount         int       `json:"ratesCount"`
	CatalogLoadedAt    time.Time `json:"catalogLoadedAt"`
	CatalogAttemptedAt time.Time `json:"catalogAttemptedAt"`
	CatalogCategories  int       `json:"catalogCategories"`
}
