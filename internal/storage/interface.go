package storage

import (
	"time"
)

// Cache defines the interface for backup operations shared between instances
type Cache interface {
	SetRatesBackup(envelope *RatesEnvelope) error
	GetRatesBackup() (*RatesEnvelope, error)
	SetCatalogBackup(backup *CatalogBackup) error
	GetCatalogBackup() (*CatalogBackup, error)
	// AcquireLock takes a short named lock so that only one instance refreshes
	// a table at a time. The returned token releases it.
	AcquireLock(name string, ttl time.Duration) (token string, ok bool, err error)
	ReleaseLock(name, token string) error
	Close() error
}

type CacheOptions struct {
	DefaultTTL time.Duration
}

func DefaultCacheOptions() *CacheOptions {
	return &CacheOptions{
		DefaultTTL: 24 * time.Hour,
	}
}

// NopCache is used when no Redis is configured. Every read is a miss.
type NopCache struct{}

func (NopCache) SetRatesBackup(*RatesEnvelope) error { return nil }
func (NopCache) GetRatesBackup() (*RatesEnvelope, error) { return nil, nil }
func (NopCache) SetCatalogBackup(*CatalogBackup) error { return nil }
func (NopCache) GetCatalogBackup() (*CatalogBackup, error) { return nil, nil }
func (NopCache) AcquireLock(string, time.Duration) (string, bool, error) { return "", true, nil }
func (NopCache) ReleaseLock(string, string) error { return nil }
func (NopCache) Close() error { return nil }
