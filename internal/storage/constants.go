package storage

import "time"

const (
	BaseCurrency = "TZS"

	ratesBackupKey   = "pricing:rates_backup"
	catalogBackupKey = "pricing:catalog_backup"
	lockKeyPrefix    = "pricing:lock:"

	// ratesResultSuccess is the "result" value of a usable rates response.
	ratesResultSuccess = "success"

	defaultFailureBackoff = 5 * time.Minute
)
