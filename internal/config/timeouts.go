package config

import (
	"os"
	"strconv"
	"time"
)

// Timeouts holds all configurable timeout values.
// These values can be customized via environment variables.
type Timeouts struct {
	Launch           time.Duration // Timeout for launching one instance
	Exec             time.Duration // Timeout for one in-guest command
	List             time.Duration // Timeout for listing instances
	Delete           time.Duration // Timeout for deleting one instance
	MDSActive        time.Duration // Timeout for the filesystem MDS to become active
	RetryMaxAttempts int           // Maximum attempts for retried steps
	RetryDelay       time.Duration // Delay between retry attempts
}

// LoadTimeouts loads timeout configuration from environment variables.
// If an environment variable is not set or invalid, a default value is used.
//
// Environment Variables:
//   - CEPHUP_TIMEOUT_LAUNCH (default: 10m)
//   - CEPHUP_TIMEOUT_EXEC (default: 4m)
//   - CEPHUP_TIMEOUT_LIST (default: 30s)
//   - CEPHUP_TIMEOUT_DELETE (default: 2m)
//   - CEPHUP_TIMEOUT_MDS_ACTIVE (default: 5m)
//   - CEPHUP_RETRY_MAX_ATTEMPTS (default: 3)
//   - CEPHUP_RETRY_DELAY (default: 5s)
func LoadTimeouts() *Timeouts {
	return &Timeouts{
		Launch:           parseDuration("CEPHUP_TIMEOUT_LAUNCH", 10*time.Minute),
		Exec:             parseDuration("CEPHUP_TIMEOUT_EXEC", 4*time.Minute),
		List:             parseDuration("CEPHUP_TIMEOUT_LIST", 30*time.Second),
		Delete:           parseDuration("CEPHUP_TIMEOUT_DELETE", 2*time.Minute),
		MDSActive:        parseDuration("CEPHUP_TIMEOUT_MDS_ACTIVE", 5*time.Minute),
		RetryMaxAttempts: parseInt("CEPHUP_RETRY_MAX_ATTEMPTS", 3),
		RetryDelay:       parseDuration("CEPHUP_RETRY_DELAY", 5*time.Second),
	}
}

// parseDuration parses a duration from an environment variable.
// If the variable is not set or parsing fails, the default value is returned.
func parseDuration(envVar string, defaultVal time.Duration) time.Duration {
	val := os.Getenv(envVar)
	if val == "" {
		return defaultVal
	}

	d, err := time.ParseDuration(val)
	if err != nil {
		return defaultVal
	}

	return d
}

// parseInt parses an integer from an environment variable.
// If the variable is not set or parsing fails, the default value is returned.
func parseInt(envVar string, defaultVal int) int {
	val := os.Getenv(envVar)
	if val == "" {
		return defaultVal
	}

	i, err := strconv.Atoi(val)
	if err != nil {
		return defaultVal
	}

	return i
}
