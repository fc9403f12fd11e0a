package config

import (
	"strconv"
	"time"
)

const (
	listStalenessVar   = "CASEDESK_LIST_STALENESS_SECONDS"
	lookupStalenessVar = "CASEDESK_LOOKUP_STALENESS_SECONDS"
)

type Cache struct{}

var _ CacheConfig = Cache{}

// GetListStaleness is the maximum age at which a cached list view is served
// without a refetch. Default 30 seconds.
func (Cache) GetListStaleness() time.Duration {
	return secondsFromEnv(listStalenessVar, 30*time.Second)
}

// GetLookupStaleness covers slow-changing lookup tables such as case types.
// Default 5 minutes.
func (Cache) GetLookupStaleness() time.Duration {
	return secondsFromEnv(lookupStalenessVar, 5*time.Minute)
}

func secondsFromEnv(key string, defaultValue time.Duration) time.Duration {
	raw := GetEnv(key, "")
	if raw == "" {
		return defaultValue
	}
	seconds, err := strconv.Atoi(raw)
	if err != nil || seconds <= 0 {
		return defaultValue
	}
	return time.Duration(seconds) * time.Second
}
