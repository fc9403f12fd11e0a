package config

import "time"

type Config interface {
	EnvConfig
	CacheConfig
}

type EnvConfig interface {
	GetBaseURL() string
	GetAppName() string
	GetProfileDir() string
	GetEnv() string
}

// CacheConfig controls staleness windows for the query cache. List views
// refetch frequently; lookup tables change rarely and can be held longer.
type CacheConfig interface {
	GetListStaleness() time.Duration
	GetLookupStaleness() time.Duration
}

type mainConfig struct {
	EnvVars
	Cache
}

func New() Config {
	return mainConfig{}
}
