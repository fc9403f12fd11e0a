package config

import (
	"os"
	"path/filepath"
	"strings"
)

const (
	baseURLVar    = "CASEDESK_BASE_URL"
	appNameVar    = "CASEDESK_APP_NAME"
	profileDirVar = "CASEDESK_PROFILE_DIR"
	envVar        = "CASEDESK_ENV"
)

type EnvVars struct{}

var _ EnvConfig = EnvVars{}

// GetBaseURL returns the remote service endpoint. This is the single piece
// of externally visible configuration the client core depends on.
func (EnvVars) GetBaseURL() string {
	return strings.TrimRight(GetEnv(baseURLVar, "http://localhost:8000/api"), "/")
}

func (EnvVars) GetAppName() string {
	return GetEnv(appNameVar, "CaseDesk")
}

// GetProfileDir returns the directory holding the durable session record.
// Only the CLI uses this; library consumers supply their own storage.
func (EnvVars) GetProfileDir() string {
	if dir := GetEnv(profileDirVar, ""); dir != "" {
		return dir
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ".casedesk"
	}
	return filepath.Join(home, ".casedesk")
}

func (EnvVars) GetEnv() string {
	return GetEnv(envVar, "production")
}

func GetEnv(key, defaultValue string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return defaultValue
}
