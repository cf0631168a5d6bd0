package config

import (
	"strings"
	"time"
)

const envPrefix = "EXALAA_"

// parseEnv overlays cfg with EXALAA_* variables. Malformed durations are
// ignored and the previous value is kept.
func parseEnv(cfg *Config, lookup func(string) (string, bool)) {
	str := func(key string, dst *string) {
		if v, ok := lookup(envPrefix + key); ok && strings.TrimSpace(v) != "" {
			*dst = strings.TrimSpace(v)
		}
	}
	dur := func(key string, dst *time.Duration) {
		if v, ok := lookup(envPrefix + key); ok {
			if parsed, err := time.ParseDuration(strings.TrimSpace(v)); err == nil {
				*dst = parsed
			}
		}
	}

	str("API_URL", &cfg.ServerBaseURL)
	str("API_PREFIX", &cfg.APIPrefix)
	dur("REQUEST_TIMEOUT", &cfg.RequestTimeout)
	dur("REFRESH_INTERVAL", &cfg.RefreshInterval)
	dur("ONLINE_CHECK_INTERVAL", &cfg.OnlineCheckInterval)
	str("DB", &cfg.DatabasePath)
	str("PROFILE", &cfg.Profile)
	str("LOG_LEVEL", &cfg.LogLevel)
	str("LOG_FILE", &cfg.LogFile)

	if v, ok := lookup(envPrefix + "LOG_DEV"); ok {
		cfg.LogDev = v == "1" || strings.EqualFold(v, "true")
	}
}
