package config

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/exalaa/candidate-client/internal/flagx"
	"github.com/exalaa/candidate-client/internal/timex"
)

// JsonConfig is the on-disk shape of the config file. Pointer fields tell
// "absent" from "zero" so that a partial file only overrides what it names.
type JsonConfig struct {
	ServerBaseURL       *string         `json:"server_base_url"`
	APIPrefix           *string         `json:"api_prefix"`
	RequestTimeout      *timex.Duration `json:"request_timeout"`
	RefreshInterval     *timex.Duration `json:"refresh_interval"`
	OnlineCheckInterval *timex.Duration `json:"online_check_interval"`
	DatabasePath        *string         `json:"database_path"`
	Profile             *string         `json:"profile"`
	LogLevel            *string         `json:"log_level"`
	LogDev              *bool           `json:"log_dev"`
	LogFile             *string         `json:"log_file"`
}

// parseJson overlays cfg with the file named by -c/-config in args.
// Without such a flag it does nothing.
func parseJson(cfg *Config, args []string) error {
	path := flagx.ConfigPath(args)
	if path == "" {
		return nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config %s: %w", path, err)
	}
	var jc JsonConfig
	if err := json.Unmarshal(data, &jc); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}

	setIf(&cfg.ServerBaseURL, jc.ServerBaseURL)
	setIf(&cfg.APIPrefix, jc.APIPrefix)
	setIf(&cfg.DatabasePath, jc.DatabasePath)
	setIf(&cfg.Profile, jc.Profile)
	setIf(&cfg.LogLevel, jc.LogLevel)
	setIf(&cfg.LogDev, jc.LogDev)
	setIf(&cfg.LogFile, jc.LogFile)
	if jc.RequestTimeout != nil {
		cfg.RequestTimeout = jc.RequestTimeout.Duration
	}
	if jc.RefreshInterval != nil {
		cfg.RefreshInterval = jc.RefreshInterval.Duration
	}
	if jc.OnlineCheckInterval != nil {
		cfg.OnlineCheckInterval = jc.OnlineCheckInterval.Duration
	}
	return nil
}

func setIf[T any](dst *T, v *T) {
	if v != nil {
		*dst = *v
	}
}
