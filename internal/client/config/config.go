package config

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"golang.org/x/term"
)

// MinInterval is the shortest accepted timeout or polling interval.
const MinInterval = time.Second

// DefaultLogFile is the rotatelogs pattern used when the client runs in a
// terminal and no log file is configured, so log lines stay out of the REPL.
const DefaultLogFile = "exalaa-%Y%m%d.log"

// Config holds runtime settings for the candidate client.
//
// RefreshInterval drives the applications re-fetch while the dashboard is
// shown; OnlineCheckInterval drives the backend liveness probe.
type Config struct {
	ServerBaseURL       string
	APIPrefix           string
	RequestTimeout      time.Duration
	RefreshInterval     time.Duration
	OnlineCheckInterval time.Duration
	DatabasePath        string
	Profile             string
	LogLevel            string
	LogDev              bool
	LogFile             string
}

// LoadDefaults populates c with defaults suitable for a local backend.
func (c *Config) LoadDefaults() {
	c.ServerBaseURL = "http://127.0.0.1:8000"
	c.APIPrefix = "/api/v1"
	c.RequestTimeout = 10 * time.Second
	c.RefreshInterval = 30 * time.Second
	c.OnlineCheckInterval = 5 * time.Second
	c.DatabasePath = "exalaa.db"
	c.Profile = "default"
	c.LogLevel = "info"
}

// LoadConfig builds a Config from defaults, environment, an optional JSON
// file and command-line flags, in that order.
func LoadConfig() (*Config, error) {
	// .env is optional.
	_ = godotenv.Load()
	return load(os.Args[1:], os.LookupEnv, term.IsTerminal(int(os.Stdin.Fd())))
}

func load(args []string, lookup func(string) (string, bool), interactive bool) (*Config, error) {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseEnv(cfg, lookup)
	if err := parseJson(cfg, args); err != nil {
		return nil, err
	}
	if err := parseFlags(cfg, args); err != nil {
		return nil, err
	}
	if interactive && cfg.LogFile == "" {
		cfg.LogFile = DefaultLogFile
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	for _, d := range []struct {
		name  string
		value time.Duration
	}{
		{"request timeout", c.RequestTimeout},
		{"refresh interval", c.RefreshInterval},
		{"online check interval", c.OnlineCheckInterval},
	} {
		if d.value < MinInterval {
			return fmt.Errorf("%s %s is below the %s minimum", d.name, d.value, MinInterval)
		}
	}
	return nil
}
