package config

import (
	"flag"
	"fmt"
	"io"
	"time"

	"github.com/exalaa/candidate-client/internal/flagx"
)

// parseFlags applies the command-line flags listed in the package doc.
// Arguments that belong to other layers (-c/-config) are filtered out first.
func parseFlags(cfg *Config, args []string) error {
	args = flagx.FilterArgs(args, []string{"-a", "-p", "-t", "-i", "-o", "-d", "-s", "-l", "-f"})

	fs := flag.NewFlagSet("client", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	fs.StringVar(&cfg.ServerBaseURL, "a", cfg.ServerBaseURL, "backend base URL")
	fs.StringVar(&cfg.APIPrefix, "p", cfg.APIPrefix, "API prefix")
	requestTimeout := fs.Int("t", int(cfg.RequestTimeout.Seconds()), "request timeout (in seconds)")
	refreshInterval := fs.Int("i", int(cfg.RefreshInterval.Seconds()), "applications refresh interval (in seconds)")
	onlineCheckInterval := fs.Int("o", int(cfg.OnlineCheckInterval.Seconds()), "online check interval (in seconds)")
	fs.StringVar(&cfg.DatabasePath, "d", cfg.DatabasePath, "local database path")
	fs.StringVar(&cfg.Profile, "s", cfg.Profile, "credential scope")
	fs.StringVar(&cfg.LogLevel, "l", cfg.LogLevel, "log level")
	fs.StringVar(&cfg.LogFile, "f", cfg.LogFile, "log file pattern")

	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("parse flags: %w", err)
	}

	// Interval flags only override when given, so sub-second values from
	// earlier layers survive.
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "t":
			cfg.RequestTimeout = time.Duration(*requestTimeout) * time.Second
		case "i":
			cfg.RefreshInterval = time.Duration(*refreshInterval) * time.Second
		case "o":
			cfg.OnlineCheckInterval = time.Duration(*onlineCheckInterval) * time.Second
		}
	})
	return nil
}
