// Package config loads runtime configuration for the candidate client.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Environment variables prefixed with EXALAA_; a .env file in the working
//     directory is loaded first when present.
//  3. Optional JSON file selected via -c or -config.
//  4. Command-line flags, which override everything else.
//
// Supported flags
//
//	-a string   backend base URL, e.g. http://127.0.0.1:8000
//	-p string   API prefix, e.g. /api/v1
//	-t int      request timeout (seconds)
//	-i int      applications refresh interval (seconds)
//	-o int      online status check interval (seconds)
//	-d string   path to the local SQLite database
//	-s string   credential scope (one per local profile)
//	-l string   log level: debug, info, warn, error
//	-f string   log file pattern (strftime), empty for stderr
//
// # JSON schema
//
// Durations accept strings like "30s" or a number of seconds; anything
// below one second is rejected:
//
//	{
//	  "server_base_url": "http://127.0.0.1:8000",
//	  "api_prefix": "/api/v1",
//	  "request_timeout": "10s",
//	  "refresh_interval": "30s",
//	  "online_check_interval": "5s",
//	  "database_path": "exalaa.db",
//	  "profile": "default",
//	  "log_level": "info",
//	  "log_dev": false,
//	  "log_file": ""
//	}
package config
