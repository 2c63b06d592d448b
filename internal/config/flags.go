package config

import (
	"flag"
	"os"
	"time"
)

// ParseFlags parses all configuration flags from the process arguments.
//
// Flags:
//
//	-a/-api-url API base URL
//	-t/-token bearer token
//	-request-timeout outbound request timeout (e.g., "15s", "1m")
//	-d cache database path
//	-cache-ttl snapshot retention (e.g., "720h")
//	-refresh-interval background refresh period (e.g., "5m")
//	-c/-config json file path with configs
func ParseFlags() *StructuredConfig {
	return parseFlags(flag.NewFlagSet(os.Args[0], flag.ContinueOnError), os.Args[1:])
}

func parseFlags(fs *flag.FlagSet, args []string) *StructuredConfig {
	var baseURL string
	var token string
	var requestTimeout time.Duration
	var cacheDSN string
	var cacheTTL time.Duration
	var refreshInterval time.Duration
	var jsonConfigPath string

	fs.StringVar(&baseURL, "a", "", "API base URL")
	fs.StringVar(&baseURL, "api-url", "", "API base URL (alias)")
	fs.StringVar(&token, "t", "", "Bearer token")
	fs.StringVar(&token, "token", "", "Bearer token (alias)")
	fs.DurationVar(&requestTimeout, "request-timeout", 0, "Request timeout (e.g., 15s, 1m)")
	fs.StringVar(&cacheDSN, "d", "", "Cache database path")
	fs.DurationVar(&cacheTTL, "cache-ttl", 0, "Snapshot retention (e.g., 720h)")
	fs.DurationVar(&refreshInterval, "refresh-interval", 0, "Background refresh period (e.g., 5m)")
	fs.StringVar(&jsonConfigPath, "c", "", "JSON config file path")
	fs.StringVar(&jsonConfigPath, "config", "", "JSON config file path (alias)")

	// Unknown flags are tolerated so the parsed prefix still applies.
	_ = fs.Parse(args)

	return &StructuredConfig{
		API: API{
			BaseURL:        baseURL,
			Token:          token,
			RequestTimeout: requestTimeout,
		},
		Sync: Sync{
			RefreshInterval: refreshInterval,
		},
		Cache: Cache{
			DSN: cacheDSN,
			TTL: cacheTTL,
		},
		JSONFilePath: jsonConfigPath,
	}
}
