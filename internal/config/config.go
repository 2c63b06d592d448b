package config

import (
	"time"
)

// StructuredConfig is the top-level configuration container for the shiftsync
// client. It aggregates all sub-configurations and is populated by merging
// values from environment variables, command-line flags, and an optional JSON
// file.
//
// Struct tags:
//   - envPrefix — prefix applied to all nested env tag lookups (caarlos0/env).
//   - env       — direct environment variable name for scalar fields.
type StructuredConfig struct {
	// API holds the MedEscala backend endpoint settings.
	API API `envPrefix:"API_"`

	// Sync holds timing knobs for the list sync coordinator.
	Sync Sync `envPrefix:"SYNC_"`

	// Cache holds the local snapshot database settings.
	Cache Cache `envPrefix:"CACHE_"`

	// JSONFilePath is the optional path to a JSON configuration file.
	// When non-empty, the file is parsed and merged after the values
	// already loaded from environment variables and flags.
	// Populated via the CONFIG environment variable or the -c / -config flag.
	JSONFilePath string `env:"CONFIG"`
}

// API holds network settings for the outbound REST transport.
type API struct {
	// BaseURL is the MedEscala API root (e.g. "https://api.medescala.app").
	// Env: API_BASE_URL
	BaseURL string `env:"BASE_URL"`

	// Token is the bearer token attached to every authenticated request.
	// Env: API_TOKEN
	Token string `env:"TOKEN"`

	// RequestTimeout is the default timeout for outbound requests
	// (e.g. "15s", "1m").
	// Env: API_REQUEST_TIMEOUT
	RequestTimeout time.Duration `env:"REQUEST_TIMEOUT"`
}

// Sync holds the timing knobs of the list sync coordinator. Zero values
// select the coordinator's built-in defaults.
type Sync struct {
	// MinReloadInterval is the self-throttle window between unforced
	// reloads of the same list.
	// Env: SYNC_MIN_RELOAD_INTERVAL
	MinReloadInterval time.Duration `env:"MIN_RELOAD_INTERVAL"`

	// SearchDebounce delays reloads caused by search input.
	// Env: SYNC_SEARCH_DEBOUNCE
	SearchDebounce time.Duration `env:"SEARCH_DEBOUNCE"`

	// FilterDebounce delays reloads caused by filter changes.
	// Env: SYNC_FILTER_DEBOUNCE
	FilterDebounce time.Duration `env:"FILTER_DEBOUNCE"`

	// ReconcileDelay is how long after an optimistic batch the forced
	// reconciling reload waits.
	// Env: SYNC_RECONCILE_DELAY
	ReconcileDelay time.Duration `env:"RECONCILE_DELAY"`

	// RefreshInterval defines how often the background refresh job forces
	// a reload while the app is running.
	// Env: SYNC_REFRESH_INTERVAL
	RefreshInterval time.Duration `env:"REFRESH_INTERVAL"`
}

// Cache contains local snapshot database settings.
type Cache struct {
	// DSN is the SQLite file path used for offline snapshots.
	// Env: CACHE_DSN
	DSN string `env:"DSN"`

	// TTL is how long stored snapshots stay eligible before pruning.
	// Env: CACHE_TTL
	TTL time.Duration `env:"TTL"`
}

// GetConfig loads, merges, and validates the application configuration from
// all available sources in the following priority order (earlier sources win
// for non-zero fields):
//  1. Environment variables
//  2. Command-line flags
//  3. JSON file (path resolved from sources 1 and 2)
//  4. Built-in defaults
//
// Returns a fully populated *StructuredConfig or an error if any source
// fails to load or the final config fails validation.
func GetConfig() (*StructuredConfig, error) {
	return newConfigBuilder().
		withEnv().
		withFlags().
		withJSON().
		withDefaults().
		build()
}
