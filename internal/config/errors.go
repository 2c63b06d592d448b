package config

import "errors"

// Validation errors returned by [StructuredConfig.validate] when required
// configuration groups are incomplete or invalid.
var (
	// ErrInvalidAPIConfigs indicates invalid API settings
	// (for example, missing base URL or non-positive timeout).
	ErrInvalidAPIConfigs = errors.New("invalid api configuration")
	// ErrInvalidCacheConfigs indicates invalid snapshot cache settings
	// (for example, empty DSN or unsupported in-memory DSN).
	ErrInvalidCacheConfigs = errors.New("invalid cache configuration")
	// ErrInvalidSyncConfigs indicates invalid sync timing settings
	// (for example, a negative debounce or zero refresh interval).
	ErrInvalidSyncConfigs = errors.New("invalid sync configuration")
)
