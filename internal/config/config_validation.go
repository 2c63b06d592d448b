package config

import "strings"

// validate checks that the final merged [StructuredConfig] satisfies all
// application invariants before it is used at startup.
func (cfg *StructuredConfig) validate() error {
	if cfg.API.BaseURL == "" || cfg.API.RequestTimeout <= 0 {
		return ErrInvalidAPIConfigs
	}

	if cfg.Cache.DSN == "" || strings.Contains(cfg.Cache.DSN, "memory") {
		return ErrInvalidCacheConfigs
	}

	if cfg.Sync.RefreshInterval <= 0 ||
		cfg.Sync.MinReloadInterval < 0 ||
		cfg.Sync.SearchDebounce < 0 ||
		cfg.Sync.FilterDebounce < 0 ||
		cfg.Sync.ReconcileDelay < 0 {
		return ErrInvalidSyncConfigs
	}

	return nil
}
