package config

import (
	"encoding/json"
	"fmt"
	"os"
	"time"
)

type StructuredJSONConfig struct {
	API struct {
		BaseURL        string   `json:"base_url"`
		Token          string   `json:"token"`
		RequestTimeout Duration `json:"request_timeout"`
	} `json:"api,omitempty"`

	Sync struct {
		MinReloadInterval Duration `json:"min_reload_interval"`
		SearchDebounce    Duration `json:"search_debounce"`
		FilterDebounce    Duration `json:"filter_debounce"`
		ReconcileDelay    Duration `json:"reconcile_delay"`
		RefreshInterval   Duration `json:"refresh_interval"`
	} `json:"sync,omitempty"`

	Cache struct {
		DSN string   `json:"dsn"`
		TTL Duration `json:"ttl"`
	} `json:"cache,omitempty"`
}

func parseJSON(jsonFilePath string) (*StructuredConfig, error) {
	jsonFile, err := os.Open(jsonFilePath)
	if err != nil {
		return nil, fmt.Errorf("error reading a json file: %w", err)
	}
	defer jsonFile.Close()

	var jsonCfg StructuredJSONConfig
	if err := json.NewDecoder(jsonFile).Decode(&jsonCfg); err != nil {
		return nil, fmt.Errorf("error decoding json configs: %w", err)
	}

	cfg := &StructuredConfig{
		API: API{
			BaseURL:        jsonCfg.API.BaseURL,
			Token:          jsonCfg.API.Token,
			RequestTimeout: time.Duration(jsonCfg.API.RequestTimeout),
		},
		Sync: Sync{
			MinReloadInterval: time.Duration(jsonCfg.Sync.MinReloadInterval),
			SearchDebounce:    time.Duration(jsonCfg.Sync.SearchDebounce),
			FilterDebounce:    time.Duration(jsonCfg.Sync.FilterDebounce),
			ReconcileDelay:    time.Duration(jsonCfg.Sync.ReconcileDelay),
			RefreshInterval:   time.Duration(jsonCfg.Sync.RefreshInterval),
		},
		Cache: Cache{
			DSN: jsonCfg.Cache.DSN,
			TTL: time.Duration(jsonCfg.Cache.TTL),
		},
	}

	return cfg, nil
}

// Duration is a wrapper around time.Duration that supports JSON unmarshaling
// from strings like "1h", "30s".
type Duration time.Duration

func (d *Duration) UnmarshalJSON(b []byte) error {
	var v interface{}
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}

	switch value := v.(type) {
	case float64:
		*d = Duration(time.Duration(value))
		return nil
	case string:
		tmp, err := time.ParseDuration(value)
		if err != nil {
			return err
		}
		*d = Duration(tmp)
		return nil
	default:
		return json.Unmarshal(b, (*time.Duration)(d))
	}
}

func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(time.Duration(d).String())
}
