// Package config loads the simulator's process-level configuration,
// modeled closely on marcosCapistrano-powerhive's internal/config: a JSON
// file loaded with encoding/json and validated with in-place defaulting.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// AppConfig is the top-level process configuration.
type AppConfig struct {
	HTTP      HTTPConfig     `json:"http"`
	Intervals IntervalConfig `json:"intervals"`
	History   HistoryConfig  `json:"history"`
	Fleet     FleetConfig    `json:"fleet"`
}

// HTTPConfig configures the reference/device-compat HTTP surface.
type HTTPConfig struct {
	Addr string `json:"addr"`
}

// IntervalConfig configures the tick cadence.
type IntervalConfig struct {
	TickSeconds float64 `json:"tick_seconds"`
}

// HistoryConfig configures the optional sqlite telemetry log.
type HistoryConfig struct {
	Enabled bool   `json:"enabled"`
	Path    string `json:"path"`
}

// FleetConfig configures FleetRuntime construction.
type FleetConfig struct {
	MaxMiners int `json:"max_miners"`
}

// Default returns the configuration used when no file is found.
func Default() AppConfig {
	cfg := AppConfig{}
	cfg.applyDefaults()
	return cfg
}

// Load reads and validates a JSON config file at path. A missing file is
// not an error: it returns Default().
func Load(path string) (AppConfig, error) {
	if path == "" {
		return Default(), nil
	}

	absPath, err := filepath.Abs(path)
	if err != nil {
		return AppConfig{}, fmt.Errorf("config: resolve path %s: %w", path, err)
	}

	data, err := os.ReadFile(absPath)
	if err != nil {
		if os.IsNotExist(err) {
			return Default(), nil
		}
		return AppConfig{}, fmt.Errorf("config: read %s: %w", absPath, err)
	}

	var cfg AppConfig
	if err := json.Unmarshal(data, &cfg); err != nil {
		return AppConfig{}, fmt.Errorf("config: parse %s: %w", filepath.Base(absPath), err)
	}
	cfg.applyDefaults()
	return cfg, nil
}

func (c *AppConfig) applyDefaults() {
	if c.HTTP.Addr == "" {
		c.HTTP.Addr = ":8080"
	}
	if c.Intervals.TickSeconds <= 0 {
		c.Intervals.TickSeconds = 1
	}
	if c.History.Path == "" {
		c.History.Path = "fleetsim-history.db"
	}
	if c.Fleet.MaxMiners < 0 {
		c.Fleet.MaxMiners = 0
	}
}
