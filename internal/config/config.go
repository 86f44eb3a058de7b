// Package config loads the rugwatch YAML configuration with environment
// variable overrides. A missing config file is not an error: defaults apply.
package config

import (
	"os"

	"gopkg.in/yaml.v3"
)

// Config is the top-level configuration for the rugwatch dashboard.
type Config struct {
	Feed     Feed     `yaml:"feed"`
	UI       UI       `yaml:"ui"`
	Recorder Recorder `yaml:"recorder"`
	Logging  Logging  `yaml:"logging"`
}

// Feed configures the websocket feed connection.
type Feed struct {
	Endpoint string `yaml:"endpoint"`
}

// UI configures the dashboard refresh cadence.
type UI struct {
	TickMillis int `yaml:"tick_millis"`
}

// Recorder configures optional end-of-session recording of the buffered
// events. Backend is "off", "parquet", or "sqlite".
type Recorder struct {
	Backend string `yaml:"backend"`
	DataDir string `yaml:"data_dir"`
}

// Logging configures the application logger.
type Logging struct {
	Level string `yaml:"level"`
	File  string `yaml:"file"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Feed:     Feed{Endpoint: "wss://ws.rugplay.com/"},
		UI:       UI{TickMillis: 100},
		Recorder: Recorder{Backend: "off", DataDir: "./data"},
		Logging:  Logging{Level: "info", File: "rugwatch.log"},
	}
}

// Load reads the YAML configuration at path, overlaying it on the defaults
// and then applying environment overrides. A missing file yields defaults.
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err == nil {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, err
		}
	} else if !os.IsNotExist(err) {
		return nil, err
	}

	applyEnvOverrides(cfg)
	return cfg, nil
}

// applyEnvOverrides checks well-known environment variables and overrides
// the corresponding configuration fields when they are set.
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("RUGWATCH_FEED_URL"); v != "" {
		cfg.Feed.Endpoint = v
	}
	if v := os.Getenv("RUGWATCH_DATA_DIR"); v != "" {
		cfg.Recorder.DataDir = v
	}
	if v := os.Getenv("RUGWATCH_RECORDER"); v != "" {
		cfg.Recorder.Backend = v
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
}
