// Package config loads the daemon runtime configuration.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

const defaultHistoryLimit = 100

// ServerConfig represents the daemon runtime configuration.
type ServerConfig struct {
	Listener ListenerConfig `yaml:"listener"`
	// Schedule is an optional cron spec for automatic passes.
	Schedule string `yaml:"schedule"`
	// HistoryDir is the directory used to persist pass history.
	// Empty keeps history in memory only.
	HistoryDir string `yaml:"history_dir"`
	// HistoryLimit caps how many passes are retained.
	HistoryLimit int `yaml:"history_limit"`
	// BeingConfig is the path to the application config file.
	BeingConfig string `yaml:"being_config"`
}

// ListenerConfig holds HTTP server listener settings.
type ListenerConfig struct {
	// The listen address, defaults to :8080
	Addr string `yaml:"addr"`
}

// LoadConfig reads the YAML config file at the given path.
func LoadConfig(path string) (*ServerConfig, error) {
	var cfg ServerConfig
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open server config file %s: %w", path, err)
	}
	defer f.Close()

	dec := yaml.NewDecoder(f)
	if err := dec.Decode(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode YAML server config: %w", err)
	}

	cfg.SetDefaults()

	if cfg.BeingConfig == "" {
		return nil, fmt.Errorf("being_config path is required")
	}

	return &cfg, nil
}

// SetDefaults sets reasonable default values for optional fields.
func (c *ServerConfig) SetDefaults() {
	if c.Listener.Addr == "" {
		c.Listener.Addr = ":8080"
	}
	if c.HistoryLimit == 0 {
		c.HistoryLimit = defaultHistoryLimit
	}
}
