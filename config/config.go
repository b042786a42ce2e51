// Package config loads the application configuration for the digital being
// runtime.
//
// The application config is YAML and covers the ambient concerns: logging,
// monitoring, runner behavior and memory persistence. Which activities run,
// and with what options, is decided by a separate JSON constraints file
// (see the registry package); this config only points at it.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/digitalbeing/being/logging"
)

const (
	// Default runner settings
	defaultActivityTimeout = 2 * time.Minute

	// Default monitoring settings
	defaultMetricsPrefix = "digital_being"
	defaultJobName       = "being"
)

// Config represents the complete application configuration.
type Config struct {
	Constraints ConstraintsConfig `yaml:"constraints"`
	Runner      RunnerConfig      `yaml:"runner"`
	Memory      MemoryConfig      `yaml:"memory"`
	Monitoring  MonitoringConfig  `yaml:"monitoring"`
	Logging     logging.Config    `yaml:"logging"`
}

// ConstraintsConfig points at the activity constraints file.
type ConstraintsConfig struct {
	// Path is the location of the JSON constraints file mapping activity
	// names to their enabled flag and options.
	Path string `yaml:"path"`
}

// RunnerConfig defines pass execution behavior.
type RunnerConfig struct {
	// ActivityTimeout bounds a single activity's Execute call. An activity
	// exceeding it is recorded as failed and the pass moves on.
	ActivityTimeout time.Duration `yaml:"activity_timeout"`
}

// MemoryConfig defines shared memory persistence settings.
type MemoryConfig struct {
	// StateFile is where the shared memory snapshot is persisted between
	// runs. Empty disables persistence.
	StateFile string `yaml:"state_file"`
}

// MonitoringConfig holds metrics settings.
type MonitoringConfig struct {
	// VictoriaMetricsURL is the remote-write endpoint used by the one-shot
	// CLI. Empty disables pushing.
	VictoriaMetricsURL string `yaml:"victoriametrics_url"`
	MetricsPrefix      string `yaml:"metrics_prefix"`
	JobName            string `yaml:"jobname"`
}

// Validate performs basic validation on the configuration.
func (c *Config) Validate() error {
	if c.Constraints.Path == "" {
		return fmt.Errorf("constraints path is required")
	}
	if c.Runner.ActivityTimeout <= 0 {
		return fmt.Errorf("activity timeout must be positive")
	}
	return nil
}

// SetDefaults sets reasonable default values for optional fields.
func (c *Config) SetDefaults() {
	if c.Runner.ActivityTimeout == 0 {
		c.Runner.ActivityTimeout = defaultActivityTimeout
	}
	if c.Monitoring.MetricsPrefix == "" {
		c.Monitoring.MetricsPrefix = defaultMetricsPrefix
	}
	if c.Monitoring.JobName == "" {
		c.Monitoring.JobName = defaultJobName
	}
}

// LoadConfig reads the YAML config file at the given path.
func LoadConfig(path string) (Config, error) {
	var cfg Config
	f, err := os.Open(path)
	if err != nil {
		return cfg, err
	}
	defer f.Close()

	dec := yaml.NewDecoder(f)
	if err := dec.Decode(&cfg); err != nil {
		return cfg, err
	}
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}
