package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, doc string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(doc), 0644))
	return path
}

func TestLoadConfig(t *testing.T) {
	path := writeConfig(t, `
constraints:
  path: /etc/being/constraints.json
runner:
  activity_timeout: 30s
memory:
  state_file: /var/lib/being/memory.json
monitoring:
  victoriametrics_url: http://victoria:8428/api/v1/write
  metrics_prefix: being_test
  jobname: being_ci
logging:
  level: debug
  format: json
`)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "/etc/being/constraints.json", cfg.Constraints.Path)
	assert.Equal(t, 30*time.Second, cfg.Runner.ActivityTimeout)
	assert.Equal(t, "/var/lib/being/memory.json", cfg.Memory.StateFile)
	assert.Equal(t, "http://victoria:8428/api/v1/write", cfg.Monitoring.VictoriaMetricsURL)
	assert.Equal(t, "being_test", cfg.Monitoring.MetricsPrefix)
	assert.Equal(t, "being_ci", cfg.Monitoring.JobName)
	assert.Equal(t, "debug", cfg.Logging.Level)
}

func TestLoadConfig_Defaults(t *testing.T) {
	path := writeConfig(t, `
constraints:
  path: constraints.json
`)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, 2*time.Minute, cfg.Runner.ActivityTimeout)
	assert.Equal(t, "digital_being", cfg.Monitoring.MetricsPrefix)
	assert.Equal(t, "being", cfg.Monitoring.JobName)
	assert.Empty(t, cfg.Monitoring.VictoriaMetricsURL)
}

func TestLoadConfig_MissingFile(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}

func TestLoadConfig_InvalidYAML(t *testing.T) {
	path := writeConfig(t, "constraints: [unclosed")
	_, err := LoadConfig(path)
	assert.Error(t, err)
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{
			name:   "valid",
			mutate: func(c *Config) {},
		},
		{
			name:    "missing constraints path",
			mutate:  func(c *Config) { c.Constraints.Path = "" },
			wantErr: "constraints path",
		},
		{
			name:    "non-positive timeout",
			mutate:  func(c *Config) { c.Runner.ActivityTimeout = -time.Second },
			wantErr: "timeout",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := Config{}
			cfg.Constraints.Path = "constraints.json"
			cfg.SetDefaults()
			tc.mutate(&cfg)

			err := cfg.Validate()
			if tc.wantErr == "" {
				assert.NoError(t, err)
			} else {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tc.wantErr)
			}
		})
	}
}
