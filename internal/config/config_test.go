package config

import (
	"testing"
	"time"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultIsValid(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, 24, cfg.Minutes)
	assert.Equal(t, 3, cfg.First)
	assert.Positive(t, cfg.Workers)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"negative minutes", func(c *Config) { c.Minutes = -1 }},
		{"zero workers", func(c *Config) { c.Workers = 0 }},
		{"negative timeout", func(c *Config) { c.Timeout = -time.Second }},
		{"negative first", func(c *Config) { c.First = -2 }},
		{"unknown output", func(c *Config) { c.Output = "xml" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(&cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestApplyEnv(t *testing.T) {
	env := map[string]string{
		"GEODES_MINUTES":   "32",
		"GEODES_WORKERS":   "2",
		"GEODES_TIMEOUT":   "1500ms",
		"GEODES_LOG_LEVEL": "debug",
	}

	cfg, err := Default().ApplyEnv(func(k string) string { return env[k] })
	require.NoError(t, err)
	assert.Equal(t, 32, cfg.Minutes)
	assert.Equal(t, 2, cfg.Workers)
	assert.Equal(t, 1500*time.Millisecond, cfg.Timeout)
	assert.Equal(t, "debug", cfg.LogLevel)
}

func TestApplyEnvErrors(t *testing.T) {
	for _, key := range []string{"GEODES_MINUTES", "GEODES_WORKERS", "GEODES_TIMEOUT"} {
		_, err := Default().ApplyEnv(func(k string) string {
			if k == key {
				return "nope"
			}
			return ""
		})
		assert.Error(t, err, key)
	}
}

func TestBindFlags(t *testing.T) {
	cfg := Default()
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	cfg.BindFlags(fs)

	require.NoError(t, fs.Parse([]string{"-m", "32", "--workers=5", "--timeout", "2s", "-o", "json"}))
	assert.Equal(t, 32, cfg.Minutes)
	assert.Equal(t, 5, cfg.Workers)
	assert.Equal(t, 2*time.Second, cfg.Timeout)
	assert.Equal(t, OutputJSON, cfg.Output)
	assert.Equal(t, "info", cfg.LogLevel)
}
