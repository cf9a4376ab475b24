package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestParseLayersOverDefaults(t *testing.T) {
	path := writeConfig(t, `
api_port: 9000
log_level: debug
confidence_floor: 0.4
network:
  hidden1: 128
  hidden2: 64
  base_learning_rate: 0.01
ensemble:
  unanimous_confidence: 0.98
  pattern_favored:
    pattern_strong: 0.88
    learned_strong: 0.9
    weak_heuristic_ceiling: 0.8
    pattern_weight: 0.75
    learned_weight: 0.25
`)

	cfg, err := Parse(path)
	require.NoError(t, err)

	assert.Equal(t, 9000, cfg.APIPort)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, 0.4, cfg.ConfidenceFloor)
	assert.Equal(t, 128, cfg.Network.Hidden1)
	assert.Equal(t, 0.01, cfg.Network.BaseLearningRate)
	assert.Equal(t, 0.98, cfg.Ensemble.UnanimousConfidence)
	assert.Equal(t, 0.75, cfg.Ensemble.PatternFavored.PatternWeight)

	// Untouched keys keep their defaults.
	assert.Equal(t, 9190, cfg.MetricsPort)
	assert.Equal(t, 8, cfg.BatchWorkers)
	assert.Equal(t, 0.95, cfg.Ensemble.Default.PatternStrong)
}

func TestParseMissingFile(t *testing.T) {
	_, err := Parse(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
}

func TestParseMalformedYAML(t *testing.T) {
	path := writeConfig(t, "api_port: [not a port")
	_, err := Parse(path)
	require.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"bad api port", func(c *Config) { c.APIPort = -1 }},
		{"bad metrics port", func(c *Config) { c.MetricsPort = 70000 }},
		{"colliding ports", func(c *Config) { c.MetricsPort = c.APIPort }},
		{"confidence floor out of range", func(c *Config) { c.ConfidenceFloor = 1.5 }},
		{"zero batch workers", func(c *Config) { c.BatchWorkers = 0 }},
		{"threshold above one", func(c *Config) { c.Ensemble.Default.PatternStrong = 1.2 }},
		{"zero voting weights", func(c *Config) {
			c.Ensemble.ContextFavored.PatternWeight = 0
			c.Ensemble.ContextFavored.LearnedWeight = 0
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Defaults()
			tt.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}

	assert.NoError(t, Defaults().Validate())
}
