// Package config loads and validates the engine's YAML configuration. There
// is no global cached config: callers parse once at startup and pass the
// result down explicitly.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/formsense/field-classifier/pkg/ensemble"
	"github.com/formsense/field-classifier/pkg/mlp"
)

// Config is the root configuration document.
type Config struct {
	// APIPort serves the classification API; MetricsPort serves Prometheus.
	APIPort     int    `yaml:"api_port"`
	MetricsPort int    `yaml:"metrics_port"`
	LogLevel    string `yaml:"log_level"`

	// Data files. Empty paths fall back to the built-in tables.
	TaxonomyPath string `yaml:"taxonomy_path"`
	KeywordsPath string `yaml:"keywords_path"`
	RulesPath    string `yaml:"rules_path"`

	// SnapshotPath is where model weights are persisted; JournalPath is the
	// training-feedback journal replayed after a rejected snapshot.
	SnapshotPath string `yaml:"snapshot_path"`
	JournalPath  string `yaml:"journal_path"`

	// ConfidenceFloor is the learned classifier's minimum probability for a
	// specific class.
	ConfidenceFloor float64 `yaml:"confidence_floor"`
	BatchWorkers    int     `yaml:"batch_workers"`

	Network  mlp.Config                 `yaml:"network"`
	Ensemble ensemble.ArbitrationConfig `yaml:"ensemble"`
}

// Defaults returns a fully populated configuration.
func Defaults() *Config {
	return &Config{
		APIPort:         8080,
		MetricsPort:     9190,
		LogLevel:        "info",
		SnapshotPath:    "data/model.json",
		JournalPath:     "data/feedback.db",
		ConfidenceFloor: 0.30,
		BatchWorkers:    8,
		Ensemble:        ensemble.DefaultArbitrationConfig(),
	}
}

// Parse reads and validates a YAML config file, layering it over the
// defaults.
func Parse(path string) (*Config, error) {
	// Resolve symlinks to handle mounted config files.
	resolved, _ := filepath.EvalSymlinks(path)
	if resolved == "" {
		resolved = path
	}

	data, err := os.ReadFile(resolved)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := Defaults()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate rejects out-of-range values. Runs once at startup, so it fails
// loudly rather than clamping.
func (c *Config) Validate() error {
	if c.APIPort <= 0 || c.APIPort > 65535 {
		return fmt.Errorf("config: invalid api_port %d", c.APIPort)
	}
	if c.MetricsPort <= 0 || c.MetricsPort > 65535 {
		return fmt.Errorf("config: invalid metrics_port %d", c.MetricsPort)
	}
	if c.MetricsPort == c.APIPort {
		return fmt.Errorf("config: metrics_port and api_port are both %d", c.APIPort)
	}
	if c.ConfidenceFloor < 0 || c.ConfidenceFloor >= 1 {
		return fmt.Errorf("config: confidence_floor %.2f outside [0,1)", c.ConfidenceFloor)
	}
	if c.BatchWorkers < 1 {
		return fmt.Errorf("config: batch_workers must be positive, got %d", c.BatchWorkers)
	}
	for name, p := range map[string]ensemble.Profile{
		"pattern_favored": c.Ensemble.PatternFavored,
		"context_favored": c.Ensemble.ContextFavored,
		"default":         c.Ensemble.Default,
	} {
		if p == (ensemble.Profile{}) {
			continue
		}
		if p.PatternStrong <= 0 || p.PatternStrong > 1 ||
			p.LearnedStrong <= 0 || p.LearnedStrong > 1 ||
			p.WeakHeuristicCeiling <= 0 || p.WeakHeuristicCeiling > 1 {
			return fmt.Errorf("config: ensemble profile %q has thresholds outside (0,1]", name)
		}
		if p.PatternWeight < 0 || p.LearnedWeight < 0 || p.PatternWeight+p.LearnedWeight == 0 {
			return fmt.Errorf("config: ensemble profile %q has invalid voting weights", name)
		}
	}
	return nil
}
