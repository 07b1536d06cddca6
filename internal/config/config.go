// Package config provides configuration management.
package config

import (
	"encoding/json"
	"os"
	"sync"

	"hospital-cost/internal/errors"
	"hospital-cost/internal/logging"
)

// Config is the main application configuration
type Config struct {
	// Version is the configuration version
	Version string `json:"version"`

	// Currency is the reporting currency code
	Currency string `json:"currency"`

	// Scoring contains efficiency-score settings
	Scoring ScoringConfig `json:"scoring"`

	// Recommendations contains recommendation-policy settings
	Recommendations RecommendationConfig `json:"recommendations"`

	// Logging contains logging configuration
	Logging logging.Config `json:"logging"`
}

// ScoringConfig tunes the efficiency score. The score is
// clamp(base + margin_weight*margin - cost_weight*100*(cpu-median)/median, 0, 100),
// kept monotonic in both inputs for any positive weights.
type ScoringConfig struct {
	// Base is the neutral starting score
	Base float64 `json:"base"`

	// MarginWeight scales the margin contribution
	MarginWeight float64 `json:"margin_weight"`

	// CostWeight scales the cost-per-unit deviation penalty
	CostWeight float64 `json:"cost_weight"`
}

// RecommendationConfig tunes recommendation thresholds
type RecommendationConfig struct {
	// HighPotentialMargin marks services counted as high potential
	HighPotentialMargin float64 `json:"high_potential_margin"`

	// CriticalMargin marks services counted as critical
	CriticalMargin float64 `json:"critical_margin"`

	// ImpactQuantile is the peer quantile used for potential-impact estimates
	ImpactQuantile float64 `json:"impact_quantile"`
}

// Default returns the default configuration
func Default() Config {
	return Config{
		Version:  "1",
		Currency: "INR",
		Scoring: ScoringConfig{
			Base:         50,
			MarginWeight: 0.5,
			CostWeight:   0.2,
		},
		Recommendations: RecommendationConfig{
			HighPotentialMargin: 25,
			CriticalMargin:      10,
			ImpactQuantile:      0.75,
		},
		Logging: logging.DefaultConfig(),
	}
}

var (
	mu      sync.RWMutex
	current = Default()
)

// Get returns the current configuration
func Get() Config {
	mu.RLock()
	defer mu.RUnlock()
	return current
}

// Set replaces the current configuration
func Set(cfg Config) {
	mu.Lock()
	defer mu.Unlock()
	current = cfg
}

// Load reads configuration from a JSON file, layered over defaults
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, errors.Wrapf(errors.TypeConfig, err, "failed to read config file %s", path)
	}

	if err := json.Unmarshal(data, &cfg); err != nil {
		return cfg, errors.Wrapf(errors.TypeConfig, err, "failed to parse config file %s", path)
	}

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Validate checks configuration invariants
func (c Config) Validate() error {
	if c.Scoring.MarginWeight < 0 || c.Scoring.CostWeight < 0 {
		return errors.New(errors.TypeConfig, "scoring weights must be non-negative")
	}
	if c.Recommendations.ImpactQuantile <= 0 || c.Recommendations.ImpactQuantile >= 1 {
		return errors.New(errors.TypeConfig, "impact_quantile must be in (0, 1)")
	}
	if c.Recommendations.CriticalMargin > c.Recommendations.HighPotentialMargin {
		return errors.New(errors.TypeConfig, "critical_margin cannot exceed high_potential_margin")
	}
	return nil
}
