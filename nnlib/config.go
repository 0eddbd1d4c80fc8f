package nnlib

import (
	"fmt"
	"strings"

	"gopkg.in/ini.v1"
)

// Config stores the parameters for building networks and evolving their codes.
type Config struct {
	Network   NetworkConfig
	Evolution EvolutionConfig
}

// NetworkConfig describes the network topology.
type NetworkConfig struct {
	LayerSizes []int `ini:"layer_sizes" delim:" "` // Input layer first, e.g. "2 3 1"
	Seed       int64 `ini:"seed"`                  // 0 means seed from the clock
}

// EvolutionConfig holds parameters for the genetic search over network codes.
type EvolutionConfig struct {
	PopSize              int     `ini:"pop_size"`
	FitnessCriterion     string  `ini:"fitness_criterion"` // "max", "min" or "mean"
	FitnessThreshold     float64 `ini:"fitness_threshold"`
	NoFitnessTermination bool    `ini:"no_fitness_termination"`

	Elitism           int     `ini:"elitism"`
	SurvivalThreshold float64 `ini:"survival_threshold"` // Default: 0.2

	WeightMutateRate  float64 `ini:"weight_mutate_rate"`
	WeightMutatePower float64 `ini:"weight_mutate_power"`
	WeightReplaceRate float64 `ini:"weight_replace_rate"`
	WeightMinValue    float64 `ini:"weight_min_value"`
	WeightMaxValue    float64 `ini:"weight_max_value"`

	MaxStagnation     int  `ini:"max_stagnation"` // Default: 15
	ResetOnStagnation bool `ini:"reset_on_stagnation"`
}

// LoadConfig loads configuration parameters from an INI file.
func LoadConfig(filePath string) (*Config, error) {
	config, err := loadConfig(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config file '%s': %w", filePath, err)
	}
	return config, nil
}

// ParseConfig parses configuration parameters from INI data held in memory.
func ParseConfig(data []byte) (*Config, error) {
	return loadConfig(data)
}

func loadConfig(source interface{}) (*Config, error) {
	cfg, err := ini.LoadSources(ini.LoadOptions{
		IgnoreInlineComment:         true,
		UnescapeValueCommentSymbols: true,
	}, source)
	if err != nil {
		return nil, err
	}

	config := &Config{}
	if err := cfg.Section("Network").MapTo(&config.Network); err != nil {
		return nil, fmt.Errorf("failed to map [Network] section: %w", err)
	}
	if err := cfg.Section("Evolution").MapTo(&config.Evolution); err != nil {
		return nil, fmt.Errorf("failed to map [Evolution] section: %w", err)
	}

	config.Evolution.FitnessCriterion = strings.ToLower(cleanIniString(config.Evolution.FitnessCriterion))
	config.setDefaults()

	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

func (c *Config) setDefaults() {
	e := &c.Evolution
	if e.FitnessCriterion == "" {
		e.FitnessCriterion = "max"
	}
	if e.SurvivalThreshold == 0 {
		e.SurvivalThreshold = 0.2
	}
	if e.MaxStagnation == 0 {
		e.MaxStagnation = 15
	}
	if e.WeightMinValue == 0 && e.WeightMaxValue == 0 {
		e.WeightMinValue, e.WeightMaxValue = -30, 30
	}
}

// Validate reports the first invalid parameter, if any.
func (c *Config) Validate() error {
	if len(c.Network.LayerSizes) == 0 {
		return fmt.Errorf("config error: layer_sizes must list at least one layer")
	}
	for i, size := range c.Network.LayerSizes {
		if size <= 0 {
			return fmt.Errorf("config error: layer_sizes[%d] must be positive, got %d", i, size)
		}
	}

	e := &c.Evolution
	if e.PopSize < 0 {
		return fmt.Errorf("config error: pop_size cannot be negative")
	}
	validCriteria := map[string]bool{"max": true, "min": true, "mean": true}
	if !validCriteria[e.FitnessCriterion] {
		return fmt.Errorf("config error: invalid fitness_criterion '%s', must be one of 'max', 'min', 'mean'", e.FitnessCriterion)
	}
	if e.Elitism < 0 || (e.PopSize > 0 && e.Elitism > e.PopSize) {
		return fmt.Errorf("config error: elitism must be between 0 and pop_size")
	}
	if e.SurvivalThreshold < 0 || e.SurvivalThreshold > 1 {
		return fmt.Errorf("config error: survival_threshold must be between 0 and 1")
	}
	if e.WeightMutateRate < 0 || e.WeightMutateRate > 1 {
		return fmt.Errorf("config error: weight_mutate_rate must be between 0 and 1")
	}
	if e.WeightReplaceRate < 0 || e.WeightReplaceRate > 1 {
		return fmt.Errorf("config error: weight_replace_rate must be between 0 and 1")
	}
	if e.WeightMutatePower < 0 {
		return fmt.Errorf("config error: weight_mutate_power cannot be negative")
	}
	if e.WeightMaxValue < e.WeightMinValue {
		return fmt.Errorf("config error: weight_max_value cannot be less than weight_min_value")
	}
	if e.MaxStagnation <= 0 {
		return fmt.Errorf("config error: max_stagnation must be positive")
	}
	return nil
}

// cleanIniString removes inline comments and trims whitespace from a string read from INI.
func cleanIniString(s string) string {
	if idx := strings.IndexAny(s, "#;"); idx != -1 {
		s = s[:idx]
	}
	return strings.TrimSpace(s)
}
