// Package config holds the recognized engine options and their YAML file
// loader. Flags and env vars overlay the file; the shipped defaults apply
// when neither is set.
package config

import (
	"fmt"
	"os"

	"github.com/goccy/go-yaml"

	"partsync/pkg/platform"
	"partsync/reconcile/pricing"
)

// Config is the full recognized option set.
type Config struct {
	AutoAcceptThreshold float64              `yaml:"auto_accept_threshold"`
	FuzzyThreshold      float64              `yaml:"fuzzy_threshold"`
	PartialThreshold    float64              `yaml:"partial_overlap_threshold"`
	ChunkSize           int                  `yaml:"chunk_size"`
	Workers             int                  `yaml:"workers"`
	MarkupBands         []pricing.Band       `yaml:"markup_bands"`
	TierMultipliers     *pricing.Multipliers `yaml:"tier_multipliers"`
	Abbreviations       map[string]string    `yaml:"abbreviations"`
	Synonyms            map[string][]string  `yaml:"synonyms"`
}

// Default returns the shipped configuration.
func Default() Config {
	return Config{
		AutoAcceptThreshold: 0.7,
		FuzzyThreshold:      0.8,
		PartialThreshold:    0.6,
		ChunkSize:           200,
		Workers:             4,
	}
}

// Load reads a YAML config file over the defaults. A missing path returns
// plain defaults; a present but malformed file is an error.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg.withEnv(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg.withEnv(), nil
		}
		return cfg, fmt.Errorf("config: read %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("config: parse %s: %w", path, err)
	}
	return cfg.withEnv(), nil
}

// withEnv overlays PARTSYNC_* environment variables.
func (c Config) withEnv() Config {
	c.AutoAcceptThreshold = platform.GetEnvFloat("PARTSYNC_AUTO_ACCEPT_THRESHOLD", c.AutoAcceptThreshold)
	c.FuzzyThreshold = platform.GetEnvFloat("PARTSYNC_FUZZY_THRESHOLD", c.FuzzyThreshold)
	c.PartialThreshold = platform.GetEnvFloat("PARTSYNC_PARTIAL_OVERLAP_THRESHOLD", c.PartialThreshold)
	c.ChunkSize = platform.GetEnvInt("PARTSYNC_CHUNK_SIZE", c.ChunkSize)
	c.Workers = platform.GetEnvInt("PARTSYNC_WORKERS", c.Workers)
	return c
}
