package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "partsync.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, 0.7, cfg.AutoAcceptThreshold)
	assert.Equal(t, 0.8, cfg.FuzzyThreshold)
	assert.Equal(t, 0.6, cfg.PartialThreshold)
	assert.Equal(t, 200, cfg.ChunkSize)
	assert.Equal(t, 4, cfg.Workers)
}

func TestLoadMissingFileFallsBackToDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoadOverridesDefaults(t *testing.T) {
	path := writeConfig(t, `
auto_accept_threshold: 0.8
chunk_size: 50
markup_bands:
  - limit: 100
    multiplier: 2.0
    floor: 120
tier_multipliers:
  economy: 0.9
  standard: 1.0
  premium: 1.2
  express: 1.4
abbreviations:
  sgs: galaxy s
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 0.8, cfg.AutoAcceptThreshold)
	assert.Equal(t, 50, cfg.ChunkSize)
	// Unset keys keep their defaults.
	assert.Equal(t, 0.8, cfg.FuzzyThreshold)

	require.Len(t, cfg.MarkupBands, 1)
	assert.True(t, cfg.MarkupBands[0].Floor.Equal(decimal.NewFromInt(120)))
	require.NotNil(t, cfg.TierMultipliers)
	assert.True(t, cfg.TierMultipliers.Premium.Equal(decimal.NewFromFloat(1.2)))
	assert.Equal(t, "galaxy s", cfg.Abbreviations["sgs"])
}

func TestLoadMalformedFile(t *testing.T) {
	path := writeConfig(t, "chunk_size: [not an int")

	_, err := Load(path)
	require.Error(t, err)
}

func TestLoadEnvOverlay(t *testing.T) {
	t.Setenv("PARTSYNC_AUTO_ACCEPT_THRESHOLD", "0.9")
	t.Setenv("PARTSYNC_WORKERS", "8")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, 0.9, cfg.AutoAcceptThreshold)
	assert.Equal(t, 8, cfg.Workers)
}
