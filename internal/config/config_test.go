package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "does-not-exist.yaml"))
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig().Duplicate.Threshold, cfg.Duplicate.Threshold)
}

func TestLoadEmptyPathReturnsDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
}

func TestLoadOverlaysYAMLOntoDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("duplicate:\n  threshold: 0.9\nreview:\n  model: gpt-4o\n"), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 0.9, cfg.Duplicate.Threshold)
	assert.Equal(t, "gpt-4o", cfg.Review.Model)
	// Untouched sections keep their defaults.
	assert.Equal(t, DefaultConfig().Indexer.MaxWorkers, cfg.Indexer.MaxWorkers)
}

func TestLoadRejectsMalformedYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("duplicate: [not a map"), 0o644))

	_, err := Load(path)
	assert.Error(t, err)
}
