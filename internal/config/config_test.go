package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), "genoscope.yaml")
	require.NoError(t, os.WriteFile(p, []byte(body), 0o644))
	return p
}

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoadEmptyPathReturnsDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoadOverlaysDefaults(t *testing.T) {
	p := writeConfig(t, `
pool:
  max_per_category: 4
  idle_timeout: 90s
scan:
  window: 1000
`)
	cfg, err := Load(p)
	require.NoError(t, err)
	assert.Equal(t, 4, cfg.Pool.MaxPerCategory)
	assert.Equal(t, 90*time.Second, cfg.Pool.IdleTimeout.Std())
	assert.Equal(t, 1000, cfg.Scan.Window)
	// untouched keys keep their defaults
	assert.Equal(t, 30*time.Second, cfg.Pool.SweepPeriod.Std())
	assert.Equal(t, 250, cfg.Scan.Step)
	assert.True(t, cfg.Cache.Shared)
}

func TestLoadBadDuration(t *testing.T) {
	p := writeConfig(t, "pool:\n  idle_timeout: fast\n")
	_, err := Load(p)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bad duration")
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	p := writeConfig(t, "pool:\n  max_per_category: 0\n")
	_, err := Load(p)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "max_per_category")
}

func TestValidateDefaults(t *testing.T) {
	assert.NoError(t, Default().Validate())
}
