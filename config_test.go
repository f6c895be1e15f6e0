package dsync

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	assert.Equal(t, 50*time.Millisecond, cfg.TickRate)
	assert.GreaterOrEqual(t, cfg.Workers, 1)
}

func TestLoadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dsync.yml")
	require.NoError(t, os.WriteFile(path, []byte("tick_rate: 100ms\nworkers: 2\n"), 0o644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, 100*time.Millisecond, cfg.TickRate)
	assert.Equal(t, 2, cfg.Workers)
}

func TestLoadConfigFillsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dsync.yml")
	require.NoError(t, os.WriteFile(path, []byte("workers: 3\n"), 0o644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, 50*time.Millisecond, cfg.TickRate)
	assert.Equal(t, 3, cfg.Workers)
}

func TestLoadConfigMissingFile(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "absent.yml"))
	assert.Error(t, err)
}

func TestLoadConfigInvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dsync.yml")
	require.NoError(t, os.WriteFile(path, []byte("tick_rate: [nope\n"), 0o644))

	_, err := LoadConfig(path)
	assert.Error(t, err)
}
