package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func chdirTemp(t *testing.T) string {
	// Change to temp dir so no config.yaml is found
	dir := t.TempDir()
	origDir, _ := os.Getwd()
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { os.Chdir(origDir) })
	return dir
}

func TestLoadDefaults(t *testing.T) {
	chdirTemp(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 1, cfg.Tile.Workers)
	assert.Equal(t, 1, cfg.Tile.Band)
	assert.Equal(t, 0, cfg.Tile.NoData)
	assert.Equal(t, "int32", cfg.Tile.PixelType)
	assert.Equal(t, "GTiff", cfg.Tile.Format)
	assert.Equal(t, "tif", cfg.Tile.Extension)
	assert.Equal(t, 0, cfg.Tile.TileTimeoutSecs)
	assert.False(t, cfg.Manifest.Enabled)
	assert.Equal(t, "tilecut.db", cfg.Manifest.Path)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
}

func TestLoadFromYAML(t *testing.T) {
	dir := chdirTemp(t)

	yaml := `
tile:
  size: 600
  workers: 4
  pixel_type: float32
manifest:
  enabled: true
  path: runs.db
log:
  level: debug
  format: console
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(yaml), 0o644))

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 600.0, cfg.Tile.Size)
	assert.Equal(t, 4, cfg.Tile.Workers)
	assert.Equal(t, "float32", cfg.Tile.PixelType)
	assert.True(t, cfg.Manifest.Enabled)
	assert.Equal(t, "runs.db", cfg.Manifest.Path)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "console", cfg.Log.Format)
}

func TestLoadFromEnv(t *testing.T) {
	chdirTemp(t)
	t.Setenv("TILECUT_LOG_LEVEL", "warn")
	t.Setenv("TILECUT_TILE_WORKERS", "8")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "warn", cfg.Log.Level)
	assert.Equal(t, 8, cfg.Tile.Workers)
}

func TestInitLogger(t *testing.T) {
	require.NoError(t, InitLogger(LogConfig{Level: "debug", Format: "console"}))
	assert.NotNil(t, zap.L())

	require.NoError(t, InitLogger(LogConfig{Level: "info", Format: "json"}))

	err := InitLogger(LogConfig{Level: "not-a-level", Format: "json"})
	require.Error(t, err)
}
