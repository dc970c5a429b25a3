package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	home := t.TempDir()
	t.Setenv("CMDPAD_DATA_DIR", "")
	t.Setenv("CMDPAD_SOCKET", "")
	t.Setenv("CMDPAD_LOG_LEVEL", "")
	t.Setenv("XDG_DATA_HOME", filepath.Join(home, "xdg"))
	t.Setenv("XDG_RUNTIME_DIR", filepath.Join(home, "run"))
	t.Setenv("APPDATA", filepath.Join(home, "xdg"))

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(home, "xdg", "cmdpad"), cfg.DataDir)
	assert.Equal(t, filepath.Join(cfg.DataDir, "cmdpad.db"), cfg.DBPath)
	assert.Equal(t, filepath.Join(cfg.DataDir, "cmdpad.log"), cfg.LogPath)
	assert.Equal(t, filepath.Join(home, "run"), filepath.Dir(cfg.SocketPath))
	assert.True(t, strings.HasPrefix(filepath.Base(cfg.SocketPath), "cmdpad"))
	assert.Equal(t, slog.LevelInfo, cfg.LogLevel)
}

func TestLoadOverrides(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("CMDPAD_DATA_DIR", dir)
	t.Setenv("CMDPAD_SOCKET", filepath.Join(dir, "custom.sock"))
	t.Setenv("CMDPAD_LOG_LEVEL", "debug")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, dir, cfg.DataDir)
	assert.Equal(t, filepath.Join(dir, "custom.sock"), cfg.SocketPath)
	assert.Equal(t, slog.LevelDebug, cfg.LogLevel)
}

func TestLoadEnvFile(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("CMDPAD_DATA_DIR", dir)
	t.Setenv("CMDPAD_LOG_LEVEL", "")
	// godotenv never overrides a variable that is set, even to ""
	require.NoError(t, os.Unsetenv("CMDPAD_LOG_LEVEL"))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "cmdpad.env"), []byte("CMDPAD_LOG_LEVEL=warn\n"), 0644))

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, slog.LevelWarn, cfg.LogLevel)
}

func TestLoadBadLevel(t *testing.T) {
	t.Setenv("CMDPAD_DATA_DIR", t.TempDir())
	t.Setenv("CMDPAD_LOG_LEVEL", "loud")

	_, err := Load()
	assert.Error(t, err)
}

func TestOpenLogger(t *testing.T) {
	dir := t.TempDir()
	cfg := &Config{LogPath: filepath.Join(dir, "logs", "cmdpad.log"), LogLevel: slog.LevelInfo}

	logger, closer, err := cfg.OpenLogger()
	require.NoError(t, err)
	logger.Debug("hidden")
	logger.Info("started", "component", "test")
	require.NoError(t, closer.Close())

	data, err := os.ReadFile(cfg.LogPath)
	require.NoError(t, err)
	assert.Contains(t, string(data), "started")
	assert.NotContains(t, string(data), "hidden")
}
