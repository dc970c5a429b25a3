// Package config resolves cmdpad's per-user paths and settings from the
// environment.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"os/user"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/joho/godotenv"
)

const appName = "cmdpad"

type Config struct {
	DataDir    string
	DBPath     string
	LogPath    string
	SocketPath string
	LogLevel   slog.Level
}

// Load reads settings from the environment. An optional cmdpad.env file in
// the data directory supplies values for variables that are not already set.
func Load() (*Config, error) {
	dataDir := getEnv("CMDPAD_DATA_DIR", "")
	if dataDir == "" {
		dir, err := defaultDataDir()
		if err != nil {
			return nil, err
		}
		dataDir = dir
	}

	// missing file is fine
	_ = godotenv.Load(filepath.Join(dataDir, appName+".env"))

	level, err := parseLevel(getEnv("CMDPAD_LOG_LEVEL", "info"))
	if err != nil {
		return nil, err
	}

	return &Config{
		DataDir:    dataDir,
		DBPath:     filepath.Join(dataDir, appName+".db"),
		LogPath:    filepath.Join(dataDir, appName+".log"),
		SocketPath: getEnv("CMDPAD_SOCKET", defaultSocketPath()),
		LogLevel:   level,
	}, nil
}

func defaultDataDir() (string, error) {
	if runtime.GOOS == "windows" {
		if appData := os.Getenv("APPDATA"); appData != "" {
			return filepath.Join(appData, appName), nil
		}
	}
	if xdg := os.Getenv("XDG_DATA_HOME"); xdg != "" {
		return filepath.Join(xdg, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve data dir: %w", err)
	}
	return filepath.Join(home, ".local", "share", appName), nil
}

func defaultSocketPath() string {
	dir := os.Getenv("XDG_RUNTIME_DIR")
	if dir == "" {
		dir = os.TempDir()
	}
	name := appName + ".sock"
	if u, err := user.Current(); err == nil && u.Username != "" {
		name = appName + "-" + sanitize(u.Username) + ".sock"
	}
	return filepath.Join(dir, name)
}

// sanitize drops path separators from domain-qualified Windows user names.
func sanitize(name string) string {
	return strings.NewReplacer(`\`, "_", "/", "_").Replace(name)
}

func parseLevel(s string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(s)); err != nil {
		return 0, fmt.Errorf("CMDPAD_LOG_LEVEL: %w", err)
	}
	return level, nil
}

func getEnv(key, defaultVal string) string {
	if v, ok := os.LookupEnv(key); ok && strings.TrimSpace(v) != "" {
		return strings.TrimSpace(v)
	}
	return defaultVal
}
