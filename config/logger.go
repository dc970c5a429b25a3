package config

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
)

// OpenLogger returns a text logger appending to the configured log file.
// The terminal belongs to the UI, so nothing is written to stdout or stderr.
// Close the returned io.Closer on exit.
func (c *Config) OpenLogger() (*slog.Logger, io.Closer, error) {
	if err := os.MkdirAll(filepath.Dir(c.LogPath), 0755); err != nil {
		return nil, nil, fmt.Errorf("create log dir: %w", err)
	}
	f, err := os.OpenFile(c.LogPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, nil, fmt.Errorf("open log: %w", err)
	}
	handler := slog.NewTextHandler(f, &slog.HandlerOptions{Level: c.LogLevel})
	return slog.New(handler), f, nil
}
