package main

import (
	"fmt"
	"log/slog"
	"os"

	"cmdpad/clipboard"
	"cmdpad/config"
	"cmdpad/db"
	"cmdpad/instance"
	"cmdpad/ui"

	tea "github.com/charmbracelet/bubbletea"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	logger, logFile, err := cfg.OpenLogger()
	if err != nil {
		return err
	}
	defer logFile.Close()
	slog.SetDefault(logger)

	// Another instance owns the UI: ask it to toggle and leave.
	sent, err := instance.Notify(cfg.SocketPath, instance.DialTimeout)
	if sent {
		if err != nil {
			logger.Warn("signal running instance", "error", err)
		}
		logger.Info("toggled running instance", "socket", cfg.SocketPath)
		return nil
	}

	database, err := db.Open(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("initializing database: %w", err)
	}
	defer database.Close()

	app, err := ui.NewApp(database, clipboard.NewService(), logger)
	if err != nil {
		return fmt.Errorf("creating app: %w", err)
	}

	server, err := instance.Listen(cfg.SocketPath, logger)
	if err != nil {
		return err
	}
	defer server.Close()

	p := tea.NewProgram(app, tea.WithAltScreen())

	go func() {
		if err := server.Serve(func() { p.Send(ui.ToggleMsg{}) }); err != nil {
			logger.Error("instance server stopped", "error", err)
		}
	}()

	logger.Info("cmdpad started", "db", cfg.DBPath, "socket", server.Path())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("running app: %w", err)
	}
	logger.Info("cmdpad stopped")
	return nil
}
