package main

import (
	"fmt"
	"io"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"qarith"
	"qarith/internal/config"
	"qarith/internal/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	if len(os.Args) > 1 {
		log := logger.New(logger.Config{
			Level:  cfg.LogLevel,
			Pretty: cfg.LogPretty,
		})
		logger.SetGlobalLogger(log)
		os.Exit(runCLI(os.Args[1:], cfg, log, os.Stdout, os.Stderr))
	}

	if err := runViewer(cfg); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// runViewer starts the interactive program. Logs go to LOG_FILE, or nowhere,
// so they never draw over the screen.
func runViewer(cfg *config.Config) error {
	var out io.Writer = io.Discard
	if cfg.LogFile != "" {
		f, err := os.OpenFile(cfg.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			return fmt.Errorf("failed to open log file: %w", err)
		}
		defer f.Close()
		out = f
	}
	log := logger.New(logger.Config{
		Level:  cfg.LogLevel,
		Pretty: cfg.LogPretty,
		Output: out,
	})
	logger.SetGlobalLogger(log)

	engine := qarith.New(
		qarith.FromConfig(cfg),
		qarith.WithLogger(log),
		qarith.WithKeepState(true),
	)

	log.Info().Msg("Starting viewer")

	p := tea.NewProgram(initialModel(engine), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return err
	}
	return nil
}
