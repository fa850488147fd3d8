package main

import (
	"fmt"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/buckleypaul/flashmon/internal/app"
	"github.com/buckleypaul/flashmon/internal/config"
	"github.com/buckleypaul/flashmon/internal/flash"
	"github.com/buckleypaul/flashmon/internal/logger"
	"github.com/buckleypaul/flashmon/internal/serial"
	"github.com/buckleypaul/flashmon/internal/store"
)

func main() {
	cfgPath := ""
	if len(os.Args) > 1 {
		cfgPath = os.Args[1]
	}

	cfg, err := config.Load(cfgPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	if err := os.MkdirAll(cfg.DataDir, 0o755); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	// The dashboard owns the terminal; logs go to a file.
	log, err := logger.New(cfg.LogLevel, filepath.Join(cfg.DataDir, "flashmon.log"))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	st := store.New(cfg.DataDir)

	orch := flash.NewOrchestrator(flash.Options{
		Opener:        serial.SystemOpener{PollTimeout: cfg.PollInterval()},
		Log:           log,
		Marker:        cfg.Marker,
		ProgressTotal: cfg.ProgressTotal(),
		ProgressTick:  cfg.ProgressTick(),
	})

	model := app.New(orch, st, log, cfg.BaudRate, cfg.RefreshInterval())

	p := tea.NewProgram(model, tea.WithAltScreen())
	go app.PumpEvents(p, orch.Events())

	if _, err := p.Run(); err != nil {
		orch.StopAll()
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	// Quit paths inside the model already stop every session; this covers
	// program termination without a quit key.
	orch.StopAll()
}
