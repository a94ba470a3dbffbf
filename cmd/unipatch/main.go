package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/sokinpui/unipatch/cli"
	"github.com/sokinpui/unipatch/internal/logging"
	"github.com/sokinpui/unipatch/internal/tui"
	"github.com/sokinpui/unipatch/internal/ui"
	"github.com/sokinpui/unipatch/unipatch"
)

func main() {
	os.Exit(run())
}

func run() int {
	cfg, err := cli.ParseFlags()
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		return 1
	}

	logger, err := logging.New(cfg.Verbose)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		return 1
	}
	defer func() { _ = logger.Sync() }()

	app, err := unipatch.New(cfg, logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize application: %v\n", err)
		return 1
	}

	if cfg.Interactive {
		return runInteractive(app, logger)
	}

	summary, err := app.Execute()
	if err != nil {
		fail(err, logger)
		return 1
	}
	if cfg.Verbose {
		ui.PrintSummary(summary.Patched, summary.Skipped, summary.Failed)
		if summary.Message != "" {
			ui.Info(summary.Message)
		}
	}
	return 0
}

func runInteractive(app *unipatch.App, logger *zap.Logger) int {
	// Status lines would tear the view; the summary screen replaces them.
	ui.Output = io.Discard

	model := tui.New(app)
	p := tea.NewProgram(model)
	model.SetProgram(p)
	final, err := p.Run()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error running program: %v\n", err)
		return 1
	}
	if m, ok := final.(tui.Model); ok && m.Err() != nil {
		logger.Error("patch failed", zap.Error(m.Err()))
		return 1
	}
	return 0
}

func fail(err error, logger *zap.Logger) {
	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	var detailed *unipatch.DetailedError
	if errors.As(err, &detailed) {
		fmt.Fprintf(os.Stderr, "\n--- Stack Trace ---\n%s\n", detailed.Stack)
	}
	logger.Debug("run aborted", zap.Error(err))
}
