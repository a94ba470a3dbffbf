package unipatch

import (
	"errors"
	"fmt"
	"path/filepath"
	"runtime/debug"
	"strings"

	"github.com/atotto/clipboard"
	"go.uber.org/zap"

	"github.com/sokinpui/unipatch/cli"
	"github.com/sokinpui/unipatch/internal/config"
	"github.com/sokinpui/unipatch/internal/diff"
	"github.com/sokinpui/unipatch/internal/fs"
	"github.com/sokinpui/unipatch/internal/patcher"
	"github.com/sokinpui/unipatch/internal/ui"
	"github.com/sokinpui/unipatch/model"
)

// DryRunMessage heads the summary of a run that wrote nothing.
const DryRunMessage = "Dry run: no files were written."

// ProgressUpdate is a callback function to report progress.
type ProgressUpdate func(current, total int)

// Task is one file to patch.
type Task struct {
	Label string
	Path  string
	Patch patcher.Func
}

// App orchestrates the entire application logic.
type App struct {
	cfg              *cli.Config
	settings         config.Config
	pathResolver     *fs.PathResolver
	logger           *zap.Logger
	copyText         func(string) error
	progressCallback ProgressUpdate
	summary          model.Summary
}

// DetailedError enhances a standard error with a stack trace.
type DetailedError struct {
	Err   error
	Stack []byte
}

func (e *DetailedError) Error() string {
	return e.Err.Error()
}

func (e *DetailedError) Unwrap() error {
	return e.Err
}

// New creates a new App instance. A nil logger disables diagnostics.
func New(cfg *cli.Config, logger *zap.Logger) (*App, error) {
	if cfg == nil {
		cfg = &cli.Config{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	settings, err := loadSettings(cfg)
	if err != nil {
		return nil, err
	}
	root := cfg.Root
	if root == "" {
		root = settings.Root
	}
	pathResolver := fs.NewPathResolver(root)
	logger.Debug("resolved project root",
		zap.String("root", pathResolver.Root()),
		zap.String("target", settings.Target))

	return &App{
		cfg:          cfg,
		settings:     settings,
		pathResolver: pathResolver,
		logger:       logger,
		copyText:     clipboard.WriteAll,
	}, nil
}

// loadSettings reads --config when given, otherwise an optional unipatch.yaml
// in the project root.
func loadSettings(cfg *cli.Config) (config.Config, error) {
	if cfg.ConfigFile != "" {
		return config.Load(cfg.ConfigFile, true)
	}
	root := cfg.Root
	if root == "" {
		root = fs.DefaultRoot()
	}
	return config.Load(filepath.Join(root, config.FileName), false)
}

// SetProgressCallback sets a function to be called for progress updates.
func (a *App) SetProgressCallback(cb ProgressUpdate) {
	a.progressCallback = cb
}

// Root returns the resolved project root.
func (a *App) Root() string {
	return a.pathResolver.Root()
}

// Tasks lists the files this tool patches.
func (a *App) Tasks() []Task {
	return []Task{
		{
			Label: "Patching CVirtPlayerController...",
			Path:  a.pathResolver.Resolve(a.settings.Target),
			Patch: patcher.OrientationFields,
		},
	}
}

// SetClipboard replaces the function used by --copy.
func (a *App) SetClipboard(copyText func(string) error) {
	a.copyText = copyText
}

// Execute runs every task in order and returns what happened.
func (a *App) Execute() (model.Summary, error) {
	return a.RunSafely(a.Tasks())
}

// RunSafely is Run with panics turned into a DetailedError.
func (a *App) RunSafely(tasks []Task) (summary model.Summary, err error) {
	// Centralized panic recovery.
	defer func() {
		if r := recover(); r != nil {
			summary = a.summary
			err = &DetailedError{
				Err:   fmt.Errorf("internal panic: %v", r),
				Stack: debug.Stack(),
			}
		}
	}()

	return a.Run(tasks)
}

// Run applies tasks sequentially. It stops at the first fatal error; missing
// files are reported and do not stop the run.
func (a *App) Run(tasks []Task) (model.Summary, error) {
	a.summary = model.Summary{}
	ui.Plain("Running Universal Patcher")

	total := len(tasks)
	if a.progressCallback != nil {
		a.progressCallback(0, total)
	}
	for i, task := range tasks {
		ui.Plain("\n%s", task.Label)
		if _, err := a.ApplyToFile(task.Path, task.Patch); err != nil {
			a.summary.Failed = append(a.summary.Failed, task.Path)
			a.relativizeSummaryPaths(&a.summary)
			return a.summary, err
		}
		if a.progressCallback != nil {
			a.progressCallback(i+1, total)
		}
	}

	if a.cfg.DryRun {
		a.summary.Message = DryRunMessage
	}
	a.relativizeSummaryPaths(&a.summary)
	return a.summary, nil
}

// ApplyToFile patches the file at path with fn. It reports whether both edits
// are now present. The file is rewritten only when fn inserted lines and the
// patch is complete; a missing file is reported and yields false.
func (a *App) ApplyToFile(path string, fn patcher.Func) (bool, error) {
	name := filepath.Base(path)
	if !fs.Exists(path) {
		ui.Error("Error: File not found at %s", path)
		a.summary.Failed = append(a.summary.Failed, path)
		return false, nil
	}

	lines, enc, err := fs.ReadLines(path)
	if err != nil {
		return false, err
	}
	a.logger.Debug("read target",
		zap.String("path", path),
		zap.String("encoding", string(enc)),
		zap.Int("lines", len(lines)))

	patched, res := fn(lines)
	a.logger.Debug("patch computed",
		zap.Bool("field", res.Field),
		zap.Bool("assignment", res.Assignment),
		zap.Int("inserted", res.Inserted))

	switch {
	case !res.Satisfied():
		ui.Warning("Skipped: %s (anchor not found for %s)", name, strings.Join(res.Missing, ", "))
		a.summary.Skipped = append(a.summary.Skipped, path)
		return false, nil
	case !res.Changed():
		ui.Info("Skipped: %s already patched", name)
		a.summary.Skipped = append(a.summary.Skipped, path)
		return true, nil
	case a.cfg.DryRun:
		return true, a.preview(path, lines, patched)
	}

	if err := fs.WriteLines(path, patched); err != nil {
		return false, err
	}
	a.logger.Debug("target written", zap.String("path", path), zap.String("encoding", string(fs.Windows1252)))
	ui.Success("Patched: %s", name)
	a.summary.Patched = append(a.summary.Patched, path)
	return true, nil
}

// preview prints the diff a write would produce and optionally copies it.
func (a *App) preview(path string, before, after []string) error {
	rel := a.relative(path)
	text, err := diff.Unified(filepath.ToSlash(rel), before, after)
	if err != nil {
		return fmt.Errorf("render diff for %s: %w", rel, err)
	}
	// The write encoding is applied in dry runs too so the preview fails
	// exactly where the real run would.
	if _, err := fs.RenderLines(after); err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}

	ui.Info("Would patch: %s", filepath.Base(path))
	ui.Plain("%s", strings.TrimSuffix(text, "\n"))
	a.summary.Previews = append(a.summary.Previews, model.Preview{Path: rel, Diff: text})

	if a.cfg.Copy {
		if err := a.copyText(text); err != nil {
			return errors.Join(errors.New("failed to copy diff to clipboard"), err)
		}
		ui.Info("Diff copied to clipboard.")
	}
	return nil
}

func (a *App) relative(path string) string {
	rel, err := filepath.Rel(a.Root(), path)
	if err != nil || strings.HasPrefix(rel, "..") {
		return path
	}
	return rel
}

// relativizeSummaryPaths converts absolute file paths in a summary to be
// relative to the project root for cleaner display.
func (a *App) relativizeSummaryPaths(summary *model.Summary) {
	makeRelative := func(paths []string) []string {
		relPaths := make([]string, len(paths))
		for i, p := range paths {
			relPaths[i] = a.relative(p)
		}
		return relPaths
	}

	summary.Patched = makeRelative(summary.Patched)
	summary.Skipped = makeRelative(summary.Skipped)
	summary.Failed = makeRelative(summary.Failed)
}
