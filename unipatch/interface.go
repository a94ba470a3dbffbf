package unipatch

import (
	"fmt"

	"github.com/sokinpui/unipatch/cli"
	"github.com/sokinpui/unipatch/model"
)

// Config for using unipatch as a library.
type Config struct {
	// Unity project root; empty means the directory of the executable.
	Root string

	// Print a diff instead of writing the file.
	DryRun bool
}

// Patch applies the orientation patch under config.Root and returns a summary
// with paths relative to the root.
func Patch(config Config) (model.Summary, error) {
	cliCfg := &cli.Config{
		Root:   config.Root,
		DryRun: config.DryRun,
	}

	app, err := New(cliCfg, nil)
	if err != nil {
		return model.Summary{}, fmt.Errorf("failed to initialize unipatch app: %w", err)
	}
	return app.Execute()
}
