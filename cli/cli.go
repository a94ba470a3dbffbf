package cli

import (
	"fmt"
	"os"

	"github.com/spf13/pflag"
)

// Config holds all the command-line flag values.
type Config struct {
	Root        string
	ConfigFile  string
	DryRun      bool
	Copy        bool
	Interactive bool
	Verbose     bool
}

// ParseFlags defines and parses command-line flags using pflag.
func ParseFlags() (*Config, error) {
	return parse(os.Args[1:], pflag.ExitOnError)
}

func parse(args []string, handling pflag.ErrorHandling) (*Config, error) {
	cfg := &Config{}
	flags := pflag.NewFlagSet("unipatch", handling)

	flags.StringVarP(&cfg.Root, "root", "d", "", "Unity project root (default: directory of the executable).")
	flags.StringVar(&cfg.ConfigFile, "config", "", "YAML config file (default: unipatch.yaml in the project root, if present).")
	flags.BoolVarP(&cfg.DryRun, "dry-run", "n", false, "Print the changes as a unified diff without writing them.")
	flags.BoolVarP(&cfg.Copy, "copy", "c", false, "Copy the diff to the clipboard (implies --dry-run).")
	flags.BoolVarP(&cfg.Interactive, "interactive", "i", false, "Show a spinner and a summary view while patching.")
	flags.BoolVarP(&cfg.Verbose, "verbose", "v", false, "Log diagnostics to stderr.")

	flags.Usage = func() {
		fmt.Println("Usage: unipatch [flags]")
		fmt.Println("\nExpose GlobalOrientation on CVirtPlayerController.cs of the Cyberith SDK.")
		fmt.Println("Safe to run repeatedly: files that are already patched are left untouched.")
		fmt.Println("\nExample: unipatch -d ~/UnityProjects/Arena --dry-run")
		fmt.Println("\nFlags:")
		flags.PrintDefaults()
	}

	if err := flags.Parse(args); err != nil {
		return nil, err
	}
	if flags.NArg() > 0 {
		return nil, fmt.Errorf("error: unexpected arguments: %v", flags.Args())
	}

	if cfg.Copy {
		cfg.DryRun = true
	}
	if cfg.Interactive && cfg.DryRun {
		return nil, fmt.Errorf("error: --interactive and --dry-run are mutually exclusive")
	}

	return cfg, nil
}
