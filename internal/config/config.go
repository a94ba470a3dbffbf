// internal/config/config.go
//
// Optional settings for unipatch. Without a file the tool patches
// Assets/CybSDK/Core/Scripts/CVirtPlayerController.cs under the directory
// holding the executable.

package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

const (
	// FileName is looked up in the project root when no --config is given.
	FileName = "unipatch.yaml"

	// DefaultTarget is the controller script relative to the Unity project root.
	DefaultTarget = "Assets/CybSDK/Core/Scripts/CVirtPlayerController.cs"
)

// File models unipatch.yaml.
type File struct {
	Root   string `yaml:"root,omitempty"`
	Target string `yaml:"target,omitempty"`
}

// Config is the resolved runtime configuration.
type Config struct {
	// Root is the Unity project directory; empty means the executable's dir.
	Root string

	// Target is the controller path, relative to Root unless absolute.
	Target string
}

// Default returns the configuration used when nothing overrides it.
func Default() Config {
	return Config{Target: DefaultTarget}
}

// Load reads a YAML config. A missing file is an error only when required.
// Relative roots are resolved against the file's directory.
func Load(path string, required bool) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) && !required {
			return cfg, nil
		}
		return cfg, fmt.Errorf("config: read %s: %w", path, err)
	}

	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return cfg, fmt.Errorf("config: parse %s: %w", path, err)
	}
	if err := f.validate(); err != nil {
		return cfg, fmt.Errorf("config: %s: %w", path, err)
	}

	if f.Root != "" {
		cfg.Root = f.Root
		if !filepath.IsAbs(cfg.Root) {
			cfg.Root = filepath.Join(filepath.Dir(path), cfg.Root)
		}
	}
	if f.Target != "" {
		cfg.Target = f.Target
	}
	return cfg, nil
}

func (f File) validate() error {
	if strings.TrimSpace(f.Target) != f.Target {
		return fmt.Errorf("target %q has surrounding whitespace", f.Target)
	}
	if f.Target != "" && strings.HasSuffix(f.Target, "/") {
		return fmt.Errorf("target %q must name a file", f.Target)
	}
	return nil
}
