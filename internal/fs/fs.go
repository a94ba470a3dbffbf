package fs

import (
	"errors"
	"fmt"
	iofs "io/fs"
	"os"
	"path/filepath"
	"runtime"
	"time"
)

// PathResolver turns paths relative to a project root into absolute paths.
type PathResolver struct {
	root string
}

// NewPathResolver creates a PathResolver. An empty root means DefaultRoot().
func NewPathResolver(root string) *PathResolver {
	if root == "" {
		root = DefaultRoot()
	}
	if abs, err := filepath.Abs(root); err == nil {
		root = abs
	}
	return &PathResolver{root: root}
}

// DefaultRoot is the directory holding the running executable, so the tool
// can be dropped next to Assets/ and run without arguments. It falls back to
// the working directory.
func DefaultRoot() string {
	if exe, err := os.Executable(); err == nil {
		if resolved, err := filepath.EvalSymlinks(exe); err == nil {
			exe = resolved
		}
		return filepath.Dir(exe)
	}
	wd, err := os.Getwd()
	if err != nil {
		// This is unlikely to fail, but if it does, it's a critical error.
		panic(fmt.Sprintf("could not get current working directory: %v", err))
	}
	return wd
}

// Root returns the absolute project root.
func (r *PathResolver) Root() string {
	return r.root
}

// Resolve joins relativePath onto the root. Absolute paths pass through.
func (r *PathResolver) Resolve(relativePath string) string {
	if filepath.IsAbs(relativePath) {
		return filepath.Clean(relativePath)
	}
	return filepath.Join(r.root, filepath.FromSlash(relativePath))
}

// Exists reports whether path names an existing regular file.
func Exists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}

// AtomicWrite writes content to a temp file next to path and renames it into
// place. The existing file mode is kept when path already exists. When the
// rename fails path is left as it was and the temp file is kept.
func AtomicWrite(path string, content []byte) error {
	mode := iofs.FileMode(0o644)
	if info, err := os.Stat(path); err == nil {
		mode = info.Mode().Perm()
	} else if !errors.Is(err, iofs.ErrNotExist) {
		return err
	}

	tmp := filepath.Join(filepath.Dir(path), "."+filepath.Base(path)+".tmp")
	f, err := os.OpenFile(tmp, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, mode)
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	if _, err := f.Write(content); err != nil {
		f.Close()
		os.Remove(tmp)
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := f.Sync(); err != nil {
		f.Close()
		os.Remove(tmp)
		return fmt.Errorf("sync temp file: %w", err)
	}
	if err := f.Close(); err != nil {
		os.Remove(tmp)
		return err
	}

	if err := renameWithRetry(tmp, path, renameAttempts()); err != nil {
		// path is untouched; keep the patched content where the user can find it.
		return fmt.Errorf("replace %s (patched content kept in %s): %w", path, tmp, err)
	}
	return nil
}

// rename is swapped in tests.
var rename = os.Rename

func renameAttempts() int {
	// Windows refuses to replace a file another process (the Unity editor,
	// usually) holds open for a moment.
	if runtime.GOOS == "windows" {
		return 6
	}
	return 1
}

// renameWithRetry never removes dst. os.Rename replaces an existing file on
// every platform, including Windows through MoveFileEx.
func renameWithRetry(src, dst string, attempts int) error {
	var err error
	for i := 0; i < attempts; i++ {
		if i > 0 {
			time.Sleep(50 * time.Millisecond)
		}
		if err = rename(src, dst); err == nil {
			return nil
		}
	}
	return err
}
