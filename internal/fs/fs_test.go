package fs

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPathResolver(t *testing.T) {
	root := t.TempDir()
	r := NewPathResolver(root)

	assert.Equal(t, root, r.Root())
	assert.Equal(t, filepath.Join(root, "Assets", "a.cs"), r.Resolve("Assets/a.cs"))

	abs := filepath.Join(t.TempDir(), "b.cs")
	assert.Equal(t, abs, r.Resolve(abs))
}

func TestNewPathResolverDefaultsToExecutableDir(t *testing.T) {
	r := NewPathResolver("")
	assert.NotEmpty(t, r.Root())
	assert.True(t, filepath.IsAbs(r.Root()))
}

func TestExists(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "f.txt")
	require.NoError(t, os.WriteFile(file, []byte("x"), 0o644))

	assert.True(t, Exists(file))
	assert.False(t, Exists(filepath.Join(dir, "missing.txt")))
	assert.False(t, Exists(dir))
}

func TestDecode(t *testing.T) {
	t.Run("utf-8", func(t *testing.T) {
		text, enc, err := Decode([]byte("caf\xc3\xa9\n"))
		require.NoError(t, err)
		assert.Equal(t, UTF8, enc)
		assert.Equal(t, "café\n", text)
	})

	t.Run("utf-8 with bom", func(t *testing.T) {
		text, enc, err := Decode([]byte("\xef\xbb\xbfusing UnityEngine;\n"))
		require.NoError(t, err)
		assert.Equal(t, UTF8, enc)
		assert.Equal(t, "using UnityEngine;\n", text)
	})

	t.Run("falls back to windows-1252", func(t *testing.T) {
		text, enc, err := Decode([]byte("// \xa9 Cyberith \x96 2020\n"))
		require.NoError(t, err)
		assert.Equal(t, Windows1252, enc)
		assert.Equal(t, "// © Cyberith – 2020\n", text)
	})

	t.Run("undefined windows-1252 byte", func(t *testing.T) {
		_, _, err := Decode([]byte("// \x81 \x9d \xff\n"))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "decode cp1252")
		assert.Contains(t, err.Error(), "offset 3")
	})
}

func TestEncode(t *testing.T) {
	out, err := Encode("// © Cyberith – 2020\n")
	require.NoError(t, err)
	assert.Equal(t, []byte("// \xa9 Cyberith \x96 2020\n"), out)

	_, err = Encode("emoji \U0001F600")
	assert.Error(t, err)
}

func TestReadWriteLines(t *testing.T) {
	path := filepath.Join(t.TempDir(), "Controller.cs")
	require.NoError(t, os.WriteFile(path, []byte("// \xa9\r\nclass A {}\r\n"), 0o600))

	lines, enc, err := ReadLines(path)
	require.NoError(t, err)
	assert.Equal(t, Windows1252, enc)
	assert.Equal(t, []string{"// ©\r\n", "class A {}\r\n"}, lines)

	require.NoError(t, WriteLines(path, append(lines, "// é\r\n")))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "// \xa9\r\nclass A {}\r\n// \xe9\r\n", string(data))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	_, err = os.Stat(filepath.Join(filepath.Dir(path), ".Controller.cs.tmp"))
	assert.True(t, os.IsNotExist(err), "temp file should be renamed away")
}

func TestAtomicWriteRenameFailureKeepsBothFiles(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "Controller.cs")
	require.NoError(t, os.WriteFile(path, []byte("original\n"), 0o644))

	locked := errors.New("file in use")
	prev := rename
	rename = func(string, string) error { return locked }
	t.Cleanup(func() { rename = prev })

	err := AtomicWrite(path, []byte("patched\n"))
	require.ErrorIs(t, err, locked)

	tmp := filepath.Join(dir, ".Controller.cs.tmp")
	assert.Contains(t, err.Error(), tmp)

	data, readErr := os.ReadFile(path)
	require.NoError(t, readErr)
	assert.Equal(t, "original\n", string(data))

	data, readErr = os.ReadFile(tmp)
	require.NoError(t, readErr)
	assert.Equal(t, "patched\n", string(data))
}

func TestRenameWithRetry(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "src")
	dst := filepath.Join(dir, "dst")
	require.NoError(t, os.WriteFile(src, []byte("new"), 0o644))
	require.NoError(t, os.WriteFile(dst, []byte("old"), 0o644))

	calls := 0
	prev := rename
	rename = func(from, to string) error {
		calls++
		if calls < 3 {
			// dst must still be there on every retry.
			_, err := os.Stat(to)
			require.NoError(t, err)
			return errors.New("sharing violation")
		}
		return os.Rename(from, to)
	}
	t.Cleanup(func() { rename = prev })

	require.NoError(t, renameWithRetry(src, dst, 5))
	assert.Equal(t, 3, calls)

	data, err := os.ReadFile(dst)
	require.NoError(t, err)
	assert.Equal(t, "new", string(data))

	calls = 0
	rename = func(string, string) error { calls++; return errors.New("locked") }
	assert.Error(t, renameWithRetry(src, dst, 4))
	assert.Equal(t, 4, calls)
}

func TestReadLinesMissingFile(t *testing.T) {
	_, _, err := ReadLines(filepath.Join(t.TempDir(), "nope.cs"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}
