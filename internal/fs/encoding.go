package fs

import (
	"bytes"
	"fmt"
	"os"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"

	"github.com/sokinpui/unipatch/internal/patcher"
)

// Encoding names the charset a file was decoded with.
type Encoding string

const (
	UTF8        Encoding = "utf-8"
	Windows1252 Encoding = "cp1252"
)

// Decode reads data as UTF-8 and falls back to Windows-1252 when it is not
// valid UTF-8. A UTF-8 byte order mark is dropped. Bytes the code page leaves
// undefined (0x81, 0x8D, 0x8F, 0x90, 0x9D) fail the fallback.
func Decode(data []byte) (string, Encoding, error) {
	if utf8.Valid(data) {
		text, _, err := transform.Bytes(unicode.UTF8BOM.NewDecoder(), data)
		if err != nil {
			return "", "", fmt.Errorf("decode %s: %w", UTF8, err)
		}
		return string(text), UTF8, nil
	}
	text, err := charmap.Windows1252.NewDecoder().Bytes(data)
	if err != nil {
		return "", "", fmt.Errorf("decode %s: %w", Windows1252, err)
	}
	// The x/text decoder maps undefined bytes to U+FFFD; no defined byte does.
	if bytes.ContainsRune(text, utf8.RuneError) {
		return "", "", fmt.Errorf("decode %s: undefined byte at offset %d", Windows1252, undefinedOffset(data))
	}
	return string(text), Windows1252, nil
}

func undefinedOffset(data []byte) int {
	for i, b := range data {
		switch b {
		case 0x81, 0x8D, 0x8F, 0x90, 0x9D:
			return i
		}
	}
	return -1
}

// Encode converts text to Windows-1252. Runes outside the code page are an
// error.
func Encode(text string) ([]byte, error) {
	out, err := charmap.Windows1252.NewEncoder().Bytes([]byte(text))
	if err != nil {
		return nil, fmt.Errorf("encode %s: %w", Windows1252, err)
	}
	return out, nil
}

// ReadLines reads path and splits it into lines that keep their terminators.
func ReadLines(path string) ([]string, Encoding, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, "", fmt.Errorf("read %s: %w", path, err)
	}
	text, enc, err := Decode(data)
	if err != nil {
		return nil, "", fmt.Errorf("%s: %w", path, err)
	}
	return patcher.SplitLines(text), enc, nil
}

// RenderLines joins lines and encodes them the way WriteLines stores them.
func RenderLines(lines []string) ([]byte, error) {
	return Encode(strings.Join(lines, ""))
}

// WriteLines replaces path with lines encoded as Windows-1252, whatever the
// file was read as.
func WriteLines(path string, lines []string) error {
	data, err := RenderLines(lines)
	if err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	if err := AtomicWrite(path, data); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
