// Package diff renders patched files as unified diffs for previews.
package diff

import (
	"strings"

	"github.com/pmezard/go-difflib/difflib"
)

const contextLines = 3

// Unified returns a unified diff from before to after, both given as lines
// that keep their terminators. It is empty when nothing changed.
func Unified(path string, before, after []string) (string, error) {
	ud := difflib.UnifiedDiff{
		A:        normalize(before),
		B:        normalize(after),
		FromFile: "a/" + path,
		ToFile:   "b/" + path,
		Context:  contextLines,
	}
	return difflib.GetUnifiedDiffString(ud)
}

// difflib writes each line verbatim, so carriage returns would leak into the
// diff text and a missing final newline would glue two lines together.
func normalize(lines []string) []string {
	out := make([]string, len(lines))
	for i, l := range lines {
		l = strings.TrimSuffix(l, "\n")
		l = strings.TrimSuffix(l, "\r")
		out[i] = l + "\n"
	}
	return out
}
