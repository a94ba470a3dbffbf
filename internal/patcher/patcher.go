package patcher

import (
	"strings"
)

// Placement says where an edit's lines go relative to its anchor line.
type Placement int

const (
	After Placement = iota
	Before
)

// Edit is a single anchored insertion. Lines are given without terminators;
// Apply adds the newline style of the input.
type Edit struct {
	Name      string
	Anchor    string
	Lines     []string
	Placement Placement

	// Present reports whether a line shows the edit is already in the file.
	Present func(line string) bool
}

// Status is the outcome of one edit.
type Status struct {
	Name     string
	Present  bool
	Inserted bool
}

// OK is true when the edit is in the output, either from before or from this run.
func (s Status) OK() bool {
	return s.Present || s.Inserted
}

// Apply runs each edit as its own pass over the output of the previous one.
// Presence is decided on the original input, so an edit inserted by an
// earlier pass never suppresses a later one. Each edit is placed at most once,
// at the first line containing its anchor.
func Apply(lines []string, edits ...Edit) ([]string, []Status) {
	statuses := make([]Status, len(edits))
	for i, e := range edits {
		statuses[i] = Status{Name: e.Name, Present: containsLine(lines, e.Present)}
	}

	eol := lineEnding(lines)
	out := append([]string(nil), lines...)
	for i, e := range edits {
		if statuses[i].Present {
			continue
		}
		out, statuses[i].Inserted = insertAtAnchor(out, e, eol)
	}
	return out, statuses
}

func insertAtAnchor(lines []string, e Edit, eol string) ([]string, bool) {
	block := make([]string, len(e.Lines))
	for i, l := range e.Lines {
		block[i] = l + eol
	}

	next := make([]string, 0, len(lines)+len(block))
	inserted := false
	for _, line := range lines {
		if inserted || !strings.Contains(line, e.Anchor) {
			next = append(next, line)
			continue
		}
		if e.Placement == Before {
			next = append(next, block...)
			next = append(next, line)
		} else {
			next = append(next, line)
			next = append(next, block...)
		}
		inserted = true
	}
	return next, inserted
}

func containsLine(lines []string, match func(string) bool) bool {
	if match == nil {
		return false
	}
	for _, line := range lines {
		if match(line) {
			return true
		}
	}
	return false
}

// lineEnding returns the terminator of the first terminated line, "\n" when
// there is none.
func lineEnding(lines []string) string {
	for _, line := range lines {
		if strings.HasSuffix(line, "\r\n") {
			return "\r\n"
		}
		if strings.HasSuffix(line, "\n") {
			return "\n"
		}
	}
	return "\n"
}

// Contains matches lines holding s anywhere.
func Contains(s string) func(string) bool {
	return func(line string) bool { return strings.Contains(line, s) }
}

// EqualTrimmed matches lines equal to s once surrounding whitespace is removed
// from both.
func EqualTrimmed(s string) func(string) bool {
	want := strings.TrimSpace(s)
	return func(line string) bool { return strings.TrimSpace(line) == want }
}

// SplitLines splits text into lines that keep their terminators. A trailing
// fragment without a terminator becomes the last line.
func SplitLines(text string) []string {
	if text == "" {
		return nil
	}
	lines := strings.SplitAfter(text, "\n")
	if lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	return lines
}
