package model

// Summary holds the results of a run for display.
type Summary struct {
	Patched  []string
	Skipped  []string
	Failed   []string
	Previews []Preview

	// Message is a one-line note shown above the file lists.
	Message string
}

// Preview is the diff a dry run would have written.
type Preview struct {
	Path string
	Diff string
}
