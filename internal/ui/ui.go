package ui

import (
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
)

// Output receives every status line. Tests swap it for a buffer.
var Output io.Writer = os.Stdout

var (
	HeaderColor  = color.New(color.FgBlue, color.Bold)
	InfoColor    = color.New(color.FgCyan)
	SuccessColor = color.New(color.FgGreen)
	WarningColor = color.New(color.FgYellow)
	ErrorColor   = color.New(color.FgRed)
	PathColor    = color.New(color.FgYellow)
)

func Plain(format string, a ...interface{}) {
	fmt.Fprintf(Output, format+"\n", a...)
}

func Header(format string, a ...interface{}) {
	HeaderColor.Fprintf(Output, format+"\n", a...)
}

func Info(format string, a ...interface{}) {
	InfoColor.Fprintf(Output, format+"\n", a...)
}

func Success(format string, a ...interface{}) {
	SuccessColor.Fprintf(Output, format+"\n", a...)
}

func Warning(format string, a ...interface{}) {
	WarningColor.Fprintf(Output, format+"\n", a...)
}

func Error(format string, a ...interface{}) {
	ErrorColor.Fprintf(Output, format+"\n", a...)
}

func Path(format string, a ...interface{}) {
	PathColor.Fprintf(Output, "  "+format+"\n", a...)
}

// --- Summaries ---

func PrintSummary(patched, skipped, failed []string) {
	Header("\n--- Patch Summary ---")

	if len(patched) == 0 && len(skipped) == 0 && len(failed) == 0 {
		Info("No files were processed.")
		return
	}

	if len(patched) > 0 {
		Success("Patched %d file(s):", len(patched))
		for _, f := range patched {
			Path("- %s", f)
		}
	}
	if len(skipped) > 0 {
		Info("Skipped %d file(s):", len(skipped))
		for _, f := range skipped {
			Path("- %s", f)
		}
	}
	if len(failed) > 0 {
		Error("Failed to patch %d file(s):", len(failed))
		for _, f := range failed {
			Path("- %s", f)
		}
	}
}
