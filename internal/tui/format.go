package tui

import (
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/yourpaljake/hitfinding/internal/engine/batch"
)

// printer formats numbers with English thousand separators.
//
//nolint:gochecknoglobals // Global printer is idiomatic for x/text/message usage.
var printer = message.NewPrinter(language.English)

// FormatCount formats n with thousand separators, e.g. 18248 -> "18,248".
func FormatCount(n int) string {
	return printer.Sprintf("%d", n)
}

// FormatSeconds renders d in seconds with four decimals.
func FormatSeconds(d time.Duration) string {
	return printer.Sprintf("%.4f", d.Seconds())
}

// ElapsedLine is the run-time report printed after every run.
func ElapsedLine(d time.Duration) string {
	return "Code ran in " + FormatSeconds(d) + " seconds"
}

// Plural returns word, suffixed with "s" unless n is 1.
func Plural(n int, word string) string {
	if n == 1 {
		return word
	}
	return word + "s"
}

// ProgressLine renders a progress snapshot, e.g. "Processed 3/10 files (1 failed)".
func ProgressLine(s batch.ProgressSnapshot) string {
	line := "Processed " + FormatCount(s.ProcessedItems) + "/" + FormatCount(s.TotalItems) + " " + Plural(s.TotalItems, "file")
	if s.FailedItems > 0 {
		line += " (" + FormatCount(s.FailedItems) + " failed)"
	}
	return line
}
