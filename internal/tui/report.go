package tui

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/yourpaljake/hitfinding/internal/engine"
)

// RenderPlain writes the plot, summary, failures, and elapsed line as plain
// text.
func RenderPlain(w io.Writer, agg *engine.Aggregation) error {
	canvas := NewCanvas(agg.Viewport, DefaultPlotWidth, DefaultPlotHeight)
	canvas.Plot(agg.Points)

	var sb strings.Builder
	for _, line := range canvas.Lines(nil) {
		sb.WriteString(line)
		sb.WriteByte('\n')
	}
	sb.WriteByte('\n')
	sb.WriteString(summaryLine(agg))
	sb.WriteByte('\n')

	if n := agg.OutOfView(); n > 0 {
		fmt.Fprintf(&sb, "%s %s outside the %dx%d view\n",
			FormatCount(n), Plural(n, "hit"), agg.Viewport.XMax-agg.Viewport.XMin, agg.Viewport.YMax-agg.Viewport.YMin)
	}

	if len(agg.Failures) > 0 {
		sb.WriteString("Failed files:\n")
		for _, f := range agg.Failures {
			fmt.Fprintf(&sb, "  [%d] %s: %s\n", f.Index, f.Path, f.Message)
		}
	}

	sb.WriteString(ElapsedLine(agg.Elapsed))
	sb.WriteByte('\n')

	_, err := io.WriteString(w, sb.String())
	return err
}

// RenderStyled writes the same report with lipgloss styling, the plot boxed.
func RenderStyled(w io.Writer, agg *engine.Aggregation, width int) error {
	canvas := NewCanvas(agg.Viewport, plotWidthFor(width), DefaultPlotHeight)
	canvas.Plot(agg.Points)

	plot := BoxStyle.Render(strings.Join(canvas.Lines(func(g string) string { return HitStyle.Render(g) }), "\n"))

	sections := []string{
		HeaderStyle.Render("HITS"),
		plot,
		renderSummary(agg),
	}
	if len(agg.Failures) > 0 {
		sections = append(sections, renderFailures(agg.Failures))
	}
	sections = append(sections, InfoStyle.Render(ElapsedLine(agg.Elapsed)))

	_, err := io.WriteString(w, lipgloss.JoinVertical(lipgloss.Left, sections...)+"\n")
	return err
}

// plotWidthFor fits the plot inside a terminal of the given width.
func plotWidthFor(termWidth int) int {
	// Box border and padding plus the y-axis label column.
	const chrome = 10
	if termWidth <= 0 {
		return DefaultPlotWidth
	}
	return min(DefaultPlotWidth, max(termWidth-chrome, minPlotWidth))
}

func summaryLine(agg *engine.Aggregation) string {
	files := len(agg.Files)
	failed := len(agg.Failures)
	hits := agg.TotalHits()
	return fmt.Sprintf("%s %s, %s %s, %s failed",
		FormatCount(files), Plural(files, "file"),
		FormatCount(hits), Plural(hits, "hit"),
		FormatCount(failed))
}

func renderSummary(agg *engine.Aggregation) string {
	var sb strings.Builder
	sb.WriteString(LabelStyle.Render("Files: "))
	sb.WriteString(ValueStyle.Render(FormatCount(len(agg.Files))))
	sb.WriteString(LabelStyle.Render("   Hits: "))
	sb.WriteString(ValueStyle.Render(FormatCount(agg.TotalHits())))
	sb.WriteString(LabelStyle.Render("   Failed: "))
	failed := FormatCount(len(agg.Failures))
	if len(agg.Failures) > 0 {
		sb.WriteString(ErrorStyle.Render(failed))
	} else {
		sb.WriteString(OKStyle.Render(failed))
	}
	if n := agg.OutOfView(); n > 0 {
		sb.WriteString(LabelStyle.Render("   Outside view: "))
		sb.WriteString(WarnStyle.Render(FormatCount(n)))
	}
	return sb.String()
}

func renderFailures(failures []engine.Failure) string {
	lines := make([]string, 0, len(failures)+1)
	lines = append(lines, ErrorStyle.Render("Failed files"))
	for _, f := range failures {
		lines = append(lines, fmt.Sprintf("  %s %s %s",
			LabelStyle.Render(fmt.Sprintf("[%d]", f.Index)),
			f.Path,
			WarnStyle.Render(f.Message)))
	}
	return strings.Join(lines, "\n")
}
