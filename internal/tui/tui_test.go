package tui

import (
	"bytes"
	"errors"
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourpaljake/hitfinding/internal/engine"
	"github.com/yourpaljake/hitfinding/internal/engine/batch"
)

func envFrom(m map[string]string) func(string) (string, bool) {
	return func(k string) (string, bool) {
		v, ok := m[k]
		return v, ok
	}
}

func TestDetectOutputMode(t *testing.T) {
	tests := []struct {
		name        string
		forcePlain  bool
		noColor     bool
		interactive bool
		tty         bool
		env         map[string]string
		want        OutputMode
	}{
		{name: "pipe", tty: false, want: OutputModePlain},
		{name: "forced plain", forcePlain: true, tty: true, want: OutputModePlain},
		{name: "no color flag", noColor: true, tty: true, want: OutputModePlain},
		{name: "NO_COLOR", tty: true, env: map[string]string{"NO_COLOR": ""}, want: OutputModePlain},
		{name: "dumb terminal", tty: true, env: map[string]string{"TERM": "dumb"}, want: OutputModePlain},
		{name: "terminal", tty: true, want: OutputModeStyled},
		{name: "interactive", tty: true, interactive: true, want: OutputModeInteractive},
		{name: "CI never interactive", tty: true, interactive: true, env: map[string]string{"CI": "true"}, want: OutputModeStyled},
		{name: "interactive needs tty", interactive: true, want: OutputModePlain},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := detectOutputMode(tt.forcePlain, tt.noColor, tt.interactive, tt.tty, envFrom(tt.env))
			assert.Equal(t, tt.want, got)
		})
	}
	assert.Equal(t, "interactive", OutputModeInteractive.String())
}

func TestFormat(t *testing.T) {
	assert.Equal(t, "18,248", FormatCount(18248))
	assert.Equal(t, "0", FormatCount(0))
	assert.Equal(t, "Code ran in 1.5000 seconds", ElapsedLine(1500*time.Millisecond))
	assert.Equal(t, "hit", Plural(1, "hit"))
	assert.Equal(t, "hits", Plural(0, "hit"))
}

func TestProgressLine(t *testing.T) {
	assert.Equal(t, "Processed 3/10 files", ProgressLine(batch.ProgressSnapshot{ProcessedItems: 3, TotalItems: 10}))
	assert.Equal(t, "Processed 1/1 file (1 failed)",
		ProgressLine(batch.ProgressSnapshot{ProcessedItems: 1, TotalItems: 1, FailedItems: 1}))
}

func TestCanvas(t *testing.T) {
	c := NewCanvas(engine.DefaultViewport(), 47, 47)
	c.Plot([]engine.Point{
		{X: 0, Y: 0},
		{X: 460, Y: 460},
		{X: 230, Y: 230}, {X: 231, Y: 232},
		{X: -1, Y: 5},
		{X: 10, Y: 461},
	})

	assert.Equal(t, 1, c.Count(46, 0), "origin is bottom left")
	assert.Equal(t, 1, c.Count(0, 46), "max corner is top right")
	assert.Equal(t, 2, c.Count(46-23, 23))
	assert.Equal(t, 2, c.OutOfView())

	lines := c.Lines(nil)
	require.Len(t, lines, 47+2)
	assert.True(t, strings.HasPrefix(lines[0], "460 |"))
	assert.True(t, strings.HasPrefix(lines[46], "  0 |+"))
	assert.True(t, strings.HasSuffix(lines[0], "+"))
	assert.Contains(t, lines[23], "*")
	assert.True(t, strings.HasSuffix(lines[48], "460"))
}

func TestCanvas_MinimumSize(t *testing.T) {
	c := NewCanvas(engine.DefaultViewport(), 1, 1)
	assert.Equal(t, minPlotWidth, c.Width)
	assert.Equal(t, minPlotHeight, c.Height)
}

func TestGlyph(t *testing.T) {
	assert.Equal(t, '.', glyph(0))
	assert.Equal(t, '+', glyph(1))
	assert.Equal(t, '*', glyph(3))
	assert.Equal(t, '#', glyph(9))
}

func sampleAggregation() *engine.Aggregation {
	return &engine.Aggregation{
		Points: []engine.Point{{X: 20, Y: 10}, {X: 500, Y: 3}},
		Files: []engine.FileSummary{
			{Index: 0, Path: "data/1.dat", Status: engine.SlotDone, Hits: 2},
			{Index: 1, Path: "data/2.dat", Status: engine.SlotFailed, Error: "detect data/2.dat: invocation failed: EOF"},
			{Index: 2, Path: "data/10.dat", Status: engine.SlotDone},
		},
		Failures: []engine.Failure{{
			Index: 1, Path: "data/2.dat",
			Err:     errors.New("detect data/2.dat: invocation failed: EOF"),
			Message: "detect data/2.dat: invocation failed: EOF",
		}},
		Elapsed:  2 * time.Second,
		Viewport: engine.DefaultViewport(),
	}
}

func TestRenderPlain(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, RenderPlain(&buf, sampleAggregation()))
	out := buf.String()

	assert.Contains(t, out, "3 files, 2 hits, 1 failed")
	assert.Contains(t, out, "1 hit outside the 460x460 view")
	assert.Contains(t, out, "[1] data/2.dat: detect data/2.dat: invocation failed: EOF")
	assert.True(t, strings.HasSuffix(out, "Code ran in 2.0000 seconds\n"))
}

func TestRenderPlain_NoFailures(t *testing.T) {
	agg := &engine.Aggregation{Points: []engine.Point{}, Viewport: engine.DefaultViewport()}
	var buf bytes.Buffer
	require.NoError(t, RenderPlain(&buf, agg))
	assert.NotContains(t, buf.String(), "Failed files")
	assert.Contains(t, buf.String(), "0 files, 0 hits, 0 failed")
}

func TestRenderStyled(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, RenderStyled(&buf, sampleAggregation(), 120))
	out := buf.String()

	assert.Contains(t, out, "HITS")
	assert.Contains(t, out, "Failed files")
	assert.Contains(t, out, "data/2.dat")
	assert.Contains(t, out, "Code ran in 2.0000 seconds")
}

func TestPlotWidthFor(t *testing.T) {
	assert.Equal(t, DefaultPlotWidth, plotWidthFor(0))
	assert.Equal(t, DefaultPlotWidth, plotWidthFor(200))
	assert.Equal(t, 30, plotWidthFor(40))
	assert.Equal(t, minPlotWidth, plotWidthFor(5))
}

func TestResultsModel(t *testing.T) {
	m := NewResultsModel(sampleAggregation())
	assert.Equal(t, ViewStateList, m.state)
	assert.Len(t, m.rows, 3)
	assert.Contains(t, m.View(), "RESULTS")

	updated, _ := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = updated.(ResultsModel)
	assert.Equal(t, ViewStateDetail, m.state)
	assert.Contains(t, m.View(), "data/1.dat")

	updated, _ = m.Update(tea.KeyMsg{Type: tea.KeyEscape})
	m = updated.(ResultsModel)
	assert.Equal(t, ViewStateList, m.state)

	updated, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("f")})
	m = updated.(ResultsModel)
	require.Len(t, m.rows, 1)
	assert.Equal(t, 1, m.rows[0].Index)

	updated, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("p")})
	m = updated.(ResultsModel)
	assert.Equal(t, ViewStatePlot, m.state)
	assert.Contains(t, m.View(), "460")

	updated, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
	m = updated.(ResultsModel)
	assert.Equal(t, ViewStateQuitting, m.state)
	assert.NotNil(t, cmd)
	assert.Empty(t, m.View())
}

func TestResultsModel_WindowResize(t *testing.T) {
	m := NewResultsModel(sampleAggregation())
	updated, _ := m.Update(tea.WindowSizeMsg{Width: 80, Height: 20})
	m = updated.(ResultsModel)
	assert.Equal(t, 80, m.width)
	assert.Equal(t, 20, m.height)
}

func TestTruncatePath(t *testing.T) {
	assert.Equal(t, "short", truncatePath("short"))
	long := strings.Repeat("a", 100) + "/1.dat"
	got := truncatePath(long)
	assert.Len(t, got, maxPathDisplayLen)
	assert.True(t, strings.HasPrefix(got, "..."))
	assert.True(t, strings.HasSuffix(got, "/1.dat"))

	t.Run("multibyte names keep whole runes", func(t *testing.T) {
		p := strings.Repeat("é", 60) + "/データ/12.dat"
		got := truncatePath(p)
		assert.True(t, utf8.ValidString(got))
		assert.Equal(t, maxPathDisplayLen, utf8.RuneCountInString(got))
		assert.True(t, strings.HasSuffix(got, "/データ/12.dat"))

		short := "データ/1.dat"
		assert.Equal(t, short, truncatePath(short))
	})
}
