package tui

import (
	"strconv"
	"strings"

	"github.com/yourpaljake/hitfinding/internal/engine"
)

// Default plot size in character cells.
const (
	DefaultPlotWidth  = 64
	DefaultPlotHeight = 24

	minPlotWidth  = 8
	minPlotHeight = 4
)

// Cell glyphs by hit density.
const (
	glyphEmpty = '.'
	glyphOne   = '+'
	glyphFew   = '*'
	glyphMany  = '#'

	fewThreshold  = 2
	manyThreshold = 5
)

// Canvas is a character grid over a viewport. Row 0 of the grid is the top of
// the plot, i.e. the viewport's maximum Y.
type Canvas struct {
	Viewport  engine.Viewport
	Width     int
	Height    int
	counts    [][]int
	outOfView int
}

// NewCanvas returns an empty canvas. Sizes below the minimum are raised.
func NewCanvas(vp engine.Viewport, width, height int) *Canvas {
	width = max(width, minPlotWidth)
	height = max(height, minPlotHeight)
	counts := make([][]int, height)
	for i := range counts {
		counts[i] = make([]int, width)
	}
	return &Canvas{Viewport: vp, Width: width, Height: height, counts: counts}
}

// Plot adds points to the canvas. Points outside the viewport are counted but
// not drawn.
func (c *Canvas) Plot(points []engine.Point) {
	spanX := c.Viewport.XMax - c.Viewport.XMin
	spanY := c.Viewport.YMax - c.Viewport.YMin
	for _, p := range points {
		if !c.Viewport.Contains(p) || spanX <= 0 || spanY <= 0 {
			c.outOfView++
			continue
		}
		gx := (p.X - c.Viewport.XMin) * (c.Width - 1) / spanX
		gy := (p.Y - c.Viewport.YMin) * (c.Height - 1) / spanY
		c.counts[c.Height-1-gy][gx]++
	}
}

// OutOfView returns the number of points that fell outside the viewport.
func (c *Canvas) OutOfView() int {
	return c.outOfView
}

// Count returns the number of points drawn in the cell at grid (row, col).
func (c *Canvas) Count(row, col int) int {
	return c.counts[row][col]
}

// Lines renders the grid with axes. hit styles occupied cells; pass nil for
// plain text.
func (c *Canvas) Lines(hit func(string) string) []string {
	yTop := strconv.Itoa(c.Viewport.YMax)
	yBottom := strconv.Itoa(c.Viewport.YMin)
	labelWidth := max(len(yTop), len(yBottom))

	lines := make([]string, 0, c.Height+2)
	for r := range c.Height {
		label := ""
		switch r {
		case 0:
			label = yTop
		case c.Height - 1:
			label = yBottom
		}

		var sb strings.Builder
		sb.WriteString(strings.Repeat(" ", labelWidth-len(label)))
		sb.WriteString(label)
		sb.WriteString(" |")
		for col := range c.Width {
			g := glyph(c.counts[r][col])
			if g != glyphEmpty && hit != nil {
				sb.WriteString(hit(string(g)))
			} else {
				sb.WriteRune(g)
			}
		}
		lines = append(lines, sb.String())
	}

	pad := strings.Repeat(" ", labelWidth+1)
	lines = append(lines, pad+"+"+strings.Repeat("-", c.Width))

	xLeft := strconv.Itoa(c.Viewport.XMin)
	xRight := strconv.Itoa(c.Viewport.XMax)
	gap := max(c.Width-len(xLeft)-len(xRight), 1)
	lines = append(lines, pad+" "+xLeft+strings.Repeat(" ", gap)+xRight)
	return lines
}

func glyph(n int) rune {
	switch {
	case n == 0:
		return glyphEmpty
	case n < fewThreshold:
		return glyphOne
	case n < manyThreshold:
		return glyphFew
	default:
		return glyphMany
	}
}
