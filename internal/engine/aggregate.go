package engine

import (
	"context"
	"time"

	"github.com/yourpaljake/hitfinding/internal/logging"
	"github.com/yourpaljake/hitfinding/internal/resolve"
)

// ViewportSize is the side of the square plot area.
const ViewportSize = 460

// Point is a plotted hit: X is the column, Y the row.
type Point struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Viewport is the plotted coordinate range. Points outside it are kept.
type Viewport struct {
	XMin int `json:"x_min"`
	XMax int `json:"x_max"`
	YMin int `json:"y_min"`
	YMax int `json:"y_max"`
}

// DefaultViewport is [0,460] on both axes.
func DefaultViewport() Viewport {
	return Viewport{XMax: ViewportSize, YMax: ViewportSize}
}

// Contains reports whether p lies inside v, edges included.
func (v Viewport) Contains(p Point) bool {
	return p.X >= v.XMin && p.X <= v.XMax && p.Y >= v.YMin && p.Y <= v.YMax
}

// FileSummary is one file's line in the report.
type FileSummary struct {
	Index  int       `json:"index"`
	Path   string    `json:"path"`
	Status SlotState `json:"status"`
	Hits   int       `json:"hits"`
	Error  string    `json:"error,omitempty"`
}

// Failure names a file whose detection did not complete.
type Failure struct {
	Index int    `json:"index"`
	Path  string `json:"path"`
	Err   error  `json:"-"`
	// Message is Err rendered for JSON output.
	Message string `json:"error"`
}

// Aggregation is the merged outcome of a run.
type Aggregation struct {
	Points   []Point       `json:"points"`
	Files    []FileSummary `json:"files"`
	Failures []Failure     `json:"failures"`
	Elapsed  time.Duration `json:"elapsed_ns"`
	Viewport Viewport      `json:"viewport"`
}

// TotalHits returns the number of points.
func (a *Aggregation) TotalHits() int {
	return len(a.Points)
}

// OutOfView counts points outside the viewport.
func (a *Aggregation) OutOfView() int {
	n := 0
	for _, p := range a.Points {
		if !a.Viewport.Contains(p) {
			n++
		}
	}
	return n
}

// Aggregate merges the table's slots in index order. start is when the run
// began; Elapsed covers everything up to the end of aggregation. Absent and
// failed slots add no points.
func Aggregate(ctx context.Context, b resolve.Batch, table *ResultTable, start time.Time) *Aggregation {
	agg := &Aggregation{
		Points:   []Point{},
		Files:    make([]FileSummary, 0, len(b)),
		Failures: []Failure{},
		Viewport: DefaultViewport(),
	}

	for _, task := range b {
		var slot Slot
		if task.Index >= 0 && task.Index < table.Len() {
			slot = table.Slot(task.Index)
		}

		summary := FileSummary{Index: task.Index, Path: task.Path, Status: slot.State}
		switch slot.State {
		case SlotDone:
			summary.Hits = len(slot.Result)
			for _, h := range slot.Result {
				agg.Points = append(agg.Points, Point{X: h.Col, Y: h.Row})
			}
		case SlotFailed:
			msg := ""
			if slot.Err != nil {
				msg = slot.Err.Error()
			}
			summary.Error = msg
			agg.Failures = append(agg.Failures, Failure{
				Index:   task.Index,
				Path:    task.Path,
				Err:     slot.Err,
				Message: msg,
			})
		case SlotAbsent:
		}
		agg.Files = append(agg.Files, summary)
	}

	agg.Elapsed = time.Since(start)

	logging.FromContext(ctx).Info().
		Str("component", "engine").
		Str("operation", "aggregate").
		Int("files", len(b)).
		Int("hits", len(agg.Points)).
		Int("failures", len(agg.Failures)).
		Dur("elapsed", agg.Elapsed).
		Msg("batch complete")

	return agg
}
