package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sync"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/yourpaljake/hitfinding/internal/config"
	"github.com/yourpaljake/hitfinding/internal/engine"
	"github.com/yourpaljake/hitfinding/internal/engine/batch"
	"github.com/yourpaljake/hitfinding/internal/logging"
	"github.com/yourpaljake/hitfinding/internal/tui"
)

// jsonReport is the --output json document.
type jsonReport struct {
	RunID          string  `json:"run_id,omitempty"`
	ElapsedSeconds float64 `json:"elapsed_seconds"`
	*engine.Aggregation
}

// Render writes agg in the configured format. JSON bypasses the terminal
// renderers entirely.
func Render(cmd *cobra.Command, cfg *config.Config, agg *engine.Aggregation, interactive bool) error {
	out := cmd.OutOrStdout()

	if cfg.Output.Format == config.OutputJSON {
		return renderJSON(out, logging.RunIDFromContext(cmd.Context()), agg)
	}

	mode := tui.OutputModePlain
	if isStdout(out) {
		mode = tui.DetectOutputMode(cfg.Output.Plain, false, interactive)
	}

	switch mode {
	case tui.OutputModeInteractive:
		p := tea.NewProgram(tui.NewResultsModel(agg), tea.WithAltScreen())
		if _, err := p.Run(); err != nil {
			return fmt.Errorf("failed to run interactive TUI: %w", err)
		}
		// The alternate screen is gone once the program exits; leave the
		// timing on the terminal.
		_, err := fmt.Fprintln(out, tui.ElapsedLine(agg.Elapsed))
		return err
	case tui.OutputModeStyled:
		return tui.RenderStyled(out, agg, tui.TerminalWidth(tui.DefaultPlotWidth))
	default:
		return tui.RenderPlain(out, agg)
	}
}

// isStdout reports whether w is the process stdout. Anything else (a buffer,
// a redirected writer) gets plain text.
func isStdout(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && f == os.Stdout
}

func renderJSON(w io.Writer, runID string, agg *engine.Aggregation) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(jsonReport{
		RunID:          runID,
		ElapsedSeconds: agg.Elapsed.Seconds(),
		Aggregation:    agg,
	})
}

// progressWriter returns a callback that keeps a one-line progress counter on
// stderr while the batch runs. It is nil for JSON and plain output.
func progressWriter(cmd *cobra.Command, cfg *config.Config, flags rootFlags) batch.ProgressCallback {
	if cfg.Output.Format == config.OutputJSON || cfg.Output.Plain || flags.debug {
		return nil
	}
	if tui.DetectOutputMode(false, false, false) == tui.OutputModePlain {
		return nil
	}

	errOut := cmd.ErrOrStderr()
	var mu sync.Mutex
	last := 0
	return func(s batch.ProgressSnapshot) {
		mu.Lock()
		defer mu.Unlock()
		// Callbacks from concurrent workers can arrive out of order.
		if s.ProcessedItems <= last {
			return
		}
		last = s.ProcessedItems
		_, _ = fmt.Fprint(errOut, "\r"+tui.ProgressLine(s))
		if s.ProcessedItems >= s.TotalItems {
			_, _ = fmt.Fprintln(errOut)
		}
	}
}
