package tui

import (
	"os"

	"golang.org/x/term"
)

// OutputMode selects how results are presented.
type OutputMode int

const (
	// OutputModePlain is uncoloured text, for pipes and dumb terminals.
	OutputModePlain OutputMode = iota
	// OutputModeStyled is lipgloss-styled text.
	OutputModeStyled
	// OutputModeInteractive is the Bubble Tea results browser.
	OutputModeInteractive
)

// String returns the mode name.
func (m OutputMode) String() string {
	switch m {
	case OutputModePlain:
		return "plain"
	case OutputModeStyled:
		return "styled"
	case OutputModeInteractive:
		return "interactive"
	default:
		return "unknown"
	}
}

// DetectOutputMode picks a mode for stdout. forcePlain and noColor both
// force plain text; interactive is honoured only on a real terminal.
func DetectOutputMode(forcePlain, noColor, interactive bool) OutputMode {
	return detectOutputMode(forcePlain, noColor, interactive, isTerminal(os.Stdout) && isTerminal(os.Stdin), os.LookupEnv)
}

func detectOutputMode(
	forcePlain, noColor, interactive, tty bool,
	lookupEnv func(string) (string, bool),
) OutputMode {
	if forcePlain || noColor || !tty {
		return OutputModePlain
	}
	if _, ok := lookupEnv("NO_COLOR"); ok {
		return OutputModePlain
	}
	if v, ok := lookupEnv("TERM"); ok && v == "dumb" {
		return OutputModePlain
	}
	if _, ok := lookupEnv("CI"); ok {
		return OutputModeStyled
	}
	if interactive {
		return OutputModeInteractive
	}
	return OutputModeStyled
}

func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

// TerminalWidth returns the width of stdout, or fallback when it is not a
// terminal.
func TerminalWidth(fallback int) int {
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || width <= 0 {
		return fallback
	}
	return width
}
