package tui

import (
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/yourpaljake/hitfinding/internal/engine"
)

// Layout defaults for the interactive view.
const (
	defaultWidth      = 100
	defaultHeight     = 30
	borderPadding     = 2
	tableChromeHeight = 8
	minTableHeight    = 3
	maxPathDisplayLen = 48
	truncateSuffix    = "..."
	pathColumnWidth   = 50
	indexColumnWidth  = 6
	statusColumnWidth = 8
	hitsColumnWidth   = 8
	keyQuit           = "q"
	keyCtrlC          = "ctrl+c"
	keyEnter          = "enter"
	keyEsc            = "esc"
	keyPlot           = "p"
	keyFailedOnly     = "f"
)

// ViewState is the screen the results browser is on.
type ViewState int

const (
	// ViewStateList shows the per-file table.
	ViewStateList ViewState = iota
	// ViewStateDetail shows one file's outcome.
	ViewStateDetail
	// ViewStatePlot shows the hit plot.
	ViewStatePlot
	// ViewStateQuitting is set once the user quits.
	ViewStateQuitting
)

// ResultsModel is the Bubble Tea model for browsing a run's results.
//
//nolint:recvcheck // Bubble Tea requires value receivers for Init/Update/View interface methods.
type ResultsModel struct {
	agg   *engine.Aggregation
	rows  []engine.FileSummary
	state ViewState
	table table.Model

	selected   int
	failedOnly bool
	width      int
	height     int
}

// NewResultsModel builds the browser over agg.
func NewResultsModel(agg *engine.Aggregation) ResultsModel {
	m := ResultsModel{
		agg:    agg,
		rows:   agg.Files,
		state:  ViewStateList,
		width:  defaultWidth,
		height: defaultHeight,
	}
	m.table = m.buildTable()
	return m
}

// Init implements tea.Model.
func (m ResultsModel) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m ResultsModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if winMsg, ok := msg.(tea.WindowSizeMsg); ok {
		m.width = winMsg.Width
		m.height = winMsg.Height
		m.table = m.buildTable()
		return m, nil
	}

	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		var cmd tea.Cmd
		m.table, cmd = m.table.Update(msg)
		return m, cmd
	}

	switch keyMsg.String() {
	case keyQuit, keyCtrlC:
		m.state = ViewStateQuitting
		return m, tea.Quit
	}

	switch m.state {
	case ViewStateList:
		return m.handleListKey(keyMsg)
	case ViewStateDetail, ViewStatePlot:
		if keyMsg.String() == keyEsc {
			m.state = ViewStateList
			m.table.Focus()
		}
		return m, nil
	default:
		return m, nil
	}
}

func (m ResultsModel) handleListKey(keyMsg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch keyMsg.String() {
	case keyEnter:
		if c := m.table.Cursor(); c >= 0 && c < len(m.rows) {
			m.selected = c
			m.state = ViewStateDetail
		}
		return m, nil
	case keyPlot:
		m.state = ViewStatePlot
		return m, nil
	case keyFailedOnly:
		m.failedOnly = !m.failedOnly
		m.applyFilter()
		return m, nil
	default:
		var cmd tea.Cmd
		m.table, cmd = m.table.Update(keyMsg)
		return m, cmd
	}
}

// applyFilter narrows the rows to failed files when failedOnly is set.
func (m *ResultsModel) applyFilter() {
	if !m.failedOnly {
		m.rows = m.agg.Files
	} else {
		m.rows = make([]engine.FileSummary, 0, len(m.agg.Failures))
		for _, f := range m.agg.Files {
			if f.Status == engine.SlotFailed {
				m.rows = append(m.rows, f)
			}
		}
	}
	m.table = m.buildTable()
}

func (m ResultsModel) buildTable() table.Model {
	columns := []table.Column{
		{Title: "#", Width: indexColumnWidth},
		{Title: "File", Width: pathColumnWidth},
		{Title: "Status", Width: statusColumnWidth},
		{Title: "Hits", Width: hitsColumnWidth},
	}

	rows := make([]table.Row, len(m.rows))
	for i, f := range m.rows {
		rows[i] = table.Row{
			strconv.Itoa(f.Index),
			truncatePath(f.Path),
			f.Status.String(),
			FormatCount(f.Hits),
		}
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithRows(rows),
		table.WithFocused(true),
		table.WithHeight(max(m.height-tableChromeHeight, minTableHeight)),
	)

	s := table.DefaultStyles()
	s.Header = TableHeaderStyle
	s.Selected = TableSelectedStyle
	t.SetStyles(s)
	return t
}

// View implements tea.Model.
func (m ResultsModel) View() string {
	switch m.state {
	case ViewStateQuitting:
		return ""
	case ViewStateDetail:
		return m.renderDetail()
	case ViewStatePlot:
		return m.renderPlot()
	default:
		return m.renderList()
	}
}

func (m ResultsModel) renderList() string {
	return lipgloss.JoinVertical(lipgloss.Left,
		HeaderStyle.Render("RESULTS"),
		renderSummary(m.agg),
		m.table.View(),
		m.renderStatusBar(),
	)
}

func (m ResultsModel) renderStatusBar() string {
	filter := "all files"
	if m.failedOnly {
		filter = "failed only"
	}
	return LabelStyle.Render(fmt.Sprintf(
		"%s | %s | enter: detail  p: plot  f: toggle failed  q: quit",
		filter, ElapsedLine(m.agg.Elapsed)))
}

func (m ResultsModel) renderDetail() string {
	if m.selected < 0 || m.selected >= len(m.rows) {
		return ""
	}
	f := m.rows[m.selected]

	var content strings.Builder
	content.WriteString(HeaderStyle.Render("FILE DETAIL"))
	content.WriteString("\n\n")
	content.WriteString(LabelStyle.Render("Index:  "))
	content.WriteString(ValueStyle.Render(strconv.Itoa(f.Index)))
	content.WriteString("\n")
	content.WriteString(LabelStyle.Render("Path:   "))
	content.WriteString(f.Path)
	content.WriteString("\n")
	content.WriteString(LabelStyle.Render("Status: "))
	content.WriteString(StatusStyle(f.Status.String()).Render(f.Status.String()))
	content.WriteString("\n")
	content.WriteString(LabelStyle.Render("Hits:   "))
	content.WriteString(ValueStyle.Render(FormatCount(f.Hits)))
	if f.Error != "" {
		content.WriteString("\n")
		content.WriteString(LabelStyle.Render("Error:  "))
		content.WriteString(ErrorStyle.Render(f.Error))
	}
	content.WriteString("\n\n")
	content.WriteString(LabelStyle.Render("esc: back  q: quit"))

	return BoxStyle.Width(m.width - borderPadding).Render(content.String())
}

func (m ResultsModel) renderPlot() string {
	canvas := NewCanvas(m.agg.Viewport, plotWidthFor(m.width), max(m.height-tableChromeHeight, minPlotHeight))
	canvas.Plot(m.agg.Points)
	plot := strings.Join(canvas.Lines(func(g string) string { return HitStyle.Render(g) }), "\n")
	return lipgloss.JoinVertical(lipgloss.Left,
		BoxStyle.Render(plot),
		LabelStyle.Render("esc: back  q: quit"),
	)
}

func truncatePath(p string) string {
	runes := []rune(p)
	if len(runes) <= maxPathDisplayLen {
		return p
	}
	keep := maxPathDisplayLen - utf8.RuneCountInString(truncateSuffix)
	return truncateSuffix + string(runes[len(runes)-keep:])
}
