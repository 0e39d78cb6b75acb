package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"bindoc/internal/driver"
)

const (
	maxRows     = 12
	statusWidth = 12
)

// доля полосы, которую занимает извлечение; остальное приходится на сборку модели
const extractShare = 0.8

// fileState is where one source file is in the per-file part of the run.
// After extraction files are finished; assembly runs once for the project.
type fileState int

const (
	fileQueued fileState = iota
	fileExtracting
	fileExtracted
	fileFailed
)

func (s fileState) label() string {
	switch s {
	case fileExtracting:
		return "extracting"
	case fileExtracted:
		return "done"
	case fileFailed:
		return "error"
	default:
		return "queued"
	}
}

func (s fileState) style() lipgloss.Style {
	switch s {
	case fileExtracted:
		return lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	case fileFailed:
		return lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	case fileExtracting:
		return lipgloss.NewStyle().Foreground(lipgloss.Color("6"))
	default:
		return lipgloss.NewStyle().Foreground(lipgloss.Color("7"))
	}
}

type fileRow struct {
	path    string
	state   fileState
	elapsed time.Duration
}

// projectPhase tracks the stages that have no file attached.
type projectPhase int

const (
	phaseFiles projectPhase = iota
	phaseAssembling
	phaseAssembled
	phaseExporting
)

type progressModel struct {
	title   string
	events  <-chan driver.Event
	spinner spinner.Model
	bar     progress.Model
	rows    []fileRow
	byPath  map[string]int
	phase   projectPhase
	width   int
	done    bool
}

type eventMsg driver.Event
type doneMsg struct{}

// NewProgressModel returns a Bubble Tea model that follows a bindoc run:
// per-file extraction first, then the project-wide assembly.
func NewProgressModel(title string, files []string, events <-chan driver.Event) tea.Model {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("6"))

	bar := progress.New(progress.WithDefaultGradient())
	bar.Width = 76

	m := &progressModel{
		title:   title,
		events:  events,
		spinner: sp,
		bar:     bar,
		rows:    make([]fileRow, 0, len(files)),
		byPath:  make(map[string]int, len(files)),
		width:   80,
	}
	for _, f := range files {
		m.byPath[f] = len(m.rows)
		m.rows = append(m.rows, fileRow{path: f})
	}
	return m
}

func (m *progressModel) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.listenForEvent())
}

func (m *progressModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case eventMsg:
		return m, tea.Batch(m.applyEvent(driver.Event(msg)), m.listenForEvent())
	case doneMsg:
		m.done = true
		return m, tea.Quit
	case spinner.TickMsg:
		if m.done {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	case tea.WindowSizeMsg:
		if msg.Width > 0 {
			m.width = msg.Width
			m.bar.Width = msg.Width - 4
		}
		return m, nil
	case progress.FrameMsg:
		next, cmd := m.bar.Update(msg)
		m.bar = next.(progress.Model)
		return m, cmd
	}
	return m, nil
}

// applyEvent folds one driver event into the model and returns the bar
// animation command.
func (m *progressModel) applyEvent(ev driver.Event) tea.Cmd {
	if ev.File == "" {
		m.applyProjectEvent(ev)
		return m.bar.SetPercent(m.percent())
	}
	idx, ok := m.byPath[ev.File]
	if !ok {
		return nil
	}
	row := &m.rows[idx]
	switch {
	case ev.Status == driver.StatusError:
		row.state = fileFailed
	case ev.Stage != driver.StageExtract:
		// load only queues the file
	case ev.Status == driver.StatusWorking:
		row.state = fileExtracting
	case ev.Status == driver.StatusDone:
		row.state = fileExtracted
		row.elapsed = ev.Elapsed
	}
	return m.bar.SetPercent(m.percent())
}

func (m *progressModel) applyProjectEvent(ev driver.Event) {
	switch ev.Stage {
	case driver.StageAssemble:
		if ev.Status == driver.StatusDone || ev.Status == driver.StatusError {
			m.phase = phaseAssembled
		} else {
			m.phase = phaseAssembling
		}
	case driver.StageExport:
		m.phase = phaseExporting
	}
}

// finished counts files that are past extraction, failed ones included.
func (m *progressModel) finished() (n, failed int) {
	for _, r := range m.rows {
		switch r.state {
		case fileExtracted:
			n++
		case fileFailed:
			n++
			failed++
		}
	}
	return n, failed
}

func (m *progressModel) percent() float64 {
	if m.phase >= phaseAssembled {
		return 1
	}
	pct := 0.0
	if len(m.rows) > 0 {
		n, _ := m.finished()
		pct = extractShare * float64(n) / float64(len(m.rows))
	}
	if m.phase == phaseAssembling {
		pct = extractShare
	}
	return pct
}

func (m *progressModel) phaseLabel() string {
	switch m.phase {
	case phaseAssembling:
		return "assembling model"
	case phaseAssembled:
		return "model ready"
	case phaseExporting:
		return "exporting"
	}
	n, failed := m.finished()
	label := fmt.Sprintf("extracted %d/%d", n, len(m.rows))
	if failed > 0 {
		label += fmt.Sprintf(", %d failed", failed)
	}
	return label
}

func (m *progressModel) View() string {
	if len(m.rows) == 0 {
		return ""
	}
	header := fmt.Sprintf("%s: %s", m.title, m.phaseLabel())
	if m.done {
		header = "done: " + header
	} else {
		header = m.spinner.View() + " " + header
	}

	var b strings.Builder
	b.WriteString(lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("7")).Render(header))
	b.WriteString("\n\n")

	nameWidth := max(m.width-statusWidth-14, 20)
	rows, hidden := m.visibleRows()
	for _, r := range rows {
		status := r.state.style().Render(fmt.Sprintf("%*s", statusWidth, r.state.label()))
		line := "  " + status + " " + truncate(r.path, nameWidth)
		if r.state == fileExtracted && r.elapsed > 0 {
			line += fmt.Sprintf(" (%s)", r.elapsed.Round(time.Millisecond))
		}
		b.WriteString(line)
		b.WriteByte('\n')
	}
	if hidden > 0 {
		b.WriteString(fileExtracted.style().Render(fmt.Sprintf("  %*s", statusWidth, fmt.Sprintf("+%d", hidden))))
		b.WriteString(" more files\n")
	}

	b.WriteByte('\n')
	if m.done {
		b.WriteString(m.bar.ViewAs(1))
	} else {
		b.WriteString(m.bar.View())
	}
	b.WriteByte('\n')
	return b.String()
}

// visibleRows keeps the list short on large trees: extracted files are
// hidden first, failed and pending ones stay in path order.
func (m *progressModel) visibleRows() ([]fileRow, int) {
	if len(m.rows) <= maxRows {
		return m.rows, 0
	}
	rows := make([]fileRow, 0, maxRows)
	for _, r := range m.rows {
		if r.state == fileExtracted {
			continue
		}
		if len(rows) == maxRows {
			break
		}
		rows = append(rows, r)
	}
	return rows, len(m.rows) - len(rows)
}

func (m *progressModel) listenForEvent() tea.Cmd {
	return func() tea.Msg {
		ev, ok := <-m.events
		if !ok {
			return doneMsg{}
		}
		return eventMsg(ev)
	}
}

func truncate(value string, width int) string {
	if width <= 0 || runewidth.StringWidth(value) <= width {
		return value
	}
	if width <= 3 {
		return runewidth.Truncate(value, width, "")
	}
	return runewidth.Truncate(value, width, "...")
}
