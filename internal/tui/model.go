package tui

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/napolitain/geode-solver/internal/batch"
	"github.com/napolitain/geode-solver/internal/models"
)

var (
	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("14")).Border(lipgloss.RoundedBorder()).Padding(0, 1)
	pendingStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
	doneStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("10")).Bold(true)
	partialStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("13"))
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	footerStyle  = lipgloss.NewStyle().Faint(true)
)

var spinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

const tickInterval = 100 * time.Millisecond

// ResultMsg reports one finished blueprint
type ResultMsg batch.Result

// DoneMsg reports the end of the batch
type DoneMsg struct {
	Err error
}

type tickMsg time.Time

// Model shows live progress of a batch run
type Model struct {
	blueprints []*models.Blueprint
	index      map[int]int // blueprint id -> row
	results    []*batch.Result
	minutes    int
	finished   int

	frame    int
	started  time.Time
	elapsed  time.Duration
	done     bool
	quitting bool
	err      error
}

// New creates a model with one pending row per blueprint
func New(blueprints []*models.Blueprint, minutes int) Model {
	index := make(map[int]int, len(blueprints))
	for i, bp := range blueprints {
		index[bp.ID] = i
	}
	return Model{
		blueprints: blueprints,
		index:      index,
		results:    make([]*batch.Result, len(blueprints)),
		minutes:    minutes,
		started:    time.Now(),
	}
}

func tick() tea.Cmd {
	return tea.Tick(tickInterval, func(t time.Time) tea.Msg { return tickMsg(t) })
}

// Init starts the spinner
func (m Model) Init() tea.Cmd {
	return tick()
}

// Update handles results, the spinner tick and quit keys
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			m.quitting = true
			return m, tea.Quit
		}

	case ResultMsg:
		r := batch.Result(msg)
		if row, ok := m.index[r.Blueprint.ID]; ok && m.results[row] == nil {
			m.results[row] = &r
			m.finished++
		}

	case DoneMsg:
		m.done = true
		m.err = msg.Err
		m.elapsed = time.Since(m.started)
		return m, tea.Quit

	case tickMsg:
		if m.done {
			return m, nil
		}
		m.frame = (m.frame + 1) % len(spinnerFrames)
		m.elapsed = time.Time(msg).Sub(m.started)
		return m, tick()
	}

	return m, nil
}

// View renders one row per blueprint and running totals
func (m Model) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render(fmt.Sprintf("Geode optimizer · %d minutes", m.minutes)))
	b.WriteString("\n\n")

	for i, bp := range m.blueprints {
		b.WriteString(fmt.Sprintf("  Blueprint %3d  ", bp.ID))
		b.WriteString(m.row(m.results[i]))
		b.WriteString("\n")
	}

	got := m.Results()
	b.WriteString("\n")
	b.WriteString(footerStyle.Render(fmt.Sprintf("%d/%d solved · quality %d · product %d · %s",
		m.finished, len(m.blueprints), batch.QualitySum(got), batch.Product(got),
		m.elapsed.Round(time.Millisecond))))
	b.WriteString("\n")

	if m.quitting && !m.done {
		b.WriteString(errorStyle.Render("cancelled"))
		b.WriteString("\n")
	}
	return b.String()
}

func (m Model) row(r *batch.Result) string {
	switch {
	case r == nil:
		return pendingStyle.Render(spinnerFrames[m.frame] + " searching")
	case r.Solution == nil:
		return errorStyle.Render("✗ " + r.Err.Error())
	case !r.Solution.Complete:
		return partialStyle.Render(fmt.Sprintf("~ %d geodes (interrupted)", r.Solution.Geodes))
	default:
		return doneStyle.Render(fmt.Sprintf("✓ %d geodes", r.Solution.Geodes)) +
			footerStyle.Render(fmt.Sprintf("  quality %d · %d states", r.Quality(), r.Solution.Stats.Nodes))
	}
}

// Results returns the results received so far, in blueprint order
func (m Model) Results() []batch.Result {
	out := make([]batch.Result, 0, m.finished)
	for _, r := range m.results {
		if r != nil {
			out = append(out, *r)
		}
	}
	return out
}

// Err returns the batch error reported by DoneMsg
func (m Model) Err() error {
	return m.err
}
