// Package ui provides the optional live progress view for long comparison
// runs.
package ui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

var (
	optStyle     = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("212"))
	statStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	pendingStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	doneStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("46")).Bold(true)
	failStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true)
)

// RoundMsg carries one completed round into the model.
type RoundMsg struct {
	Round   int
	Samples int
	Settled int
	Added   int
	Removed int
	Pending int
}

// DoneMsg ends the progress view.
type DoneMsg struct {
	Err error
}

// ProgressModel shows the convergence loop's live state: current round,
// sample count and how many benchmarks are still pending.
type ProgressModel struct {
	spinner  spinner.Model
	optLevel string

	round    int
	samples  int
	settled  int
	added    int
	removed  int
	pending  int
	finished bool
	aborted  bool
	err      error
}

func NewProgressModel(optLevel string) ProgressModel {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("212"))
	return ProgressModel{spinner: s, optLevel: optLevel}
}

func (m ProgressModel) Init() tea.Cmd {
	return m.spinner.Tick
}

func (m ProgressModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			m.finished = true
			m.aborted = true
			return m, tea.Quit
		}
		return m, nil

	case RoundMsg:
		m.round = msg.Round
		m.samples = msg.Samples
		m.settled += msg.Settled
		m.added += msg.Added
		m.removed += msg.Removed
		m.pending = msg.Pending
		return m, nil

	case DoneMsg:
		m.finished = true
		m.err = msg.Err
		return m, tea.Quit

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m ProgressModel) View() string {
	header := optStyle.Render(fmt.Sprintf("Comparing %s", m.optLevel))

	if m.finished {
		if m.aborted {
			return fmt.Sprintf("%s %s\n", header, failStyle.Render("interrupted"))
		}
		if m.err != nil {
			return fmt.Sprintf("%s %s\n", header, failStyle.Render("failed: "+m.err.Error()))
		}
		return fmt.Sprintf("%s %s\n", header,
			doneStyle.Render(fmt.Sprintf("done after %d round(s): %d settled, %d added, %d removed",
				m.round, m.settled, m.added, m.removed)))
	}

	if m.round == 0 {
		return fmt.Sprintf("%s %s measuring...\n", m.spinner.View(), header)
	}
	return fmt.Sprintf("%s %s %s\n", m.spinner.View(), header,
		statStyle.Render(fmt.Sprintf("round %d (%d samples): %d settled, ", m.round, m.samples, m.settled))+
			pendingStyle.Render(fmt.Sprintf("%d pending", m.pending)))
}

// Err returns the failure the view ended with, if any.
func (m ProgressModel) Err() error { return m.err }

// Aborted reports whether the user interrupted the view before the run
// finished.
func (m ProgressModel) Aborted() bool { return m.aborted }
