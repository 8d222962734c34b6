// Package tui renders documentation progress in the terminal.
package tui

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/jrsteele09/reposcribe/docgen"
	"github.com/jrsteele09/reposcribe/internal/errors"
)

var (
	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("212"))
	doneStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	activeStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("39"))
	pendingStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("203"))
	helpStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
)

type snapshotMsg docgen.Snapshot

type Model struct {
	spinner   spinner.Model
	snapshot  docgen.Snapshot
	updates   <-chan docgen.Snapshot
	cancelled bool
}

func NewModel(initial docgen.Snapshot, updates <-chan docgen.Snapshot) Model {
	s := spinner.New(spinner.WithSpinner(spinner.Dot), spinner.WithStyle(activeStyle))
	return Model{spinner: s, snapshot: initial, updates: updates}
}

// Snapshot is the last state the view has seen.
func (m Model) Snapshot() docgen.Snapshot {
	return m.snapshot
}

// Cancelled reports whether the user quit before the workflow finished.
func (m Model) Cancelled() bool {
	return m.cancelled
}

func waitForSnapshot(updates <-chan docgen.Snapshot) tea.Cmd {
	return func() tea.Msg {
		snap, ok := <-updates
		if !ok {
			return nil
		}
		return snapshotMsg(snap)
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, waitForSnapshot(m.updates))
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q", "esc":
			m.cancelled = true
			return m, tea.Quit
		}
	case snapshotMsg:
		m.snapshot = docgen.Snapshot(msg)
		if isTerminal(m.snapshot.State) {
			return m, tea.Quit
		}
		return m, waitForSnapshot(m.updates)
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m Model) View() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Generating documentation for " + repoLabel(m.snapshot)))
	b.WriteString("\n\n")

	active := m.snapshot.State.PhaseIndex()
	requesting := m.snapshot.State == docgen.StateRequesting
	for i, phase := range docgen.Phases {
		var line string
		switch {
		case m.snapshot.State == docgen.StateCompleted || (active >= 0 && i < active) || (requesting && i < len(docgen.Phases)-1):
			line = doneStyle.Render("✓ " + phase.Name)
		case i == active || (requesting && i == len(docgen.Phases)-1):
			line = m.spinner.View() + " " + activeStyle.Render(phase.Name) + "  " + pendingStyle.Render(phase.Description)
		default:
			line = pendingStyle.Render("  " + phase.Name)
		}
		b.WriteString(line + "\n")
	}

	switch m.snapshot.State {
	case docgen.StateFailed:
		b.WriteString("\n" + errorStyle.Render(m.snapshot.Error) + "\n")
	case docgen.StateCompleted:
		b.WriteString("\n" + doneStyle.Render("Documentation ready") + "\n")
	default:
		b.WriteString("\n" + helpStyle.Render("q to abandon") + "\n")
	}
	return b.String()
}

func isTerminal(s docgen.State) bool {
	return s == docgen.StateCompleted || s == docgen.StateFailed
}

func repoLabel(s docgen.Snapshot) string {
	if s.Repository.FullName != "" {
		return s.Repository.FullName
	}
	return s.Repository.Name
}

// subscribe forwards workflow snapshots into a channel sized for one run.
func subscribe(w *docgen.Workflow) (<-chan docgen.Snapshot, func()) {
	updates := make(chan docgen.Snapshot, 32)
	unsubscribe := w.Subscribe(func(s docgen.Snapshot) {
		select {
		case updates <- s:
		default:
		}
	})
	return updates, unsubscribe
}

// RunProgress starts w and shows its progress until it finishes or the user
// quits. Quitting abandons the run without cancelling the request.
func RunProgress(ctx context.Context, w *docgen.Workflow, opts ...tea.ProgramOption) (docgen.Snapshot, error) {
	updates, unsubscribe := subscribe(w)
	defer unsubscribe()

	if err := w.Start(ctx); err != nil {
		return w.Snapshot(), err
	}

	final, err := tea.NewProgram(NewModel(w.Snapshot(), updates), append(opts, tea.WithContext(ctx))...).Run()
	if err != nil {
		return w.Snapshot(), errors.Wrapf(err, "[tui RunProgress]")
	}
	model := final.(Model)
	if model.Cancelled() {
		return model.Snapshot(), context.Canceled
	}
	return w.Snapshot(), nil
}

// RunPlain runs w and prints one line per state change, for pipes and CI logs.
func RunPlain(ctx context.Context, w *docgen.Workflow, out io.Writer) (docgen.Snapshot, error) {
	unsubscribe := w.Subscribe(func(s docgen.Snapshot) {
		if line := PlainLine(s); line != "" {
			fmt.Fprintln(out, line)
		}
	})
	defer unsubscribe()

	err := w.Run(ctx)
	return w.Snapshot(), err
}

// PlainLine formats a snapshot as a single log line.
func PlainLine(s docgen.Snapshot) string {
	if phase, ok := s.Phase(); ok {
		return fmt.Sprintf("[%d/%d] %s: %s", s.Step(), len(docgen.Phases), phase.Name, phase.Description)
	}
	switch s.State {
	case docgen.StateRequesting:
		return "Waiting for the generator..."
	case docgen.StateCompleted:
		return "Documentation ready"
	case docgen.StateFailed:
		return s.Error
	default:
		return ""
	}
}
