package cmd

import (
	"context"
	"fmt"
	"io"
	"os"

	"packsmith/ui"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
)

// taskDoneMsg carries the outcome of the task a TaskModel runs.
type taskDoneMsg struct {
	summary string
	err     error
}

// TaskModel shows a spinner while a long running backend call is in flight.
type TaskModel struct {
	spinner spinner.Model
	ctx     context.Context
	cancel  context.CancelFunc
	task    func(ctx context.Context) (string, error)

	status  string
	summary string
	err     error
	done    bool
}

func newTaskModel(ctx context.Context, status string, task func(ctx context.Context) (string, error)) TaskModel {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))

	ctx, cancel := context.WithCancel(ctx)
	return TaskModel{
		spinner: s,
		ctx:     ctx,
		cancel:  cancel,
		task:    task,
		status:  status,
	}
}

func (m TaskModel) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.start())
}

func (m TaskModel) start() tea.Cmd {
	return func() tea.Msg {
		summary, err := m.task(m.ctx)
		return taskDoneMsg{summary: summary, err: err}
	}
}

func (m TaskModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			m.cancel()
			m.err = context.Canceled
			m.done = true
			return m, tea.Quit
		}

	case spinner.TickMsg:
		if m.done {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case taskDoneMsg:
		m.cancel()
		m.done = true
		m.summary = msg.summary
		m.err = msg.err
		return m, tea.Quit
	}

	return m, nil
}

func (m TaskModel) View() string {
	switch {
	case !m.done:
		return fmt.Sprintf("\n %s %s\n\n", m.spinner.View(), m.status)
	case m.err != nil:
		return fmt.Sprintf("\n %s %s\n\n", ui.Error.Render("✗"), m.status)
	default:
		return fmt.Sprintf("\n %s %s\n\n", ui.Success.Render("✓"), m.summary)
	}
}

// runTask runs task behind a spinner written to out and returns its error. When out is
// not a terminal only the summary is printed.
func runTask(ctx context.Context, out io.Writer, status string, task func(ctx context.Context) (string, error)) error {
	if !isTerminal(out) {
		summary, err := task(ctx)
		if err != nil {
			return err
		}
		fmt.Fprintln(out, summary)
		return nil
	}

	p := tea.NewProgram(newTaskModel(ctx, status, task), tea.WithOutput(out))
	final, err := p.Run()
	if err != nil {
		return fmt.Errorf("run progress display: %w", err)
	}
	return final.(TaskModel).err
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && isatty.IsTerminal(f.Fd())
}
