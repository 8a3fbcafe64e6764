package ui

import (
	"errors"
	"io"
	"os"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
)

// ErrInterrupted is returned when the user presses ctrl+c while a task runs.
var ErrInterrupted = errors.New("interrupted")

type taskDoneMsg struct {
	err error
}

// spinnerModel shows a spinner with a label while task runs in a tea.Cmd,
// then quits.
type spinnerModel struct {
	spinner     spinner.Model
	label       string
	task        func() error
	err         error
	done        bool
	interrupted bool
}

func newSpinnerModel(label string, task func() error) spinnerModel {
	return spinnerModel{
		spinner: spinner.New(spinner.WithSpinner(spinner.Dot), spinner.WithStyle(SpinnerStyle)),
		label:   label,
		task:    task,
	}
}

// Init implements tea.Model
func (m spinnerModel) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.run)
}

func (m spinnerModel) run() tea.Msg {
	return taskDoneMsg{err: m.task()}
}

// Update implements tea.Model
func (m spinnerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case taskDoneMsg:
		m.done = true
		m.err = msg.err
		return m, tea.Quit
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			m.interrupted = true
			return m, tea.Quit
		}
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}
	return m, nil
}

// View implements tea.Model
func (m spinnerModel) View() string {
	if m.done || m.interrupted {
		return ""
	}
	return m.spinner.View() + " " + m.label + "\n"
}

// RunWithSpinner runs task while drawing a spinner on out. When out is not
// a terminal the task runs without any animation.
func RunWithSpinner(out *os.File, label string, task func() error) error {
	if !IsTerminal(out) {
		return task()
	}
	return runSpinnerProgram(out, label, task)
}

func runSpinnerProgram(out io.Writer, label string, task func() error) error {
	p := tea.NewProgram(newSpinnerModel(label, task), tea.WithOutput(out))
	final, err := p.Run()
	if err != nil {
		return err
	}

	m := final.(spinnerModel)
	if m.interrupted {
		return ErrInterrupted
	}
	return m.err
}
