package prompt

import (
	"context"
	"fmt"
	"io"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

var (
	questionStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.AdaptiveColor{Light: "#5A56E0", Dark: "#7571F9"})

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.AdaptiveColor{Light: "#D7263D", Dark: "#F25D94"})

	hintStyle = lipgloss.NewStyle().
			Foreground(lipgloss.AdaptiveColor{Light: "#9B9B9B", Dark: "#626262"})
)

type model struct {
	input   textinput.Model
	value   int
	err     error
	done    bool
	aborted bool
}

func newModel() model {
	ti := textinput.New()
	ti.Prompt = questionStyle.Render(Question)
	ti.Placeholder = "10"
	ti.CharLimit = 9
	ti.Focus()
	return model{input: ti}
}

func (m model) Init() tea.Cmd {
	return textinput.Blink
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			m.aborted = true
			return m, tea.Quit
		case tea.KeyEnter:
			n, err := ParseCount(m.input.Value())
			if err != nil {
				// Stay open so the operator can correct the value.
				m.err = err
				return m, nil
			}
			m.value = n
			m.err = nil
			m.done = true
			return m, tea.Quit
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m model) View() string {
	if m.done || m.aborted {
		return ""
	}
	view := m.input.View() + "\n"
	if m.err != nil {
		view += errorStyle.Render(m.err.Error()) + "\n"
	}
	return view + hintStyle.Render("enter to confirm · esc to quit") + "\n"
}

// Interactive runs the count prompt on a terminal. A rejected value is shown
// inline and the operator may retry; esc or ctrl+c returns ErrAborted.
func Interactive(ctx context.Context, in io.Reader, out io.Writer) (int, error) {
	p := tea.NewProgram(newModel(),
		tea.WithContext(ctx),
		tea.WithInput(in),
		tea.WithOutput(out),
	)
	final, err := p.Run()
	if err != nil {
		return 0, fmt.Errorf("running prompt: %w", err)
	}
	m := final.(model)
	if m.aborted || !m.done {
		return 0, ErrAborted
	}
	return m.value, nil
}
