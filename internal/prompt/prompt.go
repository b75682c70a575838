// Package prompt implements the interactive value-collection form.
//
// It follows The Elm Architecture: the model walks a fixed sequence of
// fields, one text input at a time. An empty answer takes the field's
// default; defaults of later fields may depend on earlier answers.
package prompt

import (
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/pytemplate/bootstrap/internal/errors"
)

// Field is one question in the form.
type Field struct {
	Key     string // answer map key
	Label   string // shown to the operator
	Default string // taken when the answer is empty; hidden when ""

	// DefaultFunc computes the default from earlier answers when set.
	// Takes precedence over Default.
	DefaultFunc func(answers map[string]string) string
}

var (
	labelStyle  = lipgloss.NewStyle().Bold(true)
	hintStyle   = lipgloss.NewStyle().Faint(true)
	answerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
)

// Model is the bubbletea model for the form.
type Model struct {
	fields   []Field
	input    textinput.Model
	index    int
	answers  map[string]string
	asked    []string // resolved label+default lines for answered fields
	done     bool
	canceled bool
}

// NewModel creates a form over the given fields.
func NewModel(fields []Field) Model {
	ti := textinput.New()
	ti.Prompt = ""
	ti.Focus()

	return Model{
		fields:  fields,
		input:   ti,
		answers: make(map[string]string),
	}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if ok {
		switch keyMsg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			m.canceled = true
			return m, tea.Quit

		case tea.KeyEnter:
			field := m.fields[m.index]
			value := strings.TrimSpace(m.input.Value())
			if value == "" {
				value = m.currentDefault()
			}
			m.answers[field.Key] = value
			m.asked = append(m.asked, m.promptLine()+answerStyle.Render(value))

			m.index++
			if m.index >= len(m.fields) {
				m.done = true
				return m, tea.Quit
			}
			m.input.SetValue("")
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// View implements tea.Model.
func (m Model) View() string {
	var b strings.Builder
	for _, line := range m.asked {
		b.WriteString(line)
		b.WriteString("\n")
	}
	if m.done || m.canceled {
		return b.String()
	}
	b.WriteString(m.promptLine())
	b.WriteString(m.input.View())
	b.WriteString("\n")
	return b.String()
}

// Answers returns the collected answers; valid once the form is done.
func (m Model) Answers() map[string]string {
	return m.answers
}

// Done reports whether every field has been answered.
func (m Model) Done() bool { return m.done }

// Canceled reports whether the operator aborted the form.
func (m Model) Canceled() bool { return m.canceled }

// promptLine renders "Label [default]: " for the current field.
func (m Model) promptLine() string {
	field := m.fields[m.index]
	line := labelStyle.Render(field.Label)
	if def := m.currentDefault(); def != "" {
		line += " " + hintStyle.Render("["+def+"]")
	}
	return line + ": "
}

// currentDefault resolves the active field's default, consulting earlier
// answers when the field carries a DefaultFunc.
func (m Model) currentDefault() string {
	field := m.fields[m.index]
	if field.DefaultFunc != nil {
		return field.DefaultFunc(m.answers)
	}
	return field.Default
}

// Run executes the form against the given terminal streams and returns the
// answers keyed by Field.Key.
//
// Returns E_PROMPT_FAILED when the form is aborted or the terminal fails.
func Run(fields []Field, in io.Reader, out io.Writer) (map[string]string, error) {
	if len(fields) == 0 {
		return map[string]string{}, nil
	}

	p := tea.NewProgram(NewModel(fields), tea.WithInput(in), tea.WithOutput(out))
	final, err := p.Run()
	if err != nil {
		return nil, errors.Wrap(errors.EPromptFailed, "interactive prompt failed", err)
	}

	m, ok := final.(Model)
	if !ok {
		return nil, errors.New(errors.EPromptFailed, "interactive prompt returned unexpected model")
	}
	if m.Canceled() || !m.Done() {
		return nil, errors.New(errors.EPromptFailed, "interactive prompt canceled")
	}
	return m.Answers(), nil
}
