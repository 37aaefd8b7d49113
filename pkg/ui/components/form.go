package components

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// Button labels for the start flow.
const (
	LabelStart         = "Start Stream"
	LabelApproving     = "Approving 1/2"
	LabelStartingAfter = "Starting Stream 2/2"
	LabelStarting      = "Starting Stream"
)

// ButtonLabel maps the running step to the submit button text. needsApproval
// is false for a native-coin underlying.
func ButtonLabel(step string, needsApproval bool) string {
	switch step {
	case "approving", "approved":
		return LabelApproving
	case "executing":
		if needsApproval {
			return LabelStartingAfter
		}
		return LabelStarting
	default:
		return LabelStart
	}
}

// FormValues are the submitted inputs.
type FormValues struct {
	MonthlyRate   string
	UpgradeAmount string
}

// FormComponent is the "start DCA" form: a monthly rate and an optional
// upgrade amount.
type FormComponent struct {
	inputs  []textinput.Model
	focus   int
	title   string
	balance string
	symbol  string

	needsApproval bool
	step          string
	status        string
	busy          bool
}

// NewFormComponent creates a new form component.
func NewFormComponent() *FormComponent {
	monthly := textinput.New()
	monthly.Placeholder = "0.0"
	monthly.Prompt = "Monthly amount  "
	monthly.CharLimit = 32
	monthly.Focus()

	upgrade := textinput.New()
	upgrade.Placeholder = "0.0 or max"
	upgrade.Prompt = "Upgrade amount  "
	upgrade.CharLimit = 32

	return &FormComponent{inputs: []textinput.Model{monthly, upgrade}}
}

// Open resets the inputs for a new action.
func (f *FormComponent) Open(title, balance, symbol string, needsApproval bool) {
	f.title = title
	f.balance = balance
	f.symbol = symbol
	f.needsApproval = needsApproval
	f.step = ""
	f.status = ""
	f.busy = false
	for i := range f.inputs {
		f.inputs[i].Reset()
		f.inputs[i].Blur()
	}
	f.focus = 0
	f.inputs[0].Focus()
}

// Values returns the trimmed inputs.
func (f *FormComponent) Values() FormValues {
	return FormValues{
		MonthlyRate:   strings.TrimSpace(f.inputs[0].Value()),
		UpgradeAmount: strings.TrimSpace(f.inputs[1].Value()),
	}
}

// SetProgress records the running step and its status line.
func (f *FormComponent) SetProgress(step, status string, busy bool) {
	f.step = step
	f.status = status
	f.busy = busy
}

// Busy reports whether a submission is running.
func (f *FormComponent) Busy() bool {
	return f.busy
}

// NextField moves focus down, wrapping.
func (f *FormComponent) NextField() {
	f.inputs[f.focus].Blur()
	f.focus = (f.focus + 1) % len(f.inputs)
	f.inputs[f.focus].Focus()
}

// Update forwards key input to the focused field. Input is ignored while
// a submission runs.
func (f *FormComponent) Update(msg tea.Msg) tea.Cmd {
	if f.busy {
		return nil
	}
	var cmd tea.Cmd
	f.inputs[f.focus], cmd = f.inputs[f.focus].Update(msg)
	return cmd
}

// View renders the form component.
func (f *FormComponent) View() string {
	headerStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#7C3AED"))
	dimStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#6B7280"))
	buttonStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("#FFFFFF")).
		Background(lipgloss.Color("#7C3AED")).
		Padding(0, 2)
	busyStyle := buttonStyle.Background(lipgloss.Color("#F59E0B"))

	var sb strings.Builder
	sb.WriteString(headerStyle.Render(f.title))
	sb.WriteString("\n\n")

	for _, in := range f.inputs {
		sb.WriteString("  " + in.View() + "\n")
	}

	balance := f.balance
	if balance == "" {
		balance = "-"
	}
	sb.WriteString(dimStyle.Render("  Balance: " + balance + " " + f.symbol))
	sb.WriteString("\n\n")

	label := ButtonLabel(f.step, f.needsApproval)
	if f.busy {
		sb.WriteString("  " + busyStyle.Render(label))
	} else {
		sb.WriteString("  " + buttonStyle.Render(label))
	}
	sb.WriteString("\n")

	if f.status != "" {
		sb.WriteString("\n  " + f.status + "\n")
	}
	sb.WriteString(dimStyle.Render("\n  tab: next field • enter: submit • esc: close"))
	return sb.String()
}
