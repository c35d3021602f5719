package ui

import (
	"io"
	"os"

	tea "github.com/charmbracelet/bubbletea"
)

// MenuPrompter answers prompts through one-shot Bubble Tea programs. It
// blocks until the user decides, so callers must only use it on an
// interactive terminal.
type MenuPrompter struct {
	input  io.Reader
	output io.Writer
	styles Styles
}

// PrompterOption is a functional option for MenuPrompter.
type PrompterOption func(*MenuPrompter)

// WithInput sets the input source.
func WithInput(r io.Reader) PrompterOption {
	return func(p *MenuPrompter) { p.input = r }
}

// WithOutput sets the output destination.
func WithOutput(w io.Writer) PrompterOption {
	return func(p *MenuPrompter) { p.output = w }
}

// WithStyles sets the prompt styles.
func WithStyles(s Styles) PrompterOption {
	return func(p *MenuPrompter) { p.styles = s }
}

// NewMenuPrompter creates a prompter on stdin/stdout.
func NewMenuPrompter(opts ...PrompterOption) *MenuPrompter {
	p := &MenuPrompter{
		input:  os.Stdin,
		output: os.Stdout,
		styles: DefaultStyles(false),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Confirm asks a yes/no question. A cancelled or failed prompt keeps the
// default answer.
func (p *MenuPrompter) Confirm(prompt string, defaultYes bool) bool {
	model := NewConfirmModel(prompt, defaultYes, p.styles)
	final, err := p.run(model)
	if err != nil {
		return defaultYes
	}

	confirm, ok := final.(ConfirmModel)
	if !ok {
		return defaultYes
	}
	return confirm.Answer
}

// Choose presents a menu and returns the selected index, or -1 when the
// user cancels. A failed prompt counts as cancelled too.
func (p *MenuPrompter) Choose(title string, options []string, defaultIndex int) int {
	if len(options) == 0 {
		return -1
	}

	model := NewMenuModel(title, options, defaultIndex, p.styles)
	final, err := p.run(model)
	if err != nil {
		return -1
	}

	menu, ok := final.(MenuModel)
	if !ok {
		return -1
	}
	return menu.Selected
}

func (p *MenuPrompter) run(model tea.Model) (tea.Model, error) {
	program := tea.NewProgram(model,
		tea.WithInput(p.input),
		tea.WithOutput(p.output),
	)
	return program.Run()
}
