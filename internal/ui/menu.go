// Package ui provides the Bubble Tea prompts archup shows before the
// pipeline starts: the resume menu and yes/no confirmations. The pipeline
// itself reports through the plain terminal frontend, so these models are
// one-shot and quit as soon as a choice is made.
package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

// MenuModel is a one-shot selection list. It quits on the first selection
// or cancellation; Selected holds the chosen index, or -1 when cancelled.
type MenuModel struct {
	Title    string
	Options  []string
	Cursor   int
	Selected int
	Quitting bool

	keyMap KeyMap
	styles Styles
}

// NewMenuModel creates a menu with the cursor on defaultIndex.
func NewMenuModel(title string, options []string, defaultIndex int, styles Styles) MenuModel {
	if defaultIndex < 0 || defaultIndex >= len(options) {
		defaultIndex = 0
	}
	return MenuModel{
		Title:    title,
		Options:  options,
		Cursor:   defaultIndex,
		Selected: -1,
		keyMap:   DefaultKeyMap(),
		styles:   styles,
	}
}

// Init implements tea.Model.
func (m MenuModel) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m MenuModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch {
	case key.Matches(keyMsg, m.keyMap.Up):
		if m.Cursor > 0 {
			m.Cursor--
		}
	case key.Matches(keyMsg, m.keyMap.Down):
		if m.Cursor < len(m.Options)-1 {
			m.Cursor++
		}
	case key.Matches(keyMsg, m.keyMap.Home):
		m.Cursor = 0
	case key.Matches(keyMsg, m.keyMap.End):
		m.Cursor = len(m.Options) - 1
	case key.Matches(keyMsg, m.keyMap.Enter):
		m.Selected = m.Cursor
		m.Quitting = true
		return m, tea.Quit
	case key.Matches(keyMsg, m.keyMap.Cancel):
		m.Selected = -1
		m.Quitting = true
		return m, tea.Quit
	}

	return m, nil
}

// View implements tea.Model.
func (m MenuModel) View() string {
	if m.Quitting {
		return ""
	}

	var b strings.Builder
	b.WriteString(m.styles.Title.Render(m.Title))
	b.WriteString("\n\n")

	for i, opt := range m.Options {
		if i == m.Cursor {
			b.WriteString(m.styles.Selected.Render("> " + opt))
		} else {
			b.WriteString(m.styles.Item.Render(opt))
		}
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(m.styles.Help.Render("↑/↓ move, enter select, esc cancel"))
	b.WriteString("\n")
	return b.String()
}

// ConfirmModel is a one-shot yes/no question. Answer is only meaningful
// once Answered is true; cancellation keeps the default.
type ConfirmModel struct {
	Prompt   string
	Default  bool
	Answer   bool
	Answered bool
	Quitting bool

	keyMap KeyMap
	styles Styles
}

// NewConfirmModel creates a confirmation prompt.
func NewConfirmModel(prompt string, defaultYes bool, styles Styles) ConfirmModel {
	return ConfirmModel{
		Prompt:  prompt,
		Default: defaultYes,
		Answer:  defaultYes,
		keyMap:  DefaultKeyMap(),
		styles:  styles,
	}
}

// Init implements tea.Model.
func (m ConfirmModel) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m ConfirmModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch {
	case keyMsg.String() == "y" || keyMsg.String() == "Y":
		m.Answer = true
		m.Answered = true
		m.Quitting = true
		return m, tea.Quit
	case keyMsg.String() == "n" || keyMsg.String() == "N":
		m.Answer = false
		m.Answered = true
		m.Quitting = true
		return m, tea.Quit
	case key.Matches(keyMsg, m.keyMap.Enter):
		m.Answer = m.Default
		m.Answered = true
		m.Quitting = true
		return m, tea.Quit
	case key.Matches(keyMsg, m.keyMap.Cancel):
		m.Answer = m.Default
		m.Quitting = true
		return m, tea.Quit
	}

	return m, nil
}

// View implements tea.Model.
func (m ConfirmModel) View() string {
	if m.Quitting {
		return ""
	}

	hint := "[y/N]"
	if m.Default {
		hint = "[Y/n]"
	}
	return fmt.Sprintf("%s %s\n", m.styles.Title.Render(m.Prompt), m.styles.Help.Render(hint))
}
