// Package term is the plain-text terminal frontend. It sticks to ASCII so
// output stays readable on a bare virtual console, where archup typically
// runs right after the first boot.
package term

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/archup/archup/internal/install"
)

// Status symbols. ASCII only, console fonts may lack Unicode.
const (
	SymbolSuccess = "[OK]"
	SymbolFailed  = "[FAIL]"
	SymbolSkipped = "[SKIP]"
	SymbolWarning = "[!]"
	SymbolInfo    = "[i]"
)

// Console is a line-oriented UI over a reader and a writer. It implements
// resume.Prompter for both the resume menu and mid-pipeline confirmations.
type Console struct {
	reader *bufio.Reader
	writer io.Writer
	width  int
}

// ConsoleOption is a functional option for Console.
type ConsoleOption func(*Console)

// WithReader sets the input source.
func WithReader(r io.Reader) ConsoleOption {
	return func(c *Console) { c.reader = bufio.NewReader(r) }
}

// WithWriter sets the output destination.
func WithWriter(w io.Writer) ConsoleOption {
	return func(c *Console) { c.writer = w }
}

// WithWidth sets the output width. Default is 80.
func WithWidth(width int) ConsoleOption {
	return func(c *Console) {
		if width > 0 {
			c.width = width
		}
	}
}

// NewConsole creates a console on stdin/stdout.
func NewConsole(opts ...ConsoleOption) *Console {
	c := &Console{
		reader: bufio.NewReader(os.Stdin),
		writer: os.Stdout,
		width:  80,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// IsInteractive reports whether stdin is a terminal. Without one, prompts
// must fall back to default answers instead of blocking forever.
func IsInteractive() bool {
	info, err := os.Stdin.Stat()
	if err != nil {
		return false
	}
	return info.Mode()&os.ModeCharDevice != 0
}

// Header prints a centered section header between separator lines.
func (c *Console) Header(text string) {
	c.Separator()
	padding := (c.width - len(text)) / 2
	if padding > 0 {
		fmt.Fprintf(c.writer, "%s%s\n", strings.Repeat(" ", padding), text)
	} else {
		fmt.Fprintln(c.writer, text)
	}
	c.Separator()
}

// Separator prints a horizontal dash line.
func (c *Console) Separator() {
	fmt.Fprintln(c.writer, strings.Repeat("-", c.width))
}

// Print prints a plain line.
func (c *Console) Print(text string) {
	fmt.Fprintln(c.writer, text)
}

// Printf prints formatted text.
func (c *Console) Printf(format string, args ...interface{}) {
	fmt.Fprintf(c.writer, format, args...)
}

// Success prints a line with the [OK] symbol.
func (c *Console) Success(text string) {
	fmt.Fprintf(c.writer, "%s %s\n", SymbolSuccess, text)
}

// Error prints a line with the [FAIL] symbol.
func (c *Console) Error(text string) {
	fmt.Fprintf(c.writer, "%s %s\n", SymbolFailed, text)
}

// Warning prints a line with the [!] symbol.
func (c *Console) Warning(text string) {
	fmt.Fprintf(c.writer, "%s %s\n", SymbolWarning, text)
}

// Info prints a line with the [i] symbol.
func (c *Console) Info(text string) {
	fmt.Fprintf(c.writer, "%s %s\n", SymbolInfo, text)
}

// Confirm asks a yes/no question. Empty input takes the default; EOF takes
// the default too, so a closed stdin cannot hang the run.
func (c *Console) Confirm(prompt string, defaultYes bool) bool {
	hint := "[y/N]"
	if defaultYes {
		hint = "[Y/n]"
	}

	for {
		fmt.Fprintf(c.writer, "%s %s: ", prompt, hint)

		input, err := c.reader.ReadString('\n')
		if err != nil {
			fmt.Fprintln(c.writer)
			return defaultYes
		}

		switch strings.TrimSpace(strings.ToLower(input)) {
		case "y", "yes":
			return true
		case "n", "no":
			return false
		case "":
			return defaultYes
		default:
			c.Warning("Please enter 'y' or 'n'")
		}
	}
}

// Choose presents a numbered menu and returns the selected index. Empty
// input or EOF selects the default. Out-of-range numbers re-prompt.
func (c *Console) Choose(title string, options []string, defaultIndex int) int {
	if len(options) == 0 {
		return -1
	}
	if defaultIndex < 0 || defaultIndex >= len(options) {
		defaultIndex = 0
	}

	c.Print(title)
	for i, opt := range options {
		marker := " "
		if i == defaultIndex {
			marker = "*"
		}
		fmt.Fprintf(c.writer, " %s %d) %s\n", marker, i+1, opt)
	}

	for {
		fmt.Fprintf(c.writer, "Selection [%d]: ", defaultIndex+1)

		input, err := c.reader.ReadString('\n')
		if err != nil {
			fmt.Fprintln(c.writer)
			return defaultIndex
		}

		input = strings.TrimSpace(input)
		if input == "" {
			return defaultIndex
		}

		n, err := strconv.Atoi(input)
		if err != nil || n < 1 || n > len(options) {
			c.Warning(fmt.Sprintf("Please enter a number between 1 and %d", len(options)))
			continue
		}
		return n - 1
	}
}

// StepLine prints one progress line for a finished or skipped step,
// including the remaining-time estimate when one exists.
func (c *Console) StepLine(p install.Progress) {
	symbol := SymbolSuccess
	switch p.Status {
	case install.StepFailed:
		symbol = SymbolFailed
	case install.StepSkipped:
		symbol = SymbolSkipped
	}

	line := fmt.Sprintf("[%d/%d] %s %s", p.StepIndex, p.TotalSteps, symbol, p.StepName)
	if p.Message != "" {
		line += ": " + p.Message
	}
	if p.Remaining > 0 {
		line += fmt.Sprintf(" (~%s left)", formatDuration(p.Remaining))
	}
	c.Print(line)
}

// Summary prints the end-of-run box: overall outcome, step counts, and the
// aggregated error list.
func (c *Console) Summary(result install.RunResult, errors []string) {
	c.Separator()

	switch {
	case result.Status == install.RunAborted:
		c.Error(fmt.Sprintf("Installation aborted at step %q", result.AbortedAt))
	case result.Status == install.RunCancelled:
		c.Warning("Installation cancelled")
	case len(errors) > 0:
		c.Warning("Installation finished with warnings")
	default:
		c.Success("Installation completed successfully")
	}

	c.Printf("  steps run: %d, failed: %d, skipped: %d, elapsed: %s\n",
		len(result.Executed), len(result.Failed), len(result.Skipped),
		formatDuration(result.Duration))

	if len(errors) > 0 {
		c.Print("")
		c.Print("Problems encountered:")
		for _, e := range errors {
			fmt.Fprintf(c.writer, "  * %s\n", e)
		}
	}

	c.Separator()
}

// formatDuration renders a duration in compact 1m30s form.
func formatDuration(d time.Duration) string {
	d = d.Round(time.Second)
	if d < time.Minute {
		return d.String()
	}
	m := int(d.Minutes())
	s := int(d.Seconds()) % 60
	if s == 0 {
		return fmt.Sprintf("%dm", m)
	}
	return fmt.Sprintf("%dm%ds", m, s)
}
