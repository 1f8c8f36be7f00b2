// Package output provides the console context object passed to every
// component that talks to the user. Styling lives here so the same logic is
// testable against a plain buffer without capturing global state.
package output

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
)

var (
	styleError   = lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true)
	styleWarning = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
	styleSuccess = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	styleDim     = lipgloss.NewStyle().Faint(true)
	styleTitle   = lipgloss.NewStyle().Bold(true)
	styleBox     = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			Padding(0, 1)
)

// Console writes styled user-facing output to a single destination.
type Console struct {
	w     io.Writer
	emoji bool
}

// NewConsole creates a Console writing to w.
func NewConsole(w io.Writer) *Console {
	return &Console{w: w}
}

// Default returns a Console writing to stdout.
func Default() *Console {
	return &Console{w: os.Stdout}
}

// WithEmoji returns a copy that prefixes status lines with glyphs.
func (c *Console) WithEmoji(enabled bool) *Console {
	out := *c
	out.emoji = enabled
	return &out
}

// Printf writes unstyled formatted text.
func (c *Console) Printf(format string, args ...any) {
	fmt.Fprintf(c.w, format, args...)
}

// Println writes an unstyled line.
func (c *Console) Println(args ...any) {
	fmt.Fprintln(c.w, args...)
}

// Errorf writes a bold red error message. Formats behave like Printf:
// callers supply their own newlines.
func (c *Console) Errorf(format string, args ...any) {
	prefix := "Error: "
	if c.emoji {
		prefix = "❌ " + prefix
	}
	fmt.Fprint(c.w, styleError.Render(prefix)+fmt.Sprintf(format, args...))
}

// Warnf writes a yellow warning message.
func (c *Console) Warnf(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	if c.emoji {
		msg = "⚠️  " + msg
	}
	fmt.Fprint(c.w, styleWarning.Render(msg))
}

// Successf writes a green success message.
func (c *Console) Successf(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	if c.emoji {
		msg = "✅ " + msg
	}
	fmt.Fprint(c.w, styleSuccess.Render(msg))
}

// Dimf writes faint text, used for hints and progress notes.
func (c *Console) Dimf(format string, args ...any) {
	fmt.Fprint(c.w, styleDim.Render(fmt.Sprintf(format, args...)))
}

// Titlef writes bold text.
func (c *Console) Titlef(format string, args ...any) {
	fmt.Fprint(c.w, styleTitle.Render(fmt.Sprintf(format, args...)))
}

// Boxf writes text inside a rounded border, used for summaries.
func (c *Console) Boxf(format string, args ...any) {
	fmt.Fprintln(c.w, styleBox.Render(fmt.Sprintf(format, args...)))
}
