// Package ui provides styled terminal output using lipgloss.
// It implements consistent formatting for CLI messages, errors, and progress.
package ui

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
)

// Color palette
var (
	colorSuccess = lipgloss.Color("#10b981")
	colorWarning = lipgloss.Color("#f59e0b")
	colorError   = lipgloss.Color("#ef4444")
	colorMuted   = lipgloss.Color("#6b7280")
)

// Styles
var (
	SuccessStyle = lipgloss.NewStyle().
			Foreground(colorSuccess)

	WarningStyle = lipgloss.NewStyle().
			Foreground(colorWarning)

	ErrorStyle = lipgloss.NewStyle().
			Foreground(colorError).
			Bold(true)

	MutedStyle = lipgloss.NewStyle().
			Foreground(colorMuted)
)

// Output handles styled terminal output.
type Output struct {
	writer    io.Writer
	errWriter io.Writer
	verbose   bool
}

// NewOutput creates a new Output with default writers.
func NewOutput() *Output {
	return &Output{
		writer:    os.Stdout,
		errWriter: os.Stderr,
		verbose:   false,
	}
}

// WithVerbose enables verbose output.
func (o *Output) WithVerbose(verbose bool) *Output {
	o.verbose = verbose
	return o
}

// WithWriter sets the output writer.
func (o *Output) WithWriter(w io.Writer) *Output {
	o.writer = w
	return o
}

// WithErrWriter sets the error writer.
func (o *Output) WithErrWriter(w io.Writer) *Output {
	o.errWriter = w
	return o
}

// Success prints a success message with checkmark.
func (o *Output) Success(msg string) {
	fmt.Fprintln(o.writer, SuccessStyle.Render("✓ "+msg))
}

// Warning prints a warning message.
func (o *Output) Warning(msg string) {
	fmt.Fprintln(o.errWriter, WarningStyle.Render("⚠ "+msg))
}

// Error prints an error message.
func (o *Output) Error(msg string) {
	fmt.Fprintln(o.errWriter, ErrorStyle.Render("✗ "+msg))
}

// Info prints an info message.
func (o *Output) Info(msg string) {
	fmt.Fprintln(o.writer, "ℹ "+msg)
}

// List prints a list of items.
func (o *Output) List(items []string) {
	for _, item := range items {
		fmt.Fprintln(o.writer, "  • "+item)
	}
}

// KeyValue prints a key-value pair.
func (o *Output) KeyValue(key, value string) {
	fmt.Fprintf(o.writer, "%s: %s\n", MutedStyle.Render(key), value)
}
