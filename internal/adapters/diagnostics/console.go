package diagnostics

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/embedstack/cbuild/internal/core/entities"
	"github.com/embedstack/cbuild/internal/ui"
)

// ConsoleFormatter renders a Context's diagnostics for a terminal using
// internal/ui's lipgloss styles, gated by --quiet/--verbose/--debug.
type ConsoleFormatter struct {
	out     *ui.Output
	quiet   bool
	verbose bool
	debug   bool
}

// NewConsoleFormatter builds a formatter writing to w/errW.
func NewConsoleFormatter(w, errW io.Writer) *ConsoleFormatter {
	return &ConsoleFormatter{out: ui.NewOutput().WithWriter(w).WithErrWriter(errW)}
}

func (f *ConsoleFormatter) WithQuiet(v bool) *ConsoleFormatter   { f.quiet = v; return f }
func (f *ConsoleFormatter) WithVerbose(v bool) *ConsoleFormatter { f.verbose = v; return f }
func (f *ConsoleFormatter) WithDebug(v bool) *ConsoleFormatter   { f.debug = v; return f }

// Print renders each diagnostic according to severity and the active
// verbosity flags: in --quiet only errors/critical print; infos only
// print in --verbose or --debug; --debug additionally prefixes the
// diagnostic code.
func (f *ConsoleFormatter) Print(diags []entities.Diagnostic) {
	for _, d := range diags {
		if f.quiet && d.Severity < entities.SeverityError {
			continue
		}
		if d.Severity == entities.SeverityInfo && !f.verbose && !f.debug {
			continue
		}
		line := d.String()
		if f.debug {
			line = fmt.Sprintf("[%s] %s", d.Code, line)
		}
		switch d.Severity {
		case entities.SeverityError, entities.SeverityCritical:
			f.out.Error(line)
		case entities.SeverityWarning:
			f.out.Warning(line)
		default:
			f.out.Info(line)
		}
	}
}

// PrintSummary prints the final error/warning tally.
func (f *ConsoleFormatter) PrintSummary(counts entities.DiagnosticCounts) {
	if counts.HasErrors() {
		f.out.Error(fmt.Sprintf("%d error(s), %d warning(s)", counts.Errors+counts.Critical, counts.Warnings))
		return
	}
	f.out.Success(fmt.Sprintf("0 errors, %d warning(s)", counts.Warnings))
}

// JSONFormatter marshals diagnostics as structured JSON for `--export
// json`. No ecosystem structured-logging library appears among the
// example corpus's direct dependencies, so this ambient seam stays on
// stdlib encoding/json (see DESIGN.md).
type JSONFormatter struct {
	w io.Writer
}

func NewJSONFormatter(w io.Writer) *JSONFormatter {
	return &JSONFormatter{w: w}
}

func (f *JSONFormatter) Print(diags []entities.Diagnostic) error {
	enc := json.NewEncoder(f.w)
	enc.SetIndent("", "  ")
	return enc.Encode(diags)
}
