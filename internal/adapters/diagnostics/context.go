// Package diagnostics implements the usecases.DiagnosticSink collaborator:
// an explicit, non-singleton diagnostic context plus a
// lipgloss-styled console formatter.
package diagnostics

import (
	"sort"
	"sync"

	"github.com/embedstack/cbuild/internal/core/entities"
	"github.com/embedstack/cbuild/internal/core/usecases"
)

var _ usecases.DiagnosticSink = (*Context)(nil)

// SeverityOverride elevates specific diagnostic codes to error severity in
// "strict" mode.
type SeverityOverride map[string]entities.Severity

// Context is the single diagnostic instance constructed once by the CLI
// frontend and threaded through every resolver call. It is safe for
// sequential reuse across phases of one invocation; the core itself is
// single-threaded so no internal locking is required, but a
// mutex guards against accidental concurrent use if a caller parallelizes
// across independent contexts.
type Context struct {
	mu       sync.Mutex
	diags    []entities.Diagnostic
	strict   bool
	override SeverityOverride
	suppress map[string]bool
	onlyShow map[string]bool
}

// New constructs an empty diagnostic Context.
func New() *Context {
	return &Context{override: SeverityOverride{}}
}

// WithStrict enables "strict" severity promotion.
func (c *Context) WithStrict(strict bool) *Context {
	c.strict = strict
	return c
}

// WithOverride installs the severity-override table used in strict mode.
func (c *Context) WithOverride(o SeverityOverride) *Context {
	c.override = o
	return c
}

// Suppress applies a `--diag-suppress` list. An inverted entry "!<code>"
// means "show only this code". Suppressing an error-severity code is
// refused: a code the override table marks as an error is reported here
// as a meta-diagnostic (M017), and record never drops a diagnostic of
// error severity or above because of the suppression list.
func (c *Context) Suppress(codes []string) {
	c.suppress = make(map[string]bool)
	c.onlyShow = make(map[string]bool)
	for _, code := range codes {
		if len(code) > 0 && code[0] == '!' {
			c.onlyShow[code[1:]] = true
			continue
		}
		if sev, ok := c.override[code]; ok && sev >= entities.SeverityError {
			c.Info("M017", "refusing to suppress error-severity code "+code, nil, "", 0, 0)
			continue
		}
		c.suppress[code] = true
	}
}

func (c *Context) effectiveSeverity(code string, sev entities.Severity) entities.Severity {
	if c.strict {
		if override, ok := c.override[code]; ok {
			return override
		}
	}
	return sev
}

func (c *Context) record(code string, sev entities.Severity, message string, params map[string]string, file string, line, col int) {
	sev = c.effectiveSeverity(code, sev)
	if c.suppress != nil && c.suppress[code] && sev < entities.SeverityError {
		return
	}
	if len(c.onlyShow) > 0 && !c.onlyShow[code] {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.diags = append(c.diags, entities.Diagnostic{
		Code: code, Severity: sev, Message: message,
		File: file, Line: line, Column: col, Params: params,
	})
}

func (c *Context) Error(code, message string, params map[string]string, file string, line, col int) {
	c.record(code, entities.SeverityError, message, params, file, line, col)
}

func (c *Context) Warn(code, message string, params map[string]string, file string, line, col int) {
	c.record(code, entities.SeverityWarning, message, params, file, line, col)
}

func (c *Context) Info(code, message string, params map[string]string, file string, line, col int) {
	c.record(code, entities.SeverityInfo, message, params, file, line, col)
}

// Diagnostics returns the recorded diagnostics in emission order.
func (c *Context) Diagnostics() []entities.Diagnostic {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]entities.Diagnostic{}, c.diags...)
}

// Counts returns the severity tally, used to derive the process exit code
//.
func (c *Context) Counts() entities.DiagnosticCounts {
	c.mu.Lock()
	defer c.mu.Unlock()
	return entities.Count(c.diags)
}

// SortedByFile returns diagnostics grouped deterministically by file then
// line, for stable report output.
func (c *Context) SortedByFile() []entities.Diagnostic {
	out := c.Diagnostics()
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].File != out[j].File {
			return out[i].File < out[j].File
		}
		return out[i].Line < out[j].Line
	})
	return out
}
