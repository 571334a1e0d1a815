// Package diag collects and formats the diagnostics produced while scanning,
// parsing, resolving and running a Lox program.
package diag

import (
	"fmt"
	"io"

	"github.com/lemonberrylabs/golox/pkg/token"
)

// Kind classifies a diagnostic by the pass that produced it.
type Kind int

const (
	Lexical Kind = iota
	Syntax
	Resolution
	Runtime
)

// String returns the kind name used in JSON payloads and logs.
func (k Kind) String() string {
	switch k {
	case Lexical:
		return "lexical"
	case Syntax:
		return "syntax"
	case Resolution:
		return "resolution"
	case Runtime:
		return "runtime"
	default:
		return "unknown"
	}
}

// Diagnostic is a single reported problem with its source line.
type Diagnostic struct {
	Kind    Kind
	Line    int
	Where   string // e.g. " at 'foo'" or " at end"; empty for lexical and runtime errors
	Message string

	// AtEnd is set when a syntax error was caused by running out of input.
	AtEnd bool
}

// Error implements the error interface.
func (d Diagnostic) Error() string {
	if d.Kind == Runtime {
		return fmt.Sprintf("%s\n[line %d]", d.Message, d.Line)
	}
	return fmt.Sprintf("[line %d] Error%s: %s", d.Line, d.Where, d.Message)
}

// Reporter accumulates diagnostics for a run in discovery order.
type Reporter struct {
	out         io.Writer
	diagnostics []Diagnostic

	hadError        bool
	hadRuntimeError bool
}

// NewReporter creates a reporter. If out is non-nil every diagnostic is also
// written to it as soon as it is reported.
func NewReporter(out io.Writer) *Reporter {
	return &Reporter{out: out}
}

// Report records a diagnostic.
func (r *Reporter) Report(d Diagnostic) {
	r.diagnostics = append(r.diagnostics, d)
	if d.Kind == Runtime {
		r.hadRuntimeError = true
	} else {
		r.hadError = true
	}
	if r.out != nil {
		fmt.Fprintln(r.out, d.Error())
	}
}

// Errorf reports an error that is tied to a line but not to a token.
func (r *Reporter) Errorf(kind Kind, line int, format string, args ...any) {
	r.Report(Diagnostic{Kind: kind, Line: line, Message: fmt.Sprintf(format, args...)})
}

// TokenError reports an error at the given token.
func (r *Reporter) TokenError(kind Kind, tok token.Token, message string) {
	d := Diagnostic{Kind: kind, Line: tok.Line, Message: message}
	if tok.Type == token.EOF {
		d.Where = " at end"
		d.AtEnd = true
	} else {
		d.Where = fmt.Sprintf(" at '%s'", tok.Lexeme)
	}
	r.Report(d)
}

// HadError reports whether a lexical, syntax or resolution error was recorded.
func (r *Reporter) HadError() bool {
	return r.hadError
}

// HadRuntimeError reports whether a runtime error was recorded.
func (r *Reporter) HadRuntimeError() bool {
	return r.hadRuntimeError
}

// Diagnostics returns the diagnostics recorded since the last Reset.
func (r *Reporter) Diagnostics() []Diagnostic {
	result := make([]Diagnostic, len(r.diagnostics))
	copy(result, r.diagnostics)
	return result
}

// Reset clears the recorded diagnostics and error flags. The REPL calls it
// before each entry.
func (r *Reporter) Reset() {
	r.diagnostics = nil
	r.hadError = false
	r.hadRuntimeError = false
}
