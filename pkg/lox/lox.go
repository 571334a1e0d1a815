// Package lox runs Lox source text through the scanner, parser, resolver and
// interpreter, and reports the outcome as a Status.
package lox

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/lemonberrylabs/golox/pkg/ast"
	"github.com/lemonberrylabs/golox/pkg/diag"
	"github.com/lemonberrylabs/golox/pkg/parser"
	"github.com/lemonberrylabs/golox/pkg/resolver"
	"github.com/lemonberrylabs/golox/pkg/runtime"
	"github.com/lemonberrylabs/golox/pkg/scanner"
	"github.com/lemonberrylabs/golox/pkg/types"
)

// Mode selects between running a whole script and evaluating one REPL entry.
type Mode int

const (
	ModeScript Mode = iota
	ModeREPL
)

// Status is the outcome of a run.
type Status int

const (
	StatusOK Status = iota
	StatusStaticError
	StatusRuntimeError
)

// String returns the status name used in API payloads.
func (s Status) String() string {
	switch s {
	case StatusOK:
		return "ok"
	case StatusStaticError:
		return "static_error"
	case StatusRuntimeError:
		return "runtime_error"
	default:
		return "unknown"
	}
}

// ExitCode maps the status to a sysexits code: 65 (EX_DATAERR) for static
// errors and 70 (EX_SOFTWARE) for runtime errors.
func (s Status) ExitCode() int {
	switch s {
	case StatusStaticError:
		return 65
	case StatusRuntimeError:
		return 70
	default:
		return 0
	}
}

type options struct {
	stdout       io.Writer
	stderr       io.Writer
	natives      runtime.NativeRegistry
	maxCallDepth int
	maxSteps     int
	logger       *log.Logger
}

// Option configures a Lox instance.
type Option func(*options)

// WithStdout sets where print output goes. Defaults to os.Stdout.
func WithStdout(w io.Writer) Option {
	return func(o *options) { o.stdout = w }
}

// WithStderr sets where diagnostics go. Defaults to os.Stderr.
func WithStderr(w io.Writer) Option {
	return func(o *options) { o.stderr = w }
}

// WithNatives replaces the default native functions.
func WithNatives(natives runtime.NativeRegistry) Option {
	return func(o *options) { o.natives = natives }
}

// WithMaxCallDepth sets the call depth at which "Stack overflow." is raised.
func WithMaxCallDepth(depth int) Option {
	return func(o *options) { o.maxCallDepth = depth }
}

// WithMaxSteps bounds the loop iterations and calls of each run.
func WithMaxSteps(steps int) Option {
	return func(o *options) { o.maxSteps = steps }
}

// WithLogger traces each phase of a run on logger.
func WithLogger(logger *log.Logger) Option {
	return func(o *options) { o.logger = logger }
}

// Lox owns one interpreter. Globals defined by one Run are visible to the
// next, which is what a REPL needs. A Lox is not safe for concurrent use.
type Lox struct {
	stdout   io.Writer
	reporter *diag.Reporter
	interp   *runtime.Interpreter
	logger   *log.Logger

	echo   types.Value
	echoed bool
}

// New creates a Lox instance.
func New(opts ...Option) *Lox {
	o := options{
		stdout:       os.Stdout,
		stderr:       os.Stderr,
		maxCallDepth: runtime.DefaultMaxCallDepth,
	}
	for _, opt := range opts {
		opt(&o)
	}
	if o.logger == nil {
		o.logger = log.New(io.Discard, "", 0)
	}

	rtOpts := []runtime.Option{
		runtime.WithOutput(o.stdout),
		runtime.WithMaxCallDepth(o.maxCallDepth),
		runtime.WithMaxSteps(o.maxSteps),
		runtime.WithLogger(o.logger),
	}
	if o.natives != nil {
		rtOpts = append(rtOpts, runtime.WithNatives(o.natives))
	}

	return &Lox{
		stdout:   o.stdout,
		reporter: diag.NewReporter(o.stderr),
		interp:   runtime.New(rtOpts...),
		logger:   o.logger,
	}
}

// Run scans, parses, resolves and executes source. Nothing is executed if a
// static error was reported. In REPL mode the value of a lone expression is
// printed, and the trailing semicolon of that expression may be omitted.
func (l *Lox) Run(ctx context.Context, source string, mode Mode) Status {
	l.reporter.Reset()
	l.echo, l.echoed = types.Nil, false

	if mode == ModeREPL {
		if expr := bareExpression(source); expr != nil {
			return l.runStatements(ctx, []ast.Stmt{&ast.Expression{Expr: expr}}, mode)
		}
	}

	tokens := scanner.New(source, l.reporter).ScanTokens()
	l.logger.Printf("lox: scanned %d tokens", len(tokens))

	stmts := parser.New(tokens, l.reporter).Parse()
	if l.reporter.HadError() {
		l.logger.Printf("lox: %d static errors", len(l.reporter.Diagnostics()))
		return StatusStaticError
	}
	l.logger.Printf("lox: parsed %d statements", len(stmts))
	return l.runStatements(ctx, stmts, mode)
}

func (l *Lox) runStatements(ctx context.Context, stmts []ast.Stmt, mode Mode) Status {
	table := resolver.New(l.reporter).Resolve(stmts)
	if l.reporter.HadError() {
		l.logger.Printf("lox: %d static errors", len(l.reporter.Diagnostics()))
		return StatusStaticError
	}
	l.logger.Printf("lox: resolved %d local references", len(table))

	if mode == ModeREPL && len(stmts) == 1 {
		if stmt, ok := stmts[0].(*ast.Expression); ok {
			v, err := l.interp.Evaluate(ctx, stmt.Expr, table)
			if err != nil {
				return l.runtimeError(err)
			}
			fmt.Fprintln(l.stdout, v.String())
			l.echo, l.echoed = v, true
			return StatusOK
		}
	}

	if err := l.interp.Interpret(ctx, stmts, table); err != nil {
		return l.runtimeError(err)
	}
	return StatusOK
}

func (l *Lox) runtimeError(err error) Status {
	d := diag.Diagnostic{Kind: diag.Runtime, Message: err.Error()}
	var rerr *types.RuntimeError
	if errors.As(err, &rerr) {
		d.Line = rerr.Line()
		d.Message = rerr.Message
	}
	l.reporter.Report(d)
	return StatusRuntimeError
}

// Diagnostics returns the diagnostics reported by the last Run.
func (l *Lox) Diagnostics() []diag.Diagnostic {
	return l.reporter.Diagnostics()
}

// Echo returns the value the last Run printed for a lone REPL expression.
// The second result is false if nothing was echoed.
func (l *Lox) Echo() (types.Value, bool) {
	return l.echo, l.echoed
}

// Globals returns the names bound in the global environment, in sorted order.
func (l *Lox) Globals() []string {
	return l.interp.Globals().Names()
}

// bareExpression parses source as a single expression with no trailing
// semicolon. It returns nil if source is anything else.
func bareExpression(source string) ast.Expr {
	r := diag.NewReporter(nil)
	tokens := scanner.New(source, r).ScanTokens()
	if r.HadError() || len(tokens) == 1 {
		return nil
	}
	expr := parser.New(tokens, r).ParseExpression()
	if r.HadError() {
		return nil
	}
	return expr
}
