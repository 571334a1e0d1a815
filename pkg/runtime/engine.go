package runtime

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/lemonberrylabs/golox/pkg/ast"
	"github.com/lemonberrylabs/golox/pkg/resolver"
	"github.com/lemonberrylabs/golox/pkg/stdlib"
	"github.com/lemonberrylabs/golox/pkg/token"
	"github.com/lemonberrylabs/golox/pkg/types"
)

// DefaultMaxCallDepth is the default limit on nested Lox calls.
const DefaultMaxCallDepth = 1024

// StepLimitMessage is the runtime error raised when WithMaxSteps is exhausted.
const StepLimitMessage = "Execution step limit exceeded."

// FlowControl represents special flow control signals during execution.
type FlowControl int

const (
	FlowNone   FlowControl = iota
	FlowReturn             // return a value to the enclosing call
)

// StepResult is the result of executing a single statement.
type StepResult struct {
	Flow  FlowControl
	Value types.Value // return value for FlowReturn
}

// NativeRegistry provides the host functions installed as globals.
type NativeRegistry interface {
	Each(fn func(name string, arity int, native types.NativeFunc))
}

// Option configures an Interpreter.
type Option func(*Interpreter)

// WithOutput sets the writer print statements write to. Defaults to stdout.
func WithOutput(w io.Writer) Option {
	return func(in *Interpreter) { in.out = w }
}

// WithNatives replaces the default native functions.
func WithNatives(natives NativeRegistry) Option {
	return func(in *Interpreter) { in.natives = natives }
}

// WithMaxCallDepth sets the call depth at which "Stack overflow." is raised.
func WithMaxCallDepth(depth int) Option {
	return func(in *Interpreter) {
		if depth > 0 {
			in.maxCallDepth = depth
		}
	}
}

// WithMaxSteps bounds the loop iterations plus calls a single Interpret or
// Evaluate may perform. Zero, the default, means unlimited.
func WithMaxSteps(steps int) Option {
	return func(in *Interpreter) { in.maxSteps = steps }
}

// WithLogger enables execution tracing on logger.
func WithLogger(logger *log.Logger) Option {
	return func(in *Interpreter) { in.logger = logger }
}

// Interpreter executes resolved Lox programs. The global environment
// persists across calls to Interpret, so one Interpreter can back a REPL.
type Interpreter struct {
	globals *Environment
	env     *Environment
	locals  resolver.Table

	out          io.Writer
	natives      NativeRegistry
	logger       *log.Logger
	maxCallDepth int
	callDepth    int
	maxSteps     int
	steps        int
}

// New creates an interpreter with the natives installed in its globals.
func New(opts ...Option) *Interpreter {
	globals := NewEnvironment(nil)
	in := &Interpreter{
		globals:      globals,
		env:          globals,
		locals:       make(resolver.Table),
		out:          os.Stdout,
		maxCallDepth: DefaultMaxCallDepth,
	}
	for _, opt := range opts {
		opt(in)
	}
	if in.natives == nil {
		in.natives = stdlib.NewRegistry()
	}
	if in.logger == nil {
		in.logger = log.New(io.Discard, "", 0)
	}

	in.natives.Each(func(name string, arity int, fn types.NativeFunc) {
		globals.Define(name, types.NewObject(NewNative(name, arity, fn)))
	})
	return in
}

// Globals returns the global environment.
func (in *Interpreter) Globals() *Environment {
	return in.globals
}

// Interpret executes stmts in order and returns the first runtime error.
// table replaces the previous run's resolution table; functions declared
// earlier keep their own.
// Cancellation of ctx is observed between top-level statements only; a
// statement once started runs to completion or to a runtime error.
func (in *Interpreter) Interpret(ctx context.Context, stmts []ast.Stmt, table resolver.Table) error {
	in.locals = table
	in.steps = 0

	in.logger.Printf("runtime: executing %d statements", len(stmts))
	for _, stmt := range stmts {
		if err := ctx.Err(); err != nil {
			return err
		}
		if _, err := in.execute(stmt); err != nil {
			in.logger.Printf("runtime: %v", err)
			return err
		}
	}
	return nil
}

// Evaluate evaluates a single expression against the global environment.
func (in *Interpreter) Evaluate(ctx context.Context, expr ast.Expr, table resolver.Table) (types.Value, error) {
	in.locals = table
	if err := ctx.Err(); err != nil {
		return types.Nil, err
	}
	in.steps = 0
	return in.evaluate(expr)
}

// execute runs a single statement.
func (in *Interpreter) execute(stmt ast.Stmt) (StepResult, error) {
	switch s := stmt.(type) {
	case *ast.Expression:
		_, err := in.evaluate(s.Expr)
		return StepResult{}, err

	case *ast.Print:
		v, err := in.evaluate(s.Expr)
		if err != nil {
			return StepResult{}, err
		}
		fmt.Fprintln(in.out, v.String())
		return StepResult{}, nil

	case *ast.Var:
		value := types.Nil
		if s.Initializer != nil {
			v, err := in.evaluate(s.Initializer)
			if err != nil {
				return StepResult{}, err
			}
			value = v
		}
		in.env.Define(s.Name.Lexeme, value)
		return StepResult{}, nil

	case *ast.Block:
		return in.executeBlock(s.Statements, NewEnvironment(in.env))

	case *ast.If:
		cond, err := in.evaluate(s.Condition)
		if err != nil {
			return StepResult{}, err
		}
		if cond.Truthy() {
			return in.execute(s.Then)
		}
		if s.Else != nil {
			return in.execute(s.Else)
		}
		return StepResult{}, nil

	case *ast.While:
		return in.executeWhile(s)

	case *ast.Function:
		fn := &Function{decl: s, closure: in.env, locals: in.locals}
		in.env.Define(s.Name.Lexeme, types.NewObject(fn))
		return StepResult{}, nil

	case *ast.Return:
		value := types.Nil
		if s.Value != nil {
			v, err := in.evaluate(s.Value)
			if err != nil {
				return StepResult{}, err
			}
			value = v
		}
		return StepResult{Flow: FlowReturn, Value: value}, nil

	case *ast.Class:
		return StepResult{}, in.executeClass(s)

	default:
		return StepResult{}, fmt.Errorf("unsupported statement type %T", stmt)
	}
}

// executeBlock runs stmts in env, restoring the previous environment on exit.
func (in *Interpreter) executeBlock(stmts []ast.Stmt, env *Environment) (StepResult, error) {
	previous := in.env
	in.env = env
	defer func() { in.env = previous }()

	for _, stmt := range stmts {
		result, err := in.execute(stmt)
		if err != nil {
			return StepResult{}, err
		}
		if result.Flow != FlowNone {
			return result, nil
		}
	}
	return StepResult{}, nil
}

func (in *Interpreter) executeWhile(s *ast.While) (StepResult, error) {
	for {
		if err := in.step(s.Keyword); err != nil {
			return StepResult{}, err
		}
		cond, err := in.evaluate(s.Condition)
		if err != nil {
			return StepResult{}, err
		}
		if !cond.Truthy() {
			return StepResult{}, nil
		}
		result, err := in.execute(s.Body)
		if err != nil {
			return StepResult{}, err
		}
		if result.Flow == FlowReturn {
			return result, nil
		}
	}
}

func (in *Interpreter) executeClass(s *ast.Class) error {
	var superclass *Class
	if s.Superclass != nil {
		v, err := in.evaluate(s.Superclass)
		if err != nil {
			return err
		}
		sc, ok := v.AsObject().(*Class)
		if !ok {
			return types.NewTypeError(s.Superclass.Name, "Superclass must be a class.")
		}
		superclass = sc
	}

	in.env.Define(s.Name.Lexeme, types.Nil)

	// Methods close over a frame holding "super" when there is a superclass.
	closure := in.env
	if superclass != nil {
		closure = NewEnvironment(in.env)
		closure.Define("super", types.NewObject(superclass))
	}

	methods := make(map[string]*Function, len(s.Methods))
	for _, method := range s.Methods {
		methods[method.Name.Lexeme] = &Function{
			decl:          method,
			closure:       closure,
			locals:        in.locals,
			isInitializer: method.Name.Lexeme == "init",
		}
	}

	class := &Class{Name: s.Name.Lexeme, Superclass: superclass, methods: methods}
	return in.env.Assign(s.Name, types.NewObject(class))
}

// call invokes callee, enforcing the call depth limit and attributing
// native failures to the call site.
func (in *Interpreter) call(callee Callable, paren token.Token, args []types.Value) (types.Value, error) {
	if in.callDepth >= in.maxCallDepth {
		return types.Nil, types.NewRecursionError(paren)
	}
	if err := in.step(paren); err != nil {
		return types.Nil, err
	}
	in.callDepth++
	defer func() { in.callDepth-- }()

	v, err := callee.Call(in, args)
	if err != nil {
		var rerr *types.RuntimeError
		if errors.As(err, &rerr) {
			return types.Nil, err
		}
		return types.Nil, types.NewNativeError(paren, err)
	}
	return v, nil
}

// step charges one unit against the execution budget.
func (in *Interpreter) step(tok token.Token) error {
	if in.maxSteps <= 0 {
		return nil
	}
	in.steps++
	if in.steps > in.maxSteps {
		return types.NewResourceLimitError(tok, StepLimitMessage)
	}
	return nil
}
