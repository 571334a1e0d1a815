package runtime

import (
	"github.com/lemonberrylabs/golox/pkg/ast"
	"github.com/lemonberrylabs/golox/pkg/resolver"
	"github.com/lemonberrylabs/golox/pkg/token"
	"github.com/lemonberrylabs/golox/pkg/types"
)

// Callable is a value that can appear in call position.
type Callable interface {
	types.Object
	Arity() int
	Call(in *Interpreter, args []types.Value) (types.Value, error)
}

// Function is a user-defined function or method together with the
// environment it closes over. locals is the resolution table of the run
// that declared it; the body is evaluated against that table.
type Function struct {
	decl          *ast.Function
	closure       *Environment
	locals        resolver.Table
	isInitializer bool
}

func (f *Function) Type() types.ValueType { return types.TypeFunction }
func (f *Function) String() string         { return "<fn " + f.decl.Name.Lexeme + ">" }
func (f *Function) Arity() int             { return len(f.decl.Params) }

// Bind returns a copy of the method whose closure has "this" bound to instance.
func (f *Function) Bind(instance *Instance) *Function {
	env := NewEnvironment(f.closure)
	env.Define("this", types.NewObject(instance))
	return &Function{decl: f.decl, closure: env, locals: f.locals, isInitializer: f.isInitializer}
}

// Call runs the body in a fresh frame holding the parameters.
func (f *Function) Call(in *Interpreter, args []types.Value) (types.Value, error) {
	env := NewEnvironment(f.closure)
	for i, param := range f.decl.Params {
		env.Define(param.Lexeme, args[i])
	}

	prev := in.locals
	in.locals = f.locals
	defer func() { in.locals = prev }()

	result, err := in.executeBlock(f.decl.Body, env)
	if err != nil {
		return types.Nil, err
	}

	// Initializers always yield the instance, even on a bare return.
	if f.isInitializer {
		return f.closure.GetAt(0, "this"), nil
	}
	if result.Flow == FlowReturn {
		return result.Value, nil
	}
	return types.Nil, nil
}

// Native is a function implemented by the host.
type Native struct {
	name  string
	arity int
	fn    types.NativeFunc
}

// NewNative wraps fn as a callable Lox value.
func NewNative(name string, arity int, fn types.NativeFunc) *Native {
	return &Native{name: name, arity: arity, fn: fn}
}

func (n *Native) Type() types.ValueType { return types.TypeNative }
func (n *Native) String() string         { return "<native fn>" }
func (n *Native) Arity() int             { return n.arity }
func (n *Native) Name() string           { return n.name }

func (n *Native) Call(_ *Interpreter, args []types.Value) (types.Value, error) {
	return n.fn(args)
}

// Class is a Lox class. Calling it creates an instance.
type Class struct {
	Name       string
	Superclass *Class
	methods    map[string]*Function
}

func (c *Class) Type() types.ValueType { return types.TypeClass }
func (c *Class) String() string         { return c.Name }

// FindMethod looks name up on the class and then along the superclass chain.
func (c *Class) FindMethod(name string) *Function {
	for class := c; class != nil; class = class.Superclass {
		if m, ok := class.methods[name]; ok {
			return m
		}
	}
	return nil
}

// Arity is the arity of init, or zero when the class has none.
func (c *Class) Arity() int {
	if init := c.FindMethod("init"); init != nil {
		return init.Arity()
	}
	return 0
}

func (c *Class) Call(in *Interpreter, args []types.Value) (types.Value, error) {
	instance := NewInstance(c)
	if init := c.FindMethod("init"); init != nil {
		if _, err := init.Bind(instance).Call(in, args); err != nil {
			return types.Nil, err
		}
	}
	return types.NewObject(instance), nil
}

// Instance is an object created by calling a class.
type Instance struct {
	class  *Class
	fields map[string]types.Value
}

// NewInstance creates an instance of class with no fields.
func NewInstance(class *Class) *Instance {
	return &Instance{class: class, fields: make(map[string]types.Value)}
}

func (o *Instance) Type() types.ValueType { return types.TypeInstance }
func (o *Instance) String() string         { return o.class.Name + " instance" }

// Get returns a field, or a method bound to the instance. Fields shadow methods.
func (o *Instance) Get(name token.Token) (types.Value, error) {
	if v, ok := o.fields[name.Lexeme]; ok {
		return v, nil
	}
	if m := o.class.FindMethod(name.Lexeme); m != nil {
		return types.NewObject(m.Bind(o)), nil
	}
	return types.Nil, types.NewPropertyError(name)
}

// Set writes a field, creating it if needed.
func (o *Instance) Set(name token.Token, v types.Value) {
	o.fields[name.Lexeme] = v
}
