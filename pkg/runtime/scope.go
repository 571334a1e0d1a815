// Package runtime implements the Lox tree-walking interpreter.
package runtime

import (
	"sort"

	"github.com/lemonberrylabs/golox/pkg/token"
	"github.com/lemonberrylabs/golox/pkg/types"
)

// Environment manages variable storage with parent scope chaining.
// Variables are looked up starting from the current frame and walking up
// the enclosing chain. New variables are always created in the current frame.
//
// Frames are shared by pointer: a closure keeps its defining frame alive for
// as long as the closure itself is reachable.
type Environment struct {
	enclosing *Environment
	values    map[string]types.Value
}

// NewEnvironment creates a frame enclosed by enclosing. A nil enclosing
// frame creates a root (global) frame.
func NewEnvironment(enclosing *Environment) *Environment {
	return &Environment{
		enclosing: enclosing,
		values:    make(map[string]types.Value),
	}
}

// Define binds name in this frame, replacing any existing binding.
func (e *Environment) Define(name string, v types.Value) {
	e.values[name] = v
}

// Get retrieves a variable value, searching up the scope chain.
func (e *Environment) Get(name token.Token) (types.Value, error) {
	for env := e; env != nil; env = env.enclosing {
		if v, ok := env.values[name.Lexeme]; ok {
			return v, nil
		}
	}
	return types.Nil, types.NewNameError(name)
}

// Assign updates the nearest frame that binds name. It never creates a binding.
func (e *Environment) Assign(name token.Token, v types.Value) error {
	for env := e; env != nil; env = env.enclosing {
		if _, ok := env.values[name.Lexeme]; ok {
			env.values[name.Lexeme] = v
			return nil
		}
	}
	return types.NewNameError(name)
}

// Ancestor returns the frame distance hops up the chain.
func (e *Environment) Ancestor(distance int) *Environment {
	env := e
	for i := 0; i < distance; i++ {
		env = env.enclosing
	}
	return env
}

// GetAt reads name directly from the frame distance hops away.
func (e *Environment) GetAt(distance int, name string) types.Value {
	return e.Ancestor(distance).values[name]
}

// AssignAt writes name directly into the frame distance hops away.
func (e *Environment) AssignAt(distance int, name token.Token, v types.Value) {
	e.Ancestor(distance).values[name.Lexeme] = v
}

// Has reports whether name is bound in this frame only.
func (e *Environment) Has(name string) bool {
	_, ok := e.values[name]
	return ok
}

// Names returns the names bound in this frame only, sorted.
func (e *Environment) Names() []string {
	names := make([]string, 0, len(e.values))
	for name := range e.values {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
