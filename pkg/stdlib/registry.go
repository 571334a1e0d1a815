// Package stdlib implements the native functions available to Lox programs.
package stdlib

import (
	"sort"

	"github.com/lemonberrylabs/golox/pkg/types"
)

type entry struct {
	arity int
	fn    types.NativeFunc
}

// Registry holds native functions by name. The interpreter installs every
// entry as a global before user code runs.
type Registry struct {
	funcs map[string]entry
}

// NewRegistry creates a new registry with all built-in functions registered.
func NewRegistry() *Registry {
	r := &Registry{
		funcs: make(map[string]entry),
	}
	r.registerSys()
	return r
}

// Register adds a function to the registry, replacing any function with the same name.
func (r *Registry) Register(name string, arity int, fn types.NativeFunc) {
	r.funcs[name] = entry{arity: arity, fn: fn}
}

// Lookup returns the named function and its arity.
func (r *Registry) Lookup(name string) (types.NativeFunc, int, bool) {
	e, ok := r.funcs[name]
	return e.fn, e.arity, ok
}

// Names returns the registered names in sorted order.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.funcs))
	for name := range r.funcs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Each calls fn for every registered function in name order.
func (r *Registry) Each(fn func(name string, arity int, native types.NativeFunc)) {
	for _, name := range r.Names() {
		e := r.funcs[name]
		fn(name, e.arity, e.fn)
	}
}
