// Package types defines the runtime values of the Lox interpreter.
// It implements the Lox value set: nil, boolean, number, string, and the
// reference types (functions, natives, classes, instances).
package types

import (
	"math"
	"strconv"
)

// ValueType represents the type of a Lox value.
type ValueType int

const (
	TypeNil      ValueType = iota
	TypeBool               // bool
	TypeNumber             // float64
	TypeString             // string
	TypeFunction           // user-defined function or bound method
	TypeNative             // host-provided function
	TypeClass              // class
	TypeInstance           // class instance
)

// String returns the type name used in error messages.
func (t ValueType) String() string {
	switch t {
	case TypeNil:
		return "nil"
	case TypeBool:
		return "boolean"
	case TypeNumber:
		return "number"
	case TypeString:
		return "string"
	case TypeFunction:
		return "function"
	case TypeNative:
		return "native function"
	case TypeClass:
		return "class"
	case TypeInstance:
		return "instance"
	default:
		return "unknown"
	}
}

// Object is a reference value. Implementations are pointers, so two objects
// are equal only when they are the same object.
type Object interface {
	Type() ValueType
	String() string
}

// NativeFunc is the Go implementation of a native function.
type NativeFunc func(args []Value) (Value, error)

// Value represents a Lox runtime value as a tagged union.
type Value struct {
	typ     ValueType
	boolVal bool
	numVal  float64
	strVal  string
	obj     Object
}

// Nil is the singleton nil value.
var Nil = Value{typ: TypeNil}

// NewBool creates a boolean value.
func NewBool(v bool) Value {
	return Value{typ: TypeBool, boolVal: v}
}

// NewNumber creates a number value.
func NewNumber(v float64) Value {
	return Value{typ: TypeNumber, numVal: v}
}

// NewString creates a string value.
func NewString(v string) Value {
	return Value{typ: TypeString, strVal: v}
}

// NewObject wraps a reference value.
func NewObject(o Object) Value {
	return Value{typ: o.Type(), obj: o}
}

// FromLiteral converts a literal stored in the syntax tree into a Value.
func FromLiteral(v any) Value {
	switch val := v.(type) {
	case bool:
		return NewBool(val)
	case float64:
		return NewNumber(val)
	case string:
		return NewString(val)
	default:
		return Nil
	}
}

// Type returns the value's type.
func (v Value) Type() ValueType {
	return v.typ
}

// IsNil returns true if the value is nil.
func (v Value) IsNil() bool {
	return v.typ == TypeNil
}

// AsNumber returns the number value. Panics if not a number.
func (v Value) AsNumber() float64 {
	if v.typ != TypeNumber {
		panic("AsNumber called on " + v.typ.String() + " value")
	}
	return v.numVal
}

// AsString returns the string value. Panics if not a string.
func (v Value) AsString() string {
	if v.typ != TypeString {
		panic("AsString called on " + v.typ.String() + " value")
	}
	return v.strVal
}

// AsObject returns the referenced object, or nil for primitive values.
func (v Value) AsObject() Object {
	return v.obj
}

// Truthy returns the truthiness of a value.
// Only false and nil are falsy; 0 and the empty string are truthy.
func (v Value) Truthy() bool {
	switch v.typ {
	case TypeNil:
		return false
	case TypeBool:
		return v.boolVal
	default:
		return true
	}
}

// Equal compares by value for primitives and by identity for objects.
// Values of different types are never equal.
func (v Value) Equal(other Value) bool {
	if v.typ != other.typ {
		return false
	}
	switch v.typ {
	case TypeNil:
		return true
	case TypeBool:
		return v.boolVal == other.boolVal
	case TypeNumber:
		return v.numVal == other.numVal
	case TypeString:
		return v.strVal == other.strVal
	default:
		return v.obj == other.obj
	}
}

// String returns the representation used by print.
func (v Value) String() string {
	switch v.typ {
	case TypeNil:
		return "nil"
	case TypeBool:
		return strconv.FormatBool(v.boolVal)
	case TypeNumber:
		return FormatNumber(v.numVal)
	case TypeString:
		return v.strVal
	default:
		return v.obj.String()
	}
}

// FormatNumber prints integral numbers without a fractional part.
func FormatNumber(n float64) string {
	switch {
	case math.IsNaN(n):
		return "NaN"
	case math.IsInf(n, 1):
		return "Infinity"
	case math.IsInf(n, -1):
		return "-Infinity"
	}
	return strconv.FormatFloat(n, 'f', -1, 64)
}

// ToGoValue converts a Value to a plain Go value suitable for JSON marshaling.
// Reference values are converted to their printed form.
func (v Value) ToGoValue() any {
	switch v.typ {
	case TypeNil:
		return nil
	case TypeBool:
		return v.boolVal
	case TypeNumber:
		if math.IsNaN(v.numVal) || math.IsInf(v.numVal, 0) {
			return FormatNumber(v.numVal)
		}
		return v.numVal
	case TypeString:
		return v.strVal
	default:
		return v.obj.String()
	}
}
