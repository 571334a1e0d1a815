package types

import (
	"fmt"

	"github.com/lemonberrylabs/golox/pkg/token"
)

// Error tag constants for runtime errors.
const (
	TagTypeError      = "TypeError"
	TagNameError      = "NameError"
	TagArityError     = "ArityError"
	TagPropertyError  = "PropertyError"
	TagRecursionError = "RecursionError"
	TagNativeError    = "NativeError"
	TagResourceLimit  = "ResourceLimitError"
)

// RuntimeError is a fatal error raised while evaluating a program. Token is
// the source token the error is attributed to.
type RuntimeError struct {
	Tag     string
	Message string
	Token   token.Token
}

// Error implements the error interface.
func (e *RuntimeError) Error() string {
	return fmt.Sprintf("%s\n[line %d]", e.Message, e.Token.Line)
}

// Line returns the source line the error is attributed to.
func (e *RuntimeError) Line() int {
	return e.Token.Line
}

// Common error constructors.

// NewTypeError creates a TypeError, raised for operands of the wrong type.
func NewTypeError(tok token.Token, msg string) *RuntimeError {
	return &RuntimeError{Tag: TagTypeError, Message: msg, Token: tok}
}

// NewNameError creates a NameError for an undefined variable.
func NewNameError(tok token.Token) *RuntimeError {
	return &RuntimeError{
		Tag:     TagNameError,
		Message: fmt.Sprintf("Undefined variable '%s'.", tok.Lexeme),
		Token:   tok,
	}
}

// NewArityError creates an ArityError for a call with the wrong argument count.
func NewArityError(tok token.Token, want, got int) *RuntimeError {
	return &RuntimeError{
		Tag:     TagArityError,
		Message: fmt.Sprintf("Expected %d arguments but got %d.", want, got),
		Token:   tok,
	}
}

// NewPropertyError creates a PropertyError for an undefined property.
func NewPropertyError(tok token.Token) *RuntimeError {
	return &RuntimeError{
		Tag:     TagPropertyError,
		Message: fmt.Sprintf("Undefined property '%s'.", tok.Lexeme),
		Token:   tok,
	}
}

// NewRecursionError creates a RecursionError when the call depth limit is hit.
func NewRecursionError(tok token.Token) *RuntimeError {
	return &RuntimeError{Tag: TagRecursionError, Message: "Stack overflow.", Token: tok}
}

// NewNativeError wraps an error returned by a native function.
func NewNativeError(tok token.Token, err error) *RuntimeError {
	return &RuntimeError{Tag: TagNativeError, Message: err.Error(), Token: tok}
}

// NewResourceLimitError creates a ResourceLimitError when an execution budget is exhausted.
func NewResourceLimitError(tok token.Token, msg string) *RuntimeError {
	return &RuntimeError{Tag: TagResourceLimit, Message: msg, Token: tok}
}
