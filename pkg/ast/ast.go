// Package ast defines the abstract syntax tree of Lox programs.
//
// Expr and Stmt are closed sets: only the types in this file implement them.
// Nodes are always used by pointer, and a node's pointer identity is the key
// under which the resolver records its scope depth.
package ast

import "github.com/lemonberrylabs/golox/pkg/token"

// Expr is the interface for all expression nodes.
type Expr interface {
	exprNode()
}

// Stmt is the interface for all statement nodes.
type Stmt interface {
	stmtNode()
}

// Expression nodes
type (
	// Literal is a number, string, boolean or nil literal.
	Literal struct {
		Value any // float64, string, bool or nil
	}

	// Unary is a prefix operator expression such as -a or !a.
	Unary struct {
		Op      token.Token
		Operand Expr
	}

	// Binary is an arithmetic, comparison or equality expression.
	Binary struct {
		Op    token.Token
		Left  Expr
		Right Expr
	}

	// Logical is a short-circuiting "and" / "or" expression.
	Logical struct {
		Op    token.Token
		Left  Expr
		Right Expr
	}

	// Grouping is a parenthesized expression.
	Grouping struct {
		Inner Expr
	}

	// Variable is a reference to a named variable.
	Variable struct {
		Name token.Token
	}

	// Assign assigns to a named variable.
	Assign struct {
		Name  token.Token
		Value Expr
	}

	// Call is a call expression. Paren is the closing parenthesis, used to
	// attribute runtime errors to the call site line.
	Call struct {
		Callee Expr
		Paren  token.Token
		Args   []Expr
	}

	// Get is a property access such as obj.name.
	Get struct {
		Object Expr
		Name   token.Token
	}

	// Set is a property assignment such as obj.name = value.
	Set struct {
		Object Expr
		Name   token.Token
		Value  Expr
	}

	// This is the "this" keyword inside a method.
	This struct {
		Keyword token.Token
	}

	// Super is a superclass method access such as super.name.
	Super struct {
		Keyword token.Token
		Method  token.Token
	}
)

func (*Literal) exprNode()  {}
func (*Unary) exprNode()    {}
func (*Binary) exprNode()   {}
func (*Logical) exprNode()  {}
func (*Grouping) exprNode() {}
func (*Variable) exprNode() {}
func (*Assign) exprNode()   {}
func (*Call) exprNode()     {}
func (*Get) exprNode()      {}
func (*Set) exprNode()      {}
func (*This) exprNode()     {}
func (*Super) exprNode()    {}

// Statement nodes
type (
	// Expression is an expression evaluated for its side effects.
	Expression struct {
		Expr Expr
	}

	// Print writes the value of an expression followed by a newline.
	Print struct {
		Expr Expr
	}

	// Var declares a variable with an optional initializer.
	Var struct {
		Name        token.Token
		Initializer Expr // nil when absent
	}

	// Block introduces a new lexical scope.
	Block struct {
		Statements []Stmt
	}

	// If is a conditional with an optional else branch.
	If struct {
		Condition Expr
		Then      Stmt
		Else      Stmt // nil when absent
	}

	// While loops while the condition is truthy. "for" loops desugar to it.
	While struct {
		Keyword   token.Token // "while", or "for" when desugared
		Condition Expr
		Body      Stmt
	}

	// Function declares a named function or a method.
	Function struct {
		Name   token.Token
		Params []token.Token
		Body   []Stmt
	}

	// Return returns from the enclosing function.
	Return struct {
		Keyword token.Token
		Value   Expr // nil when absent
	}

	// Class declares a class with an optional superclass.
	Class struct {
		Name       token.Token
		Superclass *Variable // nil when absent
		Methods    []*Function
	}
)

func (*Expression) stmtNode() {}
func (*Print) stmtNode()      {}
func (*Var) stmtNode()        {}
func (*Block) stmtNode()      {}
func (*If) stmtNode()         {}
func (*While) stmtNode()      {}
func (*Function) stmtNode()   {}
func (*Return) stmtNode()     {}
func (*Class) stmtNode()      {}
