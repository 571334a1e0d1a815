package ast

import (
	"fmt"
	"strconv"
	"strings"
)

// Sprint renders a node as a parenthesized prefix expression, e.g.
// "(* (- 123) (group 45.67))". It is used by the ast dump command and tests.
func Sprint(node any) string {
	var sb strings.Builder
	p := printer{sb: &sb}
	switch n := node.(type) {
	case Expr:
		p.expr(n)
	case Stmt:
		p.stmt(n)
	case []Stmt:
		for i, s := range n {
			if i > 0 {
				sb.WriteByte('\n')
			}
			p.stmt(s)
		}
	default:
		fmt.Fprintf(&sb, "<unknown node %T>", node)
	}
	return sb.String()
}

type printer struct {
	sb *strings.Builder
}

func (p printer) parens(name string, parts ...any) {
	p.sb.WriteByte('(')
	p.sb.WriteString(name)
	for _, part := range parts {
		p.sb.WriteByte(' ')
		switch v := part.(type) {
		case Expr:
			p.expr(v)
		case Stmt:
			p.stmt(v)
		case string:
			p.sb.WriteString(v)
		}
	}
	p.sb.WriteByte(')')
}

func (p printer) expr(e Expr) {
	switch n := e.(type) {
	case *Literal:
		p.sb.WriteString(literalString(n.Value))
	case *Unary:
		p.parens(n.Op.Lexeme, n.Operand)
	case *Binary:
		p.parens(n.Op.Lexeme, n.Left, n.Right)
	case *Logical:
		p.parens(n.Op.Lexeme, n.Left, n.Right)
	case *Grouping:
		p.parens("group", n.Inner)
	case *Variable:
		p.sb.WriteString(n.Name.Lexeme)
	case *Assign:
		p.parens("=", n.Name.Lexeme, n.Value)
	case *Call:
		parts := []any{n.Callee}
		for _, arg := range n.Args {
			parts = append(parts, arg)
		}
		p.parens("call", parts...)
	case *Get:
		p.parens(".", n.Object, n.Name.Lexeme)
	case *Set:
		p.parens("set", n.Object, n.Name.Lexeme, n.Value)
	case *This:
		p.sb.WriteString("this")
	case *Super:
		p.parens("super", n.Method.Lexeme)
	default:
		fmt.Fprintf(p.sb, "<unknown expr %T>", e)
	}
}

func (p printer) stmt(s Stmt) {
	switch n := s.(type) {
	case *Expression:
		p.parens(";", n.Expr)
	case *Print:
		p.parens("print", n.Expr)
	case *Var:
		if n.Initializer == nil {
			p.parens("var", n.Name.Lexeme)
			return
		}
		p.parens("var", n.Name.Lexeme, n.Initializer)
	case *Block:
		parts := make([]any, len(n.Statements))
		for i, st := range n.Statements {
			parts[i] = st
		}
		p.parens("block", parts...)
	case *If:
		if n.Else == nil {
			p.parens("if", n.Condition, n.Then)
			return
		}
		p.parens("if", n.Condition, n.Then, n.Else)
	case *While:
		p.parens("while", n.Condition, n.Body)
	case *Function:
		p.function("fun", n)
	case *Return:
		if n.Value == nil {
			p.parens("return")
			return
		}
		p.parens("return", n.Value)
	case *Class:
		p.sb.WriteString("(class ")
		p.sb.WriteString(n.Name.Lexeme)
		if n.Superclass != nil {
			p.sb.WriteString(" < ")
			p.sb.WriteString(n.Superclass.Name.Lexeme)
		}
		for _, m := range n.Methods {
			p.sb.WriteByte(' ')
			p.function("method", m)
		}
		p.sb.WriteByte(')')
	default:
		fmt.Fprintf(p.sb, "<unknown stmt %T>", s)
	}
}

func (p printer) function(kind string, fn *Function) {
	params := make([]string, len(fn.Params))
	for i, param := range fn.Params {
		params[i] = param.Lexeme
	}
	parts := []any{fn.Name.Lexeme, "(" + strings.Join(params, " ") + ")"}
	for _, st := range fn.Body {
		parts = append(parts, st)
	}
	p.parens(kind, parts...)
}

func literalString(v any) string {
	switch val := v.(type) {
	case nil:
		return "nil"
	case bool:
		return strconv.FormatBool(val)
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case string:
		return val
	default:
		return fmt.Sprintf("%v", val)
	}
}
