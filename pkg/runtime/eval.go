package runtime

import (
	"fmt"

	"github.com/lemonberrylabs/golox/pkg/ast"
	"github.com/lemonberrylabs/golox/pkg/token"
	"github.com/lemonberrylabs/golox/pkg/types"
)

// evaluate evaluates an expression in the current environment.
func (in *Interpreter) evaluate(expr ast.Expr) (types.Value, error) {
	switch e := expr.(type) {
	case *ast.Literal:
		return types.FromLiteral(e.Value), nil
	case *ast.Grouping:
		return in.evaluate(e.Inner)
	case *ast.Unary:
		return in.evalUnary(e)
	case *ast.Binary:
		return in.evalBinary(e)
	case *ast.Logical:
		return in.evalLogical(e)
	case *ast.Variable:
		return in.lookUpVariable(e.Name, e)
	case *ast.Assign:
		return in.evalAssign(e)
	case *ast.Call:
		return in.evalCall(e)
	case *ast.Get:
		return in.evalGet(e)
	case *ast.Set:
		return in.evalSet(e)
	case *ast.This:
		return in.lookUpVariable(e.Keyword, e)
	case *ast.Super:
		return in.evalSuper(e)
	default:
		return types.Nil, fmt.Errorf("unsupported expression type %T", expr)
	}
}

// lookUpVariable reads a resolved local at its recorded depth, or a global.
func (in *Interpreter) lookUpVariable(name token.Token, expr ast.Expr) (types.Value, error) {
	if depth, ok := in.locals[expr]; ok {
		return in.env.GetAt(depth, name.Lexeme), nil
	}
	return in.globals.Get(name)
}

func (in *Interpreter) evalAssign(e *ast.Assign) (types.Value, error) {
	value, err := in.evaluate(e.Value)
	if err != nil {
		return types.Nil, err
	}
	if depth, ok := in.locals[e]; ok {
		in.env.AssignAt(depth, e.Name, value)
		return value, nil
	}
	if err := in.globals.Assign(e.Name, value); err != nil {
		return types.Nil, err
	}
	return value, nil
}

func (in *Interpreter) evalUnary(e *ast.Unary) (types.Value, error) {
	operand, err := in.evaluate(e.Operand)
	if err != nil {
		return types.Nil, err
	}
	switch e.Op.Type {
	case token.Minus:
		if operand.Type() != types.TypeNumber {
			return types.Nil, types.NewTypeError(e.Op, "Operand must be a number.")
		}
		return types.NewNumber(-operand.AsNumber()), nil
	case token.Bang:
		return types.NewBool(!operand.Truthy()), nil
	default:
		return types.Nil, fmt.Errorf("unsupported unary operator %s", e.Op.Type)
	}
}

// evalLogical short-circuits and yields the last operand evaluated.
func (in *Interpreter) evalLogical(e *ast.Logical) (types.Value, error) {
	left, err := in.evaluate(e.Left)
	if err != nil {
		return types.Nil, err
	}
	if e.Op.Type == token.Or {
		if left.Truthy() {
			return left, nil
		}
	} else if !left.Truthy() {
		return left, nil
	}
	return in.evaluate(e.Right)
}

func (in *Interpreter) evalBinary(e *ast.Binary) (types.Value, error) {
	left, err := in.evaluate(e.Left)
	if err != nil {
		return types.Nil, err
	}
	right, err := in.evaluate(e.Right)
	if err != nil {
		return types.Nil, err
	}

	switch e.Op.Type {
	case token.Plus:
		return evalAdd(e.Op, left, right)
	case token.Minus:
		return evalArith(e.Op, left, right, func(a, b float64) float64 { return a - b })
	case token.Star:
		return evalArith(e.Op, left, right, func(a, b float64) float64 { return a * b })
	case token.Slash:
		// IEEE-754: division by zero yields an infinity or NaN.
		return evalArith(e.Op, left, right, func(a, b float64) float64 { return a / b })
	case token.Greater:
		return evalCompare(e.Op, left, right, func(a, b float64) bool { return a > b })
	case token.GreaterEqual:
		return evalCompare(e.Op, left, right, func(a, b float64) bool { return a >= b })
	case token.Less:
		return evalCompare(e.Op, left, right, func(a, b float64) bool { return a < b })
	case token.LessEqual:
		return evalCompare(e.Op, left, right, func(a, b float64) bool { return a <= b })
	case token.EqualEqual:
		return types.NewBool(left.Equal(right)), nil
	case token.BangEqual:
		return types.NewBool(!left.Equal(right)), nil
	default:
		return types.Nil, fmt.Errorf("unsupported binary operator %s", e.Op.Type)
	}
}

func evalAdd(op token.Token, left, right types.Value) (types.Value, error) {
	switch {
	case left.Type() == types.TypeNumber && right.Type() == types.TypeNumber:
		return types.NewNumber(left.AsNumber() + right.AsNumber()), nil
	case left.Type() == types.TypeString && right.Type() == types.TypeString:
		return types.NewString(left.AsString() + right.AsString()), nil
	default:
		return types.Nil, types.NewTypeError(op, "Operands must be two numbers or two strings.")
	}
}

func evalArith(op token.Token, left, right types.Value, f func(float64, float64) float64) (types.Value, error) {
	if err := checkNumberOperands(op, left, right); err != nil {
		return types.Nil, err
	}
	return types.NewNumber(f(left.AsNumber(), right.AsNumber())), nil
}

func evalCompare(op token.Token, left, right types.Value, test func(float64, float64) bool) (types.Value, error) {
	if err := checkNumberOperands(op, left, right); err != nil {
		return types.Nil, err
	}
	return types.NewBool(test(left.AsNumber(), right.AsNumber())), nil
}

func checkNumberOperands(op token.Token, left, right types.Value) error {
	if left.Type() != types.TypeNumber || right.Type() != types.TypeNumber {
		return types.NewTypeError(op, "Operands must be numbers.")
	}
	return nil
}

func (in *Interpreter) evalCall(e *ast.Call) (types.Value, error) {
	callee, err := in.evaluate(e.Callee)
	if err != nil {
		return types.Nil, err
	}

	args := make([]types.Value, 0, len(e.Args))
	for _, arg := range e.Args {
		v, err := in.evaluate(arg)
		if err != nil {
			return types.Nil, err
		}
		args = append(args, v)
	}

	fn, ok := callee.AsObject().(Callable)
	if !ok {
		return types.Nil, types.NewTypeError(e.Paren, "Can only call functions and classes.")
	}
	if len(args) != fn.Arity() {
		return types.Nil, types.NewArityError(e.Paren, fn.Arity(), len(args))
	}
	return in.call(fn, e.Paren, args)
}

func (in *Interpreter) evalGet(e *ast.Get) (types.Value, error) {
	object, err := in.evaluate(e.Object)
	if err != nil {
		return types.Nil, err
	}
	instance, ok := object.AsObject().(*Instance)
	if !ok {
		return types.Nil, types.NewTypeError(e.Name, "Only instances have properties.")
	}
	return instance.Get(e.Name)
}

func (in *Interpreter) evalSet(e *ast.Set) (types.Value, error) {
	object, err := in.evaluate(e.Object)
	if err != nil {
		return types.Nil, err
	}
	instance, ok := object.AsObject().(*Instance)
	if !ok {
		return types.Nil, types.NewTypeError(e.Name, "Only instances have fields.")
	}
	value, err := in.evaluate(e.Value)
	if err != nil {
		return types.Nil, err
	}
	instance.Set(e.Name, value)
	return value, nil
}

// evalSuper finds the superclass at the resolved depth and binds the method
// to "this", which lives one frame closer.
func (in *Interpreter) evalSuper(e *ast.Super) (types.Value, error) {
	depth, ok := in.locals[e]
	if !ok {
		return types.Nil, fmt.Errorf("unresolved 'super' at line %d", e.Keyword.Line)
	}
	superclass, _ := in.env.GetAt(depth, "super").AsObject().(*Class)
	instance, _ := in.env.GetAt(depth-1, "this").AsObject().(*Instance)
	if superclass == nil || instance == nil {
		return types.Nil, fmt.Errorf("malformed 'super' environment at line %d", e.Keyword.Line)
	}

	method := superclass.FindMethod(e.Method.Lexeme)
	if method == nil {
		return types.Nil, types.NewPropertyError(e.Method)
	}
	return types.NewObject(method.Bind(instance)), nil
}
