package evaluator

import (
	"fmt"
	"math"

	"github.com/swipelab/rune/pkg/script/ast"
	"github.com/swipelab/rune/pkg/script/lexer"
)

// evalBinaryExpr evaluates left then right. Integers stay integers, floats
// stay floats and a mixed pair is promoted to float. Non-numeric operands
// give never.
func evalBinaryExpr(be *ast.BinaryExpr, env *Environment) Object {
	left := Eval(be.Left, env)
	if halts(left) {
		return left
	}
	right := Eval(be.Right, env)
	if halts(right) {
		return right
	}

	switch l := left.(type) {
	case *Integer:
		switch r := right.(type) {
		case *Integer:
			return evalIntegerInfix(be, l.Value, r.Value, env)
		case *Float:
			return evalFloatInfix(be.Operator, float64(l.Value), r.Value)
		}
	case *Float:
		switch r := right.(type) {
		case *Integer:
			return evalFloatInfix(be.Operator, l.Value, float64(r.Value))
		case *Float:
			return evalFloatInfix(be.Operator, l.Value, r.Value)
		}
	}

	return NEVER
}

func evalIntegerInfix(be *ast.BinaryExpr, l, r int64, env *Environment) Object {
	switch be.Operator {
	case "+":
		return &Integer{Value: l + r}
	case "-":
		return &Integer{Value: l - r}
	case "*":
		return &Integer{Value: l * r}
	case "/":
		if r == 0 {
			return newStructuredError("OP-0001", be.Token, env, nil)
		}
		return &Integer{Value: l / r}
	case "%":
		if r == 0 {
			return newStructuredError("OP-0001", be.Token, env, nil)
		}
		return &Integer{Value: l % r}
	default:
		panic(fmt.Sprintf("unknown operator %q", be.Operator))
	}
}

func evalFloatInfix(operator string, l, r float64) Object {
	switch operator {
	case "+":
		return &Float{Value: l + r}
	case "-":
		return &Float{Value: l - r}
	case "*":
		return &Float{Value: l * r}
	case "/":
		return &Float{Value: l / r}
	case "%":
		return &Float{Value: math.Mod(l, r)}
	default:
		panic(fmt.Sprintf("unknown operator %q", operator))
	}
}

// evalEquality compares two bools, two ints or two floats by value. Any
// other pairing, including two strings, is an error.
func evalEquality(tok lexer.Token, leftNode, rightNode ast.Expression, negate bool, env *Environment) Object {
	left := Eval(leftNode, env)
	if halts(left) {
		return left
	}
	right := Eval(rightNode, env)
	if halts(right) {
		return right
	}

	var equal, comparable bool
	switch l := left.(type) {
	case *Boolean:
		if r, ok := right.(*Boolean); ok {
			equal, comparable = l.Value == r.Value, true
		}
	case *Integer:
		if r, ok := right.(*Integer); ok {
			equal, comparable = l.Value == r.Value, true
		}
	case *Float:
		if r, ok := right.(*Float); ok {
			equal, comparable = l.Value == r.Value, true
		}
	}

	if !comparable {
		return newStructuredError("TYPE-0001", tok, env, map[string]any{
			"Left":  typeName(left),
			"Right": typeName(right),
		})
	}
	return nativeBoolToBooleanObject(equal != negate)
}

func evalUnaryExpr(ue *ast.UnaryExpr, env *Environment) Object {
	right := Eval(ue.Right, env)
	if halts(right) {
		return right
	}

	switch ue.Operator {
	case "!":
		if b, ok := right.(*Boolean); ok {
			return nativeBoolToBooleanObject(!b.Value)
		}
	case "-":
		switch r := right.(type) {
		case *Integer:
			return &Integer{Value: -r.Value}
		case *Float:
			return &Float{Value: -r.Value}
		}
	default:
		panic(fmt.Sprintf("unknown operator %q", ue.Operator))
	}

	return newStructuredError("OP-0002", ue.Token, env, map[string]any{
		"Operator": ue.Operator,
		"Type":     typeName(right),
	})
}
