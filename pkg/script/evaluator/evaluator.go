// Package evaluator executes syntax trees directly.
//
// Eval maps a node and an environment to exactly one Object. Control
// transfers (break, return) ride the same channel as values, wrapped in a
// *Signal that bodies, loops and calls check after every step. Evaluation
// failures are *Error values: every expression that consumes an Error
// returns it unchanged, while statement sequences carry on past it.
package evaluator

import (
	"github.com/swipelab/rune/pkg/script/ast"
)

// Eval evaluates node in env.
func Eval(node ast.Node, env *Environment) Object {
	switch node := node.(type) {

	// Sequences
	case *ast.Program:
		return evalProgram(node, env)
	case *ast.Body:
		return evalBody(node.Statements, env)
	case *ast.Loop:
		return evalLoop(node, env)
	case *ast.IfExpr:
		return evalIfExpr(node, env)

	// Control transfer
	case *ast.Break:
		return &Signal{Kind: BreakSignal}
	case *ast.Return:
		val := Eval(node.Value, env)
		if isSignal(val) {
			return val
		}
		return &Signal{Kind: ReturnSignal, Value: val}
	case *ast.Never:
		return NEVER

	// Bindings
	case *ast.VarDecl:
		return evalVarDecl(node, env)
	case *ast.FnDecl:
		return evalFnDecl(node, env)
	case *ast.AssignExpr:
		return evalAssignExpr(node, env)
	case *ast.Identifier:
		return evalIdentifier(node, env)

	// Operators
	case *ast.BinaryExpr:
		return evalBinaryExpr(node, env)
	case *ast.UnaryExpr:
		return evalUnaryExpr(node, env)
	case *ast.EqExpr:
		return evalEquality(node.Token, node.Left, node.Right, false, env)
	case *ast.NotEqExpr:
		return evalEquality(node.Token, node.Left, node.Right, true, env)

	// Calls and members
	case *ast.CallExpr:
		return evalCallExpr(node, env)
	case *ast.MemberExpr:
		return evalMemberExpr(node, env)

	// Literals
	case *ast.NumberLiteral:
		return evalNumberLiteral(node, env)
	case *ast.StringLiteral:
		return &String{Value: node.Value}
	case *ast.ObjectLiteral:
		return evalObjectLiteral(node, env)
	}

	return newError("eval not implemented for %T", node)
}
