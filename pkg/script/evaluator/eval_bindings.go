package evaluator

import (
	"github.com/swipelab/rune/pkg/script/ast"
	perrors "github.com/swipelab/rune/pkg/script/errors"
)

// evalVarDecl binds the value in the current environment. The const flag
// is recorded on the tree only.
func evalVarDecl(decl *ast.VarDecl, env *Environment) Object {
	val := Eval(decl.Value, env)
	if halts(val) {
		return val
	}
	return env.Declare(decl.Name.Value, val)
}

// evalFnDecl binds a function that closes over the declaring environment,
// which also makes the name visible to its own body.
func evalFnDecl(decl *ast.FnDecl, env *Environment) Object {
	fn := &Function{
		Name:   decl.Name.Value,
		Params: decl.Params,
		Body:   decl.Body,
		Env:    env,
	}
	return env.Declare(fn.Name, fn)
}

// evalAssignExpr updates the nearest existing binding, or declares one in
// the current environment.
func evalAssignExpr(ae *ast.AssignExpr, env *Environment) Object {
	ident, ok := ae.Target.(*ast.Identifier)
	if !ok {
		return newStructuredError("STATE-0002", ae.Token, env,
			map[string]any{"Target": ae.Target.String()})
	}

	val := Eval(ae.Value, env)
	if halts(val) {
		return val
	}
	return env.Assign(ident.Value, val)
}

func evalIdentifier(node *ast.Identifier, env *Environment) Object {
	if val, ok := env.Get(node.Value); ok {
		return val
	}
	return undefinedError(node, env)
}

func undefinedError(node *ast.Identifier, env *Environment) *Error {
	perr := perrors.NewUndefinedIdentifier(node.Value, env.AllIdentifiers())
	return &Error{
		Class:   perr.Class,
		Code:    perr.Code,
		Message: perr.Message,
		Hints:   perr.Hints,
		Line:    node.Token.Line,
		Column:  node.Token.Column,
		File:    env.Filename,
		Data:    perr.Data,
	}
}
