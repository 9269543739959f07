package evaluator

import (
	"log/slog"

	"github.com/swipelab/rune/pkg/script/ast"
)

// evalCallExpr evaluates the arguments left to right, then the callee.
func evalCallExpr(ce *ast.CallExpr, env *Environment) Object {
	args := make([]Object, 0, len(ce.Arguments))
	for _, arg := range ce.Arguments {
		val := Eval(arg, env)
		if halts(val) {
			return val
		}
		args = append(args, val)
	}

	callee := Eval(ce.Callee, env)
	if halts(callee) {
		return callee
	}

	return applyFunction(ce, callee, args, env)
}

// applyFunction calls fn. Externs see the caller's environment; functions
// run in a fresh child of the environment they were declared in.
func applyFunction(ce *ast.CallExpr, fn Object, args []Object, env *Environment) Object {
	switch fn := fn.(type) {
	case *Extern:
		slog.Debug("Extern call",
			slog.String("function", fn.Name),
			slog.Int("argument-count", len(args)))
		result := fn.Fn(args, env)
		if result == nil {
			return NEVER
		}
		// host errors are built without a position; use the call site
		if e, ok := result.(*Error); ok && e.Line == 0 {
			tok := ast.Start(ce.Callee)
			e.Line, e.Column = tok.Line, tok.Column
			if e.File == "" {
				e.File = env.Filename
			}
		}
		return result

	case *Function:
		if len(args) < len(fn.Params) {
			return newStructuredError("ARITY-0001", ast.Start(ce.Callee), env, map[string]any{
				"Function": fn.Name,
				"Want":     len(fn.Params),
				"Got":      len(args),
			})
		}

		slog.Debug("Function call",
			slog.String("function", fn.Name),
			slog.Int("argument-count", len(args)))

		callEnv := NewEnclosedEnvironment(fn.Env)
		for i, param := range fn.Params {
			callEnv.Declare(param.Value, args[i])
		}

		return unwrapCallResult(evalBody(fn.Body.Statements, callEnv))

	default:
		return newStructuredError("TYPE-0004", ast.Start(ce.Callee), env,
			map[string]any{"Got": typeName(fn)})
	}
}

// unwrapCallResult resolves signals at the call boundary: a return yields
// its value and a break that escaped every loop is dropped.
func unwrapCallResult(obj Object) Object {
	if sig, ok := obj.(*Signal); ok {
		if sig.Kind == ReturnSignal {
			return sig.Value
		}
		return NEVER
	}
	return obj
}
