package evaluator

import (
	"github.com/swipelab/rune/pkg/script/ast"
)

// evalProgram runs top-level statements and resolves any signal that
// reaches the top: a return ends the program with its value, a break has
// no loop to leave. Errors do not stop later statements.
func evalProgram(program *ast.Program, env *Environment) Object {
	var result Object = NEVER

	for _, stmt := range program.Statements {
		result = Eval(stmt, env)

		if sig, ok := result.(*Signal); ok {
			if sig.Kind == ReturnSignal {
				return sig.Value
			}
			return newStructuredError("STATE-0001", ast.Start(stmt), env, nil)
		}
	}

	return result
}

// evalBody runs statements in order, stopping at the first signal.
func evalBody(statements []ast.Expression, env *Environment) Object {
	var result Object = NEVER

	for _, stmt := range statements {
		val := Eval(stmt, env)
		if isSignal(val) {
			return val
		}
		result = val
	}

	return result
}

// evalLoop repeats the body until a signal. A break yields the value of
// the last statement completed before it, across iterations; a return is
// passed outward to the enclosing call.
func evalLoop(loop *ast.Loop, env *Environment) Object {
	var result Object = NEVER

	for {
		for _, stmt := range loop.Body.Statements {
			val := Eval(stmt, env)
			if sig, ok := val.(*Signal); ok {
				if sig.Kind == BreakSignal {
					return result
				}
				return sig
			}
			result = val
		}
	}
}

func evalIfExpr(ie *ast.IfExpr, env *Environment) Object {
	condition := Eval(ie.Condition, env)
	if halts(condition) {
		return condition
	}

	b, ok := condition.(*Boolean)
	if !ok {
		return newStructuredError("TYPE-0002", ast.Start(ie.Condition), env,
			map[string]any{"Got": typeName(condition)})
	}

	if b.Value {
		return Eval(ie.Then, env)
	}
	if ie.Else != nil {
		return Eval(ie.Else, env)
	}
	return NEVER
}
