package script

import (
	"strings"
	"time"
	"unicode/utf8"

	"github.com/swipelab/rune/pkg/script/evaluator"
)

// now is replaced in tests.
var now = time.Now

// defaultExterns are the host functions every root environment gets
// unless WithoutDefaultExterns is used.
var defaultExterns = map[string]evaluator.ExternFunction{
	"print":  externPrint,
	"typeof": externTypeof,
	"len":    externLen,
	"keys":   externKeys,
	"time":   externTime,
}

// externPrint writes the rendered arguments, space separated, through the
// environment's logger.
func externPrint(args []evaluator.Object, env *evaluator.Environment) evaluator.Object {
	if env.Logger == nil {
		return evaluator.NEVER
	}
	values := make([]any, len(args))
	for i, arg := range args {
		values[i] = arg.Inspect()
	}
	env.Logger.LogLine(values...)
	return evaluator.NEVER
}

func externTypeof(args []evaluator.Object, env *evaluator.Environment) evaluator.Object {
	if len(args) != 1 {
		return evaluator.NewArityError("typeof", len(args), "1")
	}
	return &evaluator.String{Value: strings.ToLower(string(args[0].Type()))}
}

func externLen(args []evaluator.Object, env *evaluator.Environment) evaluator.Object {
	if len(args) != 1 {
		return evaluator.NewArityError("len", len(args), "1")
	}
	switch arg := args[0].(type) {
	case *evaluator.String:
		return &evaluator.Integer{Value: int64(utf8.RuneCountInString(arg.Value))}
	case *evaluator.Dictionary:
		return &evaluator.Integer{Value: int64(len(arg.Pairs))}
	default:
		return evaluator.NewTypeError("len", "string or object", arg)
	}
}

func externKeys(args []evaluator.Object, env *evaluator.Environment) evaluator.Object {
	if len(args) != 1 {
		return evaluator.NewArityError("keys", len(args), "1")
	}
	dict, ok := args[0].(*evaluator.Dictionary)
	if !ok {
		return evaluator.NewTypeError("keys", "object", args[0])
	}
	return &evaluator.String{Value: strings.Join(dict.Keys(), ", ")}
}

func externTime(args []evaluator.Object, env *evaluator.Environment) evaluator.Object {
	if len(args) != 0 {
		return evaluator.NewArityError("time", len(args), "0")
	}
	return &evaluator.Integer{Value: now().UnixMilli()}
}
