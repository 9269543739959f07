package evaluator

import (
	"fmt"

	perrors "github.com/swipelab/rune/pkg/script/errors"
	"github.com/swipelab/rune/pkg/script/lexer"
)

func newError(format string, a ...interface{}) *Error {
	return &Error{Message: fmt.Sprintf(format, a...), Class: perrors.ClassType}
}

// newStructuredError creates a catalog error positioned at tok.
func newStructuredError(code string, tok lexer.Token, env *Environment, data map[string]any) *Error {
	perr := perrors.New(code, data)
	return &Error{
		Class:   perr.Class,
		Code:    perr.Code,
		Message: perr.Message,
		Hints:   perr.Hints,
		Line:    tok.Line,
		Column:  tok.Column,
		File:    env.Filename,
		Data:    perr.Data,
	}
}

// NewError builds an Error for host code such as externs.
func NewError(class ErrorClass, format string, a ...interface{}) *Error {
	return &Error{Class: class, Message: fmt.Sprintf(format, a...)}
}

// NewArityError reports a wrong argument count to a host function.
func NewArityError(name string, got int, want string) *Error {
	perr := perrors.New("ARITY-0002", map[string]any{"Function": name, "Got": got, "Want": want})
	return &Error{Class: perr.Class, Code: perr.Code, Message: perr.Message, Data: perr.Data}
}

// NewTypeError reports an argument of the wrong type to a host function.
func NewTypeError(name, expected string, got Object) *Error {
	perr := perrors.New("TYPE-0003", map[string]any{
		"Function": name,
		"Expected": expected,
		"Got":      typeName(got),
	})
	return &Error{Class: perr.Class, Code: perr.Code, Message: perr.Message, Data: perr.Data}
}

func isError(obj Object) bool {
	if obj != nil {
		return obj.Type() == ERROR_OBJ
	}
	return false
}

func isSignal(obj Object) bool {
	if obj != nil {
		return obj.Type() == SIGNAL_OBJ
	}
	return false
}

// halts reports whether obj must be handed back unchanged by any
// expression consuming it.
func halts(obj Object) bool {
	return isError(obj) || isSignal(obj)
}

func typeName(obj Object) string {
	return perrors.TypeName(string(obj.Type()))
}
