package evaluator

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/swipelab/rune/pkg/script/ast"
	perrors "github.com/swipelab/rune/pkg/script/errors"
)

// ObjectType represents the type of runtime values
type ObjectType string

const (
	NEVER_OBJ      = "NEVER"
	BOOLEAN_OBJ    = "BOOL"
	INTEGER_OBJ    = "INT"
	FLOAT_OBJ      = "FLOAT"
	STRING_OBJ     = "STRING"
	DICTIONARY_OBJ = "OBJECT"
	ERROR_OBJ      = "ERROR"
	EXTERN_OBJ     = "EXTERN"
	FUNCTION_OBJ   = "FN"
	SIGNAL_OBJ     = "SIGNAL"
)

// Object represents all values in the language
type Object interface {
	Type() ObjectType
	Inspect() string
}

// Never is the absence of a value, e.g. an if without a taken branch.
type Never struct{}

func (n *Never) Type() ObjectType { return NEVER_OBJ }
func (n *Never) Inspect() string  { return "never" }

// Boolean represents boolean objects
type Boolean struct {
	Value bool
}

func (b *Boolean) Type() ObjectType { return BOOLEAN_OBJ }
func (b *Boolean) Inspect() string  { return strconv.FormatBool(b.Value) }

var (
	NEVER = &Never{}
	TRUE  = &Boolean{Value: true}
	FALSE = &Boolean{Value: false}
)

func nativeBoolToBooleanObject(input bool) *Boolean {
	if input {
		return TRUE
	}
	return FALSE
}

// Integer represents 64-bit signed integers
type Integer struct {
	Value int64
}

func (i *Integer) Type() ObjectType { return INTEGER_OBJ }
func (i *Integer) Inspect() string  { return strconv.FormatInt(i.Value, 10) }

// Float represents 64-bit floats. Integral values keep a trailing ".0" so
// they stay distinguishable from integers.
type Float struct {
	Value float64
}

func (f *Float) Type() ObjectType { return FLOAT_OBJ }
func (f *Float) Inspect() string {
	s := strconv.FormatFloat(f.Value, 'g', -1, 64)
	if strings.ContainsAny(s, ".eIN") {
		return s
	}
	return s + ".0"
}

// String represents string objects
type String struct {
	Value string
}

func (s *String) Type() ObjectType { return STRING_OBJ }
func (s *String) Inspect() string  { return s.Value }

// Dictionary is the runtime object value: a mapping from name to value.
type Dictionary struct {
	Pairs map[string]Object
}

func (d *Dictionary) Type() ObjectType { return DICTIONARY_OBJ }

// Inspect renders the pairs with sorted keys; strings are quoted.
func (d *Dictionary) Inspect() string {
	if len(d.Pairs) == 0 {
		return "{}"
	}
	keys := d.Keys()
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		v := d.Pairs[k]
		if s, ok := v.(*String); ok {
			parts = append(parts, k+": "+strconv.Quote(s.Value))
			continue
		}
		parts = append(parts, k+": "+v.Inspect())
	}
	return "{" + strings.Join(parts, ", ") + "}"
}

// Keys returns the property names in sorted order.
func (d *Dictionary) Keys() []string {
	keys := make([]string, 0, len(d.Pairs))
	for k := range d.Pairs {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// ErrorClass categorizes errors for filtering and templating.
type ErrorClass = perrors.ErrorClass

// Error is an evaluation failure. It travels through the ordinary value
// channel and is the result of every expression that consumes it.
type Error struct {
	Message string
	Line    int
	Column  int
	Class   ErrorClass
	Code    string
	Hints   []string
	File    string
	Data    map[string]any
}

func (e *Error) Type() ObjectType { return ERROR_OBJ }
func (e *Error) Inspect() string  { return e.Message }

// ToScriptError converts this Error for structured display.
func (e *Error) ToScriptError() *perrors.ScriptError {
	class := e.Class
	if class == "" {
		class = perrors.ClassType
	}
	return &perrors.ScriptError{
		Class:   class,
		Code:    e.Code,
		Message: e.Message,
		Hints:   e.Hints,
		Line:    e.Line,
		Column:  e.Column,
		File:    e.File,
		Data:    e.Data,
	}
}

// ExternFunction is the calling convention for host callbacks: evaluated
// arguments and the caller's environment in, a value out.
type ExternFunction func(args []Object, env *Environment) Object

// Extern is a host-supplied native function.
type Extern struct {
	Name string
	Fn   ExternFunction
}

func (x *Extern) Type() ObjectType { return EXTERN_OBJ }
func (x *Extern) Inspect() string  { return "extern " + x.Name }

// Function is a declared function and the environment it closes over.
type Function struct {
	Name   string
	Params []*ast.Identifier
	Body   *ast.Body
	Env    *Environment
}

func (f *Function) Type() ObjectType { return FUNCTION_OBJ }
func (f *Function) Inspect() string  { return f.Name }

// SignalKind distinguishes the control transfers carried by a Signal.
type SignalKind int

const (
	BreakSignal SignalKind = iota
	ReturnSignal
)

// Signal unwinds a body, loop or call. It is resolved by the nearest loop
// (break) or call boundary (return) and never bound to a name.
type Signal struct {
	Kind  SignalKind
	Value Object // payload of a return
}

func (s *Signal) Type() ObjectType { return SIGNAL_OBJ }
func (s *Signal) Inspect() string {
	if s.Kind == BreakSignal {
		return "signal(break)"
	}
	return fmt.Sprintf("signal(return %s)", s.Value.Inspect())
}
