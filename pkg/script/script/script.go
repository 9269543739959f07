// Package script is the embedding API for rune.
//
// A host builds a root environment once with NewEnvironment, then runs any
// number of sources against it:
//
//	env := script.NewEnvironment(script.WithLogger(script.NewBufferedLogger()))
//	result, err := script.Run(`let x = 1 + 2; x`, env)
//
// Parse failures come back as the error. Runtime failures are values: the
// result is an *evaluator.Error, see RuntimeError.
package script

import (
	"log/slog"
	"math"

	"golang.org/x/text/unicode/norm"

	"github.com/swipelab/rune/pkg/script/ast"
	perrors "github.com/swipelab/rune/pkg/script/errors"
	"github.com/swipelab/rune/pkg/script/evaluator"
	"github.com/swipelab/rune/pkg/script/lexer"
	"github.com/swipelab/rune/pkg/script/parser"
)

type options struct {
	logger     Logger
	filename   string
	prelude    map[string]any
	externs    map[string]evaluator.ExternFunction
	noDefaults bool
}

// Option configures a root environment.
type Option func(*options)

// WithLogger routes print output to l.
func WithLogger(l Logger) Option {
	return func(o *options) { o.logger = l }
}

// WithFilename sets the source name used in error positions.
func WithFilename(name string) Option {
	return func(o *options) { o.filename = name }
}

// WithPrelude declares host values before any script runs. Supported value
// types are bool, integers, float64, string and map[string]any of those.
func WithPrelude(values map[string]any) Option {
	return func(o *options) {
		if o.prelude == nil {
			o.prelude = make(map[string]any, len(values))
		}
		for k, v := range values {
			o.prelude[k] = v
		}
	}
}

// WithExtern exposes fn to scripts as name. It replaces a default extern
// of the same name.
func WithExtern(name string, fn evaluator.ExternFunction) Option {
	return func(o *options) {
		if o.externs == nil {
			o.externs = make(map[string]evaluator.ExternFunction)
		}
		o.externs[name] = fn
	}
}

// WithoutDefaultExterns leaves out print, typeof, len, keys and time.
func WithoutDefaultExterns() Option {
	return func(o *options) { o.noDefaults = true }
}

// NewEnvironment creates a root environment holding the built-in
// constants, the externs and any prelude values. Prelude values of an
// unsupported type are skipped with a warning.
func NewEnvironment(opts ...Option) *evaluator.Environment {
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	env := evaluator.NewEnvironment()
	if o.logger != nil {
		env.Logger = o.logger
	}
	env.Filename = o.filename

	env.Declare("pi", &evaluator.Float{Value: math.Pi})
	env.Declare("true", evaluator.TRUE)
	env.Declare("false", evaluator.FALSE)

	if !o.noDefaults {
		for name, fn := range defaultExterns {
			env.Declare(name, &evaluator.Extern{Name: name, Fn: fn})
		}
	}
	for name, fn := range o.externs {
		env.Declare(name, &evaluator.Extern{Name: name, Fn: fn})
	}

	for name, value := range o.prelude {
		obj, err := ToObject(value)
		if err != nil {
			slog.Warn("skipping prelude value", "name", name, "error", err)
			continue
		}
		env.Declare(name, obj)
	}

	return env
}

// Eval runs source in a fresh root environment built from opts.
func Eval(source string, opts ...Option) (evaluator.Object, error) {
	return Run(source, NewEnvironment(opts...))
}

// Run tokenizes, parses and evaluates source in env. Bindings made by the
// script stay in env.
func Run(source string, env *evaluator.Environment) (evaluator.Object, error) {
	program, err := parse(source, env.Filename, false)
	if err != nil {
		return nil, err
	}
	return evaluator.Eval(program, env), nil
}

// Check reports whether source tokenizes and parses cleanly. Unlike Run it
// treats input the tokenizer could not read as an error.
func Check(source string) error {
	_, err := parse(source, "", true)
	return err
}

// parse normalizes source to NFC so that composed and decomposed spellings
// of the same text are the same string.
func parse(source, filename string, strict bool) (*ast.Program, error) {
	l := lexer.New(norm.NFC.String(source))
	tokens := l.Tokenize()
	if lexErr := l.Err(); lexErr != nil {
		if strict {
			return nil, lexErr.WithFile(filename)
		}
		slog.Warn("input ignored after tokenizer stopped",
			"file", filename, "line", lexErr.Line, "column", lexErr.Column, "error", lexErr.Message)
	}

	prog, err := parser.Parse(tokens)
	if err != nil {
		if se, ok := err.(*perrors.ScriptError); ok {
			return nil, se.WithFile(filename)
		}
		return nil, err
	}
	return prog, nil
}

// RuntimeError returns the structured error when result is a runtime
// error value, nil otherwise.
func RuntimeError(result evaluator.Object) *perrors.ScriptError {
	if e, ok := result.(*evaluator.Error); ok {
		return e.ToScriptError()
	}
	return nil
}
