package evaluator

import (
	"fmt"
	"sort"
	"sync"
)

// Logger receives script output, e.g. from a host print extern.
type Logger interface {
	Log(values ...interface{})
	LogLine(values ...interface{})
}

// defaultStdoutLogger is the default logger that writes to stdout
type defaultStdoutLogger struct{}

func (l *defaultStdoutLogger) Log(values ...interface{}) {
	for i, v := range values {
		if i > 0 {
			fmt.Print(" ")
		}
		fmt.Print(v)
	}
}

func (l *defaultStdoutLogger) LogLine(values ...interface{}) {
	l.Log(values...)
	fmt.Println()
}

// DefaultLogger is the default stdout logger
var DefaultLogger Logger = &defaultStdoutLogger{}

// Environment is one node of the scope chain. Nodes are shared by every
// closure and call that references them, so each node guards its own map.
// A lock covers a single read or write on one node and is never held while
// evaluating.
type Environment struct {
	mu    sync.Mutex
	store map[string]Object
	outer *Environment

	Filename string // source name for error positions
	Logger   Logger
}

// NewEnvironment creates a root environment
func NewEnvironment() *Environment {
	return &Environment{store: make(map[string]Object), Logger: DefaultLogger}
}

// NewEnclosedEnvironment creates a child of outer, inheriting its filename
// and logger.
func NewEnclosedEnvironment(outer *Environment) *Environment {
	env := NewEnvironment()
	env.outer = outer
	env.Filename = outer.Filename
	env.Logger = outer.Logger
	return env
}

// Outer returns the parent environment, nil for a root.
func (e *Environment) Outer() *Environment {
	return e.outer
}

// Get walks the chain from e outward and returns the first binding.
func (e *Environment) Get(name string) (Object, bool) {
	for env := e; env != nil; env = env.outer {
		env.mu.Lock()
		val, ok := env.store[name]
		env.mu.Unlock()
		if ok {
			return val, true
		}
	}
	return nil, false
}

// Declare binds name in this node, overwriting any existing binding.
func (e *Environment) Declare(name string, val Object) Object {
	e.mu.Lock()
	e.store[name] = val
	e.mu.Unlock()
	return val
}

// Assign updates the nearest node that already binds name. When no node
// does, name is declared here.
func (e *Environment) Assign(name string, val Object) Object {
	for env := e; env != nil; env = env.outer {
		if env.replace(name, val) {
			return val
		}
	}
	return e.Declare(name, val)
}

// replace overwrites name if this node binds it.
func (e *Environment) replace(name string, val Object) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	if _, ok := e.store[name]; !ok {
		return false
	}
	e.store[name] = val
	return true
}

// Names returns the names bound in this node, sorted.
func (e *Environment) Names() []string {
	e.mu.Lock()
	names := make([]string, 0, len(e.store))
	for name := range e.store {
		names = append(names, name)
	}
	e.mu.Unlock()
	sort.Strings(names)
	return names
}

// AllIdentifiers returns every name visible from e, sorted. Used for
// "did you mean" hints and completion.
func (e *Environment) AllIdentifiers() []string {
	seen := make(map[string]bool)
	var result []string
	for env := e; env != nil; env = env.outer {
		for _, name := range env.Names() {
			if !seen[name] {
				seen[name] = true
				result = append(result, name)
			}
		}
	}
	sort.Strings(result)
	return result
}
