// Package errors provides the structured error type shared by the rune
// tokenizer, parser and evaluator.
//
// A ScriptError carries a class, a catalog code, a rendered message and
// optional hints, plus the source position when one is known.
package errors

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"text/template"
)

// ErrorClass categorizes errors for filtering and display.
type ErrorClass string

const (
	ClassLex       ErrorClass = "lex"       // Unrecognised input
	ClassParse     ErrorClass = "parse"     // Syntax errors
	ClassType      ErrorClass = "type"      // Type mismatches
	ClassArity     ErrorClass = "arity"     // Wrong argument count
	ClassUndefined ErrorClass = "undefined" // Not found/defined
	ClassOperator  ErrorClass = "operator"  // Invalid operations
	ClassState     ErrorClass = "state"     // Invalid control flow
)

// ScriptError represents any error from tokenizing, parsing or evaluation.
type ScriptError struct {
	Class   ErrorClass     `json:"class"`
	Code    string         `json:"code"`
	Message string         `json:"message"`
	Hints   []string       `json:"hints,omitempty"`
	Line    int            `json:"line"`   // 1-based, 0 if unknown
	Column  int            `json:"column"` // 1-based, 0 if unknown
	File    string         `json:"file,omitempty"`
	Data    map[string]any `json:"data,omitempty"`
}

// Error implements the error interface.
func (e *ScriptError) Error() string {
	return e.String()
}

// String returns a single-line location prefix, the message and any hints.
func (e *ScriptError) String() string {
	var sb strings.Builder

	if e.File != "" {
		sb.WriteString(e.File)
		sb.WriteString(": ")
	}
	if e.Line > 0 {
		sb.WriteString(fmt.Sprintf("line %d, column %d: ", e.Line, e.Column))
	}

	sb.WriteString(e.Message)

	for _, hint := range e.Hints {
		sb.WriteString("\n  ")
		sb.WriteString(hint)
	}

	return sb.String()
}

// PrettyString returns a multi-line form for terminal display.
func (e *ScriptError) PrettyString() string {
	var sb strings.Builder

	switch e.Class {
	case ClassParse:
		sb.WriteString("Parser error")
	case ClassLex:
		sb.WriteString("Lexer error")
	default:
		sb.WriteString("Runtime error")
	}

	if e.File != "" {
		sb.WriteString(":\n  in: ")
		sb.WriteString(e.File)
		if e.Line > 0 {
			sb.WriteString(fmt.Sprintf("\n  at: line %d, column %d", e.Line, e.Column))
		}
		sb.WriteString("\n  ")
	} else if e.Line > 0 {
		sb.WriteString(fmt.Sprintf(": line %d, column %d\n  ", e.Line, e.Column))
	} else {
		sb.WriteString(":\n  ")
	}

	sb.WriteString(e.Message)

	for _, hint := range e.Hints {
		sb.WriteString("\n  ")
		sb.WriteString(hint)
	}

	return sb.String()
}

// ToJSON returns the error as JSON bytes.
func (e *ScriptError) ToJSON() ([]byte, error) {
	return json.Marshal(e)
}

// WithFile returns a copy of the error with the file path set.
func (e *ScriptError) WithFile(file string) *ScriptError {
	c := *e
	c.File = file
	return &c
}

// WithPosition returns a copy of the error with line and column set.
func (e *ScriptError) WithPosition(line, column int) *ScriptError {
	c := *e
	c.Line = line
	c.Column = column
	return &c
}

// IsParseError reports whether the error was raised before evaluation.
func (e *ScriptError) IsParseError() bool {
	return e.Class == ClassParse || e.Class == ClassLex
}

// ErrorDef defines an error in the catalog.
type ErrorDef struct {
	Class    ErrorClass
	Template string   // Message template with {{.placeholders}}
	Hints    []string // Hint templates
}

// ErrorCatalog maps error codes to their definitions.
var ErrorCatalog = map[string]ErrorDef{
	// Tokenizer
	"LEX-0001": {
		Class:    ClassLex,
		Template: "unexpected character '{{.Char}}'",
		Hints:    []string{"input after this point was ignored"},
	},
	"LEX-0002": {
		Class:    ClassLex,
		Template: "unterminated string",
	},

	// Parser
	"PARSE-0001": {
		Class:    ClassParse,
		Template: "expected {{.Expected}}, found {{.Got}}",
	},
	"PARSE-0002": {
		Class:    ClassParse,
		Template: "unexpected {{.Got}}",
	},
	"PARSE-0003": {
		Class:    ClassParse,
		Template: "function parameters must be identifiers, found {{.Got}}",
		Hints:    []string{"fn {{.Function}}(a, b) { ... }"},
	},
	"PARSE-0004": {
		Class:    ClassParse,
		Template: "expected property name, found {{.Got}}",
		Hints:    []string{"{ name: value, other }"},
	},

	// Types
	"TYPE-0001": {
		Class:    ClassType,
		Template: "not the same types",
		Hints:    []string{"cannot compare {{.Left}} with {{.Right}}"},
	},
	"TYPE-0002": {
		Class:    ClassType,
		Template: "invalid condition",
		Hints:    []string{"condition must be a bool, got {{.Got}}"},
	},
	"TYPE-0003": {
		Class:    ClassType,
		Template: "{{.Function}} expected {{.Expected}}, got {{.Got}}",
	},
	"TYPE-0004": {
		Class:    ClassType,
		Template: "not a function: {{.Got}}",
	},
	"TYPE-0005": {
		Class:    ClassType,
		Template: "cannot access member of {{.Got}}",
	},
	"TYPE-0006": {
		Class:    ClassType,
		Template: "member key must be a string, got {{.Got}}",
	},

	// Arity
	"ARITY-0001": {
		Class:    ClassArity,
		Template: "invalid args",
		Hints:    []string{"`{{.Function}}` takes {{.Want}} argument(s), got {{.Got}}"},
	},
	"ARITY-0002": {
		Class:    ClassArity,
		Template: "wrong number of arguments to `{{.Function}}`. got={{.Got}}, want={{.Want}}",
	},

	// Undefined
	"UNDEF-0001": {
		Class:    ClassUndefined,
		Template: "undefined '{{.Name}}'",
	},
	"UNDEF-0002": {
		Class:    ClassUndefined,
		Template: "property '{{.Name}}' not found",
	},

	// Operators
	"OP-0001": {
		Class:    ClassOperator,
		Template: "division by zero",
	},
	"OP-0002": {
		Class:    ClassOperator,
		Template: "unknown operator: {{.Operator}}{{.Type}}",
	},
	"OP-0003": {
		Class:    ClassOperator,
		Template: "number out of range: {{.Literal}}",
	},

	// Control flow and binding
	"STATE-0001": {
		Class:    ClassState,
		Template: "break outside of loop",
	},
	"STATE-0002": {
		Class:    ClassState,
		Template: "cannot assign to {{.Target}}",
		Hints:    []string{"only names can be assigned"},
	},
}

// New creates a ScriptError from the catalog.
// An unknown code produces a generic error whose message is data["message"].
func New(code string, data map[string]any) *ScriptError {
	def, ok := ErrorCatalog[code]
	if !ok {
		msg := code
		if data != nil {
			if m, ok := data["message"].(string); ok {
				msg = m
			}
		}
		return &ScriptError{
			Class:   ClassType,
			Code:    code,
			Message: msg,
			Data:    data,
		}
	}

	msg := renderTemplate(def.Template, data)

	var hints []string
	for _, hintTmpl := range def.Hints {
		if rendered := renderTemplate(hintTmpl, data); rendered != "" {
			hints = append(hints, rendered)
		}
	}

	return &ScriptError{
		Class:   def.Class,
		Code:    code,
		Message: msg,
		Hints:   hints,
		Data:    data,
	}
}

// NewWithPosition creates a catalog error with position information.
func NewWithPosition(code string, line, column int, data map[string]any) *ScriptError {
	err := New(code, data)
	err.Line = line
	err.Column = column
	return err
}

// renderTemplate renders a template with the given data, falling back to
// the raw template text when data is missing or rendering fails.
func renderTemplate(tmplStr string, data map[string]any) string {
	if data == nil {
		return tmplStr
	}

	tmpl, err := template.New("").Option("missingkey=zero").Parse(tmplStr)
	if err != nil {
		return tmplStr
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return tmplStr
	}

	return strings.ReplaceAll(buf.String(), "<no value>", "")
}

// TypeName returns a lowercase type name for error messages.
func TypeName(t string) string {
	return strings.ToLower(t)
}

// ============================================================================
// Fuzzy Matching - "Did you mean?" suggestions
// ============================================================================

// levenshteinDistance computes the edit distance between two strings.
func levenshteinDistance(a, b string) int {
	if len(a) == 0 {
		return len(b)
	}
	if len(b) == 0 {
		return len(a)
	}

	prev := make([]int, len(b)+1)
	curr := make([]int, len(b)+1)
	for j := range prev {
		prev[j] = j
	}

	for i := 1; i <= len(a); i++ {
		curr[0] = i
		for j := 1; j <= len(b); j++ {
			cost := 0
			if a[i-1] != b[j-1] {
				cost = 1
			}
			curr[j] = min(prev[j]+1, curr[j-1]+1, prev[j-1]+cost)
		}
		prev, curr = curr, prev
	}

	return prev[len(b)]
}

// threshold is the largest edit distance still worth suggesting for input.
func threshold(input string) int {
	switch {
	case len(input) >= 7:
		return 3
	case len(input) >= 4:
		return 2
	default:
		return 1
	}
}

// FindClosestMatch returns the candidate nearest to input, or "" when none
// is close enough. Exact matches are never suggested.
func FindClosestMatch(input string, candidates []string) string {
	matches := FindTopMatches(input, candidates, 1)
	if len(matches) == 0 {
		return ""
	}
	return matches[0]
}

// FindTopMatches returns up to n candidates within the edit threshold,
// nearest first. Ties keep candidate order.
func FindTopMatches(input string, candidates []string, n int) []string {
	if len(input) == 0 || len(candidates) == 0 || n <= 0 {
		return nil
	}

	type match struct {
		value    string
		distance int
	}

	inputLower := strings.ToLower(input)
	limit := threshold(input)

	var matches []match
	for _, candidate := range candidates {
		dist := levenshteinDistance(inputLower, strings.ToLower(candidate))
		if dist > 0 && dist <= limit {
			matches = append(matches, match{candidate, dist})
		}
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].distance < matches[j].distance
	})

	var result []string
	for i := 0; i < len(matches) && i < n; i++ {
		result = append(result, matches[i].value)
	}
	return result
}

// NewUndefinedIdentifier creates an undefined identifier error with a
// "did you mean" hint when a visible name is close.
func NewUndefinedIdentifier(name string, available []string) *ScriptError {
	err := New("UNDEF-0001", map[string]any{"Name": name})
	if suggestion := FindClosestMatch(name, available); suggestion != "" {
		err.Hints = append(err.Hints, "did you mean `"+suggestion+"`?")
	}
	return err
}

// Keywords lists the reserved words, used for typo suggestions.
var Keywords = []string{
	"let", "const", "fn", "if", "else", "loop", "break", "return",
}
