package repl

import (
	"bytes"
	"reflect"
	"strings"
	"testing"

	"github.com/swipelab/rune/pkg/script/evaluator"
	"github.com/swipelab/rune/pkg/script/script"
)

func newTestSession(out *bytes.Buffer) *session {
	return newSession(out, Options{
		NewEnvironment: func() *evaluator.Environment {
			return script.NewEnvironment(script.WithLogger(script.WriterLogger(out)))
		},
	})
}

func TestNeedsMoreInput(t *testing.T) {
	tests := []struct {
		input    string
		expected bool
	}{
		{"", false},
		{"1 + 2", false},
		{"fn f() {", true},
		{"fn f() {\n  1\n}", false},
		{"f(1,", true},
		{"o[\"a\"", true},
		{`let s = "{"`, false},
		{`let s = "\"{"`, false},
		{"loop { // }", true},
		{"// {\n1", false},
		{"}", false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := needsMoreInput(tt.input); got != tt.expected {
				t.Errorf("needsMoreInput(%q) = %v, want %v", tt.input, got, tt.expected)
			}
		})
	}
}

func TestFeedEvaluates(t *testing.T) {
	var out bytes.Buffer
	s := newTestSession(&out)

	s.feed("let x = 2;")
	s.feed("x * 21")

	if got := out.String(); got != "2\n42\n" {
		t.Errorf("output = %q", got)
	}
}

func TestFeedMultiLine(t *testing.T) {
	var out bytes.Buffer
	s := newTestSession(&out)

	if complete, _ := s.feed("fn add(a, b) {"); complete != "" {
		t.Fatalf("expected pending input, got %q", complete)
	}
	if s.prompt() != ContinuationPrompt {
		t.Errorf("prompt = %q, want continuation", s.prompt())
	}
	s.feed("  return a + b")
	complete, _ := s.feed("}")
	if complete != "fn add(a, b) {\n  return a + b\n}" {
		t.Errorf("complete = %q", complete)
	}
	if s.prompt() != DefaultPrompt {
		t.Errorf("prompt = %q, want default", s.prompt())
	}

	out.Reset()
	s.feed("add(1, 2)")
	if got := out.String(); got != "3\n" {
		t.Errorf("output = %q", got)
	}
}

func TestFeedErrors(t *testing.T) {
	var out bytes.Buffer
	s := newTestSession(&out)

	s.feed("let = 1")
	if !strings.HasPrefix(out.String(), "Parser error") {
		t.Errorf("expected parser error, got %q", out.String())
	}

	out.Reset()
	s.feed("missing + 1")
	if !strings.HasPrefix(out.String(), "Runtime error") {
		t.Errorf("expected runtime error, got %q", out.String())
	}
	if !strings.Contains(out.String(), "undefined 'missing'") {
		t.Errorf("expected undefined message, got %q", out.String())
	}
}

func TestFeedQuit(t *testing.T) {
	for _, word := range []string{"exit", "quit", "  quit  "} {
		var out bytes.Buffer
		s := newTestSession(&out)
		if _, quit := s.feed(word); !quit {
			t.Errorf("feed(%q) should quit", word)
		}
	}

	// Inside a pending block, exit is just input.
	var out bytes.Buffer
	s := newTestSession(&out)
	s.feed("loop {")
	if _, quit := s.feed("exit"); quit {
		t.Error("exit inside a block should not quit")
	}
}

func TestAbortClearsPending(t *testing.T) {
	var out bytes.Buffer
	s := newTestSession(&out)
	s.feed("fn f() {")
	s.abort()
	if out.String() != "^C (cleared)\n" {
		t.Errorf("output = %q", out.String())
	}
	if s.prompt() != DefaultPrompt {
		t.Errorf("prompt should reset after abort")
	}
}

func TestCommands(t *testing.T) {
	var out bytes.Buffer
	s := newTestSession(&out)

	s.feed(":env")
	if out.String() != "(no user variables)\n" {
		t.Errorf(":env on empty session = %q", out.String())
	}

	s.feed(`let name = "rune";`)
	s.feed("let n = 3;")
	out.Reset()
	s.feed(":env")
	want := "  n: int = 3\n  name: string = rune\n"
	if out.String() != want {
		t.Errorf(":env = %q, want %q", out.String(), want)
	}

	out.Reset()
	s.feed(":clear")
	s.feed(":env")
	if out.String() != "Environment cleared\n(no user variables)\n" {
		t.Errorf("after :clear = %q", out.String())
	}

	out.Reset()
	s.feed(":bogus")
	if !strings.HasPrefix(out.String(), "Unknown command: :bogus") {
		t.Errorf("unknown command output = %q", out.String())
	}

	out.Reset()
	s.feed(":help")
	if !strings.Contains(out.String(), ":clear") {
		t.Errorf("help should list :clear, got %q", out.String())
	}
}

func TestEnvTruncatesOnRuneBoundary(t *testing.T) {
	var out bytes.Buffer
	s := newTestSession(&out)
	s.feed(`let s = "` + strings.Repeat("é", 70) + `";`)

	out.Reset()
	s.feed(":env")
	want := "  s: string = " + strings.Repeat("é", 57) + "...\n"
	if out.String() != want {
		t.Errorf(":env = %q, want %q", out.String(), want)
	}
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"short", "short"},
		{strings.Repeat("a", 10), strings.Repeat("a", 10)},
		{strings.Repeat("a", 11), strings.Repeat("a", 7) + "..."},
		{strings.Repeat("日", 11), strings.Repeat("日", 7) + "..."},
	}
	for _, tt := range tests {
		if got := truncate(tt.input, 10); got != tt.expected {
			t.Errorf("truncate(%q) = %q, want %q", tt.input, got, tt.expected)
		}
	}
}

func TestPrintGoesToOutput(t *testing.T) {
	var out bytes.Buffer
	s := newTestSession(&out)
	s.feed(`print("hello", 1)`)
	if out.String() != "hello 1\n" {
		t.Errorf("output = %q", out.String())
	}
}

func TestComplete(t *testing.T) {
	var out bytes.Buffer
	s := newTestSession(&out)
	s.feed("let counter = 1;")

	tests := []struct {
		line     string
		expected []string
	}{
		{"", nil},
		{"let ", nil},
		{"lo", []string{"loop"}},
		{"let y = co", []string{"let y = const", "let y = counter"}},
		{"print(ty", []string{"print(typeof"}},
		{"1 + ", nil},
	}

	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			got := s.complete(tt.line)
			if !reflect.DeepEqual(got, tt.expected) {
				t.Errorf("complete(%q) = %q, want %q", tt.line, got, tt.expected)
			}
		})
	}
}
