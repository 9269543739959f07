// Package repl is the interactive shell for rune.
package repl

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/peterh/liner"

	perrors "github.com/swipelab/rune/pkg/script/errors"
	"github.com/swipelab/rune/pkg/script/evaluator"
	"github.com/swipelab/rune/pkg/script/script"
)

const (
	DefaultPrompt      = ">> "
	ContinuationPrompt = ".. "
)

const logo = `
█▀█ █░█ █▄░█ █▀▀
█▀▄ █▄█ █░▀█ ██▄ `

// Options configures a REPL session.
type Options struct {
	Version    string
	Prompt     string
	HideBanner bool
	// HistoryFile defaults to .rune_history in the temp dir. "-" disables it.
	HistoryFile string
	// NewEnvironment builds the root environment. It is called again by
	// :clear.
	NewEnvironment func() *evaluator.Environment
}

// Start runs the REPL until Ctrl+D, exit or quit. Line editing reads the
// terminal directly; out receives results and messages.
func Start(out io.Writer, opts Options) {
	line := liner.NewLiner()
	defer line.Close()

	line.SetCtrlCAborts(true)

	s := newSession(out, opts)
	line.SetCompleter(s.complete)

	historyFile := opts.HistoryFile
	if historyFile == "" {
		historyFile = filepath.Join(os.TempDir(), ".rune_history")
	}
	if historyFile != "-" {
		if f, err := os.Open(historyFile); err == nil {
			line.ReadHistory(f)
			f.Close()
		}
		defer func() {
			if f, err := os.Create(historyFile); err == nil {
				line.WriteHistory(f)
				f.Close()
			}
		}()
	}

	s.banner()

	for {
		input, err := line.Prompt(s.prompt())
		if err != nil {
			if errors.Is(err, liner.ErrPromptAborted) {
				s.abort()
				continue
			}
			if errors.Is(err, io.EOF) {
				fmt.Fprintln(out, "\nGoodbye!")
				return
			}
			fmt.Fprintf(out, "Error reading input: %v\n", err)
			continue
		}

		complete, quit := s.feed(input)
		if quit {
			return
		}
		if complete != "" {
			line.AppendHistory(complete)
		}
	}
}

// session holds everything except the line editor, so it can be driven
// without a terminal.
type session struct {
	out     io.Writer
	opts    Options
	root    *evaluator.Environment
	env     *evaluator.Environment
	pending strings.Builder
}

func newSession(out io.Writer, opts Options) *session {
	if opts.Prompt == "" {
		opts.Prompt = DefaultPrompt
	}
	if opts.NewEnvironment == nil {
		opts.NewEnvironment = func() *evaluator.Environment { return script.NewEnvironment() }
	}
	s := &session{out: out, opts: opts}
	s.reset()
	return s
}

// reset starts over with a fresh root. User bindings live in a child of
// the root so :env can list only them.
func (s *session) reset() {
	s.root = s.opts.NewEnvironment()
	s.env = evaluator.NewEnclosedEnvironment(s.root)
}

func (s *session) banner() {
	if s.opts.HideBanner {
		return
	}
	fmt.Fprintln(s.out, logo)
	if s.opts.Version != "" {
		fmt.Fprintln(s.out, "v", s.opts.Version)
	}
	fmt.Fprintln(s.out, "")
	fmt.Fprintln(s.out, "Type 'exit' or Ctrl+D to quit")
	fmt.Fprintln(s.out, "Use Tab for completion, ↑↓ for history")
	fmt.Fprintln(s.out, "Type ':help' for REPL commands")
	fmt.Fprintln(s.out, "")
}

func (s *session) prompt() string {
	if s.pending.Len() > 0 {
		return ContinuationPrompt
	}
	return s.opts.Prompt
}

// abort handles Ctrl+C.
func (s *session) abort() {
	if s.pending.Len() > 0 {
		fmt.Fprintln(s.out, "^C (cleared)")
	} else {
		fmt.Fprintln(s.out, "^C")
	}
	s.pending.Reset()
}

// feed takes one line of input. It returns the full source once a
// complete input has been evaluated, and quit when the user asked to leave.
func (s *session) feed(input string) (complete string, quit bool) {
	trimmed := strings.TrimSpace(input)

	if s.pending.Len() == 0 {
		switch {
		case trimmed == "":
			return "", false
		case trimmed == "exit" || trimmed == "quit":
			fmt.Fprintln(s.out, "Goodbye!")
			return "", true
		case strings.HasPrefix(trimmed, ":"):
			s.command(trimmed)
			return "", false
		}
	}

	if s.pending.Len() > 0 {
		s.pending.WriteString("\n")
	}
	s.pending.WriteString(input)

	source := s.pending.String()
	if needsMoreInput(source) {
		return "", false
	}
	s.pending.Reset()

	s.eval(source)
	return source, false
}

func (s *session) eval(source string) {
	result, err := script.Run(source, s.env)
	if err != nil {
		var se *perrors.ScriptError
		if errors.As(err, &se) {
			io.WriteString(s.out, se.PrettyString())
			io.WriteString(s.out, "\n")
			return
		}
		fmt.Fprintf(s.out, "Error: %v\n", err)
		return
	}

	if se := script.RuntimeError(result); se != nil {
		io.WriteString(s.out, se.PrettyString())
		io.WriteString(s.out, "\n")
		return
	}
	if result == nil || result == evaluator.NEVER {
		return
	}
	io.WriteString(s.out, result.Inspect())
	io.WriteString(s.out, "\n")
}

// command handles meta-commands that start with ':'.
func (s *session) command(cmd string) {
	switch cmd {
	case ":help", ":h", ":?":
		fmt.Fprintln(s.out, "REPL Commands:")
		fmt.Fprintln(s.out, "  :help, :h, :?   Show this help")
		fmt.Fprintln(s.out, "  :env            Show variables in scope")
		fmt.Fprintln(s.out, "  :clear          Clear all user variables")
		fmt.Fprintln(s.out, "  exit, quit      Exit the REPL")

	case ":env":
		s.printEnvironment()

	case ":clear":
		s.reset()
		fmt.Fprintln(s.out, "Environment cleared")

	default:
		fmt.Fprintf(s.out, "Unknown command: %s (type :help for commands)\n", cmd)
	}
}

// printEnvironment lists the user's bindings, not the host's.
func (s *session) printEnvironment() {
	names := s.env.Names()
	if len(names) == 0 {
		fmt.Fprintln(s.out, "(no user variables)")
		return
	}

	for _, name := range names {
		obj, _ := s.env.Get(name)
		fmt.Fprintf(s.out, "  %s: %s = %s\n", name, strings.ToLower(string(obj.Type())), truncate(obj.Inspect(), 60))
	}
}

// truncate shortens value to at most limit runes, marking the cut with "...".
func truncate(value string, limit int) string {
	if utf8.RuneCountInString(value) <= limit {
		return value
	}
	runes := []rune(value)
	return string(runes[:limit-3]) + "..."
}

// complete suggests keywords and visible names for the word being typed.
func (s *session) complete(line string) []string {
	if strings.TrimSpace(line) == "" {
		return nil
	}
	last := line[len(line)-1]
	if last == ' ' || last == '\t' {
		return nil
	}

	start := strings.LastIndexFunc(line, func(r rune) bool {
		return !(r == '_' || r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z')
	}) + 1
	prefix, word := line[:start], line[start:]
	if word == "" {
		return nil
	}

	seen := make(map[string]bool)
	var matches []string
	candidates := append(append([]string(nil), perrors.Keywords...), s.env.AllIdentifiers()...)
	for _, c := range candidates {
		if strings.HasPrefix(c, word) && !seen[c] {
			seen[c] = true
			matches = append(matches, prefix+c)
		}
	}
	sort.Strings(matches)
	return matches
}

// needsMoreInput reports whether braces, brackets or parens are still open.
// Brackets inside strings and comments do not count.
func needsMoreInput(input string) bool {
	depth := 0
	inString := false

	for i := 0; i < len(input); i++ {
		ch := input[i]

		if inString {
			switch ch {
			case '\\':
				i++
			case '"':
				inString = false
			}
			continue
		}

		switch ch {
		case '"':
			inString = true
		case '/':
			if i+1 < len(input) && input[i+1] == '/' {
				for i < len(input) && input[i] != '\n' {
					i++
				}
			}
		case '{', '[', '(':
			depth++
		case '}', ']', ')':
			depth--
		}
	}

	return depth > 0
}
