package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"

	"github.com/fatih/color"
	"golang.org/x/term"

	"github.com/swipelab/rune/config"
	perrors "github.com/swipelab/rune/pkg/script/errors"
	"github.com/swipelab/rune/pkg/script/evaluator"
	"github.com/swipelab/rune/pkg/script/repl"
	"github.com/swipelab/rune/pkg/script/script"
	"github.com/swipelab/rune/watch"
)

// Version is set at compile time via -ldflags
var Version = "0.1.0"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Stdin, os.Stdout, os.Stderr, os.Getenv); err != nil {
		var ee *exitError
		if errors.As(err, &ee) {
			os.Exit(ee.code)
		}
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(2)
	}
}

// exitError carries an exit status for failures that were already
// reported to the user.
type exitError struct {
	code int
}

func (e *exitError) Error() string {
	return fmt.Sprintf("exit status %d", e.code)
}

var errScript = &exitError{code: 1}

// app holds what every mode needs once flags and config are settled.
type app struct {
	cfg        *config.Config
	configPath string
	stdout     io.Writer
	stderr     io.Writer
	errHeader  *color.Color
}

// run is the main entry point, designed for testability (Mat Ryer pattern)
func run(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer, getenv func(string) string) error {
	flags := flag.NewFlagSet("rune", flag.ContinueOnError)
	flags.SetOutput(io.Discard)

	var (
		evalCode    = flags.String("e", "", "Evaluate code string")
		configPath  = flags.String("config", "", "Path to config file")
		profile     = flags.String("profile", "", "Config profile to apply")
		checkMode   = flags.Bool("check", false, "Check syntax without executing")
		watchMode   = flags.Bool("watch", false, "Re-run the script when it changes")
		showVersion = flags.Bool("V", false, "Show version")
	)
	flags.StringVar(evalCode, "eval", "", "Alias for -e")
	flags.BoolVar(showVersion, "version", false, "Alias for -V")

	if err := flags.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			printUsage(stdout)
			return nil
		}
		printUsage(stderr)
		return err
	}

	if *showVersion {
		fmt.Fprintf(stdout, "rune version %s\n", Version)
		return nil
	}

	cfg, resolved, err := config.LoadWithPath(*configPath, getenv)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	if *profile != "" {
		if err := config.ApplyProfile(cfg, *profile); err != nil {
			return err
		}
		if err := config.Validate(cfg); err != nil {
			return err
		}
	}

	logger, closeLog, err := newLogger(cfg.Logging, stdout, stderr)
	if err != nil {
		return err
	}
	defer closeLog()
	slog.SetDefault(logger)
	if resolved != "" {
		slog.Debug("loaded config", "path", resolved)
	}

	a := &app{
		cfg:        cfg,
		configPath: resolved,
		stdout:     stdout,
		stderr:     stderr,
		errHeader:  color.New(color.FgRed, color.Bold),
	}
	if !isTerminal(stderr) || getenv("NO_COLOR") != "" {
		a.errHeader.DisableColor()
	} else {
		a.errHeader.EnableColor()
	}

	files := flags.Args()
	switch {
	case *evalCode != "":
		return a.runSource(*evalCode, "<eval>", a.newEnvironment("<eval>"))

	case *checkMode:
		if len(files) == 0 {
			printUsage(stderr)
			return fmt.Errorf("--check requires at least one file")
		}
		return a.checkFiles(files)

	case *watchMode:
		if len(files) != 1 {
			printUsage(stderr)
			return fmt.Errorf("--watch requires exactly one file")
		}
		return a.watchFile(ctx, files[0])

	case len(files) > 0:
		return a.runFile(files[0])

	case isTerminal(stdin):
		a.startREPL()
		return nil

	default:
		source, err := io.ReadAll(stdin)
		if err != nil {
			return fmt.Errorf("reading stdin: %w", err)
		}
		return a.runSource(string(source), "<stdin>", a.newEnvironment("<stdin>"))
	}
}

func printUsage(w io.Writer) {
	fmt.Fprintf(w, `rune - a small embeddable scripting language, version %s

Usage:
  rune [options] [file]
  rune -e "code"
  rune --check <file>...
  rune --watch <file>

Options:
  -e, --eval <code>     Evaluate code string and print the result
  --check               Check syntax without executing (accepts several files)
  --watch               Run the file, then run it again whenever it changes
  --config <path>       Path to config file (default: $RUNE_CONFIG, ./rune.yaml,
                        ~/.config/rune/rune.yaml)
  --profile <name>      Apply a profile from the config file
  -V, --version         Show version information
  -h, --help            Show this help message

With no file, rune starts a REPL when stdin is a terminal and otherwise
runs the program read from stdin.

Examples:
  rune                        Start interactive REPL
  rune script.rn              Execute a script
  rune -e "1 + 2 * 3"         Evaluate inline code (outputs: 7)
  echo 'print("hi")' | rune   Run a program from stdin
  rune --check *.rn           Check several files
`, Version)
}

func (a *app) newEnvironment(filename string) *evaluator.Environment {
	return script.NewEnvironment(
		script.WithLogger(script.WriterLogger(a.stdout)),
		script.WithPrelude(a.cfg.Prelude),
		script.WithFilename(filename),
	)
}

// runSource evaluates source and prints its result. Script failures are
// reported here and come back as errScript.
func (a *app) runSource(source, filename string, env *evaluator.Environment) error {
	result, err := script.Run(source, env)
	if err != nil {
		var se *perrors.ScriptError
		if errors.As(err, &se) {
			a.printError(se)
			return errScript
		}
		return err
	}

	if se := script.RuntimeError(result); se != nil {
		a.printError(se)
		return errScript
	}
	if result != evaluator.NEVER {
		fmt.Fprintln(a.stdout, result.Inspect())
	}
	return nil
}

func (a *app) runFile(filename string) error {
	content, err := os.ReadFile(filename)
	if err != nil {
		return fmt.Errorf("reading %s: %w", filename, err)
	}
	return a.runSource(string(content), filename, a.newEnvironment(filename))
}

// checkFiles checks the syntax of one or more files without executing them
func (a *app) checkFiles(files []string) error {
	failed := false
	for _, filename := range files {
		content, err := os.ReadFile(filename)
		if err != nil {
			return fmt.Errorf("reading %s: %w", filename, err)
		}

		if err := script.Check(string(content)); err != nil {
			var se *perrors.ScriptError
			if !errors.As(err, &se) {
				return err
			}
			a.printError(se.WithFile(filename))
			failed = true
		}
	}

	if failed {
		return errScript
	}
	return nil
}

// watchFile runs filename now and after every change, until ctx ends.
// Script failures are reported but do not stop the watch.
func (a *app) watchFile(ctx context.Context, filename string) error {
	if _, err := os.Stat(filename); err != nil {
		return fmt.Errorf("reading %s: %w", filename, err)
	}

	rerun := func() {
		if err := a.runFile(filename); err != nil && !errors.Is(err, errScript) {
			slog.Error("run failed", "file", filename, "error", err)
		}
	}

	var also []string
	if a.configPath != "" {
		also = append(also, a.configPath)
	}
	w, err := watch.New(filename, rerun, watch.Options{
		Debounce: a.cfg.Watch.Debounce,
		Also:     also,
	})
	if err != nil {
		return err
	}

	rerun()
	return w.Run(ctx)
}

func (a *app) startREPL() {
	repl.Start(a.stdout, repl.Options{
		Version:     Version,
		Prompt:      a.cfg.REPL.Prompt,
		HideBanner:  !a.cfg.REPL.Banner,
		HistoryFile: a.cfg.REPL.History,
		NewEnvironment: func() *evaluator.Environment {
			return a.newEnvironment("")
		},
	})
}

// printError writes the error with a coloured header line.
func (a *app) printError(se *perrors.ScriptError) {
	text := se.PrettyString()
	i := strings.IndexAny(text, ":\n")
	if i < 0 {
		i = len(text)
	}
	a.errHeader.Fprint(a.stderr, text[:i])
	fmt.Fprintln(a.stderr, text[i:])
}

// newLogger builds the diagnostic logger described by cfg.
func newLogger(cfg config.LoggingConfig, stdout, stderr io.Writer) (*slog.Logger, func(), error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(cfg.Level)); err != nil {
		return nil, nil, fmt.Errorf("invalid log level %q: %w", cfg.Level, err)
	}

	out := stderr
	closer := func() {}
	switch cfg.Output {
	case "", "stderr":
	case "stdout":
		out = stdout
	default:
		if err := os.MkdirAll(filepath.Dir(cfg.Output), 0755); err != nil {
			return nil, nil, fmt.Errorf("creating log directory: %w", err)
		}
		f, err := os.OpenFile(cfg.Output, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			return nil, nil, fmt.Errorf("opening log file: %w", err)
		}
		out = f
		closer = func() { f.Close() }
	}

	opts := &slog.HandlerOptions{Level: level}
	var handler slog.Handler
	if cfg.Format == "json" {
		handler = slog.NewJSONHandler(out, opts)
	} else {
		handler = slog.NewTextHandler(out, opts)
	}
	return slog.New(handler), closer, nil
}

func isTerminal(v any) bool {
	f, ok := v.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}
