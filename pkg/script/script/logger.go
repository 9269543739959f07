package script

import (
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/swipelab/rune/pkg/script/evaluator"
)

// Logger receives output from the print extern.
type Logger = evaluator.Logger

// StdoutLogger returns the logger environments use by default.
func StdoutLogger() Logger {
	return evaluator.DefaultLogger
}

// writerLogger writes space-separated values to an io.Writer. Externs may
// run on several goroutines, so writes are serialized.
type writerLogger struct {
	mu sync.Mutex
	w  io.Writer
}

func (l *writerLogger) Log(values ...any) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprint(l.w, joinValues(values))
}

func (l *writerLogger) LogLine(values ...any) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintln(l.w, joinValues(values))
}

// WriterLogger returns a logger that writes to w.
func WriterLogger(w io.Writer) Logger {
	return &writerLogger{w: w}
}

// BufferedLogger keeps output in memory, mostly for tests and embedding.
type BufferedLogger struct {
	mu      sync.Mutex
	lines   []string
	partial strings.Builder
}

// NewBufferedLogger creates an empty buffered logger.
func NewBufferedLogger() *BufferedLogger {
	return &BufferedLogger{}
}

func (l *BufferedLogger) Log(values ...any) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.partial.WriteString(joinValues(values))
}

// LogLine completes the pending partial line, if any, with values.
func (l *BufferedLogger) LogLine(values ...any) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.lines = append(l.lines, l.partial.String()+joinValues(values))
	l.partial.Reset()
}

// Lines returns a copy of the completed lines.
func (l *BufferedLogger) Lines() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]string(nil), l.lines...)
}

// String returns completed lines, newline terminated, then any partial line.
func (l *BufferedLogger) String() string {
	l.mu.Lock()
	defer l.mu.Unlock()
	var sb strings.Builder
	for _, line := range l.lines {
		sb.WriteString(line)
		sb.WriteByte('\n')
	}
	sb.WriteString(l.partial.String())
	return sb.String()
}

// Reset discards everything captured so far.
func (l *BufferedLogger) Reset() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.lines = nil
	l.partial.Reset()
}

type nullLogger struct{}

func (nullLogger) Log(values ...any)     {}
func (nullLogger) LogLine(values ...any) {}

// NullLogger returns a logger that discards all output.
func NullLogger() Logger {
	return nullLogger{}
}

func joinValues(values []any) string {
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = fmt.Sprint(v)
	}
	return strings.Join(parts, " ")
}
