package watch

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/fsnotify/fsnotify"
)

var quiet = slog.New(slog.NewTextHandler(io.Discard, nil))

func TestMatches(t *testing.T) {
	dir := t.TempDir()
	script := filepath.Join(dir, "main.rn")
	cfg := filepath.Join(dir, "rune.yaml")
	if err := os.WriteFile(script, nil, 0644); err != nil {
		t.Fatal(err)
	}

	w, err := New(script, func() {}, Options{Also: []string{cfg}, Logger: quiet})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	defer w.fs.Close()

	tests := []struct {
		name     string
		event    fsnotify.Event
		expected bool
	}{
		{"write script", fsnotify.Event{Name: script, Op: fsnotify.Write}, true},
		{"create script", fsnotify.Event{Name: script, Op: fsnotify.Create}, true},
		{"write config", fsnotify.Event{Name: cfg, Op: fsnotify.Write}, true},
		{"chmod script", fsnotify.Event{Name: script, Op: fsnotify.Chmod}, false},
		{"remove script", fsnotify.Event{Name: script, Op: fsnotify.Remove}, false},
		{"write sibling", fsnotify.Event{Name: filepath.Join(dir, "other.rn"), Op: fsnotify.Write}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := w.matches(tt.event); got != tt.expected {
				t.Errorf("matches(%v) = %v, want %v", tt.event, got, tt.expected)
			}
		})
	}
}

func TestDefaultDebounce(t *testing.T) {
	dir := t.TempDir()
	w, err := New(filepath.Join(dir, "main.rn"), func() {}, Options{Logger: quiet})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	defer w.fs.Close()

	if w.debounce != DefaultDebounce {
		t.Errorf("debounce = %s, want %s", w.debounce, DefaultDebounce)
	}
}

func TestNewMissingDirectory(t *testing.T) {
	_, err := New(filepath.Join(t.TempDir(), "missing", "main.rn"), func() {}, Options{Logger: quiet})
	if err == nil {
		t.Error("expected error watching a missing directory")
	}
}

func TestRunDebouncesWrites(t *testing.T) {
	dir := t.TempDir()
	script := filepath.Join(dir, "main.rn")
	if err := os.WriteFile(script, []byte("1"), 0644); err != nil {
		t.Fatal(err)
	}

	ran := make(chan struct{}, 10)
	w, err := New(script, func() { ran <- struct{}{} }, Options{
		Debounce: 200 * time.Millisecond,
		Logger:   quiet,
	})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()

	// Unrelated files never trigger a run.
	if err := os.WriteFile(filepath.Join(dir, "other.rn"), []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 5; i++ {
		if err := os.WriteFile(script, []byte("1 + 1"), 0644); err != nil {
			t.Fatal(err)
		}
	}

	select {
	case <-ran:
	case <-time.After(5 * time.Second):
		t.Fatal("run was not called after writes")
	}

	// A burst of writes settles into a single run.
	select {
	case <-ran:
		t.Error("expected a single run for a burst of writes")
	case <-time.After(600 * time.Millisecond):
	}
	if w.Runs() != 1 {
		t.Errorf("Runs() = %d, want 1", w.Runs())
	}

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Run returned %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not stop on cancel")
	}
}
