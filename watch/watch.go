// Package watch re-runs a script when it changes on disk.
package watch

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce is used when Options.Debounce is zero.
const DefaultDebounce = 100 * time.Millisecond

// Options configures a Watcher.
type Options struct {
	// Debounce is the quiet period after the last change before run is
	// called. Editors often write a file several times per save.
	Debounce time.Duration
	// Also lists extra files, such as the config file, that trigger a run.
	Also []string
	Logger *slog.Logger
}

// Watcher calls run whenever one of its files is written or recreated.
type Watcher struct {
	fs       *fsnotify.Watcher
	files    map[string]bool
	run      func()
	debounce time.Duration
	log      *slog.Logger

	mu    sync.Mutex
	timer *time.Timer
	runs  uint64

	runMu sync.Mutex // serializes calls to run
}

// New watches the directories holding path and opts.Also. Watching the
// directory rather than the file survives editors that save by rename.
func New(path string, run func(), opts Options) (*Watcher, error) {
	fsWatcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	w := &Watcher{
		fs:       fsWatcher,
		files:    make(map[string]bool),
		run:      run,
		debounce: opts.Debounce,
		log:      opts.Logger,
	}
	if w.debounce <= 0 {
		w.debounce = DefaultDebounce
	}
	if w.log == nil {
		w.log = slog.Default()
	}

	dirs := make(map[string]bool)
	for _, p := range append([]string{path}, opts.Also...) {
		if p == "" {
			continue
		}
		abs, err := filepath.Abs(p)
		if err != nil {
			fsWatcher.Close()
			return nil, fmt.Errorf("failed to resolve %s: %w", p, err)
		}
		w.files[abs] = true
		dirs[filepath.Dir(abs)] = true
	}

	for dir := range dirs {
		if err := fsWatcher.Add(dir); err != nil {
			fsWatcher.Close()
			return nil, fmt.Errorf("failed to watch %s: %w", dir, err)
		}
		w.log.Debug("watching", "dir", dir)
	}

	return w, nil
}

// Run processes events until ctx is cancelled, then closes the watcher.
func (w *Watcher) Run(ctx context.Context) error {
	defer w.fs.Close()
	defer w.stop()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-w.fs.Events:
			if !ok {
				return nil
			}
			if !w.matches(event) {
				continue
			}
			w.log.Debug("change", "file", event.Name, "op", event.Op.String())
			w.schedule()

		case err, ok := <-w.fs.Errors:
			if !ok {
				return nil
			}
			w.log.Error("watcher error", "error", err)
		}
	}
}

// Runs returns how many times run has been called.
func (w *Watcher) Runs() uint64 {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.runs
}

// matches reports whether event is a write or create of a watched file.
func (w *Watcher) matches(event fsnotify.Event) bool {
	if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
		return false
	}
	abs, err := filepath.Abs(event.Name)
	if err != nil {
		return false
	}
	return w.files[abs]
}

// schedule (re)starts the debounce timer.
func (w *Watcher) schedule() {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(w.debounce, w.fire)
}

func (w *Watcher) fire() {
	w.mu.Lock()
	w.timer = nil
	w.runs++
	n := w.runs
	w.mu.Unlock()

	w.runMu.Lock()
	defer w.runMu.Unlock()
	w.log.Info("reloading", "run", n)
	w.run()
}

func (w *Watcher) stop() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.timer != nil {
		w.timer.Stop()
		w.timer = nil
	}
}
