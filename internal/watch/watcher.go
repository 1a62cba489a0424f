// Package watch reruns a generation whenever the source document changes.
package watch

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"git.home.luguber.info/inful/multitex/internal/logfields"
)

// DefaultDebounce collapses the burst of events editors emit on save.
const DefaultDebounce = 500 * time.Millisecond

// RunFunc performs one generation. Errors are logged and do not stop watching.
type RunFunc func(ctx context.Context) error

// Watcher monitors a single source file.
type Watcher struct {
	path     string
	run      RunFunc
	debounce time.Duration
	watcher  *fsnotify.Watcher
	trigger  chan struct{}
}

// New creates a watcher for path. It does not start watching until Run.
func New(path string, run RunFunc, debounce time.Duration) (*Watcher, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve source path: %w", err)
	}
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create file watcher: %w", err)
	}
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	return &Watcher{
		path:     absPath,
		run:      run,
		debounce: debounce,
		watcher:  fw,
		trigger:  make(chan struct{}, 1),
	}, nil
}

// Run performs an initial generation, then one per change until ctx is done.
// Runs never overlap.
func (w *Watcher) Run(ctx context.Context) error {
	defer func() {
		if err := w.watcher.Close(); err != nil {
			slog.Error("Error closing file watcher", logfields.Error(err))
		}
	}()

	// Watch the directory: editors often replace the file rather than write it.
	dir := filepath.Dir(w.path)
	if err := w.watcher.Add(dir); err != nil {
		return fmt.Errorf("failed to watch directory %s: %w", dir, err)
	}
	slog.Info("Watching source", logfields.Source(w.path))

	w.execute(ctx)
	go w.watchLoop(ctx)

	var timer *time.Timer
	var fire <-chan time.Time
	for {
		select {
		case <-ctx.Done():
			if timer != nil {
				timer.Stop()
			}
			return nil
		case <-w.trigger:
			if timer != nil {
				timer.Stop()
			}
			timer = time.NewTimer(w.debounce)
			fire = timer.C
		case <-fire:
			fire = nil
			w.execute(ctx)
		}
	}
}

func (w *Watcher) execute(ctx context.Context) {
	if err := w.run(ctx); err != nil {
		slog.Error("Regeneration failed", logfields.Error(err))
	}
}

func (w *Watcher) watchLoop(ctx context.Context) {
	name := filepath.Base(w.path)
	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if filepath.Base(event.Name) != name {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) != 0 {
				slog.Debug("Source change detected", logfields.File(event.Name), slog.String("op", event.Op.String()))
				w.notify()
			} else if event.Op&fsnotify.Remove != 0 {
				slog.Warn("Source file removed", logfields.File(event.Name))
			}
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			slog.Error("Source watcher error", logfields.Error(err))
		}
	}
}

// notify schedules a run; at most one is pending at a time.
func (w *Watcher) notify() {
	select {
	case w.trigger <- struct{}{}:
	default:
	}
}
