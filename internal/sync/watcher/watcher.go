// Package watcher reloads the catalog when a fixture file changes on disk.
//
// Files are only ever read. Changes come from outside the process: an
// editor, a deploy tool, or a mounted volume that is swapped atomically.
// The parent directory of each file is watched so that rename-based
// replacements are seen too.
package watcher

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"slices"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce is how long the watcher waits for writes to settle
const DefaultDebounce = 250 * time.Millisecond

// Reloader loads a fresh catalog snapshot
type Reloader interface {
	Reload(ctx context.Context) error
}

// Watcher observes fixture files and reloads on change
type Watcher interface {
	// Watch blocks until ctx is cancelled or the watcher is closed. The
	// underlying file watcher is released when it returns.
	Watch(ctx context.Context) error

	// Close releases the file watcher
	Close() error
}

// Option configures a Watcher
type Option func(*fileWatcher)

// WithDebounce sets how long to wait after the last change before reloading
func WithDebounce(d time.Duration) Option {
	return func(w *fileWatcher) {
		w.debounce = d
	}
}

type fileWatcher struct {
	reloader Reloader
	files    map[string]bool
	dirs     []string
	debounce time.Duration

	mu      sync.Mutex
	watcher *fsnotify.Watcher
}

// New creates a watcher for paths that calls reloader when any of them changes
func New(reloader Reloader, paths []string, opts ...Option) (Watcher, error) {
	if reloader == nil {
		return nil, fmt.Errorf("reloader is required")
	}
	if len(paths) == 0 {
		return nil, fmt.Errorf("at least one path is required")
	}

	w := &fileWatcher{
		reloader: reloader,
		files:    make(map[string]bool, len(paths)),
		debounce: DefaultDebounce,
	}
	for _, opt := range opts {
		opt(w)
	}
	if w.debounce < 0 {
		return nil, fmt.Errorf("debounce must not be negative, got %s", w.debounce)
	}

	for _, path := range paths {
		abs, err := filepath.Abs(path)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve %s: %w", path, err)
		}
		w.files[abs] = true
		if dir := filepath.Dir(abs); !slices.Contains(w.dirs, dir) {
			w.dirs = append(w.dirs, dir)
		}
	}

	return w, nil
}

// Watch implements Watcher.Watch
func (w *fileWatcher) Watch(ctx context.Context) error {
	w.mu.Lock()
	if w.watcher != nil {
		w.mu.Unlock()
		return fmt.Errorf("file watcher is already running")
	}
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		w.mu.Unlock()
		return fmt.Errorf("failed to create file watcher: %w", err)
	}
	w.watcher = fsw
	w.mu.Unlock()
	defer func() {
		_ = w.Close()
	}()

	for _, dir := range w.dirs {
		if err := fsw.Add(dir); err != nil {
			return fmt.Errorf("failed to watch directory %s: %w", dir, err)
		}
	}

	slog.InfoContext(ctx, "Watching fixture files", "files", len(w.files))

	var (
		timer *time.Timer
		fire  <-chan time.Time
	)
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			slog.InfoContext(ctx, "Stopping fixture file watcher")
			return ctx.Err()

		case event, ok := <-fsw.Events:
			if !ok {
				return fmt.Errorf("watcher event channel closed")
			}
			if !w.relevant(event) {
				continue
			}
			slog.DebugContext(ctx, "Fixture file changed", "file", event.Name, "op", event.Op.String())
			if timer == nil {
				timer = time.NewTimer(w.debounce)
			} else {
				timer.Reset(w.debounce)
			}
			fire = timer.C

		case <-fire:
			fire = nil
			if err := w.reloader.Reload(ctx); err != nil {
				// the previous snapshot stays active
				slog.ErrorContext(ctx, "Failed to reload catalog after file change", "error", err)
				continue
			}
			slog.InfoContext(ctx, "Reloaded catalog after file change")

		case err, ok := <-fsw.Errors:
			if !ok {
				return fmt.Errorf("watcher error channel closed")
			}
			slog.ErrorContext(ctx, "File watcher error", "error", err)
		}
	}
}

func (w *fileWatcher) relevant(event fsnotify.Event) bool {
	if !w.files[filepath.Clean(event.Name)] {
		return false
	}
	return event.Has(fsnotify.Write) || event.Has(fsnotify.Create) || event.Has(fsnotify.Rename)
}

// Close implements Watcher.Close
func (w *fileWatcher) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.watcher == nil {
		return nil
	}
	if err := w.watcher.Close(); err != nil {
		return fmt.Errorf("failed to close file watcher: %w", err)
	}
	w.watcher = nil
	return nil
}
