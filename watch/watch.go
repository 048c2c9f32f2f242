// Package watch rebuilds the site when source files change. It watches
// directory trees with fsnotify, collapses bursts of events into a single
// callback, and keeps watching after a failed rebuild.
package watch

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/javaevolved/sitegen/logfields"
)

// DefaultDebounce is how long the watcher waits for events to settle.
const DefaultDebounce = 500 * time.Millisecond

// ChangeFunc is called with the sorted, de-duplicated paths that changed
// since the previous call.
type ChangeFunc func(ctx context.Context, changed []string) error

// Options configures a Watcher.
type Options struct {
	Debounce time.Duration
	Logger   *slog.Logger
	// Files are single files to watch without watching the rest of their
	// directory.
	Files []string
	// Exclude lists files and directory trees whose changes are ignored,
	// even when they lie inside a root.
	Exclude []string
}

// Watcher monitors directory trees and triggers debounced rebuilds.
type Watcher struct {
	roots    []string
	onChange ChangeFunc
	debounce time.Duration
	logger   *slog.Logger
	fs       *fsnotify.Watcher
	pending  map[string]struct{}
	files    map[string]bool
	exclude  []string
}

// New creates a watcher over roots. Roots that do not exist are skipped
// when Run starts.
func New(roots []string, onChange ChangeFunc, opts Options) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create file watcher: %w", err)
	}
	debounce := opts.Debounce
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	files := make(map[string]bool, len(opts.Files))
	for _, f := range opts.Files {
		files[filepath.Clean(f)] = true
	}
	clean := func(paths []string) []string {
		out := make([]string, len(paths))
		for i, p := range paths {
			out[i] = filepath.Clean(p)
		}
		return out
	}
	return &Watcher{
		roots:    clean(roots),
		files:    files,
		exclude:  clean(opts.Exclude),
		onChange: onChange,
		debounce: debounce,
		logger:   logfields.Discard(opts.Logger),
		fs:       fw,
		pending:  make(map[string]struct{}),
	}, nil
}

// Run watches until ctx is cancelled. Callbacks run on the calling
// goroutine, so rebuilds never overlap.
func (w *Watcher) Run(ctx context.Context) error {
	defer w.fs.Close()

	for _, root := range w.roots {
		if err := w.addTree(root); err != nil {
			return err
		}
	}
	for f := range w.files {
		dir := filepath.Dir(f)
		if err := w.fs.Add(dir); err != nil {
			w.logger.Warn("Failed to watch file", logfields.File(f), logfields.Error(err))
		}
	}
	w.logger.Info("Watching for changes", logfields.Count(len(w.fs.WatchList())))

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
			return nil

		case event, ok := <-w.fs.Events:
			if !ok {
				return nil
			}
			if !w.handle(event) {
				continue
			}
			if timer == nil {
				timer = time.NewTimer(w.debounce)
			} else {
				timer.Reset(w.debounce)
			}
			fire = timer.C

		case <-fire:
			fire = nil
			changed := w.drain()
			w.logger.Info("Change detected, rebuilding", logfields.Count(len(changed)))
			if err := w.onChange(ctx, changed); err != nil {
				w.logger.Error("Rebuild failed", logfields.Error(err))
			}

		case err, ok := <-w.fs.Errors:
			if !ok {
				return nil
			}
			w.logger.Error("Watcher error", logfields.Error(err))
		}
	}
}

// handle records a relevant event and reports whether it should schedule
// a rebuild.
func (w *Watcher) handle(event fsnotify.Event) bool {
	if ignored(event.Name) || w.excluded(event.Name) {
		return false
	}
	if event.Op == fsnotify.Chmod {
		return false
	}
	inRoot := withinAny(event.Name, w.roots)
	if !inRoot && !w.files[event.Name] {
		return false
	}

	if inRoot && event.Has(fsnotify.Create) {
		if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
			if err := w.addTree(event.Name); err != nil {
				w.logger.Warn("Failed to watch new directory", logfields.Path(event.Name), logfields.Error(err))
			}
		}
	}

	w.logger.Debug("File event", logfields.File(event.Name), slog.String("op", event.Op.String()))
	w.pending[event.Name] = struct{}{}
	return true
}

func (w *Watcher) drain() []string {
	changed := make([]string, 0, len(w.pending))
	for p := range w.pending {
		changed = append(changed, p)
	}
	sort.Strings(changed)
	clear(w.pending)
	return changed
}

// addTree watches root and every directory below it.
func (w *Watcher) addTree(root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if os.IsNotExist(err) && path == root {
				w.logger.Warn("Watch root does not exist", logfields.Path(root))
				return filepath.SkipDir
			}
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if path != root && ignored(path) || w.excluded(path) {
			return filepath.SkipDir
		}
		if err := w.fs.Add(path); err != nil {
			return fmt.Errorf("failed to watch %s: %w", path, err)
		}
		return nil
	})
}

func (w *Watcher) excluded(path string) bool {
	return withinAny(path, w.exclude)
}

// withinAny reports whether path is one of dirs or lies below one of them.
func withinAny(path string, dirs []string) bool {
	for _, d := range dirs {
		if path == d || strings.HasPrefix(path, d+string(filepath.Separator)) {
			return true
		}
	}
	return false
}

// ignored matches hidden files and editor swap files.
func ignored(path string) bool {
	base := filepath.Base(path)
	return strings.HasPrefix(base, ".") ||
		strings.HasSuffix(base, "~") ||
		strings.HasSuffix(base, ".swp")
}
