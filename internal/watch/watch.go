package watch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"
	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce collapses bursts of events, e.g. a mod being extracted
const DefaultDebounce = 500 * time.Millisecond

var ErrNoRoots = errors.New("nothing to watch")

// Watcher reruns a callback when files under the mod roots change
type Watcher struct {
	roots    []string
	debounce time.Duration
	log      *log.Logger
}

// New creates a watcher for roots. Roots that do not exist are skipped.
func New(roots []string, debounce time.Duration, logger *log.Logger) *Watcher {
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Watcher{roots: roots, debounce: debounce, log: logger}
}

// Run blocks until ctx is done, calling trigger once per quiet period
// after changes. Triggers run on the watch goroutine, one at a time.
func (w *Watcher) Run(ctx context.Context, trigger func(context.Context)) error {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("watch init failed: %w", err)
	}
	defer func() { _ = fw.Close() }()

	watched := 0
	for _, root := range w.roots {
		if root == "" {
			continue
		}
		if _, err := os.Stat(root); err != nil {
			w.log.Debug("Skipping watch root", "root", root, "error", err)
			continue
		}
		if err := addRecursive(fw, root); err != nil {
			return fmt.Errorf("watch %s: %w", root, err)
		}
		watched++
	}
	if watched == 0 {
		return ErrNoRoots
	}

	// Reset discards a pending fire, so each event restarts the quiet period
	timer := time.NewTimer(w.debounce)
	timer.Stop()

	for {
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil

		case ev, ok := <-fw.Events:
			if !ok {
				return nil
			}
			if filepath.Base(ev.Name) == ".git" || isInGitDir(ev.Name) {
				continue
			}
			if ev.Has(fsnotify.Create) {
				if info, err := os.Stat(ev.Name); err == nil && info.IsDir() {
					if err := addRecursive(fw, ev.Name); err != nil {
						w.log.Warn("Failed to watch new directory", "dir", ev.Name, "error", err)
					}
				}
			}
			w.log.Debug("Change detected", "path", ev.Name, "op", ev.Op.String())
			timer.Reset(w.debounce)

		case <-timer.C:
			trigger(ctx)

		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			w.log.Warn("Watch error", "error", err)
		}
	}
}

func addRecursive(fw *fsnotify.Watcher, root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if !d.IsDir() {
			return nil
		}
		if d.Name() == ".git" {
			return filepath.SkipDir
		}
		return fw.Add(path)
	})
}

func isInGitDir(path string) bool {
	for dir := filepath.Dir(path); dir != filepath.Dir(dir); dir = filepath.Dir(dir) {
		if filepath.Base(dir) == ".git" {
			return true
		}
	}
	return false
}
