// Package watch re-runs an action when input files change on disk.
package watch

import (
	"context"
	"fmt"
	"path/filepath"
	"sort"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce groups the several events editors emit for one save.
const DefaultDebounce = 200 * time.Millisecond

// Watcher observes a fixed set of files. Parent directories are watched so
// that editors replacing a file by rename are still noticed.
type Watcher struct {
	fsw     *fsnotify.Watcher
	targets map[string]struct{}
}

// New starts watching paths. Close must be called when done.
func New(paths []string) (*Watcher, error) {
	if len(paths) == 0 {
		return nil, fmt.Errorf("watch: no files given")
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("watch: create watcher: %w", err)
	}

	w := &Watcher{fsw: fsw, targets: make(map[string]struct{}, len(paths))}
	dirs := make(map[string]struct{})
	for _, p := range paths {
		abs, err := filepath.Abs(p)
		if err != nil {
			_ = fsw.Close()
			return nil, fmt.Errorf("watch: resolve %q: %w", p, err)
		}
		w.targets[abs] = struct{}{}
		dirs[filepath.Dir(abs)] = struct{}{}
	}
	for dir := range dirs {
		if err := fsw.Add(dir); err != nil {
			_ = fsw.Close()
			return nil, fmt.Errorf("watch: add %q: %w", dir, err)
		}
	}
	return w, nil
}

// Close stops watching.
func (w *Watcher) Close() error {
	return w.fsw.Close()
}

// Run calls fn with the changed files after each burst of changes settles for
// debounce. It returns nil when ctx is cancelled.
func (w *Watcher) Run(ctx context.Context, debounce time.Duration, fn func(changed []string)) error {
	if debounce <= 0 {
		debounce = DefaultDebounce
	}

	pending := make(map[string]struct{})
	timer := time.NewTimer(debounce)
	timer.Stop()
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-w.fsw.Events:
			if !ok {
				return nil
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			name := filepath.Clean(ev.Name)
			if _, tracked := w.targets[name]; !tracked {
				continue
			}
			pending[name] = struct{}{}
			timer.Reset(debounce)
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return nil
			}
			return fmt.Errorf("watch: %w", err)
		case <-timer.C:
			if len(pending) == 0 {
				continue
			}
			changed := make([]string, 0, len(pending))
			for name := range pending {
				changed = append(changed, name)
			}
			sort.Strings(changed)
			clear(pending)
			fn(changed)
		}
	}
}
