package sassrender

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/fsnotify/fsnotify"
)

type targetKind int

const (
	targetDir targetKind = iota
	targetGlob
	targetFile
)

// watchTarget is one source argument translated into a watched root and a
// rule selecting paths below it.
type watchTarget struct {
	kind    targetKind
	root    string
	pattern string
}

func (t watchTarget) matches(path string) bool {
	switch t.kind {
	case targetDir:
		rel, err := filepath.Rel(t.root, path)
		return err == nil && filepath.IsLocal(rel) && IsStylesheet(path)
	case targetGlob:
		ok, err := doublestar.PathMatch(t.pattern, path)
		return err == nil && ok && IsStylesheet(path)
	default:
		return filepath.Clean(path) == t.pattern
	}
}

// Watcher re-renders stylesheets when they are created or written.
//
// Events for a path whose handler is still running are coalesced: the
// handler runs once more after the current call returns, no matter how many
// events arrived meanwhile. Different paths are handled concurrently.
type Watcher struct {
	fsw     *fsnotify.Watcher
	targets []watchTarget

	mu       sync.Mutex
	inflight map[string]bool // path -> dirty
	wg       sync.WaitGroup
}

// NewWatcher watches the same arguments Discover accepts: directories,
// glob patterns and explicit files.
func NewWatcher(patterns []string) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("creating file watcher: %w", err)
	}

	w := &Watcher{
		fsw:      fsw,
		inflight: make(map[string]bool),
	}

	for _, p := range patterns {
		t := newWatchTarget(p)
		w.targets = append(w.targets, t)
		if err := w.addTree(t.root); err != nil {
			_ = fsw.Close()
			return nil, err
		}
	}

	return w, nil
}

func newWatchTarget(pattern string) watchTarget {
	if info, err := os.Stat(pattern); err == nil && info.IsDir() {
		return watchTarget{kind: targetDir, root: filepath.Clean(pattern)}
	}
	if hasGlobMeta(pattern) {
		// fsnotify reports cleaned names
		pattern = filepath.Clean(pattern)
		base, _ := doublestar.SplitPattern(filepath.ToSlash(pattern))
		return watchTarget{kind: targetGlob, root: filepath.FromSlash(base), pattern: pattern}
	}
	return watchTarget{kind: targetFile, root: filepath.Dir(pattern), pattern: filepath.Clean(pattern)}
}

// addTree registers root and every directory below it; fsnotify does not
// watch recursively.
func (w *Watcher) addTree(root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return fmt.Errorf("watching %s: %w", path, err)
		}
		if !d.IsDir() {
			return nil
		}
		if err := w.fsw.Add(path); err != nil {
			return fmt.Errorf("watching %s: %w", path, err)
		}
		return nil
	})
}

// Matches reports whether a changed path selects a render.
func (w *Watcher) Matches(path string) bool {
	for _, t := range w.targets {
		if t.matches(path) {
			return true
		}
	}
	return false
}

// Run delivers matching changes to handle until ctx is done, then waits for
// running handlers. Watcher errors go to onError and never stop the loop.
func (w *Watcher) Run(ctx context.Context, handle func(path string), onError func(error)) error {
	defer w.wg.Wait()

	for {
		select {
		case <-ctx.Done():
			return nil

		case ev, ok := <-w.fsw.Events:
			if !ok {
				return nil
			}
			w.handleEvent(ev, handle, onError)

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return nil
			}
			if onError != nil {
				onError(err)
			}
		}
	}
}

func (w *Watcher) handleEvent(ev fsnotify.Event, handle func(string), onError func(error)) {
	if !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Write) {
		return
	}

	if ev.Has(fsnotify.Create) {
		if info, err := os.Stat(ev.Name); err == nil && info.IsDir() {
			if err := w.addTree(ev.Name); err != nil && onError != nil {
				onError(err)
			}
			return
		}
	}

	if w.Matches(ev.Name) {
		w.dispatch(ev.Name, handle)
	}
}

func (w *Watcher) dispatch(path string, handle func(string)) {
	w.mu.Lock()
	if _, running := w.inflight[path]; running {
		w.inflight[path] = true
		w.mu.Unlock()
		return
	}
	w.inflight[path] = false
	w.mu.Unlock()

	w.wg.Add(1)
	go func() {
		defer w.wg.Done()
		for {
			handle(path)

			w.mu.Lock()
			if !w.inflight[path] {
				delete(w.inflight, path)
				w.mu.Unlock()
				return
			}
			w.inflight[path] = false
			w.mu.Unlock()
		}
	}()
}

// Close stops watching.
func (w *Watcher) Close() error {
	return w.fsw.Close()
}
