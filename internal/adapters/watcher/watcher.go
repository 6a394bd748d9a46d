// Package watcher delivers debounced (path, eventKind) notifications for
// a monitored folder. It is a thin wrapper around fsnotify; all decisions
// about what to do with an event belong to the engine.
package watcher

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"curator/internal/domain"
)

// Handler receives one settled filesystem event.
type Handler func(path string, kind domain.EventKind)

// Watcher monitors a single folder and reports settled events.
type Watcher struct {
	fs       *fsnotify.Watcher
	dir      string
	debounce *debouncer
	handler  Handler

	mu            sync.Mutex
	recentRenames map[string]time.Time // old path -> when it vanished
	renameTTL     time.Duration

	kinds map[string]domain.EventKind
}

// New creates a watcher for dir. Events are debounced by delay before
// being handed to the handler.
func New(dir string, delay time.Duration, handler Handler) (*Watcher, error) {
	fs, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create file watcher: %w", err)
	}

	w := &Watcher{
		fs:            fs,
		dir:           dir,
		handler:       handler,
		recentRenames: make(map[string]time.Time),
		renameTTL:     2 * time.Second,
		kinds:         make(map[string]domain.EventKind),
	}
	w.debounce = newDebouncer(delay, w.deliver)

	if err := fs.Add(dir); err != nil {
		fs.Close()
		return nil, fmt.Errorf("failed to watch %s: %w", dir, err)
	}
	return w, nil
}

// Run pumps events until ctx is cancelled.
func (w *Watcher) Run(ctx context.Context) error {
	defer w.debounce.cancelAll()
	defer w.fs.Close()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-w.fs.Events:
			if !ok {
				return nil
			}
			w.observe(event)

		case err, ok := <-w.fs.Errors:
			if !ok {
				return nil
			}
			if err != nil {
				return fmt.Errorf("watch error: %w", err)
			}
		}
	}
}

func (w *Watcher) observe(event fsnotify.Event) {
	if strings.HasPrefix(filepath.Base(event.Name), ".") {
		return
	}

	switch {
	case event.Op.Has(fsnotify.Rename):
		// The old path vanished; remember it so the matching create can
		// be classified as a rename or move instead of new content.
		w.trackRename(event.Name)

	case event.Op.Has(fsnotify.Create):
		w.setKind(event.Name, w.classifyCreate(event.Name))
		w.debounce.add(event.Name)

	case event.Op.Has(fsnotify.Write):
		w.setKind(event.Name, domain.EventChanged)
		w.debounce.add(event.Name)
	}
}

// classifyCreate correlates a create with a recent rename. A vanished
// file reappearing under the same name elsewhere is a move; a new name
// appearing in the directory a file just vanished from is a rename.
func (w *Watcher) classifyCreate(path string) domain.EventKind {
	w.mu.Lock()
	defer w.mu.Unlock()

	now := time.Now()
	for oldPath, at := range w.recentRenames {
		if now.Sub(at) > w.renameTTL {
			delete(w.recentRenames, oldPath)
			continue
		}
		sameBase := filepath.Base(oldPath) == filepath.Base(path)
		sameDir := filepath.Dir(oldPath) == filepath.Dir(path)
		switch {
		case sameBase && !sameDir:
			delete(w.recentRenames, oldPath)
			return domain.EventMoved
		case sameDir && !sameBase:
			delete(w.recentRenames, oldPath)
			return domain.EventRenamed
		}
	}
	return domain.EventAdded
}

func (w *Watcher) trackRename(oldPath string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.recentRenames[oldPath] = time.Now()
}

func (w *Watcher) setKind(path string, kind domain.EventKind) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.kinds[path] = kind
}

func (w *Watcher) deliver(path string) {
	w.mu.Lock()
	kind, ok := w.kinds[path]
	delete(w.kinds, path)
	w.mu.Unlock()

	if !ok {
		kind = domain.EventAdded
	}
	w.handler(path, kind)
}
