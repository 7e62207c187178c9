// Package watcher reports changes to microcad sources under a workspace root.
package watcher

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/uber/microcad-bridge/src/bridge/entity"
	"go.lsp.dev/protocol"
	"go.uber.org/zap"
)

// Handler receives debounced file events. It is called from timer goroutines and must not block for long.
type Handler func(events []entity.FileEvent)

// Options configure a Watcher.
type Options struct {
	Root     string
	Selector entity.DocumentSelector
	Debounce time.Duration
	Handler  Handler
	Logger   *zap.SugaredLogger
}

// Watcher recursively watches a directory tree and reports changes to files whose extension matches the selector.
type Watcher struct {
	opts    Options
	watcher *fsnotify.Watcher
	logger  *zap.SugaredLogger

	mu      sync.Mutex
	pending map[string]*pendingEvent
	closed  bool

	callbacks sync.WaitGroup
	done      chan struct{}
	closer    chan struct{}
	closeOnce sync.Once
}

type pendingEvent struct {
	timer      *time.Timer
	changeType protocol.FileChangeType
}

// New starts watching opts.Root and all of its non hidden subdirectories.
func New(opts Options) (*Watcher, error) {
	if opts.Handler == nil {
		return nil, fmt.Errorf("watcher requires a handler")
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop().Sugar()
	}

	info, err := os.Stat(opts.Root)
	if err != nil {
		return nil, fmt.Errorf("watching %q: %w", opts.Root, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("watching %q: not a directory", opts.Root)
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create fs watcher: %w", err)
	}

	w := &Watcher{
		opts:    opts,
		watcher: fsw,
		logger:  opts.Logger.With("root", opts.Root),
		pending: make(map[string]*pendingEvent),
		done:    make(chan struct{}),
		closer:  make(chan struct{}),
	}

	if _, err := w.addRecursive(opts.Root); err != nil {
		fsw.Close()
		return nil, err
	}

	go w.handleChanges()
	return w, nil
}

// Close stops watching, cancels pending events and waits for running handlers to return.
func (w *Watcher) Close() error {
	var err error
	w.closeOnce.Do(func() {
		close(w.closer)
		<-w.done

		w.mu.Lock()
		w.closed = true
		for path, p := range w.pending {
			if p.timer.Stop() {
				w.callbacks.Done()
			}
			delete(w.pending, path)
		}
		w.mu.Unlock()

		w.callbacks.Wait()
		err = w.watcher.Close()
	})
	return err
}

func (w *Watcher) handleChanges() {
	defer close(w.done)

	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			w.handleEvent(event)
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.Warnf("Failure in workspace watcher: %v", err)
		case <-w.closer:
			return
		}
	}
}

func (w *Watcher) handleEvent(event fsnotify.Event) {
	if event.Has(fsnotify.Create) {
		if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
			if isHidden(event.Name) {
				return
			}
			// Files may land in a new directory before it is watched.
			found, err := w.addRecursive(event.Name)
			if err != nil {
				w.logger.Warnf("Failed to watch new directory %q: %v", event.Name, err)
			}
			for _, path := range found {
				w.debounce(path, protocol.FileChangeTypeCreated)
			}
			return
		}
	}

	if !w.matches(event.Name) {
		return
	}

	switch {
	case event.Has(fsnotify.Create):
		w.debounce(event.Name, protocol.FileChangeTypeCreated)
	case event.Has(fsnotify.Write):
		w.debounce(event.Name, protocol.FileChangeTypeChanged)
	case event.Has(fsnotify.Remove), event.Has(fsnotify.Rename):
		w.debounce(event.Name, protocol.FileChangeTypeDeleted)
	}
}

// debounce coalesces events for the same path. A file created and then written within the window is reported once as created.
func (w *Watcher) debounce(path string, changeType protocol.FileChangeType) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed {
		return
	}

	if p, exists := w.pending[path]; exists {
		if !(p.changeType == protocol.FileChangeTypeCreated && changeType == protocol.FileChangeTypeChanged) {
			p.changeType = changeType
		}
		if p.timer.Stop() {
			p.timer.Reset(w.opts.Debounce)
			return
		}
		changeType = p.changeType
	}

	p := &pendingEvent{changeType: changeType}
	w.callbacks.Add(1)
	p.timer = time.AfterFunc(w.opts.Debounce, func() {
		defer w.callbacks.Done()
		w.flush(path, p)
	})
	w.pending[path] = p
}

func (w *Watcher) flush(path string, p *pendingEvent) {
	w.mu.Lock()
	if w.closed || w.pending[path] != p {
		w.mu.Unlock()
		return
	}
	delete(w.pending, path)
	changeType := p.changeType
	w.mu.Unlock()

	w.opts.Handler([]entity.FileEvent{{Path: path, Type: changeType}})
}

// addRecursive watches dir and its subdirectories and returns the matching files already present in them.
func (w *Watcher) addRecursive(dir string) ([]string, error) {
	var found []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if !d.IsDir() {
			if w.matches(path) {
				found = append(found, path)
			}
			return nil
		}
		if path != dir && isHidden(path) {
			return filepath.SkipDir
		}
		if err := w.watcher.Add(path); err != nil {
			return fmt.Errorf("watching %q: %w", path, err)
		}
		return nil
	})
	return found, err
}

func (w *Watcher) matches(path string) bool {
	return w.opts.Selector.MatchesExtension(filepath.Ext(path))
}

func isHidden(path string) bool {
	return strings.HasPrefix(filepath.Base(path), ".")
}
