// Package watcher turns raw filesystem notifications into coalesced rebuild
// work.
//
// FileWatcher wraps fsnotify and applies path filters upstream of the
// debouncer, so only template-extension events ever schedule work. The
// Debouncer batches a burst of editor saves into one flush: the first event
// arms a quiescence timer, later events only accumulate, and when the timer
// fires the deduplicated pending set is handed to the registered handlers in
// a single call.
package watcher

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/stencilhq/stencil/internal/logging"
)

// EventType classifies a file change.
type EventType int

const (
	EventTypeCreated EventType = iota
	EventTypeModified
	EventTypeDeleted
)

// String returns the string representation of the EventType.
func (e EventType) String() string {
	switch e {
	case EventTypeCreated:
		return "created"
	case EventTypeModified:
		return "modified"
	case EventTypeDeleted:
		return "deleted"
	default:
		return "unknown"
	}
}

// ChangeEvent is one filesystem change carrying an absolute path. Creation,
// modification, and deletion all schedule rebuild work identically: a
// deleted fragment still forces its dependents to recompile so the missing
// content drops out of their output.
type ChangeEvent struct {
	Type EventType
	Path string
}

// FileFilter reports whether a path is interesting to the watcher.
type FileFilter func(path string) bool

// ChangeHandler receives one deduplicated batch of events per flush.
type ChangeHandler func(events []ChangeEvent) error

// FileWatcher watches directories recursively and debounces change bursts.
type FileWatcher struct {
	watcher   *fsnotify.Watcher
	debouncer *Debouncer
	filters   []FileFilter
	handlers  []ChangeHandler
	logger    logging.Logger
	mutex     sync.RWMutex
}

// NewFileWatcher creates a watcher whose debounce window is delay.
func NewFileWatcher(delay time.Duration, logger logging.Logger) (*FileWatcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("creating fsnotify watcher: %w", err)
	}

	return &FileWatcher{
		watcher:   fsw,
		debouncer: NewDebouncer(delay),
		logger:    logger.WithComponent("watcher"),
	}, nil
}

// AddFilter registers a path filter. All filters must accept a path before
// it reaches the debouncer.
func (fw *FileWatcher) AddFilter(filter FileFilter) {
	fw.mutex.Lock()
	defer fw.mutex.Unlock()
	fw.filters = append(fw.filters, filter)
}

// AddHandler registers a handler for debounced event batches.
func (fw *FileWatcher) AddHandler(handler ChangeHandler) {
	fw.mutex.Lock()
	defer fw.mutex.Unlock()
	fw.handlers = append(fw.handlers, handler)
}

// AddRecursive watches root and every subdirectory beneath it. A missing
// root is not an error; it simply contributes nothing to watch, matching how
// the graph builder treats missing roots.
func (fw *FileWatcher) AddRecursive(root string) error {
	err := filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			return fw.watcher.Add(path)
		}
		return nil
	})
	if os.IsNotExist(err) {
		return nil
	}
	return err
}

// Start launches the watch and dispatch loops. They run until ctx is
// canceled.
func (fw *FileWatcher) Start(ctx context.Context) {
	go fw.debouncer.run(ctx)
	go fw.dispatchLoop(ctx)
	go fw.watchLoop(ctx)
}

// Stop closes the underlying fsnotify watcher and the debounce timer.
func (fw *FileWatcher) Stop() error {
	fw.debouncer.stop()
	return fw.watcher.Close()
}

func (fw *FileWatcher) watchLoop(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-fw.watcher.Events:
			if !ok {
				return
			}
			fw.handleFsnotifyEvent(ctx, event)
		case err, ok := <-fw.watcher.Errors:
			if !ok {
				return
			}
			fw.logger.Warn(ctx, err, "filesystem watch error")
		}
	}
}

func (fw *FileWatcher) handleFsnotifyEvent(ctx context.Context, event fsnotify.Event) {
	// A newly created directory must be watched too or edits inside it go
	// unnoticed. This happens ahead of the filters, which only admit
	// template files; the directory event itself schedules nothing.
	if event.Op.Has(fsnotify.Create) {
		if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
			if err := fw.watcher.Add(event.Name); err != nil {
				fw.logger.Warn(ctx, err, "watching new directory", "path", event.Name)
			}
			return
		}
	}

	fw.mutex.RLock()
	filters := fw.filters
	fw.mutex.RUnlock()

	for _, filter := range filters {
		if !filter(event.Name) {
			return
		}
	}

	var eventType EventType
	switch {
	case event.Op.Has(fsnotify.Create):
		eventType = EventTypeCreated
	case event.Op.Has(fsnotify.Remove), event.Op.Has(fsnotify.Rename):
		eventType = EventTypeDeleted
	default:
		eventType = EventTypeModified
	}

	path := event.Name
	if abs, err := filepath.Abs(path); err == nil {
		path = abs
	}

	fw.debouncer.Add(ChangeEvent{Type: eventType, Path: path})
}

func (fw *FileWatcher) dispatchLoop(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case events := <-fw.debouncer.Output():
			fw.mutex.RLock()
			handlers := fw.handlers
			fw.mutex.RUnlock()

			for _, handler := range handlers {
				if err := handler(events); err != nil {
					fw.logger.Error(ctx, err, "change handler failed")
				}
			}
		}
	}
}

// TemplateFilter accepts template sources only. It runs upstream of the
// debouncer: events for paths without the template extension never schedule
// a flush.
func TemplateFilter(path string) bool {
	return filepath.Ext(path) == ".tmpl"
}

// NoHiddenFilter rejects dot-directories and dot-files.
func NoHiddenFilter(path string) bool {
	for _, part := range strings.Split(filepath.ToSlash(path), "/") {
		if strings.HasPrefix(part, ".") && part != "." && part != ".." {
			return false
		}
	}
	return true
}

// ExcludeDirFilter rejects paths under dir, used to keep the output root
// from feeding events back into the watcher.
func ExcludeDirFilter(dir string) FileFilter {
	abs, err := filepath.Abs(dir)
	if err != nil {
		abs = dir
	}
	return func(path string) bool {
		if p, err := filepath.Abs(path); err == nil {
			path = p
		}
		return path != abs && !strings.HasPrefix(path, abs+string(os.PathSeparator))
	}
}
