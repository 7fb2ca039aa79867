// Package watch re-runs work when project configuration changes on disk.
package watch

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"git.home.luguber.info/inful/pluginlit/internal/logfields"
	"git.home.luguber.info/inful/pluginlit/internal/mainthread"
)

// DefaultDebounce collapses bursts of editor writes into one change.
const DefaultDebounce = 500 * time.Millisecond

const changeKey = "watch.change"

// Watcher monitors configuration files and channel directories. Changes
// are debounced and delivered as a single keyed action on a
// mainthread.Queue, so the callback runs on the goroutine draining it.
type Watcher struct {
	watcher  *fsnotify.Watcher
	queue    *mainthread.Queue
	onChange mainthread.Action
	debounce time.Duration
	logger   *slog.Logger

	mu      sync.Mutex
	filters map[string]func(name string) bool
	timer   *time.Timer

	stopOnce sync.Once
	stopChan chan struct{}
}

// New creates a watcher that enqueues onChange on queue.
func New(queue *mainthread.Queue, onChange mainthread.Action, debounce time.Duration, logger *slog.Logger) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create file watcher: %w", err)
	}
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Watcher{
		watcher:  fw,
		queue:    queue,
		onChange: onChange,
		debounce: debounce,
		logger:   logger.With(logfields.Component("watch")),
		filters:  make(map[string]func(string) bool),
		stopChan: make(chan struct{}),
	}, nil
}

// Add watches path. A file is watched through its directory (more reliable
// across editors that replace files on save); a directory reports changes
// to its YAML files.
func (w *Watcher) Add(path string) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("failed to resolve %s: %w", path, err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		return fmt.Errorf("failed to stat %s: %w", abs, err)
	}

	dir, filter := abs, isYAML
	if !info.IsDir() {
		dir = filepath.Dir(abs)
		base := filepath.Base(abs)
		filter = func(name string) bool { return name == base }
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	if prev, ok := w.filters[dir]; ok {
		next := filter
		filter = func(name string) bool { return prev(name) || next(name) }
	} else if err := w.watcher.Add(dir); err != nil {
		return fmt.Errorf("failed to watch %s: %w", dir, err)
	}
	w.filters[dir] = filter
	w.logger.Debug("Watching", logfields.Path(abs))
	return nil
}

func isYAML(name string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	return ext == ".yaml" || ext == ".yml"
}

// Start processes file system events until ctx is done or Stop is called.
func (w *Watcher) Start(ctx context.Context) {
	go w.loop(ctx)
}

func (w *Watcher) loop(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case <-w.stopChan:
			return
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if !w.relevant(event) {
				continue
			}
			w.logger.Debug("Change detected", logfields.Path(event.Name), slog.String("op", event.Op.String()))
			w.schedule()
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.Error("Watcher error", logfields.Error(err))
		}
	}
}

func (w *Watcher) relevant(event fsnotify.Event) bool {
	if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
		return false
	}
	w.mu.Lock()
	filter, ok := w.filters[filepath.Dir(event.Name)]
	w.mu.Unlock()
	return ok && filter(filepath.Base(event.Name))
}

// schedule restarts the debounce timer; when it fires the change action is
// enqueued, replacing one that has not run yet.
func (w *Watcher) schedule() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(w.debounce, func() {
		if err := w.queue.Once(changeKey, w.onChange); err != nil {
			w.logger.Warn("Change dropped", logfields.Error(err))
		}
	})
}

// Stop ends event processing and releases the underlying watcher.
func (w *Watcher) Stop() error {
	var err error
	w.stopOnce.Do(func() {
		close(w.stopChan)
		w.mu.Lock()
		if w.timer != nil {
			w.timer.Stop()
		}
		w.mu.Unlock()
		err = w.watcher.Close()
	})
	return err
}
