package config

import (
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/fittrack/fittrack/internal/observability"
)

// ReloadCallback is invoked with the new configuration after a change
// to the watched file has been loaded and validated.
type ReloadCallback func(cfg *Config)

// ErrorCallback is invoked when a change cannot be applied.
type ErrorCallback func(err error)

// Watcher watches a configuration file and reloads it on change.
// Editors often replace files via rename, so the parent directory is
// watched and events are filtered by name. Rapid event bursts are
// debounced before a reload is attempted.
type Watcher struct {
	path     string
	onReload ReloadCallback
	onError  ErrorCallback
	logger   observability.Logger
	debounce time.Duration

	fsWatcher *fsnotify.Watcher
	stopOnce  sync.Once
	stopCh    chan struct{}
	stoppedCh chan struct{}
}

// WatcherOption configures a Watcher.
type WatcherOption func(*Watcher)

// WithDebounce sets the debounce delay for file change events.
func WithDebounce(d time.Duration) WatcherOption {
	return func(w *Watcher) {
		w.debounce = d
	}
}

// WithWatcherLogger sets the logger used by the watcher.
func WithWatcherLogger(logger observability.Logger) WatcherOption {
	return func(w *Watcher) {
		w.logger = logger
	}
}

// WithErrorCallback sets the callback invoked on reload failures.
func WithErrorCallback(cb ErrorCallback) WatcherOption {
	return func(w *Watcher) {
		w.onError = cb
	}
}

// NewWatcher creates a watcher for the given configuration file.
func NewWatcher(path string, onReload ReloadCallback, opts ...WatcherOption) (*Watcher, error) {
	if path == "" {
		return nil, fmt.Errorf("watcher requires a config file path")
	}
	if onReload == nil {
		return nil, fmt.Errorf("watcher requires a reload callback")
	}

	w := &Watcher{
		path:      path,
		onReload:  onReload,
		logger:    observability.NopLogger(),
		debounce:  100 * time.Millisecond,
		stopCh:    make(chan struct{}),
		stoppedCh: make(chan struct{}),
	}

	for _, opt := range opts {
		opt(w)
	}

	fsWatcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create fsnotify watcher: %w", err)
	}

	if err := fsWatcher.Add(filepath.Dir(path)); err != nil {
		fsWatcher.Close()
		return nil, fmt.Errorf("watch config directory: %w", err)
	}

	w.fsWatcher = fsWatcher
	return w, nil
}

// Start begins watching in a background goroutine.
func (w *Watcher) Start() {
	go w.run()
}

// Stop stops the watcher and waits for the event loop to exit.
func (w *Watcher) Stop() {
	w.stopOnce.Do(func() {
		close(w.stopCh)
		<-w.stoppedCh
		w.fsWatcher.Close()
	})
}

func (w *Watcher) run() {
	defer close(w.stoppedCh)

	var timer *time.Timer
	var timerCh <-chan time.Time

	for {
		select {
		case <-w.stopCh:
			if timer != nil {
				timer.Stop()
			}
			return

		case event, ok := <-w.fsWatcher.Events:
			if !ok {
				return
			}
			if !w.relevant(event) {
				continue
			}
			if timer == nil {
				timer = time.NewTimer(w.debounce)
				timerCh = timer.C
			} else {
				if !timer.Stop() {
					select {
					case <-timer.C:
					default:
					}
				}
				timer.Reset(w.debounce)
			}

		case <-timerCh:
			timer = nil
			timerCh = nil
			w.reload()

		case err, ok := <-w.fsWatcher.Errors:
			if !ok {
				return
			}
			w.logger.Warn("config watcher error", observability.Error(err))
		}
	}
}

func (w *Watcher) relevant(event fsnotify.Event) bool {
	if filepath.Base(event.Name) != filepath.Base(w.path) {
		return false
	}
	return event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) != 0
}

func (w *Watcher) reload() {
	cfg, err := Load(w.path)
	if err != nil {
		w.logger.Warn("config reload failed, keeping previous config",
			observability.String("path", w.path),
			observability.Error(err))
		if w.onError != nil {
			w.onError(err)
		}
		return
	}

	w.logger.Info("config reloaded", observability.String("path", w.path))
	w.onReload(cfg)
}
