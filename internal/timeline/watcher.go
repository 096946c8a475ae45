package timeline

import (
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"
)

// WatchEvent carries the result of re-analyzing the watched log
type WatchEvent struct {
	Path   string
	Report *Report // Nil when Err is set
	Err    error
	At     time.Time
}

// Watcher re-runs the pipeline whenever an event log file changes
type Watcher struct {
	fsWatcher *fsnotify.Watcher
	path      string
	opts      Options
	log       zerolog.Logger
	mu        sync.RWMutex
	latest    *Report

	Events chan WatchEvent
	Errors chan error
	done   chan struct{}
	once   sync.Once
}

// NewWatcher creates a watcher for a single event log file
func NewWatcher(path string, opts Options) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		_ = fsw.Close()
		return nil, err
	}

	return &Watcher{
		fsWatcher: fsw,
		path:      abs,
		opts:      opts,
		log:       zerolog.Nop(),
		Events:    make(chan WatchEvent, 16),
		Errors:    make(chan error, 10),
		done:      make(chan struct{}),
	}, nil
}

// WatchFile creates and starts a watcher logging to log. The watcher is
// closed if it cannot be started.
func WatchFile(path string, opts Options, log zerolog.Logger) (*Watcher, error) {
	w, err := NewWatcher(path, opts)
	if err != nil {
		return nil, err
	}
	w.SetLogger(log)
	if err := w.Start(); err != nil {
		_ = w.Stop()
		return nil, err
	}
	return w, nil
}

// SetLogger replaces the default no-op logger. Call it before Start.
func (w *Watcher) SetLogger(l zerolog.Logger) { w.log = l }

// Path returns the absolute path being watched
func (w *Watcher) Path() string { return w.path }

// Start watches the file's directory, so editors that replace the file by
// rename are still seen, and begins delivering events
func (w *Watcher) Start() error {
	if err := w.fsWatcher.Add(filepath.Dir(w.path)); err != nil {
		return err
	}
	go w.watchLoop()
	return nil
}

// Stop stops the watcher. Safe to call more than once.
func (w *Watcher) Stop() error {
	var err error
	w.once.Do(func() {
		close(w.done)
		err = w.fsWatcher.Close()
	})
	return err
}

// Analyze analyzes the file now and records the result for Latest.
// Unlike Reload it does not publish on Events.
func (w *Watcher) Analyze() WatchEvent {
	ev := WatchEvent{Path: w.path, At: time.Now()}
	ev.Report, ev.Err = AnalyzeFile(w.path, w.opts)

	if ev.Err == nil {
		w.mu.Lock()
		w.latest = ev.Report
		w.mu.Unlock()
	}
	return ev
}

// Reload analyzes the file now and publishes the result
func (w *Watcher) Reload() WatchEvent {
	ev := w.Analyze()

	select {
	case w.Events <- ev:
	default:
		w.log.Warn().Str("path", w.path).Msg("watch event dropped, channel full")
	}
	return ev
}

// Latest returns the most recent successful report, or nil
func (w *Watcher) Latest() *Report {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.latest
}

// watchLoop handles fsnotify events
func (w *Watcher) watchLoop() {
	for {
		select {
		case <-w.done:
			return

		case event, ok := <-w.fsWatcher.Events:
			if !ok {
				return
			}
			w.handleFSEvent(event)

		case err, ok := <-w.fsWatcher.Errors:
			if !ok {
				return
			}
			select {
			case w.Errors <- err:
			default:
				w.log.Warn().Err(err).Msg("watch error dropped, channel full")
			}
		}
	}
}

// handleFSEvent reloads on writes to or creation of the watched file
func (w *Watcher) handleFSEvent(event fsnotify.Event) {
	if filepath.Clean(event.Name) != w.path {
		return
	}
	if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
		return
	}
	w.Reload()
}
