package timeline

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

const grownLog = `{"videoDuration": 5, "events": [
	{"name": "periodic", "timestamp": "2024-03-01T10:00:01Z", "value": 0},
	{"name": "periodic", "timestamp": "2024-03-01T10:00:02Z", "value": 1},
	{"name": "periodic", "timestamp": "2024-03-01T10:00:03Z", "value": 2}
]}`

func waitForEvent(t *testing.T, w *Watcher, match func(WatchEvent) bool) WatchEvent {
	t.Helper()
	timeout := time.After(5 * time.Second)
	for {
		select {
		case ev := <-w.Events:
			if match(ev) {
				return ev
			}
		case <-timeout:
			t.Fatal("timed out waiting for watch event")
		}
	}
}

func TestWatcherReload(t *testing.T) {
	path := filepath.Join(t.TempDir(), "events.json")
	if err := os.WriteFile(path, []byte(sampleLog), 0o600); err != nil {
		t.Fatal(err)
	}

	w, err := NewWatcher(path, DefaultOptions())
	if err != nil {
		t.Fatalf("NewWatcher() error = %v", err)
	}
	defer func() { _ = w.Stop() }()

	if w.Latest() != nil {
		t.Error("Latest() before reload should be nil")
	}

	ev := w.Reload()
	if ev.Err != nil {
		t.Fatalf("Reload() error = %v", ev.Err)
	}
	if ev.Path != w.Path() {
		t.Errorf("event path = %q, want %q", ev.Path, w.Path())
	}
	if w.Latest() != ev.Report {
		t.Error("Latest() should return the reloaded report")
	}

	got := <-w.Events
	if got.Report != ev.Report {
		t.Error("Reload() should publish its result")
	}
}

func TestWatcherAnalyzeDoesNotPublish(t *testing.T) {
	path := filepath.Join(t.TempDir(), "events.json")
	if err := os.WriteFile(path, []byte(sampleLog), 0o600); err != nil {
		t.Fatal(err)
	}

	w, err := NewWatcher(path, DefaultOptions())
	if err != nil {
		t.Fatalf("NewWatcher() error = %v", err)
	}
	defer func() { _ = w.Stop() }()

	ev := w.Analyze()
	if ev.Err != nil {
		t.Fatalf("Analyze() error = %v", ev.Err)
	}
	if w.Latest() != ev.Report {
		t.Error("Latest() should return the analyzed report")
	}
	if n := len(w.Events); n != 0 {
		t.Errorf("Analyze() queued %d events, want 0", n)
	}

	w.Reload()
	if n := len(w.Events); n != 1 {
		t.Errorf("Reload() queued %d events, want 1", n)
	}
}

func TestWatcherLogsDroppedEvents(t *testing.T) {
	path := filepath.Join(t.TempDir(), "events.json")
	if err := os.WriteFile(path, []byte(sampleLog), 0o600); err != nil {
		t.Fatal(err)
	}

	w, err := NewWatcher(path, DefaultOptions())
	if err != nil {
		t.Fatalf("NewWatcher() error = %v", err)
	}
	defer func() { _ = w.Stop() }()

	var buf bytes.Buffer
	w.SetLogger(zerolog.New(&buf))

	for range cap(w.Events) {
		w.Reload()
	}
	if buf.Len() != 0 {
		t.Fatalf("unexpected log output before the channel is full: %s", buf.String())
	}

	w.Reload()
	if !strings.Contains(buf.String(), "watch event dropped") {
		t.Errorf("expected a dropped event warning, got %q", buf.String())
	}
}

func TestWatcherKeepsLastGoodReport(t *testing.T) {
	path := filepath.Join(t.TempDir(), "events.json")
	if err := os.WriteFile(path, []byte(sampleLog), 0o600); err != nil {
		t.Fatal(err)
	}

	w, err := NewWatcher(path, DefaultOptions())
	if err != nil {
		t.Fatalf("NewWatcher() error = %v", err)
	}
	defer func() { _ = w.Stop() }()

	good := w.Reload()
	if err := os.WriteFile(path, []byte(`{"videoDuration": 0}`), 0o600); err != nil {
		t.Fatal(err)
	}
	bad := w.Reload()

	if bad.Err == nil {
		t.Fatal("Reload() of a broken log should fail")
	}
	if w.Latest() != good.Report {
		t.Error("Latest() should keep the last good report")
	}
}

func TestWatcherDetectsRewrite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "events.json")
	if err := os.WriteFile(path, []byte(sampleLog), 0o600); err != nil {
		t.Fatal(err)
	}

	w, err := NewWatcher(path, DefaultOptions())
	if err != nil {
		t.Fatalf("NewWatcher() error = %v", err)
	}
	if err := w.Start(); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	defer func() { _ = w.Stop() }()

	if err := os.WriteFile(path, []byte(grownLog), 0o600); err != nil {
		t.Fatal(err)
	}

	// A rewrite may surface as several writes; wait for the complete one
	ev := waitForEvent(t, w, func(ev WatchEvent) bool {
		return ev.Err == nil && ev.Report.Insights.TotalEvents == 3
	})
	if got := ev.Report.Continuous.Values; len(got) != 3 {
		t.Errorf("Continuous.Values = %v, want [0 1 2]", got)
	}
}

func TestWatchFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "events.json")
	if err := os.WriteFile(path, []byte(sampleLog), 0o600); err != nil {
		t.Fatal(err)
	}

	w, err := WatchFile(path, DefaultOptions(), zerolog.Nop())
	if err != nil {
		t.Fatalf("WatchFile() error = %v", err)
	}
	defer func() { _ = w.Stop() }()

	if err := os.WriteFile(path, []byte(sampleLog), 0o600); err != nil {
		t.Fatal(err)
	}
	ev := waitForEvent(t, w, func(ev WatchEvent) bool { return ev.Err == nil })
	if ev.Report == nil {
		t.Error("expected a report after the rewrite")
	}
}

func TestWatchFileMissingDir(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing", "events.json")

	w, err := WatchFile(path, DefaultOptions(), zerolog.Nop())
	if err == nil {
		_ = w.Stop()
		t.Fatal("WatchFile() should fail when the directory does not exist")
	}
	if w != nil {
		t.Error("WatchFile() should not return a watcher on failure")
	}
}

func TestWatcherStopTwice(t *testing.T) {
	w, err := NewWatcher(filepath.Join(t.TempDir(), "events.json"), DefaultOptions())
	if err != nil {
		t.Fatalf("NewWatcher() error = %v", err)
	}
	if err := w.Stop(); err != nil {
		t.Errorf("Stop() error = %v", err)
	}
	if err := w.Stop(); err != nil {
		t.Errorf("second Stop() error = %v", err)
	}
}
