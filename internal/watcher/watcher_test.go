// # internal/watcher/watcher_test.go
package watcher

import (
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"codescope/internal/scanner"
)

func newTestWatcher(t *testing.T, root string, debounce time.Duration) *Watcher {
	t.Helper()
	scan, err := scanner.New(root, []string{"node_modules"}, nil)
	if err != nil {
		t.Fatal(err)
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	w, err := New(root, debounce, scan, logger)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { w.Close() })
	return w
}

func collectEvents(w *Watcher) (*sync.Mutex, *[]Event) {
	var mu sync.Mutex
	var events []Event
	w.Subscribe(func(ev Event) {
		mu.Lock()
		events = append(events, ev)
		mu.Unlock()
	})
	return &mu, &events
}

// waitForPending polls until the watcher has absorbed raw events into its
// pending set, or the deadline passes.
func waitForPending(w *Watcher, deadline time.Duration) {
	end := time.Now().Add(deadline)
	for time.Now().Before(end) {
		w.mu.Lock()
		n := len(w.pending)
		w.mu.Unlock()
		if n > 0 {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func TestWatcher_CoalescesCreateAndWrites(t *testing.T) {
	root := t.TempDir()
	// A debounce far longer than the test keeps timers from firing on
	// their own; FlushAll drives delivery deterministically.
	w := newTestWatcher(t, root, time.Minute)
	mu, events := collectEvents(w)

	p := filepath.Join(root, "a.ts")
	if err := os.WriteFile(p, []byte("export const a = 1;\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(p, []byte("export const a = 2;\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	waitForPending(w, 2*time.Second)
	w.FlushAll()

	mu.Lock()
	defer mu.Unlock()
	if len(*events) != 1 {
		t.Fatalf("got %d events, want 1: %v", len(*events), *events)
	}
	ev := (*events)[0]
	if ev.Type != EventAdd {
		t.Errorf("type = %s, want add (create followed by write)", ev.Type)
	}
	if ev.Path != "a.ts" {
		t.Errorf("path = %s", ev.Path)
	}
	if ev.ID == "" {
		t.Error("event ID missing")
	}
}

func TestWatcher_UnsupportedFilesIgnored(t *testing.T) {
	root := t.TempDir()
	w := newTestWatcher(t, root, time.Minute)
	mu, events := collectEvents(w)

	if err := os.WriteFile(filepath.Join(root, "notes.md"), []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}

	time.Sleep(200 * time.Millisecond)
	w.FlushAll()

	mu.Lock()
	defer mu.Unlock()
	if len(*events) != 0 {
		t.Errorf("events for unsupported file: %v", *events)
	}
}

func TestWatcher_SubscriberPanicIsolated(t *testing.T) {
	root := t.TempDir()
	w := newTestWatcher(t, root, time.Minute)

	w.Subscribe(func(Event) { panic("boom") })
	mu, events := collectEvents(w)

	if err := os.WriteFile(filepath.Join(root, "a.ts"), []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	waitForPending(w, 2*time.Second)
	w.FlushAll()

	mu.Lock()
	defer mu.Unlock()
	if len(*events) != 1 {
		t.Errorf("healthy subscriber missed delivery: %v", *events)
	}
}

func TestWatcher_Unsubscribe(t *testing.T) {
	root := t.TempDir()
	w := newTestWatcher(t, root, time.Minute)

	mu, events := collectEvents(w)
	id := w.Subscribe(func(Event) { t.Error("unsubscribed handler called") })
	w.Unsubscribe(id)

	if err := os.WriteFile(filepath.Join(root, "a.ts"), []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	waitForPending(w, 2*time.Second)
	w.FlushAll()

	mu.Lock()
	defer mu.Unlock()
	if len(*events) != 1 {
		t.Errorf("got %d deliveries, want 1", len(*events))
	}
}

func TestMergeType(t *testing.T) {
	cases := []struct {
		prev, next, want EventType
	}{
		{EventAdd, EventChange, EventAdd},
		{EventAdd, EventUnlink, ""},
		{EventChange, EventChange, EventChange},
		{EventChange, EventUnlink, EventUnlink},
		{EventUnlink, EventAdd, EventChange},
	}
	for _, tc := range cases {
		if got := mergeType(tc.prev, tc.next); got != tc.want {
			t.Errorf("mergeType(%s, %s) = %s, want %s", tc.prev, tc.next, got, tc.want)
		}
	}
}
