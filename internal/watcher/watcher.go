// # internal/watcher/watcher.go
package watcher

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/google/uuid"

	"codescope/internal/scanner"
)

// EventType classifies a coalesced filesystem change.
type EventType string

const (
	EventAdd    EventType = "add"
	EventChange EventType = "change"
	EventUnlink EventType = "unlink"
)

// Event is one debounced change delivered to subscribers. Path is relative
// to the watched root, slash-separated.
type Event struct {
	ID        string
	Type      EventType
	Path      string
	Timestamp time.Time
}

// Handler receives debounced events. Handlers run on the watcher's
// dispatch goroutine; a panicking handler is recovered and logged so it
// cannot take down the other subscribers.
type Handler func(Event)

type pending struct {
	typ   EventType
	timer *time.Timer
}

// Watcher wraps fsnotify with per-path debouncing. Rapid consecutive
// events on the same path collapse into one, with the final event type
// determined by the sequence: a create followed by writes is still an add,
// a create followed by a remove cancels entirely.
type Watcher struct {
	root     string
	debounce time.Duration
	scan     *scanner.Scanner
	fw       *fsnotify.Watcher
	logger   *slog.Logger

	mu          sync.Mutex
	pending     map[string]*pending
	subscribers map[int]Handler
	nextSub     int
	closed      bool

	done chan struct{}
	wg   sync.WaitGroup
}

func New(root string, debounce time.Duration, scan *scanner.Scanner, logger *slog.Logger) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create fsnotify watcher: %w", err)
	}

	w := &Watcher{
		root:        root,
		debounce:    debounce,
		scan:        scan,
		fw:          fw,
		logger:      logger,
		pending:     make(map[string]*pending),
		subscribers: make(map[int]Handler),
		done:        make(chan struct{}),
	}

	if err := w.addRecursive(root); err != nil {
		fw.Close()
		return nil, err
	}

	w.wg.Add(1)
	go w.loop()
	return w, nil
}

// Subscribe registers a handler and returns a token for Unsubscribe.
func (w *Watcher) Subscribe(h Handler) int {
	w.mu.Lock()
	defer w.mu.Unlock()
	id := w.nextSub
	w.nextSub++
	w.subscribers[id] = h
	return id
}

func (w *Watcher) Unsubscribe(id int) {
	w.mu.Lock()
	defer w.mu.Unlock()
	delete(w.subscribers, id)
}

// FlushAll fires every pending debounce immediately. Used by tests and by
// shutdown so queued changes are not lost.
func (w *Watcher) FlushAll() {
	w.mu.Lock()
	paths := make([]string, 0, len(w.pending))
	for p, pe := range w.pending {
		if pe.timer.Stop() {
			paths = append(paths, p)
		}
	}
	w.mu.Unlock()

	for _, p := range paths {
		w.fire(p)
	}
}

func (w *Watcher) Close() error {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return nil
	}
	w.closed = true
	for _, pe := range w.pending {
		pe.timer.Stop()
	}
	w.pending = make(map[string]*pending)
	w.mu.Unlock()

	close(w.done)
	err := w.fw.Close()
	w.wg.Wait()
	return err
}

func (w *Watcher) addRecursive(root string) error {
	return filepath.WalkDir(root, func(p string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if p != root && w.scan.ExcludeDir(filepath.Base(p)) {
			return filepath.SkipDir
		}
		if err := w.fw.Add(p); err != nil {
			return fmt.Errorf("watch %s: %w", p, err)
		}
		return nil
	})
}

func (w *Watcher) loop() {
	defer w.wg.Done()
	for {
		select {
		case <-w.done:
			return
		case ev, ok := <-w.fw.Events:
			if !ok {
				return
			}
			w.handleRaw(ev)
		case err, ok := <-w.fw.Errors:
			if !ok {
				return
			}
			w.logger.Warn("watch error", "error", err)
		}
	}
}

func (w *Watcher) handleRaw(ev fsnotify.Event) {
	// New directories need to be added to the watch set before any files
	// inside them produce events.
	if ev.Op.Has(fsnotify.Create) {
		if info, err := os.Stat(ev.Name); err == nil && info.IsDir() {
			if !w.scan.ExcludeDir(filepath.Base(ev.Name)) {
				if err := w.addRecursive(ev.Name); err != nil {
					w.logger.Warn("watch new directory", "path", ev.Name, "error", err)
				}
			}
			return
		}
	}

	if !scanner.SupportedExtension(ev.Name) {
		return
	}
	base := filepath.Base(ev.Name)
	if w.scan.ExcludeFile(base) {
		return
	}

	rel, err := filepath.Rel(w.root, ev.Name)
	if err != nil {
		return
	}
	rel = filepath.ToSlash(rel)

	var typ EventType
	switch {
	case ev.Op.Has(fsnotify.Create):
		typ = EventAdd
	case ev.Op.Has(fsnotify.Write):
		typ = EventChange
	case ev.Op.Has(fsnotify.Remove), ev.Op.Has(fsnotify.Rename):
		typ = EventUnlink
	default:
		return
	}

	w.coalesce(rel, typ)
}

// coalesce merges a raw event into the pending entry for its path and
// (re)arms the debounce timer.
func (w *Watcher) coalesce(rel string, typ EventType) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return
	}

	pe, ok := w.pending[rel]
	if !ok {
		pe = &pending{typ: typ}
		pe.timer = time.AfterFunc(w.debounce, func() {
			w.fire(rel)
		})
		w.pending[rel] = pe
		return
	}

	pe.typ = mergeType(pe.typ, typ)
	if pe.typ == "" {
		// Created and removed within one debounce window: nothing happened.
		pe.timer.Stop()
		delete(w.pending, rel)
		return
	}
	pe.timer.Reset(w.debounce)
}

func mergeType(prev, next EventType) EventType {
	switch {
	case prev == EventAdd && next == EventChange:
		return EventAdd
	case prev == EventAdd && next == EventUnlink:
		return ""
	case prev == EventUnlink && next == EventAdd:
		return EventChange
	default:
		return next
	}
}

func (w *Watcher) fire(rel string) {
	w.mu.Lock()
	pe, ok := w.pending[rel]
	if !ok {
		w.mu.Unlock()
		return
	}
	delete(w.pending, rel)
	typ := pe.typ
	handlers := make([]Handler, 0, len(w.subscribers))
	for _, h := range w.subscribers {
		handlers = append(handlers, h)
	}
	w.mu.Unlock()

	ev := Event{
		ID:        uuid.NewString(),
		Type:      typ,
		Path:      rel,
		Timestamp: time.Now(),
	}

	for _, h := range handlers {
		w.deliver(h, ev)
	}
}

func (w *Watcher) deliver(h Handler, ev Event) {
	defer func() {
		if r := recover(); r != nil {
			w.logger.Error("subscriber panicked", "path", ev.Path, "panic", r)
		}
	}()
	h(ev)
}
