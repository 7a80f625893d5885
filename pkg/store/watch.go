package store

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	"tableflip.dev/habits/pkg/month"
)

// EventType describes the nature of a persistence change notification.
type EventType int

const (
	// EventMonthChanged indicates the record for Month was written or removed.
	EventMonthChanged EventType = iota

	// EventCatalogInvalidated signals that the month catalog or the active
	// pointer may have changed and callers should reload their full view.
	EventCatalogInvalidated
)

// Event is emitted by Persistence.Watch when underlying storage changes.
type Event struct {
	Type  EventType
	Month month.Key
}

const watchDelay = 100 * time.Millisecond

// watchTree streams classified fsnotify events for root and its
// subdirectories until ctx is cancelled. Callers should drain the returned
// channel; events are dropped rather than blocking the watcher. Watcher
// failures are logged to log.
func watchTree(ctx context.Context, root string, log *zap.Logger, classify func(path string) (Event, bool)) (<-chan Event, error) {
	if log == nil {
		log = zap.NewNop()
	}
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("store: ensure base path: %w", err)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("store: create watcher: %w", err)
	}
	var closeOnce sync.Once
	closeWatcher := func() {
		closeOnce.Do(func() { _ = watcher.Close() })
	}

	dirs, err := collectDirs(root)
	if err != nil {
		closeWatcher()
		return nil, fmt.Errorf("store: enumerate directories: %w", err)
	}
	for _, dir := range dirs {
		if err := watcher.Add(dir); err != nil {
			closeWatcher()
			return nil, fmt.Errorf("store: watch %s: %w", dir, err)
		}
	}

	events := make(chan Event, 64)

	go func() {
		defer close(events)
		defer closeWatcher()

		watched := make(map[string]struct{}, len(dirs))
		for _, dir := range dirs {
			watched[dir] = struct{}{}
		}

		send := func(ev Event) {
			select {
			case events <- ev:
			default:
			}
		}

		throttle := newEventThrottle(watchDelay)
		defer throttle.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				log.Warn("store watch error", zap.String("root", root), zap.Error(err))
				throttle.Enqueue(Event{Type: EventCatalogInvalidated}, send)
			case evt, ok := <-watcher.Events:
				if !ok {
					return
				}
				if evt.Op&fsnotify.Create == fsnotify.Create {
					if info, err := os.Stat(evt.Name); err == nil && info.IsDir() {
						dir := filepath.Clean(evt.Name)
						if _, found := watched[dir]; !found && watchDir(watcher, dir, log) {
							watched[dir] = struct{}{}
						}
						// A new directory may hold writes we raced past.
						if _, ok := classify(dir); ok {
							throttle.Enqueue(Event{Type: EventCatalogInvalidated}, send)
						}
						continue
					}
				}
				if ev, ok := classify(evt.Name); ok {
					throttle.Enqueue(ev, send)
				}
			}
		}
	}()

	return events, nil
}

// watchDir adds dir to watcher, logging a failure.
func watchDir(watcher *fsnotify.Watcher, dir string, log *zap.Logger) bool {
	if err := watcher.Add(dir); err != nil {
		log.Warn("store watch: can not watch new directory", zap.String("dir", dir), zap.Error(err))
		return false
	}
	return true
}

// collectDirs walks base and returns all directories that should be watched.
func collectDirs(base string) ([]string, error) {
	dirs := []string{base}
	err := filepath.WalkDir(base, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return nil
			}
			return err
		}
		if d.IsDir() && path != base {
			dirs = append(dirs, path)
		}
		return nil
	})
	return dirs, err
}

// eventThrottle coalesces rapid change notifications so a UI reloads once per
// burst of writes.
type eventThrottle struct {
	mu      sync.Mutex
	timer   *time.Timer
	pending map[Event]struct{}
	delay   time.Duration
	stopped bool
}

func newEventThrottle(delay time.Duration) *eventThrottle {
	return &eventThrottle{
		delay:   delay,
		pending: make(map[Event]struct{}),
	}
}

func (t *eventThrottle) Enqueue(ev Event, send func(Event)) {
	t.mu.Lock()
	if t.stopped {
		t.mu.Unlock()
		return
	}
	t.pending[ev] = struct{}{}
	if t.timer == nil {
		t.timer = time.AfterFunc(t.delay, func() {
			t.flush(send)
		})
	}
	t.mu.Unlock()
}

// flush holds the lock while sending so nothing is delivered after Stop.
// send must not block.
func (t *eventThrottle) flush(send func(Event)) {
	t.mu.Lock()
	defer t.mu.Unlock()
	pending := t.pending
	t.pending = make(map[Event]struct{})
	t.timer = nil
	if t.stopped {
		return
	}
	for ev := range pending {
		send(ev)
	}
}

func (t *eventThrottle) Stop() {
	t.mu.Lock()
	t.stopped = true
	if t.timer != nil {
		t.timer.Stop()
		t.timer = nil
	}
	t.mu.Unlock()
}
