package store

import (
	"context"
	"sort"
	"strings"
	"sync"
)

// NewMemory returns a session scoped Persistence that keeps everything in
// process memory.
func NewMemory() Persistence {
	return &persistence{b: &memoryBackend{values: make(map[string][]byte)}}
}

type memoryBackend struct {
	mu     sync.Mutex
	values map[string][]byte
	subs   []chan Event
}

func (m *memoryBackend) read(_ context.Context, key string) ([]byte, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	val, ok := m.values[key]
	if !ok {
		return nil, false, nil
	}
	return append([]byte{}, val...), true, nil
}

func (m *memoryBackend) write(_ context.Context, key string, val []byte) error {
	m.mu.Lock()
	m.values[key] = append([]byte{}, val...)
	m.mu.Unlock()
	m.publish(key)
	return nil
}

func (m *memoryBackend) erase(_ context.Context, key string) error {
	m.mu.Lock()
	_, ok := m.values[key]
	delete(m.values, key)
	m.mu.Unlock()
	if ok {
		m.publish(key)
	}
	return nil
}

func (m *memoryBackend) keys(_ context.Context, prefix string) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, 0, len(m.values))
	for key := range m.values {
		if strings.HasPrefix(key, prefix) {
			out = append(out, key)
		}
	}
	sort.Strings(out)
	return out, nil
}

func (m *memoryBackend) watch(ctx context.Context) (<-chan Event, error) {
	ch := make(chan Event, 64)
	m.mu.Lock()
	m.subs = append(m.subs, ch)
	m.mu.Unlock()

	go func() {
		<-ctx.Done()
		m.mu.Lock()
		defer m.mu.Unlock()
		for i, sub := range m.subs {
			if sub == ch {
				m.subs = append(m.subs[:i], m.subs[i+1:]...)
				break
			}
		}
		close(ch)
	}()
	return ch, nil
}

func (m *memoryBackend) publish(key string) {
	ev := Event{Type: EventCatalogInvalidated}
	if k, ok := MonthForKey(key); ok {
		ev = Event{Type: EventMonthChanged, Month: k}
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, sub := range m.subs {
		select {
		case sub <- ev:
		default:
		}
	}
}

func (m *memoryBackend) close() error { return nil }
