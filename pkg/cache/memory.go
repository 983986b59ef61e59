package cache

import (
	"container/list"
	"context"
	"sync"
	"time"
)

type entry[V any] struct {
	key       string
	value     V
	expiresAt time.Time // zero: never
}

// Memory is an in-process Cache. Expired entries are dropped on access and by
// a background janitor. When MaxEntries is set, the oldest entry is evicted to
// make room for a new one.
type Memory[V any] struct {
	mu     sync.Mutex
	items  map[string]*list.Element
	order  *list.List // front: newest
	opts   memoryOptions
	done   chan struct{}
	closed bool
}

var _ Cache[any] = (*Memory[any])(nil)

// NewMemory creates an in-memory cache. Call Close to stop the janitor.
func NewMemory[V any](opts ...MemoryOption) *Memory[V] {
	o := memoryOptions{
		defaultTTL:      time.Hour,
		cleanupInterval: time.Minute,
		now:             time.Now,
	}
	for _, opt := range opts {
		opt(&o)
	}

	m := &Memory[V]{
		items: make(map[string]*list.Element),
		order: list.New(),
		opts:  o,
		done:  make(chan struct{}),
	}
	if o.cleanupInterval > 0 {
		go m.janitor()
	}
	return m
}

func (m *Memory[V]) Get(_ context.Context, key string) (V, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.lookup(key, false)
}

func (m *Memory[V]) Take(_ context.Context, key string) (V, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.lookup(key, true)
}

func (m *Memory[V]) Set(_ context.Context, key string, value V, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return ErrClosed
	}
	if ttl == 0 {
		ttl = m.opts.defaultTTL
	}
	var expiresAt time.Time
	if ttl > 0 {
		expiresAt = m.opts.now().Add(ttl)
	}

	if elem, ok := m.items[key]; ok {
		m.order.Remove(elem)
		delete(m.items, key)
	}
	if m.opts.maxEntries > 0 && len(m.items) >= m.opts.maxEntries {
		m.removeExpired()
		if len(m.items) >= m.opts.maxEntries {
			m.remove(m.order.Back())
		}
	}

	m.items[key] = m.order.PushFront(&entry[V]{key: key, value: value, expiresAt: expiresAt})
	return nil
}

func (m *Memory[V]) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return ErrClosed
	}
	if elem, ok := m.items[key]; ok {
		m.remove(elem)
	}
	return nil
}

// Len returns the number of stored entries, including expired ones the
// janitor has not collected yet.
func (m *Memory[V]) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.items)
}

// Close stops the janitor. It is safe to call more than once.
func (m *Memory[V]) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.closed {
		m.closed = true
		close(m.done)
	}
	return nil
}

// lookup must be called with mu held.
func (m *Memory[V]) lookup(key string, take bool) (V, error) {
	var zero V
	if m.closed {
		return zero, ErrClosed
	}
	elem, ok := m.items[key]
	if !ok {
		return zero, ErrNotFound
	}
	e := elem.Value.(*entry[V])
	if m.expired(e, m.opts.now()) {
		m.remove(elem)
		return zero, ErrNotFound
	}
	if take {
		m.remove(elem)
	}
	return e.value, nil
}

func (m *Memory[V]) expired(e *entry[V], now time.Time) bool {
	return !e.expiresAt.IsZero() && !now.Before(e.expiresAt)
}

func (m *Memory[V]) janitor() {
	ticker := time.NewTicker(m.opts.cleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-m.done:
			return
		case <-ticker.C:
			m.mu.Lock()
			m.removeExpired()
			m.mu.Unlock()
		}
	}
}

// removeExpired must be called with mu held.
func (m *Memory[V]) removeExpired() {
	now := m.opts.now()
	for elem := m.order.Back(); elem != nil; {
		prev := elem.Prev()
		if m.expired(elem.Value.(*entry[V]), now) {
			m.remove(elem)
		}
		elem = prev
	}
}

func (m *Memory[V]) remove(elem *list.Element) {
	if elem == nil {
		return
	}
	m.order.Remove(elem)
	delete(m.items, elem.Value.(*entry[V]).key)
}
