// Package kv is the persistent record space every store builds on: an
// origin-scoped, textually-serialized key-value area with last-writer-wins
// semantics. There is no locking, versioning, or compare-and-swap between
// concurrent writers; a write silently overwrites concurrent changes.
package kv

import (
	"context"
	"sync"
)

// Store is a flat key-value space of JSON text records.
//
// Watch registers fn to run whenever the key's value changes and returns an
// unsubscribe handle. Backends that can observe writes from other processes
// (redis) notify on those too; the others only see local writes.
type Store interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
	Watch(key string, fn func()) func()
	Ping(ctx context.Context) error
	Close() error
}

// Memory is the in-process backend, the demo default and the one tests use.
type Memory struct {
	mu       sync.RWMutex
	data     map[string]string
	watchers *watcherSet
}

func NewMemory() *Memory {
	return &Memory{
		data:     make(map[string]string),
		watchers: newWatcherSet(),
	}
}

func (m *Memory) Get(ctx context.Context, key string) (string, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	value, ok := m.data[key]

	return value, ok, nil
}

func (m *Memory) Set(ctx context.Context, key, value string) error {
	m.mu.Lock()
	m.data[key] = value
	m.mu.Unlock()

	m.watchers.notify(key)

	return nil
}

func (m *Memory) Delete(ctx context.Context, key string) error {
	m.mu.Lock()
	delete(m.data, key)
	m.mu.Unlock()

	m.watchers.notify(key)

	return nil
}

func (m *Memory) Watch(key string, fn func()) func() {
	return m.watchers.add(key, fn)
}

func (m *Memory) Ping(ctx context.Context) error { return nil }

func (m *Memory) Close() error { return nil }

// watcherSet tracks per-key change callbacks. Delivery is synchronous and in
// unspecified order, the same contract the change topics carry.
type watcherSet struct {
	mu   sync.Mutex
	seq  int
	fns  map[string]map[int]func()
}

func newWatcherSet() *watcherSet {
	return &watcherSet{fns: make(map[string]map[int]func())}
}

func (w *watcherSet) add(key string, fn func()) func() {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.seq++
	id := w.seq

	if w.fns[key] == nil {
		w.fns[key] = make(map[int]func())
	}

	w.fns[key][id] = fn

	return func() {
		w.mu.Lock()
		defer w.mu.Unlock()

		delete(w.fns[key], id)
	}
}

func (w *watcherSet) notify(key string) {
	w.mu.Lock()

	fns := make([]func(), 0, len(w.fns[key]))
	for _, fn := range w.fns[key] {
		fns = append(fns, fn)
	}

	w.mu.Unlock()

	for _, fn := range fns {
		fn()
	}
}
