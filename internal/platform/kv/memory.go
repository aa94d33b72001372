package kv

import (
	"context"
	"maps"
	"sort"
	"strings"
	"sync"
	"time"
)

// memEntry is the stored form inside the memory driver
type memEntry struct {
	value     []byte
	metadata  map[string]any
	expiresAt time.Time // zero means no expiry
}

func (e memEntry) expired(now time.Time) bool {
	return !e.expiresAt.IsZero() && !e.expiresAt.After(now)
}

// Memory is an in-process Store for development and tests
type Memory struct {
	mu      sync.RWMutex
	entries map[string]memEntry

	// now is a seam for expiry tests
	now func() time.Time
}

// NewMemory creates an empty in-process store
func NewMemory() *Memory {
	return &Memory{
		entries: make(map[string]memEntry),
		now:     time.Now,
	}
}

func (m *Memory) Get(_ context.Context, key string) (Entry, error) {
	m.mu.RLock()
	e, ok := m.entries[key]
	m.mu.RUnlock()
	if !ok || e.expired(m.now()) {
		return Entry{}, ErrNotFound
	}
	return m.export(key, e), nil
}

func (m *Memory) Put(_ context.Context, key string, value []byte, opts PutOptions) error {
	m.mu.Lock()
	m.entries[key] = m.build(value, opts)
	m.mu.Unlock()
	return nil
}

func (m *Memory) PutIfAbsent(_ context.Context, key string, value []byte, opts PutOptions) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if e, ok := m.entries[key]; ok && !e.expired(m.now()) {
		return false, nil
	}
	m.entries[key] = m.build(value, opts)
	return true, nil
}

func (m *Memory) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	delete(m.entries, key)
	m.mu.Unlock()
	return nil
}

func (m *Memory) List(_ context.Context, prefix string, opts ListOptions) ([]Entry, error) {
	now := m.now()

	m.mu.RLock()
	keys := make([]string, 0, len(m.entries))
	for k, e := range m.entries {
		if strings.HasPrefix(k, prefix) && !e.expired(now) {
			keys = append(keys, k)
		}
	}
	m.mu.RUnlock()

	sort.Strings(keys)
	if opts.Desc {
		for i, j := 0, len(keys)-1; i < j; i, j = i+1, j-1 {
			keys[i], keys[j] = keys[j], keys[i]
		}
	}
	if opts.Limit > 0 && len(keys) > opts.Limit {
		keys = keys[:opts.Limit]
	}

	out := make([]Entry, 0, len(keys))
	m.mu.RLock()
	for _, k := range keys {
		if e, ok := m.entries[k]; ok {
			out = append(out, m.export(k, e))
		}
	}
	m.mu.RUnlock()
	return out, nil
}

func (m *Memory) Ping(context.Context) error { return nil }

func (m *Memory) Close(context.Context) error { return nil }

// Sweep drops expired entries eagerly, callers may run it on a timer
func (m *Memory) Sweep() int {
	now := m.now()
	m.mu.Lock()
	defer m.mu.Unlock()
	var dropped int
	for k, e := range m.entries {
		if e.expired(now) {
			delete(m.entries, k)
			dropped++
		}
	}
	return dropped
}

func (m *Memory) build(value []byte, opts PutOptions) memEntry {
	e := memEntry{value: append([]byte(nil), value...)}
	if opts.TTL > 0 {
		e.expiresAt = m.now().Add(opts.TTL)
	}
	if len(opts.Metadata) > 0 {
		e.metadata = maps.Clone(opts.Metadata)
	}
	return e
}

func (m *Memory) export(key string, e memEntry) Entry {
	out := Entry{
		Key:   key,
		Value: append([]byte(nil), e.value...),
	}
	if len(e.metadata) > 0 {
		out.Metadata = maps.Clone(e.metadata)
	}
	if !e.expiresAt.IsZero() {
		exp := e.expiresAt
		out.ExpiresAt = &exp
	}
	return out
}
