// Package kv provides a key-value store seam with per-key TTL support
package kv

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound is returned when a key is absent or its entry has expired
var ErrNotFound = errors.New("kv: key not found")

// IsNotFound reports whether err means the key was absent or expired
func IsNotFound(err error) bool { return errors.Is(err, ErrNotFound) }

// Entry is a stored key-value pair with optional metadata and expiry
type Entry struct {
	Key       string
	Value     []byte
	Metadata  map[string]any
	ExpiresAt *time.Time
}

// PutOptions controls write behavior
type PutOptions struct {
	// TTL expires the entry after the given duration, 0 means no expiry
	TTL time.Duration

	// Metadata is stored alongside the value
	Metadata map[string]any
}

// ListOptions controls prefix scans
type ListOptions struct {
	// Limit caps the number of entries returned, 0 means no cap
	Limit int

	// Desc returns entries in descending key order
	Desc bool
}

// Store is the key-value seam drivers implement
// expired entries behave as absent on every operation
type Store interface {
	// Get returns the live entry for key or ErrNotFound
	Get(ctx context.Context, key string) (Entry, error)

	// Put stores value under key, replacing any existing entry
	Put(ctx context.Context, key string, value []byte, opts PutOptions) error

	// PutIfAbsent stores value only when no live entry exists for key
	// it reports whether the write happened
	PutIfAbsent(ctx context.Context, key string, value []byte, opts PutOptions) (bool, error)

	// Delete removes key, absent keys are not an error
	Delete(ctx context.Context, key string) error

	// List returns live entries whose key starts with prefix, ordered by key
	List(ctx context.Context, prefix string, opts ListOptions) ([]Entry, error)

	// Ping reports backend readiness
	Ping(ctx context.Context) error

	// Close releases backend resources
	Close(ctx context.Context) error
}
