// Package kv provides a key-value store with hierarchical keys. Keys are
// slices of segments, e.g. Key{"project", "demo", "save", "0001"}, encoded
// for storage by joining the segments with ':'.
//
// There is a BadgerDB-backed implementation for persistent storage and an
// in-memory one for tests.
package kv

import (
	"context"
	"errors"
	"iter"
	"strings"
)

// ErrNotFound is returned when a key does not exist in the store.
var ErrNotFound = errors.New("kv: not found")

// Separator joins the segments of a key. Segments must not contain it.
const Separator = ":"

// Key is a hierarchical path of segments.
type Key []string

func (k Key) String() string {
	return strings.Join(k, Separator)
}

func (k Key) encode() []byte { return []byte(k.String()) }

// prefix returns the encoded prefix of all the keys below k. The trailing
// separator keeps "a:b" from matching "a:bc".
func (k Key) prefix() []byte {
	if len(k) == 0 {
		return nil
	}
	return []byte(k.String() + Separator)
}

func decode(b []byte) Key {
	return Key(strings.Split(string(b), Separator))
}

// Entry is a key-value pair returned by List and used by BatchSet.
type Entry struct {
	Key   Key
	Value []byte
}

// Store is a key-value store with path-based keys.
type Store interface {
	// Get returns the value of key, or ErrNotFound.
	Get(ctx context.Context, key Key) ([]byte, error)

	// Set stores a value, overwriting any previous one.
	Set(ctx context.Context, key Key, value []byte) error

	// Delete removes a key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key Key) error

	// List iterates over all the entries below prefix, in lexicographic
	// order of the encoded keys.
	List(ctx context.Context, prefix Key) iter.Seq2[Entry, error]

	// BatchSet stores several entries atomically.
	BatchSet(ctx context.Context, entries []Entry) error

	// BatchDelete removes several keys atomically.
	BatchDelete(ctx context.Context, keys []Key) error

	Close() error
}
