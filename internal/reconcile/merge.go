// Package reconcile merges incremental batches into an existing collection
// keyed by identity.
package reconcile

// Index is an insertion-ordered map from identity to record. Overwriting an
// existing key keeps its original position.
type Index[T any] struct {
	keys   []string
	values map[string]T
}

// NewIndex creates an empty index with room for n records
func NewIndex[T any](n int) *Index[T] {
	return &Index[T]{
		keys:   make([]string, 0, n),
		values: make(map[string]T, n),
	}
}

// Put inserts or overwrites the record stored at key
func (ix *Index[T]) Put(key string, v T) {
	if _, ok := ix.values[key]; !ok {
		ix.keys = append(ix.keys, key)
	}
	ix.values[key] = v
}

// Get returns the record stored at key
func (ix *Index[T]) Get(key string) (T, bool) {
	v, ok := ix.values[key]
	return v, ok
}

// Len returns the number of distinct keys
func (ix *Index[T]) Len() int { return len(ix.keys) }

// Values returns the records in insertion order
func (ix *Index[T]) Values() []T {
	out := make([]T, 0, len(ix.keys))
	for _, k := range ix.keys {
		out = append(out, ix.values[k])
	}
	return out
}

// Merge combines existing with an incremental batch. Records from incoming
// replace existing ones with the same key (last write wins); new keys are
// appended in batch order. Neither input is modified.
func Merge[T any](existing, incoming []T, key func(T) string) []T {
	ix := NewIndex[T](len(existing) + len(incoming))
	for _, v := range existing {
		ix.Put(key(v), v)
	}
	for _, v := range incoming {
		ix.Put(key(v), v)
	}
	return ix.Values()
}

// Dedupe collapses records sharing a key, keeping the last one at the first
// position the key was seen.
func Dedupe[T any](items []T, key func(T) string) []T {
	return Merge(nil, items, key)
}
