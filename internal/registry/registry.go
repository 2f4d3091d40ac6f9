// Package registry holds in-flight entries keyed by span id.
//
// The registry is split into a fixed number of shards, each guarded by its own
// mutex, so that lifecycles of unrelated spans running on different goroutines
// rarely contend on the same lock.
package registry

import (
	"sync"

	"github.com/cespare/xxhash/v2"
)

const shardCount = 64

type shard[V any] struct {
	mu      sync.Mutex
	entries map[string]V
}

// Registry is a concurrent map from span id to V. The zero value is not usable,
// use New.
type Registry[V any] struct {
	shards [shardCount]*shard[V]
}

func New[V any]() *Registry[V] {
	r := &Registry[V]{}
	for i := range r.shards {
		r.shards[i] = &shard[V]{entries: make(map[string]V)}
	}

	return r
}

func (r *Registry[V]) shardFor(key string) *shard[V] {
	return r.shards[xxhash.Sum64String(key)%shardCount]
}

// Insert stores v under key, replacing any previous entry.
func (r *Registry[V]) Insert(key string, v V) {
	s := r.shardFor(key)

	s.mu.Lock()
	s.entries[key] = v
	s.mu.Unlock()
}

// Remove deletes the entry for key and returns it. The second result reports
// whether an entry was present.
func (r *Registry[V]) Remove(key string) (V, bool) {
	s := r.shardFor(key)

	s.mu.Lock()
	defer s.mu.Unlock()

	v, ok := s.entries[key]
	if ok {
		delete(s.entries, key)
	}

	return v, ok
}

func (r *Registry[V]) Get(key string) (V, bool) {
	s := r.shardFor(key)

	s.mu.Lock()
	defer s.mu.Unlock()

	v, ok := s.entries[key]

	return v, ok
}

// Len counts entries across all shards. The result is only a snapshot when
// other goroutines are mutating the registry.
func (r *Registry[V]) Len() int {
	n := 0

	for _, s := range r.shards {
		s.mu.Lock()
		n += len(s.entries)
		s.mu.Unlock()
	}

	return n
}
