// Package tickhash is the bundled hash-map helper referenced by spec §1 as
// an external collaborator: the core (Scope, TypeTable) calls into it only
// through Map's Get/Put/Delete/Len/Keys methods and never inlines its
// bucket layout or hash function.
package tickhash

import (
	"sync"

	"github.com/minio/highwayhash"
)

// hashKey is fixed across the process so two Maps agree on bucket
// placement; it has no secrecy requirement since this is a compiler data
// structure, not a protocol.
var hashKey = [32]byte{
	0x74, 0x69, 0x63, 0x6b, 0x2d, 0x68, 0x61, 0x73,
	0x68, 0x2d, 0x6d, 0x61, 0x70, 0x2d, 0x6b, 0x65,
	0x79, 0x00, 0x01, 0x02, 0x03, 0x04, 0x05, 0x06,
	0x07, 0x08, 0x09, 0x0a, 0x0b, 0x0c, 0x0d, 0x0e,
}

func hashString(s string) uint64 {
	return highwayhash.Sum64([]byte(s), hashKey[:])
}

type entry[V any] struct {
	key  string
	val  V
	next *entry[V]
}

// Map is a chained hash map keyed by string, sized to the small symbol
// tables and type tables a single-file compilation produces. It is not
// safe for concurrent writers (spec §5: no concurrent access is ever
// attempted against the analysis context's tables).
type Map[V any] struct {
	buckets []*entry[V]
	count   int
	mu      sync.Mutex // not locked by any method; Map does no synchronization
}

func New[V any]() *Map[V] {
	return &Map[V]{buckets: make([]*entry[V], 16)}
}

func (m *Map[V]) Len() int { return m.count }

func (m *Map[V]) bucketIndex(key string) int {
	return int(hashString(key) % uint64(len(m.buckets)))
}

func (m *Map[V]) Get(key string) (V, bool) {
	var zero V
	if len(m.buckets) == 0 {
		return zero, false
	}
	for e := m.buckets[m.bucketIndex(key)]; e != nil; e = e.next {
		if e.key == key {
			return e.val, true
		}
	}
	return zero, false
}

func (m *Map[V]) Put(key string, val V) {
	if m.count >= len(m.buckets)*3/4 {
		m.grow()
	}
	idx := m.bucketIndex(key)
	for e := m.buckets[idx]; e != nil; e = e.next {
		if e.key == key {
			e.val = val
			return
		}
	}
	m.buckets[idx] = &entry[V]{key: key, val: val, next: m.buckets[idx]}
	m.count++
}

func (m *Map[V]) Delete(key string) {
	idx := m.bucketIndex(key)
	var prev *entry[V]
	for e := m.buckets[idx]; e != nil; e = e.next {
		if e.key == key {
			if prev == nil {
				m.buckets[idx] = e.next
			} else {
				prev.next = e.next
			}
			m.count--
			return
		}
		prev = e
	}
}

func (m *Map[V]) grow() {
	old := m.buckets
	m.buckets = make([]*entry[V], len(old)*2)
	m.count = 0
	for _, head := range old {
		for e := head; e != nil; e = e.next {
			m.Put(e.key, e.val)
		}
	}
}

// Keys returns every key, in unspecified order. Used by the analyzer only
// for diagnostics (the "did you mean" hints over enclosing scopes and over
// the type table).
func (m *Map[V]) Keys() []string {
	out := make([]string, 0, m.count)
	for _, head := range m.buckets {
		for e := head; e != nil; e = e.next {
			out = append(out, e.key)
		}
	}
	return out
}
