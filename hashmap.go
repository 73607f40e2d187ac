package tick

import "github.com/ticklang/tick/internal/tickhash"

// hashMap is the core's only way to reach the bundled hash-map collaborator
// (spec §1, §3.4, §3.5): a thin wrapper embedding *tickhash.Map, not a
// reimplementation, so Scope and TypeTable get tickhash's methods, bucket
// layout and highwayhash-backed hashing for free without the analyzer ever
// touching a bucket directly.
type hashMap[V any] struct{ *tickhash.Map[V] }

func newHashMap[V any]() *hashMap[V] { return &hashMap[V]{tickhash.New[V]()} }
