// Package lock provides named mutual exclusion for read-modify-write
// sequences against shared records.
package lock

import "sync"

// Keyed hands out one mutex per key. Every orchestrator that mutates a
// player record acquires the player's key around its load-mutate-store,
// so concurrent callers cannot interleave and lose writes. Entries live
// for the life of the process.
type Keyed struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// NewKeyed creates an empty keyed lock set
func NewKeyed() *Keyed {
	return &Keyed{locks: make(map[string]*sync.Mutex)}
}

// Acquire locks key and returns the release function.
func (k *Keyed) Acquire(key string) func() {
	k.mu.Lock()
	m, ok := k.locks[key]
	if !ok {
		m = &sync.Mutex{}
		k.locks[key] = m
	}
	k.mu.Unlock()

	m.Lock()
	return m.Unlock
}

// AcquireTwo locks both keys in a stable order so two callers holding the
// same pair cannot deadlock. A single release covers both.
func (k *Keyed) AcquireTwo(a, b string) func() {
	if a == b {
		return k.Acquire(a)
	}
	if b < a {
		a, b = b, a
	}
	releaseA := k.Acquire(a)
	releaseB := k.Acquire(b)
	return func() {
		releaseB()
		releaseA()
	}
}
