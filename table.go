// table.go: lock-striped chained hash table (C2)
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0

package ripplecache

import (
	"sync"
	"sync/atomic"
)

// table is an open-addressing-by-chain, lock-striped hash table. The
// number of stripes equals the cache's capacity (spec.md's "bucket
// stripe == capacity" simplification: no rehashing, no resizing).
type table[K comparable, V any] struct {
	buckets []atomic.Pointer[entry[K, V]]
	stripes []sync.Mutex

	count atomic.Int64

	hash      func(K) uint64
	keyEq     func(a, b K) bool
	valueEq   func(a, b V) bool
	useAtomic bool
}

func newTable[K comparable, V any](capacity int, hash func(K) uint64, keyEq func(a, b K) bool, valueEq func(a, b V) bool, useAtomic bool) *table[K, V] {
	return &table[K, V]{
		buckets:   make([]atomic.Pointer[entry[K, V]], capacity),
		stripes:   make([]sync.Mutex, capacity),
		hash:      hash,
		keyEq:     keyEq,
		valueEq:   valueEq,
		useAtomic: useAtomic,
	}
}

func (t *table[K, V]) index(h uint64) int {
	return int(h % uint64(len(t.buckets)))
}

// tryInsert implements spec.md 4.2 try_insert. When the key is already
// present, updateIfExists controls whether the value is overwritten in
// place (reporting op=opRead, a touch for recency) or left untouched
// (reporting op=opNone, inserted=false). When the key is absent, a new
// entry is always prepended to the chain (op=opAdd).
func (t *table[K, V]) tryInsert(k K, v V, updateIfExists bool) (e *entry[K, V], prior V, hadPrior bool, inserted bool, op cmdOp) {
	h := t.hash(k)
	idx := t.index(h)

	t.stripes[idx].Lock()
	defer t.stripes[idx].Unlock()

	for cur := t.buckets[idx].Load(); cur != nil; cur = cur.nextInBucket.Load() {
		if cur.keyHash == h && t.keyEq(cur.key, k) {
			prior = cur.load()
			hadPrior = true
			if updateIfExists {
				cur.store(v)
				return cur, prior, true, false, opRead
			}
			return cur, prior, true, false, opNone
		}
	}

	ne := newEntry[K, V](k, h, v, t.useAtomic)
	ne.nextInBucket.Store(t.buckets[idx].Load())
	t.buckets[idx].Store(ne)
	t.count.Add(1)
	return ne, prior, false, true, opAdd
}

// tryGet implements spec.md 4.2 try_get: a lock-free chain walk. Each
// link is read via an atomic (acquire) load; matches are reported with
// op=opRead so the caller can enqueue a recency touch.
func (t *table[K, V]) tryGet(k K) (value V, found bool, e *entry[K, V], op cmdOp) {
	h := t.hash(k)
	idx := t.index(h)

	for cur := t.buckets[idx].Load(); cur != nil; cur = cur.nextInBucket.Load() {
		if cur.keyHash == h && t.keyEq(cur.key, k) && !cur.removed.Load() {
			return cur.load(), true, cur, opRead
		}
	}
	return value, false, nil, opNone
}

// tryRemove implements spec.md 4.2 try_remove. When expected is
// non-nil, the entry is only removed if its current value equals
// *expected (remove_if_equals); this path never invokes the user
// eviction callback (the facade enforces that, not this method).
func (t *table[K, V]) tryRemove(k K, expected *V) (removed bool, value V, e *entry[K, V], op cmdOp) {
	h := t.hash(k)
	idx := t.index(h)

	t.stripes[idx].Lock()
	defer t.stripes[idx].Unlock()

	var prev *entry[K, V]
	for cur := t.buckets[idx].Load(); cur != nil; cur = cur.nextInBucket.Load() {
		if cur.keyHash == h && t.keyEq(cur.key, k) {
			v := cur.load()
			if expected != nil && !t.valueEq(v, *expected) {
				return false, value, nil, opNone
			}
			next := cur.nextInBucket.Load()
			if prev == nil {
				t.buckets[idx].Store(next)
			} else {
				prev.nextInBucket.Store(next)
			}
			cur.removed.Store(true)
			t.count.Add(-1)
			return true, v, cur, opRemove
		}
		prev = cur
	}
	return false, value, nil, opNone
}

// tryUpdate implements spec.md 4.2 try_update: a CAS-style overwrite
// that only applies if the current value equals expected.
func (t *table[K, V]) tryUpdate(k K, newValue, expected V) (ok bool, e *entry[K, V], op cmdOp) {
	h := t.hash(k)
	idx := t.index(h)

	t.stripes[idx].Lock()
	defer t.stripes[idx].Unlock()

	for cur := t.buckets[idx].Load(); cur != nil; cur = cur.nextInBucket.Load() {
		if cur.keyHash == h && t.keyEq(cur.key, k) {
			if !t.valueEq(cur.load(), expected) {
				return false, nil, opNone
			}
			cur.store(newValue)
			return true, cur, opRead
		}
	}
	return false, nil, opNone
}

// removeEntry unlinks a specific entry by identity, re-entering its
// bucket's stripe lock. Used only by the eviction path (spec.md 4.4),
// which already holds the eviction mutex when it calls this.
func (t *table[K, V]) removeEntry(target *entry[K, V]) bool {
	idx := t.index(target.keyHash)

	t.stripes[idx].Lock()
	defer t.stripes[idx].Unlock()

	var prev *entry[K, V]
	for cur := t.buckets[idx].Load(); cur != nil; cur = cur.nextInBucket.Load() {
		if cur == target {
			next := cur.nextInBucket.Load()
			if prev == nil {
				t.buckets[idx].Store(next)
			} else {
				prev.nextInBucket.Store(next)
			}
			cur.removed.Store(true)
			t.count.Add(-1)
			return true
		}
		prev = cur
	}
	return false
}

// clear unlinks every entry and resets the live count. Callers must
// hold the eviction mutex: clear mutates every stripe.
func (t *table[K, V]) clear() {
	for i := range t.stripes {
		t.stripes[i].Lock()
	}
	for i := range t.buckets {
		for cur := t.buckets[i].Load(); cur != nil; cur = cur.nextInBucket.Load() {
			cur.removed.Store(true)
		}
		t.buckets[i].Store(nil)
	}
	t.count.Store(0)
	for i := len(t.stripes) - 1; i >= 0; i-- {
		t.stripes[i].Unlock()
	}
}

// all is a weakly-consistent, lock-free walk of every bucket chain. It
// may observe entries that are about to be unlinked or that were just
// inserted, and it may miss or re-visit entries under concurrent
// mutation, but it never blocks and never panics (spec.md 4.2).
func (t *table[K, V]) all(yield func(K, V) bool) {
	for i := range t.buckets {
		for cur := t.buckets[i].Load(); cur != nil; cur = cur.nextInBucket.Load() {
			if cur.removed.Load() {
				continue
			}
			if !yield(cur.key, cur.load()) {
				return
			}
		}
	}
}

func (t *table[K, V]) len() int {
	return int(t.count.Load())
}
