// cache.go: the public Cache facade (C5)
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0

package ripplecache

import (
	goerrors "errors"
	"iter"
	"sync"
	"sync/atomic"
)

// EvictFunc is a user-supplied eviction callback, invoked once per
// entry the cache evicts to stay within capacity. It never runs while
// any internal lock is held. A non-nil return value is collected and
// joined with any other callback errors from the same drain, wrapped
// once via NewErrEvictionCallbackFailed, and delivered to the
// EvictErrorHandler registered with OnEvictError, if any.
//
// The aggregate is not returned from the mutator that happened to win
// the drain: a drain may process commands enqueued by many different
// goroutines, so there is no single caller it "belongs" to. A handler
// is the only sink that sees every batch regardless of which operation
// triggered it.
type EvictFunc[K comparable, V any] func(key K, value V) error

// EvictErrorHandler receives the aggregated error from a batch of
// failing eviction callbacks, invoked once per drain after every
// internal lock touched by that drain has been released (spec.md
// section 7: "raised once after the batch finishes and all locks are
// released").
type EvictErrorHandler func(err error)

// Cache is a concurrent, bounded key-value cache with pluggable
// LRU/LFU eviction. Get and every insert, update or remove operation
// is followed by an opportunistic drain of the command queue against the eviction
// deque, and any user eviction callbacks run only after every lock
// this operation touched has been released.
type Cache[K comparable, V any] struct {
	t  *table[K, V]
	q  *commandQueue[K, V]
	d  *evictionDeque[K, V]
	mu sync.Mutex // eviction mutex: guards d and q.readHead

	capacity         int
	concurrencyLevel atomic.Int64

	evictMu    sync.Mutex
	onEvict    EvictFunc[K, V]
	onEvictErr EvictErrorHandler

	logger  Logger
	metrics MetricsCollector
	clock   TimeProvider
}

// New constructs a Cache from cfg. cfg is validated and defaulted in
// place; construction fails only for the argument errors spec.md
// section 6 describes (invalid capacity, negative concurrency level,
// unknown policy, nil Hash).
func New[K comparable, V any](cfg Config[K, V]) (*Cache[K, V], error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	useAtomic := valueIsWordAtomic[V]()
	t := newTable[K, V](cfg.Capacity, cfg.Hash, cfg.KeyEq, cfg.ValueEq, useAtomic)
	d := newEvictionDeque[K, V](cfg.Capacity, cfg.Policy, t)

	c := &Cache[K, V]{
		t:          t,
		q:          newCommandQueue[K, V](),
		d:          d,
		capacity:   cfg.Capacity,
		logger:     cfg.Logger,
		metrics:    cfg.MetricsCollector,
		clock:      cfg.TimeProvider,
		onEvictErr: cfg.EvictErrorHandler,
	}
	c.concurrencyLevel.Store(int64(cfg.ConcurrencyLevel))

	c.logger.Debug("ripplecache: cache constructed",
		"capacity", cfg.Capacity,
		"policy", cfg.Policy.String(),
		"concurrency_level", cfg.ConcurrencyLevel,
		"word_atomic_values", useAtomic,
	)

	return c, nil
}

// OnEvict registers the callback invoked for each entry the cache
// evicts, replacing any earlier one. It is safe to call concurrently
// with cache operations: a batch already being dispatched keeps the
// callback it read when the batch started.
func (c *Cache[K, V]) OnEvict(fn EvictFunc[K, V]) {
	c.evictMu.Lock()
	defer c.evictMu.Unlock()
	c.onEvict = fn
}

// OnEvictError registers the handler invoked with the aggregated error
// from a batch of failing eviction callbacks, replacing any earlier
// one. Like OnEvict, it is safe to call concurrently with cache
// operations. A nil handler (the default) means aggregated
// errors are logged via Config.Logger but otherwise discarded.
func (c *Cache[K, V]) OnEvictError(fn EvictErrorHandler) {
	c.evictMu.Lock()
	defer c.evictMu.Unlock()
	c.onEvictErr = fn
}

func (c *Cache[K, V]) concurrencyBudget() int {
	return int(c.concurrencyLevel.Load())
}

// SetConcurrencyLevel updates the drain budget used by future calls to
// drainAndDispatch. Safe to call concurrently with cache operations;
// intended for use by a HotConfig watcher.
func (c *Cache[K, V]) SetConcurrencyLevel(level int) {
	if level <= 0 {
		return
	}
	c.concurrencyLevel.Store(int64(level))
}

// drainAndDispatch implements spec.md 4.3's try-drain entry policy: if
// the previous drain hit its per-drain command budget with work still
// pending (rateLimitReached), this mutator blocks on the eviction
// mutex instead of trying it, trading latency for the guarantee that
// the queue cannot grow without bound under sustained write pressure.
// Otherwise it attempts a try-lock and leaves the drain to whichever
// goroutine gets there next. Either way, any evicted entries are
// dispatched to the user callback only after the eviction mutex is
// released (spec.md 4.4/4.5: "invoke eviction callbacks outside all
// locks"). Get and every mutator call this regardless of whether they
// themselves produced a command, so queued work from other goroutines
// still makes progress under read-heavy load.
func (c *Cache[K, V]) drainAndDispatch() {
	if c.q.rateLimitReached.Load() {
		c.mu.Lock()
	} else if !c.mu.TryLock() {
		return
	}
	evicted := c.q.drain(c.d, c.concurrencyBudget())
	c.mu.Unlock()

	if len(evicted) == 0 {
		return
	}
	c.dispatchEvicted(evicted)
}

// forceDrainAndDispatch unconditionally blocks for the eviction mutex
// and drains once. Used by tests that need a deterministic drain point without depending on drainAndDispatch's
// try-lock/rate-limit timing.
func (c *Cache[K, V]) forceDrainAndDispatch() {
	c.mu.Lock()
	evicted := c.q.drain(c.d, c.concurrencyBudget())
	c.mu.Unlock()

	if len(evicted) > 0 {
		c.dispatchEvicted(evicted)
	}
}

func (c *Cache[K, V]) dispatchEvicted(evicted []*entry[K, V]) {
	c.evictMu.Lock()
	fn := c.onEvict
	errHandler := c.onEvictErr
	c.evictMu.Unlock()

	for range evicted {
		c.metrics.RecordEviction()
	}

	if fn == nil {
		return
	}

	var errs []error
	for _, e := range evicted {
		if err := c.safeInvoke(fn, e.key, e.load()); err != nil {
			errs = append(errs, err)
		}
	}
	if len(errs) > 0 {
		joined := goerrors.Join(errs...)
		aggErr := NewErrEvictionCallbackFailed(joined, len(errs), len(evicted))
		c.logger.Warn("ripplecache: eviction callback error",
			"failed", len(errs), "total", len(evicted))
		if errHandler != nil {
			errHandler(aggErr)
		}
	}
}

// safeInvoke runs the user's eviction callback with panic recovery, so
// a misbehaving callback cannot take down the goroutine that happened
// to win the drain.
func (c *Cache[K, V]) safeInvoke(fn EvictFunc[K, V], key K, value V) (err error) {
	defer func() {
		if r := recover(); r != nil {
			c.logger.Error("ripplecache: eviction callback panicked", "panic", r)
			err = NewErrPanicRecovered("OnEvict", r)
		}
	}()
	return fn(key, value)
}

// Get retrieves the value for key, promoting it in the eviction order
// on a hit.
func (c *Cache[K, V]) Get(key K) (V, bool) {
	start := c.clock.Now()
	value, found, e, op := c.t.tryGet(key)
	if found {
		c.q.enqueue(op, e)
	}
	c.drainAndDispatch()
	c.metrics.RecordGet(c.clock.Now()-start, found)
	return value, found
}

// Contains reports whether key is present, without affecting eviction
// order.
func (c *Cache[K, V]) Contains(key K) bool {
	_, found, _, _ := c.t.tryGet(key)
	return found
}

// PutIfAbsent inserts value for key only if key is not already
// present. It returns the value now associated with key (the newly
// inserted value, or the prior value if the key existed) and whether
// the insert happened.
func (c *Cache[K, V]) PutIfAbsent(key K, value V) (actual V, inserted bool) {
	start := c.clock.Now()
	e, prior, hadPrior, inserted, op := c.t.tryInsert(key, value, false)
	if op != opNone {
		c.q.enqueue(op, e)
	}
	c.drainAndDispatch()
	c.metrics.RecordSet(c.clock.Now() - start)
	if hadPrior {
		return prior, false
	}
	return value, inserted
}

// PutOrUpdate inserts value for key, overwriting any existing value,
// and returns the value that was previously associated with key, if
// any.
func (c *Cache[K, V]) PutOrUpdate(key K, value V) (previous V, hadPrevious bool) {
	start := c.clock.Now()
	e, prior, hadPrior, _, op := c.t.tryInsert(key, value, true)
	c.q.enqueue(op, e)
	c.drainAndDispatch()
	c.metrics.RecordSet(c.clock.Now() - start)
	return prior, hadPrior
}

// Set is an alias for PutOrUpdate that discards the previous value,
// matching the common cache.Set(key, value) shape.
func (c *Cache[K, V]) Set(key K, value V) {
	c.PutOrUpdate(key, value)
}

// GetOrPut returns the current value for key if present; otherwise it
// inserts value and returns it. The second return value reports
// whether the entry was already present.
func (c *Cache[K, V]) GetOrPut(key K, value V) (actual V, loaded bool) {
	start := c.clock.Now()
	e, prior, hadPrior, _, op := c.t.tryInsert(key, value, false)
	if op != opNone {
		c.q.enqueue(op, e)
	}
	c.drainAndDispatch()
	c.metrics.RecordGet(c.clock.Now()-start, hadPrior)
	if hadPrior {
		return prior, true
	}
	return value, false
}

// UpdateIfEquals replaces the value for key with newValue only if its
// current value equals expected (per Config.ValueEq). It returns
// whether the update happened.
func (c *Cache[K, V]) UpdateIfEquals(key K, expected, newValue V) bool {
	start := c.clock.Now()
	ok, e, op := c.t.tryUpdate(key, newValue, expected)
	if ok {
		c.q.enqueue(op, e)
	}
	c.drainAndDispatch()
	c.metrics.RecordSet(c.clock.Now() - start)
	return ok
}

// Remove deletes key unconditionally and returns its prior value, if
// any.
func (c *Cache[K, V]) Remove(key K) (V, bool) {
	start := c.clock.Now()
	removed, value, e, op := c.t.tryRemove(key, nil)
	if removed {
		c.q.enqueue(op, e)
	}
	c.drainAndDispatch()
	c.metrics.RecordRemove(c.clock.Now() - start)
	return value, removed
}

// RemoveIfEquals deletes key only if its current value equals expected
// (per Config.ValueEq), returning whether the removal happened.
func (c *Cache[K, V]) RemoveIfEquals(key K, expected V) bool {
	start := c.clock.Now()
	removed, _, e, op := c.t.tryRemove(key, &expected)
	if removed {
		c.q.enqueue(op, e)
	}
	c.drainAndDispatch()
	c.metrics.RecordRemove(c.clock.Now() - start)
	return removed
}

// Len returns the number of live entries in the cache. It is weakly
// consistent: concurrent mutations may make it stale the instant it
// returns.
func (c *Cache[K, V]) Len() int {
	return c.t.len()
}

// Capacity returns the maximum number of entries configured at
// construction.
func (c *Cache[K, V]) Capacity() int {
	return c.capacity
}

// All returns an iterator over every live key-value pair, in no
// particular order. Like the underlying table walk, it is weakly
// consistent under concurrent mutation: it never blocks and never
// panics, but may skip or repeat entries that are concurrently
// inserted or removed.
func (c *Cache[K, V]) All() iter.Seq2[K, V] {
	return c.t.all
}

// KeyValue is a single key-value pair, as returned in bulk by Snapshot.
type KeyValue[K comparable, V any] struct {
	Key   K
	Value V
}

// Snapshot copies up to len(buf) live entries into buf in deque order
// and returns the number copied. With descending false (the deque's
// native order), buf[0] is the most-favored entry (least likely to be
// evicted next) and the copy walks toward the eviction candidate at
// the tail; with descending true the walk starts at the tail, so
// buf[0] is the next entry that would be evicted. Snapshot blocks
// other eviction-deque activity for its duration (it holds the
// eviction mutex) to give a single consistent ordering, unlike All;
// per spec.md's design note this makes it unsuitable for hot paths.
func (c *Cache[K, V]) Snapshot(buf []KeyValue[K, V], descending bool) int {
	c.mu.Lock()
	defer c.mu.Unlock()

	n := 0
	if descending {
		for cur := c.d.last; cur != nil && n < len(buf); cur = cur.dequePrev {
			buf[n] = KeyValue[K, V]{Key: cur.key, Value: cur.load()}
			n++
		}
		return n
	}
	for cur := c.d.first; cur != nil && n < len(buf); cur = cur.dequeNext {
		buf[n] = KeyValue[K, V]{Key: cur.key, Value: cur.load()}
		n++
	}
	return n
}

// Clear removes every entry from the cache without invoking the
// eviction callback; it is a bulk reset, not a sequence of evictions.
func (c *Cache[K, V]) Clear() {
	c.mu.Lock()
	c.t.clear()
	c.d.first, c.d.last, c.d.size = nil, nil, 0
	c.d.evicted = nil
	c.mu.Unlock()
}

// debugStats is an unexported snapshot of internal state, used by
// tests to assert on queue and deque bookkeeping without exposing it
// as public API surface.
type debugStats struct {
	tableLen     int
	dequeLen     int
	pendingCmds  int
	freeListSize int
}

func (c *Cache[K, V]) debugStats() debugStats {
	c.mu.Lock()
	defer c.mu.Unlock()
	return debugStats{
		tableLen:     c.t.len(),
		dequeLen:     c.d.len(),
		pendingCmds:  c.q.pending(),
		freeListSize: c.q.freeListSize(),
	}
}
