// Package ripplecache provides a concurrent, bounded key-value cache with
// pluggable LRU/LFU eviction, built from a lock-striped hash table, a
// multi-producer/single-consumer intrusive command queue, and an eviction
// deque that is weakly consistent with the table.
//
// # Overview
//
// ripplecache is designed for production use with focus on:
//   - Concurrency: per-bucket stripe locks, lock-free reads, a lock-free
//     MPSC command queue feeding a single eviction deque
//   - Type Safety: Cache[K comparable, V any] with caller-supplied hashing
//   - Observability: structured errors, pluggable Logger/MetricsCollector,
//     optional OpenTelemetry integration (separate subpackage)
//
// # Quick Start
//
//	cache, err := ripplecache.New(ripplecache.Config[string, int]{
//	    Capacity: 10_000,
//	    Policy:   ripplecache.LRU,
//	    Hash:     ripplecache.FNV1a64,
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	cache.Set("k", 1)
//	if v, ok := cache.Get("k"); ok {
//	    fmt.Println(v)
//	}
//
// # Concurrency model
//
//   - Get's table lookup is lock-free: it walks bucket chains with
//     acquire loads and takes no stripe lock. Like the mutators, Get then
//     attempts a drain, so it blocks on the eviction mutex when the
//     previous drain exhausted its command budget.
//   - PutIfAbsent/PutOrUpdate/Remove/UpdateIfEquals take a per-bucket
//     stripe lock for the duration of the table mutation only, then
//     release it before enqueuing a command and attempting a drain.
//   - A single eviction mutex guards the command queue's read side and
//     the eviction deque. Drains are opportunistic (try-lock) unless the
//     per-drain command budget was exhausted by a previous drain, in
//     which case the next mutator blocks to guarantee forward progress.
//   - The user eviction callback is always invoked with no internal lock
//     held.
//
// # Non-goals
//
// No persistence or replication, no global byte-size accounting, no
// TTL-based expiry, no cross-key transactions, no strict consistency
// between concurrent enumeration and concurrent mutators, no ordering
// guarantee between eviction callbacks and concurrent mutators.
//
// # Packages
//
//   - github.com/agilira/ripplecache: core cache implementation
//   - github.com/agilira/ripplecache/otel: OpenTelemetry MetricsCollector
//
// # License
//
// See LICENSE file in the repository.
package ripplecache
