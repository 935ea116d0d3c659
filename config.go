// config.go: configuration for ripplecache
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0

package ripplecache

import (
	"reflect"
	"runtime"

	"github.com/agilira/go-timecache"
)

// Config holds construction parameters for a Cache[K, V].
type Config[K comparable, V any] struct {
	// Capacity is the maximum number of live entries the cache can
	// hold and the number of stripe-locked buckets in the table.
	// Must be >= 1.
	Capacity int

	// ConcurrencyLevel bounds how many commands a single drain may
	// consume before yielding. Zero selects the default,
	// runtime.GOMAXPROCS(0) + (runtime.GOMAXPROCS(0)+1)/2; a negative
	// value is rejected.
	ConcurrencyLevel int

	// Policy selects the eviction ordering. Default: LRU.
	Policy Policy

	// Hash computes the bucket hash for a key. Required: Go has no
	// reflection-free generic hash for an arbitrary comparable type.
	Hash func(K) uint64

	// KeyEq compares two keys for equality. Optional; defaults to the
	// built-in == operator over K.
	KeyEq func(a, b K) bool

	// ValueEq compares two values for equality, used by UpdateIfEquals
	// and RemoveIfEquals. Optional; defaults to reflect.DeepEqual.
	ValueEq func(a, b V) bool

	// Logger is used for debugging and monitoring. Default: NoOpLogger.
	Logger Logger

	// TimeProvider provides current time for metrics latency sampling.
	// Default: a go-timecache-backed implementation.
	TimeProvider TimeProvider

	// MetricsCollector collects operation metrics. Default:
	// NoOpMetricsCollector (zero overhead).
	MetricsCollector MetricsCollector

	// EvictErrorHandler receives the aggregated error from a batch of
	// failing OnEvict callbacks, once per drain, after all internal
	// locks touched by that drain have been released. Optional; if
	// nil, aggregated errors are logged via Logger but not otherwise
	// surfaced.
	EvictErrorHandler EvictErrorHandler
}

// Validate checks configuration parameters, applies sensible defaults
// for omitted optional fields, and rejects parameters spec.md section 6
// calls out as argument errors (Capacity < 1, negative ConcurrencyLevel,
// nil Hash, unknown Policy). A zero ConcurrencyLevel selects the default.
//
// This method is automatically called by New, so callers typically
// don't need to call it manually. It is exported so a normalized
// Config can be inspected before construction.
func (c *Config[K, V]) Validate() error {
	if c.Capacity < 1 {
		return NewErrInvalidCapacity(c.Capacity)
	}

	if c.ConcurrencyLevel < 0 {
		return NewErrInvalidConcurrencyLevel(c.ConcurrencyLevel)
	}
	if c.ConcurrencyLevel == 0 {
		procs := runtime.GOMAXPROCS(0)
		c.ConcurrencyLevel = procs + (procs+1)/2
	}

	switch c.Policy {
	case LRU, LFU:
		// valid
	default:
		return NewErrInvalidPolicy(int(c.Policy))
	}

	if c.Hash == nil {
		return NewErrMissingHash()
	}

	if c.KeyEq == nil {
		c.KeyEq = func(a, b K) bool { return a == b }
	}

	if c.ValueEq == nil {
		c.ValueEq = func(a, b V) bool { return reflect.DeepEqual(a, b) }
	}

	if c.Logger == nil {
		c.Logger = NoOpLogger{}
	}

	if c.TimeProvider == nil {
		c.TimeProvider = &systemTimeProvider{}
	}

	if c.MetricsCollector == nil {
		c.MetricsCollector = NoOpMetricsCollector{}
	}

	return nil
}

// systemTimeProvider is the default time provider, using go-timecache.
// This provides a cached nanosecond clock with no per-call syscall,
// suitable for sampling metrics latencies on the hot path.
type systemTimeProvider struct{}

func (t *systemTimeProvider) Now() int64 {
	return timecache.CachedTimeNano()
}
