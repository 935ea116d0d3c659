// Package otel provides OpenTelemetry integration for ripplecache metrics.
//
// This package implements the ripplecache.MetricsCollector interface using
// OpenTelemetry, enabling percentile calculation (p50, p95, p99) via
// histograms and multi-backend export (Prometheus, Jaeger, DataDog,
// Grafana) without coupling the core cache package to any one backend.
//
// # Usage
//
//	import (
//	    "github.com/agilira/ripplecache"
//	    rcotel "github.com/agilira/ripplecache/otel"
//	    "go.opentelemetry.io/otel/exporters/prometheus"
//	    "go.opentelemetry.io/otel/sdk/metric"
//	)
//
//	exporter, _ := prometheus.New()
//	provider := metric.NewMeterProvider(metric.WithReader(exporter))
//	collector, _ := rcotel.NewOTelMetricsCollector(provider)
//
//	cache, _ := ripplecache.New(ripplecache.Config[string, string]{
//	    Capacity:         10000,
//	    Hash:             someHash,
//	    MetricsCollector: collector,
//	})
//
// # Metrics Exposed
//
//   - ripplecache_get_latency_ns: histogram of Get/GetOrPut latencies
//   - ripplecache_set_latency_ns: histogram of write-operation latencies
//   - ripplecache_remove_latency_ns: histogram of Remove/RemoveIfEquals latencies
//   - ripplecache_get_hits_total / ripplecache_get_misses_total: counters
//   - ripplecache_evictions_total: counter of evicted entries
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0
package otel

import (
	"context"
	"errors"

	"github.com/agilira/ripplecache"
	"go.opentelemetry.io/otel/metric"
)

// OTelMetricsCollector implements ripplecache.MetricsCollector using
// OpenTelemetry. Safe for concurrent use; the underlying OTEL
// instruments are thread-safe and allocation-free after setup.
type OTelMetricsCollector struct {
	getLatency    metric.Int64Histogram
	setLatency    metric.Int64Histogram
	removeLatency metric.Int64Histogram
	hits          metric.Int64Counter
	misses        metric.Int64Counter
	evictions     metric.Int64Counter
}

// Options configures OTelMetricsCollector.
type Options struct {
	// MeterName is the name of the OpenTelemetry meter.
	// Default: "github.com/agilira/ripplecache"
	MeterName string
}

// Option is a functional option for configuring OTelMetricsCollector.
type Option func(*Options)

// WithMeterName sets a custom meter name, useful for distinguishing
// metrics from multiple cache instances.
func WithMeterName(name string) Option {
	return func(o *Options) {
		o.MeterName = name
	}
}

// NewOTelMetricsCollector creates the OTEL instruments backing a
// MetricsCollector: one latency histogram per operation family and
// counters for hits, misses, and evictions.
func NewOTelMetricsCollector(provider metric.MeterProvider, opts ...Option) (*OTelMetricsCollector, error) {
	if provider == nil {
		return nil, errors.New("meter provider cannot be nil")
	}

	options := Options{MeterName: "github.com/agilira/ripplecache"}
	for _, opt := range opts {
		opt(&options)
	}

	meter := provider.Meter(options.MeterName)
	collector := &OTelMetricsCollector{}

	var err error
	collector.getLatency, err = meter.Int64Histogram(
		"ripplecache_get_latency_ns",
		metric.WithDescription("Latency of Get operations in nanoseconds"),
		metric.WithUnit("ns"),
	)
	if err != nil {
		return nil, err
	}

	collector.setLatency, err = meter.Int64Histogram(
		"ripplecache_set_latency_ns",
		metric.WithDescription("Latency of write operations in nanoseconds"),
		metric.WithUnit("ns"),
	)
	if err != nil {
		return nil, err
	}

	collector.removeLatency, err = meter.Int64Histogram(
		"ripplecache_remove_latency_ns",
		metric.WithDescription("Latency of remove operations in nanoseconds"),
		metric.WithUnit("ns"),
	)
	if err != nil {
		return nil, err
	}

	collector.hits, err = meter.Int64Counter(
		"ripplecache_get_hits_total",
		metric.WithDescription("Total number of cache hits"),
	)
	if err != nil {
		return nil, err
	}

	collector.misses, err = meter.Int64Counter(
		"ripplecache_get_misses_total",
		metric.WithDescription("Total number of cache misses"),
	)
	if err != nil {
		return nil, err
	}

	collector.evictions, err = meter.Int64Counter(
		"ripplecache_evictions_total",
		metric.WithDescription("Total number of evicted entries"),
	)
	if err != nil {
		return nil, err
	}

	return collector, nil
}

// RecordGet records a Get operation's latency and hit/miss outcome.
func (c *OTelMetricsCollector) RecordGet(latencyNs int64, hit bool) {
	ctx := context.Background()
	c.getLatency.Record(ctx, latencyNs)
	if hit {
		c.hits.Add(ctx, 1)
	} else {
		c.misses.Add(ctx, 1)
	}
}

// RecordSet records a write operation's latency.
func (c *OTelMetricsCollector) RecordSet(latencyNs int64) {
	c.setLatency.Record(context.Background(), latencyNs)
}

// RecordRemove records a remove operation's latency.
func (c *OTelMetricsCollector) RecordRemove(latencyNs int64) {
	c.removeLatency.Record(context.Background(), latencyNs)
}

// RecordEviction increments the evictions counter, once per evicted entry.
func (c *OTelMetricsCollector) RecordEviction() {
	c.evictions.Add(context.Background(), 1)
}

var _ ripplecache.MetricsCollector = (*OTelMetricsCollector)(nil)
