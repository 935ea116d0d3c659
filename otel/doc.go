// Package otel provides OpenTelemetry integration for ripplecache metrics.
//
// # Overview
//
// This package implements the ripplecache.MetricsCollector interface using
// OpenTelemetry, enabling percentile latency tracking (p50, p95, p99) and
// export to any OTEL-compatible backend (Prometheus, Jaeger, DataDog,
// Grafana). It is a separate module so the ripplecache core stays free of
// OTEL dependencies for applications that don't need metrics.
//
// # Quick Start
//
//	import (
//	    "github.com/agilira/ripplecache"
//	    rcotel "github.com/agilira/ripplecache/otel"
//	    "go.opentelemetry.io/otel/exporters/prometheus"
//	    "go.opentelemetry.io/otel/sdk/metric"
//	)
//
//	exporter, err := prometheus.New()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	provider := metric.NewMeterProvider(metric.WithReader(exporter))
//	defer provider.Shutdown(context.Background())
//
//	collector, err := rcotel.NewOTelMetricsCollector(provider)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	cache, err := ripplecache.New(ripplecache.Config[string, int]{
//	    Capacity:         10_000,
//	    Hash:             someHash,
//	    MetricsCollector: collector,
//	})
//
// # Metrics Exposed
//
// Histograms:
//   - ripplecache_get_latency_ns
//   - ripplecache_set_latency_ns
//   - ripplecache_remove_latency_ns
//
// Counters:
//   - ripplecache_get_hits_total
//   - ripplecache_get_misses_total
//   - ripplecache_evictions_total
//
// # Prometheus Queries
//
// Hit ratio over the last 5 minutes:
//
//	rate(ripplecache_get_hits_total[5m]) /
//	(rate(ripplecache_get_hits_total[5m]) + rate(ripplecache_get_misses_total[5m]))
//
// P99 get latency:
//
//	histogram_quantile(0.99, rate(ripplecache_get_latency_ns_bucket[5m]))
//
// # Thread Safety
//
// All methods are safe for concurrent use; the underlying OTEL
// instruments are lock-free.
package otel
