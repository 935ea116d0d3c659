// hotreload.go: dynamic configuration with Argus integration
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0

package ripplecache

import (
	"fmt"
	"sync"
	"time"

	"github.com/agilira/argus"
)

// HotConfig watches a configuration file and applies ConcurrencyLevel
// changes to a running Cache without requiring reconstruction.
// Capacity and Policy are structural (they size the table and deque at
// construction) and cannot be hot-reloaded; a config file may contain
// them, but the watcher never reads those fields.
type HotConfig[K comparable, V any] struct {
	cache   *Cache[K, V]
	watcher *argus.Watcher
	mu      sync.RWMutex
	level   int

	// OnReload is called after a ConcurrencyLevel change is applied.
	// Optional; must be fast and non-blocking.
	OnReload func(oldLevel, newLevel int)
}

// HotConfigOptions configures hot reload behavior.
type HotConfigOptions struct {
	// ConfigPath is the path to the configuration file to watch.
	// Supports JSON, YAML, TOML, HCL, INI, Properties formats.
	ConfigPath string

	// PollInterval is how often to check for configuration changes.
	// Default: 1 second. Minimum: 100ms.
	PollInterval time.Duration

	// OnReload is called after a ConcurrencyLevel change is applied.
	OnReload func(oldLevel, newLevel int)

	// Logger for hot reload operations. If nil, uses NoOpLogger.
	Logger Logger
}

// NewHotConfig creates a hot-reloadable ConcurrencyLevel watcher for
// cache and starts watching the configuration file immediately.
//
// Example configuration file (YAML):
//
//	cache:
//	  concurrency_level: 8
//
// Supported configuration keys:
//   - cache.concurrency_level (int): drain budget per opportunistic
//     drain. Must be >= 1.
func NewHotConfig[K comparable, V any](cache *Cache[K, V], opts HotConfigOptions) (*HotConfig[K, V], error) {
	if opts.ConfigPath == "" {
		return nil, fmt.Errorf("config_path is required")
	}

	if opts.PollInterval == 0 {
		opts.PollInterval = 1 * time.Second
	} else if opts.PollInterval < 100*time.Millisecond {
		opts.PollInterval = 100 * time.Millisecond
	}

	logger := opts.Logger
	if logger == nil {
		logger = NoOpLogger{}
	}

	hc := &HotConfig[K, V]{
		cache:    cache,
		OnReload: opts.OnReload,
		level:    cache.concurrencyBudget(),
	}

	argusConfig := argus.Config{PollInterval: opts.PollInterval}
	watcher, err := argus.UniversalConfigWatcherWithConfig(opts.ConfigPath, hc.handleConfigChange, argusConfig)
	if err != nil {
		return nil, err
	}
	hc.watcher = watcher
	logger.Debug("ripplecache: hot config watcher created", "path", opts.ConfigPath)

	return hc, nil
}

// Start begins watching the configuration file for changes.
func (hc *HotConfig[K, V]) Start() error {
	if hc.watcher.IsRunning() {
		return nil
	}
	return hc.watcher.Start()
}

// Stop stops watching the configuration file.
func (hc *HotConfig[K, V]) Stop() error {
	return hc.watcher.Stop()
}

// CurrentLevel returns the last applied ConcurrencyLevel.
func (hc *HotConfig[K, V]) CurrentLevel() int {
	hc.mu.RLock()
	defer hc.mu.RUnlock()
	return hc.level
}

// handleConfigChange is called by Argus when the configuration file changes.
func (hc *HotConfig[K, V]) handleConfigChange(configData map[string]interface{}) {
	level, ok := parseConcurrencyLevel(configData)
	if !ok {
		return
	}

	hc.mu.Lock()
	old := hc.level
	hc.level = level
	hc.mu.Unlock()

	if old == level {
		return
	}

	hc.cache.SetConcurrencyLevel(level)

	if hc.OnReload != nil {
		hc.OnReload(old, level)
	}
}

// parseConcurrencyLevel extracts cache.concurrency_level from Argus
// config data. Argus may hand back the cache section nested under
// "cache" or, for a flat config file, directly at the top level.
func parseConcurrencyLevel(data map[string]interface{}) (int, bool) {
	section, ok := data["cache"].(map[string]interface{})
	if !ok {
		if _, hasLevel := data["concurrency_level"]; hasLevel {
			section = data
		} else {
			return 0, false
		}
	}

	switch v := section["concurrency_level"].(type) {
	case int:
		if v > 0 {
			return v, true
		}
	case float64:
		if v > 0 {
			return int(v), true
		}
	}
	return 0, false
}
