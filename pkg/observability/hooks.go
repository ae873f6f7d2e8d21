// Package observability provides hooks for metrics, tracing, and logging.
//
// This package enables optional instrumentation without adding hard dependencies
// on specific observability backends. Consumers can register hooks at startup
// to receive events about tool runs, hierarchy aggregation, and cache operations.
//
// # Architecture
//
// The package uses a simple hooks pattern:
//   - Define hook interfaces for different event categories
//   - Provide no-op default implementations
//   - Allow registration of custom implementations at startup
//
// Hooks are registered by main, never by libraries, so library packages stay
// free of logging and metrics backends.
//
// # Usage
//
// Register hooks at application startup:
//
//	func main() {
//	    observability.SetRunHooks(&myRunHooks{})
//	    observability.SetAggregateHooks(&myAggregateHooks{})
//	    // ... run application
//	}
//
// Libraries call hooks to emit events:
//
//	observability.Run().OnToolStart(ctx, tool, instance)
//	// ... run the tool ...
//	observability.Run().OnToolComplete(ctx, tool, instance, n, duration, err)
package observability

import (
	"context"
	"sync"
	"time"
)

// =============================================================================
// Run Hooks
// =============================================================================

// RunHooks receives events from the experiment runner.
type RunHooks interface {
	// OnToolStart records the start of one tool on one instance.
	OnToolStart(ctx context.Context, tool, instance string)

	// OnToolComplete records the end of a tool run with the number of
	// interventions returned. err is non-nil when the tool failed.
	OnToolComplete(ctx context.Context, tool, instance string, items int, duration time.Duration, err error)

	// OnToolSkipped records a pair skipped because of a failure sentinel.
	OnToolSkipped(ctx context.Context, tool, instance, reason string)
}

// =============================================================================
// Aggregate Hooks
// =============================================================================

// AggregateHooks receives events from hierarchy construction.
type AggregateHooks interface {
	// OnAggregateStart records the number of instance graphs and algorithms.
	OnAggregateStart(ctx context.Context, instances, algorithms int)

	// OnAggregateComplete records the verdict counts of a finished build.
	OnAggregateComplete(ctx context.Context, confirmed, counterexampled, vacuous int, duration time.Duration)

	// OnVacuousPair records an ordered pair that no instance evaluated jointly.
	OnVacuousPair(ctx context.Context, from, to string)
}

// =============================================================================
// Cache Hooks
// =============================================================================

// CacheHooks receives events from cache operations.
type CacheHooks interface {
	// OnCacheHit records a cache hit.
	OnCacheHit(ctx context.Context, keyType string)

	// OnCacheMiss records a cache miss.
	OnCacheMiss(ctx context.Context, keyType string)

	// OnCacheSet records a cache write.
	OnCacheSet(ctx context.Context, keyType string, size int)
}

// =============================================================================
// No-op Implementations
// =============================================================================

// NoopRunHooks is a no-op implementation of RunHooks.
type NoopRunHooks struct{}

func (NoopRunHooks) OnToolStart(context.Context, string, string) {}
func (NoopRunHooks) OnToolComplete(context.Context, string, string, int, time.Duration, error) {
}
func (NoopRunHooks) OnToolSkipped(context.Context, string, string, string) {}

// NoopAggregateHooks is a no-op implementation of AggregateHooks.
type NoopAggregateHooks struct{}

func (NoopAggregateHooks) OnAggregateStart(context.Context, int, int)                       {}
func (NoopAggregateHooks) OnAggregateComplete(context.Context, int, int, int, time.Duration) {}
func (NoopAggregateHooks) OnVacuousPair(context.Context, string, string)                    {}

// NoopCacheHooks is a no-op implementation of CacheHooks.
type NoopCacheHooks struct{}

func (NoopCacheHooks) OnCacheHit(context.Context, string)      {}
func (NoopCacheHooks) OnCacheMiss(context.Context, string)     {}
func (NoopCacheHooks) OnCacheSet(context.Context, string, int) {}

// =============================================================================
// Global Hook Registry
// =============================================================================

var (
	runHooks       RunHooks       = NoopRunHooks{}
	aggregateHooks AggregateHooks = NoopAggregateHooks{}
	cacheHooks     CacheHooks     = NoopCacheHooks{}
	hooksMu        sync.RWMutex
)

// SetRunHooks registers custom run hooks.
// This should be called once at application startup before any tool runs.
func SetRunHooks(h RunHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		runHooks = h
	}
}

// SetAggregateHooks registers custom aggregation hooks.
func SetAggregateHooks(h AggregateHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		aggregateHooks = h
	}
}

// SetCacheHooks registers custom cache hooks.
// This should be called once at application startup before any cache operations.
func SetCacheHooks(h CacheHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		cacheHooks = h
	}
}

// Run returns the registered run hooks.
func Run() RunHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return runHooks
}

// Aggregate returns the registered aggregation hooks.
func Aggregate() AggregateHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return aggregateHooks
}

// Cache returns the registered cache hooks.
func Cache() CacheHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return cacheHooks
}

// Reset restores all hooks to their no-op defaults.
// This is primarily useful for testing.
func Reset() {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	runHooks = NoopRunHooks{}
	aggregateHooks = NoopAggregateHooks{}
	cacheHooks = NoopCacheHooks{}
}
