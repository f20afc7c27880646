// Package observability lets the pipeline, caches and HTTP API report events
// without importing a metrics backend.
//
// Each event category has an interface and a no-op implementation. The
// server installs Prometheus implementations at startup; the CLI keeps the
// no-ops:
//
//	observability.SetPipelineHooks(metrics)
//	observability.SetCacheHooks(metrics)
//	observability.SetRequestHooks(metrics)
//
// Emitting an event:
//
//	observability.Pipeline().OnLayoutStart(ctx, string(g.Options.LayoutType), len(g.Nodes))
//	res := layout.Compute(g)
//	observability.Pipeline().OnLayoutComplete(ctx, string(res.Strategy), len(res.Diagnostics), time.Since(start), nil)
package observability

import (
	"context"
	"sync/atomic"
	"time"
)

// =============================================================================
// Pipeline Hooks
// =============================================================================

// PipelineHooks receives events from the render pipeline.
type PipelineHooks interface {
	// Parse events cover decoding and normalizing a spec.
	OnParseStart(ctx context.Context, format string)
	OnParseComplete(ctx context.Context, format string, nodeCount int, duration time.Duration, err error)

	// Layout events. strategy is the strategy actually used (layered, grid
	// or manual), which differs from the requested one after a fallback.
	OnLayoutStart(ctx context.Context, layoutType string, nodeCount int)
	OnLayoutComplete(ctx context.Context, strategy string, diagnostics int, duration time.Duration, err error)

	// Render events, one per output format.
	OnRenderStart(ctx context.Context, format string)
	OnRenderComplete(ctx context.Context, format string, size int, duration time.Duration, err error)
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
// Request Hooks
// =============================================================================

// RequestHooks receives events from the HTTP API.
type RequestHooks interface {
	// OnRequest records an incoming request. route is the matched pattern,
	// not the raw path, to keep label cardinality bounded.
	OnRequest(ctx context.Context, method, route string)

	// OnResponse records a completed request.
	OnResponse(ctx context.Context, method, route string, statusCode int, duration time.Duration)

	// OnRateLimited records a request rejected by the rate limiter.
	OnRateLimited(ctx context.Context, route string)
}

// =============================================================================
// No-op Implementations
// =============================================================================

// NoopPipelineHooks is a no-op implementation of PipelineHooks.
type NoopPipelineHooks struct{}

func (NoopPipelineHooks) OnParseStart(context.Context, string)                                {}
func (NoopPipelineHooks) OnParseComplete(context.Context, string, int, time.Duration, error)  {}
func (NoopPipelineHooks) OnLayoutStart(context.Context, string, int)                          {}
func (NoopPipelineHooks) OnLayoutComplete(context.Context, string, int, time.Duration, error) {}
func (NoopPipelineHooks) OnRenderStart(context.Context, string)                               {}
func (NoopPipelineHooks) OnRenderComplete(context.Context, string, int, time.Duration, error) {}

// NoopCacheHooks is a no-op implementation of CacheHooks.
type NoopCacheHooks struct{}

func (NoopCacheHooks) OnCacheHit(context.Context, string)      {}
func (NoopCacheHooks) OnCacheMiss(context.Context, string)     {}
func (NoopCacheHooks) OnCacheSet(context.Context, string, int) {}

// NoopRequestHooks is a no-op implementation of RequestHooks.
type NoopRequestHooks struct{}

func (NoopRequestHooks) OnRequest(context.Context, string, string)                      {}
func (NoopRequestHooks) OnResponse(context.Context, string, string, int, time.Duration) {}
func (NoopRequestHooks) OnRateLimited(context.Context, string)                          {}

// =============================================================================
// Registry
// =============================================================================

// Reads happen on every parse, layout, render and request, writes once at
// startup, so each category sits in its own atomic pointer.
var (
	pipelineHooks atomic.Pointer[PipelineHooks]
	cacheHooks    atomic.Pointer[CacheHooks]
	requestHooks  atomic.Pointer[RequestHooks]
)

func init() { Reset() }

func store[T any](p *atomic.Pointer[T], h T) { p.Store(&h) }

// SetPipelineHooks replaces the pipeline hooks. Nil is ignored.
func SetPipelineHooks(h PipelineHooks) {
	if h != nil {
		store(&pipelineHooks, h)
	}
}

// SetCacheHooks replaces the cache hooks. Nil is ignored.
func SetCacheHooks(h CacheHooks) {
	if h != nil {
		store(&cacheHooks, h)
	}
}

// SetRequestHooks replaces the request hooks. Nil is ignored.
func SetRequestHooks(h RequestHooks) {
	if h != nil {
		store(&requestHooks, h)
	}
}

func Pipeline() PipelineHooks { return *pipelineHooks.Load() }
func Cache() CacheHooks       { return *cacheHooks.Load() }
func Request() RequestHooks   { return *requestHooks.Load() }

// Reset restores the no-op hooks.
func Reset() {
	store[PipelineHooks](&pipelineHooks, NoopPipelineHooks{})
	store[CacheHooks](&cacheHooks, NoopCacheHooks{})
	store[RequestHooks](&requestHooks, NoopRequestHooks{})
}
