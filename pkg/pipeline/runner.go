package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/archdeck/pkg/cache"
	"github.com/matzehuels/archdeck/pkg/diagram"
	"github.com/matzehuels/archdeck/pkg/diagram/layout"
	"github.com/matzehuels/archdeck/pkg/observability"
)

// Runner encapsulates pipeline execution with caching.
// Both CLI and API use it so caching behaves the same everywhere.
//
// The Runner is stateless except for the cache and logger. Multiple
// goroutines can safely use the same Runner with different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
// If logger is nil, output is discarded.
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	return &Runner{
		Cache:  c,
		Keyer:  keyer,
		Logger: logger,
	}
}

// Execute runs the complete parse → layout → render pipeline with caching.
func (r *Runner) Execute(ctx context.Context, src []byte, format diagram.Format, opts Options) (*Result, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}

	result := &Result{Artifacts: make(map[string][]byte)}

	// Stage 1: Parse
	parseStart := time.Now()
	g, empty, err := Parse(ctx, src, format)
	if err != nil {
		return nil, fmt.Errorf("parse: %w", err)
	}
	result.Stats.ParseTime = time.Since(parseStart)

	if empty {
		opts.Logger.Info("spec has no nodes, rendering placeholder")
		result.Empty = true
		for _, f := range opts.Formats {
			data, err := Render(ctx, nil, layout.Result{}, f, opts)
			if err != nil {
				return nil, fmt.Errorf("render: %w", err)
			}
			result.Artifacts[f] = data
		}
		return result, nil
	}

	result.Graph = g
	result.Stats.NodeCount = len(g.Nodes)
	result.Stats.EdgeCount = len(g.Edges)
	if h, err := cache.HashJSON(g); err == nil {
		result.GraphHash = h
	}
	opts.Logger.Debug("parsed spec",
		"nodes", result.Stats.NodeCount,
		"edges", result.Stats.EdgeCount,
		"duration", result.Stats.ParseTime)

	// Stage 2: Layout
	layoutStart := time.Now()
	res, layoutHit := r.layout(ctx, g, result.GraphHash, opts)
	result.Layout = res
	result.Stats.LayoutTime = time.Since(layoutStart)
	result.CacheInfo.LayoutHit = layoutHit

	result.Diagnostics = Diagnostics(g, res)
	for _, d := range result.Diagnostics {
		opts.Logger.Warn(d.Message, "code", d.Code)
	}
	opts.Logger.Debug("computed layout",
		"strategy", res.Strategy,
		"cached", layoutHit,
		"duration", result.Stats.LayoutTime)

	// Stage 3: Render
	renderStart := time.Now()
	artifacts, renderHit, err := r.RenderWithCacheInfo(ctx, g, res, opts)
	if err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	result.Artifacts = artifacts
	result.Stats.RenderTime = time.Since(renderStart)
	result.CacheInfo.RenderHit = renderHit

	opts.Logger.Debug("rendered outputs",
		"formats", opts.Formats,
		"cached", renderHit,
		"duration", result.Stats.RenderTime)

	return result, nil
}

// Layout returns the layout of g, from cache when possible.
func (r *Runner) Layout(ctx context.Context, g *diagram.Graph, opts Options) (layout.Result, bool) {
	r.applyLogger(&opts)
	hash, _ := cache.HashJSON(g)
	return r.layout(ctx, g, hash, opts)
}

func (r *Runner) layout(ctx context.Context, g *diagram.Graph, graphHash string, opts Options) (layout.Result, bool) {
	key := r.Keyer.LayoutKey(graphHash, LayoutKeyOpts(g))
	hooks := observability.Cache()

	if !opts.Refresh && graphHash != "" {
		if data, hit, err := r.Cache.Get(ctx, key); err == nil && hit {
			var res layout.Result
			if err := json.Unmarshal(data, &res); err == nil {
				hooks.OnCacheHit(ctx, "layout")
				return res, true
			}
		} else if err != nil {
			opts.Logger.Warn("layout cache read failed", "err", err)
		}
		hooks.OnCacheMiss(ctx, "layout")
	}

	res := ComputeLayout(ctx, g)

	if graphHash != "" {
		if data, err := json.Marshal(res); err == nil {
			if err := r.Cache.Set(ctx, key, data, cache.LayoutTTL); err != nil {
				opts.Logger.Warn("layout cache write failed", "err", err)
			} else {
				hooks.OnCacheSet(ctx, "layout", len(data))
			}
		}
	}
	return res, false
}

// RenderWithCacheInfo renders every requested format and reports whether
// all of them came from cache.
func (r *Runner) RenderWithCacheInfo(ctx context.Context, g *diagram.Graph, res layout.Result, opts Options) (map[string][]byte, bool, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, false, err
	}

	layoutData, err := json.Marshal(res)
	if err != nil {
		return nil, false, fmt.Errorf("serialize layout for cache key: %w", err)
	}
	// The artifact depends on the graph's groups and interactions too, which
	// the layout does not carry.
	graphHash, _ := cache.HashJSON(g)
	layoutHash := cache.Hash(append(layoutData, graphHash...))

	hooks := observability.Cache()
	artifacts := make(map[string][]byte, len(opts.Formats))
	allCached := true

	for _, format := range opts.Formats {
		key := r.Keyer.ArtifactKey(layoutHash, opts.ArtifactKeyOpts(format))
		if !opts.Refresh {
			if data, hit, err := r.Cache.Get(ctx, key); err == nil && hit {
				hooks.OnCacheHit(ctx, "artifact")
				artifacts[format] = data
				continue
			}
			hooks.OnCacheMiss(ctx, "artifact")
		}
		allCached = false

		data, err := Render(ctx, g, res, format, opts)
		if err != nil {
			return nil, false, err
		}
		artifacts[format] = data
		if err := r.Cache.Set(ctx, key, data, cache.ArtifactTTL); err != nil {
			opts.Logger.Warn("artifact cache write failed", "format", format, "err", err)
		} else {
			hooks.OnCacheSet(ctx, "artifact", len(data))
		}
	}

	return artifacts, allCached, nil
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}
