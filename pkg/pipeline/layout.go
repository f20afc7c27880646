package pipeline

import (
	"context"
	"time"

	"github.com/matzehuels/archdeck/pkg/diagram"
	"github.com/matzehuels/archdeck/pkg/diagram/layout"
	"github.com/matzehuels/archdeck/pkg/errors"
	"github.com/matzehuels/archdeck/pkg/observability"
)

// =============================================================================
// Parse
// =============================================================================

// Parse decodes and normalizes a spec. An empty spec is not an error: it
// returns a nil graph and empty=true so callers render the placeholder.
func Parse(ctx context.Context, src []byte, format diagram.Format) (g *diagram.Graph, empty bool, err error) {
	hooks := observability.Pipeline()
	hooks.OnParseStart(ctx, string(format))
	start := time.Now()
	defer func() {
		n := 0
		if g != nil {
			n = len(g.Nodes)
		}
		hooks.OnParseComplete(ctx, string(format), n, time.Since(start), err)
	}()

	spec, err := diagram.Parse(src, format)
	if err != nil {
		return nil, false, err
	}
	g, err = diagram.Normalize(spec)
	if errors.Is(err, errors.ErrCodeEmptyGraph) {
		return nil, true, nil
	}
	if err != nil {
		return nil, false, err
	}
	return g, false, nil
}

// =============================================================================
// Layout
// =============================================================================

// ComputeLayout runs the layout engine with observability hooks.
func ComputeLayout(ctx context.Context, g *diagram.Graph) layout.Result {
	hooks := observability.Pipeline()
	hooks.OnLayoutStart(ctx, string(g.Options.LayoutType), len(g.Nodes))
	start := time.Now()
	res := layout.Compute(g)
	hooks.OnLayoutComplete(ctx, string(res.Strategy), len(res.Diagnostics), time.Since(start), nil)
	return res
}

// Diagnostics merges graph and layout diagnostics in that order.
func Diagnostics(g *diagram.Graph, res layout.Result) []diagram.Diagnostic {
	var out []diagram.Diagnostic
	if g != nil {
		out = append(out, g.Diagnostics...)
	}
	return append(out, res.Diagnostics...)
}
