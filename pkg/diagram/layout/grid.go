package layout

import (
	"math"

	"github.com/matzehuels/archdeck/pkg/diagram"
)

// Grid places nodes row by row in input order on a grid with
// ceil(sqrt(n)) columns. Dangling edges are dropped as in [Layered].
// A directly requested grid does not report a cycle.
func Grid(nodes []diagram.Node, edges []diagram.Edge, opts Options) Result {
	opts = opts.withDefaults()
	kept, diags := validEdges(edges, idSet(nodes))
	res := grid(nodes, kept, opts)
	res.Diagnostics = diags
	return res
}

// GridShape returns the column and row count used for n nodes.
func GridShape(n int) (cols, rows int) {
	if n <= 0 {
		return 0, 0
	}
	cols = int(math.Ceil(math.Sqrt(float64(n))))
	rows = int(math.Ceil(float64(n) / float64(cols)))
	return cols, rows
}

func grid(nodes []diagram.Node, kept []diagram.Edge, opts Options) Result {
	cols, rows := GridShape(len(nodes))
	availW := opts.Width - 2*opts.Padding
	availH := opts.Height - 2*opts.Padding

	placed := make([]Placed, 0, len(nodes))
	for i, n := range nodes {
		col, row := i%cols, i/cols
		placed = append(placed, Placed{
			Node: n,
			Pos: diagram.Point{
				X: opts.Padding + float64(col)/float64(max(cols-1, 1))*availW,
				Y: opts.Padding + float64(row)/float64(max(rows-1, 1))*availH,
			},
		})
	}
	return Result{
		Nodes:    placed,
		Edges:    kept,
		Strategy: StrategyGrid,
		Width:    opts.Width,
		Height:   opts.Height,
	}
}
