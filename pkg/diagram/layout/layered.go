package layout

import (
	"sort"

	"github.com/matzehuels/archdeck/pkg/diagram"
	"github.com/matzehuels/archdeck/pkg/errors"
)

// Compute lays out a normalized graph using the strategy its options call for.
//
// Graphs whose nodes all carry preset coordinates are placed manually.
// LayoutGrid forces the grid; everything else goes through [Layered].
func Compute(g *diagram.Graph) Result {
	if g == nil || len(g.Nodes) == 0 {
		return Result{Strategy: StrategyLayered, Width: diagram.DefaultWidth, Height: diagram.DefaultHeight}
	}
	opts := OptionsFrom(g.Options)

	var res Result
	switch {
	case g.HasFixedPositions():
		res = Manual(g.Nodes, g.Edges, opts)
	case g.Options.LayoutType == diagram.LayoutGrid:
		res = Grid(g.Nodes, g.Edges, opts)
	default:
		res = Layered(g.Nodes, g.Edges, opts)
		if g.Options.LayoutType == diagram.LayoutManual {
			res.Diagnostics = append([]diagram.Diagnostic{
				diagram.Diagnosef(errors.ErrCodeLayoutMode, "manual layout needs x and y on every node, using layered placement"),
			}, res.Diagnostics...)
		}
	}
	return res
}

// Layered assigns levels with Kahn's algorithm and spreads each level across
// the canvas. A cycle anywhere in the graph hands placement to [Grid] with
// CycleDetected set.
func Layered(nodes []diagram.Node, edges []diagram.Edge, opts Options) Result {
	opts = opts.withDefaults()

	ids := idSet(nodes)
	kept, diags := validEdges(edges, ids)

	adj := make(map[string][]string, len(ids))
	inDegree := make(map[string]int, len(ids))
	for _, e := range kept {
		adj[e.Source] = append(adj[e.Source], e.Target)
		inDegree[e.Target]++
	}

	// Seeding and counting run over node entries, not unique ids: a
	// repeated root is dequeued once per entry, and a repeated non-root
	// leaves the count short, which reads as a cycle.
	levels := make(map[string]int, len(ids))
	queue := make([]string, 0, len(nodes))
	for _, n := range nodes {
		if inDegree[n.ID] == 0 {
			queue = append(queue, n.ID)
			levels[n.ID] = 0
		}
	}
	if len(queue) == 0 && len(nodes) > 0 {
		return fallback(nodes, kept, opts, diags, "every node is part of a cycle")
	}

	processed := 0
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		processed++
		next := levels[cur] + 1
		for _, succ := range adj[cur] {
			inDegree[succ]--
			if next > levels[succ] {
				levels[succ] = next
			}
			if inDegree[succ] == 0 {
				queue = append(queue, succ)
			}
		}
	}
	if processed < len(nodes) {
		return fallback(nodes, kept, opts, diags,
			"%d of %d nodes could not be leveled", len(nodes)-processed, len(nodes))
	}

	maxLevel := 0
	for _, l := range levels {
		maxLevel = max(maxLevel, l)
	}

	// Group by level, keeping input order within a level.
	byLevel := make(map[int][]int)
	for i, n := range nodes {
		l := levels[n.ID]
		byLevel[l] = append(byLevel[l], i)
	}

	availW := opts.Width - 2*opts.Padding
	availH := opts.Height - 2*opts.Padding
	placed := make([]Placed, 0, len(nodes))
	for l := 0; l <= maxLevel; l++ {
		members := byLevel[l]
		flow := float64(l) / float64(max(maxLevel, 1))
		for idx, i := range members {
			var pos diagram.Point
			if opts.RankDir == diagram.TopToBottom {
				pos.X = spread(idx, len(members), opts.Padding, availW, opts.Width/2)
				pos.Y = opts.Padding + flow*availH
			} else {
				pos.X = opts.Padding + flow*availW
				pos.Y = spread(idx, len(members), opts.Padding, availH, opts.Height/2)
			}
			placed = append(placed, Placed{Node: nodes[i], Pos: pos, Level: l})
		}
	}

	return Result{
		Nodes:       placed,
		Edges:       kept,
		Strategy:    StrategyLayered,
		MaxLevel:    maxLevel,
		Width:       opts.Width,
		Height:      opts.Height,
		Diagnostics: diags,
	}
}

func fallback(nodes []diagram.Node, kept []diagram.Edge, opts Options, diags []diagram.Diagnostic, format string, args ...any) Result {
	res := grid(nodes, kept, opts)
	res.CycleDetected = true
	res.Diagnostics = append(diags,
		diagram.Diagnosef(errors.ErrCodeCycleDetected, "cycle detected, using grid layout: "+format, args...))
	return res
}

// Manual places every node at its preset coordinates. Nodes without a
// preset are put at the canvas center.
func Manual(nodes []diagram.Node, edges []diagram.Edge, opts Options) Result {
	opts = opts.withDefaults()
	kept, diags := validEdges(edges, idSet(nodes))

	placed := make([]Placed, 0, len(nodes))
	for _, n := range nodes {
		pos := diagram.Point{X: opts.Width / 2, Y: opts.Height / 2}
		if n.X != nil {
			pos.X = *n.X
		}
		if n.Y != nil {
			pos.Y = *n.Y
		}
		placed = append(placed, Placed{Node: n, Pos: pos})
	}
	return Result{
		Nodes:       placed,
		Edges:       kept,
		Strategy:    StrategyManual,
		Width:       opts.Width,
		Height:      opts.Height,
		Diagnostics: diags,
	}
}

// Levels returns the distinct levels in r, ascending.
func Levels(r Result) []int {
	set := make(map[int]bool)
	for _, n := range r.Nodes {
		set[n.Level] = true
	}
	out := make([]int, 0, len(set))
	for l := range set {
		out = append(out, l)
	}
	sort.Ints(out)
	return out
}
