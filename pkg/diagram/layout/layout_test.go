package layout

import (
	"math"
	"strings"
	"testing"

	"github.com/matzehuels/archdeck/pkg/diagram"
	"github.com/matzehuels/archdeck/pkg/errors"
)

func nodes(ids ...string) []diagram.Node {
	out := make([]diagram.Node, len(ids))
	for i, id := range ids {
		out[i] = diagram.Node{ID: id, Label: id, Width: 100, Height: 40}
	}
	return out
}

func edge(s, t string) diagram.Edge {
	return diagram.Edge{Source: s, Target: t, Directed: true, Style: diagram.EdgeStraight}
}

func defaultOpts() Options {
	return Options{Width: 960, Height: 540, RankDir: diagram.LeftToRight}
}

func approx(a, b float64) bool { return math.Abs(a-b) < 1e-9 }

func TestLayeredLongestPath(t *testing.T) {
	// a → b → d, a → c → d, a → d: d sits on the longest path (level 2).
	res := Layered(nodes("a", "b", "c", "d", "lone"),
		[]diagram.Edge{edge("a", "b"), edge("b", "d"), edge("a", "c"), edge("c", "d"), edge("a", "d")},
		defaultOpts())

	if res.CycleDetected || res.Strategy != StrategyLayered {
		t.Fatalf("strategy = %s cycle = %v", res.Strategy, res.CycleDetected)
	}
	want := map[string]int{"a": 0, "b": 1, "c": 1, "d": 2, "lone": 0}
	for id, lvl := range want {
		got, ok := res.Level(id)
		if !ok || got != lvl {
			t.Errorf("level(%s) = %d, want %d", id, got, lvl)
		}
	}
	for _, e := range res.Edges {
		ls, _ := res.Level(e.Source)
		lt, _ := res.Level(e.Target)
		if lt < ls+1 {
			t.Errorf("edge %s→%s: level %d < %d+1", e.Source, e.Target, lt, ls)
		}
	}
	if res.MaxLevel != 2 {
		t.Errorf("MaxLevel = %d, want 2", res.MaxLevel)
	}
}

func TestLayeredPositionsLR(t *testing.T) {
	res := Layered(nodes("a", "b", "c"), []diagram.Edge{edge("a", "b"), edge("a", "c")}, defaultOpts())

	a, _ := res.Position("a")
	b, _ := res.Position("b")
	c, _ := res.Position("c")

	// Lone root is centered on the spread axis.
	if !approx(a.X, 80) || !approx(a.Y, 270) {
		t.Errorf("a = %+v, want (80,270)", a)
	}
	// Level 1 is the last level: flow reaches the far padding edge.
	if !approx(b.X, 880) || !approx(b.Y, 80) {
		t.Errorf("b = %+v, want (880,80)", b)
	}
	if !approx(c.X, 880) || !approx(c.Y, 460) {
		t.Errorf("c = %+v, want (880,460)", c)
	}
}

func TestLayeredPositionsTB(t *testing.T) {
	opts := defaultOpts()
	opts.RankDir = diagram.TopToBottom
	res := Layered(nodes("a", "b", "c"), []diagram.Edge{edge("a", "b"), edge("a", "c")}, opts)

	a, _ := res.Position("a")
	b, _ := res.Position("b")
	c, _ := res.Position("c")
	if !approx(a.X, 480) || !approx(a.Y, 80) {
		t.Errorf("a = %+v, want (480,80)", a)
	}
	if !approx(b.X, 80) || !approx(b.Y, 460) {
		t.Errorf("b = %+v, want (80,460)", b)
	}
	if !approx(c.X, 880) || !approx(c.Y, 460) {
		t.Errorf("c = %+v, want (880,460)", c)
	}
}

func TestLayeredSingleLevel(t *testing.T) {
	res := Layered(nodes("a", "b"), nil, defaultOpts())
	for _, n := range res.Nodes {
		if !approx(n.Pos.X, 80) {
			t.Errorf("%s.X = %v, want padding when max level is 0", n.ID, n.Pos.X)
		}
	}
}

func TestLayeredFullCycle(t *testing.T) {
	res := Layered(nodes("A", "B"), []diagram.Edge{edge("A", "B"), edge("B", "A")}, defaultOpts())

	if !res.CycleDetected || res.Strategy != StrategyGrid {
		t.Fatalf("strategy = %s cycle = %v, want grid fallback", res.Strategy, res.CycleDetected)
	}
	// n=2: cols=2, rows=1 → A at (0,0), B at (1,0).
	a, _ := res.Position("A")
	b, _ := res.Position("B")
	if !approx(a.X, 80) || !approx(a.Y, 80) {
		t.Errorf("A = %+v, want (80,80)", a)
	}
	if !approx(b.X, 880) || !approx(b.Y, 80) {
		t.Errorf("B = %+v, want (880,80)", b)
	}
	if !diagram.HasCode(res.Diagnostics, errors.ErrCodeCycleDetected) {
		t.Errorf("diagnostics = %v, want CYCLE_DETECTED", res.Diagnostics)
	}
}

func TestLayeredPartialCycle(t *testing.T) {
	// A is a root; B and C form a cycle reachable only through A.
	res := Layered(nodes("A", "B", "C"),
		[]diagram.Edge{edge("A", "B"), edge("B", "C"), edge("C", "B")},
		defaultOpts())

	if !res.CycleDetected || res.Strategy != StrategyGrid {
		t.Fatalf("strategy = %s cycle = %v, want grid fallback", res.Strategy, res.CycleDetected)
	}
	if len(res.Nodes) != 3 || len(res.Edges) != 3 {
		t.Errorf("nodes=%d edges=%d, want 3/3", len(res.Nodes), len(res.Edges))
	}
	var msg string
	for _, d := range res.Diagnostics {
		if d.Code == errors.ErrCodeCycleDetected {
			msg = d.Message
		}
	}
	if msg == "" || !strings.Contains(msg, "2 of 3") {
		t.Errorf("cycle diagnostic = %q, want residual count", msg)
	}
}

func TestLayeredSelfLoop(t *testing.T) {
	res := Layered(nodes("a", "b"), []diagram.Edge{edge("a", "b"), edge("b", "b")}, defaultOpts())
	if !res.CycleDetected {
		t.Error("self loop should be treated as a cycle")
	}
}

func TestLayeredDanglingEdge(t *testing.T) {
	res := Layered(nodes("A", "B"), []diagram.Edge{edge("X", "A"), edge("A", "B"), edge("B", "Y")}, defaultOpts())

	if res.CycleDetected {
		t.Fatal("dangling edge must not count toward in-degree")
	}
	if lvl, _ := res.Level("A"); lvl != 0 {
		t.Errorf("level(A) = %d, want 0", lvl)
	}
	if len(res.Edges) != 1 || res.Edges[0].Source != "A" {
		t.Errorf("edges = %+v, want only A→B", res.Edges)
	}
	n := 0
	for _, d := range res.Diagnostics {
		if d.Code == errors.ErrCodeUnknownNode {
			n++
		}
	}
	if n != 2 {
		t.Errorf("UNKNOWN_NODE diagnostics = %d, want 2", n)
	}
}

func TestLayeredDuplicateIDs(t *testing.T) {
	t.Run("repeated root", func(t *testing.T) {
		// Each "a" entry is dequeued, so every entry is counted.
		ns := nodes("a", "b", "a")
		ns[2].Label = "again"
		res := Layered(ns, []diagram.Edge{edge("a", "b")}, defaultOpts())

		if res.CycleDetected || res.Strategy != StrategyLayered {
			t.Fatalf("strategy = %s, cycle = %v, want layered", res.Strategy, res.CycleDetected)
		}
		if len(res.Nodes) != 3 {
			t.Errorf("placed %d nodes, want every entry", len(res.Nodes))
		}
		// Both "a" entries share level 0 and are spread along y.
		if res.Nodes[0].ID != "a" || res.Nodes[1].ID != "a" || res.Nodes[2].ID != "b" {
			t.Errorf("order = %s,%s,%s", res.Nodes[0].ID, res.Nodes[1].ID, res.Nodes[2].ID)
		}
		if pos, _ := res.Position("a"); !approx(pos.Y, 460) {
			t.Errorf("Position(a) = %+v, want the last entry", pos)
		}
	})

	t.Run("repeated non-root", func(t *testing.T) {
		// "b" is enqueued once but appears twice, so 2 of 3 entries are
		// dequeued and leveling gives up.
		res := Layered(nodes("a", "b", "b"), []diagram.Edge{edge("a", "b")}, defaultOpts())

		if !res.CycleDetected || res.Strategy != StrategyGrid {
			t.Fatalf("strategy = %s, cycle = %v, want grid fallback", res.Strategy, res.CycleDetected)
		}
		if len(res.Nodes) != 3 {
			t.Errorf("placed %d nodes, want 3", len(res.Nodes))
		}
		if !diagram.HasCode(res.Diagnostics, errors.ErrCodeCycleDetected) {
			t.Errorf("diagnostics = %v, want CYCLE_DETECTED", res.Diagnostics)
		}
	})
}

func TestLayeredDeterministic(t *testing.T) {
	ns := nodes("gw", "auth", "orders", "db", "cache")
	es := []diagram.Edge{edge("gw", "auth"), edge("gw", "orders"), edge("orders", "db"), edge("auth", "cache")}
	first := Layered(ns, es, defaultOpts())
	for i := 0; i < 5; i++ {
		again := Layered(ns, es, defaultOpts())
		for j := range first.Nodes {
			if first.Nodes[j].ID != again.Nodes[j].ID || first.Nodes[j].Pos != again.Nodes[j].Pos {
				t.Fatalf("run %d differs at %d", i, j)
			}
		}
	}
}

func TestGrid(t *testing.T) {
	tests := []struct {
		n          int
		cols, rows int
	}{
		{1, 1, 1},
		{2, 2, 1},
		{4, 2, 2},
		{5, 3, 2},
		{10, 4, 3},
	}
	for _, tt := range tests {
		c, r := GridShape(tt.n)
		if c != tt.cols || r != tt.rows {
			t.Errorf("GridShape(%d) = %d,%d want %d,%d", tt.n, c, r, tt.cols, tt.rows)
		}
	}

	res := Grid(nodes("a", "b", "c", "d", "e"), []diagram.Edge{edge("a", "b")}, defaultOpts())
	if res.CycleDetected {
		t.Error("forced grid should not report a cycle")
	}
	// cols=3, rows=2: e is index 4 → (1,1).
	e, _ := res.Position("e")
	if !approx(e.X, 480) || !approx(e.Y, 460) {
		t.Errorf("e = %+v, want (480,460)", e)
	}
	a, _ := res.Position("a")
	if !approx(a.X, 80) || !approx(a.Y, 80) {
		t.Errorf("a = %+v, want (80,80)", a)
	}
}

func TestCompute(t *testing.T) {
	x, y := 10.0, 20.0
	tests := []struct {
		name     string
		spec     diagram.Spec
		strategy Strategy
		diag     errors.Code
	}{
		{
			name:     "dag default",
			spec:     diagram.Spec{Nodes: []diagram.NodeSpec{{ID: "a"}, {ID: "b"}}, Edges: []diagram.EdgeSpec{{Source: "a", Target: "b"}}},
			strategy: StrategyLayered,
		},
		{
			name:     "fixed positions",
			spec:     diagram.Spec{Nodes: []diagram.NodeSpec{{ID: "a", X: &x, Y: &y}}},
			strategy: StrategyManual,
		},
		{
			name:     "forced grid",
			spec:     diagram.Spec{Nodes: []diagram.NodeSpec{{ID: "a"}}, Layout: &diagram.LayoutSpec{Type: "grid"}},
			strategy: StrategyGrid,
		},
		{
			name:     "manual without coordinates",
			spec:     diagram.Spec{Nodes: []diagram.NodeSpec{{ID: "a", X: &x}}, Layout: &diagram.LayoutSpec{Type: "manual"}},
			strategy: StrategyLayered,
			diag:     errors.ErrCodeLayoutMode,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g, err := diagram.Normalize(&tt.spec)
			if err != nil {
				t.Fatal(err)
			}
			res := Compute(g)
			if res.Strategy != tt.strategy {
				t.Errorf("Strategy = %s, want %s", res.Strategy, tt.strategy)
			}
			if tt.diag != "" && !diagram.HasCode(res.Diagnostics, tt.diag) {
				t.Errorf("diagnostics = %v, want %s", res.Diagnostics, tt.diag)
			}
		})
	}
}

func TestManual(t *testing.T) {
	x, y := 123.0, 45.0
	ns := nodes("a", "b")
	ns[0].X, ns[0].Y = &x, &y
	res := Manual(ns, []diagram.Edge{edge("a", "zzz")}, defaultOpts())

	a, _ := res.Position("a")
	if a != (diagram.Point{X: 123, Y: 45}) {
		t.Errorf("a = %+v", a)
	}
	b, _ := res.Position("b")
	if b != (diagram.Point{X: 480, Y: 270}) {
		t.Errorf("b = %+v, want canvas center", b)
	}
	if len(res.Edges) != 0 {
		t.Errorf("edges = %+v, want dangling edge dropped", res.Edges)
	}
}

func TestBounds(t *testing.T) {
	res := Result{Nodes: []Placed{
		{Node: diagram.Node{ID: "a", Width: 100, Height: 40}, Pos: diagram.Point{X: 100, Y: 100}},
		{Node: diagram.Node{ID: "b", Width: 100, Height: 40}, Pos: diagram.Point{X: 300, Y: 200}},
	}}
	x0, y0, x1, y1 := res.Bounds()
	if x0 != 50 || y0 != 80 || x1 != 350 || y1 != 220 {
		t.Errorf("Bounds() = %v,%v,%v,%v", x0, y0, x1, y1)
	}
}
