package layout

import (
	"github.com/matzehuels/archdeck/pkg/diagram"
)

// Padding is the margin kept free on every side of the canvas.
const Padding = 80.0

// Strategy names the placement strategy that produced a Result.
type Strategy string

// Placement strategies.
const (
	StrategyLayered Strategy = "layered"
	StrategyGrid    Strategy = "grid"
	StrategyManual  Strategy = "manual"
)

// Options controls placement. Use [OptionsFrom] to derive it from a graph.
type Options struct {
	Width    float64
	Height   float64
	RankDir  diagram.RankDir
	NodeGap  float64 // carried for exporters, not used by placement
	LevelGap float64 // carried for exporters, not used by placement
	Padding  float64
}

// OptionsFrom builds layout options from normalized graph options.
func OptionsFrom(o diagram.Options) Options {
	return Options{
		Width:    o.Width,
		Height:   o.Height,
		RankDir:  o.RankDir,
		NodeGap:  o.NodeGap,
		LevelGap: o.LevelGap,
		Padding:  Padding,
	}
}

func (o Options) withDefaults() Options {
	if o.Width <= 0 {
		o.Width = diagram.DefaultWidth
	}
	if o.Height <= 0 {
		o.Height = diagram.DefaultHeight
	}
	if o.RankDir == "" {
		o.RankDir = diagram.LeftToRight
	}
	if o.Padding <= 0 {
		o.Padding = Padding
	}
	return o
}

// Placed is a node with its computed position.
type Placed struct {
	diagram.Node
	Pos   diagram.Point `json:"pos"`
	Level int           `json:"level"`
}

// Result is the output of a layout pass. It is never mutated after
// construction; interactive position changes live in the scene.
type Result struct {
	Nodes         []Placed             `json:"nodes"`
	Edges         []diagram.Edge       `json:"edges"`
	CycleDetected bool                 `json:"cycle_detected"`
	Strategy      Strategy             `json:"strategy"`
	MaxLevel      int                  `json:"max_level"`
	Width         float64              `json:"width"`
	Height        float64              `json:"height"`
	Diagnostics   []diagram.Diagnostic `json:"diagnostics,omitempty"`
}

// Position returns the position of the last placed node with the given ID.
func (r Result) Position(id string) (diagram.Point, bool) {
	for i := len(r.Nodes) - 1; i >= 0; i-- {
		if r.Nodes[i].ID == id {
			return r.Nodes[i].Pos, true
		}
	}
	return diagram.Point{}, false
}

// Level returns the level of the last placed node with the given ID.
func (r Result) Level(id string) (int, bool) {
	for i := len(r.Nodes) - 1; i >= 0; i-- {
		if r.Nodes[i].ID == id {
			return r.Nodes[i].Level, true
		}
	}
	return 0, false
}

// Bounds returns the bounding box of all node boxes.
func (r Result) Bounds() (minX, minY, maxX, maxY float64) {
	for i, n := range r.Nodes {
		x0, y0 := n.Pos.X-n.Width/2, n.Pos.Y-n.Height/2
		x1, y1 := n.Pos.X+n.Width/2, n.Pos.Y+n.Height/2
		if i == 0 || x0 < minX {
			minX = x0
		}
		if i == 0 || y0 < minY {
			minY = y0
		}
		if i == 0 || x1 > maxX {
			maxX = x1
		}
		if i == 0 || y1 > maxY {
			maxY = y1
		}
	}
	return minX, minY, maxX, maxY
}

// validEdges drops edges whose endpoints are not in ids, reporting each.
func validEdges(edges []diagram.Edge, ids map[string]bool) ([]diagram.Edge, []diagram.Diagnostic) {
	kept := make([]diagram.Edge, 0, len(edges))
	var diags []diagram.Diagnostic
	for _, e := range edges {
		if !ids[e.Source] || !ids[e.Target] {
			diags = append(diags, diagram.UnknownEndpoint(e))
			continue
		}
		kept = append(kept, e)
	}
	return kept, diags
}

func idSet(nodes []diagram.Node) map[string]bool {
	ids := make(map[string]bool, len(nodes))
	for _, n := range nodes {
		ids[n.ID] = true
	}
	return ids
}

// spread maps index i of n onto [start, start+span], centering a lone item.
func spread(i, n int, start, span, center float64) float64 {
	if n == 1 {
		return center
	}
	return start + float64(i)/float64(max(n-1, 1))*span
}
