package diagram

import "strings"

// =============================================================================
// Constants - Single Source of Truth
// =============================================================================

// Canvas and node defaults.
const (
	DefaultWidth      = 960.0
	DefaultHeight     = 540.0
	DefaultNodeWidth  = 100.0
	DefaultNodeHeight = 40.0
	DefaultNodeGap    = 140.0
	DefaultLevelGap   = 120.0
)

// NodeType is the category tag that drives node styling.
// Values outside the known set are kept verbatim and styled as [NodeOther].
type NodeType string

// Known node types.
const (
	NodeGateway  NodeType = "gateway"
	NodeService  NodeType = "service"
	NodeDatabase NodeType = "database"
	NodeQueue    NodeType = "queue"
	NodeOther    NodeType = "other"
)

// Known reports whether t is one of the styled node categories.
func (t NodeType) Known() bool {
	switch t {
	case NodeGateway, NodeService, NodeDatabase, NodeQueue:
		return true
	}
	return false
}

// EdgeStyle selects how an edge path is drawn between its endpoints.
type EdgeStyle string

// Edge styles.
const (
	EdgeStraight   EdgeStyle = "straight"
	EdgeOrthogonal EdgeStyle = "orthogonal"
	EdgeCurved     EdgeStyle = "curved"
)

// ParseEdgeStyle maps a spec value to an EdgeStyle.
// Empty and unrecognized values fall back to [EdgeStraight].
func ParseEdgeStyle(s string) EdgeStyle {
	switch EdgeStyle(strings.ToLower(strings.TrimSpace(s))) {
	case EdgeOrthogonal:
		return EdgeOrthogonal
	case EdgeCurved:
		return EdgeCurved
	default:
		return EdgeStraight
	}
}

// RankDir is the direction in which layout ranks progress.
type RankDir string

// Rank directions.
const (
	LeftToRight RankDir = "LR"
	TopToBottom RankDir = "TB"
)

// ParseRankDir accepts "LR", "TB", "left-to-right" and "top-to-bottom"
// in any case. Anything else yields [LeftToRight].
func ParseRankDir(s string) RankDir {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "tb", "top-to-bottom", "topdown", "top-down":
		return TopToBottom
	default:
		return LeftToRight
	}
}

// LayoutType selects the placement strategy requested by the spec.
type LayoutType string

// Layout types. [LayoutDAG] is the layered engine; [LayoutManual] uses the
// coordinates carried by the nodes; [LayoutGrid] forces grid placement.
const (
	LayoutDAG    LayoutType = "dag"
	LayoutGrid   LayoutType = "grid"
	LayoutManual LayoutType = "manual"
)

// ParseLayoutType maps a spec value to a LayoutType.
// "force" and unknown values are served by the layered engine.
func ParseLayoutType(s string) LayoutType {
	switch LayoutType(strings.ToLower(strings.TrimSpace(s))) {
	case LayoutGrid:
		return LayoutGrid
	case LayoutManual:
		return LayoutManual
	default:
		return LayoutDAG
	}
}

// =============================================================================
// Spec - Raw Input
// =============================================================================

// Spec is the raw diagram description as provided by the host.
// Optional values are pointers so that absence can be told apart from zero.
type Spec struct {
	Nodes        []NodeSpec       `json:"nodes" toml:"nodes"`
	Edges        []EdgeSpec       `json:"edges" toml:"edges"`
	Groups       []GroupSpec      `json:"groups,omitempty" toml:"groups,omitempty"`
	Layout       *LayoutSpec      `json:"layout,omitempty" toml:"layout,omitempty"`
	Interactions *InteractionSpec `json:"interactions,omitempty" toml:"interactions,omitempty"`
	Width        *float64         `json:"width,omitempty" toml:"width,omitempty"`
	Height       *float64         `json:"height,omitempty" toml:"height,omitempty"`
}

// NodeSpec is a node as written in a spec.
type NodeSpec struct {
	ID     string   `json:"id" toml:"id"`
	Label  string   `json:"label,omitempty" toml:"label,omitempty"`
	Type   string   `json:"type,omitempty" toml:"type,omitempty"`
	Group  string   `json:"group,omitempty" toml:"group,omitempty"`
	X      *float64 `json:"x,omitempty" toml:"x,omitempty"`
	Y      *float64 `json:"y,omitempty" toml:"y,omitempty"`
	Width  *float64 `json:"width,omitempty" toml:"width,omitempty"`
	Height *float64 `json:"height,omitempty" toml:"height,omitempty"`
}

// EdgeSpec is an edge as written in a spec.
type EdgeSpec struct {
	Source   string `json:"source" toml:"source"`
	Target   string `json:"target" toml:"target"`
	Label    string `json:"label,omitempty" toml:"label,omitempty"`
	Directed *bool  `json:"directed,omitempty" toml:"directed,omitempty"`
	Style    string `json:"style,omitempty" toml:"style,omitempty"`
}

// GroupSpec is a group as written in a spec.
type GroupSpec struct {
	ID        string   `json:"id" toml:"id"`
	Label     string   `json:"label,omitempty" toml:"label,omitempty"`
	Nodes     []string `json:"nodes" toml:"nodes"`
	Collapsed bool     `json:"collapsed,omitempty" toml:"collapsed,omitempty"`
}

// LayoutSpec carries the layout options of a spec.
type LayoutSpec struct {
	Type     string   `json:"type,omitempty" toml:"type,omitempty"`
	RankDir  string   `json:"rankdir,omitempty" toml:"rankdir,omitempty"`
	NodeGap  *float64 `json:"nodeGap,omitempty" toml:"nodeGap,omitempty"`
	LevelGap *float64 `json:"levelGap,omitempty" toml:"levelGap,omitempty"`
}

// InteractionSpec toggles interactive behaviors. Absent means enabled.
type InteractionSpec struct {
	Zoom                 *bool `json:"zoom,omitempty" toml:"zoom,omitempty"`
	Drag                 *bool `json:"drag,omitempty" toml:"drag,omitempty"`
	Collapse             *bool `json:"collapse,omitempty" toml:"collapse,omitempty"`
	HighlightPathOnHover *bool `json:"highlightPathOnHover,omitempty" toml:"highlightPathOnHover,omitempty"`
}

// =============================================================================
// Graph - Normalized Model
// =============================================================================

// Point is a position in canvas coordinates.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Node is a normalized diagram node.
type Node struct {
	ID     string   `json:"id"`
	Label  string   `json:"label"`
	Type   NodeType `json:"type,omitempty"`
	Group  string   `json:"group,omitempty"`
	X      *float64 `json:"x,omitempty"` // preset position, nil when unset
	Y      *float64 `json:"y,omitempty"`
	Width  float64  `json:"width"`
	Height float64  `json:"height"`
}

// Fixed reports whether the node carries a preset position on both axes.
func (n Node) Fixed() bool { return n.X != nil && n.Y != nil }

// Edge is a normalized diagram edge.
type Edge struct {
	Source   string    `json:"source"`
	Target   string    `json:"target"`
	Label    string    `json:"label,omitempty"`
	Directed bool      `json:"directed"`
	Style    EdgeStyle `json:"style"`
}

// SelfLoop reports whether the edge starts and ends at the same node.
func (e Edge) SelfLoop() bool { return e.Source == e.Target }

// Touches reports whether id is the source or target of the edge.
func (e Edge) Touches(id string) bool { return e.Source == id || e.Target == id }

// Group is a visual cluster of nodes. Groups never influence layout.
type Group struct {
	ID        string   `json:"id"`
	Label     string   `json:"label"`
	Nodes     []string `json:"nodes"`
	Collapsed bool     `json:"collapsed,omitempty"`
}

// Contains reports whether id is a member of the group.
func (g Group) Contains(id string) bool {
	for _, n := range g.Nodes {
		if n == id {
			return true
		}
	}
	return false
}

// Interactions is the resolved set of interactive behaviors.
type Interactions struct {
	Zoom      bool `json:"zoom"`
	Drag      bool `json:"drag"`
	Collapse  bool `json:"collapse"`
	Highlight bool `json:"highlight"`
}

// Options holds the resolved canvas and layout options of a graph.
type Options struct {
	Width        float64      `json:"width"`
	Height       float64      `json:"height"`
	RankDir      RankDir      `json:"rankdir"`
	NodeGap      float64      `json:"node_gap"`
	LevelGap     float64      `json:"level_gap"`
	LayoutType   LayoutType   `json:"layout_type"`
	Interactions Interactions `json:"interactions"`
}

// Graph is a normalized diagram ready for layout.
type Graph struct {
	Nodes       []Node       `json:"nodes"`
	Edges       []Edge       `json:"edges"`
	Groups      []Group      `json:"groups,omitempty"`
	Options     Options      `json:"options"`
	Diagnostics []Diagnostic `json:"diagnostics,omitempty"`

	byID map[string]int
}

// NodeByID returns the last node with the given ID.
func (g *Graph) NodeByID(id string) (Node, bool) {
	if g.byID == nil {
		g.index()
	}
	i, ok := g.byID[id]
	if !ok {
		return Node{}, false
	}
	return g.Nodes[i], true
}

// HasNode reports whether any node carries the given ID.
func (g *Graph) HasNode(id string) bool {
	_, ok := g.NodeByID(id)
	return ok
}

// HasFixedPositions reports whether every node carries preset coordinates.
// An empty graph has no fixed positions.
func (g *Graph) HasFixedPositions() bool {
	if len(g.Nodes) == 0 {
		return false
	}
	for _, n := range g.Nodes {
		if !n.Fixed() {
			return false
		}
	}
	return true
}

// GroupOf returns the first group listing id as a member.
func (g *Graph) GroupOf(id string) (Group, bool) {
	for _, grp := range g.Groups {
		if grp.Contains(id) {
			return grp, true
		}
	}
	return Group{}, false
}

func (g *Graph) index() {
	g.byID = make(map[string]int, len(g.Nodes))
	for i, n := range g.Nodes {
		g.byID[n.ID] = i
	}
}
