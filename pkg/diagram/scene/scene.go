package scene

import (
	"fmt"
	"math"

	"github.com/matzehuels/archdeck/pkg/diagram"
	"github.com/matzehuels/archdeck/pkg/diagram/edgepath"
	"github.com/matzehuels/archdeck/pkg/diagram/layout"
	"github.com/matzehuels/archdeck/pkg/render/sink"
)

// Scene is the live, mutable state of one mounted diagram: camera, node
// positions, hover and drag. It is owned by a single goroutine.
type Scene struct {
	graph  *diagram.Graph
	layout layout.Result
	opts   Options
	flags  diagram.Interactions

	svg     *sink.Element
	zoom    *sink.Element
	groupsG *sink.Element
	edgesG  *sink.Element
	nodesG  *sink.Element

	nodes  []*nodeState
	byID   map[string]*nodeState // last-write-wins
	byEl   map[*sink.Element]*nodeState
	edges  []*edgeState
	groups []*groupState

	transform Transform
	hovered   string
	dragging  *nodeState
	mounted   bool
}

type nodeState struct {
	placed layout.Placed
	pos    diagram.Point
	el     *sink.Element
	label  *sink.Element
	style  Style
}

type edgeState struct {
	edge    diagram.Edge
	path    edgepath.Path
	opacity float64
	el      *sink.Element
	pathEl  *sink.Element
	labelEl *sink.Element
}

type groupState struct {
	group diagram.Group
	el    *sink.Element
	rect  *sink.Element
	label *sink.Element
	box   Box
	shown bool
}

// Box is an axis-aligned rectangle in scene coordinates.
type Box struct {
	X, Y, W, H float64
}

// Contains reports whether p lies inside the box.
func (b Box) Contains(p diagram.Point) bool {
	return p.X >= b.X && p.X <= b.X+b.W && p.Y >= b.Y && p.Y <= b.Y+b.H
}

// NodeView is a read-only snapshot of a node in the scene.
type NodeView struct {
	ID     string
	Label  string
	Type   diagram.NodeType
	Pos    diagram.Point
	Width  float64
	Height float64
	Level  int
	Style  Style
	Hidden bool // label hidden by a collapsed group
}

// Box returns the node rectangle.
func (n NodeView) Box() Box {
	return Box{X: n.Pos.X - n.Width/2, Y: n.Pos.Y - n.Height/2, W: n.Width, H: n.Height}
}

// EdgeView is a read-only snapshot of an edge in the scene.
type EdgeView struct {
	diagram.Edge
	Path    edgepath.Path
	Opacity float64
}

// GroupView is a read-only snapshot of a drawn group.
type GroupView struct {
	diagram.Group
	Box Box
}

func newScene(g *diagram.Graph, res layout.Result, opts Options, arrowID string) *Scene {
	s := &Scene{
		graph:     g,
		layout:    res,
		opts:      opts,
		flags:     g.Options.Interactions,
		byID:      make(map[string]*nodeState, len(res.Nodes)),
		byEl:      make(map[*sink.Element]*nodeState, len(res.Nodes)),
		transform: Identity,
		mounted:   true,
	}
	width, height := res.Width, res.Height
	if width <= 0 || height <= 0 {
		width, height = g.Options.Width, g.Options.Height
	}

	s.svg = sink.El("svg",
		sink.A("xmlns", "http://www.w3.org/2000/svg"),
		sink.A("class", "archdeck"),
		sink.A("width", width),
		sink.A("height", height),
		sink.A("viewBox", fmt.Sprintf("0 0 %s %s", sink.FormatValue(width), sink.FormatValue(height))),
		sink.A("style", "background: transparent"),
	)
	s.svg.Add("defs").Add("marker",
		sink.A("id", arrowID),
		sink.A("viewBox", ArrowViewBox),
		sink.A("refX", 8),
		sink.A("refY", 0),
		sink.A("markerWidth", 6),
		sink.A("markerHeight", 6),
		sink.A("orient", "auto"),
	).Add("path", sink.A("d", ArrowPath), sink.A("fill", EdgeStroke))

	s.zoom = s.svg.Add("g", sink.A("class", "zoom-container"))
	s.groupsG = s.zoom.Add("g", sink.A("class", "groups"))
	s.edgesG = s.zoom.Add("g", sink.A("class", "edges"))
	s.nodesG = s.zoom.Add("g", sink.A("class", "nodes"))

	for _, p := range res.Nodes {
		s.addNode(p, opts.Theme)
	}
	for _, e := range res.Edges {
		s.addEdge(e, arrowID)
	}
	for _, grp := range g.Groups {
		s.addGroup(grp)
	}
	s.applyCollapsed()
	return s
}

func (s *Scene) addNode(p layout.Placed, theme Theme) {
	st := NodeStyle(p.Type, theme)
	el := s.nodesG.Add("g",
		sink.A("class", "node node-"+nodeClass(p.Type)),
		sink.A("data-id", p.ID),
		sink.A("data-x", p.Pos.X),
		sink.A("data-y", p.Pos.Y),
		sink.A("transform", translate(p.Pos)),
	)
	el.Add("rect",
		sink.A("x", -p.Width/2),
		sink.A("y", -p.Height/2),
		sink.A("width", p.Width),
		sink.A("height", p.Height),
		sink.A("rx", CornerRadius),
		sink.A("ry", CornerRadius),
		sink.A("fill", st.Fill),
		sink.A("fill-opacity", st.FillOpacity),
		sink.A("stroke", st.Stroke),
		sink.A("stroke-width", st.StrokeWidth),
	)
	label := el.Add("text",
		sink.A("text-anchor", "middle"),
		sink.A("dominant-baseline", "central"),
		sink.A("font-family", FontFamily),
		sink.A("font-size", FontSize),
		sink.A("fill", TextFill),
	).SetText(p.Label)

	ns := &nodeState{placed: p, pos: p.Pos, el: el, label: label, style: st}
	s.nodes = append(s.nodes, ns)
	s.byID[p.ID] = ns
	s.byEl[el] = ns
}

func (s *Scene) addEdge(e diagram.Edge, arrowID string) {
	el := s.edgesG.Add("g",
		sink.A("class", "edge"),
		sink.A("data-source", e.Source),
		sink.A("data-target", e.Target),
		sink.A("data-style", string(e.Style)),
	)
	pathEl := el.Add("path",
		sink.A("fill", "none"),
		sink.A("stroke", EdgeStroke),
		sink.A("stroke-width", EdgeStrokeWidth),
	)
	if e.Directed {
		pathEl.Set("marker-end", "url(#"+arrowID+")")
	}
	es := &edgeState{edge: e, opacity: 1, el: el, pathEl: pathEl}
	if e.Label != "" {
		es.labelEl = el.Add("text",
			sink.A("class", "edge-label"),
			sink.A("text-anchor", "middle"),
			sink.A("font-family", FontFamily),
			sink.A("font-size", FontSize-2),
			sink.A("fill", EdgeStroke),
		).SetText(e.Label)
	}
	s.edges = append(s.edges, es)
	s.redrawEdge(es)
}

func (s *Scene) addGroup(g diagram.Group) {
	gs := &groupState{group: g}
	gs.el = s.groupsG.Add("g", sink.A("class", "group"), sink.A("data-id", g.ID))
	gs.rect = gs.el.Add("rect",
		sink.A("rx", 10),
		sink.A("ry", 10),
		sink.A("fill", "none"),
		sink.A("stroke", GroupStroke),
		sink.A("stroke-width", 1.5),
		sink.A("stroke-dasharray", "6 4"),
	)
	gs.label = gs.el.Add("text",
		sink.A("font-family", FontFamily),
		sink.A("font-size", FontSize),
		sink.A("fill", GroupStroke),
	).SetText(g.Label)
	if s.collapsed(gs) {
		gs.el.Set("class", "group collapsed")
		gs.rect.Unset("stroke-dasharray")
		gs.rect.Set("fill", GroupStroke).Set("fill-opacity", 0.15)
		gs.label.Set("text-anchor", "middle").Set("dominant-baseline", "central")
	}
	s.groups = append(s.groups, gs)
	s.redrawGroup(gs)
}

// collapsed reports whether gs is drawn folded. The group asks for it and
// the collapse interaction must be enabled.
func (s *Scene) collapsed(gs *groupState) bool {
	return gs.group.Collapsed && s.flags.Collapse
}

func (s *Scene) applyCollapsed() {
	for _, gs := range s.groups {
		if !s.collapsed(gs) {
			continue
		}
		for _, id := range gs.group.Nodes {
			if ns, ok := s.byID[id]; ok {
				ns.label.Set("visibility", "hidden")
			}
		}
	}
}

// redrawEdge recomputes the path of es from the live endpoint positions.
// Endpoints resolve through the last-write-wins lookup.
func (s *Scene) redrawEdge(es *edgeState) {
	var src, dst *diagram.Point
	if ns, ok := s.byID[es.edge.Source]; ok {
		p := ns.pos
		src = &p
	}
	if ns, ok := s.byID[es.edge.Target]; ok {
		p := ns.pos
		dst = &p
	}
	es.path = edgepath.Generate(src, dst, es.edge.Style)
	es.pathEl.Set("d", es.path.String())
	if es.labelEl != nil {
		if mid, ok := es.path.Midpoint(); ok {
			es.labelEl.Set("x", mid.X).Set("y", mid.Y-4)
		}
	}
}

func (s *Scene) redrawGroup(gs *groupState) {
	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	members := 0
	for _, id := range gs.group.Nodes {
		ns, ok := s.byID[id]
		if !ok {
			continue
		}
		members++
		w, h := ns.placed.Width/2, ns.placed.Height/2
		minX, minY = math.Min(minX, ns.pos.X-w), math.Min(minY, ns.pos.Y-h)
		maxX, maxY = math.Max(maxX, ns.pos.X+w), math.Max(maxY, ns.pos.Y+h)
	}
	gs.shown = members > 0
	if !gs.shown {
		gs.el.Set("display", "none")
		return
	}
	gs.el.Unset("display")
	gs.box = Box{
		X: minX - GroupPadding,
		Y: minY - GroupPadding - GroupLabelSpace,
		W: maxX - minX + 2*GroupPadding,
		H: maxY - minY + 2*GroupPadding + GroupLabelSpace,
	}
	gs.rect.Set("x", gs.box.X).Set("y", gs.box.Y).Set("width", gs.box.W).Set("height", gs.box.H)
	if s.collapsed(gs) {
		gs.label.Set("x", gs.box.X+gs.box.W/2).Set("y", gs.box.Y+gs.box.H/2)
	} else {
		gs.label.Set("x", gs.box.X+8).Set("y", gs.box.Y+GroupLabelSpace-4)
	}
}

func nodeClass(t diagram.NodeType) string {
	if t.Known() {
		return string(t)
	}
	return "default"
}

// =============================================================================
// Accessors
// =============================================================================

// Mounted reports whether the scene is still attached to its container.
func (s *Scene) Mounted() bool { return s.mounted }

// Graph returns the normalized graph the scene was built from.
func (s *Scene) Graph() *diagram.Graph { return s.graph }

// Layout returns the layout the scene was built from.
func (s *Scene) Layout() layout.Result { return s.layout }

// Interactions returns the enabled interactive behaviors.
func (s *Scene) Interactions() diagram.Interactions { return s.flags }

// Size returns the canvas size.
func (s *Scene) Size() (w, h float64) {
	w, h = s.layout.Width, s.layout.Height
	if w <= 0 || h <= 0 {
		w, h = s.graph.Options.Width, s.graph.Options.Height
	}
	return w, h
}

// Root returns the scene's svg element.
func (s *Scene) Root() *sink.Element { return s.svg }

// BrowserInteraction returns the browser behaviors enabled for this scene.
func (s *Scene) BrowserInteraction() sink.Interaction {
	return sink.Interaction{
		Zoom:     s.flags.Zoom,
		Drag:     s.flags.Drag,
		Hover:    s.flags.Highlight,
		MinScale: MinScale,
		MaxScale: MaxScale,
		Dim:      DimOpacity,
	}
}

// SVG serializes the scene with the interaction script for enabled behaviors.
func (s *Scene) SVG() []byte {
	return sink.RenderSVG(s.svg, sink.WithInteraction(s.BrowserInteraction()))
}

// Position returns the live position of a node.
func (s *Scene) Position(id string) (diagram.Point, bool) {
	ns, ok := s.byID[id]
	if !ok {
		return diagram.Point{}, false
	}
	return ns.pos, true
}

// Nodes returns every node in paint order.
func (s *Scene) Nodes() []NodeView {
	out := make([]NodeView, 0, len(s.nodes))
	for _, el := range s.nodesG.Children {
		ns, ok := s.byEl[el]
		if !ok {
			continue
		}
		out = append(out, ns.view())
	}
	return out
}

// Edges returns every drawn edge in input order.
func (s *Scene) Edges() []EdgeView {
	out := make([]EdgeView, len(s.edges))
	for i, es := range s.edges {
		out[i] = EdgeView{Edge: es.edge, Path: es.path, Opacity: es.opacity}
	}
	return out
}

// Groups returns every group with at least one placed member.
func (s *Scene) Groups() []GroupView {
	var out []GroupView
	for _, gs := range s.groups {
		if gs.shown {
			v := GroupView{Group: gs.group, Box: gs.box}
			v.Collapsed = s.collapsed(gs)
			out = append(out, v)
		}
	}
	return out
}

// EdgePath returns the current path of edge i.
func (s *Scene) EdgePath(i int) (edgepath.Path, bool) {
	if i < 0 || i >= len(s.edges) {
		return edgepath.Path{}, false
	}
	return s.edges[i].path, true
}

// EdgeOpacity returns the current opacity of edge i.
func (s *Scene) EdgeOpacity(i int) float64 {
	if i < 0 || i >= len(s.edges) {
		return 0
	}
	return s.edges[i].opacity
}

// Hovered returns the ID of the hovered node, or "".
func (s *Scene) Hovered() string { return s.hovered }

// Dragging returns the ID of the node being dragged, or "".
func (s *Scene) Dragging() string {
	if s.dragging == nil {
		return ""
	}
	return s.dragging.placed.ID
}

func (ns *nodeState) view() NodeView {
	return NodeView{
		ID:     ns.placed.ID,
		Label:  ns.placed.Label,
		Type:   ns.placed.Type,
		Pos:    ns.pos,
		Width:  ns.placed.Width,
		Height: ns.placed.Height,
		Level:  ns.placed.Level,
		Style:  ns.style,
		Hidden: ns.label.Attr("visibility") == "hidden",
	}
}
