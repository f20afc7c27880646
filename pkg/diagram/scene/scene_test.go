package scene

import (
	"bytes"
	"io"
	"strings"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/archdeck/pkg/diagram"
	"github.com/matzehuels/archdeck/pkg/diagram/layout"
	"github.com/matzehuels/archdeck/pkg/errors"
	"github.com/matzehuels/archdeck/pkg/render/sink"
)

func quiet() Options {
	return Options{Logger: log.New(io.Discard)}
}

func bp(v bool) *bool { return &v }

func chainSpec() *diagram.Spec {
	return &diagram.Spec{
		Nodes: []diagram.NodeSpec{
			{ID: "gw", Type: "gateway"},
			{ID: "orders", Type: "service"},
			{ID: "db", Type: "database"},
			{ID: "audit"},
		},
		Edges: []diagram.EdgeSpec{
			{Source: "gw", Target: "orders", Label: "REST"},
			{Source: "orders", Target: "db", Style: "orthogonal"},
			{Source: "gw", Target: "audit", Style: "curved", Directed: bp(false)},
		},
	}
}

func mountChain(t *testing.T) (*Container, *Scene) {
	t.Helper()
	c := NewContainer("test")
	h := Mount(c, chainSpec(), quiet())
	if h.State() != StateMounted {
		t.Fatalf("State() = %v, err = %v", h.State(), h.Err())
	}
	return c, h.Scene()
}

func TestMountBuildsScene(t *testing.T) {
	c, s := mountChain(t)

	if got := len(s.Nodes()); got != 4 {
		t.Errorf("len(Nodes) = %d, want 4", got)
	}
	if got := len(s.Edges()); got != 3 {
		t.Errorf("len(Edges) = %d, want 3", got)
	}

	out := string(c.Render())
	for _, want := range []string{
		`class="archdeck"`,
		`viewBox="0 0 960 540"`,
		`<marker id="arrowhead-test" viewBox="0 -5 10 10" refX="8"`,
		`fill="#fbbf24" fill-opacity="0.2" stroke="#f59e0b"`,
		`fill="#94a3b8" fill-opacity="0.2" stroke="#64748b"`,
		`marker-end="url(#arrowhead-test)"`,
		`class="edge-label"`,
		`>REST</text>`,
		`<script type="text/javascript">`,
	} {
		if !strings.Contains(out, want) {
			t.Errorf("render missing %q", want)
		}
	}
	if n := strings.Count(out, "marker-end="); n != 2 {
		t.Errorf("marker-end count = %d, want 2 (undirected edge has none)", n)
	}
}

func TestNodeStyle(t *testing.T) {
	tests := []struct {
		typ    diagram.NodeType
		theme  Theme
		fill   string
		stroke string
		op     float64
	}{
		{diagram.NodeGateway, ThemeDark, "#fbbf24", "#f59e0b", 0.2},
		{diagram.NodeService, ThemeLight, "#60a5fa", "#3b82f6", 0.1},
		{diagram.NodeDatabase, ThemeDark, "#34d399", "#10b981", 0.2},
		{diagram.NodeQueue, ThemeDark, "#f472b6", "#ec4899", 0.2},
		{"cache", ThemeLight, "#94a3b8", "#64748b", 0.1},
	}
	for _, tt := range tests {
		t.Run(string(tt.typ), func(t *testing.T) {
			st := NodeStyle(tt.typ, tt.theme)
			if st.Fill != tt.fill || st.Stroke != tt.stroke || st.FillOpacity != tt.op {
				t.Errorf("NodeStyle = %+v", st)
			}
		})
	}
}

func TestDragMovesOnlyIncidentEdges(t *testing.T) {
	_, s := mountChain(t)

	before := s.Edges()
	gwBefore, _ := s.Position("gw")
	dbBefore, _ := s.Position("db")

	if !s.DragStart("orders") {
		t.Fatal("DragStart returned false")
	}
	if !s.Drag("orders", 500, 400) {
		t.Fatal("Drag returned false")
	}
	s.DragEnd()

	if p, _ := s.Position("orders"); p != (diagram.Point{X: 500, Y: 400}) {
		t.Errorf("orders at %+v, want (500,400)", p)
	}
	if p, _ := s.Position("gw"); p != gwBefore {
		t.Errorf("gw moved from %+v to %+v", gwBefore, p)
	}
	if p, _ := s.Position("db"); p != dbBefore {
		t.Errorf("db moved from %+v to %+v", dbBefore, p)
	}

	after := s.Edges()
	for i := range after {
		changed := after[i].Path.String() != before[i].Path.String()
		incident := after[i].Touches("orders")
		if changed != incident {
			t.Errorf("edge %s→%s changed=%v incident=%v", after[i].Source, after[i].Target, changed, incident)
		}
	}
	want := "M 500,400 L 690,400 L 690,270 L 880,270"
	if got := after[1].Path.String(); got != want {
		t.Errorf("orders→db path = %q, want %q", got, want)
	}
}

func TestDragRaisesNode(t *testing.T) {
	_, s := mountChain(t)
	s.DragStart("gw")
	nodes := s.Nodes()
	if last := nodes[len(nodes)-1].ID; last != "gw" {
		t.Errorf("topmost node = %s, want gw", last)
	}
	if id, ok := s.NodeAt(80, 270); !ok || id != "gw" {
		t.Errorf("NodeAt = %q, %v", id, ok)
	}
	if s.Dragging() != "gw" {
		t.Errorf("Dragging() = %q", s.Dragging())
	}
}

func TestHover(t *testing.T) {
	_, s := mountChain(t)

	if !s.HoverEnter("db") {
		t.Fatal("HoverEnter returned false")
	}
	want := []float64{DimOpacity, 1, DimOpacity}
	for i, w := range want {
		if got := s.EdgeOpacity(i); got != w {
			t.Errorf("edge %d opacity = %v, want %v", i, got, w)
		}
	}
	s.HoverLeave()
	for i := range want {
		if got := s.EdgeOpacity(i); got != 1 {
			t.Errorf("edge %d opacity after leave = %v, want 1", i, got)
		}
	}
	if s.HoverEnter("nope") {
		t.Error("HoverEnter on unknown node should report false")
	}
}

func TestZoomClamp(t *testing.T) {
	_, s := mountChain(t)

	s.Zoom(100, 0, 0)
	if k := s.Transform().K; k != MaxScale {
		t.Errorf("K = %v, want clamp to %v", k, MaxScale)
	}
	s.Zoom(0.0001, 0, 0)
	if k := s.Transform().K; k != MinScale {
		t.Errorf("K = %v, want clamp to %v", k, MinScale)
	}

	s.ResetView()
	s.Zoom(2, 100, 50)
	// The anchor point stays fixed on screen.
	if p := s.ToScene(100, 50); p != (diagram.Point{X: 100, Y: 50}) {
		t.Errorf("anchor moved to %+v", p)
	}
	s.Pan(10, -5)
	tr := s.Transform()
	if tr.X != -90 || tr.Y != -55 || tr.K != 2 {
		t.Errorf("Transform = %+v", tr)
	}
	if !strings.Contains(string(s.SVG()), `transform="translate(-90,-55) scale(2)"`) {
		t.Error("zoom container transform not rendered")
	}
}

func TestInteractionsDisabled(t *testing.T) {
	spec := chainSpec()
	spec.Interactions = &diagram.InteractionSpec{Zoom: bp(false), Drag: bp(false), HighlightPathOnHover: bp(false)}
	c := NewContainer("")
	s := Mount(c, spec, quiet()).Scene()

	if s.Zoom(2, 0, 0) || s.Pan(1, 1) || s.SetTransform(Transform{K: 2}) {
		t.Error("camera should be fixed")
	}
	if s.DragStart("gw") || s.Drag("gw", 1, 1) {
		t.Error("drag should be disabled")
	}
	if s.HoverEnter("gw") {
		t.Error("hover should be disabled")
	}
	if strings.Contains(string(c.Render()), "<script") {
		t.Error("no script expected when every interaction is off")
	}
}

func TestMountEmpty(t *testing.T) {
	c := NewContainer("empty")
	h := Mount(c, &diagram.Spec{Edges: []diagram.EdgeSpec{{Source: "a", Target: "b"}}}, quiet())

	if h.State() != StatePlaceholder {
		t.Fatalf("State() = %v, want placeholder", h.State())
	}
	if h.Layout() != nil || h.Scene() != nil {
		t.Error("placeholder must not compute a layout")
	}
	if !strings.Contains(string(c.Render()), PlaceholderText) {
		t.Errorf("render = %s", c.Render())
	}
}

func TestRemountLeavesNoResidue(t *testing.T) {
	c := NewContainer("slide")
	first := Mount(c, chainSpec(), quiet())
	s1 := first.Scene()
	s1.Drag("gw", 10, 10)

	second := Mount(c, &diagram.Spec{Nodes: []diagram.NodeSpec{{ID: "solo"}}}, quiet())

	if first.State() != StateUnmounted {
		t.Errorf("first.State() = %v, want unmounted", first.State())
	}
	if s1.Drag("gw", 20, 20) || s1.Zoom(2, 0, 0) {
		t.Error("stale scene still accepts interactions")
	}
	if len(c.Root().Children) != 1 {
		t.Fatalf("container children = %d, want 1", len(c.Root().Children))
	}
	nodes := c.Root().FindAll(sink.ByClass("node"))
	if len(nodes) != 1 || nodes[0].Attr("data-id") != "solo" {
		t.Errorf("nodes after re-mount = %d", len(nodes))
	}
	if c.Handle() != second {
		t.Error("container should track the latest handle")
	}
	if second.Scene().Transform() != Identity {
		t.Error("camera state leaked across mounts")
	}

	second.Unmount()
	if !c.Empty() || second.State() != StateUnmounted {
		t.Error("Unmount should clear the container")
	}
	first.Unmount() // stale handle, must not touch the container
}

func TestMountLayoutFromCache(t *testing.T) {
	g, err := diagram.Normalize(chainSpec())
	if err != nil {
		t.Fatal(err)
	}
	res := layout.Compute(g)
	c := NewContainer("")
	h := MountLayout(c, g, res, quiet())
	if h.State() != StateMounted {
		t.Fatalf("State() = %v", h.State())
	}
	p, _ := h.Scene().Position("db")
	want, _ := res.Position("db")
	if p != want {
		t.Errorf("db at %+v, want %+v", p, want)
	}
}

func TestMountFailureShowsPanel(t *testing.T) {
	var logs bytes.Buffer
	opts := Options{Logger: log.New(&logs)}

	tests := []struct {
		name  string
		build func() (*sink.Element, error)
		msg   string
	}{
		{"error", func() (*sink.Element, error) { return nil, errors.New(errors.ErrCodeRenderFailed, "bad scale") }, "bad scale"},
		{"panic", func() (*sink.Element, error) { panic("index out of range") }, "index out of range"},
		{"nil content", func() (*sink.Element, error) { return nil, nil }, "renderer produced no content"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logs.Reset()
			c := NewContainer("")
			h := MountStatic(c, opts, tt.build)

			if h.State() != StateFailed || h.Err() == nil {
				t.Fatalf("State() = %v, Err() = %v", h.State(), h.Err())
			}
			out := string(c.Render())
			if !strings.Contains(out, ErrorPrefix+tt.msg) {
				t.Errorf("panel = %s", out)
			}
			if !strings.Contains(logs.String(), "render diagram") {
				t.Errorf("failure not logged: %q", logs.String())
			}
		})
	}
}

func TestDiagnosticsCollected(t *testing.T) {
	spec := &diagram.Spec{
		Nodes: []diagram.NodeSpec{{ID: "A"}, {ID: "B"}},
		Edges: []diagram.EdgeSpec{{Source: "X", Target: "A"}, {Source: "A", Target: "B"}, {Source: "B", Target: "A"}},
	}
	h := Mount(NewContainer(""), spec, quiet())
	if h.State() != StateMounted {
		t.Fatalf("cyclic graph should still mount, got %v", h.State())
	}
	if !h.Layout().CycleDetected {
		t.Error("CycleDetected = false")
	}
	if !diagram.HasCode(h.Diagnostics(), errors.ErrCodeUnknownNode) || !diagram.HasCode(h.Diagnostics(), errors.ErrCodeCycleDetected) {
		t.Errorf("diagnostics = %v", h.Diagnostics())
	}
	if len(h.Scene().Edges()) != 2 {
		t.Errorf("dangling edge drawn: %d edges", len(h.Scene().Edges()))
	}
}

func TestGroups(t *testing.T) {
	spec := chainSpec()
	spec.Groups = []diagram.GroupSpec{
		{ID: "core", Label: "Core", Nodes: []string{"orders", "db"}},
		{ID: "ops", Nodes: []string{"audit"}, Collapsed: true},
		{ID: "ghost", Nodes: []string{"missing"}},
	}
	s := Mount(NewContainer(""), spec, quiet()).Scene()

	groups := s.Groups()
	if len(groups) != 2 {
		t.Fatalf("len(Groups) = %d, want 2 (empty group hidden)", len(groups))
	}
	core := groups[0].Box
	for _, id := range []string{"orders", "db"} {
		p, _ := s.Position(id)
		if !core.Contains(p) {
			t.Errorf("%s at %+v outside group box %+v", id, p, core)
		}
	}

	s.Drag("db", 900, 500)
	if moved := s.Groups()[0].Box; moved == core {
		t.Error("group box did not follow the dragged member")
	}

	for _, n := range s.Nodes() {
		if n.Hidden != (n.ID == "audit") {
			t.Errorf("%s Hidden = %v", n.ID, n.Hidden)
		}
	}
}

func TestCollapseDisabled(t *testing.T) {
	tests := []struct {
		name     string
		collapse *bool
		folded   bool
	}{
		{"default", nil, true},
		{"disabled", bp(false), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			spec := chainSpec()
			spec.Groups = []diagram.GroupSpec{{ID: "ops", Nodes: []string{"audit"}, Collapsed: true}}
			spec.Interactions = &diagram.InteractionSpec{Collapse: tt.collapse}
			c := NewContainer("")
			s := Mount(c, spec, quiet()).Scene()

			groups := c.Root().FindAll(sink.ByClass("group"))
			if len(groups) != 1 {
				t.Fatalf("groups = %d, want 1", len(groups))
			}
			g := groups[0]
			if got := g.Attr("class") == "group collapsed"; got != tt.folded {
				t.Errorf("class = %q", g.Attr("class"))
			}
			rect := g.FindAll(func(e *sink.Element) bool { return e.Tag == "rect" })[0]
			if _, dashed := rect.Get("stroke-dasharray"); dashed == tt.folded {
				t.Errorf("stroke-dasharray present = %v, folded = %v", dashed, tt.folded)
			}
			if got := rect.Attr("fill") != "none"; got != tt.folded {
				t.Errorf("fill = %q", rect.Attr("fill"))
			}
			for _, n := range s.Nodes() {
				if n.ID == "audit" && n.Hidden != tt.folded {
					t.Errorf("audit Hidden = %v", n.Hidden)
				}
			}
			if v := s.Groups()[0]; v.Collapsed != tt.folded {
				t.Errorf("GroupView.Collapsed = %v", v.Collapsed)
			}
		})
	}
}

func TestTransformString(t *testing.T) {
	tr := Transform{X: 12.5, Y: -3, K: 1.5}
	if got := tr.String(); got != "translate(12.5,-3) scale(1.5)" {
		t.Errorf("String() = %q", got)
	}
	p := diagram.Point{X: 10, Y: 20}
	if back := tr.Invert(tr.Apply(p)); back != p {
		t.Errorf("round trip = %+v", back)
	}
}
