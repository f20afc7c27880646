package nodelink

import (
	"strings"
	"testing"

	"github.com/matzehuels/archdeck/pkg/diagram"
	"github.com/matzehuels/archdeck/pkg/diagram/layout"
	"github.com/matzehuels/archdeck/pkg/diagram/scene"
)

func build(t *testing.T, src string) (*diagram.Graph, layout.Result) {
	t.Helper()
	spec, err := diagram.Parse([]byte(src), diagram.FormatJSON)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	g, err := diagram.Normalize(spec)
	if err != nil {
		t.Fatalf("Normalize: %v", err)
	}
	return g, layout.Compute(g)
}

func TestToDOT_Basic(t *testing.T) {
	g, res := build(t, `{
		"nodes": [{"id": "a", "type": "gateway"}, {"id": "b"}],
		"edges": [{"source": "a", "target": "b"}, {"source": "a", "target": "ghost"}]
	}`)

	dot := ToDOT(g, res, Options{})

	for _, want := range []string{
		"digraph G",
		"rankdir=LR;",
		"ranksep=1.67;",
		"nodesep=1.94;",
		"splines=line;",
		`"a" [label="a", fillcolor="#fbbf2433", color="#f59e0b"`,
		`"b" [label="b", fillcolor="#94a3b833"`,
		`"a" -> "b";`,
	} {
		if !strings.Contains(dot, want) {
			t.Errorf("ToDOT() output missing %q\n%s", want, dot)
		}
	}
	if strings.Contains(dot, "ghost") {
		t.Error("ToDOT() should drop edges to unknown nodes")
	}
}

func TestToDOT_EdgeAttributes(t *testing.T) {
	g, res := build(t, `{
		"nodes": [{"id": "a"}, {"id": "b"}, {"id": "c"}],
		"edges": [
			{"source": "a", "target": "b", "label": "grpc", "style": "orthogonal"},
			{"source": "b", "target": "c", "directed": false, "style": "orthogonal"},
			{"source": "a", "target": "c", "style": "curved"}
		],
		"layout": {"rankdir": "TB"}
	}`)

	dot := ToDOT(g, res, Options{})

	for _, want := range []string{
		"rankdir=TB;",
		"splines=ortho;",
		`"a" -> "b" [label="grpc"];`,
		`"b" -> "c" [dir=none];`,
		`"a" -> "c";`,
	} {
		if !strings.Contains(dot, want) {
			t.Errorf("ToDOT() output missing %q", want)
		}
	}
}

func TestToDOT_Groups(t *testing.T) {
	g, res := build(t, `{
		"nodes": [{"id": "api"}, {"id": "users"}, {"id": "orders"}],
		"edges": [{"source": "api", "target": "users"}],
		"groups": [
			{"id": "core", "label": "Core", "nodes": ["users", "orders"]},
			{"id": "none", "nodes": ["missing"]},
			{"id": "hidden", "nodes": ["api"], "collapsed": true}
		]
	}`)

	dot := ToDOT(g, res, Options{})

	if !strings.Contains(dot, `subgraph "cluster_0"`) || !strings.Contains(dot, `label="Core";`) {
		t.Errorf("missing Core cluster:\n%s", dot)
	}
	if strings.Contains(dot, "cluster_1") {
		t.Error("group without members should not produce a cluster")
	}
	if !strings.Contains(dot, `"api" [label=""`) {
		t.Error("collapsed group members should have empty labels")
	}
	if n := strings.Count(dot, `"users" [`); n != 1 {
		t.Errorf("users declared %d times, want 1", n)
	}
}

func TestToDOT_CollapseDisabled(t *testing.T) {
	g, res := build(t, `{
		"nodes": [{"id": "api"}, {"id": "users"}],
		"groups": [{"id": "edge", "nodes": ["api"], "collapsed": true}],
		"interactions": {"collapse": false}
	}`)

	dot := ToDOT(g, res, Options{})
	if strings.Contains(dot, `"api" [label=""`) {
		t.Errorf("collapse is disabled, api should keep its label:\n%s", dot)
	}
}

func TestFmtLabel(t *testing.T) {
	n := layout.Placed{Node: diagram.Node{ID: "db", Label: "Orders DB", Type: diagram.NodeDatabase}, Level: 2}

	if got := fmtLabel(n, false); got != "Orders DB" {
		t.Errorf("fmtLabel() simple = %q", got)
	}
	got := fmtLabel(n, true)
	if !strings.HasPrefix(got, "Orders DB\n") || !strings.Contains(got, "level: 2") || !strings.Contains(got, "type: database") {
		t.Errorf("fmtLabel() detailed = %q", got)
	}
}

func TestFmtAttrs_Theme(t *testing.T) {
	n := layout.Placed{Node: diagram.Node{ID: "q", Label: "q", Type: diagram.NodeQueue, Width: 100, Height: 40}}

	dark := strings.Join(fmtAttrs(n, "q", scene.ThemeDark), " ")
	light := strings.Join(fmtAttrs(n, "q", scene.ThemeLight), " ")

	if !strings.Contains(dark, `fillcolor="#f472b633"`) {
		t.Errorf("dark attrs = %s", dark)
	}
	if !strings.Contains(light, `fillcolor="#f472b61a"`) {
		t.Errorf("light attrs = %s", light)
	}
	if !strings.Contains(dark, "width=1.39") || !strings.Contains(dark, "height=0.56") {
		t.Errorf("size attrs = %s", dark)
	}
}

func TestSplines(t *testing.T) {
	tests := []struct {
		name   string
		styles []diagram.EdgeStyle
		want   string
	}{
		{"none", nil, "line"},
		{"curved", []diagram.EdgeStyle{diagram.EdgeCurved}, "curved"},
		{"majority", []diagram.EdgeStyle{diagram.EdgeStraight, diagram.EdgeOrthogonal, diagram.EdgeOrthogonal}, "ortho"},
		{"tie keeps first", []diagram.EdgeStyle{diagram.EdgeCurved, diagram.EdgeOrthogonal}, "curved"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var edges []diagram.Edge
			for _, s := range tt.styles {
				edges = append(edges, diagram.Edge{Style: s})
			}
			if got := splines(edges); got != tt.want {
				t.Errorf("splines() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestNormalizeViewBox(t *testing.T) {
	tests := []struct {
		name string
		svg  string
		want string
	}{
		{
			name: "with viewBox",
			svg:  `<svg viewBox="10 20 800 600" xmlns="http://www.w3.org/2000/svg">content</svg>`,
			want: `<svg xmlns="http://www.w3.org/2000/svg" class="archdeck archdeck-nodelink" viewBox="0 0 800.00 600.00" width="800" height="600">content</svg>`,
		},
		{
			name: "no viewBox",
			svg:  `<svg xmlns="http://www.w3.org/2000/svg">content</svg>`,
			want: `<svg xmlns="http://www.w3.org/2000/svg">content</svg>`,
		},
		{
			name: "zero dimensions",
			svg:  `<svg viewBox="0 0 0 0">content</svg>`,
			want: `<svg viewBox="0 0 0 0">content</svg>`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := normalizeViewBox([]byte(tt.svg))
			if string(got) != tt.want {
				t.Errorf("normalizeViewBox() = %q, want %q", string(got), tt.want)
			}
		})
	}
}

func TestRenderSVG(t *testing.T) {
	g, res := build(t, `{"nodes": [{"id": "a"}, {"id": "b"}], "edges": [{"source": "a", "target": "b"}]}`)
	svg, err := RenderSVG(ToDOT(g, res, Options{}))
	if err != nil {
		t.Fatalf("RenderSVG() error: %v", err)
	}
	if !strings.Contains(string(svg), "<svg") {
		t.Error("RenderSVG() output missing <svg> tag")
	}
}

func TestRenderPNG(t *testing.T) {
	png, err := RenderPNG(`digraph G { a -> b; }`)
	if err != nil {
		t.Fatalf("RenderPNG() error: %v", err)
	}
	if len(png) < 8 || string(png[1:4]) != "PNG" {
		t.Error("RenderPNG() output is not a PNG")
	}
}

func TestRenderSVG_InvalidDOT(t *testing.T) {
	if _, err := RenderSVG(`not valid DOT {{{`); err == nil {
		t.Error("RenderSVG() should return error for invalid DOT")
	}
}
