package sink

import (
	"strings"
	"testing"
)

func TestRenderSVG(t *testing.T) {
	root := El("svg", A("xmlns", "http://www.w3.org/2000/svg"), A("width", 960.0))
	g := root.Add("g", A("class", "nodes"))
	g.Add("rect", A("x", -50.0), A("rx", 6))
	g.Add("text").SetText(`a < b & "c"`)

	got := string(RenderSVG(root))
	want := `<svg xmlns="http://www.w3.org/2000/svg" width="960"><g class="nodes"><rect x="-50" rx="6"/><text>a &lt; b &amp; "c"</text></g></svg>`
	if got != want {
		t.Errorf("RenderSVG() =\n%s\nwant\n%s", got, want)
	}
}

func TestRenderSVGInteraction(t *testing.T) {
	root := El("svg")
	tests := []struct {
		name   string
		opts   []SVGOption
		script bool
	}{
		{"none", nil, false},
		{"all disabled", []SVGOption{WithInteraction(Interaction{})}, false},
		{"zoom only", []SVGOption{WithInteraction(Interaction{Zoom: true})}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := string(RenderSVG(root, tt.opts...))
			if has := strings.Contains(out, "<script"); has != tt.script {
				t.Errorf("script present = %v, want %v", has, tt.script)
			}
		})
	}

	out := string(RenderSVG(root, WithInteraction(Interaction{Hover: true})))
	if !strings.Contains(out, "zoom: false, drag: false, hover: true, minScale: 0.1, maxScale: 3, dim: 0.3") {
		t.Errorf("script config not rendered:\n%s", out)
	}
	if !strings.HasSuffix(strings.TrimSpace(out), "</svg>") {
		t.Error("script must be inside the svg element")
	}
}

func TestElementTree(t *testing.T) {
	root := El("g")
	a := root.Add("g", A("id", "a"), A("class", "node gateway"))
	b := root.Add("g", A("id", "b"), A("class", "node"))
	root.Add("g", A("class", "edge"))

	if a.Index() != 0 {
		t.Fatalf("Index(a) = %d", a.Index())
	}
	a.Raise()
	if a.Index() != 2 || b.Index() != 0 {
		t.Errorf("after Raise: a=%d b=%d", a.Index(), b.Index())
	}
	if got := root.FindByID("b"); got != b {
		t.Errorf("FindByID(b) = %v", got)
	}
	if n := len(root.FindAll(ByClass("node"))); n != 2 {
		t.Errorf("nodes = %d, want 2", n)
	}
	if n := len(root.FindAll(ByClass("gate"))); n != 0 {
		t.Errorf("partial class match = %d, want 0", n)
	}

	a.Set("transform", "translate(1,2)").Set("transform", "translate(3,4)")
	if v := a.Attr("transform"); v != "translate(3,4)" {
		t.Errorf("transform = %q", v)
	}
	a.Unset("transform")
	if _, ok := a.Get("transform"); ok {
		t.Error("Unset left the attribute")
	}

	other := El("g")
	other.Append(b)
	if b.Parent() != other || len(root.Children) != 2 {
		t.Errorf("Append should move b: parent=%v children=%d", b.Parent(), len(root.Children))
	}

	root.Clear()
	if root.Count() != 1 || a.Parent() != nil {
		t.Errorf("Clear left residue: count=%d", root.Count())
	}
}

func TestFormatValue(t *testing.T) {
	tests := []struct {
		in   any
		want string
	}{
		{12.0, "12"},
		{0.25, "0.25"},
		{-0.0, "0"},
		{6, "6"},
		{true, "true"},
		{"x", "x"},
	}
	for _, tt := range tests {
		if got := FormatValue(tt.in); got != tt.want {
			t.Errorf("FormatValue(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestRenderHTML(t *testing.T) {
	out := string(RenderHTML(El("svg"), Page{Title: "Orders <v2>"}))
	for _, want := range []string{"<!DOCTYPE html>", "<title>Orders &lt;v2&gt;</title>", "<svg/>", "max-width: 100%;"} {
		if !strings.Contains(out, want) {
			t.Errorf("missing %q in\n%s", want, out)
		}
	}
}

func TestPanel(t *testing.T) {
	out := string(RenderFragment(Panel("archdeck-error", "#ef4444", "Error rendering diagram: boom")))
	want := `<div class="archdeck-error" style="padding: 20px; text-align: center; color: #ef4444;">Error rendering diagram: boom</div>`
	if out != want {
		t.Errorf("Panel =\n%s\nwant\n%s", out, want)
	}
}
