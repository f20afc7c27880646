package nodelink

import (
	"bytes"
	"context"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/archdeck/pkg/diagram"
	"github.com/matzehuels/archdeck/pkg/diagram/layout"
	"github.com/matzehuels/archdeck/pkg/diagram/scene"
)

// pointsPerInch converts pixel gaps to Graphviz inch units.
const pointsPerInch = 72.0

// Options configures node-link diagram rendering.
type Options struct {
	// Detailed adds the layout level and node type to each label.
	Detailed bool
	Theme    scene.Theme
}

// ToDOT converts a diagram and its layout to Graphviz DOT.
// Node order, levels and the filtered edge list come from res, so dangling
// edges dropped by the layout never reach Graphviz either.
//
// Groups become clusters. Graphviz only supports one spline mode per graph,
// so the most common edge style wins.
func ToDOT(g *diagram.Graph, res layout.Result, opts Options) string {
	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	fmt.Fprintf(&buf, "  rankdir=%s;\n", g.Options.RankDir)
	buf.WriteString("  bgcolor=\"transparent\";\n")
	fmt.Fprintf(&buf, "  splines=%s;\n", splines(res.Edges))
	fmt.Fprintf(&buf, "  node [shape=box, style=\"rounded,filled\", fontname=\"sans-serif\", fontsize=12, fontcolor=%q, penwidth=2];\n", scene.TextFill)
	fmt.Fprintf(&buf, "  edge [color=%q, penwidth=%s, arrowsize=0.6];\n", scene.EdgeStroke, strconv.FormatFloat(scene.EdgeStrokeWidth, 'f', -1, 64))
	fmt.Fprintf(&buf, "  ranksep=%.2f;\n", g.Options.LevelGap/pointsPerInch)
	fmt.Fprintf(&buf, "  nodesep=%.2f;\n", g.Options.NodeGap/pointsPerInch)
	buf.WriteString("\n")

	seen := make(map[string]bool)
	clustered := make(map[string]bool)
	for i, grp := range g.Groups {
		var members []layout.Placed
		for _, n := range res.Nodes {
			if grp.Contains(n.ID) && !clustered[n.ID] {
				members = append(members, n)
				clustered[n.ID] = true
			}
		}
		if len(members) == 0 {
			continue
		}
		fmt.Fprintf(&buf, "  subgraph \"cluster_%d\" {\n", i)
		fmt.Fprintf(&buf, "    label=%q;\n", grp.Label)
		fmt.Fprintf(&buf, "    style=\"rounded,dashed\";\n    color=%q;\n    fontcolor=%q;\n", scene.GroupStroke, scene.GroupStroke)
		for _, n := range members {
			writeNode(&buf, "    ", n, grp.Collapsed && g.Options.Interactions.Collapse, opts)
			seen[n.ID] = true
		}
		buf.WriteString("  }\n")
	}

	for _, n := range res.Nodes {
		if seen[n.ID] {
			continue
		}
		writeNode(&buf, "  ", n, false, opts)
		seen[n.ID] = true
	}

	buf.WriteString("\n")
	for _, e := range res.Edges {
		attrs := edgeAttrs(e)
		if len(attrs) == 0 {
			fmt.Fprintf(&buf, "  %q -> %q;\n", e.Source, e.Target)
			continue
		}
		fmt.Fprintf(&buf, "  %q -> %q [%s];\n", e.Source, e.Target, strings.Join(attrs, ", "))
	}

	buf.WriteString("}\n")
	return buf.String()
}

// writeNode emits one node statement. Duplicate ids collapse into one
// Graphviz node, matching the last-write-wins lookup of the graph model.
func writeNode(buf *bytes.Buffer, indent string, n layout.Placed, hidden bool, opts Options) {
	label := fmtLabel(n, opts.Detailed)
	if hidden {
		label = ""
	}
	fmt.Fprintf(buf, "%s%q [%s];\n", indent, n.ID, strings.Join(fmtAttrs(n, label, opts.Theme), ", "))
}

func fmtLabel(n layout.Placed, detailed bool) string {
	if !detailed {
		return n.Label
	}
	typ := string(n.Type)
	if typ == "" {
		typ = "default"
	}
	return fmt.Sprintf("%s\nlevel: %d\ntype: %s", n.Label, n.Level, typ)
}

func fmtAttrs(n layout.Placed, label string, theme scene.Theme) []string {
	st := scene.NodeStyle(n.Type, theme)
	return []string{
		fmt.Sprintf("label=%q", label),
		fmt.Sprintf("fillcolor=%q", withAlpha(st.Fill, st.FillOpacity)),
		fmt.Sprintf("color=%q", st.Stroke),
		fmt.Sprintf("width=%.2f", n.Width/pointsPerInch),
		fmt.Sprintf("height=%.2f", n.Height/pointsPerInch),
	}
}

func edgeAttrs(e diagram.Edge) []string {
	var attrs []string
	if e.Label != "" {
		attrs = append(attrs, fmt.Sprintf("label=%q", e.Label))
	}
	if !e.Directed {
		attrs = append(attrs, "dir=none")
	}
	return attrs
}

// withAlpha appends an opacity byte to a #rrggbb color.
func withAlpha(hex string, opacity float64) string {
	a := int(math.Round(math.Max(0, math.Min(1, opacity)) * 255))
	return fmt.Sprintf("%s%02x", hex, a)
}

func splines(edges []diagram.Edge) string {
	counts := make(map[diagram.EdgeStyle]int)
	best, bestN := diagram.EdgeStraight, 0
	for _, e := range edges {
		counts[e.Style]++
		if counts[e.Style] > bestN {
			best, bestN = e.Style, counts[e.Style]
		}
	}
	switch best {
	case diagram.EdgeOrthogonal:
		return "ortho"
	case diagram.EdgeCurved:
		return "curved"
	default:
		return "line"
	}
}

// RenderSVG renders a DOT graph to SVG using Graphviz.
func RenderSVG(dot string) ([]byte, error) {
	out, err := render(dot, graphviz.SVG)
	if err != nil {
		return nil, err
	}
	return normalizeViewBox(out), nil
}

// RenderPNG renders a DOT graph to PNG using Graphviz.
func RenderPNG(dot string) ([]byte, error) {
	return render(dot, graphviz.PNG)
}

func render(dot string, format graphviz.Format) ([]byte, error) {
	ctx := context.Background()
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, format, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return buf.Bytes(), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	tag := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" class="archdeck archdeck-nodelink" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)
	return svgTagRe.ReplaceAll(svg, []byte(tag))
}
