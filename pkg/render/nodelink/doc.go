// Package nodelink exports architecture diagrams as Graphviz node-link
// drawings.
//
// # Overview
//
// The interactive scene in package scene positions nodes itself. This
// package hands the same diagram to Graphviz instead, for static exports
// where Graphviz's edge routing and cluster packing are preferred.
//
// # Usage
//
//	g, _ := diagram.Normalize(spec)
//	res := layout.Compute(g)
//	dot := nodelink.ToDOT(g, res, nodelink.Options{})
//	svg, err := nodelink.RenderSVG(dot)
//	png, err := nodelink.RenderPNG(dot)
//
// # DOT Format
//
// The generated DOT keeps the diagram's visual vocabulary: node fills and
// strokes come from the scene palette, groups become dashed clusters,
// undirected edges get dir=none, and rank direction and gaps follow the
// diagram options.
//
// # Dependencies
//
// This package uses [github.com/goccy/go-graphviz] for in-process SVG and
// PNG rendering.
package nodelink
