// Package sink serializes retained element trees to SVG and HTML.
//
// # Overview
//
// Renderers build an [Element] tree once and mutate it in place while the
// user interacts with it (moving a node rewrites a transform attribute,
// hovering rewrites opacities). A sink turns the current state of that tree
// into bytes:
//
//   - [RenderSVG]: deterministic SVG, attributes in insertion order
//   - [RenderHTML]: a standalone page wrapping the SVG
//   - [RenderFragment]: a bare HTML fragment such as an error [Panel]
//
// # Interaction Script
//
// [WithInteraction] appends a style block and a script to the root element.
// The script implements wheel zoom around the cursor, background panning,
// node dragging with live edge redraws and hover highlighting. It reads the
// data-id, data-x and data-y attributes of .node groups and the
// data-source, data-target and data-style attributes of .edge groups.
//
//	svg := sink.RenderSVG(root, sink.WithInteraction(sink.Interaction{
//	    Zoom: true, Drag: true, Hover: true,
//	}))
package sink
