// Package diagram defines the architecture diagram model.
//
// A diagram starts life as a [Spec]: the raw, host-provided description of
// nodes, edges, groups and rendering options, decoded from JSON or TOML by
// [Parse]. [Normalize] turns a Spec into a [Graph] with every default
// resolved:
//
//   - node labels default to the node ID, boxes to 100×40
//   - edges are directed and straight unless stated otherwise
//   - the canvas is 960×540, ranks flow left to right
//   - pan/zoom, drag and hover highlighting are enabled
//
// Normalize rejects only one condition: a spec with zero nodes, reported as
// [ErrEmptyGraph] so hosts can show a placeholder instead of a diagram.
// Everything else (unknown edge endpoints, cycles, duplicate IDs) is left to
// the layout stage, which degrades gracefully and reports [Diagnostic]s.
//
// # Duplicate IDs
//
// Node IDs are assumed unique. When they are not, lookups such as
// [Graph.NodeByID] resolve to the last node with that ID while iteration
// keeps every entry in input order. This mirrors how hosts have always
// treated such input and is reported but not corrected.
//
// # Example
//
//	spec, err := diagram.Parse(data, diagram.FormatJSON)
//	if err != nil {
//	    return err
//	}
//	g, err := diagram.Normalize(spec)
//	if errors.Is(err, diagram.ErrEmptyGraph) {
//	    // render a placeholder
//	}
package diagram
