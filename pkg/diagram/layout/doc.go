// Package layout places diagram nodes on the canvas.
//
// # Strategies
//
// [Compute] picks one of three strategies for a normalized graph:
//
//   - manual: every node carries preset x/y coordinates, which are used as is
//   - layered: Kahn's algorithm assigns each node a level (rank) equal to its
//     longest path from a root, then ranks are spread over the canvas
//   - grid: a square-ish grid in input order, used when the graph has a
//     cycle or when the spec asks for it explicitly
//
// # Layered Placement
//
// With rank direction LR the level maps to x and the index within the rank
// maps to y; TB swaps the two. Positions are confined to the canvas minus
// [Padding] on every side. A rank holding a single node is centered on the
// spread axis.
//
// Isolated nodes have in-degree zero and therefore share level 0 with the
// real roots.
//
// # Failure Semantics
//
// Nothing in this package returns an error. Dangling edges are dropped with
// an UNKNOWN_NODE diagnostic, cycles switch to the grid with a
// CYCLE_DETECTED diagnostic, and the caller always receives a [Result].
package layout
