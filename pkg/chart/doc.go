// Package chart dispatches slide charts to their renderers.
//
// A chart is one of a closed set of kinds: "arch" (an architecture diagram,
// see package scene), "bar" and "line". [Decode] validates a JSON config once
// for its kind and returns a [Spec] holding exactly one typed config;
// [Mount] looks the kind up in a single handler table and mounts the result
// into a scene container.
//
// Bar and line charts are plain scale and axis plots:
//
//   - bar: one band per value, defaults to [3, 1, 4, 1, 5, 9] on a 640×360 canvas
//   - line: linear scales over the data extents, defaults to sin(x/10)
//
// Line data may be given as bare numbers (x is the index), [x, y] pairs or
// {"x", "y"} objects.
package chart
