// Package scene builds and drives interactive architecture diagrams.
//
// # Mounting
//
// A [Container] is the host's mount point. [Mount] normalizes a spec, runs
// the layout and attaches an SVG element tree to the container, returning a
// [Handle] for that instance:
//
//	c := scene.NewContainer("slide-3")
//	h := scene.Mount(c, spec, scene.Options{Theme: scene.ThemeDark})
//	svg := c.Render()
//
// Mount never panics and never returns an error. An empty spec mounts the
// "No nodes to display" placeholder; any failure while building replaces
// the diagram with an inline "Error rendering diagram: ..." panel. Mounting
// again on the same container unmounts the previous handle and rebuilds from
// scratch; drag and zoom state does not survive a re-mount.
//
// # Interaction
//
// The [Scene] behind a handle keeps the camera transform, the live position
// of every node and the hover and drag state. Its methods mirror pointer
// events:
//
//   - [Scene.Zoom], [Scene.Pan]: camera changes, scale clamped to 0.1–3
//   - [Scene.DragStart], [Scene.Drag], [Scene.DragEnd]: move one node and
//     redraw every edge through the edgepath package
//   - [Scene.HoverEnter], [Scene.HoverLeave]: dim edges not touching the
//     hovered node to 0.3 opacity
//
// Each returns false when the behavior is disabled by the spec's
// interactions block or the scene is no longer mounted. The same behaviors
// are available in the browser through the script [Scene.SVG] embeds.
//
// # Visual Encoding
//
// Node boxes are colored by type ([NodeStyle]), directed edges end in an
// arrow marker, edge labels sit at the path midpoint and groups are drawn
// as dashed boxes around their members. Collapsed groups draw one filled box
// and hide their members' labels.
package scene
