package scene

import (
	"github.com/matzehuels/archdeck/pkg/diagram"
)

// Every interaction returns false without changing anything when the scene
// is unmounted or the behavior is disabled.

// =============================================================================
// Pan / Zoom
// =============================================================================

// Zoom scales the camera by factor around the screen point (px, py).
// The resulting scale is clamped to [MinScale, MaxScale].
func (s *Scene) Zoom(factor, px, py float64) bool {
	if !s.mounted || !s.flags.Zoom || factor <= 0 {
		return false
	}
	t := s.transform
	k := clampScale(t.K * factor)
	anchor := t.Invert(diagram.Point{X: px, Y: py})
	s.setTransform(Transform{X: px - anchor.X*k, Y: py - anchor.Y*k, K: k})
	return true
}

// Pan translates the camera by (dx, dy) screen units.
func (s *Scene) Pan(dx, dy float64) bool {
	if !s.mounted || !s.flags.Zoom {
		return false
	}
	t := s.transform
	s.setTransform(Transform{X: t.X + dx, Y: t.Y + dy, K: t.K})
	return true
}

// SetTransform replaces the camera, clamping its scale.
func (s *Scene) SetTransform(t Transform) bool {
	if !s.mounted || !s.flags.Zoom {
		return false
	}
	t.K = clampScale(t.K)
	s.setTransform(t)
	return true
}

// ResetView restores the identity camera.
func (s *Scene) ResetView() bool {
	if !s.mounted {
		return false
	}
	s.setTransform(Identity)
	return true
}

// Transform returns the current camera.
func (s *Scene) Transform() Transform { return s.transform }

// ToScene maps a screen point to scene coordinates under the current camera.
func (s *Scene) ToScene(px, py float64) diagram.Point {
	return s.transform.Invert(diagram.Point{X: px, Y: py})
}

func (s *Scene) setTransform(t Transform) {
	s.transform = t
	if t == Identity {
		s.zoom.Unset("transform")
		return
	}
	s.zoom.Set("transform", t.String())
}

// =============================================================================
// Drag
// =============================================================================

// DragStart begins dragging node id and raises it above the other nodes.
func (s *Scene) DragStart(id string) bool {
	if !s.mounted || !s.flags.Drag {
		return false
	}
	ns, ok := s.byID[id]
	if !ok {
		return false
	}
	ns.el.Raise()
	s.dragging = ns
	return true
}

// Drag moves node id to (x, y) in scene coordinates and redraws every edge
// path. Other nodes never move.
func (s *Scene) Drag(id string, x, y float64) bool {
	if !s.mounted || !s.flags.Drag {
		return false
	}
	ns, ok := s.byID[id]
	if !ok {
		return false
	}
	if s.dragging != ns {
		ns.el.Raise()
		s.dragging = ns
	}

	ns.pos = diagram.Point{X: x, Y: y}
	ns.el.Set("transform", translate(ns.pos)).Set("data-x", x).Set("data-y", y)

	for _, es := range s.edges {
		s.redrawEdge(es)
	}
	for _, gs := range s.groups {
		if gs.group.Contains(id) {
			s.redrawGroup(gs)
		}
	}
	return true
}

// DragEnd finishes the current drag.
func (s *Scene) DragEnd() bool {
	if !s.mounted || s.dragging == nil {
		return false
	}
	s.dragging = nil
	return true
}

// =============================================================================
// Hover
// =============================================================================

// HoverEnter emphasizes the edges touching node id and dims the rest.
func (s *Scene) HoverEnter(id string) bool {
	if !s.mounted || !s.flags.Highlight {
		return false
	}
	if _, ok := s.byID[id]; !ok {
		return false
	}
	s.hovered = id
	for _, es := range s.edges {
		op := DimOpacity
		if es.edge.Touches(id) {
			op = 1
		}
		s.setOpacity(es, op)
	}
	return true
}

// HoverLeave restores full opacity on every edge.
func (s *Scene) HoverLeave() bool {
	if !s.mounted || !s.flags.Highlight {
		return false
	}
	s.hovered = ""
	for _, es := range s.edges {
		s.setOpacity(es, 1)
	}
	return true
}

func (s *Scene) setOpacity(es *edgeState, op float64) {
	es.opacity = op
	es.pathEl.Set("opacity", op)
}

// =============================================================================
// Hit Testing
// =============================================================================

// NodeAt returns the topmost node whose box contains the scene point (x, y).
func (s *Scene) NodeAt(x, y float64) (string, bool) {
	p := diagram.Point{X: x, Y: y}
	children := s.nodesG.Children
	for i := len(children) - 1; i >= 0; i-- {
		ns, ok := s.byEl[children[i]]
		if !ok {
			continue
		}
		if ns.view().Box().Contains(p) {
			return ns.placed.ID, true
		}
	}
	return "", false
}
