package diagram

import (
	"strings"

	"github.com/matzehuels/archdeck/pkg/errors"
)

// ErrEmptyGraph is returned by [Normalize] for a spec without nodes.
var ErrEmptyGraph = errors.New(errors.ErrCodeEmptyGraph, "no nodes to display")

// Normalize resolves every default of spec and returns the resulting graph.
//
// The only rejected input is an empty node set. Duplicate node IDs are kept
// and reported as diagnostics; dangling edges are left for layout to drop.
func Normalize(spec *Spec) (*Graph, error) {
	if spec == nil || len(spec.Nodes) == 0 {
		return nil, ErrEmptyGraph
	}

	g := &Graph{
		Nodes:   make([]Node, 0, len(spec.Nodes)),
		Edges:   make([]Edge, 0, len(spec.Edges)),
		Options: normalizeOptions(spec),
	}

	if l := spec.Layout; l != nil && l.Type != "" && string(g.Options.LayoutType) != strings.ToLower(strings.TrimSpace(l.Type)) {
		g.Diagnostics = append(g.Diagnostics,
			Diagnosef(errors.ErrCodeLayoutMode, "layout type %q is not supported, using %s", l.Type, g.Options.LayoutType))
	}

	seen := make(map[string]bool, len(spec.Nodes))
	for _, ns := range spec.Nodes {
		if seen[ns.ID] {
			g.Diagnostics = append(g.Diagnostics,
				Diagnosef(errors.ErrCodeDuplicateNode, "duplicate node id %q, lookups use the last occurrence", ns.ID))
		}
		seen[ns.ID] = true
		g.Nodes = append(g.Nodes, normalizeNode(ns))
	}

	for _, es := range spec.Edges {
		g.Edges = append(g.Edges, Edge{
			Source:   es.Source,
			Target:   es.Target,
			Label:    es.Label,
			Directed: boolOr(es.Directed, true),
			Style:    ParseEdgeStyle(es.Style),
		})
	}

	for _, gs := range spec.Groups {
		label := gs.Label
		if label == "" {
			label = gs.ID
		}
		g.Groups = append(g.Groups, Group{
			ID:        gs.ID,
			Label:     label,
			Nodes:     append([]string(nil), gs.Nodes...),
			Collapsed: gs.Collapsed,
		})
	}

	g.index()
	return g, nil
}

func normalizeNode(ns NodeSpec) Node {
	label := ns.Label
	if label == "" {
		label = ns.ID
	}
	return Node{
		ID:     ns.ID,
		Label:  label,
		Type:   NodeType(ns.Type),
		Group:  ns.Group,
		X:      ns.X,
		Y:      ns.Y,
		Width:  positiveOr(ns.Width, DefaultNodeWidth),
		Height: positiveOr(ns.Height, DefaultNodeHeight),
	}
}

func normalizeOptions(spec *Spec) Options {
	opts := Options{
		Width:      positiveOr(spec.Width, DefaultWidth),
		Height:     positiveOr(spec.Height, DefaultHeight),
		RankDir:    LeftToRight,
		NodeGap:    DefaultNodeGap,
		LevelGap:   DefaultLevelGap,
		LayoutType: LayoutDAG,
		Interactions: Interactions{
			Zoom:      true,
			Drag:      true,
			Collapse:  true,
			Highlight: true,
		},
	}
	if l := spec.Layout; l != nil {
		opts.RankDir = ParseRankDir(l.RankDir)
		opts.NodeGap = positiveOr(l.NodeGap, DefaultNodeGap)
		opts.LevelGap = positiveOr(l.LevelGap, DefaultLevelGap)
		opts.LayoutType = ParseLayoutType(l.Type)
	}
	if i := spec.Interactions; i != nil {
		opts.Interactions = Interactions{
			Zoom:      boolOr(i.Zoom, true),
			Drag:      boolOr(i.Drag, true),
			Collapse:  boolOr(i.Collapse, true),
			Highlight: boolOr(i.HighlightPathOnHover, true),
		}
	}
	return opts
}

func positiveOr(v *float64, def float64) float64 {
	if v == nil || *v <= 0 {
		return def
	}
	return *v
}

func boolOr(v *bool, def bool) bool {
	if v == nil {
		return def
	}
	return *v
}
