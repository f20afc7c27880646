package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/matzehuels/archdeck/pkg/diagram"
	"github.com/matzehuels/archdeck/pkg/diagram/layout"
	"github.com/matzehuels/archdeck/pkg/diagram/scene"
	"github.com/matzehuels/archdeck/pkg/errors"
	"github.com/matzehuels/archdeck/pkg/observability"
	"github.com/matzehuels/archdeck/pkg/render/nodelink"
	"github.com/matzehuels/archdeck/pkg/render/sink"
)

// Render generates one artifact. A nil graph renders the empty placeholder.
func Render(ctx context.Context, g *diagram.Graph, res layout.Result, format string, opts Options) (data []byte, err error) {
	hooks := observability.Pipeline()
	hooks.OnRenderStart(ctx, format)
	start := time.Now()
	defer func() {
		hooks.OnRenderComplete(ctx, format, len(data), time.Since(start), err)
	}()

	if g == nil {
		return renderEmpty(format, opts)
	}

	switch format {
	case FormatSVG, FormatHTML:
		return renderScene(g, res, format, opts), nil
	case FormatJSON:
		return marshalLayout(res)
	case FormatDOT:
		return []byte(nodelink.ToDOT(g, res, nodelink.Options{Theme: scene.ParseTheme(opts.Theme)})), nil
	case FormatPNG:
		dot := nodelink.ToDOT(g, res, nodelink.Options{Theme: scene.ParseTheme(opts.Theme)})
		png, err := nodelink.RenderPNG(dot)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeRenderFailed, err, "render png")
		}
		return png, nil
	default:
		return nil, ValidateFormat(format)
	}
}

// renderScene mounts the diagram and serializes it. A scene that fails to
// build still produces output: the container holds the error panel.
func renderScene(g *diagram.Graph, res layout.Result, format string, opts Options) []byte {
	c := scene.NewContainer("")
	h := scene.MountLayout(c, g, res, opts.SceneOptions())

	s := h.Scene()
	if s == nil {
		panel := c.Root().Children[0]
		if format == FormatHTML {
			return sink.RenderHTML(panel, page(opts))
		}
		return c.Render()
	}

	switch {
	case format == FormatHTML:
		return sink.RenderHTML(s.Root(), page(opts), sink.WithInteraction(s.BrowserInteraction()))
	case opts.Standalone:
		return s.SVG()
	default:
		return sink.RenderSVG(s.Root())
	}
}

func renderEmpty(format string, opts Options) ([]byte, error) {
	switch format {
	case FormatSVG:
		return sink.RenderSVG(placeholderSVG()), nil
	case FormatHTML:
		return sink.RenderHTML(placeholderSVG(), page(opts)), nil
	case FormatJSON:
		return marshalLayout(layout.Result{Strategy: layout.StrategyLayered, Nodes: []layout.Placed{}, Edges: []diagram.Edge{}})
	case FormatDOT:
		return []byte(placeholderDOT), nil
	case FormatPNG:
		png, err := nodelink.RenderPNG(placeholderDOT)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeRenderFailed, err, "render png")
		}
		return png, nil
	default:
		return nil, ValidateFormat(format)
	}
}

var placeholderDOT = fmt.Sprintf("digraph G {\n  bgcolor=\"transparent\";\n  empty [shape=plaintext, label=%q, fontcolor=\"#64748b\"];\n}\n", scene.PlaceholderText)

// placeholderSVG is the empty-diagram message on a default-size canvas.
func placeholderSVG() *sink.Element {
	w, h := diagram.DefaultWidth, diagram.DefaultHeight
	svg := sink.El("svg",
		sink.A("xmlns", "http://www.w3.org/2000/svg"),
		sink.A("class", "archdeck archdeck-empty"),
		sink.A("width", w),
		sink.A("height", h),
		sink.A("viewBox", fmt.Sprintf("0 0 %s %s", sink.FormatValue(w), sink.FormatValue(h))),
	)
	svg.Add("text",
		sink.A("x", w/2),
		sink.A("y", h/2),
		sink.A("text-anchor", "middle"),
		sink.A("fill", "#64748b"),
		sink.A("font-family", scene.FontFamily),
		sink.A("font-size", 16),
	).SetText(scene.PlaceholderText)
	return svg
}

func page(opts Options) sink.Page {
	p := sink.Page{Title: opts.Title}
	if scene.ParseTheme(opts.Theme) == scene.ThemeLight {
		p.Background = "#f8fafc"
	}
	return p
}

func marshalLayout(res layout.Result) ([]byte, error) {
	data, err := json.MarshalIndent(res, "", "  ")
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "serialize layout")
	}
	return data, nil
}
