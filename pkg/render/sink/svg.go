package sink

import (
	"bytes"
	"fmt"
	"io"
	"strings"
)

const diagramInteractionCSS = `
    .node { cursor: grab; }
    .node.dragging { cursor: grabbing; }
    .edge path { transition: opacity 0.15s ease; }`

// diagramInteractionJS mirrors the scene package: the same zoom clamp, edge
// path formulas and hover opacities, driven by data attributes on the
// .node and .edge groups.
const diagramInteractionJS = `
    (function() {
      const root = (document.currentScript && document.currentScript.closest('svg')) || document.querySelector('svg.archdeck');
      const cfg = { zoom: %t, drag: %t, hover: %t, minScale: %s, maxScale: %s, dim: %s };
      const scene = root.querySelector('.zoom-container');
      const nodes = new Map();
      root.querySelectorAll('.node').forEach(n => nodes.set(n.dataset.id, n));
      const edges = Array.from(root.querySelectorAll('.edge'));
      let t = { x: 0, y: 0, k: 1 };
      function apply() { scene.setAttribute('transform', 'translate(' + t.x + ',' + t.y + ') scale(' + t.k + ')'); }
      function pos(n) { return { x: parseFloat(n.dataset.x), y: parseFloat(n.dataset.y) }; }
      function pathFor(s, d, style) {
        if (style === 'orthogonal') { const mx = (s.x + d.x) / 2; return 'M ' + s.x + ',' + s.y + ' L ' + mx + ',' + s.y + ' L ' + mx + ',' + d.y + ' L ' + d.x + ',' + d.y; }
        if (style === 'curved') { const dx = d.x - s.x; return 'M ' + s.x + ',' + s.y + ' C ' + (s.x + dx * 0.3) + ',' + s.y + ' ' + (s.x + dx * 0.7) + ',' + d.y + ' ' + d.x + ',' + d.y; }
        return 'M ' + s.x + ',' + s.y + ' L ' + d.x + ',' + d.y;
      }
      function redraw() {
        edges.forEach(e => {
          const s = nodes.get(e.dataset.source), d = nodes.get(e.dataset.target);
          if (!s || !d) return;
          e.querySelector('path').setAttribute('d', pathFor(pos(s), pos(d), e.dataset.style));
        });
      }
      function toScene(evt) {
        const pt = root.createSVGPoint(); pt.x = evt.clientX; pt.y = evt.clientY;
        const p = pt.matrixTransform(root.getScreenCTM().inverse());
        return { x: (p.x - t.x) / t.k, y: (p.y - t.y) / t.k };
      }
      let dragging = null, panning = null;
      if (cfg.drag) {
        nodes.forEach(n => n.addEventListener('pointerdown', evt => {
          evt.stopPropagation(); dragging = n; n.parentNode.appendChild(n); n.classList.add('dragging');
        }));
      }
      if (cfg.zoom) {
        root.addEventListener('pointerdown', evt => { if (!dragging) panning = { x: evt.clientX - t.x, y: evt.clientY - t.y }; });
        root.addEventListener('wheel', evt => {
          evt.preventDefault();
          const p = toScene(evt);
          const k = Math.min(cfg.maxScale, Math.max(cfg.minScale, t.k * (evt.deltaY < 0 ? 1.1 : 1 / 1.1)));
          t = { x: t.x + p.x * (t.k - k), y: t.y + p.y * (t.k - k), k: k };
          apply();
        }, { passive: false });
      }
      root.addEventListener('pointermove', evt => {
        if (dragging) {
          const p = toScene(evt);
          dragging.dataset.x = p.x; dragging.dataset.y = p.y;
          dragging.setAttribute('transform', 'translate(' + p.x + ',' + p.y + ')');
          redraw();
        } else if (panning) {
          t = { x: evt.clientX - panning.x, y: evt.clientY - panning.y, k: t.k };
          apply();
        }
      });
      root.addEventListener('pointerup', () => { if (dragging) dragging.classList.remove('dragging'); dragging = null; panning = null; });
      if (cfg.hover) {
        nodes.forEach((n, id) => {
          n.addEventListener('mouseenter', () => edges.forEach(e => {
            const hit = e.dataset.source === id || e.dataset.target === id;
            e.querySelector('path').setAttribute('opacity', hit ? 1 : cfg.dim);
          }));
          n.addEventListener('mouseleave', () => edges.forEach(e => e.querySelector('path').setAttribute('opacity', 1)));
        });
      }
    })();`

// Interaction selects which browser behaviors the embedded script enables.
type Interaction struct {
	Zoom     bool
	Drag     bool
	Hover    bool
	MinScale float64
	MaxScale float64
	Dim      float64
}

// Enabled reports whether any behavior is on.
func (i Interaction) Enabled() bool { return i.Zoom || i.Drag || i.Hover }

// SVGOption configures [RenderSVG].
type SVGOption func(*svgRenderer)

type svgRenderer struct {
	interaction *Interaction
	indent      bool
}

// WithInteraction embeds the pan/zoom, drag and hover script.
func WithInteraction(i Interaction) SVGOption {
	return func(r *svgRenderer) { r.interaction = &i }
}

// WithIndent pretty-prints the output.
func WithIndent() SVGOption { return func(r *svgRenderer) { r.indent = true } }

// RenderSVG serializes root, appending the interaction style and script
// inside it when requested.
func RenderSVG(root *Element, opts ...SVGOption) []byte {
	var r svgRenderer
	for _, opt := range opts {
		opt(&r)
	}

	if root == nil {
		return nil
	}
	var buf bytes.Buffer
	r.write(&buf, root, 0, true)
	return buf.Bytes()
}

// WriteSVG writes the serialized tree to w.
func WriteSVG(w io.Writer, root *Element, opts ...SVGOption) error {
	_, err := w.Write(RenderSVG(root, opts...))
	return err
}

func (r *svgRenderer) write(buf *bytes.Buffer, e *Element, depth int, top bool) {
	pad := ""
	if r.indent {
		pad = strings.Repeat("  ", depth)
	}
	buf.WriteString(pad)
	buf.WriteByte('<')
	buf.WriteString(e.Tag)
	for _, a := range e.Attrs {
		fmt.Fprintf(buf, ` %s="%s"`, a.Name, escapeAttr(a.Value))
	}

	script := top && r.interaction != nil && r.interaction.Enabled()
	if len(e.Children) == 0 && e.Text == "" && !script {
		buf.WriteString("/>")
		r.newline(buf)
		return
	}
	buf.WriteByte('>')
	if e.Text != "" {
		buf.WriteString(escapeText(e.Text))
	}
	if len(e.Children) > 0 || script {
		r.newline(buf)
	}
	for _, c := range e.Children {
		r.write(buf, c, depth+1, false)
	}
	if script {
		renderInteraction(buf, *r.interaction)
	}
	if len(e.Children) > 0 || script {
		buf.WriteString(pad)
	}
	fmt.Fprintf(buf, "</%s>", e.Tag)
	r.newline(buf)
}

func (r *svgRenderer) newline(buf *bytes.Buffer) {
	if r.indent {
		buf.WriteByte('\n')
	}
}

func renderInteraction(buf *bytes.Buffer, i Interaction) {
	if i.MaxScale == 0 {
		i.MinScale, i.MaxScale = 0.1, 3
	}
	if i.Dim == 0 {
		i.Dim = 0.3
	}
	js := fmt.Sprintf(diagramInteractionJS, i.Zoom, i.Drag, i.Hover,
		FormatValue(i.MinScale), FormatValue(i.MaxScale), FormatValue(i.Dim))
	fmt.Fprintf(buf, "  <style>%s\n  </style>\n", diagramInteractionCSS)
	fmt.Fprintf(buf, "  <script type=\"text/javascript\"><![CDATA[%s\n  ]]></script>\n", js)
}

var (
	attrEscaper = strings.NewReplacer(`&`, "&amp;", `<`, "&lt;", `>`, "&gt;", `"`, "&quot;")
	textEscaper = strings.NewReplacer(`&`, "&amp;", `<`, "&lt;", `>`, "&gt;")
)

func escapeAttr(s string) string { return attrEscaper.Replace(s) }
func escapeText(s string) string { return textEscaper.Replace(s) }
