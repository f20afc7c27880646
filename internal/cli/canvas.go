package cli

import (
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/matzehuels/archdeck/pkg/diagram"
	"github.com/matzehuels/archdeck/pkg/diagram/scene"
)

// edgeSamples is how many points each edge path is flattened to.
const edgeSamples = 48

type cell struct {
	r     rune
	color string
	bold  bool
}

// canvas rasterizes a scene onto a grid of terminal cells. Scene
// coordinates go through the scene camera first, then are scaled so the
// whole canvas fits cols×rows.
type canvas struct {
	cols, rows     int
	scaleX, scaleY float64 // cells per screen unit
	cells          [][]cell
}

func newCanvas(cols, rows int, sceneW, sceneH float64) *canvas {
	if cols < 1 {
		cols = 1
	}
	if rows < 1 {
		rows = 1
	}
	c := &canvas{
		cols:   cols,
		rows:   rows,
		scaleX: float64(cols) / sceneW,
		scaleY: float64(rows) / sceneH,
		cells:  make([][]cell, rows),
	}
	for i := range c.cells {
		c.cells[i] = make([]cell, cols)
		for j := range c.cells[i] {
			c.cells[i][j] = cell{r: ' '}
		}
	}
	return c
}

// toCell maps a screen point to a cell.
func (c *canvas) toCell(p diagram.Point) (col, row int) {
	return int(math.Floor(p.X * c.scaleX)), int(math.Floor(p.Y * c.scaleY))
}

// toScreen maps the center of a cell back to a screen point.
func (c *canvas) toScreen(col, row int) diagram.Point {
	return diagram.Point{X: (float64(col) + 0.5) / c.scaleX, Y: (float64(row) + 0.5) / c.scaleY}
}

func (c *canvas) set(col, row int, r rune, color string, bold bool) {
	if col < 0 || row < 0 || col >= c.cols || row >= c.rows {
		return
	}
	c.cells[row][col] = cell{r: r, color: color, bold: bold}
}

func (c *canvas) text(col, row int, s, color string, bold bool) {
	for i, r := range []rune(s) {
		c.set(col+i, row, r, color, bold)
	}
}

// box draws a rectangle outline between two cells.
func (c *canvas) box(c0, r0, c1, r1 int, color string, dashed bool) {
	h, v := '─', '│'
	if dashed {
		h, v = '╌', '┆'
	}
	for x := c0 + 1; x < c1; x++ {
		c.set(x, r0, h, color, false)
		c.set(x, r1, h, color, false)
	}
	for y := r0 + 1; y < r1; y++ {
		c.set(c0, y, v, color, false)
		c.set(c1, y, v, color, false)
	}
	c.set(c0, r0, '┌', color, false)
	c.set(c1, r0, '┐', color, false)
	c.set(c0, r1, '└', color, false)
	c.set(c1, r1, '┘', color, false)
}

// drawScene paints groups, then edges, then nodes, matching the SVG order.
func (c *canvas) drawScene(s *scene.Scene) {
	t := s.Transform()

	for _, g := range s.Groups() {
		c0, r0 := c.toCell(t.Apply(diagram.Point{X: g.Box.X, Y: g.Box.Y}))
		c1, r1 := c.toCell(t.Apply(diagram.Point{X: g.Box.X + g.Box.W, Y: g.Box.Y + g.Box.H}))
		c.box(c0, r0, c1, r1, scene.GroupStroke, true)
		if g.Label != "" {
			c.text(c0+2, r0, " "+g.Label+" ", scene.GroupStroke, false)
		}
	}

	for _, e := range s.Edges() {
		color, bold := scene.EdgeStroke, false
		if s.Hovered() != "" {
			if e.Opacity < 1 {
				color = "#334155"
			} else {
				color, bold = "#e2e8f0", true
			}
		}
		pts := e.Path.Sample(edgeSamples)
		for _, p := range pts {
			col, row := c.toCell(t.Apply(p))
			c.set(col, row, '·', color, bold)
		}
		if e.Directed && len(pts) >= 2 {
			end := t.Apply(pts[len(pts)-1])
			prev := t.Apply(pts[len(pts)-2])
			col, row := c.toCell(end)
			c.set(col, row, arrowRune(end.X-prev.X, end.Y-prev.Y), color, true)
		}
		if e.Label != "" {
			if mid, ok := e.Path.Midpoint(); ok {
				col, row := c.toCell(t.Apply(mid))
				c.text(col-len([]rune(e.Label))/2, row, e.Label, scene.GroupStroke, false)
			}
		}
	}

	for _, n := range s.Nodes() {
		b := n.Box()
		c0, r0 := c.toCell(t.Apply(diagram.Point{X: b.X, Y: b.Y}))
		c1, r1 := c.toCell(t.Apply(diagram.Point{X: b.X + b.W, Y: b.Y + b.H}))
		if r1-r0 < 2 {
			r1 = r0 + 2
		}
		if c1-c0 < 2 {
			c1 = c0 + 2
		}
		for y := r0 + 1; y < r1; y++ {
			for x := c0 + 1; x < c1; x++ {
				c.set(x, y, ' ', "", false)
			}
		}
		bold := n.ID == s.Hovered() || n.ID == s.Dragging()
		c.box(c0, r0, c1, r1, n.Style.Stroke, false)
		if !n.Hidden {
			label := truncate(n.Label, c1-c0-1)
			c.text(c0+1+(c1-c0-1-len([]rune(label)))/2, (r0+r1)/2, label, n.Style.Fill, bold)
		}
	}
}

func arrowRune(dx, dy float64) rune {
	if math.Abs(dx) >= math.Abs(dy) {
		if dx >= 0 {
			return '▶'
		}
		return '◀'
	}
	if dy >= 0 {
		return '▼'
	}
	return '▲'
}

func truncate(s string, n int) string {
	r := []rune(s)
	if n <= 0 {
		return ""
	}
	if len(r) <= n {
		return s
	}
	if n == 1 {
		return "…"
	}
	return string(r[:n-1]) + "…"
}

// plain returns the canvas without styling, one line per row.
func (c *canvas) plain() string {
	var b strings.Builder
	for i, row := range c.cells {
		if i > 0 {
			b.WriteByte('\n')
		}
		for _, cl := range row {
			b.WriteRune(cl.r)
		}
	}
	return b.String()
}

// render returns the canvas with runs of equal paint styled by lipgloss.
func (c *canvas) render() string {
	var b strings.Builder
	for i, row := range c.cells {
		if i > 0 {
			b.WriteByte('\n')
		}
		start := 0
		for j := 1; j <= len(row); j++ {
			if j < len(row) && row[j].color == row[start].color && row[j].bold == row[start].bold {
				continue
			}
			run := make([]rune, 0, j-start)
			for _, cl := range row[start:j] {
				run = append(run, cl.r)
			}
			st := lipgloss.NewStyle().Bold(row[start].bold)
			if row[start].color != "" {
				st = st.Foreground(lipgloss.Color(row[start].color))
			}
			b.WriteString(st.Render(string(run)))
			start = j
		}
	}
	return b.String()
}
