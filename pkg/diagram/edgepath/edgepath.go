// Package edgepath converts edge endpoints into drawable paths.
//
// [Generate] is a pure function: two endpoint coordinates and a style tag in,
// a [Path] out. The path string uses SVG path syntax and is what both the
// static SVG and the browser interaction script draw:
//
//	straight:   M sx,sy L tx,ty
//	orthogonal: M sx,sy L mx,sy L mx,ty L tx,ty   (mx = (sx+tx)/2)
//	curved:     M sx,sy C c1,sy c2,ty tx,ty       (c1 = sx+0.3dx, c2 = sx+0.7dx)
//
// A missing endpoint yields an empty path, never a panic.
package edgepath

import (
	"math"
	"strconv"
	"strings"

	"github.com/matzehuels/archdeck/pkg/diagram"
)

// Curve control point offsets along the x axis, as fractions of dx.
const (
	CurveNear = 0.3
	CurveFar  = 0.7
)

// Op is an SVG path command letter.
type Op byte

// Path commands.
const (
	MoveTo  Op = 'M'
	LineTo  Op = 'L'
	CurveTo Op = 'C'
)

// Command is one path segment. CurveTo carries three points (two control
// points and the end point); MoveTo and LineTo carry one.
type Command struct {
	Op     Op
	Points []diagram.Point
}

// Path is a generated edge path.
type Path struct {
	Style    diagram.EdgeStyle
	Commands []Command
}

// Generate builds the path for an edge from src to dst.
func Generate(src, dst *diagram.Point, style diagram.EdgeStyle) Path {
	if src == nil || dst == nil {
		return Path{Style: style}
	}
	s, t := *src, *dst
	p := Path{Style: style, Commands: []Command{{Op: MoveTo, Points: []diagram.Point{s}}}}

	switch style {
	case diagram.EdgeOrthogonal:
		mx := (s.X + t.X) / 2
		p.Commands = append(p.Commands,
			Command{Op: LineTo, Points: []diagram.Point{{X: mx, Y: s.Y}}},
			Command{Op: LineTo, Points: []diagram.Point{{X: mx, Y: t.Y}}},
			Command{Op: LineTo, Points: []diagram.Point{t}},
		)
	case diagram.EdgeCurved:
		dx := t.X - s.X
		p.Commands = append(p.Commands, Command{Op: CurveTo, Points: []diagram.Point{
			{X: s.X + dx*CurveNear, Y: s.Y},
			{X: s.X + dx*CurveFar, Y: t.Y},
			t,
		}})
	default:
		p.Style = diagram.EdgeStraight
		p.Commands = append(p.Commands, Command{Op: LineTo, Points: []diagram.Point{t}})
	}
	return p
}

// Between is Generate for two present endpoints.
func Between(src, dst diagram.Point, style diagram.EdgeStyle) Path {
	return Generate(&src, &dst, style)
}

// Empty reports whether the path has nothing to draw.
func (p Path) Empty() bool { return len(p.Commands) == 0 }

// String renders the path in SVG path syntax.
func (p Path) String() string {
	if p.Empty() {
		return ""
	}
	var b strings.Builder
	for i, c := range p.Commands {
		if i > 0 {
			b.WriteByte(' ')
		}
		b.WriteByte(byte(c.Op))
		for _, pt := range c.Points {
			b.WriteByte(' ')
			b.WriteString(FormatNum(pt.X))
			b.WriteByte(',')
			b.WriteString(FormatNum(pt.Y))
		}
	}
	return b.String()
}

// Points returns every point of the path in order, control points included.
func (p Path) Points() []diagram.Point {
	var pts []diagram.Point
	for _, c := range p.Commands {
		pts = append(pts, c.Points...)
	}
	return pts
}

// Start returns the first point of the path.
func (p Path) Start() (diagram.Point, bool) {
	if p.Empty() {
		return diagram.Point{}, false
	}
	return p.Commands[0].Points[0], true
}

// End returns the last point of the path.
func (p Path) End() (diagram.Point, bool) {
	if p.Empty() {
		return diagram.Point{}, false
	}
	last := p.Commands[len(p.Commands)-1]
	return last.Points[len(last.Points)-1], true
}

// Sample approximates the path with a polyline. Straight segments contribute
// their end points; curves are split into n steps. n < 1 is treated as 1.
func (p Path) Sample(n int) []diagram.Point {
	if n < 1 {
		n = 1
	}
	var pts []diagram.Point
	var cur diagram.Point
	for _, c := range p.Commands {
		switch c.Op {
		case MoveTo, LineTo:
			cur = c.Points[0]
			pts = append(pts, cur)
		case CurveTo:
			c1, c2, end := c.Points[0], c.Points[1], c.Points[2]
			for i := 1; i <= n; i++ {
				pts = append(pts, cubic(cur, c1, c2, end, float64(i)/float64(n)))
			}
			cur = end
		}
	}
	return pts
}

// Midpoint returns the point halfway along the path, used to anchor labels.
func (p Path) Midpoint() (diagram.Point, bool) {
	pts := p.Sample(16)
	if len(pts) == 0 {
		return diagram.Point{}, false
	}
	if len(pts) == 1 {
		return pts[0], true
	}

	total := 0.0
	for i := 1; i < len(pts); i++ {
		total += dist(pts[i-1], pts[i])
	}
	if total == 0 {
		return pts[0], true
	}

	half := total / 2
	for i := 1; i < len(pts); i++ {
		d := dist(pts[i-1], pts[i])
		if half <= d {
			f := half / d
			return diagram.Point{
				X: pts[i-1].X + (pts[i].X-pts[i-1].X)*f,
				Y: pts[i-1].Y + (pts[i].Y-pts[i-1].Y)*f,
			}, true
		}
		half -= d
	}
	return pts[len(pts)-1], true
}

// FormatNum formats a coordinate with the shortest exact representation.
func FormatNum(v float64) string {
	if v == 0 {
		return "0" // avoid "-0"
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func cubic(p0, p1, p2, p3 diagram.Point, t float64) diagram.Point {
	u := 1 - t
	a, b, c, d := u*u*u, 3*u*u*t, 3*u*t*t, t*t*t
	return diagram.Point{
		X: a*p0.X + b*p1.X + c*p2.X + d*p3.X,
		Y: a*p0.Y + b*p1.Y + c*p2.Y + d*p3.Y,
	}
}

func dist(a, b diagram.Point) float64 {
	return math.Hypot(b.X-a.X, b.Y-a.Y)
}
