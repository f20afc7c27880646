package chart

import (
	"encoding/json"
	"fmt"
	"math"
	"strings"

	"github.com/matzehuels/archdeck/pkg/diagram/scene"
	"github.com/matzehuels/archdeck/pkg/render/sink"
)

// LineStroke is the stroke color of the plotted line.
const LineStroke = "#ef4444"

// Point is one sample of a line chart.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// UnmarshalJSON accepts a bare number (y, with x filled in from the index
// by [LineConfig]), a [x, y] pair or an {"x": .., "y": ..} object.
func (p *Point) UnmarshalJSON(b []byte) error {
	var n float64
	if err := json.Unmarshal(b, &n); err == nil {
		*p = Point{X: math.NaN(), Y: n}
		return nil
	}
	var pair []float64
	if err := json.Unmarshal(b, &pair); err == nil {
		if len(pair) != 2 {
			return fmt.Errorf("line point needs 2 values, got %d", len(pair))
		}
		*p = Point{X: pair[0], Y: pair[1]}
		return nil
	}
	type plain Point
	var obj plain
	if err := json.Unmarshal(b, &obj); err != nil {
		return fmt.Errorf("line point must be a number, [x, y] pair or {x, y} object")
	}
	*p = Point(obj)
	return nil
}

// LineConfig configures a line chart.
type LineConfig struct {
	Data   []Point `json:"data,omitempty"`
	Width  float64 `json:"width,omitempty"`
	Height float64 `json:"height,omitempty"`
}

// DefaultLineData returns sin(x/10) sampled for x in [0, 100).
func DefaultLineData() []Point {
	pts := make([]Point, 100)
	for i := range pts {
		pts[i] = Point{X: float64(i), Y: math.Sin(float64(i) / 10)}
	}
	return pts
}

func (c LineConfig) withDefaults() LineConfig {
	if c.Data == nil {
		c.Data = DefaultLineData()
	}
	pts := make([]Point, len(c.Data))
	for i, p := range c.Data {
		if math.IsNaN(p.X) {
			p.X = float64(i)
		}
		pts[i] = p
	}
	c.Data = pts
	if c.Width <= 0 {
		c.Width = DefaultChartWidth
	}
	if c.Height <= 0 {
		c.Height = DefaultChartHeight
	}
	return c
}

func mountLine(c *scene.Container, spec Spec, opts scene.Options) *scene.Handle {
	cfg := LineConfig{}
	if spec.Line != nil {
		cfg = *spec.Line
	}
	return scene.MountStatic(c, opts, func() (*sink.Element, error) {
		return LineSVG(cfg), nil
	})
}

// LineSVG draws a line chart over the data extents.
func LineSVG(cfg LineConfig) *sink.Element {
	cfg = cfg.withDefaults()
	w, h := cfg.Width, cfg.Height

	x0, x1, y0, y1 := extent(cfg.Data)
	x := linear{d0: x0, d1: x1, r0: marginLeft, r1: w - marginRight}
	y := linear{d0: y0, d1: y1, r0: h - marginBottom, r1: marginTop}.nice(10)

	svg := chartRoot("line", w, h)

	bottom := svg.Add("g", sink.A("class", "axis axis-x"), sink.A("transform", fmt.Sprintf("translate(0,%s)", sink.FormatValue(h-marginBottom))))
	bottom.Add("path", sink.A("d", fmt.Sprintf("M %s,0 H %s", sink.FormatValue(marginLeft), sink.FormatValue(w-marginRight))), sink.A("stroke", axisColor))
	for _, v := range x.ticks(10) {
		tick(bottom, x.at(v), 0, sink.FormatValue(round(v)), true)
	}
	drawYAxis(svg, y)

	if len(cfg.Data) > 0 {
		var d strings.Builder
		for i, p := range cfg.Data {
			if i == 0 {
				d.WriteString("M ")
			} else {
				d.WriteString(" L ")
			}
			d.WriteString(sink.FormatValue(round(x.at(p.X))))
			d.WriteByte(',')
			d.WriteString(sink.FormatValue(round(y.at(p.Y))))
		}
		svg.Add("path",
			sink.A("class", "line"),
			sink.A("d", d.String()),
			sink.A("fill", "none"),
			sink.A("stroke", LineStroke),
			sink.A("stroke-width", 2),
		)
	}
	return svg
}

func extent(pts []Point) (x0, x1, y0, y1 float64) {
	if len(pts) == 0 {
		return 0, 1, 0, 1
	}
	x0, x1 = math.Inf(1), math.Inf(-1)
	y0, y1 = math.Inf(1), math.Inf(-1)
	for _, p := range pts {
		x0, x1 = math.Min(x0, p.X), math.Max(x1, p.X)
		y0, y1 = math.Min(y0, p.Y), math.Max(y1, p.Y)
	}
	return x0, x1, y0, y1
}
