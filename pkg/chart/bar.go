package chart

import (
	"fmt"
	"math"
	"strconv"

	"github.com/matzehuels/archdeck/pkg/diagram/scene"
	"github.com/matzehuels/archdeck/pkg/render/sink"
)

// Plot defaults shared by bar and line charts.
const (
	DefaultChartWidth  = 640.0
	DefaultChartHeight = 360.0

	marginLeft   = 40.0
	marginRight  = 10.0
	marginTop    = 10.0
	marginBottom = 30.0
	axisColor    = "#64748b"
)

// BarFill is the fill color of bars.
const BarFill = "#4f46e5"

// DefaultBarData is plotted when a bar config has no data.
var DefaultBarData = []float64{3, 1, 4, 1, 5, 9}

// BarConfig configures a bar chart.
type BarConfig struct {
	Data   []float64 `json:"data,omitempty"`
	Width  float64   `json:"width,omitempty"`
	Height float64   `json:"height,omitempty"`
}

func (c BarConfig) withDefaults() BarConfig {
	if c.Data == nil {
		c.Data = DefaultBarData
	}
	if c.Width <= 0 {
		c.Width = DefaultChartWidth
	}
	if c.Height <= 0 {
		c.Height = DefaultChartHeight
	}
	return c
}

func mountBar(c *scene.Container, spec Spec, opts scene.Options) *scene.Handle {
	cfg := BarConfig{}
	if spec.Bar != nil {
		cfg = *spec.Bar
	}
	return scene.MountStatic(c, opts, func() (*sink.Element, error) {
		return BarSVG(cfg), nil
	})
}

// BarSVG draws a bar chart with one band per value, labeled from 1.
func BarSVG(cfg BarConfig) *sink.Element {
	cfg = cfg.withDefaults()
	w, h := cfg.Width, cfg.Height

	maxV := 0.0
	for _, v := range cfg.Data {
		maxV = math.Max(maxV, v)
	}
	x := newBand(len(cfg.Data), marginLeft, w-marginRight, 0.2)
	y := linear{d0: 0, d1: maxV, r0: h - marginBottom, r1: marginTop}.nice(10)

	svg := chartRoot("bar", w, h)

	bottom := svg.Add("g", sink.A("class", "axis axis-x"), sink.A("transform", fmt.Sprintf("translate(0,%s)", sink.FormatValue(h-marginBottom))))
	bottom.Add("path", sink.A("d", fmt.Sprintf("M %s,0 H %s", sink.FormatValue(marginLeft), sink.FormatValue(w-marginRight))), sink.A("stroke", axisColor))
	for i := range cfg.Data {
		cx := x.at(i) + x.bandwidth()/2
		tick(bottom, cx, 0, strconv.Itoa(i+1), true)
	}

	drawYAxis(svg, y)

	bars := svg.Add("g", sink.A("class", "bars"))
	y0 := y.at(0)
	for i, v := range cfg.Data {
		yv := y.at(v)
		bars.Add("rect",
			sink.A("x", x.at(i)),
			sink.A("y", math.Min(yv, y0)),
			sink.A("width", x.bandwidth()),
			sink.A("height", math.Abs(y0-yv)),
			sink.A("fill", BarFill),
		)
	}
	return svg
}

func chartRoot(kind string, w, h float64) *sink.Element {
	return sink.El("svg",
		sink.A("xmlns", "http://www.w3.org/2000/svg"),
		sink.A("class", "archdeck-chart chart-"+kind),
		sink.A("width", w),
		sink.A("height", h),
	)
}

func drawYAxis(svg *sink.Element, y linear) {
	left := svg.Add("g", sink.A("class", "axis axis-y"), sink.A("transform", fmt.Sprintf("translate(%s,0)", sink.FormatValue(marginLeft))))
	left.Add("path", sink.A("d", fmt.Sprintf("M 0,%s V %s", sink.FormatValue(y.r0), sink.FormatValue(y.r1))), sink.A("stroke", axisColor))
	for _, v := range y.ticks(10) {
		tick(left, 0, y.at(v), sink.FormatValue(round(v)), false)
	}
}

func tick(axis *sink.Element, x, y float64, label string, horizontal bool) {
	if horizontal {
		axis.Add("line", sink.A("x1", x), sink.A("x2", x), sink.A("y2", 6), sink.A("stroke", axisColor))
		axis.Add("text", sink.A("x", x), sink.A("y", 18), sink.A("text-anchor", "middle"),
			sink.A("font-size", 10), sink.A("fill", axisColor)).SetText(label)
		return
	}
	axis.Add("line", sink.A("y1", y), sink.A("y2", y), sink.A("x2", -6), sink.A("stroke", axisColor))
	axis.Add("text", sink.A("x", -9), sink.A("y", y), sink.A("text-anchor", "end"),
		sink.A("dominant-baseline", "central"), sink.A("font-size", 10), sink.A("fill", axisColor)).SetText(label)
}

// round trims float noise from tick values.
func round(v float64) float64 {
	return math.Round(v*1e9) / 1e9
}
