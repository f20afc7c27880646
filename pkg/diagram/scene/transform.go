package scene

import (
	"fmt"

	"github.com/matzehuels/archdeck/pkg/diagram"
	"github.com/matzehuels/archdeck/pkg/render/sink"
)

// Transform is the camera: a translation followed by a uniform scale.
// A screen point p maps to scene point (p - (X,Y)) / K.
type Transform struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	K float64 `json:"k"`
}

// Identity is the untransformed camera.
var Identity = Transform{K: 1}

// String renders the transform as an SVG transform attribute.
func (t Transform) String() string {
	return fmt.Sprintf("translate(%s,%s) scale(%s)",
		sink.FormatValue(t.X), sink.FormatValue(t.Y), sink.FormatValue(t.K))
}

// Apply maps a scene point to screen coordinates.
func (t Transform) Apply(p diagram.Point) diagram.Point {
	return diagram.Point{X: p.X*t.K + t.X, Y: p.Y*t.K + t.Y}
}

// Invert maps a screen point to scene coordinates.
func (t Transform) Invert(p diagram.Point) diagram.Point {
	return diagram.Point{X: (p.X - t.X) / t.K, Y: (p.Y - t.Y) / t.K}
}

func clampScale(k float64) float64 {
	switch {
	case k < MinScale:
		return MinScale
	case k > MaxScale:
		return MaxScale
	}
	return k
}

func translate(p diagram.Point) string {
	return fmt.Sprintf("translate(%s,%s)", sink.FormatValue(p.X), sink.FormatValue(p.Y))
}
