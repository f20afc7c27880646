package scene

import "github.com/matzehuels/archdeck/pkg/diagram"

// Theme selects the presentation theme. It only affects fill opacity.
type Theme string

// Themes.
const (
	ThemeDark  Theme = "dark"
	ThemeLight Theme = "light"
)

// ParseTheme maps a flag value to a Theme, defaulting to dark.
func ParseTheme(s string) Theme {
	if Theme(s) == ThemeLight {
		return ThemeLight
	}
	return ThemeDark
}

// Visual constants.
const (
	EdgeStroke      = "#64748b"
	EdgeStrokeWidth = 2.0
	TextFill        = "#1f2937"
	FontFamily      = "ui-sans-serif, system-ui, sans-serif"
	FontSize        = 12.0
	CornerRadius    = 6.0
	GroupStroke     = "#94a3b8"
	GroupPadding    = 16.0
	GroupLabelSpace = 18.0
	ArrowPath       = "M0,-5L10,0L0,5"
	ArrowViewBox    = "0 -5 10 10"

	MinScale   = 0.1
	MaxScale   = 3.0
	DimOpacity = 0.3
)

// Style is the resolved paint for a node box.
type Style struct {
	Fill        string
	Stroke      string
	FillOpacity float64
	StrokeWidth float64
}

type swatch struct{ fill, stroke string }

var palette = map[diagram.NodeType]swatch{
	diagram.NodeGateway:  {"#fbbf24", "#f59e0b"},
	diagram.NodeService:  {"#60a5fa", "#3b82f6"},
	diagram.NodeDatabase: {"#34d399", "#10b981"},
	diagram.NodeQueue:    {"#f472b6", "#ec4899"},
}

var defaultSwatch = swatch{"#94a3b8", "#64748b"}

// NodeStyle returns the paint for a node type under a theme.
// Unknown types get the neutral default.
func NodeStyle(t diagram.NodeType, theme Theme) Style {
	sw, ok := palette[t]
	if !ok {
		sw = defaultSwatch
	}
	opacity := 0.2
	if theme == ThemeLight {
		opacity = 0.1
	}
	return Style{Fill: sw.fill, Stroke: sw.stroke, FillOpacity: opacity, StrokeWidth: 2}
}
