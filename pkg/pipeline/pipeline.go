// Package pipeline provides the parse → layout → render pipeline shared by
// the CLI and the HTTP API.
//
// # Architecture
//
// The pipeline consists of three stages:
//
//  1. Parse: decode a JSON or TOML spec and normalize it into a graph
//  2. Layout: compute node positions (layered, with grid fallback on cycles)
//  3. Render: produce artifacts in the requested formats
//
// Layouts are cached by graph hash plus layout options, artifacts by layout
// hash plus artifact options, so re-rendering an unchanged spec in another
// theme reuses the layout.
//
// # Usage
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	result, err := runner.Execute(ctx, src, diagram.FormatJSON, pipeline.Options{
//	    Formats: []string{"svg", "dot"},
//	})
//	if err != nil {
//	    return err
//	}
//	svg := result.Artifacts["svg"]
//
// Only decode failures and I/O failures are errors. Empty graphs render a
// placeholder, dangling edges and cycles become [Result.Diagnostics].
package pipeline

import (
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/archdeck/pkg/cache"
	"github.com/matzehuels/archdeck/pkg/diagram"
	"github.com/matzehuels/archdeck/pkg/diagram/layout"
	"github.com/matzehuels/archdeck/pkg/diagram/scene"
	"github.com/matzehuels/archdeck/pkg/errors"
)

// Format constants for output formats.
const (
	FormatSVG  = "svg"
	FormatHTML = "html"
	FormatJSON = "json"
	FormatDOT  = "dot"
	FormatPNG  = "png"
)

// ValidFormats is the set of supported output formats.
var ValidFormats = map[string]bool{
	FormatSVG:  true,
	FormatHTML: true,
	FormatJSON: true,
	FormatDOT:  true,
	FormatPNG:  true,
}

// ContentType returns the MIME type of an output format.
func ContentType(format string) string {
	switch format {
	case FormatSVG:
		return "image/svg+xml"
	case FormatHTML:
		return "text/html; charset=utf-8"
	case FormatJSON:
		return "application/json"
	case FormatPNG:
		return "image/png"
	default:
		return "text/plain; charset=utf-8"
	}
}

// DefaultTheme is the theme used when none is given.
const DefaultTheme = string(scene.ThemeDark)

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options configures a pipeline run. It supports JSON for API requests.
type Options struct {
	Formats []string `json:"formats,omitempty"`
	Theme   string   `json:"theme,omitempty"`

	// Standalone embeds the interaction style and script in SVG output.
	// HTML output always carries them.
	Standalone bool `json:"standalone,omitempty"`

	// Title is the HTML page title.
	Title string `json:"title,omitempty"`

	// Refresh bypasses cache reads; results are still written.
	Refresh bool `json:"refresh,omitempty"`

	Logger *log.Logger `json:"-"`
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// Graph is the normalized diagram; nil when the spec had no nodes.
	Graph *diagram.Graph

	// GraphHash is the content hash of the normalized graph.
	GraphHash string

	// Layout is the computed layout; zero when Empty.
	Layout layout.Result

	// Empty reports that the spec had no nodes and a placeholder was rendered.
	Empty bool

	// Artifacts contains rendered outputs keyed by format.
	Artifacts map[string][]byte

	// Diagnostics collects graph and layout diagnostics.
	Diagnostics []diagram.Diagnostic

	Stats     Stats
	CacheInfo CacheInfo
}

// Stats contains pipeline execution statistics.
type Stats struct {
	NodeCount  int
	EdgeCount  int
	ParseTime  time.Duration
	LayoutTime time.Duration
	RenderTime time.Duration
}

// CacheInfo tracks cache hits for each pipeline stage.
type CacheInfo struct {
	LayoutHit bool // Whether the layout came from cache
	RenderHit bool // Whether all artifacts came from cache
}

// =============================================================================
// Validation Functions
// =============================================================================

// ValidateFormat checks that a format is valid.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return errors.New(errors.ErrCodeInvalidFormat,
			"invalid format: %q (must be one of: svg, html, json, dot, png)", format)
	}
	return nil
}

// ValidateFormats checks that all formats are valid.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}

// ValidateTheme checks that a theme is valid.
func ValidateTheme(theme string) error {
	switch scene.Theme(theme) {
	case scene.ThemeDark, scene.ThemeLight:
		return nil
	}
	return errors.New(errors.ErrCodeInvalidInput, "invalid theme: %q (must be one of: dark, light)", theme)
}

// ParseFormats splits a comma separated format list, dropping blanks.
func ParseFormats(s string) []string {
	var out []string
	for _, f := range strings.Split(s, ",") {
		if f = strings.ToLower(strings.TrimSpace(f)); f != "" {
			out = append(out, f)
		}
	}
	return out
}

// =============================================================================
// Options Methods
// =============================================================================

// ValidateAndSetDefaults applies defaults and validates the result.
// Calling it more than once has no further effect.
func (o *Options) ValidateAndSetDefaults() error {
	if len(o.Formats) == 0 {
		o.Formats = []string{FormatSVG}
	}
	if o.Theme == "" {
		o.Theme = DefaultTheme
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	if err := ValidateFormats(o.Formats); err != nil {
		return err
	}
	return ValidateTheme(o.Theme)
}

// SceneOptions returns the scene options for this run.
func (o *Options) SceneOptions() scene.Options {
	return scene.Options{Theme: scene.ParseTheme(o.Theme), Logger: o.Logger}
}

// LayoutKeyOpts returns cache key options for layout computation.
func LayoutKeyOpts(g *diagram.Graph) cache.LayoutKeyOpts {
	return cache.LayoutKeyOpts{
		LayoutType: string(g.Options.LayoutType),
		RankDir:    string(g.Options.RankDir),
		Width:      g.Options.Width,
		Height:     g.Options.Height,
		NodeGap:    g.Options.NodeGap,
		LevelGap:   g.Options.LevelGap,
	}
}

// ArtifactKeyOpts returns cache key options for artifact rendering.
func (o *Options) ArtifactKeyOpts(format string) cache.ArtifactKeyOpts {
	return cache.ArtifactKeyOpts{
		Format:      format,
		Theme:       o.Theme,
		Standalone:  o.Standalone && format == FormatSVG,
		Interactive: format == FormatHTML,
	}
}

