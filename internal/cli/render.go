package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/archdeck/pkg/diagram"
	"github.com/matzehuels/archdeck/pkg/errors"
	"github.com/matzehuels/archdeck/pkg/pipeline"
)

// renderCommand creates the render command.
func (c *CLI) renderCommand() *cobra.Command {
	var (
		output     string
		formatsStr string
		specFormat string
		noCache    bool
	)
	opts := pipeline.Options{Theme: pipeline.DefaultTheme}

	cmd := &cobra.Command{
		Use:   "render [spec]",
		Short: "Render a diagram spec to SVG, HTML, JSON, DOT or PNG",
		Long: `Render a diagram spec to SVG, HTML, JSON, DOT or PNG.

The spec is a JSON or TOML file with nodes, edges, groups, layout and
interaction settings. Use "-" to read JSON from stdin.

With a single format the output goes to -o (or <spec>.<format>); with several
formats -o is a base path and each file gets its format as extension.

Layouts and artifacts are cached locally for faster subsequent runs.`,
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: specArgs,
		RunE:              func(cmd *cobra.Command, args []string) error {
			opts.Formats = parseFormats(formatsStr)
			return c.runRender(cmd.Context(), args[0], specFormat, output, noCache, opts)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (single format) or base path (multiple)")
	cmd.Flags().StringVarP(&formatsStr, "format", "f", "", "output format(s): svg (default), html, json, dot, png (comma-separated)")
	cmd.Flags().StringVar(&specFormat, "spec-format", "", "spec format: json or toml (default: from extension)")
	cmd.Flags().StringVar(&opts.Theme, "theme", opts.Theme, "color theme: dark, light")
	cmd.Flags().StringVar(&opts.Title, "title", "", "HTML page title")
	cmd.Flags().BoolVar(&opts.Standalone, "standalone", false, "embed the interaction script in SVG output")
	cmd.Flags().BoolVar(&opts.Refresh, "refresh", false, "ignore cached results")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")

	return cmd
}

func (c *CLI) runRender(ctx context.Context, input, specFormat, output string, noCache bool, opts pipeline.Options) error {
	if err := pipeline.ValidateFormats(opts.Formats); err != nil {
		return err
	}
	src, format, err := readSpec(input, specFormat)
	if err != nil {
		return err
	}

	runner, err := c.newRunner(noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	if opts.Title == "" {
		opts.Title = strings.TrimSuffix(filepath.Base(input), filepath.Ext(input))
	}
	opts.Logger = loggerFromContext(ctx)

	spin := startSpinner(ctx, os.Stderr, "Rendering "+strings.Join(opts.Formats, ", "))
	result, err := runner.Execute(ctx, src, format, opts)
	took := spin.finish()
	if err != nil {
		printFailure("Render failed after %s", took)
		return err
	}

	if ctx.Err() != nil {
		return ctx.Err()
	}

	paths := outputPaths(input, output, opts.Formats)
	printSuccess("Rendered in %s", took)
	for _, f := range opts.Formats {
		if err := writeOutput(paths[f], result.Artifacts[f]); err != nil {
			return err
		}
		printFile(paths[f])
	}
	printStats(result.Stats.NodeCount, result.Stats.EdgeCount, result.CacheInfo.LayoutHit && result.CacheInfo.RenderHit)
	if n := len(result.Diagnostics); n > 0 {
		printDetail("%d diagnostics (see warnings above)", n)
	}
	if result.Empty {
		printWarning("spec has no nodes, rendered placeholder")
	}
	return nil
}

// =============================================================================
// Spec input
// =============================================================================

// readSpec reads a spec file, or stdin for "-". The format comes from the
// flag when given, else from the file extension.
func readSpec(path, specFormat string) ([]byte, diagram.Format, error) {
	var (
		data []byte
		err  error
	)
	if path == "-" {
		data, err = io.ReadAll(os.Stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return nil, "", fmt.Errorf("read spec %s: %w", path, err)
	}

	switch strings.ToLower(specFormat) {
	case "":
		return data, diagram.DetectFormat(path), nil
	case "json":
		return data, diagram.FormatJSON, nil
	case "toml":
		return data, diagram.FormatTOML, nil
	default:
		return nil, "", fmt.Errorf("invalid spec format: %s (must be 'json' or 'toml')", specFormat)
	}
}

// =============================================================================
// Output
// =============================================================================

// parseFormats parses the --format flag. Empty means svg.
func parseFormats(s string) []string {
	if formats := pipeline.ParseFormats(s); len(formats) > 0 {
		return formats
	}
	return []string{pipeline.FormatSVG}
}

// basePath derives the base output path from the output and input paths.
// A known format extension on output is stripped.
func basePath(output, input string) string {
	if output == "" {
		if input == "-" {
			return "diagram"
		}
		return strings.TrimSuffix(input, filepath.Ext(input))
	}
	ext := filepath.Ext(output)
	if pipeline.ValidFormats[strings.TrimPrefix(ext, ".")] {
		return strings.TrimSuffix(output, ext)
	}
	return output
}

// outputPaths picks a file per format. A single format with an explicit
// output uses it verbatim.
func outputPaths(input, output string, formats []string) map[string]string {
	paths := make(map[string]string, len(formats))
	if len(formats) == 1 && output != "" {
		paths[formats[0]] = output
		return paths
	}
	base := basePath(output, input)
	for _, f := range formats {
		paths[f] = base + "." + f
	}
	return paths
}

func writeOutput(path string, data []byte) error {
	if err := errors.ValidatePath(path); err != nil {
		return err
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create output dir: %w", err)
		}
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write output %s: %w", path, err)
	}
	return nil
}

// printDiagnostics prints each diagnostic as a warning line.
func printDiagnostics(diags []diagram.Diagnostic) {
	for _, d := range diags {
		printWarning("%s", d.String())
	}
}
