package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/archdeck/pkg/deck"
	"github.com/matzehuels/archdeck/pkg/diagram/scene"
	"github.com/matzehuels/archdeck/pkg/errors"
)

// embedCommand creates the embed command for markdown slide decks.
func (c *CLI) embedCommand() *cobra.Command {
	var (
		output string
		theme  string
		prefix string
	)

	cmd := &cobra.Command{
		Use:   "embed [deck.md]",
		Short: "Replace chart code blocks in a markdown deck with inline SVG",
		Long: "Replace chart code blocks in a markdown deck with inline SVG.\n\n" +
			"Fenced blocks tagged d3-arch, d3-bar or d3-line are rendered in place. A\n" +
			"block whose JSON cannot be parsed is kept and followed by an error panel.\n\n" +
			"Example block:\n\n" +
			"  ```d3-arch\n" +
			"  {\"nodes\": [{\"id\": \"api\"}, {\"id\": \"db\"}], \"edges\": [{\"source\": \"api\", \"target\": \"db\"}]}\n" +
			"  ```",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runEmbed(cmd.Context(), args[0], output, deck.Options{
				IDPrefix: prefix,
				Scene:    scene.Options{Theme: scene.ParseTheme(theme), Logger: loggerFromContext(cmd.Context())},
			})
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: <deck>.rendered.md)")
	cmd.Flags().StringVar(&theme, "theme", string(scene.ThemeDark), "color theme: dark, light")
	cmd.Flags().StringVar(&prefix, "id-prefix", "", "container id prefix (default: archdeck-)")

	return cmd
}

func (c *CLI) runEmbed(ctx context.Context, input, output string, opts deck.Options) error {
	src, err := os.ReadFile(input)
	if err != nil {
		return fmt.Errorf("read deck %s: %w", input, err)
	}

	out, results := deck.Embed(src, opts)

	if output == "" {
		output = strings.TrimSuffix(input, filepath.Ext(input)) + ".rendered.md"
	}
	if err := writeOutput(output, out); err != nil {
		return err
	}

	failed := 0
	for _, r := range results {
		if r.Err != nil {
			failed++
			printWarning("line %d: %s block: %s", r.Block.Line, r.Block.Kind, errors.UserMessage(r.Err))
		}
	}

	logger := loggerFromContext(ctx)
	logger.Debug("embedded charts", "blocks", len(results), "failed", failed)

	printSuccess("Embedded %d of %d chart blocks", len(results)-failed, len(results))
	printFile(output)
	return nil
}
