package cli

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/matzehuels/archdeck/pkg/diagram"
	"github.com/matzehuels/archdeck/pkg/diagram/layout"
	"github.com/matzehuels/archdeck/pkg/pipeline"
)

// layoutCommand creates the layout command for inspecting computed layouts.
func (c *CLI) layoutCommand() *cobra.Command {
	var (
		output     string
		specFormat string
		asJSON     bool
		noCache    bool
	)

	cmd := &cobra.Command{
		Use:   "layout [spec]",
		Short: "Compute a diagram layout and print it",
		Long: `Compute a diagram layout and print it.

Prints the placed nodes as a table together with the layout strategy and any
diagnostics (dangling edges, cycles). With --json or -o the full layout result
is written as JSON, the same document 'render -f json' produces.`,
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: specArgs,
		RunE:              func(cmd *cobra.Command, args []string) error {
			return c.runLayout(cmd.Context(), args[0], specFormat, output, asJSON, noCache)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "write the layout JSON to a file")
	cmd.Flags().StringVar(&specFormat, "spec-format", "", "spec format: json or toml (default: from extension)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the layout JSON to stdout")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")

	return cmd
}

func (c *CLI) runLayout(ctx context.Context, input, specFormat, output string, asJSON, noCache bool) error {
	src, format, err := readSpec(input, specFormat)
	if err != nil {
		return err
	}

	g, empty, err := pipeline.Parse(ctx, src, format)
	if err != nil {
		return err
	}
	if empty {
		printWarning("spec has no nodes, nothing to lay out")
		return nil
	}

	runner, err := c.newRunner(noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	logger := loggerFromContext(ctx)
	done := timed(logger, "layout computed")
	res, cached := runner.Layout(ctx, g, pipeline.Options{Logger: logger})
	done("strategy", res.Strategy, "cached", cached)

	if asJSON || output != "" {
		data, err := json.MarshalIndent(res, "", "  ")
		if err != nil {
			return fmt.Errorf("serialize layout: %w", err)
		}
		if asJSON {
			fmt.Println(string(data))
			return nil
		}
		if err := writeOutput(output, data); err != nil {
			return err
		}
		printSuccess("Layout complete")
		printFile(output)
		printStats(len(g.Nodes), len(g.Edges), cached)
		printDiagnostics(pipeline.Diagnostics(g, res))
		printNewline()
		printNextStep("Explore", appName+" view "+input)
		return nil
	}

	printLayout(g, res, cached)
	return nil
}

// printLayout prints a summary and a node table.
func printLayout(g *diagram.Graph, res layout.Result, cached bool) {
	printKeyValue("Strategy", string(res.Strategy))
	printKeyValue("Levels", fmt.Sprintf("%d", res.MaxLevel+1))
	printKeyValue("Canvas", fmt.Sprintf("%.0f × %.0f", res.Width, res.Height))
	printStats(len(res.Nodes), len(res.Edges), cached)
	printNewline()
	fmt.Println(layoutTable(res).Render())
	printDiagnostics(pipeline.Diagnostics(g, res))
}

func layoutTable(res layout.Result) *table.Table {
	rows := make([][]string, len(res.Nodes))
	for i, n := range res.Nodes {
		typ := string(n.Type)
		if typ == "" {
			typ = "—"
		}
		rows[i] = []string{n.ID, n.Label, typ, fmt.Sprintf("%d", n.Level), fmt.Sprintf("%.1f", n.Pos.X), fmt.Sprintf("%.1f", n.Pos.Y)}
	}

	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("ID", "Label", "Type", "Level", "X", "Y").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == -1:
				return headerStyle
			case col == 0:
				return StyleHighlight
			case col == 2:
				return typeStyle(res.Nodes[row].Type)
			case col >= 3:
				return StyleNumber
			}
			return StyleValue
		})
}

