package diagram_test

import (
	"fmt"

	"github.com/matzehuels/archdeck/pkg/diagram"
)

func ExampleNormalize() {
	spec, _ := diagram.Parse([]byte(`{
		"nodes": [{"id": "gw", "type": "gateway"}, {"id": "orders"}],
		"edges": [{"source": "gw", "target": "orders", "style": "curved"}]
	}`), diagram.FormatJSON)

	g, _ := diagram.Normalize(spec)
	fmt.Println("Nodes:", len(g.Nodes))
	fmt.Println("Label:", g.Nodes[1].Label)
	fmt.Println("Style:", g.Edges[0].Style)
	fmt.Println("Canvas:", g.Options.Width, "x", g.Options.Height)
	// Output:
	// Nodes: 2
	// Label: orders
	// Style: curved
	// Canvas: 960 x 540
}

func ExampleNormalize_empty() {
	_, err := diagram.Normalize(&diagram.Spec{})
	fmt.Println(err)
	// Output:
	// EMPTY_GRAPH: no nodes to display
}
