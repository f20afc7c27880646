package scene_test

import (
	"fmt"
	"io"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/archdeck/pkg/diagram"
	"github.com/matzehuels/archdeck/pkg/diagram/scene"
)

func ExampleMount() {
	spec := &diagram.Spec{
		Nodes: []diagram.NodeSpec{{ID: "api"}, {ID: "db", Type: "database"}},
		Edges: []diagram.EdgeSpec{{Source: "api", Target: "db", Style: "curved"}},
	}

	c := scene.NewContainer("slide-1")
	h := scene.Mount(c, spec, scene.Options{Logger: log.New(io.Discard)})
	s := h.Scene()

	fmt.Println("State:", h.State())
	fmt.Println("Path:", s.Edges()[0].Path)

	s.Drag("db", 880, 400)
	fmt.Println("Dragged:", s.Edges()[0].Path)
	// Output:
	// State: mounted
	// Path: M 80,270 C 320,270 640,270 880,270
	// Dragged: M 80,270 C 320,270 640,400 880,400
}

func ExampleMount_empty() {
	c := scene.NewContainer("")
	h := scene.Mount(c, &diagram.Spec{}, scene.Options{Logger: log.New(io.Discard)})
	fmt.Println(h.State())
	fmt.Println(string(c.Render()))
	// Output:
	// placeholder
	// <div class="archdeck-empty" style="padding: 20px; text-align: center; color: #64748b;">No nodes to display</div>
}
