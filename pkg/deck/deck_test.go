package deck

import (
	"io"
	"strings"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/archdeck/pkg/chart"
	"github.com/matzehuels/archdeck/pkg/diagram/scene"
	"github.com/matzehuels/archdeck/pkg/errors"
)

const slides = "# Platform\n" +
	"\n" +
	"```d3-arch\n" +
	`{"nodes":[{"id":"api"},{"id":"db","type":"database"}],"edges":[{"source":"api","target":"db"}]}` + "\n" +
	"```\n" +
	"\n" +
	"---\n" +
	"\n" +
	"```go\n" +
	"fmt.Println(\"not a chart\")\n" +
	"```\n" +
	"\n" +
	"```d3-bar\n" +
	`{"data":[1,2,3]}` + "\n" +
	"```\n" +
	"\n" +
	"```d3-arch\n" +
	`{"nodes": [` + "\n" +
	"```\n"

func opts() Options {
	return Options{Scene: scene.Options{Logger: log.New(io.Discard)}}
}

func TestBlocks(t *testing.T) {
	blocks := Blocks([]byte(slides))
	if len(blocks) != 3 {
		t.Fatalf("len(Blocks) = %d, want 3", len(blocks))
	}

	want := []struct {
		kind chart.Kind
		line int
	}{
		{chart.KindArch, 3},
		{chart.KindBar, 13},
		{chart.KindArch, 17},
	}
	for i, w := range want {
		b := blocks[i]
		if b.Kind != w.kind || b.Line != w.line {
			t.Errorf("block %d = %s@%d, want %s@%d", i, b.Kind, b.Line, w.kind, w.line)
		}
		raw := slides[b.Start:b.End]
		if !strings.HasPrefix(raw, "```d3-") || !strings.HasSuffix(raw, "```\n") {
			t.Errorf("block %d span = %q", i, raw)
		}
	}
	if got := string(blocks[1].Code); got != "{\"data\":[1,2,3]}\n" {
		t.Errorf("code = %q", got)
	}
}

func TestBlocksIgnoresOtherLanguages(t *testing.T) {
	src := "```arch\n{}\n```\n\n```\nplain\n```\n\n    d3-arch indented\n"
	if blocks := Blocks([]byte(src)); len(blocks) != 0 {
		t.Errorf("Blocks = %+v, want none", blocks)
	}
}

func TestEmbed(t *testing.T) {
	out, results := Embed([]byte(slides), opts())
	s := string(out)

	if len(results) != 3 {
		t.Fatalf("len(results) = %d", len(results))
	}
	if results[0].Handle == nil || results[0].Handle.State() != scene.StateMounted {
		t.Errorf("arch block not mounted: %+v", results[0])
	}
	if results[1].Handle == nil || results[1].Err != nil {
		t.Errorf("bar block failed: %v", results[1].Err)
	}
	if results[2].Handle != nil || !errors.Is(results[2].Err, errors.ErrCodeInvalidConfig) {
		t.Errorf("broken block = %+v", results[2])
	}

	for _, want := range []string{
		"# Platform",
		`<div id="archdeck-1" class="archdeck-container" data-d3="arch"><svg`,
		`<marker id="arrowhead-archdeck-1"`,
		`data-d3="bar"`,
		"```go\nfmt.Println",
		"```d3-arch\n{\"nodes\": [\n```\n",
		"Failed to parse arch chart: invalid JSON config",
	} {
		if !strings.Contains(s, want) {
			t.Errorf("output missing %q", want)
		}
	}
	if strings.Contains(s, "```d3-bar") {
		t.Error("rendered block was not replaced")
	}
}

func TestEmbedIndependentInstances(t *testing.T) {
	first, _ := Embed([]byte(slides), opts())
	second, _ := Embed([]byte(slides), opts())
	if string(first) != string(second) {
		t.Error("embedding the same source twice should be deterministic")
	}
}

func TestEmbedNoBlocks(t *testing.T) {
	src := "# Just text\n\nNothing to render.\n"
	out, results := Embed([]byte(src), opts())
	if string(out) != src || len(results) != 0 {
		t.Errorf("Embed changed plain markdown: %q", out)
	}
}
