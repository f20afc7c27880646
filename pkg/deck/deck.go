// Package deck finds chart blocks in markdown slide decks and replaces them
// with rendered SVG.
//
// Charts are written as fenced code blocks whose language names the chart
// kind:
//
//	```d3-arch
//	{"nodes": [{"id": "api"}, {"id": "db"}], "edges": [{"source": "api", "target": "db"}]}
//	```
//
// [Blocks] locates them with goldmark's parser, [Embed] mounts each one in a
// container of its own and splices the result back into the source. A block
// whose config cannot be decoded is left in place with an error panel
// appended, so the author still sees the code that failed.
package deck

import (
	"bytes"
	"fmt"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"

	"github.com/matzehuels/archdeck/pkg/chart"
	"github.com/matzehuels/archdeck/pkg/diagram/scene"
	"github.com/matzehuels/archdeck/pkg/errors"
	"github.com/matzehuels/archdeck/pkg/render/sink"
)

// Block is one chart code block in a markdown source.
type Block struct {
	Kind  chart.Kind
	Lang  string
	Code  []byte
	Start int // byte offset of the opening fence
	End   int // byte offset just past the closing fence line
	Line  int // 1-based line of the opening fence
}

// Blocks returns every fenced chart block in src, in document order.
func Blocks(src []byte) []Block {
	doc := goldmark.New().Parser().Parse(text.NewReader(src))

	var blocks []Block
	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		fcb, ok := n.(*ast.FencedCodeBlock)
		if !ok || fcb.Info == nil {
			return ast.WalkContinue, nil
		}
		lang := string(fcb.Language(src))
		kind, ok := chart.ParseKind(lang)
		if !ok || lang != kind.Language() {
			return ast.WalkSkipChildren, nil
		}
		blocks = append(blocks, extract(src, fcb, kind, lang))
		return ast.WalkSkipChildren, nil
	})
	return blocks
}

func extract(src []byte, fcb *ast.FencedCodeBlock, kind chart.Kind, lang string) Block {
	infoStart := fcb.Info.Segment.Start
	start := bytes.LastIndexByte(src[:infoStart], '\n') + 1

	var code bytes.Buffer
	contentEnd := lineEnd(src, infoStart)
	lines := fcb.Lines()
	for i := 0; i < lines.Len(); i++ {
		seg := lines.At(i)
		code.Write(seg.Value(src))
		contentEnd = seg.Stop
	}

	end := contentEnd
	if next := lineEnd(src, contentEnd); isFence(src[contentEnd:next]) {
		end = next
	}
	return Block{
		Kind:  kind,
		Lang:  lang,
		Code:  code.Bytes(),
		Start: start,
		End:   end,
		Line:  bytes.Count(src[:start], []byte("\n")) + 1,
	}
}

// lineEnd returns the offset just past the newline ending the line at i.
func lineEnd(src []byte, i int) int {
	if i >= len(src) {
		return len(src)
	}
	if j := bytes.IndexByte(src[i:], '\n'); j >= 0 {
		return i + j + 1
	}
	return len(src)
}

func isFence(line []byte) bool {
	l := bytes.TrimSpace(line)
	return bytes.HasPrefix(l, []byte("```")) || bytes.HasPrefix(l, []byte("~~~"))
}

// Options configures [Embed].
type Options struct {
	Scene    scene.Options
	IDPrefix string // container id prefix, defaults to "archdeck-"
}

// Result reports what happened to one block.
type Result struct {
	Block  Block
	Handle *scene.Handle // nil when the config failed to decode
	Err    error
}

// Embed replaces every chart block in src with its rendered output.
// Each block gets its own container; no state is shared between blocks or
// between calls.
func Embed(src []byte, opts Options) ([]byte, []Result) {
	prefix := opts.IDPrefix
	if prefix == "" {
		prefix = "archdeck-"
	}

	blocks := Blocks(src)
	results := make([]Result, 0, len(blocks))

	var out bytes.Buffer
	last := 0
	for i, b := range blocks {
		out.Write(src[last:b.Start])
		last = b.End

		spec, err := chart.Decode(b.Kind, b.Code)
		if err != nil {
			out.Write(src[b.Start:b.End])
			if !bytes.HasSuffix(src[b.Start:b.End], []byte("\n")) {
				out.WriteByte('\n')
			}
			out.WriteByte('\n')
			out.Write(sink.RenderFragment(sink.Panel("archdeck-error", "#ef4444",
				fmt.Sprintf("Failed to parse %s chart: %s", b.Kind, errors.UserMessage(err)))))
			out.WriteString("\n\n")
			results = append(results, Result{Block: b, Err: err})
			continue
		}

		c := scene.NewContainer(fmt.Sprintf("%s%d", prefix, i+1))
		h := chart.Mount(c, spec, opts.Scene)
		fmt.Fprintf(&out, "<div id=\"%s\" class=\"archdeck-container\" data-d3=\"%s\">", c.ID, b.Kind)
		out.Write(c.Render())
		out.WriteString("</div>\n\n")
		results = append(results, Result{Block: b, Handle: h, Err: h.Err()})
	}
	out.Write(src[last:])
	return out.Bytes(), results
}
