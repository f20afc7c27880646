package sink

import (
	"bytes"
	"fmt"
)

const pageCSS = `
    body { margin: 0; background: %s; font-family: ui-sans-serif, system-ui, sans-serif; }
    main { display: flex; align-items: center; justify-content: center; min-height: 100vh; }
    main svg { max-width: 100%%; height: auto; }`

// Page describes a standalone HTML document wrapping one rendered diagram.
type Page struct {
	Title      string
	Background string
}

// RenderHTML wraps an SVG tree in a minimal standalone HTML page.
func RenderHTML(root *Element, page Page, opts ...SVGOption) []byte {
	if page.Title == "" {
		page.Title = "archdeck"
	}
	if page.Background == "" {
		page.Background = "#0f172a"
	}

	var buf bytes.Buffer
	buf.WriteString("<!DOCTYPE html>\n<html lang=\"en\">\n<head>\n")
	buf.WriteString("  <meta charset=\"utf-8\">\n")
	fmt.Fprintf(&buf, "  <title>%s</title>\n", escapeText(page.Title))
	fmt.Fprintf(&buf, "  <style>"+pageCSS+"\n  </style>\n", escapeAttr(page.Background))
	buf.WriteString("</head>\n<body>\n<main>\n")
	buf.Write(RenderSVG(root, opts...))
	buf.WriteString("\n</main>\n</body>\n</html>\n")
	return buf.Bytes()
}

// Panel builds the inline message box used for placeholders and errors.
func Panel(class, color, text string) *Element {
	return El("div",
		A("class", class),
		A("style", fmt.Sprintf("padding: 20px; text-align: center; color: %s;", color)),
	).SetText(text)
}

// RenderFragment serializes an HTML fragment without the interaction script.
func RenderFragment(e *Element) []byte {
	return RenderSVG(e)
}
