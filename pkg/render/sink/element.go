package sink

import (
	"fmt"
	"strconv"
	"strings"
)

// Attr is a single element attribute.
type Attr struct {
	Name  string
	Value string
}

// A builds an attribute, formatting numbers without trailing zeros.
func A(name string, v any) Attr {
	return Attr{Name: name, Value: FormatValue(v)}
}

// FormatValue renders an attribute value.
func FormatValue(v any) string {
	switch x := v.(type) {
	case string:
		return x
	case float64:
		if x == 0 {
			return "0"
		}
		return strconv.FormatFloat(x, 'f', -1, 64)
	case float32:
		return FormatValue(float64(x))
	case int:
		return strconv.Itoa(x)
	case bool:
		return strconv.FormatBool(x)
	case fmt.Stringer:
		return x.String()
	default:
		return fmt.Sprint(v)
	}
}

// Element is a node in a retained SVG/HTML tree. Attributes keep insertion
// order so serialization is deterministic.
type Element struct {
	Tag      string
	Attrs    []Attr
	Text     string
	Children []*Element

	parent *Element
}

// El creates an element.
func El(tag string, attrs ...Attr) *Element {
	return &Element{Tag: tag, Attrs: attrs}
}

// Parent returns the element this one is attached to, or nil.
func (e *Element) Parent() *Element { return e.parent }

// Append attaches children in order and returns e.
func (e *Element) Append(children ...*Element) *Element {
	for _, c := range children {
		if c == nil {
			continue
		}
		if c.parent != nil {
			c.parent.removeChild(c)
		}
		c.parent = e
		e.Children = append(e.Children, c)
	}
	return e
}

// Add creates a child element, attaches it and returns the child.
func (e *Element) Add(tag string, attrs ...Attr) *Element {
	c := El(tag, attrs...)
	e.Append(c)
	return c
}

// Set replaces or adds an attribute and returns e.
func (e *Element) Set(name string, v any) *Element {
	val := FormatValue(v)
	for i := range e.Attrs {
		if e.Attrs[i].Name == name {
			e.Attrs[i].Value = val
			return e
		}
	}
	e.Attrs = append(e.Attrs, Attr{Name: name, Value: val})
	return e
}

// Get returns the value of an attribute.
func (e *Element) Get(name string) (string, bool) {
	for _, a := range e.Attrs {
		if a.Name == name {
			return a.Value, true
		}
	}
	return "", false
}

// Attr returns the value of an attribute or "".
func (e *Element) Attr(name string) string {
	v, _ := e.Get(name)
	return v
}

// Unset removes an attribute.
func (e *Element) Unset(name string) *Element {
	for i := range e.Attrs {
		if e.Attrs[i].Name == name {
			e.Attrs = append(e.Attrs[:i], e.Attrs[i+1:]...)
			break
		}
	}
	return e
}

// SetText sets the text content and returns e.
func (e *Element) SetText(s string) *Element {
	e.Text = s
	return e
}

// Clear detaches every child.
func (e *Element) Clear() {
	for _, c := range e.Children {
		c.parent = nil
	}
	e.Children = nil
	e.Text = ""
}

// Raise moves e to the end of its parent's children so it paints last.
func (e *Element) Raise() {
	p := e.parent
	if p == nil {
		return
	}
	p.removeChild(e)
	e.parent = p
	p.Children = append(p.Children, e)
}

// Index returns the position of e among its siblings, or -1.
func (e *Element) Index() int {
	if e.parent == nil {
		return -1
	}
	for i, c := range e.parent.Children {
		if c == e {
			return i
		}
	}
	return -1
}

// Walk visits e and its descendants depth first. Returning false from fn
// skips the children of the visited element.
func (e *Element) Walk(fn func(*Element) bool) {
	if !fn(e) {
		return
	}
	for _, c := range e.Children {
		c.Walk(fn)
	}
}

// FindByID returns the first descendant (or e) whose id attribute is id.
func (e *Element) FindByID(id string) *Element {
	var found *Element
	e.Walk(func(x *Element) bool {
		if found != nil {
			return false
		}
		if x.Attr("id") == id {
			found = x
			return false
		}
		return true
	})
	return found
}

// FindAll returns every descendant matching pred, in document order.
func (e *Element) FindAll(pred func(*Element) bool) []*Element {
	var out []*Element
	e.Walk(func(x *Element) bool {
		if pred(x) {
			out = append(out, x)
		}
		return true
	})
	return out
}

// ByClass matches elements whose class attribute contains cls.
func ByClass(cls string) func(*Element) bool {
	return func(x *Element) bool {
		return hasClass(x.Attr("class"), cls)
	}
}

// Count returns the number of elements in the subtree rooted at e.
func (e *Element) Count() int {
	n := 0
	e.Walk(func(*Element) bool { n++; return true })
	return n
}

func (e *Element) removeChild(c *Element) {
	for i, x := range e.Children {
		if x == c {
			e.Children = append(e.Children[:i], e.Children[i+1:]...)
			c.parent = nil
			return
		}
	}
}

func hasClass(attr, cls string) bool {
	for _, c := range strings.Fields(attr) {
		if c == cls {
			return true
		}
	}
	return false
}
