package scene

import (
	"bytes"
	"fmt"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/archdeck/pkg/diagram"
	"github.com/matzehuels/archdeck/pkg/diagram/layout"
	"github.com/matzehuels/archdeck/pkg/errors"
	"github.com/matzehuels/archdeck/pkg/render/sink"
)

// Messages shown inside a container instead of a diagram.
const (
	PlaceholderText = "No nodes to display"
	ErrorPrefix     = "Error rendering diagram: "
)

// Options configures mounting.
type Options struct {
	Theme  Theme
	Logger *log.Logger // defaults to log.Default()
}

func (o Options) logger() *log.Logger {
	if o.Logger != nil {
		return o.Logger
	}
	return log.Default()
}

// =============================================================================
// Container
// =============================================================================

// Container is a host-provided mount point. It owns the element tree of
// whatever is currently mounted and at most one live [Handle].
type Container struct {
	ID string

	root   *sink.Element
	handle *Handle
}

// NewContainer creates an empty container.
func NewContainer(id string) *Container {
	root := sink.El("div", sink.A("class", "archdeck-container"))
	if id != "" {
		root.Set("id", id)
	}
	return &Container{ID: id, root: root}
}

// Root returns the container element.
func (c *Container) Root() *sink.Element { return c.root }

// Handle returns the currently mounted handle, or nil.
func (c *Container) Handle() *Handle { return c.handle }

// Replace clears all prior content and attaches children.
func (c *Container) Replace(children ...*sink.Element) {
	c.root.Clear()
	c.root.Append(children...)
}

// Empty reports whether the container has no content.
func (c *Container) Empty() bool { return len(c.root.Children) == 0 }

// Render serializes the container content. A mounted scene carries the
// interaction script for the behaviors it enables.
func (c *Container) Render() []byte {
	var buf bytes.Buffer
	for _, child := range c.root.Children {
		if c.handle != nil && c.handle.scene != nil && child == c.handle.scene.svg {
			buf.Write(c.handle.scene.SVG())
			continue
		}
		buf.Write(sink.RenderFragment(child))
	}
	return buf.Bytes()
}

func (c *Container) arrowID() string {
	if c.ID == "" {
		return "arrowhead"
	}
	return "arrowhead-" + c.ID
}

// =============================================================================
// Handle
// =============================================================================

// State is the lifecycle state of a mounted diagram.
type State int

// Lifecycle states.
const (
	StateMounted State = iota
	StatePlaceholder
	StateFailed
	StateUnmounted
)

func (s State) String() string {
	switch s {
	case StateMounted:
		return "mounted"
	case StatePlaceholder:
		return "placeholder"
	case StateFailed:
		return "failed"
	default:
		return "unmounted"
	}
}

// Handle is one mounted instance. Mounting again on the same container
// unmounts the previous handle.
type Handle struct {
	container   *Container
	state       State
	scene       *Scene
	layout      *layout.Result
	diagnostics []diagram.Diagnostic
	err         error
}

// State returns the lifecycle state.
func (h *Handle) State() State { return h.state }

// Scene returns the interactive scene, or nil when nothing interactive is mounted.
func (h *Handle) Scene() *Scene { return h.scene }

// Layout returns the layout the scene was built from, or nil.
func (h *Handle) Layout() *layout.Result { return h.layout }

// Diagnostics returns the non-fatal conditions collected while mounting.
func (h *Handle) Diagnostics() []diagram.Diagnostic { return h.diagnostics }

// Err returns the failure that replaced the diagram with an error panel.
func (h *Handle) Err() error { return h.err }

// Container returns the container the handle was mounted on.
func (h *Handle) Container() *Container { return h.container }

// Unmount tears the instance down and clears its container.
// It is a no-op on a handle that is no longer current.
func (h *Handle) Unmount() {
	if h.state == StateUnmounted {
		return
	}
	h.state = StateUnmounted
	if h.scene != nil {
		h.scene.mounted = false
	}
	if h.container.handle == h {
		h.container.Replace()
		h.container.handle = nil
	}
}

func (h *Handle) placeholder() {
	h.state = StatePlaceholder
	h.container.Replace(sink.Panel("archdeck-empty", EdgeStroke, PlaceholderText))
}

func (h *Handle) fail(err error, opts Options) {
	h.state = StateFailed
	h.err = err
	if h.scene != nil {
		h.scene.mounted = false
		h.scene = nil
	}
	opts.logger().Error("render diagram", "container", h.container.ID, "err", err)
	h.container.Replace(sink.Panel("archdeck-error", "#ef4444", ErrorPrefix+errors.UserMessage(err)))
}

// guard runs fn and turns a panic into an error panel.
func (h *Handle) guard(opts Options, fn func() error) {
	defer func() {
		if r := recover(); r != nil {
			h.fail(errors.New(errors.ErrCodeRenderFailed, "%v", r), opts)
		}
	}()
	if err := fn(); err != nil {
		h.fail(err, opts)
	}
}

func begin(c *Container) *Handle {
	if c.handle != nil {
		c.handle.Unmount()
	}
	c.Replace()
	h := &Handle{container: c, state: StateMounted}
	c.handle = h
	return h
}

// =============================================================================
// Mounting
// =============================================================================

// Mount normalizes spec, lays it out and mounts the interactive scene.
//
// A spec without nodes mounts the placeholder and computes no layout.
// Failures never escape: they replace the diagram with an inline error
// panel and are reported through [Handle.Err].
func Mount(c *Container, spec *diagram.Spec, opts Options) *Handle {
	h := begin(c)
	h.guard(opts, func() error {
		g, err := diagram.Normalize(spec)
		if errors.Is(err, errors.ErrCodeEmptyGraph) {
			h.placeholder()
			return nil
		}
		if err != nil {
			return err
		}
		res := layout.Compute(g)
		return h.build(g, res, opts)
	})
	return h
}

// MountLayout mounts a scene from a graph and a precomputed layout.
func MountLayout(c *Container, g *diagram.Graph, res layout.Result, opts Options) *Handle {
	h := begin(c)
	h.guard(opts, func() error {
		if g == nil || len(g.Nodes) == 0 {
			h.placeholder()
			return nil
		}
		return h.build(g, res, opts)
	})
	return h
}

// MountStatic mounts a non-interactive element tree produced by build,
// with the same placeholder-free failure handling as [Mount].
func MountStatic(c *Container, opts Options, build func() (*sink.Element, error)) *Handle {
	h := begin(c)
	h.guard(opts, func() error {
		el, err := build()
		if err != nil {
			return err
		}
		if el == nil {
			return fmt.Errorf("renderer produced no content")
		}
		c.Replace(el)
		return nil
	})
	return h
}

func (h *Handle) build(g *diagram.Graph, res layout.Result, opts Options) error {
	h.layout = &res
	h.diagnostics = append(append([]diagram.Diagnostic(nil), g.Diagnostics...), res.Diagnostics...)
	logger := opts.logger()
	for _, d := range h.diagnostics {
		logger.Warn("diagram diagnostic", "container", h.container.ID, "code", d.Code, "msg", d.Message)
	}

	s := newScene(g, res, opts, h.container.arrowID())
	h.scene = s
	h.container.Replace(s.svg)
	return nil
}
