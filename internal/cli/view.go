package cli

import (
	"context"
	"fmt"
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/matzehuels/archdeck/pkg/diagram"
	"github.com/matzehuels/archdeck/pkg/diagram/scene"
)

const (
	viewHeaderRows = 2
	viewFooterRows = 1
	panStep        = 20.0
	zoomStep       = 1.2
	wheelStep      = 1.1
)

// viewCommand creates the interactive terminal viewer command.
func (c *CLI) viewCommand() *cobra.Command {
	var (
		specFormat string
		theme      string
	)

	cmd := &cobra.Command{
		Use:   "view [spec]",
		Short: "Explore a diagram interactively in the terminal",
		Long: `Explore a diagram interactively in the terminal.

Drag nodes with the mouse, hover a node to highlight its edges, zoom with the
scroll wheel or +/- and pan with the arrow keys. Press r to reset the view and
q to quit.`,
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: specArgs,
		RunE:              func(cmd *cobra.Command, args []string) error {
			return c.runView(cmd.Context(), args[0], specFormat, theme)
		},
	}

	cmd.Flags().StringVar(&specFormat, "spec-format", "", "spec format: json or toml (default: from extension)")
	cmd.Flags().StringVar(&theme, "theme", string(scene.ThemeDark), "color theme: dark, light")

	return cmd
}

func (c *CLI) runView(ctx context.Context, input, specFormat, theme string) error {
	src, format, err := readSpec(input, specFormat)
	if err != nil {
		return err
	}
	spec, err := diagram.Parse(src, format)
	if err != nil {
		return fmt.Errorf("parse %s: %w", input, err)
	}

	logger := loggerFromContext(ctx)
	h := scene.Mount(scene.NewContainer("view"), spec, scene.Options{Theme: scene.ParseTheme(theme), Logger: logger})
	switch h.State() {
	case scene.StatePlaceholder:
		printInfo(scene.PlaceholderText)
		return nil
	case scene.StateFailed:
		return fmt.Errorf("render %s: %w", input, h.Err())
	}

	m := newViewModel(h.Scene(), input, h.Diagnostics())
	p := tea.NewProgram(m, tea.WithContext(ctx), tea.WithAltScreen(), tea.WithMouseAllMotion(), tea.WithOutput(os.Stderr))
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("viewer: %w", err)
	}
	return nil
}

// =============================================================================
// viewModel - bubbletea model around a mounted scene
// =============================================================================

// viewModel drives a scene from terminal input. The scene is mutated in
// place, so the model is only ever used from the bubbletea update loop.
type viewModel struct {
	scene       *scene.Scene
	title       string
	diagnostics []diagram.Diagnostic

	width, height int

	dragID     string
	dragOffset diagram.Point
}

func newViewModel(s *scene.Scene, title string, diags []diagram.Diagnostic) *viewModel {
	return &viewModel{scene: s, title: title, diagnostics: diags, width: 80, height: 24}
}

func (m *viewModel) Init() tea.Cmd { return nil }

func (m *viewModel) canvas() *canvas {
	w, h := m.scene.Size()
	return newCanvas(m.width, m.height-viewHeaderRows-viewFooterRows, w, h)
}

// scenePoint maps a terminal cell to scene coordinates.
func (m *viewModel) scenePoint(x, y int) diagram.Point {
	p := m.canvas().toScreen(x, y-viewHeaderRows)
	return m.scene.ToScene(p.X, p.Y)
}

func (m *viewModel) center() diagram.Point {
	w, h := m.scene.Size()
	return diagram.Point{X: w / 2, Y: h / 2}
}

func (m *viewModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
	case tea.KeyMsg:
		return m, m.key(msg.String())
	case tea.MouseMsg:
		m.mouse(msg)
	}
	return m, nil
}

func (m *viewModel) key(k string) tea.Cmd {
	c := m.center()
	switch k {
	case "q", "ctrl+c", "esc":
		return tea.Quit
	case "up", "k":
		m.scene.Pan(0, panStep)
	case "down", "j":
		m.scene.Pan(0, -panStep)
	case "left", "h":
		m.scene.Pan(panStep, 0)
	case "right", "l":
		m.scene.Pan(-panStep, 0)
	case "+", "=":
		m.scene.Zoom(zoomStep, c.X, c.Y)
	case "-", "_":
		m.scene.Zoom(1/zoomStep, c.X, c.Y)
	case "r":
		m.scene.ResetView()
	}
	return nil
}

func (m *viewModel) mouse(msg tea.MouseMsg) {
	p := m.scenePoint(msg.X, msg.Y)

	switch {
	case msg.Button == tea.MouseButtonWheelUp:
		s := m.canvas().toScreen(msg.X, msg.Y-viewHeaderRows)
		m.scene.Zoom(wheelStep, s.X, s.Y)

	case msg.Button == tea.MouseButtonWheelDown:
		s := m.canvas().toScreen(msg.X, msg.Y-viewHeaderRows)
		m.scene.Zoom(1/wheelStep, s.X, s.Y)

	case msg.Action == tea.MouseActionPress && msg.Button == tea.MouseButtonLeft:
		id, ok := m.scene.NodeAt(p.X, p.Y)
		if !ok || !m.scene.DragStart(id) {
			return
		}
		pos, _ := m.scene.Position(id)
		m.dragID = id
		m.dragOffset = diagram.Point{X: pos.X - p.X, Y: pos.Y - p.Y}

	case msg.Action == tea.MouseActionMotion && m.dragID != "":
		m.scene.Drag(m.dragID, p.X+m.dragOffset.X, p.Y+m.dragOffset.Y)

	case msg.Action == tea.MouseActionRelease:
		if m.dragID != "" {
			m.scene.DragEnd()
			m.dragID = ""
		}

	case msg.Action == tea.MouseActionMotion:
		m.hover(p)
	}
}

func (m *viewModel) hover(p diagram.Point) {
	id, ok := m.scene.NodeAt(p.X, p.Y)
	switch {
	case ok && id != m.scene.Hovered():
		m.scene.HoverEnter(id)
	case !ok && m.scene.Hovered() != "":
		m.scene.HoverLeave()
	}
}

func (m *viewModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render(m.title))
	t := m.scene.Transform()
	b.WriteString(StyleDim.Render(fmt.Sprintf("  %d nodes · %d edges · zoom %.0f%%",
		len(m.scene.Nodes()), len(m.scene.Edges()), t.K*100)))
	if n := len(m.diagnostics); n > 0 {
		b.WriteString("  " + StyleWarning.Render(fmt.Sprintf("%d warnings", n)))
	}
	b.WriteString("\n\n")

	c := m.canvas()
	c.drawScene(m.scene)
	b.WriteString(c.render())
	b.WriteString("\n")

	status := "drag: move  hover: highlight  wheel/+/-: zoom  arrows: pan  r: reset  q: quit"
	if id := m.scene.Dragging(); id != "" {
		pos, _ := m.scene.Position(id)
		b.WriteString(StyleSuccess.Render(fmt.Sprintf("moving %s to (%.0f, %.0f)", id, pos.X, pos.Y)))
		return b.String()
	}
	if id := m.scene.Hovered(); id != "" {
		if pos, ok := m.scene.Position(id); ok {
			status = fmt.Sprintf("%s @ (%.0f, %.0f)", id, pos.X, pos.Y)
		}
	}
	b.WriteString(StyleDim.Render(status))
	return b.String()
}
