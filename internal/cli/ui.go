package cli

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/matzehuels/archdeck/pkg/diagram"
	"github.com/matzehuels/archdeck/pkg/diagram/scene"
)

// Terminal colors follow the diagram palette so CLI output and rendered
// diagrams read the same.
var (
	colorAccent = lipgloss.Color("#60a5fa") // service
	colorOK     = lipgloss.Color("#34d399") // database
	colorWarn   = lipgloss.Color("#fbbf24") // gateway
	colorFail   = lipgloss.Color("#ef4444")
	colorLink   = lipgloss.Color("#f472b6") // queue
	colorText   = lipgloss.Color("#e2e8f0")
	colorGray   = lipgloss.Color("#94a3b8")
	colorDim    = lipgloss.Color(scene.EdgeStroke)
)

// Shared styles.
var (
	StyleTitle     = lipgloss.NewStyle().Bold(true).Foreground(colorAccent)
	StyleHighlight = lipgloss.NewStyle().Foreground(colorAccent)
	StyleLink      = lipgloss.NewStyle().Foreground(colorLink).Underline(true)
	StyleDim       = lipgloss.NewStyle().Foreground(colorDim)
	StyleValue     = lipgloss.NewStyle().Foreground(colorText)
	StyleNumber    = lipgloss.NewStyle().Foreground(colorGray)
	StyleSuccess   = lipgloss.NewStyle().Foreground(colorOK)
	StyleWarning   = lipgloss.NewStyle().Foreground(colorWarn)
	StyleError     = lipgloss.NewStyle().Foreground(colorFail)
)

// Status line markers.
var (
	markOK   = StyleSuccess.Render("✓")
	markFail = StyleError.Render("✗")
	markWarn = StyleWarning.Render("!")
	markInfo = lipgloss.NewStyle().Foreground(colorGray).Render("›")
	markFile = StyleDim.Render("→")
)

// typeStyle colors text with the stroke of a node type's swatch.
func typeStyle(t diagram.NodeType) lipgloss.Style {
	return lipgloss.NewStyle().Foreground(lipgloss.Color(scene.NodeStyle(t, scene.ThemeDark).Stroke))
}

func status(mark, format string, args ...any) {
	fmt.Println(mark + " " + fmt.Sprintf(format, args...))
}

func printSuccess(format string, args ...any) { status(markOK, format, args...) }

func printFailure(format string, args ...any) { status(markFail, format, args...) }

func printInfo(format string, args ...any) { status(markInfo, format, args...) }

func printWarning(format string, args ...any) {
	fmt.Println(markWarn + " " + StyleWarning.Render(fmt.Sprintf(format, args...)))
}

// printDetail prints an indented, muted line.
func printDetail(format string, args ...any) {
	fmt.Println("  " + StyleDim.Render(fmt.Sprintf(format, args...)))
}

// printFile prints a written output path.
func printFile(path string) {
	fmt.Println("  " + markFile + " " + StyleValue.Render(path))
}

var keyStyle = lipgloss.NewStyle().Foreground(colorGray).Width(10)

func printKeyValue(key, value string) {
	fmt.Println(keyStyle.Render(key) + " " + StyleValue.Render(value))
}

// printStats prints "N nodes · M edges · cached|fresh" as one muted line.
func printStats(nodes, edges int, cached bool) {
	parts := []string{
		StyleDim.Render(fmt.Sprintf("%d nodes", nodes)),
		StyleDim.Render(fmt.Sprintf("%d edges", edges)),
	}
	if cached {
		parts = append(parts, StyleSuccess.Render("cached"))
	} else {
		parts = append(parts, StyleNumber.Render("fresh"))
	}
	fmt.Println("  " + strings.Join(parts, StyleDim.Render(" · ")))
}

// printNextStep suggests a follow-up command.
func printNextStep(what, cmd string) {
	fmt.Println(StyleDim.Render(what+":") + " " + lipgloss.NewStyle().Foreground(colorLink).Render(cmd))
}

func printNewline() { fmt.Println() }
