package cli

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"

	"github.com/matzehuels/forcegraph/pkg/pipeline"
)

// stdout receives all user-facing output. Tests swap it for a buffer.
var stdout io.Writer = os.Stdout

var (
	colorTeal  = lipgloss.Color("36")
	colorGreen = lipgloss.Color("35")
	colorAmber = lipgloss.Color("220")
	colorRed   = lipgloss.Color("167")
	colorBlue  = lipgloss.Color("75")
	colorGray  = lipgloss.Color("245")
	colorDim   = lipgloss.Color("240")
)

// Exported styles are shared with the watch view.
var (
	StyleTitle     = lipgloss.NewStyle().Bold(true).Foreground(colorTeal)
	StyleHighlight = lipgloss.NewStyle().Foreground(colorTeal)
	StyleDim       = lipgloss.NewStyle().Foreground(colorDim)
	StyleSuccess   = lipgloss.NewStyle().Foreground(colorGreen)
	StyleWarning   = lipgloss.NewStyle().Foreground(colorAmber)
)

var (
	styleIconSuccess = lipgloss.NewStyle().Foreground(colorGreen)
	styleIconError   = lipgloss.NewStyle().Foreground(colorRed)
	styleIconInfo    = lipgloss.NewStyle().Foreground(colorGray)
	styleIconSpinner = lipgloss.NewStyle().Foreground(colorTeal)
	styleCommand     = lipgloss.NewStyle().Foreground(colorBlue)
	stylePath        = lipgloss.NewStyle().Foreground(lipgloss.Color("255"))
)

func writeLine(s string) { fmt.Fprintln(stdout, s) }

func printSuccess(format string, args ...any) {
	writeLine(styleIconSuccess.Render("✓") + " " + fmt.Sprintf(format, args...))
}

func printError(format string, args ...any) {
	writeLine(styleIconError.Render("✗") + " " + fmt.Sprintf(format, args...))
}

func printInfo(format string, args ...any) {
	writeLine(styleIconInfo.Render("›") + " " + fmt.Sprintf(format, args...))
}

func printDetail(format string, args ...any) {
	writeLine("  " + StyleDim.Render(fmt.Sprintf(format, args...)))
}

func printFile(path string) {
	writeLine("  " + StyleDim.Render("→") + " " + stylePath.Render(path))
}

func printNewline() { writeLine("") }

func printNextStep(description, cmd string) {
	writeLine(StyleDim.Render(description+":") + " " + styleCommand.Render(cmd))
}

// formatStats renders layout statistics as one dim line, e.g.
//
//	12 nodes · 18 edges · 2 components · 240 iterations · 410×380 · fresh
//
// An unconverged run is marked "(cap)".
func formatStats(s pipeline.Stats, cached bool) string {
	parts := []string{
		fmt.Sprintf("%d nodes", s.Nodes),
		fmt.Sprintf("%d edges", s.Edges),
	}
	if s.Components > 1 {
		parts = append(parts, fmt.Sprintf("%d components", s.Components))
	}
	iters := fmt.Sprintf("%d iterations", s.Iterations)
	if !s.Converged {
		iters += " (cap)"
	}
	parts = append(parts, iters)
	if s.Extent.X > 0 || s.Extent.Y > 0 {
		parts = append(parts, fmt.Sprintf("%.0f×%.0f", s.Extent.X, s.Extent.Y))
	}

	source := styleIconInfo.Render("fresh")
	if cached {
		source = StyleSuccess.Render("cached")
	}
	sep := StyleDim.Render(" · ")
	for i, p := range parts {
		parts[i] = StyleDim.Render(p)
	}
	return "  " + strings.Join(parts, sep) + sep + source
}

func printStats(s pipeline.Stats, cached bool) {
	writeLine(formatStats(s, cached))
}

// printTrace plots the total force per iteration. Histories shorter than two
// points have nothing to plot.
func printTrace(history []float64, width int) {
	if len(history) < 2 {
		return
	}
	writeLine(asciigraph.Plot(history,
		asciigraph.Height(10),
		asciigraph.Width(width),
		asciigraph.Caption("total force per iteration"),
	))
}
