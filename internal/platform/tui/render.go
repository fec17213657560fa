package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/wavekit/internal/core"
)

// colorStyles maps core.Color to lipgloss styles.
var colorStyles = map[core.Color]lipgloss.Style{
	core.ColorDefault:  lipgloss.NewStyle(),
	core.ColorLane:     lipgloss.NewStyle().Foreground(lipgloss.Color("240")),
	core.ColorDefender: lipgloss.NewStyle().Foreground(lipgloss.Color("14")).Bold(true),
	core.ColorHealthy:  lipgloss.NewStyle().Foreground(lipgloss.Color("10")),
	core.ColorWounded:  lipgloss.NewStyle().Foreground(lipgloss.Color("11")),
	core.ColorCritical: lipgloss.NewStyle().Foreground(lipgloss.Color("9")),
	core.ColorLoot:     lipgloss.NewStyle().Foreground(lipgloss.Color("208")),
	core.ColorMuted:    lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
	core.ColorAccent:   lipgloss.NewStyle().Foreground(lipgloss.Color("229")).Bold(true),
}

// RenderCanvas converts a Canvas to a styled string for display.
// Groups adjacent cells with the same color to minimize ANSI escape sequences.
func RenderCanvas(c *core.Canvas) string {
	var sb strings.Builder
	sb.Grow(c.Width()*c.Height()*2 + c.Height())

	for y := range c.Height() {
		if y > 0 {
			sb.WriteRune('\n')
		}

		x := 0
		for x < c.Width() {
			startColor := c.GetCell(x, y).Color

			var run strings.Builder
			for x < c.Width() {
				cell := c.GetCell(x, y)
				if cell.Color != startColor {
					break
				}
				run.WriteRune(cell.Rune)
				x++
			}

			style, ok := colorStyles[startColor]
			if !ok {
				style = colorStyles[core.ColorDefault]
			}
			sb.WriteString(style.Render(run.String()))
		}
	}
	return sb.String()
}

// centerText centers text within given width.
func centerText(text string, width int) string {
	w := lipgloss.Width(text)
	if w >= width {
		return text
	}
	return strings.Repeat(" ", (width-w)/2) + text
}
