package styles

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Border characters (rounded)
const (
	borderTopLeft     = "╭"
	borderTopRight    = "╮"
	borderBottomLeft  = "╰"
	borderBottomRight = "╯"
	borderHorizontal  = "─"
	borderVertical    = "│"
)

// PaneConfig describes one bordered pane.
type PaneConfig struct {
	Title   string
	Width   int // Outer width including borders
	Height  int // Outer height including borders
	Focused bool
}

// InnerSize returns the content area of a pane with the given outer size.
func InnerSize(width, height int) (int, int) {
	return max(width-2, 0), max(height-2, 0)
}

// RenderPane draws lines inside a rounded border with the title embedded in
// the top edge: ╭─ Title ─────╮. Lines are truncated, never wrapped, and
// padded so the right border aligns. Missing lines are blank; extra lines
// are dropped.
func RenderPane(lines []string, cfg PaneConfig) string {
	if cfg.Width < 2 || cfg.Height < 2 {
		return ""
	}

	var borderColor lipgloss.TerminalColor = BorderDefaultColor
	if cfg.Focused {
		borderColor = BorderFocusColor
	}
	borderStyle := lipgloss.NewStyle().Foreground(borderColor)
	titleStyle := lipgloss.NewStyle().Foreground(TextPrimaryColor).Bold(true)

	innerWidth, innerHeight := InnerSize(cfg.Width, cfg.Height)

	rows := make([]string, 0, cfg.Height)
	rows = append(rows, buildTopBorder(cfg.Title, innerWidth, borderStyle, titleStyle))
	side := borderStyle.Render(borderVertical)
	for i := 0; i < innerHeight; i++ {
		var line string
		if i < len(lines) {
			line = lines[i]
		}
		rows = append(rows, side+FitLine(line, innerWidth)+side)
	}
	rows = append(rows, borderStyle.Render(borderBottomLeft+strings.Repeat(borderHorizontal, innerWidth)+borderBottomRight))

	return strings.Join(rows, "\n")
}

// buildTopBorder creates the top border with embedded title.
func buildTopBorder(title string, innerWidth int, borderStyle, titleStyle lipgloss.Style) string {
	if innerWidth < 1 {
		return borderStyle.Render(borderTopLeft + borderTopRight)
	}

	// "─ " before and " ─" after need at least 4 cells.
	if title == "" || innerWidth < 4 {
		return borderStyle.Render(borderTopLeft + strings.Repeat(borderHorizontal, innerWidth) + borderTopRight)
	}

	displayTitle := TruncateString(title, innerWidth-4)

	// Inner: "─ " (2) + title + " " (1) + dashes = innerWidth
	remainingWidth := max(innerWidth-3-lipgloss.Width(displayTitle), 0)

	return borderStyle.Render(borderTopLeft+borderHorizontal+" ") +
		titleStyle.Render(displayTitle) +
		borderStyle.Render(" "+strings.Repeat(borderHorizontal, remainingWidth)+borderTopRight)
}
