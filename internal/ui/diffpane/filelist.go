package diffpane

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/zjrosen/giv/internal/blocks"
	"github.com/zjrosen/giv/internal/ui/styles"
)

// RenderFileList draws the block headers in a bordered pane. The block at
// highlight (or none, when negative) is emphasized and kept in view.
func RenderFileList(bs []blocks.Block, highlight, width, height int) string {
	innerWidth := max(width-2, 0)
	rows := InnerHeight(height)

	start := 0
	if highlight >= rows && rows > 0 {
		start = highlight - rows + 1
	}

	lines := make([]string, 0, rows)
	for i := start; i < len(bs) && len(lines) < rows; i++ {
		style := headerStyle(bs[i].Kind)
		if i == highlight {
			style = style.Inherit(styles.HighlightStyle)
		}
		lines = append(lines, style.Render(styles.TruncateString(bs[i].Header, innerWidth)))
	}

	return styles.RenderPane(lines, styles.PaneConfig{Title: TitleFiles, Width: width, Height: height})
}

func headerStyle(k blocks.HeaderKind) lipgloss.Style {
	switch k {
	case blocks.HeaderAddition:
		return styles.FileAddedStyle
	case blocks.HeaderDeletion:
		return styles.FileDeletedStyle
	case blocks.HeaderModification, blocks.HeaderRename:
		return styles.FileModifiedStyle
	default:
		return lipgloss.NewStyle()
	}
}
