// Package diffpane renders the projected blocks of the selected revision:
// the scrollable diff text with its scrollbar, and the file list beside it.
package diffpane

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/zjrosen/giv/internal/blocks"
	"github.com/zjrosen/giv/internal/history"
	"github.com/zjrosen/giv/internal/ui/scrollbar"
	"github.com/zjrosen/giv/internal/ui/styles"
)

// Pane titles
const (
	TitleDiff  = "Diff"
	TitleError = "Error"
	TitleFiles = "Files"
)

const tabWidth = 4

// Config is the text pane geometry and scroll position.
type Config struct {
	Width  int // Outer width including borders
	Height int // Outer height including borders
	Offset int // First visible body row
	Title  string
}

// Widths splits the diff area 3:1 between the text pane and the file list.
func Widths(width int) (text, files int) {
	files = max(width, 0) / 4
	return max(width, 0) - files, files
}

// InnerHeight is the number of body rows visible for an outer height.
func InnerHeight(height int) int {
	return max(height-2, 0)
}

// Title names the text pane after the revision it shows.
func Title(detail history.RevisionDetail) string {
	switch d := detail.(type) {
	case nil:
		return TitleDiff
	case *history.FullCommit:
		return "Commit " + d.ID
	case *history.WorktreeDiff, *history.IndexDiff:
		return TitleDiff
	case *history.DetailError:
		return TitleError
	default:
		panic(fmt.Sprintf("diffpane: unknown revision detail %T", detail))
	}
}

// Render draws the visible rows of the flattened blocks starting at
// cfg.Offset. Rows are cut at the pane width so each body line occupies
// exactly one screen row; the rightmost inner column holds the scrollbar.
func Render(bs []blocks.Block, cfg Config) string {
	innerWidth := max(cfg.Width-2, 0)
	rows := InnerHeight(cfg.Height)
	textWidth := max(innerWidth-1, 0)

	lines := blocks.Flatten(bs)
	from := max(cfg.Offset, 0)
	to := min(from+rows, len(lines))

	bar := scrollbar.Render(scrollbar.Config{
		TotalLines:     len(lines),
		ViewportHeight: rows,
		ScrollOffset:   from,
	})

	var segs map[int][]segment
	if from < to {
		segs = emphasis(lines, from, to)
	}

	out := make([]string, rows)
	for r := 0; r < rows; r++ {
		var text string
		if i := from + r; i < to {
			text = renderLine(lines[i], segs[i])
		}
		cell := " "
		if r < len(bar) {
			cell = bar[r]
		}
		out[r] = styles.FitLine(text, textWidth) + cell
	}

	return styles.RenderPane(out, styles.PaneConfig{
		Title:  cfg.Title,
		Width:  cfg.Width,
		Height: cfg.Height,
	})
}

// renderLine styles one body row by kind. Segments, when present, replace
// the plain rendering of an added or removed line.
func renderLine(l blocks.Line, segs []segment) string {
	text := expandTabs(l.Text)

	switch l.Kind {
	case blocks.LineLabel:
		return styles.LabelStyle.Render(l.Label) + text
	case blocks.LineBanner, blocks.LineRenamed:
		return styles.BannerStyle.Render(text)
	case blocks.LineAdded:
		if len(segs) > 0 {
			return styles.DiffAdditionStyle.Render("+") + renderSegments(segs, styles.DiffAdditionStyle, styles.DiffAddWordStyle)
		}
		return styles.DiffAdditionStyle.Render(text)
	case blocks.LineRemoved:
		if len(segs) > 0 {
			return styles.DiffDeletionStyle.Render("-") + renderSegments(segs, styles.DiffDeletionStyle, styles.DiffDelWordStyle)
		}
		return styles.DiffDeletionStyle.Render(text)
	case blocks.LineHunk:
		return styles.DiffHunkStyle.Render(text)
	case blocks.LineContext:
		return styles.DiffContextStyle.Render(text)
	default:
		return text
	}
}

func renderSegments(segs []segment, unchanged, changed lipgloss.Style) string {
	var sb strings.Builder
	for _, s := range segs {
		text := expandTabs(s.Text)
		if s.Type == segmentUnchanged {
			sb.WriteString(unchanged.Render(text))
		} else {
			sb.WriteString(changed.Render(text))
		}
	}
	return sb.String()
}

// expandTabs replaces tabs with spaces; the terminal would otherwise advance
// to the next tab stop and break the column layout.
func expandTabs(s string) string {
	return strings.ReplaceAll(s, "\t", strings.Repeat(" ", tabWidth))
}
