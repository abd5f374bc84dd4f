// Package commitlog renders the history pane: three bordered columns
// (commit, author, date) that scroll together. Each visible cell is wrapped
// in a bubblezone mark so mouse clicks can be mapped back to a row.
package commitlog

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	zone "github.com/lrstanley/bubblezone"
	"github.com/muesli/reflow/truncate"

	"github.com/zjrosen/giv/internal/history"
	"github.com/zjrosen/giv/internal/ui/styles"
)

// Column titles
const (
	TitleCommits = "Commits"
	TitleAuthor  = "Author"
	TitleDate    = "Date"
	TitleError   = "Error"
)

const ellipsis = "…"

// column identifies one of the three panes.
type column int

const (
	colCommit column = iota
	colAuthor
	colDate
	numColumns
)

// Config is the pane geometry and the state it reflects.
type Config struct {
	Width    int // Outer width of all three columns together
	Height   int // Outer height including borders
	Offset   int // Index of the first visible entry
	Selected int
	Err      error // Window failure; replaces the list
}

// ColumnWidths splits width 2:1:1. Rounding slack goes to the commit column.
func ColumnWidths(width int) [3]int {
	if width <= 0 {
		return [3]int{}
	}
	quarter := width / 4
	return [3]int{width - 2*quarter, quarter, quarter}
}

// InnerHeight is the number of entry rows visible for an outer height.
func InnerHeight(height int) int {
	return max(height-2, 0)
}

// zoneID returns the bubblezone id of an entry's cell in a column.
func zoneID(col column, index int) string {
	return fmt.Sprintf("commitlog-%d-%d", col, index)
}

// Render draws the three columns side by side.
func Render(entries []history.CommitSummary, cfg Config) string {
	widths := ColumnWidths(cfg.Width)
	rows := InnerHeight(cfg.Height)

	if cfg.Err != nil {
		errLine := styles.ErrorStyle.Render(cfg.Err.Error())
		return lipgloss.JoinHorizontal(lipgloss.Top,
			pane([]string{errLine}, TitleError, widths[colCommit], cfg.Height),
			pane(nil, TitleAuthor, widths[colAuthor], cfg.Height),
			pane(nil, TitleDate, widths[colDate], cfg.Height),
		)
	}

	var cols [numColumns][]string
	for i := cfg.Offset; i < len(entries) && i < cfg.Offset+rows; i++ {
		if i < 0 {
			continue
		}
		selected := i == cfg.Selected
		for c := colCommit; c < numColumns; c++ {
			w := max(widths[c]-2, 0)
			cell := styles.FitLine(renderCell(entries[i], c, w, selected), w)
			cols[c] = append(cols[c], zone.Mark(zoneID(c, i), cell))
		}
	}

	return lipgloss.JoinHorizontal(lipgloss.Top,
		pane(cols[colCommit], TitleCommits, widths[colCommit], cfg.Height),
		pane(cols[colAuthor], TitleAuthor, widths[colAuthor], cfg.Height),
		pane(cols[colDate], TitleDate, widths[colDate], cfg.Height),
	)
}

func pane(lines []string, title string, width, height int) string {
	return styles.RenderPane(lines, styles.PaneConfig{Title: title, Width: width, Height: height})
}

// renderCell renders one entry's text for a column, truncated to width with a
// trailing ellipsis. Pseudo-revisions have no id and blank signature columns.
func renderCell(e history.CommitSummary, c column, width int, selected bool) string {
	style := func(s lipgloss.Style) lipgloss.Style {
		if selected {
			return s.Inherit(styles.SelectedRowStyle)
		}
		return s
	}
	plain := style(lipgloss.NewStyle())

	switch c {
	case colAuthor:
		if e.Ref.IsPseudo() {
			return ""
		}
		return style(styles.EmailStyle).Render(cut(e.Signature.String(), width))
	case colDate:
		if e.Ref.IsPseudo() {
			return ""
		}
		return style(styles.TimeStyle).Render(cut(e.Signature.When, width))
	}

	if e.Ref.IsPseudo() {
		return plain.Render(cut(e.Title, width))
	}
	id := e.Ref.ShortID
	if lipgloss.Width(id) >= width {
		return style(styles.CommitIDStyle).Render(cut(id, width))
	}
	rest := width - lipgloss.Width(id) - 1
	return style(styles.CommitIDStyle).Render(id) + plain.Render(" "+cut(e.Title, rest))
}

func cut(s string, width int) string {
	if width <= 0 {
		return ""
	}
	if lipgloss.Width(s) <= width {
		return s
	}
	return truncate.StringWithTail(s, uint(width), ellipsis)
}

// HitTest maps a mouse event onto the entry whose row it falls in. Only the
// visible rows starting at offset are considered.
func HitTest(msg tea.MouseMsg, offset, rows, count int) (int, bool) {
	for i := max(offset, 0); i < count && i < offset+rows; i++ {
		for c := colCommit; c < numColumns; c++ {
			if z := zone.Get(zoneID(c, i)); z != nil && z.InBounds(msg) {
				return i, true
			}
		}
	}
	return 0, false
}
