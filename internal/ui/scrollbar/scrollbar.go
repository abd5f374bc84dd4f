// Package scrollbar renders the one-column scroll position indicator drawn
// beside the diff pane.
package scrollbar

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/zjrosen/giv/internal/ui/styles"
)

// Scrollbar characters
const (
	thumbChar = '█' // Full block
	trackChar = '░' // Light shade
)

// Config configures scrollbar rendering.
type Config struct {
	// Dimensions
	TotalLines     int // Total lines in content
	ViewportHeight int // Visible lines in viewport
	ScrollOffset   int // Current scroll position (top line)

	// Style configuration
	TrackChar string // Track character (default: "░")
	ThumbChar string // Thumb character (default: "█")
}

// DefaultConfig returns default configuration.
func DefaultConfig() Config {
	return Config{
		TrackChar: string(trackChar),
		ThumbChar: string(thumbChar),
	}
}

// thumbBounds returns the start row and height of the scroll thumb.
// Formula: thumbHeight = max(1, viewportHeight * viewportHeight / totalLines)
// Position: start = scrollOffset * (viewportHeight - thumbHeight) / maxOffset
func thumbBounds(cfg Config) (start, height int) {
	if cfg.TotalLines <= 0 || cfg.ViewportHeight <= 0 {
		return 0, 0
	}

	// If content fits in viewport, thumb fills entire track
	if cfg.TotalLines <= cfg.ViewportHeight {
		return 0, cfg.ViewportHeight
	}

	height = max(1, cfg.ViewportHeight*cfg.ViewportHeight/cfg.TotalLines)

	maxOffset := cfg.TotalLines - cfg.ViewportHeight
	scrollableTrack := cfg.ViewportHeight - height
	if scrollableTrack <= 0 {
		return 0, height
	}

	// The diff pane lets the last line scroll to the top, so offsets past
	// maxOffset pin the thumb to the bottom.
	offset := max(0, min(cfg.ScrollOffset, maxOffset))
	start = scrollableTrack * offset / maxOffset

	return max(0, min(start, cfg.ViewportHeight-height)), height
}

// Render returns one cell per viewport row. When the content fits the
// viewport every row is a space; invalid dimensions yield nil.
func Render(cfg Config) []string {
	if cfg.ViewportHeight <= 0 || cfg.TotalLines <= 0 {
		return nil
	}

	rows := make([]string, cfg.ViewportHeight)

	if cfg.TotalLines <= cfg.ViewportHeight {
		for i := range rows {
			rows[i] = " "
		}
		return rows
	}

	thumbStart, thumbHeight := thumbBounds(cfg)

	trackStyle := lipgloss.NewStyle().Foreground(styles.TextMutedColor)
	thumbStyle := lipgloss.NewStyle().Foreground(styles.TextSecondaryColor)

	track := cfg.TrackChar
	if track == "" {
		track = string(trackChar)
	}
	thumb := cfg.ThumbChar
	if thumb == "" {
		thumb = string(thumbChar)
	}

	for row := 0; row < cfg.ViewportHeight; row++ {
		if row >= thumbStart && row < thumbStart+thumbHeight {
			rows[row] = thumbStyle.Render(thumb)
		} else {
			rows[row] = trackStyle.Render(track)
		}
	}

	return rows
}
