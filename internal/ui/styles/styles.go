// Package styles contains Lip Gloss style definitions.
package styles

import "github.com/charmbracelet/lipgloss"

var (
	// Semantic color names - Text hierarchy
	TextPrimaryColor   = lipgloss.AdaptiveColor{Light: "#1F1F1F", Dark: "#CCCCCC"} // Main/primary text
	TextSecondaryColor = lipgloss.AdaptiveColor{Light: "#555555", Dark: "#BBBBBB"} // Emails, timestamps
	TextMutedColor     = lipgloss.AdaptiveColor{Light: "#A0A0A0", Dark: "#696969"} // Hints, help text, scrollbar track

	// Semantic color names - Border
	BorderDefaultColor = lipgloss.AdaptiveColor{Light: "#A0A0A0", Dark: "#696969"}
	BorderFocusColor   = lipgloss.AdaptiveColor{Light: "#54A0FF", Dark: "#54A0FF"}

	// Semantic color names - Status
	StatusErrorColor = lipgloss.AdaptiveColor{Light: "#D20F39", Dark: "#FF8787"}

	// Commit ids (yellow, as git log prints them)
	CommitIDColor = lipgloss.AdaptiveColor{Light: "#B8860B", Dark: "#FECA57"}

	// Diff colors
	DiffAdditionColor     = lipgloss.AdaptiveColor{Light: "#2E7D32", Dark: "#73F59F"}
	DiffDeletionColor     = lipgloss.AdaptiveColor{Light: "#C62828", Dark: "#FF8787"}
	DiffHunkColor         = lipgloss.AdaptiveColor{Light: "#1E66F5", Dark: "#89B4FA"}
	DiffModificationColor = lipgloss.AdaptiveColor{Light: "#B8860B", Dark: "#FECA57"}
	DiffAdditionWordBg    = lipgloss.AdaptiveColor{Light: "#C8E6C9", Dark: "#1E4620"}
	DiffDeletionWordBg    = lipgloss.AdaptiveColor{Light: "#FFCDD2", Dark: "#5C1E1E"}

	// Banner and highlight backgrounds
	BannerFgColor    = lipgloss.AdaptiveColor{Light: "#FFFFFF", Dark: "#FFFFFF"}
	BannerBgColor    = lipgloss.AdaptiveColor{Light: "#707070", Dark: "#3A3A3A"}
	HighlightBgColor = lipgloss.AdaptiveColor{Light: "#D0D0D0", Dark: "#3A3A3A"}

	// Commit list
	CommitIDStyle    = lipgloss.NewStyle().Foreground(CommitIDColor)
	SelectedRowStyle = lipgloss.NewStyle().Bold(true).Underline(true)
	EmailStyle       = lipgloss.NewStyle().Foreground(TextSecondaryColor)
	TimeStyle        = lipgloss.NewStyle().Foreground(TextSecondaryColor)

	// Diff pane
	DiffAdditionStyle = lipgloss.NewStyle().Foreground(DiffAdditionColor)
	DiffDeletionStyle = lipgloss.NewStyle().Foreground(DiffDeletionColor)
	DiffHunkStyle     = lipgloss.NewStyle().Foreground(DiffHunkColor)
	DiffContextStyle  = lipgloss.NewStyle()
	DiffAddWordStyle  = lipgloss.NewStyle().Foreground(DiffAdditionColor).Background(DiffAdditionWordBg).Bold(true)
	DiffDelWordStyle  = lipgloss.NewStyle().Foreground(DiffDeletionColor).Background(DiffDeletionWordBg).Bold(true)
	BannerStyle       = lipgloss.NewStyle().Foreground(BannerFgColor).Background(BannerBgColor)
	LabelStyle        = lipgloss.NewStyle().Bold(true)

	// File list headers by change kind
	FileAddedStyle    = lipgloss.NewStyle().Foreground(DiffAdditionColor)
	FileDeletedStyle  = lipgloss.NewStyle().Foreground(DiffDeletionColor)
	FileModifiedStyle = lipgloss.NewStyle().Foreground(DiffModificationColor)
	HighlightStyle    = lipgloss.NewStyle().Bold(true).Background(HighlightBgColor)

	// Error display
	ErrorStyle = lipgloss.NewStyle().
			Foreground(StatusErrorColor).
			Bold(true)

	// Help line
	HelpStyle = lipgloss.NewStyle().Padding(0, 1)
)
