package styles

import (
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"github.com/stretchr/testify/require"
)

func TestTruncateString(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		maxWidth int
		expected string
	}{
		{"fits", "short", 10, "short"},
		{"exact", "exact", 5, "exact"},
		{"truncated", "this is long", 8, "this ..."},
		{"tiny", "abcdef", 3, "..."},
		{"two", "abcdef", 2, ".."},
		{"zero", "abc", 0, ""},
		{"wide runes", "日本語テキスト", 9, "日本語..."},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.expected, TruncateString(tt.input, tt.maxWidth))
		})
	}
}

func TestFitLine(t *testing.T) {
	require.Equal(t, "ab  ", FitLine("ab", 4))
	require.Equal(t, "abcd", FitLine("abcdef", 4))
	require.Equal(t, "", FitLine("abc", 0))
	require.Equal(t, "日本", FitLine("日本語", 5)[:6])
	require.Equal(t, 5, lipgloss.Width(FitLine("日本語", 5)))

	styled := lipgloss.NewStyle().Underline(true).Render("underlined")
	got := FitLine(styled, 5)
	require.Equal(t, "under", ansi.Strip(got))
	require.Equal(t, 5, lipgloss.Width(got))
}
