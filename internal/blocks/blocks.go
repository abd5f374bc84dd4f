// Package blocks projects a resolved revision into the ordered list of
// blocks drawn in the diff pane: an optional description block followed by
// one block per changed file. Block line counts drive scroll navigation, so
// every Line here is exactly one screen row.
package blocks

import (
	"fmt"
	"strings"

	"github.com/mattn/go-runewidth"

	"github.com/zjrosen/giv/internal/history"
)

// LineKind selects how a body line is styled.
type LineKind int

const (
	LinePlain   LineKind = iota
	LineLabel            // Bold label followed by plain text (description fields)
	LineBanner           // Dashed path banner at the top of a file block
	LineRenamed          // "Renamed from:" marker
	LineAdded
	LineRemoved
	LineHunk
	LineContext
)

// Line is one body row.
type Line struct {
	Kind  LineKind
	Label string // Only for LineLabel
	Text  string
}

// String returns the row's plain text.
func (l Line) String() string {
	return l.Label + l.Text
}

// HeaderKind selects how a block header is styled in the file list.
type HeaderKind int

const (
	HeaderDescription HeaderKind = iota
	HeaderAddition
	HeaderDeletion
	HeaderModification
	HeaderRename
)

// Block is one navigable unit of the diff pane.
type Block struct {
	Header string
	Kind   HeaderKind
	Lines  []Line
}

// DescriptionHeader is the header of the commit description block.
const DescriptionHeader = "Description"

// bannerWidth is the column width path banners are padded to.
const bannerWidth = 80

// Project builds the blocks for detail. A nil detail yields no blocks.
func Project(detail history.RevisionDetail) []Block {
	switch d := detail.(type) {
	case nil:
		return nil
	case *history.FullCommit:
		return append([]Block{description(d)}, fileBlocks(d.Diff)...)
	case *history.WorktreeDiff:
		return fileBlocks(d.Diff)
	case *history.IndexDiff:
		return fileBlocks(d.Diff)
	case *history.DetailError:
		return fileBlocks(history.Diff{Files: []history.FileChange{{
			Kind:     history.Modification,
			Path:     history.ErrorPath,
			DiffText: "Error: " + d.Message,
		}}})
	default:
		panic(fmt.Sprintf("blocks: unknown revision detail %T", detail))
	}
}

// Lengths returns the line count of each block.
func Lengths(blocks []Block) []int {
	out := make([]int, len(blocks))
	for i, b := range blocks {
		out[i] = len(b.Lines)
	}
	return out
}

// Headers returns the header of each block.
func Headers(blocks []Block) []string {
	out := make([]string, len(blocks))
	for i, b := range blocks {
		out[i] = b.Header
	}
	return out
}

// Flatten concatenates the bodies of all blocks.
func Flatten(blocks []Block) []Line {
	var n int
	for _, b := range blocks {
		n += len(b.Lines)
	}
	out := make([]Line, 0, n)
	for _, b := range blocks {
		out = append(out, b.Lines...)
	}
	return out
}

func description(c *history.FullCommit) Block {
	parents := make([]string, len(c.Parents))
	for i, p := range c.Parents {
		parents[i] = p.ShortID + " " + p.Title
	}

	lines := []Line{
		{Kind: LineLabel, Label: "Author: ", Text: c.Author.WithTime()},
		{Kind: LineLabel, Label: "Committer: ", Text: c.Committer.WithTime()},
		{Kind: LineLabel, Label: "Parents: ", Text: strings.Join(parents, ", ")},
		{Kind: LinePlain},
		{Kind: LinePlain, Text: c.Title},
		{Kind: LinePlain},
	}
	for _, l := range splitLines(c.Body) {
		lines = append(lines, Line{Kind: LinePlain, Text: l})
	}
	lines = append(lines, Line{Kind: LinePlain})

	return Block{Header: DescriptionHeader, Kind: HeaderDescription, Lines: lines}
}

func fileBlocks(d history.Diff) []Block {
	out := make([]Block, 0, len(d.Files))
	for _, f := range d.Files {
		if f.Kind != history.Rename && strings.TrimSpace(f.DiffText) == "" {
			continue
		}
		out = append(out, fileBlock(f))
	}
	return out
}

func fileBlock(f history.FileChange) Block {
	lines := []Line{{Kind: LineBanner, Text: DashWrap(f.Path)}}
	if f.Kind == history.Rename {
		lines = append(lines, Line{Kind: LineRenamed, Text: "Renamed from: " + f.OldPath})
	}
	for _, l := range splitLines(f.DiffText) {
		lines = append(lines, Line{Kind: classify(l), Text: l})
	}
	lines = append(lines, Line{Kind: LinePlain})

	return Block{
		Header: f.Kind.Letter() + " " + f.Path,
		Kind:   headerKind(f.Kind),
		Lines:  lines,
	}
}

func headerKind(k history.ChangeKind) HeaderKind {
	switch k {
	case history.Addition:
		return HeaderAddition
	case history.Deletion:
		return HeaderDeletion
	case history.Rename:
		return HeaderRename
	default:
		return HeaderModification
	}
}

func classify(line string) LineKind {
	switch {
	case strings.HasPrefix(line, "+"):
		return LineAdded
	case strings.HasPrefix(line, "-"):
		return LineRemoved
	case strings.HasPrefix(line, "@@"):
		return LineHunk
	default:
		return LineContext
	}
}

// DashWrap centers s between runs of dashes so the result spans 80 columns,
// e.g. "---- main.go ----". Wider strings get no dashes.
func DashWrap(s string) string {
	padding := max(bannerWidth-runewidth.StringWidth(s), 0)
	left := padding / 2
	right := padding - left
	return strings.Repeat("-", left) + " " + s + " " + strings.Repeat("-", right)
}

// splitLines splits text into lines without terminators. Empty text has no
// lines; a trailing newline does not start another one.
func splitLines(text string) []string {
	if text == "" {
		return nil
	}
	lines := strings.Split(strings.TrimSuffix(text, "\n"), "\n")
	for i, l := range lines {
		lines[i] = strings.TrimSuffix(l, "\r")
	}
	return lines
}
