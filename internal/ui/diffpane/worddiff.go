package diffpane

import (
	"context"
	"strings"
	"time"
	"unicode"

	"github.com/sergi/go-diff/diffmatchpatch"

	"github.com/zjrosen/giv/internal/blocks"
)

// Word diff bounds.
const (
	// WordDiffMaxLineLength skips word diff for lines exceeding this length.
	WordDiffMaxLineLength = 500
	// WordDiffMaxPairs limits word diff computation per rendered frame.
	WordDiffMaxPairs = 100
	// WordDiffTimeout is the maximum time spent on word diff per frame.
	WordDiffTimeout = 50 * time.Millisecond
)

type segmentType int

const (
	segmentUnchanged segmentType = iota
	segmentAdded
	segmentDeleted
)

// segment is a run of line content with its diff status.
type segment struct {
	Type segmentType
	Text string
}

// tokenize splits a line into words, single punctuation runes and single
// whitespace runes. Example: "foo.bar()" → ["foo", ".", "bar", "(", ")"]
func tokenize(line string) []string {
	if line == "" {
		return nil
	}

	var tokens []string
	var current strings.Builder
	flush := func() {
		if current.Len() > 0 {
			tokens = append(tokens, current.String())
			current.Reset()
		}
	}

	for _, r := range line {
		if unicode.IsSpace(r) || unicode.IsPunct(r) || unicode.IsSymbol(r) {
			flush()
			tokens = append(tokens, string(r))
			continue
		}
		current.WriteRune(r)
	}
	flush()

	return tokens
}

// wordDiff diffs two line contents token by token and returns the segments
// of the old and the new line.
func wordDiff(oldLine, newLine string) (oldSegs, newSegs []segment) {
	switch {
	case oldLine == "" && newLine == "":
		return nil, nil
	case oldLine == "":
		return nil, []segment{{Type: segmentAdded, Text: newLine}}
	case newLine == "":
		return []segment{{Type: segmentDeleted, Text: oldLine}}, nil
	}

	// Tokens are joined with NUL separators, which are dropped again below.
	dmp := diffmatchpatch.New()
	oldText := strings.Join(tokenize(oldLine), "\x00")
	newText := strings.Join(tokenize(newLine), "\x00")

	diffs := dmp.DiffMain(oldText, newText, false)
	diffs = dmp.DiffCleanupSemantic(diffs)

	for _, d := range diffs {
		text := strings.ReplaceAll(d.Text, "\x00", "")
		if text == "" {
			continue
		}
		switch d.Type {
		case diffmatchpatch.DiffEqual:
			oldSegs = append(oldSegs, segment{Type: segmentUnchanged, Text: text})
			newSegs = append(newSegs, segment{Type: segmentUnchanged, Text: text})
		case diffmatchpatch.DiffDelete:
			oldSegs = append(oldSegs, segment{Type: segmentDeleted, Text: text})
		case diffmatchpatch.DiffInsert:
			newSegs = append(newSegs, segment{Type: segmentAdded, Text: text})
		}
	}
	return oldSegs, newSegs
}

// emphasis computes word segments for removed/added line pairs that touch
// the row range [from, to) of lines. A pair is a removed line immediately
// followed by an added line; the leading +/- is not part of the content.
// The result maps row index to segments.
func emphasis(lines []blocks.Line, from, to int) map[int][]segment {
	out := make(map[int][]segment)

	ctx, cancel := context.WithTimeout(context.Background(), WordDiffTimeout)
	defer cancel()

	pairs := 0
	for i := max(from-1, 0); i < to && i+1 < len(lines); i++ {
		if lines[i].Kind != blocks.LineRemoved || lines[i+1].Kind != blocks.LineAdded {
			continue
		}
		if pairs >= WordDiffMaxPairs || ctx.Err() != nil {
			break
		}

		oldLine, newLine := lines[i].Text[1:], lines[i+1].Text[1:]
		if len(oldLine) <= WordDiffMaxLineLength && len(newLine) <= WordDiffMaxLineLength {
			out[i], out[i+1] = wordDiff(oldLine, newLine)
			pairs++
		}
		i++ // The added line is consumed by this pair.
	}
	return out
}
