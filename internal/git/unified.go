package git

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/go-enry/go-enry/v2"
	"github.com/pmezard/go-difflib/difflib"
)

// DefaultContextLines is the number of unchanged lines kept around each hunk.
const DefaultContextLines = 3

// BinaryNotice replaces the diff text when either side is binary.
const BinaryNotice = "Binary files differ\n"

// UnifiedDiff returns the hunks of a unified diff from old to new, without
// the ---/+++ file header lines. Identical inputs produce an empty string.
func UnifiedDiff(old, new []byte, context int) (text string, err error) {
	if bytes.Equal(old, new) {
		return "", nil
	}
	if enry.IsBinary(old) || enry.IsBinary(new) {
		return BinaryNotice, nil
	}

	// The matcher panics on some pathological inputs.
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("line diff failed: %v", r)
		}
	}()

	return difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
		A:       splitLines(old),
		B:       splitLines(new),
		Context: context,
	})
}

// splitLines splits content into newline terminated lines. A missing final
// newline is added; empty content has no lines at all.
func splitLines(data []byte) []string {
	if len(data) == 0 {
		return nil
	}
	lines := strings.SplitAfter(string(data), "\n")
	if last := len(lines) - 1; lines[last] == "" {
		return lines[:last]
	}
	lines[len(lines)-1] += "\n"
	return lines
}
