// Package navigation maps a scroll offset onto a sequence of blocks with
// known line counts. All functions are pure; lengths are block line counts
// in display order and offsets are line numbers from the top.
package navigation

// Ends returns the cumulative end line of each block.
func Ends(lengths []int) []int {
	ends := make([]int, len(lengths))
	total := 0
	for i, l := range lengths {
		total += l
		ends[i] = total
	}
	return ends
}

// Starts returns the first line of each block.
func Starts(lengths []int) []int {
	starts := make([]int, len(lengths))
	total := 0
	for i, l := range lengths {
		starts[i] = total
		total += l
	}
	return starts
}

// Total returns the number of lines across all blocks.
func Total(lengths []int) int {
	total := 0
	for _, l := range lengths {
		total += l
	}
	return total
}

// HighlightIndex returns the block containing offset, or -1 when offset is
// past all content.
func HighlightIndex(lengths []int, offset int) int {
	for i, end := range Ends(lengths) {
		if end > offset {
			return i
		}
	}
	return -1
}

// NextFileTarget returns the start of the block after the one containing
// offset. Inside the last block, or past the end, offset is returned unchanged.
func NextFileTarget(lengths []int, offset int) int {
	ends := Ends(lengths)
	for i, end := range ends {
		if offset < end && i != len(ends)-1 {
			return end
		}
	}
	return offset
}

// PrevFileTarget returns the start of the block containing offset, or the
// start of the previous block when offset already sits on a block start.
// Past the end it returns the start of the last block.
func PrevFileTarget(lengths []int, offset int) int {
	starts := Starts(lengths)
	i := -1
	for j, s := range starts {
		if offset >= s {
			i = j
		}
	}
	if i < 0 {
		return 0
	}
	// Empty blocks share their start with the next one; step over them.
	for i > 0 && starts[i] == starts[i-1] && offset == starts[i] {
		i--
	}
	switch {
	case offset > starts[i]:
		return starts[i]
	case i > 0:
		return starts[i-1]
	default:
		return 0
	}
}
