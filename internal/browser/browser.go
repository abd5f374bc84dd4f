// Package browser holds the view state of the history browser and applies
// input commands to it. It owns the walker and resolver caches and decides
// when they are invalidated; rendering reads the results through accessors.
package browser

import (
	"context"

	"github.com/zjrosen/giv/internal/blocks"
	"github.com/zjrosen/giv/internal/git"
	"github.com/zjrosen/giv/internal/history"
	"github.com/zjrosen/giv/internal/log"
	"github.com/zjrosen/giv/internal/navigation"
)

// State is the user-controlled position in the history and the diff.
type State struct {
	Selection     int // Window index of the selected entry; unbounded above
	CommitsOffset int // First visible row of the history pane
	DiffOffset    int // First visible row of the diff pane
	LogRows       int // Visible rows of the history pane
	DiffRows      int // Visible rows of the diff pane
}

// Browser applies commands to State and keeps the derived data current.
type Browser struct {
	backend  git.Backend
	walker   *history.Walker
	resolver *history.Resolver

	state     State
	requested int // Window size the caches were last sized for

	window    []history.CommitSummary
	windowErr error
	detail    history.RevisionDetail
	blocks    []blocks.Block
}

// New creates a browser over backend.
func New(backend git.Backend, opts ...history.Option) *Browser {
	walker := history.NewWalker(backend, opts...)
	return &Browser{
		backend:   backend,
		walker:    walker,
		resolver:  history.NewResolver(backend, walker, opts...),
		requested: -1,
	}
}

// State returns a copy of the current view state.
func (b *Browser) State() State { return b.state }

// Window returns the entries computed by the last Sync.
func (b *Browser) Window() []history.CommitSummary { return b.window }

// WindowErr returns the failure of the last window computation, if any.
func (b *Browser) WindowErr() error { return b.windowErr }

// Detail returns the resolved selection, or nil when nothing is selected.
func (b *Browser) Detail() history.RevisionDetail { return b.detail }

// Blocks returns the projection of Detail.
func (b *Browser) Blocks() []blocks.Block { return b.blocks }

// Highlight returns the index of the block at the top of the diff pane, or
// -1 when the diff is scrolled past its end.
func (b *Browser) Highlight() int {
	return navigation.HighlightIndex(blocks.Lengths(b.blocks), b.state.DiffOffset)
}

// DesiredWindow is the number of commits needed to fill the history pane at
// its current scroll position.
func (b *Browser) DesiredWindow() int {
	return b.state.LogRows + b.state.CommitsOffset
}

// Resize records new pane heights. Selection stays within the visible band.
func (b *Browser) Resize(logRows, diffRows int) {
	b.state.LogRows = max(logRows, 0)
	b.state.DiffRows = max(diffRows, 0)
	b.ensureSelectionVisible()
	b.settle()
}

// MoveSelection moves the selection by delta entries, clamped at zero.
func (b *Browser) MoveSelection(delta int) {
	b.Select(b.state.Selection + delta)
}

// Select moves the selection to index, clamped at zero.
func (b *Browser) Select(index int) {
	index = max(0, index)
	if index != b.state.Selection {
		b.state.DiffOffset = 0
	}
	b.state.Selection = index
	b.resolver.Invalidate()
	b.ensureSelectionVisible()
	b.settle()
}

// PageDown moves the selection one history page down.
func (b *Browser) PageDown() { b.MoveSelection(b.state.LogRows) }

// PageUp moves the selection one history page up.
func (b *Browser) PageUp() { b.MoveSelection(-b.state.LogRows) }

// ScrollDiff moves the diff viewport by delta rows, clamped at zero.
func (b *Browser) ScrollDiff(delta int) {
	b.state.DiffOffset = max(0, b.state.DiffOffset+delta)
}

// HalfPageDown scrolls the diff by half its visible height.
func (b *Browser) HalfPageDown() { b.ScrollDiff(b.halfPage()) }

// HalfPageUp scrolls the diff back by half its visible height.
func (b *Browser) HalfPageUp() { b.ScrollDiff(-b.halfPage()) }

func (b *Browser) halfPage() int {
	return max(b.state.DiffRows/2, 1)
}

// NextFile scrolls the diff to the start of the next block.
func (b *Browser) NextFile() {
	b.state.DiffOffset = navigation.NextFileTarget(blocks.Lengths(b.blocks), b.state.DiffOffset)
}

// PrevFile scrolls the diff to the start of the current or previous block.
func (b *Browser) PrevFile() {
	b.state.DiffOffset = navigation.PrevFileTarget(blocks.Lengths(b.blocks), b.state.DiffOffset)
}

// Refresh discards every cached result, including whatever the backend
// keeps, so the next Sync reads the repository again.
func (b *Browser) Refresh(ctx context.Context) {
	log.Debug(log.CatHistory, "refresh requested")
	if f, ok := b.backend.(git.CacheFlusher); ok {
		if err := f.FlushCache(ctx); err != nil {
			log.ErrorErr(log.CatCache, "Failed to flush backend cache", err)
		}
	}
	b.walker.Invalidate()
	b.resolver.Invalidate()
}

// Sync recomputes the window and the selected detail from the caches,
// querying the backend for whatever was invalidated. A window failure
// clears the detail and is reported through WindowErr.
func (b *Browser) Sync(ctx context.Context) {
	b.settle()

	window, err := b.walker.Window(ctx, b.requested)
	if err != nil {
		log.ErrorErr(log.CatHistory, "window failed", err, "size", b.requested)
		b.window, b.windowErr, b.detail, b.blocks = nil, err, nil, nil
		return
	}
	b.window, b.windowErr = window, nil

	detail, err := b.resolver.Resolve(ctx, b.state.Selection, b.requested)
	if err != nil {
		log.ErrorErr(log.CatHistory, "resolve failed", err, "index", b.state.Selection)
		b.window, b.windowErr, b.detail, b.blocks = nil, err, nil, nil
		return
	}
	b.detail = detail
	b.blocks = blocks.Project(detail)
}

// ensureSelectionVisible scrolls the history pane by the least amount that
// brings the selection back into view.
func (b *Browser) ensureSelectionVisible() {
	s := &b.state
	switch {
	case s.Selection < s.CommitsOffset:
		s.CommitsOffset = s.Selection
	case s.LogRows > 0 && s.Selection >= s.CommitsOffset+s.LogRows:
		s.CommitsOffset = s.Selection - s.LogRows + 1
	}
}

// settle invalidates both caches when the window size needed by the
// current state differs from the one they were computed for.
func (b *Browser) settle() {
	desired := b.DesiredWindow()
	if desired == b.requested {
		return
	}
	log.Debug(log.CatHistory, "window size changed", "from", b.requested, "to", desired)
	b.requested = desired
	b.walker.Invalidate()
	b.resolver.Invalidate()
}
