package history

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/zjrosen/giv/internal/git"
	"github.com/zjrosen/giv/internal/log"
	"github.com/zjrosen/giv/internal/tracing"
)

// Option configures a Walker or Resolver.
type Option func(*options)

type options struct {
	tracer trace.Tracer
}

// WithTracer records window and resolve calls as spans.
func WithTracer(t trace.Tracer) Option {
	return func(o *options) {
		o.tracer = t
	}
}

func buildOptions(opts []Option) options {
	o := options{tracer: tracing.NoopTracer()}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// Walker produces the recency-ordered history window: pending-change
// pseudo-revisions first, then commits reachable from HEAD.
//
// The window is memoized by size. A request no larger than the cached size
// returns the cached list as is; a larger one recomputes from scratch.
// Pending-change presence is cached separately and only cleared by Invalidate.
type Walker struct {
	backend git.Backend
	tracer  trace.Tracer

	window     []CommitSummary
	windowSize int
	hasWindow  bool

	pending    git.PendingChanges
	hasPending bool

	generation uint64
}

// NewWalker creates a Walker over backend.
func NewWalker(backend git.Backend, opts ...Option) *Walker {
	o := buildOptions(opts)
	return &Walker{
		backend: backend,
		tracer:  o.tracer,
	}
}

// Generation changes whenever the window list may have changed, either by
// recomputation or by Invalidate.
func (w *Walker) Generation() uint64 {
	return w.generation
}

// Invalidate drops the cached window and the cached pending-change presence.
func (w *Walker) Invalidate() {
	w.window = nil
	w.windowSize = 0
	w.hasWindow = false
	w.hasPending = false
	w.generation++
	log.Debug(log.CatHistory, "window invalidated", "generation", w.generation)
}

// Window returns at most size commits, preceded by the Worktree and Index
// pseudo-revisions when those have pending changes. On any backend failure
// it returns a *BackendError and no partial result.
func (w *Walker) Window(ctx context.Context, size int) (_ []CommitSummary, err error) {
	ctx, span := tracing.Start(ctx, w.tracer, tracing.SpanWindow,
		attribute.Int(tracing.AttrWindowSize, size))
	defer func() { tracing.End(span, err) }()

	if w.hasWindow && size <= w.windowSize {
		span.SetAttributes(
			attribute.Bool(tracing.AttrWindowCached, true),
			attribute.Int(tracing.AttrWindowLength, len(w.window)),
		)
		return w.window, nil
	}

	window, err := w.compute(ctx, size)
	if err != nil {
		log.ErrorErr(log.CatHistory, "window computation failed", err, "size", size)
		return nil, err
	}

	w.window = window
	w.windowSize = size
	w.hasWindow = true
	w.generation++

	span.SetAttributes(
		attribute.Bool(tracing.AttrWindowCached, false),
		attribute.Int(tracing.AttrWindowLength, len(window)),
		attribute.Int64(tracing.AttrGeneration, int64(w.generation)),
	)
	log.Debug(log.CatHistory, "window computed", "size", size, "entries", len(window))
	return window, nil
}

func (w *Walker) compute(ctx context.Context, size int) ([]CommitSummary, error) {
	pending, err := w.pendingChanges(ctx)
	if err != nil {
		return nil, err
	}

	var out []CommitSummary
	if pending.Worktree {
		out = append(out, CommitSummary{Ref: WorktreeRef, Title: WorktreeTitle})
	}
	if pending.Index {
		out = append(out, CommitSummary{Ref: IndexRef, Title: IndexTitle})
	}
	if size <= 0 {
		return out, nil
	}

	head, err := w.backend.Head(ctx)
	if err != nil {
		return nil, backendErr("resolve HEAD", err)
	}
	headCommit, err := w.backend.Commit(ctx, head)
	if err != nil {
		return nil, backendErr("read commit "+head, err)
	}

	seen := map[string]struct{}{head: {}}
	var queue frontier
	queue.push(headCommit)

	emitted := 0
	for queue.Len() > 0 && emitted < size {
		c := queue.pop()
		out = append(out, summarize(c))
		emitted++

		for _, parent := range c.Parents {
			if _, ok := seen[parent]; ok {
				continue
			}
			seen[parent] = struct{}{}
			pc, err := w.backend.Commit(ctx, parent)
			if err != nil {
				return nil, backendErr("read commit "+parent, err)
			}
			queue.push(pc)
		}
	}
	return out, nil
}

func (w *Walker) pendingChanges(ctx context.Context) (git.PendingChanges, error) {
	if w.hasPending {
		return w.pending, nil
	}
	pending, err := w.backend.PendingChanges(ctx)
	if err != nil {
		return git.PendingChanges{}, backendErr("query pending changes", err)
	}
	w.pending = pending
	w.hasPending = true
	return pending, nil
}

func summarize(c git.Commit) CommitSummary {
	return CommitSummary{
		Ref:       RevisionRef{Kind: RefCommit, ID: c.ID, ShortID: c.ShortID},
		Title:     c.Title,
		Signature: c.Author,
	}
}
