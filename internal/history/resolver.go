package history

import (
	"context"
	"fmt"
	"sort"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/zjrosen/giv/internal/git"
	"github.com/zjrosen/giv/internal/log"
	"github.com/zjrosen/giv/internal/tracing"
)

// Resolver turns the selected window entry into a RevisionDetail and keeps
// the last result in a single slot keyed by (index, walker generation).
type Resolver struct {
	backend git.Backend
	walker  *Walker
	tracer  trace.Tracer

	slot *resolvedSlot
}

type resolvedSlot struct {
	index      int
	generation uint64
	detail     RevisionDetail
}

// NewResolver creates a Resolver reading entries from walker.
func NewResolver(backend git.Backend, walker *Walker, opts ...Option) *Resolver {
	o := buildOptions(opts)
	return &Resolver{
		backend: backend,
		walker:  walker,
		tracer:  o.tracer,
	}
}

// Invalidate discards the cached detail.
func (r *Resolver) Invalidate() {
	r.slot = nil
}

// Resolve returns the detail of entry index in the window of the given size.
// It returns (nil, nil) when index lies outside the window. The only error
// it returns is the walker's *BackendError; failures specific to the entry
// are reported inside the detail.
func (r *Resolver) Resolve(ctx context.Context, index, windowSize int) (_ RevisionDetail, err error) {
	ctx, span := tracing.Start(ctx, r.tracer, tracing.SpanResolve,
		attribute.Int(tracing.AttrIndex, index))
	defer func() { tracing.End(span, err) }()

	window, err := r.walker.Window(ctx, windowSize)
	if err != nil {
		return nil, err
	}
	generation := r.walker.Generation()

	if s := r.slot; s != nil && s.index == index && s.generation == generation {
		span.SetAttributes(attribute.Bool(tracing.AttrResolveHit, true))
		return s.detail, nil
	}
	span.SetAttributes(attribute.Bool(tracing.AttrResolveHit, false))

	if index < 0 || index >= len(window) {
		r.slot = nil
		return nil, nil
	}

	entry := window[index]
	span.SetAttributes(
		attribute.String(tracing.AttrRefKind, entry.Ref.Kind.String()),
		attribute.String(tracing.AttrRevision, entry.Ref.String()),
	)
	log.Debug(log.CatHistory, "resolving entry", "index", index, "ref", entry.Ref.String())

	var detail RevisionDetail
	switch entry.Ref.Kind {
	case RefWorktree:
		detail = &WorktreeDiff{Diff: r.worktreeDiff(ctx)}
	case RefIndex:
		detail = &IndexDiff{Diff: r.indexDiff(ctx)}
	case RefCommit:
		detail = r.commitDetail(ctx, entry.Ref.ID)
	default:
		panic(fmt.Sprintf("unknown ref kind %d", entry.Ref.Kind))
	}

	if d := diffOf(detail); d != nil {
		span.SetAttributes(attribute.Int(tracing.AttrFileCount, len(d.Files)))
	}
	r.slot = &resolvedSlot{index: index, generation: generation, detail: detail}
	return detail, nil
}

func (r *Resolver) commitDetail(ctx context.Context, id string) RevisionDetail {
	c, err := r.backend.Commit(ctx, id)
	if err != nil {
		log.ErrorErr(log.CatHistory, "commit resolution failed", err, "id", id)
		return &DetailError{Message: backendErr("read commit "+id, err).Error()}
	}

	parents := make([]ParentSummary, 0, len(c.Parents))
	for _, pid := range c.Parents {
		p, err := r.backend.Commit(ctx, pid)
		if err != nil {
			log.ErrorErr(log.CatHistory, "parent resolution failed", err, "id", id, "parent", pid)
			return &DetailError{Message: backendErr("read parent "+pid, err).Error()}
		}
		parents = append(parents, ParentSummary{ID: p.ID, ShortID: p.ShortID, Title: p.Title})
	}

	full := &FullCommit{
		ID:        c.ID,
		ShortID:   c.ShortID,
		Author:    c.Author,
		Committer: c.Committer,
		Title:     c.Title,
		Body:      c.Body,
		Parents:   parents,
	}
	if len(c.Parents) == 0 {
		return full
	}

	files, err := r.treeFiles(ctx, c.Parents[0], c.ID)
	if err != nil {
		full.Diff = errorDiff(err)
		return full
	}
	full.Diff = sortedDiff(files)
	return full
}

func (r *Resolver) treeFiles(ctx context.Context, from, to string) ([]FileChange, error) {
	changes, err := r.backend.TreeChanges(ctx, from, to)
	if err != nil {
		return nil, backendErr("diff "+from+".."+to, err)
	}
	return r.objectFiles(ctx, changes)
}

func (r *Resolver) indexDiff(ctx context.Context) Diff {
	changes, err := r.backend.IndexChanges(ctx)
	if err != nil {
		return errorDiff(backendErr("diff index", err))
	}
	files, err := r.objectFiles(ctx, changes)
	if err != nil {
		return errorDiff(err)
	}
	return sortedDiff(files)
}

// objectFiles builds file changes whose both sides live in the object store.
func (r *Resolver) objectFiles(ctx context.Context, changes []git.Change) ([]FileChange, error) {
	files := make([]FileChange, 0, len(changes))
	for _, ch := range changes {
		fc := newFileChange(ch)
		if fc.Kind != Deletion && !ch.IsGitlink() {
			text, err := r.objectDiff(ctx, ch, fc.Kind)
			if err != nil {
				return nil, err
			}
			fc.DiffText = text
		}
		files = append(files, fc)
	}
	return files, nil
}

func (r *Resolver) objectDiff(ctx context.Context, ch git.Change, kind ChangeKind) (string, error) {
	typ, err := r.backend.ObjectType(ctx, ch.NewID)
	if err != nil {
		return "", backendErr("inspect "+ch.Path, err)
	}
	if typ != "blob" {
		return "", nil
	}
	newContent, err := r.backend.ReadBlob(ctx, ch.NewID)
	if err != nil {
		return "", backendErr("read "+ch.Path, err)
	}
	var oldContent []byte
	if kind != Addition && !git.IsZeroID(ch.OldID) {
		if oldContent, err = r.backend.ReadBlob(ctx, ch.OldID); err != nil {
			return "", backendErr("read "+oldPathOf(ch), err)
		}
	}
	return unified(ch.Path, oldContent, newContent)
}

func (r *Resolver) worktreeDiff(ctx context.Context) Diff {
	changes, err := r.backend.WorktreeChanges(ctx)
	if err != nil {
		return errorDiff(backendErr("diff worktree", err))
	}

	files := make([]FileChange, 0, len(changes))
	for _, ch := range changes {
		fc := newFileChange(ch)
		if fc.Kind != Deletion && !ch.IsGitlink() {
			text, err := r.worktreeFileDiff(ctx, ch, fc.Kind)
			if err != nil {
				return errorDiff(err)
			}
			fc.DiffText = text
		}
		files = append(files, fc)
	}
	return sortedDiff(files)
}

func (r *Resolver) worktreeFileDiff(ctx context.Context, ch git.Change, kind ChangeKind) (string, error) {
	onDisk, err := r.backend.ReadWorktreeFile(ctx, ch.Path)
	if err != nil {
		return "", backendErr("read "+ch.Path, err)
	}
	var staged []byte
	if kind != Addition && !git.IsZeroID(ch.OldID) {
		if staged, err = r.backend.ReadBlob(ctx, ch.OldID); err != nil {
			return "", backendErr("read "+ch.Path, err)
		}
	}
	return unified(ch.Path, staged, onDisk)
}

func unified(path string, old, new []byte) (string, error) {
	text, err := git.UnifiedDiff(old, new, git.DefaultContextLines)
	if err != nil {
		return "", backendErr("diff "+path, err)
	}
	return text, nil
}

func newFileChange(ch git.Change) FileChange {
	fc := FileChange{Path: ch.Path}
	switch ch.Status {
	case git.StatusAdded, git.StatusCopied:
		fc.Kind = Addition
	case git.StatusDeleted:
		fc.Kind = Deletion
	case git.StatusRenamed:
		fc.Kind = Rename
		fc.OldPath = ch.OldPath
	default:
		fc.Kind = Modification
	}
	return fc
}

func oldPathOf(ch git.Change) string {
	if ch.OldPath != "" {
		return ch.OldPath
	}
	return ch.Path
}

// errorDiff is the single-entry diff that stands in for a failed diff.
func errorDiff(err error) Diff {
	log.ErrorErr(log.CatHistory, "diff failed, showing error entry", err)
	return Diff{Files: []FileChange{{
		Kind:     Deletion,
		Path:     ErrorPath,
		DiffText: "error: " + err.Error(),
	}}}
}

func sortedDiff(files []FileChange) Diff {
	sort.SliceStable(files, func(i, j int) bool {
		return files[i].Path < files[j].Path
	})
	return Diff{Files: files}
}

func diffOf(detail RevisionDetail) *Diff {
	switch d := detail.(type) {
	case *FullCommit:
		return &d.Diff
	case *WorktreeDiff:
		return &d.Diff
	case *IndexDiff:
		return &d.Diff
	case *DetailError:
		return nil
	default:
		panic(fmt.Sprintf("unknown revision detail %T", detail))
	}
}
