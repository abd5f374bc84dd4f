// Package history turns a repository into a browsable list of revisions and
// resolves the selected one into its description and diff.
//
// Both the Walker and the Resolver cache exactly one result and recompute
// synchronously on the caller's goroutine after an invalidation.
package history

import "github.com/zjrosen/giv/internal/git"

// RefKind distinguishes real commits from the pseudo-revisions.
type RefKind int

const (
	RefCommit RefKind = iota
	RefWorktree
	RefIndex
)

func (k RefKind) String() string {
	switch k {
	case RefWorktree:
		return "worktree"
	case RefIndex:
		return "index"
	default:
		return "commit"
	}
}

// RevisionRef identifies one history entry.
type RevisionRef struct {
	Kind    RefKind
	ID      string // Full commit id; empty for pseudo-revisions
	ShortID string // Display prefix; empty for pseudo-revisions
}

// WorktreeRef is the pseudo-revision for unstaged changes.
var WorktreeRef = RevisionRef{Kind: RefWorktree}

// IndexRef is the pseudo-revision for staged changes.
var IndexRef = RevisionRef{Kind: RefIndex}

// IsPseudo reports whether the ref is Worktree or Index.
func (r RevisionRef) IsPseudo() bool {
	return r.Kind != RefCommit
}

func (r RevisionRef) String() string {
	if r.IsPseudo() {
		return r.Kind.String()
	}
	return r.ShortID
}

// Signature is re-exported so consumers don't need the git package.
type Signature = git.Signature

// CommitSummary is one row of the history list.
type CommitSummary struct {
	Ref       RevisionRef
	Title     string
	Signature Signature
}

// Titles shown for the pseudo-revisions.
const (
	WorktreeTitle = "Uncommitted changes"
	IndexTitle    = "Staged changes"
)

// ChangeKind is the kind of change to a single path.
type ChangeKind int

const (
	Addition ChangeKind = iota
	Deletion
	Modification
	Rename
)

// Letter returns the one-letter code used in file headers.
func (k ChangeKind) Letter() string {
	switch k {
	case Addition:
		return "A"
	case Deletion:
		return "D"
	case Rename:
		return "R"
	default:
		return "M"
	}
}

// FileChange is the change to one path. DiffText is empty for pure
// deletions and for renames without content change.
type FileChange struct {
	Kind     ChangeKind
	Path     string
	OldPath  string // Set for Rename only
	DiffText string
}

// ErrorPath names the synthetic file entry that carries a diff failure.
const ErrorPath = "ERROR"

// Diff is a list of file changes sorted by path in byte order.
type Diff struct {
	Files []FileChange
}

// ParentSummary is a parent commit as shown in a commit description.
type ParentSummary struct {
	ID      string
	ShortID string
	Title   string
}

// RevisionDetail is the resolved content of the selected entry: one of
// *FullCommit, *WorktreeDiff, *IndexDiff or *DetailError.
type RevisionDetail interface {
	isRevisionDetail()
}

// FullCommit is a resolved real commit.
type FullCommit struct {
	ID        string
	ShortID   string
	Author    Signature
	Committer Signature
	Title     string
	Body      string
	Parents   []ParentSummary
	Diff      Diff
}

// WorktreeDiff is the worktree compared to the index.
type WorktreeDiff struct {
	Diff Diff
}

// IndexDiff is the index compared to HEAD.
type IndexDiff struct {
	Diff Diff
}

// DetailError replaces the whole detail when the commit itself could not be read.
type DetailError struct {
	Message string
}

func (*FullCommit) isRevisionDetail()   {}
func (*WorktreeDiff) isRevisionDetail() {}
func (*IndexDiff) isRevisionDetail()    {}
func (*DetailError) isRevisionDetail()  {}
