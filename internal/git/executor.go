// Package git is the version control backend for giv. It answers read-only
// queries about a repository by running git plumbing commands.
package git

import (
	"context"
	"strings"
)

// Signature identifies who authored or committed a change and when.
type Signature struct {
	Name  string
	Email string
	When  string // ISO-8601, e.g. "2026-01-06 10:45:00 +0100"
}

// String formats the signature as "Name <email>".
func (s Signature) String() string {
	return s.Name + " <" + s.Email + ">"
}

// WithTime formats the signature as "Name <email> When".
func (s Signature) WithTime() string {
	return s.String() + " " + s.When
}

// Commit holds the metadata of a single commit.
type Commit struct {
	ID        string   // Full object id
	ShortID   string   // Abbreviated id as git prints it
	Parents   []string // Full parent ids in recorded order
	Author    Signature
	Committer Signature
	Time      int64 // Committer time, unix seconds
	Title     string
	Body      string
}

// PendingChanges reports which kinds of uncommitted state exist.
type PendingChanges struct {
	Worktree bool // Unstaged modifications or untracked files
	Index    bool // Staged changes not yet committed
}

// ChangeStatus is the kind of change git reports for a path.
type ChangeStatus byte

const (
	StatusAdded       ChangeStatus = 'A'
	StatusDeleted     ChangeStatus = 'D'
	StatusModified    ChangeStatus = 'M'
	StatusRenamed     ChangeStatus = 'R'
	StatusCopied      ChangeStatus = 'C'
	StatusTypeChanged ChangeStatus = 'T'
	StatusUnmerged    ChangeStatus = 'U'
)

// ModeGitlink is the tree entry mode of a submodule commit.
const ModeGitlink = "160000"

// ZeroID is the object id git uses for "no object" and for unhashed
// worktree content.
const ZeroID = "0000000000000000000000000000000000000000"

// IsZeroID reports whether id names no object.
func IsZeroID(id string) bool {
	return id == "" || strings.Trim(id, "0") == ""
}

// Change is one entry of a raw diff between two trees, the index, or the worktree.
type Change struct {
	Status  ChangeStatus
	Path    string // Destination path
	OldPath string // Source path for renames and copies
	OldMode string
	NewMode string
	OldID   string
	NewID   string // ZeroID for worktree content
}

// IsGitlink reports whether the new side of the change is a submodule.
func (c Change) IsGitlink() bool {
	return c.NewMode == ModeGitlink
}

// Backend defines the read-only repository queries giv needs.
// This abstraction allows for easy testing with fake implementations.
type Backend interface {
	// Head returns the full id of the commit HEAD points at.
	Head(ctx context.Context) (string, error)
	// Commit returns the metadata of the commit with the given full id.
	Commit(ctx context.Context, id string) (Commit, error)
	// PendingChanges reports whether the worktree and the index differ
	// from their baselines.
	PendingChanges(ctx context.Context) (PendingChanges, error)

	// TreeChanges lists the changes between the trees of two commits,
	// with rename detection.
	TreeChanges(ctx context.Context, from, to string) ([]Change, error)
	// IndexChanges lists the changes staged in the index relative to HEAD.
	IndexChanges(ctx context.Context) ([]Change, error)
	// WorktreeChanges lists the changes in the worktree relative to the
	// index, untracked files included as additions.
	WorktreeChanges(ctx context.Context) ([]Change, error)

	// ObjectType returns the type of an object ("blob", "tree", "commit").
	ObjectType(ctx context.Context, id string) (string, error)
	// ReadBlob returns the content of a blob.
	ReadBlob(ctx context.Context, id string) ([]byte, error)
	// ReadWorktreeFile returns the on-disk content of a tracked path.
	ReadWorktreeFile(ctx context.Context, path string) ([]byte, error)
}

// CacheFlusher is implemented by backends that keep repository data
// between queries.
type CacheFlusher interface {
	FlushCache(ctx context.Context) error
}
