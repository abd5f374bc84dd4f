package testutil

import "testing"

// Builder accumulates repository operations and applies them in order.
type Builder struct {
	t     *testing.T
	steps []func(*Repo, *[]string)
}

// NewBuilder starts a repository description.
func NewBuilder(t *testing.T) *Builder {
	t.Helper()
	return &Builder{t: t}
}

// WithFile writes a file to the worktree.
func (b *Builder) WithFile(path, content string) *Builder {
	b.steps = append(b.steps, func(r *Repo, _ *[]string) { r.Write(path, content) })
	return b
}

// WithoutFile deletes a file from the worktree.
func (b *Builder) WithoutFile(path string) *Builder {
	b.steps = append(b.steps, func(r *Repo, _ *[]string) { r.Remove(path) })
	return b
}

// WithStaged adds paths to the index without committing.
func (b *Builder) WithStaged(paths ...string) *Builder {
	b.steps = append(b.steps, func(r *Repo, _ *[]string) { r.Stage(paths...) })
	return b
}

// WithCommit commits everything written so far.
func (b *Builder) WithCommit(msg string) *Builder {
	b.steps = append(b.steps, func(r *Repo, ids *[]string) { *ids = append(*ids, r.Commit(msg)) })
	return b
}

// Build creates the repository and returns it with the commit ids in
// creation order.
func (b *Builder) Build() (*Repo, []string) {
	b.t.Helper()
	r := NewRepo(b.t)
	var ids []string
	for _, step := range b.steps {
		step(r, &ids)
	}
	return r, ids
}
