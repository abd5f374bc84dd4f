package history

import (
	"context"
	"errors"
	"fmt"

	"github.com/zjrosen/giv/internal/git"
)

var errFake = errors.New("fake backend failure")

// fakeBackend is an in-memory git.Backend that counts every call.
type fakeBackend struct {
	head      string
	commits   map[string]git.Commit
	pending   git.PendingChanges
	trees     map[string][]git.Change // keyed by "from..to"
	index     []git.Change
	worktree  []git.Change
	blobs     map[string]string
	objTypes  map[string]string // defaults to "blob"
	disk      map[string]string
	failOn    map[string]bool // method or "method:arg" names that return errFake
	callCount map[string]int // per method and per "method:arg"
}

func newFakeBackend() *fakeBackend {
	return &fakeBackend{
		commits:   map[string]git.Commit{},
		trees:     map[string][]git.Change{},
		blobs:     map[string]string{},
		objTypes:  map[string]string{},
		disk:      map[string]string{},
		failOn:    map[string]bool{},
		callCount: map[string]int{},
	}
}

var _ git.Backend = (*fakeBackend)(nil)

func (f *fakeBackend) call(method, arg string) error {
	f.callCount[method]++
	if arg != "" {
		f.callCount[method+":"+arg]++
	}
	if f.failOn[method] || f.failOn[method+":"+arg] {
		return fmt.Errorf("%s %s: %w", method, arg, errFake)
	}
	return nil
}

// addCommit registers a commit whose short id equals its id.
func (f *fakeBackend) addCommit(id string, time int64, title string, parents ...string) {
	f.commits[id] = git.Commit{
		ID:      id,
		ShortID: id,
		Parents: parents,
		Author:  git.Signature{Name: "Ann", Email: "ann@example.com", When: fmt.Sprintf("t%d", time)},
		Committer: git.Signature{
			Name: "Bob", Email: "bob@example.com", When: fmt.Sprintf("t%d", time),
		},
		Time:  time,
		Title: title,
	}
}

func (f *fakeBackend) setTree(from, to string, changes ...git.Change) {
	f.trees[from+".."+to] = changes
}

func (f *fakeBackend) Head(context.Context) (string, error) {
	if err := f.call("Head", ""); err != nil {
		return "", err
	}
	if f.head == "" {
		return "", fmt.Errorf("unborn HEAD: %w", git.ErrBadRevision)
	}
	return f.head, nil
}

func (f *fakeBackend) Commit(_ context.Context, id string) (git.Commit, error) {
	if err := f.call("Commit", id); err != nil {
		return git.Commit{}, err
	}
	c, ok := f.commits[id]
	if !ok {
		return git.Commit{}, fmt.Errorf("commit %s: %w", id, git.ErrObjectNotFound)
	}
	return c, nil
}

func (f *fakeBackend) PendingChanges(context.Context) (git.PendingChanges, error) {
	if err := f.call("PendingChanges", ""); err != nil {
		return git.PendingChanges{}, err
	}
	return f.pending, nil
}

func (f *fakeBackend) TreeChanges(_ context.Context, from, to string) ([]git.Change, error) {
	if err := f.call("TreeChanges", to); err != nil {
		return nil, err
	}
	return f.trees[from+".."+to], nil
}

func (f *fakeBackend) IndexChanges(context.Context) ([]git.Change, error) {
	if err := f.call("IndexChanges", ""); err != nil {
		return nil, err
	}
	return f.index, nil
}

func (f *fakeBackend) WorktreeChanges(context.Context) ([]git.Change, error) {
	if err := f.call("WorktreeChanges", ""); err != nil {
		return nil, err
	}
	return f.worktree, nil
}

func (f *fakeBackend) ObjectType(_ context.Context, id string) (string, error) {
	if err := f.call("ObjectType", id); err != nil {
		return "", err
	}
	if typ, ok := f.objTypes[id]; ok {
		return typ, nil
	}
	return "blob", nil
}

func (f *fakeBackend) ReadBlob(_ context.Context, id string) ([]byte, error) {
	if err := f.call("ReadBlob", id); err != nil {
		return nil, err
	}
	content, ok := f.blobs[id]
	if !ok {
		return nil, fmt.Errorf("blob %s: %w", id, git.ErrObjectNotFound)
	}
	return []byte(content), nil
}

func (f *fakeBackend) ReadWorktreeFile(_ context.Context, path string) ([]byte, error) {
	if err := f.call("ReadWorktreeFile", path); err != nil {
		return nil, err
	}
	content, ok := f.disk[path]
	if !ok {
		return nil, fmt.Errorf("open %s: no such file", path)
	}
	return []byte(content), nil
}

// chain builds a linear history c0 <- c1 <- ... <- c(n-1) with HEAD at the tip.
func (f *fakeBackend) chain(n int) []string {
	ids := make([]string, n)
	for i := range ids {
		ids[i] = fmt.Sprintf("c%d", i)
		var parents []string
		if i > 0 {
			parents = []string{ids[i-1]}
		}
		f.addCommit(ids[i], int64(1000+i), fmt.Sprintf("commit %d", i), parents...)
	}
	f.head = ids[n-1]
	return ids
}

func refIDs(window []CommitSummary) []string {
	out := make([]string, len(window))
	for i, s := range window {
		out[i] = s.Ref.String()
	}
	return out
}
