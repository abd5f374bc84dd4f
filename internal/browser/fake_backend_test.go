package browser

import (
	"context"
	"errors"
	"fmt"

	"github.com/zjrosen/giv/internal/git"
)

var errFake = errors.New("fake backend failure")

// fakeRepo is a linear in-memory history c0 <- c1 <- ... where commit i
// rewrites a.txt and, for every other commit, adds n<i>.txt.
type fakeRepo struct {
	n         int
	pending   git.PendingChanges
	failHead  bool
	failFlush bool
	callCount map[string]int
}

func newFakeRepo(n int) *fakeRepo {
	return &fakeRepo{n: n, callCount: map[string]int{}}
}

var (
	_ git.Backend      = (*fakeRepo)(nil)
	_ git.CacheFlusher = (*fakeRepo)(nil)
)

func id(i int) string { return fmt.Sprintf("c%d", i) }

func (f *fakeRepo) Head(context.Context) (string, error) {
	f.callCount["Head"]++
	if f.failHead {
		return "", errFake
	}
	return id(f.n - 1), nil
}

func (f *fakeRepo) Commit(_ context.Context, cid string) (git.Commit, error) {
	f.callCount["Commit"]++
	var i int
	if _, err := fmt.Sscanf(cid, "c%d", &i); err != nil || i < 0 || i >= f.n {
		return git.Commit{}, fmt.Errorf("commit %s: %w", cid, git.ErrObjectNotFound)
	}
	sig := git.Signature{Name: "Ann", Email: "ann@example.com", When: fmt.Sprintf("2024-01-%02d 12:00:00 +0000", i+1)}
	c := git.Commit{
		ID:        cid,
		ShortID:   cid,
		Author:    sig,
		Committer: sig,
		Time:      int64(1000 + i),
		Title:     fmt.Sprintf("commit %d", i),
	}
	if i > 0 {
		c.Parents = []string{id(i - 1)}
	}
	return c, nil
}

func (f *fakeRepo) PendingChanges(context.Context) (git.PendingChanges, error) {
	f.callCount["PendingChanges"]++
	return f.pending, nil
}

func (f *fakeRepo) TreeChanges(_ context.Context, from, to string) ([]git.Change, error) {
	f.callCount["TreeChanges"]++
	var i int
	if _, err := fmt.Sscanf(to, "c%d", &i); err != nil {
		return nil, err
	}
	changes := []git.Change{{
		Status: git.StatusModified, Path: "a.txt",
		OldMode: "100644", NewMode: "100644",
		OldID: "a" + from, NewID: "a" + to,
	}}
	if i%2 == 0 {
		changes = append(changes, git.Change{
			Status: git.StatusAdded, Path: fmt.Sprintf("n%d.txt", i),
			OldMode: "000000", NewMode: "100644",
			OldID: git.ZeroID, NewID: "n" + to,
		})
	}
	return changes, nil
}

func (f *fakeRepo) IndexChanges(context.Context) ([]git.Change, error) {
	f.callCount["IndexChanges"]++
	return nil, nil
}

func (f *fakeRepo) WorktreeChanges(context.Context) ([]git.Change, error) {
	f.callCount["WorktreeChanges"]++
	return []git.Change{{
		Status: git.StatusModified, Path: "a.txt",
		OldMode: "100644", NewMode: "100644",
		OldID: "a" + id(f.n-1), NewID: git.ZeroID,
	}}, nil
}

func (f *fakeRepo) ObjectType(context.Context, string) (string, error) {
	return "blob", nil
}

func (f *fakeRepo) ReadBlob(_ context.Context, bid string) ([]byte, error) {
	return []byte("content of " + bid + "\n"), nil
}

func (f *fakeRepo) ReadWorktreeFile(_ context.Context, path string) ([]byte, error) {
	return []byte("edited " + path + "\n"), nil
}

func (f *fakeRepo) FlushCache(context.Context) error {
	f.callCount["FlushCache"]++
	if f.failFlush {
		return errFake
	}
	return nil
}
