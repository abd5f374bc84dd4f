package history

import (
	"container/heap"

	"github.com/zjrosen/giv/internal/git"
)

// frontier is a max-heap of discovered commits keyed by (time, id), so the
// most recent commit pops first and equal times resolve the same way on
// every walk.
type frontier []git.Commit

func (f frontier) Len() int { return len(f) }

func (f frontier) Less(i, j int) bool {
	if f[i].Time != f[j].Time {
		return f[i].Time > f[j].Time
	}
	return f[i].ID > f[j].ID
}

func (f frontier) Swap(i, j int) { f[i], f[j] = f[j], f[i] }

func (f *frontier) Push(x any) { *f = append(*f, x.(git.Commit)) }

func (f *frontier) Pop() any {
	old := *f
	n := len(old)
	c := old[n-1]
	*f = old[:n-1]
	return c
}

func (f *frontier) push(c git.Commit) { heap.Push(f, c) }

func (f *frontier) pop() git.Commit { return heap.Pop(f).(git.Commit) }
