package git

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/zjrosen/giv/internal/cachemanager"
	"github.com/zjrosen/giv/internal/log"
)

// Git-specific errors.
var (
	// ErrNotGitRepo indicates the directory is not a git repository.
	ErrNotGitRepo = errors.New("not a git repository")

	// ErrObjectNotFound indicates an object id does not exist or is corrupt.
	ErrObjectNotFound = errors.New("object not found")

	// ErrBadRevision indicates a revision name could not be resolved,
	// e.g. HEAD in a repository without commits.
	ErrBadRevision = errors.New("bad revision")
)

// Compile-time checks that RealExecutor implements Backend and CacheFlusher.
var (
	_ Backend      = (*RealExecutor)(nil)
	_ CacheFlusher = (*RealExecutor)(nil)
)

// RealExecutor implements Backend by executing actual git commands.
type RealExecutor struct {
	workDir   string
	commitTTL time.Duration
	commits   *cachemanager.ReadThroughCache[string, Commit, string]
}

// Option configures a RealExecutor.
type Option func(*RealExecutor)

// WithCommitCacheTTL sets how long commit metadata stays cached.
// A zero ttl disables the cache.
func WithCommitCacheTTL(ttl time.Duration) Option {
	return func(e *RealExecutor) {
		e.commitTTL = ttl
	}
}

// NewRealExecutor creates a new RealExecutor rooted at workDir.
func NewRealExecutor(workDir string, opts ...Option) *RealExecutor {
	e := &RealExecutor{
		workDir:   workDir,
		commitTTL: cachemanager.DefaultExpiration,
	}
	for _, opt := range opts {
		opt(e)
	}

	store := cachemanager.NewInMemoryCacheManager[string, Commit](
		"commits", cachemanager.DefaultExpiration, cachemanager.DefaultCleanupInterval)
	e.commits = cachemanager.NewReadThroughCache[string, Commit, string](store, e.loadCommit, e.commitTTL <= 0)

	return e
}

// Open verifies workDir is inside a non-bare git repository and returns a
// RealExecutor rooted at the top of its worktree, so every path the backend
// reports is relative to that root.
func Open(ctx context.Context, workDir string, opts ...Option) (*RealExecutor, error) {
	probe := NewRealExecutor(workDir, WithCommitCacheTTL(0))
	root, err := probe.runGitOutput(ctx, "rev-parse", "--show-toplevel")
	if err != nil {
		if errors.Is(err, ErrNotGitRepo) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %w", ErrNotGitRepo, err)
	}
	return NewRealExecutor(root, opts...), nil
}

// WorkDir returns the directory git commands run in.
func (e *RealExecutor) WorkDir() string {
	return e.workDir
}

// GitDir returns the absolute path of the repository's git directory.
func (e *RealExecutor) GitDir(ctx context.Context) (string, error) {
	return e.runGitOutput(ctx, "rev-parse", "--absolute-git-dir")
}

// runGitRaw executes a git command and returns stdout untouched.
func (e *RealExecutor) runGitRaw(ctx context.Context, args ...string) ([]byte, error) {
	//nolint:gosec // G204: args come from controlled sources
	cmd := exec.CommandContext(ctx, "git", args...)
	if e.workDir != "" {
		cmd.Dir = e.workDir
	}
	// Keep output stable regardless of the user's locale and pager settings.
	cmd.Env = append(os.Environ(), "LC_ALL=C", "GIT_PAGER=cat", "GIT_OPTIONAL_LOCKS=0")

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		stderrStr := strings.TrimSpace(stderr.String())
		log.Debug(log.CatGit, "git command failed", "args", strings.Join(args, " "), "stderr", stderrStr)
		if stderrStr != "" {
			return nil, parseGitError(stderrStr, err)
		}
		return nil, fmt.Errorf("git %s: %w", strings.Join(args, " "), err)
	}

	return stdout.Bytes(), nil
}

// runGitOutput executes a git command and returns trimmed stdout.
func (e *RealExecutor) runGitOutput(ctx context.Context, args ...string) (string, error) {
	out, err := e.runGitRaw(ctx, args...)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(out)), nil
}

// parseGitError converts git stderr messages to specific error types.
func parseGitError(stderr string, originalErr error) error {
	stderrLower := strings.ToLower(stderr)

	if strings.Contains(stderrLower, "not a git repository") {
		return fmt.Errorf("%w: %s", ErrNotGitRepo, stderr)
	}

	// fatal: bad object <id> / fatal: Not a valid object name <id>
	if strings.Contains(stderrLower, "bad object") ||
		strings.Contains(stderrLower, "not a valid object name") ||
		strings.Contains(stderrLower, "could not get object info") ||
		strings.Contains(stderrLower, "unable to read") {
		return fmt.Errorf("%w: %s", ErrObjectNotFound, stderr)
	}

	// fatal: Needed a single revision / unknown revision or path not in the working tree
	if strings.Contains(stderrLower, "needed a single revision") ||
		strings.Contains(stderrLower, "unknown revision") ||
		strings.Contains(stderrLower, "bad revision") ||
		strings.Contains(stderrLower, "ambiguous argument") {
		return fmt.Errorf("%w: %s", ErrBadRevision, stderr)
	}

	return fmt.Errorf("git error: %s: %w", stderr, originalErr)
}

// Head returns the full id of the commit HEAD points at.
func (e *RealExecutor) Head(ctx context.Context) (string, error) {
	return e.runGitOutput(ctx, "rev-parse", "--verify", "HEAD^{commit}")
}

// commitFormat yields NUL separated fields; the raw message is last so it
// may itself contain anything but NUL.
const commitFormat = "%H%x00%h%x00%P%x00%an%x00%ae%x00%ai%x00%cn%x00%ce%x00%ci%x00%ct%x00%B"

// Commit returns the metadata of a commit, served from the commit cache.
func (e *RealExecutor) Commit(ctx context.Context, id string) (Commit, error) {
	return e.commits.Get(ctx, id, id, e.commitTTL)
}

// FlushCache drops the cached commit metadata.
func (e *RealExecutor) FlushCache(ctx context.Context) error {
	return e.commits.Flush(ctx)
}

func (e *RealExecutor) loadCommit(ctx context.Context, id string) (Commit, error) {
	out, err := e.runGitRaw(ctx,
		"-c", "log.showSignature=false",
		"show", "-s", "--no-color", "--format="+commitFormat, id, "--")
	if err != nil {
		return Commit{}, fmt.Errorf("reading commit %s: %w", id, err)
	}
	return parseCommit(out)
}

// PendingChanges reports worktree and index state from git status.
func (e *RealExecutor) PendingChanges(ctx context.Context) (PendingChanges, error) {
	out, err := e.runGitRaw(ctx, "status", "--porcelain=v1", "-z", "--untracked-files=normal")
	if err != nil {
		return PendingChanges{}, fmt.Errorf("reading status: %w", err)
	}
	return parseStatus(out), nil
}

// TreeChanges lists the changes between the trees of two commits.
func (e *RealExecutor) TreeChanges(ctx context.Context, from, to string) ([]Change, error) {
	out, err := e.runGitRaw(ctx, "diff-tree", "-r", "-z", "-M", "--raw", "--no-abbrev", from, to)
	if err != nil {
		return nil, fmt.Errorf("diffing %s..%s: %w", from, to, err)
	}
	return parseRawChanges(out)
}

// IndexChanges lists the changes staged in the index relative to HEAD.
func (e *RealExecutor) IndexChanges(ctx context.Context) ([]Change, error) {
	out, err := e.runGitRaw(ctx, "diff-index", "--cached", "-r", "-z", "-M", "--raw", "--no-abbrev", "HEAD")
	if err != nil {
		return nil, fmt.Errorf("diffing index: %w", err)
	}
	return parseRawChanges(out)
}

// WorktreeChanges lists worktree changes relative to the index.
func (e *RealExecutor) WorktreeChanges(ctx context.Context) ([]Change, error) {
	out, err := e.runGitRaw(ctx, "diff-files", "-z", "--raw", "--no-abbrev")
	if err != nil {
		return nil, fmt.Errorf("diffing worktree: %w", err)
	}
	changes, err := parseRawChanges(out)
	if err != nil {
		return nil, err
	}

	untracked, err := e.runGitRaw(ctx, "ls-files", "--others", "--exclude-standard", "--full-name", "-z")
	if err != nil {
		return nil, fmt.Errorf("listing untracked files: %w", err)
	}
	for _, path := range splitNUL(untracked) {
		mode := "100644"
		// A nested repository is listed as its directory, like a submodule
		// that was never added.
		if dir, ok := strings.CutSuffix(path, "/"); ok {
			path, mode = dir, ModeGitlink
		}
		changes = append(changes, Change{
			Status:  StatusAdded,
			Path:    path,
			OldMode: "000000",
			NewMode: mode,
			OldID:   ZeroID,
			NewID:   ZeroID,
		})
	}
	return changes, nil
}

// ObjectType returns the type of an object.
func (e *RealExecutor) ObjectType(ctx context.Context, id string) (string, error) {
	out, err := e.runGitOutput(ctx, "cat-file", "-t", id)
	if err != nil {
		return "", fmt.Errorf("reading type of %s: %w", id, err)
	}
	return out, nil
}

// ReadBlob returns the content of a blob.
func (e *RealExecutor) ReadBlob(ctx context.Context, id string) ([]byte, error) {
	out, err := e.runGitRaw(ctx, "cat-file", "blob", id)
	if err != nil {
		return nil, fmt.Errorf("reading blob %s: %w", id, err)
	}
	return out, nil
}

// ReadWorktreeFile returns the on-disk content of path, relative to the
// worktree root. Symlinks yield their target, matching what git stores.
func (e *RealExecutor) ReadWorktreeFile(_ context.Context, path string) ([]byte, error) {
	full := filepath.Join(e.workDir, filepath.FromSlash(path))

	info, err := os.Lstat(full)
	if err != nil {
		return nil, fmt.Errorf("reading worktree file %s: %w", path, err)
	}
	if info.Mode()&os.ModeSymlink != 0 {
		target, err := os.Readlink(full)
		if err != nil {
			return nil, fmt.Errorf("reading worktree link %s: %w", path, err)
		}
		return []byte(target), nil
	}

	data, err := os.ReadFile(full) //nolint:gosec // G304: path comes from git's own listing
	if err != nil {
		return nil, fmt.Errorf("reading worktree file %s: %w", path, err)
	}
	return data, nil
}
