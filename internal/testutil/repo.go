// Package testutil provides throwaway git repositories for tests.
package testutil

import (
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// Commit dates start here and advance one day per commit, so committer
// times are distinct and deterministic.
var baseDate = time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)

// Repo is a git repository in a temporary directory, isolated from the
// user's global configuration and from any enclosing repository.
type Repo struct {
	t    *testing.T
	Dir  string
	tick int
}

// NewRepo initializes an empty repository. The test is skipped when git is
// not installed.
func NewRepo(t *testing.T) *Repo {
	t.Helper()
	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git not installed")
	}

	dir := t.TempDir()
	t.Setenv("HOME", t.TempDir())
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("GIT_CONFIG_NOSYSTEM", "1")
	t.Setenv("GIT_CEILING_DIRECTORIES", filepath.Dir(dir))

	r := &Repo{t: t, Dir: dir}
	r.Git("init", "-q")
	r.Git("config", "user.name", "Test User")
	r.Git("config", "user.email", "test@example.com")
	r.Git("config", "commit.gpgsign", "false")
	return r
}

// Date returns the author and committer date of the n-th commit (1-based).
func Date(n int) string {
	return baseDate.AddDate(0, 0, max(n-1, 0)).Format("2006-01-02 15:04:05 -0700")
}

// Git runs git in the repository and returns its trimmed combined output.
func (r *Repo) Git(args ...string) string {
	r.t.Helper()
	date := Date(r.tick)
	cmd := exec.Command("git", args...)
	cmd.Dir = r.Dir
	cmd.Env = append(os.Environ(), "GIT_AUTHOR_DATE="+date, "GIT_COMMITTER_DATE="+date)
	out, err := cmd.CombinedOutput()
	require.NoError(r.t, err, "git %s: %s", strings.Join(args, " "), out)
	return strings.TrimSpace(string(out))
}

// Path returns the absolute path of a slash-separated repository path.
func (r *Repo) Path(path string) string {
	return filepath.Join(r.Dir, filepath.FromSlash(path))
}

// Write creates or overwrites a file, creating parent directories.
func (r *Repo) Write(path, content string) *Repo {
	r.t.Helper()
	full := r.Path(path)
	require.NoError(r.t, os.MkdirAll(filepath.Dir(full), 0o755))
	require.NoError(r.t, os.WriteFile(full, []byte(content), 0o644))
	return r
}

// Remove deletes a file from the worktree.
func (r *Repo) Remove(path string) *Repo {
	r.t.Helper()
	require.NoError(r.t, os.Remove(r.Path(path)))
	return r
}

// Stage adds paths to the index.
func (r *Repo) Stage(paths ...string) *Repo {
	r.t.Helper()
	r.Git(append([]string{"add", "--"}, paths...)...)
	return r
}

// Commit stages everything and commits it, returning the full commit id.
func (r *Repo) Commit(msg string) string {
	r.t.Helper()
	r.tick++
	r.Git("add", "-A")
	r.Git("commit", "-q", "--allow-empty", "-m", msg)
	return r.Git("rev-parse", "HEAD")
}
