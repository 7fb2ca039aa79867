package git

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveRevision(t *testing.T) {
	repoPath := t.TempDir()
	repo, err := git.PlainInit(repoPath, false)
	require.NoError(t, err)

	require.NoError(t, os.MkdirAll(filepath.Join(repoPath, "Assets"), 0o750))
	require.NoError(t, os.WriteFile(filepath.Join(repoPath, "Assets", "a.txt"), []byte("a"), 0o600))
	w, err := repo.Worktree()
	require.NoError(t, err)
	_, err = w.Add(".")
	require.NoError(t, err)
	commit, err := w.Commit("Initial commit", &git.CommitOptions{
		Author: &object.Signature{Name: "Test User", Email: "test@example.com", When: time.Now()},
	})
	require.NoError(t, err)

	rev, err := ResolveRevision(filepath.Join(repoPath, "Assets"), "HEAD")
	require.NoError(t, err)
	assert.Equal(t, commit.String()[:ShortHashLen], rev)

	rev, err = Resolver(repoPath)("HEAD")
	require.NoError(t, err)
	assert.Len(t, rev, ShortHashLen)
}

func TestResolveRevision_NotARepository(t *testing.T) {
	_, err := ResolveRevision(t.TempDir(), "HEAD")
	assert.Error(t, err)
}
