package gitstatus

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	git "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func initRepo(t *testing.T) (string, *git.Repository) {
	t.Helper()

	dir := t.TempDir()

	repo, err := git.PlainInit(dir, false)
	require.NoError(t, err)

	return dir, repo
}

func commitFile(t *testing.T, dir string, repo *git.Repository, name, content string) {
	t.Helper()

	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))

	wt, err := repo.Worktree()
	require.NoError(t, err)

	_, err = wt.Add(name)
	require.NoError(t, err)

	_, err = wt.Commit("add "+name, &git.CommitOptions{
		Author: &object.Signature{Name: "test", Email: "test@example.com", When: time.Now()},
	})
	require.NoError(t, err)
}

func TestHasChanges_CleanRepo(t *testing.T) {
	dir, repo := initRepo(t)
	commitFile(t, dir, repo, "README.md", "hello\n")

	dirty, err := HasChanges(dir)

	require.NoError(t, err)
	assert.False(t, dirty)
}

func TestHasChanges_UntrackedFile(t *testing.T) {
	dir, repo := initRepo(t)
	commitFile(t, dir, repo, "README.md", "hello\n")
	require.NoError(t, os.WriteFile(filepath.Join(dir, "new.txt"), []byte("x"), 0o644))

	dirty, err := HasChanges(dir)

	require.NoError(t, err)
	assert.True(t, dirty)
}

func TestHasChanges_ModifiedFile(t *testing.T) {
	dir, repo := initRepo(t)
	commitFile(t, dir, repo, "README.md", "hello\n")
	require.NoError(t, os.WriteFile(filepath.Join(dir, "README.md"), []byte("changed\n"), 0o644))

	dirty, err := HasChanges(dir)

	require.NoError(t, err)
	assert.True(t, dirty)
}

func TestHasChanges_NotARepository(t *testing.T) {
	dir := t.TempDir()

	_, err := HasChanges(dir)

	assert.ErrorIs(t, err, ErrNotARepository)
}

func TestIsDirty_SwallowsErrors(t *testing.T) {
	assert.False(t, IsDirty(t.TempDir()))
}
