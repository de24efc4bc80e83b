package git

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testAuthor = &object.Signature{Name: "Test Farmer", Email: "farmer@example.com"}

// commitFiles writes files into the worktree at dir and commits them
func commitFiles(t *testing.T, repo *git.Repository, dir string, files map[string]string, msg string) plumbing.Hash {
	t.Helper()

	workTree, err := repo.Worktree()
	require.NoError(t, err)

	for name, content := range files {
		path := filepath.Join(dir, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
		_, err := workTree.Add(name)
		require.NoError(t, err)
	}

	hash, err := workTree.Commit(msg, &git.CommitOptions{Author: testAuthor})
	require.NoError(t, err)
	return hash
}

// newTestRepo creates a repository with two commits on master and a
// "staging" branch. It returns the path and both master commits.
func newTestRepo(t *testing.T) (string, plumbing.Hash, plumbing.Hash) {
	t.Helper()

	dir := t.TempDir()
	repo, err := git.PlainInit(dir, false)
	require.NoError(t, err)

	first := commitFiles(t, repo, dir, map[string]string{"data/products.json": `[{"id":"1"}]`}, "first")

	workTree, err := repo.Worktree()
	require.NoError(t, err)
	require.NoError(t, workTree.Checkout(&git.CheckoutOptions{
		Branch: plumbing.NewBranchReferenceName("staging"),
		Create: true,
	}))
	commitFiles(t, repo, dir, map[string]string{"data/products.json": `[{"id":"staging"}]`}, "staging")
	require.NoError(t, workTree.Checkout(&git.CheckoutOptions{Branch: plumbing.NewBranchReferenceName("master")}))

	second := commitFiles(t, repo, dir, map[string]string{"data/products.json": `[{"id":"2"}]`}, "second")
	return dir, first, second
}

func TestDefaultGitClient_Clone(t *testing.T) {
	t.Parallel()

	dir, first, second := newTestRepo(t)

	tests := []struct {
		name       string
		config     *CloneConfig
		wantBranch string
		wantCommit plumbing.Hash
		wantData   string
	}{
		{
			name:       "default branch",
			config:     &CloneConfig{URL: dir},
			wantBranch: "master",
			wantCommit: second,
			wantData:   `[{"id":"2"}]`,
		},
		{
			name:       "named branch",
			config:     &CloneConfig{URL: dir, Branch: "staging"},
			wantBranch: "staging",
			wantData:   `[{"id":"staging"}]`,
		},
		{
			name:       "pinned commit",
			config:     &CloneConfig{URL: dir, Commit: first.String()},
			wantCommit: first,
			wantData:   `[{"id":"1"}]`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			client := NewDefaultGitClient()

			info, err := client.Clone(t.Context(), tt.config)
			require.NoError(t, err)
			t.Cleanup(func() { _ = client.Cleanup(t.Context(), info) })

			if tt.wantBranch != "" {
				assert.Equal(t, tt.wantBranch, info.Branch)
			}
			if !tt.wantCommit.IsZero() {
				assert.Equal(t, tt.wantCommit.String(), info.CommitSHA)
			}
			assert.Equal(t, dir, info.RemoteURL)

			data, err := client.GetFileContent(info, "data/products.json")
			require.NoError(t, err)
			assert.Equal(t, tt.wantData, string(data))
		})
	}
}

func TestDefaultGitClient_CloneErrors(t *testing.T) {
	t.Parallel()

	dir, _, _ := newTestRepo(t)
	client := NewDefaultGitClient()

	tests := []struct {
		name   string
		config *CloneConfig
	}{
		{name: "nil config"},
		{name: "empty url", config: &CloneConfig{}},
		{name: "missing repository", config: &CloneConfig{URL: filepath.Join(t.TempDir(), "missing")}},
		{name: "unknown branch", config: &CloneConfig{URL: dir, Branch: "does-not-exist"}},
		{name: "unknown commit", config: &CloneConfig{URL: dir, Commit: "0123456789abcdef0123456789abcdef01234567"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			info, err := client.Clone(t.Context(), tt.config)
			require.Error(t, err)
			assert.Nil(t, info)
		})
	}
}

func TestDefaultGitClient_GetFileContent_Missing(t *testing.T) {
	t.Parallel()

	dir, _, _ := newTestRepo(t)
	client := NewDefaultGitClient()

	info, err := client.Clone(t.Context(), &CloneConfig{URL: dir})
	require.NoError(t, err)

	_, err = client.GetFileContent(info, "schemes.json")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "schemes.json")

	require.NoError(t, client.Cleanup(t.Context(), info))
	assert.Nil(t, info.Repository)

	_, err = client.GetFileContent(info, "data/products.json")
	require.EqualError(t, err, "repository is nil")
}

func TestDefaultGitClient_Cleanup_Nil(t *testing.T) {
	t.Parallel()
	client := NewDefaultGitClient()

	require.Error(t, client.Cleanup(t.Context(), nil))
	require.Error(t, client.Cleanup(t.Context(), &RepositoryInfo{}))
}
