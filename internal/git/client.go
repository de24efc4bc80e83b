package git

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/go-git/go-billy/v5/memfs"
	"github.com/go-git/go-billy/v5/util"
	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/cache"
	"github.com/go-git/go-git/v5/storage/filesystem"
)

//go:generate mockgen -destination=mocks/mock_client.go -package=mocks -source=client.go Client

// Client defines the Git operations used by the git fixture source
type Client interface {
	// Clone clones a repository into memory
	Clone(ctx context.Context, config *CloneConfig) (*RepositoryInfo, error)

	// GetFileContent returns the content of path at the cloned revision
	GetFileContent(repoInfo *RepositoryInfo, path string) ([]byte, error)

	// Cleanup releases the memory held by a cloned repository
	Cleanup(ctx context.Context, repoInfo *RepositoryInfo) error
}

type defaultGitClient struct{}

// NewDefaultGitClient creates a Client backed by go-git
func NewDefaultGitClient() Client {
	return &defaultGitClient{}
}

// Clone implements Client.Clone
func (c *defaultGitClient) Clone(ctx context.Context, config *CloneConfig) (*RepositoryInfo, error) {
	if config == nil || config.URL == "" {
		return nil, fmt.Errorf("repository URL is required")
	}

	opts := &git.CloneOptions{URL: config.URL}

	// A commit may be anywhere in history, so only branch and tag clones are shallow
	if config.Commit == "" {
		opts.Depth = 1
		switch {
		case config.Branch != "":
			opts.ReferenceName = plumbing.NewBranchReferenceName(config.Branch)
			opts.SingleBranch = true
		case config.Tag != "":
			opts.ReferenceName = plumbing.NewTagReferenceName(config.Tag)
			opts.SingleBranch = true
		}
	}

	storerFs := memfs.New()
	objectCache := cache.NewObjectLRUDefault()
	storer := filesystem.NewStorage(storerFs, objectCache)

	repo, err := git.CloneContext(ctx, storer, memfs.New(), opts)
	if err != nil {
		return nil, fmt.Errorf("failed to clone repository: %w", err)
	}

	info := &RepositoryInfo{
		Repository:       repo,
		RemoteURL:        config.URL,
		storerFilesystem: storerFs,
		objectCache:      objectCache,
	}

	if config.Commit != "" {
		workTree, err := repo.Worktree()
		if err != nil {
			return nil, fmt.Errorf("failed to get worktree: %w", err)
		}
		if err := workTree.Checkout(&git.CheckoutOptions{Hash: plumbing.NewHash(config.Commit)}); err != nil {
			return nil, fmt.Errorf("failed to checkout commit %s: %w", config.Commit, err)
		}
	}

	if err := c.updateRepositoryInfo(info); err != nil {
		return nil, fmt.Errorf("failed to update repository info: %w", err)
	}

	slog.DebugContext(ctx, "Cloned repository",
		"repository", config.URL, "branch", info.Branch, "commit", info.CommitSHA)
	return info, nil
}

// GetFileContent implements Client.GetFileContent
func (*defaultGitClient) GetFileContent(repoInfo *RepositoryInfo, path string) ([]byte, error) {
	if repoInfo == nil || repoInfo.Repository == nil {
		return nil, fmt.Errorf("repository is nil")
	}

	ref, err := repoInfo.Repository.Head()
	if err != nil {
		return nil, fmt.Errorf("failed to get HEAD reference: %w", err)
	}

	commit, err := repoInfo.Repository.CommitObject(ref.Hash())
	if err != nil {
		return nil, fmt.Errorf("failed to get commit object: %w", err)
	}

	tree, err := commit.Tree()
	if err != nil {
		return nil, fmt.Errorf("failed to get tree: %w", err)
	}

	file, err := tree.File(path)
	if err != nil {
		return nil, fmt.Errorf("failed to get file %s: %w", path, err)
	}

	content, err := file.Contents()
	if err != nil {
		return nil, fmt.Errorf("failed to read file contents: %w", err)
	}

	return []byte(content), nil
}

// Cleanup implements Client.Cleanup
func (*defaultGitClient) Cleanup(_ context.Context, repoInfo *RepositoryInfo) error {
	if repoInfo == nil || repoInfo.Repository == nil {
		return fmt.Errorf("repository is nil")
	}

	if repoInfo.objectCache != nil {
		repoInfo.objectCache.Clear()
	}

	if workTree, err := repoInfo.Repository.Worktree(); err == nil && workTree.Filesystem != nil {
		_ = util.RemoveAll(workTree.Filesystem, "/")
	}

	if repoInfo.storerFilesystem != nil {
		_ = util.RemoveAll(repoInfo.storerFilesystem, "/")
	}

	repoInfo.objectCache = nil
	repoInfo.storerFilesystem = nil
	repoInfo.Repository = nil
	return nil
}

func (*defaultGitClient) updateRepositoryInfo(repoInfo *RepositoryInfo) error {
	ref, err := repoInfo.Repository.Head()
	if err != nil {
		return fmt.Errorf("failed to get HEAD reference: %w", err)
	}

	if ref.Name().IsBranch() {
		repoInfo.Branch = ref.Name().Short()
	}
	repoInfo.CommitSHA = ref.Hash().String()
	return nil
}
