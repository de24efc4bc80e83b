package git

import (
	billy "github.com/go-git/go-billy/v5"
	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/cache"
)

// CloneConfig selects the repository and revision to clone. At most one of
// Branch, Tag and Commit is set; none means the remote HEAD.
type CloneConfig struct {
	URL    string
	Branch string
	Tag    string
	Commit string
}

// RepositoryInfo is a cloned repository held in memory
type RepositoryInfo struct {
	Repository *git.Repository

	// Branch is the checked out branch, empty for tags and detached commits
	Branch string

	// CommitSHA is the commit the worktree points at
	CommitSHA string

	RemoteURL string

	// storerFilesystem and objectCache are kept so Cleanup can release them;
	// go-git holds on to both for as long as the repository is reachable.
	storerFilesystem billy.Filesystem
	objectCache      cache.Object
}
