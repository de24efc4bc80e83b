package helpers

import (
	"os"
	"path/filepath"
	"time"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/onsi/gomega"

	"github.com/milletmart/catalog-server/internal/config"
	"github.com/milletmart/catalog-server/internal/fixtures"
)

// GitTestRepository is a local repository fixtures can be cloned from
type GitTestRepository struct {
	Path string
	repo *git.Repository
}

// CreateRepository initializes a repository under dir with a README commit
func CreateRepository(dir string) *GitTestRepository {
	path := filepath.Join(dir, "fixtures-repo")
	repo, err := git.PlainInit(path, false)
	gomega.Expect(err).NotTo(gomega.HaveOccurred())

	r := &GitTestRepository{Path: path, repo: repo}
	r.CommitFile("README.md", []byte("# Marketplace fixtures\n"), "Initial commit")
	return r
}

// CommitFile writes name with data and commits it, returning the commit hash
func (r *GitTestRepository) CommitFile(name string, data []byte, message string) string {
	full := filepath.Join(r.Path, name)
	gomega.Expect(os.MkdirAll(filepath.Dir(full), 0750)).To(gomega.Succeed())
	gomega.Expect(os.WriteFile(full, data, 0600)).To(gomega.Succeed())

	workTree, err := r.repo.Worktree()
	gomega.Expect(err).NotTo(gomega.HaveOccurred())
	_, err = workTree.Add(name)
	gomega.Expect(err).NotTo(gomega.HaveOccurred())

	hash, err := workTree.Commit(message, &git.CommitOptions{
		Author: &object.Signature{Name: "Fixture Bot", Email: "fixtures@milletmart.example", When: time.Now()},
	})
	gomega.Expect(err).NotTo(gomega.HaveOccurred())
	return hash.String()
}

// CreateTag tags the current HEAD
func (r *GitTestRepository) CreateTag(name string) {
	head, err := r.repo.Head()
	gomega.Expect(err).NotTo(gomega.HaveOccurred())
	_, err = r.repo.CreateTag(name, head.Hash(), nil)
	gomega.Expect(err).NotTo(gomega.HaveOccurred())
}

// CheckoutBranch switches to branch, creating it when create is set
func (r *GitTestRepository) CheckoutBranch(branch string, create bool) {
	workTree, err := r.repo.Worktree()
	gomega.Expect(err).NotTo(gomega.HaveOccurred())
	gomega.Expect(workTree.Checkout(&git.CheckoutOptions{
		Branch: plumbing.NewBranchReferenceName(branch),
		Create: create,
	})).To(gomega.Succeed())
}

// GitSourceConfig returns a config that loads products from the repository
func GitSourceConfig(repo *GitTestRepository, gitCfg config.GitConfig) *config.Config {
	gitCfg.Repository = repo.Path
	return &config.Config{
		Sources: map[string]config.SourceConfig{
			string(fixtures.KindProducts): {
				Type: config.SourceTypeGit,
				Git:  &gitCfg,
			},
		},
	}
}
