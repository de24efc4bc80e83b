package sources

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/milletmart/catalog-server/internal/config"
	"github.com/milletmart/catalog-server/internal/fixtures"
	"github.com/milletmart/catalog-server/internal/git"
)

// gitSourceHandler handles fixture data stored in Git repositories
type gitSourceHandler struct {
	gitClient git.Client
	validator FixtureValidator
}

// NewGitSourceHandler creates a new Git source handler
func NewGitSourceHandler() SourceHandler {
	return NewGitSourceHandlerWithClient(git.NewDefaultGitClient())
}

// NewGitSourceHandlerWithClient creates a Git source handler using client
func NewGitSourceHandlerWithClient(client git.Client) SourceHandler {
	return &gitSourceHandler{
		gitClient: client,
		validator: NewSchemaValidator(),
	}
}

// Validate validates the Git source configuration
func (*gitSourceHandler) Validate(source *config.SourceConfig) error {
	if source == nil {
		return fmt.Errorf("source configuration cannot be nil")
	}

	if source.GetType() != config.SourceTypeGit {
		return fmt.Errorf("invalid source type: expected %s, got %s", config.SourceTypeGit, source.Type)
	}

	if source.Git == nil {
		return fmt.Errorf("git configuration is required")
	}

	if source.Git.Repository == "" {
		return fmt.Errorf("git repository URL cannot be empty")
	}

	specified := 0
	for _, ref := range []string{source.Git.Branch, source.Git.Tag, source.Git.Commit} {
		if ref != "" {
			specified++
		}
	}
	if specified > 1 {
		return fmt.Errorf("only one of branch, tag, or commit may be specified")
	}

	return nil
}

// Fetch clones the repository and returns the validated fixture file
func (h *gitSourceHandler) Fetch(
	ctx context.Context,
	kind fixtures.Kind,
	source *config.SourceConfig,
) (*FetchResult, error) {
	data, origin, err := h.fetchGitData(ctx, kind, source)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch git data: %w", err)
	}

	if err := h.validator.ValidateData(kind, data); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	return NewFetchResult(kind, data, origin), nil
}

// CurrentHash clones the repository and hashes the fixture file without validating it
func (h *gitSourceHandler) CurrentHash(
	ctx context.Context,
	kind fixtures.Kind,
	source *config.SourceConfig,
) (string, error) {
	data, _, err := h.fetchGitData(ctx, kind, source)
	if err != nil {
		return "", err
	}
	return Hash(data), nil
}

// fetchGitData returns the raw fixture file and an origin of the form
// repository@commit:path
func (h *gitSourceHandler) fetchGitData(
	ctx context.Context,
	kind fixtures.Kind,
	source *config.SourceConfig,
) ([]byte, string, error) {
	if err := h.Validate(source); err != nil {
		return nil, "", fmt.Errorf("source validation failed: %w", err)
	}

	gitSource := source.Git
	cloneConfig := &git.CloneConfig{
		URL:    gitSource.Repository,
		Branch: gitSource.Branch,
		Tag:    gitSource.Tag,
		Commit: gitSource.Commit,
	}

	start := time.Now()
	repoInfo, err := h.gitClient.Clone(ctx, cloneConfig)
	if err != nil {
		slog.ErrorContext(ctx, "Git clone failed",
			"repository", cloneConfig.URL,
			"duration", time.Since(start).String(),
			"error", err)
		return nil, "", err
	}
	defer func() {
		if err := h.gitClient.Cleanup(ctx, repoInfo); err != nil {
			slog.WarnContext(ctx, "Failed to release cloned repository", "error", err)
		}
	}()

	slog.InfoContext(ctx, "Git clone completed",
		"repository", cloneConfig.URL,
		"branch", repoInfo.Branch,
		"commit", repoInfo.CommitSHA,
		"duration", time.Since(start).String())

	path := gitSource.GetPath(kind)
	data, err := h.gitClient.GetFileContent(repoInfo, path)
	if err != nil {
		return nil, "", fmt.Errorf("failed to get file %s from repository: %w", path, err)
	}

	origin := fmt.Sprintf("%s@%s:%s", gitSource.Repository, repoInfo.CommitSHA, path)
	return data, origin, nil
}
