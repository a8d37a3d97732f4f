package driven

import (
	"context"

	"github.com/custodia-labs/repodrop/internal/core/domain"
)

// RepositoryAPI is the subset of the GitHub REST API that repodrop drives.
// Errors for missing resources satisfy errors.Is(err, domain.ErrNotFound).
type RepositoryAPI interface {
	// AuthenticatedUser returns the login of the token's owner.
	AuthenticatedUser(ctx context.Context) (string, error)

	// ListRepositories returns every repository of the authenticated user,
	// most recently updated first.
	ListRepositories(ctx context.Context) ([]domain.Repository, error)

	// CreateRepository creates a repository owned by the authenticated user.
	CreateRepository(ctx context.Context, target domain.RepoTarget) (*domain.Repository, error)

	// GetRepository fetches repository metadata.
	GetRepository(ctx context.Context, owner, repo string) (*domain.Repository, error)

	// GetRef returns the commit SHA a branch points at.
	GetRef(ctx context.Context, owner, repo, branch string) (string, error)

	// CreateRef creates a branch pointing at sha.
	CreateRef(ctx context.Context, owner, repo, branch, sha string) error

	// GetFileSHA looks up the blob SHA at path. An empty branch means the
	// default branch. found is false, with a nil error, when nothing exists there.
	GetFileSHA(ctx context.Context, owner, repo, path, branch string) (sha string, found bool, err error)

	// PutFile creates or updates file content and returns the commit SHA.
	PutFile(ctx context.Context, owner, repo string, write domain.FileWrite) (string, error)

	// CreatePullRequest opens a pull request and returns its web URL.
	CreatePullRequest(ctx context.Context, owner, repo string, pr domain.PullRequest) (string, error)
}

// RepositoryAPIFactory creates API clients bound to an access token.
type RepositoryAPIFactory interface {
	NewRepositoryAPI(ctx context.Context, token string) (RepositoryAPI, error)
}
