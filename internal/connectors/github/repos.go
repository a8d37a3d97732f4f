package github

import (
	"context"

	gh "github.com/google/go-github/v80/github"

	"github.com/custodia-labs/repodrop/internal/core/domain"
)

// reposPerPage is the page size for repository listing.
const reposPerPage = 100

// ListRepositories returns every repository of the authenticated user,
// most recently updated first.
func (c *Client) ListRepositories(ctx context.Context) ([]domain.Repository, error) {
	var all []domain.Repository

	opts := &gh.RepositoryListByAuthenticatedUserOptions{
		Sort:        "updated",
		ListOptions: gh.ListOptions{PerPage: reposPerPage},
	}

	for {
		select {
		case <-ctx.Done():
			return all, ctx.Err()
		default:
		}

		if err := c.beforeRequest(ctx); err != nil {
			return nil, err
		}

		repos, resp, err := c.gh.Repositories.ListByAuthenticatedUser(ctx, opts)
		c.afterResponse(resp)
		if err != nil {
			return nil, c.wrapError(err, "list repos")
		}

		for _, r := range repos {
			all = append(all, toRepository(r))
		}

		if resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
	}

	return all, nil
}

// CreateRepository creates a repository owned by the authenticated user.
func (c *Client) CreateRepository(ctx context.Context, target domain.RepoTarget) (*domain.Repository, error) {
	if err := c.beforeRequest(ctx); err != nil {
		return nil, err
	}

	repo := &gh.Repository{
		Name:     gh.Ptr(target.Name),
		Private:  gh.Ptr(target.Private),
		AutoInit: gh.Ptr(target.InitReadme),
	}
	if target.Description != "" {
		repo.Description = gh.Ptr(target.Description)
	}

	created, resp, err := c.gh.Repositories.Create(ctx, "", repo)
	c.afterResponse(resp)
	if err != nil {
		return nil, c.wrapError(err, "create repo")
	}

	out := toRepository(created)
	return &out, nil
}

// GetRepository fetches a single repository.
func (c *Client) GetRepository(ctx context.Context, owner, repo string) (*domain.Repository, error) {
	if err := c.beforeRequest(ctx); err != nil {
		return nil, err
	}

	repository, resp, err := c.gh.Repositories.Get(ctx, owner, repo)
	c.afterResponse(resp)
	if err != nil {
		return nil, c.wrapError(err, "get repo")
	}

	out := toRepository(repository)
	return &out, nil
}

func toRepository(r *gh.Repository) domain.Repository {
	return domain.Repository{
		Name:          r.GetName(),
		FullName:      r.GetFullName(),
		Owner:         r.GetOwner().GetLogin(),
		Description:   r.GetDescription(),
		Private:       r.GetPrivate(),
		DefaultBranch: r.GetDefaultBranch(),
		HTMLURL:       r.GetHTMLURL(),
		UpdatedAt:     r.GetUpdatedAt().Time,
	}
}
