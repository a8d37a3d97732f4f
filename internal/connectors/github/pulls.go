package github

import (
	"context"

	gh "github.com/google/go-github/v80/github"

	"github.com/custodia-labs/repodrop/internal/core/domain"
)

// CreatePullRequest opens a pull request and returns its web URL.
func (c *Client) CreatePullRequest(ctx context.Context, owner, repo string, pr domain.PullRequest) (string, error) {
	if err := c.beforeRequest(ctx); err != nil {
		return "", err
	}

	created, resp, err := c.gh.PullRequests.Create(ctx, owner, repo, &gh.NewPullRequest{
		Title: gh.Ptr(pr.Title),
		Head:  gh.Ptr(pr.Head),
		Base:  gh.Ptr(pr.Base),
		Body:  gh.Ptr(pr.Body),
	})
	c.afterResponse(resp)
	if err != nil {
		return "", c.wrapError(err, "create pull request")
	}
	return created.GetHTMLURL(), nil
}
