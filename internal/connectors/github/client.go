package github

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	gh "github.com/google/go-github/v80/github"
	"golang.org/x/oauth2"

	"github.com/custodia-labs/repodrop/internal/core/ports/driven"
)

// Ensure Client implements the interface.
var _ driven.RepositoryAPI = (*Client)(nil)

// DefaultTimeout is the default HTTP request timeout.
const DefaultTimeout = 30 * time.Second

// Client wraps the go-github client with rate limit tracking.
type Client struct {
	gh          *gh.Client
	rateLimiter *RateLimiter
}

// NewClientWithToken creates a GitHub client with a static access token.
// Works for both PAT and OAuth access tokens.
func NewClientWithToken(ctx context.Context, token string, limiter *RateLimiter) *Client {
	ts := oauth2.StaticTokenSource(
		&oauth2.Token{AccessToken: token},
	)
	tc := oauth2.NewClient(ctx, ts)
	tc.Timeout = DefaultTimeout

	return NewClientWithHTTPClient(tc, limiter)
}

// NewClientWithHTTPClient creates a GitHub client with a custom http.Client.
func NewClientWithHTTPClient(httpClient *http.Client, limiter *RateLimiter) *Client {
	if limiter == nil {
		limiter = NewRateLimiter(RateLimitConfig{})
	}
	return &Client{
		gh:          gh.NewClient(httpClient),
		rateLimiter: limiter,
	}
}

// WithEnterpriseURL points the client at a GitHub Enterprise server.
func (c *Client) WithEnterpriseURL(baseURL string) (*Client, error) {
	client, err := c.gh.WithEnterpriseURLs(baseURL, baseURL)
	if err != nil {
		return nil, fmt.Errorf("enterprise url: %w", err)
	}
	return &Client{gh: client, rateLimiter: c.rateLimiter}, nil
}

// GitHub returns the underlying go-github client.
func (c *Client) GitHub() *gh.Client {
	return c.gh
}

// RateLimiter returns the rate limiter for external access.
func (c *Client) RateLimiter() *RateLimiter {
	return c.rateLimiter
}

// AuthenticatedUser returns the login of the token's owner.
func (c *Client) AuthenticatedUser(ctx context.Context) (string, error) {
	if err := c.beforeRequest(ctx); err != nil {
		return "", err
	}

	user, resp, err := c.gh.Users.Get(ctx, "")
	c.afterResponse(resp)
	if err != nil {
		return "", c.wrapError(err, "get authenticated user")
	}
	return user.GetLogin(), nil
}

// beforeRequest holds the call back while GitHub reports a nearly spent quota.
func (c *Client) beforeRequest(ctx context.Context) error {
	if err := c.rateLimiter.WaitForQuota(ctx); err != nil {
		return fmt.Errorf("rate limit wait: %w", err)
	}
	return nil
}

// afterResponse updates the rate limiter from GitHub response headers.
func (c *Client) afterResponse(resp *gh.Response) {
	if resp == nil || resp.Response == nil {
		return
	}
	c.rateLimiter.UpdateFromResponse(resp.Response)
}

// wrapError converts go-github errors to our error types.
func (c *Client) wrapError(err error, operation string) error {
	if err == nil {
		return nil
	}

	var rateLimitErr *gh.RateLimitError
	if errors.As(err, &rateLimitErr) {
		return &RateLimitError{
			ResetAt:   rateLimitErr.Rate.Reset.Time,
			Remaining: rateLimitErr.Rate.Remaining,
			Limit:     rateLimitErr.Rate.Limit,
		}
	}

	var ghErr *gh.ErrorResponse
	if errors.As(err, &ghErr) && ghErr.Response != nil {
		apiErr := &APIError{
			StatusCode: ghErr.Response.StatusCode,
			Message:    ghErr.Message,
		}
		if ghErr.Response.Request != nil {
			apiErr.URL = ghErr.Response.Request.URL.String()
		}
		if rlErr := c.rateLimiter.CheckRateLimit(ghErr.Response); rlErr != nil {
			return rlErr
		}
		return apiErr
	}

	return fmt.Errorf("%s: %w", operation, err)
}
