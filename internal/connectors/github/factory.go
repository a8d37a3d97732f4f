package github

import (
	"context"

	"github.com/custodia-labs/repodrop/internal/core/domain"
	"github.com/custodia-labs/repodrop/internal/core/ports/driven"
)

// Ensure Factory implements the interface.
var _ driven.RepositoryAPIFactory = (*Factory)(nil)

// Factory builds token-bound clients that share one rate limiter.
type Factory struct {
	limiter *RateLimiter
	baseURL string
}

// NewFactory creates a client factory.
// baseURL selects a GitHub Enterprise server; empty means github.com.
func NewFactory(limiter *RateLimiter, baseURL string) *Factory {
	return &Factory{limiter: limiter, baseURL: baseURL}
}

// NewRepositoryAPI returns a client authenticated with token.
func (f *Factory) NewRepositoryAPI(ctx context.Context, token string) (driven.RepositoryAPI, error) {
	if token == "" {
		return nil, domain.ErrTokenRequired
	}

	client := NewClientWithToken(ctx, token, f.limiter)
	if f.baseURL == "" {
		return client, nil
	}
	return client.WithEnterpriseURL(f.baseURL)
}
