// Package github implements the repository API that repodrop uploads through.
//
// # Architecture
//
// The package provides the driven ports defined in [driven.RepositoryAPI],
// [driven.RepositoryAPIFactory] and [driven.RateLimiter]:
//
//   - Client: go-github wrapper covering users, repositories, refs,
//     contents and pull requests
//   - Factory: builds a Client per access token; all clients share one limiter
//   - RateLimiter: the process-wide gate for outbound calls
//
// # Authentication
//
// Personal Access Tokens and OAuth access tokens are both accepted. They are
// passed in by the caller and never stored. Creating repositories and writing
// contents requires the 'repo' scope for private repositories.
//
// # Rate Limiting
//
// The limiter combines three mechanisms:
//
//  1. Permit window: at most MaxRequests permits per window. When the window
//     is exhausted callers sleep until it ends, then a new window starts.
//     Permits are never refunded.
//
//  2. Proactive smoothing: an optional token bucket spreads permits out,
//     which keeps content writes clear of GitHub's secondary limits.
//
//  3. Reactive handling: every response updates the X-RateLimit-Remaining
//     and X-RateLimit-Reset state. Requests wait for the reset time when the
//     remaining quota drops under MinBuffer.
//
// The upload orchestrator takes one permit per file. The client itself only
// applies the reactive check.
//
// # Error Handling
//
// go-github errors are converted into [APIError] and [RateLimitError]. Both
// unwrap to domain sentinels (domain.ErrNotFound, domain.ErrUnprocessable,
// domain.ErrAuthInvalid, domain.ErrRateLimited) so core services can use
// errors.Is without importing this package. A missing file in GetFileSHA is
// not an error: it reports found == false.
//
// # Example Usage
//
//	limiter := github.NewRateLimiter(github.RateLimitConfig{MaxRequests: 5000, Window: time.Hour})
//	factory := github.NewFactory(limiter, "")
//
//	api, err := factory.NewRepositoryAPI(ctx, token)
//	if err != nil {
//	    return err
//	}
//	login, err := api.AuthenticatedUser(ctx)
package github
