package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/custodia-labs/repodrop/internal/core/domain"
	"github.com/custodia-labs/repodrop/internal/core/ports/driven"
	"github.com/custodia-labs/repodrop/internal/core/ports/driving"
	"github.com/custodia-labs/repodrop/internal/logger"
)

// Ensure UploadService implements the interface.
var _ driving.UploadService = (*UploadService)(nil)

var uploadLog = logger.For("upload")

// UploadService writes files into a GitHub repository one at a time.
type UploadService struct {
	factory  driven.RepositoryAPIFactory
	limiter  driven.RateLimiter
	settings domain.UploadSettings

	now   func() time.Time
	newID func() string
	wait  func(ctx context.Context, d time.Duration) error
}

// NewUploadService creates a new upload orchestrator.
// limiter must be the process-wide instance shared with the API client.
func NewUploadService(
	factory driven.RepositoryAPIFactory,
	limiter driven.RateLimiter,
	settings domain.UploadSettings,
) *UploadService {
	defaults := domain.DefaultSettings().Upload
	if settings.BaseBranch == "" {
		settings.BaseBranch = defaults.BaseBranch
	}
	if settings.PRTitle == "" {
		settings.PRTitle = defaults.PRTitle
	}
	if settings.PRBody == "" {
		settings.PRBody = defaults.PRBody
	}
	return &UploadService{
		factory:  factory,
		limiter:  limiter,
		settings: settings,
		now:      time.Now,
		newID:    uuid.NewString,
		wait:     waitFor,
	}
}

// Upload writes req.Files in order. Existing repositories get a fresh
// working branch and a pull request; new repositories are written directly
// after a grace period. The first failing file aborts the upload and earlier
// writes stay in place.
func (s *UploadService) Upload(ctx context.Context, token string, req domain.UploadRequest) (*domain.UploadResult, error) {
	if token == "" {
		return nil, domain.ErrTokenRequired
	}
	if req.RepoName == "" {
		return nil, fmt.Errorf("%w: repository name is required", domain.ErrInvalidInput)
	}
	for _, file := range req.Files {
		if domain.IsUnsafePath(file.Path) {
			return nil, &domain.UploadError{
				Path: file.Path,
				Err:  fmt.Errorf("%w: %s", domain.ErrInvalidInput, domain.ReasonUnsafePath),
			}
		}
	}

	api, err := s.factory.NewRepositoryAPI(ctx, token)
	if err != nil {
		return nil, fmt.Errorf("create client: %w", err)
	}

	login, err := api.AuthenticatedUser(ctx)
	if err != nil {
		return nil, fmt.Errorf("get authenticated user: %w", err)
	}

	owner, repo := domain.SplitRepoName(req.RepoName, login)
	result := &domain.UploadResult{
		SessionID: s.newID(),
		Owner:     owner,
		Repo:      repo,
	}
	logger.Section("Upload " + owner + "/" + repo)
	uploadLog.Info("session %s: uploading %d files to %s/%s", result.SessionID, len(req.Files), owner, repo)

	if req.ExistingRepo {
		branch, err := s.createWorkingBranch(ctx, api, owner, repo)
		if err != nil {
			return nil, err
		}
		result.Branch = branch
	} else if s.settings.GracePeriod > 0 {
		// A freshly created repository may not accept writes straight away.
		uploadLog.Debug("waiting %s before first write", s.settings.GracePeriod)
		if err := s.wait(ctx, s.settings.GracePeriod); err != nil {
			return nil, err
		}
	}

	for _, file := range req.Files {
		outcome, err := s.uploadFile(ctx, api, owner, repo, result.Branch, file)
		if err != nil {
			uploadLog.Error("upload of %s failed: %v", file.Path, err)
			return nil, &domain.UploadError{Path: file.Path, Err: err}
		}
		uploadLog.Debug("%s %s (%s)", outcome.Action, outcome.Path, outcome.CommitSHA)
		result.Files = append(result.Files, outcome)
	}

	if req.ExistingRepo {
		logger.Section("Pull request")
		url, err := api.CreatePullRequest(ctx, owner, repo, domain.PullRequest{
			Title: s.settings.PRTitle,
			Head:  result.Branch,
			Base:  s.settings.BaseBranch,
			Body:  s.settings.PRBody,
		})
		if err != nil {
			return nil, fmt.Errorf("create pull request: %w", err)
		}
		result.PullRequestURL = url
		uploadLog.Info("opened pull request %s", url)
	}

	return result, nil
}

// createWorkingBranch branches update-<epoch-ms> off the default branch head.
func (s *UploadService) createWorkingBranch(ctx context.Context, api driven.RepositoryAPI, owner, repo string) (string, error) {
	branch := fmt.Sprintf("update-%d", s.now().UnixMilli())

	info, err := api.GetRepository(ctx, owner, repo)
	if err != nil {
		return "", fmt.Errorf("get repository: %w", err)
	}

	sha, err := api.GetRef(ctx, owner, repo, info.DefaultBranch)
	if err != nil {
		return "", fmt.Errorf("get ref %s: %w", info.DefaultBranch, err)
	}

	if err := api.CreateRef(ctx, owner, repo, branch, sha); err != nil {
		return "", fmt.Errorf("create branch %s: %w", branch, err)
	}

	uploadLog.Debug("created branch %s from %s@%s", branch, info.DefaultBranch, sha)
	return branch, nil
}

// uploadFile acquires a permit, then creates the file or updates the blob
// already at its path.
func (s *UploadService) uploadFile(
	ctx context.Context,
	api driven.RepositoryAPI,
	owner, repo, branch string,
	file domain.InputEntry,
) (domain.FileOutcome, error) {
	if err := s.limiter.Acquire(ctx); err != nil {
		return domain.FileOutcome{}, fmt.Errorf("acquire permit: %w", err)
	}

	sha, found, err := api.GetFileSHA(ctx, owner, repo, file.Path, branch)
	if err != nil {
		return domain.FileOutcome{}, fmt.Errorf("look up existing file: %w", err)
	}

	action := domain.FileCreated
	if found {
		action = domain.FileUpdated
	}

	commit, err := api.PutFile(ctx, owner, repo, domain.FileWrite{
		Path:    file.Path,
		Message: domain.CommitMessage(action, file.Path),
		Content: file.Content,
		SHA:     sha,
		Branch:  branch,
	})
	if err != nil {
		return domain.FileOutcome{}, err
	}

	return domain.FileOutcome{Path: file.Path, Action: action, CommitSHA: commit}, nil
}

// waitFor sleeps for d or until ctx is done.
func waitFor(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
