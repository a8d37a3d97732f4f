package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/custodia-labs/repodrop/internal/core/domain"
	"github.com/custodia-labs/repodrop/internal/core/ports/driven"
	"github.com/custodia-labs/repodrop/internal/core/ports/driving"
)

// Ensure RepositoryService implements the interface.
var _ driving.RepositoryService = (*RepositoryService)(nil)

// RepositoryService lists and creates repositories for the token's owner.
type RepositoryService struct {
	factory driven.RepositoryAPIFactory
	uploads driving.UploadService
}

// NewRepositoryService creates a new repository service.
func NewRepositoryService(factory driven.RepositoryAPIFactory, uploads driving.UploadService) *RepositoryService {
	return &RepositoryService{
		factory: factory,
		uploads: uploads,
	}
}

// List returns the user's repositories, most recently updated first.
func (s *RepositoryService) List(ctx context.Context, token string) ([]domain.Repository, error) {
	api, err := s.client(ctx, token)
	if err != nil {
		return nil, err
	}

	repos, err := api.ListRepositories(ctx)
	if err != nil {
		return nil, fmt.Errorf("list repositories: %w", err)
	}
	return repos, nil
}

// Create creates a repository. A rejected name is reported as
// domain.ErrRepoNameUnavailable.
func (s *RepositoryService) Create(ctx context.Context, token string, target domain.RepoTarget) (*domain.Repository, error) {
	if target.Name == "" {
		return nil, fmt.Errorf("%w: repository name is required", domain.ErrInvalidInput)
	}

	api, err := s.client(ctx, token)
	if err != nil {
		return nil, err
	}

	repo, err := api.CreateRepository(ctx, target)
	if err != nil {
		if errors.Is(err, domain.ErrUnprocessable) {
			return nil, domain.ErrRepoNameUnavailable
		}
		return nil, fmt.Errorf("create repository: %w", err)
	}
	return repo, nil
}

// Publish creates a repository and uploads files to it.
// When the upload fails the created repository is returned with the error.
func (s *RepositoryService) Publish(
	ctx context.Context,
	token string,
	target domain.RepoTarget,
	files []domain.InputEntry,
) (*domain.Repository, *domain.UploadResult, error) {
	repo, err := s.Create(ctx, token, target)
	if err != nil {
		return nil, nil, err
	}

	name := repo.FullName
	if name == "" {
		name = repo.Name
	}
	result, err := s.uploads.Upload(ctx, token, domain.UploadRequest{
		RepoName:     name,
		Files:        files,
		ExistingRepo: false,
	})
	if err != nil {
		return repo, nil, err
	}
	return repo, result, nil
}

func (s *RepositoryService) client(ctx context.Context, token string) (driven.RepositoryAPI, error) {
	if token == "" {
		return nil, domain.ErrTokenRequired
	}
	api, err := s.factory.NewRepositoryAPI(ctx, token)
	if err != nil {
		return nil, fmt.Errorf("create client: %w", err)
	}
	return api, nil
}
