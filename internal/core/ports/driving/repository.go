package driving

import (
	"context"

	"github.com/custodia-labs/repodrop/internal/core/domain"
)

// RepositoryService manages the user's GitHub repositories.
type RepositoryService interface {
	// List returns the authenticated user's repositories, most recently updated first.
	List(ctx context.Context, token string) ([]domain.Repository, error)

	// Create creates a new repository.
	Create(ctx context.Context, token string, target domain.RepoTarget) (*domain.Repository, error)

	// Publish creates a repository and uploads files straight to its default branch.
	Publish(
		ctx context.Context, token string, target domain.RepoTarget, files []domain.InputEntry,
	) (*domain.Repository, *domain.UploadResult, error)
}
