package driving

import (
	"context"

	"github.com/custodia-labs/repodrop/internal/core/domain"
)

// UploadService materialises files in a GitHub repository.
type UploadService interface {
	// Upload writes every file in order. For an existing repository the files
	// go to a new working branch and a pull request is opened.
	Upload(ctx context.Context, token string, req domain.UploadRequest) (*domain.UploadResult, error)
}
