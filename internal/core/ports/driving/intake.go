package driving

import (
	"context"

	"github.com/custodia-labs/repodrop/internal/core/domain"
)

// IntakeService turns dropped input into a flat, filtered file list.
type IntakeService interface {
	// Process filters entries and expands ZIP archives.
	// A bad entry is recorded in the exclusion report and never aborts the batch.
	Process(ctx context.Context, entries []domain.InputEntry) (*domain.ProcessingResult, error)

	// ProcessPaths collects files and folders from the given paths, then processes them.
	ProcessPaths(ctx context.Context, paths []string) (*domain.ProcessingResult, error)

	// ExtractZip expands a single archive.
	ExtractZip(ctx context.Context, archive domain.InputEntry) (*domain.ProcessingResult, error)
}
