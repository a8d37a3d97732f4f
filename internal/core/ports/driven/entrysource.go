package driven

import (
	"context"

	"github.com/custodia-labs/repodrop/internal/core/domain"
)

// EntrySource resolves dropped items (files or folders) into a flat entry list.
type EntrySource interface {
	Collect(ctx context.Context, paths []string) ([]domain.InputEntry, error)
}
