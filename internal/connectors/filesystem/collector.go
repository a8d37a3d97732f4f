// Package filesystem resolves dropped files and folders into intake entries.
package filesystem

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/dustin/go-humanize"

	"github.com/custodia-labs/repodrop/internal/core/domain"
	"github.com/custodia-labs/repodrop/internal/core/ports/driven"
	"github.com/custodia-labs/repodrop/internal/logger"
)

// Ensure Collector implements the interface.
var _ driven.EntrySource = (*Collector)(nil)

var log = logger.For("filesystem")

// Collector reads files and walks folders from the local disk.
type Collector struct{}

// New creates a new filesystem collector.
func New() *Collector {
	return &Collector{}
}

// Collect reads every given path. A file becomes one entry; a folder is walked
// recursively. Entry paths are relative to the dropped item's parent, so a
// dropped folder keeps its own name as the first segment.
func (c *Collector) Collect(ctx context.Context, paths []string) ([]domain.InputEntry, error) {
	var entries []domain.InputEntry
	for _, p := range paths {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		abs, err := filepath.Abs(p)
		if err != nil {
			return nil, fmt.Errorf("resolve %s: %w", p, err)
		}
		info, err := os.Stat(abs)
		if err != nil {
			return nil, fmt.Errorf("stat %s: %w", p, err)
		}

		if !info.IsDir() {
			entry, err := readEntry(filepath.Base(abs), abs)
			if err != nil {
				return nil, err
			}
			entries = append(entries, entry)
			continue
		}

		// WalkDir does not follow a symlinked root.
		root, err := filepath.EvalSymlinks(abs)
		if err != nil {
			return nil, fmt.Errorf("resolve %s: %w", p, err)
		}
		walked, err := walk(ctx, filepath.Base(abs), root)
		if err != nil {
			return nil, err
		}
		entries = append(entries, walked...)
	}

	var total int64
	for _, e := range entries {
		total += e.Size
	}
	log.Debug("collected %d files (%s) from %d paths", len(entries), humanize.IBytes(uint64(total)), len(paths))
	return entries, nil
}

// walk enumerates the regular files under root in lexical order. Entry
// paths start with name, the folder's name as dropped.
func walk(ctx context.Context, name, root string) ([]domain.InputEntry, error) {
	var entries []domain.InputEntry
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		if d.IsDir() || !d.Type().IsRegular() {
			return nil
		}

		rel, err := filepath.Rel(root, path)
		if err != nil {
			return fmt.Errorf("relative path for %s: %w", path, err)
		}
		entry, err := readEntry(filepath.Join(name, rel), path)
		if err != nil {
			return err
		}
		entries = append(entries, entry)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk %s: %w", root, err)
	}
	return entries, nil
}

// readEntry reads the file at path into an entry named rel.
func readEntry(rel, path string) (domain.InputEntry, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return domain.InputEntry{}, fmt.Errorf("read %s: %w", path, err)
	}
	return domain.NewInputEntry(filepath.ToSlash(rel), content), nil
}
