// Package dropzone watches a folder and runs intake on whatever is dropped in.
package dropzone

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/custodia-labs/repodrop/internal/core/domain"
	"github.com/custodia-labs/repodrop/internal/core/ports/driving"
	"github.com/custodia-labs/repodrop/internal/logger"
)

var log = logger.For("dropzone")

// Batch is the intake report for one burst of changes.
type Batch struct {
	// Paths are the top-level items that changed, in lexical order.
	Paths  []string
	Result *domain.ProcessingResult
	Err    error
}

// Watcher turns file system changes under a folder into intake batches.
type Watcher struct {
	dir      string
	intake   driving.IntakeService
	debounce time.Duration
}

// New creates a watcher for dir.
func New(dir string, intake driving.IntakeService, debounce time.Duration) *Watcher {
	if debounce <= 0 {
		debounce = domain.DefaultSettings().DropZone.Debounce
	}
	return &Watcher{
		dir:      dir,
		intake:   intake,
		debounce: debounce,
	}
}

// Watch starts watching. Changes are grouped until the folder has been quiet
// for the debounce period, then each changed top-level item is processed.
// The channel is closed when ctx is cancelled.
func (w *Watcher) Watch(ctx context.Context) (<-chan Batch, error) {
	info, err := os.Stat(w.dir)
	if err != nil {
		return nil, fmt.Errorf("drop folder: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("drop folder: %s is not a directory", w.dir)
	}

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}
	if err := addTree(fw, w.dir); err != nil {
		_ = fw.Close()
		return nil, err
	}

	batches := make(chan Batch)
	go w.loop(ctx, fw, batches)
	return batches, nil
}

func (w *Watcher) loop(ctx context.Context, fw *fsnotify.Watcher, batches chan<- Batch) {
	defer close(batches)
	defer func() { _ = fw.Close() }()

	pending := make(map[string]struct{})
	timer := time.NewTimer(w.debounce)
	timer.Stop()
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return

		case event, ok := <-fw.Events:
			if !ok {
				return
			}
			top, ok := w.topLevel(event.Name)
			if !ok {
				continue
			}
			if event.Has(fsnotify.Create) {
				if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
					if err := addTree(fw, event.Name); err != nil {
						log.Warn("cannot watch %s: %v", event.Name, err)
					}
				}
			}
			pending[top] = struct{}{}
			timer.Reset(w.debounce)

		case err, ok := <-fw.Errors:
			if !ok {
				return
			}
			log.Warn("watch error: %v", err)

		case <-timer.C:
			paths := existing(pending)
			pending = make(map[string]struct{})
			if len(paths) == 0 {
				continue
			}

			log.Debug("processing %d dropped items", len(paths))
			result, err := w.intake.ProcessPaths(ctx, paths)
			select {
			case batches <- Batch{Paths: paths, Result: result, Err: err}:
			case <-ctx.Done():
				return
			}
		}
	}
}

// topLevel maps a changed path to the item directly inside the drop folder.
// Hidden files and anything under a hidden directory are ignored.
func (w *Watcher) topLevel(name string) (string, bool) {
	rel, err := filepath.Rel(w.dir, name)
	if err != nil || rel == "." || strings.HasPrefix(rel, "..") {
		return "", false
	}
	segments := strings.Split(filepath.ToSlash(rel), "/")
	for _, seg := range segments {
		if isHidden(seg) {
			return "", false
		}
	}
	return filepath.Join(w.dir, segments[0]), true
}

func isHidden(name string) bool {
	return strings.HasPrefix(name, ".") && name != "." && name != ".."
}

// addTree watches root and every directory below it.
func addTree(fw *fsnotify.Watcher, root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if path != root && isHidden(d.Name()) {
			return filepath.SkipDir
		}
		if err := fw.Add(path); err != nil {
			return fmt.Errorf("watch %s: %w", path, err)
		}
		return nil
	})
}

// existing returns the pending paths that are still present, sorted.
func existing(pending map[string]struct{}) []string {
	paths := make([]string, 0, len(pending))
	for p := range pending {
		if _, err := os.Stat(p); err == nil {
			paths = append(paths, p)
		}
	}
	sort.Strings(paths)
	return paths
}
