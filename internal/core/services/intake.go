package services

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/dustin/go-humanize"
	"golang.org/x/sync/errgroup"

	"github.com/custodia-labs/repodrop/internal/core/domain"
	"github.com/custodia-labs/repodrop/internal/core/ports/driven"
	"github.com/custodia-labs/repodrop/internal/core/ports/driving"
	"github.com/custodia-labs/repodrop/internal/logger"
)

// Ensure IntakeService implements the interface.
var _ driving.IntakeService = (*IntakeService)(nil)

const nodeModulesSegment = "node_modules"

// maxMemberLimit leaves room for the one-byte overrun read that detects
// oversized members.
const maxMemberLimit = math.MaxInt64 - 1

var intakeLog = logger.For("intake")

// IntakeService filters dropped entries and expands ZIP archives.
type IntakeService struct {
	archives      driven.ArchiveReader
	source        driven.EntrySource
	maxMemberSize int64
	workers       int
}

// NewIntakeService creates a new intake service.
// source may be nil when only in-memory entries are processed.
func NewIntakeService(archives driven.ArchiveReader, source driven.EntrySource, settings domain.IntakeSettings) *IntakeService {
	defaults := domain.DefaultSettings().Intake
	if settings.MaxMemberSize <= 0 {
		settings.MaxMemberSize = defaults.MaxMemberSize
	}
	if settings.MaxMemberSize > maxMemberLimit {
		settings.MaxMemberSize = maxMemberLimit
	}
	if settings.Workers <= 0 {
		settings.Workers = defaults.Workers
	}
	return &IntakeService{
		archives:      archives,
		source:        source,
		maxMemberSize: settings.MaxMemberSize,
		workers:       settings.Workers,
	}
}

// ProcessPaths collects the given files and folders and processes them.
func (s *IntakeService) ProcessPaths(ctx context.Context, paths []string) (*domain.ProcessingResult, error) {
	if s.source == nil {
		return nil, fmt.Errorf("collect entries: %w: no entry source configured", domain.ErrInvalidInput)
	}
	entries, err := s.source.Collect(ctx, paths)
	if err != nil {
		return nil, fmt.Errorf("collect entries: %w", err)
	}
	return s.Process(ctx, entries)
}

// Process filters entries in order. ZIP archives are expanded in place.
// Failures are recorded as exclusions; only cancellation returns an error.
func (s *IntakeService) Process(ctx context.Context, entries []domain.InputEntry) (*domain.ProcessingResult, error) {
	result := &domain.ProcessingResult{}

	for _, entry := range entries {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		if entry.IsZip() {
			extracted, err := s.ExtractZip(ctx, entry)
			if err != nil {
				if ctxErr := ctx.Err(); ctxErr != nil {
					return nil, ctxErr
				}
				intakeLog.Warn("skipping archive %s: %v", entry.Path, err)
				result.Excluded = append(result.Excluded, domain.Exclusion{
					File:   entry.Path,
					Kind:   domain.ExclusionProcessing,
					Reason: "Error: " + err.Error(),
				})
				continue
			}
			result.Merge(extracted)
			continue
		}

		if domain.IsUnsafePath(entry.Path) {
			result.Excluded = append(result.Excluded, domain.Exclusion{
				File:   entry.Path,
				Kind:   domain.ExclusionUnsafePath,
				Reason: domain.ReasonUnsafePath,
			})
			continue
		}
		if IsNodeModulesPath(entry.Path) {
			result.Excluded = append(result.Excluded, domain.Exclusion{
				File:   entry.Path,
				Kind:   domain.ExclusionNodeModules,
				Reason: domain.ReasonNodeModules,
			})
			continue
		}
		result.Processed = append(result.Processed, entry)
	}

	intakeLog.Debug("processed %d entries: %d accepted, %d excluded",
		len(entries), len(result.Processed), len(result.Excluded))
	return result, nil
}

// memberResult is the outcome for one archive member, kept by index so the
// merged result follows central-directory order.
type memberResult struct {
	entry     *domain.InputEntry
	exclusion *domain.Exclusion
}

// ExtractZip expands one archive. Member failures become exclusions.
// It fails with domain.ErrInvalidZip for an unreadable archive and
// domain.ErrEmptyZip when nothing at all comes out of it.
func (s *IntakeService) ExtractZip(ctx context.Context, archive domain.InputEntry) (*domain.ProcessingResult, error) {
	members, err := s.archives.ReadArchive(archive.Content)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidZip) {
			return nil, domain.ErrInvalidZip
		}
		return nil, fmt.Errorf("failed to process ZIP file: %w", err)
	}

	slots := make([]memberResult, len(members))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.workers)
	for i, member := range members {
		if member.IsDir() {
			continue
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			slots[i] = s.extractMember(member)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	result := &domain.ProcessingResult{}
	for _, slot := range slots {
		switch {
		case slot.entry != nil:
			result.Processed = append(result.Processed, *slot.entry)
		case slot.exclusion != nil:
			result.Excluded = append(result.Excluded, *slot.exclusion)
		}
	}

	if result.IsEmpty() {
		return nil, domain.ErrEmptyZip
	}

	intakeLog.Debug("extracted %s: %d files (%s), %d excluded", archive.Path,
		len(result.Processed), humanize.IBytes(uint64(result.TotalSize())), len(result.Excluded))
	return result, nil
}

func (s *IntakeService) extractMember(member driven.ArchiveMember) memberResult {
	name := domain.NormalizePath(member.Name())

	if domain.IsUnsafePath(name) {
		return exclude(name, domain.ExclusionUnsafePath, domain.ReasonUnsafePath)
	}
	if IsNodeModulesPath(name) {
		return exclude(name, domain.ExclusionNodeModules, domain.ReasonNodeModulesInZip)
	}
	if member.UncompressedSize() > uint64(s.maxMemberSize) {
		return exclude(name, domain.ExclusionTooLarge, s.tooLargeReason())
	}

	rc, err := member.Open()
	if err != nil {
		return exclude(name, domain.ExclusionExtraction, "Error extracting from ZIP: "+err.Error())
	}
	defer func() { _ = rc.Close() }()

	// Declared sizes can lie; never read past the limit.
	var buf bytes.Buffer
	n, err := io.Copy(&buf, io.LimitReader(rc, s.maxMemberSize+1))
	if err != nil {
		return exclude(name, domain.ExclusionExtraction, "Error extracting from ZIP: "+err.Error())
	}
	if n > s.maxMemberSize {
		return exclude(name, domain.ExclusionTooLarge, s.tooLargeReason())
	}

	entry := domain.NewInputEntry(name, buf.Bytes())
	return memberResult{entry: &entry}
}

func (s *IntakeService) tooLargeReason() string {
	return fmt.Sprintf("file exceeds the %s size limit", humanize.IBytes(uint64(s.maxMemberSize)))
}

func exclude(file string, kind domain.ExclusionKind, reason string) memberResult {
	return memberResult{exclusion: &domain.Exclusion{File: file, Kind: kind, Reason: reason}}
}

// IsNodeModulesPath reports whether path has node_modules as a whole
// directory segment. Backslashes are treated as separators.
func IsNodeModulesPath(path string) bool {
	segments := strings.Split(domain.NormalizePath(path), "/")
	for _, seg := range segments[:len(segments)-1] {
		if seg == nodeModulesSegment {
			return true
		}
	}
	return false
}
