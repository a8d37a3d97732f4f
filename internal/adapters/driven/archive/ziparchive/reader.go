// Package ziparchive reads in-memory ZIP archives for the intake pipeline.
package ziparchive

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"github.com/klauspost/compress/zip"

	"github.com/custodia-labs/repodrop/internal/core/domain"
	"github.com/custodia-labs/repodrop/internal/core/ports/driven"
)

// Ensure Reader implements the interface.
var _ driven.ArchiveReader = (*Reader)(nil)

// Reader implements driven.ArchiveReader using klauspost/compress/zip.
type Reader struct{}

// New creates a new Reader adapter.
func New() *Reader {
	return &Reader{}
}

// ReadArchive parses the central directory of data.
// A missing or unreadable central directory is reported as domain.ErrInvalidZip.
func (r *Reader) ReadArchive(data []byte) ([]driven.ArchiveMember, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		if errors.Is(err, zip.ErrFormat) {
			return nil, fmt.Errorf("%w: %v", domain.ErrInvalidZip, err)
		}
		return nil, err
	}

	members := make([]driven.ArchiveMember, 0, len(zr.File))
	for _, f := range zr.File {
		members = append(members, member{f: f})
	}
	return members, nil
}

// member adapts a *zip.File. Each Open gets its own decompressor,
// so members can be read concurrently.
type member struct {
	f *zip.File
}

func (m member) Name() string {
	return m.f.Name
}

func (m member) IsDir() bool {
	return m.f.FileInfo().IsDir()
}

func (m member) UncompressedSize() uint64 {
	return m.f.UncompressedSize64
}

func (m member) Open() (io.ReadCloser, error) {
	return m.f.Open()
}
