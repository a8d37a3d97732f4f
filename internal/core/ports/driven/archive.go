package driven

import "io"

// ArchiveReader opens ZIP archives held in memory.
type ArchiveReader interface {
	// ReadArchive parses the central directory and lists every member.
	// Errors for malformed archives satisfy errors.Is(err, domain.ErrInvalidZip).
	ReadArchive(data []byte) ([]ArchiveMember, error)
}

// ArchiveMember is a single entry of an archive.
// Members may be opened concurrently.
type ArchiveMember interface {
	// Name is the member's internal path.
	Name() string

	// IsDir reports whether the member is a directory entry.
	IsDir() bool

	// UncompressedSize is the size declared in the central directory.
	UncompressedSize() uint64

	// Open returns a reader over the decompressed bytes.
	Open() (io.ReadCloser, error)
}
