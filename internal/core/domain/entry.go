package domain

import "strings"

// InputEntry is a named blob captured from a file, a folder walk or a ZIP member.
// Path uses "/" separators to denote directory structure.
// Entries are read-only once captured.
type InputEntry struct {
	Path    string
	Size    int64
	Content []byte
}

// NewInputEntry builds an entry whose Size matches its content.
func NewInputEntry(path string, content []byte) InputEntry {
	return InputEntry{
		Path:    path,
		Size:    int64(len(content)),
		Content: content,
	}
}

// NormalizePath converts backslash separators to "/".
func NormalizePath(path string) string {
	return strings.ReplaceAll(path, `\`, "/")
}

// IsUnsafePath reports whether path cannot be written under a repository
// root: it is empty, absolute, or has a ".." segment. Dots inside a name,
// as in "release..notes.md", are allowed.
func IsUnsafePath(path string) bool {
	p := NormalizePath(path)
	if p == "" || strings.HasPrefix(p, "/") {
		return true
	}
	for _, seg := range strings.Split(p, "/") {
		if seg == ".." {
			return true
		}
	}
	return false
}

// IsZip reports whether the entry should be expanded as a ZIP archive.
func (e InputEntry) IsZip() bool {
	return strings.HasSuffix(e.Path, ".zip")
}

// ExclusionKind classifies why an entry was left out of an upload.
type ExclusionKind string

// Exclusion kinds.
const (
	// ExclusionNodeModules marks entries under a node_modules directory,
	// either dropped directly or found inside a ZIP archive.
	ExclusionNodeModules ExclusionKind = "node_modules"

	// ExclusionExtraction marks ZIP members that could not be decompressed.
	ExclusionExtraction ExclusionKind = "extraction"

	// ExclusionTooLarge marks ZIP members above the configured size limit.
	ExclusionTooLarge ExclusionKind = "too_large"

	// ExclusionUnsafePath marks entries whose path would leave the
	// repository root.
	ExclusionUnsafePath ExclusionKind = "unsafe_path"

	// ExclusionProcessing marks any other failure while handling an entry.
	ExclusionProcessing ExclusionKind = "processing"
)

// Human-readable exclusion reasons.
const (
	ReasonNodeModules      = "node_modules folder detected"
	ReasonNodeModulesInZip = "node_modules folder detected in ZIP"
	ReasonUnsafePath       = "path leaves the repository root"
)

// Exclusion records an entry deliberately omitted from upload.
type Exclusion struct {
	// File is the path of the excluded entry.
	File string

	// Kind is the machine-readable cause.
	Kind ExclusionKind

	// Reason is the message shown to the user.
	Reason string
}

// ProcessingResult is the output of one intake call.
type ProcessingResult struct {
	Processed []InputEntry
	Excluded  []Exclusion
}

// Merge appends another result's lists onto r.
func (r *ProcessingResult) Merge(other *ProcessingResult) {
	if other == nil {
		return
	}
	r.Processed = append(r.Processed, other.Processed...)
	r.Excluded = append(r.Excluded, other.Excluded...)
}

// IsEmpty reports whether the result holds neither files nor exclusions.
func (r *ProcessingResult) IsEmpty() bool {
	return len(r.Processed) == 0 && len(r.Excluded) == 0
}

// TotalSize sums the sizes of the processed entries.
func (r *ProcessingResult) TotalSize() int64 {
	var total int64
	for _, e := range r.Processed {
		total += e.Size
	}
	return total
}
