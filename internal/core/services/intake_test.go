package services

import (
	"bytes"
	"context"
	"fmt"
	"math"
	"testing"

	"github.com/klauspost/compress/zip"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/repodrop/internal/adapters/driven/archive/ziparchive"
	"github.com/custodia-labs/repodrop/internal/core/domain"
	"github.com/custodia-labs/repodrop/internal/core/ports/driven"
)

// zipEntry builds an in-memory archive entry; names ending in "/" become directories.
func zipEntry(t *testing.T, path string, members ...string) domain.InputEntry {
	t.Helper()
	var buf bytes.Buffer
	w := zip.NewWriter(&buf)
	for _, name := range members {
		fw, err := w.Create(name)
		require.NoError(t, err)
		if name[len(name)-1] != '/' {
			_, err = fw.Write([]byte("content of " + name))
			require.NoError(t, err)
		}
	}
	require.NoError(t, w.Close())
	return domain.NewInputEntry(path, buf.Bytes())
}

func newTestIntake() *IntakeService {
	return NewIntakeService(ziparchive.New(), nil, domain.IntakeSettings{})
}

func processedPaths(r *domain.ProcessingResult) []string {
	out := make([]string, 0, len(r.Processed))
	for _, e := range r.Processed {
		out = append(out, e.Path)
	}
	return out
}

func TestNewIntakeService_Defaults(t *testing.T) {
	s := NewIntakeService(ziparchive.New(), nil, domain.IntakeSettings{})

	defaults := domain.DefaultSettings().Intake
	assert.Equal(t, defaults.MaxMemberSize, s.maxMemberSize)
	assert.Equal(t, defaults.Workers, s.workers)
}

func TestNewIntakeService_ClampsMemberLimit(t *testing.T) {
	reader := &mockArchiveReader{members: []driven.ArchiveMember{
		mockMember{name: "a.txt", content: "hello"},
	}}
	s := NewIntakeService(reader, nil, domain.IntakeSettings{MaxMemberSize: math.MaxInt64})

	result, err := s.ExtractZip(context.Background(), domain.NewInputEntry("a.zip", nil))

	require.NoError(t, err)
	require.Len(t, result.Processed, 1)
	assert.Equal(t, int64(5), result.Processed[0].Size)
	assert.Equal(t, "hello", string(result.Processed[0].Content))
}

func TestIsNodeModulesPath(t *testing.T) {
	tests := []struct {
		path string
		want bool
	}{
		{"node_modules/x.js", true},
		{"a/node_modules/b.js", true},
		{"a/b/node_modules/c/d.js", true},
		{`a\node_modules\b.js`, true},
		{`node_modules\lodash\index.js`, true},
		{"src/index.js", false},
		{"my_node_modules/x.js", false},
		{"node_modules_backup/x.js", false},
		{"docs/node_modules.md", false},
		{"node_modules", false},
		{"", false},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			assert.Equal(t, tt.want, IsNodeModulesPath(tt.path))
		})
	}
}

func TestIntakeService_Process(t *testing.T) {
	ctx := context.Background()

	t.Run("plain files pass through in order", func(t *testing.T) {
		entries := []domain.InputEntry{
			domain.NewInputEntry("b.txt", []byte("b")),
			domain.NewInputEntry("src/a.go", []byte("a")),
		}

		result, err := newTestIntake().Process(ctx, entries)

		require.NoError(t, err)
		assert.Equal(t, entries, result.Processed)
		assert.Empty(t, result.Excluded)
	})

	t.Run("node_modules entries are excluded", func(t *testing.T) {
		entries := []domain.InputEntry{
			domain.NewInputEntry("a/node_modules/b.js", []byte("x")),
			domain.NewInputEntry("node_modules/x.js", []byte("x")),
			domain.NewInputEntry("index.js", []byte("x")),
		}

		result, err := newTestIntake().Process(ctx, entries)

		require.NoError(t, err)
		assert.Equal(t, []string{"index.js"}, processedPaths(result))
		require.Len(t, result.Excluded, 2)
		for _, ex := range result.Excluded {
			assert.Equal(t, domain.ExclusionNodeModules, ex.Kind)
			assert.Contains(t, ex.Reason, "node_modules")
			assert.Equal(t, domain.ReasonNodeModules, ex.Reason)
		}
		assert.Equal(t, "a/node_modules/b.js", result.Excluded[0].File)
	})

	t.Run("paths leaving the root are excluded", func(t *testing.T) {
		entries := []domain.InputEntry{
			domain.NewInputEntry("../secret.txt", []byte("x")),
			domain.NewInputEntry("docs/release..notes.md", []byte("notes")),
		}

		result, err := newTestIntake().Process(ctx, entries)

		require.NoError(t, err)
		assert.Equal(t, []string{"docs/release..notes.md"}, processedPaths(result))
		require.Len(t, result.Excluded, 1)
		assert.Equal(t, "../secret.txt", result.Excluded[0].File)
		assert.Equal(t, domain.ExclusionUnsafePath, result.Excluded[0].Kind)
		assert.Equal(t, domain.ReasonUnsafePath, result.Excluded[0].Reason)
	})

	t.Run("zip archives are expanded in place", func(t *testing.T) {
		entries := []domain.InputEntry{
			domain.NewInputEntry("first.txt", []byte("1")),
			zipEntry(t, "bundle.zip", "app/", "app/main.go", "app/node_modules/dep/index.js"),
			domain.NewInputEntry("last.txt", []byte("2")),
		}

		result, err := newTestIntake().Process(ctx, entries)

		require.NoError(t, err)
		assert.Equal(t, []string{"first.txt", "app/main.go", "last.txt"}, processedPaths(result))
		require.Len(t, result.Excluded, 1)
		assert.Equal(t, "app/node_modules/dep/index.js", result.Excluded[0].File)
		assert.Equal(t, domain.ReasonNodeModulesInZip, result.Excluded[0].Reason)
	})

	t.Run("corrupt archive is recorded and the batch continues", func(t *testing.T) {
		entries := []domain.InputEntry{
			domain.NewInputEntry("broken.zip", []byte("definitely not a zip")),
			domain.NewInputEntry("ok.txt", []byte("ok")),
		}

		result, err := newTestIntake().Process(ctx, entries)

		require.NoError(t, err)
		assert.Equal(t, []string{"ok.txt"}, processedPaths(result))
		require.Len(t, result.Excluded, 1)
		assert.Equal(t, "broken.zip", result.Excluded[0].File)
		assert.Equal(t, domain.ExclusionProcessing, result.Excluded[0].Kind)
		assert.Equal(t, "Error: invalid or corrupted ZIP file", result.Excluded[0].Reason)
	})

	t.Run("empty archive is recorded", func(t *testing.T) {
		result, err := newTestIntake().Process(ctx, []domain.InputEntry{zipEntry(t, "empty.zip", "only-a-dir/")})

		require.NoError(t, err)
		assert.Empty(t, result.Processed)
		require.Len(t, result.Excluded, 1)
		assert.Equal(t, "Error: no valid files found in the ZIP archive", result.Excluded[0].Reason)
	})

	t.Run("upper-case extension is not treated as an archive", func(t *testing.T) {
		entry := domain.NewInputEntry("ARCHIVE.ZIP", []byte("raw"))

		result, err := newTestIntake().Process(ctx, []domain.InputEntry{entry})

		require.NoError(t, err)
		assert.Equal(t, []string{"ARCHIVE.ZIP"}, processedPaths(result))
	})

	t.Run("empty input", func(t *testing.T) {
		result, err := newTestIntake().Process(ctx, nil)

		require.NoError(t, err)
		assert.True(t, result.IsEmpty())
	})

	t.Run("cancelled context", func(t *testing.T) {
		cctx, cancel := context.WithCancel(ctx)
		cancel()

		_, err := newTestIntake().Process(cctx, []domain.InputEntry{domain.NewInputEntry("a", nil)})

		assert.ErrorIs(t, err, context.Canceled)
	})
}

func TestIntakeService_ExtractZip(t *testing.T) {
	ctx := context.Background()
	archive := domain.NewInputEntry("a.zip", []byte("zip"))

	t.Run("one valid and one node_modules member", func(t *testing.T) {
		entry := zipEntry(t, "a.zip", "src/index.js", "node_modules/lodash/index.js")

		result, err := newTestIntake().ExtractZip(ctx, entry)

		require.NoError(t, err)
		require.Len(t, result.Processed, 1)
		assert.Equal(t, "src/index.js", result.Processed[0].Path)
		assert.Equal(t, "content of src/index.js", string(result.Processed[0].Content))
		assert.Equal(t, int64(len("content of src/index.js")), result.Processed[0].Size)
		require.Len(t, result.Excluded, 1)
		assert.Contains(t, result.Excluded[0].Reason, "in ZIP")
	})

	t.Run("preserves central directory order under concurrency", func(t *testing.T) {
		var names []string
		for i := 0; i < 50; i++ {
			names = append(names, fmt.Sprintf("dir/file-%02d.txt", i))
		}
		entry := zipEntry(t, "many.zip", names...)
		s := NewIntakeService(ziparchive.New(), nil, domain.IntakeSettings{Workers: 4})

		result, err := s.ExtractZip(ctx, entry)

		require.NoError(t, err)
		assert.Equal(t, names, processedPaths(result))
	})

	t.Run("member failures become exclusions", func(t *testing.T) {
		reader := &mockArchiveReader{members: []driven.ArchiveMember{
			mockMember{name: "good.txt", content: "fine"},
			mockMember{name: "bad-open.txt", openErr: errBoom},
			mockMember{name: "bad-read.txt", content: "x", readErr: errBoom},
			mockMember{name: "folder/", dir: true},
		}}
		s := NewIntakeService(reader, nil, domain.IntakeSettings{})

		result, err := s.ExtractZip(ctx, archive)

		require.NoError(t, err)
		assert.Equal(t, []string{"good.txt"}, processedPaths(result))
		require.Len(t, result.Excluded, 2)
		assert.Equal(t, "bad-open.txt", result.Excluded[0].File)
		assert.Equal(t, domain.ExclusionExtraction, result.Excluded[0].Kind)
		assert.Equal(t, "Error extracting from ZIP: boom", result.Excluded[0].Reason)
		assert.Equal(t, "bad-read.txt", result.Excluded[1].File)
	})

	t.Run("member names are normalised and checked", func(t *testing.T) {
		reader := &mockArchiveReader{members: []driven.ArchiveMember{
			mockMember{name: `src\app\index.js`, content: "js"},
			mockMember{name: "../x", content: "escape"},
			mockMember{name: `..\..\evil.txt`, content: "escape"},
			mockMember{name: "docs/release..notes.md", content: "notes"},
			mockMember{name: `web\node_modules\dep.js`, content: "dep"},
		}}
		s := NewIntakeService(reader, nil, domain.IntakeSettings{})

		result, err := s.ExtractZip(ctx, archive)

		require.NoError(t, err)
		assert.Equal(t, []string{"src/app/index.js", "docs/release..notes.md"}, processedPaths(result))
		require.Len(t, result.Excluded, 3)
		assert.Equal(t, "../x", result.Excluded[0].File)
		assert.Equal(t, domain.ExclusionUnsafePath, result.Excluded[0].Kind)
		assert.Equal(t, "../../evil.txt", result.Excluded[1].File)
		assert.Equal(t, domain.ExclusionUnsafePath, result.Excluded[1].Kind)
		assert.Equal(t, "web/node_modules/dep.js", result.Excluded[2].File)
		assert.Equal(t, domain.ExclusionNodeModules, result.Excluded[2].Kind)
	})

	t.Run("oversized members are excluded", func(t *testing.T) {
		reader := &mockArchiveReader{members: []driven.ArchiveMember{
			mockMember{name: "declared.bin", content: "x", size: 1 << 30},
			mockMember{name: "lying.bin", content: "0123456789abcdef", size: 1},
			mockMember{name: "small.txt", content: "ok"},
		}}
		s := NewIntakeService(reader, nil, domain.IntakeSettings{MaxMemberSize: 8})

		result, err := s.ExtractZip(ctx, archive)

		require.NoError(t, err)
		assert.Equal(t, []string{"small.txt"}, processedPaths(result))
		require.Len(t, result.Excluded, 2)
		for _, ex := range result.Excluded {
			assert.Equal(t, domain.ExclusionTooLarge, ex.Kind)
			assert.Contains(t, ex.Reason, "8 B")
		}
	})

	t.Run("invalid archive", func(t *testing.T) {
		_, err := newTestIntake().ExtractZip(ctx, domain.NewInputEntry("x.zip", []byte("garbage")))

		assert.ErrorIs(t, err, domain.ErrInvalidZip)
	})

	t.Run("directories only", func(t *testing.T) {
		reader := &mockArchiveReader{members: []driven.ArchiveMember{mockMember{name: "a/", dir: true}}}

		_, err := NewIntakeService(reader, nil, domain.IntakeSettings{}).ExtractZip(ctx, archive)

		assert.ErrorIs(t, err, domain.ErrEmptyZip)
	})

	t.Run("other read failures are wrapped", func(t *testing.T) {
		reader := &mockArchiveReader{err: errBoom}

		_, err := NewIntakeService(reader, nil, domain.IntakeSettings{}).ExtractZip(ctx, archive)

		require.Error(t, err)
		assert.ErrorIs(t, err, errBoom)
		assert.Contains(t, err.Error(), "failed to process ZIP file")
	})
}

func TestIntakeService_ProcessPaths(t *testing.T) {
	t.Run("collects then processes", func(t *testing.T) {
		source := &mockEntrySource{entries: []domain.InputEntry{
			domain.NewInputEntry("proj/node_modules/a.js", []byte("a")),
			domain.NewInputEntry("proj/main.go", []byte("m")),
		}}
		s := NewIntakeService(ziparchive.New(), source, domain.IntakeSettings{})

		result, err := s.ProcessPaths(context.Background(), []string{"/tmp/proj"})

		require.NoError(t, err)
		assert.Equal(t, []string{"/tmp/proj"}, source.paths)
		assert.Equal(t, []string{"proj/main.go"}, processedPaths(result))
		assert.Len(t, result.Excluded, 1)
	})

	t.Run("collect failure", func(t *testing.T) {
		s := NewIntakeService(ziparchive.New(), &mockEntrySource{err: errBoom}, domain.IntakeSettings{})

		_, err := s.ProcessPaths(context.Background(), []string{"x"})

		assert.ErrorIs(t, err, errBoom)
	})

	t.Run("no entry source", func(t *testing.T) {
		_, err := newTestIntake().ProcessPaths(context.Background(), []string{"x"})

		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	})
}
