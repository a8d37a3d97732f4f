package services

import (
	"context"
	"errors"
	"io"
	"strings"
	"sync"

	"github.com/custodia-labs/repodrop/internal/core/domain"
	"github.com/custodia-labs/repodrop/internal/core/ports/driven"
)

// --- Mock implementations shared by the service tests ---

// mockRepositoryAPI implements driven.RepositoryAPI and records every call.
type mockRepositoryAPI struct {
	mu sync.Mutex

	login         string
	loginErr      error
	repos         []domain.Repository
	listErr       error
	createErr     error
	defaultBranch string
	getRepoErr    error
	headSHA       string
	getRefErr     error
	createRefErr  error
	existing      map[string]string // path -> blob sha
	lookupErr     map[string]error
	putErr        map[string]error
	prURL         string
	prErr         error

	calls      []string
	createdRef []string
	lookups    []string
	writes     []domain.FileWrite
	pulls      []domain.PullRequest
	created    []domain.RepoTarget
}

func newMockRepositoryAPI() *mockRepositoryAPI {
	return &mockRepositoryAPI{
		login:         "octocat",
		defaultBranch: "main",
		headSHA:       "base-sha",
		existing:      map[string]string{},
		lookupErr:     map[string]error{},
		putErr:        map[string]error{},
		prURL:         "https://github.com/octocat/site/pull/1",
	}
}

func (m *mockRepositoryAPI) record(call string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, call)
}

func (m *mockRepositoryAPI) AuthenticatedUser(_ context.Context) (string, error) {
	m.record("user")
	return m.login, m.loginErr
}

func (m *mockRepositoryAPI) ListRepositories(_ context.Context) ([]domain.Repository, error) {
	m.record("list")
	return m.repos, m.listErr
}

func (m *mockRepositoryAPI) CreateRepository(_ context.Context, target domain.RepoTarget) (*domain.Repository, error) {
	m.record("create")
	if m.createErr != nil {
		return nil, m.createErr
	}
	m.created = append(m.created, target)
	return &domain.Repository{
		Name:          target.Name,
		FullName:      m.login + "/" + target.Name,
		Owner:         m.login,
		Private:       target.Private,
		DefaultBranch: "main",
	}, nil
}

func (m *mockRepositoryAPI) GetRepository(_ context.Context, owner, repo string) (*domain.Repository, error) {
	m.record("repo")
	if m.getRepoErr != nil {
		return nil, m.getRepoErr
	}
	return &domain.Repository{Name: repo, FullName: owner + "/" + repo, Owner: owner, DefaultBranch: m.defaultBranch}, nil
}

func (m *mockRepositoryAPI) GetRef(_ context.Context, _, _, branch string) (string, error) {
	m.record("ref:" + branch)
	return m.headSHA, m.getRefErr
}

func (m *mockRepositoryAPI) CreateRef(_ context.Context, _, _, branch, sha string) error {
	m.record("branch")
	m.createdRef = append(m.createdRef, branch+"@"+sha)
	return m.createRefErr
}

func (m *mockRepositoryAPI) GetFileSHA(_ context.Context, _, _, path, branch string) (string, bool, error) {
	m.record("lookup")
	m.lookups = append(m.lookups, path+"@"+branch)
	if err := m.lookupErr[path]; err != nil {
		return "", false, err
	}
	sha, ok := m.existing[path]
	return sha, ok, nil
}

func (m *mockRepositoryAPI) PutFile(_ context.Context, _, _ string, write domain.FileWrite) (string, error) {
	m.record("put")
	if err := m.putErr[write.Path]; err != nil {
		return "", err
	}
	m.writes = append(m.writes, write)
	return "commit-" + write.Path, nil
}

func (m *mockRepositoryAPI) CreatePullRequest(_ context.Context, _, _ string, pr domain.PullRequest) (string, error) {
	m.record("pr")
	if m.prErr != nil {
		return "", m.prErr
	}
	m.pulls = append(m.pulls, pr)
	return m.prURL, nil
}

// callCount counts recorded calls with the given prefix.
func (m *mockRepositoryAPI) callCount(prefix string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, c := range m.calls {
		if strings.HasPrefix(c, prefix) {
			n++
		}
	}
	return n
}

// mockFactory implements driven.RepositoryAPIFactory.
type mockFactory struct {
	api    *mockRepositoryAPI
	err    error
	tokens []string
}

func (f *mockFactory) NewRepositoryAPI(_ context.Context, token string) (driven.RepositoryAPI, error) {
	f.tokens = append(f.tokens, token)
	if f.err != nil {
		return nil, f.err
	}
	return f.api, nil
}

// mockLimiter implements driven.RateLimiter and counts permits.
type mockLimiter struct {
	mu      sync.Mutex
	granted int
	failAt  int // 1-based permit that fails; 0 never fails
	err     error
}

func (l *mockLimiter) Acquire(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.failAt > 0 && l.granted+1 == l.failAt {
		return l.err
	}
	l.granted++
	return nil
}

func (l *mockLimiter) Granted() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.granted
}

// mockEntrySource implements driven.EntrySource.
type mockEntrySource struct {
	entries []domain.InputEntry
	err     error
	paths   []string
}

func (s *mockEntrySource) Collect(_ context.Context, paths []string) ([]domain.InputEntry, error) {
	s.paths = paths
	return s.entries, s.err
}

// mockArchiveReader implements driven.ArchiveReader with fixed members.
type mockArchiveReader struct {
	members []driven.ArchiveMember
	err     error
}

func (r *mockArchiveReader) ReadArchive(_ []byte) ([]driven.ArchiveMember, error) {
	return r.members, r.err
}

// mockMember implements driven.ArchiveMember.
type mockMember struct {
	name    string
	dir     bool
	content string
	size    uint64 // declared size; defaults to len(content)
	openErr error
	readErr error
}

func (m mockMember) Name() string { return m.name }
func (m mockMember) IsDir() bool  { return m.dir }

func (m mockMember) UncompressedSize() uint64 {
	if m.size > 0 {
		return m.size
	}
	return uint64(len(m.content))
}

func (m mockMember) Open() (io.ReadCloser, error) {
	if m.openErr != nil {
		return nil, m.openErr
	}
	if m.readErr != nil {
		return io.NopCloser(&failingReader{err: m.readErr}), nil
	}
	return io.NopCloser(strings.NewReader(m.content)), nil
}

type failingReader struct{ err error }

func (r *failingReader) Read(_ []byte) (int, error) { return 0, r.err }

var errBoom = errors.New("boom")
