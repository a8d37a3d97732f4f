package cli

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/fatih/color"

	"github.com/custodia-labs/repodrop/internal/core/domain"
)

// mockIntakeService implements driving.IntakeService for testing.
type mockIntakeService struct {
	result *domain.ProcessingResult
	err    error
	paths  []string
}

func (m *mockIntakeService) Process(_ context.Context, entries []domain.InputEntry) (*domain.ProcessingResult, error) {
	return &domain.ProcessingResult{Processed: entries}, nil
}

func (m *mockIntakeService) ProcessPaths(_ context.Context, paths []string) (*domain.ProcessingResult, error) {
	m.paths = paths
	if m.err != nil {
		return nil, m.err
	}
	return m.result, nil
}

func (m *mockIntakeService) ExtractZip(_ context.Context, _ domain.InputEntry) (*domain.ProcessingResult, error) {
	return nil, nil
}

// mockUploadService implements driving.UploadService for testing.
type mockUploadService struct {
	result *domain.UploadResult
	err    error
	token  string
	req    domain.UploadRequest
}

func (m *mockUploadService) Upload(_ context.Context, token string, req domain.UploadRequest) (*domain.UploadResult, error) {
	m.token = token
	m.req = req
	return m.result, m.err
}

// mockRepositoryService implements driving.RepositoryService for testing.
type mockRepositoryService struct {
	repos      []domain.Repository
	created    *domain.Repository
	err        error
	publishErr error
	target     domain.RepoTarget
	files      []domain.InputEntry
	token      string
}

func (m *mockRepositoryService) List(_ context.Context, token string) ([]domain.Repository, error) {
	m.token = token
	return m.repos, m.err
}

func (m *mockRepositoryService) Create(_ context.Context, token string, target domain.RepoTarget) (*domain.Repository, error) {
	m.token = token
	m.target = target
	if m.err != nil {
		return nil, m.err
	}
	return m.created, nil
}

func (m *mockRepositoryService) Publish(
	_ context.Context, token string, target domain.RepoTarget, files []domain.InputEntry,
) (*domain.Repository, *domain.UploadResult, error) {
	m.token = token
	m.target = target
	m.files = files
	if m.err != nil {
		return nil, nil, m.err
	}
	if m.publishErr != nil {
		return m.created, nil, m.publishErr
	}
	return m.created, &domain.UploadResult{Owner: "octocat", Repo: target.Name, Files: []domain.FileOutcome{
		{Path: "a.txt", Action: domain.FileCreated},
	}}, nil
}

// mockSettingsService implements driving.SettingsService for testing.
type mockSettingsService struct {
	values map[string]string
	setErr error
}

func (m *mockSettingsService) Get() (*domain.Settings, error) {
	s := domain.DefaultSettings()
	s.DropZone.Debounce = 20 * time.Millisecond
	return &s, nil
}

func (m *mockSettingsService) Set(key, value string) error {
	if m.setErr != nil {
		return m.setErr
	}
	m.values[key] = value
	return nil
}

func (m *mockSettingsService) Value(key string) (string, error) {
	v, ok := m.values[key]
	if !ok {
		return "", domain.ErrInvalidInput
	}
	return v, nil
}

func (m *mockSettingsService) Keys() []string {
	return []string{"upload.base_branch", "upload.grace_period"}
}

func (m *mockSettingsService) Path() string {
	return "/home/test/.repodrop/config.toml"
}

var errMock = errors.New("mock failure")

type testServices struct {
	intake     *mockIntakeService
	upload     *mockUploadService
	repository *mockRepositoryService
	settings   *mockSettingsService
}

// setupCLITest installs mocks, clears flags and the token environment, and
// restores everything when the test ends.
func setupCLITest(t *testing.T) *testServices {
	t.Helper()

	oldIntake, oldUpload, oldRepo, oldSettings := intakeService, uploadService, repositoryService, settingsService
	t.Setenv(TokenEnv, "")
	color.NoColor = true

	svc := &testServices{
		intake: &mockIntakeService{result: &domain.ProcessingResult{
			Processed: []domain.InputEntry{
				domain.NewInputEntry("project/main.go", []byte("package main")),
			},
			Excluded: []domain.Exclusion{
				{File: "project/node_modules/x.js", Kind: domain.ExclusionNodeModules, Reason: domain.ReasonNodeModules},
			},
		}},
		upload: &mockUploadService{result: &domain.UploadResult{
			Owner: "octocat", Repo: "site", Branch: "update-1",
			PullRequestURL: "https://github.com/octocat/site/pull/7",
			Files:          []domain.FileOutcome{{Path: "project/main.go", Action: domain.FileUpdated}},
		}},
		repository: &mockRepositoryService{created: &domain.Repository{
			Name: "demo", FullName: "octocat/demo", HTMLURL: "https://github.com/octocat/demo",
		}},
		settings: &mockSettingsService{values: map[string]string{
			"upload.base_branch":  "main",
			"upload.grace_period": "2s",
		}},
	}
	SetServices(Services{
		Intake:     svc.intake,
		Upload:     svc.upload,
		Repository: svc.repository,
		Settings:   svc.settings,
	})

	t.Cleanup(func() {
		intakeService, uploadService, repositoryService, settingsService = oldIntake, oldUpload, oldRepo, oldSettings
		token = ""
		verbose = false
		uploadExisting = false
		publishDescription, publishPrivate, publishReadme = "", false, false
		createDescription, createPrivate, createReadme = "", false, false
	})
	return svc
}

// run executes rootCmd with args and returns combined output.
func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs(args)
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	err := rootCmd.Execute()
	return buf.String(), err
}
