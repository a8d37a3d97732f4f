package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/repodrop/internal/core/domain"
)

func newTestRepositoryService(api *mockRepositoryAPI) (*RepositoryService, *mockFactory) {
	factory := &mockFactory{api: api}
	uploads, _ := newTestUploadService(api, &mockLimiter{})
	return NewRepositoryService(factory, uploads), factory
}

func TestRepositoryService_List(t *testing.T) {
	t.Run("returns repositories", func(t *testing.T) {
		api := newMockRepositoryAPI()
		api.repos = []domain.Repository{
			{Name: "newest", UpdatedAt: time.Now()},
			{Name: "older", UpdatedAt: time.Now().Add(-time.Hour)},
		}
		s, factory := newTestRepositoryService(api)

		repos, err := s.List(context.Background(), "tok")

		require.NoError(t, err)
		assert.Equal(t, api.repos, repos)
		assert.Equal(t, []string{"tok"}, factory.tokens)
	})

	t.Run("requires a token", func(t *testing.T) {
		s, factory := newTestRepositoryService(newMockRepositoryAPI())

		_, err := s.List(context.Background(), "")

		assert.ErrorIs(t, err, domain.ErrTokenRequired)
		assert.Empty(t, factory.tokens)
	})

	t.Run("surfaces remote errors", func(t *testing.T) {
		api := newMockRepositoryAPI()
		api.listErr = errors.New("github: API error 500: boom")
		s, _ := newTestRepositoryService(api)

		_, err := s.List(context.Background(), "tok")

		require.Error(t, err)
		assert.Contains(t, err.Error(), "API error 500: boom")
	})

	t.Run("factory failure", func(t *testing.T) {
		s := NewRepositoryService(&mockFactory{err: errBoom}, nil)

		_, err := s.List(context.Background(), "tok")

		assert.ErrorIs(t, err, errBoom)
	})
}

func TestRepositoryService_Create(t *testing.T) {
	t.Run("creates with the requested options", func(t *testing.T) {
		api := newMockRepositoryAPI()
		s, _ := newTestRepositoryService(api)
		target := domain.RepoTarget{Name: "demo", Description: "d", Private: true, InitReadme: true}

		repo, err := s.Create(context.Background(), "tok", target)

		require.NoError(t, err)
		assert.Equal(t, "demo", repo.Name)
		assert.Equal(t, []domain.RepoTarget{target}, api.created)
	})

	t.Run("rejected name becomes a domain error", func(t *testing.T) {
		api := newMockRepositoryAPI()
		api.createErr = domain.ErrUnprocessable
		s, _ := newTestRepositoryService(api)

		_, err := s.Create(context.Background(), "tok", domain.RepoTarget{Name: "taken"})

		assert.ErrorIs(t, err, domain.ErrRepoNameUnavailable)
		assert.EqualError(t, err, "repository name already exists or is invalid")
	})

	t.Run("requires a name", func(t *testing.T) {
		s, _ := newTestRepositoryService(newMockRepositoryAPI())

		_, err := s.Create(context.Background(), "tok", domain.RepoTarget{})

		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	})

	t.Run("requires a token", func(t *testing.T) {
		s, _ := newTestRepositoryService(newMockRepositoryAPI())

		_, err := s.Create(context.Background(), "", domain.RepoTarget{Name: "x"})

		assert.ErrorIs(t, err, domain.ErrTokenRequired)
	})
}

func TestRepositoryService_Publish(t *testing.T) {
	t.Run("creates then uploads without a pull request", func(t *testing.T) {
		api := newMockRepositoryAPI()
		s, _ := newTestRepositoryService(api)

		repo, result, err := s.Publish(context.Background(), "tok", domain.RepoTarget{Name: "fresh"}, testFiles())

		require.NoError(t, err)
		assert.Equal(t, "octocat/fresh", repo.FullName)
		assert.Equal(t, "fresh", result.Repo)
		assert.Empty(t, result.PullRequestURL)
		assert.Len(t, result.Files, 3)
		assert.Equal(t, 0, api.callCount("pr"))
	})

	t.Run("upload failure keeps the created repository", func(t *testing.T) {
		api := newMockRepositoryAPI()
		api.putErr["README.md"] = errBoom
		s, _ := newTestRepositoryService(api)

		repo, result, err := s.Publish(context.Background(), "tok", domain.RepoTarget{Name: "fresh"}, testFiles())

		require.Error(t, err)
		assert.NotNil(t, repo)
		assert.Nil(t, result)
	})

	t.Run("create failure stops before upload", func(t *testing.T) {
		api := newMockRepositoryAPI()
		api.createErr = domain.ErrUnprocessable
		s, _ := newTestRepositoryService(api)

		repo, _, err := s.Publish(context.Background(), "tok", domain.RepoTarget{Name: "taken"}, testFiles())

		assert.ErrorIs(t, err, domain.ErrRepoNameUnavailable)
		assert.Nil(t, repo)
		assert.Equal(t, 0, api.callCount("put"))
	})
}
