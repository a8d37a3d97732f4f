package github

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	gh "github.com/google/go-github/v80/github"

	"github.com/custodia-labs/repodrop/internal/core/domain"
)

// GetRef returns the commit SHA a branch points at.
func (c *Client) GetRef(ctx context.Context, owner, repo, branch string) (string, error) {
	if err := c.beforeRequest(ctx); err != nil {
		return "", err
	}

	ref, resp, err := c.gh.Git.GetRef(ctx, owner, repo, "heads/"+branch)
	c.afterResponse(resp)
	if err != nil {
		return "", c.wrapError(err, "get ref")
	}
	return ref.GetObject().GetSHA(), nil
}

// CreateRef creates a branch pointing at sha.
func (c *Client) CreateRef(ctx context.Context, owner, repo, branch, sha string) error {
	if err := c.beforeRequest(ctx); err != nil {
		return err
	}

	_, resp, err := c.gh.Git.CreateRef(ctx, owner, repo, gh.CreateRef{
		Ref: "refs/heads/" + branch,
		SHA: sha,
	})
	c.afterResponse(resp)
	if err != nil {
		return c.wrapError(err, "create ref")
	}
	return nil
}

// GetFileSHA looks up the blob SHA of the file at path.
// A 404 is reported as found == false rather than an error.
func (c *Client) GetFileSHA(ctx context.Context, owner, repo, path, branch string) (string, bool, error) {
	if domain.IsUnsafePath(path) {
		return "", false, fmt.Errorf("get contents: %w: %s: %s", domain.ErrInvalidInput, path, domain.ReasonUnsafePath)
	}
	if err := c.beforeRequest(ctx); err != nil {
		return "", false, err
	}

	var (
		content *gh.RepositoryContent
		resp    *gh.Response
		err     error
	)
	if strings.Contains(path, "..") {
		content, resp, err = c.getContents(ctx, owner, repo, path, branch)
	} else {
		opts := &gh.RepositoryContentGetOptions{Ref: branch}
		content, _, resp, err = c.gh.Repositories.GetContents(ctx, owner, repo, path, opts)
	}
	c.afterResponse(resp)
	if err != nil {
		wrapped := c.wrapError(err, "get contents")
		if IsNotFound(wrapped) {
			return "", false, nil
		}
		return "", false, wrapped
	}

	if content == nil {
		return "", false, fmt.Errorf("get contents: %s is a directory, not a file", path)
	}
	return content.GetSHA(), true, nil
}

// getContents issues the contents GET for names such as "release..notes.md",
// which go-github refuses with ErrPathForbidden. Callers have already
// rejected ".." segments. A directory listing yields a nil content.
func (c *Client) getContents(ctx context.Context, owner, repo, path, ref string) (*gh.RepositoryContent, *gh.Response, error) {
	u := fmt.Sprintf("repos/%s/%s/contents/%s", owner, repo, (&url.URL{Path: path}).String())
	if ref != "" {
		u += "?ref=" + url.QueryEscape(ref)
	}
	req, err := c.gh.NewRequest(http.MethodGet, u, nil)
	if err != nil {
		return nil, nil, err
	}

	var raw json.RawMessage
	resp, err := c.gh.Do(ctx, req, &raw)
	if err != nil {
		return nil, resp, err
	}
	if len(raw) > 0 && raw[0] == '[' {
		return nil, resp, nil
	}
	content := new(gh.RepositoryContent)
	if err := json.Unmarshal(raw, content); err != nil {
		return nil, resp, fmt.Errorf("decode contents: %w", err)
	}
	return content, resp, nil
}

// PutFile creates the file when write.SHA is empty and updates it otherwise.
// go-github base64 encodes write.Content on the wire.
func (c *Client) PutFile(ctx context.Context, owner, repo string, write domain.FileWrite) (string, error) {
	if err := c.beforeRequest(ctx); err != nil {
		return "", err
	}

	opts := &gh.RepositoryContentFileOptions{
		Message: gh.Ptr(write.Message),
		Content: write.Content,
	}
	if write.Branch != "" {
		opts.Branch = gh.Ptr(write.Branch)
	}

	var (
		res  *gh.RepositoryContentResponse
		resp *gh.Response
		err  error
	)
	if write.SHA != "" {
		opts.SHA = gh.Ptr(write.SHA)
		res, resp, err = c.gh.Repositories.UpdateFile(ctx, owner, repo, write.Path, opts)
	} else {
		res, resp, err = c.gh.Repositories.CreateFile(ctx, owner, repo, write.Path, opts)
	}
	c.afterResponse(resp)
	if err != nil {
		return "", c.wrapError(err, "put contents")
	}

	if res == nil {
		return "", nil
	}
	return res.Commit.GetSHA(), nil
}
