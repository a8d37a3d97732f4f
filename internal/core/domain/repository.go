package domain

import "time"

// Repository is the subset of GitHub repository metadata repodrop uses.
type Repository struct {
	Name          string
	FullName      string
	Owner         string
	Description   string
	Private       bool
	DefaultBranch string
	HTMLURL       string
	UpdatedAt     time.Time
}

// RepoTarget describes a repository to create.
type RepoTarget struct {
	Name        string
	Description string
	Private     bool

	// InitReadme asks GitHub to seed the repository with a README commit.
	InitReadme bool
}

// FileWrite is one create-or-update of file content.
// SHA is empty for a create and holds the existing blob SHA for an update.
type FileWrite struct {
	Path    string
	Message string
	Content []byte
	SHA     string
	Branch  string
}

// PullRequest is the payload for opening a pull request.
type PullRequest struct {
	Title string
	Head  string
	Base  string
	Body  string
}
