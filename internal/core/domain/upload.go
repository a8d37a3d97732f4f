package domain

import "strings"

// UploadRequest is one call into the upload orchestrator.
type UploadRequest struct {
	// RepoName is "name" (owned by the authenticated user) or "owner/name".
	RepoName string

	// Files are uploaded in order.
	Files []InputEntry

	// ExistingRepo selects the branch + pull request path.
	ExistingRepo bool
}

// SplitRepoName returns the owner and repository for a name,
// falling back to defaultOwner when name carries no owner.
func SplitRepoName(name, defaultOwner string) (owner, repo string) {
	if i := strings.Index(name, "/"); i >= 0 {
		return name[:i], name[i+1:]
	}
	return defaultOwner, name
}

// FileAction is what happened to a file during upload.
type FileAction string

// File actions.
const (
	FileCreated FileAction = "created"
	FileUpdated FileAction = "updated"
)

// FileOutcome records a single file written to GitHub.
type FileOutcome struct {
	Path      string
	Action    FileAction
	CommitSHA string
}

// UploadResult summarises a completed upload.
type UploadResult struct {
	SessionID string
	Owner     string
	Repo      string

	// Branch is the working branch; empty when files went to the default branch.
	Branch string

	// PullRequestURL is set only for existing-repository uploads.
	PullRequestURL string

	Files []FileOutcome
}

// CommitMessage returns the commit message for writing a file.
func CommitMessage(action FileAction, path string) string {
	if action == FileUpdated {
		return "Update " + path
	}
	return "Add " + path
}
