package domain

import (
	"errors"
	"fmt"
)

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrUnprocessable indicates the remote API rejected a well-formed request (HTTP 422).
	ErrUnprocessable = errors.New("unprocessable request")

	// Authentication Errors.

	// ErrTokenRequired indicates no access token was supplied.
	ErrTokenRequired = errors.New("GitHub token is required")

	// ErrAuthInvalid indicates the access token was rejected.
	ErrAuthInvalid = errors.New("authentication invalid")

	// ErrRateLimited indicates the API rate limit was exceeded.
	ErrRateLimited = errors.New("rate limited")

	// Repository Errors.

	// ErrRepoNameUnavailable indicates repository creation failed because
	// the name is taken or not valid.
	ErrRepoNameUnavailable = errors.New("repository name already exists or is invalid")

	// Archive Errors.

	// ErrInvalidZip indicates the archive's central directory could not be read.
	ErrInvalidZip = errors.New("invalid or corrupted ZIP file")

	// ErrEmptyZip indicates an archive produced neither files nor exclusions.
	ErrEmptyZip = errors.New("no valid files found in the ZIP archive")
)

// UploadError reports the file that aborted an upload.
// Files uploaded before it are left in place.
type UploadError struct {
	Path string
	Err  error
}

func (e *UploadError) Error() string {
	return fmt.Sprintf("failed to upload %s: %v", e.Path, e.Err)
}

func (e *UploadError) Unwrap() error {
	return e.Err
}
