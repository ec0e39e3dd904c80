package interfaces

import "context"

// GitRepository stages and commits files of a working tree
type GitRepository interface {
	// Add stages path, given relative to the project directory or absolute
	Add(ctx context.Context, path string) error

	// Commit records the staged changes and returns the commit hash
	Commit(ctx context.Context, message string) (string, error)

	// Head returns the hash of the current HEAD commit
	Head(ctx context.Context) (string, error)
}
