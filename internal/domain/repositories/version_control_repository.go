package repositories

import "context"

// VersionControlRepository records file changes in the repository that holds them.
type VersionControlRepository interface {
	// Commit stages paths and commits them, returning the new commit hash.
	Commit(ctx context.Context, paths []string, message string) (string, error)
}
