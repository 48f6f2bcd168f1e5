package repositories

import (
	"context"

	"github.com/rios0rios0/bumpsync/internal/domain/entities"
)

// GitRepository abstracts the git history of one working tree.
// Path scopes are absolute directories inside that working tree.
type GitRepository interface {
	// LatestTag returns the highest "<package>@<version>" tag, or nil when
	// the package was never released.
	LatestTag(ctx context.Context, packageName string) (*entities.Tag, error)

	// CommitsSince lists commits reachable from HEAD that touch pathScope,
	// newest first, stopping before sinceSHA. An empty sinceSHA walks the
	// whole history.
	CommitsSince(ctx context.Context, sinceSHA, pathScope string) ([]entities.GitCommit, error)

	// FilesChangedSince lists files under pathScope that differ between
	// sinceSHA and HEAD, relative to the working tree root.
	FilesChangedSince(ctx context.Context, sinceSHA, pathScope string) ([]string, error)

	// ShortSHA returns the abbreviated hash of HEAD.
	ShortSHA(ctx context.Context) (string, error)

	// CommitFiles stages the given absolute paths and commits them.
	CommitFiles(ctx context.Context, paths []string, message string) (string, error)

	// CreateTag creates a lightweight tag on HEAD.
	CreateTag(ctx context.Context, name string) error
}

// GitRepositoryFactory opens the working tree that contains repoDir.
type GitRepositoryFactory func(repoDir string) (GitRepository, error)
