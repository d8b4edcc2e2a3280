package repositories

import (
	"context"

	"github.com/rios0rios0/pkgscript-updater/internal/domain/entities"
)

// Workspace is a local working copy of the package-script repository.
type Workspace interface {
	// Root returns the checkout directory.
	Root() string

	// Branch returns the branch checked out at clone time.
	Branch() string

	// Commit stages exactly input.Files and creates a signed commit.
	Commit(ctx context.Context, input entities.CommitInput) (*entities.Commit, error)

	// Push publishes the checked-out branch to its remote. A rejected push is an error.
	Push(ctx context.Context) error

	// Remove deletes the working copy from disk.
	Remove() error
}

// WorkspaceRepository creates working copies.
type WorkspaceRepository interface {
	// Clone checks out the remote's default branch into dir.
	Clone(ctx context.Context, settings entities.RepoSettings, dir string) (Workspace, error)
}
