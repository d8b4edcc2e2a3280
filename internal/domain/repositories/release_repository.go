package repositories

import (
	"context"

	"github.com/rios0rios0/pkgscript-updater/internal/domain/entities"
)

// ReleaseProviderOptions are passed to a release provider factory for each run.
type ReleaseProviderOptions struct {
	Token   string
	BaseURL string // API base URL override (GitHub Enterprise); empty means the public API
}

// ReleaseRepository abstracts a source-control host that publishes release tags.
type ReleaseRepository interface {
	// Name returns the provider identifier (e.g. "github").
	Name() string

	// LatestTag returns the first tag listed for the upstream project.
	LatestTag(ctx context.Context, upstream entities.Repository) (entities.ReleaseTag, error)
}
