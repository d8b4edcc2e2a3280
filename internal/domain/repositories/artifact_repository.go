package repositories

import (
	"context"

	"github.com/rios0rios0/pkgscript-updater/internal/domain/entities"
)

// ArtifactRepository downloads release archives and computes their checksum.
type ArtifactRepository interface {
	// Download stores the archive at url as dir/<tag>.tar.gz and returns its SHA-512 digest.
	Download(ctx context.Context, url string, tag entities.ReleaseTag, dir string) (*entities.Artifact, error)
}
