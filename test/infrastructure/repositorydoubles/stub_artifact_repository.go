//go:build integration || unit || test

package repositorydoubles //nolint:revive,staticcheck // Test package naming follows established project structure

import (
	"context"
	"os"
	"path/filepath"

	"github.com/rios0rios0/pkgscript-updater/internal/domain/entities"
	"github.com/rios0rios0/pkgscript-updater/internal/domain/repositories"
)

// StubArtifactRepository writes Payload into the scratch directory and reports Checksum.
type StubArtifactRepository struct {
	Payload     []byte
	Checksum    entities.Checksum
	DownloadErr error

	// spy
	CallCount int
	LastURL   string
	LastPath  string
}

var _ repositories.ArtifactRepository = (*StubArtifactRepository)(nil)

func (s *StubArtifactRepository) Download(
	_ context.Context,
	url string,
	tag entities.ReleaseTag,
	dir string,
) (*entities.Artifact, error) {
	s.CallCount++
	s.LastURL = url
	if s.DownloadErr != nil {
		return nil, s.DownloadErr
	}

	path := filepath.Join(dir, tag.Name+".tar.gz")
	if err := os.WriteFile(path, s.Payload, 0o600); err != nil {
		return nil, err
	}
	s.LastPath = path
	return &entities.Artifact{
		URL:      url,
		Path:     path,
		Size:     int64(len(s.Payload)),
		Checksum: s.Checksum,
	}, nil
}
