package archive

import (
	"context"
	"crypto/sha512"
	"encoding/hex"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/hashicorp/go-retryablehttp"
	logger "github.com/sirupsen/logrus"

	"github.com/rios0rios0/pkgscript-updater/internal/domain/entities"
	"github.com/rios0rios0/pkgscript-updater/internal/domain/repositories"
	"github.com/rios0rios0/pkgscript-updater/internal/infrastructure/repositories/httpclient"
)

const archiveSuffix = ".tar.gz"

// HTTPArtifactRepository implements repositories.ArtifactRepository over anonymous HTTPS.
type HTTPArtifactRepository struct {
	client *retryablehttp.Client
}

// NewHTTPArtifactRepository creates an artifact repository with the default retry policy.
func NewHTTPArtifactRepository() repositories.ArtifactRepository {
	return NewHTTPArtifactRepositoryWithClient(httpclient.New(httpclient.Options{}))
}

// NewHTTPArtifactRepositoryWithClient creates an artifact repository using client.
func NewHTTPArtifactRepositoryWithClient(client *retryablehttp.Client) *HTTPArtifactRepository {
	return &HTTPArtifactRepository{client: client}
}

// Download streams the archive to dir/<tag>.tar.gz and hashes it on the way.
func (r *HTTPArtifactRepository) Download(
	ctx context.Context,
	url string,
	tag entities.ReleaseTag,
	dir string,
) (*entities.Artifact, error) {
	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create download request: %v", entities.ErrUpstreamFetch, err)
	}

	resp, err := r.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", entities.ErrUpstreamFetch, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return nil, fmt.Errorf("%w: unexpected status code %d for %s", entities.ErrUpstreamFetch, resp.StatusCode, url)
	}

	path := filepath.Join(dir, ArchiveName(tag))
	file, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create %s: %v", entities.ErrUpstreamFetch, path, err)
	}

	hash := sha512.New()
	size, copyErr := io.Copy(io.MultiWriter(file, hash), resp.Body)
	closeErr := file.Close()
	if copyErr != nil || closeErr != nil {
		_ = os.Remove(path)
		if copyErr == nil {
			copyErr = closeErr
		}
		return nil, fmt.Errorf("%w: failed to write %s: %v", entities.ErrUpstreamFetch, path, copyErr)
	}

	logger.Debugf("[archive] Stored %d bytes from %s in %s", size, url, path)
	return &entities.Artifact{
		URL:  url,
		Path: path,
		Size: size,
		Checksum: entities.Checksum{
			Algorithm: entities.ChecksumSHA512,
			Digest:    hex.EncodeToString(hash.Sum(nil)),
		},
	}, nil
}

// ArchiveName returns the local file name of a tag archive.
func ArchiveName(tag entities.ReleaseTag) string {
	return strings.ReplaceAll(tag.Name, "/", "_") + archiveSuffix
}
