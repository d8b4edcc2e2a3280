package gitlab

import (
	"context"
	"fmt"

	gl "gitlab.com/gitlab-org/api/client-go"

	"github.com/rios0rios0/pkgscript-updater/internal/domain/entities"
	"github.com/rios0rios0/pkgscript-updater/internal/domain/repositories"
	"github.com/rios0rios0/pkgscript-updater/internal/infrastructure/repositories/httpclient"
)

const (
	providerName = "gitlab"
	perPage      = 10
)

// GitLabReleaseRepository implements repositories.ReleaseRepository for GitLab projects.
type GitLabReleaseRepository struct {
	client *gl.Client
}

// NewGitLabReleaseRepository creates a GitLab release provider. BaseURL selects a
// self-managed instance.
func NewGitLabReleaseRepository(opts repositories.ReleaseProviderOptions) (repositories.ReleaseRepository, error) {
	options := []gl.ClientOptionFunc{
		gl.WithHTTPClient(httpclient.New(httpclient.Options{}).StandardClient()),
	}
	if opts.BaseURL != "" {
		options = append(options, gl.WithBaseURL(opts.BaseURL))
	}

	client, err := gl.NewClient(opts.Token, options...)
	if err != nil {
		return nil, fmt.Errorf("failed to create GitLab client: %w", err)
	}
	return &GitLabReleaseRepository{client: client}, nil
}

func (p *GitLabReleaseRepository) Name() string { return providerName }

// LatestTag returns the first tag GitLab lists for the project, which is the most
// recently updated one.
func (p *GitLabReleaseRepository) LatestTag(
	ctx context.Context,
	upstream entities.Repository,
) (entities.ReleaseTag, error) {
	pid := upstream.Organization + "/" + upstream.Name
	tags, _, err := p.client.Tags.ListTags(
		pid,
		&gl.ListTagsOptions{ListOptions: gl.ListOptions{PerPage: perPage}},
		gl.WithContext(ctx),
	)
	if err != nil {
		return entities.ReleaseTag{}, fmt.Errorf("%w: failed to list tags of %s: %v", entities.ErrUpstreamFetch, pid, err)
	}
	if len(tags) == 0 {
		return entities.ReleaseTag{}, fmt.Errorf("%w: %s has no tags", entities.ErrUpstreamFetch, pid)
	}

	return entities.NewReleaseTag(tags[0].Name)
}
