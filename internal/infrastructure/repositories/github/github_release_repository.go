package github

import (
	"context"
	"fmt"

	gh "github.com/google/go-github/v66/github"
	logger "github.com/sirupsen/logrus"

	"github.com/rios0rios0/pkgscript-updater/internal/domain/entities"
	"github.com/rios0rios0/pkgscript-updater/internal/domain/repositories"
	"github.com/rios0rios0/pkgscript-updater/internal/infrastructure/repositories/httpclient"
)

const (
	providerName = "github"
	perPage      = 10
)

// GitHubReleaseRepository implements repositories.ReleaseRepository for GitHub.
type GitHubReleaseRepository struct {
	client *gh.Client
}

// NewGitHubReleaseRepository creates a GitHub release provider authenticated with the
// given token. A non-empty BaseURL points the client at a GitHub Enterprise instance.
func NewGitHubReleaseRepository(opts repositories.ReleaseProviderOptions) (repositories.ReleaseRepository, error) {
	client := gh.NewClient(httpclient.New(httpclient.Options{}).StandardClient())
	if opts.Token != "" {
		client = client.WithAuthToken(opts.Token)
	}

	if opts.BaseURL != "" {
		var err error
		client, err = client.WithEnterpriseURLs(opts.BaseURL, opts.BaseURL)
		if err != nil {
			return nil, fmt.Errorf("invalid GitHub API base URL %q: %w", opts.BaseURL, err)
		}
	}

	return &GitHubReleaseRepository{client: client}, nil
}

func (p *GitHubReleaseRepository) Name() string { return providerName }

// LatestTag returns the first tag GitHub lists for the repository, which is the most
// recent one for projects that tag sequentially.
func (p *GitHubReleaseRepository) LatestTag(
	ctx context.Context,
	upstream entities.Repository,
) (entities.ReleaseTag, error) {
	tags, _, err := p.client.Repositories.ListTags(
		ctx, upstream.Organization, upstream.Name, &gh.ListOptions{PerPage: perPage},
	)
	if err != nil {
		return entities.ReleaseTag{}, fmt.Errorf("%w: failed to list tags: %v", entities.ErrUpstreamFetch, err)
	}
	if len(tags) == 0 {
		return entities.ReleaseTag{}, fmt.Errorf(
			"%w: %s/%s has no tags", entities.ErrUpstreamFetch, upstream.Organization, upstream.Name,
		)
	}

	logger.Debugf("[github] %s/%s lists %d tags on the first page", upstream.Organization, upstream.Name, len(tags))
	return entities.NewReleaseTag(tags[0].GetName())
}
