//go:build integration || unit || test

// Package repositorydoubles provides hand-written spies and stubs for the repository
// interfaces. No mock frameworks are used.
package repositorydoubles //nolint:revive,staticcheck // Test package naming follows established project structure

import (
	"context"

	"github.com/rios0rios0/pkgscript-updater/internal/domain/entities"
	"github.com/rios0rios0/pkgscript-updater/internal/domain/repositories"
)

// StubReleaseRepository implements repositories.ReleaseRepository with a fixed answer.
type StubReleaseRepository struct {
	ProviderName string

	// --- LatestTag ---
	Tag          entities.ReleaseTag
	LatestTagErr error
	CallCount    int
	LastUpstream entities.Repository
}

var _ repositories.ReleaseRepository = (*StubReleaseRepository)(nil)

func (s *StubReleaseRepository) Name() string { return s.ProviderName }

func (s *StubReleaseRepository) LatestTag(
	_ context.Context,
	upstream entities.Repository,
) (entities.ReleaseTag, error) {
	s.CallCount++
	s.LastUpstream = upstream
	if s.LatestTagErr != nil {
		return entities.ReleaseTag{}, s.LatestTagErr
	}
	return s.Tag, nil
}

// Factory returns a release factory that always yields s.
func (s *StubReleaseRepository) Factory() func(repositories.ReleaseProviderOptions) (repositories.ReleaseRepository, error) {
	return func(repositories.ReleaseProviderOptions) (repositories.ReleaseRepository, error) {
		return s, nil
	}
}
