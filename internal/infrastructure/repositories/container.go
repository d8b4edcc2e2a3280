package repositories

import (
	"go.uber.org/dig"

	"github.com/rios0rios0/pkgscript-updater/internal/infrastructure/repositories/archive"
	"github.com/rios0rios0/pkgscript-updater/internal/infrastructure/repositories/filesystem"
	"github.com/rios0rios0/pkgscript-updater/internal/infrastructure/repositories/gitrepo"
	ghRepo "github.com/rios0rios0/pkgscript-updater/internal/infrastructure/repositories/github"
	glRepo "github.com/rios0rios0/pkgscript-updater/internal/infrastructure/repositories/gitlab"
	"github.com/rios0rios0/pkgscript-updater/internal/infrastructure/repositories/gpg"
	"github.com/rios0rios0/pkgscript-updater/internal/infrastructure/repositories/smtp"
)

// RegisterProviders registers all repository providers with the DIG container.
func RegisterProviders(container *dig.Container) error {
	// Register release registry with all hosting provider factories
	if err := container.Provide(func() *ReleaseRegistry {
		reg := NewReleaseRegistry()
		reg.Register("github", ghRepo.NewGitHubReleaseRepository)
		reg.Register("gitlab", glRepo.NewGitLabReleaseRepository)
		return reg
	}); err != nil {
		return err
	}

	// Each constructor returns its domain interface
	constructors := []any{
		archive.NewHTTPArtifactRepository,
		filesystem.NewFileDescriptorRepository,
		gitrepo.NewGitWorkspaceRepository,
		gpg.NewGPGKeyRepository,
		smtp.NewSMTPNotifierRepository,
	}
	for _, constructor := range constructors {
		if err := container.Provide(constructor); err != nil {
			return err
		}
	}

	return nil
}
