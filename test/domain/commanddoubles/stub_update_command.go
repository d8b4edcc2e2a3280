//go:build integration || unit || test

package commanddoubles //nolint:revive,staticcheck // Test package naming follows established project structure

import (
	"context"

	"github.com/rios0rios0/pkgscript-updater/internal/domain/commands"
	"github.com/rios0rios0/pkgscript-updater/internal/domain/entities"
)

// StubUpdateCommand is a stub implementation of commands.Update.
type StubUpdateCommand struct {
	Report           *entities.RunReport
	ExecuteErr       error
	ExecuteCallCount int
	LastSettings     *entities.Settings
	LastTarget       *entities.PackageTarget
	LastOpts         commands.UpdateOptions
}

var _ commands.Update = (*StubUpdateCommand)(nil)

func (s *StubUpdateCommand) Execute(
	_ context.Context,
	settings *entities.Settings,
	target *entities.PackageTarget,
	opts commands.UpdateOptions,
) (*entities.RunReport, error) {
	s.ExecuteCallCount++
	s.LastSettings = settings
	s.LastTarget = target
	s.LastOpts = opts
	if s.Report == nil {
		return &entities.RunReport{Stage: entities.StageDone}, s.ExecuteErr
	}
	return s.Report, s.ExecuteErr
}
