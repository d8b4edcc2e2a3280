package controllers

import (
	"go.uber.org/dig"

	"github.com/rios0rios0/pkgscript-updater/internal/domain/entities"
)

// RegisterProviders registers all controller providers with the DIG container.
func RegisterProviders(container *dig.Container) error {
	if err := container.Provide(NewUpdateController); err != nil {
		return err
	}
	if err := container.Provide(NewControllers); err != nil {
		return err
	}

	return nil
}

// NewControllers aggregates all controllers into a slice for the AppInternal.
func NewControllers(
	updateController *UpdateController,
) *[]entities.Controller {
	return &[]entities.Controller{
		updateController,
	}
}
