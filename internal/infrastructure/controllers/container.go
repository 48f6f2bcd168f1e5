package controllers

import (
	"go.uber.org/dig"

	"github.com/rios0rios0/bumpsync/internal/domain/entities"
)

// RegisterProviders registers all controller providers with the DIG container.
func RegisterProviders(container *dig.Container) error {
	// Register controller constructors
	if err := container.Provide(NewBumpController); err != nil {
		return err
	}
	if err := container.Provide(NewGraphController); err != nil {
		return err
	}
	if err := container.Provide(NewChangelogController); err != nil {
		return err
	}
	if err := container.Provide(NewControllers); err != nil {
		return err
	}

	return nil
}

// NewControllers aggregates all controllers into a slice for the AppInternal.
func NewControllers(
	bumpController *BumpController,
	graphController *GraphController,
	changelogController *ChangelogController,
) *[]entities.Controller {
	return &[]entities.Controller{
		bumpController,
		graphController,
		changelogController,
	}
}
