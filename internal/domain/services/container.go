package services

import (
	"go.uber.org/dig"
)

// RegisterProviders registers the version engine with the DIG container.
func RegisterProviders(container *dig.Container) error {
	if err := container.Provide(NewRecommender); err != nil {
		return err
	}
	if err := container.Provide(NewSynchronizer); err != nil {
		return err
	}
	return nil
}
