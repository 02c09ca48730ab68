package controllers

import (
	"go.uber.org/dig"

	"github.com/rios0rios0/rangebump/internal/domain/entities"
)

// RegisterProviders registers all controller providers with the DIG container.
func RegisterProviders(container *dig.Container) error {
	if err := container.Provide(NewCheckController); err != nil {
		return err
	}
	if err := container.Provide(NewControllers); err != nil {
		return err
	}

	return nil
}

// NewControllers aggregates all controllers into a slice for the AppInternal.
func NewControllers(checkController *CheckController) *[]entities.Controller {
	return &[]entities.Controller{
		checkController,
	}
}
