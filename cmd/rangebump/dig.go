package main

import (
	"go.uber.org/dig"

	"github.com/rios0rios0/rangebump/internal"
	"github.com/rios0rios0/rangebump/internal/infrastructure/controllers"
)

// injectApp builds one container and resolves both the root check controller
// and the subcommand controllers from it.
func injectApp() (*controllers.CheckController, *internal.AppInternal) {
	container := dig.New()

	if err := internal.RegisterProviders(container); err != nil {
		panic(err)
	}

	var (
		checkController *controllers.CheckController
		appInternal     *internal.AppInternal
	)
	if err := container.Invoke(func(cc *controllers.CheckController, ai *internal.AppInternal) {
		checkController = cc
		appInternal = ai
	}); err != nil {
		panic(err)
	}

	return checkController, appInternal
}
