package internal

import (
	"go.uber.org/dig"

	"github.com/rios0rios0/rangebump/internal/domain/commands"
	"github.com/rios0rios0/rangebump/internal/domain/entities"
	"github.com/rios0rios0/rangebump/internal/infrastructure/controllers"
	"github.com/rios0rios0/rangebump/internal/infrastructure/repositories"
)

// RegisterProviders registers all internal providers with the DIG container
// and plugs the metadata cache backends into the registry factory.
func RegisterProviders(container *dig.Container) error {
	// Register all layers (bottom-up: infrastructure repos -> domain entities -> domain commands -> controllers)
	if err := repositories.RegisterProviders(container); err != nil {
		return err
	}
	if err := entities.RegisterProviders(container); err != nil {
		return err
	}
	if err := commands.RegisterProviders(container); err != nil {
		return err
	}
	if err := controllers.RegisterProviders(container); err != nil {
		return err
	}

	if err := container.Provide(NewAppInternal); err != nil {
		return err
	}

	return container.Invoke(registerCacheBackends)
}

// registerCacheBackends makes the file and redis caches selectable through
// the cache settings.
func registerCacheBackends(factory *repositories.RegistryFactory) {
	factory.Register(repositories.CacheBackendFile, repositories.NewFileCache)
	factory.Register(repositories.CacheBackendRedis, repositories.NewRedisCache)
}
