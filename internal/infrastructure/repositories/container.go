package repositories

import (
	"go.uber.org/dig"

	domainRepos "github.com/rios0rios0/rangebump/internal/domain/repositories"
	"github.com/rios0rios0/rangebump/internal/infrastructure/repositories/changelog"
	"github.com/rios0rios0/rangebump/internal/infrastructure/repositories/git"
	"github.com/rios0rios0/rangebump/internal/infrastructure/repositories/manifest"
)

// RegisterProviders registers all repository providers with the DIG container.
func RegisterProviders(container *dig.Container) error {
	// Backends are registered on the factory by the caller once the graph is built
	if err := container.Provide(NewRegistryFactory); err != nil {
		return err
	}
	if err := container.Provide(func(impl *RegistryFactory) domainRepos.RegistryFactory {
		return impl
	}); err != nil {
		return err
	}

	if err := container.Provide(func() domainRepos.ManifestRepository {
		return manifest.NewPackageJSONRepository()
	}); err != nil {
		return err
	}
	if err := container.Provide(func() domainRepos.ChangelogRepository {
		return changelog.NewFileChangelogRepository()
	}); err != nil {
		return err
	}
	if err := container.Provide(func() domainRepos.VersionControlRepository {
		return git.NewLocalGitRepository()
	}); err != nil {
		return err
	}

	return nil
}
