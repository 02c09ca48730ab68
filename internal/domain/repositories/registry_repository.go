package repositories

import (
	"context"

	"github.com/rios0rios0/rangebump/internal/domain/entities"
)

// RegistryRepository abstracts an npm-compatible package registry.
type RegistryRepository interface {
	// FetchMetadata returns the full metadata document for one package. Any
	// error aborts the batch the package belongs to.
	FetchMetadata(ctx context.Context, name string) (*entities.PackageMetadata, error)
}

// RegistryFactory builds a registry client for the resolved settings of one run.
type RegistryFactory interface {
	Build(settings *entities.Settings) (RegistryRepository, error)
}
