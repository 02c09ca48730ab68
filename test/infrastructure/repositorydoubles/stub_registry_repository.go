//go:build integration || unit || test

package repositorydoubles //nolint:revive,staticcheck // Test package naming follows established project structure

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/rios0rios0/rangebump/internal/domain/entities"
	"github.com/rios0rios0/rangebump/internal/domain/repositories"
)

// SpyRegistryRepository implements repositories.RegistryRepository as a configurable spy.
// It is safe for concurrent use.
type SpyRegistryRepository struct {
	// --- FetchMetadata ---
	Packages  map[string]*entities.PackageMetadata // name -> metadata
	FetchErrs map[string]error                     // name -> error

	// --- Close ---
	CloseErr   error
	CloseCalls int

	mu      sync.Mutex
	fetched []string
}

var _ repositories.RegistryRepository = (*SpyRegistryRepository)(nil)

func (r *SpyRegistryRepository) FetchMetadata(
	_ context.Context, name string,
) (*entities.PackageMetadata, error) {
	r.mu.Lock()
	r.fetched = append(r.fetched, name)
	r.mu.Unlock()

	if err, ok := r.FetchErrs[name]; ok {
		return nil, err
	}
	if meta, ok := r.Packages[name]; ok {
		return meta, nil
	}
	return nil, fmt.Errorf("package not found: %s", name)
}

func (r *SpyRegistryRepository) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.CloseCalls++
	return r.CloseErr
}

// Fetched returns the sorted names that were requested.
func (r *SpyRegistryRepository) Fetched() []string {
	r.mu.Lock()
	defer r.mu.Unlock()

	names := append([]string(nil), r.fetched...)
	sort.Strings(names)
	return names
}

// StubRegistryFactory implements repositories.RegistryFactory returning a fixed registry.
type StubRegistryFactory struct {
	Registry repositories.RegistryRepository
	BuildErr error
	// spy: settings received
	LastSettings *entities.Settings
}

var _ repositories.RegistryFactory = (*StubRegistryFactory)(nil)

func (f *StubRegistryFactory) Build(settings *entities.Settings) (repositories.RegistryRepository, error) {
	f.LastSettings = settings
	if f.BuildErr != nil {
		return nil, f.BuildErr
	}
	return f.Registry, nil
}
