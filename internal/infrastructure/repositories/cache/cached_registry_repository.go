package cache

import (
	"context"
	"io"
	"time"

	logger "github.com/sirupsen/logrus"

	"github.com/rios0rios0/rangebump/internal/domain/entities"
	"github.com/rios0rios0/rangebump/internal/domain/repositories"
)

// CachedRegistryRepository serves documents from a cache and falls back to the
// wrapped registry on a miss. Cache failures never fail a fetch.
type CachedRegistryRepository struct {
	registry repositories.RegistryRepository
	cache    repositories.MetadataCacheRepository
	scope    string
	ttl      time.Duration
}

var _ repositories.RegistryRepository = (*CachedRegistryRepository)(nil)

// NewCachedRegistryRepository decorates registry. Keys are scoped by the
// registry URL so documents from different registries never mix.
func NewCachedRegistryRepository(
	registry repositories.RegistryRepository,
	cache repositories.MetadataCacheRepository,
	registryURL string,
	ttl time.Duration,
) *CachedRegistryRepository {
	return &CachedRegistryRepository{registry: registry, cache: cache, scope: registryURL, ttl: ttl}
}

func (it *CachedRegistryRepository) FetchMetadata(
	ctx context.Context, name string,
) (*entities.PackageMetadata, error) {
	key := it.scope + "|" + name

	meta, found, err := it.cache.Get(ctx, key)
	if err != nil {
		logger.Warnf("[cache] read failed for %s: %v", name, err)
	}
	if found {
		logger.Debugf("[cache] hit %s", name)
		return meta, nil
	}

	meta, err = it.registry.FetchMetadata(ctx, name)
	if err != nil {
		return nil, err
	}
	if err = it.cache.Set(ctx, key, meta, it.ttl); err != nil {
		logger.Warnf("[cache] write failed for %s: %v", name, err)
	}
	return meta, nil
}

// Close releases the cache backend when it holds connections.
func (it *CachedRegistryRepository) Close() error {
	if closer, ok := it.cache.(io.Closer); ok {
		return closer.Close()
	}
	return nil
}
