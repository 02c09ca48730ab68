package repositories

import (
	"fmt"
	"sort"

	logger "github.com/sirupsen/logrus"

	"github.com/rios0rios0/rangebump/internal/domain/entities"
	domainRepos "github.com/rios0rios0/rangebump/internal/domain/repositories"
	"github.com/rios0rios0/rangebump/internal/infrastructure/repositories/cache"
	"github.com/rios0rios0/rangebump/internal/infrastructure/repositories/npm"
)

const (
	CacheBackendFile  = "file"
	CacheBackendRedis = "redis"
)

// CacheFactory opens a metadata cache backend for the given settings.
type CacheFactory func(settings entities.CacheSettings) (domainRepos.MetadataCacheRepository, error)

// RegistryFactory builds npm registry clients, decorated with the configured
// metadata cache backend.
type RegistryFactory struct {
	caches map[string]CacheFactory
}

var _ domainRepos.RegistryFactory = (*RegistryFactory)(nil)

// NewRegistryFactory creates an empty registry factory.
func NewRegistryFactory() *RegistryFactory {
	return &RegistryFactory{
		caches: make(map[string]CacheFactory),
	}
}

// Register adds a cache backend under the given name (e.g. "redis").
func (it *RegistryFactory) Register(name string, factory CacheFactory) {
	it.caches[name] = factory
}

// Names returns the sorted list of registered cache backends.
func (it *RegistryFactory) Names() []string {
	names := make([]string, 0, len(it.caches))
	for name := range it.caches {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Build returns a registry client for settings. The cache is skipped when it
// is disabled or has no TTL.
func (it *RegistryFactory) Build(settings *entities.Settings) (domainRepos.RegistryRepository, error) {
	var opts []npm.Option
	if settings.Token != "" {
		opts = append(opts, npm.WithToken(settings.Token))
	}
	client := npm.NewRegistryRepository(settings.Registry, opts...)

	if !settings.Cache.Enabled() {
		return client, nil
	}

	backend := CacheBackendFile
	if settings.Cache.RedisURL != "" {
		backend = CacheBackendRedis
	}
	factory, ok := it.caches[backend]
	if !ok {
		return nil, fmt.Errorf("unknown cache backend: %q", backend)
	}
	store, err := factory(settings.Cache)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s metadata cache: %w", backend, err)
	}

	logger.Debugf("[cache] using %s backend with ttl %s", backend, settings.Cache.TTL)
	return cache.NewCachedRegistryRepository(client, store, settings.Registry, settings.Cache.TTL), nil
}

// NewFileCache opens the on-disk cache.
func NewFileCache(settings entities.CacheSettings) (domainRepos.MetadataCacheRepository, error) {
	store, err := cache.NewFileCacheRepository(settings.Dir, settings.TTL)
	if err != nil {
		return nil, err
	}
	return store, nil
}

// NewRedisCache connects to the shared redis cache.
func NewRedisCache(settings entities.CacheSettings) (domainRepos.MetadataCacheRepository, error) {
	store, err := cache.NewRedisCacheRepository(settings.RedisURL)
	if err != nil {
		return nil, err
	}
	return store, nil
}
