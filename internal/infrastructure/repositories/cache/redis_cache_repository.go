package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/rios0rios0/rangebump/internal/domain/entities"
	"github.com/rios0rios0/rangebump/internal/domain/repositories"
)

const redisKeyPrefix = "rangebump:npm:"

// RedisCacheRepository shares registry documents between machines, e.g. CI runners.
type RedisCacheRepository struct {
	client *redis.Client
}

var _ repositories.MetadataCacheRepository = (*RedisCacheRepository)(nil)

// NewRedisCacheRepository connects lazily to the redis server at rawURL
// (redis://[user:password@]host:port/db).
func NewRedisCacheRepository(rawURL string) (*RedisCacheRepository, error) {
	opts, err := redis.ParseURL(rawURL)
	if err != nil {
		return nil, fmt.Errorf("invalid redis URL: %w", err)
	}
	return &RedisCacheRepository{client: redis.NewClient(opts)}, nil
}

// NewRedisCacheRepositoryWithClient wraps an existing client.
func NewRedisCacheRepositoryWithClient(client *redis.Client) *RedisCacheRepository {
	return &RedisCacheRepository{client: client}
}

func (it *RedisCacheRepository) Get(ctx context.Context, key string) (*entities.PackageMetadata, bool, error) {
	data, err := it.client.Get(ctx, redisKeyPrefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("redis get %q: %w", key, err)
	}

	var meta entities.PackageMetadata
	if err = json.Unmarshal(data, &meta); err != nil {
		return nil, false, nil //nolint:nilerr // corrupt entries are misses
	}
	return &meta, true, nil
}

func (it *RedisCacheRepository) Set(
	ctx context.Context, key string, meta *entities.PackageMetadata, ttl time.Duration,
) error {
	data, err := json.Marshal(meta)
	if err != nil {
		return err
	}
	if err = it.client.Set(ctx, redisKeyPrefix+key, data, ttl).Err(); err != nil {
		return fmt.Errorf("redis set %q: %w", key, err)
	}
	return nil
}

// Close releases the connection pool.
func (it *RedisCacheRepository) Close() error {
	return it.client.Close()
}
