//go:build unit

package cache_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rios0rios0/rangebump/internal/infrastructure/repositories/cache"
	"github.com/rios0rios0/rangebump/test/domain/entitybuilders"
)

const redisKeyPrefix = "rangebump:npm:"

func newRedisCache(t *testing.T) (*cache.RedisCacheRepository, *miniredis.Miniredis) {
	t.Helper()
	server := miniredis.RunT(t)
	repo, err := cache.NewRedisCacheRepository("redis://" + server.Addr())
	require.NoError(t, err)
	t.Cleanup(func() { _ = repo.Close() })
	return repo, server
}

func TestNewRedisCacheRepository(t *testing.T) {
	t.Parallel()

	t.Run("should reject an invalid URL", func(t *testing.T) {
		t.Parallel()

		// given
		rawURL := "http://not-redis"

		// when
		repo, err := cache.NewRedisCacheRepository(rawURL)

		// then
		require.Error(t, err)
		assert.Nil(t, repo)
		assert.Contains(t, err.Error(), "invalid redis URL")
	})

	t.Run("should accept a redis URL without connecting", func(t *testing.T) {
		t.Parallel()

		// given
		rawURL := "redis://localhost:6379/2"

		// when
		repo, err := cache.NewRedisCacheRepository(rawURL)

		// then
		require.NoError(t, err)
		require.NotNil(t, repo)
		assert.NoError(t, repo.Close())
	})
}

func TestRedisCacheRepositoryGet(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		stored    string
		wantFound bool
	}{
		{name: "should report a miss for an unknown key", wantFound: false},
		{name: "should treat a corrupt entry as a miss", stored: "{not json", wantFound: false},
		{
			name:      "should return a stored document",
			stored:    `{"name":"react","dist_tags":{"latest":"18.3.1"},"versions":{"18.3.1":{"version":"18.3.1"}}}`,
			wantFound: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			// given
			repo, server := newRedisCache(t)
			if tt.stored != "" {
				require.NoError(t, server.Set(redisKeyPrefix+"react", tt.stored))
			}

			// when
			meta, found, err := repo.Get(context.Background(), "react")

			// then
			require.NoError(t, err)
			assert.Equal(t, tt.wantFound, found)
			if tt.wantFound {
				assert.Equal(t, "react", meta.Name)
				assert.Equal(t, "18.3.1", meta.Latest())
			} else {
				assert.Nil(t, meta)
			}
		})
	}

	t.Run("should fail when the server is unreachable", func(t *testing.T) {
		t.Parallel()

		// given
		repo, server := newRedisCache(t)
		server.Close()

		// when
		_, found, err := repo.Get(context.Background(), "react")

		// then
		require.Error(t, err)
		assert.False(t, found)
		assert.Contains(t, err.Error(), `redis get "react"`)
	})
}

func TestRedisCacheRepositorySet(t *testing.T) {
	t.Parallel()

	t.Run("should round-trip a document under the prefixed key", func(t *testing.T) {
		t.Parallel()

		// given
		repo, server := newRedisCache(t)
		stored := entitybuilders.NewPackageMetadataBuilder().
			WithName("react").
			WithVersions("18.2.0", "18.3.1").
			WithLatest("18.3.1").
			WithRepository("https://github.com/facebook/react").
			BuildMetadata()

		// when
		err := repo.Set(context.Background(), "react", stored, time.Hour)

		// then
		require.NoError(t, err)
		assert.True(t, server.Exists(redisKeyPrefix+"react"))
		meta, found, getErr := repo.Get(context.Background(), "react")
		require.NoError(t, getErr)
		require.True(t, found)
		assert.Equal(t, "18.3.1", meta.Latest())
		assert.Equal(t, stored.Repository, meta.Repository)
		assert.True(t, meta.PublishedAt("18.2.0").Equal(stored.PublishedAt("18.2.0")))
	})

	t.Run("should expire entries after the ttl", func(t *testing.T) {
		t.Parallel()

		// given
		repo, server := newRedisCache(t)
		meta := entitybuilders.NewPackageMetadataBuilder().WithName("left-pad").WithVersions("1.3.0").BuildMetadata()
		require.NoError(t, repo.Set(context.Background(), "left-pad", meta, 10*time.Minute))

		// when
		ttl := server.TTL(redisKeyPrefix + "left-pad")
		server.FastForward(11 * time.Minute)
		_, found, err := repo.Get(context.Background(), "left-pad")

		// then
		require.NoError(t, err)
		assert.Equal(t, 10*time.Minute, ttl)
		assert.False(t, found)
	})

	t.Run("should fail once the client is closed", func(t *testing.T) {
		t.Parallel()

		// given
		server := miniredis.RunT(t)
		repo := cache.NewRedisCacheRepositoryWithClient(redis.NewClient(&redis.Options{Addr: server.Addr()}))
		require.NoError(t, repo.Close())
		meta := entitybuilders.NewPackageMetadataBuilder().WithVersions("1.0.0").BuildMetadata()

		// when
		err := repo.Set(context.Background(), "left-pad", meta, time.Minute)

		// then
		require.ErrorIs(t, err, redis.ErrClosed)
	})
}
