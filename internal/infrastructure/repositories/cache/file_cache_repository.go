// Package cache keeps registry documents between runs, either on local disk or
// in a shared redis instance.
package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/rios0rios0/rangebump/internal/domain/entities"
	"github.com/rios0rios0/rangebump/internal/domain/repositories"
)

// FileCacheRepository stores one JSON file per key, named by the SHA-256 of the
// key. Freshness is judged from the file modification time.
type FileCacheRepository struct {
	dir string
	ttl time.Duration
	now func() time.Time
}

var _ repositories.MetadataCacheRepository = (*FileCacheRepository)(nil)

// DefaultDir returns ~/.cache/rangebump.
func DefaultDir() (string, error) {
	base, err := os.UserCacheDir()
	if err != nil {
		return "", fmt.Errorf("failed to locate user cache dir: %w", err)
	}
	return filepath.Join(base, "rangebump"), nil
}

// NewFileCacheRepository creates the cache directory when missing. An empty dir
// selects DefaultDir. The ttl passed to Set is ignored in favor of this one.
func NewFileCacheRepository(dir string, ttl time.Duration) (*FileCacheRepository, error) {
	if dir == "" {
		var err error
		if dir, err = DefaultDir(); err != nil {
			return nil, err
		}
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create cache dir %q: %w", dir, err)
	}
	return &FileCacheRepository{dir: dir, ttl: ttl, now: time.Now}, nil
}

// Dir returns the cache directory.
func (it *FileCacheRepository) Dir() string { return it.dir }

func (it *FileCacheRepository) Get(_ context.Context, key string) (*entities.PackageMetadata, bool, error) {
	path := it.keyPath(key)
	info, err := os.Stat(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	if it.ttl > 0 && it.now().Sub(info.ModTime()) > it.ttl {
		return nil, false, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, false, err
	}
	var meta entities.PackageMetadata
	if err = json.Unmarshal(data, &meta); err != nil {
		// a torn write is treated as a miss and overwritten on the next Set
		return nil, false, nil //nolint:nilerr // corrupt entries are misses
	}
	return &meta, true, nil
}

func (it *FileCacheRepository) Set(_ context.Context, key string, meta *entities.PackageMetadata, _ time.Duration) error {
	data, err := json.Marshal(meta)
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(it.dir, ".entry-*")
	if err != nil {
		return err
	}
	if _, err = tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmp.Name())
		return err
	}
	if err = tmp.Close(); err != nil {
		_ = os.Remove(tmp.Name())
		return err
	}
	return os.Rename(tmp.Name(), it.keyPath(key))
}

func (it *FileCacheRepository) keyPath(key string) string {
	sum := sha256.Sum256([]byte(key))
	return filepath.Join(it.dir, hex.EncodeToString(sum[:])+".json")
}
