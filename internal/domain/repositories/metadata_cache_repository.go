package repositories

import (
	"context"
	"time"

	"github.com/rios0rios0/rangebump/internal/domain/entities"
)

// MetadataCacheRepository stores registry documents between runs.
// A miss is reported with found=false and a nil error.
type MetadataCacheRepository interface {
	Get(ctx context.Context, key string) (meta *entities.PackageMetadata, found bool, err error)
	Set(ctx context.Context, key string, meta *entities.PackageMetadata, ttl time.Duration) error
}
