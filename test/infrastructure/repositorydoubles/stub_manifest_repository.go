//go:build integration || unit || test

package repositorydoubles //nolint:revive,staticcheck // Test package naming follows established project structure

import (
	"context"

	"github.com/rios0rios0/rangebump/internal/domain/entities"
	"github.com/rios0rios0/rangebump/internal/domain/repositories"
)

// SpyManifestRepository implements repositories.ManifestRepository as a configurable spy.
type SpyManifestRepository struct {
	// --- Read ---
	Dependencies entities.ManifestDependencies
	ReadErr      error
	ReadPaths    []string

	// --- WriteRanges ---
	WriteErr     error
	WrittenPaths []string
	Written      []entities.DependencyEntry
}

var _ repositories.ManifestRepository = (*SpyManifestRepository)(nil)

func (m *SpyManifestRepository) Read(path string, _ []string) (entities.ManifestDependencies, error) {
	m.ReadPaths = append(m.ReadPaths, path)
	return m.Dependencies, m.ReadErr
}

func (m *SpyManifestRepository) WriteRanges(
	path string, _ []string, upgrades []entities.DependencyEntry,
) error {
	m.WrittenPaths = append(m.WrittenPaths, path)
	m.Written = append(m.Written, upgrades...)
	return m.WriteErr
}

// SpyChangelogRepository implements repositories.ChangelogRepository as a configurable spy.
type SpyChangelogRepository struct {
	AppendResult bool
	AppendErr    error
	Paths        []string
	Bullets      []string
}

var _ repositories.ChangelogRepository = (*SpyChangelogRepository)(nil)

func (c *SpyChangelogRepository) Append(path string, bullets []string) (bool, error) {
	c.Paths = append(c.Paths, path)
	c.Bullets = append(c.Bullets, bullets...)
	return c.AppendResult, c.AppendErr
}

// SpyVersionControlRepository implements repositories.VersionControlRepository as a configurable spy.
type SpyVersionControlRepository struct {
	Hash      string
	CommitErr error
	// spy: inputs received
	CommittedPaths []string
	Messages       []string
}

var _ repositories.VersionControlRepository = (*SpyVersionControlRepository)(nil)

func (v *SpyVersionControlRepository) Commit(_ context.Context, paths []string, message string) (string, error) {
	v.CommittedPaths = append(v.CommittedPaths, paths...)
	v.Messages = append(v.Messages, message)
	return v.Hash, v.CommitErr
}
