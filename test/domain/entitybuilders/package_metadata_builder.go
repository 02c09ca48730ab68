//go:build integration || unit || test

package entitybuilders //nolint:revive,staticcheck // Test package naming follows established project structure

import (
	"maps"
	"time"

	"github.com/rios0rios0/rangebump/internal/domain/entities"
	testkit "github.com/rios0rios0/testkit/pkg/test"
)

// PackageMetadataBuilder helps create registry metadata snapshots for tests.
// Versions added through WithVersionAt are published in call order, one day apart,
// unless an explicit time is given.
type PackageMetadataBuilder struct {
	*testkit.BaseBuilder
	name         string
	versions     map[string]entities.VersionDescriptor
	distTags     map[string]string
	publishTimes map[string]time.Time
	repository   string
	homepage     string
	clock        time.Time
}

func epochBuilderClock() time.Time {
	return time.Date(2020, time.January, 1, 0, 0, 0, 0, time.UTC)
}

// NewPackageMetadataBuilder creates a builder for a package with no versions.
func NewPackageMetadataBuilder() *PackageMetadataBuilder {
	return &PackageMetadataBuilder{
		BaseBuilder:  testkit.NewBaseBuilder(),
		name:         "left-pad",
		versions:     make(map[string]entities.VersionDescriptor),
		distTags:     make(map[string]string),
		publishTimes: make(map[string]time.Time),
		clock:        epochBuilderClock(),
	}
}

// WithName sets the package name.
func (b *PackageMetadataBuilder) WithName(name string) *PackageMetadataBuilder {
	b.name = name
	return b
}

// WithVersions publishes each version in order, one day apart.
func (b *PackageMetadataBuilder) WithVersions(versions ...string) *PackageMetadataBuilder {
	for _, v := range versions {
		b.clock = b.clock.Add(24 * time.Hour)
		b.WithVersionAt(v, b.clock)
	}
	return b
}

// WithVersionAt publishes version at the given time.
func (b *PackageMetadataBuilder) WithVersionAt(version string, at time.Time) *PackageMetadataBuilder {
	b.versions[version] = entities.VersionDescriptor{Version: version}
	b.publishTimes[version] = at
	return b
}

// WithoutPublishTimes drops every publish time, as abbreviated registry documents do.
func (b *PackageMetadataBuilder) WithoutPublishTimes() *PackageMetadataBuilder {
	b.publishTimes = make(map[string]time.Time)
	return b
}

// WithLatest points the "latest" dist-tag at version.
func (b *PackageMetadataBuilder) WithLatest(version string) *PackageMetadataBuilder {
	b.distTags[entities.DistTagLatest] = version
	return b
}

// WithRepository sets the repository URL.
func (b *PackageMetadataBuilder) WithRepository(url string) *PackageMetadataBuilder {
	b.repository = url
	return b
}

// WithHomepage sets the homepage URL.
func (b *PackageMetadataBuilder) WithHomepage(url string) *PackageMetadataBuilder {
	b.homepage = url
	return b
}

// Build creates the metadata (satisfies testkit.Builder interface).
func (b *PackageMetadataBuilder) Build() interface{} {
	return b.BuildMetadata()
}

// BuildMetadata creates the metadata with a concrete return type.
func (b *PackageMetadataBuilder) BuildMetadata() *entities.PackageMetadata {
	return &entities.PackageMetadata{
		Name:         b.name,
		Versions:     maps.Clone(b.versions),
		DistTags:     maps.Clone(b.distTags),
		PublishTimes: maps.Clone(b.publishTimes),
		Repository:   b.repository,
		Homepage:     b.homepage,
	}
}

// Reset clears the builder state, allowing it to be reused.
func (b *PackageMetadataBuilder) Reset() testkit.Builder {
	b.BaseBuilder.Reset()
	b.name = "left-pad"
	b.versions = make(map[string]entities.VersionDescriptor)
	b.distTags = make(map[string]string)
	b.publishTimes = make(map[string]time.Time)
	b.repository = ""
	b.homepage = ""
	b.clock = epochBuilderClock()
	return b
}

// Clone creates a deep copy of the PackageMetadataBuilder.
func (b *PackageMetadataBuilder) Clone() testkit.Builder {
	return &PackageMetadataBuilder{
		BaseBuilder:  b.BaseBuilder.Clone().(*testkit.BaseBuilder),
		name:         b.name,
		versions:     maps.Clone(b.versions),
		distTags:     maps.Clone(b.distTags),
		publishTimes: maps.Clone(b.publishTimes),
		repository:   b.repository,
		homepage:     b.homepage,
		clock:        b.clock,
	}
}
