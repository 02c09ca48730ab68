//go:build integration || unit || test

package entitybuilders //nolint:revive,staticcheck // Test package naming follows established project structure

import (
	"github.com/rios0rios0/rangebump/internal/domain/entities"
	testkit "github.com/rios0rios0/testkit/pkg/test"
)

// DependencyEntryBuilder helps create test dependency entries with a fluent interface.
type DependencyEntryBuilder struct {
	*testkit.BaseBuilder
	name     string
	oldRange string
	newRange string
	infoURL  string
	purl     string
}

// NewDependencyEntryBuilder creates a new dependency entry builder with sensible defaults.
func NewDependencyEntryBuilder() *DependencyEntryBuilder {
	return &DependencyEntryBuilder{
		BaseBuilder: testkit.NewBaseBuilder(),
		name:        "left-pad",
		oldRange:    "^1.0.0",
	}
}

// WithName sets the package name.
func (b *DependencyEntryBuilder) WithName(name string) *DependencyEntryBuilder {
	b.name = name
	return b
}

// WithOldRange sets the declared range.
func (b *DependencyEntryBuilder) WithOldRange(rng string) *DependencyEntryBuilder {
	b.oldRange = rng
	return b
}

// WithNewRange sets the resolved range.
func (b *DependencyEntryBuilder) WithNewRange(rng string) *DependencyEntryBuilder {
	b.newRange = rng
	return b
}

// WithInfoURL sets the info URL.
func (b *DependencyEntryBuilder) WithInfoURL(url string) *DependencyEntryBuilder {
	b.infoURL = url
	return b
}

// WithPURL sets the package URL.
func (b *DependencyEntryBuilder) WithPURL(purl string) *DependencyEntryBuilder {
	b.purl = purl
	return b
}

// Build creates the entry (satisfies testkit.Builder interface).
func (b *DependencyEntryBuilder) Build() interface{} {
	return b.BuildEntry()
}

// BuildEntry creates the entry with a concrete return type.
func (b *DependencyEntryBuilder) BuildEntry() entities.DependencyEntry {
	return entities.DependencyEntry{
		Name:     b.name,
		OldRange: b.oldRange,
		NewRange: b.newRange,
		InfoURL:  b.infoURL,
		PURL:     b.purl,
	}
}

// Reset clears the builder state, allowing it to be reused.
func (b *DependencyEntryBuilder) Reset() testkit.Builder {
	b.BaseBuilder.Reset()
	b.name = "left-pad"
	b.oldRange = "^1.0.0"
	b.newRange = ""
	b.infoURL = ""
	b.purl = ""
	return b
}

// Clone creates a deep copy of the DependencyEntryBuilder.
func (b *DependencyEntryBuilder) Clone() testkit.Builder {
	return &DependencyEntryBuilder{
		BaseBuilder: b.BaseBuilder.Clone().(*testkit.BaseBuilder),
		name:        b.name,
		oldRange:    b.oldRange,
		newRange:    b.newRange,
		infoURL:     b.infoURL,
		purl:        b.purl,
	}
}
