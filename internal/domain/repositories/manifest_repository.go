package repositories

import (
	"github.com/rios0rios0/rangebump/internal/domain/entities"
)

// ManifestRepository reads and rewrites dependency ranges in a package manifest.
type ManifestRepository interface {
	// Read returns the requested sections. Missing sections are omitted.
	Read(path string, sections []string) (entities.ManifestDependencies, error)

	// WriteRanges replaces the declared range of every upgraded entry in place,
	// leaving the rest of the document untouched.
	WriteRanges(path string, sections []string, upgrades []entities.DependencyEntry) error
}

// ChangelogRepository appends bullets to a Keep-a-Changelog file.
type ChangelogRepository interface {
	// Append returns false when the file is missing or has no Unreleased section.
	Append(path string, bullets []string) (bool, error)
}
