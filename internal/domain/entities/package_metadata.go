package entities

import "time"

// DistTagLatest is the dist-tag the registry moves on every stable publish.
const DistTagLatest = "latest"

// VersionDescriptor holds the per-version fields the resolver cares about.
type VersionDescriptor struct {
	Version    string `json:"version"`
	Deprecated string `json:"deprecated,omitempty"`
}

// PackageMetadata is an immutable snapshot of everything the registry knows about a package.
type PackageMetadata struct {
	Name         string                       `json:"name"`
	Versions     map[string]VersionDescriptor `json:"versions"`
	DistTags     map[string]string            `json:"dist_tags"`
	PublishTimes map[string]time.Time         `json:"publish_times"`
	Repository   string                       `json:"repository"`
	Homepage     string                       `json:"homepage"`
}

// Latest returns the version the "latest" dist-tag points to, or "" when absent.
func (m *PackageMetadata) Latest() string {
	if m == nil || m.DistTags == nil {
		return ""
	}
	return m.DistTags[DistTagLatest]
}

// HasPublishTimes reports whether the registry supplied any publish timestamps.
// Some registries serve abbreviated documents without the "time" field.
func (m *PackageMetadata) HasPublishTimes() bool {
	return m != nil && len(m.PublishTimes) > 0
}

// PublishedAt returns the publish time of version, or the zero time when unknown.
func (m *PackageMetadata) PublishedAt(version string) time.Time {
	if m == nil {
		return time.Time{}
	}
	return m.PublishTimes[version]
}

// NpmPackagePageURL is the public package page used when no repository or homepage is known.
const NpmPackagePageURL = "https://www.npmjs.com/package/"

// InfoURL returns where to read about the package: its repository, its
// homepage, or the npmjs.com package page, in that order.
func (m *PackageMetadata) InfoURL() string {
	if m == nil {
		return ""
	}
	if m.Repository != "" {
		return m.Repository
	}
	if m.Homepage != "" {
		return m.Homepage
	}
	return NpmPackagePageURL + m.Name
}
