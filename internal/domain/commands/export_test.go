package commands

// PackageURL exports packageURL for testing.
var PackageURL = packageURL //nolint:gochecknoglobals // test export

// ShortHash exports shortHash for testing.
var ShortHash = shortHash //nolint:gochecknoglobals // test export
