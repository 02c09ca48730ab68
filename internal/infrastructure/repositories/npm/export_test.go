package npm

// NormalizeRepoURL exports normalizeRepoURL for testing.
var NormalizeRepoURL = normalizeRepoURL //nolint:gochecknoglobals // test export
