package entities

// Dependency sections understood in a package.json manifest.
const (
	SectionDependencies         = "dependencies"
	SectionDevDependencies      = "devDependencies"
	SectionPeerDependencies     = "peerDependencies"
	SectionOptionalDependencies = "optionalDependencies"
)

// DefaultSections lists the manifest sections checked when none are configured.
func DefaultSections() []string {
	return []string{SectionDependencies, SectionDevDependencies}
}

// KnownSections lists every manifest section that may be selected.
func KnownSections() []string {
	return []string{
		SectionDependencies,
		SectionDevDependencies,
		SectionPeerDependencies,
		SectionOptionalDependencies,
	}
}

// DependencyEntry is a single declared dependency and, once resolved, its replacement range.
type DependencyEntry struct {
	Name     string // Package name as declared in the manifest
	OldRange string // Range as declared
	NewRange string // Replacement range; empty until resolved
	InfoURL  string // Repository or registry page for the package
	PURL     string // Package URL of the target version
}

// Changed reports whether resolution produced a range different from the declared one.
func (d DependencyEntry) Changed() bool {
	return d.NewRange != "" && d.NewRange != d.OldRange
}

// ManifestDependencies maps a manifest section to its name -> range entries.
type ManifestDependencies map[string]map[string]string

// Flatten merges all sections into one name -> range map. When a name is
// declared in more than one section, the first section in order wins.
func (m ManifestDependencies) Flatten(order []string) map[string]string {
	flat := make(map[string]string)
	for _, section := range order {
		for name, rng := range m[section] {
			if _, seen := flat[name]; !seen {
				flat[name] = rng
			}
		}
	}
	return flat
}
