// Package resolver decides, for one dependency, which published version should
// replace its declared range and renders the replacement range.
package resolver

import (
	"regexp"
	"strings"

	"github.com/Masterminds/semver/v3"

	"github.com/rios0rios0/rangebump/internal/domain/entities"
)

// Wildcard is the range that is satisfied by every version and never rewritten.
const Wildcard = "*"

var (
	// fullVersionPattern matches an embedded major.minor.patch token with optional
	// prerelease and build parts.
	fullVersionPattern = regexp.MustCompile(
		`\d+\.\d+\.\d+(?:-[0-9A-Za-z][0-9A-Za-z.-]*)?(?:\+[0-9A-Za-z][0-9A-Za-z.-]*)?`,
	)
	// partialVersionPattern matches the first 1-3 component version, wildcards included.
	partialVersionPattern = regexp.MustCompile(`\d+(?:\.(?:\d+|[xX*]))?(?:\.(?:\d+|[xX*]))?`)
	prereleaseRangePattern = regexp.MustCompile(`\d+\.\d+\.\d+-[0-9A-Za-z]`)
)

// IsValidRange reports whether raw parses as a semver range.
func IsValidRange(raw string) bool {
	if strings.TrimSpace(raw) == "" {
		return false
	}
	_, err := semver.NewConstraint(raw)
	return err == nil
}

// BaselineVersion returns the concrete version embedded in a range. A textual
// prerelease is kept; partial versions are padded with zeros. Nil when the
// range carries no version digits.
func BaselineVersion(rng string) *semver.Version {
	if token := fullVersionPattern.FindString(rng); token != "" {
		if v, err := semver.NewVersion(token); err == nil {
			return v
		}
	}

	token := partialVersionPattern.FindString(rng)
	if token == "" {
		return nil
	}
	parts := strings.Split(token, ".")
	for len(parts) < 3 {
		parts = append(parts, "0")
	}
	for i, p := range parts {
		if !isDigits(p) {
			parts[i] = "0"
		}
	}
	v, err := semver.NewVersion(strings.Join(parts, "."))
	if err != nil {
		return nil
	}
	return v
}

// IsPrereleaseRange reports whether the range text names a prerelease version.
// Coercion drops prerelease tags, so this looks at the text only.
func IsPrereleaseRange(rng string) bool {
	return prereleaseRangePattern.MatchString(rng)
}

// IsPrereleaseVersion reports whether version parses and carries a prerelease component.
func IsPrereleaseVersion(version string) bool {
	v, err := semver.NewVersion(version)
	if err != nil {
		return false
	}
	return v.Prerelease() != ""
}

// DiffClass returns the semver distance category between two versions, or
// DiffNone when they are equal or either is missing. The result has no direction.
func DiffClass(from, to *semver.Version) entities.DiffClass {
	if from == nil || to == nil || from.Equal(to) {
		return entities.DiffNone
	}

	if from.Prerelease() != "" || to.Prerelease() != "" {
		switch {
		case from.Major() != to.Major():
			return entities.DiffPreMajor
		case from.Minor() != to.Minor():
			return entities.DiffPreMinor
		case from.Patch() != to.Patch():
			return entities.DiffPrePatch
		default:
			return entities.DiffPrerelease
		}
	}

	switch {
	case from.Major() != to.Major():
		return entities.DiffMajor
	case from.Minor() != to.Minor():
		return entities.DiffMinor
	case from.Patch() != to.Patch():
		return entities.DiffPatch
	default:
		// only build metadata differs
		return entities.DiffNone
	}
}

// DiffClassOf is DiffClass on version strings; unparsable input yields DiffNone.
func DiffClassOf(from, to string) entities.DiffClass {
	fromVer, err := semver.NewVersion(from)
	if err != nil {
		return entities.DiffNone
	}
	toVer, err := semver.NewVersion(to)
	if err != nil {
		return entities.DiffNone
	}
	return DiffClass(fromVer, toVer)
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
