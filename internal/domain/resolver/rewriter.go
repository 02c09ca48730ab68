package resolver

import (
	"strconv"
	"strings"

	"github.com/Masterminds/semver/v3"
)

// Rewrite substitutes the first version embedded in oldRange with newVersion,
// leaving range operators untouched. Ranges that only carry a partial version
// (`^1.2`, `1.x`) keep their precision and wildcards. Applying it twice with
// the same version is a no-op.
func Rewrite(oldRange, newVersion string) string {
	if loc := fullVersionPattern.FindStringIndex(oldRange); loc != nil {
		return oldRange[:loc[0]] + newVersion + oldRange[loc[1]:]
	}

	loc := partialVersionPattern.FindStringIndex(oldRange)
	if loc == nil {
		return oldRange
	}

	target, err := semver.NewVersion(newVersion)
	if err != nil || target.Prerelease() != "" {
		// a prerelease cannot be expressed with fewer than three components
		return oldRange[:loc[0]] + newVersion + oldRange[loc[1]:]
	}

	components := []uint64{target.Major(), target.Minor(), target.Patch()}
	parts := strings.Split(oldRange[loc[0]:loc[1]], ".")
	for i, part := range parts {
		if isDigits(part) {
			parts[i] = strconv.FormatUint(components[i], 10)
		}
	}
	return oldRange[:loc[0]] + strings.Join(parts, ".") + oldRange[loc[1]:]
}
