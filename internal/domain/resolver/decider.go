package resolver

import (
	"github.com/Masterminds/semver/v3"

	"github.com/rios0rios0/rangebump/internal/domain/entities"
)

// Decide turns the selected candidate into the final target version, weighing it
// against the "latest" dist-tag. It returns false when the dependency must not
// change. Rules are evaluated in order and later rules assume earlier ones failed.
func Decide(
	meta *entities.PackageMetadata,
	selected string,
	oldRange string,
	policy entities.PackagePolicy,
) (string, bool) {
	if oldRange == Wildcard {
		return Wildcard, true
	}

	baseline := BaselineVersion(oldRange)
	rangePre := IsPrereleaseRange(oldRange)

	var selectedVer *semver.Version
	if selected != "" {
		if v, err := semver.NewVersion(selected); err == nil {
			selectedVer = v
		}
	}
	selectedPre := selectedVer != nil && selectedVer.Prerelease() != ""
	selectedRelease := selectedVer != nil && selectedVer.Prerelease() == ""
	greater := selectedVer != nil && baseline != nil && selectedVer.GreaterThan(baseline)

	// stay on the prerelease track
	if (!policy.ReleaseOnly && policy.Prerelease) || (rangePre && selectedPre) {
		return selected, selected != ""
	}

	// release-only explicitly steps down from a prerelease to a release
	if policy.ReleaseOnly && !greater && rangePre && selectedRelease {
		return selected, true
	}

	// prerelease graduates to a newer release
	if rangePre && selectedRelease && greater {
		return selected, true
	}

	// never silently downgrade off a prerelease
	if rangePre && selectedRelease && !greater {
		return "", false
	}

	latest := meta.Latest()
	var latestVer *semver.Version
	if latest != "" {
		if v, err := semver.NewVersion(latest); err == nil {
			latestVer = v
		}
	}

	// latest oversteps the ceiling, so the constrained candidate is used
	if diff := DiffClass(baseline, latestVer); diff != entities.DiffNone &&
		diff != entities.DiffPrerelease &&
		!policy.Ceiling.Accepted().Has(diff.Release()) {
		return selected, selected != ""
	}

	if policy.ReleaseOnly && latestVer != nil && latestVer.Prerelease() != "" {
		return selected, selected != ""
	}

	if latest == "" {
		return selected, selected != ""
	}
	return latest, true
}
