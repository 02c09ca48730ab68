package resolver

import (
	"sort"
	"time"

	"github.com/Masterminds/semver/v3"

	"github.com/rios0rios0/rangebump/internal/domain/entities"
)

// AcceptedDiffs returns the diff classes a candidate may be at from the range's
// baseline. Prerelease variants are admitted only alongside their release class.
func AcceptedDiffs(policy entities.PackagePolicy, oldRange string) entities.DiffSet {
	accepted := policy.Ceiling.Accepted()
	if allowsPrerelease(policy, oldRange) {
		accepted = accepted.WithPrereleases()
	}
	return accepted
}

func allowsPrerelease(policy entities.PackagePolicy, oldRange string) bool {
	return IsPrereleaseRange(oldRange) || policy.Prerelease
}

// Select picks the best published version for oldRange under policy. It returns
// false when no version qualifies. The wildcard range selects itself. When
// picking by version number only versions above the baseline qualify.
func Select(meta *entities.PackageMetadata, policy entities.PackagePolicy, oldRange string) (string, bool) {
	if oldRange == Wildcard {
		return Wildcard, true
	}

	baseline := BaselineVersion(oldRange)
	if baseline == nil || meta == nil {
		return "", false
	}

	accepted := AcceptedDiffs(policy, oldRange)
	allowPre := allowsPrerelease(policy, oldRange)
	byGreatest := policy.Greatest || !meta.HasPublishTimes()

	var best *semver.Version
	bestTime := time.Unix(0, 0)

	for _, v := range publishedVersions(meta) {
		if v.Prerelease() != "" && (!allowPre || policy.ReleaseOnly) {
			continue
		}

		diff := DiffClass(baseline, v)
		if diff == entities.DiffNone || !accepted.Has(diff) {
			continue
		}

		if byGreatest {
			// the baseline seeds the comparison, so nothing below it is ever picked
			floor := baseline
			if best != nil {
				floor = best
			}
			if v.GreaterThan(floor) {
				best = v
			}
			continue
		}

		if published := meta.PublishedAt(v.Original()); published.After(bestTime) {
			best = v
			bestTime = published
		}
	}

	if best == nil {
		return "", false
	}
	return best.Original(), true
}

// publishedVersions parses every strictly valid version key in ascending order,
// so the "first seen" tie-break is stable across runs.
func publishedVersions(meta *entities.PackageMetadata) []*semver.Version {
	versions := make([]*semver.Version, 0, len(meta.Versions))
	for key := range meta.Versions {
		v, err := semver.StrictNewVersion(key)
		if err != nil {
			continue
		}
		versions = append(versions, v)
	}
	sort.Sort(semver.Collection(versions))
	return versions
}
