//go:build unit

package resolver_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/rios0rios0/rangebump/internal/domain/entities"
	"github.com/rios0rios0/rangebump/internal/domain/resolver"
	"github.com/rios0rios0/rangebump/test/domain/entitybuilders"
)

func TestSelect(t *testing.T) {
	t.Parallel()

	t.Run("should short-circuit the wildcard range", func(t *testing.T) {
		t.Parallel()

		// given
		meta := entitybuilders.NewPackageMetadataBuilder().WithVersions("1.0.0", "2.0.0").BuildMetadata()

		// when
		selected, ok := resolver.Select(meta, entities.PackagePolicy{Ceiling: entities.CeilingMajor}, "*")

		// then
		assert.True(t, ok)
		assert.Equal(t, "*", selected)
	})

	t.Run("should pick the newest publish inside a minor ceiling", func(t *testing.T) {
		t.Parallel()

		// given
		meta := entitybuilders.NewPackageMetadataBuilder().
			WithVersions("1.2.3", "1.2.9", "1.3.0", "2.0.0").
			WithLatest("2.0.0").
			BuildMetadata()
		policy := entities.PackagePolicy{Ceiling: entities.CeilingMinor}

		// when
		selected, ok := resolver.Select(meta, policy, "^1.2.3")

		// then
		assert.True(t, ok)
		assert.Equal(t, "1.3.0", selected)
	})

	t.Run("should only accept patches under a patch ceiling", func(t *testing.T) {
		t.Parallel()

		// given
		meta := entitybuilders.NewPackageMetadataBuilder().
			WithVersions("1.2.3", "1.2.9", "1.3.0", "2.0.0").
			BuildMetadata()
		policy := entities.PackagePolicy{Ceiling: entities.CeilingPatch}

		// when
		selected, ok := resolver.Select(meta, policy, "~1.2.3")

		// then
		assert.True(t, ok)
		assert.Equal(t, "1.2.9", selected)
	})

	t.Run("should prefer the most recent publish over the greatest version", func(t *testing.T) {
		t.Parallel()

		// given
		base := time.Date(2024, time.March, 1, 0, 0, 0, 0, time.UTC)
		meta := entitybuilders.NewPackageMetadataBuilder().
			WithVersionAt("1.0.0", base).
			WithVersionAt("1.3.0", base.Add(24*time.Hour)).
			WithVersionAt("1.2.9", base.Add(48*time.Hour)).
			BuildMetadata()
		policy := entities.PackagePolicy{Ceiling: entities.CeilingMajor}

		// when
		selected, ok := resolver.Select(meta, policy, "^1.0.0")

		// then
		assert.True(t, ok)
		assert.Equal(t, "1.2.9", selected)
	})

	t.Run("should pick the greatest version when the greatest policy is set", func(t *testing.T) {
		t.Parallel()

		// given
		base := time.Date(2024, time.March, 1, 0, 0, 0, 0, time.UTC)
		meta := entitybuilders.NewPackageMetadataBuilder().
			WithVersionAt("1.0.0", base).
			WithVersionAt("1.3.0", base.Add(24*time.Hour)).
			WithVersionAt("1.2.9", base.Add(48*time.Hour)).
			BuildMetadata()
		policy := entities.PackagePolicy{Greatest: true, Ceiling: entities.CeilingMajor}

		// when
		selected, ok := resolver.Select(meta, policy, "^1.0.0")

		// then
		assert.True(t, ok)
		assert.Equal(t, "1.3.0", selected)
	})

	t.Run("should fall back to the greatest version without publish times", func(t *testing.T) {
		t.Parallel()

		// given
		meta := entitybuilders.NewPackageMetadataBuilder().
			WithVersions("1.0.0", "1.3.0", "1.2.9").
			WithoutPublishTimes().
			BuildMetadata()
		policy := entities.PackagePolicy{Ceiling: entities.CeilingMajor}

		// when
		selected, ok := resolver.Select(meta, policy, "^1.0.0")

		// then
		assert.True(t, ok)
		assert.Equal(t, "1.3.0", selected)
	})

	t.Run("should not pick a version below the baseline when picking the greatest", func(t *testing.T) {
		t.Parallel()

		// given
		meta := entitybuilders.NewPackageMetadataBuilder().
			WithVersions("1.2.0", "1.2.1", "1.2.3", "2.0.0").
			WithLatest("2.0.0").
			BuildMetadata()
		policy := entities.PackagePolicy{Greatest: true, Ceiling: entities.CeilingPatch}

		// when
		selected, ok := resolver.Select(meta, policy, "^1.2.3")

		// then
		assert.False(t, ok)
		assert.Empty(t, selected)
	})

	t.Run("should not pick a version below the baseline without publish times", func(t *testing.T) {
		t.Parallel()

		// given
		meta := entitybuilders.NewPackageMetadataBuilder().
			WithVersions("1.2.0", "1.2.1", "1.2.3", "2.0.0").
			WithLatest("2.0.0").
			WithoutPublishTimes().
			BuildMetadata()
		policy := entities.PackagePolicy{Ceiling: entities.CeilingPatch}

		// when
		selected, ok := resolver.Select(meta, policy, "~1.2.3")

		// then
		assert.False(t, ok)
		assert.Empty(t, selected)
	})

	t.Run("should break publish-time ties by the first version seen", func(t *testing.T) {
		t.Parallel()

		// given
		at := time.Date(2024, time.March, 1, 0, 0, 0, 0, time.UTC)
		meta := entitybuilders.NewPackageMetadataBuilder().
			WithVersionAt("1.0.0", at.Add(-time.Hour)).
			WithVersionAt("1.2.0", at).
			WithVersionAt("1.1.0", at).
			BuildMetadata()
		policy := entities.PackagePolicy{Ceiling: entities.CeilingMajor}

		// when
		selected, ok := resolver.Select(meta, policy, "^1.0.0")

		// then
		assert.True(t, ok)
		assert.Equal(t, "1.1.0", selected)
	})

	t.Run("should skip prereleases unless allowed", func(t *testing.T) {
		t.Parallel()

		// given
		meta := entitybuilders.NewPackageMetadataBuilder().
			WithVersions("1.2.3", "1.3.0-beta.1").
			BuildMetadata()
		policy := entities.PackagePolicy{Ceiling: entities.CeilingMajor}

		// when
		selected, ok := resolver.Select(meta, policy, "^1.2.3")

		// then
		assert.False(t, ok)
		assert.Empty(t, selected)
	})

	t.Run("should accept prereleases when the prerelease policy is set", func(t *testing.T) {
		t.Parallel()

		// given
		meta := entitybuilders.NewPackageMetadataBuilder().
			WithVersions("1.2.3", "1.3.0-beta.1").
			BuildMetadata()
		policy := entities.PackagePolicy{Prerelease: true, Ceiling: entities.CeilingMajor}

		// when
		selected, ok := resolver.Select(meta, policy, "^1.2.3")

		// then
		assert.True(t, ok)
		assert.Equal(t, "1.3.0-beta.1", selected)
	})

	t.Run("should keep prereleases of a disallowed class excluded", func(t *testing.T) {
		t.Parallel()

		// given
		meta := entitybuilders.NewPackageMetadataBuilder().
			WithVersions("1.2.3", "1.2.4", "2.0.0-beta.1").
			BuildMetadata()
		policy := entities.PackagePolicy{Prerelease: true, Ceiling: entities.CeilingPatch}

		// when
		selected, ok := resolver.Select(meta, policy, "~1.2.3")

		// then
		assert.True(t, ok)
		assert.Equal(t, "1.2.4", selected)
	})

	t.Run("should exclude every prerelease in release-only mode", func(t *testing.T) {
		t.Parallel()

		// given
		meta := entitybuilders.NewPackageMetadataBuilder().
			WithVersions("1.0.0-beta.1", "1.0.0-beta.2").
			BuildMetadata()
		policy := entities.PackagePolicy{ReleaseOnly: true, Prerelease: true, Ceiling: entities.CeilingMajor}

		// when
		selected, ok := resolver.Select(meta, policy, "^1.0.0-beta.1")

		// then
		assert.False(t, ok)
		assert.Empty(t, selected)
	})

	t.Run("should ignore version keys that are not strict semver", func(t *testing.T) {
		t.Parallel()

		// given
		meta := entitybuilders.NewPackageMetadataBuilder().
			WithVersions("1.0.0", "1.1", "v1.2.0").
			BuildMetadata()
		policy := entities.PackagePolicy{Ceiling: entities.CeilingMajor}

		// when
		selected, ok := resolver.Select(meta, policy, "^1.0.0")

		// then
		assert.False(t, ok)
		assert.Empty(t, selected)
	})

	t.Run("should return nothing for nil metadata", func(t *testing.T) {
		t.Parallel()

		// given
		var meta *entities.PackageMetadata

		// when
		selected, ok := resolver.Select(meta, entities.PackagePolicy{}, "^1.0.0")

		// then
		assert.False(t, ok)
		assert.Empty(t, selected)
	})
}

func TestSelectNeverExceedsCeiling(t *testing.T) {
	t.Parallel()

	versions := []string{
		"0.9.0", "1.0.0", "1.0.1", "1.1.0", "1.1.1-rc.1", "1.5.0",
		"2.0.0-beta.1", "2.0.0", "2.1.0", "3.0.0",
	}
	ranges := []string{"^1.0.0", "~1.0.1", "1.1.0", ">=1.0.0 <3.0.0", "^1.1", "1.x"}
	ceilings := []entities.DiffCeiling{entities.CeilingPatch, entities.CeilingMinor, entities.CeilingMajor}

	for _, ceiling := range ceilings {
		for _, pre := range []bool{false, true} {
			for _, greatest := range []bool{false, true} {
				policy := entities.PackagePolicy{Prerelease: pre, Greatest: greatest, Ceiling: ceiling}

				t.Run("should stay within the "+string(ceiling)+" ceiling", func(t *testing.T) {
					t.Parallel()

					// given
					meta := entitybuilders.NewPackageMetadataBuilder().WithVersions(versions...).BuildMetadata()

					for _, rng := range ranges {
						// when
						selected, ok := resolver.Select(meta, policy, rng)

						// then
						if !ok {
							continue
						}
						diff := resolver.DiffClass(resolver.BaselineVersion(rng), resolver.BaselineVersion(selected))
						assert.True(t, resolver.AcceptedDiffs(policy, rng).Has(diff),
							"range %s selected %s (%s)", rng, selected, diff)
						assert.True(t, policy.Ceiling.Accepted().Has(diff.Release()) || diff == entities.DiffPrerelease,
							"range %s selected %s (%s)", rng, selected, diff)
					}
				})
			}
		}
	}
}
