//go:build unit

package resolver_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rios0rios0/rangebump/internal/domain/entities"
	"github.com/rios0rios0/rangebump/internal/domain/resolver"
)

func TestIsValidRange(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		rng   string
		valid bool
	}{
		{name: "caret", rng: "^1.2.3", valid: true},
		{name: "tilde partial", rng: "~1.2", valid: true},
		{name: "comparator pair", rng: ">=1.2.3 <2.0.0", valid: true},
		{name: "alternatives", rng: "^1.2.3 || ^2.0.0", valid: true},
		{name: "x-range", rng: "1.x", valid: true},
		{name: "wildcard", rng: "*", valid: true},
		{name: "empty", rng: "", valid: false},
		{name: "dist-tag", rng: "latest", valid: false},
		{name: "git shorthand", rng: "github:user/repo", valid: false},
	}

	for _, tt := range tests {
		t.Run("should classify "+tt.name, func(t *testing.T) {
			t.Parallel()

			// given
			rng := tt.rng

			// when
			valid := resolver.IsValidRange(rng)

			// then
			assert.Equal(t, tt.valid, valid)
		})
	}
}

func TestBaselineVersion(t *testing.T) {
	t.Parallel()

	t.Run("should keep the prerelease tag of a full version", func(t *testing.T) {
		t.Parallel()

		// given
		rng := "^1.2.3-beta"

		// when
		baseline := resolver.BaselineVersion(rng)

		// then
		require.NotNil(t, baseline)
		assert.Equal(t, "1.2.3-beta", baseline.String())
	})

	t.Run("should take the first version of a comparator set", func(t *testing.T) {
		t.Parallel()

		// given
		rng := ">=1.2.3 <2.0.0"

		// when
		baseline := resolver.BaselineVersion(rng)

		// then
		require.NotNil(t, baseline)
		assert.Equal(t, "1.2.3", baseline.String())
	})

	t.Run("should pad a partial version with zeros", func(t *testing.T) {
		t.Parallel()

		// given
		rng := "~1.2"

		// when
		baseline := resolver.BaselineVersion(rng)

		// then
		require.NotNil(t, baseline)
		assert.Equal(t, "1.2.0", baseline.String())
	})

	t.Run("should treat x components as zero", func(t *testing.T) {
		t.Parallel()

		// given
		rng := "1.x"

		// when
		baseline := resolver.BaselineVersion(rng)

		// then
		require.NotNil(t, baseline)
		assert.Equal(t, "1.0.0", baseline.String())
	})

	t.Run("should return nil when the range carries no version", func(t *testing.T) {
		t.Parallel()

		// given
		rng := "*"

		// when
		baseline := resolver.BaselineVersion(rng)

		// then
		assert.Nil(t, baseline)
	})
}

func TestIsPrereleaseRange(t *testing.T) {
	t.Parallel()

	t.Run("should detect a prerelease suffix", func(t *testing.T) {
		t.Parallel()

		// given
		rng := "^1.2.3-beta.1"

		// when
		pre := resolver.IsPrereleaseRange(rng)

		// then
		assert.True(t, pre)
	})

	t.Run("should reject a release range", func(t *testing.T) {
		t.Parallel()

		// given
		rng := "^1.2.3"

		// when
		pre := resolver.IsPrereleaseRange(rng)

		// then
		assert.False(t, pre)
	})

	t.Run("should reject a partial version followed by a dash", func(t *testing.T) {
		t.Parallel()

		// given
		rng := "1.2-beta"

		// when
		pre := resolver.IsPrereleaseRange(rng)

		// then
		assert.False(t, pre)
	})

	t.Run("should not confuse a hyphen range with a prerelease", func(t *testing.T) {
		t.Parallel()

		// given
		rng := "1.2.3 - 2.0.0"

		// when
		pre := resolver.IsPrereleaseRange(rng)

		// then
		assert.False(t, pre)
	})
}

func TestIsPrereleaseVersion(t *testing.T) {
	t.Parallel()

	t.Run("should detect a prerelease version", func(t *testing.T) {
		t.Parallel()

		// given
		version := "2.0.0-rc.1"

		// when
		pre := resolver.IsPrereleaseVersion(version)

		// then
		assert.True(t, pre)
	})

	t.Run("should reject a release and garbage", func(t *testing.T) {
		t.Parallel()

		// given
		release, garbage := "2.0.0", "not-a-version"

		// when
		releasePre := resolver.IsPrereleaseVersion(release)
		garbagePre := resolver.IsPrereleaseVersion(garbage)

		// then
		assert.False(t, releasePre)
		assert.False(t, garbagePre)
	})
}

func TestDiffClassOf(t *testing.T) {
	t.Parallel()

	tests := []struct {
		from     string
		to       string
		expected entities.DiffClass
	}{
		{from: "1.2.3", to: "1.2.4", expected: entities.DiffPatch},
		{from: "1.2.3", to: "1.3.0", expected: entities.DiffMinor},
		{from: "1.2.3", to: "2.0.0", expected: entities.DiffMajor},
		{from: "2.0.0", to: "1.2.3", expected: entities.DiffMajor},
		{from: "1.2.3", to: "1.2.4-beta.1", expected: entities.DiffPrePatch},
		{from: "1.2.3", to: "1.3.0-beta.1", expected: entities.DiffPreMinor},
		{from: "1.2.3", to: "2.0.0-rc.1", expected: entities.DiffPreMajor},
		{from: "1.0.0-beta.1", to: "1.0.0-beta.2", expected: entities.DiffPrerelease},
		{from: "1.0.0-beta.1", to: "1.0.0", expected: entities.DiffPrerelease},
		{from: "1.2.3", to: "1.2.3", expected: entities.DiffNone},
		{from: "1.2.3", to: "1.2.3+build.7", expected: entities.DiffNone},
		{from: "garbage", to: "1.2.3", expected: entities.DiffNone},
	}

	for _, tt := range tests {
		t.Run("should classify "+tt.from+" to "+tt.to, func(t *testing.T) {
			t.Parallel()

			// given
			from, to := tt.from, tt.to

			// when
			diff := resolver.DiffClassOf(from, to)

			// then
			assert.Equal(t, tt.expected, diff)
		})
	}
}

func TestDiffClass(t *testing.T) {
	t.Parallel()

	t.Run("should return none when either side is missing", func(t *testing.T) {
		t.Parallel()

		// given
		baseline := resolver.BaselineVersion("^1.2.3")

		// when
		left := resolver.DiffClass(nil, baseline)
		right := resolver.DiffClass(baseline, nil)

		// then
		assert.Equal(t, entities.DiffNone, left)
		assert.Equal(t, entities.DiffNone, right)
	})
}
