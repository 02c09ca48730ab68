//go:build unit

package changelog_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rios0rios0/rangebump/internal/infrastructure/repositories/changelog"
)

func TestFileChangelogRepositoryAppend(t *testing.T) {
	t.Parallel()

	t.Run("should insert bullets under the Unreleased section", func(t *testing.T) {
		t.Parallel()

		// given
		path := filepath.Join(t.TempDir(), "CHANGELOG.md")
		content := "# Changelog\n\n## [Unreleased]\n\n## [1.0.0] - 2024-01-01\n\n- initial release\n"
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
		repo := changelog.NewFileChangelogRepository()

		// when
		updated, err := repo.Append(path, []string{"- bumped `react` from `^17.0.2` to `^18.3.1`"})

		// then
		require.NoError(t, err)
		assert.True(t, updated)
		data, _ := os.ReadFile(path)
		assert.Contains(t, string(data), "### Changed\n\n- bumped `react` from `^17.0.2` to `^18.3.1`\n")
		assert.Contains(t, string(data), "## [1.0.0] - 2024-01-01\n\n- initial release\n")
	})

	t.Run("should report false when the file does not exist", func(t *testing.T) {
		t.Parallel()

		// given
		path := filepath.Join(t.TempDir(), "CHANGELOG.md")
		repo := changelog.NewFileChangelogRepository()

		// when
		updated, err := repo.Append(path, []string{"- bumped `a` from `1` to `2`"})

		// then
		require.NoError(t, err)
		assert.False(t, updated)
		assert.NoFileExists(t, path)
	})

	t.Run("should leave a changelog without Unreleased section untouched", func(t *testing.T) {
		t.Parallel()

		// given
		path := filepath.Join(t.TempDir(), "CHANGELOG.md")
		content := "# Changelog\n\n## [1.0.0] - 2024-01-01\n"
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
		repo := changelog.NewFileChangelogRepository()

		// when
		updated, err := repo.Append(path, []string{"- bumped `a` from `1` to `2`"})

		// then
		require.NoError(t, err)
		assert.False(t, updated)
		data, _ := os.ReadFile(path)
		assert.Equal(t, content, string(data))
	})
}
