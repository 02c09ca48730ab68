// Package changelog records dependency upgrades in a Keep-a-Changelog file.
package changelog

import (
	"errors"
	"fmt"
	"os"

	logger "github.com/sirupsen/logrus"

	"github.com/rios0rios0/rangebump/internal/domain/entities"
	"github.com/rios0rios0/rangebump/internal/domain/repositories"
)

// FileChangelogRepository edits CHANGELOG.md on the local filesystem.
type FileChangelogRepository struct{}

var _ repositories.ChangelogRepository = (*FileChangelogRepository)(nil)

// NewFileChangelogRepository creates a new FileChangelogRepository.
func NewFileChangelogRepository() *FileChangelogRepository {
	return &FileChangelogRepository{}
}

func (it *FileChangelogRepository) Append(path string, bullets []string) (bool, error) {
	info, err := os.Stat(path)
	if errors.Is(err, os.ErrNotExist) {
		logger.Debugf("[changelog] %s does not exist, skipping", path)
		return false, nil
	}
	if err != nil {
		return false, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return false, fmt.Errorf("failed to read changelog: %w", err)
	}

	content := string(data)
	updated := entities.InsertChangelogEntry(content, bullets)
	if updated == content {
		return false, nil
	}

	if err = os.WriteFile(path, []byte(updated), info.Mode().Perm()); err != nil {
		return false, fmt.Errorf("failed to write changelog: %w", err)
	}
	logger.Infof("[changelog] added %d entries to %s", len(bullets), path)
	return true, nil
}
