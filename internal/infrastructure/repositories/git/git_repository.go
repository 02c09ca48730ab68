// Package git commits rewritten manifests to the local repository holding them.
package git

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	gogit "github.com/go-git/go-git/v5"
	gitconfig "github.com/go-git/go-git/v5/config"
	"github.com/go-git/go-git/v5/plumbing/object"
	logger "github.com/sirupsen/logrus"

	"github.com/rios0rios0/rangebump/internal/domain/repositories"
)

const (
	fallbackAuthorName  = "rangebump[bot]"
	fallbackAuthorEmail = "rangebump[bot]@users.noreply.github.com"
)

var errNoPaths = errors.New("nothing to commit")

// LocalGitRepository commits through go-git, without shelling out to git.
type LocalGitRepository struct {
	now func() time.Time
}

var _ repositories.VersionControlRepository = (*LocalGitRepository)(nil)

// NewLocalGitRepository creates a new LocalGitRepository.
func NewLocalGitRepository() *LocalGitRepository {
	return &LocalGitRepository{now: time.Now}
}

func (it *LocalGitRepository) Commit(ctx context.Context, paths []string, message string) (string, error) {
	if len(paths) == 0 {
		return "", errNoPaths
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}

	dir, err := filepath.Abs(filepath.Dir(paths[0]))
	if err != nil {
		return "", err
	}
	repo, err := gogit.PlainOpenWithOptions(dir, &gogit.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		return "", fmt.Errorf("failed to open git repository at %s: %w", dir, err)
	}
	worktree, err := repo.Worktree()
	if err != nil {
		return "", fmt.Errorf("failed to get worktree: %w", err)
	}

	root := worktree.Filesystem.Root()
	for _, path := range paths {
		rel, relErr := relativeTo(root, path)
		if relErr != nil {
			return "", relErr
		}
		if _, err = worktree.Add(rel); err != nil {
			return "", fmt.Errorf("failed to stage %s: %w", rel, err)
		}
		logger.Debugf("[git] staged %s", rel)
	}

	hash, err := worktree.Commit(message, &gogit.CommitOptions{Author: it.signature(repo)})
	if err != nil {
		return "", fmt.Errorf("failed to commit: %w", err)
	}
	logger.Infof("[git] committed %s", hash.String())
	return hash.String(), nil
}

// signature takes user.name and user.email from the repository and global
// git config, falling back to a tool identity.
func (it *LocalGitRepository) signature(repo *gogit.Repository) *object.Signature {
	sig := &object.Signature{Name: fallbackAuthorName, Email: fallbackAuthorEmail, When: it.now()}

	cfg, err := repo.ConfigScoped(gitconfig.GlobalScope)
	if err != nil {
		logger.Debugf("[git] could not read git config: %v", err)
		return sig
	}
	if cfg.User.Name != "" {
		sig.Name = cfg.User.Name
	}
	if cfg.User.Email != "" {
		sig.Email = cfg.User.Email
	}
	return sig
}

func relativeTo(root, path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", err
	}
	rel, err := filepath.Rel(root, abs)
	if err != nil {
		return "", err
	}
	if rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("%s is outside the repository at %s", path, root)
	}
	return filepath.ToSlash(rel), nil
}
