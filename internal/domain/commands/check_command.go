package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	packageurl "github.com/package-url/packageurl-go"
	logger "github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/rios0rios0/rangebump/internal/domain/entities"
	"github.com/rios0rios0/rangebump/internal/domain/repositories"
	"github.com/rios0rios0/rangebump/internal/domain/resolver"
)

// CommitMessage is used when upgraded ranges are committed.
const CommitMessage = "chore(deps): updated npm dependency ranges"

// ChangelogFileName is looked up next to the manifest.
const ChangelogFileName = "CHANGELOG.md"

// Check is the interface for the check command.
type Check interface {
	Execute(ctx context.Context, settings *entities.Settings, opts CheckOptions) (*entities.CheckResult, error)
}

// CheckOptions holds runtime options for a single check.
type CheckOptions struct {
	ManifestPath string
	Upgrade      bool // rewrite the manifest in place
	Changelog    bool // add the upgrades to CHANGELOG.md (implies Upgrade)
	Commit       bool // commit the rewritten files (implies Upgrade)
}

// CheckCommand resolves every declared range of a manifest against the registry:
// read manifest -> filter -> fetch metadata concurrently -> resolve -> optionally write.
type CheckCommand struct {
	manifests  repositories.ManifestRepository
	changelogs repositories.ChangelogRepository
	registries repositories.RegistryFactory
	vcs        repositories.VersionControlRepository
}

// NewCheckCommand creates a new CheckCommand.
func NewCheckCommand(
	manifests repositories.ManifestRepository,
	changelogs repositories.ChangelogRepository,
	registries repositories.RegistryFactory,
	vcs repositories.VersionControlRepository,
) *CheckCommand {
	return &CheckCommand{
		manifests:  manifests,
		changelogs: changelogs,
		registries: registries,
		vcs:        vcs,
	}
}

// Execute runs the check. A registry failure for any package aborts the whole
// batch; no partial result is returned.
func (it *CheckCommand) Execute(
	ctx context.Context,
	settings *entities.Settings,
	opts CheckOptions,
) (*entities.CheckResult, error) {
	declared, err := it.manifests.Read(opts.ManifestPath, settings.Sections)
	if err != nil {
		return nil, fmt.Errorf("failed to read manifest: %w", err)
	}

	entries, err := selectEntries(declared, settings)
	if err != nil {
		return nil, err
	}
	logger.Debugf("Checking %d dependencies from %s", len(entries), opts.ManifestPath)

	registry, err := it.registries.Build(settings)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize registry client: %w", err)
	}
	if closer, ok := registry.(io.Closer); ok {
		defer func() {
			if closeErr := closer.Close(); closeErr != nil {
				logger.Warnf("Failed to close registry client: %v", closeErr)
			}
		}()
	}

	results, err := resolveAll(ctx, registry, settings, entries)
	if err != nil {
		return nil, err
	}

	result := &entities.CheckResult{
		ManifestPath: opts.ManifestPath,
		Checked:      len(entries),
		Upgrades:     results.Entries(),
	}
	if result.UpToDate() || !(opts.Upgrade || opts.Changelog || opts.Commit) {
		return result, nil
	}

	if err = it.apply(ctx, settings, opts, result); err != nil {
		return nil, err
	}
	return result, nil
}

// apply writes the upgrades and optionally records them in the changelog and git.
func (it *CheckCommand) apply(
	ctx context.Context,
	settings *entities.Settings,
	opts CheckOptions,
	result *entities.CheckResult,
) error {
	if err := it.manifests.WriteRanges(opts.ManifestPath, settings.Sections, result.Upgrades); err != nil {
		return fmt.Errorf("failed to write manifest: %w", err)
	}
	result.Written = true
	logger.Infof("Wrote %d upgraded ranges to %s", len(result.Upgrades), opts.ManifestPath)

	touched := []string{opts.ManifestPath}
	if opts.Changelog {
		changelogPath := filepath.Join(filepath.Dir(opts.ManifestPath), ChangelogFileName)
		updated, err := it.changelogs.Append(changelogPath, entities.ChangelogLines(result.Upgrades))
		if err != nil {
			return fmt.Errorf("failed to update changelog: %w", err)
		}
		if updated {
			touched = append(touched, changelogPath)
		} else {
			logger.Warnf("%s is missing or has no [Unreleased] section, changelog left untouched", changelogPath)
		}
	}

	if opts.Commit {
		hash, err := it.vcs.Commit(ctx, touched, CommitMessage)
		if err != nil {
			return fmt.Errorf("failed to commit changes: %w", err)
		}
		result.Committed = hash
		logger.Infof("Committed upgrades as %s", shortHash(hash))
	}
	return nil
}

// selectEntries flattens the configured sections, applies the name filters and
// drops ranges that do not parse.
func selectEntries(
	declared entities.ManifestDependencies,
	settings *entities.Settings,
) ([]entities.DependencyEntry, error) {
	flat := declared.Flatten(settings.Sections)
	if len(flat) == 0 {
		return nil, fmt.Errorf("%w: manifest declares no dependencies in %s",
			entities.ErrNoMatchingDependencies, strings.Join(settings.Sections, ", "))
	}

	filter, err := entities.NewNameFilter(settings.Include, settings.Exclude)
	if err != nil {
		return nil, err
	}
	filtered := filter.Apply(flat)
	if len(filtered) == 0 {
		return nil, entities.ErrNoMatchingDependencies
	}

	entries := make([]entities.DependencyEntry, 0, len(filtered))
	for name, rng := range filtered {
		if !resolver.IsValidRange(rng) {
			logger.Debugf("Skipping %s: %v %q", name, entities.ErrInvalidRange, rng)
			continue
		}
		entries = append(entries, entities.DependencyEntry{Name: name, OldRange: rng})
	}
	return entries, nil
}

// resolveAll fetches and resolves every entry concurrently. The first fetch
// failure cancels the outstanding fetches and is returned alone.
func resolveAll(
	ctx context.Context,
	registry repositories.RegistryRepository,
	settings *entities.Settings,
	entries []entities.DependencyEntry,
) (*entities.ResultSet, error) {
	results := entities.NewResultSet()

	group, groupCtx := errgroup.WithContext(ctx)
	if settings.Concurrency > 0 {
		group.SetLimit(settings.Concurrency)
	}

	for _, entry := range entries {
		group.Go(func() error {
			meta, err := registry.FetchMetadata(groupCtx, entry.Name)
			if err != nil {
				var fetchErr *entities.FetchError
				if errors.As(err, &fetchErr) {
					return err
				}
				return &entities.FetchError{Name: entry.Name, Err: err}
			}

			decision, ok := resolver.Resolve(meta, settings.Policy.For(entry.Name), entry.OldRange)
			if ok {
				entry.NewRange = decision.NewRange
				entry.InfoURL = meta.InfoURL()
				entry.PURL = packageURL(entry.Name, decision.Target)
				logger.Debugf("%s: %s -> %s", entry.Name, entry.OldRange, entry.NewRange)
			}
			return results.Record(entry)
		})
	}

	if err := group.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// packageURL renders the purl of an npm package version; scoped names carry
// their scope as the namespace.
func packageURL(name, version string) string {
	namespace := ""
	if strings.HasPrefix(name, "@") {
		if scope, rest, found := strings.Cut(name, "/"); found {
			namespace, name = scope, rest
		}
	}
	return packageurl.NewPackageURL(packageurl.TypeNPM, namespace, name, version, nil, "").ToString()
}

func shortHash(hash string) string {
	const shortLen = 7
	if len(hash) > shortLen {
		return hash[:shortLen]
	}
	return hash
}
