package controllers

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"

	logger "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/rios0rios0/rangebump/config"
	"github.com/rios0rios0/rangebump/internal/domain/commands"
	"github.com/rios0rios0/rangebump/internal/domain/entities"
)

// DefaultManifestPath is checked when no path argument is given.
const DefaultManifestPath = "package.json"

// CheckController handles the check command and the root command.
type CheckController struct {
	command    commands.Check
	findConfig func() (string, error)
}

// NewCheckController creates a new CheckController.
func NewCheckController(command commands.Check) *CheckController {
	return &CheckController{command: command, findConfig: config.FindConfigFile}
}

// GetBind returns the Cobra command metadata for the check controller.
func (it *CheckController) GetBind() entities.ControllerBind {
	return entities.ControllerBind{
		Use:   "check [package.json]",
		Short: "Check dependency ranges against the npm registry",
		Long: `Read the dependency ranges declared in a package.json, fetch every
package from the registry and report the ranges that can move forward.

With --upgrade the new ranges are written back in place. --changelog and
--commit additionally record the change in CHANGELOG.md and in git.`,
	}
}

// AddFlags adds the check flags to the given Cobra command.
func (it *CheckController) AddFlags(cmd *cobra.Command) {
	flags := cmd.Flags()
	flags.StringP("config", "c", "", "Path to config file (default: auto-detect)")
	flags.String("registry", "", "npm registry URL (default: "+entities.DefaultRegistryURL+")")
	flags.String("token", "", "Registry auth token (default: $"+config.TokenEnvVar+")")

	policyFlag(flags, "pre", "Allow prereleases: true, false or a comma-separated list of packages")
	policyFlag(flags, "release-only", "Never select prereleases: true, false or a list of packages")
	policyFlag(flags, "greatest", "Pick the greatest version instead of the most recent: true, false or a list")
	flags.String("ceiling", "", "Highest semver diff allowed: patch, minor or major")

	flags.StringSlice("include", nil, "Only check these packages (names, globs or /regex/)")
	flags.StringSlice("filter", nil, "Alias of --include")
	flags.StringSlice("exclude", nil, "Skip these packages (names, globs or /regex/)")
	flags.StringSlice("reject", nil, "Alias of --exclude")
	flags.StringSlice("sections", nil, "Manifest sections to check (default: dependencies,devDependencies)")
	flags.Int("concurrency", 0, "Maximum concurrent registry requests")

	flags.Bool("json", false, "Print the upgrades as JSON")
	flags.BoolP("upgrade", "u", false, "Write the new ranges to the manifest")
	flags.Bool("changelog", false, "Add the upgrades to CHANGELOG.md (implies --upgrade)")
	flags.Bool("commit", false, "Commit the rewritten files (implies --upgrade)")
	flags.Bool("no-cache", false, "Bypass the metadata cache")
	flags.BoolP("verbose", "v", false, "Enable verbose output")
}

func policyFlag(flags *pflag.FlagSet, name, usage string) {
	flags.String(name, "", usage)
	flags.Lookup(name).NoOptDefVal = "true"
}

// Execute runs a check of the manifest named by args[0].
func (it *CheckController) Execute(cmd *cobra.Command, args []string) error {
	flags := cmd.Flags()
	if verbose, _ := flags.GetBool("verbose"); verbose {
		logger.SetLevel(logger.DebugLevel)
	}

	settings, err := it.loadSettings(flags)
	if err != nil {
		logger.Errorf("failed to load config: %v", err)
		return err
	}
	if err = applyFlags(settings, flags); err != nil {
		logger.Errorf("invalid flags: %v", err)
		return err
	}

	opts := commands.CheckOptions{ManifestPath: manifestPath(args)}
	opts.Upgrade, _ = flags.GetBool("upgrade")
	opts.Changelog, _ = flags.GetBool("changelog")
	opts.Commit, _ = flags.GetBool("commit")

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	result, err := it.command.Execute(ctx, settings, opts)
	if err != nil {
		logFailure(err)
		return err
	}

	out := cmd.OutOrStdout()
	if asJSON, _ := flags.GetBool("json"); asJSON {
		return writeJSON(out, result)
	}
	if !result.UpToDate() {
		writeTable(out, result)
	}
	logger.Info(result.Message())
	if result.Committed != "" {
		logger.Infof("Committed %s", result.Committed)
	}
	return nil
}

// loadSettings reads the explicit or auto-detected config file. Without one
// the defaults are used.
func (it *CheckController) loadSettings(flags *pflag.FlagSet) (*entities.Settings, error) {
	cfgPath, _ := flags.GetString("config")
	if cfgPath == "" {
		found, err := it.findConfig()
		if err != nil {
			logger.Debugf("No config file found, using defaults: %v", err)
			return entities.NewDefaultSettings(), nil
		}
		cfgPath = found
	}

	logger.Debugf("Using config file: %s", cfgPath)
	return config.Load(cfgPath)
}

// applyFlags overrides config values with the flags set on the command line.
func applyFlags(settings *entities.Settings, flags *pflag.FlagSet) error {
	if flags.Changed("registry") {
		settings.Registry, _ = flags.GetString("registry")
	}
	if flags.Changed("token") {
		settings.Token, _ = flags.GetString("token")
	}
	if settings.Token == "" {
		settings.Token = config.TokenFromEnv()
	}

	for name, target := range map[string]*entities.Flag{
		"pre":          &settings.Policy.Prerelease,
		"release-only": &settings.Policy.ReleaseOnly,
		"greatest":     &settings.Policy.Greatest,
	} {
		if !flags.Changed(name) {
			continue
		}
		raw, _ := flags.GetString(name)
		parsed, err := entities.ParseFlag(raw)
		if err != nil {
			return fmt.Errorf("--%s: %w", name, err)
		}
		*target = parsed
	}

	if flags.Changed("ceiling") {
		raw, _ := flags.GetString("ceiling")
		ceiling, err := entities.ParseDiffCeiling(raw)
		if err != nil {
			return fmt.Errorf("--ceiling: %w", err)
		}
		settings.Policy.Ceiling = ceiling
	}

	if patterns := sliceFlags(flags, "include", "filter"); patterns != nil {
		settings.Include = patterns
	}
	if patterns := sliceFlags(flags, "exclude", "reject"); patterns != nil {
		settings.Exclude = patterns
	}
	if flags.Changed("sections") {
		sections, _ := flags.GetStringSlice("sections")
		for _, section := range sections {
			if !slices.Contains(entities.KnownSections(), section) {
				return fmt.Errorf("--sections: unknown section %q", section)
			}
		}
		settings.Sections = sections
	}
	if flags.Changed("concurrency") {
		settings.Concurrency, _ = flags.GetInt("concurrency")
	}
	if noCache, _ := flags.GetBool("no-cache"); noCache {
		settings.Cache.Disabled = true
	}

	settings.ApplyDefaults()
	return nil
}

// sliceFlags merges a flag with its aliases; nil when none was given.
func sliceFlags(flags *pflag.FlagSet, names ...string) []string {
	var merged []string
	for _, name := range names {
		if !flags.Changed(name) {
			continue
		}
		values, _ := flags.GetStringSlice(name)
		merged = append(merged, values...)
	}
	return merged
}

func manifestPath(args []string) string {
	if len(args) == 0 || args[0] == "" {
		return DefaultManifestPath
	}
	if info, err := os.Stat(args[0]); err == nil && info.IsDir() {
		return filepath.Join(args[0], DefaultManifestPath)
	}
	return args[0]
}

func logFailure(err error) {
	var fetchErr *entities.FetchError
	switch {
	case errors.Is(err, entities.ErrNoMatchingDependencies):
		logger.Errorf("Nothing to check: %v", err)
	case errors.As(err, &fetchErr):
		logger.Errorf("Registry request for %q failed: %v", fetchErr.Name, fetchErr.Err)
	default:
		logger.Errorf("Check failed: %v", err)
	}
}
