package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"slices"
	"strings"

	logger "github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"

	"github.com/rios0rios0/rangebump/internal/domain/entities"
)

// TokenEnvVar is consulted when neither the flag nor the config file supply a token.
const TokenEnvVar = "NPM_TOKEN"

// envVarPattern matches ${VAR_NAME} placeholders.
var envVarPattern = regexp.MustCompile(`\$\{([^}]+)}`)

// Load reads and parses a configuration file, expanding environment variables,
// resolving the token file path and filling defaults.
func Load(path string) (*entities.Settings, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %q: %w", path, err)
	}

	var settings entities.Settings
	if unmarshalErr := yaml.Unmarshal(data, &settings); unmarshalErr != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", unmarshalErr)
	}

	settings.Registry = envVarPattern.ReplaceAllStringFunc(settings.Registry, expandEnv)
	settings.Token = resolveToken(settings.Token)
	settings.ApplyDefaults()

	if validateErr := validate(&settings); validateErr != nil {
		return nil, validateErr
	}

	return &settings, nil
}

// FindConfigFile searches for a configuration file in standard locations.
// Returns the path to the first file found or an error if none is found.
func FindConfigFile() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		homeDir = ""
	}

	locations := []string{
		".",
		".config",
		"configs",
	}
	if homeDir != "" {
		locations = append(
			locations,
			homeDir,
			filepath.Join(homeDir, ".config"),
		)
	}

	patterns := []string{
		".rangebump.yaml",
		".rangebump.yml",
		"rangebump.yaml",
		"rangebump.yml",
	}

	for _, loc := range locations {
		for _, pat := range patterns {
			p := filepath.Join(loc, pat)
			if _, statErr := os.Stat(p); statErr == nil {
				return p, nil
			}
		}
	}

	return "", errors.New("config file not found in default locations")
}

// TokenFromEnv returns the registry token from the environment, if any.
func TokenFromEnv() string {
	return strings.TrimSpace(os.Getenv(TokenEnvVar))
}

// resolveToken expands environment variable references (${VAR}) and, if the
// resulting string is a path to an existing file, reads the token from the file.
func resolveToken(raw string) string {
	if raw == "" {
		return raw
	}

	resolved := envVarPattern.ReplaceAllStringFunc(raw, expandEnv)

	if _, statErr := os.Stat(resolved); statErr == nil {
		data, readErr := os.ReadFile(resolved)
		if readErr != nil {
			logger.Warnf("Failed to read token file %q: %v", resolved, readErr)
			return resolved
		}
		logger.Debugf("Read registry token from file %q", resolved)
		return strings.TrimSpace(string(data))
	}

	return resolved
}

func expandEnv(match string) string {
	varName := envVarPattern.FindStringSubmatch(match)[1]
	if val := os.Getenv(varName); val != "" {
		return val
	}
	logger.Warnf("Environment variable %q is not set", varName)
	return ""
}

// validate checks the values that cannot be defaulted.
func validate(settings *entities.Settings) error {
	if !strings.HasPrefix(settings.Registry, "http://") && !strings.HasPrefix(settings.Registry, "https://") {
		return fmt.Errorf("registry must be an http(s) URL, got %q", settings.Registry)
	}

	known := entities.KnownSections()
	for i, section := range settings.Sections {
		if !slices.Contains(known, section) {
			return fmt.Errorf(
				"sections[%d] %q is not one of %s",
				i, section, strings.Join(known, ", "),
			)
		}
	}

	ceiling, err := entities.ParseDiffCeiling(string(settings.Policy.Ceiling))
	if err != nil {
		return fmt.Errorf("policy.ceiling: %w", err)
	}
	settings.Policy.Ceiling = ceiling

	if settings.Cache.TTL < 0 {
		return errors.New("cache.ttl must not be negative")
	}

	return nil
}
