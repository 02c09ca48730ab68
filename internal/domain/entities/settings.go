package entities

import "time"

// DefaultRegistryURL is the public npm registry.
const DefaultRegistryURL = "https://registry.npmjs.org"

// DefaultConcurrency bounds the number of in-flight registry fetches.
const DefaultConcurrency = 8

// CacheSettings configures the optional metadata cache.
type CacheSettings struct {
	TTL      time.Duration `yaml:"ttl"`
	Dir      string        `yaml:"dir"`
	RedisURL string        `yaml:"redis_url"`
	Disabled bool          `yaml:"disabled"`
}

// Enabled reports whether any cache backend should be used.
func (c CacheSettings) Enabled() bool {
	return !c.Disabled && c.TTL > 0
}

// Settings is the fully resolved configuration for a check run.
type Settings struct {
	Registry    string        `yaml:"registry"`
	Token       string        `yaml:"token"` // Inline, ${ENV_VAR}, or file path
	Sections    []string      `yaml:"sections"`
	Include     []string      `yaml:"include"`
	Exclude     []string      `yaml:"exclude"`
	Policy      Policy        `yaml:"policy"`
	Concurrency int           `yaml:"concurrency"`
	Cache       CacheSettings `yaml:"cache"`
}

// NewDefaultSettings returns the settings used when no config file exists.
func NewDefaultSettings() *Settings {
	s := &Settings{}
	s.ApplyDefaults()
	return s
}

// ApplyDefaults fills every unset field with its default.
func (s *Settings) ApplyDefaults() {
	if s.Registry == "" {
		s.Registry = DefaultRegistryURL
	}
	if len(s.Sections) == 0 {
		s.Sections = DefaultSections()
	}
	if s.Concurrency <= 0 {
		s.Concurrency = DefaultConcurrency
	}
	if s.Policy.Ceiling == "" {
		s.Policy.Ceiling = CeilingMajor
	}
}
