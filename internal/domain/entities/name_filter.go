package entities

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/gobwas/glob"
)

// NameFilter decides which dependency names take part in a check. A pattern is
// either a glob (`@types/*`, `react*`) or a regular expression wrapped in
// slashes (`/^eslint-plugin-/`). Exclusion is applied after inclusion, so a name
// matching both lists is excluded.
type NameFilter struct {
	include []matcher
	exclude []matcher
}

type matcher interface {
	Match(name string) bool
}

type regexMatcher struct {
	re *regexp.Regexp
}

func (m regexMatcher) Match(name string) bool {
	return m.re.MatchString(name)
}

// NewNameFilter compiles the include and exclude patterns. Entries may also
// hold several patterns separated by commas or spaces.
func NewNameFilter(include, exclude []string) (*NameFilter, error) {
	inc, err := compilePatterns(include)
	if err != nil {
		return nil, fmt.Errorf("invalid include pattern: %w", err)
	}
	exc, err := compilePatterns(exclude)
	if err != nil {
		return nil, fmt.Errorf("invalid exclude pattern: %w", err)
	}
	return &NameFilter{include: inc, exclude: exc}, nil
}

// Allows reports whether name passes the filter.
func (f *NameFilter) Allows(name string) bool {
	if f == nil {
		return true
	}
	if len(f.include) > 0 && !matchesAny(f.include, name) {
		return false
	}
	return !matchesAny(f.exclude, name)
}

// Apply returns the subset of deps whose names pass the filter.
func (f *NameFilter) Apply(deps map[string]string) map[string]string {
	out := make(map[string]string, len(deps))
	for name, rng := range deps {
		if f.Allows(name) {
			out[name] = rng
		}
	}
	return out
}

func matchesAny(matchers []matcher, name string) bool {
	for _, m := range matchers {
		if m.Match(name) {
			return true
		}
	}
	return false
}

func compilePatterns(raw []string) ([]matcher, error) {
	var matchers []matcher
	for _, entry := range raw {
		for _, pattern := range splitPatterns(entry) {
			m, err := compilePattern(pattern)
			if err != nil {
				return nil, err
			}
			matchers = append(matchers, m)
		}
	}
	return matchers, nil
}

func compilePattern(pattern string) (matcher, error) {
	if len(pattern) > 2 && strings.HasPrefix(pattern, "/") && strings.HasSuffix(pattern, "/") {
		re, err := regexp.Compile(pattern[1 : len(pattern)-1])
		if err != nil {
			return nil, fmt.Errorf("%q: %w", pattern, err)
		}
		return regexMatcher{re: re}, nil
	}
	g, err := glob.Compile(pattern)
	if err != nil {
		return nil, fmt.Errorf("%q: %w", pattern, err)
	}
	return g, nil
}

// splitPatterns splits on commas and whitespace, except inside a /regex/.
func splitPatterns(entry string) []string {
	entry = strings.TrimSpace(entry)
	if entry == "" {
		return nil
	}
	if strings.HasPrefix(entry, "/") && strings.HasSuffix(entry, "/") {
		return []string{entry}
	}
	return strings.FieldsFunc(entry, func(r rune) bool {
		return r == ',' || r == ' ' || r == '\t'
	})
}
