package entities

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// FlagKind distinguishes the three shapes a policy flag may take.
type FlagKind int

const (
	FlagNone FlagKind = iota
	FlagAll
	FlagNamesOnly
)

// Flag is a policy switch that is either off, on for every package, or on
// only for an explicit set of package names.
type Flag struct {
	kind  FlagKind
	names map[string]struct{}
}

// FlagOff returns a flag that applies to no package.
func FlagOff() Flag { return Flag{kind: FlagNone} }

// FlagOn returns a flag that applies to every package.
func FlagOn() Flag { return Flag{kind: FlagAll} }

// FlagFor returns a flag that applies only to the given package names.
// An empty list yields FlagOff.
func FlagFor(names ...string) Flag {
	set := make(map[string]struct{}, len(names))
	for _, name := range names {
		name = strings.TrimSpace(name)
		if name != "" {
			set[name] = struct{}{}
		}
	}
	if len(set) == 0 {
		return FlagOff()
	}
	return Flag{kind: FlagNamesOnly, names: set}
}

// ParseFlag reads the CLI form of a flag: "true"/"false" or a comma-separated name list.
func ParseFlag(raw string) (Flag, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return FlagOff(), nil
	}
	if b, err := strconv.ParseBool(raw); err == nil {
		if b {
			return FlagOn(), nil
		}
		return FlagOff(), nil
	}
	return FlagFor(strings.Split(raw, ",")...), nil
}

// Kind returns the flag's shape.
func (f Flag) Kind() FlagKind { return f.kind }

// IsSet reports whether the flag applies to at least one package.
func (f Flag) IsSet() bool { return f.kind != FlagNone }

// AppliesTo reports whether the flag is on for the named package.
func (f Flag) AppliesTo(name string) bool {
	switch f.kind {
	case FlagAll:
		return true
	case FlagNamesOnly:
		_, ok := f.names[name]
		return ok
	default:
		return false
	}
}

// Names returns the sorted explicit names of a FlagNamesOnly flag.
func (f Flag) Names() []string {
	names := make([]string, 0, len(f.names))
	for name := range f.names {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (f Flag) String() string {
	switch f.kind {
	case FlagAll:
		return "true"
	case FlagNamesOnly:
		return strings.Join(f.Names(), ",")
	default:
		return "false"
	}
}

// UnmarshalYAML accepts a boolean scalar or a sequence of package names.
func (f *Flag) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		var b bool
		if err := node.Decode(&b); err != nil {
			return fmt.Errorf("policy flag must be a boolean or a list of names: %w", err)
		}
		if b {
			*f = FlagOn()
		} else {
			*f = FlagOff()
		}
		return nil
	case yaml.SequenceNode:
		var names []string
		if err := node.Decode(&names); err != nil {
			return fmt.Errorf("policy flag names must be strings: %w", err)
		}
		*f = FlagFor(names...)
		return nil
	default:
		return errors.New("policy flag must be a boolean or a list of names")
	}
}

// DiffClass is the semver distance category between two versions.
type DiffClass string

const (
	DiffNone       DiffClass = ""
	DiffPatch      DiffClass = "patch"
	DiffMinor      DiffClass = "minor"
	DiffMajor      DiffClass = "major"
	DiffPrePatch   DiffClass = "prepatch"
	DiffPreMinor   DiffClass = "preminor"
	DiffPreMajor   DiffClass = "premajor"
	DiffPrerelease DiffClass = "prerelease"
)

// Release strips the "pre" prefix: prepatch -> patch. Plain classes are returned as is.
func (d DiffClass) Release() DiffClass {
	switch d {
	case DiffPrePatch:
		return DiffPatch
	case DiffPreMinor:
		return DiffMinor
	case DiffPreMajor:
		return DiffMajor
	default:
		return d
	}
}

// DiffCeiling bounds how far an upgrade may move.
type DiffCeiling string

const (
	CeilingPatch DiffCeiling = "patch"
	CeilingMinor DiffCeiling = "minor"
	CeilingMajor DiffCeiling = "major"
)

// ParseDiffCeiling validates a ceiling name. "latest" is accepted as an alias of major.
func ParseDiffCeiling(raw string) (DiffCeiling, error) {
	switch DiffCeiling(strings.ToLower(strings.TrimSpace(raw))) {
	case "", CeilingMajor, "latest":
		return CeilingMajor, nil
	case CeilingMinor:
		return CeilingMinor, nil
	case CeilingPatch:
		return CeilingPatch, nil
	default:
		return "", fmt.Errorf("unknown semver ceiling %q (expected patch, minor or major)", raw)
	}
}

// Accepted returns the release diff classes this ceiling admits.
func (c DiffCeiling) Accepted() DiffSet {
	switch c {
	case CeilingPatch:
		return NewDiffSet(DiffPatch)
	case CeilingMinor:
		return NewDiffSet(DiffPatch, DiffMinor)
	default:
		return NewDiffSet(DiffPatch, DiffMinor, DiffMajor)
	}
}

// DiffSet is a set of diff classes.
type DiffSet map[DiffClass]struct{}

// NewDiffSet builds a set from the given classes.
func NewDiffSet(classes ...DiffClass) DiffSet {
	set := make(DiffSet, len(classes))
	for _, c := range classes {
		set[c] = struct{}{}
	}
	return set
}

// Has reports membership.
func (s DiffSet) Has(c DiffClass) bool {
	_, ok := s[c]
	return ok
}

// WithPrereleases returns a copy extended with "prerelease" and the pre-variant
// of every release class already present.
func (s DiffSet) WithPrereleases() DiffSet {
	out := make(DiffSet, len(s)*2+1)
	for c := range s {
		out[c] = struct{}{}
	}
	out[DiffPrerelease] = struct{}{}
	pre := map[DiffClass]DiffClass{DiffPatch: DiffPrePatch, DiffMinor: DiffPreMinor, DiffMajor: DiffPreMajor}
	for release, variant := range pre {
		if s.Has(release) {
			out[variant] = struct{}{}
		}
	}
	return out
}

// Policy is the resolved upgrade policy shared by every dependency in a batch.
type Policy struct {
	Prerelease  Flag        `yaml:"pre"`
	ReleaseOnly Flag        `yaml:"release_only"`
	Greatest    Flag        `yaml:"greatest"`
	Ceiling     DiffCeiling `yaml:"ceiling"`
}

// PackagePolicy is the projection of Policy onto one package name.
type PackagePolicy struct {
	Prerelease  bool
	ReleaseOnly bool
	Greatest    bool
	Ceiling     DiffCeiling
}

// For projects the policy onto the named package.
func (p Policy) For(name string) PackagePolicy {
	ceiling := p.Ceiling
	if ceiling == "" {
		ceiling = CeilingMajor
	}
	return PackagePolicy{
		Prerelease:  p.Prerelease.AppliesTo(name),
		ReleaseOnly: p.ReleaseOnly.AppliesTo(name),
		Greatest:    p.Greatest.AppliesTo(name),
		Ceiling:     ceiling,
	}
}
