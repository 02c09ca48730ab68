package npm

import (
	"strings"
	"time"

	"github.com/rios0rios0/rangebump/internal/domain/entities"
)

// packument is the subset of the full registry document the resolver needs.
type packument struct {
	Name       string                 `json:"name"`
	DistTags   map[string]string      `json:"dist-tags"`
	Versions   map[string]versionInfo `json:"versions"`
	Time       map[string]string      `json:"time"`
	Homepage   any                    `json:"homepage"`
	Repository any                    `json:"repository"`
}

type versionInfo struct {
	Version    string `json:"version"`
	Deprecated any    `json:"deprecated"`
	Repository any    `json:"repository"`
}

// toMetadata converts the wire document. Publish times that do not belong to a
// published version ("created", "modified") or fail to parse are dropped.
func (p *packument) toMetadata(requested string) *entities.PackageMetadata {
	name := p.Name
	if name == "" {
		name = requested
	}

	meta := &entities.PackageMetadata{
		Name:         name,
		Versions:     make(map[string]entities.VersionDescriptor, len(p.Versions)),
		DistTags:     make(map[string]string, len(p.DistTags)),
		PublishTimes: make(map[string]time.Time, len(p.Versions)),
		Homepage:     extractString(p.Homepage),
	}

	for tag, version := range p.DistTags {
		meta.DistTags[tag] = version
	}

	for key, info := range p.Versions {
		meta.Versions[key] = entities.VersionDescriptor{
			Version:    coalesce(info.Version, key),
			Deprecated: deprecationMessage(info.Deprecated),
		}
		raw, ok := p.Time[key]
		if !ok {
			continue
		}
		if at, err := time.Parse(time.RFC3339, raw); err == nil {
			meta.PublishTimes[key] = at
		}
	}

	var latestRepo any
	if latest, ok := p.Versions[meta.Latest()]; ok {
		latestRepo = latest.Repository
	}
	meta.Repository = extractRepoURL(latestRepo, p.Repository)
	return meta
}

func deprecationMessage(v any) string {
	switch d := v.(type) {
	case string:
		return d
	case bool:
		if d {
			return "deprecated"
		}
	}
	return ""
}

func extractString(v any) string {
	switch s := v.(type) {
	case string:
		return s
	case []any:
		if len(s) > 0 {
			if first, ok := s[0].(string); ok {
				return first
			}
		}
	}
	return ""
}

// extractRepoURL accepts the string, object and array forms of "repository".
func extractRepoURL(candidates ...any) string {
	for _, repo := range candidates {
		switch r := repo.(type) {
		case string:
			if r != "" {
				return normalizeRepoURL(r)
			}
		case map[string]any:
			if u, ok := r["url"].(string); ok && u != "" {
				return normalizeRepoURL(u)
			}
		case []any:
			if len(r) > 0 {
				if m, ok := r[0].(map[string]any); ok {
					if u, ok := m["url"].(string); ok && u != "" {
						return normalizeRepoURL(u)
					}
				}
			}
		}
	}
	return ""
}

// normalizeRepoURL turns git remotes and shorthands into browsable https URLs.
func normalizeRepoURL(u string) string {
	u = strings.TrimSpace(u)
	u = strings.TrimPrefix(u, "git+")
	u = strings.TrimSuffix(u, ".git")

	switch {
	case strings.HasPrefix(u, "git://"):
		u = "https://" + strings.TrimPrefix(u, "git://")
	case strings.HasPrefix(u, "ssh://git@"):
		u = "https://" + strings.TrimPrefix(u, "ssh://git@")
	case strings.HasPrefix(u, "git@"):
		u = "https://" + strings.Replace(strings.TrimPrefix(u, "git@"), ":", "/", 1)
	case strings.HasPrefix(u, "github:"):
		u = "https://github.com/" + strings.TrimPrefix(u, "github:")
	case strings.HasPrefix(u, "gitlab:"):
		u = "https://gitlab.com/" + strings.TrimPrefix(u, "gitlab:")
	case strings.HasPrefix(u, "bitbucket:"):
		u = "https://bitbucket.org/" + strings.TrimPrefix(u, "bitbucket:")
	case strings.HasPrefix(u, "github.com/"):
		u = "https://" + u
	case !strings.Contains(u, ":") && strings.Count(u, "/") == 1:
		// "owner/repo" shorthand means GitHub
		u = "https://github.com/" + u
	}
	return u
}

func coalesce(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
