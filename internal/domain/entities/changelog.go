package entities

import (
	"fmt"
	"strings"
)

const (
	unreleasedHeading = "## [Unreleased]"
	changedHeading    = "### Changed"
	releaseHeading    = "## ["
)

// ChangelogLines renders one Keep-a-Changelog bullet per upgraded dependency.
func ChangelogLines(upgrades []DependencyEntry) []string {
	lines := make([]string, 0, len(upgrades))
	for _, u := range upgrades {
		lines = append(lines, fmt.Sprintf("- bumped `%s` from `%s` to `%s`", u.Name, u.OldRange, u.NewRange))
	}
	return lines
}

// InsertChangelogEntry adds bullets under "## [Unreleased]" / "### Changed",
// creating the subsection when missing. Content without an Unreleased section
// is returned unchanged.
func InsertChangelogEntry(content string, bullets []string) string {
	if len(bullets) == 0 {
		return content
	}

	lines := strings.Split(content, "\n")
	start := indexOfLine(lines, 0, len(lines), unreleasedHeading)
	if start < 0 {
		return content
	}

	end := len(lines)
	for i := start + 1; i < len(lines); i++ {
		if strings.HasPrefix(strings.TrimSpace(lines[i]), releaseHeading) {
			end = i
			break
		}
	}

	changed := indexOfLine(lines, start+1, end, changedHeading)
	if changed < 0 {
		block := append([]string{"", changedHeading, ""}, bullets...)
		return strings.Join(splice(lines, start+1, block), "\n")
	}

	at := changed
	for i := changed + 1; i < end; i++ {
		trimmed := strings.TrimSpace(lines[i])
		if trimmed == "" {
			continue
		}
		if !strings.HasPrefix(trimmed, "- ") {
			break
		}
		at = i
	}
	return strings.Join(splice(lines, at+1, bullets), "\n")
}

func indexOfLine(lines []string, from, to int, want string) int {
	for i := from; i < to; i++ {
		if strings.TrimSpace(lines[i]) == want {
			return i
		}
	}
	return -1
}

func splice(lines []string, at int, extra []string) []string {
	out := make([]string, 0, len(lines)+len(extra))
	out = append(out, lines[:at]...)
	out = append(out, extra...)
	return append(out, lines[at:]...)
}
