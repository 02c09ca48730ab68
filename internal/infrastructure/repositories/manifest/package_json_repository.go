// Package manifest reads and rewrites package.json dependency sections while
// keeping the document byte-for-byte intact outside the replaced ranges.
package manifest

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sort"

	"github.com/rios0rios0/rangebump/internal/domain/entities"
	"github.com/rios0rios0/rangebump/internal/domain/repositories"
)

// PackageJSONRepository implements the manifest port for package.json files.
type PackageJSONRepository struct{}

var _ repositories.ManifestRepository = (*PackageJSONRepository)(nil)

// NewPackageJSONRepository creates a new PackageJSONRepository.
func NewPackageJSONRepository() *PackageJSONRepository {
	return &PackageJSONRepository{}
}

func (it *PackageJSONRepository) Read(path string, sections []string) (entities.ManifestDependencies, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return parseSections(data, sections)
}

func (it *PackageJSONRepository) WriteRanges(
	path string, sections []string, upgrades []entities.DependencyEntry,
) error {
	info, err := os.Stat(path)
	if err != nil {
		return err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	rewritten, err := rewriteRanges(data, sections, upgrades)
	if err != nil {
		return fmt.Errorf("failed to rewrite %s: %w", path, err)
	}
	return os.WriteFile(path, rewritten, info.Mode().Perm())
}

func parseSections(data []byte, sections []string) (entities.ManifestDependencies, error) {
	var doc map[string]json.RawMessage
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("invalid package.json: %w", err)
	}

	deps := make(entities.ManifestDependencies, len(sections))
	for _, section := range sections {
		raw, ok := doc[section]
		if !ok {
			continue
		}
		var entries map[string]string
		if err := json.Unmarshal(raw, &entries); err != nil {
			return nil, fmt.Errorf("invalid %q section: %w", section, err)
		}
		if len(entries) > 0 {
			deps[section] = entries
		}
	}
	return deps, nil
}

// span is the byte range of one encoded range string, quotes included.
type span struct {
	start, end int
	section    string
	name       string
	value      string
}

// rewriteRanges replaces the encoded value of every upgraded dependency whose
// current range still equals the declared one.
func rewriteRanges(data []byte, sections []string, upgrades []entities.DependencyEntry) ([]byte, error) {
	byName := make(map[string]entities.DependencyEntry, len(upgrades))
	for _, u := range upgrades {
		byName[u.Name] = u
	}

	spans, err := locateRanges(data, sections)
	if err != nil {
		return nil, err
	}

	// back to front so earlier offsets stay valid
	sort.Slice(spans, func(i, j int) bool { return spans[i].start > spans[j].start })

	out := append([]byte(nil), data...)
	for _, s := range spans {
		upgrade, ok := byName[s.name]
		if !ok || s.value != upgrade.OldRange {
			continue
		}
		encoded, encErr := encodeString(upgrade.NewRange)
		if encErr != nil {
			return nil, encErr
		}
		out = append(out[:s.start], append(encoded, out[s.end:]...)...)
	}
	return out, nil
}

// locateRanges walks the token stream and records where each string value of
// the wanted top-level sections sits in data.
func locateRanges(data []byte, sections []string) ([]span, error) {
	wanted := make(map[string]bool, len(sections))
	for _, s := range sections {
		wanted[s] = true
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	if tok, err := dec.Token(); err != nil || tok != json.Delim('{') {
		return nil, errors.New("package.json is not a JSON object")
	}

	var spans []span
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		var raw json.RawMessage
		if err = dec.Decode(&raw); err != nil {
			return nil, err
		}
		key, _ := keyTok.(string)
		if !wanted[key] {
			continue
		}

		base := int(dec.InputOffset()) - len(raw)
		found, err := locateInSection(raw, base, key)
		if err != nil {
			return nil, fmt.Errorf("invalid %q section: %w", key, err)
		}
		spans = append(spans, found...)
	}
	return spans, nil
}

// locateInSection records the string values of one section object. base is
// the offset of raw inside the whole document.
func locateInSection(raw json.RawMessage, base int, section string) ([]span, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	if tok, err := dec.Token(); err != nil || tok != json.Delim('{') {
		return nil, nil //nolint:nilerr // non-object sections hold no ranges
	}

	var spans []span
	for dec.More() {
		nameTok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		var value json.RawMessage
		if err = dec.Decode(&value); err != nil {
			return nil, err
		}
		if len(value) == 0 || value[0] != '"' {
			continue
		}
		var rng string
		if err = json.Unmarshal(value, &rng); err != nil {
			return nil, err
		}
		end := base + int(dec.InputOffset())
		name, _ := nameTok.(string)
		spans = append(spans, span{
			start:   end - len(value),
			end:     end,
			section: section,
			name:    name,
			value:   rng,
		})
	}
	return spans, nil
}

func encodeString(s string) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(s); err != nil {
		return nil, err
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}
