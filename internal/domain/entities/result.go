package entities

import (
	"fmt"
	"sort"
	"sync"
)

// ResultSet accumulates resolved dependencies during a batch. Each name may be
// recorded once; it is safe for concurrent use.
type ResultSet struct {
	mu      sync.Mutex
	entries map[string]DependencyEntry
}

// NewResultSet creates an empty accumulator.
func NewResultSet() *ResultSet {
	return &ResultSet{entries: make(map[string]DependencyEntry)}
}

// Record stores an entry if it changed. Recording the same name twice is an error.
func (r *ResultSet) Record(entry DependencyEntry) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.entries[entry.Name]; exists {
		return fmt.Errorf("dependency %q recorded twice", entry.Name)
	}
	if entry.Changed() {
		r.entries[entry.Name] = entry
	}
	return nil
}

// Len returns the number of changed entries.
func (r *ResultSet) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.entries)
}

// Entries returns the changed entries sorted by name.
func (r *ResultSet) Entries() []DependencyEntry {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]DependencyEntry, 0, len(r.entries))
	for _, e := range r.entries {
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// CheckResult is the outcome of a check run.
type CheckResult struct {
	ManifestPath string
	Checked      int
	Upgrades     []DependencyEntry
	Written      bool
	Committed    string // commit hash when the change was committed
}

// UpToDate reports the "no candidates" outcome.
func (r *CheckResult) UpToDate() bool {
	return len(r.Upgrades) == 0
}

// Message is a one-line human summary of the outcome.
func (r *CheckResult) Message() string {
	if r.UpToDate() {
		return fmt.Sprintf("All %d dependencies match the latest package versions", r.Checked)
	}
	if r.Written {
		return fmt.Sprintf("Upgraded %d of %d dependencies in %s", len(r.Upgrades), r.Checked, r.ManifestPath)
	}
	return fmt.Sprintf("%d of %d dependencies can be upgraded", len(r.Upgrades), r.Checked)
}
