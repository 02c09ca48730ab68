package resolver

import (
	"github.com/rios0rios0/rangebump/internal/domain/entities"
)

// Decision is the outcome of resolving one dependency.
type Decision struct {
	Target   string // version the range should point at
	NewRange string // rewritten range
}

// Resolve runs select, decide and rewrite for a single declared range. It
// returns false when the range should be left as declared.
func Resolve(
	meta *entities.PackageMetadata,
	policy entities.PackagePolicy,
	oldRange string,
) (Decision, bool) {
	if oldRange == Wildcard {
		return Decision{}, false
	}

	selected, _ := Select(meta, policy, oldRange)
	target, ok := Decide(meta, selected, oldRange, policy)
	if !ok || target == "" || target == Wildcard {
		return Decision{}, false
	}

	newRange := Rewrite(oldRange, target)
	if newRange == oldRange {
		return Decision{}, false
	}
	return Decision{Target: target, NewRange: newRange}, true
}
