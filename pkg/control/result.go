package control

import (
	"slices"
)

// Options controls [Normalize]. The zero value keeps only minimal items and
// applies no size limit.
type Options struct {
	// SizeLimit drops items with more than SizeLimit variables. Zero or
	// negative disables the cap.
	SizeLimit int
	// KeepNonMinimal disables the minimality filter, for audit dumps.
	KeepNonMinimal bool
}

// Normalize returns the canonical form of raw solver output: duplicates
// removed, size-capped, filtered to the minimal elements of the subsumption
// order and sorted by [Intervention.Compare]. The input slice is not
// modified. The result is the same for every permutation of items.
func Normalize(items []Intervention, opts Options) []Intervention {
	seen := make(map[string]struct{}, len(items))
	out := make([]Intervention, 0, len(items))
	for _, p := range items {
		if opts.SizeLimit > 0 && p.Len() > opts.SizeLimit {
			continue
		}
		k := p.key()
		if _, dup := seen[k]; dup {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, p)
	}
	slices.SortFunc(out, Intervention.Compare)
	if !opts.KeepNonMinimal {
		out = minimal(out)
	}
	return out
}

// minimal keeps x iff no other candidate is a strict subset of x. Items must
// be sorted by size, so only earlier candidates need checking.
func minimal(sorted []Intervention) []Intervention {
	keep := make([]Intervention, 0, len(sorted))
	for i, x := range sorted {
		dominated := false
		for _, y := range sorted[:i] {
			if y.StrictSubsetOf(x) {
				dominated = true
				break
			}
		}
		if !dominated {
			keep = append(keep, x)
		}
	}
	return keep
}

// Result is the normalized output of one algorithm on one instance.
// Results are values; the transformation methods return new results.
type Result struct {
	Name  string
	Items []Intervention
}

// NewResult normalizes raw items into a result named name.
func NewResult(name string, items []Intervention, opts Options) Result {
	return Result{Name: name, Items: Normalize(items, opts)}
}

// Len returns the number of interventions.
func (r Result) Len() int { return len(r.Items) }

// DropSizeLimit returns r without items larger than n. It is idempotent.
func (r Result) DropSizeLimit(n int) Result {
	items := slices.DeleteFunc(slices.Clone(r.Items), func(p Intervention) bool {
		return n > 0 && p.Len() > n
	})
	return Result{Name: r.Name, Items: items}
}

// DropNonMinimal returns r with only its minimal items. It is idempotent.
func (r Result) DropNonMinimal() Result {
	return Result{Name: r.Name, Items: Normalize(r.Items, Options{})}
}

// Uncovered returns the items of other that no item of r subsumes from
// below, in other's order.
func (r Result) Uncovered(other Result) []Intervention {
	var out []Intervention
	for _, a := range other.Items {
		if !r.covers(a) {
			out = append(out, a)
		}
	}
	return out
}

func (r Result) covers(a Intervention) bool {
	for _, b := range r.Items {
		if b.Len() > a.Len() {
			continue
		}
		if b.SubsetOf(a) {
			return true
		}
	}
	return false
}

// AtLeastAsStrongAs reports whether every item of other is subsumed from
// below by some item of r. It is reflexive and transitive, and vacuously
// true when other is empty.
func (r Result) AtLeastAsStrongAs(other Result) bool {
	for _, a := range other.Items {
		if !r.covers(a) {
			return false
		}
	}
	return true
}

// SizeCounts returns the number of items per intervention size.
func (r Result) SizeCounts() map[int]int {
	counts := make(map[int]int)
	for _, p := range r.Items {
		counts[p.Len()]++
	}
	return counts
}
