package hierarchy

import (
	"errors"
	"fmt"

	"github.com/bntaxonomy/bntaxonomy/pkg/control"
	"github.com/bntaxonomy/bntaxonomy/pkg/digraph"
)

var (
	// ErrDuplicateAlgorithm is returned when an instance holds two results
	// with the same algorithm name.
	ErrDuplicateAlgorithm = errors.New("duplicate algorithm")

	// ErrDuplicateInstance is returned by [Build] when two instances share a name.
	ErrDuplicateInstance = errors.New("duplicate instance")

	// ErrInvalidName is returned for empty instance or algorithm names.
	ErrInvalidName = errors.New("name must not be empty")
)

// Instance is one benchmark instance with its per-instance dominance graph.
// Instances are immutable once built.
type Instance struct {
	Name  string
	Group string

	results map[string]control.Result
	graph   *digraph.Graph
	closure map[string]map[string]struct{}
}

// NewInstance builds the dominance graph of one instance from the results
// of the algorithms that ran on it.
func NewInstance(name, group string, results []control.Result) (*Instance, error) {
	if name == "" {
		return nil, ErrInvalidName
	}
	inst := &Instance{
		Name:    name,
		Group:   group,
		results: make(map[string]control.Result, len(results)),
		graph:   digraph.New(),
	}
	for _, r := range results {
		if r.Name == "" {
			return nil, fmt.Errorf("instance %s: algorithm: %w", name, ErrInvalidName)
		}
		if err := inst.graph.AddNode(r.Name); err != nil {
			return nil, fmt.Errorf("instance %s: %w: %s", name, ErrDuplicateAlgorithm, r.Name)
		}
		inst.results[r.Name] = r
	}

	names := inst.graph.Nodes()
	for i, a := range names {
		for _, b := range names[i+1:] {
			ra, rb := inst.results[a], inst.results[b]
			if rb.AtLeastAsStrongAs(ra) {
				_ = inst.graph.AddEdge(a, b)
			}
			if ra.AtLeastAsStrongAs(rb) {
				_ = inst.graph.AddEdge(b, a)
			}
		}
	}
	inst.closure = inst.graph.Closure()
	return inst, nil
}

// Algorithms returns the sorted names of the algorithms present.
func (i *Instance) Algorithms() []string { return i.graph.Nodes() }

// Has reports whether the algorithm produced a result for this instance.
func (i *Instance) Has(algorithm string) bool { return i.graph.HasNode(algorithm) }

// Result returns the result of an algorithm.
func (i *Instance) Result(algorithm string) (control.Result, bool) {
	r, ok := i.results[algorithm]
	return r, ok
}

// Results returns all results sorted by algorithm name.
func (i *Instance) Results() []control.Result {
	out := make([]control.Result, 0, len(i.results))
	for _, name := range i.graph.Nodes() {
		if r, ok := i.results[name]; ok {
			out = append(out, r)
		}
	}
	return out
}

// Graph returns the dominance graph. Callers must not modify it.
func (i *Instance) Graph() *digraph.Graph { return i.graph }

// HasPath reports whether dominance from one algorithm to another is
// established in this instance, directly or through other algorithms.
func (i *Instance) HasPath(from, to string) bool {
	_, ok := i.closure[from][to]
	return ok
}

func (i *Instance) String() string { return i.Name }
