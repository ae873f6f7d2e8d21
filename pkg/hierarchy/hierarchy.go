package hierarchy

import (
	"context"
	"fmt"
	"maps"
	"runtime"
	"slices"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/bntaxonomy/bntaxonomy/pkg/digraph"
	"github.com/bntaxonomy/bntaxonomy/pkg/observability"
)

// Hierarchy is the cross-instance dominance relation. It is read-only.
type Hierarchy struct {
	name       string
	policy     VacuousPolicy
	algorithms []string
	instances  []*Instance

	confirmed *digraph.Graph
	counter   *digraph.Graph

	support         map[digraph.Edge]int
	counterexamples map[digraph.Edge][]*Instance
	vacuous         []digraph.Edge
}

// Option configures [Build].
type Option func(*options)

type options struct {
	workers int
	policy  VacuousPolicy
}

// WithWorkers bounds the number of goroutines examining instance graphs.
// Values below one select GOMAXPROCS.
func WithWorkers(n int) Option {
	return func(o *options) { o.workers = n }
}

// WithVacuousPolicy sets how pairs with no joint instance are classified.
func WithVacuousPolicy(p VacuousPolicy) Option {
	return func(o *options) { o.policy = p }
}

// tally is the per-pair evidence gathered from a subset of instances.
// Values are instance positions in the input slice.
type tally struct {
	joint   map[digraph.Edge][]int
	failing map[digraph.Edge][]int
}

func newTally() tally {
	return tally{
		joint:   make(map[digraph.Edge][]int),
		failing: make(map[digraph.Edge][]int),
	}
}

func (t tally) observe(pos int, inst *Instance) {
	names := inst.Algorithms()
	for _, v1 := range names {
		for _, v2 := range names {
			if v1 == v2 {
				continue
			}
			e := digraph.Edge{From: v1, To: v2}
			t.joint[e] = append(t.joint[e], pos)
			if !inst.HasPath(v1, v2) {
				t.failing[e] = append(t.failing[e], pos)
			}
		}
	}
}

// merge folds o into t. Lists are concatenated; callers sort afterwards.
func (t tally) merge(o tally) {
	for e, ps := range o.joint {
		t.joint[e] = append(t.joint[e], ps...)
	}
	for e, ps := range o.failing {
		t.failing[e] = append(t.failing[e], ps...)
	}
}

// Build aggregates per-instance dominance graphs into a hierarchy.
//
// The algorithm universe is the union of all algorithm names. Every ordered
// pair of distinct names is classified as confirmed, counterexampled or,
// under [VacuousUntested], untested. Counterexamples are listed in the
// order of instances.
func Build(ctx context.Context, name string, instances []*Instance, opts ...Option) (*Hierarchy, error) {
	o := options{}
	for _, opt := range opts {
		opt(&o)
	}
	if o.workers < 1 {
		o.workers = runtime.GOMAXPROCS(0)
	}

	seen := make(map[string]struct{}, len(instances))
	universe := make(map[string]struct{})
	for _, inst := range instances {
		if _, dup := seen[inst.Name]; dup {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateInstance, inst.Name)
		}
		seen[inst.Name] = struct{}{}
		for _, a := range inst.Algorithms() {
			universe[a] = struct{}{}
		}
	}
	algorithms := slices.Sorted(maps.Keys(universe))

	start := time.Now()
	hooks := observability.Aggregate()
	hooks.OnAggregateStart(ctx, len(instances), len(algorithms))

	total, err := collect(ctx, instances, o.workers)
	if err != nil {
		return nil, err
	}

	h := &Hierarchy{
		name:            name,
		policy:          o.policy,
		algorithms:      algorithms,
		instances:       slices.Clone(instances),
		confirmed:       digraph.New(),
		counter:         digraph.New(),
		support:         make(map[digraph.Edge]int),
		counterexamples: make(map[digraph.Edge][]*Instance),
	}
	for _, a := range algorithms {
		_ = h.confirmed.AddNode(a)
		_ = h.counter.AddNode(a)
	}

	for _, v1 := range algorithms {
		for _, v2 := range algorithms {
			if v1 == v2 {
				continue
			}
			e := digraph.Edge{From: v1, To: v2}
			joint := total.joint[e]
			h.support[e] = len(joint)
			if len(joint) == 0 {
				h.vacuous = append(h.vacuous, e)
				hooks.OnVacuousPair(ctx, v1, v2)
				if o.policy == VacuousConfirm {
					_ = h.confirmed.AddEdge(v1, v2)
				}
				continue
			}
			failing := total.failing[e]
			if len(failing) == 0 {
				_ = h.confirmed.AddEdge(v1, v2)
				continue
			}
			slices.Sort(failing)
			ce := make([]*Instance, len(failing))
			for i, pos := range failing {
				ce[i] = instances[pos]
			}
			_ = h.counter.AddEdge(v1, v2)
			h.counterexamples[e] = ce
		}
	}

	hooks.OnAggregateComplete(ctx, h.confirmed.EdgeCount(), h.counter.EdgeCount(), len(h.vacuous), time.Since(start))
	return h, nil
}

// collect tallies instances in parallel. Each worker owns a contiguous
// chunk and its own tally; tallies are merged after all workers finish.
func collect(ctx context.Context, instances []*Instance, workers int) (tally, error) {
	workers = min(workers, max(len(instances), 1))
	partials := make([]tally, workers)
	chunk := (len(instances) + workers - 1) / workers

	g, ctx := errgroup.WithContext(ctx)
	for w := range workers {
		partials[w] = newTally()
		lo, hi := w*chunk, min((w+1)*chunk, len(instances))
		g.Go(func() error {
			for pos := lo; pos < hi; pos++ {
				if err := ctx.Err(); err != nil {
					return err
				}
				partials[w].observe(pos, instances[pos])
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return tally{}, err
	}

	total := newTally()
	for _, p := range partials {
		total.merge(p)
	}
	return total, nil
}

// Name returns the hierarchy name.
func (h *Hierarchy) Name() string { return h.name }

// Policy returns the vacuous policy the hierarchy was built with.
func (h *Hierarchy) Policy() VacuousPolicy { return h.policy }

// Algorithms returns the sorted algorithm universe.
func (h *Hierarchy) Algorithms() []string { return slices.Clone(h.algorithms) }

// Instances returns the instances in input order.
func (h *Hierarchy) Instances() []*Instance { return slices.Clone(h.instances) }

// Confirmed returns the graph of confirmed dominance pairs. Callers must
// not modify it; use Clone before transforming.
func (h *Hierarchy) Confirmed() *digraph.Graph { return h.confirmed }

// Counter returns the graph of counterexampled pairs.
func (h *Hierarchy) Counter() *digraph.Graph { return h.counter }

// Verdict classifies an ordered pair.
func (h *Hierarchy) Verdict(from, to string) Verdict {
	switch {
	case from == to || !h.confirmed.HasNode(from) || !h.confirmed.HasNode(to):
		return Unknown
	case h.confirmed.HasEdge(from, to):
		return Confirmed
	case h.counter.HasEdge(from, to):
		return Counterexampled
	default:
		return Untested
	}
}

// Counterexamples returns the instances refuting from → to, in instance
// order, or nil when the pair is not counterexampled.
func (h *Hierarchy) Counterexamples(from, to string) []*Instance {
	return slices.Clone(h.counterexamples[digraph.Edge{From: from, To: to}])
}

// CounterexampleEdges returns the counterexampled pairs in sorted order.
func (h *Hierarchy) CounterexampleEdges() []digraph.Edge { return h.counter.Edges() }

// Support returns how many instances evaluated the pair jointly.
func (h *Hierarchy) Support(from, to string) int {
	return h.support[digraph.Edge{From: from, To: to}]
}

// Vacuous returns the pairs that no instance evaluated jointly, sorted.
func (h *Hierarchy) Vacuous() []digraph.Edge { return slices.Clone(h.vacuous) }

// Groups returns group names in order of first appearance.
func (h *Hierarchy) Groups() []string {
	var groups []string
	for _, inst := range h.instances {
		if !slices.Contains(groups, inst.Group) {
			groups = append(groups, inst.Group)
		}
	}
	return groups
}

// Labels assigns each instance a compact label: a letter for its group in
// order of first appearance (A, B, ..., Z, AA, ...) followed by its 1-based
// position within the group.
func (h *Hierarchy) Labels() map[string]string {
	letters := make(map[string]string)
	counts := make(map[string]int)
	labels := make(map[string]string, len(h.instances))
	for _, inst := range h.instances {
		letter, ok := letters[inst.Group]
		if !ok {
			letter = groupLetter(len(letters))
			letters[inst.Group] = letter
		}
		counts[inst.Group]++
		labels[inst.Name] = fmt.Sprintf("%s%d", letter, counts[inst.Group])
	}
	return labels
}

// groupLetter converts 0, 1, ..., 25, 26 to A, B, ..., Z, AA.
func groupLetter(n int) string {
	var b []byte
	for n++; n > 0; n = (n - 1) / 26 {
		b = append(b, byte('A'+(n-1)%26))
	}
	slices.Reverse(b)
	return string(b)
}
