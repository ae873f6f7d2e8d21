// Package hierarchy builds the empirical dominance hierarchy of algorithms.
//
// # Per-instance graphs
//
// An [Instance] holds the normalized results of every algorithm that produced
// output for one benchmark instance, and the dominance graph over their names:
// the edge A → B exists iff B's result is at least as strong as A's
// ([control.Result.AtLeastAsStrongAs]). Both directions of every pair are
// evaluated, so mutually dominating algorithms form a two-cycle. Algorithms
// that failed on an instance are simply absent from it.
//
// # Aggregation
//
// [Build] intersects the per-instance graphs. For every ordered pair (v1, v2)
// of distinct algorithm names seen anywhere, the instances that contain both
// are examined:
//
//   - if each of them has a path v1 → v2, the pair is confirmed and becomes an
//     edge of [Hierarchy.Confirmed];
//   - otherwise the pair becomes an edge of [Hierarchy.Counter] and the
//     failing instances are kept as counterexamples.
//
// A pair that no instance evaluates jointly is vacuous. Under the default
// [VacuousConfirm] policy it is confirmed; under [VacuousUntested] it is left
// out of both graphs and reported as [Untested].
//
// Instance graphs are examined by a bounded pool of workers. Each worker
// produces a partial tally that is merged by concatenation and then sorted
// by instance position, so the result does not depend on scheduling.
//
// # Groups
//
// Instances carry the name of the group (benchmark family) they came from.
// [Hierarchy.Labels] assigns compact labels such as "A1" or "B3" for reports;
// groups do not affect the dominance computation.
package hierarchy
