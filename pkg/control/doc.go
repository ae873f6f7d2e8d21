// Package control provides interventions and normalized control results.
//
// An [Intervention] is a finite partial assignment of binary values to the
// variables of a Boolean network: the set of perturbations an algorithm
// proposes to drive the network into a target behavior. Interventions are
// immutable and stored in canonical (variable-sorted) form, so equality and
// subsumption are cheap merge walks.
//
// # Subsumption
//
// p1 ≤ p2 (p1.SubsetOf(p2)) holds when every (variable, value) pair of p1 is
// also in p2. A smaller intervention that subsumes a larger one achieves the
// same goal with fewer perturbations.
//
// # Results
//
// A [Result] is the normalized output of one algorithm on one instance.
// [Normalize] deduplicates, optionally caps the size, keeps only the minimal
// elements of the subsumption order and sorts canonically (size first, then
// the sorted pairs). The minimal filter compares each item against the whole
// candidate set, so the output does not depend on input order.
//
// [Result.AtLeastAsStrongAs] is the dominance relation between two results
// of the same instance: B is at least as strong as A when every item of A is
// subsumed from below by some item of B.
//
// # Decoding
//
// External tools report interventions as JSON arrays of objects mapping
// variable names to 0 or 1. [DecodeInterventions] rejects anything else with
// a [*MalformedInterventionError] instead of coercing it.
package control
