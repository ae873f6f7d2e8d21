// Package transform provides graph simplifications applied before a
// dominance graph is rendered.
//
// # Transitive Reduction
//
// [TransitiveReduction] removes edges that are implied by longer paths, so a
// drawing shows only the covering relation. Dominance graphs may contain
// cycles, for which the reduction is not unique; the graph is therefore
// reduced on its condensation (one vertex per strongly connected component).
// Edges inside a component are left untouched, and between two components a
// single representative edge survives.
package transform
