// Package digraph provides a small directed graph keyed by node name.
//
// # Overview
//
// Dominance relations between algorithms are directed graphs over algorithm
// names: an edge A → B reads "B is at least as strong as A". The relation is
// reflexive and transitive but not antisymmetric, so graphs may contain
// cycles (mutually dominating algorithms). Graphs have at most a few dozen
// nodes, and this package favors determinism over raw speed: [Graph.Nodes],
// [Graph.Edges], [Graph.Children] and [Graph.Parents] always return sorted
// slices, so every export built on top of them is reproducible.
//
// # Basic Usage
//
//	g := digraph.New()
//	g.AddNode("ActoNet")
//	g.AddNode("Caspo")
//	g.AddEdge("ActoNet", "Caspo")
//
//	g.HasPath("ActoNet", "Caspo") // true
//
// # Paths and Components
//
// [Graph.HasPath] answers reachability queries with a breadth-first search.
// [Graph.Closure] precomputes reachability for all nodes. [Graph.Components]
// returns the strongly connected components (computed with Tarjan's algorithm
// from gonum), sorted so that output is stable across runs.
//
// # Concurrency
//
// Graph is not safe for concurrent mutation. Once built, a graph may be read
// from multiple goroutines.
package digraph
