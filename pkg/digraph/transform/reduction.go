package transform

import (
	"slices"

	"github.com/bntaxonomy/bntaxonomy/pkg/digraph"
)

// TransitiveReduction removes redundant edges from g and returns how many
// were removed.
//
// Nodes are grouped into strongly connected components. An edge between
// two components is removed when the target component is reachable through
// another successor of the source component. When several edges connect
// the same pair of components, only the smallest one (by source, then
// target) is kept. Edges within a component are never removed.
//
// The result is deterministic: it depends only on the edge set, not on the
// order in which edges were added.
//
// # Performance
//
// Time complexity is O(C·(C+E)) for C components and E edges, with an O(C²)
// reachability matrix. Dominance graphs have tens of nodes.
func TransitiveReduction(g *digraph.Graph) int {
	comps := g.Components()
	if len(comps) == 0 {
		return 0
	}
	compOf := make(map[string]int, g.NodeCount())
	for i, comp := range comps {
		for _, id := range comp {
			compOf[id] = i
		}
	}

	// Representative edge per component pair; Edges() is sorted, so the
	// first edge seen for a pair is the smallest.
	type pair struct{ from, to int }
	rep := make(map[pair]digraph.Edge)
	var redundant []digraph.Edge
	adjacency := make([][]int, len(comps))
	for _, e := range g.Edges() {
		p := pair{compOf[e.From], compOf[e.To]}
		if p.from == p.to {
			continue
		}
		if _, ok := rep[p]; ok {
			redundant = append(redundant, e)
			continue
		}
		rep[p] = e
		adjacency[p.from] = append(adjacency[p.from], p.to)
	}

	reachability := computeReachability(adjacency)
	for src, succs := range adjacency {
		for _, dst := range succs {
			for _, intermediate := range succs {
				if intermediate != dst && reachability[intermediate][dst] {
					redundant = append(redundant, rep[pair{src, dst}])
					break
				}
			}
		}
	}

	slices.SortFunc(redundant, digraph.Edge.Compare)
	for _, e := range redundant {
		g.RemoveEdge(e.From, e.To)
	}
	return len(redundant)
}

func computeReachability(adjacency [][]int) [][]bool {
	n := len(adjacency)
	reachable := make([][]bool, n)
	for i := range reachable {
		reachable[i] = make([]bool, n)
	}

	var dfs func(source, current int)
	dfs = func(source, current int) {
		if reachable[source][current] {
			return
		}
		reachable[source][current] = true
		for _, next := range adjacency[current] {
			dfs(source, next)
		}
	}

	for i := range reachable {
		dfs(i, i)
	}
	return reachable
}
