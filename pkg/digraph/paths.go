package digraph

import (
	"slices"

	"gonum.org/v1/gonum/graph/simple"
	"gonum.org/v1/gonum/graph/topo"
)

// HasPath reports whether a directed path leads from one node to another.
// Every node reaches itself; unknown nodes reach nothing.
func (g *Graph) HasPath(from, to string) bool {
	if !g.HasNode(from) || !g.HasNode(to) {
		return false
	}
	if from == to {
		return true
	}
	_, ok := g.Reachable(from)[to]
	return ok
}

// Reachable returns the set of nodes reachable from id, including id.
func (g *Graph) Reachable(id string) map[string]struct{} {
	seen := make(map[string]struct{})
	if !g.HasNode(id) {
		return seen
	}
	seen[id] = struct{}{}
	queue := []string{id}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		for next := range g.outgoing[cur] {
			if _, ok := seen[next]; ok {
				continue
			}
			seen[next] = struct{}{}
			queue = append(queue, next)
		}
	}
	return seen
}

// Closure returns the reachability relation of every node.
func (g *Graph) Closure() map[string]map[string]struct{} {
	closure := make(map[string]map[string]struct{}, len(g.outgoing))
	for id := range g.outgoing {
		closure[id] = g.Reachable(id)
	}
	return closure
}

// Components returns the strongly connected components of the graph. Each
// component is sorted and components are ordered by their first member.
func (g *Graph) Components() [][]string {
	ids := g.Nodes()
	index := make(map[string]int64, len(ids))
	sg := simple.NewDirectedGraph()
	for i, id := range ids {
		index[id] = int64(i)
		sg.AddNode(simple.Node(i))
	}
	for _, e := range g.Edges() {
		sg.SetEdge(sg.NewEdge(simple.Node(index[e.From]), simple.Node(index[e.To])))
	}

	var comps [][]string
	for _, scc := range topo.TarjanSCC(sg) {
		comp := make([]string, len(scc))
		for i, n := range scc {
			comp[i] = ids[n.ID()]
		}
		slices.Sort(comp)
		comps = append(comps, comp)
	}
	slices.SortFunc(comps, func(a, b []string) int { return slices.Compare(a, b) })
	return comps
}
