package digraph

import (
	"errors"
	"maps"
	"slices"
	"strings"
)

var (
	// ErrInvalidNodeID is returned by [Graph.AddNode] when the node ID is empty.
	ErrInvalidNodeID = errors.New("node ID must not be empty")

	// ErrDuplicateNodeID is returned by [Graph.AddNode] when a node with the
	// same ID already exists in the graph.
	ErrDuplicateNodeID = errors.New("duplicate node ID")

	// ErrUnknownSourceNode is returned by [Graph.AddEdge] when the source
	// node does not exist.
	ErrUnknownSourceNode = errors.New("unknown source node")

	// ErrUnknownTargetNode is returned by [Graph.AddEdge] when the target
	// node does not exist.
	ErrUnknownTargetNode = errors.New("unknown target node")

	// ErrSelfLoop is returned by [Graph.AddEdge] for an edge from a node to
	// itself. Dominance is reflexive, so self edges carry no information.
	ErrSelfLoop = errors.New("self loop")
)

// Edge is a directed edge between two named nodes.
type Edge struct {
	From string
	To   string
}

// String renders the edge as "From -> To".
func (e Edge) String() string { return e.From + " -> " + e.To }

// Compare orders edges by source, then target.
func (e Edge) Compare(o Edge) int {
	if c := strings.Compare(e.From, o.From); c != 0 {
		return c
	}
	return strings.Compare(e.To, o.To)
}

// Graph is a simple directed graph: no parallel edges, no self loops.
// The zero value is not usable; create graphs with [New].
type Graph struct {
	outgoing map[string]map[string]struct{}
	incoming map[string]map[string]struct{}
	edges    int
}

// New creates an empty graph.
func New() *Graph {
	return &Graph{
		outgoing: make(map[string]map[string]struct{}),
		incoming: make(map[string]map[string]struct{}),
	}
}

// AddNode adds a node. Returns ErrInvalidNodeID for an empty ID and
// ErrDuplicateNodeID if the node already exists.
func (g *Graph) AddNode(id string) error {
	if id == "" {
		return ErrInvalidNodeID
	}
	if g.HasNode(id) {
		return ErrDuplicateNodeID
	}
	g.outgoing[id] = make(map[string]struct{})
	g.incoming[id] = make(map[string]struct{})
	return nil
}

// EnsureNode adds id if it is not present yet.
func (g *Graph) EnsureNode(id string) error {
	if g.HasNode(id) {
		return nil
	}
	return g.AddNode(id)
}

// HasNode reports whether id is a node of the graph.
func (g *Graph) HasNode(id string) bool {
	_, ok := g.outgoing[id]
	return ok
}

// AddEdge adds the edge from→to between existing nodes. Adding an edge
// that already exists is a no-op.
func (g *Graph) AddEdge(from, to string) error {
	if !g.HasNode(from) {
		return ErrUnknownSourceNode
	}
	if !g.HasNode(to) {
		return ErrUnknownTargetNode
	}
	if from == to {
		return ErrSelfLoop
	}
	if _, ok := g.outgoing[from][to]; ok {
		return nil
	}
	g.outgoing[from][to] = struct{}{}
	g.incoming[to][from] = struct{}{}
	g.edges++
	return nil
}

// RemoveEdge removes the edge from→to if it exists.
func (g *Graph) RemoveEdge(from, to string) {
	if _, ok := g.outgoing[from][to]; !ok {
		return
	}
	delete(g.outgoing[from], to)
	delete(g.incoming[to], from)
	g.edges--
}

// HasEdge reports whether the edge from→to exists.
func (g *Graph) HasEdge(from, to string) bool {
	_, ok := g.outgoing[from][to]
	return ok
}

// Nodes returns all node IDs in sorted order.
func (g *Graph) Nodes() []string {
	return slices.Sorted(maps.Keys(g.outgoing))
}

// Edges returns all edges sorted by source, then target.
func (g *Graph) Edges() []Edge {
	edges := make([]Edge, 0, g.edges)
	for _, from := range g.Nodes() {
		for _, to := range g.Children(from) {
			edges = append(edges, Edge{From: from, To: to})
		}
	}
	return edges
}

// NodeCount returns the number of nodes.
func (g *Graph) NodeCount() int { return len(g.outgoing) }

// EdgeCount returns the number of edges.
func (g *Graph) EdgeCount() int { return g.edges }

// Children returns the sorted targets of edges leaving id.
func (g *Graph) Children(id string) []string {
	return slices.Sorted(maps.Keys(g.outgoing[id]))
}

// Parents returns the sorted sources of edges entering id.
func (g *Graph) Parents(id string) []string {
	return slices.Sorted(maps.Keys(g.incoming[id]))
}

// Clone returns a deep copy of the graph.
func (g *Graph) Clone() *Graph {
	c := New()
	for id, out := range g.outgoing {
		c.outgoing[id] = maps.Clone(out)
		c.incoming[id] = maps.Clone(g.incoming[id])
	}
	c.edges = g.edges
	return c
}

// Subgraph returns the graph induced by the given nodes. Unknown IDs are
// ignored.
func (g *Graph) Subgraph(ids []string) *Graph {
	sub := New()
	for _, id := range ids {
		if g.HasNode(id) {
			_ = sub.EnsureNode(id)
		}
	}
	for from := range sub.outgoing {
		for to := range g.outgoing[from] {
			if sub.HasNode(to) {
				_ = sub.AddEdge(from, to)
			}
		}
	}
	return sub
}
