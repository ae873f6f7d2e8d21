package transform_test

import (
	"fmt"

	"github.com/bntaxonomy/bntaxonomy/pkg/digraph"
	"github.com/bntaxonomy/bntaxonomy/pkg/digraph/transform"
)

func ExampleTransitiveReduction() {
	g := digraph.New()
	for _, id := range []string{"ActoNet", "Caspo", "PBN"} {
		_ = g.AddNode(id)
	}
	_ = g.AddEdge("ActoNet", "Caspo")
	_ = g.AddEdge("Caspo", "PBN")
	_ = g.AddEdge("ActoNet", "PBN")

	removed := transform.TransitiveReduction(g)
	fmt.Println("removed:", removed)
	for _, e := range g.Edges() {
		fmt.Println(e)
	}
	// Output:
	// removed: 1
	// ActoNet -> Caspo
	// Caspo -> PBN
}
