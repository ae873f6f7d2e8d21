package hierarchy_test

import (
	"context"
	"fmt"

	"github.com/bntaxonomy/bntaxonomy/pkg/control"
	"github.com/bntaxonomy/bntaxonomy/pkg/hierarchy"
)

func result(name string, m map[string]int) control.Result {
	return control.NewResult(name, []control.Intervention{control.MustIntervention(m)}, control.Options{})
}

func ExampleBuild() {
	i1, _ := hierarchy.NewInstance("tumour", "bench", []control.Result{
		result("Caspo", map[string]int{"p53": 1, "mdm2": 0}),
		result("PBN", map[string]int{"p53": 1}),
	})
	i2, _ := hierarchy.NewInstance("tlgl", "bench", []control.Result{
		result("Caspo", map[string]int{"s1p": 0}),
		result("PBN", map[string]int{"flip": 1}),
	})

	h, _ := hierarchy.Build(context.Background(), "example", []*hierarchy.Instance{i1, i2})
	for _, e := range h.CounterexampleEdges() {
		fmt.Println(e, h.Counterexamples(e.From, e.To))
	}
	// Output:
	// Caspo -> PBN [tlgl]
	// PBN -> Caspo [tumour tlgl]
}
