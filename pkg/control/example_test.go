package control_test

import (
	"fmt"

	"github.com/bntaxonomy/bntaxonomy/pkg/control"
)

func ExampleNormalize() {
	raw, _ := control.DecodeInterventions([]byte(`[{"g1":1},{"g1":1,"g2":0},{"g3":0},{"g1":1}]`))

	for _, p := range control.Normalize(raw, control.Options{}) {
		fmt.Println(p)
	}
	// Output:
	// {g1=1}
	// {g3=0}
}

func ExampleResult_AtLeastAsStrongAs() {
	a := control.NewResult("A", []control.Intervention{
		control.MustIntervention(map[string]int{"x1": 0}),
		control.MustIntervention(map[string]int{"x2": 1}),
	}, control.Options{})
	b := control.NewResult("B", []control.Intervention{
		control.MustIntervention(map[string]int{"x1": 0}),
	}, control.Options{})

	fmt.Println("B >= A:", b.AtLeastAsStrongAs(a))
	fmt.Println("A >= B:", a.AtLeastAsStrongAs(b))
	fmt.Println("missed by B:", b.Uncovered(a))
	// Output:
	// B >= A: false
	// A >= B: true
	// missed by B: [{x2=1}]
}
