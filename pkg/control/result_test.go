package control

import (
	"math/rand"
	"slices"
	"testing"
)

func result(name string, maps ...map[string]int) Result {
	items := make([]Intervention, len(maps))
	for i, m := range maps {
		items[i] = iv(m)
	}
	return NewResult(name, items, Options{})
}

func strs(items []Intervention) []string {
	out := make([]string, len(items))
	for i, p := range items {
		out[i] = p.String()
	}
	return out
}

func TestNormalize(t *testing.T) {
	tests := []struct {
		name string
		raw  []map[string]int
		opts Options
		want []string
	}{
		{
			name: "duplicate and non-minimal",
			raw:  []map[string]int{{"g1": 1}, {"g1": 1, "g2": 0}, {"g1": 1}},
			want: []string{"{g1=1}"},
		},
		{
			name: "keep non-minimal",
			raw:  []map[string]int{{"g1": 1}, {"g1": 1, "g2": 0}, {"g1": 1}},
			opts: Options{KeepNonMinimal: true},
			want: []string{"{g1=1}", "{g1=1, g2=0}"},
		},
		{
			name: "incomparable ties kept",
			raw:  []map[string]int{{"b": 1}, {"a": 0}, {"a": 1}},
			want: []string{"{a=0}", "{a=1}", "{b=1}"},
		},
		{
			name: "size limit",
			raw:  []map[string]int{{"a": 0, "b": 0, "c": 0}, {"d": 1, "e": 1}},
			opts: Options{SizeLimit: 2},
			want: []string{"{d=1, e=1}"},
		},
		{
			name: "value mismatch is not subsumption",
			raw:  []map[string]int{{"a": 0}, {"a": 1, "b": 1}},
			want: []string{"{a=0}", "{a=1, b=1}"},
		},
		{
			name: "empty intervention dominates everything",
			raw:  []map[string]int{{"a": 0}, {}, {"b": 1, "c": 0}},
			want: []string{"{}"},
		},
		{
			name: "capped item does not dominate",
			raw:  []map[string]int{{"a": 0, "b": 0}, {"a": 0, "b": 0, "c": 1}},
			opts: Options{SizeLimit: 1},
			want: []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			items, err := FromMaps(tt.raw)
			if err != nil {
				t.Fatal(err)
			}
			got := strs(Normalize(items, tt.opts))
			if !slices.Equal(got, tt.want) {
				t.Errorf("Normalize() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestNormalizeIdempotent(t *testing.T) {
	items, _ := FromMaps([]map[string]int{
		{"a": 1, "b": 0}, {"a": 1}, {"c": 0, "d": 1, "e": 1}, {"c": 0, "d": 1}, {"b": 0}, {"a": 1},
	})
	for _, opts := range []Options{{}, {KeepNonMinimal: true}, {SizeLimit: 2}} {
		once := Normalize(items, opts)
		twice := Normalize(once, opts)
		if !slices.Equal(strs(once), strs(twice)) {
			t.Errorf("opts %+v: normalize twice = %v, once = %v", opts, strs(twice), strs(once))
		}
	}
}

func TestNormalizeOrderIndependent(t *testing.T) {
	items, _ := FromMaps([]map[string]int{
		{"a": 1}, {"a": 1, "b": 0}, {"b": 0, "c": 1}, {"c": 1}, {"a": 0, "c": 0},
		{"d": 1, "e": 0, "f": 1}, {"d": 1, "e": 0}, {"f": 1}, {"a": 1}, {"g": 0, "h": 0},
	})
	want := strs(Normalize(items, Options{}))

	rng := rand.New(rand.NewSource(1))
	for i := 0; i < 50; i++ {
		shuffled := slices.Clone(items)
		rng.Shuffle(len(shuffled), func(i, j int) { shuffled[i], shuffled[j] = shuffled[j], shuffled[i] })
		got := strs(Normalize(shuffled, Options{}))
		if !slices.Equal(got, want) {
			t.Fatalf("permutation %d: got %v, want %v", i, got, want)
		}
	}
}

func TestNormalizeMinimality(t *testing.T) {
	items, _ := FromMaps([]map[string]int{
		{"a": 1, "b": 0, "c": 1}, {"a": 1, "c": 1}, {"b": 0}, {"b": 0, "d": 1}, {"e": 1}, {"a": 1, "e": 1},
	})
	got := Normalize(items, Options{})
	for i, a := range got {
		for j, b := range got {
			if i != j && a.SubsetOf(b) {
				t.Errorf("%v subsumes %v after normalization", a, b)
			}
		}
	}
}

func TestNormalizeDoesNotModifyInput(t *testing.T) {
	items, _ := FromMaps([]map[string]int{{"b": 1}, {"a": 1}})
	before := strs(items)
	Normalize(items, Options{})
	if !slices.Equal(strs(items), before) {
		t.Errorf("input modified: %v, want %v", strs(items), before)
	}
}

func TestDropIdempotent(t *testing.T) {
	items, _ := FromMaps([]map[string]int{{"a": 1}, {"a": 1, "b": 1}, {"c": 1, "d": 1, "e": 0}})
	r := NewResult("X", items, Options{KeepNonMinimal: true})

	once := r.DropSizeLimit(2)
	twice := once.DropSizeLimit(2)
	if !slices.Equal(strs(once.Items), strs(twice.Items)) || once.Len() != 2 {
		t.Errorf("DropSizeLimit: once %v, twice %v", strs(once.Items), strs(twice.Items))
	}

	m1 := r.DropNonMinimal()
	m2 := m1.DropNonMinimal()
	if !slices.Equal(strs(m1.Items), strs(m2.Items)) || m1.Len() != 2 {
		t.Errorf("DropNonMinimal: once %v, twice %v", strs(m1.Items), strs(m2.Items))
	}
	if r.Len() != 3 {
		t.Error("drop methods must not modify the receiver")
	}
}

func TestAtLeastAsStrongAs(t *testing.T) {
	tests := []struct {
		name   string
		a, b   Result
		bOverA bool
		aOverB bool
	}{
		{
			name:   "single smaller item covers larger",
			a:      result("A", map[string]int{"x1": 0}),
			b:      result("B", map[string]int{"x1": 0, "x2": 1}),
			bOverA: false,
			aOverB: true,
		},
		{
			name:   "extra independent item",
			a:      result("A", map[string]int{"x1": 0}, map[string]int{"x2": 1}),
			b:      result("B", map[string]int{"x1": 0}),
			bOverA: false,
			aOverB: true,
		},
		{
			name:   "empty reference is vacuous",
			a:      result("A"),
			b:      result("B", map[string]int{"x1": 0}),
			bOverA: true,
			aOverB: false,
		},
		{
			name:   "both empty",
			a:      result("A"),
			b:      result("B"),
			bOverA: true,
			aOverB: true,
		},
		{
			name:   "equivalent sets",
			a:      result("A", map[string]int{"x": 1}, map[string]int{"y": 0}),
			b:      result("B", map[string]int{"y": 0}, map[string]int{"x": 1}),
			bOverA: true,
			aOverB: true,
		},
		{
			name:   "incomparable",
			a:      result("A", map[string]int{"x": 1}),
			b:      result("B", map[string]int{"x": 0}),
			bOverA: false,
			aOverB: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.b.AtLeastAsStrongAs(tt.a); got != tt.bOverA {
				t.Errorf("B.AtLeastAsStrongAs(A) = %v, want %v", got, tt.bOverA)
			}
			if got := tt.a.AtLeastAsStrongAs(tt.b); got != tt.aOverB {
				t.Errorf("A.AtLeastAsStrongAs(B) = %v, want %v", got, tt.aOverB)
			}
			if !tt.a.AtLeastAsStrongAs(tt.a) || !tt.b.AtLeastAsStrongAs(tt.b) {
				t.Error("AtLeastAsStrongAs must be reflexive")
			}
		})
	}
}

func TestUncovered(t *testing.T) {
	a := result("A", map[string]int{"x": 1})
	b := result("B", map[string]int{"x": 1, "y": 0}, map[string]int{"z": 1})

	if got := strs(a.Uncovered(b)); !slices.Equal(got, []string{"{z=1}"}) {
		t.Errorf("A.Uncovered(B) = %v, want [{z=1}]", got)
	}
	if got := b.Uncovered(a); len(got) != 1 {
		t.Errorf("B.Uncovered(A) = %v, want [{x=1}]", strs(got))
	}
}

func TestSizeCounts(t *testing.T) {
	r := result("A", map[string]int{"a": 1}, map[string]int{"b": 1}, map[string]int{"c": 1, "d": 0})
	got := r.SizeCounts()
	if got[1] != 2 || got[2] != 1 || len(got) != 2 {
		t.Errorf("SizeCounts() = %v", got)
	}
}
