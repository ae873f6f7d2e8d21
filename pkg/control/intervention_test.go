package control

import (
	"encoding/json"
	"errors"
	"testing"
)

func iv(m map[string]int) Intervention { return MustIntervention(m) }

func TestNewIntervention(t *testing.T) {
	tests := []struct {
		name    string
		in      map[string]int
		want    string
		wantErr bool
	}{
		{"empty", map[string]int{}, "{}", false},
		{"sorted", map[string]int{"b": 1, "a": 0}, "{a=0, b=1}", false},
		{"bad value", map[string]int{"a": 2}, "", true},
		{"negative", map[string]int{"a": -1}, "", true},
		{"empty name", map[string]int{"": 1}, "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := NewIntervention(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("NewIntervention() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil {
				var me *MalformedInterventionError
				if !errors.As(err, &me) {
					t.Errorf("error type = %T, want *MalformedInterventionError", err)
				}
				return
			}
			if got := p.String(); got != tt.want {
				t.Errorf("String() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestSubsetOf(t *testing.T) {
	tests := []struct {
		name       string
		p, q       Intervention
		sub, strict bool
	}{
		{"equal", iv(map[string]int{"x1": 0}), iv(map[string]int{"x1": 0}), true, false},
		{"proper", iv(map[string]int{"x1": 0}), iv(map[string]int{"x1": 0, "x2": 1}), true, true},
		{"reverse", iv(map[string]int{"x1": 0, "x2": 1}), iv(map[string]int{"x1": 0}), false, false},
		{"value differs", iv(map[string]int{"x1": 1}), iv(map[string]int{"x1": 0, "x2": 1}), false, false},
		{"disjoint", iv(map[string]int{"a": 1}), iv(map[string]int{"b": 1}), false, false},
		{"empty below all", Intervention{}, iv(map[string]int{"b": 1}), true, true},
		{"empty equal", Intervention{}, Intervention{}, true, false},
		{"interleaved", iv(map[string]int{"b": 1, "d": 0}), iv(map[string]int{"a": 0, "b": 1, "c": 1, "d": 0}), true, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.p.SubsetOf(tt.q); got != tt.sub {
				t.Errorf("SubsetOf() = %v, want %v", got, tt.sub)
			}
			if got := tt.p.StrictSubsetOf(tt.q); got != tt.strict {
				t.Errorf("StrictSubsetOf() = %v, want %v", got, tt.strict)
			}
		})
	}
}

func TestCompare(t *testing.T) {
	small := iv(map[string]int{"z": 1})
	big := iv(map[string]int{"a": 0, "b": 0})
	a0 := iv(map[string]int{"a": 0})
	a1 := iv(map[string]int{"a": 1})

	if small.Compare(big) >= 0 {
		t.Error("smaller intervention should sort first regardless of names")
	}
	if a0.Compare(a1) >= 0 {
		t.Error("a=0 should sort before a=1")
	}
	if a0.Compare(small) >= 0 {
		t.Error("a=0 should sort before z=1")
	}
	if a0.Compare(a0) != 0 {
		t.Error("Compare with itself should be 0")
	}
}

func TestGet(t *testing.T) {
	p := iv(map[string]int{"a": 0, "c": 1})
	if v, ok := p.Get("c"); !ok || v != 1 {
		t.Errorf("Get(c) = %d, %v; want 1, true", v, ok)
	}
	if _, ok := p.Get("b"); ok {
		t.Error("Get(b) should miss")
	}
	if got := p.Map(); len(got) != 2 || got["a"] != 0 {
		t.Errorf("Map() = %v", got)
	}
}

func TestInterventionJSON(t *testing.T) {
	p := iv(map[string]int{"b": 1, "a": 0})
	data, err := json.Marshal(p)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != `{"a":0,"b":1}` {
		t.Errorf("Marshal = %s", data)
	}

	var q Intervention
	if err := json.Unmarshal(data, &q); err != nil {
		t.Fatal(err)
	}
	if !p.Equal(q) {
		t.Errorf("round trip = %v, want %v", q, p)
	}

	if err := json.Unmarshal([]byte(`{"a":true}`), &q); err == nil {
		t.Error("boolean value should be rejected")
	}
}
