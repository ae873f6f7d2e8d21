package control

import (
	"encoding/json"
	"fmt"
	"slices"
	"strings"
)

// Assignment forces a single variable to a binary value.
type Assignment struct {
	Var   string
	Value int
}

func (a Assignment) compare(b Assignment) int {
	if c := strings.Compare(a.Var, b.Var); c != 0 {
		return c
	}
	return a.Value - b.Value
}

// Intervention is an immutable partial assignment of variables to 0 or 1.
// The zero value is the empty intervention.
type Intervention struct {
	pairs []Assignment
}

// NewIntervention builds an intervention from a variable→value map.
// Values other than 0 and 1 and empty variable names are rejected.
func NewIntervention(m map[string]int) (Intervention, error) {
	pairs := make([]Assignment, 0, len(m))
	for v, x := range m {
		if v == "" {
			return Intervention{}, &MalformedInterventionError{Index: -1, Reason: "empty variable name"}
		}
		if x != 0 && x != 1 {
			return Intervention{}, &MalformedInterventionError{Index: -1, Var: v, Value: x, Reason: "value must be 0 or 1"}
		}
		pairs = append(pairs, Assignment{Var: v, Value: x})
	}
	slices.SortFunc(pairs, Assignment.compare)
	return Intervention{pairs: pairs}, nil
}

// MustIntervention is like [NewIntervention] but panics on invalid input.
// It is intended for tests and literals.
func MustIntervention(m map[string]int) Intervention {
	p, err := NewIntervention(m)
	if err != nil {
		panic(err)
	}
	return p
}

// Len returns the number of perturbed variables.
func (p Intervention) Len() int { return len(p.pairs) }

// Get returns the value forced on v, if any.
func (p Intervention) Get(v string) (int, bool) {
	i, ok := slices.BinarySearchFunc(p.pairs, v, func(a Assignment, v string) int {
		return strings.Compare(a.Var, v)
	})
	if !ok {
		return 0, false
	}
	return p.pairs[i].Value, true
}

// Vars returns the perturbed variables in sorted order.
func (p Intervention) Vars() []string {
	vars := make([]string, len(p.pairs))
	for i, a := range p.pairs {
		vars[i] = a.Var
	}
	return vars
}

// Assignments returns a copy of the pairs in variable order.
func (p Intervention) Assignments() []Assignment {
	return slices.Clone(p.pairs)
}

// Map returns the intervention as a fresh map.
func (p Intervention) Map() map[string]int {
	m := make(map[string]int, len(p.pairs))
	for _, a := range p.pairs {
		m[a.Var] = a.Value
	}
	return m
}

// Equal reports whether p and q hold the same pairs.
func (p Intervention) Equal(q Intervention) bool {
	return slices.Equal(p.pairs, q.pairs)
}

// SubsetOf reports whether p ≤ q: every pair of p also appears in q.
func (p Intervention) SubsetOf(q Intervention) bool {
	if len(p.pairs) > len(q.pairs) {
		return false
	}
	j := 0
	for _, a := range p.pairs {
		for j < len(q.pairs) && q.pairs[j].Var < a.Var {
			j++
		}
		if j == len(q.pairs) || q.pairs[j] != a {
			return false
		}
		j++
	}
	return true
}

// StrictSubsetOf reports whether p ≤ q and p ≠ q.
func (p Intervention) StrictSubsetOf(q Intervention) bool {
	return len(p.pairs) < len(q.pairs) && p.SubsetOf(q)
}

// Compare orders interventions canonically: by size, then by the
// sorted (variable, value) pairs.
func (p Intervention) Compare(q Intervention) int {
	if d := len(p.pairs) - len(q.pairs); d != 0 {
		return d
	}
	return slices.CompareFunc(p.pairs, q.pairs, Assignment.compare)
}

// key is a collision-free identity used for deduplication.
func (p Intervention) key() string {
	var b strings.Builder
	for _, a := range p.pairs {
		b.WriteString(a.Var)
		b.WriteByte(0)
		b.WriteByte(byte('0' + a.Value))
	}
	return b.String()
}

// String renders the intervention as {a=0, b=1}.
func (p Intervention) String() string {
	parts := make([]string, len(p.pairs))
	for i, a := range p.pairs {
		parts[i] = fmt.Sprintf("%s=%d", a.Var, a.Value)
	}
	return "{" + strings.Join(parts, ", ") + "}"
}

// MarshalJSON encodes the intervention as an object with sorted keys.
func (p Intervention) MarshalJSON() ([]byte, error) {
	return json.Marshal(p.Map())
}

// UnmarshalJSON decodes a single {"var": 0|1} object.
func (p *Intervention) UnmarshalJSON(data []byte) error {
	var raw any
	if err := decodeNumbers(data, &raw); err != nil {
		return err
	}
	q, err := fromRaw(-1, raw)
	if err != nil {
		return err
	}
	*p = q
	return nil
}
