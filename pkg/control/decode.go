package control

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"math"
)

// MalformedInterventionError reports raw tool output that is not a valid
// intervention. It signals a broken tool integration and is never coerced.
type MalformedInterventionError struct {
	Index  int    // position in the decoded list, -1 when not applicable
	Var    string // offending variable, if known
	Value  any    // offending value, if known
	Reason string
}

func (e *MalformedInterventionError) Error() string {
	var where string
	if e.Index >= 0 {
		where = fmt.Sprintf("item %d: ", e.Index)
	}
	if e.Var != "" {
		return fmt.Sprintf("malformed intervention: %s%q=%v: %s", where, e.Var, e.Value, e.Reason)
	}
	return fmt.Sprintf("malformed intervention: %s%s", where, e.Reason)
}

// DecodeInterventions decodes a JSON array of {"var": 0|1} objects.
// Items are returned in input order and are not normalized.
func DecodeInterventions(data []byte) ([]Intervention, error) {
	var raw any
	if err := decodeNumbers(data, &raw); err != nil {
		return nil, fmt.Errorf("decode interventions: %w", err)
	}
	list, ok := raw.([]any)
	if !ok {
		return nil, &MalformedInterventionError{Index: -1, Reason: fmt.Sprintf("expected a list, got %s", kindOf(raw))}
	}
	items := make([]Intervention, 0, len(list))
	for i, r := range list {
		p, err := fromRaw(i, r)
		if err != nil {
			return nil, err
		}
		items = append(items, p)
	}
	return items, nil
}

// FromMaps converts variable→value maps collected by a parser. A malformed
// entry is reported with its position.
func FromMaps(maps []map[string]int) ([]Intervention, error) {
	items := make([]Intervention, 0, len(maps))
	for i, m := range maps {
		p, err := NewIntervention(m)
		if err != nil {
			var me *MalformedInterventionError
			if errors.As(err, &me) {
				me.Index = i
			}
			return nil, err
		}
		items = append(items, p)
	}
	return items, nil
}

// EncodeInterventions writes items as an indented JSON array in the given order.
func EncodeInterventions(items []Intervention) ([]byte, error) {
	if items == nil {
		items = []Intervention{}
	}
	return json.MarshalIndent(items, "", "  ")
}

func decodeNumbers(data []byte, v any) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	return dec.Decode(v)
}

func fromRaw(index int, raw any) (Intervention, error) {
	obj, ok := raw.(map[string]any)
	if !ok {
		return Intervention{}, &MalformedInterventionError{Index: index, Reason: fmt.Sprintf("expected an object, got %s", kindOf(raw))}
	}
	m := make(map[string]int, len(obj))
	for v, x := range obj {
		if v == "" {
			return Intervention{}, &MalformedInterventionError{Index: index, Reason: "empty variable name"}
		}
		n, ok := x.(json.Number)
		if !ok {
			return Intervention{}, &MalformedInterventionError{Index: index, Var: v, Value: x, Reason: fmt.Sprintf("expected 0 or 1, got %s", kindOf(x))}
		}
		f, err := n.Float64()
		if err != nil || (f != 0 && f != 1) || math.IsNaN(f) {
			return Intervention{}, &MalformedInterventionError{Index: index, Var: v, Value: n.String(), Reason: "value must be 0 or 1"}
		}
		m[v] = int(f)
	}
	return NewIntervention(m)
}

func kindOf(v any) string {
	switch v.(type) {
	case nil:
		return "null"
	case bool:
		return "boolean"
	case string:
		return "string"
	case json.Number:
		return "number"
	case []any:
		return "list"
	case map[string]any:
		return "object"
	default:
		return fmt.Sprintf("%T", v)
	}
}
