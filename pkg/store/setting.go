package store

import (
	"encoding/json"
	"fmt"
	"maps"
	"os"
	"path/filepath"
	"slices"

	"github.com/bntaxonomy/bntaxonomy/pkg/control"
)

// File names inside an instance directory.
const (
	SettingFile    = "setting.json"
	NetworkFile    = "transition_formula.bnet"
	PropagatedFile = "propagated.bnet"
)

// Setting describes the control problem of one instance.
type Setting struct {
	// Inputs are externally fixed variables. They are never perturbed.
	Inputs map[string]int `json:"inputs"`
	// Target is the partial state that defines success.
	Target map[string]int `json:"target"`
	// Exclude lists further variables that may never be perturbed.
	Exclude []string `json:"exclude"`
}

// LoadSetting reads setting.json from an instance directory. Target and
// input values must be 0 or 1.
func LoadSetting(dir string) (Setting, error) {
	path := filepath.Join(dir, SettingFile)
	data, err := os.ReadFile(path)
	if err != nil {
		return Setting{}, err
	}
	var s Setting
	if err := json.Unmarshal(data, &s); err != nil {
		return Setting{}, fmt.Errorf("%s: %w", path, err)
	}
	if _, err := control.NewIntervention(s.Target); err != nil {
		return Setting{}, fmt.Errorf("%s: target: %w", path, err)
	}
	if _, err := control.NewIntervention(s.Inputs); err != nil {
		return Setting{}, fmt.Errorf("%s: inputs: %w", path, err)
	}
	return s, nil
}

// TargetIntervention returns the target as an intervention.
func (s Setting) TargetIntervention() control.Intervention {
	p, _ := control.NewIntervention(s.Target)
	return p
}

// Exclusion returns the sorted variables tools must not perturb: the
// exclusion list and the inputs, plus the target variables when
// excludeTargets is set.
func (s Setting) Exclusion(excludeTargets bool) []string {
	set := make(map[string]struct{}, len(s.Exclude)+len(s.Inputs))
	for _, v := range s.Exclude {
		set[v] = struct{}{}
	}
	for v := range s.Inputs {
		set[v] = struct{}{}
	}
	if excludeTargets {
		for v := range s.Target {
			set[v] = struct{}{}
		}
	}
	return slices.Sorted(maps.Keys(set))
}

// NetworkPath returns the network handed to tools: the propagated network
// when requested and present, the transition formula otherwise.
func NetworkPath(dir string, usePropagated bool) string {
	if usePropagated {
		p := filepath.Join(dir, PropagatedFile)
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	return filepath.Join(dir, NetworkFile)
}
