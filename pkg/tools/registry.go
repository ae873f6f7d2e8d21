package tools

import (
	"errors"
	"fmt"
	"slices"

	"github.com/gobwas/glob"

	bnerrors "github.com/bntaxonomy/bntaxonomy/pkg/errors"
)

var (
	ErrDuplicateTool = errors.New("duplicate tool")
	ErrUnknownTool   = errors.New("unknown tool")
)

// Registry maps algorithm names to tools.
type Registry struct {
	tools map[string]Tool
}

// NewRegistry registers tools. Names must be valid algorithm names and unique.
func NewRegistry(tools ...Tool) (*Registry, error) {
	r := &Registry{tools: make(map[string]Tool, len(tools))}
	for _, t := range tools {
		if err := r.Register(t); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// Register adds a tool.
func (r *Registry) Register(t Tool) error {
	name := t.Name()
	if err := bnerrors.ValidateAlgorithmName(name); err != nil {
		return err
	}
	if _, ok := r.tools[name]; ok {
		return fmt.Errorf("%w: %s", ErrDuplicateTool, name)
	}
	r.tools[name] = t
	return nil
}

// Names returns the registered names, sorted.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.tools))
	for n := range r.tools {
		names = append(names, n)
	}
	slices.Sort(names)
	return names
}

// Len returns the number of registered tools.
func (r *Registry) Len() int { return len(r.tools) }

// Get returns the tool registered under name.
func (r *Registry) Get(name string) (Tool, error) {
	t, ok := r.tools[name]
	if !ok {
		return nil, bnerrors.Wrap(bnerrors.ErrCodeToolNotFound, ErrUnknownTool, "%s", name)
	}
	return t, nil
}

// Select returns the tools matching any of the patterns, in name order.
// A pattern naming a tool exactly selects it even when it contains glob
// metacharacters ("BoNesis[FP]"); otherwise it is matched as a glob.
// No patterns select every tool. A pattern matching nothing is an error.
func (r *Registry) Select(patterns []string) ([]Tool, error) {
	if len(patterns) == 0 {
		return r.pick(r.Names()), nil
	}

	chosen := make(map[string]struct{})
	for _, p := range patterns {
		if _, ok := r.tools[p]; ok {
			chosen[p] = struct{}{}
			continue
		}
		g, err := glob.Compile(p)
		if err != nil {
			return nil, bnerrors.Wrap(bnerrors.ErrCodeInvalidInput, err, "tool pattern %q", p)
		}
		matched := false
		for name := range r.tools {
			if g.Match(name) {
				chosen[name] = struct{}{}
				matched = true
			}
		}
		if !matched {
			return nil, bnerrors.Wrap(bnerrors.ErrCodeToolNotFound, ErrUnknownTool, "no tool matches %q", p)
		}
	}

	names := make([]string, 0, len(chosen))
	for n := range chosen {
		names = append(names, n)
	}
	slices.Sort(names)
	return r.pick(names), nil
}

func (r *Registry) pick(names []string) []Tool {
	out := make([]Tool, len(names))
	for i, n := range names {
		out[i] = r.tools[n]
	}
	return out
}
