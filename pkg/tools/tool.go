package tools

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/bntaxonomy/bntaxonomy/pkg/control"
)

// Sentinel errors reported by tool runs. The runner maps ErrOutOfMemory and
// ErrTimeout to failure markers so the pair is skipped on later runs.
var (
	ErrToolFailed  = errors.New("tool failed")
	ErrOutOfMemory = errors.New("tool ran out of memory")
	ErrTimeout     = errors.New("tool timed out")
)

// Kind says how a tool receives the network.
type Kind int

const (
	// KindFile passes the path of the .bnet file.
	KindFile Kind = iota
	// KindInline feeds the network text on stdin.
	KindInline
)

func (k Kind) String() string {
	switch k {
	case KindFile:
		return "file"
	case KindInline:
		return "inline"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// ParseKind parses "file" (the default for "") or "inline".
func ParseKind(s string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "file":
		return KindFile, nil
	case "inline", "stdin":
		return KindInline, nil
	default:
		return 0, fmt.Errorf("unknown tool kind %q", s)
	}
}

// Request describes one control problem.
type Request struct {
	// Instance is the display name of the instance, for logs and hooks.
	Instance string
	// Network is the path of the .bnet file.
	Network string
	// MaxSize bounds the size of the interventions a tool should look for.
	MaxSize int
	// Target is the phenotype to reach.
	Target control.Intervention
	// Exclude lists variables that must not be perturbed.
	Exclude []string
}

// TargetString formats the target as "a=1,b=0".
func (r Request) TargetString() string {
	parts := make([]string, 0, r.Target.Len())
	for _, a := range r.Target.Assignments() {
		parts = append(parts, fmt.Sprintf("%s=%d", a.Var, a.Value))
	}
	return strings.Join(parts, ",")
}

// ExcludeString formats the sorted exclusion list as "x,y".
func (r Request) ExcludeString() string {
	ex := slices.Clone(r.Exclude)
	slices.Sort(ex)
	return strings.Join(slices.Compact(ex), ",")
}

// Tool is a control tool.
type Tool interface {
	// Name is the algorithm name the results are stored under.
	Name() string
	Kind() Kind
	// Run solves the control problem. The returned interventions are raw:
	// the caller normalizes them.
	Run(ctx context.Context, req Request) ([]control.Intervention, error)
}

// FuncTool adapts a Go function to the [Tool] interface.
type FuncTool struct {
	ToolName string
	ToolKind Kind
	Fn       func(ctx context.Context, req Request) ([]control.Intervention, error)
}

func (f FuncTool) Name() string { return f.ToolName }
func (f FuncTool) Kind() Kind   { return f.ToolKind }

func (f FuncTool) Run(ctx context.Context, req Request) ([]control.Intervention, error) {
	return f.Fn(ctx, req)
}
