package tools

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strconv"
	"strings"
	"time"

	"github.com/bntaxonomy/bntaxonomy/pkg/cache"
	"github.com/bntaxonomy/bntaxonomy/pkg/control"
	bnerrors "github.com/bntaxonomy/bntaxonomy/pkg/errors"
	"github.com/bntaxonomy/bntaxonomy/pkg/observability"
)

// Placeholders substituted in command arguments.
const (
	PlaceholderNetwork  = "{network}"
	PlaceholderMaxSize  = "{max_size}"
	PlaceholderTarget   = "{target}"
	PlaceholderExclude  = "{exclude}"
	PlaceholderInstance = "{instance}"
)

// exitOOM is the exit status of a process killed by the kernel OOM killer.
const exitOOM = 137

const stderrTail = 512

// ExecConfig configures an [ExecTool].
type ExecConfig struct {
	Name string
	Kind Kind
	// Command is the program and its arguments. Arguments may contain the
	// {network}, {max_size}, {target}, {exclude} and {instance} placeholders.
	Command []string
	// Format names the output parser (see [ParserFor]).
	Format string
	// Timeout bounds one run. Zero means no limit.
	Timeout time.Duration
	// Cache memoizes raw outputs. Nil disables caching.
	Cache cache.Cache
	// Env is appended to the inherited environment.
	Env []string
}

// ExecTool runs an external program per control problem.
type ExecTool struct {
	cfg   ExecConfig
	parse Parser
}

// NewExecTool validates cfg and returns the tool.
func NewExecTool(cfg ExecConfig) (*ExecTool, error) {
	if err := bnerrors.ValidateAlgorithmName(cfg.Name); err != nil {
		return nil, err
	}
	if len(cfg.Command) == 0 || cfg.Command[0] == "" {
		return nil, bnerrors.New(bnerrors.ErrCodeInvalidConfig, "tool %s: empty command", cfg.Name)
	}
	p, err := ParserFor(cfg.Format)
	if err != nil {
		return nil, bnerrors.Wrap(bnerrors.ErrCodeInvalidConfig, err, "tool %s", cfg.Name)
	}
	return &ExecTool{cfg: cfg, parse: p}, nil
}

func (t *ExecTool) Name() string { return t.cfg.Name }
func (t *ExecTool) Kind() Kind   { return t.cfg.Kind }

// Command returns the configured command line, before substitution.
func (t *ExecTool) Command() []string { return append([]string(nil), t.cfg.Command...) }

// Run executes the command, or replays a cached output of the same problem.
func (t *ExecTool) Run(ctx context.Context, req Request) ([]control.Intervention, error) {
	network, err := os.ReadFile(req.Network)
	if err != nil {
		return nil, bnerrors.Wrap(bnerrors.ErrCodeInvalidPath, err, "read network")
	}

	key := cache.ToolKey(t.cfg.Name, cache.ToolKeyOpts{
		Command:     t.cfg.Command,
		NetworkHash: cache.Hash(network),
		MaxSize:     req.MaxSize,
		Target:      req.TargetString(),
		Exclude:     strings.Split(req.ExcludeString(), ","),
	})

	if out, ok := t.cached(ctx, key); ok {
		if items, err := t.parse(out); err == nil {
			return items, nil
		}
		// A stale entry that no longer parses is recomputed.
	}

	out, err := t.exec(ctx, req, network)
	if err != nil {
		return nil, err
	}
	items, err := t.parse(out)
	if err != nil {
		return nil, bnerrors.Wrap(bnerrors.ErrCodeToolOutput, err, "tool %s", t.cfg.Name)
	}
	t.store(ctx, key, out)
	return items, nil
}

// cached and store call the backend once; backends that talk to a server
// retry on their own.
func (t *ExecTool) cached(ctx context.Context, key string) ([]byte, bool) {
	if t.cfg.Cache == nil {
		return nil, false
	}
	data, hit, err := t.cfg.Cache.Get(ctx, key)
	if err != nil || !hit {
		observability.Cache().OnCacheMiss(ctx, key)
		return nil, false
	}
	observability.Cache().OnCacheHit(ctx, key)
	return data, true
}

func (t *ExecTool) store(ctx context.Context, key string, out []byte) {
	if t.cfg.Cache == nil {
		return
	}
	if err := t.cfg.Cache.Set(ctx, key, out, 0); err == nil {
		observability.Cache().OnCacheSet(ctx, key, len(out))
	}
}

func (t *ExecTool) exec(ctx context.Context, req Request, network []byte) ([]byte, error) {
	runCtx := ctx
	if t.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		runCtx, cancel = context.WithTimeout(ctx, t.cfg.Timeout)
		defer cancel()
	}

	args := t.args(req)
	cmd := exec.CommandContext(runCtx, args[0], args[1:]...)
	if len(t.cfg.Env) > 0 {
		cmd.Env = append(os.Environ(), t.cfg.Env...)
	}
	if t.cfg.Kind == KindInline {
		cmd.Stdin = bytes.NewReader(network)
	}
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	if err == nil {
		return stdout.Bytes(), nil
	}

	switch {
	case ctx.Err() != nil:
		return nil, ctx.Err()
	case errors.Is(runCtx.Err(), context.DeadlineExceeded):
		return nil, fmt.Errorf("%w: %s after %s", ErrTimeout, t.cfg.Name, t.cfg.Timeout)
	}

	tail := tailOf(stderr.Bytes())
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) && exitErr.ExitCode() == exitOOM || isOOMMessage(tail) {
		return nil, fmt.Errorf("%w: %s", ErrOutOfMemory, t.cfg.Name)
	}
	if tail != "" {
		return nil, bnerrors.Wrap(bnerrors.ErrCodeToolFailed, fmt.Errorf("%w: %v: %s", ErrToolFailed, err, tail), "tool %s", t.cfg.Name)
	}
	return nil, bnerrors.Wrap(bnerrors.ErrCodeToolFailed, fmt.Errorf("%w: %v", ErrToolFailed, err), "tool %s", t.cfg.Name)
}

// args substitutes placeholders in the configured command.
func (t *ExecTool) args(req Request) []string {
	r := strings.NewReplacer(
		PlaceholderNetwork, req.Network,
		PlaceholderMaxSize, strconv.Itoa(req.MaxSize),
		PlaceholderTarget, req.TargetString(),
		PlaceholderExclude, req.ExcludeString(),
		PlaceholderInstance, req.Instance,
	)
	args := make([]string, len(t.cfg.Command))
	for i, a := range t.cfg.Command {
		args[i] = r.Replace(a)
	}
	return args
}

func isOOMMessage(s string) bool {
	return strings.Contains(strings.ToLower(s), "out of memory") || strings.Contains(s, "MemoryError")
}

func tailOf(b []byte) string {
	b = bytes.TrimSpace(b)
	if len(b) > stderrTail {
		b = b[len(b)-stderrTail:]
	}
	return string(b)
}
