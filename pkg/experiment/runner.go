package experiment

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"

	bnerrors "github.com/bntaxonomy/bntaxonomy/pkg/errors"
	"github.com/bntaxonomy/bntaxonomy/pkg/hierarchy"
	"github.com/bntaxonomy/bntaxonomy/pkg/observability"
	"github.com/bntaxonomy/bntaxonomy/pkg/report"
	"github.com/bntaxonomy/bntaxonomy/pkg/store"
	"github.com/bntaxonomy/bntaxonomy/pkg/tools"
)

// ErrNoResultsPath is returned for an instance path outside an
// "instances" tree.
var ErrNoResultsPath = errors.New("instance path has no instances segment")

// Options configures a run.
type Options struct {
	// MaxSize bounds intervention sizes, for tools and for saved results.
	MaxSize int
	// ExcludeTargets adds the target variables to the exclusion list.
	ExcludeTargets bool
	// UsePropagated prefers propagated.bnet over the transition formula.
	UsePropagated bool
	// Formats lists the image formats rendered per instance.
	Formats []string
	// Jobs bounds the number of instances processed concurrently.
	// Tools of one instance always run one after the other.
	Jobs int
	// RetryFailed clears failure markers before running.
	RetryFailed bool
}

// InstanceReport summarizes the run of one instance.
type InstanceReport struct {
	Ref        store.InstanceRef
	ResultsDir string
	// Ran lists the tools that produced a result, Skipped those with a
	// failure marker, Failed those that failed in this run.
	Ran     []string
	Skipped []string
	Failed  []string
	// Instance is rebuilt from every readable result in ResultsDir.
	// Unreadable lists the stored results left out of it.
	Instance   *hierarchy.Instance
	Unreadable []*store.ResultError
	// Files are the exported graph files.
	Files []string
}

// Runner runs tools over instances.
type Runner struct {
	Logger *log.Logger
}

// NewRunner creates a runner. A nil logger selects log.Default().
func NewRunner(logger *log.Logger) *Runner {
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{Logger: logger}
}

// Run processes refs with up to opts.Jobs instances in flight. Instances
// that fail are returned as failures; reports keep the order of refs.
// Only context cancellation aborts the run.
func (r *Runner) Run(ctx context.Context, refs []store.InstanceRef, selected []tools.Tool, opts Options) ([]*InstanceReport, []store.Failure, error) {
	reports := make([]*InstanceReport, len(refs))
	errs := make([]error, len(refs))

	g, gctx := errgroup.WithContext(ctx)
	if opts.Jobs > 0 {
		g.SetLimit(opts.Jobs)
	}
	for i, ref := range refs {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			reports[i], errs[i] = r.RunInstance(gctx, ref, selected, opts)
			if gctx.Err() != nil {
				return gctx.Err()
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}

	var out []*InstanceReport
	var failures []store.Failure
	for i, ref := range refs {
		if errs[i] != nil {
			if errors.Is(errs[i], ErrNoResultsPath) {
				r.Logger.Warn("skipping instance", "path", ref.Path, "reason", errs[i])
			}
			failures = append(failures, store.Failure{Ref: ref, Err: errs[i]})
			continue
		}
		for _, b := range reports[i].Unreadable {
			failures = append(failures, store.Failure{Ref: ref, Algorithm: b.Algorithm, Err: b.Err})
		}
		out = append(out, reports[i])
	}
	return out, failures, nil
}

// RunInstance runs the selected tools on one instance, then rebuilds and
// exports its dominance graph.
func (r *Runner) RunInstance(ctx context.Context, ref store.InstanceRef, selected []tools.Tool, opts Options) (*InstanceReport, error) {
	resultsDir, ok := store.ResultsPath(ref.Path)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNoResultsPath, ref.Path)
	}
	setting, err := store.LoadSetting(ref.Path)
	if err != nil {
		return nil, bnerrors.Wrap(bnerrors.ErrCodeInstanceNotFound, err, "instance %s", ref.Name())
	}
	if opts.RetryFailed {
		if err := store.ClearMarks(resultsDir); err != nil {
			return nil, err
		}
	}

	req := tools.Request{
		Instance: ref.Name(),
		Network:  store.NetworkPath(ref.Path, opts.UsePropagated),
		MaxSize:  opts.MaxSize,
		Target:   setting.TargetIntervention(),
		Exclude:  setting.Exclusion(opts.ExcludeTargets),
	}
	rep := &InstanceReport{Ref: ref, ResultsDir: resultsDir}
	logger := r.Logger.With("instance", ref.Name())

	for _, t := range selected {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		name := t.Name()
		if marked, reason := store.IsMarkedFailed(resultsDir, name); marked {
			logger.Info("skipping known failure", "tool", name, "reason", reason)
			observability.Run().OnToolSkipped(ctx, name, ref.Name(), reason)
			rep.Skipped = append(rep.Skipped, name)
			continue
		}

		n, err := r.runTool(ctx, t, req, resultsDir, opts.MaxSize)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			logger.Warn("tool failed", "tool", name, "err", err)
			rep.Failed = append(rep.Failed, name)
			if reason := markerReason(err); reason != "" {
				if err := store.MarkFailed(resultsDir, name, reason); err != nil {
					return nil, err
				}
			}
			continue
		}
		logger.Debug("tool finished", "tool", name, "controls", n)
		rep.Ran = append(rep.Ran, name)
	}

	inst, bad, err := store.LoadInstance(resultsDir, ref.Name(), ref.Group, opts.MaxSize)
	for _, b := range bad {
		logger.Warn("unreadable result", "tool", b.Algorithm, "err", b.Err)
	}
	rep.Unreadable = bad
	switch {
	case errors.Is(err, fs.ErrNotExist):
		// Nothing ran and nothing was stored before.
		return rep, nil
	case err != nil:
		return nil, err
	}
	rep.Instance = inst
	if len(inst.Algorithms()) == 0 {
		return rep, nil
	}

	files, err := report.ExportInstance(ctx, inst, resultsDir, opts.Formats)
	if err != nil && !errors.Is(err, report.ErrRender) {
		return nil, err
	}
	if err != nil {
		logger.Warn("render failed", "err", err)
	}
	rep.Files = files
	return rep, nil
}

func (r *Runner) runTool(ctx context.Context, t tools.Tool, req tools.Request, dir string, maxSize int) (int, error) {
	hooks := observability.Run()
	hooks.OnToolStart(ctx, t.Name(), req.Instance)
	start := time.Now()

	items, err := t.Run(ctx, req)
	if err != nil {
		hooks.OnToolComplete(ctx, t.Name(), req.Instance, 0, time.Since(start), err)
		return 0, err
	}
	res, err := store.SaveResult(dir, t.Name(), items, maxSize)
	if err != nil {
		err = fmt.Errorf("save %s: %w", t.Name(), err)
		hooks.OnToolComplete(ctx, t.Name(), req.Instance, 0, time.Since(start), err)
		return 0, err
	}
	hooks.OnToolComplete(ctx, t.Name(), req.Instance, res.Len(), time.Since(start), nil)
	return res.Len(), nil
}

// markerReason returns the failure marker content for errors worth
// remembering across runs, or "" for transient ones.
func markerReason(err error) string {
	switch {
	case errors.Is(err, tools.ErrOutOfMemory):
		return "out of memory"
	case errors.Is(err, tools.ErrTimeout):
		return "timeout"
	default:
		return ""
	}
}
