package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/bntaxonomy/bntaxonomy/pkg/cache"
	"github.com/bntaxonomy/bntaxonomy/pkg/config"
	bnerrors "github.com/bntaxonomy/bntaxonomy/pkg/errors"
	"github.com/bntaxonomy/bntaxonomy/pkg/experiment"
	"github.com/bntaxonomy/bntaxonomy/pkg/store"
)

type runOptions struct {
	groups         []string
	instances      []string
	tools          []string
	jobs           int
	formats        string
	excludeTargets bool
	usePropagated  bool
	clearCache     bool
}

func (c *CLI) runCommand() *cobra.Command {
	var opts runOptions

	cmd := &cobra.Command{
		Use:   "run [MAX_SIZE]",
		Short: "Run control tools over instances",
		Long: `Run the configured control tools on every instance of the given groups.

Each instance directory under an "instances" tree holds setting.json and
transition_formula.bnet. Results are written to the mirrored "results" tree,
one <tool>.json (minimal, size-capped) and <tool>.full.json per tool, followed
by the instance dominance graph _graph.dot.`,
		Example: `  bntaxonomy run 3 -g experiments/instances/bbm
  bntaxonomy run -i experiments/instances/bbm/001 --tools 'BoNesis*' --tools CABEAN-ITC`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig(cmd)
			if err != nil {
				return err
			}
			if len(args) == 1 {
				n, err := strconv.Atoi(args[0])
				if err != nil {
					return bnerrors.New(bnerrors.ErrCodeInvalidInput, "max size must be an integer: %q", args[0])
				}
				cfg.MaxSize = n
			}
			applyRunFlags(cmd, cfg, opts)
			cfg.SetDefaults()
			if err := cfg.Validate(); err != nil {
				return err
			}
			return c.run(cmd, cfg, opts)
		},
	}

	cmd.Flags().StringArrayVarP(&opts.groups, "group", "g", nil, "instance group directory (repeatable)")
	cmd.Flags().StringArrayVarP(&opts.instances, "instance", "i", nil, "single instance directory (repeatable)")
	cmd.Flags().StringArrayVarP(&opts.tools, "tools", "t", nil, "tool name or glob to run (repeatable, default: all)")
	cmd.Flags().IntVarP(&opts.jobs, "jobs", "j", 0, "instances processed concurrently (default: number of CPUs)")
	cmd.Flags().StringVar(&opts.formats, "formats", "", "graph image formats: png, svg or none")
	cmd.Flags().BoolVar(&opts.excludeTargets, "exclude-targets", false, "never perturb target variables")
	cmd.Flags().BoolVar(&opts.usePropagated, "use-propagated", false, "prefer propagated.bnet when present")
	cmd.Flags().BoolVar(&opts.clearCache, "clear-cache", false, "drop cached tool outputs and retry known failures")
	_ = cmd.RegisterFlagCompletionFunc("tools", c.completeToolNames)
	_ = cmd.RegisterFlagCompletionFunc("formats", completeFormats)

	return cmd
}

func applyRunFlags(cmd *cobra.Command, cfg *config.Config, opts runOptions) {
	flags := cmd.Flags()
	if flags.Changed("jobs") {
		cfg.Jobs = opts.jobs
	}
	if flags.Changed("formats") {
		cfg.Formats = parseFormats(opts.formats)
	}
	if flags.Changed("exclude-targets") {
		cfg.ExcludeTargets = opts.excludeTargets
	}
	if flags.Changed("use-propagated") {
		cfg.UsePropagated = opts.usePropagated
	}
}

func (c *CLI) run(cmd *cobra.Command, cfg *config.Config, opts runOptions) error {
	ctx := cmd.Context()
	out := cmd.OutOrStdout()

	refs, err := store.ExpandGroups(opts.groups)
	if err != nil {
		return err
	}
	for _, p := range opts.instances {
		refs = append(refs, store.NewInstanceRef(p))
	}
	if len(refs) == 0 {
		return bnerrors.New(bnerrors.ErrCodeInvalidInput, "no instances given (use --group or --instance)")
	}

	cc, err := c.openCache(ctx, cfg)
	if err != nil {
		return err
	}
	defer cc.Close()

	if opts.clearCache {
		if ok, err := cache.Clear(ctx, cc); err != nil {
			return fmt.Errorf("clear cache: %w", err)
		} else if ok {
			c.Logger.Info("Cleared tool-output cache")
		}
	}

	reg, err := cfg.Registry(cc)
	if err != nil {
		return err
	}
	if reg.Len() == 0 {
		return bnerrors.New(bnerrors.ErrCodeInvalidConfig, "no tools configured in %s", c.configPath)
	}
	selected, err := reg.Select(opts.tools)
	if err != nil {
		return err
	}

	installHooks(c.Logger)
	prog := newProgress(c.Logger)
	runner := experiment.NewRunner(c.Logger)
	reports, failures, err := runner.Run(ctx, refs, selected, experiment.Options{
		MaxSize:        cfg.MaxSize,
		ExcludeTargets: cfg.ExcludeTargets,
		UsePropagated:  cfg.UsePropagated,
		Formats:        cfg.Formats,
		Jobs:           cfg.Jobs,
		RetryFailed:    opts.clearCache,
	})
	if err != nil {
		return err
	}
	prog.done(fmt.Sprintf("Ran %d tools on %d instances", len(selected), len(reports)))

	for _, rep := range reports {
		printSuccess(out, "%s: %d ran, %d failed, %d skipped", rep.Ref.Name(), len(rep.Ran), len(rep.Failed), len(rep.Skipped))
		for _, name := range rep.Failed {
			printDetail(out, "failed: %s", name)
		}
		for _, f := range rep.Files {
			printFile(out, f)
		}
	}
	for _, f := range failures {
		printWarning(out, "%s", f.Error())
	}
	return nil
}
