package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"path/filepath"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/bntaxonomy/bntaxonomy/pkg/config"
	bnerrors "github.com/bntaxonomy/bntaxonomy/pkg/errors"
	"github.com/bntaxonomy/bntaxonomy/pkg/hierarchy"
	"github.com/bntaxonomy/bntaxonomy/pkg/report"
	"github.com/bntaxonomy/bntaxonomy/pkg/store"
)

const (
	hierarchyName    = "Hierarchy"
	defaultOutputDir = "experiments/results"
)

// sourceOptions selects the stored results a hierarchy is built from.
type sourceOptions struct {
	groups    []string
	instances []string
	maxSize   int
	jobs      int
	vacuous   string
}

func (o *sourceOptions) register(cmd *cobra.Command) {
	cmd.Flags().StringArrayVarP(&o.groups, "group", "g", nil, "instance or results group directory (repeatable)")
	cmd.Flags().StringArrayVarP(&o.instances, "instance", "i", nil, "single instance or results directory (repeatable)")
	cmd.Flags().IntVar(&o.maxSize, "max-size", 0, "re-apply a size cap when loading results (default: as stored)")
	cmd.Flags().IntVarP(&o.jobs, "jobs", "j", 0, "parallel workers (default: number of CPUs)")
	cmd.Flags().StringVar(&o.vacuous, "vacuous", "", "policy for pairs never evaluated jointly: confirm or untested")
}

type summarizeOptions struct {
	source      sourceOptions
	output      string
	formats     string
	labels      string
	counts      bool
	table       bool
	interactive bool
}

func (c *CLI) summarizeCommand() *cobra.Command {
	var opts summarizeOptions

	cmd := &cobra.Command{
		Use:   "summarize",
		Short: "Aggregate stored results into the dominance hierarchy",
		Long: `Load the results of every instance, aggregate them into the dominance
hierarchy and write the summary reports: _summary.dot, the transitively
reduced _summary.reduced.dot and its image, _summary.json, the conflict
matrices (CSV and LaTeX), counterexample_group_list.json and count_control.csv.

Groups under an "instances" tree are read from the mirrored "results" tree.
Without groups or instances, every group under experiments/instances is
summarized, in reverse name order.`,
		Example: `  bntaxonomy summarize
  bntaxonomy summarize -g experiments/instances/bbm -g experiments/instances/ginsim --table
  bntaxonomy summarize --interactive`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig(cmd)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("formats") {
				cfg.Formats = parseFormats(opts.formats)
			}
			if cmd.Flags().Changed("jobs") {
				cfg.Jobs = opts.source.jobs
			}
			if opts.source.vacuous != "" {
				cfg.Vacuous = opts.source.vacuous
			}
			cfg.SetDefaults()
			if err := cfg.Validate(); err != nil {
				return err
			}
			if opts.labels != "names" && opts.labels != "groups" {
				return bnerrors.New(bnerrors.ErrCodeInvalidInput, "--labels must be names or groups, got %q", opts.labels)
			}
			return c.summarize(cmd, cfg, opts)
		},
	}

	opts.source.register(cmd)
	cmd.Flags().StringVarP(&opts.output, "output", "o", defaultOutputDir, "directory for the summary reports")
	cmd.Flags().StringVar(&opts.formats, "formats", "", "summary image formats: png, svg or none")
	cmd.Flags().StringVar(&opts.labels, "labels", "groups", "instance labels in reports: groups (A1, B2, ...) or names")
	cmd.Flags().BoolVar(&opts.counts, "counts", false, "print counterexample counts instead of instance lists")
	cmd.Flags().BoolVar(&opts.table, "table", false, "print the conflict matrix")
	cmd.Flags().BoolVar(&opts.interactive, "interactive", false, "browse counterexamples in the terminal")
	_ = cmd.RegisterFlagCompletionFunc("formats", completeFormats)
	_ = cmd.RegisterFlagCompletionFunc("labels", cobra.FixedCompletions([]string{"groups", "names"}, cobra.ShellCompDirectiveNoFileComp))

	return cmd
}

func (c *CLI) summarize(cmd *cobra.Command, cfg *config.Config, opts summarizeOptions) error {
	ctx := cmd.Context()
	out := cmd.OutOrStdout()

	h, unreadable, err := c.buildHierarchy(ctx, cfg, opts.source)
	if err != nil {
		return err
	}

	label := report.NameLabels
	if opts.labels == "groups" {
		label = report.GroupLabels(h)
	}

	if opts.interactive {
		_, err := tea.NewProgram(newBrowseModel(h, label)).Run()
		return err
	}

	printCounterexamples(out, h, label, opts.counts)
	if opts.table {
		fmt.Fprintln(out, conflictTable(h, label))
	}

	prog := newProgress(c.Logger)
	files, err := report.Export(ctx, h, opts.output, report.ExportOptions{Labels: label, Formats: cfg.Formats})
	if err != nil && !errors.Is(err, report.ErrRender) {
		return err
	}
	if err != nil {
		printWarning(out, "rendering failed, data files were written: %v", err)
	}
	prog.done(fmt.Sprintf("Wrote %d summary files", len(files)))
	for _, f := range files {
		printFile(out, f)
	}
	for _, f := range unreadable {
		printWarning(out, "%s", f.Error())
	}
	return nil
}

// buildHierarchy resolves the result directories, loads them and aggregates.
// It returns the results that exist but could not be read; instances without
// any results are only logged.
func (c *CLI) buildHierarchy(ctx context.Context, cfg *config.Config, opts sourceOptions) (*hierarchy.Hierarchy, []store.Failure, error) {
	refs, err := resolveSources(opts.groups, opts.instances)
	if err != nil {
		return nil, nil, err
	}

	prog := newProgress(c.Logger)
	instances, failures, err := store.LoadInstances(ctx, refs, opts.maxSize, cfg.Jobs)
	if err != nil {
		return nil, nil, err
	}
	var unreadable []store.Failure
	for _, f := range failures {
		switch {
		case f.Algorithm != "":
			c.Logger.Warn("unreadable result", "instance", f.Ref.Name(), "algorithm", f.Algorithm, "err", f.Err)
			unreadable = append(unreadable, f)
		case errors.Is(f.Err, fs.ErrNotExist):
			c.Logger.Info("no results", "instance", f.Ref.Name())
		default:
			c.Logger.Warn("unreadable instance", "instance", f.Ref.Name(), "err", f.Err)
			unreadable = append(unreadable, f)
		}
	}
	prog.done(fmt.Sprintf("Loaded %d instances", len(instances)))

	installHooks(c.Logger)
	prog = newProgress(c.Logger)
	h, err := hierarchy.Build(ctx, hierarchyName, instances,
		hierarchy.WithWorkers(cfg.Jobs),
		hierarchy.WithVacuousPolicy(cfg.VacuousPolicy()))
	if err != nil {
		return nil, nil, err
	}
	prog.done(fmt.Sprintf("Built hierarchy of %d algorithms", len(h.Algorithms())))
	return h, unreadable, nil
}

// resolveSources maps instance paths to result paths. Paths outside an
// "instances" tree are taken as result paths already.
func resolveSources(groups, instances []string) ([]store.InstanceRef, error) {
	if len(groups) == 0 && len(instances) == 0 {
		defaults, err := store.ListGroups(defaultInstanceRoot)
		if err != nil {
			return nil, err
		}
		if len(defaults) == 0 {
			return nil, bnerrors.New(bnerrors.ErrCodeInvalidPath, "no instance groups found in %s", defaultInstanceRoot)
		}
		groups = defaults
	}

	resultsGroups := make([]string, len(groups))
	for i, g := range groups {
		resultsGroups[i] = toResults(g)
	}
	refs, err := store.ExpandGroups(resultsGroups)
	if err != nil {
		return nil, err
	}
	for _, p := range instances {
		refs = append(refs, store.NewInstanceRef(toResults(p)))
	}
	return refs, nil
}

func toResults(path string) string {
	if p, ok := store.ResultsPath(path); ok {
		return p
	}
	return filepath.Clean(path)
}

// printCounterexamples prints one line per refuted pair, either
// "A -> B: [A1, B4]" or, with counts set, "A -> B: 2 of 5".
func printCounterexamples(w io.Writer, h *hierarchy.Hierarchy, label report.Labeler, counts bool) {
	edges := h.CounterexampleEdges()
	if len(edges) == 0 {
		printSuccess(w, "No counterexamples")
		return
	}
	for _, e := range edges {
		insts := h.Counterexamples(e.From, e.To)
		if counts {
			fmt.Fprintf(w, "%s: %d of %d\n", e, len(insts), h.Support(e.From, e.To))
			continue
		}
		names := make([]string, len(insts))
		for i, inst := range insts {
			names[i] = label(inst)
		}
		fmt.Fprintf(w, "%s: [%s]\n", e, strings.Join(names, ", "))
	}
}

// conflictTable renders the first-match conflict matrix.
func conflictTable(h *hierarchy.Hierarchy, label report.Labeler) string {
	m := report.NewMatrix(h, label)
	rows := m.Rows(false)
	return renderTable(rows[0], rows[1:], func(row, col int) bool {
		return row+1 < len(rows) && col < len(rows[row+1]) && rows[row+1][col] != ""
	})
}
