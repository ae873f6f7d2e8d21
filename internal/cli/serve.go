package cli

import (
	"github.com/spf13/cobra"

	bnerrors "github.com/bntaxonomy/bntaxonomy/pkg/errors"
	"github.com/bntaxonomy/bntaxonomy/pkg/report"
	"github.com/bntaxonomy/bntaxonomy/pkg/server"
)

func (c *CLI) serveCommand() *cobra.Command {
	var (
		source sourceOptions
		addr   string
		labels string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve a hierarchy over HTTP",
		Long: `Aggregate stored results like summarize does and serve the hierarchy as
JSON, CSV, LaTeX, DOT and SVG until interrupted.`,
		Example: `  bntaxonomy serve --addr :8080
  curl localhost:8080/verdict/mtsnf/pystablemotifs`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig(cmd)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("jobs") {
				cfg.Jobs = source.jobs
			}
			if source.vacuous != "" {
				cfg.Vacuous = source.vacuous
			}
			cfg.SetDefaults()
			if err := cfg.Validate(); err != nil {
				return err
			}
			if labels != "names" && labels != "groups" {
				return bnerrors.New(bnerrors.ErrCodeInvalidInput, "--labels must be names or groups, got %q", labels)
			}

			h, _, err := c.buildHierarchy(cmd.Context(), cfg, source)
			if err != nil {
				return err
			}
			label := report.NameLabels
			if labels == "groups" {
				label = report.GroupLabels(h)
			}

			srv := server.New(h, server.WithLabels(label), server.WithLogger(c.Logger))
			c.Logger.Info("serving hierarchy", "addr", addr, "algorithms", len(h.Algorithms()), "instances", len(h.Instances()))
			return srv.ListenAndServe(cmd.Context(), addr)
		},
	}

	source.register(cmd)
	cmd.Flags().StringVar(&addr, "addr", ":8080", "listen address")
	cmd.Flags().StringVar(&labels, "labels", "groups", "instance labels: groups (A1, B2, ...) or names")
	return cmd
}
