package cli

import (
	"fmt"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/bntaxonomy/bntaxonomy/pkg/cache"
	"github.com/bntaxonomy/bntaxonomy/pkg/config"
)

func (c *CLI) toolsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "tools [PATTERN...]",
		Short: "List the configured tools",
		Long: `List the tools declared in the configuration file. Patterns select tools the
same way run --tools does: exact names first, then glob patterns.`,
		Example: `  bntaxonomy tools
  bntaxonomy tools 'pyboolnet*'`,
		ValidArgsFunction: c.completeToolNames,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig(cmd)
			if err != nil {
				return err
			}
			cfg.SetDefaults()
			if err := cfg.Validate(); err != nil {
				return err
			}
			reg, err := cfg.Registry(cache.NewNullCache())
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if reg.Len() == 0 {
				printInfo(out, "No tools configured in %s", c.configPath)
				return nil
			}
			selected, err := reg.Select(args)
			if err != nil {
				return err
			}

			byName := make(map[string]config.ToolConfig, len(cfg.Tools))
			for _, t := range cfg.Tools {
				byName[t.Name] = t
			}
			var rows [][]string
			for _, t := range selected {
				tc := byName[t.Name()]
				timeout := tc.Timeout
				if timeout == "" {
					timeout = "-"
				}
				rows = append(rows, []string{t.Name(), t.Kind().String(), tc.Format, timeout, strings.Join(tc.Command, " ")})
			}
			slices.SortFunc(rows, func(a, b []string) int { return strings.Compare(a[0], b[0]) })

			fmt.Fprintln(out, renderTable([]string{"Tool", "Kind", "Format", "Timeout", "Command"}, rows, nil))
			printDetail(out, "%d of %d tools", len(rows), reg.Len())
			return nil
		},
	}
}
