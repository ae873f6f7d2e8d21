package cli

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/bntaxonomy/bntaxonomy/pkg/cache"
	"github.com/bntaxonomy/bntaxonomy/pkg/report"
)

// completionCommand creates the completion command for generating shell completions.
func (c *CLI) completionCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "completion [bash|zsh|fish|powershell]",
		Short: "Generate shell completion scripts",
		Long: `Generate shell completion scripts for bntaxonomy.

To load completions:

Bash:
  $ source <(bntaxonomy completion bash)

  # To load completions for each session, execute once:
  # Linux:
  $ bntaxonomy completion bash > /etc/bash_completion.d/bntaxonomy
  # macOS:
  $ bntaxonomy completion bash > $(brew --prefix)/etc/bash_completion.d/bntaxonomy

Zsh:
  # If shell completion is not already enabled in your environment,
  # you will need to enable it. You can execute the following once:
  $ echo "autoload -U compinit; compinit" >> ~/.zshrc

  # To load completions for each session, execute once:
  $ bntaxonomy completion zsh > "${fpath[1]}/_bntaxonomy"

  # You will need to start a new shell for this setup to take effect.

Fish:
  $ bntaxonomy completion fish | source

  # To load completions for each session, execute once:
  $ bntaxonomy completion fish > ~/.config/fish/completions/bntaxonomy.fish

PowerShell:
  PS> bntaxonomy completion powershell | Out-String | Invoke-Expression

  # To load completions for every new session, run:
  PS> bntaxonomy completion powershell > bntaxonomy.ps1
  # and source this file from your PowerShell profile.
`,
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			switch args[0] {
			case "bash":
				return cmd.Root().GenBashCompletion(cmd.OutOrStdout())
			case "zsh":
				return cmd.Root().GenZshCompletion(cmd.OutOrStdout())
			case "fish":
				return cmd.Root().GenFishCompletion(cmd.OutOrStdout(), true)
			case "powershell":
				return cmd.Root().GenPowerShellCompletionWithDesc(cmd.OutOrStdout())
			}
			return nil
		},
	}

	return cmd
}

// completeToolNames suggests the tools of the loaded configuration, each
// described by its output format. A configuration that does not load
// yields no suggestions.
func (c *CLI) completeToolNames(cmd *cobra.Command, _ []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	cfg, err := c.loadConfig(cmd)
	if err != nil {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	cfg.SetDefaults()
	reg, err := cfg.Registry(cache.NewNullCache())
	if err != nil {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	formats := make(map[string]string, len(cfg.Tools))
	for _, t := range cfg.Tools {
		formats[t.Name] = t.Format
	}
	var names []string
	for _, name := range reg.Names() {
		if strings.HasPrefix(name, toComplete) {
			names = append(names, name+"\t"+formats[name])
		}
	}
	return names, cobra.ShellCompDirectiveNoFileComp
}

var completeFormats = cobra.FixedCompletions(
	[]string{report.FormatPNG, report.FormatSVG, "none"},
	cobra.ShellCompDirectiveNoFileComp,
)
