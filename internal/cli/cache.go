package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/bntaxonomy/bntaxonomy/pkg/cache"
)

// cacheCommand creates the cache management command.
func (c *CLI) cacheCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage the tool-output cache",
	}

	cmd.AddCommand(c.cacheClearCommand())
	cmd.AddCommand(c.cachePathCommand())

	return cmd
}

// cacheClearCommand creates the "cache clear" subcommand.
func (c *CLI) cacheClearCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Drop all cached tool outputs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig(cmd)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if cfg.Cache.Disabled {
				printInfo(out, "Cache is disabled")
				return nil
			}
			cc, err := c.openCache(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			defer cc.Close()

			cleared, err := cache.Clear(cmd.Context(), cc)
			if err != nil {
				return err
			}
			if !cleared {
				printWarning(out, "This cache backend cannot be cleared")
				return nil
			}
			printSuccess(out, "Cleared tool-output cache")
			if cfg.Cache.RedisURL == "" {
				dir, _ := cfg.CacheDir()
				printDetail(out, "Directory: %s", dir)
			}
			return nil
		},
	}
}

// cachePathCommand creates the "cache path" subcommand.
func (c *CLI) cachePathCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print the file cache directory",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig(cmd)
			if err != nil {
				return err
			}
			dir, err := cfg.CacheDir()
			if err != nil {
				return fmt.Errorf("get cache dir: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), dir)
			return nil
		},
	}
}
