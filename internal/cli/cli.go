// Package cli implements the bntaxonomy command-line interface.
//
// # Commands
//
//   - run: run control tools over instance groups and store their results
//   - summarize: aggregate stored results into the dominance hierarchy and
//     write the summary reports
//   - compare: decide dominance between two result files
//   - tools: list the configured tools
//   - serve: serve a hierarchy over HTTP
//   - cache: manage the tool-output cache
//
// # Configuration
//
// Run parameters and tools come from bntaxonomy.toml (or --config, TOML or
// YAML). Flags override file values.
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging.
package cli

import (
	"context"
	"io"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/bntaxonomy/bntaxonomy/pkg/buildinfo"
	"github.com/bntaxonomy/bntaxonomy/pkg/cache"
	"github.com/bntaxonomy/bntaxonomy/pkg/config"
)

const appName = "bntaxonomy"

// defaultInstanceRoot holds the instance groups used when none are given.
const defaultInstanceRoot = "experiments/instances"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	configPath string
	redisURL   string
	noCache    bool
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level)}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   appName,
		Short: "bntaxonomy compares Boolean network control tools",
		Long: `bntaxonomy runs control tools for Boolean networks over benchmark instances
and organizes them into a dominance hierarchy: an edge A -> B means that on
every instance where both succeeded, B found a smaller or equal control for
each control of A.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVarP(&c.configPath, "config", "c", config.DefaultFile, "configuration file (TOML or YAML)")
	root.PersistentFlags().StringVar(&c.redisURL, "redis-url", "", "share the tool-output cache through Redis")
	root.PersistentFlags().BoolVar(&c.noCache, "no-cache", false, "disable the tool-output cache")

	root.AddCommand(c.runCommand())
	root.AddCommand(c.summarizeCommand())
	root.AddCommand(c.compareCommand())
	root.AddCommand(c.toolsCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// loadConfig reads the configuration file (a missing default file is not an
// error) and applies the persistent cache flags. Callers apply their own
// flag overrides, then call SetDefaults and Validate.
func (c *CLI) loadConfig(cmd *cobra.Command) (*config.Config, error) {
	var (
		cfg *config.Config
		err error
	)
	if cmd.Flags().Changed("config") {
		cfg, err = config.Load(c.configPath)
	} else {
		cfg, err = config.LoadOptional(c.configPath)
	}
	if err != nil {
		return nil, err
	}
	if c.redisURL != "" {
		cfg.Cache.RedisURL = c.redisURL
	}
	if c.noCache {
		cfg.Cache.Disabled = true
		cfg.Cache.RedisURL = ""
	}
	return cfg, nil
}

// openCache opens the configured cache backend.
func (c *CLI) openCache(ctx context.Context, cfg *config.Config) (cache.Cache, error) {
	cc, err := cfg.OpenCache(ctx)
	if err != nil {
		return nil, err
	}
	switch {
	case cfg.Cache.Disabled:
		c.Logger.Debug("tool-output cache disabled")
	case cfg.Cache.RedisURL != "":
		c.Logger.Debug("using redis cache")
	default:
		dir, _ := cfg.CacheDir()
		c.Logger.Debug("using file cache", "dir", dir)
	}
	return cc, nil
}

// parseFormats parses a comma-separated format list. "none" disables
// rendering.
func parseFormats(s string) []string {
	if s == "" || s == "none" {
		return []string{}
	}
	return strings.Split(s, ",")
}
