// Package config loads run configuration for bntaxonomy.
//
// A configuration file is TOML (bntaxonomy.toml) or YAML (.yaml/.yml),
// chosen by extension. It holds the run parameters shared by every command
// and the list of external control tools:
//
//	max_size = 3
//	jobs = 4
//	formats = ["png"]
//
//	[cache]
//	dir = "/var/cache/bntaxonomy"
//
//	[[tools]]
//	name = "CABEAN-ITC"
//	command = ["cabean", "-control", "ITC", "-compositional", "2", "{network}"]
//	format = "cabean"
//	timeout = "2h"
//
// Command-line flags override file values; call [Config.SetDefaults] and
// [Config.Validate] after applying them.
package config

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/bntaxonomy/bntaxonomy/pkg/cache"
	bnerrors "github.com/bntaxonomy/bntaxonomy/pkg/errors"
	"github.com/bntaxonomy/bntaxonomy/pkg/hierarchy"
	"github.com/bntaxonomy/bntaxonomy/pkg/report"
	"github.com/bntaxonomy/bntaxonomy/pkg/tools"
)

// DefaultFile is the configuration file looked up in the working directory.
const DefaultFile = "bntaxonomy.toml"

// Default values.
const (
	DefaultMaxSize = 3
	DefaultVacuous = "confirm"
)

// DefaultFormats are the image formats rendered when none are configured.
var DefaultFormats = []string{report.FormatPNG}

// Config is the run configuration.
type Config struct {
	MaxSize        int          `toml:"max_size" yaml:"max_size"`
	ExcludeTargets bool         `toml:"exclude_targets" yaml:"exclude_targets"`
	UsePropagated  bool         `toml:"use_propagated" yaml:"use_propagated"`
	Jobs           int          `toml:"jobs" yaml:"jobs"`
	Formats        []string     `toml:"formats" yaml:"formats"`
	Vacuous        string       `toml:"vacuous" yaml:"vacuous"`
	Cache          CacheConfig  `toml:"cache" yaml:"cache"`
	Tools          []ToolConfig `toml:"tools" yaml:"tools"`
}

// CacheConfig selects the tool-output cache backend.
type CacheConfig struct {
	Dir      string `toml:"dir" yaml:"dir"`
	RedisURL string `toml:"redis_url" yaml:"redis_url"`
	// Scope prefixes keys so several experiments can share one backend.
	Scope    string `toml:"scope" yaml:"scope"`
	Disabled bool   `toml:"disabled" yaml:"disabled"`
}

// ToolConfig declares one external tool.
type ToolConfig struct {
	Name    string   `toml:"name" yaml:"name"`
	Kind    string   `toml:"kind" yaml:"kind"`
	Command []string `toml:"command" yaml:"command"`
	Format  string   `toml:"format" yaml:"format"`
	Timeout string   `toml:"timeout" yaml:"timeout"`
	Env     []string `toml:"env" yaml:"env"`
}

// Load reads a configuration file. The format follows the extension:
// .yaml and .yml are YAML, anything else is TOML.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, bnerrors.Wrap(bnerrors.ErrCodeInvalidConfig, err, "read config")
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return ParseYAML(data)
	default:
		return ParseTOML(data)
	}
}

// LoadOptional loads path when it exists and returns an empty Config otherwise.
func LoadOptional(path string) (*Config, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return &Config{}, nil
	}
	return Load(path)
}

// ParseTOML decodes a TOML document. Unknown keys are rejected.
func ParseTOML(data []byte) (*Config, error) {
	var cfg Config
	md, err := toml.Decode(string(data), &cfg)
	if err != nil {
		return nil, bnerrors.Wrap(bnerrors.ErrCodeInvalidConfig, err, "parse toml")
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return nil, bnerrors.New(bnerrors.ErrCodeInvalidConfig, "unknown config key %q", undecoded[0].String())
	}
	return &cfg, nil
}

// ParseYAML decodes a YAML document. Unknown keys are rejected.
func ParseYAML(data []byte) (*Config, error) {
	var cfg Config
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, bnerrors.Wrap(bnerrors.ErrCodeInvalidConfig, err, "parse yaml")
	}
	return &cfg, nil
}

// SetDefaults fills zero fields.
func (c *Config) SetDefaults() {
	if c.MaxSize == 0 {
		c.MaxSize = DefaultMaxSize
	}
	if c.Jobs == 0 {
		c.Jobs = runtime.NumCPU()
	}
	if c.Formats == nil {
		c.Formats = append([]string(nil), DefaultFormats...)
	}
	if c.Vacuous == "" {
		c.Vacuous = DefaultVacuous
	}
	for i := range c.Tools {
		if c.Tools[i].Format == "" {
			c.Tools[i].Format = tools.FormatJSON
		}
	}
}

// Validate checks every field and returns the first problem as an
// INVALID_CONFIG error.
func (c *Config) Validate() error {
	if c.MaxSize < 0 {
		return bnerrors.New(bnerrors.ErrCodeInvalidConfig, "max_size must not be negative, got %d", c.MaxSize)
	}
	if c.Jobs < 0 {
		return bnerrors.New(bnerrors.ErrCodeInvalidConfig, "jobs must not be negative, got %d", c.Jobs)
	}
	if err := report.ValidateFormats(c.Formats); err != nil {
		return bnerrors.Wrap(bnerrors.ErrCodeInvalidConfig, err, "formats")
	}
	if _, err := hierarchy.ParseVacuousPolicy(c.Vacuous); err != nil {
		return bnerrors.Wrap(bnerrors.ErrCodeInvalidConfig, err, "vacuous")
	}
	if c.Cache.Disabled && c.Cache.RedisURL != "" {
		return bnerrors.New(bnerrors.ErrCodeInvalidConfig, "cache: redis_url set on a disabled cache")
	}

	seen := make(map[string]bool, len(c.Tools))
	for i, t := range c.Tools {
		if err := t.validate(); err != nil {
			return bnerrors.Wrap(bnerrors.ErrCodeInvalidConfig, err, "tools[%d]", i)
		}
		if seen[t.Name] {
			return bnerrors.New(bnerrors.ErrCodeInvalidConfig, "tools[%d]: duplicate tool %q", i, t.Name)
		}
		seen[t.Name] = true
	}
	return nil
}

// VacuousPolicy returns the parsed vacuous policy.
func (c *Config) VacuousPolicy() hierarchy.VacuousPolicy {
	p, _ := hierarchy.ParseVacuousPolicy(c.Vacuous)
	return p
}

func (t ToolConfig) validate() error {
	if err := bnerrors.ValidateAlgorithmName(t.Name); err != nil {
		return err
	}
	if len(t.Command) == 0 {
		return bnerrors.New(bnerrors.ErrCodeInvalidConfig, "tool %s: command is required", t.Name)
	}
	if _, err := tools.ParseKind(t.Kind); err != nil {
		return err
	}
	if _, err := tools.ParserFor(t.Format); err != nil {
		return err
	}
	_, err := t.timeout()
	return err
}

func (t ToolConfig) timeout() (time.Duration, error) {
	if t.Timeout == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(t.Timeout)
	if err != nil {
		return 0, bnerrors.Wrap(bnerrors.ErrCodeInvalidConfig, err, "tool %s: timeout", t.Name)
	}
	if d < 0 {
		return 0, bnerrors.New(bnerrors.ErrCodeInvalidConfig, "tool %s: negative timeout", t.Name)
	}
	return d, nil
}

// Registry builds the tool registry. Every tool memoizes its output in out.
func (c *Config) Registry(out cache.Cache) (*tools.Registry, error) {
	reg, err := tools.NewRegistry()
	if err != nil {
		return nil, err
	}
	for _, tc := range c.Tools {
		kind, err := tools.ParseKind(tc.Kind)
		if err != nil {
			return nil, bnerrors.Wrap(bnerrors.ErrCodeInvalidConfig, err, "tool %s", tc.Name)
		}
		timeout, err := tc.timeout()
		if err != nil {
			return nil, err
		}
		t, err := tools.NewExecTool(tools.ExecConfig{
			Name:    tc.Name,
			Kind:    kind,
			Command: tc.Command,
			Format:  tc.Format,
			Timeout: timeout,
			Cache:   out,
			Env:     tc.Env,
		})
		if err != nil {
			return nil, err
		}
		if err := reg.Register(t); err != nil {
			return nil, bnerrors.Wrap(bnerrors.ErrCodeInvalidConfig, err, "tool %s", tc.Name)
		}
	}
	return reg, nil
}

// OpenCache opens the configured cache backend: nothing when disabled,
// Redis when a URL is set, a directory otherwise. A scope wraps the
// backend in [cache.Scoped].
func (c *Config) OpenCache(ctx context.Context) (cache.Cache, error) {
	if c.Cache.Disabled {
		return cache.NewNullCache(), nil
	}

	var backend cache.Cache
	if c.Cache.RedisURL != "" {
		rc, err := cache.NewRedisCache(ctx, c.Cache.RedisURL)
		if err != nil {
			return nil, bnerrors.Wrap(bnerrors.ErrCodeInvalidConfig, err, "open redis cache")
		}
		backend = rc
	} else {
		dir, err := c.CacheDir()
		if err != nil {
			return nil, err
		}
		fc, err := cache.NewFileCache(dir)
		if err != nil {
			return nil, bnerrors.Wrap(bnerrors.ErrCodeInvalidPath, err, "open cache directory")
		}
		backend = fc
	}

	if c.Cache.Scope != "" {
		return cache.NewScoped(backend, c.Cache.Scope+":"), nil
	}
	return backend, nil
}

// CacheDir returns the file cache directory: the configured one, or
// bntaxonomy under the user cache directory.
func (c *Config) CacheDir() (string, error) {
	if c.Cache.Dir != "" {
		return c.Cache.Dir, nil
	}
	base, err := os.UserCacheDir()
	if err != nil {
		return "", bnerrors.Wrap(bnerrors.ErrCodeInvalidConfig, err, "locate cache directory")
	}
	return filepath.Join(base, "bntaxonomy"), nil
}
