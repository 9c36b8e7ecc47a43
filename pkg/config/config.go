// Package config loads and validates forcegraph settings.
//
// Settings start from [Default]; a TOML or YAML file (chosen by extension)
// overlays them, and command-line flags override the file.
package config

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/matzehuels/forcegraph/pkg/anim"
	"github.com/matzehuels/forcegraph/pkg/errors"
	"github.com/matzehuels/forcegraph/pkg/force"
	"github.com/matzehuels/forcegraph/pkg/interp"
	"github.com/matzehuels/forcegraph/pkg/plot"
)

// Canvas defaults.
const (
	DefaultWidth          = 800
	DefaultHeight         = 600
	DefaultBackground     = "#ffffff"
	DefaultLabelContainer = "forcegraph-label"
	DefaultServerAddr     = ":8080"
)

// Config is the complete visualization configuration.
type Config struct {
	Width          int    `toml:"width" yaml:"width" json:"width"`
	Height         int    `toml:"height" yaml:"height" json:"height"`
	Background     string `toml:"background" yaml:"background" json:"background"`
	LabelContainer string `toml:"label_container" yaml:"label_container" json:"label_container"`

	Node    plot.NodeConfig `toml:"node" yaml:"node" json:"node"`
	Edge    EdgeConfig      `toml:"edge" yaml:"edge" json:"edge"`
	Physics force.Params    `toml:"physics" yaml:"physics" json:"physics"`

	FPS         int      `toml:"fps" yaml:"fps" json:"fps"`
	DurationMS  int      `toml:"duration_ms" yaml:"duration_ms" json:"duration_ms"`
	Transition  string   `toml:"transition" yaml:"transition" json:"transition"`
	ClearCanvas bool     `toml:"clear_canvas" yaml:"clear_canvas" json:"clear_canvas"`
	WithLabels  bool     `toml:"with_labels" yaml:"with_labels" json:"with_labels"`
	Modes       []string `toml:"modes" yaml:"modes" json:"modes"`
	Dedup       string   `toml:"dedup" yaml:"dedup" json:"dedup"`

	Cache  CacheConfig  `toml:"cache" yaml:"cache" json:"cache"`
	Server ServerConfig `toml:"server" yaml:"server" json:"server"`
}

// EdgeConfig adds the spring parameters to the edge styling.
type EdgeConfig struct {
	plot.EdgeConfig `yaml:",inline"`
	NaturalLength   float64 `toml:"natural_length" yaml:"natural_length" json:"natural_length"`
	RestoringForce  float64 `toml:"restoring_force" yaml:"restoring_force" json:"restoring_force"`
}

// CacheConfig selects the layout cache backend.
type CacheConfig struct {
	Backend string `toml:"backend" yaml:"backend" json:"backend"` // file, null, redis, mongo, badger
	Dir     string `toml:"dir" yaml:"dir" json:"dir"`
	URL     string `toml:"url" yaml:"url" json:"url"`
	TTLMin  int    `toml:"ttl_minutes" yaml:"ttl_minutes" json:"ttl_minutes"`
}

// ServerConfig configures the HTTP frame server.
type ServerConfig struct {
	Addr string `toml:"addr" yaml:"addr" json:"addr"`
}

// Cache backend names.
const (
	CacheFile   = "file"
	CacheNull   = "null"
	CacheRedis  = "redis"
	CacheMongo  = "mongo"
	CacheBadger = "badger"
)

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Width:          DefaultWidth,
		Height:         DefaultHeight,
		Background:     DefaultBackground,
		LabelContainer: DefaultLabelContainer,
		Node:           plot.DefaultNodeConfig(),
		Edge: EdgeConfig{
			EdgeConfig:     plot.DefaultEdgeConfig(),
			NaturalLength:  force.DefaultNaturalLength,
			RestoringForce: force.DefaultRestoringForce,
		},
		Physics:     force.DefaultParams(),
		FPS:         anim.DefaultFPS,
		DurationMS:  int(anim.DefaultDuration / time.Millisecond),
		Transition:  interp.DefaultTransition,
		ClearCanvas: true,
		WithLabels:  true,
		Modes:       []string{string(interp.Linear)},
		Dedup:       string(plot.DedupParity),
		Cache:       CacheConfig{Backend: CacheFile, TTLMin: 24 * 60},
		Server:      ServerConfig{Addr: DefaultServerAddr},
	}
}

// Duration returns the animation length.
func (c *Config) Duration() time.Duration {
	return time.Duration(c.DurationMS) * time.Millisecond
}

// CacheTTL returns the cache entry lifetime.
func (c *Config) CacheTTL() time.Duration {
	return time.Duration(c.Cache.TTLMin) * time.Minute
}

// ForceParams merges the edge spring settings into the physics parameters.
func (c *Config) ForceParams() force.Params {
	p := c.Physics
	if c.Edge.NaturalLength != 0 {
		p.NaturalLength = c.Edge.NaturalLength
	}
	if c.Edge.RestoringForce != 0 {
		p.RestoringForce = c.Edge.RestoringForce
	}
	return p
}

// InterpModes returns the configured interpolation modes.
func (c *Config) InterpModes() []interp.Mode { return interp.ParseModes(c.Modes) }

// Validate checks every section.
func (c *Config) Validate() error {
	if c.Width <= 0 || c.Height <= 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "canvas size must be positive, got %dx%d", c.Width, c.Height)
	}
	if c.Background != "" {
		if err := errors.ValidateColor(c.Background); err != nil {
			return err
		}
	}
	if err := c.Node.Validate(); err != nil {
		return err
	}
	if err := c.Edge.Validate(); err != nil {
		return err
	}
	if err := c.ForceParams().Validate(); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfig, err, "physics")
	}
	if c.FPS <= 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "fps must be positive, got %d", c.FPS)
	}
	if c.DurationMS <= 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "duration_ms must be positive, got %d", c.DurationMS)
	}
	if _, err := interp.TransitionByName(c.Transition); err != nil {
		return err
	}
	if err := interp.NewRegistry().Validate(c.InterpModes()); err != nil {
		return err
	}
	if _, err := plot.ParseDedup(c.Dedup); err != nil {
		return err
	}
	switch c.Cache.Backend {
	case "", CacheFile, CacheNull, CacheRedis, CacheMongo, CacheBadger:
	default:
		return errors.New(errors.ErrCodeInvalidConfig, "unknown cache backend %q", c.Cache.Backend)
	}
	return nil
}

// Load reads a config file over the defaults. The format follows the
// extension: .toml, or .yaml/.yml.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "config %s", path)
		}
		return nil, err
	}
	cfg := Default()
	switch format(path) {
	case "toml":
		if err := toml.Unmarshal(data, cfg); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "parse %s", path)
		}
	case "yaml":
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "parse %s", path)
		}
	default:
		return nil, errors.New(errors.ErrCodeInvalidFormat, "unsupported config format %q (use .toml, .yaml or .yml)", filepath.Ext(path))
	}
	return cfg, nil
}

// Save writes cfg in the format given by the path's extension, creating
// parent directories as needed.
func Save(path string, cfg *Config) error {
	var buf bytes.Buffer
	switch format(path) {
	case "toml":
		if err := toml.NewEncoder(&buf).Encode(cfg); err != nil {
			return err
		}
	case "yaml":
		enc := yaml.NewEncoder(&buf)
		enc.SetIndent(2)
		if err := enc.Encode(cfg); err != nil {
			return err
		}
		if err := enc.Close(); err != nil {
			return err
		}
	default:
		return errors.New(errors.ErrCodeInvalidFormat, "unsupported config format %q (use .toml, .yaml or .yml)", filepath.Ext(path))
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(path, buf.Bytes(), 0o644)
}

func format(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		return "toml"
	case ".yaml", ".yml":
		return "yaml"
	}
	return ""
}

// Dir returns the per-user config directory, honouring XDG_CONFIG_HOME.
func Dir() string {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return filepath.Join(dir, "forcegraph")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "forcegraph")
}

// DefaultPath is the config file read when --config is not given.
func DefaultPath() string { return filepath.Join(Dir(), "config.toml") }
