// Package config loads jsongraph settings.
//
// Settings come from four layers, later ones winning: built-in defaults,
// a TOML file, the process environment (after loading an optional .env
// file), and command-line flags applied by the caller.
//
// The file lives at $XDG_CONFIG_HOME/jsongraph/config.toml (falling back
// to ~/.config/jsongraph/config.toml) unless JSONGRAPH_CONFIG names
// another path:
//
//	[layout]
//	engine = "layered"
//	direction = "down"
//
//	[search]
//	mode = "path"
//
//	[cache]
//	ttl = "24h"
//	redis_addr = "localhost:6379"
//
//	[server]
//	addr = ":8080"
//
//	[log]
//	level = "debug"
package config

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/charmbracelet/log"
	"github.com/joho/godotenv"

	"github.com/matzehuels/jsongraph/pkg/errors"
	"github.com/matzehuels/jsongraph/pkg/layout"
	"github.com/matzehuels/jsongraph/pkg/search"
)

const appName = "jsongraph"

// EnvPrefix prefixes every environment override.
const EnvPrefix = "JSONGRAPH_"

// Duration is a time.Duration written as a Go duration string ("90s").
type Duration time.Duration

// MarshalText implements encoding.TextMarshaler.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(time.Duration(d).String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Duration) UnmarshalText(b []byte) error {
	v, err := time.ParseDuration(strings.TrimSpace(string(b)))
	if err != nil {
		return err
	}
	*d = Duration(v)
	return nil
}

// Config is the complete configuration.
type Config struct {
	Layout LayoutConfig `toml:"layout"`
	Search SearchConfig `toml:"search"`
	Cache  CacheConfig  `toml:"cache"`
	Server ServerConfig `toml:"server"`
	Log    LogConfig    `toml:"log"`
}

// LayoutConfig selects the engine and its directives.
type LayoutConfig struct {
	Engine       string   `toml:"engine"`
	Direction    string   `toml:"direction"`
	LayerSpacing float64  `toml:"layer_spacing"`
	NodeSpacing  float64  `toml:"node_spacing"`
	NodeWidth    float64  `toml:"node_width"`
	NodeHeight   float64  `toml:"node_height"`
	Timeout      Duration `toml:"timeout"`
}

type SearchConfig struct {
	Mode string  `toml:"mode"`
	Zoom float64 `toml:"zoom"`
}

// CacheConfig configures the layout cache. A non-empty RedisAddr selects
// Redis; otherwise entries are files under Dir.
type CacheConfig struct {
	Disabled      bool     `toml:"disabled"`
	Dir           string   `toml:"dir"`
	TTL           Duration `toml:"ttl"`
	RedisAddr     string   `toml:"redis_addr"`
	RedisPassword string   `toml:"redis_password"`
	RedisDB       int      `toml:"redis_db"`
	RedisPrefix   string   `toml:"redis_prefix"`
}

type ServerConfig struct {
	Addr         string   `toml:"addr"`
	SessionTTL   Duration `toml:"session_ttl"`
	SweepEvery   Duration `toml:"sweep_every"`
	MaxBodyBytes int64    `toml:"max_body_bytes"`
}

type LogConfig struct {
	Level string `toml:"level"`
}

// Default returns the built-in configuration.
func Default() Config {
	d := layout.DefaultDirectives()
	return Config{
		Layout: LayoutConfig{
			Engine:       layout.EngineLayered,
			Direction:    string(d.Direction),
			LayerSpacing: d.LayerSpacing,
			NodeSpacing:  d.NodeSpacing,
			NodeWidth:    d.NodeWidth,
			NodeHeight:   d.NodeHeight,
			Timeout:      Duration(30 * time.Second),
		},
		Search: SearchConfig{
			Mode: search.ModePath.String(),
			Zoom: search.DefaultZoom,
		},
		Cache: CacheConfig{
			Dir: defaultCacheDir(),
			TTL: Duration(24 * time.Hour),
		},
		Server: ServerConfig{
			Addr:         ":8080",
			SessionTTL:   Duration(30 * time.Minute),
			SweepEvery:   Duration(time.Minute),
			MaxBodyBytes: 10 << 20,
		},
		Log: LogConfig{Level: "info"},
	}
}

// Path returns the config file location.
func Path() (string, error) {
	if p := os.Getenv(EnvPrefix + "CONFIG"); p != "" {
		return p, nil
	}
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return filepath.Join(dir, appName, "config.toml"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", appName, "config.toml"), nil
}

func defaultCacheDir() string {
	if dir := os.Getenv("XDG_CACHE_HOME"); dir != "" {
		return filepath.Join(dir, appName)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(os.TempDir(), appName)
	}
	return filepath.Join(home, ".cache", appName)
}

// Load builds the effective configuration. An empty path uses Path and
// tolerates a missing file; an explicit path must exist. Environment
// overrides are applied and the result is validated.
func Load(path string) (Config, error) {
	cfg := Default()

	explicit := path != ""
	if !explicit {
		p, err := Path()
		if err != nil {
			return cfg, errors.Wrap(errors.ErrCodeInvalidConfig, err, "locate config file")
		}
		path = p
	}

	if err := cfg.readFile(path); err != nil {
		if !os.IsNotExist(err) {
			return cfg, err
		}
		if explicit {
			return cfg, errors.New(errors.ErrCodeFileNotFound, "config file not found: %s", path)
		}
	}

	if err := cfg.ApplyEnv(os.LookupEnv); err != nil {
		return cfg, err
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func (c *Config) readFile(path string) error {
	if _, err := os.Stat(path); err != nil {
		return err
	}
	md, err := toml.DecodeFile(path, c)
	if err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfig, err, "parse %s", path)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return errors.New(errors.ErrCodeInvalidConfig, "unknown keys in %s: %s", path, strings.Join(keys, ", "))
	}
	return nil
}

// LoadDotEnv loads files (default ".env") into the environment without
// overriding variables that are already set. Missing files are ignored.
func LoadDotEnv(files ...string) error {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if err := godotenv.Load(f); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("load %s: %w", f, err)
		}
	}
	return nil
}

// ApplyEnv overrides fields from JSONGRAPH_* variables found by lookup.
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) error {
	str := func(name string, dst *string) {
		if v, ok := lookup(EnvPrefix + name); ok {
			*dst = v
		}
	}
	var firstErr error
	fail := func(name string, err error) {
		if firstErr == nil {
			firstErr = errors.Wrap(errors.ErrCodeInvalidConfig, err, "%s%s", EnvPrefix, name)
		}
	}
	dur := func(name string, dst *Duration) {
		if v, ok := lookup(EnvPrefix + name); ok {
			if err := dst.UnmarshalText([]byte(v)); err != nil {
				fail(name, err)
			}
		}
	}

	str("ENGINE", &c.Layout.Engine)
	str("DIRECTION", &c.Layout.Direction)
	dur("LAYOUT_TIMEOUT", &c.Layout.Timeout)
	str("SEARCH_MODE", &c.Search.Mode)
	str("CACHE_DIR", &c.Cache.Dir)
	dur("CACHE_TTL", &c.Cache.TTL)
	if v, ok := lookup(EnvPrefix + "NO_CACHE"); ok {
		b, err := strconv.ParseBool(v)
		if err != nil {
			fail("NO_CACHE", err)
		}
		c.Cache.Disabled = b
	}
	str("REDIS_ADDR", &c.Cache.RedisAddr)
	str("REDIS_PASSWORD", &c.Cache.RedisPassword)
	if v, ok := lookup(EnvPrefix + "REDIS_DB"); ok {
		n, err := strconv.Atoi(v)
		if err != nil {
			fail("REDIS_DB", err)
		}
		c.Cache.RedisDB = n
	}
	str("ADDR", &c.Server.Addr)
	dur("SESSION_TTL", &c.Server.SessionTTL)
	str("LOG_LEVEL", &c.Log.Level)
	return firstErr
}

// Validate checks enumerations and ranges.
func (c Config) Validate() error {
	if _, err := layout.NewEngine(c.Layout.Engine); err != nil {
		return err
	}
	if _, err := layout.ParseDirection(c.Layout.Direction); err != nil {
		return err
	}
	l := c.Layout
	if l.LayerSpacing < 0 || l.NodeSpacing < 0 || l.NodeWidth < 0 || l.NodeHeight < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "layout spacing and node size must not be negative")
	}
	if _, err := search.ParseMode(c.Search.Mode); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfig, err, "search.mode")
	}
	if c.Search.Zoom < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "search.zoom must not be negative")
	}
	if c.Cache.TTL < 0 || c.Server.SessionTTL < 0 || c.Layout.Timeout < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "durations must not be negative")
	}
	if c.Cache.RedisDB < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "cache.redis_db must not be negative")
	}
	if _, err := log.ParseLevel(c.Log.Level); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfig, err, "log.level")
	}
	return nil
}

// Directives returns the layout directives, with defaults for zero fields.
// An invalid direction falls back to down; Validate reports it.
func (c Config) Directives() layout.Directives {
	dir, _ := layout.ParseDirection(c.Layout.Direction)
	return layout.Directives{
		Direction:    dir,
		LayerSpacing: c.Layout.LayerSpacing,
		NodeSpacing:  c.Layout.NodeSpacing,
		NodeWidth:    c.Layout.NodeWidth,
		NodeHeight:   c.Layout.NodeHeight,
	}.WithDefaults()
}

// SearchOptions returns resolver options sized to the layout nodes.
func (c Config) SearchOptions() search.Options {
	mode, _ := search.ParseMode(c.Search.Mode)
	d := c.Directives()
	return search.Options{
		Mode:       mode,
		NodeWidth:  d.NodeWidth,
		NodeHeight: d.NodeHeight,
		Zoom:       c.Search.Zoom,
	}
}

// LogLevel returns the parsed log level, or info when unset or invalid.
func (c Config) LogLevel() log.Level {
	lvl, err := log.ParseLevel(c.Log.Level)
	if err != nil {
		return log.InfoLevel
	}
	return lvl
}

// Encode writes c as TOML.
func (c Config) Encode(w io.Writer) error {
	return toml.NewEncoder(w).Encode(c)
}
