package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/jsongraph/pkg/buildinfo"
	"github.com/matzehuels/jsongraph/pkg/cache"
	"github.com/matzehuels/jsongraph/pkg/config"
	"github.com/matzehuels/jsongraph/pkg/layout"
	"github.com/matzehuels/jsongraph/pkg/session"
)

// =============================================================================
// Constants
// =============================================================================

const appName = "jsongraph"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger
	Config config.Config

	out        io.Writer
	errOut     io.Writer
	in         io.Reader
	configPath string
	verbose    bool
}

// New creates a CLI that logs to w at level. Command output goes to stdout.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: newLogger(w, level),
		Config: config.Default(),
		out:    os.Stdout,
		errOut: os.Stderr,
		in:     os.Stdin,
	}
}

// SetIO redirects command output, status output and input.
func (c *CLI) SetIO(out, errOut io.Writer, in io.Reader) {
	c.out = out
	c.errOut = errOut
	c.in = in
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   appName,
		Short: "jsongraph draws JSON documents as node-link diagrams",
		Long: `jsongraph turns a JSON document into a tree of typed nodes and edges, lays
it out with a layered graph algorithm and exports it as JSON, YAML, DOT or SVG.
It can also search the tree by dotted path, explore it in the terminal and
serve sessions over HTTP.`,
		Version:       buildinfo.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return c.setup(cmd)
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "config file (default $XDG_CONFIG_HOME/jsongraph/config.toml)")
	root.PersistentFlags().BoolVarP(&c.verbose, "verbose", "v", false, "enable verbose logging")

	root.AddCommand(c.generateCommand())
	root.AddCommand(c.searchCommand())
	root.AddCommand(c.exploreCommand())
	root.AddCommand(c.watchCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.sampleCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.configCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// setup loads .env and the config file, then applies --verbose.
func (c *CLI) setup(cmd *cobra.Command) error {
	if err := config.LoadDotEnv(); err != nil {
		c.Logger.Warn("ignoring .env", "error", err)
	}
	cfg, err := config.Load(c.configPath)
	if err != nil {
		return err
	}
	c.Config = cfg

	level := cfg.LogLevel()
	if c.verbose {
		level = log.DebugLevel
	}
	c.SetLogLevel(level)
	cmd.SetContext(withLogger(cmd.Context(), c.Logger))
	return nil
}

// =============================================================================
// Engine & Session Factory
// =============================================================================

// engineOpts are the flags shared by commands that lay graphs out.
type engineOpts struct {
	engine    string
	direction string
	noCache   bool
}

func (o *engineOpts) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&o.engine, "engine", "", "layout engine: layered, graphviz (default from config)")
	cmd.Flags().StringVar(&o.direction, "direction", "", "layout direction: down, right, up, left (default from config)")
	cmd.Flags().BoolVar(&o.noCache, "no-cache", false, "disable the layout cache")
}

// directives merges flag overrides into the configured directives.
func (c *CLI) directives(o engineOpts) (layout.Directives, error) {
	d := c.Config.Directives()
	if o.direction != "" {
		dir, err := layout.ParseDirection(o.direction)
		if err != nil {
			return d, err
		}
		d.Direction = dir
	}
	return d, nil
}

// newEngine returns the configured engine, wrapped in the layout cache
// unless caching is off. The returned closer releases the cache.
func (c *CLI) newEngine(ctx context.Context, o engineOpts) (layout.Engine, func(), error) {
	name := c.Config.Layout.Engine
	if o.engine != "" {
		name = o.engine
	}
	engine, err := layout.NewEngine(name)
	if err != nil {
		return nil, nil, err
	}
	if o.noCache || c.Config.Cache.Disabled {
		return engine, func() {}, nil
	}

	store, err := c.openCache(ctx)
	if err != nil {
		c.Logger.Warn("layout cache unavailable", "error", err)
		return engine, func() {}, nil
	}
	cached := layout.Cached(engine, store, cache.NewDefaultKeyer(), time.Duration(c.Config.Cache.TTL))
	return cached, func() { _ = store.Close() }, nil
}

// openCache opens Redis when configured, the file cache otherwise.
func (c *CLI) openCache(ctx context.Context) (cache.Cache, error) {
	cc := c.Config.Cache
	if cc.RedisAddr != "" {
		c.Logger.Debug("using redis cache", "addr", cc.RedisAddr, "db", cc.RedisDB)
		return cache.NewRedisCache(ctx, cache.RedisOptions{
			Addr:     cc.RedisAddr,
			Password: cc.RedisPassword,
			DB:       cc.RedisDB,
			Prefix:   cc.RedisPrefix,
		})
	}
	c.Logger.Debug("using file cache", "dir", cc.Dir)
	return cache.NewFileCache(cc.Dir)
}

// newSession returns a session over engine with the configured directives
// and search options. Notices are printed as they arrive unless quiet.
func (c *CLI) newSession(engine layout.Engine, d layout.Directives, quiet bool) *session.Session {
	var notifier session.Notifier
	if !quiet {
		notifier = session.NotifierFunc(func(n session.Notice) { printNotice(c.Logger, n) })
	}
	return session.New(session.Options{
		Engine:     engine,
		Directives: d,
		Search:     c.Config.SearchOptions(),
		Logger:     c.Logger,
		Notifier:   notifier,
	})
}

// layoutContext bounds a layout by the configured timeout.
func (c *CLI) layoutContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if t := time.Duration(c.Config.Layout.Timeout); t > 0 {
		return context.WithTimeout(ctx, t)
	}
	return context.WithCancel(ctx)
}

// =============================================================================
// Input
// =============================================================================

// readInput reads the named file, or stdin when name is empty or "-".
func (c *CLI) readInput(name string) (string, error) {
	if name == "" || name == "-" {
		data, err := io.ReadAll(c.in)
		if err != nil {
			return "", fmt.Errorf("read stdin: %w", err)
		}
		return string(data), nil
	}
	return readFile(name)
}
