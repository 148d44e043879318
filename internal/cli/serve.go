package cli

import (
	"context"
	"time"

	"github.com/spf13/cobra"

	"github.com/matzehuels/jsongraph/internal/metrics"
	"github.com/matzehuels/jsongraph/internal/server"
	"github.com/matzehuels/jsongraph/pkg/session"
)

type serveOpts struct {
	engineOpts
	addr string
}

// serveCommand creates the serve command.
func (c *CLI) serveCommand() *cobra.Command {
	var opts serveOpts
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve graph sessions over HTTP",
		Long: `Serve starts the HTTP API. Clients create a session, post JSON to it and
fetch the laid out graph as JSON, YAML or SVG. Sessions live in memory and
expire after the configured idle time. Prometheus metrics are served at
/metrics.`,
		Example: `  jsongraph serve --addr :9000
  JSONGRAPH_REDIS_ADDR=localhost:6379 jsongraph serve`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runServe(cmd.Context(), opts)
		},
	}

	opts.engineOpts.register(cmd)
	cmd.Flags().StringVar(&opts.addr, "addr", "", "listen address (default from config, :8080)")
	return cmd
}

func (c *CLI) runServe(ctx context.Context, opts serveOpts) error {
	logger := loggerFromContext(ctx)
	sc := c.Config.Server
	addr := sc.Addr
	if opts.addr != "" {
		addr = opts.addr
	}

	d, err := c.directives(opts.engineOpts)
	if err != nil {
		return err
	}
	engine, closeEngine, err := c.newEngine(ctx, opts.engineOpts)
	if err != nil {
		return err
	}
	defer closeEngine()

	m := metrics.New()
	m.Install()

	store := session.NewMemoryStore(session.Options{
		Engine:     engine,
		Directives: d,
		Search:     c.Config.SearchOptions(),
		Logger:     logger,
	}, time.Duration(sc.SessionTTL))

	srv := server.New(server.Options{
		Store:         store,
		Logger:        logger,
		Metrics:       m.Handler(),
		MaxBodyBytes:  sc.MaxBodyBytes,
		LayoutTimeout: time.Duration(c.Config.Layout.Timeout),
	})
	logger.Info("starting server", "addr", addr, "engine", engine.Name(), "direction", d.Direction)
	return srv.ListenAndServe(ctx, addr, time.Duration(sc.SweepEvery))
}
