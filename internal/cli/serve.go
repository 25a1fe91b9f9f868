package cli

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/forcegraph/pkg/cache"
	"github.com/matzehuels/forcegraph/pkg/pipeline"
	"github.com/matzehuels/forcegraph/pkg/server"
	"github.com/matzehuels/forcegraph/pkg/session"
)

type serveOpts struct {
	addr     string
	redisURL string
	ttl      time.Duration
	sweep    time.Duration
	noCache  bool
	config   configFlags

	dataDir     string
	remote      bool
	maxSessions int
}

// serveCommand creates the serve command.
func (c *CLI) serveCommand() *cobra.Command {
	opts := serveOpts{}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve layouts and live sessions over HTTP",
		Long: `Serve exposes one-shot renders at /render and live sessions under
/sessions. Each session runs its own simulation loop and accepts pointer,
filter and recluster events.

Clients name datasets relative to --data-dir. Remote http(s) and MongoDB
sources are refused unless --allow-remote is given.

With --redis, layouts and outputs are cached in Redis and shared between
server instances; otherwise the local file cache is used.`,
		Example: `  forcegraph serve --addr localhost:8080 --data-dir ./data
  forcegraph serve --data-dir ./data --redis redis://localhost:6379/0 --ttl 10m`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runServe(cmd.Context(), opts)
		},
	}

	cmd.Flags().StringVar(&opts.addr, "addr", "localhost:8080", "listen address")
	cmd.Flags().StringVar(&opts.redisURL, "redis", "", "Redis URL for the shared cache")
	cmd.Flags().DurationVar(&opts.ttl, "ttl", session.DefaultTTL, "idle session lifetime")
	cmd.Flags().DurationVar(&opts.sweep, "sweep", time.Minute, "interval between expired session sweeps")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable caching")
	cmd.Flags().StringVar(&opts.dataDir, "data-dir", "", "directory that local dataset names resolve against")
	cmd.Flags().BoolVar(&opts.remote, "allow-remote", false, "allow http(s) and mongodb dataset sources")
	cmd.Flags().IntVar(&opts.maxSessions, "max-sessions", server.DefaultMaxSessions, "maximum live sessions")
	opts.config.register(cmd)

	return cmd
}

func (c *CLI) runServe(ctx context.Context, opts serveOpts) error {
	cfg, err := opts.config.load()
	if err != nil {
		return err
	}
	runner, err := c.newServeRunner(ctx, opts)
	if err != nil {
		return err
	}
	defer runner.Close()

	sessions := session.NewStore(opts.ttl, c.Logger)
	defer sessions.Close()

	srv := server.New(ctx, runner, sessions, cfg, c.Logger)
	srv.Sources = server.SourcePolicy{DataDir: opts.dataDir, Remote: opts.remote}
	srv.MaxSessions = opts.maxSessions
	if opts.dataDir == "" && !opts.remote {
		c.Logger.Warn("no dataset sources enabled; pass --data-dir or --allow-remote")
	}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		err := srv.ListenAndServe(ctx, opts.addr)
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	})
	g.Go(func() error {
		err := sessions.Sweep(ctx, opts.sweep)
		if errors.Is(err, context.Canceled) {
			return nil
		}
		return err
	})
	return g.Wait()
}

// newServeRunner picks the Redis cache when configured, scoping its keys
// so several deployments can share one database.
func (c *CLI) newServeRunner(ctx context.Context, opts serveOpts) (*pipeline.Runner, error) {
	if opts.redisURL == "" || opts.noCache {
		return c.newRunner(opts.noCache)
	}
	rc, err := cache.NewRedisCache(ctx, opts.redisURL)
	if err != nil {
		return nil, err
	}
	c.Logger.Info("using redis cache")
	return pipeline.NewRunner(cache.Observed(rc), cache.NewScopedKeyer(nil, appName+":"), c.Logger), nil
}
