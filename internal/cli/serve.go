package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/matzehuels/archdeck/internal/server"
	"github.com/matzehuels/archdeck/pkg/buildinfo"
	"github.com/matzehuels/archdeck/pkg/cache"
	"github.com/matzehuels/archdeck/pkg/pipeline"
	"github.com/matzehuels/archdeck/pkg/store"
)

// Environment variables read by the serve command.
const (
	envStore = "ARCHDECK_STORE"
	envRedis = "ARCHDECK_REDIS"
)

const (
	defaultStoreDSN = "archdeck.db"
	storeNone       = "none" // serve render and layout only
)

// serveOpts holds the flags of the serve command.
type serveOpts struct {
	addr      string
	storeDSN  string
	redisAddr string
	rateLimit float64
	rateBurst int
	noCache   bool
}

// serveCommand creates the serve command that runs the HTTP API.
func (c *CLI) serveCommand() *cobra.Command {
	opts := serveOpts{
		addr:      server.DefaultAddr,
		storeDSN:  envOr(envStore, defaultStoreDSN),
		redisAddr: os.Getenv(envRedis),
		rateLimit: server.DefaultRateLimit,
		rateBurst: server.DefaultRateBurst,
	}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP rendering API",
		Long: `Run the HTTP rendering API.

Diagrams are stored in SQLite by default. Point --store (or ` + envStore + `) at a
mongodb:// URI to use MongoDB instead, or set it to "none" to disable the
diagram routes. With --redis (or ` + envRedis + `) layouts and
artifacts are cached in Redis, otherwise in the local cache directory.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runServe(cmd.Context(), opts)
		},
	}

	cmd.Flags().StringVar(&opts.addr, "addr", opts.addr, "listen address")
	cmd.Flags().StringVar(&opts.storeDSN, "store", opts.storeDSN, "diagram store: SQLite path, mongodb:// URI or \"none\"")
	cmd.Flags().StringVar(&opts.redisAddr, "redis", opts.redisAddr, "Redis address for the shared cache")
	cmd.Flags().Float64Var(&opts.rateLimit, "rate-limit", opts.rateLimit, "write requests per second")
	cmd.Flags().IntVar(&opts.rateBurst, "rate-burst", opts.rateBurst, "write request burst")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable caching")

	return cmd
}

func (c *CLI) runServe(ctx context.Context, opts serveOpts) error {
	logger := loggerFromContext(ctx)

	cc, keyer, err := c.serverCache(ctx, opts)
	if err != nil {
		return err
	}
	runner := pipeline.NewRunner(cc, keyer, logger)
	defer runner.Close()

	var st store.Store
	if opts.storeDSN != storeNone {
		st, err = store.Open(ctx, opts.storeDSN)
		if err != nil {
			return fmt.Errorf("open store %s: %w", opts.storeDSN, err)
		}
		defer st.Close()
	}

	metrics := server.NewMetrics()
	metrics.Install()

	srv := server.New(runner, st, metrics, server.Config{
		Addr:      opts.addr,
		RateLimit: opts.rateLimit,
		RateBurst: opts.rateBurst,
		Logger:    logger,
	})

	printInfo("Serving on %s", StyleLink.Render("http://"+displayAddr(opts.addr)))
	printDetail("Store: %s", opts.storeDSN)
	return srv.ListenAndServe(ctx)
}

// serverCache picks the server's cache. A shared Redis is keyed per build
// so servers running different versions never read each other's artifacts.
func (c *CLI) serverCache(ctx context.Context, opts serveOpts) (cache.Cache, cache.Keyer, error) {
	if opts.redisAddr == "" || opts.noCache {
		cc, err := newCache(opts.noCache)
		return cc, nil, err
	}
	rc, err := cache.NewRedisCache(ctx, cache.RedisConfig{Addr: opts.redisAddr})
	if err != nil {
		return nil, nil, fmt.Errorf("connect redis %s: %w", opts.redisAddr, err)
	}
	return rc, cache.NewScopedKeyer(nil, redisKeyPrefix()), nil
}

func redisKeyPrefix() string {
	return buildinfo.Version + ":"
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func displayAddr(addr string) string {
	if len(addr) > 0 && addr[0] == ':' {
		return "localhost" + addr
	}
	return addr
}
