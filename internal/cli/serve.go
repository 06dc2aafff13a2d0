package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/citegraph/internal/server"
	"github.com/matzehuels/citegraph/pkg/observability"
)

// serveCommand creates the serve command, which exposes the service over
// HTTP until interrupted.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr    string
		metrics bool
		so      serviceOpts
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		Long: `Run the HTTP API on the configured address.

The API keeps one current graph in memory. Background searches are
started with POST /api/v1/buscar and polled with
GET /api/v1/buscar/progreso/{id}.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			if addr == "" {
				addr = cfg.Addr()
			}

			svc, closeFn, err := c.newService(ctx, so)
			if err != nil {
				return err
			}
			defer closeFn()

			if metrics {
				hooks := observability.NewPrometheusHooks()
				observability.SetCrawlHooks(hooks)
				observability.SetCacheHooks(hooks)
				observability.SetHTTPHooks(hooks)
				defer observability.Reset()
			}

			srv := server.New(svc, server.Options{Logger: c.Logger, Metrics: metrics})
			c.Logger.Info("listening", "addr", addr, "metrics", metrics)
			return srv.ListenAndServe(ctx, addr)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from config, 0.0.0.0:8000)")
	cmd.Flags().BoolVar(&metrics, "metrics", true, "expose Prometheus metrics at /metrics")
	so.register(cmd)
	return cmd
}
