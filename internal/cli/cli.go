// Package cli implements the citegraph command-line interface.
package cli

import (
	"context"
	"io"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/citegraph/internal/config"
	"github.com/matzehuels/citegraph/pkg/buildinfo"
	"github.com/matzehuels/citegraph/pkg/cache"
	"github.com/matzehuels/citegraph/pkg/service"
)

// =============================================================================
// Constants
// =============================================================================

// appName is the application name used for display.
const appName = config.AppName

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
	Logger     *log.Logger
	configPath string
	verbose    bool
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
		Short: "citegraph builds and analyzes academic citation graphs",
		Long: `citegraph crawls citation and reference graphs from Semantic Scholar,
computes centrality metrics, classifies self-citations and serves the
current graph over an HTTP API.`,
		Version:       buildinfo.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(*cobra.Command, []string) {
			if c.verbose {
				c.SetLogLevel(LogDebug)
			}
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().BoolVarP(&c.verbose, "verbose", "v", false, "log debug output")
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "config file (default $XDG_CONFIG_HOME/citegraph/config.toml)")

	root.AddCommand(c.serveCommand())
	root.AddCommand(c.searchCommand())
	root.AddCommand(c.paperCommand())
	root.AddCommand(c.authorCommand())
	root.AddCommand(c.metricsCommand())
	root.AddCommand(c.classifyCommand())
	root.AddCommand(c.exportCommand())
	root.AddCommand(c.importCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// =============================================================================
// Service Factory
// =============================================================================

// serviceOpts are the flags shared by commands that talk to a provider.
type serviceOpts struct {
	noCache bool
	refresh bool
	apiKey  string
}

func (o *serviceOpts) register(cmd *cobra.Command) {
	cmd.Flags().BoolVar(&o.noCache, "no-cache", false, "disable the response cache")
	cmd.Flags().BoolVar(&o.refresh, "refresh", false, "bypass cached responses")
	cmd.Flags().StringVar(&o.apiKey, "api-key", "", "Semantic Scholar API key (overrides SEMANTIC_SCHOLAR_API_KEY)")
}

func (c *CLI) loadConfig() (config.Config, error) {
	cfg, err := config.Load(c.configPath)
	if err != nil {
		return config.Config{}, err
	}
	c.Logger.Debug("config loaded", "cache", cfg.Cache.Backend, "max_depth", cfg.Crawl.MaxDepth)
	return cfg, nil
}

// newService builds a service from the config. The returned close function
// releases the cache.
func (c *CLI) newService(ctx context.Context, opts serviceOpts) (*service.Service, func(), error) {
	cfg, err := c.loadConfig()
	if err != nil {
		return nil, nil, err
	}
	if opts.noCache {
		cfg.Cache.Backend = config.CacheNone
	}
	if opts.apiKey != "" {
		cfg.SemanticScholar.APIKey = opts.apiKey
	}
	cc, err := cfg.OpenCache(ctx)
	if err != nil {
		c.Logger.Warn("cache disabled", "err", err)
		cc = cache.NewNullCache()
	}
	so := cfg.ServiceOptions(cc, c.Logger)
	so.Refresh = opts.refresh
	svc := service.New(so)
	closeFn := func() {
		if err := cc.Close(); err != nil {
			c.Logger.Debug("close cache", "err", err)
		}
	}
	return svc, closeFn, nil
}

// offlineService builds a service that never reaches a provider, for
// commands that only work on graph files.
func (c *CLI) offlineService() *service.Service {
	return service.New(service.Options{Cache: cache.NewNullCache(), Logger: c.Logger})
}
