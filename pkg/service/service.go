// Package service is the library surface behind the HTTP server and the
// CLI: searches and tasks, paper lookup, and every operation on the shared
// current graph.
//
// Methods return coded errors from pkg/errors so callers can map them onto
// responses with [cgerrors.HTTPStatus]. Absence (no current graph, unknown
// vertex, unknown task) is NOT_FOUND, never an internal error.
//
// [cgerrors.HTTPStatus]: github.com/matzehuels/citegraph/pkg/errors.HTTPStatus
package service

import (
	"slices"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/citegraph/pkg/cache"
	"github.com/matzehuels/citegraph/pkg/crawl"
	cgerrors "github.com/matzehuels/citegraph/pkg/errors"
	"github.com/matzehuels/citegraph/pkg/httputil"
	"github.com/matzehuels/citegraph/pkg/integrations"
	"github.com/matzehuels/citegraph/pkg/integrations/semanticscholar"
	"github.com/matzehuels/citegraph/pkg/tasks"
)

// KnownProviders lists every provider key a request may name. Only the
// keys registered in the service's registry can actually run.
var KnownProviders = []string{
	semanticscholar.ProviderKey,
	"open_citations",
	"crossref",
	"openalex",
	"europe_pmc",
	"lens",
	"openaire",
	"datacite",
	"zenodo",
	"orcid",
}

// Defaults for [Options].
const (
	DefaultMaxDepth     = tasks.MaxDepth
	DefaultMaxChildren  = crawl.DefaultMaxChildren
	DefaultSyncMaxDepth = 2
)

// Options configures a [Service].
type Options struct {
	APIKey      string          // Semantic Scholar API key (optional)
	BaseURL     string          // Semantic Scholar Graph API root (default: public endpoint)
	Cache       cache.Cache     // Provider response cache (default: none)
	CacheTTL    time.Duration   // Response cache TTL (default: cache.DefaultTTL)
	Policy      httputil.Policy // Provider retry policy (default: httputil.DefaultPolicy())
	Timeout     time.Duration   // Per-request timeout (default: integrations.DefaultTimeout)
	MaxDepth    int             // Deepest search accepted (default: 5)
	MaxChildren int             // Fan-out used when a request names none (default: 100)
	Logger      *log.Logger     // default: log.Default()
	Refresh     bool            // bypass cached provider responses

	// Registry overrides the provider registry. When nil, Semantic Scholar
	// is registered from the options above.
	Registry *crawl.Registry
}

// WithDefaults returns a copy of Options with zero values replaced by defaults.
func (o Options) WithDefaults() Options {
	opts := o
	if opts.CacheTTL <= 0 {
		opts.CacheTTL = cache.DefaultTTL
	}
	if opts.Policy == (httputil.Policy{}) {
		opts.Policy = httputil.DefaultPolicy()
	}
	if opts.Timeout <= 0 {
		opts.Timeout = integrations.DefaultTimeout
	}
	if opts.MaxDepth <= 0 || opts.MaxDepth > tasks.MaxDepth {
		opts.MaxDepth = DefaultMaxDepth
	}
	if opts.MaxChildren <= 0 {
		opts.MaxChildren = DefaultMaxChildren
	}
	if opts.Logger == nil {
		opts.Logger = log.Default()
	}
	return opts
}

// Service holds the shared current graph, the task manager and the
// provider registry. It is safe for concurrent use.
type Service struct {
	opts     Options
	registry *crawl.Registry
	store    *tasks.Store
	manager  *tasks.Manager
	logger   *log.Logger
}

// New creates a service with an empty current graph.
func New(opts Options) *Service {
	opts = opts.WithDefaults()
	s := &Service{
		opts:     opts,
		registry: opts.Registry,
		store:    tasks.NewStore(),
		logger:   opts.Logger,
	}
	if s.registry == nil {
		s.registry = crawl.NewRegistry()
		s.registry.Register(semanticscholar.ProviderKey, semanticscholar.NewProvider(s.scholar(opts.APIKey), opts.Refresh))
	}
	s.manager = tasks.NewManager(s.store, s.logger)
	return s
}

// Store returns the shared graph store.
func (s *Service) Store() *tasks.Store { return s.store }

// Tasks returns the task manager.
func (s *Service) Tasks() *tasks.Manager { return s.manager }

// Wait blocks until background searches have finished.
func (s *Service) Wait() { s.manager.Wait() }

func (s *Service) scholar(apiKey string) *semanticscholar.Client {
	c := semanticscholar.NewClient(s.opts.Cache, s.opts.CacheTTL, apiKey)
	c.SetBaseURL(s.opts.BaseURL)
	c.SetPolicy(s.opts.Policy)
	c.SetLogger(s.logger)
	c.SetHTTPClient(integrations.NewHTTPClient(s.opts.Timeout))
	return c
}

// ProviderInfo describes one provider key.
type ProviderInfo struct {
	Key       string `json:"id"`
	Available bool   `json:"disponible"`
}

// Providers lists every known provider key and whether it can run.
func (s *Service) Providers() []ProviderInfo {
	registered := s.registry.Keys()
	keys := slices.Clone(KnownProviders)
	for _, k := range registered {
		if !slices.Contains(keys, k) {
			keys = append(keys, k)
		}
	}
	out := make([]ProviderInfo, len(keys))
	for i, k := range keys {
		out[i] = ProviderInfo{Key: k, Available: slices.Contains(registered, k)}
	}
	return out
}

// provider resolves a provider key. An empty key means Semantic Scholar. A
// per-request API key gets its own Semantic Scholar client sharing the
// response cache.
func (s *Service) provider(key, apiKey string) (crawl.Provider, error) {
	if key == "" {
		key = semanticscholar.ProviderKey
	}
	if apiKey != "" && apiKey != s.opts.APIKey && key == semanticscholar.ProviderKey && s.opts.Registry == nil {
		return semanticscholar.NewProvider(s.scholar(apiKey), s.opts.Refresh), nil
	}
	p, err := s.registry.Get(key)
	if err == nil {
		return p, nil
	}
	if slices.Contains(KnownProviders, key) {
		return nil, cgerrors.New(cgerrors.ErrCodeUnsupported, "provider not supported: %s", key)
	}
	return nil, cgerrors.New(cgerrors.ErrCodeInvalidInput, "unknown provider: %s", key)
}
