// Package config loads citegraph settings from an optional TOML file and
// environment variables. Environment values win over the file, and the
// file wins over built-in defaults.
package config

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/charmbracelet/log"

	"github.com/matzehuels/citegraph/pkg/cache"
	cgerrors "github.com/matzehuels/citegraph/pkg/errors"
	"github.com/matzehuels/citegraph/pkg/httputil"
	"github.com/matzehuels/citegraph/pkg/integrations"
	"github.com/matzehuels/citegraph/pkg/service"
)

// AppName names the config and cache directories.
const AppName = "citegraph"

// Cache backends.
const (
	CacheFile  = "file"
	CacheRedis = "redis"
	CacheNone  = "none"
)

// Config is the full set of settings.
type Config struct {
	Server          Server          `toml:"server"`
	Crawl           Crawl           `toml:"crawl"`
	SemanticScholar SemanticScholar `toml:"semantic_scholar"`
	Cache           Cache           `toml:"cache"`
}

// Server configures the HTTP API.
type Server struct {
	Host string `toml:"host"`
	Port int    `toml:"port" validate:"gte=1,lte=65535"`
}

// Crawl bounds searches and paces provider requests.
type Crawl struct {
	MaxDepth    int      `toml:"max_depth" validate:"gte=1,lte=5"`
	MaxChildren int      `toml:"max_children" validate:"gte=1,lte=100"`
	Pause       Duration `toml:"pause"`
	Timeout     Duration `toml:"timeout"`
	Retries     int      `toml:"retries" validate:"gte=1,lte=10"`
}

// SemanticScholar holds provider credentials.
type SemanticScholar struct {
	APIKey  string `toml:"api_key"`
	BaseURL string `toml:"base_url"`
}

// Cache selects the provider response cache.
type Cache struct {
	Backend   string   `toml:"backend" validate:"oneof=file redis none"`
	Dir       string   `toml:"dir"`
	TTL       Duration `toml:"ttl"`
	RedisAddr string   `toml:"redis_addr"`
}

// Duration decodes TOML strings such as "300ms" or "40s".
type Duration struct {
	time.Duration
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		Server: Server{Host: "0.0.0.0", Port: 8000},
		Crawl: Crawl{
			MaxDepth:    service.DefaultMaxDepth,
			MaxChildren: service.DefaultMaxChildren,
			Pause:       Duration{httputil.DefaultPause},
			Timeout:     Duration{integrations.DefaultTimeout},
			Retries:     httputil.DefaultAttempts,
		},
		Cache: Cache{Backend: CacheFile, TTL: Duration{cache.DefaultTTL}},
	}
}

// Load reads path, or the default config file when path is empty and the
// file exists, then applies environment overrides and validates the result.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		if p, err := DefaultPath(); err == nil {
			if _, err := os.Stat(p); err == nil {
				path = p
			}
		}
	}
	if path != "" {
		if _, err := toml.DecodeFile(path, &cfg); err != nil {
			return Config{}, fmt.Errorf("read config %s: %w", path, err)
		}
	}
	if err := cfg.applyEnv(os.LookupEnv); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks field bounds.
func (c Config) Validate() error {
	for _, v := range []any{c.Server, c.Crawl, c.Cache} {
		if err := cgerrors.ValidateStruct(v); err != nil {
			return err
		}
	}
	if u := c.SemanticScholar.BaseURL; u != "" {
		if err := cgerrors.ValidateURL(u); err != nil {
			return err
		}
	}
	if c.Cache.Backend == CacheRedis && c.Cache.RedisAddr == "" {
		return cgerrors.New(cgerrors.ErrCodeInvalidInput, "redis cache needs an address (REDIS_ADDR)")
	}
	return nil
}

type lookupFunc func(string) (string, bool)

func (c *Config) applyEnv(lookup lookupFunc) error {
	var errs []error
	str := func(key string, dst *string) {
		if v, ok := lookup(key); ok && v != "" {
			*dst = v
		}
	}
	integer := func(key string, dst *int) {
		v, ok := lookup(key)
		if !ok || v == "" {
			return
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", key, err))
			return
		}
		*dst = n
	}
	seconds := func(key string, dst *Duration) {
		v, ok := lookup(key)
		if !ok || v == "" {
			return
		}
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", key, err))
			return
		}
		dst.Duration = time.Duration(f * float64(time.Second))
	}

	str("SEMANTIC_SCHOLAR_API_KEY", &c.SemanticScholar.APIKey)
	str("SEMANTIC_SCHOLAR_URL", &c.SemanticScholar.BaseURL)
	integer("MAX_SEARCH_LEVELS", &c.Crawl.MaxDepth)
	integer("MAX_CHILDREN_PER_NODE", &c.Crawl.MaxChildren)
	seconds("DEFAULT_SEARCH_PAUSE", &c.Crawl.Pause)
	seconds("REQUEST_TIMEOUT", &c.Crawl.Timeout)
	integer("MAX_RETRIES", &c.Crawl.Retries)
	integer("PORT", &c.Server.Port)
	str("HOST", &c.Server.Host)
	str("CITEGRAPH_CACHE", &c.Cache.Backend)
	str("REDIS_ADDR", &c.Cache.RedisAddr)
	if addr, _ := lookup("REDIS_ADDR"); addr != "" && c.Cache.Backend == CacheFile {
		if backend, _ := lookup("CITEGRAPH_CACHE"); backend == "" {
			c.Cache.Backend = CacheRedis
		}
	}
	if len(errs) > 0 {
		return cgerrors.Wrap(cgerrors.ErrCodeInvalidInput, errors.Join(errs...), "invalid environment")
	}
	return nil
}

// Addr is the server listen address.
func (c Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}

// Policy is the provider retry policy.
func (c Config) Policy() httputil.Policy {
	p := httputil.DefaultPolicy()
	p.Attempts = c.Crawl.Retries
	p.Pause = c.Crawl.Pause.Duration
	return p
}

// OpenCache builds the configured response cache. A file cache without a
// directory uses [CacheDir].
func (c Config) OpenCache(ctx context.Context) (cache.Cache, error) {
	switch c.Cache.Backend {
	case CacheNone:
		return cache.NewNullCache(), nil
	case CacheRedis:
		return cache.NewRedisCache(ctx, cache.RedisConfig{Addr: c.Cache.RedisAddr})
	}
	dir := c.Cache.Dir
	if dir == "" {
		d, err := CacheDir()
		if err != nil {
			return cache.NewNullCache(), nil
		}
		dir = d
	}
	return cache.NewFileCache(dir)
}

// ServiceOptions maps the settings onto [service.Options].
func (c Config) ServiceOptions(cc cache.Cache, logger *log.Logger) service.Options {
	return service.Options{
		APIKey:      c.SemanticScholar.APIKey,
		BaseURL:     c.SemanticScholar.BaseURL,
		Cache:       cc,
		CacheTTL:    c.Cache.TTL.Duration,
		Policy:      c.Policy(),
		Timeout:     c.Crawl.Timeout.Duration,
		MaxDepth:    c.Crawl.MaxDepth,
		MaxChildren: c.Crawl.MaxChildren,
		Logger:      logger,
	}
}

// =============================================================================
// Paths
// =============================================================================

// DefaultPath returns $XDG_CONFIG_HOME/citegraph/config.toml, falling back
// to ~/.config.
func DefaultPath() (string, error) {
	if home := os.Getenv("XDG_CONFIG_HOME"); home != "" {
		return filepath.Join(home, AppName, "config.toml"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", AppName, "config.toml"), nil
}

// CacheDir returns the cache directory using XDG standard (~/.cache/citegraph/).
func CacheDir() (string, error) {
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, AppName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", AppName), nil
}
