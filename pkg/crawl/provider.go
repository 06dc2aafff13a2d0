package crawl

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"

	"github.com/matzehuels/citegraph/pkg/graph"
)

var (
	// ErrUnknownProvider is returned by [Registry.Get] for unregistered keys.
	ErrUnknownProvider = errors.New("unknown provider")

	// ErrNoResult marks a lookup that produced nothing usable after retries.
	// It never aborts a crawl.
	ErrNoResult = errors.New("no result")

	// ErrAlreadyStarted is returned when Run is called on a used Crawler.
	ErrAlreadyStarted = errors.New("crawler already started")

	// ErrInvalidDirection is returned by [ParseDirection].
	ErrInvalidDirection = errors.New("invalid crawl direction")
)

// Direction selects which neighbors a crawl follows.
type Direction string

const (
	// Citations follows works citing the current one. Arcs point citing->cited.
	Citations Direction = "citations"
	// References follows works cited by the current one. Arcs point citer->reference.
	References Direction = "references"
)

// ParseDirection accepts "citations"/"citas" and "references"/"referencias".
func ParseDirection(s string) (Direction, error) {
	switch s {
	case "citations", "citas":
		return Citations, nil
	case "references", "referencias":
		return References, nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidDirection, s)
}

// CitationType is the vertex tag given to neighbors found in direction d.
func (d Direction) CitationType() graph.CitationType {
	if d == References {
		return graph.TypeReference
	}
	return graph.TypeCiting
}

// Work is one record returned by a provider: its provider id, which may be
// empty, and its mapped article info.
type Work struct {
	ID   string
	Info graph.ArticleInfo
}

// Provider is a bibliographic source the crawler can walk.
type Provider interface {
	// Name is the engine label stored on crawled vertices.
	Name() string

	// Search returns the best match for a title or DOI, or nil when there
	// is none.
	Search(ctx context.Context, query string) (*Work, error)

	// Neighbors returns up to limit works adjacent to id in direction dir.
	// Works without a title are left out.
	Neighbors(ctx context.Context, id string, dir Direction, limit int) ([]Work, error)
}

// Registry maps provider keys (e.g. "semantic_scholar") to providers.
// It is safe for concurrent use.
type Registry struct {
	mu        sync.RWMutex
	providers map[string]Provider
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{providers: make(map[string]Provider)}
}

// Register adds or replaces the provider under key.
func (r *Registry) Register(key string, p Provider) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.providers[key] = p
}

// Get returns the provider registered under key.
func (r *Registry) Get(key string) (Provider, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.providers[key]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownProvider, key)
	}
	return p, nil
}

// Keys returns the registered keys in sorted order.
func (r *Registry) Keys() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	keys := make([]string, 0, len(r.providers))
	for k := range r.providers {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}
