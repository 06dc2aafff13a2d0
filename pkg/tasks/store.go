package tasks

import (
	"sync"

	"github.com/matzehuels/citegraph/pkg/graph"
	cgio "github.com/matzehuels/citegraph/pkg/io"
)

// Store guards the shared current graph. The zero value holds no graph and
// is ready to use.
//
// Every replace or merge runs as one critical section, and readers see a
// consistent graph through [Store.View].
type Store struct {
	mu  sync.RWMutex
	cur *graph.Graph
}

// NewStore creates an empty store.
func NewStore() *Store { return &Store{} }

// Integration is the outcome of [Store.Integrate].
type Integration struct {
	Merged bool            // false when g replaced the current graph
	Stats  cgio.MergeStats // zero unless Merged
	Graph  *graph.Graph    // copy of the current graph after integration
}

// Integrate folds g into the current graph: with merge set and a current
// graph present, g is merged into it; otherwise g becomes the current
// graph. The store takes ownership of g.
func (s *Store) Integrate(g *graph.Graph, merge bool) Integration {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out Integration
	if merge && s.cur != nil {
		out.Stats = cgio.Merge(s.cur, g)
		out.Merged = true
	} else {
		s.cur = g
	}
	out.Graph = s.cur.Clone()
	return out
}

// Clear drops the current graph.
func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cur != nil {
		s.cur.Clear()
	}
	s.cur = nil
}

// Loaded reports whether a current graph exists.
func (s *Store) Loaded() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cur != nil
}

// View calls fn with the current graph, or nil, under the read lock. fn
// must not mutate the graph or retain it.
func (s *Store) View(fn func(*graph.Graph) error) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return fn(s.cur)
}

// Update calls fn with the current graph, or nil, under the write lock.
// If fn returns a non-nil graph it becomes the current graph.
func (s *Store) Update(fn func(*graph.Graph) (*graph.Graph, error)) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	g, err := fn(s.cur)
	if err != nil {
		return err
	}
	if g != nil {
		s.cur = g
	}
	return nil
}

// Snapshot returns a deep copy of the current graph, or nil.
func (s *Store) Snapshot() *graph.Graph {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.cur == nil {
		return nil
	}
	return s.cur.Clone()
}
