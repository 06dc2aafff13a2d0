package crawl

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/matzehuels/citegraph/pkg/graph"
	"github.com/matzehuels/citegraph/pkg/observability"
)

var tracer = otel.Tracer("citegraph.crawl")

const (
	DefaultMaxDepth    = 1   // Default citation levels to expand
	DefaultMaxChildren = 100 // Default neighbors fetched per work
)

// State is a crawler lifecycle state. Terminal states are final.
type State string

const (
	StateIdle      State = "idle"
	StateRunning   State = "running"
	StateCompleted State = "completed"
	StateCancelled State = "cancelled"
	StateError     State = "error"
)

// Terminal reports whether s is completed, cancelled or error.
func (s State) Terminal() bool {
	return s == StateCompleted || s == StateCancelled || s == StateError
}

// Options configures a crawl.
type Options struct {
	MaxDepth    int         // Citation levels to expand from the root (default: 1)
	MaxChildren int         // Neighbors fetched per work (default: 100)
	Logger      *log.Logger // Run and failure logging (default: log.Default())
}

// WithDefaults returns a copy of Options with zero values replaced by defaults.
func (o Options) WithDefaults() Options {
	opts := o
	if opts.MaxDepth <= 0 {
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

// Progress is emitted after each neighbor is added.
type Progress struct {
	Vertices int // vertices in the run's graph
	Edges    int // arcs in the run's graph
	Depth    int // level of the neighbor just added
	Pending  int // queue backlog
}

// Stats counts provider calls made by a run.
type Stats struct {
	Searches int `json:"queries_search"`
	Papers   int `json:"queries_paper"`
	Errors   int `json:"errors"`
}

// Result is the outcome of [Crawler.Run]. Graph is never nil.
type Result struct {
	Graph *graph.Graph
	State State
	Stats Stats
	Root  string // root vertex id, empty when the query matched nothing
}

// Crawler runs a single breadth-first crawl. A Crawler is not reusable;
// create one per run.
type Crawler struct {
	provider Provider
	opts     Options

	mu    sync.Mutex
	state State
	stats Stats
}

// New creates an idle crawler over p.
func New(p Provider, opts Options) *Crawler {
	return &Crawler{provider: p, opts: opts.WithDefaults(), state: StateIdle}
}

// State returns the current lifecycle state.
func (c *Crawler) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Stats returns the provider call counters so far.
func (c *Crawler) Stats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.stats
}

type item struct {
	id    string // vertex id (title)
	ext   string // provider id
	depth int
}

// Run resolves query and expands it breadth-first in direction dir.
//
// If progress is non-nil, one event is sent per added neighbor; sends
// block until received or ctx is done. Run never closes progress.
//
// A query with no match yields an empty graph in [StateCompleted].
// Cancellation yields the partial graph in [StateCancelled] and a nil error.
// A provider error other than [ErrNoResult] ends the run in [StateError]
// and is returned along with the partial result.
func (c *Crawler) Run(ctx context.Context, query string, dir Direction, progress chan<- Progress) (*Result, error) {
	if !c.transition(StateIdle, StateRunning) {
		return nil, ErrAlreadyStarted
	}

	ctx, span := tracer.Start(ctx, "crawl.Run")
	defer span.End()
	span.SetAttributes(
		attribute.String("crawl.provider", c.provider.Name()),
		attribute.String("crawl.direction", string(dir)),
		attribute.Int("crawl.max_depth", c.opts.MaxDepth),
	)

	start := time.Now()
	hooks := observability.Crawl()
	hooks.OnCrawlStart(ctx, c.provider.Name(), string(dir))

	res := &Result{Graph: graph.New()}
	err := c.walk(ctx, query, dir, res, progress)

	switch {
	case err == nil:
		res.State = StateCompleted
	case errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded):
		res.State = StateCancelled
		err = nil
	default:
		res.State = StateError
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}

	c.mu.Lock()
	c.state = res.State
	res.Stats = c.stats
	c.mu.Unlock()

	g := res.Graph
	span.SetAttributes(
		attribute.Int("crawl.vertices", g.VertexCount()),
		attribute.Int("crawl.edges", g.EdgeCount()),
		attribute.String("crawl.state", string(res.State)),
	)
	hooks.OnCrawlComplete(ctx, c.provider.Name(), string(dir), string(res.State), g.VertexCount(), g.EdgeCount(), time.Since(start))
	c.opts.Logger.Info("crawl finished",
		"query", query,
		"direction", dir,
		"state", res.State,
		"vertices", g.VertexCount(),
		"edges", g.EdgeCount(),
		"searches", res.Stats.Searches,
		"papers", res.Stats.Papers,
		"errors", res.Stats.Errors,
	)
	return res, err
}

func (c *Crawler) walk(ctx context.Context, query string, dir Direction, res *Result, progress chan<- Progress) error {
	g := res.Graph
	engine := c.provider.Name()

	root, err := c.search(ctx, query)
	if err != nil {
		return err
	}
	if root == nil {
		c.opts.Logger.Warn("no match for query", "query", query)
		return nil
	}

	rootID := root.Info.Title
	if !titled(rootID) {
		rootID = query
	}
	v := g.Upsert(rootID, &root.Info)
	v.Type = graph.TypeRoot
	v.Engine = engine
	res.Root = rootID

	visited := map[string]bool{rootID: true}
	queue := []item{{id: rootID, ext: root.ID}}

	for len(queue) > 0 {
		if err := ctx.Err(); err != nil {
			return err
		}
		cur := queue[0]
		queue = queue[1:]
		if cur.depth >= c.opts.MaxDepth || cur.ext == "" {
			continue
		}

		works, err := c.neighbors(ctx, cur.ext, dir)
		if err != nil {
			return err
		}
		next := cur.depth + 1
		for _, w := range works {
			if err := ctx.Err(); err != nil {
				return err
			}
			id := w.Info.Title
			if id == "" || visited[id] {
				continue
			}
			nv := g.Upsert(id, &w.Info)
			nv.Type = dir.CitationType()
			nv.Engine = engine
			if dir == References {
				g.AddArc(cur.id, id, graph.DefaultWeight)
			} else {
				g.AddArc(id, cur.id, graph.DefaultWeight)
			}
			visited[id] = true

			if next < c.opts.MaxDepth && w.ID != "" {
				queue = append(queue, item{id: id, ext: w.ID, depth: next})
			}
			emit(ctx, progress, Progress{
				Vertices: g.VertexCount(),
				Edges:    g.EdgeCount(),
				Depth:    next,
				Pending:  len(queue),
			})
		}
	}
	return nil
}

// titled reports whether a provider title can serve as a vertex id.
func titled(title string) bool {
	return title != "" && title != graph.Untitled && title != graph.Placeholder
}

func (c *Crawler) search(ctx context.Context, query string) (*Work, error) {
	w, err := c.provider.Search(ctx, query)
	c.count(func(s *Stats) { s.Searches++ })
	if err := c.degrade(ctx, err, "search", query); err != nil {
		return nil, err
	}
	return w, nil
}

func (c *Crawler) neighbors(ctx context.Context, id string, dir Direction) ([]Work, error) {
	works, err := c.provider.Neighbors(ctx, id, dir, c.opts.MaxChildren)
	c.count(func(s *Stats) { s.Papers++ })
	if err := c.degrade(ctx, err, "paper", id); err != nil {
		return nil, err
	}
	if len(works) > c.opts.MaxChildren {
		works = works[:c.opts.MaxChildren]
	}
	return works, nil
}

// degrade swallows ErrNoResult and turns cancellation into ctx.Err().
func (c *Crawler) degrade(ctx context.Context, err error, endpoint, key string) error {
	if err == nil {
		return nil
	}
	if ctxErr := ctx.Err(); ctxErr != nil {
		return ctxErr
	}
	if errors.Is(err, ErrNoResult) {
		c.count(func(s *Stats) { s.Errors++ })
		c.opts.Logger.Warn("lookup failed", "endpoint", endpoint, "key", key, "err", err)
		return nil
	}
	return err
}

func (c *Crawler) count(f func(*Stats)) {
	c.mu.Lock()
	f(&c.stats)
	c.mu.Unlock()
}

func (c *Crawler) transition(from, to State) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state != from {
		return false
	}
	c.state = to
	return true
}

func emit(ctx context.Context, ch chan<- Progress, p Progress) {
	if ch == nil {
		return
	}
	select {
	case ch <- p:
	case <-ctx.Done():
	}
}
