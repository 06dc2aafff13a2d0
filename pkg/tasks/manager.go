package tasks

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/matzehuels/citegraph/pkg/crawl"
	cgerrors "github.com/matzehuels/citegraph/pkg/errors"
	"github.com/matzehuels/citegraph/pkg/observability"
)

var (
	// ErrNotFound is returned for unknown task ids.
	ErrNotFound = errors.New("task not found")

	// ErrNotCancellable is returned when cancelling a task that is not in
	// progress.
	ErrNotCancellable = errors.New("task is not in progress")
)

// MaxDepth bounds the depth a request may ask for.
const MaxDepth = 5

// Request describes one crawl.
type Request struct {
	Query       string          `validate:"required,min=3,max=500"`
	Provider    crawl.Provider  `validate:"required"`
	Direction   crawl.Direction `validate:"oneof=citations references"`
	Depth       int             `validate:"gte=0,lte=5"`   // 0 means crawl.DefaultMaxDepth
	MaxChildren int             `validate:"gte=0,lte=100"` // 0 means crawl.DefaultMaxChildren
	Merge       bool            // merge into the current graph instead of replacing it
}

// Validate checks the request's field bounds.
func (r Request) Validate() error {
	return cgerrors.ValidateStruct(r)
}

// Outcome is what an inline run returns.
type Outcome struct {
	Task        *Task
	Crawl       *crawl.Result
	Integration Integration
}

// Manager creates, runs and tracks tasks over a shared [Store].
type Manager struct {
	store  *Store
	logger *log.Logger

	mu    sync.RWMutex
	tasks map[string]*Task
	wg    sync.WaitGroup
}

// NewManager creates a manager integrating results into store. A nil
// logger means log.Default().
func NewManager(store *Store, logger *log.Logger) *Manager {
	if logger == nil {
		logger = log.Default()
	}
	return &Manager{store: store, logger: logger, tasks: make(map[string]*Task)}
}

// Store returns the shared graph store.
func (m *Manager) Store() *Store { return m.store }

// Get returns the task with the given id.
func (m *Manager) Get(id string) (*Task, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	t, ok := m.tasks[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return t, nil
}

// Cancel cancels an in-progress task. The crawl stops at its next
// checkpoint; the task keeps status cancelado from now on.
func (m *Manager) Cancel(id string) error {
	t, err := m.Get(id)
	if err != nil {
		return err
	}
	if !t.requestCancel() {
		return fmt.Errorf("%w: %s is %s", ErrNotCancellable, id, t.Status())
	}
	m.logger.Info("task cancelled", "task", id)
	return nil
}

// Start validates req and runs it in the background. The task outlives
// ctx's cancellation; use [Manager.Cancel] to stop it.
func (m *Manager) Start(ctx context.Context, req Request) (*Task, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	t := m.create(ctx)
	bg := context.WithoutCancel(ctx)
	m.wg.Add(1)
	go func() {
		defer m.wg.Done()
		if _, err := m.execute(bg, t, req); err != nil {
			m.logger.Error("task failed", "task", t.ID, "err", err)
		}
	}()
	return t, nil
}

// Run validates req and runs it inline. Cancelling ctx cancels the crawl,
// and the partial result is integrated as with [Manager.Cancel].
func (m *Manager) Run(ctx context.Context, req Request) (*Outcome, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	return m.execute(ctx, m.create(ctx), req)
}

// Wait blocks until every background task has finished.
func (m *Manager) Wait() { m.wg.Wait() }

func (m *Manager) create(ctx context.Context) *Task {
	t := newTask(uuid.NewString())
	m.mu.Lock()
	m.tasks[t.ID] = t
	m.mu.Unlock()
	observability.Crawl().OnTaskStatus(ctx, string(StatusPending))
	return t
}

func (m *Manager) execute(ctx context.Context, t *Task, req Request) (*Outcome, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	opts := crawl.Options{
		MaxDepth:    req.Depth,
		MaxChildren: req.MaxChildren,
		Logger:      m.logger.With("task", t.ID),
	}.WithDefaults()
	hooks := observability.Crawl()

	t.begin(opts.MaxDepth, cancel)
	hooks.OnTaskStatus(ctx, string(StatusInProgress))
	m.logger.Info("task started", "task", t.ID, "query", req.Query,
		"provider", req.Provider.Name(), "direction", req.Direction, "depth", opts.MaxDepth)

	crawler := crawl.New(req.Provider, opts)
	progress := make(chan crawl.Progress, 16)
	drained := make(chan struct{})
	go func() {
		defer close(drained)
		for p := range progress {
			t.setProgress(p, crawler.Stats())
		}
	}()

	res, err := crawler.Run(ctx, req.Query, req.Direction, progress)
	close(progress)
	<-drained
	t.setCalls(crawler.Stats())

	if err != nil {
		t.finish(StatusError, nil, err.Error(), "error en la búsqueda")
		hooks.OnTaskStatus(ctx, string(t.Status()))
		return nil, err
	}

	in := m.store.Integrate(res.Graph, req.Merge)
	if in.Merged {
		m.logger.Info("graph merged", "task", t.ID,
			"new_vertices", in.Stats.NewVertices,
			"updated_vertices", in.Stats.UpdatedVertices,
			"new_edges", in.Stats.NewEdges,
			"existing_edges", in.Stats.ExistingEdges,
		)
	}

	status := StatusCompleted
	if crawler.State() == crawl.StateCancelled {
		status = StatusCancelled
	}
	t.finish(status, in.Graph, "", fmt.Sprintf("%d vértices, %d aristas", in.Graph.VertexCount(), in.Graph.EdgeCount()))
	hooks.OnTaskStatus(ctx, string(t.Status()))
	return &Outcome{Task: t, Crawl: res, Integration: in}, nil
}
