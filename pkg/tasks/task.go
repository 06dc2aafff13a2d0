package tasks

import (
	"fmt"
	"sync"
	"time"

	"github.com/matzehuels/citegraph/pkg/crawl"
	"github.com/matzehuels/citegraph/pkg/graph"
)

// Status is a task lifecycle state.
type Status string

const (
	StatusPending    Status = "pendiente"
	StatusInProgress Status = "en_progreso"
	StatusCompleted  Status = "completado"
	StatusCancelled  Status = "cancelado"
	StatusError      Status = "error"
)

// Terminal reports whether s is completed, cancelled or error.
func (s Status) Terminal() bool {
	return s == StatusCompleted || s == StatusCancelled || s == StatusError
}

// Snapshot is a point-in-time copy of a task's progress.
type Snapshot struct {
	ID       string  `json:"task_id"`
	Status   Status  `json:"estado"`
	Vertices int     `json:"n_vertices"`
	Edges    int     `json:"n_aristas"`
	Depth    int     `json:"nivel_actual"`
	MaxDepth int     `json:"nivel_max"`
	Pending  int     `json:"pendientes"`
	Elapsed  string  `json:"tiempo_transcurrido"`
	Message  string  `json:"mensaje"`
	Percent  float64 `json:"porcentaje"`
	Error    string  `json:"error,omitempty"`

	// Calls counts provider requests made so far.
	Calls crawl.Stats `json:"consultas"`
}

// Task tracks one crawl. All methods are safe for concurrent use.
type Task struct {
	ID string

	mu        sync.RWMutex
	status    Status
	progress  crawl.Progress
	calls     crawl.Stats
	maxDepth  int
	message   string
	started   time.Time
	completed time.Time
	err       string
	graph     *graph.Graph
	cancel    func()
	done      chan struct{}
}

func newTask(id string) *Task {
	return &Task{ID: id, status: StatusPending, done: make(chan struct{})}
}

// Status returns the current lifecycle state.
func (t *Task) Status() Status {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.status
}

// Err returns the error message of a failed task, or "".
func (t *Task) Err() string {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.err
}

// Graph returns a copy of the task's result graph, or nil when the task
// produced none.
func (t *Task) Graph() *graph.Graph {
	t.mu.RLock()
	defer t.mu.RUnlock()
	if t.graph == nil {
		return nil
	}
	return t.graph.Clone()
}

// Done is closed once the task reaches a terminal state.
func (t *Task) Done() <-chan struct{} { return t.done }

// Snapshot returns the task's progress. Percent is current level over
// maximum level.
func (t *Task) Snapshot() Snapshot {
	t.mu.RLock()
	defer t.mu.RUnlock()
	s := Snapshot{
		ID:       t.ID,
		Status:   t.status,
		Vertices: t.progress.Vertices,
		Edges:    t.progress.Edges,
		Depth:    t.progress.Depth,
		MaxDepth: t.maxDepth,
		Pending:  t.progress.Pending,
		Elapsed:  t.elapsed(),
		Message:  t.message,
		Error:    t.err,
		Calls:    t.calls,
	}
	if t.maxDepth > 0 {
		s.Percent = float64(s.Depth) / float64(t.maxDepth) * 100
	}
	return s
}

// elapsed formats the run time as mm:ss; "00:00" before the task starts.
func (t *Task) elapsed() string {
	if t.started.IsZero() {
		return "00:00"
	}
	end := t.completed
	if end.IsZero() {
		end = time.Now()
	}
	return formatElapsed(end.Sub(t.started))
}

func formatElapsed(d time.Duration) string {
	secs := int(d.Seconds())
	return fmt.Sprintf("%02d:%02d", secs/60, secs%60)
}

func (t *Task) begin(maxDepth int, cancel func()) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.status = StatusInProgress
	t.started = time.Now()
	t.maxDepth = maxDepth
	t.cancel = cancel
}

func (t *Task) setProgress(p crawl.Progress, calls crawl.Stats) {
	t.mu.Lock()
	t.progress = p
	t.calls = calls
	t.message = fmt.Sprintf("%d vértices, %d aristas, nivel %d", p.Vertices, p.Edges, p.Depth)
	t.mu.Unlock()
}

// requestCancel marks an in-progress task cancelled and cancels its crawl.
func (t *Task) requestCancel() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.status != StatusInProgress {
		return false
	}
	t.status = StatusCancelled
	t.message = "búsqueda cancelada"
	if t.cancel != nil {
		t.cancel()
	}
	return true
}

// finish records the outcome. A task already cancelled stays cancelled.
func (t *Task) setCalls(calls crawl.Stats) {
	t.mu.Lock()
	t.calls = calls
	t.mu.Unlock()
}

func (t *Task) finish(status Status, g *graph.Graph, errMsg, message string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.status == StatusCancelled {
		status = StatusCancelled
		errMsg = ""
	}
	t.status = status
	t.graph = g
	t.err = errMsg
	if message != "" {
		t.message = message
	}
	t.completed = time.Now()
	close(t.done)
}
