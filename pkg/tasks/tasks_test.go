package tasks

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/citegraph/pkg/crawl"
	cgerrors "github.com/matzehuels/citegraph/pkg/errors"
	"github.com/matzehuels/citegraph/pkg/graph"
)

type fakeProvider struct {
	root      string
	neighbors map[string][]string
	authors   map[string][]string

	// block, when set, makes Neighbors for that id wait for cancellation.
	block   string
	entered chan struct{}
	fail    error
}

func (p *fakeProvider) Name() string { return "Fake" }

func (p *fakeProvider) work(id string) crawl.Work {
	info := graph.NewArticleInfo()
	info.Title = "T-" + id
	info.Authors = p.authors[id]
	info.PaperID = id
	return crawl.Work{ID: id, Info: info}
}

func (p *fakeProvider) Search(ctx context.Context, query string) (*crawl.Work, error) {
	if p.root == "" {
		return nil, nil
	}
	w := p.work(p.root)
	return &w, nil
}

func (p *fakeProvider) Neighbors(ctx context.Context, id string, dir crawl.Direction, limit int) ([]crawl.Work, error) {
	if p.fail != nil {
		return nil, p.fail
	}
	if id == p.block {
		close(p.entered)
		<-ctx.Done()
		return nil, ctx.Err()
	}
	var out []crawl.Work
	for _, n := range p.neighbors[id] {
		out = append(out, p.work(n))
	}
	return out, nil
}

func quietManager() *Manager {
	return NewManager(NewStore(), log.New(io.Discard))
}

func tree() *fakeProvider {
	return &fakeProvider{
		root: "r",
		neighbors: map[string][]string{
			"r": {"a", "b"},
			"a": {"c"},
			"b": {"d"},
		},
	}
}

func TestRequestValidate(t *testing.T) {
	p := tree()
	tests := []struct {
		name string
		req  Request
		ok   bool
	}{
		{"valid", Request{Query: "paper", Provider: p, Direction: crawl.Citations, Depth: 1}, true},
		{"zero depth", Request{Query: "paper", Provider: p, Direction: crawl.References}, true},
		{"short query", Request{Query: "ab", Provider: p, Direction: crawl.Citations}, false},
		{"no provider", Request{Query: "paper", Direction: crawl.Citations}, false},
		{"bad direction", Request{Query: "paper", Provider: p, Direction: "autor"}, false},
		{"too deep", Request{Query: "paper", Provider: p, Direction: crawl.Citations, Depth: 6}, false},
		{"fan-out", Request{Query: "paper", Provider: p, Direction: crawl.Citations, MaxChildren: 101}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.req.Validate()
			if tt.ok {
				assert.NoError(t, err)
				return
			}
			assert.True(t, cgerrors.Is(err, cgerrors.ErrCodeInvalidInput), "err = %v", err)
		})
	}
}

func TestRunReplaces(t *testing.T) {
	m := quietManager()
	out, err := m.Run(context.Background(), Request{
		Query: "paper", Provider: tree(), Direction: crawl.Citations, Depth: 2,
	})
	require.NoError(t, err)

	assert.Equal(t, StatusCompleted, out.Task.Status())
	assert.False(t, out.Integration.Merged)
	assert.Equal(t, 5, out.Integration.Graph.VertexCount())
	assert.Equal(t, 4, out.Integration.Graph.EdgeCount())

	snap := out.Task.Snapshot()
	assert.Equal(t, 2, snap.MaxDepth)
	assert.Equal(t, 2, snap.Depth)
	assert.Equal(t, 100.0, snap.Percent)
	assert.Equal(t, 5, snap.Vertices)
	assert.Empty(t, snap.Error)
	assert.Equal(t, crawl.Stats{Searches: 1, Papers: 3}, snap.Calls)

	cur := m.Store().Snapshot()
	require.NotNil(t, cur)
	assert.True(t, cur.HasArc("T-a", "T-r"), "citing arc points citing->cited")
}

func TestRunMerges(t *testing.T) {
	m := quietManager()
	_, err := m.Run(context.Background(), Request{Query: "paper", Provider: tree(), Direction: crawl.Citations})
	require.NoError(t, err)

	other := &fakeProvider{root: "x", neighbors: map[string][]string{"x": {"a"}}}
	out, err := m.Run(context.Background(), Request{
		Query: "other", Provider: other, Direction: crawl.References, Merge: true,
	})
	require.NoError(t, err)

	assert.True(t, out.Integration.Merged)
	assert.Equal(t, 1, out.Integration.Stats.NewVertices)
	assert.Equal(t, 1, out.Integration.Stats.NewEdges)
	assert.Equal(t, 4, m.Store().Snapshot().VertexCount())
}

func TestMergeWithoutCurrentGraphReplaces(t *testing.T) {
	m := quietManager()
	out, err := m.Run(context.Background(), Request{
		Query: "paper", Provider: tree(), Direction: crawl.Citations, Merge: true,
	})
	require.NoError(t, err)
	assert.False(t, out.Integration.Merged)
	assert.True(t, m.Store().Loaded())
}

func TestRunNoMatch(t *testing.T) {
	m := quietManager()
	out, err := m.Run(context.Background(), Request{
		Query: "nothing", Provider: &fakeProvider{}, Direction: crawl.Citations,
	})
	require.NoError(t, err)
	assert.Equal(t, StatusCompleted, out.Task.Status())
	assert.Zero(t, out.Integration.Graph.VertexCount())
}

func TestRunFatalError(t *testing.T) {
	m := quietManager()
	boom := errors.New("boom")
	p := tree()
	p.fail = boom

	_, err := m.Run(context.Background(), Request{Query: "paper", Provider: p, Direction: crawl.Citations})
	require.ErrorIs(t, err, boom)
	assert.False(t, m.Store().Loaded(), "a failed crawl is not integrated")
}

func TestStartAndPoll(t *testing.T) {
	m := quietManager()
	task, err := m.Start(context.Background(), Request{
		Query: "paper", Provider: tree(), Direction: crawl.Citations, Depth: 2,
	})
	require.NoError(t, err)

	select {
	case <-task.Done():
	case <-time.After(5 * time.Second):
		t.Fatal("task did not finish")
	}
	got, err := m.Get(task.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusCompleted, got.Status())
	require.NotNil(t, got.Graph())
	assert.Equal(t, 5, got.Graph().VertexCount())

	assert.ErrorIs(t, m.Cancel(task.ID), ErrNotCancellable)
}

func TestStartValidates(t *testing.T) {
	m := quietManager()
	_, err := m.Start(context.Background(), Request{Query: "x"})
	assert.True(t, cgerrors.Is(err, cgerrors.ErrCodeInvalidInput))
}

func TestCancelKeepsPartialGraph(t *testing.T) {
	m := quietManager()
	p := tree()
	p.block = "a"
	p.entered = make(chan struct{})

	task, err := m.Start(context.Background(), Request{
		Query: "paper", Provider: p, Direction: crawl.Citations, Depth: 2,
	})
	require.NoError(t, err)

	select {
	case <-p.entered:
	case <-time.After(5 * time.Second):
		t.Fatal("crawl never reached the blocking lookup")
	}
	require.NoError(t, m.Cancel(task.ID))
	<-task.Done()
	m.Wait()

	assert.Equal(t, StatusCancelled, task.Status())
	assert.Empty(t, task.Err())
	g := task.Graph()
	require.NotNil(t, g)
	assert.Equal(t, 3, g.VertexCount(), "root and its two citing works")
	assert.Equal(t, 3, m.Store().Snapshot().VertexCount())
}

func TestGetUnknown(t *testing.T) {
	m := quietManager()
	_, err := m.Get("nope")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, m.Cancel("nope"), ErrNotFound)
}

func TestSnapshotBeforeStart(t *testing.T) {
	task := newTask("id")
	snap := task.Snapshot()
	assert.Equal(t, StatusPending, snap.Status)
	assert.Equal(t, "00:00", snap.Elapsed)
	assert.Zero(t, snap.Percent)
	assert.Nil(t, task.Graph())
}

func TestFormatElapsed(t *testing.T) {
	assert.Equal(t, "00:00", formatElapsed(0))
	assert.Equal(t, "01:05", formatElapsed(65*time.Second))
	assert.Equal(t, "61:01", formatElapsed(3661*time.Second))
}

func TestStatusTerminal(t *testing.T) {
	assert.False(t, StatusPending.Terminal())
	assert.False(t, StatusInProgress.Terminal())
	assert.True(t, StatusCompleted.Terminal())
	assert.True(t, StatusCancelled.Terminal())
	assert.True(t, StatusError.Terminal())
}

func TestStoreUpdateAndClear(t *testing.T) {
	s := NewStore()
	assert.Nil(t, s.Snapshot())

	err := s.Update(func(cur *graph.Graph) (*graph.Graph, error) {
		assert.Nil(t, cur)
		g := graph.New()
		g.AddVertex("a")
		return g, nil
	})
	require.NoError(t, err)
	assert.True(t, s.Loaded())

	boom := errors.New("boom")
	assert.ErrorIs(t, s.Update(func(*graph.Graph) (*graph.Graph, error) { return nil, boom }), boom)

	snap := s.Snapshot()
	snap.AddVertex("b")
	_ = s.View(func(g *graph.Graph) error {
		assert.Equal(t, 1, g.VertexCount(), "snapshots are copies")
		return nil
	})

	s.Clear()
	assert.False(t, s.Loaded())
}
