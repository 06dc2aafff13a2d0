package cli

import (
	"errors"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/matzehuels/citegraph/pkg/tasks"
)

type fakeProgress struct {
	snap      tasks.Snapshot
	err       error
	cancelled int
}

func (f *fakeProgress) Progress(string) (tasks.Snapshot, error) { return f.snap, f.err }
func (f *fakeProgress) Cancel(string) error {
	f.cancelled++
	return nil
}

func TestSearchModelPollsUntilTerminal(t *testing.T) {
	src := &fakeProgress{snap: tasks.Snapshot{Status: tasks.StatusInProgress, Percent: 40, Vertices: 12}}
	m := NewSearchModel(src, "t1", "Root paper")

	msg := m.Init()()
	next, cmd := m.Update(msg)
	m = next.(SearchModel)
	if cmd == nil {
		t.Fatal("running task should schedule another poll")
	}
	if m.Snapshot().Vertices != 12 {
		t.Errorf("snapshot not stored: %+v", m.Snapshot())
	}
	if !strings.Contains(m.View(), "Root paper") {
		t.Error("view should show the title")
	}

	src.snap.Status = tasks.StatusCompleted
	next, cmd = m.Update(m.poll())
	m = next.(SearchModel)
	if cmd == nil {
		t.Fatal("terminal status should quit")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("expected tea.Quit")
	}
	if m.Snapshot().Status != tasks.StatusCompleted {
		t.Errorf("status = %s", m.Snapshot().Status)
	}
}

func TestSearchModelCancelOnce(t *testing.T) {
	src := &fakeProgress{snap: tasks.Snapshot{Status: tasks.StatusInProgress}}
	m := NewSearchModel(src, "t1", "Root")

	for range 2 {
		next, _ := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
		m = next.(SearchModel)
	}
	if src.cancelled != 1 {
		t.Errorf("Cancel called %d times, want 1", src.cancelled)
	}
	if !strings.Contains(m.View(), "cancelling") {
		t.Error("view should show the pending cancellation")
	}
}

func TestSearchModelError(t *testing.T) {
	boom := errors.New("gone")
	src := &fakeProgress{err: boom}
	m := NewSearchModel(src, "t1", "Root")

	next, cmd := m.Update(m.Init()())
	m = next.(SearchModel)
	if !errors.Is(m.Err(), boom) {
		t.Errorf("Err = %v", m.Err())
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("polling error should quit")
	}
}

func TestRenderBar(t *testing.T) {
	for _, p := range []float64{-5, 0, 50, 100, 140} {
		bar := renderBar(p)
		if n := strings.Count(bar, "█") + strings.Count(bar, "░"); n != barWidth {
			t.Errorf("renderBar(%v) has %d cells, want %d", p, n, barWidth)
		}
	}
}
