package cli

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/matzehuels/citegraph/pkg/tasks"
)

// pollInterval is how often the progress view refreshes its snapshot.
const pollInterval = 150 * time.Millisecond

const barWidth = 30

var (
	barFullStyle  = lipgloss.NewStyle().Foreground(colorCyan)
	barEmptyStyle = lipgloss.NewStyle().Foreground(colorDim)
	labelStyle    = lipgloss.NewStyle().Foreground(colorGray).Width(10)
)

// =============================================================================
// SearchModel - live crawl progress
// =============================================================================

// progressSource is the part of the service the progress view polls.
type progressSource interface {
	Progress(id string) (tasks.Snapshot, error)
	Cancel(id string) error
}

type tickMsg time.Time

func tick() tea.Cmd {
	return tea.Tick(pollInterval, func(t time.Time) tea.Msg { return tickMsg(t) })
}

// SearchModel is the bubbletea model that follows one background search
// until it reaches a terminal state. Pressing q or ctrl+c cancels the
// search; the view keeps polling until the cancellation lands.
type SearchModel struct {
	src        progressSource
	taskID     string
	title      string
	snap       tasks.Snapshot
	cancelling bool
	err        error
}

// NewSearchModel creates a progress view for taskID.
func NewSearchModel(src progressSource, taskID, title string) SearchModel {
	return SearchModel{src: src, taskID: taskID, title: title}
}

// Snapshot returns the last polled progress.
func (m SearchModel) Snapshot() tasks.Snapshot { return m.snap }

// Err returns the polling error that stopped the view, if any.
func (m SearchModel) Err() error { return m.err }

func (m SearchModel) Init() tea.Cmd {
	return m.poll
}

func (m SearchModel) poll() tea.Msg {
	snap, err := m.src.Progress(m.taskID)
	if err != nil {
		return err
	}
	return snap
}

func (m SearchModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			if !m.cancelling {
				m.cancelling = true
				// A task that just finished is not cancellable; the next
				// poll picks up its final state either way.
				_ = m.src.Cancel(m.taskID)
			}
			return m, m.poll
		}
	case tickMsg:
		return m, m.poll
	case tasks.Snapshot:
		m.snap = msg
		if msg.Status.Terminal() {
			return m, tea.Quit
		}
		return m, tick()
	case error:
		m.err = msg
		return m, tea.Quit
	}
	return m, nil
}

func (m SearchModel) View() string {
	var b strings.Builder
	b.WriteString(StyleTitle.Render(truncate(m.title, 60)))
	b.WriteString("\n\n")

	s := m.snap
	b.WriteString(renderBar(s.Percent))
	b.WriteString(StyleDim.Render(fmt.Sprintf(" %3.0f%%", s.Percent)))
	b.WriteString("\n\n")

	row := func(label, value string) {
		b.WriteString(labelStyle.Render(label))
		b.WriteString(StyleNumber.Render(value))
		b.WriteString("\n")
	}
	row("status", string(s.Status))
	row("level", fmt.Sprintf("%d/%d", s.Depth, s.MaxDepth))
	row("vertices", fmt.Sprint(s.Vertices))
	row("edges", fmt.Sprint(s.Edges))
	row("pending", fmt.Sprint(s.Pending))
	row("elapsed", s.Elapsed)

	b.WriteString("\n")
	if m.cancelling {
		b.WriteString(StyleWarning.Render("cancelling..."))
	} else {
		b.WriteString(StyleDim.Render("q cancel"))
	}
	b.WriteString("\n")
	return b.String()
}

func renderBar(percent float64) string {
	filled := int(percent / 100 * barWidth)
	filled = min(max(filled, 0), barWidth)
	return barFullStyle.Render(strings.Repeat("█", filled)) +
		barEmptyStyle.Render(strings.Repeat("░", barWidth-filled))
}
