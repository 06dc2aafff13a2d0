package cli

import (
	"bytes"
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// syncBuffer guards a bytes.Buffer shared with the spinner goroutine.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func bufferedSpinner(ctx context.Context, msg string) (*Spinner, *syncBuffer) {
	s := newSpinnerWithContext(ctx, msg)
	buf := &syncBuffer{}
	s.w = buf
	return s, buf
}

func TestSpinnerDrawsAndClears(t *testing.T) {
	s, buf := bufferedSpinner(context.Background(), "crawling")
	s.Start()
	time.Sleep(200 * time.Millisecond)
	s.Stop()

	out := buf.String()
	assert.Contains(t, out, "crawling")
	assert.True(t, strings.HasSuffix(out, "\r"), "line should be cleared on stop")
	assert.False(t, s.Cancelled())
}

func TestSpinnerSetMessage(t *testing.T) {
	s, buf := bufferedSpinner(context.Background(), "first")
	s.Start()
	s.SetMessage("level 2/3, 40 papers")
	time.Sleep(200 * time.Millisecond)
	s.Stop()

	assert.Contains(t, buf.String(), "level 2/3, 40 papers")
}

func TestSpinnerParentCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	s, _ := bufferedSpinner(ctx, "waiting")
	s.Start()
	cancel()

	done := make(chan struct{})
	go func() {
		s.Stop()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Stop blocked after parent cancel")
	}
	assert.True(t, s.Cancelled())
}

func TestSpinnerStopTwice(t *testing.T) {
	s, _ := bufferedSpinner(context.Background(), "x")
	s.Start()
	s.Stop()
	require.NotPanics(t, s.Stop)
}

func TestSpinnerStopWithoutStart(t *testing.T) {
	s, buf := bufferedSpinner(context.Background(), "x")
	require.NotPanics(t, s.Stop)
	assert.Empty(t, buf.String())
}

func TestSpinnerNilParent(t *testing.T) {
	//nolint:staticcheck // nil parent falls back to Background
	s := newSpinnerWithContext(nil, "x")
	require.NotNil(t, s)
	assert.False(t, s.Cancelled())
}
