package cli

import (
	"bytes"
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/matzehuels/hiergraph/pkg/plugin"
)

// syncBuffer is a bytes.Buffer safe for the spinner goroutine.
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

func TestSpinnerShowsSteps(t *testing.T) {
	var buf syncBuffer
	s := newSpinner(context.Background(), &buf, "Degree")
	s.Start()
	s.Progress(3, 10)
	s.SetComment("counting")
	time.Sleep(200 * time.Millisecond)
	s.Stop()

	if out := buf.String(); !strings.Contains(out, "Degree 3/10 counting") {
		t.Errorf("spinner output = %q", out)
	}
	if s.Cancelled() {
		t.Error("Stop must not count as cancellation")
	}
}

func TestSpinnerCancelledByContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	s := newSpinner(ctx, &syncBuffer{}, "Testing")
	s.Start()
	if got := s.Progress(1, 2); got != plugin.Continue {
		t.Fatalf("Progress() = %v before cancel", got)
	}
	cancel()
	if got := s.Progress(2, 2); got != plugin.Cancel {
		t.Errorf("Progress() = %v after cancel, want cancel", got)
	}
	if !s.Cancelled() {
		t.Error("spinner should be cancelled after context cancellation")
	}
	s.Stop()
}

func TestSpinnerStopIsIdempotent(t *testing.T) {
	s := newSpinner(context.Background(), &syncBuffer{}, "Testing idempotent stop...")
	s.Start()
	s.Stop()
	s.Stop()
}

func TestSpinnerAsProgress(t *testing.T) {
	var p plugin.Progress = newSpinner(context.Background(), &syncBuffer{}, "x")
	p.SetError("boom")
	if p.Error() != "boom" || p.State() != plugin.Continue {
		t.Errorf("error = %q, state = %v", p.Error(), p.State())
	}
}
