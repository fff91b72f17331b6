package cli

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/matzehuels/hiergraph/pkg/plugin"
)

// Spinner is a progress indicator for algorithm runs. It implements
// [plugin.Progress]: the algorithm's step count and comment are shown next
// to the message, and cancelling the context cancels the run.
type Spinner struct {
	*plugin.SimpleProgress

	w       io.Writer
	message string
	parent  context.Context
	ctx     context.Context
	cancel  context.CancelFunc
	done    chan struct{}
	stopped chan struct{}
	frames  []string
	mu      sync.Mutex
	width   int
}

// newSpinner creates a spinner that stops when ctx is cancelled.
func newSpinner(ctx context.Context, w io.Writer, message string) *Spinner {
	spinnerCtx, cancel := context.WithCancel(ctx)
	return &Spinner{
		SimpleProgress: &plugin.SimpleProgress{},
		w:              w,
		message:        message,
		parent:         ctx,
		ctx:            spinnerCtx,
		cancel:         cancel,
		done:           make(chan struct{}),
		stopped:        make(chan struct{}),
		frames:         []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"},
	}
}

// Progress records the step and reports Cancel once the parent context is
// done.
func (s *Spinner) Progress(step, total int) plugin.ProgressState {
	if s.parent.Err() != nil {
		s.Cancel()
	}
	return s.SimpleProgress.Progress(step, total)
}

// Start begins the spinner animation.
func (s *Spinner) Start() {
	go func() {
		defer close(s.stopped)
		ticker := time.NewTicker(80 * time.Millisecond)
		defer ticker.Stop()

		i := 0
		for {
			select {
			case <-s.ctx.Done():
				s.clearLine()
				return
			case <-s.done:
				return
			case <-ticker.C:
				s.draw(s.frames[i%len(s.frames)])
				i++
			}
		}
	}()
}

func (s *Spinner) status() string {
	msg := s.message
	if step, total := s.Steps(); total > 0 {
		msg += fmt.Sprintf(" %d/%d", step, total)
	}
	if c := s.Comment(); c != "" {
		msg += " " + c
	}
	return msg
}

func (s *Spinner) draw(frame string) {
	msg := s.status()
	s.mu.Lock()
	defer s.mu.Unlock()
	s.width = max(s.width, len(msg)+2)
	fmt.Fprintf(s.w, "\r%s %s", styleIconSpinner.Render(frame), StyleDim.Render(msg))
}

// Stop stops the spinner and clears the line. It is idempotent.
func (s *Spinner) Stop() {
	s.cancel()
	s.mu.Lock()
	select {
	case <-s.done:
	default:
		close(s.done)
	}
	s.mu.Unlock()
	<-s.stopped
	s.clearLine()
}

func (s *Spinner) clearLine() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.width == 0 {
		return
	}
	fmt.Fprintf(s.w, "\r%s\r", strings.Repeat(" ", s.width+2))
	s.width = 0
}

// Cancelled reports whether the parent context ended the spinner.
func (s *Spinner) Cancelled() bool {
	return s.parent.Err() != nil
}
