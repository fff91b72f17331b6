package plugin

import (
	"sync"
	"time"

	"github.com/charmbracelet/log"
)

// ProgressState tells a running algorithm whether to go on.
type ProgressState int

const (
	// Continue lets the algorithm run.
	Continue ProgressState = iota
	// Cancel asks the algorithm to abort. Its changes are rolled back.
	Cancel
	// Stop asks the algorithm to finish early. Its changes are kept.
	Stop
)

func (s ProgressState) String() string {
	switch s {
	case Continue:
		return "continue"
	case Cancel:
		return "cancel"
	case Stop:
		return "stop"
	}
	return "unknown"
}

// Progress receives progress reports from a running algorithm.
type Progress interface {
	// Progress reports that step out of total steps are done and returns
	// the requested state.
	Progress(step, total int) ProgressState
	SetComment(comment string)
	SetError(msg string)
	Error() string
	State() ProgressState
}

// SimpleProgress records the state of a run. Cancel and Stop may be
// called from another goroutine.
type SimpleProgress struct {
	mu      sync.Mutex
	state   ProgressState
	comment string
	err     string
	step    int
	total   int
}

func (p *SimpleProgress) Progress(step, total int) ProgressState {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.step, p.total = step, total
	return p.state
}

func (p *SimpleProgress) SetComment(comment string) {
	p.mu.Lock()
	p.comment = comment
	p.mu.Unlock()
}

func (p *SimpleProgress) Comment() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.comment
}

func (p *SimpleProgress) SetError(msg string) {
	p.mu.Lock()
	p.err = msg
	p.mu.Unlock()
}

func (p *SimpleProgress) Error() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.err
}

func (p *SimpleProgress) State() ProgressState {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.state
}

// Cancel requests the run to abort.
func (p *SimpleProgress) Cancel() { p.set(Cancel) }

// Stop requests the run to finish early.
func (p *SimpleProgress) Stop() { p.set(Stop) }

func (p *SimpleProgress) set(s ProgressState) {
	p.mu.Lock()
	p.state = s
	p.mu.Unlock()
}

// Steps returns the last reported step and step count.
func (p *SimpleProgress) Steps() (step, total int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.step, p.total
}

// NoopProgress ignores reports and always continues.
type NoopProgress struct{}

func (NoopProgress) Progress(int, int) ProgressState { return Continue }
func (NoopProgress) SetComment(string)               {}
func (NoopProgress) SetError(string)                 {}
func (NoopProgress) Error() string                   { return "" }
func (NoopProgress) State() ProgressState            { return Continue }

// LogProgress writes progress reports to a logger at debug level, at most
// once per interval.
type LogProgress struct {
	SimpleProgress
	logger   *log.Logger
	interval time.Duration
	last     time.Time
}

// NewLogProgress returns a LogProgress reporting to logger every interval.
func NewLogProgress(logger *log.Logger, interval time.Duration) *LogProgress {
	return &LogProgress{logger: logger, interval: interval}
}

func (p *LogProgress) Progress(step, total int) ProgressState {
	state := p.SimpleProgress.Progress(step, total)
	if now := time.Now(); step == total || now.Sub(p.last) >= p.interval {
		p.last = now
		p.logger.Debug("progress", "step", step, "of", total, "comment", p.Comment())
	}
	return state
}

func (p *LogProgress) SetComment(comment string) {
	p.SimpleProgress.SetComment(comment)
	p.logger.Debug(comment)
}

func (p *LogProgress) SetError(msg string) {
	p.SimpleProgress.SetError(msg)
	p.logger.Error(msg)
}
