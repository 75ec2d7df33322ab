package services

import (
	"sync"
	"time"

	"github.com/benbjohnson/clock"

	"github.com/custodia-labs/docsearch/internal/core/domain"
)

// Progress bounds.
const (
	progressCap  = 90
	progressDone = 100
)

// ProgressReporter estimates completion of an outstanding request for UI
// feedback. The percentage grows by a fixed step on a fixed interval, stays
// below 100 until Complete, then shows 100 briefly before clearing to 0.
// It never influences whether results are valid.
type ProgressReporter struct {
	mu       sync.Mutex
	clock    clock.Clock
	interval time.Duration
	step     int
	clear    time.Duration
	onChange func()

	percent int
	active  bool
	gen     uint64
	timer   *clock.Timer
}

// NewProgressReporter creates a reporter. onChange is called after every
// percentage change, from the timer goroutine. Non-positive timings fall
// back to the defaults.
func NewProgressReporter(clk clock.Clock, interval time.Duration, step int, clear time.Duration, onChange func()) *ProgressReporter {
	if clk == nil {
		clk = clock.New()
	}
	if onChange == nil {
		onChange = func() {}
	}
	p := &ProgressReporter{
		clock:    clk,
		onChange: onChange,
	}
	p.setTiming(interval, step, clear)
	return p
}

func (p *ProgressReporter) setTiming(interval time.Duration, step int, clear time.Duration) {
	defaults := domain.DefaultAppSettings().Timing
	if interval <= 0 {
		interval = defaults.ProgressInterval
	}
	if step < 1 {
		step = defaults.ProgressStep
	}
	if clear <= 0 {
		clear = defaults.ProgressClear
	}
	p.interval = interval
	p.step = step
	p.clear = clear
}

// Start begins a new estimate at 0%, replacing any previous one.
func (p *ProgressReporter) Start() {
	p.mu.Lock()
	p.stopLocked()
	p.gen++
	p.percent = 0
	p.active = true
	p.scheduleTickLocked(p.gen)
	p.mu.Unlock()

	p.onChange()
}

func (p *ProgressReporter) scheduleTickLocked(gen uint64) {
	p.timer = p.clock.AfterFunc(p.interval, func() {
		p.tick(gen)
	})
}

func (p *ProgressReporter) tick(gen uint64) {
	p.mu.Lock()
	if gen != p.gen || !p.active {
		p.mu.Unlock()
		return
	}
	next := p.percent + p.step
	if next > progressCap {
		next = progressCap
	}
	changed := next != p.percent
	p.percent = next
	if next < progressCap {
		p.scheduleTickLocked(gen)
	} else {
		p.timer = nil
	}
	p.mu.Unlock()

	if changed {
		p.onChange()
	}
}

// Complete snaps the estimate to 100% and clears it after a short delay.
func (p *ProgressReporter) Complete() {
	p.mu.Lock()
	if !p.active {
		p.mu.Unlock()
		return
	}
	p.stopLocked()
	p.gen++
	gen := p.gen
	p.percent = progressDone
	p.active = false
	p.timer = p.clock.AfterFunc(p.clear, func() {
		p.mu.Lock()
		if gen != p.gen {
			p.mu.Unlock()
			return
		}
		p.percent = 0
		p.timer = nil
		p.mu.Unlock()
		p.onChange()
	})
	p.mu.Unlock()

	p.onChange()
}

// Reset clears the estimate immediately.
func (p *ProgressReporter) Reset() {
	p.mu.Lock()
	p.stopLocked()
	p.gen++
	changed := p.percent != 0 || p.active
	p.percent = 0
	p.active = false
	p.mu.Unlock()

	if changed {
		p.onChange()
	}
}

func (p *ProgressReporter) stopLocked() {
	if p.timer != nil {
		p.timer.Stop()
		p.timer = nil
	}
}

// Percent returns the current estimate.
func (p *ProgressReporter) Percent() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.percent
}

// Active reports whether a request is being tracked.
func (p *ProgressReporter) Active() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.active
}

// Configure changes the timing for subsequent estimates.
func (p *ProgressReporter) Configure(interval time.Duration, step int, clear time.Duration) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.setTiming(interval, step, clear)
}
