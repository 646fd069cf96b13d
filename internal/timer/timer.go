// Package timer implements the rest countdown used between sets. One
// engine, one timer: it counts down once per second while running and fires
// its completion callback exactly once each time it reaches zero.
package timer

import (
	"fmt"
	"sync"
	"time"
)

// Duration bounds in seconds. SetDuration clamps into this range so the
// timer can never be configured to zero or negative.
const (
	MinDurationSeconds = 5
	MaxDurationSeconds = 300
)

// DefaultDurationSeconds is the rest duration used when none is configured.
const DefaultDurationSeconds = 90

// State is a snapshot of the engine for display.
type State struct {
	SecondsRemaining int    `json:"secondsRemaining"`
	IsRunning        bool   `json:"isRunning"`
	DurationSeconds  int    `json:"durationSeconds"`
	Formatted        string `json:"formatted"`
}

// Engine is a single countdown timer. Safe for concurrent use.
type Engine struct {
	mu         sync.Mutex
	duration   int
	remaining  int
	running    bool
	interval   time.Duration
	onComplete func()
	stop       chan struct{}
}

// New creates a stopped engine with the given duration (clamped) and an
// optional completion callback. The callback runs on the tick goroutine and
// must not block.
func New(durationSeconds int, onComplete func()) *Engine {
	d := clamp(durationSeconds)
	return &Engine{
		duration:   d,
		remaining:  d,
		interval:   time.Second,
		onComplete: onComplete,
	}
}

func clamp(d int) int {
	if d < MinDurationSeconds {
		return MinDurationSeconds
	}
	if d > MaxDurationSeconds {
		return MaxDurationSeconds
	}
	return d
}

// Start resumes the countdown from the current remaining seconds. Calling
// it while running, or at zero, is a no-op, so a double press can never
// spawn a second ticker.
func (e *Engine) Start() {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.running || e.remaining == 0 {
		return
	}
	e.running = true
	e.stop = make(chan struct{})
	go e.run(e.stop, e.interval)
}

func (e *Engine) run(stop chan struct{}, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			if done := e.tick(); done {
				return
			}
		}
	}
}

// tick decrements once. Returns true when the goroutine should exit, either
// because the countdown finished or because it was stopped mid-tick.
func (e *Engine) tick() bool {
	e.mu.Lock()
	if !e.running {
		e.mu.Unlock()
		return true
	}
	e.remaining--
	if e.remaining > 0 {
		e.mu.Unlock()
		return false
	}
	e.remaining = 0
	e.running = false
	e.stop = nil
	cb := e.onComplete
	e.mu.Unlock()

	if cb != nil {
		cb()
	}
	return true
}

// Pause stops the countdown, keeping the remaining seconds.
func (e *Engine) Pause() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.stopLocked()
}

// Reset stops the countdown and restores the full duration. It never fires
// the completion callback.
func (e *Engine) Reset() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.stopLocked()
	e.remaining = e.duration
}

// SetDuration stops the timer and sets both the duration and the remaining
// seconds to d, clamped to [MinDurationSeconds, MaxDurationSeconds].
func (e *Engine) SetDuration(d int) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.stopLocked()
	e.duration = clamp(d)
	e.remaining = e.duration
}

// Close stops any pending tick. Call on teardown so no tick fires after the
// owner is gone.
func (e *Engine) Close() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.stopLocked()
}

func (e *Engine) stopLocked() {
	if !e.running {
		return
	}
	e.running = false
	if e.stop != nil {
		close(e.stop)
		e.stop = nil
	}
}

// Snapshot returns the current state.
func (e *Engine) Snapshot() State {
	e.mu.Lock()
	defer e.mu.Unlock()
	return State{
		SecondsRemaining: e.remaining,
		IsRunning:        e.running,
		DurationSeconds:  e.duration,
		Formatted:        FormatSeconds(e.remaining),
	}
}

// FormatSeconds renders a second count as minutes:seconds with zero-padded
// seconds, e.g. 90 -> "1:30".
func FormatSeconds(secs int) string {
	return fmt.Sprintf("%d:%02d", secs/60, secs%60)
}
