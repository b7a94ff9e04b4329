package watch

import (
	"context"
	"log/slog"
	"time"
)

// Debouncer coalesces bursts of change notifications into single rebuild
// firings. Two timers bound the behavior: a quiet window that restarts on
// every trigger, and a max delay so a steady stream of changes cannot
// postpone a rebuild indefinitely.
type Debouncer struct {
	quietWindow time.Duration
	maxDelay    time.Duration
	requests    chan string
}

// NewDebouncer creates a debouncer. Non-positive durations fall back to
// safe defaults.
func NewDebouncer(quietWindow, maxDelay time.Duration) *Debouncer {
	if quietWindow <= 0 {
		quietWindow = 500 * time.Millisecond
	}
	if maxDelay <= 0 {
		maxDelay = 5 * time.Second
	}
	return &Debouncer{
		quietWindow: quietWindow,
		maxDelay:    maxDelay,
		requests:    make(chan string, 64),
	}
}

// Trigger registers a change. It never blocks; when the buffer is full
// the notification is dropped, which is fine because a rebuild is
// already due.
func (d *Debouncer) Trigger(reason string) {
	select {
	case d.requests <- reason:
	default:
	}
}

// Run processes triggers until the context is cancelled, calling fire
// once per coalesced burst. It is meant to run as a single goroutine.
func (d *Debouncer) Run(ctx context.Context, fire func()) {
	quietTimer := newStoppedTimer()
	maxTimer := newStoppedTimer()
	defer quietTimer.Stop()
	defer maxTimer.Stop()

	pending := false
	for {
		select {
		case <-ctx.Done():
			return
		case reason := <-d.requests:
			slog.Debug("Change detected", "reason", reason)
			if !pending {
				pending = true
				resetTimer(maxTimer, d.maxDelay)
			}
			resetTimer(quietTimer, d.quietWindow)
		case <-quietTimer.C:
			if pending {
				pending = false
				stopTimer(maxTimer)
				fire()
			}
		case <-maxTimer.C:
			if pending {
				pending = false
				stopTimer(quietTimer)
				fire()
			}
		}
	}
}

func newStoppedTimer() *time.Timer {
	t := time.NewTimer(time.Hour)
	stopTimer(t)
	return t
}

func stopTimer(t *time.Timer) {
	if !t.Stop() {
		select {
		case <-t.C:
		default:
		}
	}
}

func resetTimer(t *time.Timer, d time.Duration) {
	stopTimer(t)
	t.Reset(d)
}
