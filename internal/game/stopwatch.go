package game

import "time"

// Stopwatch measures play time across pauses. It is not safe for concurrent use;
// Session guards it with its own lock.
type Stopwatch struct {
	now     func() time.Time
	running bool
	since   time.Time
	acc     time.Duration
}

// NewStopwatch returns a stopped stopwatch. A nil now selects time.Now.
func NewStopwatch(now func() time.Time) *Stopwatch {
	if now == nil {
		now = time.Now
	}
	return &Stopwatch{now: now}
}

// Start resumes counting. Starting a running stopwatch is a no-op.
func (w *Stopwatch) Start() {
	if w.running {
		return
	}
	w.running = true
	w.since = w.now()
}

// Pause freezes the elapsed time.
func (w *Stopwatch) Pause() {
	if !w.running {
		return
	}
	w.acc += w.now().Sub(w.since)
	w.running = false
}

// Stop pauses and returns the elapsed milliseconds.
func (w *Stopwatch) Stop() int64 {
	w.Pause()
	return w.acc.Milliseconds()
}

// Reset stops and zeroes the stopwatch.
func (w *Stopwatch) Reset() {
	w.running = false
	w.acc = 0
}

// Running reports whether the stopwatch is counting.
func (w *Stopwatch) Running() bool { return w.running }

// Elapsed is the counted time in milliseconds.
func (w *Stopwatch) Elapsed() int64 {
	d := w.acc
	if w.running {
		d += w.now().Sub(w.since)
	}
	return d.Milliseconds()
}
