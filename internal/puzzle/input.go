// apps/go-server/internal/puzzle/input.go
//
// Input validation for single Hangul syllables.
// Responsibilities:
//   - Decide whether a raw input buffer is one finished syllable (composition done).
//   - Compare it with the target cell's answer.
//   - Collapse overlapping submits for the same cell into a single decision.
//   - Defer the commit by the feedback window through a cancellable Scheduler.
//
// Notes:
//   - Buffers are NFC-normalized first, so a conjoining jamo sequence that composes
//     to one syllable counts as complete. Compatibility jamo (ㄱ, ㅏ) never compose.
//   - Validator is not safe for concurrent use; Engine serializes access to it.

package puzzle

import (
	"strings"
	"time"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"
)

// Precomposed Hangul Syllables block.
const (
	hangulFirst = '가'
	hangulLast  = '힣'
)

// DefaultFeedbackWindow is how long a decision is displayed before it is committed.
const DefaultFeedbackWindow = 200 * time.Millisecond

// Outcome is the result of submitting an input buffer.
type Outcome string

const (
	OutcomeIncomplete Outcome = "incomplete" // not one finished syllable; nothing happens
	OutcomeBusy       Outcome = "busy"       // a decision for this cell is still pending
	OutcomeCorrect    Outcome = "correct"
	OutcomeIncorrect  Outcome = "incorrect"
)

// Decided reports whether the outcome produced a decision.
func (o Outcome) Decided() bool { return o == OutcomeCorrect || o == OutcomeIncorrect }

// IsSyllable reports whether r is a precomposed Hangul syllable.
func IsSyllable(r rune) bool { return r >= hangulFirst && r <= hangulLast }

// CompleteSyllable returns the single finished syllable held in buffer.
func CompleteSyllable(buffer string) (string, bool) {
	s := norm.NFC.String(strings.TrimSpace(buffer))
	if utf8.RuneCountInString(s) != 1 {
		return "", false
	}
	r, _ := utf8.DecodeRuneInString(s)
	if !IsSyllable(r) {
		return "", false
	}
	return s, true
}

// Timer is a cancellable scheduled callback.
type Timer interface {
	Stop() bool
}

// Scheduler runs f once after d.
type Scheduler interface {
	AfterFunc(d time.Duration, f func()) Timer
}

type wallScheduler struct{}

func (wallScheduler) AfterFunc(d time.Duration, f func()) Timer { return time.AfterFunc(d, f) }

// WallClock schedules callbacks on real timers.
var WallClock Scheduler = wallScheduler{}

// Validator turns buffers into at most one pending decision per cell.
type Validator struct {
	window  time.Duration
	sched   Scheduler
	pending map[CellKey]Timer
}

// NewValidator creates a Validator. A negative window falls back to the default.
func NewValidator(window time.Duration, sched Scheduler) *Validator {
	if window < 0 {
		window = DefaultFeedbackWindow
	}
	if sched == nil {
		sched = WallClock
	}
	return &Validator{window: window, sched: sched, pending: make(map[CellKey]Timer)}
}

// Submit checks buffer against answer for the cell at key.
// On a decision, commit is scheduled after the feedback window; the caller must
// Release the key when the commit runs.
func (v *Validator) Submit(key CellKey, answer, buffer string, commit func(syllable string, correct bool)) Outcome {
	if _, busy := v.pending[key]; busy {
		return OutcomeBusy
	}
	syl, ok := CompleteSyllable(buffer)
	if !ok {
		return OutcomeIncomplete
	}
	correct := syl == answer
	v.pending[key] = v.sched.AfterFunc(v.window, func() { commit(syl, correct) })
	if correct {
		return OutcomeCorrect
	}
	return OutcomeIncorrect
}

// Pending reports whether a decision for key is awaiting commit.
func (v *Validator) Pending(key CellKey) bool {
	_, ok := v.pending[key]
	return ok
}

// PendingKeys lists cells with a decision awaiting commit.
func (v *Validator) PendingKeys() []CellKey {
	out := make([]CellKey, 0, len(v.pending))
	for k := range v.pending {
		out = append(out, k)
	}
	return out
}

// Release clears the guard for key.
func (v *Validator) Release(key CellKey) { delete(v.pending, key) }

// CancelAll stops every pending commit.
func (v *Validator) CancelAll() {
	for k, t := range v.pending {
		t.Stop()
		delete(v.pending, k)
	}
}
