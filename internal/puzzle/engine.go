// apps/go-server/internal/puzzle/engine.go
//
// Engine binds one built board to its solve state and exposes the handler entry
// points consumed by the rendering boundary:
//   - Submit:        raw input buffer → validator decision (deferred commit).
//   - OnCellInput:   apply a decided syllable (correct locks the cell, incorrect
//                    counts a wrong attempt for every covering word).
//   - OnCellFocus / OnHintClick / OnKeyNavigate: cursor transitions.
//   - ToggleExtraHint, Reset, Close.
//
// Notes:
//   - All mutations are serialized by a mutex; deferred continuations run on timer
//     goroutines and re-enter through the same lock.
//   - Reset/Close stop pending continuations and bump an epoch so a callback that
//     already fired never touches the fresh state.
//   - The change hook runs after the lock is released.

package puzzle

import (
	"sync"
	"time"
)

// DefaultAdvanceDelay lets the feedback settle before the cursor moves on.
const DefaultAdvanceDelay = 50 * time.Millisecond

// Board is the immutable part of a puzzle: grid, hints and build diagnostics.
type Board struct {
	Grid        *Grid        `json:"grid"`
	Hints       Hints        `json:"hints"`
	Diagnostics []Diagnostic `json:"diagnostics,omitempty"`
	Total       int          `json:"totalCells"`
}

// NewBoard builds the grid leniently and indexes its hints.
func NewBoard(size GridSize, words []Placement) *Board {
	g, diags := Build(size, words)
	return &Board{
		Grid:        g,
		Hints:       IndexHints(g.Words()),
		Diagnostics: diags,
		Total:       g.InputCellCount(),
	}
}

// Options tunes the deferred continuations. Zero values select the defaults.
type Options struct {
	FeedbackWindow time.Duration
	AdvanceDelay   time.Duration
	Scheduler      Scheduler
}

// Engine is the runtime state machine of one puzzle session.
type Engine struct {
	mu        sync.Mutex
	board     *Board
	state     State
	cursor    Cursor
	validator *Validator
	sched     Scheduler

	advanceDelay time.Duration
	advance      Timer
	advanceSeq   uint64
	epoch        uint64
	closed       bool
	onChange     func()
}

// NewEngine starts a fresh solve session on b.
func NewEngine(b *Board, opts Options) *Engine {
	if opts.FeedbackWindow <= 0 {
		opts.FeedbackWindow = DefaultFeedbackWindow
	}
	if opts.AdvanceDelay <= 0 {
		opts.AdvanceDelay = DefaultAdvanceDelay
	}
	if opts.Scheduler == nil {
		opts.Scheduler = WallClock
	}
	return &Engine{
		board:        b,
		state:        newState(),
		cursor:       InitialCursor(b.Grid),
		validator:    NewValidator(opts.FeedbackWindow, opts.Scheduler),
		sched:        opts.Scheduler,
		advanceDelay: opts.AdvanceDelay,
	}
}

// Board returns the immutable board.
func (e *Engine) Board() *Board { return e.board }

// OnChange registers f to run after every mutation.
func (e *Engine) OnChange(f func()) {
	e.mu.Lock()
	e.onChange = f
	e.mu.Unlock()
}

// update runs fn under the lock and fires the change hook if fn reports a change.
func (e *Engine) update(fn func() bool) bool {
	e.mu.Lock()
	changed := fn()
	hook := e.onChange
	e.mu.Unlock()
	if changed && hook != nil {
		hook()
	}
	return changed
}

// Submit validates a raw input buffer for (row, col).
// Completed, blocked and out-of-range cells yield OutcomeIncomplete.
func (e *Engine) Submit(row, col int, buffer string) Outcome {
	out := OutcomeIncomplete
	e.update(func() bool {
		if e.closed {
			return false
		}
		cell, ok := e.board.Grid.At(row, col)
		key := Key(row, col)
		if !ok || cell.Blocked || e.state.CompletedCells.Has(key) {
			return false
		}
		epoch := e.epoch
		out = e.validator.Submit(key, cell.Answer, buffer, func(syl string, correct bool) {
			e.update(func() bool {
				if e.closed || e.epoch != epoch {
					return false
				}
				e.validator.Release(key)
				e.applyInput(row, col, syl, correct)
				return true
			})
		})
		return out.Decided()
	})
	return out
}

// OnCellInput applies a decided entry. It reports whether the state changed.
func (e *Engine) OnCellInput(row, col int, syllable string, isCorrect bool) bool {
	return e.update(func() bool {
		if e.closed {
			return false
		}
		return e.applyInput(row, col, syllable, isCorrect)
	})
}

func (e *Engine) applyInput(row, col int, syllable string, isCorrect bool) bool {
	g := e.board.Grid
	cell, ok := g.At(row, col)
	key := Key(row, col)
	if !ok || cell.Blocked || e.state.CompletedCells.Has(key) {
		return false
	}
	if !isCorrect {
		for _, id := range cell.WordIDs {
			e.state.WrongAttempts[id]++
		}
		return true
	}

	e.state.UserInputs[key] = syllable
	completed, words := MarkCompleted(g, e.state.CompletedCells, row, col)
	e.state.CompletedCells = completed
	for _, id := range words {
		e.state.CompletedWords[id] = struct{}{}
	}
	e.scheduleAdvance(row, col)
	return true
}

func (e *Engine) scheduleAdvance(row, col int) {
	if e.advance != nil {
		e.advance.Stop()
	}
	e.advanceSeq++
	seq, epoch := e.advanceSeq, e.epoch
	e.advance = e.sched.AfterFunc(e.advanceDelay, func() {
		e.update(func() bool {
			if e.closed || e.epoch != epoch || e.advanceSeq != seq {
				return false
			}
			e.advance = nil
			return e.cursor.AfterCorrect(e.board.Grid, e.state.CompletedCells, row, col)
		})
	})
}

// OnCellFocus makes (row, col) the active cell.
func (e *Engine) OnCellFocus(row, col int, wordIDs []string) bool {
	return e.update(func() bool {
		return !e.closed && e.cursor.Focus(e.board.Grid, row, col, wordIDs)
	})
}

// OnHintClick selects a word from the hint list.
func (e *Engine) OnHintClick(wordID string, dir Direction) bool {
	return e.update(func() bool {
		return !e.closed && e.cursor.HintClick(e.board.Grid, e.state.CompletedCells, wordID, dir)
	})
}

// OnKeyNavigate handles an arrow key pressed on (row, col).
func (e *Engine) OnKeyNavigate(row, col int, key string) bool {
	return e.update(func() bool {
		return !e.closed && e.cursor.Navigate(e.board.Grid, row, col, key)
	})
}

// ToggleExtraHint flips the extra hint of a missed, still open word.
func (e *Engine) ToggleExtraHint(wordID string) bool {
	return e.update(func() bool {
		if e.closed || !e.state.ExtraHintAvailable(wordID) {
			return false
		}
		e.state.ExtraHintShown[wordID] = !e.state.ExtraHintShown[wordID]
		return true
	})
}

// Reset discards the solve state and returns the cursor to its initial cell.
func (e *Engine) Reset() {
	e.update(func() bool {
		if e.closed {
			return false
		}
		e.cancelPending()
		e.state = newState()
		e.cursor = InitialCursor(e.board.Grid)
		return true
	})
}

// Close stops all pending continuations. The engine ignores further events.
func (e *Engine) Close() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.cancelPending()
	e.closed = true
}

func (e *Engine) cancelPending() {
	e.validator.CancelAll()
	if e.advance != nil {
		e.advance.Stop()
		e.advance = nil
	}
	e.epoch++
}

// IsPuzzleComplete reports whether every input cell is completed.
func (e *Engine) IsPuzzleComplete() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return IsPuzzleComplete(e.state.CompletedCells, e.board.Total)
}

// Progress is the completed percentage of input cells.
func (e *Engine) Progress() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return Progress(e.state.CompletedCells, e.board.Total)
}

// Cursor returns a copy of the navigation state.
func (e *Engine) Cursor() Cursor {
	e.mu.Lock()
	defer e.mu.Unlock()
	c := e.cursor
	if c.Active != nil {
		p := *c.Active
		c.Active = &p
	}
	return c
}
