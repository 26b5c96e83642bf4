// apps/go-server/internal/game/session.go
//
// Game session: one player working through the stage catalogue.
// Responsibilities:
//   - Own the puzzle engine of the current stage and forward input/navigation events.
//   - Track the session status: idle → playing ⇄ paused → cleared.
//   - Time the play with a pausable stopwatch; on completion stop it, record the
//     clear time and ask the best-time recorder whether it is a new record.
//   - Advance to the next stage of the catalogue.
//
// Notes:
//   - Events are accepted only while playing. A commit that was already pending
//     when the player paused still lands and may clear the stage.
//   - The engine change hook runs without the engine lock; the session never holds
//     its own lock while calling into the engine.

package game

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/hknu/puzzle/apps/go-server/internal/puzzle"
	"github.com/hknu/puzzle/apps/go-server/internal/stage"
)

// Status is the coarse lifecycle state of a session.
type Status string

const (
	StatusIdle    Status = "idle"
	StatusPlaying Status = "playing"
	StatusPaused  Status = "paused"
	StatusCleared Status = "cleared"
)

var (
	ErrNotPlaying        = errors.New("game: not playing")
	ErrInvalidTransition = errors.New("game: invalid status transition")
	ErrNotCleared        = errors.New("game: stage not cleared")
	ErrAlreadySubmitted  = errors.New("game: clear already submitted")
	ErrClosed            = errors.New("game: session closed")
)

// BestTimes records personal bests. SaveBestTime reports whether ms is a new record.
type BestTimes interface {
	SaveBestTime(ctx context.Context, playerID string, stage int, ms int64) (bool, error)
	BestTime(ctx context.Context, playerID string, stage int) (int64, bool, error)
}

// Catalogue is the stage source used by Next.
type Catalogue interface {
	Lookup(n int) *stage.Stage
}

// Options configures a session. Zero values select defaults.
type Options struct {
	Engine puzzle.Options
	Best   BestTimes
	Now    func() time.Time
}

// Session is safe for concurrent use.
type Session struct {
	ID       string
	PlayerID string

	mu          sync.Mutex
	opts        Options
	stage       *stage.Stage
	status      Status
	watch       *Stopwatch
	engine      *puzzle.Engine
	clearTimeMs int64
	isNewRecord bool
	submitted   bool
	closed      bool
	lastSeen    time.Time
	onChange    func()
}

// New creates an idle session on st. An empty id is replaced by a UUID.
func New(id, playerID string, st *stage.Stage, opts Options) *Session {
	if id == "" {
		id = uuid.NewString()
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	s := &Session{
		ID:       id,
		PlayerID: playerID,
		opts:     opts,
		status:   StatusIdle,
		watch:    NewStopwatch(opts.Now),
		lastSeen: opts.Now(),
	}
	s.stage, s.engine = st, s.newEngine(st)
	return s
}

func (s *Session) newEngine(st *stage.Stage) *puzzle.Engine {
	b := st.Board()
	for _, d := range b.Diagnostics {
		log.Warn().
			Int("stage", st.ID).
			Str("word", d.WordID).
			Int("row", d.Row).
			Int("col", d.Col).
			Str("kind", string(d.Kind)).
			Msg("stage build defect")
	}
	e := puzzle.NewEngine(b, s.opts.Engine)
	e.OnChange(func() { s.engineChanged(e) })
	return e
}

// OnChange registers f to run after every visible change (puzzle or status).
func (s *Session) OnChange(f func()) {
	s.mu.Lock()
	s.onChange = f
	s.mu.Unlock()
}

func (s *Session) notify() {
	s.mu.Lock()
	f := s.onChange
	s.mu.Unlock()
	if f != nil {
		f()
	}
}

func (s *Session) engineChanged(e *puzzle.Engine) {
	if e.IsPuzzleComplete() {
		s.clear(e)
	}
	s.notify()
}

// clear finishes the stage once. It is a no-op for a replaced engine.
func (s *Session) clear(e *puzzle.Engine) {
	s.mu.Lock()
	if s.engine != e || s.closed || (s.status != StatusPlaying && s.status != StatusPaused) {
		s.mu.Unlock()
		return
	}
	ms := s.watch.Stop()
	s.status = StatusCleared
	s.clearTimeMs = ms
	s.isNewRecord = false
	best, stageID, player := s.opts.Best, s.stage.ID, s.PlayerID
	s.mu.Unlock()

	log.Info().Str("game", s.ID).Int("stage", stageID).Int64("ms", ms).Msg("stage cleared")
	if best == nil {
		return
	}
	isNew, err := best.SaveBestTime(context.Background(), player, stageID, ms)
	if err != nil {
		log.Warn().Err(err).Str("game", s.ID).Msg("save best time")
		return
	}
	s.mu.Lock()
	if s.engine == e {
		s.isNewRecord = isNew
	}
	s.mu.Unlock()
}

// touch records activity and reports whether events are accepted.
func (s *Session) touch() (*puzzle.Engine, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastSeen = s.opts.Now()
	if s.closed {
		return nil, ErrClosed
	}
	if s.status != StatusPlaying {
		return nil, ErrNotPlaying
	}
	return s.engine, nil
}

// --- lifecycle ---

// Start begins (or restarts) the current stage: fresh puzzle, stopwatch from zero.
func (s *Session) Start() error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return ErrClosed
	}
	s.status = StatusPlaying
	s.clearTimeMs, s.isNewRecord, s.submitted = 0, false, false
	s.watch.Reset()
	s.watch.Start()
	s.lastSeen = s.opts.Now()
	e := s.engine
	s.mu.Unlock()

	e.Reset()
	return nil
}

// Restart is Start on the current stage.
func (s *Session) Restart() error { return s.Start() }

// Pause stops the clock. Only a playing session can pause.
func (s *Session) Pause() error {
	return s.transition(StatusPlaying, StatusPaused, (*Stopwatch).Pause)
}

// Resume restarts the clock of a paused session.
func (s *Session) Resume() error {
	return s.transition(StatusPaused, StatusPlaying, (*Stopwatch).Start)
}

func (s *Session) transition(from, to Status, clock func(*Stopwatch)) error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return ErrClosed
	}
	if s.status != from {
		s.mu.Unlock()
		return ErrInvalidTransition
	}
	s.status = to
	clock(s.watch)
	s.lastSeen = s.opts.Now()
	s.mu.Unlock()
	s.notify()
	return nil
}

// Next moves to the following stage and starts it.
// It reports false, leaving the session untouched, on the last stage.
func (s *Session) Next(cat Catalogue) (bool, error) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return false, ErrClosed
	}
	next := cat.Lookup(s.stage.ID + 1)
	if next == nil {
		s.mu.Unlock()
		return false, nil
	}
	old := s.engine
	s.stage = next
	s.engine = s.newEngine(next)
	s.mu.Unlock()

	old.Close()
	if err := s.Start(); err != nil {
		return false, err
	}
	return true, nil
}

// Close stops the engine; the session ignores further events.
func (s *Session) Close() {
	s.mu.Lock()
	s.closed = true
	s.watch.Pause()
	e := s.engine
	s.mu.Unlock()
	e.Close()
}

// ClaimClear hands out the clear result once, for a leaderboard submission.
func (s *Session) ClaimClear() (stageID int, ms int64, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.status != StatusCleared {
		return 0, 0, ErrNotCleared
	}
	if s.submitted {
		return 0, 0, ErrAlreadySubmitted
	}
	s.submitted = true
	return s.stage.ID, s.clearTimeMs, nil
}

// --- puzzle events ---

// Submit forwards a raw input buffer for (row, col).
func (s *Session) Submit(row, col int, buffer string) (puzzle.Outcome, error) {
	e, err := s.touch()
	if err != nil {
		return puzzle.OutcomeIncomplete, err
	}
	return e.Submit(row, col, buffer), nil
}

// Focus makes (row, col) the active cell.
func (s *Session) Focus(row, col int, wordIDs []string) (bool, error) {
	e, err := s.touch()
	if err != nil {
		return false, err
	}
	return e.OnCellFocus(row, col, wordIDs), nil
}

// HintClick selects a word from the hint list.
func (s *Session) HintClick(wordID string, dir puzzle.Direction) (bool, error) {
	e, err := s.touch()
	if err != nil {
		return false, err
	}
	return e.OnHintClick(wordID, dir), nil
}

// Navigate handles an arrow key pressed on (row, col).
func (s *Session) Navigate(row, col int, key string) (bool, error) {
	e, err := s.touch()
	if err != nil {
		return false, err
	}
	return e.OnKeyNavigate(row, col, key), nil
}

// ToggleExtraHint flips the extra hint of a word.
func (s *Session) ToggleExtraHint(wordID string) (bool, error) {
	e, err := s.touch()
	if err != nil {
		return false, err
	}
	return e.ToggleExtraHint(wordID), nil
}

// --- views ---

// StageInfo is the public part of a stage.
type StageInfo struct {
	ID         int    `json:"id"`
	Title      string `json:"title"`
	Difficulty string `json:"difficulty"`
}

// View is a point-in-time copy of the session for rendering.
type View struct {
	ID          string          `json:"gameId"`
	Stage       StageInfo       `json:"stage"`
	Status      Status          `json:"status"`
	ElapsedMs   int64           `json:"time"`
	Running     bool            `json:"isRunning"`
	ClearTimeMs int64           `json:"clearTime,omitempty"`
	IsNewRecord bool            `json:"isNewRecord"`
	BestTimeMs  int64           `json:"bestTime,omitempty"`
	Puzzle      puzzle.Snapshot `json:"puzzle"`
}

// View snapshots the session.
func (s *Session) View() View {
	s.mu.Lock()
	v := View{
		ID:          s.ID,
		Stage:       StageInfo{ID: s.stage.ID, Title: s.stage.Title, Difficulty: s.stage.Difficulty},
		Status:      s.status,
		ElapsedMs:   s.watch.Elapsed(),
		Running:     s.watch.Running(),
		ClearTimeMs: s.clearTimeMs,
		IsNewRecord: s.isNewRecord,
	}
	e, best, player := s.engine, s.opts.Best, s.PlayerID
	s.mu.Unlock()

	if best != nil {
		if ms, ok, err := best.BestTime(context.Background(), player, v.Stage.ID); err == nil && ok {
			v.BestTimeMs = ms
		}
	}
	v.Puzzle = e.Snapshot()
	return v
}

// Status returns the lifecycle state.
func (s *Session) Status() Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.status
}

// StageID is the id of the current stage.
func (s *Session) StageID() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stage.ID
}

// LastSeen is the time of the last event or lifecycle call.
func (s *Session) LastSeen() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastSeen
}
