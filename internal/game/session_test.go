package game

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/hknu/puzzle/apps/go-server/internal/puzzle"
	"github.com/hknu/puzzle/apps/go-server/internal/stage"
)

type queuedTimer struct {
	f       func()
	stopped bool
}

func (t *queuedTimer) Stop() bool {
	was := !t.stopped
	t.stopped = true
	return was
}

// queue holds deferred engine callbacks until drain runs them.
type queue struct {
	mu     sync.Mutex
	timers []*queuedTimer
}

func (q *queue) AfterFunc(_ time.Duration, f func()) puzzle.Timer {
	q.mu.Lock()
	defer q.mu.Unlock()
	t := &queuedTimer{f: f}
	q.timers = append(q.timers, t)
	return t
}

func (q *queue) drain() {
	for {
		q.mu.Lock()
		pending := q.timers
		q.timers = nil
		q.mu.Unlock()
		if len(pending) == 0 {
			return
		}
		for _, t := range pending {
			if !t.stopped {
				t.stopped = true
				t.f()
			}
		}
	}
}

type clock struct{ t time.Time }

func (c *clock) now() time.Time          { return c.t }
func (c *clock) advance(d time.Duration) { c.t = c.t.Add(d) }

type memBest struct {
	mu   sync.Mutex
	best map[int]int64
}

func (m *memBest) SaveBestTime(_ context.Context, _ string, stage int, ms int64) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if old, ok := m.best[stage]; ok && ms >= old {
		return false, nil
	}
	m.best[stage] = ms
	return true, nil
}

func (m *memBest) BestTime(_ context.Context, _ string, stage int) (int64, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	ms, ok := m.best[stage]
	return ms, ok, nil
}

type catalogue map[int]*stage.Stage

func (c catalogue) Lookup(n int) *stage.Stage { return c[n] }

func twoStages() catalogue {
	return catalogue{
		1: {ID: 1, Title: "one", GridSize: puzzle.GridSize{Rows: 1, Cols: 2},
			Words: []puzzle.Placement{{ID: "a", Text: "가나", Direction: puzzle.Across}}},
		2: {ID: 2, Title: "two", GridSize: puzzle.GridSize{Rows: 2, Cols: 1},
			Words: []puzzle.Placement{{ID: "b", Text: "다라", Direction: puzzle.Down}}},
	}
}

type fixture struct {
	s     *Session
	q     *queue
	clock *clock
	best  *memBest
	cat   catalogue
}

func newFixture() *fixture {
	f := &fixture{
		q:     &queue{},
		clock: &clock{t: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)},
		best:  &memBest{best: map[int]int64{}},
		cat:   twoStages(),
	}
	f.s = New("", "player-1", f.cat[1], Options{
		Engine: puzzle.Options{Scheduler: f.q},
		Best:   f.best,
		Now:    f.clock.now,
	})
	return f
}

func (f *fixture) solveStageOne(t *testing.T) {
	t.Helper()
	for col, syl := range []string{"가", "나"} {
		if _, err := f.s.Submit(0, col, syl); err != nil {
			t.Fatalf("submit %s: %v", syl, err)
		}
		f.q.drain()
	}
}

func TestSessionLifecycle(t *testing.T) {
	f := newFixture()
	s := f.s
	if s.ID == "" || s.Status() != StatusIdle {
		t.Fatalf("unexpected new session: id %q status %s", s.ID, s.Status())
	}
	if _, err := s.Submit(0, 0, "가"); !errors.Is(err, ErrNotPlaying) {
		t.Fatalf("idle session must refuse input, got %v", err)
	}

	if err := s.Start(); err != nil {
		t.Fatal(err)
	}
	f.clock.advance(5 * time.Second)
	if err := s.Pause(); err != nil {
		t.Fatal(err)
	}
	f.clock.advance(time.Minute)
	if v := s.View(); v.Status != StatusPaused || v.ElapsedMs != 5000 || v.Running {
		t.Fatalf("paused clock should be frozen at 5s: %+v", v)
	}
	if err := s.Pause(); !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("double pause: got %v", err)
	}
	if _, err := s.Submit(0, 0, "가"); !errors.Is(err, ErrNotPlaying) {
		t.Fatalf("paused session must refuse input, got %v", err)
	}
	if _, _, err := s.ClaimClear(); !errors.Is(err, ErrNotCleared) {
		t.Fatalf("expected ErrNotCleared, got %v", err)
	}

	if err := s.Resume(); err != nil {
		t.Fatal(err)
	}
	f.clock.advance(2 * time.Second)
	f.solveStageOne(t)

	v := s.View()
	if v.Status != StatusCleared || v.ClearTimeMs != 7000 || !v.IsNewRecord || v.BestTimeMs != 7000 {
		t.Fatalf("unexpected cleared view: %+v", v)
	}
	if !v.Puzzle.Complete || v.Puzzle.Progress != 100 {
		t.Fatalf("puzzle should be complete: %+v", v.Puzzle)
	}

	stageID, ms, err := s.ClaimClear()
	if err != nil || stageID != 1 || ms != 7000 {
		t.Fatalf("ClaimClear = %d, %d, %v", stageID, ms, err)
	}
	if _, _, err := s.ClaimClear(); !errors.Is(err, ErrAlreadySubmitted) {
		t.Fatalf("second claim: got %v", err)
	}
}

func TestSessionRestartSlowerIsNotRecord(t *testing.T) {
	f := newFixture()
	_ = f.s.Start()
	f.clock.advance(3 * time.Second)
	f.solveStageOne(t)

	if err := f.s.Restart(); err != nil {
		t.Fatal(err)
	}
	v := f.s.View()
	if v.Status != StatusPlaying || v.ElapsedMs != 0 || v.Puzzle.Progress != 0 || v.ClearTimeMs != 0 {
		t.Fatalf("restart should reset puzzle and clock: %+v", v)
	}

	f.clock.advance(4 * time.Second)
	f.solveStageOne(t)
	v = f.s.View()
	if v.ClearTimeMs != 4000 || v.IsNewRecord || v.BestTimeMs != 3000 {
		t.Fatalf("slower clear must not be a record: %+v", v)
	}
}

func TestSessionNext(t *testing.T) {
	f := newFixture()
	_ = f.s.Start()
	f.clock.advance(time.Second)
	f.solveStageOne(t)

	ok, err := f.s.Next(f.cat)
	if err != nil || !ok {
		t.Fatalf("Next = %v, %v", ok, err)
	}
	v := f.s.View()
	if v.Stage.ID != 2 || v.Status != StatusPlaying || v.ElapsedMs != 0 || v.Puzzle.Rows != 2 {
		t.Fatalf("unexpected stage 2 view: %+v", v)
	}
	if v.Puzzle.SelectedWordID != "b" || v.Puzzle.Direction != puzzle.Down {
		t.Fatalf("cursor should start on b: %+v", v.Puzzle.Cursor)
	}

	ok, err = f.s.Next(f.cat)
	if err != nil || ok {
		t.Fatalf("no stage 3: Next = %v, %v", ok, err)
	}
	if f.s.StageID() != 2 {
		t.Fatal("failed Next must keep the current stage")
	}
}

func TestSessionChangeHookAndClose(t *testing.T) {
	f := newFixture()
	var changes atomic.Int32
	f.s.OnChange(func() { changes.Add(1) })

	_ = f.s.Start()
	if _, err := f.s.Focus(0, 1, nil); err != nil {
		t.Fatal(err)
	}
	if changes.Load() == 0 {
		t.Fatal("expected change notifications")
	}

	f.s.Close()
	if _, err := f.s.Navigate(0, 0, puzzle.KeyLeft); !errors.Is(err, ErrClosed) {
		t.Fatalf("closed session: got %v", err)
	}
	if err := f.s.Start(); !errors.Is(err, ErrClosed) {
		t.Fatalf("closed session restart: got %v", err)
	}
}

func TestStopwatch(t *testing.T) {
	c := &clock{t: time.Unix(0, 0)}
	w := NewStopwatch(c.now)
	w.Start()
	c.advance(1500 * time.Millisecond)
	w.Start() // no-op while running
	c.advance(500 * time.Millisecond)
	if w.Elapsed() != 2000 {
		t.Fatalf("elapsed = %d", w.Elapsed())
	}
	if got := w.Stop(); got != 2000 || w.Running() {
		t.Fatalf("stop = %d running=%v", got, w.Running())
	}
	c.advance(time.Hour)
	if w.Elapsed() != 2000 {
		t.Fatal("stopped watch must not count")
	}
	w.Reset()
	if w.Elapsed() != 0 {
		t.Fatal("reset must zero the watch")
	}
}
