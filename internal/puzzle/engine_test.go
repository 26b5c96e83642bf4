package puzzle

import (
	"encoding/json"
	"strings"
	"sync/atomic"
	"testing"
)

func newTestEngine(size GridSize, words []Placement) (*Engine, *fakeScheduler) {
	sched := &fakeScheduler{}
	return NewEngine(NewBoard(size, words), Options{Scheduler: sched}), sched
}

func TestEngineSubmitCorrect(t *testing.T) {
	e, sched := newTestEngine(stageOne())

	if got := e.Submit(0, 0, "ㅂ"); got != OutcomeIncomplete {
		t.Fatalf("jamo: got %s", got)
	}
	if got := e.Submit(0, 0, "백"); got != OutcomeCorrect {
		t.Fatalf("got %s, want correct", got)
	}
	if got := e.Submit(0, 0, "백"); got != OutcomeBusy {
		t.Fatalf("duplicate event: got %s, want busy", got)
	}
	if sched.count() != 1 {
		t.Fatalf("expected one pending decision, got %d timers", sched.count())
	}
	if s := e.Snapshot(); !s.Cells[0][0].Pending || s.Cells[0][0].Completed {
		t.Fatalf("cell should be pending but not completed: %+v", s.Cells[0][0])
	}

	sched.Run() // feedback window
	s := e.Snapshot()
	if !s.Cells[0][0].Completed || s.Cells[0][0].Value != "백" || s.UserInputs["0-0"] != "백" {
		t.Fatalf("cell not committed: %+v", s.Cells[0][0])
	}
	activeAt(t, e.Cursor(), 0, 0) // advance not yet due

	sched.Run() // advance delay
	activeAt(t, e.Cursor(), 0, 1)

	if got := e.Submit(0, 0, "백"); got != OutcomeIncomplete {
		t.Fatalf("completed cell must ignore input, got %s", got)
	}
}

func TestEngineIncorrectCountsEveryCoveringWord(t *testing.T) {
	e, sched := newTestEngine(crossing())

	if got := e.Submit(0, 1, "다"); got != OutcomeIncorrect {
		t.Fatalf("got %s, want incorrect", got)
	}
	sched.Flush()

	s := e.Snapshot()
	if s.WrongAttempts["a"] != 1 || s.WrongAttempts["b"] != 1 {
		t.Fatalf("both words should count the miss, got %v", s.WrongAttempts)
	}
	if len(s.CompletedCells) != 0 || len(s.UserInputs) != 0 {
		t.Fatalf("incorrect input must not change cells: %+v", s)
	}
	activeAt(t, e.Cursor(), 0, 0)

	// The guard is released, so the cell accepts a new attempt.
	if got := e.Submit(0, 1, "나"); got != OutcomeCorrect {
		t.Fatalf("got %s, want correct", got)
	}
}

func TestEngineOnCellInputIgnoresInvalidCells(t *testing.T) {
	e, _ := newTestEngine(crossing())
	if e.OnCellInput(2, 2, "가", true) {
		t.Fatal("blocked cell")
	}
	if e.OnCellInput(-1, 0, "가", true) {
		t.Fatal("out of range")
	}
	if !e.OnCellInput(0, 0, "가", true) {
		t.Fatal("expected commit")
	}
	if e.OnCellInput(0, 0, "가", false) {
		t.Fatal("completed cell must be locked")
	}
	if got := e.Snapshot().WrongAttempts["a"]; got != 0 {
		t.Fatalf("locked cell counted a miss: %d", got)
	}
}

func TestEngineResetDropsPendingWork(t *testing.T) {
	e, sched := newTestEngine(stageOne())
	e.Submit(0, 0, "백")
	e.Submit(0, 4, "호")
	e.Reset()
	sched.Flush()

	s := e.Snapshot()
	if len(s.CompletedCells) != 0 || len(s.WrongAttempts) != 0 {
		t.Fatalf("stale commits leaked into the new session: %+v", s)
	}
	if s.Cells[0][0].Pending {
		t.Fatal("guards should be cleared on reset")
	}
	activeAt(t, e.Cursor(), 0, 0)
}

func TestEngineResetIgnoresFiredCallback(t *testing.T) {
	e, sched := newTestEngine(stageOne())
	e.Submit(0, 0, "백")
	sched.Run()
	// The advance callback is queued; grab it before reset stops it.
	sched.mu.Lock()
	advance := sched.timers[len(sched.timers)-1].f
	sched.mu.Unlock()

	e.Reset()
	advance()
	activeAt(t, e.Cursor(), 0, 0)
	if e.Progress() != 0 {
		t.Fatalf("progress should restart at 0, got %d", e.Progress())
	}
}

func TestEngineFullSolve(t *testing.T) {
	size, words := stageOne()
	e, sched := newTestEngine(size, words)

	var changes atomic.Int32
	e.OnChange(func() { changes.Add(1) })

	last := 0
	for _, w := range words {
		for i, syl := range w.Syllables() {
			p := w.At(i)
			if got := e.Submit(p.Row, p.Col, syl); got != OutcomeCorrect {
				t.Fatalf("%s[%d]: got %s", w.ID, i, got)
			}
			sched.Flush()
			if pr := e.Progress(); pr < last {
				t.Fatalf("progress went backwards: %d -> %d", last, pr)
			}
			last = e.Progress()
		}
	}
	if !e.IsPuzzleComplete() || e.Progress() != 100 {
		t.Fatalf("expected complete at 100%%, got %d", e.Progress())
	}
	s := e.Snapshot()
	if len(s.CompletedWords) != len(words) || !s.Complete {
		t.Fatalf("expected every word complete, got %v", s.CompletedWords)
	}
	if changes.Load() == 0 {
		t.Fatal("change hook never fired")
	}
}

func TestEngineExtraHint(t *testing.T) {
	e, sched := newTestEngine(stageOne())
	if e.ToggleExtraHint("w4") {
		t.Fatal("extra hint must be unavailable before a miss")
	}

	e.Submit(3, 4, "대")
	sched.Flush()
	if !e.ToggleExtraHint("w4") {
		t.Fatal("expected toggle after a miss")
	}
	h := findHint(t, e.Snapshot().Across, "w4")
	if !h.ExtraHintAvailable || h.ExtraHint != "국립●" || h.WrongAttempts != 1 {
		t.Fatalf("unexpected hint view %+v", h)
	}

	e.ToggleExtraHint("w4")
	if h := findHint(t, e.Snapshot().Across, "w4"); h.ExtraHint != "" {
		t.Fatalf("second toggle should hide the hint, got %q", h.ExtraHint)
	}
	e.ToggleExtraHint("w4")

	for i, syl := range []string{"국", "립", "대"} {
		e.Submit(3, 4+i, syl)
		sched.Flush()
	}
	h = findHint(t, e.Snapshot().Across, "w4")
	if !h.Completed || h.ExtraHintAvailable || h.ExtraHint != "" {
		t.Fatalf("completed word should not offer an extra hint: %+v", h)
	}
	if e.ToggleExtraHint("w4") {
		t.Fatal("toggle must be refused once the word is complete")
	}
}

func TestSnapshotHidesAnswers(t *testing.T) {
	e, sched := newTestEngine(stageOne())
	e.Submit(0, 0, "백")
	sched.Flush()

	s := e.Snapshot()
	raw, err := json.Marshal(s.Cells)
	if err != nil {
		t.Fatal(err)
	}
	body := string(raw)
	if !strings.Contains(body, "백") {
		t.Fatal("completed value should be visible")
	}
	for _, secret := range []string{"호", "안", "국", "행"} {
		if strings.Contains(body, secret) {
			t.Fatalf("snapshot leaks answer %q", secret)
		}
	}

	raw, err = json.Marshal(s)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(raw), `"activeCell":{"row":0,"col":1}`) {
		t.Fatalf("expected cursor in payload: %s", raw)
	}
}

func TestSnapshotHighlightsSelectedWord(t *testing.T) {
	e, _ := newTestEngine(stageOne())
	e.OnHintClick("w5", Down)
	s := e.Snapshot()
	if !s.Cells[5][1].Highlighted || !s.Cells[6][1].Highlighted || s.Cells[0][0].Highlighted {
		t.Fatal("only w5 cells should be highlighted")
	}
	if h := findHint(t, s.Down, "w5"); !h.Selected {
		t.Fatal("w5 hint should be selected")
	}
}

func TestEngineClose(t *testing.T) {
	e, sched := newTestEngine(stageOne())
	e.Submit(0, 0, "백")
	e.Close()
	sched.Flush()
	if e.Progress() != 0 {
		t.Fatal("closed engine applied a pending commit")
	}
	if e.OnKeyNavigate(0, 0, KeyRight) || e.Submit(0, 1, "호") != OutcomeIncomplete {
		t.Fatal("closed engine must ignore events")
	}
}

func findHint(t *testing.T, hints []HintView, id string) HintView {
	t.Helper()
	for _, h := range hints {
		if h.WordID == id {
			return h
		}
	}
	t.Fatalf("hint %s not found", id)
	return HintView{}
}
