package puzzle

import (
	"sync"
	"time"
)

// stageOne is the 7x7 introductory stage.
func stageOne() (GridSize, []Placement) {
	return GridSize{Rows: 7, Cols: 7}, []Placement{
		{ID: "w1", Text: "백호", Direction: Across, Row: 0, Col: 0, Hint: "상징 동물, 흰 호랑이"},
		{ID: "w2", Text: "안성", Direction: Across, Row: 0, Col: 4, Hint: "캠퍼스 소재 도시"},
		{ID: "w3", Text: "포도", Direction: Across, Row: 3, Col: 0, Hint: "보라색 과일"},
		{ID: "w4", Text: "국립대", Direction: Across, Row: 3, Col: 4, Hint: "국가가 설립한 대학교 유형"},
		{ID: "w5", Text: "은행", Direction: Down, Row: 5, Col: 1, Hint: "노란 잎이 특징인 나무"},
	}
}

// crossing has one shared cell at (0,1).
func crossing() (GridSize, []Placement) {
	return GridSize{Rows: 3, Cols: 3}, []Placement{
		{ID: "a", Text: "가나", Direction: Across, Row: 0, Col: 0, Hint: "a"},
		{ID: "b", Text: "나무", Direction: Down, Row: 0, Col: 1, Hint: "b"},
	}
}

type fakeTimer struct {
	d       time.Duration
	f       func()
	stopped bool
	fired   bool
}

func (t *fakeTimer) Stop() bool {
	if t.stopped || t.fired {
		return false
	}
	t.stopped = true
	return true
}

// fakeScheduler queues callbacks until the test runs them.
type fakeScheduler struct {
	mu     sync.Mutex
	timers []*fakeTimer
}

func (s *fakeScheduler) AfterFunc(d time.Duration, f func()) Timer {
	s.mu.Lock()
	defer s.mu.Unlock()
	t := &fakeTimer{d: d, f: f}
	s.timers = append(s.timers, t)
	return t
}

// Run fires the callbacks that are due now, but not ones they schedule.
func (s *fakeScheduler) Run() int {
	s.mu.Lock()
	var due []*fakeTimer
	for _, t := range s.timers {
		if !t.stopped && !t.fired {
			t.fired = true
			due = append(due, t)
		}
	}
	s.mu.Unlock()
	for _, t := range due {
		t.f()
	}
	return len(due)
}

// Flush fires callbacks until nothing is left.
func (s *fakeScheduler) Flush() {
	for s.Run() > 0 {
	}
}

func (s *fakeScheduler) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.timers)
}
