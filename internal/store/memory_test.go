package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/hknu/puzzle/apps/go-server/internal/game"
	"github.com/hknu/puzzle/apps/go-server/internal/puzzle"
	"github.com/hknu/puzzle/apps/go-server/internal/stage"
)

var tiny = &stage.Stage{
	ID:       1,
	GridSize: puzzle.GridSize{Rows: 1, Cols: 1},
	Words:    []puzzle.Placement{{ID: "a", Text: "가", Direction: puzzle.Across}},
}

func session(id string, seen time.Time) *game.Session {
	return game.New(id, "p", tiny, game.Options{Now: func() time.Time { return seen }})
}

func TestMemorySaveGetDelete(t *testing.T) {
	ctx := context.Background()
	st := NewMemoryStore()
	s := session("g1", time.Now())

	if err := st.Save(ctx, s); err != nil {
		t.Fatal(err)
	}
	got, err := st.Get(ctx, "g1")
	if err != nil || got != s {
		t.Fatalf("Get = %v, %v", got, err)
	}
	if _, err := st.Get(ctx, "nope"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	if err := st.Delete(ctx, "g1"); err != nil {
		t.Fatal(err)
	}
	if st.Len() != 0 {
		t.Fatalf("expected empty store, got %d", st.Len())
	}
	if err := s.Start(); !errors.Is(err, game.ErrClosed) {
		t.Fatalf("deleted session should be closed, got %v", err)
	}
	if err := st.Delete(ctx, "g1"); err != nil {
		t.Fatalf("deleting twice should be harmless: %v", err)
	}
}

func TestMemoryReap(t *testing.T) {
	ctx := context.Background()
	st := NewMemoryStore()
	now := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)

	old := session("old", now.Add(-3*time.Hour))
	fresh := session("fresh", now.Add(-time.Minute))
	_ = st.Save(ctx, old)
	_ = st.Save(ctx, fresh)

	if n := st.Reap(ctx, now, 2*time.Hour); n != 1 {
		t.Fatalf("expected 1 reaped session, got %d", n)
	}
	if _, err := st.Get(ctx, "old"); !errors.Is(err, ErrNotFound) {
		t.Fatal("idle session should be gone")
	}
	if _, err := st.Get(ctx, "fresh"); err != nil {
		t.Fatal("active session should survive")
	}
	if err := old.Start(); !errors.Is(err, game.ErrClosed) {
		t.Fatal("reaped session should be closed")
	}
}
