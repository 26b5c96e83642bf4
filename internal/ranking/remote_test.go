package ranking

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
)

// exerciseRemote runs the same checks against any live backend.
func exerciseRemote(t *testing.T, r Remote) {
	t.Helper()
	ctx := context.Background()
	stage := int(time.Now().UnixNano()%1_000_000) + 1000 // isolate from other runs

	before, err := r.Count(ctx, stage)
	if err != nil {
		t.Fatalf("count: %v", err)
	}
	now := time.Now().UTC().Truncate(time.Millisecond)
	for i, ms := range []int64{3000, 1000, 2000} {
		e := Entry{ID: uuid.NewString(), Stage: stage, Nickname: "t", TimeMs: ms, CreatedAt: now.Add(time.Duration(i) * time.Millisecond)}
		if err := r.Insert(ctx, e); err != nil {
			t.Fatalf("insert: %v", err)
		}
	}
	top, err := r.Top(ctx, stage, 2)
	if err != nil {
		t.Fatalf("top: %v", err)
	}
	if len(top) != 2 || top[0].TimeMs != 1000 || top[1].TimeMs != 2000 {
		t.Fatalf("unexpected top: %+v", top)
	}
	if n, _ := r.Count(ctx, stage); n != before+3 {
		t.Fatalf("count = %d, want %d", n, before+3)
	}
}

func TestPostgresRemote(t *testing.T) {
	url := os.Getenv("TEST_POSTGRES_URL")
	if url == "" {
		t.Skip("TEST_POSTGRES_URL not set, skipping postgres ranking test")
	}
	r, err := OpenRemote(context.Background(), url)
	if err != nil {
		t.Fatal(err)
	}
	defer r.Close()
	exerciseRemote(t, r)
}

func TestRedisRemote(t *testing.T) {
	url := os.Getenv("TEST_REDIS_URL")
	if url == "" {
		t.Skip("TEST_REDIS_URL not set, skipping redis ranking test")
	}
	r, err := OpenRemote(context.Background(), url)
	if err != nil {
		t.Fatal(err)
	}
	defer r.Close()
	exerciseRemote(t, r)
}

func TestOpenRemoteSchemes(t *testing.T) {
	r, err := OpenRemote(context.Background(), "")
	if r != nil || err != nil {
		t.Fatalf("empty url should be local only, got %v %v", r, err)
	}
	if _, err := OpenRemote(context.Background(), "mysql://x"); err == nil {
		t.Fatal("expected unsupported scheme error")
	}
}
