package cli

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	"github.com/hknu/puzzle/apps/go-server/internal/puzzle"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Setenv("DATABASE_PATH", filepath.Join(t.TempDir(), "cli.db"))
	t.Setenv("REMOTE_RANKING_URL", "")
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

func TestStagesList(t *testing.T) {
	out, err := run(t, "stages", "list")
	if err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimSpace(out), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected 2 stages, got:\n%s", out)
	}
	if !strings.Contains(lines[0], "7x7") || !strings.Contains(lines[0], "cells=11") {
		t.Fatalf("unexpected stage 1 line %q", lines[0])
	}
}

func TestStagesValidate(t *testing.T) {
	out, err := run(t, "stages", "validate")
	if err != nil {
		t.Fatalf("built-in stages should validate: %v\n%s", err, out)
	}
	if strings.Count(out, "ok ") != 2 {
		t.Fatalf("unexpected output:\n%s", out)
	}
}

func TestStagesShow(t *testing.T) {
	out, err := run(t, "stages", "show", "1")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "■") || !strings.Contains(out, "Across:") || !strings.Contains(out, "1. 한경국립대학교의 상징 동물") {
		t.Fatalf("unexpected output:\n%s", out)
	}
	if strings.Contains(out, "백") {
		t.Fatalf("answers must stay hidden without --answers:\n%s", out)
	}

	if _, err := run(t, "stages", "show", "9"); err == nil {
		t.Fatal("unknown stage should fail")
	}
}

func TestRankingTopEmpty(t *testing.T) {
	out, err := run(t, "ranking", "top", "1")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "(local)") || !strings.Contains(out, "(none)") {
		t.Fatalf("unexpected output:\n%s", out)
	}
}

func TestRenderGridAnswers(t *testing.T) {
	g, _ := puzzle.Build(puzzle.GridSize{Rows: 2, Cols: 2}, []puzzle.Placement{
		{ID: "a", Text: "가나", Direction: puzzle.Across},
	})
	var buf bytes.Buffer
	renderGrid(&buf, g, true)
	if got, want := buf.String(), "가 나\n■ ■\n"; got != want {
		t.Fatalf("grid = %q, want %q", got, want)
	}
}
