package puzzle

import "testing"

func TestIndexHintsListOrder(t *testing.T) {
	_, words := stageOne()
	// Put a down word first and an across word that sits lower on the grid before
	// one that sits higher: numbering must follow the list, not the layout.
	words = []Placement{words[4], words[3], words[0], words[2], words[1]}
	h := IndexHints(words)

	if len(h.Across) != 4 || len(h.Down) != 1 {
		t.Fatalf("expected 4 across / 1 down, got %d / %d", len(h.Across), len(h.Down))
	}
	wantAcross := []string{"w4", "w1", "w3", "w2"}
	for i, e := range h.Across {
		if e.WordID != wantAcross[i] || e.Number != i+1 {
			t.Errorf("across[%d] = %+v, want %s numbered %d", i, e, wantAcross[i], i+1)
		}
	}
	if d := h.Down[0]; d.WordID != "w5" || d.Number != 1 || d.Length != 2 || d.Text == "" {
		t.Fatalf("unexpected down hint %+v", d)
	}
	if h.Across[0].Length != 3 {
		t.Fatalf("국립대 should have length 3, got %d", h.Across[0].Length)
	}
}

func TestIndexHintsEmpty(t *testing.T) {
	h := IndexHints(nil)
	if h.Across == nil || h.Down == nil || len(h.Across)+len(h.Down) != 0 {
		t.Fatalf("expected empty non-nil lists, got %+v", h)
	}
}

func TestExtraHint(t *testing.T) {
	cases := map[string]string{
		"백호":   "백●",
		"국립대":  "국립●",
		"바우덕이": "바우●●",
		"가":    "가",
	}
	for text, want := range cases {
		if got := ExtraHint(Placement{Text: text}); got != want {
			t.Errorf("ExtraHint(%q) = %q, want %q", text, got, want)
		}
	}
}
