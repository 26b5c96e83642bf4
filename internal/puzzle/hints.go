package puzzle

import "strings"

// HintEntry is one numbered clue.
type HintEntry struct {
	WordID string `json:"wordId"`
	Number int    `json:"number"`
	Text   string `json:"hint"`
	Length int    `json:"length"`
}

// Hints holds the across and down clue lists.
type Hints struct {
	Across []HintEntry `json:"across"`
	Down   []HintEntry `json:"down"`
}

// IndexHints numbers clues per direction in word-list order, starting at 1.
// Numbering is not spatial: the n-th across word in the list is across n.
func IndexHints(words []Placement) Hints {
	h := Hints{Across: []HintEntry{}, Down: []HintEntry{}}
	for _, w := range words {
		e := HintEntry{WordID: w.ID, Text: w.Hint, Length: w.Len()}
		if w.Direction == Across {
			e.Number = len(h.Across) + 1
			h.Across = append(h.Across, e)
		} else {
			e.Number = len(h.Down) + 1
			h.Down = append(h.Down, e)
		}
	}
	return h
}

const maskSyllable = "●"

// ExtraHint reveals the first half of a word (rounded up) and masks the rest.
func ExtraHint(w Placement) string {
	syl := w.Syllables()
	shown := (len(syl) + 1) / 2
	return strings.Join(syl[:shown], "") + strings.Repeat(maskSyllable, len(syl)-shown)
}
