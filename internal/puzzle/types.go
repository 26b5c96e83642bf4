// apps/go-server/internal/puzzle/types.go
//
// Core type definitions for the puzzle engine.
// Defines:
//   - Direction: across/down orientation of a placement.
//   - Placement: one authored word with its start cell and hint.
//   - Pos/CellKey/CellSet: addressing of grid cells.
//   - Cell/Grid: the built, immutable puzzle grid.

package puzzle

import (
	"sort"
	"strconv"
	"unicode/utf8"
)

// Direction is the orientation of a placed word.
type Direction string

const (
	Across Direction = "across"
	Down   Direction = "down"
)

// Valid reports whether d is one of the two known directions.
func (d Direction) Valid() bool { return d == Across || d == Down }

// Placement is a hand-authored word on the grid.
type Placement struct {
	ID        string    `json:"id" yaml:"id"`
	Text      string    `json:"text" yaml:"text"`
	Direction Direction `json:"direction" yaml:"direction"`
	Row       int       `json:"row" yaml:"row"`
	Col       int       `json:"col" yaml:"col"`
	Hint      string    `json:"hint" yaml:"hint"`
}

// Syllables splits the word text into one string per code point.
func (p Placement) Syllables() []string {
	out := make([]string, 0, utf8.RuneCountInString(p.Text))
	for _, r := range p.Text {
		out = append(out, string(r))
	}
	return out
}

// Len is the number of syllables in the word.
func (p Placement) Len() int { return utf8.RuneCountInString(p.Text) }

// At returns the position of the i-th syllable.
func (p Placement) At(i int) Pos {
	if p.Direction == Down {
		return Pos{Row: p.Row + i, Col: p.Col}
	}
	return Pos{Row: p.Row, Col: p.Col + i}
}

// Pos addresses a single grid cell.
type Pos struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

// Key returns the canonical cell key of p.
func (p Pos) Key() CellKey { return Key(p.Row, p.Col) }

// CellKey is the canonical "<row>-<col>" address of a cell.
type CellKey string

// Key builds the CellKey for (row, col).
func Key(row, col int) CellKey {
	return CellKey(strconv.Itoa(row) + "-" + strconv.Itoa(col))
}

// CellSet is a set of cell keys.
type CellSet map[CellKey]struct{}

// Has reports whether k is in the set.
func (s CellSet) Has(k CellKey) bool {
	_, ok := s[k]
	return ok
}

// Clone returns an independent copy of s.
func (s CellSet) Clone() CellSet {
	out := make(CellSet, len(s)+1)
	for k := range s {
		out[k] = struct{}{}
	}
	return out
}

// Sorted returns the keys in lexical order.
func (s CellSet) Sorted() []CellKey {
	out := make([]CellKey, 0, len(s))
	for k := range s {
		out = append(out, k)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// GridSize is the dimension of a stage grid.
type GridSize struct {
	Rows int `json:"rows" yaml:"rows"`
	Cols int `json:"cols" yaml:"cols"`
}

// Cell is one square of the built grid.
// A cell is blocked iff no word covers it.
type Cell struct {
	Answer         string   `json:"answer,omitempty"`
	Blocked        bool     `json:"blocked"`
	WordIDs        []string `json:"wordIds,omitempty"`
	IsIntersection bool     `json:"isIntersection,omitempty"`
}

// Covers reports whether the word id passes through this cell.
func (c Cell) Covers(id string) bool {
	for _, w := range c.WordIDs {
		if w == id {
			return true
		}
	}
	return false
}

// Grid is the immutable result of Build.
type Grid struct {
	Rows  int      `json:"rows"`
	Cols  int      `json:"cols"`
	Cells [][]Cell `json:"cells"`

	words []Placement
	index map[string]int
}

// InBounds reports whether (row, col) lies inside the grid.
func (g *Grid) InBounds(row, col int) bool {
	return row >= 0 && row < g.Rows && col >= 0 && col < g.Cols
}

// At returns the cell at (row, col); ok is false outside the grid.
func (g *Grid) At(row, col int) (Cell, bool) {
	if g == nil || !g.InBounds(row, col) {
		return Cell{}, false
	}
	return g.Cells[row][col], true
}

// Word looks up a placement by id.
func (g *Grid) Word(id string) (Placement, bool) {
	i, ok := g.index[id]
	if !ok {
		return Placement{}, false
	}
	return g.words[i], true
}

// Words returns the placements in authored order.
func (g *Grid) Words() []Placement {
	return append([]Placement(nil), g.words...)
}

// Span returns the in-bounds cells of a word in span order.
func (g *Grid) Span(id string) []Pos {
	w, ok := g.Word(id)
	if !ok {
		return nil
	}
	out := make([]Pos, 0, w.Len())
	for i := 0; i < w.Len(); i++ {
		p := w.At(i)
		if g.InBounds(p.Row, p.Col) {
			out = append(out, p)
		}
	}
	return out
}

// InputCellCount is the number of unblocked cells.
func (g *Grid) InputCellCount() int {
	if g == nil {
		return 0
	}
	n := 0
	for _, row := range g.Cells {
		for _, c := range row {
			if !c.Blocked {
				n++
			}
		}
	}
	return n
}
