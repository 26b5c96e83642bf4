// apps/go-server/internal/puzzle/cursor.go
//
// Cursor/navigation state machine over (active cell, selected word, direction).
//
// Transitions:
//   - Initial:      first unblocked cell in row-major order, its first word selected.
//   - AfterCorrect: next cell of the selected word, else next incomplete cell globally.
//   - Focus:        select the cell's word matching the current direction, else its first.
//   - HintClick:    first incomplete cell of the word, else its start cell.
//   - Navigate:     arrow keys, clamped; blocked targets suppress the move.

package puzzle

// Navigation keys accepted by Cursor.Navigate.
const (
	KeyUp    = "ArrowUp"
	KeyDown  = "ArrowDown"
	KeyLeft  = "ArrowLeft"
	KeyRight = "ArrowRight"
)

// Cursor is the navigation state of a solve session.
type Cursor struct {
	Active         *Pos      `json:"activeCell"`
	SelectedWordID string    `json:"selectedWordId,omitempty"`
	Direction      Direction `json:"currentDirection"`
}

// InitialCursor places the cursor on the first input cell of g.
func InitialCursor(g *Grid) Cursor {
	c := Cursor{Direction: Across}
	for r := 0; r < g.Rows; r++ {
		for col := 0; col < g.Cols; col++ {
			cell := g.Cells[r][col]
			if cell.Blocked {
				continue
			}
			c.Active = &Pos{Row: r, Col: col}
			c.selectWord(g, cell.WordIDs[0])
			return c
		}
	}
	return c
}

// AfterCorrect advances the cursor after a correct entry at (row, col).
// It reports false when no incomplete cell is left and the cursor stays put.
func (c *Cursor) AfterCorrect(g *Grid, completed CellSet, row, col int) bool {
	if c.SelectedWordID != "" {
		if p, ok := nextInWord(g, completed, c.SelectedWordID, row, col); ok {
			c.Active = &p
			return true
		}
	}
	p, ok := nextIncomplete(g, completed, row, col)
	if !ok {
		return false
	}
	c.Active = &p
	c.pickWord(g, g.Cells[p.Row][p.Col].WordIDs)
	return true
}

// Focus makes (row, col) active and picks the word to select among wordIDs.
// An empty wordIDs falls back to the words covering the cell.
func (c *Cursor) Focus(g *Grid, row, col int, wordIDs []string) bool {
	cell, ok := g.At(row, col)
	if !ok || cell.Blocked {
		return false
	}
	if len(wordIDs) == 0 {
		wordIDs = cell.WordIDs
	}
	c.Active = &Pos{Row: row, Col: col}
	c.pickWord(g, wordIDs)
	return true
}

// HintClick selects a word and moves to its first incomplete cell.
// A fully completed word moves the cursor to its start cell.
func (c *Cursor) HintClick(g *Grid, completed CellSet, wordID string, dir Direction) bool {
	w, ok := g.Word(wordID)
	if !ok {
		return false
	}
	c.SelectedWordID = wordID
	if dir.Valid() {
		c.Direction = dir
	} else {
		c.Direction = w.Direction
	}
	for _, p := range g.Span(wordID) {
		if !completed.Has(p.Key()) {
			c.Active = &p
			return true
		}
	}
	c.Active = &Pos{Row: w.Row, Col: w.Col}
	return true
}

// Navigate moves one cell from (row, col) in the direction of key.
// Moves onto blocked cells and unknown keys are ignored.
func (c *Cursor) Navigate(g *Grid, row, col int, key string) bool {
	if g.Rows == 0 || g.Cols == 0 {
		return false
	}
	nr, nc := row, col
	switch key {
	case KeyUp:
		nr = max(0, row-1)
	case KeyDown:
		nr = min(g.Rows-1, row+1)
	case KeyLeft:
		nc = max(0, col-1)
	case KeyRight:
		nc = min(g.Cols-1, col+1)
	default:
		return false
	}
	cell, ok := g.At(nr, nc)
	if !ok || cell.Blocked {
		return false
	}
	return c.Focus(g, nr, nc, cell.WordIDs)
}

// pickWord selects the word matching the current direction, else the first.
func (c *Cursor) pickWord(g *Grid, wordIDs []string) {
	if len(wordIDs) == 0 {
		return
	}
	pick := wordIDs[0]
	for _, id := range wordIDs {
		if w, ok := g.Word(id); ok && w.Direction == c.Direction {
			pick = id
			break
		}
	}
	c.selectWord(g, pick)
}

func (c *Cursor) selectWord(g *Grid, id string) {
	c.SelectedWordID = id
	if w, ok := g.Word(id); ok {
		c.Direction = w.Direction
	}
}

// nextInWord is the cell after (row, col) along the word, if still open.
func nextInWord(g *Grid, completed CellSet, wordID string, row, col int) (Pos, bool) {
	w, ok := g.Word(wordID)
	if !ok {
		return Pos{}, false
	}
	next := Pos{Row: row, Col: col + 1}
	if w.Direction == Down {
		next = Pos{Row: row + 1, Col: col}
	}
	cell, ok := g.At(next.Row, next.Col)
	if !ok || cell.Blocked || !cell.Covers(wordID) || completed.Has(next.Key()) {
		return Pos{}, false
	}
	return next, true
}

// nextIncomplete scans row-major from just after (row, col), wrapping to the top.
func nextIncomplete(g *Grid, completed CellSet, row, col int) (Pos, bool) {
	total := g.Rows * g.Cols
	if total == 0 {
		return Pos{}, false
	}
	start := row*g.Cols + col
	for step := 1; step < total; step++ {
		i := ((start+step)%total + total) % total
		r, c := i/g.Cols, i%g.Cols
		if g.Cells[r][c].Blocked || completed.Has(Key(r, c)) {
			continue
		}
		return Pos{Row: r, Col: c}, true
	}
	return Pos{}, false
}
