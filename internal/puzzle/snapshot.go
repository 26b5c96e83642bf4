package puzzle

// CellView is what the rendering boundary sees of a cell.
// Answers of open cells are never exposed.
type CellView struct {
	Blocked      bool     `json:"blocked"`
	Value        string   `json:"value,omitempty"`
	Completed    bool     `json:"completed,omitempty"`
	Active       bool     `json:"active,omitempty"`
	Highlighted  bool     `json:"highlighted,omitempty"`
	Pending      bool     `json:"pending,omitempty"`
	Intersection bool     `json:"intersection,omitempty"`
	WordIDs      []string `json:"wordIds,omitempty"`
}

// HintView is a hint entry decorated with its solve status.
type HintView struct {
	HintEntry
	Direction          Direction `json:"direction"`
	Completed          bool      `json:"completed"`
	Selected           bool      `json:"selected"`
	WrongAttempts      int       `json:"wrongAttempts"`
	ExtraHintAvailable bool      `json:"extraHintAvailable"`
	ExtraHint          string    `json:"extraHint,omitempty"`
}

// Snapshot is a point-in-time copy of the board and solve state.
type Snapshot struct {
	Rows  int          `json:"rows"`
	Cols  int          `json:"cols"`
	Cells [][]CellView `json:"cells"`
	Cursor
	Across         []HintView         `json:"across"`
	Down           []HintView         `json:"down"`
	UserInputs     map[CellKey]string `json:"userInputs"`
	CompletedCells []CellKey          `json:"completedCells"`
	CompletedWords []string           `json:"completedWords"`
	WrongAttempts  map[string]int     `json:"wrongAttempts"`
	ExtraHintShown map[string]bool    `json:"extraHintShown"`
	TotalCells     int                `json:"totalCells"`
	Progress       int                `json:"progress"`
	Complete       bool               `json:"isPuzzleComplete"`
}

// Snapshot copies the current state for rendering.
func (e *Engine) Snapshot() Snapshot {
	e.mu.Lock()
	defer e.mu.Unlock()

	g, st, cur := e.board.Grid, e.state, e.cursor
	s := Snapshot{
		Rows:           g.Rows,
		Cols:           g.Cols,
		Cells:          make([][]CellView, g.Rows),
		Cursor:         Cursor{SelectedWordID: cur.SelectedWordID, Direction: cur.Direction},
		UserInputs:     make(map[CellKey]string, len(st.UserInputs)),
		CompletedCells: st.CompletedCells.Sorted(),
		CompletedWords: st.completedWordList(),
		WrongAttempts:  make(map[string]int, len(st.WrongAttempts)),
		ExtraHintShown: make(map[string]bool, len(st.ExtraHintShown)),
		TotalCells:     e.board.Total,
		Progress:       Progress(st.CompletedCells, e.board.Total),
		Complete:       IsPuzzleComplete(st.CompletedCells, e.board.Total),
	}
	if cur.Active != nil {
		p := *cur.Active
		s.Active = &p
	}
	for k, v := range st.UserInputs {
		s.UserInputs[k] = v
	}
	for k, v := range st.WrongAttempts {
		s.WrongAttempts[k] = v
	}
	for k, v := range st.ExtraHintShown {
		s.ExtraHintShown[k] = v
	}

	for r := 0; r < g.Rows; r++ {
		s.Cells[r] = make([]CellView, g.Cols)
		for c := 0; c < g.Cols; c++ {
			cell := g.Cells[r][c]
			if cell.Blocked {
				s.Cells[r][c] = CellView{Blocked: true}
				continue
			}
			key := Key(r, c)
			v := CellView{
				Completed:    st.CompletedCells.Has(key),
				Active:       cur.Active != nil && cur.Active.Row == r && cur.Active.Col == c,
				Highlighted:  cur.SelectedWordID != "" && cell.Covers(cur.SelectedWordID),
				Pending:      e.validator.Pending(key),
				Intersection: cell.IsIntersection,
				WordIDs:      append([]string(nil), cell.WordIDs...),
			}
			if v.Completed {
				v.Value = cell.Answer
			}
			s.Cells[r][c] = v
		}
	}

	s.Across = e.hintViews(e.board.Hints.Across, Across)
	s.Down = e.hintViews(e.board.Hints.Down, Down)
	return s
}

func (e *Engine) hintViews(entries []HintEntry, dir Direction) []HintView {
	out := make([]HintView, 0, len(entries))
	for _, h := range entries {
		v := HintView{
			HintEntry:          h,
			Direction:          dir,
			Completed:          e.state.WordCompleted(h.WordID),
			Selected:           e.cursor.SelectedWordID == h.WordID,
			WrongAttempts:      e.state.WrongAttempts[h.WordID],
			ExtraHintAvailable: e.state.ExtraHintAvailable(h.WordID),
		}
		if v.ExtraHintAvailable && e.state.ExtraHintShown[h.WordID] {
			if w, ok := e.board.Grid.Word(h.WordID); ok {
				v.ExtraHint = ExtraHint(w)
			}
		}
		out = append(out, v)
	}
	return out
}
