// apps/go-server/internal/puzzle/grid.go
//
// Grid builder: turns an ordered word placement list into a cell matrix.
//
// Policy for configuration defects:
//   - Build is lenient. A syllable outside the grid is dropped and a conflicting
//     intersection keeps the first writer's answer. Both are reported as Diagnostics.
//   - BuildStrict runs the same algorithm and fails on the first defect.

package puzzle

import (
	"errors"
	"fmt"
)

var (
	ErrOutOfBounds      = errors.New("placement exceeds grid bounds")
	ErrConflict         = errors.New("conflicting intersection")
	ErrInvalidPlacement = errors.New("invalid placement")
)

// DiagnosticKind classifies a build-time defect.
type DiagnosticKind string

const (
	DiagOutOfBounds DiagnosticKind = "out_of_bounds"
	DiagConflict    DiagnosticKind = "conflict"
	DiagInvalid     DiagnosticKind = "invalid"
)

// Diagnostic is a non-fatal defect found while building a grid.
type Diagnostic struct {
	Kind   DiagnosticKind `json:"kind"`
	WordID string         `json:"wordId"`
	Row    int            `json:"row"`
	Col    int            `json:"col"`
	Have   string         `json:"have,omitempty"` // answer already in the cell
	Want   string         `json:"want,omitempty"` // syllable the word tried to write
	Detail string         `json:"detail,omitempty"`
}

func (d Diagnostic) String() string {
	switch d.Kind {
	case DiagOutOfBounds:
		return fmt.Sprintf("word %s exceeds grid bounds at (%d, %d)", d.WordID, d.Row, d.Col)
	case DiagConflict:
		return fmt.Sprintf("word %s conflicts at (%d, %d): %q vs %q", d.WordID, d.Row, d.Col, d.Have, d.Want)
	default:
		return fmt.Sprintf("word %s: %s", d.WordID, d.Detail)
	}
}

func (d Diagnostic) kindErr() error {
	switch d.Kind {
	case DiagOutOfBounds:
		return ErrOutOfBounds
	case DiagConflict:
		return ErrConflict
	default:
		return ErrInvalidPlacement
	}
}

// BuildError wraps the first defect found by BuildStrict.
type BuildError struct {
	Kind error
	Diag Diagnostic
}

func (e *BuildError) Error() string {
	if e == nil {
		return ""
	}
	return fmt.Sprintf("%s: %s", e.Kind.Error(), e.Diag.String())
}

func (e *BuildError) Unwrap() error { return e.Kind }

// Build allocates a rows×cols grid and writes every word into it in list order.
// The result is a pure function of (size, words).
func Build(size GridSize, words []Placement) (*Grid, []Diagnostic) {
	rows, cols := size.Rows, size.Cols
	if rows < 0 {
		rows = 0
	}
	if cols < 0 {
		cols = 0
	}
	g := &Grid{
		Rows:  rows,
		Cols:  cols,
		Cells: make([][]Cell, rows),
		words: make([]Placement, 0, len(words)),
		index: make(map[string]int, len(words)),
	}
	for r := range g.Cells {
		g.Cells[r] = make([]Cell, cols)
		for c := range g.Cells[r] {
			g.Cells[r][c] = Cell{Blocked: true}
		}
	}

	var diags []Diagnostic
	for _, w := range words {
		if d, ok := checkPlacement(w, g.index); !ok {
			diags = append(diags, d)
			continue
		}
		g.index[w.ID] = len(g.words)
		g.words = append(g.words, w)

		for i, syl := range w.Syllables() {
			p := w.At(i)
			if !g.InBounds(p.Row, p.Col) {
				diags = append(diags, Diagnostic{Kind: DiagOutOfBounds, WordID: w.ID, Row: p.Row, Col: p.Col, Want: syl})
				continue
			}
			cell := &g.Cells[p.Row][p.Col]
			if cell.Blocked {
				cell.Answer = syl
				cell.Blocked = false
				cell.WordIDs = []string{w.ID}
				continue
			}
			if cell.Answer != syl {
				diags = append(diags, Diagnostic{Kind: DiagConflict, WordID: w.ID, Row: p.Row, Col: p.Col, Have: cell.Answer, Want: syl})
			}
			cell.WordIDs = append(cell.WordIDs, w.ID)
			cell.IsIntersection = true
		}
	}
	return g, diags
}

// BuildStrict is Build that rejects any configuration defect.
func BuildStrict(size GridSize, words []Placement) (*Grid, error) {
	if size.Rows <= 0 || size.Cols <= 0 {
		return nil, &BuildError{Kind: ErrInvalidPlacement, Diag: Diagnostic{
			Kind:   DiagInvalid,
			Detail: fmt.Sprintf("grid size %dx%d", size.Rows, size.Cols),
		}}
	}
	g, diags := Build(size, words)
	if len(diags) > 0 {
		return nil, &BuildError{Kind: diags[0].kindErr(), Diag: diags[0]}
	}
	return g, nil
}

// checkPlacement rejects words that cannot be placed at all.
func checkPlacement(w Placement, seen map[string]int) (Diagnostic, bool) {
	bad := func(detail string) (Diagnostic, bool) {
		return Diagnostic{Kind: DiagInvalid, WordID: w.ID, Row: w.Row, Col: w.Col, Detail: detail}, false
	}
	switch {
	case w.ID == "":
		return bad("empty id")
	case w.Text == "":
		return bad("empty text")
	case !w.Direction.Valid():
		return bad(fmt.Sprintf("unknown direction %q", w.Direction))
	}
	if _, dup := seen[w.ID]; dup {
		return bad("duplicate id")
	}
	return Diagnostic{}, true
}
