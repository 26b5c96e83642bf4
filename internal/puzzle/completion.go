package puzzle

import "math"

// MarkCompleted adds (row, col) to a copy of completed and returns the ids of
// words covering that cell whose spans are now fully completed.
// Words are checked against the updated set, so the cell that finishes a word
// is counted in the same step.
func MarkCompleted(g *Grid, completed CellSet, row, col int) (CellSet, []string) {
	next := completed.Clone()
	cell, ok := g.At(row, col)
	if !ok || cell.Blocked {
		return next, nil
	}
	next[Key(row, col)] = struct{}{}

	var done []string
	for _, id := range cell.WordIDs {
		if WordComplete(g, next, id) {
			done = append(done, id)
		}
	}
	return next, done
}

// WordComplete reports whether every in-bounds cell of the word is completed.
func WordComplete(g *Grid, completed CellSet, id string) bool {
	span := g.Span(id)
	if len(span) == 0 {
		return false
	}
	for _, p := range span {
		if !completed.Has(p.Key()) {
			return false
		}
	}
	return true
}

// IsPuzzleComplete is true when every input cell is completed.
// An empty puzzle is never complete.
func IsPuzzleComplete(completed CellSet, total int) bool {
	return total > 0 && len(completed) == total
}

// Progress is the completed share of input cells as a rounded percentage.
func Progress(completed CellSet, total int) int {
	if total <= 0 {
		return 0
	}
	return int(math.Round(100 * float64(len(completed)) / float64(total)))
}
