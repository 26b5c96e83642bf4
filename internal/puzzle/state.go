package puzzle

import "sort"

// State is the mutable solve state of one session.
// It is created empty when a stage starts and discarded on restart.
type State struct {
	UserInputs     map[CellKey]string
	CompletedCells CellSet
	CompletedWords map[string]struct{}
	WrongAttempts  map[string]int
	ExtraHintShown map[string]bool
}

func newState() State {
	return State{
		UserInputs:     make(map[CellKey]string),
		CompletedCells: make(CellSet),
		CompletedWords: make(map[string]struct{}),
		WrongAttempts:  make(map[string]int),
		ExtraHintShown: make(map[string]bool),
	}
}

// WordCompleted reports whether id has been completed.
func (s State) WordCompleted(id string) bool {
	_, ok := s.CompletedWords[id]
	return ok
}

// ExtraHintAvailable is true once a word has been missed and is still open.
func (s State) ExtraHintAvailable(id string) bool {
	return s.WrongAttempts[id] >= 1 && !s.WordCompleted(id)
}

func (s State) completedWordList() []string {
	out := make([]string, 0, len(s.CompletedWords))
	for id := range s.CompletedWords {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}
