// apps/go-server/internal/stage/stage.go
//
// Stage catalogue for the puzzle server.
//
// Responsibilities:
//   - Load stage definitions from STAGES_FILE or fall back to the embedded defaults.
//   - Validate the catalogue shape (unique positive ids, positive grid sizes, words present).
//   - Supply lookups used by sessions, routes and the CLI: Lookup, All, Count.
//
// File format (YAML):
//
//	stages:
//	  - id: 1
//	    title: ...
//	    difficulty: easy
//	    gridSize: { rows: 7, cols: 7 }
//	    words:
//	      - { id: w1, text: 백호, direction: across, row: 0, col: 0, hint: ... }
//
// Word placement defects are NOT rejected here; the grid builder reports them
// as diagnostics (or errors in strict mode).

package stage

import (
	"errors"
	"fmt"
	"os"
	"sort"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/hknu/puzzle/apps/go-server/assets"
	"github.com/hknu/puzzle/apps/go-server/internal/puzzle"
)

// Stage is one playable puzzle definition.
type Stage struct {
	ID         int                `json:"id" yaml:"id"`
	Title      string             `json:"title" yaml:"title"`
	Difficulty string             `json:"difficulty" yaml:"difficulty"`
	GridSize   puzzle.GridSize    `json:"gridSize" yaml:"gridSize"`
	Words      []puzzle.Placement `json:"words" yaml:"words"`
}

// Catalogue is an immutable, id-ordered set of stages.
type Catalogue struct {
	stages []*Stage
	byID   map[int]*Stage
}

type file struct {
	Stages []*Stage `yaml:"stages"`
}

var ErrEmpty = errors.New("stage: catalogue is empty")

// Parse decodes and validates a YAML catalogue.
func Parse(b []byte) (*Catalogue, error) {
	var f file
	if err := yaml.Unmarshal(b, &f); err != nil {
		return nil, fmt.Errorf("stage: decode: %w", err)
	}
	if len(f.Stages) == 0 {
		return nil, ErrEmpty
	}

	c := &Catalogue{byID: make(map[int]*Stage, len(f.Stages))}
	for _, s := range f.Stages {
		if s == nil {
			continue
		}
		if s.ID <= 0 {
			return nil, fmt.Errorf("stage: id must be positive, got %d", s.ID)
		}
		if _, dup := c.byID[s.ID]; dup {
			return nil, fmt.Errorf("stage: duplicate id %d", s.ID)
		}
		if s.GridSize.Rows <= 0 || s.GridSize.Cols <= 0 {
			return nil, fmt.Errorf("stage %d: grid size must be positive", s.ID)
		}
		if len(s.Words) == 0 {
			return nil, fmt.Errorf("stage %d: no words", s.ID)
		}
		c.byID[s.ID] = s
		c.stages = append(c.stages, s)
	}
	sort.Slice(c.stages, func(i, j int) bool { return c.stages[i].ID < c.stages[j].ID })
	return c, nil
}

// Lookup returns stage n, or nil if absent.
func (c *Catalogue) Lookup(n int) *Stage { return c.byID[n] }

// All returns the stages ordered by id.
func (c *Catalogue) All() []*Stage { return append([]*Stage(nil), c.stages...) }

// Count is the number of stages.
func (c *Catalogue) Count() int { return len(c.stages) }

// Board builds the runtime board for s. Build defects are reported as diagnostics.
func (s *Stage) Board() *puzzle.Board {
	return puzzle.NewBoard(s.GridSize, s.Words)
}

// Validate builds s in strict mode and returns the first defect.
func (s *Stage) Validate() error {
	if _, err := puzzle.BuildStrict(s.GridSize, s.Words); err != nil {
		return fmt.Errorf("stage %d: %w", s.ID, err)
	}
	return nil
}

// --- package-level default catalogue ---

var (
	initOnce   sync.Once
	defaultCat *Catalogue
	initialErr error
)

// Init loads the default catalogue exactly once.
// STAGES_FILE overrides the embedded stages.yaml.
func Init() error {
	initOnce.Do(func() {
		var (
			b   []byte
			err error
		)
		if path := os.Getenv("STAGES_FILE"); path != "" {
			b, err = os.ReadFile(path)
		} else {
			b, err = assets.Stages()
		}
		if err != nil {
			initialErr = fmt.Errorf("stage: read: %w", err)
			return
		}
		defaultCat, initialErr = Parse(b)
	})
	return initialErr
}

// Default returns the catalogue loaded by Init, or nil if Init failed or never ran.
func Default() *Catalogue { return defaultCat }

// Lookup returns stage n from the default catalogue.
func Lookup(n int) *Stage {
	if defaultCat == nil {
		return nil
	}
	return defaultCat.Lookup(n)
}

// All returns every stage of the default catalogue.
func All() []*Stage {
	if defaultCat == nil {
		return nil
	}
	return defaultCat.All()
}

// Count is the size of the default catalogue.
func Count() int {
	if defaultCat == nil {
		return 0
	}
	return defaultCat.Count()
}
