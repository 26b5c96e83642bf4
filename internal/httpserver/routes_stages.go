// apps/go-server/internal/httpserver/routes_stages.go
//
// Stage catalogue routes.
//   - GET /stages      → summary of every stage
//   - GET /stages/today → the stage of the day (same for every client on a UTC date)
//   - GET /stages/{n}  → board layout and hints of stage n, without answers
//
// Board responses are immutable for a given catalogue, so they carry a strong
// ETag (blake2b-256 of the body) and honour If-None-Match.

package httpserver

import (
	"encoding/hex"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"golang.org/x/crypto/blake2b"

	"github.com/hknu/puzzle/apps/go-server/internal/daily"
	"github.com/hknu/puzzle/apps/go-server/internal/puzzle"
	"github.com/hknu/puzzle/apps/go-server/internal/stage"
)

// mountStages registers the /stages routes.
func (s *Server) mountStages(r chi.Router) {
	r.Get("/stages", s.handleListStages)
	r.Get("/stages/today", s.handleStageOfDay)
	r.Get("/stages/{n}", s.handleGetStage)
}

type stageSummary struct {
	ID         int    `json:"id"`
	Title      string `json:"title"`
	Difficulty string `json:"difficulty"`
	Rows       int    `json:"rows"`
	Cols       int    `json:"cols"`
	Words      int    `json:"words"`
}

func (s *Server) handleListStages(w http.ResponseWriter, r *http.Request) {
	out := []stageSummary{}
	for _, st := range s.stages.All() {
		out = append(out, summarize(st))
	}
	_ = json.NewEncoder(w).Encode(map[string]any{"stages": out, "total": len(out)})
}

func (s *Server) handleStageOfDay(w http.ResponseWriter, r *http.Request) {
	all := s.stages.All()
	if len(all) == 0 {
		http.Error(w, `{"error":"stage_not_found"}`, http.StatusNotFound)
		return
	}
	now := time.Now()
	st := all[daily.StageIndex(now, s.cfg.DailySalt, len(all))]
	_ = json.NewEncoder(w).Encode(map[string]any{
		"date":  daily.DateKey(now),
		"stage": summarize(st),
	})
}

func summarize(st *stage.Stage) stageSummary {
	return stageSummary{
		ID:         st.ID,
		Title:      st.Title,
		Difficulty: st.Difficulty,
		Rows:       st.GridSize.Rows,
		Cols:       st.GridSize.Cols,
		Words:      len(st.Words),
	}
}

// boardCell is a grid cell as published: layout only.
type boardCell struct {
	Blocked        bool     `json:"blocked"`
	WordIDs        []string `json:"wordIds,omitempty"`
	IsIntersection bool     `json:"isIntersection,omitempty"`
}

type boardView struct {
	stageSummary
	Cells      [][]boardCell `json:"cells"`
	Hints      puzzle.Hints  `json:"hints"`
	TotalCells int           `json:"totalCells"`
}

// publicBoard strips answers from the built board of st.
func publicBoard(st *stage.Stage) boardView {
	b := st.Board()
	v := boardView{
		stageSummary: summarize(st),
		Cells:        make([][]boardCell, b.Grid.Rows),
		Hints:        b.Hints,
		TotalCells:   b.Total,
	}
	for r, row := range b.Grid.Cells {
		v.Cells[r] = make([]boardCell, len(row))
		for c, cell := range row {
			v.Cells[r][c] = boardCell{Blocked: cell.Blocked, WordIDs: cell.WordIDs, IsIntersection: cell.IsIntersection}
		}
	}
	return v
}

// boardETag is a quoted blake2b-256 digest of body.
func boardETag(body []byte) string {
	sum := blake2b.Sum256(body)
	return `"` + hex.EncodeToString(sum[:16]) + `"`
}

func (s *Server) handleGetStage(w http.ResponseWriter, r *http.Request) {
	n, err := strconv.Atoi(chi.URLParam(r, "n"))
	if err != nil {
		http.Error(w, `{"error":"bad_stage"}`, http.StatusBadRequest)
		return
	}
	st := s.stages.Lookup(n)
	if st == nil {
		http.Error(w, `{"error":"stage_not_found"}`, http.StatusNotFound)
		return
	}

	body, err := json.Marshal(publicBoard(st))
	if err != nil {
		http.Error(w, `{"error":"encode_failed"}`, http.StatusInternalServerError)
		return
	}
	etag := boardETag(body)
	w.Header().Set("ETag", etag)
	w.Header().Set("Cache-Control", "no-cache")
	if r.Header.Get("If-None-Match") == etag {
		w.WriteHeader(http.StatusNotModified)
		return
	}
	_, _ = w.Write(body)
}
