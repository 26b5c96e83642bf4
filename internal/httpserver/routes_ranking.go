// apps/go-server/internal/httpserver/routes_ranking.go
//
// Leaderboard and personal best routes.
//   - GET  /ranking/{stage}        → top entries (remote when configured, else local)
//   - GET  /ranking/{stage}/count  → number of entries
//   - POST /ranking                → {gameId, nickname}: submit the clear time of a game
//   - GET  /best/{stage}           → personal best of the anonymous player
//
// Submissions never trust a client time: the clear time comes from the session,
// and each clear can be submitted once. The play token of the game is required.

package httpserver

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"github.com/hknu/puzzle/apps/go-server/internal/ranking"
	"github.com/hknu/puzzle/apps/go-server/internal/store"
)

// mountRanking registers the /ranking and /best routes.
func (s *Server) mountRanking(r chi.Router) {
	r.Route("/ranking", func(r chi.Router) {
		r.Post("/", s.handleSubmitRanking)
		r.Get("/{stage}", s.handleRanking)
		r.Get("/{stage}/count", s.handleRankingCount)
	})
	r.Get("/best/{stage}", s.handleBest)
}

// stageParam parses {stage} and checks it exists, writing the error response.
func (s *Server) stageParam(w http.ResponseWriter, r *http.Request) (int, bool) {
	n, err := strconv.Atoi(chi.URLParam(r, "stage"))
	if err != nil {
		http.Error(w, `{"error":"bad_stage"}`, http.StatusBadRequest)
		return 0, false
	}
	if s.stages.Lookup(n) == nil {
		http.Error(w, `{"error":"stage_not_found"}`, http.StatusNotFound)
		return 0, false
	}
	return n, true
}

// rankingRow decorates an entry with its position and display time.
type rankingRow struct {
	ranking.Entry
	Rank    int    `json:"rank"`
	Display string `json:"display"`
}

func (s *Server) handleRanking(w http.ResponseWriter, r *http.Request) {
	n, ok := s.stageParam(w, r)
	if !ok {
		return
	}
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

	l, err := s.rankings.Fetch(r.Context(), n, limit)
	if err != nil {
		log.Error().Err(err).Int("stage", n).Msg("fetch ranking")
		http.Error(w, `{"error":"db_error"}`, http.StatusInternalServerError)
		return
	}
	rows := make([]rankingRow, 0, len(l.Entries))
	for i, e := range l.Entries {
		rows = append(rows, rankingRow{Entry: e, Rank: i + 1, Display: ranking.FormatTimeDetailed(e.TimeMs)})
	}
	_ = json.NewEncoder(w).Encode(map[string]any{
		"stage":   n,
		"entries": rows,
		"isLocal": l.IsLocal,
	})
}

func (s *Server) handleRankingCount(w http.ResponseWriter, r *http.Request) {
	n, ok := s.stageParam(w, r)
	if !ok {
		return
	}
	c, err := s.rankings.Count(r.Context(), n)
	if err != nil {
		http.Error(w, `{"error":"db_error"}`, http.StatusInternalServerError)
		return
	}
	_ = json.NewEncoder(w).Encode(map[string]int{"stage": n, "count": c})
}

type submitReq struct {
	GameID   string `json:"gameId"`
	Nickname string `json:"nickname"`
}

type submitRes struct {
	Stage   int           `json:"stage"`
	Entry   ranking.Entry `json:"entry"`
	Rank    int           `json:"rank,omitempty"`
	IsLocal bool          `json:"isLocal"`
	Display string        `json:"display"`
}

func (s *Server) handleSubmitRanking(w http.ResponseWriter, r *http.Request) {
	var req submitReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, `{"error":"bad_json"}`, http.StatusBadRequest)
		return
	}
	if _, ok := s.authorizeGame(r, req.GameID); !ok {
		http.Error(w, `{"error":"Unauthorized"}`, http.StatusUnauthorized)
		return
	}
	// reject bad nicknames before the clear is claimed
	if _, err := ranking.ValidateNickname(req.Nickname); err != nil {
		http.Error(w, `{"error":"invalid_nickname"}`, http.StatusBadRequest)
		return
	}

	sess, err := s.store.Get(r.Context(), req.GameID)
	if errors.Is(err, store.ErrNotFound) {
		http.Error(w, `{"error":"not_found"}`, http.StatusNotFound)
		return
	}
	if err != nil {
		http.Error(w, `{"error":"store_error"}`, http.StatusInternalServerError)
		return
	}
	stageID, ms, err := sess.ClaimClear()
	if err != nil {
		http.Error(w, `{"error":"`+errorCode(err)+`"}`, statusFor(err))
		return
	}

	res, err := s.rankings.Submit(r.Context(), stageID, req.Nickname, ms)
	if err != nil {
		log.Error().Err(err).Str("game", sess.ID).Msg("submit ranking")
		http.Error(w, `{"error":"db_error"}`, http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusCreated)
	_ = json.NewEncoder(w).Encode(submitRes{
		Stage:   stageID,
		Entry:   res.Entry,
		Rank:    res.Rank,
		IsLocal: res.IsLocal,
		Display: ranking.FormatTimeDetailed(ms),
	})
}

func (s *Server) handleBest(w http.ResponseWriter, r *http.Request) {
	n, ok := s.stageParam(w, r)
	if !ok {
		return
	}
	out := map[string]any{"stage": n, "time": nil}
	if player := anonID(r); player != "" {
		ms, found, err := s.rankings.Local().BestTime(r.Context(), player, n)
		if err != nil {
			http.Error(w, `{"error":"db_error"}`, http.StatusInternalServerError)
			return
		}
		if found {
			out["time"] = ms
			out["display"] = ranking.FormatTime(ms)
		}
	}
	_ = json.NewEncoder(w).Encode(out)
}
