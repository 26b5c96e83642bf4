// apps/go-server/internal/httpserver/routes_game.go
//
// HTTP routes for interactive play.
//   - POST /game/new              → start a session on a stage, issue play token
//   - GET  /game/{id}             → current view
//   - POST /game/{id}/input       → {row, col, value}: submit a syllable buffer
//   - POST /game/{id}/focus       → {row, col, wordIds}: activate a cell
//   - POST /game/{id}/hint        → {wordId, direction}: select from the hint list
//   - POST /game/{id}/key         → {row, col, key}: arrow-key navigation
//   - POST /game/{id}/extra-hint  → {wordId}: toggle the extra hint
//   - POST /game/{id}/pause | resume | restart | next
//
// Every event answers with the resulting view, so a client without the websocket
// still renders the latest state. Pending commits land after the feedback window
// and are only visible through a later GET or the websocket.

package httpserver

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"github.com/hknu/puzzle/apps/go-server/internal/game"
	"github.com/hknu/puzzle/apps/go-server/internal/puzzle"
	"github.com/hknu/puzzle/apps/go-server/internal/stage"
	"github.com/hknu/puzzle/apps/go-server/internal/store"
)

var (
	errUnknownEvent = errors.New("unknown event")
	errLastStage    = errors.New("no next stage")
)

// mountGame registers all /game routes.
func (s *Server) mountGame(r chi.Router) {
	r.Post("/game/new", s.handleNewGame)
	r.Route("/game/{id}", func(r chi.Router) {
		r.Use(s.requirePlayToken)
		r.Get("/", s.handleGetGame)
		for _, ev := range []string{"input", "focus", "hint", "key", "extra-hint", "pause", "resume", "restart", "next"} {
			r.Post("/"+ev, s.handleEvent(ev))
		}
	})
}

// newGameReq/Res payloads for POST /game/new.
type newGameReq struct {
	Stage int `json:"stage"` // defaults to the first stage
}
type newGameRes struct {
	GameID    string    `json:"gameId"`
	Token     string    `json:"token"`
	ExpiresAt int64     `json:"expiresAt"`
	Game      game.View `json:"game"`
}

// handleNewGame creates a session, starts it, and hands out its play token.
func (s *Server) handleNewGame(w http.ResponseWriter, r *http.Request) {
	var req newGameReq
	_ = json.NewDecoder(r.Body).Decode(&req)

	st := s.firstStage()
	if req.Stage != 0 {
		st = s.stages.Lookup(req.Stage)
	}
	if st == nil {
		http.Error(w, `{"error":"stage_not_found"}`, http.StatusNotFound)
		return
	}

	player := s.ensureAnonID(w, r)
	sess := game.New("", player, st, s.sessionOptions())
	sess.OnChange(func() {
		if s.hub.count(sess.ID) > 0 {
			s.hub.broadcast(sess.ID, sess.View())
		}
	})
	if err := sess.Start(); err != nil {
		http.Error(w, `{"error":"start_failed"}`, http.StatusInternalServerError)
		return
	}
	if err := s.store.Save(r.Context(), sess); err != nil {
		log.Error().Err(err).Msg("save session")
		http.Error(w, `{"error":"save_failed"}`, http.StatusInternalServerError)
		return
	}

	tok, exp, err := s.signPlayToken(sess.ID, player)
	if err != nil {
		http.Error(w, `{"error":"sign_failed"}`, http.StatusInternalServerError)
		return
	}
	s.setPlayCookie(w, tok, exp)

	log.Info().Str("game", sess.ID).Int("stage", st.ID).Msg("game started")
	w.WriteHeader(http.StatusCreated)
	_ = json.NewEncoder(w).Encode(newGameRes{GameID: sess.ID, Token: tok, ExpiresAt: exp.UnixMilli(), Game: sess.View()})
}

func (s *Server) handleGetGame(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}
	_ = json.NewEncoder(w).Encode(sess.View())
}

// eventReq is the union of all event bodies.
type eventReq struct {
	Row       int              `json:"row"`
	Col       int              `json:"col"`
	Value     string           `json:"value,omitempty"`
	WordIDs   []string         `json:"wordIds,omitempty"`
	WordID    string           `json:"wordId,omitempty"`
	Direction puzzle.Direction `json:"direction,omitempty"`
	Key       string           `json:"key,omitempty"`
}

// eventRes pairs the event result with the resulting view.
type eventRes struct {
	Outcome puzzle.Outcome `json:"outcome,omitempty"`
	Changed bool           `json:"changed"`
	Game    game.View      `json:"game"`
}

func (s *Server) handleEvent(kind string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess, ok := s.session(w, r)
		if !ok {
			return
		}
		var req eventReq
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
			http.Error(w, `{"error":"bad_json"}`, http.StatusBadRequest)
			return
		}
		res, err := s.applyEvent(sess, kind, req)
		if err != nil {
			http.Error(w, `{"error":"`+errorCode(err)+`"}`, statusFor(err))
			return
		}
		res.Game = sess.View()
		_ = json.NewEncoder(w).Encode(res)
	}
}

// applyEvent dispatches one event to the session. REST and websocket share it.
func (s *Server) applyEvent(sess *game.Session, kind string, req eventReq) (eventRes, error) {
	var (
		res eventRes
		err error
	)
	switch kind {
	case "input":
		res.Outcome, err = sess.Submit(req.Row, req.Col, req.Value)
		res.Changed = res.Outcome.Decided()
	case "focus":
		res.Changed, err = sess.Focus(req.Row, req.Col, req.WordIDs)
	case "hint":
		res.Changed, err = sess.HintClick(req.WordID, req.Direction)
	case "key":
		res.Changed, err = sess.Navigate(req.Row, req.Col, req.Key)
	case "extra-hint":
		res.Changed, err = sess.ToggleExtraHint(req.WordID)
	case "pause":
		err = sess.Pause()
		res.Changed = err == nil
	case "resume":
		err = sess.Resume()
		res.Changed = err == nil
	case "restart":
		err = sess.Restart()
		res.Changed = err == nil
	case "next":
		var ok bool
		ok, err = sess.Next(s.stages)
		if err == nil && !ok {
			err = errLastStage
		}
		res.Changed = err == nil
	default:
		err = errUnknownEvent
	}
	return res, err
}

// session loads the {id} session or writes a 404.
func (s *Server) session(w http.ResponseWriter, r *http.Request) (*game.Session, bool) {
	sess, err := s.store.Get(r.Context(), chi.URLParam(r, "id"))
	if errors.Is(err, store.ErrNotFound) {
		http.Error(w, `{"error":"not_found"}`, http.StatusNotFound)
		return nil, false
	}
	if err != nil {
		http.Error(w, `{"error":"store_error"}`, http.StatusInternalServerError)
		return nil, false
	}
	return sess, true
}

// firstStage is the lowest-numbered stage, or nil for an empty catalogue.
func (s *Server) firstStage() *stage.Stage {
	all := s.stages.All()
	if len(all) == 0 {
		return nil
	}
	return all[0]
}

// errorCode maps domain errors to stable JSON error codes.
func errorCode(err error) string {
	switch {
	case errors.Is(err, game.ErrNotPlaying):
		return "not_playing"
	case errors.Is(err, game.ErrInvalidTransition):
		return "invalid_transition"
	case errors.Is(err, game.ErrClosed):
		return "closed"
	case errors.Is(err, game.ErrNotCleared):
		return "not_cleared"
	case errors.Is(err, game.ErrAlreadySubmitted):
		return "already_submitted"
	case errors.Is(err, errLastStage):
		return "last_stage"
	case errors.Is(err, errUnknownEvent):
		return "unknown_event"
	default:
		return "internal"
	}
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, errUnknownEvent):
		return http.StatusBadRequest
	case errors.Is(err, game.ErrClosed):
		return http.StatusGone
	case errors.Is(err, game.ErrNotPlaying), errors.Is(err, game.ErrInvalidTransition),
		errors.Is(err, game.ErrNotCleared), errors.Is(err, game.ErrAlreadySubmitted),
		errors.Is(err, errLastStage):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
