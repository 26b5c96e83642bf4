// apps/go-server/internal/httpserver/server.go
//
// HTTP server wiring for the Hangul crossword backend.
// Responsibilities:
//   - Router + middleware (JSON, CORS, timeouts, panic recovery, request IDs, request log).
//   - Public endpoints: "/", "/health", stage catalogue under /stages.
//   - Game endpoints: POST /game/new, then per-game routes under /game/{id}
//     gated by the play token issued at creation.
//   - Ranking endpoints under /ranking and personal bests under /best.
//   - Push channel: GET /game/{id}/ws streams a fresh view after every change.
//
// Notes:
//   - CORS is origin‑aware and credentials‑enabled (so cookies work).
//   - The websocket route sits outside the timeout group; a hijacked connection
//     outlives any per-request deadline.

package httpserver

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog/log"

	"github.com/hknu/puzzle/apps/go-server/internal/config"
	"github.com/hknu/puzzle/apps/go-server/internal/game"
	"github.com/hknu/puzzle/apps/go-server/internal/puzzle"
	"github.com/hknu/puzzle/apps/go-server/internal/ranking"
	"github.com/hknu/puzzle/apps/go-server/internal/stage"
	"github.com/hknu/puzzle/apps/go-server/internal/store"
)

// Server bundles router, session store, stage catalogue and leaderboard.
type Server struct {
	r        *chi.Mux
	cfg      *config.Config
	store    store.Store
	stages   *stage.Catalogue
	rankings *ranking.Service
	hub      *hub

	// engine options for new sessions; tests swap the scheduler.
	engine puzzle.Options
}

// New constructs a Server, installs middleware, and registers routes.
func New(cfg *config.Config, st store.Store, stages *stage.Catalogue, rankings *ranking.Service) *Server {
	s := &Server{
		r:        chi.NewRouter(),
		cfg:      cfg,
		store:    st,
		stages:   stages,
		rankings: rankings,
		hub:      newHub(),
		engine: puzzle.Options{
			FeedbackWindow: cfg.FeedbackWindow,
			AdvanceDelay:   cfg.AdvanceDelay,
		},
	}

	// --- middleware ---
	s.r.Use(chimw.RequestID) // add X-Request-ID
	s.r.Use(chimw.RealIP)    // set RemoteAddr from X-Forwarded-For etc.
	s.r.Use(requestLogger)   // one debug line per request
	s.r.Use(chimw.Recoverer) // recover from panics
	s.r.Use(s.cors)          // credentials-friendly CORS

	s.r.Group(func(r chi.Router) {
		r.Use(chimw.Timeout(10 * time.Second)) // bound handler time
		r.Use(jsonContentType)                 // default JSON responses

		// --- diagnostics ---
		r.Get("/", func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
			_, _ = w.Write([]byte(`{"service":"puzzle-go","endpoints":["/health","/stages","POST /game/new","/game/{id}","/ranking/{stage}"]}`))
		})
		r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
			_, _ = w.Write([]byte(`{"ok":true}`))
		})

		s.mountStages(r)
		s.mountGame(r)
		s.mountRanking(r)

		// JSON 404 for easier debugging
		r.NotFound(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, `{"error":"not_found","path":"`+r.URL.Path+`"}`, http.StatusNotFound)
		})
	})

	s.r.With(s.requirePlayToken).Get("/game/{id}/ws", s.handleWS)

	return s
}

// Handler exposes the router for http.Server and tests.
func (s *Server) Handler() http.Handler { return s.r }

// sessionOptions configures a new game session.
func (s *Server) sessionOptions() game.Options {
	return game.Options{Engine: s.engine, Best: s.rankings.Local()}
}

// ----------------------------- middleware ----------------------------------

// jsonContentType sets a default JSON Content-Type header on all responses.
func jsonContentType(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		next.ServeHTTP(w, r)
	})
}

// cors enables credentialed CORS for the single configured client origin.
func (s *Server) cors(next http.Handler) http.Handler {
	origin := s.cfg.ClientOrigin
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Vary", "Origin")
		w.Header().Set("Access-Control-Allow-Origin", origin)
		w.Header().Set("Access-Control-Allow-Credentials", "true")
		w.Header().Set("Access-Control-Allow-Methods", "GET,POST,OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, If-None-Match")
		w.Header().Set("Access-Control-Expose-Headers", "ETag")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// requestLogger writes one zerolog line per request.
func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		log.Debug().
			Str("reqId", chimw.GetReqID(r.Context())).
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", ww.Status()).
			Dur("took", time.Since(start)).
			Msg("request")
	})
}
