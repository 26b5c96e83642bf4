// apps/go-server/internal/httpserver/ws.go
//
// Websocket push channel for a game session.
//
//   - GET /game/{id}/ws upgrades the connection, sends the current view, then a
//     fresh view after every session change.
//   - Inbound messages are events of the same shape as the REST bodies, tagged with
//     "type" (input, focus, hint, key, extra-hint, pause, resume, restart, next).
//   - The hub groups connections by game id. Slow clients drop messages rather than
//     block the engine callback that triggered the broadcast.

package httpserver

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
)

const (
	wsChannelBuffer = 16
	wsPingInterval  = 30 * time.Second
	wsWriteWait     = 10 * time.Second
)

// subscriber is one websocket connection.
type subscriber struct {
	ch     chan []byte
	gameID string
}

// hub fans session views out to subscribers grouped by game.
type hub struct {
	mu   sync.RWMutex
	subs map[*subscriber]struct{}
}

func newHub() *hub {
	return &hub{subs: make(map[*subscriber]struct{})}
}

func (h *hub) register(gameID string) *subscriber {
	sub := &subscriber{ch: make(chan []byte, wsChannelBuffer), gameID: gameID}
	h.mu.Lock()
	h.subs[sub] = struct{}{}
	h.mu.Unlock()
	return sub
}

// unregister removes sub and closes its channel. Safe to call twice.
func (h *hub) unregister(sub *subscriber) {
	h.mu.Lock()
	if _, ok := h.subs[sub]; ok {
		delete(h.subs, sub)
		close(sub.ch)
	}
	h.mu.Unlock()
}

// broadcast sends v as JSON to every subscriber of gameID.
func (h *hub) broadcast(gameID string, v any) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	if h.countLocked(gameID) == 0 {
		return
	}
	data, err := json.Marshal(v)
	if err != nil {
		log.Warn().Err(err).Str("game", gameID).Msg("marshal push")
		return
	}
	for sub := range h.subs {
		if sub.gameID != gameID {
			continue
		}
		select {
		case sub.ch <- data:
		default:
			// slow client
		}
	}
}

// push sends v to a single subscriber.
func (h *hub) push(sub *subscriber, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		return
	}
	h.mu.RLock()
	defer h.mu.RUnlock()
	if _, ok := h.subs[sub]; !ok {
		return
	}
	select {
	case sub.ch <- data:
	default:
	}
}

func (h *hub) count(gameID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.countLocked(gameID)
}

func (h *hub) countLocked(gameID string) int {
	n := 0
	for sub := range h.subs {
		if sub.gameID == gameID {
			n++
		}
	}
	return n
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
}

// wsEvent is an inbound websocket message.
type wsEvent struct {
	Type string `json:"type"`
	eventReq
}

// handleWS serves the push channel of one game.
func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	sess, err := s.store.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, `{"error":"not_found"}`, http.StatusNotFound)
		return
	}

	up := upgrader
	up.CheckOrigin = func(r *http.Request) bool {
		o := r.Header.Get("Origin")
		return o == "" || o == s.cfg.ClientOrigin
	}
	conn, err := up.Upgrade(w, r, nil)
	if err != nil {
		log.Warn().Err(err).Str("game", sess.ID).Msg("websocket upgrade")
		return
	}
	defer conn.Close()

	sub := s.hub.register(sess.ID)
	defer s.hub.unregister(sub)

	// writer: the only goroutine writing to conn
	done := make(chan struct{})
	go func() {
		defer close(done)
		defer conn.Close() // unblocks the read loop after a failed write
		ping := time.NewTicker(wsPingInterval)
		defer ping.Stop()
		for {
			select {
			case data, ok := <-sub.ch:
				if !ok {
					return
				}
				_ = conn.SetWriteDeadline(time.Now().Add(wsWriteWait))
				if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
					return
				}
			case <-ping.C:
				_ = conn.SetWriteDeadline(time.Now().Add(wsWriteWait))
				if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
					return
				}
			}
		}
	}()

	s.hub.push(sub, sess.View())

	for {
		var ev wsEvent
		if err := conn.ReadJSON(&ev); err != nil {
			break
		}
		if _, err := s.applyEvent(sess, ev.Type, ev.eventReq); err != nil {
			s.hub.push(sub, map[string]string{"error": errorCode(err)})
		}
	}
	s.hub.unregister(sub)
	<-done
}
