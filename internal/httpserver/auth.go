// apps/go-server/internal/httpserver/auth.go
//
// Play tokens and the anonymous player cookie.
//
//   - POST /game/new signs an HS256 play token whose "gid" claim names the game and
//     "pid" the anonymous player. It is returned in the body and set as a cookie.
//   - Per-game routes accept the token as "Authorization: Bearer", the cookie, or
//     (for the websocket, which cannot set headers) a "token" query parameter.
//   - The anonymous id cookie keeps personal best times stable across games.

package httpserver

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const (
	anonCookieName = "puzzle_anon"
	playCookieName = "puzzle_play"
)

// playClaims binds a token to one game session.
type playClaims struct {
	GameID   string `json:"gid"`
	PlayerID string `json:"pid"`
	jwt.RegisteredClaims
}

// ctxClaimsKey is the context key type for validated play claims.
type ctxClaimsKey struct{}

// signPlayToken creates a play token valid for cfg.PlayTokenTTL.
func (s *Server) signPlayToken(gameID, playerID string) (string, time.Time, error) {
	now := time.Now()
	exp := now.Add(s.cfg.PlayTokenTTL)
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, playClaims{
		GameID:   gameID,
		PlayerID: playerID,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(exp),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	})
	ss, err := t.SignedString([]byte(s.cfg.JWTSecret))
	return ss, exp, err
}

// parsePlayToken validates signature and expiry.
func (s *Server) parsePlayToken(tok string) (*playClaims, error) {
	claims := &playClaims{}
	t, err := jwt.ParseWithClaims(tok, claims, func(t *jwt.Token) (interface{}, error) {
		return []byte(s.cfg.JWTSecret), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return nil, err
	}
	if !t.Valid || claims.GameID == "" {
		return nil, errors.New("invalid play token")
	}
	return claims, nil
}

// authorizeGame reports whether the request carries a valid token for gameID.
func (s *Server) authorizeGame(r *http.Request, gameID string) (*playClaims, bool) {
	tok := bearerOrCookie(r)
	if tok == "" {
		return nil, false
	}
	claims, err := s.parsePlayToken(tok)
	if err != nil || claims.GameID != gameID {
		return nil, false
	}
	return claims, true
}

// requirePlayToken enforces a play token matching the {id} URL parameter.
func (s *Server) requirePlayToken(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if bearerOrCookie(r) == "" {
			http.Error(w, `{"error":"Unauthorized"}`, http.StatusUnauthorized)
			return
		}
		claims, ok := s.authorizeGame(r, chi.URLParam(r, "id"))
		if !ok {
			http.Error(w, `{"error":"Invalid token"}`, http.StatusUnauthorized)
			return
		}
		ctx := context.WithValue(r.Context(), ctxClaimsKey{}, claims)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// bearerOrCookie extracts a play token from the Authorization header, the play
// cookie or the token query parameter, in that order.
func bearerOrCookie(r *http.Request) string {
	// Authorization: Bearer <token>
	if a := r.Header.Get("Authorization"); strings.HasPrefix(strings.ToLower(a), "bearer ") {
		return strings.TrimSpace(a[7:])
	}
	if c, err := r.Cookie(playCookieName); err == nil && c.Value != "" {
		return c.Value
	}
	return r.URL.Query().Get("token")
}

// cookieSameSite picks SameSite=None for cross-site production deployments.
func (s *Server) cookieSameSite() http.SameSite {
	if s.cfg.Production {
		return http.SameSiteNoneMode // required for third‑party contexts when Secure
	}
	return http.SameSiteLaxMode
}

// setPlayCookie writes the play token cookie.
func (s *Server) setPlayCookie(w http.ResponseWriter, token string, exp time.Time) {
	http.SetCookie(w, &http.Cookie{
		Name:     playCookieName,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		Secure:   s.cfg.Production,
		SameSite: s.cookieSameSite(),
		Expires:  exp,
	})
}

// ensureAnonID returns an existing anon cookie or sets a new one.
// Personal best times are keyed by this identifier.
func (s *Server) ensureAnonID(w http.ResponseWriter, r *http.Request) string {
	if id := anonID(r); id != "" {
		return id
	}
	id := genID()
	http.SetCookie(w, &http.Cookie{
		Name:     anonCookieName,
		Value:    id,
		Path:     "/",
		HttpOnly: true,
		Secure:   s.cfg.Production,
		SameSite: s.cookieSameSite(),
		Expires:  time.Now().Add(180 * 24 * time.Hour),
	})
	return id
}

// anonID reads the anon cookie without setting one.
func anonID(r *http.Request) string {
	if c, err := r.Cookie(anonCookieName); err == nil {
		return c.Value
	}
	return ""
}

// genID creates a random identifier for anonymous players.
func genID() string { return uuid.NewString() }
