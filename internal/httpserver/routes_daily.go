// internal/httpserver/routes_daily.go
//
// HTTP routes for the "Daily Challenge" mode.
// Exposes three endpoints under /daily:
//   - POST /daily/new         → start a daily game (creates or reuses session)
//   - POST /daily/guess       → submit a guess for today's daily game
//   - GET  /daily/leaderboard → fetch top 20 results for today (or a given date)
//
// Each player can finish once per day (enforced by DB + in-memory session).
// Sessions are held in memory for active play; a win is persisted to the DB
// and the session is dropped.
// The secret is derived from the date and a server salt.

package httpserver

import (
	"encoding/json"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/mastermind/internal/daily"
	"github.com/robalobadob/mastermind/internal/game"
	"github.com/robalobadob/mastermind/internal/store"
)

// dailyServer wraps dependencies for /daily endpoints.
type dailyServer struct {
	srv      *Server
	results  *daily.Store
	salt     string
	now      func() time.Time
	sessions store.Store[*dailySession] // keyed by userID|date
}

// dailySession holds transient in-memory state for an in-progress daily game.
type dailySession struct {
	mu    sync.Mutex
	g     *game.Game
	start time.Time
}

// mountDaily registers all /daily routes.
func (s *Server) mountDaily(r chi.Router) {
	dd := &dailyServer{
		srv:      s,
		results:  daily.NewStore(s.db),
		salt:     s.cfg.Daily.Salt,
		now:      time.Now,
		sessions: store.NewMemoryStore[*dailySession](),
	}
	r.Route("/daily", func(r chi.Router) {
		r.Post("/new", dd.handleNew)
		r.Post("/guess", dd.handleGuess)
		r.Get("/leaderboard", dd.handleLeaderboard)
	})
}

// playerID returns the authenticated user ID if logged in, otherwise the
// anonymous cookie id.
func (d *dailyServer) playerID(w http.ResponseWriter, r *http.Request) string {
	if me := userFrom(r.Context()); me != nil {
		return me.ID
	}
	return d.srv.ensureAnonID(w, r)
}

// newRes is returned by /daily/new.
type newRes struct {
	GameID string `json:"gameId"`
	Date   string `json:"date"`
	Played bool   `json:"played"`
	game.Rules
}

// handleNew creates or reuses a daily session for the current date.
//   - If the player already has a DB row for today → Played=true.
//   - Otherwise create/reuse an in-memory session and return GameID.
func (d *dailyServer) handleNew(w http.ResponseWriter, r *http.Request) {
	uid := d.playerID(w, r)
	now := d.now().UTC()
	date := daily.DateKey(now)
	rules := d.srv.rules

	if played, err := d.results.AlreadyPlayed(r.Context(), uid, date); err == nil && played {
		writeJSON(w, http.StatusOK, newRes{Date: date, Played: true, Rules: rules})
		return
	}

	// Yesterday's unfinished game can no longer be won.
	_ = d.sessions.Delete(r.Context(), uid+"|"+daily.DateKey(now.AddDate(0, 0, -1)))

	key := uid + "|" + date
	if sess, err := d.sessions.Get(r.Context(), key); err == nil {
		writeJSON(w, http.StatusOK, newRes{GameID: sess.g.ID, Date: date, Rules: rules})
		return
	}
	sess := &dailySession{
		g:     game.New(rules, daily.Secret(now, d.salt, rules), 0, nil),
		start: now,
	}
	if err := d.sessions.Save(r.Context(), key, sess); err != nil {
		writeError(w, http.StatusInternalServerError, "save_failed")
		return
	}
	writeJSON(w, http.StatusOK, newRes{GameID: sess.g.ID, Date: date, Rules: rules})
}

// dailyGuessReq is the request payload for /daily/guess.
type dailyGuessReq struct {
	GameID string `json:"gameId"`
	Guess  string `json:"guess"`
}

// dailyGuessRes is the response payload for /daily/guess.
type dailyGuessRes struct {
	Feedback string `json:"feedback"`
	State    string `json:"state"` // in_progress | won | locked
	Guesses  int    `json:"guesses"`
}

// handleGuess validates and applies a guess for today's daily session and
// persists the result on a win.
func (d *dailyServer) handleGuess(w http.ResponseWriter, r *http.Request) {
	uid := d.playerID(w, r)

	var p dailyGuessReq
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		writeError(w, http.StatusBadRequest, "bad_json")
		return
	}
	date := daily.DateKey(d.now())
	key := uid + "|" + date
	sess, err := d.sessions.Get(r.Context(), key)
	if err != nil {
		if played, _ := d.results.AlreadyPlayed(r.Context(), uid, date); played {
			writeJSON(w, http.StatusOK, dailyGuessRes{State: "locked"})
			return
		}
	}
	if err != nil || sess.g.ID != p.GameID {
		writeError(w, http.StatusConflict, "no session")
		return
	}

	sess.mu.Lock()
	defer sess.mu.Unlock()

	fb, state, err := sess.g.ApplyGuess(p.Guess)
	if errors.Is(err, game.ErrGameFinished) {
		writeJSON(w, http.StatusOK, dailyGuessRes{State: "locked", Guesses: len(sess.g.Guesses)})
		return
	}
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	guesses := len(sess.g.Guesses)

	if state == game.StateWon {
		res := daily.Result{
			UserID:    uid,
			Date:      date,
			Guesses:   guesses,
			ElapsedMs: int(d.now().Sub(sess.start).Milliseconds()),
		}
		if err := d.results.InsertResult(r.Context(), res); err != nil {
			log.Warn().Err(err).Str("user", uid).Msg("insert daily result")
		}
		_ = d.sessions.Delete(r.Context(), key)
		writeJSON(w, http.StatusOK, dailyGuessRes{Feedback: fb.String(), State: "won", Guesses: guesses})
		return
	}
	writeJSON(w, http.StatusOK, dailyGuessRes{Feedback: fb.String(), State: "in_progress", Guesses: guesses})
}

// lbRes is returned by /daily/leaderboard.
type lbRes struct {
	Date string        `json:"date"`
	Top  []daily.LBRow `json:"top"`
}

// handleLeaderboard returns the leaderboard for the given date (default today).
func (d *dailyServer) handleLeaderboard(w http.ResponseWriter, r *http.Request) {
	date := r.URL.Query().Get("date")
	if date == "" {
		date = daily.DateKey(d.now())
	}
	rows, err := d.results.Leaderboard(r.Context(), date, 20)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "server error")
		return
	}
	writeJSON(w, http.StatusOK, lbRes{Date: date, Top: rows})
}
