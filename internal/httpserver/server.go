// internal/httpserver/server.go
//
// HTTP server wiring for the Mastermind backend.
// Responsibilities:
//   - Router + middleware (JSON, CORS, timeouts, panic recovery, request IDs, access log).
//   - Public endpoints: "/", "/health".
//   - Game endpoints (optional auth): POST /game/new, POST /game/guess.
//   - Solver endpoints: computer breaker driven by a player-held secret (routes_solver.go).
//   - Daily Challenge endpoints (optional auth): mounted under /daily.
//   - Auth + profile/stat endpoints (auth.go).
//
// Live games are kept in memory; only owners, outcomes and accounts are
// written to the database.

package httpserver

import (
	"database/sql"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/mastermind/internal/config"
	"github.com/robalobadob/mastermind/internal/db"
	"github.com/robalobadob/mastermind/internal/game"
	"github.com/robalobadob/mastermind/internal/store"
)

// gameSession is a live game; mu serializes guesses on it.
type gameSession struct {
	mu    sync.Mutex
	g     *game.Game
	owner db.Owner
}

// Server bundles router, in-memory session stores, and DB handle.
type Server struct {
	r       *chi.Mux
	cfg     config.Config
	rules   game.Rules
	db      *sql.DB
	games   store.Store[*gameSession]
	solvers store.Store[*solverSession]
}

// New constructs a Server, installs middleware, and registers routes.
// It fails when cfg describes invalid game rules.
func New(cfg config.Config, database *sql.DB) (*Server, error) {
	rules, err := cfg.Rules()
	if err != nil {
		return nil, err
	}
	s := &Server{
		r:       chi.NewRouter(),
		cfg:     cfg,
		rules:   rules,
		db:      database,
		games:   store.NewMemoryStore[*gameSession](),
		solvers: store.NewMemoryStore[*solverSession](),
	}

	// --- middleware ---
	s.r.Use(chimw.RequestID)
	s.r.Use(chimw.RealIP)
	s.r.Use(accessLog)
	s.r.Use(chimw.Recoverer)
	if cfg.Server.RequestTimeout > 0 {
		s.r.Use(chimw.Timeout(cfg.Server.RequestTimeout))
	}
	s.r.Use(jsonContentType)
	s.r.Use(s.cors)

	// --- diagnostics ---
	s.r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{
			"service":   "mastermind",
			"endpoints": []string{"/health", "POST /game/new", "POST /game/guess", "POST /solver/new", "/daily/*", "/auth/*"},
		})
	})
	s.r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{
			"ok":      true,
			"games":   s.games.Len(),
			"solvers": s.solvers.Len(),
		})
	})

	// Game endpoints: optional auth, guests can play
	s.r.With(s.withOptionalAuth()).Post("/game/new", s.handleNewGame)
	s.r.With(s.withOptionalAuth()).Post("/game/guess", s.handleGuess)

	s.mountSolver(s.r)
	s.mountDaily(s.r.With(s.withOptionalAuth()))
	s.mountAuthRoutes()

	s.r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "not_found", "path": r.URL.Path})
	})
	return s, nil
}

// Handler exposes the router (useful for tests and http.Server).
func (s *Server) Handler() http.Handler { return s.r }

// Start serves HTTP on the configured port.
func (s *Server) Start() error {
	srv := &http.Server{
		Addr:              ":" + strconv.Itoa(s.cfg.Server.Port),
		Handler:           s.r,
		ReadHeaderTimeout: 5 * time.Second,
	}
	return srv.ListenAndServe()
}

// ----------------------------- middleware ----------------------------------

// jsonContentType sets a default JSON Content-Type header on all responses.
func jsonContentType(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		next.ServeHTTP(w, r)
	})
}

// cors enables credentialed CORS for the configured client origin.
func (s *Server) cors(next http.Handler) http.Handler {
	origin := s.cfg.Server.ClientOrigin
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Vary", "Origin")
		w.Header().Set("Access-Control-Allow-Origin", origin)
		w.Header().Set("Access-Control-Allow-Credentials", "true")
		w.Header().Set("Access-Control-Allow-Methods", "GET,POST,DELETE,OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// accessLog writes one zerolog line per request.
func accessLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		log.Info().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", ww.Status()).
			Dur("took", time.Since(start)).
			Str("reqId", chimw.GetReqID(r.Context())).
			Msg("request")
	})
}

// writeJSON encodes v with the given status code.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// decodeOptional decodes a JSON body; an empty body leaves v untouched.
func decodeOptional(r *http.Request, v any) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}

// writeError sends {"error": msg}.
func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// ------------------------------ rules --------------------------------------

// rulesReq lets a client override the server's default rules.
type rulesReq struct {
	Colors     int   `json:"colors"`
	Positions  int   `json:"positions"`
	Duplicates *bool `json:"duplicates"`
}

// resolve fills unset fields from def and validates the result.
func (q rulesReq) resolve(def game.Rules) (game.Rules, error) {
	r := def
	if q.Colors != 0 {
		r.Colors = q.Colors
	}
	if q.Positions != 0 {
		r.Positions = q.Positions
	}
	if q.Duplicates != nil {
		r.Duplicates = *q.Duplicates
	}
	return r, r.Validate()
}

// ------------------------------ GAME ---------------------------------------

// newGameReq/Res payloads for POST /game/new.
type newGameReq struct {
	rulesReq
	Answer string `json:"answer"` // optional fixed secret (testing)
}
type newGameRes struct {
	GameID     string `json:"gameId"`
	game.Rules
	MaxGuesses int `json:"maxGuesses"`
}

// handleNewGame creates a new in-memory game and persists a DB "owner" row
// (either user_id or anonymous_id) for history/stats.
func (s *Server) handleNewGame(w http.ResponseWriter, r *http.Request) {
	var req newGameReq
	if err := decodeOptional(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_json")
		return
	}
	rules, err := req.resolve(s.rules)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	var secret game.Code
	if req.Answer != "" {
		if secret, err = rules.ParseCode(req.Answer); err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
	}

	g := game.New(rules, secret, s.cfg.Server.MaxGuesses, game.NewRand(0))
	owner := s.owner(w, r)
	if err := s.games.Save(r.Context(), g.ID, &gameSession{g: g, owner: owner}); err != nil {
		log.Error().Err(err).Msg("save game")
		writeError(w, http.StatusInternalServerError, "save_failed")
		return
	}
	if err := db.InsertGame(r.Context(), s.db, g.ID, rules, owner); err != nil {
		log.Warn().Err(err).Str("gameId", g.ID).Msg("insert game row")
	}

	writeJSON(w, http.StatusOK, newGameRes{GameID: g.ID, Rules: rules, MaxGuesses: g.MaxGuesses})
}

// guessReq/Res payloads for POST /game/guess.
type guessReq struct {
	GameID string `json:"gameId"`
	Guess  string `json:"guess"`
}
type guessRes struct {
	Feedback string `json:"feedback"`
	State    string `json:"state"` // "playing" | "won" | "lost"
	Guesses  int    `json:"guesses"`
	Answer   string `json:"answer,omitempty"` // revealed once the game is lost
}

// handleGuess applies a guess to an in-memory game and persists progress
// (best effort, non-fatal if it fails). Only the game's owner may guess;
// finished games are dropped from memory.
func (s *Server) handleGuess(w http.ResponseWriter, r *http.Request) {
	var req guessReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_json")
		return
	}
	sess, err := s.games.Get(r.Context(), req.GameID)
	if err != nil {
		writeError(w, http.StatusNotFound, "not_found")
		return
	}
	if !s.owns(r, sess.owner) {
		writeError(w, http.StatusForbidden, "forbidden")
		return
	}

	sess.mu.Lock()
	fb, state, err := sess.g.ApplyGuess(req.Guess)
	guesses := len(sess.g.Guesses)
	secret := sess.g.Secret
	sess.mu.Unlock()

	switch {
	case errors.Is(err, game.ErrGameFinished):
		writeError(w, http.StatusConflict, err.Error())
		return
	case err != nil:
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := db.RecordGuess(r.Context(), s.db, req.GameID, s.owner(w, r), state); err != nil {
		log.Warn().Err(err).Str("gameId", req.GameID).Msg("record guess")
	}
	if state != game.StatePlaying {
		_ = s.games.Delete(r.Context(), req.GameID)
	}

	res := guessRes{Feedback: fb.String(), State: state, Guesses: guesses}
	if state == game.StateLost {
		res.Answer = secret.String()
	}
	writeJSON(w, http.StatusOK, res)
}
