// internal/httpserver/routes_solver.go
//
// HTTP routes where the server plays code breaker against a secret the
// client keeps to itself:
//   - POST   /solver/new           → start a solver session
//   - GET    /solver/{id}/guess    → next guess consistent with all feedback
//   - POST   /solver/{id}/feedback → report the pegs for a guess
//   - DELETE /solver/{id}          → drop the session
//
// The client is trusted to score honestly; inconsistent feedback shows up
// as 409 no_guess on the next guess.

package httpserver

import (
	"encoding/json"
	"errors"
	"net/http"
	"sync"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/mastermind/internal/game"
	"github.com/robalobadob/mastermind/internal/player"
	"github.com/robalobadob/mastermind/internal/solver"
)

// solverSession is one computer breaker; mu serializes its turns.
type solverSession struct {
	mu      sync.Mutex
	rules   game.Rules
	breaker *player.ComputerCodeBreaker
	turns   int
	solved  bool
}

func (s *Server) mountSolver(r chi.Router) {
	r.Route("/solver", func(r chi.Router) {
		r.Post("/new", s.handleSolverNew)
		r.Get("/{id}/guess", s.handleSolverGuess)
		r.Post("/{id}/feedback", s.handleSolverFeedback)
		r.Delete("/{id}", s.handleSolverDelete)
	})
}

type solverNewReq struct {
	rulesReq
	Seed uint64 `json:"seed"` // optional, for reproducible sessions
}
type solverNewRes struct {
	SolverID string `json:"solverId"`
	game.Rules
}

func (s *Server) handleSolverNew(w http.ResponseWriter, r *http.Request) {
	var req solverNewReq
	if err := decodeOptional(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_json")
		return
	}
	rules, err := req.resolve(s.rules)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	id := genID()
	sess := &solverSession{
		rules:   rules,
		breaker: player.NewComputerCodeBreaker(rules, game.NewRand(req.Seed)),
	}
	if err := s.solvers.Save(r.Context(), id, sess); err != nil {
		log.Error().Err(err).Msg("save solver")
		writeError(w, http.StatusInternalServerError, "save_failed")
		return
	}
	writeJSON(w, http.StatusOK, solverNewRes{SolverID: id, Rules: rules})
}

type solverGuessRes struct {
	Guess      string `json:"guess"`
	Candidates int    `json:"candidates"`
}

func (s *Server) handleSolverGuess(w http.ResponseWriter, r *http.Request) {
	sess, err := s.solvers.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusNotFound, "not_found")
		return
	}
	sess.mu.Lock()
	defer sess.mu.Unlock()

	if sess.solved {
		writeError(w, http.StatusConflict, "solved")
		return
	}
	guess, err := sess.breaker.MakeGuess()
	if errors.Is(err, solver.ErrNoGuess) {
		writeError(w, http.StatusConflict, "no_guess")
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, solverGuessRes{Guess: guess.String(), Candidates: sess.breaker.Tracker().Candidates()})
}

type solverFeedbackReq struct {
	Guess    string `json:"guess"`
	Feedback string `json:"feedback"`
}
type solverFeedbackRes struct {
	Turns            int  `json:"turns"`
	Candidates       int  `json:"candidates"`
	RightColorsFound bool `json:"rightColorsFound"`
	Solved           bool `json:"solved"`
}

func (s *Server) handleSolverFeedback(w http.ResponseWriter, r *http.Request) {
	sess, err := s.solvers.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusNotFound, "not_found")
		return
	}
	var req solverFeedbackReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_json")
		return
	}
	guess, err := sess.rules.ParseCode(req.Guess)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	fb, err := sess.rules.ParseFeedback(req.Feedback)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	sess.mu.Lock()
	defer sess.mu.Unlock()
	if sess.solved {
		writeError(w, http.StatusConflict, "solved")
		return
	}
	sess.turns++
	if fb.Solved() {
		sess.solved = true
	} else {
		sess.breaker.ReceiveFeedback(guess, fb)
	}
	t := sess.breaker.Tracker()
	writeJSON(w, http.StatusOK, solverFeedbackRes{
		Turns:            sess.turns,
		Candidates:       t.Candidates(),
		RightColorsFound: t.RightColorsFound(),
		Solved:           sess.solved,
	})
}

func (s *Server) handleSolverDelete(w http.ResponseWriter, r *http.Request) {
	_ = s.solvers.Delete(r.Context(), chi.URLParam(r, "id"))
	writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
}
