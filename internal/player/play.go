package player

import (
	"errors"
	"fmt"
	"io"

	"github.com/rs/zerolog/log"

	"github.com/robalobadob/mastermind/internal/game"
	"github.com/robalobadob/mastermind/internal/solver"
)

// ErrTurnLimit is returned when a game runs past Options.MaxTurns.
var ErrTurnLimit = errors.New("turn limit reached")

// Turn is one guess and the feedback it earned.
type Turn struct {
	Guess    game.Code
	Feedback game.Feedback
}

// Result summarizes a finished game.
type Result struct {
	Turns  []Turn
	Solved bool
}

// Guesses is the number of guesses made.
func (r Result) Guesses() int { return len(r.Turns) }

// Options tune the turn loop. The zero value prints nothing and never
// gives up.
type Options struct {
	Out      io.Writer // receives "<guess> <feedback>" lines; nil discards
	MaxTurns int       // 0 means unlimited
}

// Play runs one game: the maker invents a code, then the breaker guesses
// until every peg is black.
//
// When the breaker cannot produce a guess the game stops with
// solver.ErrNoGuess; that happens only if a human gave inconsistent
// feedback.
func Play(maker CodeMaker, breaker CodeBreaker, opts Options) (Result, error) {
	out := opts.Out
	if out == nil {
		out = io.Discard
	}
	var res Result
	if err := maker.MakeCode(); err != nil {
		return res, fmt.Errorf("make code: %w", err)
	}
	for {
		if opts.MaxTurns > 0 && len(res.Turns) >= opts.MaxTurns {
			return res, ErrTurnLimit
		}
		guess, err := breaker.MakeGuess()
		if errors.Is(err, solver.ErrNoGuess) {
			fmt.Fprintln(out, "Guess could not be made. Make sure your input is valid.")
			return res, err
		}
		if err != nil {
			return res, fmt.Errorf("make guess: %w", err)
		}
		fb, err := maker.GiveFeedback(guess)
		if err != nil {
			return res, fmt.Errorf("give feedback: %w", err)
		}
		res.Turns = append(res.Turns, Turn{Guess: guess, Feedback: fb})
		fmt.Fprintln(out, guess, fb)
		log.Debug().Int("turn", len(res.Turns)).Str("guess", guess.String()).Str("feedback", fb.String()).Msg("turn")

		if fb.Solved() {
			res.Solved = true
			return res, nil
		}
		breaker.ReceiveFeedback(guess, fb)
	}
}
