// internal/game/engine.go
//
// Game engine for a single server-held Mastermind session.
// Responsibilities:
//   - Create new games with a computer-made secret (or a fixed one for tests).
//   - Validate and apply guesses against the rules.
//   - Score guesses with the package oracle (see Score).
//   - Track state transitions: playing → won/lost.
//
// randomID() is a compact hex identifier for correlating server state.
package game

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	mrand "math/rand/v2"
)

const (
	StatePlaying = "playing"
	StateWon     = "won"
	StateLost    = "lost"
)

var ErrGameFinished = errors.New("game finished")

// New constructs a new game instance.
// If secret is nil, a random secret is drawn from rng.
// The secret is assumed to be valid for rules.
func New(rules Rules, secret Code, maxGuesses int, rng *mrand.Rand) *Game {
	if secret == nil {
		secret = rules.RandomCode(rng)
	}
	return &Game{
		ID:         randomID(),
		Rules:      rules,
		Secret:     append(Code(nil), secret...),
		MaxGuesses: maxGuesses,
	}
}

// ApplyGuess validates and scores a guess, mutating the game state.
// Returns: the feedback, the new state ("playing"/"won"/"lost"), or an error.
//
// State transitions:
//   - All pegs black → Finished = true, Won = true.
//   - Else if MaxGuesses > 0 and the guess count reaches it → Finished = true (loss).
func (g *Game) ApplyGuess(raw string) (Feedback, string, error) {
	if g.Finished {
		return nil, g.State(), ErrGameFinished
	}
	guess, err := g.Rules.ParseCode(raw)
	if err != nil {
		return nil, g.State(), err
	}

	fb := Score(g.Secret, guess)
	g.Guesses = append(g.Guesses, guess)
	g.Feedback = append(g.Feedback, fb)

	if fb.Solved() {
		g.Finished, g.Won = true, true
	} else if g.MaxGuesses > 0 && len(g.Guesses) >= g.MaxGuesses {
		g.Finished = true
	}
	return fb, g.State(), nil
}

// State reports a coarse string representation of the current game state.
func (g *Game) State() string {
	if g.Finished {
		if g.Won {
			return StateWon
		}
		return StateLost
	}
	return StatePlaying
}

// randomID returns a compact 16-hex-char identifier.
func randomID() string {
	var b [8]byte
	_, _ = rand.Read(b[:])
	return hex.EncodeToString(b[:])
}
